package inresolver

import (
	"errors"
	"net/url"
	"testing"

	"github.com/iotanames/inresolver/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func redirectSettings() schema.Settings {
	s := schema.DefaultSettings()
	s.AutoRedirect = true
	return s
}

func TestDecide_OptOutBeatsRedirect(t *testing.T) {
	for _, raw := range []string{
		"https://example.iota/?inr_no_redirect=1",
		"https://example.iota/?inrNoRedirect=true",
		"https://example.iota/?inr-no-redirect=yes",
		"https://example.iota/#inr-no-redirect",
		"https://example.iota/page#top,INR_NO_REDIRECT",
	} {
		for _, preview := range []bool{true, false} {
			d := Decide(DecisionInput{
				Url:              mustParse(t, raw),
				Settings:         redirectSettings(),
				WebsiteUrl:       "https://x.io",
				PreviewAvailable: preview,
			})
			assert.Equal(t, schema.ActionDetails, d.Action, raw)
		}
	}
}

func TestHasOptOut_FalsyValues(t *testing.T) {
	for _, raw := range []string{
		"https://example.iota/",
		"https://example.iota/?inr_no_redirect=0",
		"https://example.iota/?inr_no_redirect=false",
		"https://example.iota/?inr_no_redirect=NO",
		"https://example.iota/?inr_no_redirect=",
		"https://example.iota/?other=1#top",
		// the first non-empty spelling decides
		"https://example.iota/?inr_no_redirect=0&inrNoRedirect=1",
	} {
		assert.False(t, HasOptOut(mustParse(t, raw)), raw)
	}
	assert.True(t, HasOptOut(mustParse(t, "https://example.iota/?inr_no_redirect=&inrNoRedirect=1")))
	assert.False(t, HasOptOut(nil))
}

func TestDecide_Failure(t *testing.T) {
	d := Decide(DecisionInput{
		Url:        mustParse(t, "https://example.iota/"),
		Settings:   redirectSettings(),
		WebsiteUrl: "https://x.io",
		Err:        errors.New("boom"),
	})
	assert.Equal(t, schema.ActionDetails, d.Action)
}

func TestDecide_PreviewOrDirect(t *testing.T) {
	in := DecisionInput{
		Url:              mustParse(t, "https://example.iota/docs/intro?lang=en#install"),
		Settings:         redirectSettings(),
		WebsiteUrl:       "https://x.io",
		PreviewAvailable: true,
	}
	d := Decide(in)
	assert.Equal(t, schema.ActionPreview, d.Action)
	assert.Equal(t, "https://x.io/docs/intro?lang=en#install", d.Target)

	in.PreviewAvailable = false
	d = Decide(in)
	assert.Equal(t, schema.ActionDirect, d.Action)
	assert.Equal(t, "https://x.io/docs/intro?lang=en#install", d.Target)
}

func TestDecide_NoWebsite(t *testing.T) {
	settings := redirectSettings()
	d := Decide(DecisionInput{Url: mustParse(t, "https://example.iota/"), Settings: settings})
	assert.Equal(t, schema.ActionDetails, d.Action)

	settings.ShowDetailsWhenNoWebsite = false
	d = Decide(DecisionInput{Url: mustParse(t, "https://example.iota/"), Settings: settings})
	assert.Equal(t, schema.ActionNone, d.Action)

	// a website without autoRedirect is not followed
	settings.AutoRedirect = false
	d = Decide(DecisionInput{Url: mustParse(t, "https://example.iota/"), Settings: settings, WebsiteUrl: "https://x.io"})
	assert.Equal(t, schema.ActionNone, d.Action)
}

func TestMergeTarget(t *testing.T) {
	original := mustParse(t, "https://example.iota/a/b?q=1#f")
	assert.Equal(t, "https://x.io/a/b?q=1#f", MergeTarget("https://x.io", original))
	assert.Equal(t, "https://x.io/a/b?q=1#f", MergeTarget("https://x.io/", original))
	assert.Equal(t, "https://x.io/keep?q=1#f", MergeTarget("https://x.io/keep", original))
	assert.Equal(t, "https://x.io/a/b?own=1#f", MergeTarget("https://x.io?own=1", original))
	assert.Equal(t, "https://x.io/a/b?q=1#mine", MergeTarget("https://x.io#mine", original))

	assert.Equal(t, "https://x.io/", MergeTarget("https://x.io/", mustParse(t, "https://example.iota/")))
	assert.Equal(t, "https://x.io", MergeTarget("https://x.io", mustParse(t, "https://example.iota")))
}
