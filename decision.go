package inresolver

import (
	"net/url"
	"strings"

	"github.com/iotanames/inresolver/schema"
)

var (
	optOutParams    = []string{schema.OptOutParam, "inrNoRedirect", "inr-no-redirect"}
	optOutFragments = []string{"inr-no-redirect", "inr_no_redirect"}
)

type DecisionInput struct {
	Url              *url.URL
	Settings         schema.Settings
	WebsiteUrl       string
	Err              error
	PreviewAvailable bool
}

type Decision struct {
	Action schema.Action
	// Target is the merged website URL for Preview and Direct.
	Target string
}

// Decide is the pure navigation decision. Order matters: the opt-out marker
// beats everything, then failure, then the redirect settings.
func Decide(in DecisionInput) Decision {
	switch {
	case HasOptOut(in.Url):
		return Decision{Action: schema.ActionDetails}
	case in.Err != nil:
		return Decision{Action: schema.ActionDetails}
	case in.Settings.AutoRedirect && in.WebsiteUrl != "":
		action := schema.ActionDirect
		if in.PreviewAvailable {
			action = schema.ActionPreview
		}
		return Decision{Action: action, Target: MergeTarget(in.WebsiteUrl, in.Url)}
	case in.Settings.ShowDetailsWhenNoWebsite:
		return Decision{Action: schema.ActionDetails}
	}
	return Decision{Action: schema.ActionNone}
}

// HasOptOut reports a truthy opt-out query parameter (first non-empty
// spelling wins) or an opt-out token in the fragment.
func HasOptOut(u *url.URL) bool {
	if u == nil {
		return false
	}
	query := u.Query()
	value := ""
	for _, p := range optOutParams {
		if value = query.Get(p); value != "" {
			break
		}
	}
	if isTruthy(value) {
		return true
	}

	fragment := strings.ToLower(u.Fragment)
	for _, token := range optOutFragments {
		if strings.Contains(fragment, token) {
			return true
		}
	}
	return false
}

// MergeTarget lets an origin-only website keep the path, query and fragment
// the user navigated to.
func MergeTarget(websiteUrl string, original *url.URL) string {
	dest, err := url.Parse(websiteUrl)
	if err != nil || original == nil {
		return websiteUrl
	}
	if (dest.Path == "" || dest.Path == "/") && original.Path != "" && original.Path != "/" {
		dest.Path = original.Path
		dest.RawPath = original.RawPath
	}
	if dest.RawQuery == "" && original.RawQuery != "" {
		dest.RawQuery = original.RawQuery
	}
	if dest.Fragment == "" && original.Fragment != "" {
		dest.Fragment = original.Fragment
		dest.RawFragment = original.RawFragment
	}
	return dest.String()
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "", "0", "false", "no":
		return false
	}
	return true
}
