package inresolver

import (
	"testing"

	"github.com/iotanames/inresolver/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateTabMetrics(t *testing.T) {
	f := newInrFixture(t)
	require.NoError(t, f.inr.tabs.SetLast(1, schema.ResolutionPayload{Name: "a.iota"}))
	require.NoError(t, f.inr.tabs.SetLast(2, schema.ResolutionPayload{Name: "b.iota"}))

	f.inr.updateTabMetrics()
	assert.Equal(t, float64(2), testutil.ToFloat64(tabEntriesGauge))
}

func TestSweepPreviews(t *testing.T) {
	f := newInrFixture(t)
	id, err := f.inr.previews.Open("a.iota", "https://a.example/", f.inr.DetailsUrl("a.iota", 1))
	require.NoError(t, err)
	_, err = f.inr.previews.Open("a.iota", "https://a.example/", f.inr.DetailsUrl("a.iota", 1))
	require.NoError(t, err)

	ctrl, err := f.inr.previews.Get(id)
	require.NoError(t, err)
	ctrl.Cancel()

	f.inr.sweepPreviews()
	assert.Equal(t, 1, f.inr.previews.Len())
	assert.Equal(t, float64(1), testutil.ToFloat64(previewSessionsGauge))
}
