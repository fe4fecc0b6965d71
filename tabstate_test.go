package inresolver

import (
	"testing"

	"github.com/iotanames/inresolver/rawdb"
	"github.com/iotanames/inresolver/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabStore(t *testing.T) {
	local, err := rawdb.NewBoltDB(t.TempDir())
	require.NoError(t, err)
	defer local.Close()
	tabs := NewTabStore(nil, local)

	last, err := tabs.GetLast(1)
	assert.NoError(t, err)
	assert.Nil(t, last)

	require.NoError(t, tabs.SetLast(1, schema.ResolutionPayload{Name: "a.iota", WebsiteUrl: "https://a.example"}))
	require.NoError(t, tabs.SetLast(1, schema.ResolutionPayload{Name: "b.iota", Error: "boom"}))
	require.NoError(t, tabs.SetLast(2, schema.ResolutionPayload{Name: "c.iota"}))

	// last write wins
	last, err = tabs.GetLast(1)
	require.NoError(t, err)
	assert.Equal(t, "b.iota", last.Name)
	assert.Equal(t, "boom", last.Error)
	assert.Empty(t, last.WebsiteUrl)

	n, err := tabs.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	tabs.OnTabRemoved(1)
	last, err = tabs.GetLast(1)
	assert.NoError(t, err)
	assert.Nil(t, last)

	// closing an unknown tab is harmless
	tabs.OnTabRemoved(42)
	n, err = tabs.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
