package cache

import (
	"testing"
	"time"

	"github.com/iotanames/inresolver/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalCache(t *testing.T) {
	cache, err := NewLocalCache(time.Second * 1)
	require.NoError(t, err)

	err = cache.Cache.Set("test-key", []byte("test-data"))
	assert.NoError(t, err)

	data, err := cache.Cache.Get("test-key")
	assert.NoError(t, err)
	assert.Equal(t, "test-data", string(data))

	assert.NoError(t, cache.Cache.Delete("test-key"))
	_, err = cache.Cache.Get("test-key")
	assert.Equal(t, ErrCacheMiss, err)

	// deleting a missing key is fine
	assert.NoError(t, cache.Cache.Delete("test-key"))
}

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }

func newTestResolutionCache(t *testing.T) (*ResolutionCache, *fakeClock, *BigCache) {
	bc, err := NewBigCache(time.Hour)
	require.NoError(t, err)
	clock := &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
	return NewResolutionCache(bc, clock.now), clock, bc
}

func TestResolutionCache_LiveAndExpired(t *testing.T) {
	c, clock, bc := newTestResolutionCache(t)
	key := Key("https://api.mainnet.iota.cafe:443", "example.iota")
	record := &schema.ResolutionRecord{
		TargetAddress: "0xabc",
		Data:          map[string]string{"website": "https://example.org"},
	}

	require.NoError(t, c.Set(key, record, 1000))

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, record, got)

	// the boundary itself is still live
	clock.t = clock.t.Add(1000 * time.Millisecond)
	_, ok = c.Get(key)
	assert.True(t, ok)

	clock.t = clock.t.Add(time.Millisecond)
	_, ok = c.Get(key)
	assert.False(t, ok)

	// evicted on the lookup that found it expired
	_, err := bc.Get(key)
	assert.Equal(t, ErrCacheMiss, err)
}

func TestResolutionCache_NilRecord(t *testing.T) {
	c, _, _ := newTestResolutionCache(t)
	key := Key("https://rpc", "missing.iota")
	require.NoError(t, c.Set(key, nil, 60_000))

	got, ok := c.Get(key)
	assert.True(t, ok)
	assert.Nil(t, got)
}

func TestResolutionCache_KeyedByEndpoint(t *testing.T) {
	c, _, _ := newTestResolutionCache(t)
	rec := &schema.ResolutionRecord{NftId: "0x1"}
	require.NoError(t, c.Set(Key("https://api.a", "x.iota"), rec, 60_000))

	_, ok := c.Get(Key("https://indexer.a", "x.iota"))
	assert.False(t, ok)
	_, ok = c.Get(Key("https://api.a", "x.iota"))
	assert.True(t, ok)
}

func TestResolutionCache_CorruptEntry(t *testing.T) {
	c, _, bc := newTestResolutionCache(t)
	require.NoError(t, bc.Set("resolve:bad", []byte("{")))
	_, ok := c.Get("resolve:bad")
	assert.False(t, ok)
	_, err := bc.Get("resolve:bad")
	assert.Equal(t, ErrCacheMiss, err)
}
