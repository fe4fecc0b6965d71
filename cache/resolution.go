package cache

import (
	"encoding/json"
	"time"

	"github.com/iotanames/inresolver/schema"
)

// ResolutionCache memoizes registry answers per (endpoint, name). Each entry
// carries its own expiry; nothing sweeps in the background, an expired entry
// is evicted by the lookup that finds it.
type ResolutionCache struct {
	store ICache
	now   func() time.Time
}

func NewResolutionCache(store ICache, now func() time.Time) *ResolutionCache {
	if now == nil {
		now = time.Now
	}
	return &ResolutionCache{store: store, now: now}
}

func Key(endpoint, name string) string {
	return "resolve:" + endpoint + ":" + name
}

// Get reports a live entry. A nil record with ok=true is a cached "no such name".
func (c *ResolutionCache) Get(key string) (record *schema.ResolutionRecord, ok bool) {
	by, err := c.store.Get(key)
	if err != nil {
		return nil, false
	}
	entry := schema.CacheEntry{}
	if err := json.Unmarshal(by, &entry); err != nil {
		_ = c.store.Delete(key)
		return nil, false
	}
	if entry.ExpiresAt < c.now().UnixMilli() {
		_ = c.store.Delete(key)
		return nil, false
	}
	return entry.Value, true
}

func (c *ResolutionCache) Set(key string, record *schema.ResolutionRecord, ttlMs int64) error {
	by, err := json.Marshal(schema.CacheEntry{
		Value:     record,
		ExpiresAt: c.now().UnixMilli() + ttlMs,
	})
	if err != nil {
		return err
	}
	return c.store.Set(key, by)
}
