package cache

import (
	"context"
	"errors"
	"time"

	"github.com/allegro/bigcache/v3"
)

var ErrCacheMiss = errors.New("cache_miss")

type BigCache struct {
	Cache *bigcache.BigCache
}

// NewBigCache keeps entries at most allKeysExpTime. The background cleaner
// is disabled; expired entries are dropped when read.
func NewBigCache(allKeysExpTime time.Duration) (*BigCache, error) {
	config := bigcache.DefaultConfig(allKeysExpTime)
	config.Shards = 64
	config.MaxEntriesInWindow = 10 * 1024
	config.MaxEntrySize = 2048
	config.CleanWindow = 0

	cache, err := bigcache.New(context.Background(), config)
	if err != nil {
		return nil, err
	}
	return &BigCache{Cache: cache}, nil
}

func (s *BigCache) Set(key string, entry []byte) (err error) {
	return s.Cache.Set(key, entry)
}

func (s *BigCache) Get(key string) ([]byte, error) {
	data, err := s.Cache.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil, ErrCacheMiss
	}
	return data, err
}

func (s *BigCache) Delete(key string) error {
	err := s.Cache.Delete(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil
	}
	return err
}

func (s *BigCache) Len() int {
	return s.Cache.Len()
}
