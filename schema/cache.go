package schema

// CacheEntry is the stored form of a resolution inside the byte cache.
type CacheEntry struct {
	Value     *ResolutionRecord `json:"value"`
	ExpiresAt int64             `json:"expiresAt"` // unix ms
}
