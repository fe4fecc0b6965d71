package inresolver

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/iotanames/inresolver/cache"
	"github.com/iotanames/inresolver/schema"
)

type Caller interface {
	Call(ctx context.Context, endpoint, method string, params interface{}) (json.RawMessage, error)
}

type SettingsStore interface {
	Get() (schema.Settings, error)
	SetRpcUrl(rpcUrl string) error
}

// Resolver looks names up against the configured endpoint. Concurrent lookups
// of the same name are not coalesced: each miss goes to the network.
type Resolver struct {
	caller   Caller
	settings SettingsStore
	cache    *cache.ResolutionCache
}

func NewResolver(caller Caller, settings SettingsStore, resolutionCache *cache.ResolutionCache) *Resolver {
	return &Resolver{
		caller:   caller,
		settings: settings,
		cache:    resolutionCache,
	}
}

// Resolve returns the registry record for name, nil when the registry knows
// nothing about it.
func (r *Resolver) Resolve(ctx context.Context, name string) (*schema.ResolutionRecord, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	settings, err := r.settings.Get()
	if err != nil {
		return nil, err
	}

	// the key is fixed before any endpoint correction below
	cacheKey := cache.Key(settings.RpcUrl, name)
	if record, ok := r.cache.Get(cacheKey); ok {
		metricResolve("cache", "ok")
		return record, nil
	}

	source := "primary"
	raw, err := r.caller.Call(ctx, settings.RpcUrl, schema.NamesLookup, []string{name})
	if err != nil {
		fallback := InferIndexerUrl(settings.RpcUrl)
		if fallback == settings.RpcUrl {
			metricResolve(source, "error")
			return nil, err
		}
		log.Warn("primary endpoint failed, trying fallback", "err", err, "endpoint", settings.RpcUrl, "fallback", fallback)
		var fbErr error
		raw, fbErr = r.caller.Call(ctx, fallback, schema.NamesLookup, []string{name})
		if fbErr != nil {
			log.Error("fallback endpoint failed", "err", fbErr, "fallback", fallback, "name", name)
			metricResolve("fallback", "error")
			return nil, err
		}
		source = "fallback"
		if err := r.settings.SetRpcUrl(fallback); err != nil {
			log.Error("persist fallback rpcUrl failed", "err", err, "rpcUrl", fallback)
		}
	}

	record, err := decodeRecord(raw)
	if err != nil {
		metricResolve(source, "error")
		return nil, err
	}
	if err := r.cache.Set(cacheKey, record, settings.CacheTtlMs); err != nil {
		log.Warn("cache resolution failed", "err", err, "key", cacheKey)
	}
	metricResolve(source, "ok")
	return record, nil
}

func decodeRecord(raw json.RawMessage) (*schema.ResolutionRecord, error) {
	var record *schema.ResolutionRecord
	if len(raw) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, &schema.TransportError{Err: err}
	}
	return record, nil
}

// InferIndexerUrl swaps a leading "api." host label for "indexer.". The input
// is returned untouched when there is nothing to swap.
func InferIndexerUrl(rpcUrl string) string {
	u, err := url.Parse(rpcUrl)
	if err != nil || u.Host == "" {
		return rpcUrl
	}
	host := u.Hostname()
	if !strings.HasPrefix(strings.ToLower(host), "api.") {
		return rpcUrl
	}
	newHost := "indexer." + host[len("api."):]
	if port := u.Port(); port != "" {
		newHost += ":" + port
	}
	u.Host = newHost
	return u.String()
}
