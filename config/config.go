// Package config keeps the user settings. Every field lives under its own key
// so a partial write never clobbers the rest, and reads always start from the
// defaults.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/iotanames/inresolver/common"
	"github.com/iotanames/inresolver/rawdb"
	"github.com/iotanames/inresolver/schema"
)

var log = common.NewLog("config")

const (
	fieldNetwork                  = "network"
	fieldRpcUrl                   = "rpcUrl"
	fieldAutoRedirect             = "autoRedirect"
	fieldWebsiteKeys              = "websiteKeys"
	fieldShowDetailsWhenNoWebsite = "showDetailsWhenNoWebsite"
	fieldCacheTtlMs               = "cacheTtlMs"
	fieldContextMenusEnabled      = "contextMenusEnabled"
)

type Config struct {
	db            rawdb.KeyValueDB
	maxCacheTtlMs int64
}

func New(db rawdb.KeyValueDB) *Config {
	return &Config{db: db}
}

// SetMaxCacheTtl bounds cacheTtlMs to what the backing cache keeps alive.
// Zero leaves it unbounded.
func (c *Config) SetMaxCacheTtl(d time.Duration) {
	c.maxCacheTtlMs = d.Milliseconds()
}

// Get reads the stored fields fresh and overlays them on the defaults.
func (c *Config) Get() (schema.Settings, error) {
	settings := schema.DefaultSettings()
	keys, err := c.db.GetAllKey(schema.SettingsBucket)
	if err != nil {
		return settings, err
	}
	stored := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		by, err := c.db.Get(schema.SettingsBucket, k)
		if err != nil {
			return settings, err
		}
		stored[k] = by
	}
	if len(stored) == 0 {
		return settings, nil
	}
	by, err := json.Marshal(stored)
	if err != nil {
		return settings, err
	}
	if err := json.Unmarshal(by, &settings); err != nil {
		log.Warn("stored settings are unreadable, using defaults", "err", err)
		return schema.DefaultSettings(), nil
	}
	return settings, nil
}

func (c *Config) SetRpcUrl(rpcUrl string) error {
	return c.put(fieldRpcUrl, rpcUrl)
}

// Update validates and writes the non-nil fields of patch.
func (c *Config) Update(patch schema.SettingsPatch) (schema.Settings, error) {
	fields := make(map[string]interface{})

	if patch.Network != nil {
		network := strings.TrimSpace(*patch.Network)
		switch network {
		case schema.NetworkMainnet, schema.NetworkTestnet, schema.NetworkDevnet, schema.NetworkCustom:
		default:
			return schema.Settings{}, fmt.Errorf("%w: unknown network %q", schema.ErrInvalidSettings, network)
		}
		fields[fieldNetwork] = network
		if preset := schema.PresetRpcUrl(network); preset != "" && patch.RpcUrl == nil {
			fields[fieldRpcUrl] = preset
		}
	}
	if patch.RpcUrl != nil {
		rpcUrl := strings.TrimSpace(*patch.RpcUrl)
		if rpcUrl == "" {
			rpcUrl = schema.DefaultSettings().RpcUrl
		}
		if !isAbsoluteHttpUrl(rpcUrl) {
			return schema.Settings{}, fmt.Errorf("%w: rpcUrl must be an absolute http(s) url", schema.ErrInvalidSettings)
		}
		fields[fieldRpcUrl] = rpcUrl
	}
	if patch.AutoRedirect != nil {
		fields[fieldAutoRedirect] = *patch.AutoRedirect
	}
	if patch.WebsiteKeys != nil {
		keys := make([]string, 0, len(patch.WebsiteKeys))
		for _, k := range patch.WebsiteKeys {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			keys = schema.DefaultSettings().WebsiteKeys
		}
		fields[fieldWebsiteKeys] = keys
	}
	if patch.ShowDetailsWhenNoWebsite != nil {
		fields[fieldShowDetailsWhenNoWebsite] = *patch.ShowDetailsWhenNoWebsite
	}
	if patch.CacheTtlMs != nil {
		if *patch.CacheTtlMs < 0 {
			return schema.Settings{}, fmt.Errorf("%w: cacheTtlMs must not be negative", schema.ErrInvalidSettings)
		}
		if c.maxCacheTtlMs > 0 && *patch.CacheTtlMs > c.maxCacheTtlMs {
			return schema.Settings{}, fmt.Errorf("%w: cacheTtlMs must not exceed %d", schema.ErrInvalidSettings, c.maxCacheTtlMs)
		}
		fields[fieldCacheTtlMs] = *patch.CacheTtlMs
	}
	if patch.ContextMenusEnabled != nil {
		fields[fieldContextMenusEnabled] = *patch.ContextMenusEnabled
	}

	for k, v := range fields {
		if err := c.put(k, v); err != nil {
			return schema.Settings{}, err
		}
	}
	return c.Get()
}

func (c *Config) put(field string, value interface{}) error {
	by, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.db.Put(schema.SettingsBucket, field, by)
}

func isAbsoluteHttpUrl(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
