package schema

const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
	NetworkDevnet  = "devnet"
	NetworkCustom  = "custom"
)

type Settings struct {
	Network                  string   `json:"network"`
	RpcUrl                   string   `json:"rpcUrl"`
	AutoRedirect             bool     `json:"autoRedirect"`
	WebsiteKeys              []string `json:"websiteKeys"`
	ShowDetailsWhenNoWebsite bool     `json:"showDetailsWhenNoWebsite"`
	CacheTtlMs               int64    `json:"cacheTtlMs"`
	ContextMenusEnabled      bool     `json:"contextMenusEnabled"`
}

// SettingsPatch is a partial update; nil fields are left untouched.
type SettingsPatch struct {
	Network                  *string  `json:"network"`
	RpcUrl                   *string  `json:"rpcUrl"`
	AutoRedirect             *bool    `json:"autoRedirect"`
	WebsiteKeys              []string `json:"websiteKeys"`
	ShowDetailsWhenNoWebsite *bool    `json:"showDetailsWhenNoWebsite"`
	CacheTtlMs               *int64   `json:"cacheTtlMs"`
	ContextMenusEnabled      *bool    `json:"contextMenusEnabled"`
}

func DefaultSettings() Settings {
	return Settings{
		Network: NetworkMainnet,
		RpcUrl:  "https://api.mainnet.iota.cafe:443",
		// redirecting away from the typed .iota URL is opt-in
		AutoRedirect:             false,
		WebsiteKeys:              []string{"website", "url", "web", "homepage", "link"},
		ShowDetailsWhenNoWebsite: true,
		CacheTtlMs:               5 * 60 * 1000,
		ContextMenusEnabled:      true,
	}
}

func PresetRpcUrl(network string) string {
	switch network {
	case NetworkMainnet, NetworkTestnet, NetworkDevnet:
		return "https://api." + network + ".iota.cafe:443"
	}
	return ""
}
