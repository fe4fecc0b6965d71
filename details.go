package inresolver

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/iotanames/inresolver/schema"
	"github.com/shopspring/decimal"
)

const placeholder = "–"

type MetaItem struct {
	Key   string // key as stored on chain
	Label string
	Value string
	Href  string
	Kind  string // link, text, wallet, avatar
}

type MetaGroup struct {
	Title    string
	Subtitle string
	Items    []MetaItem
}

// DetailsView is everything the details page shows for one payload.
type DetailsView struct {
	Name          string
	Error         string
	TargetAddress string
	Expiration    string
	NftId         string
	WebsiteUrl    string
	ResolvedAt    string
	Groups        []MetaGroup
	Raw           string
}

type metaKey struct {
	id, chain, label string
}

var metaGroups = []struct {
	title string
	keys  []metaKey
}{
	{"Profile", []metaKey{{"avatar", "avatar", "Avatar"}, {"website", "website", "Website"}, {"email", "email", "Email"}}},
	{"Social", []metaKey{{"twitterX", "twitter/x", "Twitter / X"}, {"discord", "discord", "Discord"}, {"github", "github", "Github"}}},
	{"Wallets", []metaKey{
		{"btc", "btc", "Bitcoin (BTC)"}, {"eth", "eth", "Ethereum (ETH)"}, {"ltc", "ltc", "Litecoin (LTC)"},
		{"doge", "doge", "Dogecoin (DOGE)"}, {"sol", "sol", "Solana (SOL)"}, {"sui", "sui", "Sui (SUI)"},
	}},
	{"Storage", []metaKey{{"ipfs", "ipfs", "IPFS"}, {"arweave", "arweave", "Arweave"}}},
}

var (
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	twitterRe = regexp.MustCompile(`(?i)^[a-z0-9_]{1,15}$`)
	githubRe  = regexp.MustCompile(`(?i)^[a-z0-9-]{1,39}$`)
	cidRe     = regexp.MustCompile(`(?i)^[a-z0-9]{46,}$`)
	arTxRe    = regexp.MustCompile(`(?i)^[a-z0-9_-]{43}$`)
)

func BuildDetailsView(name string, payload *schema.ResolutionPayload) DetailsView {
	v := DetailsView{
		Name:          name,
		TargetAddress: placeholder,
		Expiration:    placeholder,
		NftId:         placeholder,
		WebsiteUrl:    placeholder,
		ResolvedAt:    placeholder,
	}
	by, _ := json.MarshalIndent(payload, "", "  ")
	v.Raw = string(by)
	if payload == nil {
		return v
	}
	if payload.Name != "" {
		v.Name = payload.Name
	}
	v.Error = payload.Error
	v.WebsiteUrl = orPlaceholder(payload.WebsiteUrl)
	v.ResolvedAt = orPlaceholder(payload.ResolvedAt)
	if rec := payload.Record; rec != nil {
		v.TargetAddress = orPlaceholder(rec.TargetAddress)
		v.NftId = orPlaceholder(rec.NftId)
		v.Expiration = FormatExpiration(rec.ExpirationTimestampMs)
		v.Groups = GroupMetadata(rec.Data)
	}
	return v
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// FormatExpiration renders a millisecond timestamp string; anything that is
// not a positive number shows as a dash.
func FormatExpiration(ms string) string {
	if ms == "" {
		return placeholder
	}
	d, err := decimal.NewFromString(strings.TrimSpace(ms))
	if err != nil || !d.IsPositive() {
		return placeholder
	}
	return time.UnixMilli(d.IntPart()).UTC().Format("2006-01-02 15:04:05 UTC")
}

// GroupMetadata sorts record data into the known groups, blank values
// skipped, with everything unrecognised under "Other" in key order.
func GroupMetadata(data map[string]string) []MetaGroup {
	if len(data) == 0 {
		return nil
	}
	known := make(map[string]struct{})
	groups := make([]MetaGroup, 0, len(metaGroups)+1)
	for _, g := range metaGroups {
		group := MetaGroup{Title: g.title}
		for _, k := range g.keys {
			known[k.chain] = struct{}{}
			raw, ok := data[k.chain]
			if !ok || strings.TrimSpace(raw) == "" {
				continue
			}
			group.Items = append(group.Items, renderMeta(k, raw))
		}
		if len(group.Items) > 0 {
			groups = append(groups, group)
		}
	}

	other := make([]string, 0)
	for k := range data {
		if _, ok := known[k]; !ok {
			other = append(other, k)
		}
	}
	if len(other) == 0 {
		return groups
	}
	sort.Strings(other)
	group := MetaGroup{Title: "Other", Subtitle: "Unrecognized keys are shown here."}
	for _, k := range other {
		item := MetaItem{Key: k, Label: k, Value: data[k], Kind: "text"}
		if href := NormalizeHttpUrl(data[k]); href != "" {
			item.Href = href
			item.Kind = "link"
		}
		group.Items = append(group.Items, item)
	}
	return append(groups, group)
}

func renderMeta(k metaKey, raw string) MetaItem {
	value := strings.TrimSpace(raw)
	item := MetaItem{Key: k.chain, Label: k.label, Value: value, Kind: "link"}
	switch k.id {
	case "website":
		item.Href = NormalizeHttpUrl(value)
		if item.Href == "" {
			item.Href = value
		}
	case "email":
		item.Href = normalizeEmail(value)
	case "twitterX":
		item.Href = normalizeHandle(value, twitterRe, "https://x.com/")
	case "github":
		item.Href = normalizeHandle(value, githubRe, "https://github.com/")
	case "discord":
		item.Href = NormalizeHttpUrl(value)
	case "ipfs":
		item.Href = normalizeIpfs(value)
	case "arweave":
		item.Href = normalizeArweave(value)
	case "avatar":
		item.Kind = "avatar"
		item.Href = normalizeAvatar(value)
		return item
	case "btc", "eth", "ltc", "doge", "sol", "sui":
		item.Kind = "wallet"
		return item
	}
	if item.Href == "" {
		item.Kind = "text"
	}
	return item
}

func normalizeEmail(s string) string {
	if emailRe.MatchString(s) {
		return "mailto:" + s
	}
	if strings.HasPrefix(strings.ToLower(s), "mailto:") {
		return s
	}
	return ""
}

func normalizeHandle(s string, re *regexp.Regexp, base string) string {
	if u := NormalizeHttpUrl(s); u != "" {
		return u
	}
	handle := strings.TrimPrefix(s, "@")
	if re.MatchString(handle) {
		return base + handle
	}
	return ""
}

func normalizeIpfs(s string) string {
	if u := NormalizeHttpUrl(s); u != "" {
		return u
	}
	if strings.HasPrefix(strings.ToLower(s), "ipfs://") {
		return s
	}
	if cidRe.MatchString(s) {
		return "https://ipfs.io/ipfs/" + s
	}
	return ""
}

func normalizeArweave(s string) string {
	if u := NormalizeHttpUrl(s); u != "" {
		return u
	}
	if strings.HasPrefix(strings.ToLower(s), "ar://") {
		return s
	}
	if arTxRe.MatchString(s) {
		return "https://arweave.net/" + s
	}
	return ""
}

func normalizeAvatar(s string) string {
	if u := NormalizeHttpUrl(s); u != "" {
		return u
	}
	if strings.HasPrefix(strings.ToLower(s), "ipfs://") {
		return "https://ipfs.io/ipfs/" + s[len("ipfs://"):]
	}
	return ""
}
