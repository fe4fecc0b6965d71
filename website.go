package inresolver

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

var bareDomainRe = regexp.MustCompile(`(?i)^[a-z0-9.-]+\.[a-z]{2,}$`)

// NormalizeHttpUrl accepts absolute http(s) URLs as they are and upgrades a
// bare domain to https. Anything else yields "".
func NormalizeHttpUrl(value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err == nil && u.Scheme != "" {
		if u.Scheme != "http" && u.Scheme != "https" {
			return ""
		}
		if u.Host == "" {
			// "http:example.com" and "https:/example.com" name a host as browsers read them
			rest := strings.TrimLeft(s[len(u.Scheme)+1:], `/\`)
			if rest == "" {
				return ""
			}
			if u, err = url.Parse(u.Scheme + "://" + rest); err != nil || u.Host == "" {
				return ""
			}
		}
		return u.String()
	}
	if bareDomainRe.MatchString(s) {
		return "https://" + s
	}
	return ""
}

// PickWebsiteUrl honours websiteKeys in order, then scans the remaining
// values. The scan runs in key order so the outcome is stable.
func PickWebsiteUrl(data map[string]string, websiteKeys []string) string {
	if len(data) == 0 {
		return ""
	}
	for _, k := range websiteKeys {
		v, ok := data[k]
		if !ok {
			continue
		}
		if u := NormalizeHttpUrl(v); u != "" {
			return u
		}
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if u := NormalizeHttpUrl(data[k]); u != "" {
			return u
		}
	}
	return ""
}
