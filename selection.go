package inresolver

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/iotanames/inresolver/schema"
)

const (
	leadingStrip  = `"'()[]{}<>`
	trailingStrip = `"'()[]{}<>.,;:!?…`
)

var (
	schemeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
	labelRe  = regexp.MustCompile(`^(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?|xn--[a-z0-9-]{1,59})$`)
)

// ParseSelection turns highlighted text into a name under the naming suffix.
// A bare single label gets the suffix appended; anything else carrying a dot
// must already end in it.
func ParseSelection(text string) (string, error) {
	s := strings.TrimLeftFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(leadingStrip, r)
	})
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(trailingStrip, r)
	})
	if s == "" {
		return "", &schema.ValidationError{Input: text, Reason: "empty selection"}
	}

	if schemeRe.MatchString(s) {
		u, err := url.Parse(s)
		if err != nil {
			return "", &schema.ValidationError{Input: text, Reason: "invalid url"}
		}
		if port := u.Port(); port != "" {
			if n, err := strconv.Atoi(port); err != nil || n > 65535 {
				return "", &schema.ValidationError{Input: text, Reason: "invalid port"}
			}
		}
		s = u.Hostname()
	}

	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "", &schema.ValidationError{Input: text, Reason: "no host"}
	}

	s = strings.ToLower(s)
	if strings.ContainsRune(s, '@') || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return "", &schema.ValidationError{Input: text, Reason: "whitespace or userinfo"}
	}

	if !strings.HasSuffix(s, schema.NamingSuffix) {
		// leave other domains alone
		if strings.Contains(s, ".") {
			return "", &schema.ValidationError{Input: text, Reason: "not under " + schema.NamingSuffix}
		}
		s += schema.NamingSuffix
	}

	if err := ValidateName(s); err != nil {
		return "", &schema.ValidationError{Input: text, Reason: err.(*schema.ValidationError).Reason}
	}
	return s, nil
}

// ValidateName checks a lower-case hostname under the naming suffix.
func ValidateName(name string) error {
	fail := func(reason string) error {
		return &schema.ValidationError{Input: name, Reason: reason}
	}
	if name == "" {
		return fail("empty")
	}
	if len(name) > 253 {
		return fail("longer than 253 characters")
	}
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") || strings.Contains(name, "..") {
		return fail("empty label")
	}
	labels := strings.Split(name, ".")
	if len(labels) < 2 || "."+labels[len(labels)-1] != schema.NamingSuffix {
		return fail("not under " + schema.NamingSuffix)
	}
	for _, label := range labels {
		if len(label) == 0 || len(label) > 63 || !labelRe.MatchString(label) {
			return fail("bad label " + label)
		}
	}
	return nil
}

// SelectionTarget is where a selection action navigates. The details variant
// carries the opt-out marker so interception lands on the details page.
func SelectionTarget(name string, details bool) string {
	if details {
		return "https://" + name + "/?" + optOutParams[0] + "=1"
	}
	return "https://" + name + "/"
}

// OmniboxTarget maps keyword input to a navigation target, "" for blank input.
func OmniboxTarget(text string) string {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return ""
	}
	name := raw
	if !strings.HasSuffix(strings.ToLower(raw), schema.NamingSuffix) {
		name = raw + schema.NamingSuffix
	}
	return "https://" + name + "/"
}

// NormalizeTypedName lower-cases user input and appends the suffix if missing.
func NormalizeTypedName(text string) string {
	name := strings.ToLower(strings.TrimSpace(text))
	if name == "" {
		return ""
	}
	if !strings.HasSuffix(name, schema.NamingSuffix) {
		name += schema.NamingSuffix
	}
	return name
}
