// Package validation holds the format predicates applied to account fields.
// The predicates are pure; callers turn a false result into a domain error.
package validation

import (
	"regexp"
	"sort"
	"strings"
)

// emailPattern accepts an RFC 5322-ish local part and dot-separated
// alphanumeric/hyphen domain labels of at most 63 characters.
var emailPattern = regexp.MustCompile(
	`(?i)^[a-z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?(?:\.[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?)*$`,
)

// DefaultPhonePrefixBands are the two-digit regional mobile prefixes used when
// no configuration overrides them.
var DefaultPhonePrefixBands = []string{
	"32", "33", "34", "35", "36", "37", "38", "39",
	"56", "58", "59",
	"70", "76", "77", "78", "79",
	"80", "81", "82", "83", "84", "85", "86", "88", "89",
	"90", "91", "92", "93", "94", "96", "97", "98", "99",
}

// Validator checks email and phone formats. The phone rule is built from a
// table of prefix bands so the bands can change without touching callers.
type Validator struct {
	phone *regexp.Regexp
	bands []string
}

// New builds a Validator from the given prefix bands. Entries that are not
// exactly two digits are ignored; an empty table falls back to the defaults.
func New(prefixBands []string) *Validator {
	bands := normalizeBands(prefixBands)
	if len(bands) == 0 {
		bands = normalizeBands(DefaultPhonePrefixBands)
	}
	pattern := `^0?(?:` + strings.Join(bands, "|") + `)[0-9]{7}$`
	return &Validator{phone: regexp.MustCompile(pattern), bands: bands}
}

// ValidateEmail reports whether s is a well-formed email address.
func (v *Validator) ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidatePhone reports whether s is an optional leading 0, a known prefix
// band, and exactly seven further digits.
func (v *Validator) ValidatePhone(s string) bool {
	return v.phone.MatchString(s)
}

// PrefixBands returns the active prefix table in ascending order.
func (v *Validator) PrefixBands() []string {
	out := make([]string, len(v.bands))
	copy(out, v.bands)
	return out
}

func normalizeBands(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, b := range in {
		b = strings.TrimSpace(b)
		if len(b) != 2 || b[0] < '0' || b[0] > '9' || b[1] < '0' || b[1] > '9' {
			continue
		}
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}
