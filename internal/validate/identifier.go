package validate

import (
	"regexp"
	"strings"
)

// IdentifierType classifies what kind of login identifier the user typed.
type IdentifierType string

const (
	IdentifierEmail   IdentifierType = "email"
	IdentifierPhone   IdentifierType = "phone"
	IdentifierUnknown IdentifierType = "unknown"
)

var (
	emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9]{1,16}$`)
)

// ClassifyIdentifier decides whether s looks like an email address, a phone
// number, or neither. The email pattern takes precedence: a string matching
// it is never classified as a phone number.
func ClassifyIdentifier(s string) IdentifierType {
	s = strings.TrimSpace(s)
	if s == "" {
		return IdentifierUnknown
	}
	if emailRe.MatchString(s) {
		return IdentifierEmail
	}
	if phoneRe.MatchString(stripPhoneFormatting(s)) {
		return IdentifierPhone
	}
	return IdentifierUnknown
}

// NormalizePhone strips every character that is not a digit or a plus sign
// and prefixes a bare 10-digit number with +1 (assumed domestic). Numbers
// that already carry a leading + are returned unchanged beyond stripping.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || r == '+' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if strings.HasPrefix(cleaned, "+") {
		return cleaned
	}
	if len(cleaned) == 10 {
		return "+1" + cleaned
	}
	return cleaned
}

// stripPhoneFormatting removes formatting characters only (spaces, dashes,
// parens, dots). Anything else, letters included, stays and makes the
// phone pattern fail to match.
func stripPhoneFormatting(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, s)
}
