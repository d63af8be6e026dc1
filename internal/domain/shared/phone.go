package shared

import (
	"regexp"
	"strings"
)

// spanishMobilePattern matches Spanish mobile numbers, with or without
// the +34 / 0034 prefix.
var spanishMobilePattern = regexp.MustCompile(`^((\+34|0034)?[6-7][0-9]{8})$`)

// IsValidSpanishMobile reports whether raw is an acceptable Spanish mobile number.
func IsValidSpanishMobile(raw string) bool {
	return spanishMobilePattern.MatchString(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
}

// NormalizeSpanishMobile strips whitespace and the international prefix so
// the same number always stores identically regardless of how it was typed.
func NormalizeSpanishMobile(raw string) string {
	p := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	p = strings.TrimPrefix(p, "+34")
	p = strings.TrimPrefix(p, "0034")
	return p
}
