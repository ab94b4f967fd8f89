package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// NormalizePhone strips formatting and a leading country code or trunk zero,
// returning the bare 10-digit subscriber number.
func NormalizePhone(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, raw)

	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		digits = digits[2:]
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		digits = digits[1:]
	}
	return digits
}

// ValidMobile reports whether phone is a normalized Indian mobile number.
func ValidMobile(phone string) bool {
	return mobilePattern.MatchString(phone)
}
