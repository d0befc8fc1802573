package utils

import (
	"errors"
	"strings"
)

var ErrInvalidPhone = errors.New("invalid phone number")

const countryPrefix = "+91"

// NormalizePhone canonicalizes an Indian mobile number to +91XXXXXXXXXX.
// Accepts a bare 10-digit number, an 0-prefixed number, or an already
// prefixed one, with optional spaces and dashes.
func NormalizePhone(phone string) (string, error) {
	s := strings.TrimSpace(phone)
	s = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(s)

	switch {
	case strings.HasPrefix(s, countryPrefix):
		s = s[len(countryPrefix):]
	case strings.HasPrefix(s, "91") && len(s) == 12:
		s = s[2:]
	case strings.HasPrefix(s, "0") && len(s) == 11:
		s = s[1:]
	}

	if len(s) != 10 || !isDigits(s) {
		return "", ErrInvalidPhone
	}
	return countryPrefix + s, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
