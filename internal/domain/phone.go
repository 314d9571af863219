package domain

import "strings"

// NormalizePhone converts a phone number to the canonical international
// format used as the cache key: digits only, no leading +, no separators.
// Local Israeli numbers ("05XXXXXXXX") are converted to 972 form. Returns
// ErrInvalidPhone for anything that does not normalize to a valid key.
func NormalizePhone(phone string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')', '+':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))

	if cleaned == "" || !isDigits(cleaned) {
		return "", ErrInvalidPhone
	}

	// Local format: 0XXXXXXXXX -> 972XXXXXXXXX
	if len(cleaned) == 10 && strings.HasPrefix(cleaned, "0") {
		cleaned = "972" + cleaned[1:]
	}

	if len(cleaned) != 12 || !strings.HasPrefix(cleaned, "972") {
		return "", ErrInvalidPhone
	}
	return cleaned, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
