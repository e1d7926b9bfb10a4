package mpesa

import "strings"

// FormatPhone normalizes a payer phone number to the 254-prefixed form the
// Daraja API expects. Spaces, dashes and a leading plus are stripped; a
// leading 0 is swapped for the country code; anything not already prefixed
// gets the country code prepended. Digit counts are not validated here, the
// gateway rejects malformed numbers itself.
func FormatPhone(phone string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '+':
			return -1
		}
		return r
	}, phone)

	switch {
	case strings.HasPrefix(cleaned, "0"):
		return "254" + cleaned[1:]
	case strings.HasPrefix(cleaned, "254"):
		return cleaned
	default:
		return "254" + cleaned
	}
}
