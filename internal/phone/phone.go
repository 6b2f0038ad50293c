// Package phone validates phone number formats. Numbers are otherwise stored
// and matched as given; there is no normalization step.
package phone

import "strings"

var separators = strings.NewReplacer(" ", "", "(", "", ")", "", "-", "")

// Valid reports whether s is a plausible phone number: after removing spaces,
// parentheses and dashes, an optional leading + followed by 7 to 15 digits.
func Valid(s string) bool {
	cleaned := separators.Replace(s)
	cleaned = strings.TrimPrefix(cleaned, "+")
	if len(cleaned) < 7 || len(cleaned) > 15 {
		return false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
