package utils

import "strings"

// LocationMatches reports whether any order location term and any barber
// location term contain each other, ignoring case and surrounding space.
// Empty terms never match.
func LocationMatches(orderTerms []string, barberTerms []string) bool {
	for _, o := range orderTerms {
		o = normalizeLocation(o)
		if o == "" {
			continue
		}
		for _, b := range barberTerms {
			b = normalizeLocation(b)
			if b == "" {
				continue
			}
			if strings.Contains(o, b) || strings.Contains(b, o) {
				return true
			}
		}
	}
	return false
}

func normalizeLocation(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
