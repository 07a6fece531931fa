package database

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveDiacritics removes diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizeEnrollment normalizes an enrollment code for roster lookups.
// The roster stores enrollment codes upper-cased, so file names and API
// input must be folded the same way before comparison.
func NormalizeEnrollment(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
