package utils

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonSlugRe    = regexp.MustCompile(`[^a-z0-9]+`)

	// NFD decomposition followed by removal of combining marks, so
	// "Mátrix" becomes "Matrix".
	diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Cleanup collapses runs of whitespace to single spaces and trims the result.
func Cleanup(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// StripDiacritics removes combining marks from a string.
func StripDiacritics(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeForSearch lowers and de-accents a string for accent-insensitive
// substring matching.
func NormalizeForSearch(s string) string {
	return strings.ToLower(StripDiacritics(strings.TrimSpace(s)))
}

// Slugify converts a string to a URL-safe ASCII slug. Non-Latin characters
// are transliterated rather than dropped so slugs stay distinguishable.
func Slugify(s string) string {
	ascii := strings.ToLower(unidecode.Unidecode(s))
	return strings.Trim(nonSlugRe.ReplaceAllString(ascii, "-"), "-")
}
