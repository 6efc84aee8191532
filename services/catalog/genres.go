package catalog

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// genreKeywords maps Hungarian category keywords to canonical genre labels.
// Checked in order; the first matching keyword wins, so a category like
// "akció-vígjáték" is labelled Akció.
var genreKeywords = []struct {
	keyword string
	label   string
}{
	{"akció", "Akció"},
	{"vígjáték", "Vígjáték"},
	{"dráma", "Dráma"},
	{"thriller", "Thriller"},
	{"horror", "Horror"},
	{"sci-fi", "Sci-Fi"},
	{"fantasy", "Fantasy"},
	{"kaland", "Kaland"},
	{"romantikus", "Romantikus"},
	{"bűnügyi", "Bűnügyi"},
	{"western", "Western"},
	{"háborús", "Háborús"},
	{"dokumentum", "Dokumentumfilm"},
	{"animáció", "Animáció"},
	{"családi", "Családi"},
}

var hungarianTitle = cases.Title(language.Hungarian)

var yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// IsProbablyFilm classifies a category string as movie content. The series
// marker takes precedence: "sorozat" anywhere in the text excludes the
// listing even when "film" also appears (e.g. "filmsorozat"). Empty or
// ambiguous categories are excluded.
func IsProbablyFilm(category string) bool {
	c := strings.ToLower(category)
	if c == "" {
		return false
	}
	if strings.Contains(c, "sorozat") {
		return false
	}
	return strings.Contains(c, "film")
}

// ParseGenres maps the first comma-separated fragment of a category string
// to a canonical genre label. Unmatched fragments are kept as a title-cased
// label so rare genres still display something sensible.
func ParseGenres(category string) []string {
	if category == "" {
		return nil
	}

	base := category
	if idx := strings.Index(category, ","); idx >= 0 {
		base = category[:idx]
	}

	lc := strings.ToLower(base)
	for _, g := range genreKeywords {
		if strings.Contains(lc, g.keyword) {
			return []string{g.label}
		}
	}

	return []string{hungarianTitle.String(strings.TrimSpace(base))}
}

// yearFromCategory extracts a release year from free-text category content
// such as "amerikai akciófilm (2010)". Returns 0 when no year is present.
func yearFromCategory(category string) int {
	m := yearRe.FindString(category)
	if m == "" {
		return 0
	}
	year := 0
	for _, r := range m {
		year = year*10 + int(r-'0')
	}
	return year
}
