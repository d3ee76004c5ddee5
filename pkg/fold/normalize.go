// Package fold decides whether a value needs Unicode-safe matching and builds
// the SQL fragments that go with it.
//
// SQLite without ICU only case-folds ASCII, so values carrying Cyrillic (or any
// other non-ASCII text) are lowercased in Go and compared against LOWER(column).
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SearchLocale is the locale used for search case-folding.
var SearchLocale = language.MustParse("ru-RU")

// Normalizer transforms a term before it is stored or matched.
type Normalizer func(string) string

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NeedsUnicodeProcessing reports whether value is a string containing a
// Cyrillic letter or any rune outside 7-bit ASCII.
func NeedsUnicodeProcessing(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}

// NormalizeForSearch lowercases text using SearchLocale. Empty text is
// returned as is.
func NormalizeForSearch(text string) string {
	if text == "" {
		return text
	}
	// A Caser keeps state between calls and must not be shared.
	return cases.Lower(SearchLocale).String(text)
}

// CreateLikePattern normalizes a LIKE pattern. Wildcards are left untouched.
func CreateLikePattern(pattern string) string {
	if pattern == "" {
		return pattern
	}
	return NormalizeForSearch(pattern)
}

// NormalizeLowercaseASCII lowercases and strips accents (e.g. DUPONT, Élodie -> elodie).
func NormalizeLowercaseASCII(s string) string {
	result, _, _ := transform.String(stripAccents, strings.ToLower(s))
	return result
}

// NormalizeLowercaseUTF8 lowercases but preserves accents.
func NormalizeLowercaseUTF8(s string) string {
	return strings.ToLower(s)
}

// NormalizeNone returns the term unchanged.
func NormalizeNone(s string) string {
	return s
}

// GetNormalizer returns the normalizer for the given mode.
// Default is search.
func GetNormalizer(mode string) Normalizer {
	switch mode {
	case "lowercase_ascii":
		return NormalizeLowercaseASCII
	case "lowercase_utf8":
		return NormalizeLowercaseUTF8
	case "none":
		return NormalizeNone
	default:
		return NormalizeForSearch
	}
}
