// Package autosuggest filters concept records by a free-text query.
package autosuggest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/base-angewandte/baseauth/pkg/models"
)

var asciiOnly = runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII }))

// Unaccent decomposes s and drops every non-ASCII rune, so "café" becomes
// "cafe". Characters without an ASCII base, such as "ß", disappear.
func Unaccent(s string) string {
	out, _, err := transform.String(transform.Chain(norm.NFD, asciiOnly), s)
	if err != nil {
		return s
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(Unaccent(s))
}

// Search returns the records whose label in lang (falling back to English)
// contains query, ignoring case and accents. Order is preserved and the
// result is never nil.
func Search(records []models.ConceptRecord, query, lang string) []models.ConceptRecord {
	q := normalize(query)
	out := make([]models.ConceptRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(normalize(r.Label.Get(lang, "")), q) {
			out = append(out, r)
		}
	}
	return out
}
