// Package textnorm canonicalizes text pulled out of HTML so that every
// extractor compares and emits the same form.
package textnorm

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var apostrophes = strings.NewReplacer("’", "'", "ʼ", "'")

// Normalize applies NFKC, maps typographic apostrophes to ', collapses
// whitespace runs to a single space and trims the result.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	s = apostrophes.Replace(s)
	return Clean(s)
}

// NormalizeLower is Normalize for case-insensitive heading comparison.
func NormalizeLower(s string) string {
	return strings.ToLower(Normalize(s))
}

// Clean only collapses whitespace.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// HasAnyPrefix reports whether s starts with one of prefixes.
func HasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
