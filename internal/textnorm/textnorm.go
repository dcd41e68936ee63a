// Package textnorm folds user text into the comparable form shared by the
// temporal parser, the movie matcher and the intent parser: lower case,
// no diacritics, no surrounding whitespace.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripAccents removes combining marks ("sábado" -> "sabado").
func StripAccents(s string) string {
	// transform.Chain keeps state, so a fresh chain is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold lower-cases, strips accents and trims s.
func Fold(s string) string {
	return strings.TrimSpace(StripAccents(strings.ToLower(s)))
}

// CollapseSpaces joins the whitespace separated fields of s with one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
