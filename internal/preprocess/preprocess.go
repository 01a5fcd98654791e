// Package preprocess provides optional text transforms applied to strings
// before they are scored: Unicode normalization, basic cleaning, stopword
// removal, lemmatization and stemming.
//
// The scorers in package similarity never call these themselves.
package preprocess

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// asciiPunctuation is the set removed by BasicClean.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Normalize applies NFKC normalization and removes control characters
// other than newline and tab.
func Normalize(text string) string {
	normed := norm.NFKC.String(text)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
}

// BasicClean lowercases text, strips ASCII punctuation and collapses runs of
// whitespace into single spaces.
func BasicClean(text string) string {
	lowered := cases.Lower(language.Und).String(text)
	return strings.Join(strings.Fields(RemovePunctuation(lowered)), " ")
}

// RemovePunctuation strips ASCII punctuation and leaves everything else,
// including case and spacing, untouched.
func RemovePunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && strings.ContainsRune(asciiPunctuation, r) {
			return -1
		}
		return r
	}, text)
}
