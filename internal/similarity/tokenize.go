// Package similarity provides the text similarity scorers and the ranked
// search built on top of them.
//
// Two independent scoring paths exist: Cosine works on token frequency
// vectors, Ratio works on raw characters via block matching. Search ranks a
// candidate set with Ratio.
package similarity

import (
	"strings"
	"unicode"
)

// TokenFrequency maps a token to the number of times it occurs.
// Present keys always have a count of at least 1.
type TokenFrequency map[string]int

// Tokenize splits a string into word tokens.
// Word characters are Unicode letters, Unicode numbers, and underscores.
// Case is preserved.
func Tokenize(s string) []string {
	words := make([]string, 0)
	var current strings.Builder
	for _, r := range s {
		if isWordRune(r) {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}

// CountTokens tokenizes s and counts each token.
func CountTokens(s string) TokenFrequency {
	freq := make(TokenFrequency)
	for _, w := range Tokenize(s) {
		freq[w]++
	}
	return freq
}

// Magnitude returns the Euclidean norm of the frequency vector.
func (f TokenFrequency) Magnitude() float64 {
	sum := 0
	for _, c := range f {
		sum += c * c
	}
	return sqrt(sum)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
