package preprocess

import (
	"strings"

	"github.com/kljensen/snowball"
)

// Stem applies the Snowball English stemmer to each whitespace-separated
// token of text. Tokens the stemmer rejects are kept unchanged.
func Stem(text string) string {
	return StemIn(DefaultLanguage, text)
}

// StemIn is Stem with the Snowball stemmer for language. Unsupported
// languages use English.
func StemIn(language, text string) string {
	language = strings.ToLower(language)
	if !ValidLanguage(language) || language == "" {
		language = DefaultLanguage
	}

	fields := strings.Fields(text)
	for i, f := range fields {
		stemmed, err := snowball.Stem(f, language, true)
		if err != nil || stemmed == "" {
			continue
		}
		fields[i] = stemmed
	}
	return strings.Join(fields, " ")
}
