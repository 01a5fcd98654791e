// Package vectorize turns texts into dense vectors for cosine comparison.
//
// Count and TF-IDF vectorizers learn a vocabulary of word n-grams from a set
// of documents. Embedders map a single text to a fixed-size vector, either by
// averaging pretrained word vectors (GloVe) or by running a GGUF embedding
// model. Either kind of vector feeds similarity.CosineVectors.
package vectorize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/nvandessel/textsim/internal/preprocess"
)

var (
	// ErrEmptyVocabulary is returned by Fit when no document yields a term,
	// for example when every word is a stopword or a single character.
	ErrEmptyVocabulary = errors.New("empty vocabulary; documents contain only stopwords or single-character words")

	// ErrInvalidNGramRange is returned for an n-gram range with min < 1 or
	// max < min.
	ErrInvalidNGramRange = errors.New("invalid n-gram range")

	// ErrNotFitted is returned by Transform before Fit.
	ErrNotFitted = errors.New("vectorizer is not fitted")
)

// termPattern matches words of two or more letters, digits or underscores.
var termPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Options configures term extraction.
type Options struct {
	// MaxFeatures keeps only the most frequent terms across the corpus.
	// Zero keeps every term.
	MaxFeatures int

	// NGramMin and NGramMax bound the n-gram sizes extracted. Zero values
	// default to unigrams.
	NGramMin int
	NGramMax int

	// StopWords removes stopwords of Language before n-grams are built.
	StopWords bool

	// Language selects the stopword list. Default: english.
	Language string
}

func (o Options) withDefaults() (Options, error) {
	if o.NGramMin == 0 {
		o.NGramMin = 1
	}
	if o.NGramMax == 0 {
		o.NGramMax = o.NGramMin
	}
	if o.NGramMin < 1 || o.NGramMax < o.NGramMin {
		return o, fmt.Errorf("%w: (%d, %d)", ErrInvalidNGramRange, o.NGramMin, o.NGramMax)
	}
	if o.MaxFeatures < 0 {
		return o, fmt.Errorf("max features must be non-negative, got %d", o.MaxFeatures)
	}
	if !preprocess.ValidLanguage(o.Language) {
		return o, fmt.Errorf("invalid language: %s (valid: %s)", o.Language, strings.Join(preprocess.Languages(), ", "))
	}
	return o, nil
}

// analyze lowercases doc, extracts words and returns its n-gram terms in
// document order. N-grams join words with a single space.
func analyze(doc string, opts Options) []string {
	words := termPattern.FindAllString(strings.ToLower(doc), -1)
	if opts.StopWords {
		kept := words[:0]
		for _, w := range words {
			if !preprocess.IsStopwordIn(opts.Language, w) {
				kept = append(kept, w)
			}
		}
		words = kept
	}

	var terms []string
	for n := opts.NGramMin; n <= opts.NGramMax; n++ {
		for i := 0; i+n <= len(words); i++ {
			terms = append(terms, strings.Join(words[i:i+n], " "))
		}
	}
	return terms
}
