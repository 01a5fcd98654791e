package vectorize

import (
	"math"
	"sort"
)

// Weighting selects how term counts become vector components.
type Weighting int

const (
	// Counts uses raw term counts (bag of words).
	Counts Weighting = iota

	// TFIDF scales counts by smoothed inverse document frequency and
	// L2-normalizes each row.
	TFIDF
)

// String returns the weighting name used on the command line.
func (w Weighting) String() string {
	switch w {
	case Counts:
		return "count"
	case TFIDF:
		return "tfidf"
	}
	return "unknown"
}

// Vectorizer maps documents onto a vocabulary learned by Fit. Feature
// columns are ordered alphabetically by term.
//
// A fitted Vectorizer is read-only and safe for concurrent Transform calls.
type Vectorizer struct {
	opts      Options
	weighting Weighting

	features []string
	index    map[string]int
	idf      []float64
}

// NewCountVectorizer creates a bag-of-words vectorizer.
func NewCountVectorizer(opts Options) (*Vectorizer, error) {
	return newVectorizer(opts, Counts)
}

// NewTFIDFVectorizer creates a TF-IDF vectorizer.
func NewTFIDFVectorizer(opts Options) (*Vectorizer, error) {
	return newVectorizer(opts, TFIDF)
}

// New creates a vectorizer with the given weighting.
func New(opts Options, weighting Weighting) (*Vectorizer, error) {
	return newVectorizer(opts, weighting)
}

func newVectorizer(opts Options, weighting Weighting) (*Vectorizer, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Vectorizer{opts: opts, weighting: weighting}, nil
}

// Fit learns the vocabulary (and for TF-IDF the document frequencies) of docs.
//
// With MaxFeatures set, the terms with the highest total count are kept;
// equal counts are broken by term order.
func (v *Vectorizer) Fit(docs []string) error {
	total := make(map[string]int)
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range analyze(doc, v.opts) {
			total[term]++
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}
	if len(total) == 0 {
		return ErrEmptyVocabulary
	}

	features := make([]string, 0, len(total))
	for term := range total {
		features = append(features, term)
	}
	sort.Strings(features)

	if v.opts.MaxFeatures > 0 && len(features) > v.opts.MaxFeatures {
		byCount := append([]string(nil), features...)
		sort.SliceStable(byCount, func(i, j int) bool {
			return total[byCount[i]] > total[byCount[j]]
		})
		features = byCount[:v.opts.MaxFeatures]
		sort.Strings(features)
	}

	index := make(map[string]int, len(features))
	for i, term := range features {
		index[term] = i
	}

	var idf []float64
	if v.weighting == TFIDF {
		n := float64(len(docs))
		idf = make([]float64, len(features))
		for i, term := range features {
			idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
		}
	}

	v.features, v.index, v.idf = features, index, idf
	return nil
}

// Transform returns one row per document over the fitted vocabulary. Terms
// outside the vocabulary are ignored, so a row can be all zeros.
func (v *Vectorizer) Transform(docs []string) ([][]float64, error) {
	if v.index == nil {
		return nil, ErrNotFitted
	}

	rows := make([][]float64, len(docs))
	for d, doc := range docs {
		row := make([]float64, len(v.features))
		for _, term := range analyze(doc, v.opts) {
			if i, ok := v.index[term]; ok {
				row[i]++
			}
		}
		if v.weighting == TFIDF {
			for i := range row {
				row[i] *= v.idf[i]
			}
			l2Normalize(row)
		}
		rows[d] = row
	}
	return rows, nil
}

// FitTransform fits docs and returns their rows.
func (v *Vectorizer) FitTransform(docs []string) ([][]float64, error) {
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	return v.Transform(docs)
}

// Features returns the fitted vocabulary in column order.
func (v *Vectorizer) Features() []string {
	return append([]string(nil), v.features...)
}

// IDF returns the fitted inverse document frequencies, or nil for a count
// vectorizer.
func (v *Vectorizer) IDF() []float64 {
	return append([]float64(nil), v.idf...)
}

// Term is a feature with its weight in one row.
type Term struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// TopTerms returns up to n terms of row with the highest weight, heaviest
// first. Equal weights keep column order. Zero-weight terms are skipped.
func (v *Vectorizer) TopTerms(row []float64, n int) []Term {
	if n <= 0 || len(row) != len(v.features) {
		return nil
	}

	order := make([]int, 0, len(row))
	for i, w := range row {
		if w != 0 {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return row[order[a]] > row[order[b]]
	})
	if len(order) > n {
		order = order[:n]
	}

	terms := make([]Term, len(order))
	for i, col := range order {
		terms[i] = Term{Term: v.features[col], Weight: row[col]}
	}
	return terms
}

func l2Normalize(vec []float64) {
	var sum float64
	for _, x := range vec {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}
