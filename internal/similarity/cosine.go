package similarity

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrZeroVector is returned by CosineVectors when an operand has no
	// magnitude, where the cosine is undefined.
	ErrZeroVector = errors.New("cosine undefined for zero vector")

	// ErrDimensionMismatch is returned by CosineVectors for vectors of
	// different lengths.
	ErrDimensionMismatch = errors.New("vector dimensions differ")
)

// Cosine computes the cosine similarity of the token frequency vectors of
// base and query. The result is in [0, 1].
//
// When the two strings share no token the result is exactly 0. Both norms are
// non-zero whenever a token is shared, so no division by zero can happen.
func Cosine(base, query string) float64 {
	return CosineFrequencies(CountTokens(base), CountTokens(query))
}

// CosineFrequencies computes the cosine similarity of two frequency vectors.
func CosineFrequencies(a, b TokenFrequency) float64 {
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}

	dot := 0
	shared := 0
	for tok, c := range small {
		if d, ok := large[tok]; ok {
			dot += c * d
			shared++
		}
	}
	if shared == 0 {
		return 0
	}

	return float64(dot) / (a.Magnitude() * b.Magnitude())
}

// CosineMatch reports whether Cosine(base, query) reaches threshold.
// The boundary is inclusive.
func CosineMatch(base, query string, threshold float64) bool {
	return MeetsThreshold(Cosine(base, query), threshold)
}

// MeetsThreshold reports whether score reaches threshold. Every textsim
// threshold is inclusive.
func MeetsThreshold(score, threshold float64) bool {
	return score >= threshold
}

// CosineVectors computes the cosine similarity of two dense vectors, such as
// bag-of-words, TF-IDF or averaged embedding vectors produced upstream.
// Unlike Cosine it does not clamp to [0, 1]; negative components can yield
// negative similarity.
func CosineVectors(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, ErrZeroVector
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

func sqrt(n int) float64 {
	return math.Sqrt(float64(n))
}
