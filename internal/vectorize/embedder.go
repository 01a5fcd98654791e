package vectorize

import (
	"context"
	"errors"
	"fmt"

	"github.com/nvandessel/textsim/internal/similarity"
)

// Embedder maps a text to a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Compare embeds a and b with e and returns their cosine similarity.
// A text with no known words embeds to the zero vector and scores 0.
func Compare(ctx context.Context, e Embedder, a, b string) (float64, error) {
	vecA, err := e.Embed(ctx, a)
	if err != nil {
		return 0, fmt.Errorf("embedding text a: %w", err)
	}
	vecB, err := e.Embed(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("embedding text b: %w", err)
	}
	return CosineRows(vecA, vecB)
}

// CosineRows is similarity.CosineVectors with zero rows scoring 0, as for
// documents that share no vocabulary term.
func CosineRows(a, b []float64) (float64, error) {
	score, err := similarity.CosineVectors(a, b)
	if errors.Is(err, similarity.ErrZeroVector) {
		return 0, nil
	}
	return score, err
}

// CompareDocs fits a fresh vectorizer on a and b together and returns the
// cosine similarity of their rows.
func CompareDocs(opts Options, weighting Weighting, a, b string) (float64, error) {
	v, err := New(opts, weighting)
	if err != nil {
		return 0, err
	}
	rows, err := v.FitTransform([]string{a, b})
	if err != nil {
		return 0, err
	}
	return CosineRows(rows[0], rows[1])
}
