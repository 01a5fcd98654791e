package vectorize

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nvandessel/textsim/internal/constants"
	"github.com/nvandessel/textsim/internal/pathutil"
)

// ErrNoVectors is returned when a word vector file holds no entries.
var ErrNoVectors = errors.New("no word vectors found")

// WordVectors is a table of pretrained word vectors, such as GloVe.
// It is read-only after loading and safe for concurrent use.
type WordVectors struct {
	dim     int
	vectors map[string][]float64
}

// LoadGloVe reads word vectors in GloVe text format: one word per line
// followed by its space-separated components. Every line must have the same
// dimension as the first. Blank lines are skipped.
func LoadGloVe(r io.Reader) (*WordVectors, error) {
	wv := &WordVectors{vectors: make(map[string][]float64)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), constants.MaxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: word %q has no vector", lineNo, fields[0])
		}

		vec := make([]float64, len(fields)-1)
		for i, f := range fields[1:] {
			x, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: component %d of %q: %w", lineNo, i+1, fields[0], err)
			}
			vec[i] = x
		}

		if wv.dim == 0 {
			wv.dim = len(vec)
		} else if len(vec) != wv.dim {
			return nil, fmt.Errorf("line %d: %q has %d components, want %d", lineNo, fields[0], len(vec), wv.dim)
		}
		wv.vectors[fields[0]] = vec
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading word vectors: %w", err)
	}
	if len(wv.vectors) == 0 {
		return nil, ErrNoVectors
	}
	return wv, nil
}

// LoadGloVeFile reads a GloVe text file from path.
func LoadGloVeFile(path string) (*WordVectors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening word vectors: %w", err)
	}
	defer f.Close()

	wv, err := LoadGloVe(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", pathutil.RedactPath(path), err)
	}
	return wv, nil
}

// Dim returns the vector dimension.
func (wv *WordVectors) Dim() int {
	return wv.dim
}

// Len returns the number of words in the table.
func (wv *WordVectors) Len() int {
	return len(wv.vectors)
}

// Vector returns the vector for word. Lookup is exact and case-sensitive.
func (wv *WordVectors) Vector(word string) ([]float64, bool) {
	vec, ok := wv.vectors[word]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), vec...), true
}

// SentenceVector averages the vectors of the whitespace-separated words of
// sentence that are in the table. It returns a zero vector when none are.
func (wv *WordVectors) SentenceVector(sentence string) []float64 {
	sum := make([]float64, wv.dim)
	found := 0
	for _, word := range strings.Fields(sentence) {
		vec, ok := wv.vectors[word]
		if !ok {
			continue
		}
		for i, x := range vec {
			sum[i] += x
		}
		found++
	}
	if found > 0 {
		for i := range sum {
			sum[i] /= float64(found)
		}
	}
	return sum
}

// Embed implements Embedder with SentenceVector.
func (wv *WordVectors) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return wv.SentenceVector(text), nil
}
