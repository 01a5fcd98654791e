package similarity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nvandessel/textsim/internal/constants"
)

// ErrInvalidMatchCount is returned when a search asks for fewer than one match.
// It signals a caller bug; nothing is scored.
var ErrInvalidMatchCount = errors.New("match count must be at least 1")

// Match is a ranked search result.
type Match struct {
	// Candidate is the matched candidate string.
	Candidate string `json:"candidate"`

	// Score is the sequence ratio of Candidate against the query.
	Score float64 `json:"score"`

	// Index is the position of Candidate in the input slice.
	Index int `json:"index"`
}

// SearchConfig controls filtering and truncation of search results.
type SearchConfig struct {
	// Threshold is the minimum score a candidate needs to be retained.
	// Zero disables filtering.
	Threshold float64

	// MatchCount is the maximum number of results. Must be at least 1.
	MatchCount int
}

// DefaultSearchConfig returns the configuration used when no options are given.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Threshold:  constants.DefaultThreshold,
		MatchCount: constants.DefaultMatchCount,
	}
}

// SearchOption configures a single search call.
type SearchOption func(*SearchConfig)

// WithThreshold sets the inclusive minimum score.
func WithThreshold(threshold float64) SearchOption {
	return func(c *SearchConfig) {
		c.Threshold = threshold
	}
}

// WithMatchCount sets the maximum number of results.
func WithMatchCount(n int) SearchOption {
	return func(c *SearchConfig) {
		c.MatchCount = n
	}
}

func buildSearchConfig(opts []SearchOption) (SearchConfig, error) {
	cfg := DefaultSearchConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MatchCount < 1 {
		return cfg, fmt.Errorf("%w, got %d", ErrInvalidMatchCount, cfg.MatchCount)
	}
	return cfg, nil
}

// Search scores every candidate against query with Ratio and returns the best
// matches, highest score first. Candidates with equal scores keep their input
// order. Duplicate candidates are scored and returned independently.
//
// Fewer than MatchCount results are returned when fewer candidates qualify.
// The candidates slice is not modified.
func Search(candidates []string, query string, opts ...SearchOption) ([]Match, error) {
	cfg, err := buildSearchConfig(opts)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		scores[i] = Ratio(c, query)
	}

	return rank(candidates, scores, cfg), nil
}

// SearchStrings is Search without scores.
func SearchStrings(candidates []string, query string, opts ...SearchOption) ([]string, error) {
	matches, err := Search(candidates, query, opts...)
	if err != nil {
		return nil, err
	}
	return Candidates(matches), nil
}

// Candidates extracts the candidate strings from matches, preserving order.
func Candidates(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Candidate
	}
	return out
}

// rank filters, stably sorts and truncates scored candidates.
// scores[i] must be the score of candidates[i].
func rank(candidates []string, scores []float64, cfg SearchConfig) []Match {
	retained := make([]Match, 0, len(candidates))
	for i, c := range candidates {
		if cfg.Threshold == 0 || MeetsThreshold(scores[i], cfg.Threshold) {
			retained = append(retained, Match{Candidate: c, Score: scores[i], Index: i})
		}
	}

	sort.SliceStable(retained, func(i, j int) bool {
		return retained[i].Score > retained[j].Score
	})

	if len(retained) > cfg.MatchCount {
		retained = retained[:cfg.MatchCount]
	}
	return retained
}
