package similarity

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/nvandessel/textsim/internal/constants"
	"github.com/nvandessel/textsim/internal/logging"
)

// Searcher runs Search with per-candidate scoring spread over a worker pool.
// Selection (filter, stable sort, truncate) happens after all scores are
// collected, so results are identical to Search.
//
// A Searcher is safe for concurrent use. Call Release when done.
type Searcher struct {
	pool        *ants.Pool
	parallelMin int
	logger      *slog.Logger
	trace       *logging.SearchTrace
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher) error

// WithPoolSize sets the number of scoring workers.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) SearcherOption {
	return func(s *Searcher) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return fmt.Errorf("creating worker pool: %w", err)
		}
		if s.pool != nil {
			s.pool.Release()
		}
		s.pool = pool
		return nil
	}
}

// WithParallelMin sets the candidate count below which scoring stays on the
// calling goroutine.
func WithParallelMin(n int) SearcherOption {
	return func(s *Searcher) error {
		if n < 0 {
			n = 0
		}
		s.parallelMin = n
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) SearcherOption {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithTrace records one trace event per search. A nil trace is allowed.
func WithTrace(trace *logging.SearchTrace) SearcherOption {
	return func(s *Searcher) error {
		s.trace = trace
		return nil
	}
}

// NewSearcher creates a Searcher.
func NewSearcher(opts ...SearcherOption) (*Searcher, error) {
	size := runtime.NumCPU()
	if size < 1 {
		size = 1
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}

	s := &Searcher{
		pool:        pool,
		parallelMin: constants.DefaultParallelMin,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			s.Release()
			return nil, optErr
		}
	}
	return s, nil
}

// Release stops the worker pool. The Searcher must not be used afterwards.
func (s *Searcher) Release() {
	if s.pool != nil {
		s.pool.Release()
		s.pool = nil
	}
}

// Search behaves like the package-level Search. Cancelling ctx stops
// scheduling further candidates and returns ctx.Err().
func (s *Searcher) Search(ctx context.Context, candidates []string, query string, opts ...SearchOption) ([]Match, error) {
	cfg, err := buildSearchConfig(opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	parallel := len(candidates) >= s.parallelMin && len(candidates) > 1

	var scores []float64
	if parallel {
		scores, err = s.scoreParallel(ctx, candidates, query)
	} else {
		scores, err = scoreSerial(ctx, candidates, query)
	}
	if err != nil {
		return nil, err
	}

	if s.logger.Enabled(ctx, logging.LevelTrace) {
		for i, score := range scores {
			s.logger.Log(ctx, logging.LevelTrace, "candidate scored", "index", i, "score", score)
		}
	}

	matches := rank(candidates, scores, cfg)
	elapsed := time.Since(start)

	s.logger.Debug("search completed",
		"candidates", len(candidates),
		"retained", len(matches),
		"parallel", parallel,
		"duration", elapsed)
	s.trace.Log(map[string]any{
		"event":       "search",
		"query_len":   len([]rune(query)),
		"candidates":  len(candidates),
		"returned":    len(matches),
		"threshold":   cfg.Threshold,
		"match_count": cfg.MatchCount,
		"parallel":    parallel,
		"duration_ms": elapsed.Milliseconds(),
	})

	return matches, nil
}

func scoreSerial(ctx context.Context, candidates []string, query string) ([]float64, error) {
	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		scores[i] = Ratio(c, query)
	}
	return scores, nil
}

func (s *Searcher) scoreParallel(ctx context.Context, candidates []string, query string) ([]float64, error) {
	// Each worker writes only its own index.
	scores := make([]float64, len(candidates))

	var wg sync.WaitGroup
	var submitErr error
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			submitErr = err
			break
		}
		idx := i
		wg.Add(1)
		if err := s.pool.Submit(func() {
			defer wg.Done()
			scores[idx] = Ratio(candidates[idx], query)
		}); err != nil {
			wg.Done()
			submitErr = fmt.Errorf("submitting candidate %d: %w", idx, err)
			break
		}
	}
	wg.Wait()

	if submitErr != nil {
		return nil, submitErr
	}
	return scores, nil
}
