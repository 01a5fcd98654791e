// Package ratelimit meters MCP tool calls by the work they ask for.
//
// Each tool draws from its own token budget. A call spends a cost derived
// from its input size, so one search over a large candidate file uses up
// more of the budget than a search over a handful of inline strings.
package ratelimit

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/nvandessel/textsim/internal/constants"
)

// ErrRateLimited is returned by Meter.Charge when a tool's budget is spent.
var ErrRateLimited = errors.New("rate limit exceeded")

// Cost sizing. One token covers a call with small inputs; larger inputs add
// fractional tokens on top.
const (
	// ScoreBytesPerToken is the combined base+query size that costs one
	// extra token for pairwise scoring.
	ScoreBytesPerToken = 16 * 1024

	// CandidatesPerToken is the number of candidates that costs one extra
	// token for search.
	CandidatesPerToken = 100

	// FileBytesPerToken is the candidate file size that costs one extra
	// token for search.
	FileBytesPerToken = 256 * 1024
)

// Budget is a token bucket that refills continuously up to its capacity.
// It starts full and is safe for concurrent use.
type Budget struct {
	mu       sync.Mutex
	rate     float64 // tokens per second
	capacity float64
	tokens   float64
	last     time.Time
	now      func() time.Time
}

// NewBudget creates a full budget that refills at rate tokens per second.
func NewBudget(rate, capacity float64) *Budget {
	return &Budget{
		rate:     rate,
		capacity: capacity,
		tokens:   capacity,
		now:      time.Now,
	}
}

// Spend takes cost tokens if they are available and reports whether it did.
// A cost above capacity is charged as capacity, so an oversized call still
// goes through once the budget is full. A non-positive cost always succeeds.
func (b *Budget) Spend(cost float64) bool {
	if cost <= 0 {
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	cost = math.Min(cost, b.capacity)
	if b.tokens < cost {
		return false
	}
	b.tokens -= cost
	return true
}

// Available returns the tokens currently in the budget.
func (b *Budget) Available() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	return b.tokens
}

// refill must be called with mu held.
func (b *Budget) refill() {
	now := b.now()
	if b.last.IsZero() {
		b.last = now
		return
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = math.Min(b.capacity, b.tokens+b.rate*elapsed)
		b.last = now
	}
}

// Meter holds one Budget per MCP tool.
type Meter struct {
	budgets map[string]*Budget
}

// NewMeter creates the budgets for the textsim MCP tools. Pairwise scoring
// refills faster than search, which scores whole candidate sets and may
// read files.
func NewMeter() *Meter {
	return &Meter{budgets: map[string]*Budget{
		constants.ToolCosine: NewBudget(5, 20),
		constants.ToolRatio:  NewBudget(5, 20),
		constants.ToolSearch: NewBudget(1, 10),
		constants.ToolVector: NewBudget(2, 10),
	}}
}

// Charge spends cost from tool's budget. It returns an error wrapping
// ErrRateLimited when the budget cannot cover the call. Tools without a
// budget are never limited.
func (m *Meter) Charge(tool string, cost float64) error {
	b, ok := m.budgets[tool]
	if !ok {
		return nil
	}
	if !b.Spend(cost) {
		return fmt.Errorf("%w for %s (cost %.1f, %.1f available), please try again shortly",
			ErrRateLimited, tool, cost, b.Available())
	}
	return nil
}

// ScoreCost is the cost of scoring base against query.
func ScoreCost(base, query string) float64 {
	return 1 + float64(len(base)+len(query))/ScoreBytesPerToken
}

// SearchCost is the cost of ranking inline candidates against query.
func SearchCost(query string, candidates []string) float64 {
	size := len(query)
	for _, c := range candidates {
		size += len(c)
	}
	return 1 + float64(len(candidates))/CandidatesPerToken + float64(size)/ScoreBytesPerToken
}

// FileCost is the extra cost of loading a candidate file of size bytes.
func FileCost(size int64) float64 {
	if size <= 0 {
		return 0
	}
	return float64(size) / FileBytesPerToken
}
