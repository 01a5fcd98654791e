package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/textsim/internal/constants"
	"github.com/nvandessel/textsim/internal/corpus"
	"github.com/nvandessel/textsim/internal/pathutil"
	"github.com/nvandessel/textsim/internal/ratelimit"
	"github.com/nvandessel/textsim/internal/similarity"
	"github.com/nvandessel/textsim/internal/vectorize"
)

// registerTools registers all textsim MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        constants.ToolCosine,
		Description: "Cosine similarity of the word-count vectors of two texts (0 to 1)",
	}, s.handleCosine)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        constants.ToolRatio,
		Description: "Ratcliff/Obershelp sequence ratio of two texts (0 to 1)",
	}, s.handleRatio)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        constants.ToolSearch,
		Description: "Rank candidate texts by sequence ratio against a query and return the best matches",
	}, s.handleSearch)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        constants.ToolVector,
		Description: "Cosine similarity of two texts as bag-of-words, TF-IDF or embedding vectors",
	}, s.handleVector)
}

// handleCosine implements the textsim_cosine tool.
func (s *Server) handleCosine(ctx context.Context, req *sdk.CallToolRequest, args ScoreInput) (_ *sdk.CallToolResult, _ ScoreOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool(constants.ToolCosine, start, retErr, map[string]any{
			"base_len": len(args.Base), "query_len": len(args.Query),
		})
	}()

	if err := s.meter.Charge(constants.ToolCosine, ratelimit.ScoreCost(args.Base, args.Query)); err != nil {
		return nil, ScoreOutput{}, err
	}

	if err := validateThreshold(args.Threshold); err != nil {
		return nil, ScoreOutput{}, err
	}

	base, query := s.pipeline.Apply(args.Base), s.pipeline.Apply(args.Query)
	out := ScoreOutput{Score: similarity.Cosine(base, query)}
	if args.Threshold != nil {
		match := similarity.CosineMatch(base, query, *args.Threshold)
		out.Threshold = args.Threshold
		out.Match = &match
	}
	return nil, out, nil
}

// handleRatio implements the textsim_ratio tool.
func (s *Server) handleRatio(ctx context.Context, req *sdk.CallToolRequest, args ScoreInput) (_ *sdk.CallToolResult, _ ScoreOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool(constants.ToolRatio, start, retErr, map[string]any{
			"base_len": len(args.Base), "query_len": len(args.Query),
		})
	}()

	if err := s.meter.Charge(constants.ToolRatio, ratelimit.ScoreCost(args.Base, args.Query)); err != nil {
		return nil, ScoreOutput{}, err
	}

	if err := validateThreshold(args.Threshold); err != nil {
		return nil, ScoreOutput{}, err
	}

	base, query := s.pipeline.Apply(args.Base), s.pipeline.Apply(args.Query)
	out := ScoreOutput{Score: similarity.Ratio(base, query)}
	if args.Threshold != nil {
		match := similarity.RatioMatch(base, query, *args.Threshold)
		out.Threshold = args.Threshold
		out.Match = &match
	}
	return nil, out, nil
}

// handleSearch implements the textsim_search tool.
func (s *Server) handleSearch(ctx context.Context, req *sdk.CallToolRequest, args SearchInput) (_ *sdk.CallToolResult, _ SearchOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool(constants.ToolSearch, start, retErr, map[string]any{
			"query_len": len(args.Query), "candidates": len(args.Candidates), "file": args.File,
		})
	}()

	if err := s.meter.Charge(constants.ToolSearch, ratelimit.SearchCost(args.Query, args.Candidates)); err != nil {
		return nil, SearchOutput{}, err
	}

	if err := validateThreshold(args.Threshold); err != nil {
		return nil, SearchOutput{}, err
	}

	matchCount := s.settings.Search.MatchCount
	if args.MatchCount != nil {
		matchCount = *args.MatchCount
	}
	threshold := s.settings.Search.Threshold
	if args.Threshold != nil {
		threshold = *args.Threshold
	}

	candidates := args.Candidates
	if args.File != "" {
		if err := pathutil.ValidateSource(args.File, s.sourceDirs); err != nil {
			return nil, SearchOutput{}, err
		}
		info, err := os.Stat(args.File)
		if err != nil {
			return nil, SearchOutput{}, fmt.Errorf("failed to read candidates from %s: %w", pathutil.RedactPath(args.File), err)
		}
		if err := s.meter.Charge(constants.ToolSearch, ratelimit.FileCost(info.Size())); err != nil {
			return nil, SearchOutput{}, err
		}
		loaded, err := corpus.LoadFile(ctx, args.File, corpus.Options{
			Table:     s.settings.Sources.Table,
			Column:    s.settings.Sources.Column,
			KeepEmpty: s.settings.Sources.KeepEmpty,
		})
		if err != nil {
			return nil, SearchOutput{}, fmt.Errorf("failed to load candidates from %s: %w", pathutil.RedactPath(args.File), err)
		}
		candidates = append(append([]string(nil), args.Candidates...), loaded...)
	}

	// Scores are computed on the preprocessed text; results carry the original.
	prepared := s.pipeline.ApplyAll(candidates)
	matches, err := s.searcher.Search(ctx, prepared, s.pipeline.Apply(args.Query),
		similarity.WithThreshold(threshold),
		similarity.WithMatchCount(matchCount))
	if err != nil {
		if errors.Is(err, similarity.ErrInvalidMatchCount) {
			return nil, SearchOutput{}, fmt.Errorf("invalid match_count: %w", err)
		}
		return nil, SearchOutput{}, fmt.Errorf("search failed: %w", err)
	}

	out := make([]SearchMatch, len(matches))
	for i, m := range matches {
		out[i] = SearchMatch{
			Candidate: candidates[m.Index],
			Score:     m.Score,
			Index:     m.Index,
		}
	}

	return nil, SearchOutput{
		Matches:    out,
		Count:      len(out),
		Candidates: len(candidates),
	}, nil
}

// handleVector implements the textsim_vector_cosine tool.
func (s *Server) handleVector(ctx context.Context, req *sdk.CallToolRequest, args VectorInput) (_ *sdk.CallToolResult, _ VectorOutput, retErr error) {
	start := time.Now()
	method := args.Method
	if method == "" {
		method = "tfidf"
	}
	defer func() {
		s.auditTool(constants.ToolVector, start, retErr, map[string]any{
			"base_len": len(args.Base), "query_len": len(args.Query), "method": method,
		})
	}()

	if err := s.meter.Charge(constants.ToolVector, ratelimit.ScoreCost(args.Base, args.Query)); err != nil {
		return nil, VectorOutput{}, err
	}
	if err := validateThreshold(args.Threshold); err != nil {
		return nil, VectorOutput{}, err
	}

	base, query := s.pipeline.Apply(args.Base), s.pipeline.Apply(args.Query)

	var score float64
	var err error
	switch method {
	case "count", "tfidf":
		weighting := vectorize.TFIDF
		if method == "count" {
			weighting = vectorize.Counts
		}
		score, err = vectorize.CompareDocs(vectorize.Options{
			MaxFeatures: args.MaxFeatures,
			NGramMin:    args.NGramMin,
			NGramMax:    args.NGramMax,
			StopWords:   s.settings.Preprocess.Stopwords,
			Language:    s.settings.Preprocess.Language,
		}, weighting, base, query)
	case "glove":
		var vectors *vectorize.WordVectors
		if vectors, err = s.wordVectors(); err == nil {
			score, err = vectorize.Compare(ctx, vectors, base, query)
		}
	case "model":
		if !s.embedder.Available() {
			return nil, VectorOutput{}, fmt.Errorf("no embedding model available (set embeddings.model and embeddings.lib_path)")
		}
		score, err = vectorize.Compare(ctx, s.embedder, base, query)
	default:
		return nil, VectorOutput{}, fmt.Errorf("invalid method: %s (valid: count, tfidf, glove, model)", method)
	}
	if err != nil {
		return nil, VectorOutput{}, err
	}

	out := VectorOutput{Method: method, Score: score}
	if args.Threshold != nil {
		match := similarity.MeetsThreshold(score, *args.Threshold)
		out.Threshold = args.Threshold
		out.Match = &match
	}
	return nil, out, nil
}

func validateThreshold(threshold *float64) error {
	if threshold != nil && (*threshold < 0 || *threshold > 1) {
		return fmt.Errorf("threshold must be between 0 and 1, got %f", *threshold)
	}
	return nil
}

// auditTool records a tool invocation in the search trace and the debug log.
func (s *Server) auditTool(tool string, start time.Time, err error, params map[string]any) {
	duration := time.Since(start)
	status := "success"
	if err != nil {
		status = "error"
	}

	s.logger.Debug("tool call", "tool", tool, "status", status, "duration", duration)

	event := map[string]any{
		"event":       "tool_call",
		"tool":        tool,
		"status":      status,
		"duration_ms": duration.Milliseconds(),
		"params":      params,
	}
	if err != nil {
		event["error"] = err.Error()
	}
	s.trace.Log(event)
}
