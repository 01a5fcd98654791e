package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nvandessel/textsim/internal/config"
	"github.com/nvandessel/textsim/internal/constants"
	"github.com/nvandessel/textsim/internal/corpus"
	"github.com/nvandessel/textsim/internal/similarity"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query> [candidate...]",
		Short: "Rank candidates by sequence ratio against a query",
		Long: `Score every candidate against the query with the sequence ratio and print
the best matches, highest score first. Candidates with equal scores keep
their input order.

Candidates come from the arguments after the query, then --candidate
values, then the contents of --file. Use --file - to read candidates from
stdin.

Examples:
  textsim search apple "apple pie" apple banana grape
  textsim search apple --file fruits.txt --count 3 --scores
  textsim search apple -c "apple pie" -c banana --json
  textsim search "error budget" --file notes.db --table notes --column body
  cat fruits.txt | textsim search apple --file - --threshold 0.6`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().StringArrayP("candidate", "c", nil, "Candidate text (repeatable)")
	addSourceFlags(cmd, "Candidate")
	cmd.Flags().Float64P("threshold", "t", 0, "Minimum score to retain a candidate (inclusive, 0 disables)")
	cmd.Flags().IntP("count", "n", 0, "Maximum number of results (default from config)")
	cmd.Flags().Bool("scores", false, "Print scores alongside candidates")
	cmd.Flags().Int("workers", 0, "Scoring workers (default from config, 0 means one per CPU)")
	addPreprocessFlags(cmd)

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	withScores, _ := cmd.Flags().GetBool("scores")

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := applySearchFlags(cmd, cfg); err != nil {
		return err
	}

	logger := newLogger(cmd, cfg)
	trace := openTrace(cfg)
	defer trace.Close()

	query := args[0]
	candidates := append([]string(nil), args[1:]...)
	extra, _ := cmd.Flags().GetStringArray("candidate")
	candidates = append(candidates, extra...)
	loaded, err := loadCandidates(cmd, cfg)
	if err != nil {
		return err
	}
	candidates = append(candidates, loaded...)

	searcherOpts := []similarity.SearcherOption{
		similarity.WithParallelMin(cfg.Search.ParallelMin),
		similarity.WithLogger(logger),
		similarity.WithTrace(trace),
	}
	if cfg.Search.Workers > 0 {
		searcherOpts = append(searcherOpts, similarity.WithPoolSize(cfg.Search.Workers))
	}
	searcher, err := similarity.NewSearcher(searcherOpts...)
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}
	defer searcher.Release()

	pipeline, err := pipelineFor(cmd, cfg)
	if err != nil {
		return err
	}
	matches, err := searcher.Search(contextOf(cmd), pipeline.ApplyAll(candidates), pipeline.Apply(query),
		similarity.WithThreshold(cfg.Search.Threshold),
		similarity.WithMatchCount(cfg.Search.MatchCount))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	// Report original text, not the preprocessed form that was scored.
	for i := range matches {
		matches[i].Candidate = candidates[matches[i].Index]
	}

	if jsonOut {
		if withScores {
			return writeJSON(cmd, matches)
		}
		return writeJSON(cmd, similarity.Candidates(matches))
	}

	return printMatches(cmd.OutOrStdout(), matches, withScores)
}

// applySearchFlags overlays explicitly set search flags onto cfg.
func applySearchFlags(cmd *cobra.Command, cfg *config.TextsimConfig) error {
	flags := cmd.Flags()

	if flags.Changed("threshold") {
		threshold, _ := flags.GetFloat64("threshold")
		if threshold < 0 || threshold > 1 {
			return fmt.Errorf("threshold must be between 0 and 1, got %f", threshold)
		}
		cfg.Search.Threshold = threshold
	}
	if flags.Changed("count") {
		count, _ := flags.GetInt("count")
		if count < 1 {
			return fmt.Errorf("%w, got %d", similarity.ErrInvalidMatchCount, count)
		}
		cfg.Search.MatchCount = count
	}
	if flags.Changed("workers") {
		workers, _ := flags.GetInt("workers")
		if workers < 0 {
			return fmt.Errorf("workers must be non-negative, got %d", workers)
		}
		cfg.Search.Workers = workers
	}
	applySourceFlags(cmd, cfg)
	return nil
}

// applySourceFlags overlays candidate file flags onto cfg.
func applySourceFlags(cmd *cobra.Command, cfg *config.TextsimConfig) {
	flags := cmd.Flags()
	if table, _ := flags.GetString("table"); table != "" {
		cfg.Sources.Table = table
	}
	if column, _ := flags.GetString("column"); column != "" {
		cfg.Sources.Column = column
	}
	if flags.Changed("keep-empty") {
		cfg.Sources.KeepEmpty, _ = flags.GetBool("keep-empty")
	}
}

// addSourceFlags registers the flags read by loadCandidates.
func addSourceFlags(cmd *cobra.Command, what string) {
	cmd.Flags().StringP("file", "f", "", what+" file (text, YAML, SQLite, Arrow), or - for stdin")
	cmd.Flags().String("format", "", "File format: lines, yaml, sqlite, arrow (default: from extension)")
	cmd.Flags().String("table", "", "SQLite table to read (default from config)")
	cmd.Flags().String("column", "", "SQLite or Arrow column to read (default from config)")
	cmd.Flags().Bool("keep-empty", false, "Keep empty lines of text input")
}

// loadCandidates reads candidates from --file, if given.
func loadCandidates(cmd *cobra.Command, cfg *config.TextsimConfig) ([]string, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		return nil, nil
	}

	formatName, _ := cmd.Flags().GetString("format")
	format := constants.Format(formatName)
	if format != "" && !format.Valid() {
		return nil, fmt.Errorf("invalid format: %s (valid: lines, yaml, sqlite, arrow)", formatName)
	}

	if path == "-" {
		return loadStdin(cmd.InOrStdin(), format, cfg)
	}

	candidates, err := corpus.LoadFile(contextOf(cmd), path, corpus.Options{
		Format:    format,
		Table:     cfg.Sources.Table,
		Column:    cfg.Sources.Column,
		KeepEmpty: cfg.Sources.KeepEmpty,
	})
	if err != nil {
		if errors.Is(err, corpus.ErrColumnNotFound) {
			return nil, fmt.Errorf("failed to load candidates from %s: %w (use --column)", path, err)
		}
		return nil, fmt.Errorf("failed to load candidates from %s: %w", path, err)
	}
	return candidates, nil
}

func loadStdin(r io.Reader, format constants.Format, cfg *config.TextsimConfig) ([]string, error) {
	switch format {
	case "", constants.FormatLines:
		return corpus.LoadLines(r, cfg.Sources.KeepEmpty)
	case constants.FormatYAML:
		return corpus.LoadYAML(r)
	default:
		return nil, fmt.Errorf("%w from stdin: %s", corpus.ErrUnsupportedFormat, format)
	}
}

func printMatches(w io.Writer, matches []similarity.Match, withScores bool) error {
	if !withScores {
		for _, m := range matches {
			fmt.Fprintln(w, m.Candidate)
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, m := range matches {
		fmt.Fprintf(tw, "%.4f\t%s\n", m.Score, m.Candidate)
	}
	return tw.Flush()
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
