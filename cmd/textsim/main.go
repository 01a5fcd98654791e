package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nvandessel/textsim/internal/config"
	"github.com/nvandessel/textsim/internal/logging"
	"github.com/nvandessel/textsim/internal/preprocess"
)

// Set via ldflags at build time.
var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "textsim",
		Short: "Text similarity scoring and ranked search",
		Long: `textsim scores how similar two texts are and ranks candidate texts
against a query.

Two measures are available: cosine similarity of word counts, and the
Ratcliff/Obershelp sequence ratio. Ranked search uses the sequence ratio.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: warn, info, debug, trace (overrides config)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newCosineCmd(),
		newRatioCmd(),
		newSearchCmd(),
		newVectorCosineCmd(),
		newTopTermsCmd(),
		newConfigCmd(),
		newMCPServerCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return writeJSON(cmd, map[string]string{
					"version": version,
					"commit":  commit,
					"date":    date,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "textsim version %s (commit: %s, built: %s)\n", version, commit, date)
			return nil
		},
	}
}

// loadSettings loads the config file and environment, then applies the
// --log-level flag.
func loadSettings(cmd *cobra.Command) (*config.TextsimConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger returns a logger writing to the command's stderr.
func newLogger(cmd *cobra.Command, cfg *config.TextsimConfig) *slog.Logger {
	return logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
}

// openTrace opens ~/.textsim/trace.jsonl when the log level asks for it.
// The returned trace may be nil; SearchTrace methods are nil-safe.
func openTrace(cfg *config.TextsimConfig) *logging.SearchTrace {
	dir, err := config.Dir()
	if err != nil {
		return nil
	}
	return logging.NewSearchTrace(dir, cfg.Logging.Level)
}

// addPreprocessFlags registers the flags that override preprocess settings.
func addPreprocessFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("normalize", false, "Apply Unicode NFKC normalization before scoring")
	cmd.Flags().Bool("clean", false, "Lowercase and strip punctuation before scoring")
	cmd.Flags().Bool("punctuation", false, "Strip ASCII punctuation before scoring, keeping case")
	cmd.Flags().Bool("stopwords", false, "Remove stopwords before scoring")
	cmd.Flags().Bool("lemmatize", false, "Reduce plural nouns to their singular form before scoring")
	cmd.Flags().Bool("stem", false, "Reduce words to their stems before scoring")
	cmd.Flags().String("language", "", "Stopword and stemmer language (default from config, english)")
}

// pipelineFor builds the preprocess pipeline from config, with any flag the
// user set taking precedence.
func pipelineFor(cmd *cobra.Command, cfg *config.TextsimConfig) (*preprocess.Pipeline, error) {
	opts, err := preprocessOptionsFor(cmd, cfg)
	if err != nil {
		return nil, err
	}
	return preprocess.NewPipeline(opts), nil
}

func preprocessOptionsFor(cmd *cobra.Command, cfg *config.TextsimConfig) (preprocess.Options, error) {
	opts := preprocess.Options{
		Normalize:         cfg.Preprocess.Normalize,
		Clean:             cfg.Preprocess.Clean,
		RemovePunctuation: cfg.Preprocess.RemovePunctuation,
		Stopwords:         cfg.Preprocess.Stopwords,
		ExtraStopwords:    cfg.Preprocess.ExtraStopwords,
		Lemmatize:         cfg.Preprocess.Lemmatize,
		Stem:              cfg.Preprocess.Stem,
		Language:          cfg.Preprocess.Language,
	}

	override := func(name string, dst *bool) {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetBool(name)
		}
	}
	override("normalize", &opts.Normalize)
	override("clean", &opts.Clean)
	override("punctuation", &opts.RemovePunctuation)
	override("stopwords", &opts.Stopwords)
	override("lemmatize", &opts.Lemmatize)
	override("stem", &opts.Stem)

	if cmd.Flags().Changed("language") {
		lang, _ := cmd.Flags().GetString("language")
		if !preprocess.ValidLanguage(lang) {
			return opts, fmt.Errorf("invalid language: %s (valid: %s)", lang, strings.Join(preprocess.Languages(), ", "))
		}
		opts.Language = lang
	}
	return opts, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	return enc.Encode(v)
}
