package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/textsim/internal/similarity"
)

func newCosineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cosine <base> <query>",
		Short: "Cosine similarity of the word counts of two texts",
		Long: `Compute the cosine similarity between the word-count vectors of two texts.

Words are maximal runs of letters, digits and underscores; matching is
case-sensitive. Texts that share no word score 0.

Examples:
  textsim cosine "I love GeeksForGeeks" "I love GeeksForGeeks"
  textsim cosine "hello world" "hello there" --threshold 0.5`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, args, "cosine", similarity.Cosine, similarity.CosineMatch)
		},
	}
	cmd.Flags().Float64("threshold", 0, "Report whether the score reaches this value (inclusive)")
	addPreprocessFlags(cmd)
	return cmd
}

func newRatioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratio <base> <query>",
		Short: "Ratcliff/Obershelp sequence ratio of two texts",
		Long: `Compute the sequence ratio 2*M/T between two texts, where M is the number
of characters in matching blocks and T is the total length of both texts.

Examples:
  textsim ratio abc abd
  textsim ratio "apple pie" apple --threshold 0.7`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, args, "ratio", similarity.Ratio, similarity.RatioMatch)
		},
	}
	cmd.Flags().Float64("threshold", 0, "Report whether the score reaches this value (inclusive)")
	addPreprocessFlags(cmd)
	return cmd
}

// runScore prints score(base, query). When --threshold is set the verdict
// comes from match, so the CLI and library share one boundary rule.
func runScore(cmd *cobra.Command, args []string, measure string,
	score func(base, query string) float64,
	match func(base, query string, threshold float64) bool,
) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	hasThreshold := cmd.Flags().Changed("threshold")

	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("threshold must be between 0 and 1, got %f", threshold)
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)
	pipeline, err := pipelineFor(cmd, cfg)
	if err != nil {
		return err
	}

	base, query := pipeline.Apply(args[0]), pipeline.Apply(args[1])
	result := score(base, query)
	logger.Debug("scored", "measure", measure, "score", result)

	var matched bool
	if hasThreshold {
		matched = match(base, query, threshold)
	}

	if jsonOut {
		out := map[string]interface{}{
			"measure": measure,
			"score":   result,
		}
		if hasThreshold {
			out["threshold"] = threshold
			out["match"] = matched
		}
		return writeJSON(cmd, out)
	}

	w := cmd.OutOrStdout()
	if hasThreshold {
		fmt.Fprintf(w, "%.4f (%s %.4f)\n", result, matchWord(matched), threshold)
		return nil
	}
	fmt.Fprintf(w, "%.4f\n", result)
	return nil
}

func matchWord(ok bool) string {
	if ok {
		return "match at"
	}
	return "below"
}
