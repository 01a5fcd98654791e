package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nvandessel/textsim/internal/config"
	"github.com/nvandessel/textsim/internal/similarity"
	"github.com/nvandessel/textsim/internal/vectorize"
)

// Vector cosine methods.
const (
	methodCount = "count"
	methodTFIDF = "tfidf"
	methodGloVe = "glove"
	methodModel = "model"
)

func newVectorCosineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vector-cosine <base> <query>",
		Short: "Cosine similarity of bag-of-words, TF-IDF or embedding vectors",
		Long: `Compute the cosine similarity of two texts after turning each into a vector.

Methods:
  count   word n-gram counts over the vocabulary of both texts
  tfidf   counts weighted by smoothed inverse document frequency
  glove   average of pretrained GloVe word vectors (--glove or embeddings.glove)
  model   embedding from a local GGUF model (--model or embeddings.model)

Texts whose vectors are all zeros score 0.

Examples:
  textsim vector-cosine "I am soundar balajij" "I am soundar balaji"
  textsim vector-cosine "machine learning rocks" "learning machines" --method count --ngram-max 2
  textsim vector-cosine king queen --method glove --glove glove.6B.50d.txt`,
		Args: cobra.ExactArgs(2),
		RunE: runVectorCosine,
	}

	cmd.Flags().String("method", methodTFIDF, "Vectorization: count, tfidf, glove, model")
	cmd.Flags().Float64("threshold", 0, "Report whether the score reaches this value (inclusive)")
	cmd.Flags().String("glove", "", "GloVe word vector file (default from config)")
	cmd.Flags().String("model", "", "GGUF embedding model (default from config)")
	cmd.Flags().String("lib", "", "llama.cpp library directory (default from config or YZMA_LIB)")
	addVocabularyFlags(cmd)
	addPreprocessFlags(cmd)
	return cmd
}

func newTopTermsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top-terms [document...]",
		Short: "Show the highest weighted terms of each document",
		Long: `Fit a vectorizer on the documents and print the highest weighted terms of
each one. Documents come from the arguments, then the contents of --file.

Examples:
  textsim top-terms "I love NLP and machine learning!" "NLP is awesome and so much fun."
  textsim top-terms --file docs.txt --top 5 --stopwords --ngram-max 2
  textsim top-terms --file notes.db --column body --method count --json`,
		RunE: runTopTerms,
	}

	cmd.Flags().String("method", methodTFIDF, "Weighting: count, tfidf")
	cmd.Flags().IntP("top", "n", 3, "Terms to show per document")
	addSourceFlags(cmd, "Document")
	addVocabularyFlags(cmd)
	addPreprocessFlags(cmd)
	return cmd
}

func addVocabularyFlags(cmd *cobra.Command) {
	cmd.Flags().Int("ngram-min", 1, "Smallest n-gram size for count and tfidf")
	cmd.Flags().Int("ngram-max", 1, "Largest n-gram size for count and tfidf")
	cmd.Flags().Int("max-features", 0, "Keep only the most frequent terms (0 keeps all)")
}

// vocabularyOptions reads the vocabulary flags. Stopword removal and its
// language follow the preprocess settings.
func vocabularyOptions(cmd *cobra.Command, cfg *config.TextsimConfig) (vectorize.Options, error) {
	pre, err := preprocessOptionsFor(cmd, cfg)
	if err != nil {
		return vectorize.Options{}, err
	}
	lo, _ := cmd.Flags().GetInt("ngram-min")
	hi, _ := cmd.Flags().GetInt("ngram-max")
	if !cmd.Flags().Changed("ngram-max") && hi < lo {
		hi = lo
	}
	features, _ := cmd.Flags().GetInt("max-features")
	return vectorize.Options{
		MaxFeatures: features,
		NGramMin:    lo,
		NGramMax:    hi,
		StopWords:   pre.Stopwords,
		Language:    pre.Language,
	}, nil
}

func weightingFor(method string) (vectorize.Weighting, bool) {
	switch method {
	case methodCount:
		return vectorize.Counts, true
	case methodTFIDF:
		return vectorize.TFIDF, true
	}
	return 0, false
}

func runVectorCosine(cmd *cobra.Command, args []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	method, _ := cmd.Flags().GetString("method")
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

	var score float64
	switch method {
	case methodCount, methodTFIDF:
		opts, err := vocabularyOptions(cmd, cfg)
		if err != nil {
			return err
		}
		weighting, _ := weightingFor(method)
		score, err = vectorize.CompareDocs(opts, weighting, base, query)
		if err != nil {
			return err
		}

	case methodGloVe:
		path, _ := cmd.Flags().GetString("glove")
		if path == "" {
			path = cfg.Embeddings.GloVe
		}
		if path == "" {
			return fmt.Errorf("glove method needs a word vector file (use --glove or set embeddings.glove)")
		}
		vectors, err := vectorize.LoadGloVeFile(path)
		if err != nil {
			return err
		}
		logger.Debug("loaded word vectors", "words", vectors.Len(), "dim", vectors.Dim())
		if score, err = vectorize.Compare(contextOf(cmd), vectors, base, query); err != nil {
			return err
		}

	case methodModel:
		modelCfg := vectorize.ModelConfig{
			ModelPath: cfg.Embeddings.Model,
			LibPath:   cfg.Embeddings.LibPath,
			GPULayers: cfg.Embeddings.GPULayers,
		}
		if model, _ := cmd.Flags().GetString("model"); model != "" {
			modelCfg.ModelPath = model
		}
		if lib, _ := cmd.Flags().GetString("lib"); lib != "" {
			modelCfg.LibPath = lib
		}
		embedder := vectorize.NewModelEmbedder(modelCfg)
		defer embedder.Close()
		if !embedder.Available() {
			return fmt.Errorf("model method needs an existing model file and library directory (use --model and --lib)")
		}
		if score, err = vectorize.Compare(contextOf(cmd), embedder, base, query); err != nil {
			return err
		}

	default:
		return fmt.Errorf("invalid method: %s (valid: count, tfidf, glove, model)", method)
	}

	logger.Debug("scored", "measure", "vector-cosine", "method", method, "score", score)

	matched := hasThreshold && similarity.MeetsThreshold(score, threshold)
	if jsonOut {
		out := map[string]interface{}{
			"measure": "vector-cosine",
			"method":  method,
			"score":   score,
		}
		if hasThreshold {
			out["threshold"] = threshold
			out["match"] = matched
		}
		return writeJSON(cmd, out)
	}

	w := cmd.OutOrStdout()
	if hasThreshold {
		fmt.Fprintf(w, "%.4f (%s %.4f)\n", score, matchWord(matched), threshold)
		return nil
	}
	fmt.Fprintf(w, "%.4f\n", score)
	return nil
}

// documentTerms is the top-terms result for one document.
type documentTerms struct {
	Document int              `json:"document"`
	Text     string           `json:"text"`
	Terms    []vectorize.Term `json:"terms"`
}

func runTopTerms(cmd *cobra.Command, args []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	method, _ := cmd.Flags().GetString("method")
	top, _ := cmd.Flags().GetInt("top")
	if top < 1 {
		return fmt.Errorf("top must be at least 1, got %d", top)
	}
	weighting, ok := weightingFor(method)
	if !ok {
		return fmt.Errorf("invalid method: %s (valid: count, tfidf)", method)
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	applySourceFlags(cmd, cfg)

	docs := append([]string(nil), args...)
	loaded, err := loadCandidates(cmd, cfg)
	if err != nil {
		return err
	}
	docs = append(docs, loaded...)
	if len(docs) == 0 {
		return fmt.Errorf("no documents given (pass them as arguments or use --file)")
	}

	pipeline, err := pipelineFor(cmd, cfg)
	if err != nil {
		return err
	}
	opts, err := vocabularyOptions(cmd, cfg)
	if err != nil {
		return err
	}
	v, err := vectorize.New(opts, weighting)
	if err != nil {
		return err
	}
	rows, err := v.FitTransform(pipeline.ApplyAll(docs))
	if err != nil {
		return err
	}
	newLogger(cmd, cfg).Debug("fitted vocabulary", "method", method, "documents", len(docs), "features", len(v.Features()))

	results := make([]documentTerms, len(docs))
	for i, row := range rows {
		results[i] = documentTerms{Document: i + 1, Text: docs[i], Terms: v.TopTerms(row, top)}
	}

	if jsonOut {
		return writeJSON(cmd, results)
	}
	return printTopTerms(cmd.OutOrStdout(), results)
}

func printTopTerms(w io.Writer, results []documentTerms) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "Document %d: %s\n", r.Document, strings.TrimSpace(r.Text))
		for _, t := range r.Terms {
			fmt.Fprintf(tw, "  %s\t%.4f\n", t.Term, t.Weight)
		}
	}
	return tw.Flush()
}
