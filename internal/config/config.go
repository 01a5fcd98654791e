// Package config provides unified configuration loading for textsim.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nvandessel/textsim/internal/constants"
	"github.com/nvandessel/textsim/internal/logging"
	"github.com/nvandessel/textsim/internal/preprocess"
	"gopkg.in/yaml.v3"
)

// TextsimConfig contains all textsim configuration settings.
type TextsimConfig struct {
	// Search contains defaults for ranked search.
	Search SearchConfig `json:"search" yaml:"search"`

	// Preprocess toggles the optional text transforms applied before scoring.
	Preprocess PreprocessConfig `json:"preprocess" yaml:"preprocess"`

	// Sources contains defaults for reading candidate files.
	Sources SourcesConfig `json:"sources" yaml:"sources"`

	// Embeddings locates word vectors and embedding models for vector cosine.
	Embeddings EmbeddingsConfig `json:"embeddings" yaml:"embeddings"`

	// Logging contains settings for operational logging and search tracing.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SearchConfig configures ranked search.
type SearchConfig struct {
	// Threshold is the minimum score for a result. 0 disables filtering.
	// Range: 0.0 to 1.0
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// MatchCount is the maximum number of results. Must be at least 1.
	MatchCount int `json:"match_count" yaml:"match_count"`

	// Workers is the scoring pool size. 0 means one per CPU.
	Workers int `json:"workers" yaml:"workers"`

	// ParallelMin is the candidate count from which scoring runs on the pool.
	ParallelMin int `json:"parallel_min" yaml:"parallel_min"`
}

// PreprocessConfig toggles text transforms. All are off by default so that
// scores reflect the raw input.
type PreprocessConfig struct {
	Normalize         bool     `json:"normalize" yaml:"normalize"`
	Clean             bool     `json:"clean" yaml:"clean"`
	RemovePunctuation bool     `json:"remove_punctuation" yaml:"remove_punctuation"`
	Stopwords         bool     `json:"stopwords" yaml:"stopwords"`
	ExtraStopwords    []string `json:"extra_stopwords,omitempty" yaml:"extra_stopwords,omitempty"`
	Lemmatize         bool     `json:"lemmatize" yaml:"lemmatize"`
	Stem              bool     `json:"stem" yaml:"stem"`

	// Language selects the stopword list and stemmer. Default: english.
	Language string `json:"language" yaml:"language"`
}

// SourcesConfig configures candidate loading.
type SourcesConfig struct {
	// Table is the SQLite table to read candidates from.
	Table string `json:"table" yaml:"table"`

	// Column is the SQLite or Arrow column holding candidate text.
	Column string `json:"column" yaml:"column"`

	// KeepEmpty keeps empty lines of text files as candidates.
	KeepEmpty bool `json:"keep_empty" yaml:"keep_empty"`
}

// EmbeddingsConfig locates dense vector sources.
type EmbeddingsConfig struct {
	// GloVe is a GloVe-format text file of word vectors.
	GloVe string `json:"glove" yaml:"glove"`

	// Model is a GGUF embedding model file.
	Model string `json:"model" yaml:"model"`

	// LibPath is the directory with the llama.cpp shared libraries used to
	// run Model. Falls back to YZMA_LIB.
	LibPath string `json:"lib_path" yaml:"lib_path"`

	// GPULayers is the number of model layers offloaded to GPU (0 = CPU only).
	GPULayers int `json:"gpu_layers" yaml:"gpu_layers"`
}

// LoggingConfig configures textsim's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "warn", "info" (default), "debug", or "trace".
	// "debug" and "trace" enable the search trace at ~/.textsim/trace.jsonl.
	Level string `json:"level" yaml:"level"`
}

// Default returns a TextsimConfig with sensible defaults.
func Default() *TextsimConfig {
	return &TextsimConfig{
		Search: SearchConfig{
			Threshold:   constants.DefaultThreshold,
			MatchCount:  constants.DefaultMatchCount,
			Workers:     0,
			ParallelMin: constants.DefaultParallelMin,
		},
		Preprocess: PreprocessConfig{
			Language: preprocess.DefaultLanguage,
		},
		Sources: SourcesConfig{
			Table:  constants.DefaultCandidateTable,
			Column: constants.DefaultCandidateColumn,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Dir returns the textsim home directory (~/.textsim).
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".textsim"), nil
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.textsim/config.yaml -> environment variables
func Load() (*TextsimConfig, error) {
	config := Default()

	if configPath, err := Path(); err == nil {
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*TextsimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Save writes the configuration to ~/.textsim/config.yaml.
func Save(c *TextsimConfig) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveToFile(c, path)
}

// SaveToFile writes the configuration as YAML to path.
func SaveToFile(c *TextsimConfig, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *TextsimConfig) Validate() error {
	if c.Search.Threshold < 0 || c.Search.Threshold > 1 {
		return fmt.Errorf("threshold must be between 0 and 1, got %f", c.Search.Threshold)
	}

	if c.Search.MatchCount < 1 {
		return fmt.Errorf("match_count must be at least 1, got %d", c.Search.MatchCount)
	}

	if c.Search.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Search.Workers)
	}

	if c.Search.ParallelMin < 0 {
		return fmt.Errorf("parallel_min must be non-negative, got %d", c.Search.ParallelMin)
	}

	if !preprocess.ValidLanguage(c.Preprocess.Language) {
		return fmt.Errorf("invalid language: %s (valid: %s)", c.Preprocess.Language, strings.Join(preprocess.Languages(), ", "))
	}

	if c.Embeddings.GPULayers < 0 {
		return fmt.Errorf("gpu_layers must be non-negative, got %d", c.Embeddings.GPULayers)
	}

	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: warn, info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// Keys lists the dot-notation keys accepted by Get and Set.
func Keys() []string {
	return []string{
		"search.threshold",
		"search.match_count",
		"search.workers",
		"search.parallel_min",
		"preprocess.normalize",
		"preprocess.clean",
		"preprocess.remove_punctuation",
		"preprocess.stopwords",
		"preprocess.extra_stopwords",
		"preprocess.lemmatize",
		"preprocess.stem",
		"preprocess.language",
		"sources.table",
		"sources.column",
		"sources.keep_empty",
		"embeddings.glove",
		"embeddings.model",
		"embeddings.lib_path",
		"embeddings.gpu_layers",
		"logging.level",
	}
}

// Get retrieves a configuration value by dot-notation key.
func (c *TextsimConfig) Get(key string) (interface{}, bool) {
	switch key {
	case "search.threshold":
		return c.Search.Threshold, true
	case "search.match_count":
		return c.Search.MatchCount, true
	case "search.workers":
		return c.Search.Workers, true
	case "search.parallel_min":
		return c.Search.ParallelMin, true
	case "preprocess.normalize":
		return c.Preprocess.Normalize, true
	case "preprocess.clean":
		return c.Preprocess.Clean, true
	case "preprocess.stopwords":
		return c.Preprocess.Stopwords, true
	case "preprocess.extra_stopwords":
		return strings.Join(c.Preprocess.ExtraStopwords, ","), true
	case "preprocess.remove_punctuation":
		return c.Preprocess.RemovePunctuation, true
	case "preprocess.lemmatize":
		return c.Preprocess.Lemmatize, true
	case "preprocess.stem":
		return c.Preprocess.Stem, true
	case "preprocess.language":
		return c.Preprocess.Language, true
	case "sources.table":
		return c.Sources.Table, true
	case "sources.column":
		return c.Sources.Column, true
	case "sources.keep_empty":
		return c.Sources.KeepEmpty, true
	case "embeddings.glove":
		return c.Embeddings.GloVe, true
	case "embeddings.model":
		return c.Embeddings.Model, true
	case "embeddings.lib_path":
		return c.Embeddings.LibPath, true
	case "embeddings.gpu_layers":
		return c.Embeddings.GPULayers, true
	case "logging.level":
		return c.Logging.Level, true
	default:
		return nil, false
	}
}

// Set sets a configuration value by dot-notation key.
func (c *TextsimConfig) Set(key, value string) error {
	switch key {
	case "search.threshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid threshold: %s (must be a number between 0 and 1)", value)
		}
		if f < 0 || f > 1 {
			return fmt.Errorf("threshold must be between 0 and 1, got %f", f)
		}
		c.Search.Threshold = f
	case "search.match_count":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid match_count: %s (must be an integer >= 1)", value)
		}
		c.Search.MatchCount = n
	case "search.workers":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid workers: %s (must be an integer >= 0)", value)
		}
		c.Search.Workers = n
	case "search.parallel_min":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid parallel_min: %s (must be an integer >= 0)", value)
		}
		c.Search.ParallelMin = n
	case "preprocess.normalize":
		c.Preprocess.Normalize = parseBool(value)
	case "preprocess.clean":
		c.Preprocess.Clean = parseBool(value)
	case "preprocess.stopwords":
		c.Preprocess.Stopwords = parseBool(value)
	case "preprocess.extra_stopwords":
		c.Preprocess.ExtraStopwords = splitList(value)
	case "preprocess.remove_punctuation":
		c.Preprocess.RemovePunctuation = parseBool(value)
	case "preprocess.lemmatize":
		c.Preprocess.Lemmatize = parseBool(value)
	case "preprocess.stem":
		c.Preprocess.Stem = parseBool(value)
	case "preprocess.language":
		if !preprocess.ValidLanguage(value) {
			return fmt.Errorf("invalid language: %s (valid: %s)", value, strings.Join(preprocess.Languages(), ", "))
		}
		c.Preprocess.Language = strings.ToLower(value)
	case "sources.table":
		c.Sources.Table = value
	case "sources.column":
		c.Sources.Column = value
	case "sources.keep_empty":
		c.Sources.KeepEmpty = parseBool(value)
	case "embeddings.glove":
		c.Embeddings.GloVe = value
	case "embeddings.model":
		c.Embeddings.Model = value
	case "embeddings.lib_path":
		c.Embeddings.LibPath = value
	case "embeddings.gpu_layers":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid gpu_layers: %s (must be an integer >= 0)", value)
		}
		c.Embeddings.GPULayers = n
	case "logging.level":
		if !logging.ValidLevel(value) {
			return fmt.Errorf("invalid log level: %s (valid: warn, info, debug, trace)", value)
		}
		c.Logging.Level = strings.ToLower(value)
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *TextsimConfig) {
	if v := os.Getenv("TEXTSIM_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Search.Threshold = f
		}
	}

	if v := os.Getenv("TEXTSIM_MATCH_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Search.MatchCount = n
		}
	}

	if v := os.Getenv("TEXTSIM_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Search.Workers = n
		}
	}

	if v := os.Getenv("TEXTSIM_PARALLEL_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Search.ParallelMin = n
		}
	}

	if v := os.Getenv("TEXTSIM_PREPROCESS_NORMALIZE"); v != "" {
		config.Preprocess.Normalize = parseBool(v)
	}
	if v := os.Getenv("TEXTSIM_PREPROCESS_CLEAN"); v != "" {
		config.Preprocess.Clean = parseBool(v)
	}
	if v := os.Getenv("TEXTSIM_PREPROCESS_STOPWORDS"); v != "" {
		config.Preprocess.Stopwords = parseBool(v)
	}
	if v := os.Getenv("TEXTSIM_PREPROCESS_STEM"); v != "" {
		config.Preprocess.Stem = parseBool(v)
	}
	if v := os.Getenv("TEXTSIM_PREPROCESS_PUNCTUATION"); v != "" {
		config.Preprocess.RemovePunctuation = parseBool(v)
	}
	if v := os.Getenv("TEXTSIM_PREPROCESS_LEMMATIZE"); v != "" {
		config.Preprocess.Lemmatize = parseBool(v)
	}
	if v := os.Getenv("TEXTSIM_PREPROCESS_LANGUAGE"); v != "" {
		config.Preprocess.Language = strings.ToLower(v)
	}

	if v := os.Getenv("TEXTSIM_GLOVE"); v != "" {
		config.Embeddings.GloVe = v
	}
	if v := os.Getenv("TEXTSIM_EMBEDDING_MODEL"); v != "" {
		config.Embeddings.Model = v
	}

	if v := os.Getenv("TEXTSIM_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

func parseBool(v string) bool {
	return v == "true" || v == "1"
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
