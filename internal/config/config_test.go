package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolateHome sets HOME to a temp directory to avoid touching real ~/.textsim/
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestDefault(t *testing.T) {
	config := Default()

	if config.Search.Threshold != 0 {
		t.Errorf("expected Threshold 0, got %f", config.Search.Threshold)
	}
	if config.Search.MatchCount != 1 {
		t.Errorf("expected MatchCount 1, got %d", config.Search.MatchCount)
	}
	if config.Search.Workers != 0 {
		t.Errorf("expected Workers 0, got %d", config.Search.Workers)
	}
	if config.Preprocess.Clean || config.Preprocess.Stopwords || config.Preprocess.Stem || config.Preprocess.Normalize {
		t.Error("expected all preprocessing off by default")
	}
	if config.Sources.Column != "text" {
		t.Errorf("expected Column 'text', got '%s'", config.Sources.Column)
	}
	if config.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", config.Logging.Level)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
search:
  threshold: 0.6
  match_count: 5
  workers: 4
preprocess:
  clean: true
  extra_stopwords: [foo, bar]
sources:
  table: docs
  column: body
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Search.Threshold != 0.6 {
		t.Errorf("expected Threshold 0.6, got %f", config.Search.Threshold)
	}
	if config.Search.MatchCount != 5 {
		t.Errorf("expected MatchCount 5, got %d", config.Search.MatchCount)
	}
	if config.Search.Workers != 4 {
		t.Errorf("expected Workers 4, got %d", config.Search.Workers)
	}
	// Unset keys keep their defaults
	if config.Search.ParallelMin != 256 {
		t.Errorf("expected ParallelMin default 256, got %d", config.Search.ParallelMin)
	}
	if !config.Preprocess.Clean {
		t.Error("expected Preprocess.Clean true")
	}
	if len(config.Preprocess.ExtraStopwords) != 2 {
		t.Errorf("expected 2 extra stopwords, got %v", config.Preprocess.ExtraStopwords)
	}
	if config.Sources.Table != "docs" || config.Sources.Column != "body" {
		t.Errorf("unexpected sources: %+v", config.Sources)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected Logging.Level 'debug', got '%s'", config.Logging.Level)
	}
}

func TestLoadFromFile_NotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("search: [unclosed"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadFromFile(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "parsing config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_ReadsHomeConfig(t *testing.T) {
	home := isolateHome(t)

	dir := filepath.Join(home, ".textsim")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("search:\n  match_count: 3\n"), 0600); err != nil {
		t.Fatal(err)
	}

	config, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.Search.MatchCount != 3 {
		t.Errorf("expected MatchCount 3, got %d", config.Search.MatchCount)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolateHome(t)
	t.Setenv("TEXTSIM_THRESHOLD", "0.75")
	t.Setenv("TEXTSIM_MATCH_COUNT", "10")
	t.Setenv("TEXTSIM_WORKERS", "2")
	t.Setenv("TEXTSIM_PARALLEL_MIN", "8")
	t.Setenv("TEXTSIM_PREPROCESS_STOPWORDS", "1")
	t.Setenv("TEXTSIM_LOG_LEVEL", "trace")
	t.Setenv("TEXTSIM_PREPROCESS_LANGUAGE", "Spanish")
	t.Setenv("TEXTSIM_PREPROCESS_LEMMATIZE", "true")
	t.Setenv("TEXTSIM_GLOVE", "/data/glove.6B.50d.txt")

	config, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if config.Search.Threshold != 0.75 {
		t.Errorf("expected Threshold 0.75, got %f", config.Search.Threshold)
	}
	if config.Search.MatchCount != 10 {
		t.Errorf("expected MatchCount 10, got %d", config.Search.MatchCount)
	}
	if config.Search.Workers != 2 {
		t.Errorf("expected Workers 2, got %d", config.Search.Workers)
	}
	if config.Search.ParallelMin != 8 {
		t.Errorf("expected ParallelMin 8, got %d", config.Search.ParallelMin)
	}
	if !config.Preprocess.Stopwords {
		t.Error("expected Preprocess.Stopwords true")
	}
	if config.Logging.Level != "trace" {
		t.Errorf("expected Logging.Level 'trace', got '%s'", config.Logging.Level)
	}
	if config.Preprocess.Language != "spanish" || !config.Preprocess.Lemmatize {
		t.Errorf("unexpected preprocess overrides: %+v", config.Preprocess)
	}
	if config.Embeddings.GloVe != "/data/glove.6B.50d.txt" {
		t.Errorf("expected GloVe path override, got %q", config.Embeddings.GloVe)
	}
}

func TestEnvOverrides_IgnoresMalformedNumbers(t *testing.T) {
	isolateHome(t)
	t.Setenv("TEXTSIM_THRESHOLD", "high")
	t.Setenv("TEXTSIM_MATCH_COUNT", "many")

	config, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.Search.Threshold != 0 || config.Search.MatchCount != 1 {
		t.Errorf("malformed values should be ignored, got %+v", config.Search)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *TextsimConfig)
		wantErr string
	}{
		{"valid", func(c *TextsimConfig) {}, ""},
		{"threshold too high", func(c *TextsimConfig) { c.Search.Threshold = 1.5 }, "threshold"},
		{"threshold negative", func(c *TextsimConfig) { c.Search.Threshold = -0.1 }, "threshold"},
		{"threshold one is valid", func(c *TextsimConfig) { c.Search.Threshold = 1 }, ""},
		{"match count zero", func(c *TextsimConfig) { c.Search.MatchCount = 0 }, "match_count"},
		{"negative workers", func(c *TextsimConfig) { c.Search.Workers = -1 }, "workers"},
		{"negative parallel min", func(c *TextsimConfig) { c.Search.ParallelMin = -1 }, "parallel_min"},
		{"invalid log level", func(c *TextsimConfig) { c.Logging.Level = "verbose" }, "log level"},
		{"invalid language", func(c *TextsimConfig) { c.Preprocess.Language = "klingon" }, "language"},
		{"empty language", func(c *TextsimConfig) { c.Preprocess.Language = "" }, ""},
		{"negative gpu layers", func(c *TextsimConfig) { c.Embeddings.GPULayers = -1 }, "gpu_layers"},
		{"empty log level", func(c *TextsimConfig) { c.Logging.Level = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetSet(t *testing.T) {
	c := Default()

	for _, key := range Keys() {
		if _, ok := c.Get(key); !ok {
			t.Errorf("Get(%q) not found", key)
		}
	}

	if err := c.Set("search.threshold", "0.4"); err != nil {
		t.Fatalf("Set threshold: %v", err)
	}
	if v, _ := c.Get("search.threshold"); v != 0.4 {
		t.Errorf("threshold = %v, want 0.4", v)
	}

	if err := c.Set("preprocess.extra_stopwords", "foo, bar,,baz"); err != nil {
		t.Fatalf("Set extra_stopwords: %v", err)
	}
	if v, _ := c.Get("preprocess.extra_stopwords"); v != "foo,bar,baz" {
		t.Errorf("extra_stopwords = %v, want foo,bar,baz", v)
	}

	if err := c.Set("logging.level", "DEBUG"); err != nil {
		t.Fatalf("Set log level: %v", err)
	}
	if c.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", c.Logging.Level)
	}

	bad := map[string]string{
		"search.threshold":      "2",
		"search.match_count":    "0",
		"search.workers":        "-3",
		"logging.level":         "loud",
		"preprocess.language":   "klingon",
		"embeddings.gpu_layers": "-2",
		"no.such.key":           "x",
	}
	for key, value := range bad {
		if err := c.Set(key, value); err == nil {
			t.Errorf("Set(%q, %q) should fail", key, value)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	isolateHome(t)

	c := Default()
	c.Search.MatchCount = 7
	c.Preprocess.Stem = true
	if err := Save(c); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permissions = %o, want 0600", perm)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Search.MatchCount != 7 || !loaded.Preprocess.Stem {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
