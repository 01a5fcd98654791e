// Package mcp provides an MCP (Model Context Protocol) server exposing the
// textsim scorers as tools.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/textsim/internal/config"
	"github.com/nvandessel/textsim/internal/logging"
	"github.com/nvandessel/textsim/internal/pathutil"
	"github.com/nvandessel/textsim/internal/preprocess"
	"github.com/nvandessel/textsim/internal/ratelimit"
	"github.com/nvandessel/textsim/internal/similarity"
	"github.com/nvandessel/textsim/internal/vectorize"
)

// Server wraps the MCP SDK server and the shared search state.
type Server struct {
	server   *sdk.Server
	searcher *similarity.Searcher
	pipeline *preprocess.Pipeline
	settings *config.TextsimConfig
	logger   *slog.Logger
	trace    *logging.SearchTrace

	meter      *ratelimit.Meter
	sourceDirs []string

	// Word vectors load on the first glove request.
	gloveOnce sync.Once
	glove     *vectorize.WordVectors
	gloveErr  error
	embedder  *vectorize.ModelEmbedder
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "textsim")
	Version string // Server version

	// Settings supplies search defaults and preprocessing. Defaults are used when nil.
	Settings *config.TextsimConfig

	// Logger receives operational logs. slog.Default() when nil.
	Logger *slog.Logger

	// Trace records search and tool events. May be nil.
	Trace *logging.SearchTrace

	// SourceDirs lists the directories textsim_search may read candidate
	// files from. Defaults to the working directory and ~/.textsim.
	SourceDirs []string
}

// NewServer creates a new MCP server with textsim tools.
func NewServer(cfg *Config) (*Server, error) {
	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sourceDirs := cfg.SourceDirs
	if sourceDirs == nil {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		sourceDirs, err = pathutil.DefaultSourceDirs(wd)
		if err != nil {
			return nil, err
		}
	}

	searcherOpts := []similarity.SearcherOption{
		similarity.WithParallelMin(settings.Search.ParallelMin),
		similarity.WithLogger(logger),
		similarity.WithTrace(cfg.Trace),
	}
	if settings.Search.Workers > 0 {
		searcherOpts = append(searcherOpts, similarity.WithPoolSize(settings.Search.Workers))
	}
	searcher, err := similarity.NewSearcher(searcherOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create searcher: %w", err)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		server:   mcpServer,
		searcher: searcher,
		pipeline: preprocess.NewPipeline(preprocessOptions(settings.Preprocess)),
		settings: settings,
		logger:   logger,
		trace:    cfg.Trace,

		meter:      ratelimit.NewMeter(),
		sourceDirs: sourceDirs,

		embedder: vectorize.NewModelEmbedder(vectorize.ModelConfig{
			ModelPath: settings.Embeddings.Model,
			LibPath:   settings.Embeddings.LibPath,
			GPULayers: settings.Embeddings.GPULayers,
		}),
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, shutdownSignals...)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})

	s.Close()

	return err
}

// Close releases the scoring workers and any loaded embedding model.
func (s *Server) Close() error {
	s.searcher.Release()
	return s.embedder.Close()
}

// wordVectors loads the configured GloVe file once.
func (s *Server) wordVectors() (*vectorize.WordVectors, error) {
	s.gloveOnce.Do(func() {
		path := s.settings.Embeddings.GloVe
		if path == "" {
			s.gloveErr = fmt.Errorf("no word vectors configured (set embeddings.glove)")
			return
		}
		s.glove, s.gloveErr = vectorize.LoadGloVeFile(path)
		if s.gloveErr == nil {
			s.logger.Info("loaded word vectors", "words", s.glove.Len(), "dim", s.glove.Dim())
		}
	})
	return s.glove, s.gloveErr
}

func preprocessOptions(c config.PreprocessConfig) preprocess.Options {
	return preprocess.Options{
		Normalize:         c.Normalize,
		Clean:             c.Clean,
		RemovePunctuation: c.RemovePunctuation,
		Stopwords:         c.Stopwords,
		ExtraStopwords:    c.ExtraStopwords,
		Lemmatize:         c.Lemmatize,
		Stem:              c.Stem,
		Language:          c.Language,
	}
}
