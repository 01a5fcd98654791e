package vectorize

import (
	"context"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/hybridgroup/yzma/pkg/llama"
)

// llama.Load and llama.Init are process-global and run once.
var (
	libOnce    sync.Once
	libLoadErr error
)

func loadLib(libPath string) error {
	libOnce.Do(func() {
		if err := llama.Load(libPath); err != nil {
			libLoadErr = fmt.Errorf("loading llama.cpp libraries from %q: %w", libPath, err)
			return
		}
		llama.LogSet(llama.LogSilent())
		llama.Init()
	})
	return libLoadErr
}

// ModelConfig locates a GGUF embedding model and its runtime.
type ModelConfig struct {
	// ModelPath is the GGUF embedding model file.
	ModelPath string

	// LibPath is the directory with the llama.cpp shared libraries.
	// Falls back to the YZMA_LIB environment variable.
	LibPath string

	// GPULayers is the number of layers offloaded to GPU (0 = CPU only).
	GPULayers int
}

// ModelEmbedder embeds text with a local GGUF model through yzma. The model
// loads on first use. Calls are serialized; each creates and frees its own
// llama context.
type ModelEmbedder struct {
	cfg ModelConfig

	mu      sync.Mutex
	once    sync.Once
	model   llama.Model
	vocab   llama.Vocab
	nEmbd   int32
	loaded  bool
	loadErr error
}

// NewModelEmbedder creates a ModelEmbedder. Nothing is loaded until Embed.
func NewModelEmbedder(cfg ModelConfig) *ModelEmbedder {
	return &ModelEmbedder{cfg: cfg}
}

func (m *ModelEmbedder) libPath() string {
	if m.cfg.LibPath != "" {
		return m.cfg.LibPath
	}
	return os.Getenv("YZMA_LIB")
}

// Available reports whether the library directory and model file exist. It
// does not load either.
func (m *ModelEmbedder) Available() bool {
	libPath := m.libPath()
	if libPath == "" || m.cfg.ModelPath == "" {
		return false
	}
	if info, err := os.Stat(libPath); err != nil || !info.IsDir() {
		return false
	}
	_, err := os.Stat(m.cfg.ModelPath)
	return err == nil
}

func (m *ModelEmbedder) load() error {
	m.once.Do(func() {
		if m.cfg.ModelPath == "" {
			m.loadErr = fmt.Errorf("no embedding model configured")
			return
		}
		libPath := m.libPath()
		if libPath == "" {
			m.loadErr = fmt.Errorf("no library path configured (set embeddings.lib_path or YZMA_LIB)")
			return
		}
		if err := loadLib(libPath); err != nil {
			m.loadErr = err
			return
		}

		params := llama.ModelDefaultParams()
		params.NGpuLayers = int32(min(m.cfg.GPULayers, math.MaxInt32))

		model, err := llama.ModelLoadFromFile(m.cfg.ModelPath, params)
		if err != nil {
			m.loadErr = fmt.Errorf("loading model %s: %w", m.cfg.ModelPath, err)
			return
		}
		if model == 0 {
			m.loadErr = fmt.Errorf("loading model %s: returned null handle", m.cfg.ModelPath)
			return
		}

		m.model = model
		m.vocab = llama.ModelGetVocab(model)
		m.nEmbd = int32(llama.ModelNEmbd(model))
		m.loaded = true
	})
	return m.loadErr
}

// Embed returns the L2-normalized sequence embedding of text.
func (m *ModelEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := m.load(); err != nil {
		return nil, fmt.Errorf("model embed: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := llama.Tokenize(m.vocab, text, true, true)

	ctxParams := llama.ContextDefaultParams()
	nTokens := len(tokens) + 64
	if nTokens > math.MaxUint32 {
		nTokens = math.MaxUint32
	}
	ctxParams.NCtx = uint32(nTokens)

	lctx, err := llama.InitFromModel(m.model, ctxParams)
	if err != nil {
		return nil, fmt.Errorf("creating embedding context: %w", err)
	}
	defer func() { _ = llama.Free(lctx) }()

	llama.SetEmbeddings(lctx, true)

	if _, err := llama.Decode(lctx, llama.BatchGetOne(tokens)); err != nil {
		return nil, fmt.Errorf("decoding tokens: %w", err)
	}

	raw, err := llama.GetEmbeddingsSeq(lctx, 0, m.nEmbd)
	if err != nil {
		return nil, fmt.Errorf("getting embeddings: %w", err)
	}

	// raw is owned by lctx.
	vec := make([]float64, len(raw))
	for i, x := range raw {
		vec[i] = float64(x)
	}
	l2Normalize(vec)
	return vec, nil
}

// Close frees the model. The process-global library stays loaded. Safe to
// call more than once; a later Embed reloads the model.
func (m *ModelEmbedder) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		_ = llama.ModelFree(m.model)
		m.model = 0
		m.vocab = 0
		m.nEmbd = 0
		m.loaded = false
		m.once = sync.Once{}
	}
	return nil
}
