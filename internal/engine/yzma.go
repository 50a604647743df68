//go:build llama

package engine

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/hybridgroup/yzma/pkg/llama"
)

// runtimeBuilt indicates this binary was compiled with the real runtime.
var runtimeBuilt = true

var (
	initOnce sync.Once
	initErr  error
)

// initRuntime loads the llama.cpp shared libraries once per process.
// INFERD_LIB overrides the library directory; default is ./lib/llama.
func initRuntime() error {
	initOnce.Do(func() {
		libPath := os.Getenv("INFERD_LIB")
		if libPath == "" {
			libPath = "./lib/llama"
		}
		if err := llama.Load(libPath); err != nil {
			initErr = fmt.Errorf("load llama.cpp libraries from %s: %w", libPath, err)
			return
		}
		llama.Init()
	})
	return initErr
}

// New returns the yzma-backed engine.
func New() Engine { return yzmaEngine{} }

type yzmaEngine struct{}

func (yzmaEngine) LoadModel(path string) (Model, error) {
	if err := initRuntime(); err != nil {
		return nil, err
	}
	params := llama.ModelDefaultParams()
	m, err := llama.ModelLoadFromFile(path, params)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return &yzmaModel{model: m, vocab: llama.ModelGetVocab(m)}, nil
}

type yzmaModel struct {
	model llama.Model
	vocab llama.Vocab
}

func (m *yzmaModel) NewContext(params ContextParams) (Context, error) {
	cp := llama.ContextDefaultParams()
	cp.NCtx = uint32(params.ContextSize)
	cp.NBatch = uint32(params.ContextSize)
	cp.NThreads = int32(params.Threads)
	cp.NThreadsBatch = int32(params.Threads)
	lctx, err := llama.InitFromModel(m.model, cp)
	if err != nil {
		return nil, fmt.Errorf("create context: %w", err)
	}
	sampler := llama.SamplerInitGreedy()
	return &yzmaContext{ctx: lctx, sampler: sampler}, nil
}

func (m *yzmaModel) Tokenize(text string, addBOS bool) ([]Token, error) {
	toks := llama.Tokenize(m.vocab, text, addBOS, false)
	if len(toks) == 0 {
		return nil, errors.New("text produced no tokens")
	}
	out := make([]Token, len(toks))
	for i, t := range toks {
		out[i] = Token(t)
	}
	return out, nil
}

func (m *yzmaModel) Piece(tok Token) string {
	// Bounded scratch buffer; a non-positive length means the token has no
	// renderable text and contributes nothing.
	buf := make([]byte, 128)
	n := llama.TokenToPiece(m.vocab, llama.Token(tok), buf, 0, true)
	if n <= 0 {
		return ""
	}
	return string(buf[:n])
}

func (m *yzmaModel) IsEOG(tok Token) bool {
	return llama.VocabIsEOG(m.vocab, llama.Token(tok))
}

func (m *yzmaModel) Close() error {
	if m.model != 0 {
		llama.ModelFree(m.model)
		m.model = 0
	}
	return nil
}

type yzmaContext struct {
	ctx     llama.Context
	sampler llama.Sampler
}

func (c *yzmaContext) Decode(b Batch) error {
	toks := make([]llama.Token, len(b.Tokens))
	for i, t := range b.Tokens {
		toks[i] = llama.Token(t)
	}
	// BatchGetOne mirrors llama_batch_get_one: the runtime derives absolute
	// positions from the context's KV state and requests logits for the
	// final entry, which matches how Batch values are constructed here.
	batch := llama.BatchGetOne(toks)
	if _, err := llama.Decode(c.ctx, batch); err != nil {
		return fmt.Errorf("decode batch of %d: %w", len(toks), err)
	}
	return nil
}

func (c *yzmaContext) SampleGreedy() Token {
	return Token(llama.SamplerSample(c.sampler, c.ctx, -1))
}

func (c *yzmaContext) Close() error {
	if c.sampler != 0 {
		llama.SamplerFree(c.sampler)
		c.sampler = 0
	}
	if c.ctx != 0 {
		llama.Free(c.ctx)
		c.ctx = 0
	}
	return nil
}
