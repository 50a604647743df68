// Package engine defines the capability surface over the native inference
// runtime. The pipeline drives these interfaces only; nothing outside this
// package knows how forward passes are executed.
package engine

import "errors"

// Token is a model vocabulary token id.
type Token int32

// ErrRuntimeUnavailable is returned by LoadModel when the binary was built
// without a native runtime (missing 'llama' build tag).
var ErrRuntimeUnavailable = errors.New("native runtime not built (missing 'llama' build tag)")

// RuntimeBuilt reports whether this binary carries the real runtime.
func RuntimeBuilt() bool { return runtimeBuilt }

// ContextParams configures one inference context.
type ContextParams struct {
	// ContextSize is the KV cache length in tokens.
	ContextSize int
	// Threads used by the runtime inside a forward pass. Opaque to callers:
	// the external contract stays strictly sequential.
	Threads int
}

// Engine loads models from disk.
type Engine interface {
	// LoadModel opens and parses a GGUF model file. The caller owns the
	// returned Model and must Close it exactly once.
	LoadModel(path string) (Model, error)
}

// Model is a loaded set of weights plus its vocabulary. Not safe for
// concurrent use; one request owns it for its whole lifetime.
type Model interface {
	// NewContext allocates an inference context (KV cache sized by
	// params.ContextSize). The caller must Close it exactly once.
	NewContext(params ContextParams) (Context, error)
	// Tokenize encodes text into vocabulary token ids, optionally
	// prepending the beginning-of-sequence marker.
	Tokenize(text string, addBOS bool) ([]Token, error)
	// Piece renders one token's textual surface form. An empty string
	// means the token has no renderable text; that is not an error.
	Piece(tok Token) string
	// IsEOG reports whether the vocabulary classifies tok as an
	// end-of-generation marker.
	IsEOG(tok Token) bool
	Close() error
}

// Context is one model's inference state. Decode and SampleGreedy must be
// called from a single goroutine in strict alternation: a sample always
// reads the logits of the most recent Decode.
type Context interface {
	// Decode runs one forward pass over the batch.
	Decode(b Batch) error
	// SampleGreedy picks the highest-scoring token from the logits of the
	// last decoded position. Deterministic; no temperature.
	SampleGreedy() Token
	Close() error
}
