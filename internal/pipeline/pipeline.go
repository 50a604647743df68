// Package pipeline runs one single-turn greedy completion: template, tokenize,
// prefill, decode loop, metrics. It owns the model and context handles for
// exactly the duration of the request and releases them on every exit path.
package pipeline

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"inferd/internal/engine"
	"inferd/internal/template"
	"inferd/pkg/types"
)

const (
	// DefaultMaxTokens caps the number of generated tokens per request.
	DefaultMaxTokens = 32
	// DefaultContextSize is the KV cache length in tokens.
	DefaultContextSize = 2048
	// DefaultThreads used by the runtime inside a forward pass.
	DefaultThreads = 4
)

// Request describes one completion to run. Immutable once built.
type Request struct {
	Prompt    string
	ModelPath string
	Template  template.Kind
	// MaxTokens, ContextSize, Threads fall back to the package defaults
	// when zero.
	MaxTokens   int
	ContextSize int
	Threads     int
}

// Runner executes requests against an engine. Safe to share: all per-request
// state lives in Run.
type Runner struct {
	eng engine.Engine
	log zerolog.Logger
}

// New returns a Runner backed by eng.
func New(eng engine.Engine, log zerolog.Logger) *Runner {
	return &Runner{eng: eng, log: log}
}

// Run executes the request to one of its terminal states. Fatal failures
// (model load, tokenize, context create, prefill) return an error and an
// empty-failure result; a decode failure mid-generation returns the partial
// output with no error.
func (r *Runner) Run(req Request) (types.InferResult, error) {
	start := time.Now()

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	ctxSize := req.ContextSize
	if ctxSize <= 0 {
		ctxSize = DefaultContextSize
	}
	threads := req.Threads
	if threads <= 0 {
		threads = DefaultThreads
	}

	formatted := template.Format(req.Prompt, req.Template)
	r.log.Debug().Stringer("template", req.Template).Int("len", len(formatted)).Msg("prompt formatted")

	failed := types.InferResult{Outcome: types.OutcomeEmptyFailure}

	model, err := r.eng.LoadModel(req.ModelPath)
	if err != nil {
		return failed, ErrModelLoad(err)
	}
	defer func() { _ = model.Close() }()

	promptTokens, err := model.Tokenize(formatted, true)
	if err != nil {
		return failed, ErrTokenize(err.Error())
	}
	// The prompt plus the full generation budget must fit the KV cache.
	// Fail rather than shrink the budget or re-tokenize.
	if len(promptTokens)+maxTokens > ctxSize {
		return failed, ErrTokenize("prompt does not fit context window")
	}

	lctx, err := model.NewContext(engine.ContextParams{ContextSize: ctxSize, Threads: threads})
	if err != nil {
		return failed, ErrContextCreate(err)
	}
	defer func() { _ = lctx.Close() }()

	prefill := engine.PrefillBatch(promptTokens)
	prefillStart := time.Now()
	if err := lctx.Decode(prefill); err != nil {
		return failed, ErrPrefillDecode(err)
	}
	prefillMs := time.Since(prefillStart).Milliseconds()

	var metrics types.Metrics
	metrics.InputTPS = throughput(len(promptTokens), prefillMs)

	// Cursor holds the absolute position of the next forward pass; the
	// prefill batch already advanced it past the prompt.
	nPos := prefill.Len()
	nPrompt := len(promptTokens)
	generated := 0
	firstTokenSeen := false
	var stop types.StopReason
	var out strings.Builder

	genStart := time.Now()
	for {
		tok := lctx.SampleGreedy()
		if model.IsEOG(tok) {
			stop = types.StopEOG
			break
		}
		if !firstTokenSeen {
			metrics.TTFTMs = types.MetricOf(time.Since(start).Milliseconds())
			firstTokenSeen = true
		}
		if piece := model.Piece(tok); piece != "" {
			// The output is a single line; a newline means the model has
			// moved past the answer. Keep only the text before it.
			if i := strings.IndexByte(piece, '\n'); i >= 0 {
				out.WriteString(piece[:i])
				stop = types.StopNewline
				break
			}
			out.WriteString(piece)
		}
		generated++
		if nPos+1 >= nPrompt+maxTokens {
			stop = types.StopMaxTokens
			break
		}
		step := engine.StepBatch(tok, int32(nPos))
		if err := lctx.Decode(step); err != nil {
			// Degraded stop: keep what was generated so far.
			r.log.Warn().Err(err).Int("generated", generated).Msg("decode step failed")
			stop = types.StopDecodeError
			break
		}
		nPos += step.Len()
	}
	genMs := time.Since(genStart).Milliseconds()

	metrics.DecodeMs = types.MetricOf(genMs)
	metrics.OutputTPS = throughput(generated, genMs)

	outcome := types.OutcomeOK
	if stop == types.StopDecodeError {
		outcome = types.OutcomePartial
	}

	r.log.Info().
		Int("prompt_tokens", nPrompt).
		Int("generated", generated).
		Str("stop", string(stop)).
		Dur("elapsed", time.Since(start)).
		Msg("generation finished")

	return types.InferResult{
		Outcome:         outcome,
		Stop:            stop,
		Output:          out.String(),
		Metrics:         metrics,
		GeneratedTokens: generated,
		PromptTokens:    nPrompt,
	}, nil
}

// throughput converts a token count over a measured duration into tokens
// per second. A zero or negative duration yields an absent metric instead
// of a division fault; very fast phases are simply not measured.
func throughput(tokens int, elapsedMs int64) types.Metric {
	if elapsedMs <= 0 {
		return types.Metric{}
	}
	return types.MetricOf(int64(tokens) * 1000 / elapsedMs)
}

// RunEncoded runs the request and renders the legacy single-string form
// ("TTFT_MS=..;ITPS=..;OTPS=..;OET_MS=..|text"). Fatal failures become the
// empty string; no error escapes.
func (r *Runner) RunEncoded(req Request) string {
	res, err := r.Run(req)
	if err != nil {
		r.log.Error().Err(err).Str("model", req.ModelPath).Msg("inference failed")
		return ""
	}
	return res.EncodeLegacy()
}
