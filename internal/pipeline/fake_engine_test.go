package pipeline

import (
	"errors"
	"time"

	"inferd/internal/engine"
)

// Scripted in-memory engine for pipeline tests. Token ids map to text
// pieces via the pieces table; the context replays the sample script.

const eogToken engine.Token = 9999

type fakeEngine struct {
	loadErr  error
	model    *fakeModel
	lastPath string
}

func (e *fakeEngine) LoadModel(path string) (engine.Model, error) {
	e.lastPath = path
	if e.loadErr != nil {
		return nil, e.loadErr
	}
	return e.model, nil
}

type fakeModel struct {
	tokenizeErr   error
	promptTokens  []engine.Token
	pieces        map[engine.Token]string
	ctx           *fakeContext
	newCtxErr     error
	lastTokenized string
	newCtxCalls   int
	closes        int
}

func (m *fakeModel) NewContext(params engine.ContextParams) (engine.Context, error) {
	m.newCtxCalls++
	if m.newCtxErr != nil {
		return nil, m.newCtxErr
	}
	return m.ctx, nil
}

func (m *fakeModel) Tokenize(text string, addBOS bool) ([]engine.Token, error) {
	m.lastTokenized = text
	if m.tokenizeErr != nil {
		return nil, m.tokenizeErr
	}
	return m.promptTokens, nil
}

func (m *fakeModel) Piece(tok engine.Token) string { return m.pieces[tok] }

func (m *fakeModel) IsEOG(tok engine.Token) bool { return tok == eogToken }

func (m *fakeModel) Close() error {
	m.closes++
	return nil
}

type fakeContext struct {
	script     []engine.Token // successive SampleGreedy results
	sampled    int
	prefillErr error
	failOnStep int // 1-based step-decode index that fails; 0 = never
	stepDelay  time.Duration
	batches    []engine.Batch
	closes     int
}

func (c *fakeContext) Decode(b engine.Batch) error {
	c.batches = append(c.batches, b)
	if len(c.batches) == 1 {
		return c.prefillErr
	}
	if c.stepDelay > 0 {
		time.Sleep(c.stepDelay)
	}
	if c.failOnStep > 0 && len(c.batches)-1 == c.failOnStep {
		return errors.New("forward pass failed")
	}
	return nil
}

func (c *fakeContext) SampleGreedy() engine.Token {
	if c.sampled >= len(c.script) {
		// Endless filler for budget tests.
		return engine.Token(1)
	}
	tok := c.script[c.sampled]
	c.sampled++
	return tok
}

func (c *fakeContext) Close() error {
	c.closes++
	return nil
}

// newFakeEngine builds an engine whose model tokenizes any prompt to
// promptLen tokens and whose context replays script.
func newFakeEngine(promptLen int, script []engine.Token, pieces map[engine.Token]string) (*fakeEngine, *fakeModel, *fakeContext) {
	toks := make([]engine.Token, promptLen)
	for i := range toks {
		toks[i] = engine.Token(100 + i)
	}
	ctx := &fakeContext{script: script}
	model := &fakeModel{promptTokens: toks, pieces: pieces, ctx: ctx}
	return &fakeEngine{model: model}, model, ctx
}
