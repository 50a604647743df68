package manager

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"inferd/internal/engine"
	"inferd/pkg/types"
)

// scriptedEngine emits a fixed completion for any model, recording the
// tokenized prompt so tests can check template selection.
type scriptedEngine struct {
	loadErr       error
	lastTokenized string
}

func (e *scriptedEngine) LoadModel(path string) (engine.Model, error) {
	if e.loadErr != nil {
		return nil, e.loadErr
	}
	return &scriptedModel{eng: e}, nil
}

type scriptedModel struct{ eng *scriptedEngine }

func (m *scriptedModel) NewContext(engine.ContextParams) (engine.Context, error) {
	return &scriptedContext{}, nil
}

func (m *scriptedModel) Tokenize(text string, addBOS bool) ([]engine.Token, error) {
	m.eng.lastTokenized = text
	return []engine.Token{1, 2, 3}, nil
}

func (m *scriptedModel) Piece(tok engine.Token) string {
	if tok == 7 {
		return "ok"
	}
	return ""
}

func (m *scriptedModel) IsEOG(tok engine.Token) bool { return tok == 9 }

func (m *scriptedModel) Close() error { return nil }

type scriptedContext struct{ sampled int }

func (c *scriptedContext) Decode(engine.Batch) error { return nil }

func (c *scriptedContext) SampleGreedy() engine.Token {
	c.sampled++
	if c.sampled == 1 {
		return 7
	}
	return 9
}

func (c *scriptedContext) Close() error { return nil }

func testManager(eng engine.Engine, models []types.Model, def string) *Manager {
	return New(eng, Config{
		Registry:     models,
		DefaultModel: def,
		Logger:       zerolog.Nop(),
	})
}

func modelList() []types.Model {
	return []types.Model{
		{ID: "gemma-2b.gguf", Name: "gemma-2b.gguf", Path: "/models/gemma-2b.gguf", Family: "gemma"},
		{ID: "qwen.gguf", Name: "qwen.gguf", Path: "/models/qwen.gguf", Family: "qwen"},
	}
}

func TestInferUnknownModel(t *testing.T) {
	m := testManager(&scriptedEngine{}, modelList(), "")
	_, err := m.Infer(context.Background(), types.InferRequest{Model: "missing.gguf", Prompt: "p"})
	if !IsModelNotFound(err) {
		t.Fatalf("expected model not found, got %v", err)
	}
}

func TestInferNoDefault(t *testing.T) {
	m := testManager(&scriptedEngine{}, modelList(), "")
	_, err := m.Infer(context.Background(), types.InferRequest{Prompt: "p"})
	if !IsModelNotFound(err) {
		t.Fatalf("expected model not found, got %v", err)
	}
}

func TestInferDefaultModelAndFamilyTemplate(t *testing.T) {
	eng := &scriptedEngine{}
	m := testManager(eng, modelList(), "gemma-2b.gguf")
	res, err := m.Infer(context.Background(), types.InferRequest{Prompt: "hello"})
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	if res.Output != "ok" || res.Outcome != types.OutcomeOK {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.Contains(eng.lastTokenized, "<start_of_turn>user") {
		t.Fatalf("gemma family must select the gemma template, got %q", eng.lastTokenized)
	}
}

func TestInferTemplateOverride(t *testing.T) {
	eng := &scriptedEngine{}
	m := testManager(eng, modelList(), "gemma-2b.gguf")
	kind := 0
	if _, err := m.Infer(context.Background(), types.InferRequest{Prompt: "hello", Template: &kind}); err != nil {
		t.Fatalf("infer: %v", err)
	}
	if !strings.Contains(eng.lastTokenized, "<|im_start|>user") {
		t.Fatalf("explicit template must win over family, got %q", eng.lastTokenized)
	}
}

func TestInferRuntimeUnavailable(t *testing.T) {
	eng := &scriptedEngine{loadErr: engine.ErrRuntimeUnavailable}
	m := testManager(eng, modelList(), "qwen.gguf")
	_, err := m.Infer(context.Background(), types.InferRequest{Prompt: "p"})
	if !IsDependencyUnavailable(err) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
}

func TestInferLoadFailure(t *testing.T) {
	eng := &scriptedEngine{loadErr: errors.New("bad file")}
	m := testManager(eng, modelList(), "qwen.gguf")
	res, err := m.Infer(context.Background(), types.InferRequest{Prompt: "p"})
	if err == nil || IsDependencyUnavailable(err) {
		t.Fatalf("expected plain load failure, got %v", err)
	}
	if res.Outcome != types.OutcomeEmptyFailure {
		t.Fatalf("outcome: %+v", res)
	}
}

func TestStatus(t *testing.T) {
	m := testManager(&scriptedEngine{}, modelList(), "qwen.gguf")
	st := m.Status()
	if st.ModelCount != 2 || st.DefaultModel != "qwen.gguf" || st.Inflight != 0 || st.Queued != 0 {
		t.Fatalf("unexpected status: %+v", st)
	}
	if !m.Ready() {
		t.Fatalf("manager with models must be ready")
	}
	if testManager(&scriptedEngine{}, nil, "").Ready() {
		t.Fatalf("manager without models must not be ready")
	}
}

func TestListModelsCopies(t *testing.T) {
	m := testManager(&scriptedEngine{}, modelList(), "")
	got := m.ListModels()
	got[0].ID = "mutated"
	if m.ListModels()[0].ID == "mutated" {
		t.Fatalf("registry must not be externally mutable")
	}
}

func TestAcquireBackpressure(t *testing.T) {
	q := newModelQueue(1)
	release, err := q.acquire(context.Background(), "m", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if _, err := q.acquire(context.Background(), "m", 10*time.Millisecond); !IsTooBusy(err) {
		t.Fatalf("expected too busy, got %v", err)
	}
	release()
	release2, err := q.acquire(context.Background(), "m", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	release2()
}

func TestAcquireHonorsCancel(t *testing.T) {
	q := newModelQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := q.acquire(ctx, "m", time.Second); err == nil {
		t.Fatalf("expected context error")
	}
}
