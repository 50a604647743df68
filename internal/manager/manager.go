// Package manager resolves inference requests against the model registry,
// serializes them per model, runs the pipeline, and records inference
// metrics.
package manager

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"inferd/internal/engine"
	"inferd/internal/pipeline"
	"inferd/internal/registry"
	"inferd/internal/template"
	"inferd/pkg/types"
)

const (
	defaultQueueDepth = 32
	defaultMaxWait    = 30 * time.Second
)

// Config configures a Manager.
type Config struct {
	Registry     []types.Model
	DefaultModel string
	ContextSize  int
	Threads      int
	MaxTokens    int
	QueueDepth   int
	MaxWait      time.Duration
	Logger       zerolog.Logger
}

// Manager owns the registry and the per-model admission queues.
type Manager struct {
	mu           sync.RWMutex
	registry     []types.Model
	defaultModel string
	queues       map[string]*modelQueue
	runner       *pipeline.Runner
	cfg          Config
	startedAt    time.Time
}

// New builds a Manager over the given engine.
func New(eng engine.Engine, cfg Config) *Manager {
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = defaultQueueDepth
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = defaultMaxWait
	}
	return &Manager{
		registry:     cfg.Registry,
		defaultModel: cfg.DefaultModel,
		queues:       make(map[string]*modelQueue),
		runner:       pipeline.New(eng, cfg.Logger),
		cfg:          cfg,
		startedAt:    time.Now(),
	}
}

// ListModels returns a copy of the registry.
func (m *Manager) ListModels() []types.Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Model, len(m.registry))
	copy(out, m.registry)
	return out
}

// Ready reports whether the daemon can serve inference requests.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.registry) > 0
}

// Status returns a point-in-time snapshot for GET /status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inflight, queued := 0, 0
	for _, q := range m.queues {
		inflight += len(q.genCh)
		queued += len(q.queueCh) - len(q.genCh)
	}
	return types.StatusResponse{
		RuntimeAvailable: engine.RuntimeBuilt(),
		ModelCount:       len(m.registry),
		DefaultModel:     m.defaultModel,
		Inflight:         inflight,
		Queued:           queued,
		UptimeSeconds:    int64(time.Since(m.startedAt).Seconds()),
		ServerTimeUnix:   time.Now().Unix(),
	}
}

func (m *Manager) queueFor(modelID string) *modelQueue {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queues[modelID]
	if !ok {
		q = newModelQueue(m.cfg.QueueDepth)
		m.queues[modelID] = q
	}
	return q
}

// Infer resolves the request's model, waits for its admission slot, and
// runs the pipeline to completion. The context is honored only while
// queued; a started generation always reaches a terminal state.
func (m *Manager) Infer(ctx context.Context, req types.InferRequest) (types.InferResult, error) {
	modelID := req.Model
	if modelID == "" {
		modelID = m.defaultModel
		if modelID == "" {
			return types.InferResult{Outcome: types.OutcomeEmptyFailure}, modelNotFoundError{id: "(unspecified)"}
		}
	}
	mdl, ok := registry.FindByID(m.ListModels(), modelID)
	if !ok {
		return types.InferResult{Outcome: types.OutcomeEmptyFailure}, modelNotFoundError{id: modelID}
	}

	release, err := m.queueFor(modelID).acquire(ctx, modelID, m.cfg.MaxWait)
	if err != nil {
		return types.InferResult{Outcome: types.OutcomeEmptyFailure}, err
	}
	defer release()

	kind := template.KindForFamily(mdl.Family)
	if req.Template != nil {
		kind = template.KindFromInt(*req.Template)
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = m.cfg.MaxTokens
	}

	res, err := m.runner.Run(pipeline.Request{
		Prompt:      req.Prompt,
		ModelPath:   mdl.Path,
		Template:    kind,
		MaxTokens:   maxTokens,
		ContextSize: m.cfg.ContextSize,
		Threads:     m.cfg.Threads,
	})
	observeInference(res, err)
	if err != nil {
		if errors.Is(err, engine.ErrRuntimeUnavailable) {
			return res, ErrDependencyUnavailable(err.Error())
		}
		return res, err
	}
	return res, nil
}
