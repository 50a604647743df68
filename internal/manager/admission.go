package manager

import (
	"context"
	"time"
)

// modelQueue serializes generations for one model id: a buffered queue of
// waiting requests and a single in-flight slot. One pipeline run owns its
// model and context exclusively, so generations never overlap per model.
type modelQueue struct {
	genCh   chan struct{} // size 1: single in-flight generation
	queueCh chan struct{} // buffered: queue slots
}

func newModelQueue(depth int) *modelQueue {
	if depth <= 0 {
		depth = defaultQueueDepth
	}
	return &modelQueue{
		genCh:   make(chan struct{}, 1),
		queueCh: make(chan struct{}, depth),
	}
}

// acquire reserves a queue slot and then the in-flight slot. The returned
// release func must be deferred. Cancellation is honored only while
// queued; once a generation starts it runs to a terminal state.
func (q *modelQueue) acquire(ctx context.Context, modelID string, maxWait time.Duration) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timer := time.NewTimer(maxWait)
	defer timer.Stop()
	select {
	case q.queueCh <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, tooBusyError{modelID: modelID}
	}

	acquired := false
	defer func() {
		if !acquired {
			<-q.queueCh
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timer2 := time.NewTimer(maxWait)
	defer timer2.Stop()
	select {
	case q.genCh <- struct{}{}:
		acquired = true
		return func() { <-q.genCh; <-q.queueCh }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer2.C:
		return nil, tooBusyError{modelID: modelID}
	}
}
