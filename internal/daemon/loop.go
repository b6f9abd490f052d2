package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/wlmaker/internal/compositor"
)

// ErrStopped is returned for work submitted after the loop was closed.
var ErrStopped = errors.New("event loop stopped")

// Loop runs every compositor access on one goroutine. IPC requests,
// hotkeys and the reconciler submit work with Do or Post.
type Loop struct {
	comp   *compositor.Compositor
	tasks  chan func(*compositor.Compositor)
	closed chan struct{}
	once   sync.Once
	logger *slog.Logger
}

func NewLoop(comp *compositor.Compositor, logger *slog.Logger) *Loop {
	return &Loop{
		comp:   comp,
		tasks:  make(chan func(*compositor.Compositor), 64),
		closed: make(chan struct{}),
		logger: logger,
	}
}

func (l *Loop) String() string { return "event-loop" }

// Serve runs queued work until ctx is cancelled or Close is called.
func (l *Loop) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.closed:
			return nil
		case task := <-l.tasks:
			l.run(task)
		}
	}
}

func (l *Loop) run(task func(*compositor.Compositor)) {
	defer func() {
		if err := recover(); err != nil {
			l.logger.Error("event loop task panic recovered", "error", err)
		}
	}()
	task(l.comp)
}

// Post queues fn without waiting for it. It reports false once the loop
// is closed.
func (l *Loop) Post(fn func(*compositor.Compositor)) bool {
	select {
	case l.tasks <- fn:
		return true
	case <-l.closed:
		return false
	}
}

// Do runs fn on the loop and waits for its result. A panic in fn is
// returned as an error.
func (l *Loop) Do(fn func(*compositor.Compositor) (any, error)) (any, error) {
	type result struct {
		value any
		err   error
	}
	done := make(chan result, 1)
	task := func(c *compositor.Compositor) {
		defer func() {
			if p := recover(); p != nil {
				done <- result{err: fmt.Errorf("internal error: %v", p)}
				panic(p)
			}
		}()
		v, err := fn(c)
		done <- result{value: v, err: err}
	}

	if !l.Post(task) {
		return nil, ErrStopped
	}
	select {
	case r := <-done:
		return r.value, r.err
	case <-l.closed:
		return nil, ErrStopped
	}
}

// Close stops the loop. Pending work is dropped.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.closed) })
}
