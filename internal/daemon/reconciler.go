package daemon

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/1broseidon/wlmaker/internal/compositor"
	"github.com/1broseidon/wlmaker/internal/platform"
	"github.com/1broseidon/wlmaker/internal/wlmtk"
)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically re-reads the backend's displays and pushes
// changes into the compositor. It also mirrors the workspaces to backends
// that publish desktops.
type Reconciler struct {
	interval time.Duration
	backend  platform.Backend
	loop     *Loop
	logger   *slog.Logger

	// mu serializes passes from Serve and ReconcileNow and guards the
	// last applied state below.
	mu       sync.Mutex
	outputs  []wlmtk.Output
	desktops []string
	current  int
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, backend platform.Backend, loop *Loop) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	return &Reconciler{
		interval: interval,
		backend:  backend,
		loop:     loop,
		logger:   cfg.Logger,
		current:  -1,
	}
}

func (r *Reconciler) String() string { return "output-reconciler" }

// Serve runs the reconciliation loop. Blocks until ctx is cancelled.
func (r *Reconciler) Serve(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)
	r.reconcile()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return ctx.Err()
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// OutputsFromDisplays maps displays to compositor outputs. The output is
// the display's usable area, so host panels stay uncovered.
func OutputsFromDisplays(displays []platform.Display) []wlmtk.Output {
	outputs := make([]wlmtk.Output, 0, len(displays))
	for _, d := range displays {
		r := d.Usable
		if r.Width <= 0 || r.Height <= 0 {
			r = d.Bounds
		}
		outputs = append(outputs, wlmtk.Output{
			Name: d.Name,
			Box:  wlmtk.Box{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height},
		})
	}
	return outputs
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile() {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	displays, err := r.backend.Displays()
	if err != nil {
		r.logger.Error("reconciler: failed to list displays", "error", err)
		return
	}
	outputs := OutputsFromDisplays(displays)
	if len(outputs) == 0 {
		r.logger.Warn("reconciler: backend reports no displays, keeping current outputs")
	} else if !slices.Equal(outputs, r.outputs) {
		if _, err := r.loop.Do(func(c *compositor.Compositor) (any, error) {
			c.SetOutputs(outputs)
			return nil, nil
		}); err != nil {
			r.logger.Warn("reconciler: failed to apply outputs", "error", err)
			return
		}
		r.logger.Info("outputs changed", "outputs", len(outputs))
		r.outputs = outputs
	}

	pub, ok := r.backend.(platform.DesktopPublisher)
	if !ok {
		return
	}
	v, err := r.loop.Do(func(c *compositor.Compositor) (any, error) {
		return c.Workspaces(), nil
	})
	if err != nil {
		return
	}
	names, current := desktopNames(v.([]compositor.WorkspaceInfo))
	if slices.Equal(names, r.desktops) && current == r.current {
		return
	}
	if err := pub.PublishDesktops(names, current); err != nil {
		r.logger.Warn("reconciler: failed to publish desktops", "error", err)
		return
	}
	r.desktops, r.current = names, current
}

func desktopNames(workspaces []compositor.WorkspaceInfo) ([]string, int) {
	names := make([]string, 0, len(workspaces))
	current := -1
	for i, ws := range workspaces {
		names = append(names, ws.Name)
		if ws.Current {
			current = i
		}
	}
	return names, current
}

// ReconcileNow runs a reconciliation pass on the calling goroutine. It is
// safe to call while Serve is running.
func (r *Reconciler) ReconcileNow() {
	r.reconcile()
}
