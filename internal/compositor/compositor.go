// Package compositor owns the toolkit root and everything mapped onto it.
// It is driven from a single goroutine: the daemon loop serialises all
// calls, so nothing in here locks.
package compositor

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/wlmaker/internal/config"
	"github.com/1broseidon/wlmaker/internal/gfx"
	"github.com/1broseidon/wlmaker/internal/wlmtk"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrAmbiguous = errors.New("ambiguous reference")
	ErrLocked    = errors.New("already locked")
	ErrNotLocked = errors.New("not locked")
)

// Compositor holds the root, its workspaces and the window arena.
type Compositor struct {
	log      *slog.Logger
	cfg      *config.Config
	renderer *gfx.Renderer
	root     *wlmtk.Root

	style     wlmtk.WindowStyle
	menuStyle wlmtk.MenuStyle

	layout  wlmtk.StaticOutputLayout
	windows map[uuid.UUID]*managedWindow
	order   []uuid.UUID
	panels  []*managedPanel
	lock    *wlmtk.SimpleContent

	// Window requests are committed after the operation that raised them
	// has returned, never from inside a layout pass.
	pending []func()

	start      time.Time
	disconnect []func()
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Compositor) { c.log = l }
}

// WithRenderer sets the decoration renderer.
func WithRenderer(r *gfx.Renderer) Option {
	return func(c *Compositor) { c.renderer = r }
}

// New builds the root with the configured workspaces, outputs and panels.
func New(cfg *config.Config, opts ...Option) (*Compositor, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	c := &Compositor{
		log:     slog.Default(),
		cfg:     cfg,
		root:    wlmtk.NewRoot(),
		windows: make(map[uuid.UUID]*managedWindow),
		start:   time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.renderer == nil {
		c.renderer = gfx.NewRenderer(gfx.DefaultCacheSize)
	}
	c.style = cfg.Style.WindowStyle()
	c.menuStyle = cfg.Menu.MenuStyle()

	ev := c.root.Events()
	c.disconnect = append(c.disconnect,
		ev.WorkspaceChanged.Connect(func(ws *wlmtk.Workspace) {
			c.log.Info("workspace changed", "workspace", ws.Name(), "index", ws.Index())
		}),
		ev.WindowMapped.Connect(func(w *wlmtk.Window) {
			c.log.Debug("window mapped", "id", w.ID(), "title", w.Title())
		}),
		ev.WindowUnmapped.Connect(func(w *wlmtk.Window) {
			c.log.Debug("window unmapped", "id", w.ID(), "title", w.Title())
		}),
		ev.Unlocked.Connect(func(struct{}) {
			c.log.Info("session unlocked")
		}),
	)

	for i, wc := range cfg.Workspaces {
		c.root.AddWorkspace(wlmtk.NewWorkspace(wc.Name, i))
	}
	c.SetOutputs(outputsFromConfig(cfg.Outputs))
	c.buildPanels()
	c.flush()
	return c, nil
}

// Close destroys all windows, panels and workspaces.
func (c *Compositor) Close() {
	if c.root == nil {
		return
	}
	for _, id := range append([]uuid.UUID(nil), c.order...) {
		c.destroyWindow(c.windows[id])
	}
	c.removePanels()
	if c.lock != nil {
		c.root.LockUnreference(c.lock)
		c.lock = nil
	}
	for _, ws := range c.root.Workspaces() {
		c.root.RemoveWorkspace(ws)
		ws.Destroy()
	}
	for _, d := range c.disconnect {
		d()
	}
	c.root.Destroy()
	c.root = nil
}

// Root exposes the element tree, for tests and the X11 front-end.
func (c *Compositor) Root() *wlmtk.Root {
	return c.root
}

// Config returns the configuration in effect.
func (c *Compositor) Config() *config.Config {
	return c.cfg
}

func (c *Compositor) later(fn func()) {
	c.pending = append(c.pending, fn)
}

// flush runs deferred commits until none are left; a commit may queue
// more.
func (c *Compositor) flush() {
	for len(c.pending) > 0 {
		fns := c.pending
		c.pending = nil
		for _, fn := range fns {
			fn()
		}
	}
}

func (c *Compositor) now() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

func outputsFromConfig(outputs []config.OutputConfig) []wlmtk.Output {
	out := make([]wlmtk.Output, 0, len(outputs))
	for _, o := range outputs {
		out = append(out, wlmtk.Output{
			Name: o.Name,
			Box:  wlmtk.Box{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height},
		})
	}
	return out
}

// SetOutputs replaces the output layout. Panels whose output vanished are
// detached and come back when it does. Maximized and fullscreen windows
// are refitted. An empty list keeps the current layout.
func (c *Compositor) SetOutputs(outputs []wlmtk.Output) {
	if len(outputs) == 0 {
		c.log.Warn("ignoring empty output layout")
		return
	}
	c.layout = wlmtk.StaticOutputLayout(outputs)
	c.root.SetExtents(c.layout.Extents())

	dropped := map[wlmtk.Panel]struct{}{}
	for _, ws := range c.root.Workspaces() {
		for _, p := range ws.SetOutputs(c.layout) {
			dropped[p] = struct{}{}
		}
	}
	for _, p := range c.panels {
		if _, ok := dropped[p.element]; ok {
			c.log.Info("panel detached from vanished output", "panel", p.cfg.Name, "output", p.output)
			p.attached = false
		}
	}
	c.attachPanels()

	if c.lock != nil {
		ext := c.root.Extents()
		c.lock.SetPosition(ext.X, ext.Y)
		c.lock.RequestSize(ext.Width, ext.Height)
	}

	for _, id := range c.order {
		c.windows[id].window.Refit()
	}
	c.flush()
}

// Outputs returns the current output layout.
func (c *Compositor) Outputs() []wlmtk.Output {
	return c.layout.Outputs()
}

// ApplyConfig switches styles, workspaces and panels to cfg. Workspaces
// beyond the new list are removed when empty and kept otherwise.
func (c *Compositor) ApplyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	c.cfg = cfg
	c.style = cfg.Style.WindowStyle()
	c.menuStyle = cfg.Menu.MenuStyle()
	for _, id := range c.order {
		c.windows[id].window.SetStyle(c.style, c.menuStyle)
	}

	existing := c.root.Workspaces()
	for i, wc := range cfg.Workspaces {
		if i < len(existing) {
			existing[i].SetName(wc.Name)
			continue
		}
		ws := wlmtk.NewWorkspace(wc.Name, i)
		c.root.AddWorkspace(ws)
		ws.SetOutputs(c.layout)
	}
	for _, ws := range existing[min(len(cfg.Workspaces), len(existing)):] {
		if c.workspaceInUse(ws) {
			c.log.Warn("keeping workspace that still has windows", "workspace", ws.Name())
			continue
		}
		c.root.RemoveWorkspace(ws)
		ws.Destroy()
	}

	c.removePanels()
	c.buildPanels()
	c.flush()
	return nil
}

func (c *Compositor) workspaceInUse(ws *wlmtk.Workspace) bool {
	for _, id := range c.order {
		if c.windows[id].home == ws {
			return true
		}
	}
	return false
}

// workspace resolves a name or a zero-based index. Empty means current.
func (c *Compositor) workspace(ref string) (*wlmtk.Workspace, error) {
	if ref == "" {
		if ws := c.root.CurrentWorkspace(); ws != nil {
			return ws, nil
		}
		return nil, fmt.Errorf("workspace: %w", ErrNotFound)
	}
	all := c.root.Workspaces()
	for _, ws := range all {
		if ws.Name() == ref {
			return ws, nil
		}
	}
	if idx, err := strconv.Atoi(ref); err == nil && idx >= 0 && idx < len(all) {
		return all[idx], nil
	}
	return nil, fmt.Errorf("workspace %q: %w", ref, ErrNotFound)
}

// SwitchWorkspace makes the referenced workspace current.
func (c *Compositor) SwitchWorkspace(ref string) error {
	ws, err := c.workspace(ref)
	if err != nil {
		return err
	}
	c.root.SwitchToWorkspace(ws)
	c.flush()
	return nil
}

func (c *Compositor) NextWorkspace() {
	c.root.SwitchToNextWorkspace()
	c.flush()
}

func (c *Compositor) PreviousWorkspace() {
	c.root.SwitchToPreviousWorkspace()
	c.flush()
}
