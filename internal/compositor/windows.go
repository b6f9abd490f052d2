package compositor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/1broseidon/wlmaker/internal/config"
	"github.com/1broseidon/wlmaker/internal/wlmtk"
)

// managedWindow is a window plus what the compositor knows about it
// beyond the toolkit: the workspace it lives on while minimized, and the
// signal connections to undo.
type managedWindow struct {
	window     *wlmtk.Window
	content    *wlmtk.SimpleContent
	home       *wlmtk.Workspace
	minimized  bool
	disconnect []func()
}

// WindowOptions describe a new window. Zero values take the configured
// window defaults.
type WindowOptions struct {
	Title      string   `json:"title,omitempty"`
	Width      int      `json:"width,omitempty"`
	Height     int      `json:"height,omitempty"`
	X          *int     `json:"x,omitempty"`
	Y          *int     `json:"y,omitempty"`
	Workspace  string   `json:"workspace,omitempty"`
	Output     string   `json:"output,omitempty"`
	Decorated  *bool    `json:"decorated,omitempty"`
	Properties []string `json:"properties,omitempty"`
}

const cascadeStep = 32

// CreateWindow creates, places and maps a window. It becomes the
// activated window of its workspace.
func (c *Compositor) CreateWindow(opts WindowOptions) (WindowInfo, error) {
	ws, err := c.workspace(opts.Workspace)
	if err != nil {
		return WindowInfo{}, err
	}
	props := opts.Properties
	if props == nil {
		props = c.cfg.Windows.Properties
	}
	properties, err := config.ParseProperties(props)
	if err != nil {
		return WindowInfo{}, err
	}
	if opts.Output != "" {
		if _, ok := c.layout.Output(opts.Output); !ok {
			return WindowInfo{}, fmt.Errorf("output %q: %w", opts.Output, ErrNotFound)
		}
	}
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = c.cfg.Windows.Width
	}
	if height <= 0 {
		height = c.cfg.Windows.Height
	}
	decorated := c.cfg.Windows.Decorated
	if opts.Decorated != nil {
		decorated = *opts.Decorated
	}

	content := wlmtk.NewSimpleContent(width, height)
	w := wlmtk.NewWindow(content, c.style, c.menuStyle, c.renderer)
	w.SetTitle(opts.Title)
	w.SetProperties(properties)
	w.SetServerSideDecorated(decorated)
	w.SetPreferredOutput(opts.Output)

	x, y := c.cascade(ws, opts.Output)
	if opts.X != nil {
		x = *opts.X
	}
	if opts.Y != nil {
		y = *opts.Y
	}
	w.SetPosition(x, y)

	m := &managedWindow{window: w, content: content, home: ws}
	c.connect(m)
	c.windows[w.ID()] = m
	c.order = append(c.order, w.ID())
	ws.MapWindow(w)
	c.flush()

	c.log.Info("window created", "id", w.ID(), "title", w.Title(), "workspace", ws.Name())
	return c.windowInfo(m), nil
}

// cascade offsets each new window from the previous one, starting at the
// usable area's origin.
func (c *Compositor) cascade(ws *wlmtk.Workspace, output string) (int, int) {
	if output == "" {
		if outputs := c.layout.Outputs(); len(outputs) > 0 {
			output = outputs[0].Name
		}
	}
	usable, ok := ws.UsableArea(output)
	if !ok {
		usable = ws.Extents()
	}
	n := len(ws.Windows()) % 8
	return usable.X + n*cascadeStep, usable.Y + n*cascadeStep
}

// connect answers the window's requests the way a client that agrees to
// everything would, after the current operation has returned.
func (c *Compositor) connect(m *managedWindow) {
	ev := m.window.Events()
	m.disconnect = append(m.disconnect,
		ev.RequestFullscreen.Connect(func(fullscreen bool) {
			c.later(func() {
				if c.alive(m) {
					m.window.CommitFullscreen(fullscreen)
				}
			})
		}),
		ev.RequestMaximized.Connect(func(maximized bool) {
			c.later(func() {
				if c.alive(m) {
					m.window.CommitMaximized(maximized)
				}
			})
		}),
		ev.RequestClose.Connect(func(struct{}) {
			c.later(func() {
				if c.alive(m) {
					c.destroyWindow(m)
				}
			})
		}),
		ev.RequestMinimize.Connect(func(struct{}) {
			c.later(func() {
				if c.alive(m) {
					c.minimize(m)
				}
			})
		}),
		ev.StateChanged.Connect(func(st wlmtk.WindowState) {
			c.log.Debug("window state changed", "id", m.window.ID(),
				"activated", st.Activated, "fullscreen", st.Fullscreen,
				"maximized", st.Maximized, "shaded", st.Shaded)
		}),
	)
}

func (c *Compositor) alive(m *managedWindow) bool {
	return c.windows[m.window.ID()] == m
}

func (c *Compositor) destroyWindow(m *managedWindow) {
	w := m.window
	if ws := w.Workspace(); ws != nil {
		ws.UnmapWindow(w)
	}
	for _, d := range m.disconnect {
		d()
	}
	w.Destroy()
	delete(c.windows, w.ID())
	c.order = slices.DeleteFunc(c.order, func(id uuid.UUID) bool { return id == w.ID() })
	c.log.Info("window closed", "id", w.ID(), "title", w.Title())
}

func (c *Compositor) minimize(m *managedWindow) {
	if m.minimized {
		return
	}
	if ws := m.window.Workspace(); ws != nil {
		ws.UnmapWindow(m.window)
	}
	m.minimized = true
}

// lookup resolves "active", a full window ID or a unique ID prefix.
func (c *Compositor) lookup(ref string) (*managedWindow, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || ref == "active" {
		if ws := c.root.CurrentWorkspace(); ws != nil {
			if w := ws.ActivatedWindow(); w != nil {
				return c.windows[w.ID()], nil
			}
		}
		return nil, fmt.Errorf("active window: %w", ErrNotFound)
	}
	if id, err := uuid.Parse(ref); err == nil {
		if m, ok := c.windows[id]; ok {
			return m, nil
		}
		return nil, fmt.Errorf("window %s: %w", ref, ErrNotFound)
	}
	var found *managedWindow
	for _, id := range c.order {
		if strings.HasPrefix(id.String(), ref) {
			if found != nil {
				return nil, fmt.Errorf("window %s: %w", ref, ErrAmbiguous)
			}
			found = c.windows[id]
		}
	}
	if found == nil {
		return nil, fmt.Errorf("window %s: %w", ref, ErrNotFound)
	}
	return found, nil
}

// withWindow runs fn on the referenced window, then commits whatever fn
// requested.
func (c *Compositor) withWindow(ref string, fn func(*managedWindow) error) (WindowInfo, error) {
	m, err := c.lookup(ref)
	if err != nil {
		return WindowInfo{}, err
	}
	if err := fn(m); err != nil {
		return WindowInfo{}, err
	}
	c.flush()
	if !c.alive(m) {
		return WindowInfo{ID: m.window.ID().String(), Title: m.window.Title()}, nil
	}
	return c.windowInfo(m), nil
}

// Windows lists all windows in creation order.
func (c *Compositor) Windows() []WindowInfo {
	out := make([]WindowInfo, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.windowInfo(c.windows[id]))
	}
	return out
}

func (c *Compositor) Window(ref string) (WindowInfo, error) {
	m, err := c.lookup(ref)
	if err != nil {
		return WindowInfo{}, err
	}
	return c.windowInfo(m), nil
}

// CloseWindow asks the window to close. Windows without the closable
// property ignore it unless force is set.
func (c *Compositor) CloseWindow(ref string, force bool) (WindowInfo, error) {
	return c.withWindow(ref, func(m *managedWindow) error {
		if force {
			c.destroyWindow(m)
			return nil
		}
		if m.window.Properties()&wlmtk.PropertyClosable == 0 {
			return fmt.Errorf("window %s is not closable", m.window.ID())
		}
		m.window.RequestClose()
		return nil
	})
}

func (c *Compositor) ActivateWindow(ref string) (WindowInfo, error) {
	return c.withWindow(ref, func(m *managedWindow) error {
		if m.minimized {
			c.restore(m)
		}
		ws := m.window.Workspace()
		c.root.SwitchToWorkspace(ws)
		ws.ActivateWindow(m.window)
		ws.RaiseWindow(m.window)
		return nil
	})
}

func (c *Compositor) MoveWindow(ref string, x, y int) (WindowInfo, error) {
	return c.withWindow(ref, func(m *managedWindow) error {
		m.window.SetPosition(x, y)
		return nil
	})
}

// ResizeWindow requests a bounding box of width x height.
func (c *Compositor) ResizeWindow(ref string, width, height int) (WindowInfo, error) {
	return c.withWindow(ref, func(m *managedWindow) error {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("size must be positive")
		}
		m.window.RequestSize(width, height)
		return nil
	})
}

func (c *Compositor) SetMaximized(ref string, maximized bool) (WindowInfo, error) {
	return c.withWindow(ref, func(m *managedWindow) error {
		if m.window.Fullscreen() {
			return fmt.Errorf("window %s is fullscreen", m.window.ID())
		}
		m.window.RequestMaximized(maximized)
		return nil
	})
}

func (c *Compositor) SetFullscreen(ref string, fullscreen bool) (WindowInfo, error) {
	return c.withWindow(ref, func(m *managedWindow) error {
		if m.minimized {
			return fmt.Errorf("window %s is minimized", m.window.ID())
		}
		m.window.RequestFullscreen(fullscreen)
		return nil
	})
}

func (c *Compositor) SetShaded(ref string, shaded bool) (WindowInfo, error) {
	return c.withWindow(ref, func(m *managedWindow) error {
		if shaded && m.window.Titlebar() == nil {
			return fmt.Errorf("window %s has no title bar", m.window.ID())
		}
		m.window.RequestShaded(shaded)
		return nil
	})
}

func (c *Compositor) SetTitle(ref, title string) (WindowInfo, error) {
	return c.withWindow(ref, func(m *managedWindow) error {
		m.window.SetTitle(title)
		return nil
	})
}

func (c *Compositor) SetDecorated(ref string, decorated bool) (WindowInfo, error) {
	return c.withWindow(ref, func(m *managedWindow) error {
		m.window.SetServerSideDecorated(decorated)
		return nil
	})
}

// MinimizeWindow unmaps the window. Requires the iconifiable property.
func (c *Compositor) MinimizeWindow(ref string) (WindowInfo, error) {
	return c.withWindow(ref, func(m *managedWindow) error {
		if m.window.Properties()&wlmtk.PropertyIconifiable == 0 {
			return fmt.Errorf("window %s is not iconifiable", m.window.ID())
		}
		m.window.RequestMinimize()
		return nil
	})
}

// RestoreWindow maps a minimized window again.
func (c *Compositor) RestoreWindow(ref string) (WindowInfo, error) {
	return c.withWindow(ref, func(m *managedWindow) error {
		if !m.minimized {
			return fmt.Errorf("window %s is not minimized", m.window.ID())
		}
		c.restore(m)
		return nil
	})
}

func (c *Compositor) restore(m *managedWindow) {
	m.minimized = false
	m.home.MapWindow(m.window)
}

// SendToWorkspace moves the window to another workspace. It stays mapped,
// or minimized, as it was.
func (c *Compositor) SendToWorkspace(ref, workspace string) (WindowInfo, error) {
	return c.withWindow(ref, func(m *managedWindow) error {
		ws, err := c.workspace(workspace)
		if err != nil {
			return err
		}
		if ws == m.home {
			return nil
		}
		if cur := m.window.Workspace(); cur != nil {
			cur.UnmapWindow(m.window)
			ws.MapWindow(m.window)
		}
		m.home = ws
		return nil
	})
}

// OpenMenu opens or closes the window menu at the pointer position.
func (c *Compositor) OpenMenu(ref string, open bool) (WindowInfo, error) {
	return c.withWindow(ref, func(m *managedWindow) error {
		m.window.RequestMenu(open)
		return nil
	})
}

// CycleWindows activates the next (step > 0) or previous window of the
// current workspace.
func (c *Compositor) CycleWindows(step int) {
	ws := c.root.CurrentWorkspace()
	if ws == nil {
		return
	}
	if step < 0 {
		ws.ActivatePreviousWindow()
	} else {
		ws.ActivateNextWindow()
	}
	c.flush()
}
