package compositor

import (
	"github.com/1broseidon/wlmaker/internal/config"
	"github.com/1broseidon/wlmaker/internal/wlmtk"
)

// Rect is a box in layout coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func rectFromBox(b wlmtk.Box) Rect {
	return Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// WindowInfo is a snapshot of one window.
type WindowInfo struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Workspace  string   `json:"workspace"`
	Box        Rect     `json:"box"`
	Content    Rect     `json:"content"`
	Activated  bool     `json:"activated"`
	Fullscreen bool     `json:"fullscreen"`
	Maximized  bool     `json:"maximized"`
	Shaded     bool     `json:"shaded"`
	Minimized  bool     `json:"minimized"`
	Decorated  bool     `json:"decorated"`
	MenuOpen   bool     `json:"menu_open"`
	Properties []string `json:"properties,omitempty"`
	Output     string   `json:"output,omitempty"`
}

// WorkspaceInfo is a snapshot of one workspace.
type WorkspaceInfo struct {
	Name      string `json:"name"`
	Index     int    `json:"index"`
	Current   bool   `json:"current"`
	Windows   int    `json:"windows"`
	Activated string `json:"activated,omitempty"`
	Pointer   string `json:"pointer"`
}

// OutputInfo is an output with its area left after panels.
type OutputInfo struct {
	Name   string `json:"name"`
	Box    Rect   `json:"box"`
	Usable Rect   `json:"usable"`
}

// Status summarises the whole compositor.
type Status struct {
	Workspace    string          `json:"workspace"`
	Locked       bool            `json:"locked"`
	LockHeld     bool            `json:"lock_held"`
	Workspaces   []WorkspaceInfo `json:"workspaces"`
	Outputs      []OutputInfo    `json:"outputs"`
	Windows      int             `json:"windows"`
	Panels       int             `json:"panels"`
	BufferHits   int             `json:"buffer_hits"`
	BufferMisses int             `json:"buffer_misses"`
}

func (c *Compositor) windowInfo(m *managedWindow) WindowInfo {
	w := m.window
	st := w.State()
	cw, ch := m.content.Size()
	cx, cy := m.content.Position()
	info := WindowInfo{
		ID:         w.ID().String(),
		Title:      w.Title(),
		Workspace:  m.home.Name(),
		Box:        rectFromBox(w.BoundingBox()),
		Content:    Rect{X: cx, Y: cy, Width: cw, Height: ch},
		Activated:  st.Activated,
		Fullscreen: st.Fullscreen,
		Maximized:  st.Maximized,
		Shaded:     st.Shaded,
		Minimized:  m.minimized,
		Decorated:  w.ServerSideDecorated(),
		MenuOpen:   w.MenuOpen(),
		Properties: config.PropertyNames(w.Properties()),
		Output:     w.PreferredOutput(),
	}
	return info
}

// Workspaces lists the workspaces in order.
func (c *Compositor) Workspaces() []WorkspaceInfo {
	current := c.root.CurrentWorkspace()
	var out []WorkspaceInfo
	for _, ws := range c.root.Workspaces() {
		info := WorkspaceInfo{
			Name:    ws.Name(),
			Index:   ws.Index(),
			Current: ws == current,
			Windows: len(ws.Windows()),
			Pointer: ws.PointerState().String(),
		}
		if w := ws.ActivatedWindow(); w != nil {
			info.Activated = w.ID().String()
		}
		out = append(out, info)
	}
	return out
}

// Status returns a summary of the compositor.
func (c *Compositor) Status() Status {
	st := Status{
		Locked:     c.root.Locked(),
		LockHeld:   c.lock != nil,
		Workspaces: c.Workspaces(),
		Windows:    len(c.order),
		Panels:     len(c.panels),
	}
	if ws := c.root.CurrentWorkspace(); ws != nil {
		st.Workspace = ws.Name()
		for _, o := range c.layout.Outputs() {
			usable, ok := ws.UsableArea(o.Name)
			if !ok {
				usable = o.Box
			}
			st.Outputs = append(st.Outputs, OutputInfo{
				Name:   o.Name,
				Box:    rectFromBox(o.Box),
				Usable: rectFromBox(usable),
			})
		}
	}
	st.BufferHits, st.BufferMisses, _ = c.renderer.Stats()
	return st
}
