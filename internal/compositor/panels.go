package compositor

import (
	"github.com/1broseidon/wlmaker/internal/config"
	"github.com/1broseidon/wlmaker/internal/wlmtk"
)

// managedPanel is one configured panel on one workspace.
type managedPanel struct {
	cfg       config.PanelConfig
	kind      wlmtk.LayerKind
	workspace *wlmtk.Workspace
	element   *wlmtk.SimplePanel
	output    string
	attached  bool
}

// PanelInfo describes a panel and where it was placed.
type PanelInfo struct {
	Name      string `json:"name"`
	Layer     string `json:"layer"`
	Workspace string `json:"workspace"`
	Output    string `json:"output"`
	Attached  bool   `json:"attached"`
	Box       Rect   `json:"box"`
}

func (c *Compositor) buildPanels() {
	for _, pc := range c.cfg.Panels {
		kind, _ := wlmtk.ParseLayerKind(pc.Layer)
		pos, _ := pc.Positioning()
		for _, ws := range c.root.Workspaces() {
			if pc.Workspace != "" && pc.Workspace != ws.Name() {
				continue
			}
			c.panels = append(c.panels, &managedPanel{
				cfg:       pc,
				kind:      kind,
				workspace: ws,
				element:   wlmtk.NewSimplePanel(pc.Name, pos, wlmtk.Color(pc.Color)),
			})
		}
	}
	c.attachPanels()
}

// attachPanels puts every detached panel on its output, if present. A
// panel without an explicit output follows the first output.
func (c *Compositor) attachPanels() {
	outputs := c.layout.Outputs()
	if len(outputs) == 0 {
		return
	}
	for _, p := range c.panels {
		if p.attached {
			continue
		}
		p.output = p.cfg.Output
		if p.output == "" {
			p.output = outputs[0].Name
		}
		if !p.workspace.Layer(p.kind).AddPanel(p.element, p.output) {
			c.log.Warn("panel output not present", "panel", p.cfg.Name, "output", p.output)
			continue
		}
		p.attached = true
	}
}

func (c *Compositor) removePanels() {
	for _, p := range c.panels {
		if p.attached {
			p.workspace.Layer(p.kind).RemovePanel(p.element)
		}
	}
	c.panels = nil
}

// Panels lists the configured panels of all workspaces.
func (c *Compositor) Panels() []PanelInfo {
	out := make([]PanelInfo, 0, len(c.panels))
	for _, p := range c.panels {
		x, y := p.element.Position()
		d := p.element.Dimensions()
		out = append(out, PanelInfo{
			Name:      p.cfg.Name,
			Layer:     p.kind.String(),
			Workspace: p.workspace.Name(),
			Output:    p.output,
			Attached:  p.attached,
			Box:       Rect{X: x, Y: y, Width: d.Width, Height: d.Height},
		})
	}
	return out
}
