package wlmtk

import "slices"

// LayerKind selects one of the four panel layers of a workspace.
type LayerKind int

const (
	LayerBackground LayerKind = iota
	LayerBottom
	LayerTop
	LayerOverlay

	layerKinds = 4
)

func (k LayerKind) String() string {
	switch k {
	case LayerBackground:
		return "background"
	case LayerBottom:
		return "bottom"
	case LayerTop:
		return "top"
	case LayerOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// ParseLayerKind maps a name as produced by String back to a LayerKind.
func ParseLayerKind(s string) (LayerKind, bool) {
	for k := LayerBackground; k < layerKinds; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return LayerBackground, false
}

// Margins are the distances a panel keeps from the edges it anchors to.
type Margins struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}

// PanelPositioning describes where a panel wants to go, in the manner of
// the layer-shell protocol.
type PanelPositioning struct {
	// Anchor is the set of output edges the panel is attached to.
	Anchor Edges
	// ExclusiveZone > 0 reserves that many pixels along the anchored
	// edge. A negative zone asks to ignore other panels' zones.
	ExclusiveZone int
	// Width and Height of zero stretch the panel between two opposite
	// anchored edges.
	Width  int
	Height int
	Margin Margins
}

// place computes the panel's box within bounds.
func (pp PanelPositioning) place(bounds Box) Box {
	m := pp.Margin
	w, h := pp.Width, pp.Height
	horiz := pp.Anchor & (EdgeLeft | EdgeRight)
	vert := pp.Anchor & (EdgeTop | EdgeBottom)
	if w == 0 && horiz == EdgeLeft|EdgeRight {
		w = bounds.Width - m.Left - m.Right
	}
	if h == 0 && vert == EdgeTop|EdgeBottom {
		h = bounds.Height - m.Top - m.Bottom
	}

	x := bounds.X + (bounds.Width-w)/2
	switch horiz {
	case EdgeLeft:
		x = bounds.X + m.Left
	case EdgeRight:
		x = bounds.X + bounds.Width - w - m.Right
	case EdgeLeft | EdgeRight:
		if pp.Width == 0 {
			x = bounds.X + m.Left
		}
	}
	y := bounds.Y + (bounds.Height-h)/2
	switch vert {
	case EdgeTop:
		y = bounds.Y + m.Top
	case EdgeBottom:
		y = bounds.Y + bounds.Height - h - m.Bottom
	case EdgeTop | EdgeBottom:
		if pp.Height == 0 {
			y = bounds.Y + m.Top
		}
	}
	return Box{X: x, Y: y, Width: max(w, 0), Height: max(h, 0)}
}

// exclusiveEdge is the edge an exclusive zone applies to: the panel must
// be anchored to one edge, or to one edge and both edges perpendicular
// to it.
func (pp PanelPositioning) exclusiveEdge() Edges {
	switch pp.Anchor {
	case EdgeTop, EdgeTop | EdgeLeft | EdgeRight:
		return EdgeTop
	case EdgeBottom, EdgeBottom | EdgeLeft | EdgeRight:
		return EdgeBottom
	case EdgeLeft, EdgeLeft | EdgeTop | EdgeBottom:
		return EdgeLeft
	case EdgeRight, EdgeRight | EdgeTop | EdgeBottom:
		return EdgeRight
	}
	return EdgeNone
}

// reserve removes the panel's exclusive zone from usable.
func (pp PanelPositioning) reserve(usable Box) Box {
	if pp.ExclusiveZone <= 0 {
		return usable
	}
	m := pp.Margin
	switch pp.exclusiveEdge() {
	case EdgeTop:
		z := pp.ExclusiveZone + m.Top
		usable.Y += z
		usable.Height -= z
	case EdgeBottom:
		usable.Height -= pp.ExclusiveZone + m.Bottom
	case EdgeLeft:
		z := pp.ExclusiveZone + m.Left
		usable.X += z
		usable.Width -= z
	case EdgeRight:
		usable.Width -= pp.ExclusiveZone + m.Right
	}
	usable.Width = max(usable.Width, 0)
	usable.Height = max(usable.Height, 0)
	return usable
}

// Panel is an element managed by a Layer rather than as a window.
type Panel interface {
	Element
	Positioning() PanelPositioning
	RequestSize(width, height int)
}

// Layer holds panels per output and places them whenever panels or
// outputs change.
type Layer struct {
	Container
	kind      LayerKind
	workspace *Workspace
	outputs   []Output
	panels    map[string][]Panel
	usable    map[string]Box
}

// NewLayer returns a layer that is not part of a workspace.
func NewLayer(kind LayerKind) *Layer {
	return newLayer(kind, nil)
}

func newLayer(kind LayerKind, ws *Workspace) *Layer {
	l := &Layer{
		kind:      kind,
		workspace: ws,
		panels:    map[string][]Panel{},
		usable:    map[string]Box{},
	}
	l.InitContainer(l)
	return l
}

func (l *Layer) Kind() LayerKind {
	return l.kind
}

// Destroy detaches all panels.
func (l *Layer) Destroy() {
	for _, e := range l.Elements() {
		l.RemoveElement(e)
	}
	clear(l.panels)
	l.Fini()
}

// UpdateLayout stops propagation; panels are placed by Reconfigure.
func (l *Layer) UpdateLayout() {}

func (l *Layer) knownOutputs() []Output {
	if l.workspace != nil {
		return l.workspace.Outputs()
	}
	return l.outputs
}

// AddPanel puts p on the named output. It returns false if there is no
// such output.
func (l *Layer) AddPanel(p Panel, output string) bool {
	if !slices.ContainsFunc(l.knownOutputs(), func(o Output) bool { return o.Name == output }) {
		return false
	}
	l.AddElement(p)
	l.panels[output] = append(l.panels[output], p)
	l.Reconfigure()
	return true
}

// RemovePanel detaches p. Panics if p is not in this layer.
func (l *Layer) RemovePanel(p Panel) {
	l.RemoveElement(p)
	for name, panels := range l.panels {
		l.panels[name] = slices.DeleteFunc(panels, func(o Panel) bool { return o == p })
	}
	l.Reconfigure()
}

// Panels returns the panels on the named output.
func (l *Layer) Panels(output string) []Panel {
	return slices.Clone(l.panels[output])
}

// SetOutputs replaces the outputs of a standalone layer. Panels on outputs
// that are gone get detached and returned.
func (l *Layer) SetOutputs(outputs []Output) []Panel {
	dropped := l.setOutputs(outputs)
	l.Reconfigure()
	return dropped
}

func (l *Layer) setOutputs(outputs []Output) []Panel {
	l.outputs = slices.Clone(outputs)
	var dropped []Panel
	for name, panels := range l.panels {
		if slices.ContainsFunc(outputs, func(o Output) bool { return o.Name == name }) {
			continue
		}
		for _, p := range panels {
			l.RemoveElement(p)
			dropped = append(dropped, p)
		}
		delete(l.panels, name)
	}
	return dropped
}

// Reconfigure places all panels again. Within a workspace, all layers are
// arranged together since exclusive zones stack across layers.
func (l *Layer) Reconfigure() {
	if l.workspace != nil {
		l.workspace.arrangeLayers()
		return
	}
	for _, o := range l.outputs {
		l.arrange(o, o.Box)
	}
}

// arrange places the panels of output o within usable and returns what is
// left after their exclusive zones.
func (l *Layer) arrange(o Output, usable Box) Box {
	for _, p := range l.panels[o.Name] {
		pp := p.Positioning()
		bounds := usable
		if pp.ExclusiveZone < 0 {
			bounds = o.Box
		}
		box := pp.place(bounds)
		p.RequestSize(box.Width, box.Height)
		p.SetPosition(box.X, box.Y)
		usable = pp.reserve(usable)
	}
	l.usable[o.Name] = usable
	return usable
}

// UsableArea is what remains of the output after the exclusive zones of
// this layer and the layers above it.
func (l *Layer) UsableArea(output string) (Box, bool) {
	b, ok := l.usable[output]
	return b, ok
}

// SimplePanel is a Panel of a solid colour that takes any size it is
// asked for.
type SimplePanel struct {
	Elem
	name        string
	positioning PanelPositioning
	width       int
	height      int
	color       Color
}

func NewSimplePanel(name string, pp PanelPositioning, color Color) *SimplePanel {
	p := &SimplePanel{name: name, positioning: pp, color: color}
	p.InitElement(p)
	return p
}

func (p *SimplePanel) Name() string { return p.name }

func (p *SimplePanel) Color() Color { return p.color }

func (p *SimplePanel) Positioning() PanelPositioning {
	return p.positioning
}

// SetPositioning changes the positioning and re-places the layer's panels.
func (p *SimplePanel) SetPositioning(pp PanelPositioning) {
	p.positioning = pp
	if l, ok := p.Parent().(*Layer); ok {
		l.Reconfigure()
	}
}

func (p *SimplePanel) RequestSize(width, height int) {
	p.width, p.height = width, height
}

func (p *SimplePanel) Dimensions() Box {
	return Box{Width: p.width, Height: p.height}
}

func (p *SimplePanel) PointerMotion(ev PointerMotionEvent) bool {
	p.Elem.PointerMotion(ev)
	return true
}

func (p *SimplePanel) PointerButton(ButtonEvent) bool { return true }
