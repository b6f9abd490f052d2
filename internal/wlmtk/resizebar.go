package wlmtk

// Resizebar is the bar below the content. Its corners resize diagonally,
// its centre vertically.
type Resizebar struct {
	Container
	window   *Window
	style    ResizebarStyle
	renderer Renderer
	width    int

	left   *resizebarArea
	center *resizebarArea
	right  *resizebarArea
}

func newResizebar(window *Window, style ResizebarStyle, renderer Renderer) *Resizebar {
	r := &Resizebar{window: window, style: style, renderer: renderer}
	r.InitContainer(r)
	r.left = newResizebarArea(r, BufferResizeCorner, EdgeBottom|EdgeLeft)
	r.center = newResizebarArea(r, BufferResizeCenter, EdgeBottom)
	r.right = newResizebarArea(r, BufferResizeCorner, EdgeBottom|EdgeRight)
	r.AddElement(r.left)
	r.AddElement(r.center)
	r.AddElement(r.right)
	r.redraw()
	return r
}

func (r *Resizebar) Destroy() {
	for _, e := range r.Elements() {
		r.RemoveElement(e)
	}
	r.window = nil
	r.Fini()
}

// UpdateLayout keeps resize bar changes local; the window drives the width.
func (r *Resizebar) UpdateLayout() {}

func (r *Resizebar) SetWidth(width int) {
	if r.width == width {
		return
	}
	r.width = width
	r.redraw()
}

func (r *Resizebar) SetStyle(style ResizebarStyle) {
	r.style = style
	r.redraw()
}

func (r *Resizebar) Height() int {
	return r.style.Height
}

func (r *Resizebar) redraw() {
	corner := min(r.style.CornerWidth, r.width/2)
	r.left.resize(corner)
	r.left.SetPosition(0, 0)
	r.center.resize(r.width - 2*corner)
	r.center.SetPosition(corner, 0)
	r.right.resize(corner)
	r.right.SetPosition(r.width-corner, 0)
}

// resizebarArea starts a resize on the edges it stands for.
type resizebarArea struct {
	BufferElement
	bar     *Resizebar
	kind    BufferKind
	edges   Edges
	width   int
	pressed bool
}

func newResizebarArea(bar *Resizebar, kind BufferKind, edges Edges) *resizebarArea {
	a := &resizebarArea{bar: bar, kind: kind, edges: edges}
	a.initBufferElement(a, nil)
	return a
}

func (a *resizebarArea) resize(width int) {
	a.width = max(width, 0)
	a.redraw()
}

func (a *resizebarArea) redraw() {
	req := BufferRequest{
		Kind:       a.kind,
		Width:      a.width,
		Height:     a.bar.style.Height,
		Fill:       a.bar.style.Fill,
		BezelWidth: a.bar.style.BezelWidth,
	}
	if a.pressed {
		req.State = StatePressed
	}
	a.SetBuffer(renderBuffer(a.bar.renderer, req))
}

func (a *resizebarArea) PointerButton(ev ButtonEvent) bool {
	if ev.Button != ButtonLeft {
		return true
	}
	switch ev.Type {
	case ButtonDown:
		a.pressed = true
		a.redraw()
		if w := a.bar.window; w != nil {
			w.RequestResize(a.edges)
		}
	case ButtonUp:
		a.pressed = false
		a.redraw()
	}
	return true
}

func (a *resizebarArea) PointerLeave() {
	a.BufferElement.PointerLeave()
	if a.pressed {
		a.pressed = false
		a.redraw()
	}
}
