package wlmtk

import "slices"

// PointerState is the state of a workspace's pointer interaction.
type PointerState int

const (
	PointerPassthrough PointerState = iota
	PointerMove
	PointerResize
)

func (s PointerState) String() string {
	switch s {
	case PointerPassthrough:
		return "passthrough"
	case PointerMove:
		return "move"
	case PointerResize:
		return "resize"
	default:
		return "unknown"
	}
}

// PointerEvent drives a workspace's pointer interaction.
type PointerEvent int

const (
	PointerBeginMove PointerEvent = iota
	PointerBeginResize
	PointerMotion
	PointerReleased
	PointerReset
)

// pointerGrab is what the pointer FSM remembers about a move or resize.
type pointerGrab struct {
	window   *Window
	pointerX float64
	pointerY float64
	box      Box
	edges    Edges
}

// Workspace holds mapped windows and the four panel layers, and drives
// interactive move and resize.
//
// Stacking, back to front: background layer, bottom layer, windows, top
// layer, fullscreen windows, overlay layer.
type Workspace struct {
	Container
	name  string
	index int
	root  *Root

	layers     [layerKinds]*Layer
	windows    *Container
	fullscreen *Container

	mapped    []*Window
	activated *Window

	fsm      *FSM[PointerState, PointerEvent]
	grab     pointerGrab
	pointerX float64
	pointerY float64

	extents Box
	outputs OutputLayout
	usable  map[string]Box
}

func NewWorkspace(name string, index int) *Workspace {
	ws := &Workspace{name: name, index: index, usable: map[string]Box{}}
	ws.InitContainer(ws)

	ws.windows = NewContainer()
	ws.fullscreen = NewContainer()
	for k := range ws.layers {
		ws.layers[k] = newLayer(LayerKind(k), ws)
	}
	ws.AddElement(ws.layers[LayerBackground])
	ws.AddElement(ws.layers[LayerBottom])
	ws.AddElement(ws.windows)
	ws.AddElement(ws.layers[LayerTop])
	ws.AddElement(ws.fullscreen)
	ws.AddElement(ws.layers[LayerOverlay])

	ws.fsm = NewFSM([]Transition[PointerState, PointerEvent]{
		{State: PointerPassthrough, Event: PointerBeginMove, To: PointerMove, Handler: ws.moveBegin},
		{State: PointerPassthrough, Event: PointerBeginResize, To: PointerResize, Handler: ws.resizeBegin},
		{State: PointerMove, Event: PointerMotion, To: PointerMove, Handler: ws.moveMotion},
		{State: PointerMove, Event: PointerReleased, To: PointerPassthrough, Handler: ws.reset},
		{State: PointerMove, Event: PointerReset, To: PointerPassthrough, Handler: ws.reset},
		{State: PointerResize, Event: PointerMotion, To: PointerResize, Handler: ws.resizeMotion},
		{State: PointerResize, Event: PointerReleased, To: PointerPassthrough, Handler: ws.reset},
		{State: PointerResize, Event: PointerReset, To: PointerPassthrough, Handler: ws.reset},
	}, PointerPassthrough)
	return ws
}

// Destroy panics if windows are still mapped.
func (ws *Workspace) Destroy() {
	if len(ws.mapped) > 0 {
		panic("wlmtk: destroying a workspace with mapped windows")
	}
	if ws.root != nil {
		panic("wlmtk: destroying a workspace still attached to the root")
	}
	for _, l := range ws.layers {
		l.Destroy()
	}
	for _, e := range ws.Elements() {
		ws.RemoveElement(e)
	}
	ws.Fini()
}

func (ws *Workspace) Name() string { return ws.name }

func (ws *Workspace) SetName(name string) { ws.name = name }

func (ws *Workspace) Index() int { return ws.index }

// Root returns the root the workspace is attached to, or nil.
func (ws *Workspace) Root() *Root { return ws.root }

// Layer returns the panel layer of the given kind.
func (ws *Workspace) Layer(kind LayerKind) *Layer {
	return ws.layers[kind]
}

// PointerState returns the state of the pointer interaction.
func (ws *Workspace) PointerState() PointerState {
	return ws.fsm.State()
}

// GrabbedWindow returns the window being moved or resized, or nil.
func (ws *Workspace) GrabbedWindow() *Window {
	return ws.grab.window
}

// UpdateLayout stops propagation: the workspace's size is its extents.
func (ws *Workspace) UpdateLayout() {}

func (ws *Workspace) Dimensions() Box {
	return ws.extents
}

// SetExtents sets the workspace area. Without an output layout, it also
// serves as the single output.
func (ws *Workspace) SetExtents(extents Box) {
	ws.extents = extents
	ws.arrangeLayers()
}

func (ws *Workspace) Extents() Box {
	return ws.extents
}

// SetOutputs sets the output layout. The extents become the union of the
// outputs. Panels on outputs that vanished are detached and returned.
func (ws *Workspace) SetOutputs(layout OutputLayout) []Panel {
	ws.outputs = layout
	var extents Box
	for _, o := range layout.Outputs() {
		extents = extents.Union(o.Box)
	}
	ws.extents = extents

	var dropped []Panel
	for _, l := range ws.layers {
		dropped = append(dropped, l.setOutputs(layout.Outputs())...)
	}
	ws.arrangeLayers()
	return dropped
}

// Outputs returns the outputs of the workspace.
func (ws *Workspace) Outputs() []Output {
	if ws.outputs == nil {
		return []Output{{Box: ws.extents}}
	}
	return ws.outputs.Outputs()
}

// arrangeLayers places all panels and recomputes each output's usable
// area. Exclusive zones are claimed from the overlay layer downwards.
func (ws *Workspace) arrangeLayers() {
	clear(ws.usable)
	for _, o := range ws.Outputs() {
		usable := o.Box
		for k := len(ws.layers) - 1; k >= 0; k-- {
			usable = ws.layers[k].arrange(o, usable)
		}
		ws.usable[o.Name] = usable
	}
}

// outputFor returns the window's preferred output, or the output nearest
// to its center.
func (ws *Workspace) outputFor(w *Window) Output {
	if ws.outputs == nil {
		return Output{Box: ws.extents}
	}
	if w != nil && w.preferredOutput != "" {
		if o, ok := findOutput(ws.outputs, w.preferredOutput); ok {
			return o
		}
	}
	var cx, cy int
	if w != nil {
		cx, cy = w.BoundingBox().Center()
	}
	if o, ok := ws.outputs.NearestOutput(cx, cy); ok {
		return o
	}
	return Output{Box: ws.extents}
}

// FullscreenExtents is the full area of the window's output.
func (ws *Workspace) FullscreenExtents(w *Window) Box {
	return ws.outputFor(w).Box
}

// MaximizeExtents is the window's output minus the exclusive zones of
// panels on it.
func (ws *Workspace) MaximizeExtents(w *Window) Box {
	o := ws.outputFor(w)
	if usable, ok := ws.usable[o.Name]; ok {
		return usable
	}
	return o.Box
}

// UsableArea is the named output minus the exclusive zones of its panels.
func (ws *Workspace) UsableArea(output string) (Box, bool) {
	b, ok := ws.usable[output]
	return b, ok
}

// MapWindow adds the window, shows and activates it.
func (ws *Workspace) MapWindow(w *Window) {
	if w.workspace != nil {
		panic("wlmtk: window is already mapped")
	}
	w.workspace = ws
	if w.fullscreen {
		ws.fullscreen.AddElement(w)
	} else {
		ws.windows.AddElement(w)
	}
	w.SetVisible(true)
	ws.mapped = append(ws.mapped, w)
	ws.ActivateWindow(w)
	if ws.root != nil {
		ws.root.events.WindowMapped.Emit(w)
	}
}

// UnmapWindow hides and removes the window. An ongoing move or resize of
// the window is aborted.
func (ws *Workspace) UnmapWindow(w *Window) {
	if w.workspace != ws {
		panic("wlmtk: window is not mapped to this workspace")
	}
	if ws.grab.window == w {
		ws.fsm.Event(PointerReset, nil)
	}
	if ws.activated == w {
		w.SetActivated(false)
	}
	w.SetVisible(false)
	w.Parent().container().RemoveElement(w)
	ws.mapped = slices.DeleteFunc(ws.mapped, func(o *Window) bool { return o == w })
	w.workspace = nil
	w.menu.update()

	if ws.activated == nil {
		ws.ActivateWindow(ws.topmostWindow())
	}
	if ws.root != nil {
		ws.root.events.WindowUnmapped.Emit(w)
	}
}

func (ws *Workspace) topmostWindow() *Window {
	for _, c := range []*Container{ws.fullscreen, ws.windows} {
		for i := len(c.elements) - 1; i >= 0; i-- {
			if w, ok := c.elements[i].(*Window); ok {
				return w
			}
		}
	}
	return nil
}

// Windows returns the mapped windows in the order they were mapped.
func (ws *Workspace) Windows() []*Window {
	return slices.Clone(ws.mapped)
}

// Stacking returns the mapped windows from bottom to top.
func (ws *Workspace) Stacking() []*Window {
	var out []*Window
	for _, c := range []*Container{ws.windows, ws.fullscreen} {
		for _, e := range c.elements {
			if w, ok := e.(*Window); ok {
				out = append(out, w)
			}
		}
	}
	return out
}

// ActivateWindow makes w the activated window, deactivating the previous
// one. A nil w only deactivates.
func (ws *Workspace) ActivateWindow(w *Window) {
	if w != nil && w.workspace != ws {
		panic("wlmtk: activating a window of another workspace")
	}
	if ws.activated == w {
		return
	}
	if ws.activated != nil {
		ws.activated.SetActivated(false)
	}
	ws.activated = w
	if w != nil {
		w.SetActivated(true)
	}
}

func (ws *Workspace) ActivatedWindow() *Window {
	return ws.activated
}

// ActivateNextWindow activates the window mapped after the activated one,
// wrapping around. Stacking does not change.
func (ws *Workspace) ActivateNextWindow() {
	ws.activateRelative(1)
}

// ActivatePreviousWindow is the reverse of ActivateNextWindow.
func (ws *Workspace) ActivatePreviousWindow() {
	ws.activateRelative(-1)
}

func (ws *Workspace) activateRelative(step int) {
	n := len(ws.mapped)
	if n == 0 {
		return
	}
	idx := slices.Index(ws.mapped, ws.activated)
	switch {
	case idx < 0 && step > 0:
		idx = 0
	case idx < 0:
		idx = n - 1
	default:
		idx = (idx + step + n) % n
	}
	ws.ActivateWindow(ws.mapped[idx])
}

// RaiseWindow puts the window on top of its stacking layer.
func (ws *Workspace) RaiseWindow(w *Window) {
	if w.workspace != ws {
		panic("wlmtk: raising a window of another workspace")
	}
	w.Parent().container().RaiseToTop(w)
}

// promoteFullscreen moves the window between the normal and the
// fullscreen stacking layer.
func (ws *Workspace) promoteFullscreen(w *Window, fullscreen bool) {
	target := ws.windows
	if fullscreen {
		target = ws.fullscreen
	}
	from := w.Parent().container()
	if from == target {
		return
	}
	from.RemoveElement(w)
	target.AddElement(w)
	if ws.activated == w {
		if p := w.content.Parent(); p != nil {
			p.container().SetKeyboardFocus(w.content)
		}
	}
}

// BeginWindowMove starts moving w with the pointer.
func (ws *Workspace) BeginWindowMove(w *Window) bool {
	return ws.fsm.Event(PointerBeginMove, w)
}

// BeginWindowResize starts resizing w, dragging the given edges.
func (ws *Workspace) BeginWindowResize(w *Window, edges Edges) bool {
	return ws.fsm.Event(PointerBeginResize, resizeRequest{window: w, edges: edges})
}

type resizeRequest struct {
	window *Window
	edges  Edges
}

// PointerMotion feeds the pointer interaction, then dispatches to the
// elements. The workspace accepts the pointer everywhere.
func (ws *Workspace) PointerMotion(ev PointerMotionEvent) bool {
	ws.pointerX, ws.pointerY = ev.X, ev.Y
	ws.fsm.Event(PointerMotion, nil)
	ws.Container.PointerMotion(ev)
	return true
}

func (ws *Workspace) PointerButton(ev ButtonEvent) bool {
	if ev.Type == ButtonUp {
		ws.fsm.Event(PointerReleased, nil)
	}
	return ws.Container.PointerButton(ev)
}

func (ws *Workspace) PointerLeave() {
	ws.fsm.Event(PointerReset, nil)
	ws.Container.PointerLeave()
}

// PointerPosition returns the last pointer position on the workspace.
func (ws *Workspace) PointerPosition() (float64, float64) {
	return ws.pointerX, ws.pointerY
}

func (ws *Workspace) moveBegin(_ *FSM[PointerState, PointerEvent], ud any) bool {
	w := ud.(*Window)
	if w.workspace != ws {
		panic("wlmtk: moving a window of another workspace")
	}
	ws.grab = pointerGrab{
		window:   w,
		pointerX: ws.pointerX,
		pointerY: ws.pointerY,
		box:      w.BoundingBox(),
	}
	return true
}

func (ws *Workspace) moveMotion(_ *FSM[PointerState, PointerEvent], _ any) bool {
	g := ws.grab
	if g.window == nil {
		return false
	}
	dx := roundToInt(ws.pointerX - g.pointerX)
	dy := roundToInt(ws.pointerY - g.pointerY)
	g.window.SetPosition(g.box.X+dx, g.box.Y+dy)
	return true
}

func (ws *Workspace) resizeBegin(_ *FSM[PointerState, PointerEvent], ud any) bool {
	req := ud.(resizeRequest)
	w := req.window
	if w.workspace != ws {
		panic("wlmtk: resizing a window of another workspace")
	}
	ws.grab = pointerGrab{
		window:   w,
		pointerX: ws.pointerX,
		pointerY: ws.pointerY,
		box:      w.BoundingBox(),
		edges:    req.edges,
	}
	w.SetResizeEdges(req.edges)
	return true
}

// resizeMotion moves the dragged edges by the pointer delta. The opposite
// edges stay put and the box never drops below 1x1.
func (ws *Workspace) resizeMotion(_ *FSM[PointerState, PointerEvent], _ any) bool {
	g := ws.grab
	if g.window == nil {
		return false
	}
	dx := roundToInt(ws.pointerX - g.pointerX)
	dy := roundToInt(ws.pointerY - g.pointerY)

	top, bottom := g.box.Y, g.box.Y+g.box.Height
	left, right := g.box.X, g.box.X+g.box.Width
	if g.edges&EdgeTop != 0 {
		top = min(top+dy, bottom-1)
	} else if g.edges&EdgeBottom != 0 {
		bottom = max(bottom+dy, top+1)
	}
	if g.edges&EdgeLeft != 0 {
		left = min(left+dx, right-1)
	} else if g.edges&EdgeRight != 0 {
		right = max(right+dx, left+1)
	}
	g.window.RequestSize(right-left, bottom-top)
	return true
}

func (ws *Workspace) reset(_ *FSM[PointerState, PointerEvent], _ any) bool {
	if w := ws.grab.window; w != nil {
		w.SetResizeEdges(EdgeNone)
	}
	ws.grab = pointerGrab{}
	return true
}
