package wlmtk

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Properties are the capabilities of a window.
type Properties uint32

const (
	PropertyResizable Properties = 1 << iota
	PropertyIconifiable
	PropertyClosable
	// PropertyRightClick opens the window menu on a right click into the
	// title bar.
	PropertyRightClick
)

// Size is a width and height pair.
type Size struct {
	Width  int
	Height int
}

// WindowState is the observable state of a window.
type WindowState struct {
	Activated  bool
	Fullscreen bool
	Maximized  bool
	Shaded     bool
}

// WindowEvents are emitted by a Window. The Request* events ask the
// client glue to act; it answers by calling the matching Commit* method.
type WindowEvents struct {
	StateChanged      Signal[WindowState]
	RequestSize       Signal[Size]
	RequestFullscreen Signal[bool]
	RequestMaximized  Signal[bool]
	RequestClose      Signal[struct{}]
	RequestMinimize   Signal[struct{}]
}

// Window wraps a Content with optional server-side decoration and tracks
// activation, fullscreen, maximize and shade state.
//
// The element tree is: Window -> Bordered -> LayoutBox -> [Titlebar,
// Content, Resizebar], plus the window menu on top.
type Window struct {
	Container
	id        uuid.UUID
	content   Content
	style     WindowStyle
	menuStyle MenuStyle
	renderer  Renderer

	bordered  *Bordered
	box       *LayoutBox
	titlebar  *Titlebar
	resizebar *Resizebar
	menu      *windowMenu

	title           string
	properties      Properties
	activated       bool
	fullscreen      bool
	maximized       bool
	shaded          bool
	ssd             bool
	inorganicSizing bool
	organic         Box
	resizeEdges     Edges
	workspace       *Workspace
	preferredOutput string

	laidOut    bool
	lastWidth  int
	lastHeight int

	events WindowEvents
}

// NewWindow wraps content. The window starts hidden, undecorated and
// without properties.
func NewWindow(content Content, style WindowStyle, menuStyle MenuStyle, renderer Renderer) *Window {
	if content.Parent() != nil {
		panic("wlmtk: window content already has a parent")
	}
	w := &Window{
		id:        uuid.New(),
		content:   content,
		style:     style,
		menuStyle: menuStyle,
		renderer:  renderer,
	}
	w.InitContainer(w)
	w.title = w.fallbackTitle()

	w.box = NewLayoutBox(Vertical, style.Margin)
	w.box.AddElement(content)
	w.bordered = NewBordered(w.box, MarginStyle{Color: style.Border.Color})
	w.AddElement(w.bordered)

	w.menu = newWindowMenu(w)
	w.menu.SetVisible(false)
	w.AddElement(w.menu)

	w.SetVisible(false)
	w.applyDecoration()
	w.organic = w.BoundingBox()
	return w
}

// Destroy strips decoration and detaches the content, which stays owned
// by the caller. Panics if the window is still mapped.
func (w *Window) Destroy() {
	if w.workspace != nil {
		panic("wlmtk: destroying a mapped window")
	}
	w.ssd = false
	w.applyDecoration()

	w.RemoveElement(w.menu)
	w.menu.Destroy()
	w.RemoveElement(w.bordered)
	w.bordered.Destroy()
	w.box.Destroy()
	w.menu, w.bordered, w.box = nil, nil, nil
	w.Fini()
}

func (w *Window) ID() uuid.UUID {
	return w.id
}

func (w *Window) Content() Content {
	return w.content
}

// Workspace returns the workspace the window is mapped to, or nil.
func (w *Window) Workspace() *Workspace {
	return w.workspace
}

func (w *Window) Events() *WindowEvents {
	return &w.events
}

func (w *Window) State() WindowState {
	return WindowState{
		Activated:  w.activated,
		Fullscreen: w.fullscreen,
		Maximized:  w.maximized,
		Shaded:     w.shaded,
	}
}

func (w *Window) fallbackTitle() string {
	return fmt.Sprintf("Unnamed window %s", w.id)
}

// SetTitle sets the title. An empty title is replaced by a generated one.
func (w *Window) SetTitle(title string) {
	if title == "" {
		title = w.fallbackTitle()
	}
	w.title = title
	if w.titlebar != nil {
		w.titlebar.SetTitle(title)
	}
}

func (w *Window) Title() string {
	return w.title
}

func (w *Window) SetProperties(p Properties) {
	w.properties = p
	if w.titlebar != nil {
		w.titlebar.SetProperties(p)
	}
	w.applyDecoration()
}

func (w *Window) Properties() Properties {
	return w.properties
}

// SetPreferredOutput names the output used for fullscreen and maximize.
// With no preference, the output nearest to the window's center is used.
func (w *Window) SetPreferredOutput(name string) {
	w.preferredOutput = name
}

func (w *Window) PreferredOutput() string {
	return w.preferredOutput
}

// SetServerSideDecorated turns decoration on or off.
func (w *Window) SetServerSideDecorated(decorated bool) {
	if w.ssd == decorated {
		return
	}
	wasShaded := w.shaded
	w.ssd = decorated
	w.applyDecoration()
	if wasShaded != w.shaded {
		w.events.StateChanged.Emit(w.State())
	}
}

func (w *Window) ServerSideDecorated() bool {
	return w.ssd
}

// SetStyle replaces the decoration style.
func (w *Window) SetStyle(style WindowStyle, menuStyle MenuStyle) {
	w.style = style
	w.menuStyle = menuStyle
	if w.titlebar != nil {
		w.titlebar.SetStyle(style.Titlebar)
	}
	if w.resizebar != nil {
		w.resizebar.SetStyle(style.Resizebar)
	}
	w.menu.setStyle(menuStyle)
	w.box.SetMargin(style.Margin)
	w.applyDecoration()
}

// Titlebar returns the title bar, or nil when there is none.
func (w *Window) Titlebar() *Titlebar {
	return w.titlebar
}

// Resizebar returns the resize bar, or nil when there is none.
func (w *Window) Resizebar() *Resizebar {
	return w.resizebar
}

// applyDecoration creates or removes title bar, resize bar and border so
// they match the decoration, fullscreen and resizable state.
func (w *Window) applyDecoration() {
	decorated := w.ssd && !w.fullscreen

	if decorated && w.titlebar == nil {
		w.titlebar = newTitlebar(w, w.style.Titlebar, w.renderer)
		w.box.AddElementBelow(w.content, w.titlebar)
	} else if !decorated && w.titlebar != nil {
		tb := w.titlebar
		w.titlebar = nil
		w.box.RemoveElement(tb)
		tb.Destroy()
		if w.shaded {
			w.setShaded(false)
		}
	}

	resizable := decorated && w.properties&PropertyResizable != 0
	if resizable && w.resizebar == nil {
		w.resizebar = newResizebar(w, w.style.Resizebar, w.renderer)
		w.resizebar.SetVisible(!w.shaded)
		w.box.AddElementAtop(w.content, w.resizebar)
	} else if !resizable && w.resizebar != nil {
		rb := w.resizebar
		w.resizebar = nil
		w.box.RemoveElement(rb)
		rb.Destroy()
	}

	border := w.style.Border
	if !decorated {
		border.Width = 0
	}
	w.bordered.SetStyle(border)
	w.menu.update()
}

// decorationSize returns how much decoration adds to the content size, for
// the given fullscreen state.
func (w *Window) decorationSize(fullscreen bool) (int, int) {
	if !w.ssd || fullscreen {
		return 0, 0
	}
	s := w.style
	dw := 2 * s.Border.Width
	dh := 2*s.Border.Width + s.Titlebar.Height + s.Margin.Width
	if w.properties&PropertyResizable != 0 {
		dh += s.Resizebar.Height + s.Margin.Width
	}
	return dw, dh
}

// UpdateLayout re-lays out the decoration around the content. When the
// size changed during a resize from the left or top, the window moves so
// the opposite edge stays put. Propagation ends here.
func (w *Window) UpdateLayout() {
	if w.bordered == nil || w.box == nil {
		return
	}
	cw := w.content.Dimensions().Width
	if w.titlebar != nil {
		w.titlebar.SetWidth(cw)
	}
	if w.resizebar != nil {
		w.resizebar.SetWidth(cw)
	}
	w.box.layout()
	w.bordered.layout()

	d := w.bordered.Dimensions()
	bw := w.bordered.Style().Width
	if drift := d.Width - cw - 2*bw; w.content.Visible() && (drift > bw || drift < -bw) {
		slog.Warn("window decoration drifted from content",
			"window", w.title, "content_width", cw, "decoration_width", d.Width)
	}

	if w.laidOut && (d.Width != w.lastWidth || d.Height != w.lastHeight) {
		x, y := w.Position()
		if w.resizeEdges&EdgeLeft != 0 {
			x += w.lastWidth - d.Width
		}
		if w.resizeEdges&EdgeTop != 0 {
			y += w.lastHeight - d.Height
		}
		w.Elem.SetPosition(x, y)
	}
	w.laidOut = true
	w.lastWidth, w.lastHeight = d.Width, d.Height

	if !w.inorganicSizing && !w.fullscreen && !w.maximized && !w.shaded {
		w.organic = w.BoundingBox()
	}
}

// SetPosition moves the window within its parent. An explicit move drops
// a fullscreen or maximize request that was never committed.
func (w *Window) SetPosition(x, y int) {
	w.inorganicSizing = false
	w.Elem.SetPosition(x, y)
	if !w.fullscreen && !w.maximized {
		w.organic.X, w.organic.Y = x, y
	}
}

// BoundingBox is the window's area including decoration, excluding an
// open menu.
func (w *Window) BoundingBox() Box {
	x, y := w.Position()
	if w.bordered == nil {
		return Box{X: x, Y: y}
	}
	return w.bordered.Dimensions().Translate(x, y)
}

// OrganicBox is the geometry the window returns to when leaving fullscreen
// or maximized state.
func (w *Window) OrganicBox() Box {
	return w.organic
}

// RequestSize asks for a bounding box of width x height. The content is
// asked for the size left after decoration, at least 1x1. Like
// SetPosition, it drops an uncommitted fullscreen or maximize request.
func (w *Window) RequestSize(width, height int) {
	w.inorganicSizing = false
	dw, dh := w.decorationSize(w.fullscreen)
	w.requestContentSize(width-dw, height-dh)
}

// RequestPositionAndSize moves the window and requests the box's size.
func (w *Window) RequestPositionAndSize(box Box) {
	w.SetPosition(box.X, box.Y)
	w.RequestSize(box.Width, box.Height)
}

func (w *Window) requestContentSize(width, height int) {
	size := Size{Width: max(width, 1), Height: max(height, 1)}
	w.content.RequestSize(size.Width, size.Height)
	w.events.RequestSize.Emit(size)
}

func (w *Window) SetResizeEdges(edges Edges) {
	w.resizeEdges = edges
}

func (w *Window) ResizeEdges() Edges {
	return w.resizeEdges
}

// SetActivated (de)activates the window. Deactivating closes the menu and
// clears the workspace's reference to the window.
func (w *Window) SetActivated(activated bool) {
	if activated && w.workspace != nil && w.workspace.activated != w {
		w.workspace.ActivateWindow(w)
		return
	}
	if w.activated == activated {
		return
	}
	w.activated = activated
	if w.titlebar != nil {
		w.titlebar.SetActivated(activated)
	}
	w.content.SetActivated(activated)
	if activated {
		if p := w.content.Parent(); p != nil {
			p.container().SetKeyboardFocus(w.content)
		}
	} else {
		w.RequestMenu(false)
		if ws := w.workspace; ws != nil && ws.activated == w {
			ws.activated = nil
		}
		if p := w.Parent(); p != nil && p.container().keyboardFocus == Element(w) {
			p.container().SetKeyboardFocus(nil)
		}
	}
	w.events.StateChanged.Emit(w.State())
}

func (w *Window) Activated() bool {
	return w.activated
}

// restoreBox is where the window goes when leaving fullscreen.
func (w *Window) restoreBox() Box {
	if w.maximized && w.workspace != nil {
		return w.workspace.MaximizeExtents(w)
	}
	return w.organic
}

// RequestFullscreen asks the content to take the fullscreen size (or the
// size to restore) and emits RequestFullscreen. State only changes with
// CommitFullscreen.
func (w *Window) RequestFullscreen(fullscreen bool) {
	if w.workspace == nil {
		return
	}
	box := w.restoreBox()
	if fullscreen {
		box = w.workspace.FullscreenExtents(w)
	}
	w.inorganicSizing = true
	dw, dh := w.decorationSize(fullscreen)
	w.requestContentSize(box.Width-dw, box.Height-dh)
	w.events.RequestFullscreen.Emit(fullscreen)
}

// CommitFullscreen applies the fullscreen state. Repeating the current
// state is a no-op.
func (w *Window) CommitFullscreen(fullscreen bool) {
	if w.fullscreen == fullscreen {
		return
	}
	w.fullscreen = fullscreen
	w.applyDecoration()

	if ws := w.workspace; ws != nil {
		ws.promoteFullscreen(w, fullscreen)
		box := w.restoreBox()
		if fullscreen {
			box = ws.FullscreenExtents(w)
		}
		w.Elem.SetPosition(box.X, box.Y)
	}
	w.inorganicSizing = false
	w.menu.update()
	w.events.StateChanged.Emit(w.State())
}

func (w *Window) Fullscreen() bool {
	return w.fullscreen
}

// RequestMaximized asks the content for the maximize extents, or for the
// organic size when unmaximizing. Ignored while fullscreen.
func (w *Window) RequestMaximized(maximized bool) {
	if w.fullscreen || w.workspace == nil {
		return
	}
	box := w.organic
	if maximized {
		box = w.workspace.MaximizeExtents(w)
	}
	w.inorganicSizing = true
	dw, dh := w.decorationSize(false)
	w.requestContentSize(box.Width-dw, box.Height-dh)
	w.events.RequestMaximized.Emit(maximized)
}

// CommitMaximized applies the maximized state. Repeating the current
// state is a no-op.
func (w *Window) CommitMaximized(maximized bool) {
	if w.maximized == maximized {
		return
	}
	w.maximized = maximized
	if ws := w.workspace; ws != nil && !w.fullscreen {
		box := w.organic
		if maximized {
			box = ws.MaximizeExtents(w)
		}
		w.Elem.SetPosition(box.X, box.Y)
	}
	w.inorganicSizing = false
	w.menu.update()
	w.events.StateChanged.Emit(w.State())
}

func (w *Window) Maximized() bool {
	return w.maximized
}

// Refit moves a fullscreen or maximized window onto its current extents
// and requests their size, as after an output layout change. Other
// windows are left alone.
func (w *Window) Refit() {
	ws := w.workspace
	if ws == nil {
		return
	}
	var box Box
	switch {
	case w.fullscreen:
		box = ws.FullscreenExtents(w)
	case w.maximized:
		box = ws.MaximizeExtents(w)
	default:
		return
	}
	w.Elem.SetPosition(box.X, box.Y)
	dw, dh := w.decorationSize(w.fullscreen)
	w.requestContentSize(box.Width-dw, box.Height-dh)
	w.Elem.SetPosition(box.X, box.Y)
}

// RequestShaded rolls the window up to its title bar. Without a title bar
// the window cannot be shaded.
func (w *Window) RequestShaded(shaded bool) {
	if shaded && w.titlebar == nil {
		return
	}
	if w.shaded == shaded {
		return
	}
	w.setShaded(shaded)
	w.menu.update()
	w.events.StateChanged.Emit(w.State())
}

func (w *Window) setShaded(shaded bool) {
	w.shaded = shaded
	w.content.SetVisible(!shaded)
	if w.resizebar != nil {
		w.resizebar.SetVisible(!shaded)
	}
	w.box.UpdateLayout()
}

func (w *Window) Shaded() bool {
	return w.shaded
}

// RequestMove starts an interactive move at the current pointer position.
func (w *Window) RequestMove() {
	if w.workspace != nil {
		w.workspace.BeginWindowMove(w)
	}
}

// RequestResize starts an interactive resize dragging the given edges.
func (w *Window) RequestResize(edges Edges) {
	if w.workspace != nil {
		w.workspace.BeginWindowResize(w, edges)
	}
}

// RequestClose asks the content to close. Requires PropertyClosable.
func (w *Window) RequestClose() {
	if w.properties&PropertyClosable == 0 {
		return
	}
	w.content.RequestClose()
	w.events.RequestClose.Emit(struct{}{})
}

// RequestMinimize requires PropertyIconifiable.
func (w *Window) RequestMinimize() {
	if w.properties&PropertyIconifiable == 0 {
		return
	}
	w.events.RequestMinimize.Emit(struct{}{})
}

// RequestMenu opens the window menu at the pointer, or closes it.
func (w *Window) RequestMenu(open bool) {
	if w.menu == nil || w.menu.Visible() == open {
		return
	}
	if open {
		w.menu.update()
		x, y := w.PointerPosition()
		w.menu.SetPosition(roundToInt(x), roundToInt(y))
		w.RaiseToTop(w.menu)
	}
	w.menu.SetVisible(open)
}

// MenuOpen reports whether the window menu is shown.
func (w *Window) MenuOpen() bool {
	return w.menu != nil && w.menu.Visible()
}

// PointerButton activates and raises the window on a press, then passes
// the event on.
func (w *Window) PointerButton(ev ButtonEvent) bool {
	if ev.Type == ButtonDown && w.workspace != nil {
		w.workspace.ActivateWindow(w)
		w.workspace.RaiseWindow(w)
	}
	return w.Container.PointerButton(ev)
}
