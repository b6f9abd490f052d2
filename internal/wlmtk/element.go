package wlmtk

// Element is a positionable, visible node of the toolkit tree that may
// receive input.
//
// Concrete elements embed Elem (or Container) and call InitElement with
// themselves, so that calls made by the embedded base dispatch to the
// outer type's methods.
type Element interface {
	base() *Elem

	Position() (int, int)
	SetPosition(x, y int)
	Visible() bool
	SetVisible(visible bool)
	Parent() ContainerElement

	// Dimensions returns the element's bounding box relative to its own
	// position.
	Dimensions() Box

	// PointerMotion reports whether the element accepts the pointer at
	// the event's coordinates, given relative to the element's position.
	PointerMotion(ev PointerMotionEvent) bool
	PointerButton(ev ButtonEvent) bool
	PointerAxis(ev AxisEvent) bool
	PointerLeave()
	KeyboardEvent(ev KeyEvent) bool
}

// Elem is the embeddable base of all elements.
type Elem struct {
	self    Element
	parent  ContainerElement
	x, y    int
	visible bool

	pointerX      float64
	pointerY      float64
	pointerInside bool
}

// InitElement binds the base to the outer element. Elements start out
// visible.
func (e *Elem) InitElement(self Element) {
	e.self = self
	e.visible = true
}

func (e *Elem) base() *Elem {
	return e
}

// Position returns the position relative to the parent.
func (e *Elem) Position() (int, int) {
	return e.x, e.y
}

// SetPosition sets the position relative to the parent.
func (e *Elem) SetPosition(x, y int) {
	e.x, e.y = x, y
}

// Visible reports whether the element is shown.
func (e *Elem) Visible() bool {
	return e.visible
}

// SetVisible shows or hides the element. A hidden element does not take
// part in its parent's dimensions and receives no pointer input.
func (e *Elem) SetVisible(visible bool) {
	e.visible = visible
	if !visible && e.pointerInside {
		e.self.PointerLeave()
	}
}

// Parent returns the container holding the element, or nil.
func (e *Elem) Parent() ContainerElement {
	return e.parent
}

// Dimensions of the bare base are empty.
func (e *Elem) Dimensions() Box {
	return Box{}
}

// PointerMotion records the pointer position. The base declines the pointer.
func (e *Elem) PointerMotion(ev PointerMotionEvent) bool {
	e.pointerX, e.pointerY = ev.X, ev.Y
	e.pointerInside = true
	return false
}

// PointerPosition returns the last pointer position seen by the element.
func (e *Elem) PointerPosition() (float64, float64) {
	return e.pointerX, e.pointerY
}

// PointerInside reports whether the pointer is currently over the element.
func (e *Elem) PointerInside() bool {
	return e.pointerInside
}

func (e *Elem) PointerButton(ButtonEvent) bool { return false }

func (e *Elem) PointerAxis(AxisEvent) bool { return false }

func (e *Elem) PointerLeave() {
	e.pointerInside = false
}

func (e *Elem) KeyboardEvent(KeyEvent) bool { return false }

// absolutePosition sums up positions up to the topmost ancestor.
func absolutePosition(e Element) (int, int) {
	x, y := e.Position()
	for p := e.Parent(); p != nil; p = p.Parent() {
		px, py := p.Position()
		x += px
		y += py
	}
	return x, y
}
