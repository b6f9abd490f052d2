package wlmtk

import "slices"

// ContainerElement is an Element that holds child elements.
type ContainerElement interface {
	Element
	container() *Container

	// UpdateLayout is called whenever a child's dimensions may have
	// changed. The default propagates to the parent.
	UpdateLayout()
}

// Container is the embeddable base of elements holding children. Children
// are ordered back to front.
type Container struct {
	Elem
	cself ContainerElement

	elements      []Element
	pointerFocus  Element
	keyboardFocus Element
}

// NewContainer returns a plain container.
func NewContainer() *Container {
	c := &Container{}
	c.InitContainer(c)
	return c
}

// InitContainer binds the base to the outer container.
func (c *Container) InitContainer(self ContainerElement) {
	c.InitElement(self)
	c.cself = self
}

func (c *Container) container() *Container {
	return c
}

// Fini panics if the container still holds children.
func (c *Container) Fini() {
	if len(c.elements) > 0 {
		panic("wlmtk: container still holds elements")
	}
	c.pointerFocus = nil
	c.keyboardFocus = nil
}

// AddElement puts e on top of all other children.
func (c *Container) AddElement(e Element) {
	c.insert(len(c.elements), e)
}

// AddElementAtop puts e directly above reference, or on top if reference
// is nil.
func (c *Container) AddElementAtop(reference, e Element) {
	if reference == nil {
		c.insert(len(c.elements), e)
		return
	}
	c.insert(c.mustIndex(reference)+1, e)
}

// AddElementBelow puts e directly below reference, or at the bottom if
// reference is nil.
func (c *Container) AddElementBelow(reference, e Element) {
	if reference == nil {
		c.insert(0, e)
		return
	}
	c.insert(c.mustIndex(reference), e)
}

func (c *Container) insert(idx int, e Element) {
	b := e.base()
	if b.parent != nil {
		panic("wlmtk: element already has a parent")
	}
	c.elements = slices.Insert(c.elements, idx, e)
	b.parent = c.cself
	c.cself.UpdateLayout()
}

// RemoveElement detaches e. Panics if e is not a child.
func (c *Container) RemoveElement(e Element) {
	idx := c.mustIndex(e)
	if c.pointerFocus == e {
		c.pointerFocus = nil
		e.PointerLeave()
	}
	if c.keyboardFocus == e {
		c.keyboardFocus = nil
	}
	c.elements = slices.Delete(c.elements, idx, idx+1)
	e.base().parent = nil
	c.cself.UpdateLayout()
}

// RaiseToTop moves e above all other children.
func (c *Container) RaiseToTop(e Element) {
	idx := c.mustIndex(e)
	if idx == len(c.elements)-1 {
		return
	}
	c.elements = slices.Delete(c.elements, idx, idx+1)
	c.elements = append(c.elements, e)
}

// Elements returns the children, back to front.
func (c *Container) Elements() []Element {
	return slices.Clone(c.elements)
}

// Contains reports whether e is a direct child.
func (c *Container) Contains(e Element) bool {
	return slices.Contains(c.elements, e)
}

func (c *Container) mustIndex(e Element) int {
	idx := slices.Index(c.elements, e)
	if idx < 0 {
		panic("wlmtk: element is not a child of this container")
	}
	return idx
}

// PointerFocus returns the child currently holding pointer focus.
func (c *Container) PointerFocus() Element {
	return c.pointerFocus
}

// KeyboardFocus returns the child currently holding keyboard focus.
func (c *Container) KeyboardFocus() Element {
	return c.keyboardFocus
}

// SetKeyboardFocus gives keyboard focus to the child e and claims focus
// for this container in all ancestors. A nil e clears the focus.
func (c *Container) SetKeyboardFocus(e Element) {
	if e != nil {
		c.mustIndex(e)
	}
	c.keyboardFocus = e
	if e != nil && c.parent != nil {
		c.parent.container().SetKeyboardFocus(c.cself)
	}
}

// UpdateLayout propagates to the parent.
func (c *Container) UpdateLayout() {
	if c.parent != nil {
		c.parent.UpdateLayout()
	}
}

// Dimensions is the union of all visible children's boxes.
func (c *Container) Dimensions() Box {
	var box Box
	for _, e := range c.elements {
		if !e.Visible() {
			continue
		}
		x, y := e.Position()
		box = box.Union(e.Dimensions().Translate(x, y))
	}
	return box
}

// PointerMotion passes the event to the topmost visible child containing
// the pointer and accepting it. That child gets pointer focus.
func (c *Container) PointerMotion(ev PointerMotionEvent) bool {
	c.Elem.PointerMotion(ev)
	for i := len(c.elements) - 1; i >= 0; i-- {
		e := c.elements[i]
		if !e.Visible() {
			continue
		}
		x, y := e.Position()
		if !e.Dimensions().Translate(x, y).Contains(ev.X, ev.Y) {
			continue
		}
		if e.PointerMotion(ev.translate(x, y)) {
			c.setPointerFocus(e)
			return true
		}
	}
	c.setPointerFocus(nil)
	return false
}

func (c *Container) setPointerFocus(e Element) {
	if c.pointerFocus == e {
		return
	}
	old := c.pointerFocus
	c.pointerFocus = e
	if old != nil {
		old.PointerLeave()
	}
}

func (c *Container) PointerButton(ev ButtonEvent) bool {
	if c.pointerFocus == nil || !c.pointerFocus.Visible() {
		return false
	}
	return c.pointerFocus.PointerButton(ev)
}

func (c *Container) PointerAxis(ev AxisEvent) bool {
	if c.pointerFocus == nil || !c.pointerFocus.Visible() {
		return false
	}
	return c.pointerFocus.PointerAxis(ev)
}

func (c *Container) PointerLeave() {
	c.Elem.PointerLeave()
	c.setPointerFocus(nil)
}

func (c *Container) KeyboardEvent(ev KeyEvent) bool {
	if c.keyboardFocus == nil {
		return false
	}
	return c.keyboardFocus.KeyboardEvent(ev)
}
