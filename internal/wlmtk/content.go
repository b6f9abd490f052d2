package wlmtk

// Content is what a Window wraps: typically a client surface.
type Content interface {
	Element

	// RequestSize asks the content to take the given size. The content
	// commits it, possibly later, and then updates its parent's layout.
	RequestSize(width, height int)
	SetActivated(activated bool)
	RequestClose()
}

// SimpleContent is a Content that commits size requests immediately.
type SimpleContent struct {
	Elem
	width     int
	height    int
	activated bool

	// CloseRequested fires when the window asks the content to close.
	CloseRequested Signal[struct{}]
	// Key fires for every keyboard event delivered to the content.
	Key Signal[KeyEvent]
}

func NewSimpleContent(width, height int) *SimpleContent {
	c := &SimpleContent{width: width, height: height}
	c.InitElement(c)
	return c
}

func (c *SimpleContent) RequestSize(width, height int) {
	c.width, c.height = max(width, 0), max(height, 0)
	if p := c.Parent(); p != nil {
		p.UpdateLayout()
	}
}

func (c *SimpleContent) Size() (int, int) {
	return c.width, c.height
}

func (c *SimpleContent) Dimensions() Box {
	return Box{Width: c.width, Height: c.height}
}

func (c *SimpleContent) SetActivated(activated bool) {
	c.activated = activated
}

func (c *SimpleContent) Activated() bool {
	return c.activated
}

func (c *SimpleContent) RequestClose() {
	c.CloseRequested.Emit(struct{}{})
}

func (c *SimpleContent) PointerMotion(ev PointerMotionEvent) bool {
	c.Elem.PointerMotion(ev)
	return true
}

func (c *SimpleContent) PointerButton(ButtonEvent) bool { return true }

func (c *SimpleContent) PointerAxis(AxisEvent) bool { return true }

func (c *SimpleContent) KeyboardEvent(ev KeyEvent) bool {
	c.Key.Emit(ev)
	return true
}
