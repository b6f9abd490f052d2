package wlmtk

// Menu is a vertical list of items.
type Menu struct {
	LayoutBox
	style    MenuStyle
	renderer Renderer
	items    []*MenuItem
}

func NewMenu(style MenuStyle, renderer Renderer) *Menu {
	m := &Menu{style: style, renderer: renderer}
	m.orientation = Vertical
	m.InitContainer(m)
	return m
}

// AddItem appends an item labelled text running action when clicked.
func (m *Menu) AddItem(text string, action func()) *MenuItem {
	item := &MenuItem{menu: m, text: text, enabled: true, action: action}
	item.initBufferElement(item, nil)
	item.redraw()
	m.items = append(m.items, item)
	m.AddElement(item)
	return item
}

func (m *Menu) Items() []*MenuItem {
	return append([]*MenuItem(nil), m.items...)
}

// UpdateLayout stacks the items but does not propagate: an open menu
// does not resize its owner.
func (m *Menu) UpdateLayout() {
	m.layout()
}

func (m *Menu) Destroy() {
	for _, e := range m.Elements() {
		m.RemoveElement(e)
	}
	m.items = nil
	m.Fini()
}

// MenuItem is one entry of a Menu.
type MenuItem struct {
	BufferElement
	menu        *Menu
	text        string
	enabled     bool
	highlighted bool
	action      func()
}

func (i *MenuItem) Text() string {
	return i.text
}

func (i *MenuItem) SetText(text string) {
	if i.text == text {
		return
	}
	i.text = text
	i.redraw()
}

func (i *MenuItem) Enabled() bool {
	return i.enabled
}

func (i *MenuItem) SetEnabled(enabled bool) {
	if i.enabled == enabled {
		return
	}
	i.enabled = enabled
	i.redraw()
}

func (i *MenuItem) redraw() {
	s := i.menu.style
	req := BufferRequest{
		Kind:       BufferMenuItem,
		Width:      s.ItemWidth,
		Height:     s.ItemHeight,
		Label:      i.text,
		Fill:       s.Fill,
		TextColor:  s.EnabledTextColor,
		BezelWidth: s.BezelWidth,
	}
	switch {
	case !i.enabled:
		req.State = StateDisabled
		req.TextColor = s.DisabledTextColor
	case i.highlighted:
		req.State = StateHighlighted
		req.Fill = s.HighlightedFill
		req.TextColor = s.HighlightedTextColor
	}
	i.SetBuffer(renderBuffer(i.menu.renderer, req))
}

func (i *MenuItem) PointerMotion(ev PointerMotionEvent) bool {
	i.BufferElement.PointerMotion(ev)
	if !i.highlighted {
		i.highlighted = true
		i.redraw()
	}
	return true
}

func (i *MenuItem) PointerLeave() {
	i.BufferElement.PointerLeave()
	if i.highlighted {
		i.highlighted = false
		i.redraw()
	}
}

// PointerButton runs the action on a left click of an enabled item.
func (i *MenuItem) PointerButton(ev ButtonEvent) bool {
	if ev.Type == ButtonClick && ev.Button == ButtonLeft && i.enabled && i.action != nil {
		i.action()
	}
	return true
}
