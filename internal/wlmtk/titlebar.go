package wlmtk

// Titlebar shows the window title plus optional minimize and close buttons.
type Titlebar struct {
	Container
	window   *Window
	style    TitlebarStyle
	renderer Renderer

	title    *titlebarTitle
	minimize *titlebarButton
	close    *titlebarButton

	width      int
	activated  bool
	text       string
	properties Properties
}

func newTitlebar(window *Window, style TitlebarStyle, renderer Renderer) *Titlebar {
	t := &Titlebar{
		window:     window,
		style:      style,
		renderer:   renderer,
		text:       window.Title(),
		activated:  window.Activated(),
		properties: window.Properties(),
	}
	t.InitContainer(t)

	t.title = &titlebarTitle{titlebar: t}
	t.title.initBufferElement(t.title, nil)
	t.AddElement(t.title)

	t.minimize = newTitlebarButton(t, BufferButtonMinimize, window.RequestMinimize)
	t.AddElement(t.minimize)
	t.close = newTitlebarButton(t, BufferButtonClose, window.RequestClose)
	t.AddElement(t.close)

	t.redraw()
	return t
}

// Destroy detaches the title bar's parts.
func (t *Titlebar) Destroy() {
	for _, e := range t.Elements() {
		t.RemoveElement(e)
	}
	t.window = nil
	t.Fini()
}

// UpdateLayout keeps title bar changes local; the window drives the width.
func (t *Titlebar) UpdateLayout() {}

func (t *Titlebar) SetWidth(width int) {
	if t.width == width {
		return
	}
	t.width = width
	t.redraw()
}

func (t *Titlebar) SetActivated(activated bool) {
	if t.activated == activated {
		return
	}
	t.activated = activated
	t.redraw()
}

func (t *Titlebar) SetTitle(title string) {
	if t.text == title {
		return
	}
	t.text = title
	t.redraw()
}

func (t *Titlebar) SetProperties(p Properties) {
	if t.properties == p {
		return
	}
	t.properties = p
	t.redraw()
}

// SetStyle replaces the style and redraws.
func (t *Titlebar) SetStyle(style TitlebarStyle) {
	t.style = style
	t.redraw()
}

func (t *Titlebar) Height() int {
	return t.style.Height
}

func (t *Titlebar) redraw() {
	h := t.style.Height
	x := 0
	titleWidth := t.width

	t.minimize.SetVisible(t.properties&PropertyIconifiable != 0)
	if t.minimize.Visible() {
		t.minimize.resize(h)
		t.minimize.SetPosition(0, 0)
		x = h
		titleWidth -= h
	}
	t.close.SetVisible(t.properties&PropertyClosable != 0)
	if t.close.Visible() {
		t.close.resize(h)
		t.close.SetPosition(t.width-h, 0)
		titleWidth -= h
	}

	req := BufferRequest{
		Kind:       BufferTitle,
		Width:      max(titleWidth, 0),
		Height:     h,
		Label:      t.text,
		BezelWidth: t.style.BezelWidth,
		Fill:       t.style.BlurredFill,
		TextColor:  t.style.BlurredTextColor,
	}
	if t.activated {
		req.State = StateFocused
		req.Fill = t.style.FocusedFill
		req.TextColor = t.style.FocusedTextColor
	}
	t.title.SetBuffer(renderBuffer(t.renderer, req))
	t.title.SetPosition(x, 0)
}

// titlebarTitle is the title area. Pressing it starts a move.
type titlebarTitle struct {
	BufferElement
	titlebar *Titlebar
}

func (tt *titlebarTitle) PointerButton(ev ButtonEvent) bool {
	w := tt.titlebar.window
	if w == nil || ev.Type != ButtonDown {
		return true
	}
	switch ev.Button {
	case ButtonLeft:
		w.RequestMove()
	case ButtonRight:
		if w.Properties()&PropertyRightClick != 0 {
			w.RequestMenu(true)
		}
	}
	return true
}

// titlebarButton triggers its action on a left click.
type titlebarButton struct {
	BufferElement
	titlebar *Titlebar
	kind     BufferKind
	action   func()
	size     int
	pressed  bool
}

func newTitlebarButton(t *Titlebar, kind BufferKind, action func()) *titlebarButton {
	b := &titlebarButton{titlebar: t, kind: kind, action: action}
	b.initBufferElement(b, nil)
	return b
}

func (b *titlebarButton) resize(size int) {
	b.size = size
	b.redraw()
}

func (b *titlebarButton) redraw() {
	t := b.titlebar
	req := BufferRequest{
		Kind:       b.kind,
		Width:      b.size,
		Height:     b.size,
		BezelWidth: t.style.BezelWidth,
		Fill:       t.style.BlurredFill,
		TextColor:  t.style.BlurredTextColor,
	}
	if t.activated {
		req.State = StateFocused
		req.Fill = t.style.FocusedFill
		req.TextColor = t.style.FocusedTextColor
	}
	if b.pressed {
		req.State = StatePressed
	}
	b.SetBuffer(renderBuffer(t.renderer, req))
}

func (b *titlebarButton) setPressed(pressed bool) {
	if b.pressed == pressed {
		return
	}
	b.pressed = pressed
	b.redraw()
}

func (b *titlebarButton) PointerButton(ev ButtonEvent) bool {
	if ev.Button != ButtonLeft {
		return true
	}
	switch ev.Type {
	case ButtonDown:
		b.setPressed(true)
	case ButtonUp:
		b.setPressed(false)
	case ButtonClick:
		if b.action != nil {
			b.action()
		}
	}
	return true
}

func (b *titlebarButton) PointerLeave() {
	b.BufferElement.PointerLeave()
	b.setPressed(false)
}
