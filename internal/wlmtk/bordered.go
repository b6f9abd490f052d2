package wlmtk

// Bordered surrounds a single element with a border of uniform width.
type Bordered struct {
	Container
	inner Element
	style MarginStyle

	top    *Rectangle
	bottom *Rectangle
	left   *Rectangle
	right  *Rectangle
}

func NewBordered(inner Element, style MarginStyle) *Bordered {
	b := &Bordered{style: style}
	b.InitContainer(b)
	b.top = NewRectangle(0, 0, style.Color)
	b.bottom = NewRectangle(0, 0, style.Color)
	b.left = NewRectangle(0, 0, style.Color)
	b.right = NewRectangle(0, 0, style.Color)
	b.AddElement(inner)
	b.inner = inner
	for _, r := range []*Rectangle{b.top, b.bottom, b.left, b.right} {
		b.AddElement(r)
	}
	return b
}

// SetStyle changes width and colour of the border. Width zero hides it.
func (b *Bordered) SetStyle(style MarginStyle) {
	b.style = style
	for _, r := range []*Rectangle{b.top, b.bottom, b.left, b.right} {
		r.SetColor(style.Color)
	}
	b.UpdateLayout()
}

func (b *Bordered) Style() MarginStyle {
	return b.style
}

func (b *Bordered) UpdateLayout() {
	b.layout()
	b.Container.UpdateLayout()
}

func (b *Bordered) layout() {
	if b.inner == nil {
		return
	}
	w := b.style.Width
	d := b.inner.Dimensions()
	b.inner.SetPosition(w-d.X, w-d.Y)

	b.top.SetSize(d.Width+2*w, w)
	b.top.SetPosition(0, 0)
	b.bottom.SetSize(d.Width+2*w, w)
	b.bottom.SetPosition(0, w+d.Height)
	b.left.SetSize(w, d.Height)
	b.left.SetPosition(0, w)
	b.right.SetSize(w, d.Height)
	b.right.SetPosition(w+d.Width, w)
	for _, r := range []*Rectangle{b.top, b.bottom, b.left, b.right} {
		r.SetVisible(w > 0)
	}
}

// Destroy detaches the inner element and drops the border.
func (b *Bordered) Destroy() {
	for _, e := range b.Elements() {
		b.RemoveElement(e)
	}
	b.inner = nil
	b.Fini()
}
