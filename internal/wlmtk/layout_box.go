package wlmtk

// Orientation is the stacking direction of a LayoutBox.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// LayoutBox stacks its visible children along one axis, separated by a
// margin.
type LayoutBox struct {
	Container
	orientation Orientation
	margin      MarginStyle
}

func NewLayoutBox(orientation Orientation, margin MarginStyle) *LayoutBox {
	b := &LayoutBox{orientation: orientation, margin: margin}
	b.InitContainer(b)
	return b
}

// SetMargin changes the margin and re-lays out the children.
func (b *LayoutBox) SetMargin(margin MarginStyle) {
	b.margin = margin
	b.UpdateLayout()
}

// UpdateLayout positions the children and propagates to the parent.
func (b *LayoutBox) UpdateLayout() {
	b.layout()
	b.Container.UpdateLayout()
}

func (b *LayoutBox) layout() {
	pos := 0
	first := true
	for _, e := range b.elements {
		if !e.Visible() {
			continue
		}
		if !first {
			pos += b.margin.Width
		}
		first = false
		d := e.Dimensions()
		if b.orientation == Horizontal {
			e.SetPosition(pos-d.X, -d.Y)
			pos += d.Width
		} else {
			e.SetPosition(-d.X, pos-d.Y)
			pos += d.Height
		}
	}
}

// Destroy detaches all children without destroying them.
func (b *LayoutBox) Destroy() {
	for _, e := range b.Elements() {
		b.RemoveElement(e)
	}
	b.Fini()
}
