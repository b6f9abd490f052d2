package wlmtk

// Rectangle is a solid area of one colour.
type Rectangle struct {
	Elem
	width  int
	height int
	color  Color
}

func NewRectangle(width, height int, color Color) *Rectangle {
	r := &Rectangle{width: width, height: height, color: color}
	r.InitElement(r)
	return r
}

// SetSize changes the size. It does not trigger a parent layout update.
func (r *Rectangle) SetSize(width, height int) {
	r.width, r.height = width, height
}

func (r *Rectangle) Size() (int, int) {
	return r.width, r.height
}

func (r *Rectangle) SetColor(color Color) {
	r.color = color
}

func (r *Rectangle) Color() Color {
	return r.color
}

func (r *Rectangle) Dimensions() Box {
	return Box{Width: r.width, Height: r.height}
}
