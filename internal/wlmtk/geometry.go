package wlmtk

import "math"

// Box is an axis-aligned rectangle.
type Box struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Empty reports whether the box covers no area.
func (b Box) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Contains reports whether the point lies within the box. The right and
// bottom edges are exclusive.
func (b Box) Contains(x, y float64) bool {
	return float64(b.X) <= x && x < float64(b.X+b.Width) &&
		float64(b.Y) <= y && y < float64(b.Y+b.Height)
}

// Union returns the smallest box covering both boxes. Empty boxes are ignored.
func (b Box) Union(o Box) Box {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	x1 := min(b.X, o.X)
	y1 := min(b.Y, o.Y)
	x2 := max(b.X+b.Width, o.X+o.Width)
	y2 := max(b.Y+b.Height, o.Y+o.Height)
	return Box{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Intersect returns the overlap of both boxes, or the zero Box.
func (b Box) Intersect(o Box) Box {
	x1 := max(b.X, o.X)
	y1 := max(b.Y, o.Y)
	x2 := min(b.X+b.Width, o.X+o.Width)
	y2 := min(b.Y+b.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Box{}
	}
	return Box{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Translate returns the box moved by (dx, dy).
func (b Box) Translate(dx, dy int) Box {
	b.X += dx
	b.Y += dy
	return b
}

// Center returns the center point of the box.
func (b Box) Center() (int, int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// closestPoint clamps (x, y) into the box and returns the squared distance.
func (b Box) closestPoint(x, y int) (int, int, float64) {
	cx := min(max(x, b.X), b.X+max(b.Width-1, 0))
	cy := min(max(y, b.Y), b.Y+max(b.Height-1, 0))
	dx, dy := float64(cx-x), float64(cy-y)
	return cx, cy, dx*dx + dy*dy
}

// Edges is a bitset of window edges, matching wlroots' enum wlr_edges.
type Edges uint32

const (
	EdgeNone   Edges = 0
	EdgeTop    Edges = 1
	EdgeBottom Edges = 2
	EdgeLeft   Edges = 4
	EdgeRight  Edges = 8
)

func roundToInt(v float64) int {
	return int(math.Round(v))
}
