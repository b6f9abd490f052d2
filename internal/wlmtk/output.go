package wlmtk

import "math"

// Output is a named screen area in layout coordinates.
type Output struct {
	Name string
	Box  Box
}

// OutputLayout provides the outputs windows are placed on.
type OutputLayout interface {
	Outputs() []Output
	// NearestOutput returns the output closest to the point.
	NearestOutput(x, y int) (Output, bool)
}

// StaticOutputLayout is an OutputLayout over a fixed list of outputs.
type StaticOutputLayout []Output

func (l StaticOutputLayout) Outputs() []Output {
	return append([]Output(nil), l...)
}

func (l StaticOutputLayout) NearestOutput(x, y int) (Output, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, o := range l {
		if o.Box.Empty() {
			continue
		}
		if _, _, d := o.Box.closestPoint(x, y); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Output{}, false
	}
	return l[best], true
}

// Output returns the output of the given name.
func (l StaticOutputLayout) Output(name string) (Output, bool) {
	for _, o := range l {
		if o.Name == name {
			return o, true
		}
	}
	return Output{}, false
}

// Extents is the union of all outputs.
func (l StaticOutputLayout) Extents() Box {
	var box Box
	for _, o := range l {
		box = box.Union(o.Box)
	}
	return box
}

func findOutput(layout OutputLayout, name string) (Output, bool) {
	for _, o := range layout.Outputs() {
		if o.Name == name {
			return o, true
		}
	}
	return Output{}, false
}
