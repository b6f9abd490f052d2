package wlmtk

import "testing"

func TestLayer_ExclusiveZonesStack(t *testing.T) {
	l := NewLayer(LayerTop)
	out := Output{Name: "DP-1", Box: Box{X: 0, Y: 0, Width: 800, Height: 600}}
	l.SetOutputs([]Output{out})

	bottom := NewSimplePanel("bar", PanelPositioning{
		Anchor:        EdgeBottom | EdgeLeft | EdgeRight,
		ExclusiveZone: 20,
		Height:        20,
	}, 0)
	left := NewSimplePanel("dock", PanelPositioning{
		Anchor:        EdgeLeft,
		ExclusiveZone: 64,
		Width:         64,
		Height:        200,
		Margin:        Margins{Left: 4},
	}, 0)
	if !l.AddPanel(bottom, "DP-1") || !l.AddPanel(left, "DP-1") {
		t.Fatalf("AddPanel() = false")
	}

	if x, y := bottom.Position(); x != 0 || y != 580 {
		t.Fatalf("bottom panel at (%d,%d), want (0,580)", x, y)
	}
	// Vertically centered within what the bottom bar left over.
	if x, y := left.Position(); x != 4 || y != 190 {
		t.Fatalf("left panel at (%d,%d), want (4,190)", x, y)
	}
	usable, ok := l.UsableArea("DP-1")
	if !ok {
		t.Fatalf("UsableArea() missing")
	}
	if want := (Box{X: 68, Y: 0, Width: 732, Height: 580}); usable != want {
		t.Fatalf("UsableArea() = %+v, want %+v", usable, want)
	}
}

func TestLayer_UnknownOutputAndRemoval(t *testing.T) {
	l := NewLayer(LayerOverlay)
	l.SetOutputs([]Output{{Name: "A", Box: Box{Width: 100, Height: 100}}})

	p := NewSimplePanel("p", PanelPositioning{Anchor: EdgeTop, ExclusiveZone: 10, Height: 10, Width: 50}, 0)
	if l.AddPanel(p, "B") {
		t.Fatalf("AddPanel() on unknown output = true")
	}
	if p.Parent() != nil {
		t.Fatalf("rejected panel got a parent")
	}

	l.AddPanel(p, "A")
	if x, _ := p.Position(); x != 25 {
		t.Fatalf("top-anchored panel x = %d, want centered 25", x)
	}
	l.RemovePanel(p)
	if usable, _ := l.UsableArea("A"); usable.Y != 0 {
		t.Fatalf("UsableArea() = %+v still reserves the removed panel", usable)
	}
}

func TestLayer_SetOutputsDropsPanels(t *testing.T) {
	l := NewLayer(LayerBottom)
	l.SetOutputs([]Output{
		{Name: "A", Box: Box{Width: 100, Height: 100}},
		{Name: "B", Box: Box{X: 100, Width: 100, Height: 100}},
	})
	p := NewSimplePanel("p", PanelPositioning{Anchor: EdgeRight, Width: 10, Height: 10}, 0)
	l.AddPanel(p, "B")
	if x, _ := p.Position(); x != 190 {
		t.Fatalf("right-anchored panel x = %d, want 190", x)
	}

	dropped := l.SetOutputs([]Output{{Name: "A", Box: Box{Width: 100, Height: 100}}})
	if len(dropped) != 1 || dropped[0] != p {
		t.Fatalf("SetOutputs() dropped %v, want [p]", dropped)
	}
	if p.Parent() != nil {
		t.Fatalf("dropped panel still attached")
	}
}
