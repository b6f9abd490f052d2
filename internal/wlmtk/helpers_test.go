package wlmtk

import "testing"

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	fn()
}

// testStyle has border 2, margin 1, titlebar 10 and resizebar 5, so a
// decorated resizable window adds 4x21 to its content.
func testStyle() WindowStyle {
	s := DefaultWindowStyle()
	s.Border.Width = 2
	s.Margin.Width = 1
	s.Titlebar.Height = 10
	s.Resizebar.Height = 5
	s.Resizebar.CornerWidth = 3
	return s
}

func newTestWindow(width, height int) (*Window, *SimpleContent) {
	content := NewSimpleContent(width, height)
	return NewWindow(content, testStyle(), DefaultMenuStyle(), nil), content
}

func newTestWorkspace() *Workspace {
	ws := NewWorkspace("main", 0)
	ws.SetExtents(Box{Width: 1024, Height: 768})
	return ws
}
