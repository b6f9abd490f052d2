package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
)

func TestInsetsAdd_OnlyOverlappingStruts(t *testing.T) {
	root := region{x2: 3200, y2: 1080}
	left := Monitor{Width: 1920, Height: 1080}
	right := Monitor{X: 1920, Width: 1280, Height: 800}

	// A 30px top bar spanning only the left monitor.
	sp := &ewmh.WmStrutPartial{Top: 30, TopStartX: 0, TopEndX: 1919}

	if got := (insets{}).add(left, root, sp); got.top != 30 {
		t.Fatalf("expected top inset 30 on left monitor, got %+v", got)
	}
	if got := (insets{}).add(right, root, sp); !got.zero() {
		t.Fatalf("expected no inset on right monitor, got %+v", got)
	}
}

func TestInsetsAdd_RightDock(t *testing.T) {
	root := region{x2: 1280, y2: 800}
	mon := Monitor{Width: 1280, Height: 800}
	sp := &ewmh.WmStrutPartial{Right: 64, RightStartY: 0, RightEndY: 799}

	in := (insets{}).add(mon, root, sp)
	if in.right != 64 {
		t.Fatalf("expected right inset 64, got %+v", in)
	}
	usable := in.apply(mon)
	if usable.Width != 1216 || usable.X != 0 {
		t.Fatalf("expected 1216 wide usable area, got %+v", usable)
	}
}

func TestFullStrutSpansRoot(t *testing.T) {
	root := region{x2: 1920, y2: 1080}
	sp := fullStrut(&ewmh.WmStrut{Bottom: 40}, root)
	if sp.BottomEndX != 1919 || sp.Bottom != 40 {
		t.Fatalf("unexpected strut %+v", sp)
	}
	in := (insets{}).add(Monitor{Width: 1920, Height: 1080}, root, sp)
	if in.bottom != 40 {
		t.Fatalf("expected bottom inset 40, got %+v", in)
	}
}

func TestRegionIntersect(t *testing.T) {
	got := region{x2: 100, y2: 100}.intersect(region{x1: 50, y1: 50, x2: 200, y2: 200})
	if got.width() != 50 || got.height() != 50 {
		t.Fatalf("expected 50x50, got %dx%d", got.width(), got.height())
	}
	if !(region{x2: 10, y2: 10}).intersect(region{x1: 10, x2: 20, y2: 10}).empty() {
		t.Fatalf("expected touching regions not to intersect")
	}
}
