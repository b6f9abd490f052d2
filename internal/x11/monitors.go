package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor is a RandR output with an active CRTC.
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

func (m Monitor) region() region {
	return region{x1: m.X, y1: m.Y, x2: m.X + m.Width, y2: m.Y + m.Height}
}

// region is a half-open rectangle [x1,x2) x [y1,y2).
type region struct {
	x1, y1, x2, y2 int
}

func (r region) empty() bool { return r.x2 <= r.x1 || r.y2 <= r.y1 }

func (r region) intersect(o region) region {
	out := region{
		x1: max(r.x1, o.x1), y1: max(r.y1, o.y1),
		x2: min(r.x2, o.x2), y2: min(r.y2, o.y2),
	}
	if out.empty() {
		return region{}
	}
	return out
}

func (r region) width() int  { return r.x2 - r.x1 }
func (r region) height() int { return r.y2 - r.y1 }

// Monitors lists the active monitors using RandR.
func (c *Connection) Monitors() ([]Monitor, error) {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	resources, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		name := fmt.Sprintf("X11-%d", i)
		if out, err := randr.GetOutputInfo(conn, info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}
		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	return monitors, nil
}

// Usable shrinks the monitor by the struts of dock windows other clients
// placed on it, or else by the EWMH work area.
func (c *Connection) Usable(m Monitor) Monitor {
	if in, ok := c.dockInsets(m); ok {
		return in.apply(m)
	}
	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return m
	}
	desktop := 0
	if cur, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(cur) < len(workArea) {
		desktop = int(cur)
	}
	wa := workArea[desktop]
	r := m.region().intersect(region{x1: wa.X, y1: wa.Y, x2: wa.X + int(wa.Width), y2: wa.Y + int(wa.Height)})
	if r.empty() {
		return m
	}
	m.X, m.Y, m.Width, m.Height = r.x1, r.y1, r.width(), r.height()
	return m
}

// insets are the widths reserved at each monitor edge.
type insets struct {
	left, right, top, bottom int
}

func (in insets) zero() bool { return in == insets{} }

func (in insets) apply(m Monitor) Monitor {
	m.X += in.left
	m.Y += in.top
	m.Width = max(1, m.Width-in.left-in.right)
	m.Height = max(1, m.Height-in.top-in.bottom)
	return m
}

// dockInsets collects the struts of all dock windows overlapping m.
func (c *Connection) dockInsets(m Monitor) (insets, bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return insets{}, false
	}
	root := region{x2: int(geom.Width), y2: int(geom.Height)}

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return insets{}, false
	}

	var acc insets
	for _, win := range clients {
		if !isDock(c, win) {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			acc = acc.add(m, root, sp)
		} else if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			acc = acc.add(m, root, fullStrut(s, root))
		}
	}
	return acc, !acc.zero()
}

func isDock(c *Connection, win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

// fullStrut widens a legacy _NET_WM_STRUT to span the whole root edge.
func fullStrut(s *ewmh.WmStrut, root region) *ewmh.WmStrutPartial {
	w, h := uint(root.width()-1), uint(root.height()-1)
	return &ewmh.WmStrutPartial{
		Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
		LeftEndY: h, RightEndY: h, TopEndX: w, BottomEndX: w,
	}
}

// add grows acc by the part of each strut in sp that overlaps m.
func (acc insets) add(m Monitor, root region, sp *ewmh.WmStrutPartial) insets {
	mon := m.region()
	if sp.Top > 0 {
		r := mon.intersect(region{x1: int(sp.TopStartX), x2: int(sp.TopEndX) + 1, y2: int(sp.Top)})
		acc.top = max(acc.top, r.height())
	}
	if sp.Bottom > 0 {
		r := mon.intersect(region{x1: int(sp.BottomStartX), x2: int(sp.BottomEndX) + 1, y1: root.y2 - int(sp.Bottom), y2: root.y2})
		acc.bottom = max(acc.bottom, r.height())
	}
	if sp.Left > 0 {
		r := mon.intersect(region{x2: int(sp.Left), y1: int(sp.LeftStartY), y2: int(sp.LeftEndY) + 1})
		acc.left = max(acc.left, r.width())
	}
	if sp.Right > 0 {
		r := mon.intersect(region{x1: root.x2 - int(sp.Right), x2: root.x2, y1: int(sp.RightStartY), y2: int(sp.RightEndY) + 1})
		acc.right = max(acc.right, r.width())
	}
	return acc
}
