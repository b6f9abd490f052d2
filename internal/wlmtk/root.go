package wlmtk

import (
	"log/slog"
	"slices"
)

// RootEvents are emitted by the Root.
type RootEvents struct {
	WorkspaceChanged Signal[*Workspace]
	WindowMapped     Signal[*Window]
	WindowUnmapped   Signal[*Window]
	Unlocked         Signal[struct{}]
}

// Root is the top of the element tree. It holds the workspaces, of which
// one is current, and routes input either to them or, while locked, to
// the lock element only.
type Root struct {
	Container
	workspaces []*Workspace
	current    *Workspace
	curtain    *Rectangle
	lock       Element
	locked     bool
	extents    Box

	// Set between a button press and its release. Different buttons are
	// not kept apart.
	buttonPressed bool

	events RootEvents
}

// CurtainColor is the colour of the curtain shown while locked.
const CurtainColor Color = 0xff000000

func NewRoot() *Root {
	r := &Root{}
	r.InitContainer(r)
	r.curtain = NewRectangle(0, 0, CurtainColor)
	r.curtain.SetVisible(false)
	r.AddElement(r.curtain)
	return r
}

// Destroy panics while workspaces are attached.
func (r *Root) Destroy() {
	if len(r.workspaces) > 0 {
		panic("wlmtk: destroying a root with workspaces")
	}
	if r.lock != nil {
		r.RemoveElement(r.lock)
		r.lock = nil
	}
	r.RemoveElement(r.curtain)
	r.Fini()
}

func (r *Root) Events() *RootEvents {
	return &r.events
}

// UpdateLayout ends propagation.
func (r *Root) UpdateLayout() {}

func (r *Root) Dimensions() Box {
	return r.extents
}

// SetExtents sets the area covered by the root and its curtain.
func (r *Root) SetExtents(extents Box) {
	r.extents = extents
	r.curtain.SetPosition(extents.X, extents.Y)
	r.curtain.SetSize(extents.Width, extents.Height)
}

func (r *Root) Extents() Box {
	return r.extents
}

// AddWorkspace appends ws. The first workspace becomes current.
func (r *Root) AddWorkspace(ws *Workspace) {
	if ws.root != nil {
		panic("wlmtk: workspace already belongs to a root")
	}
	ws.root = r
	ws.SetVisible(false)
	r.AddElement(ws)
	r.raiseCurtain()
	r.workspaces = append(r.workspaces, ws)
	if r.current == nil {
		r.SwitchToWorkspace(ws)
	}
}

// RemoveWorkspace detaches ws. If it was current, the next remaining
// workspace becomes current.
func (r *Root) RemoveWorkspace(ws *Workspace) {
	idx := slices.Index(r.workspaces, ws)
	if idx < 0 {
		panic("wlmtk: workspace does not belong to this root")
	}
	if r.current == ws {
		ws.PointerLeave()
		ws.SetVisible(false)
		r.current = nil
	}
	r.workspaces = slices.Delete(r.workspaces, idx, idx+1)
	r.RemoveElement(ws)
	ws.root = nil
	if r.current == nil && len(r.workspaces) > 0 {
		r.SwitchToWorkspace(r.workspaces[min(idx, len(r.workspaces)-1)])
	}
}

func (r *Root) raiseCurtain() {
	r.RaiseToTop(r.curtain)
	if r.lock != nil {
		r.RaiseToTop(r.lock)
	}
}

func (r *Root) Workspaces() []*Workspace {
	return slices.Clone(r.workspaces)
}

func (r *Root) CurrentWorkspace() *Workspace {
	return r.current
}

// SwitchToWorkspace makes ws current. An ongoing move or resize on the
// previous workspace is aborted.
func (r *Root) SwitchToWorkspace(ws *Workspace) {
	if ws.root != r {
		panic("wlmtk: workspace does not belong to this root")
	}
	if r.current == ws {
		return
	}
	if old := r.current; old != nil {
		old.PointerLeave()
		old.SetVisible(false)
	}
	r.current = ws
	ws.SetVisible(true)
	r.SetKeyboardFocus(ws)
	r.events.WorkspaceChanged.Emit(ws)
}

func (r *Root) SwitchToNextWorkspace() {
	r.switchRelative(1)
}

func (r *Root) SwitchToPreviousWorkspace() {
	r.switchRelative(-1)
}

func (r *Root) switchRelative(step int) {
	n := len(r.workspaces)
	if n == 0 {
		return
	}
	idx := slices.Index(r.workspaces, r.current)
	r.SwitchToWorkspace(r.workspaces[(idx+step+n)%n])
}

// InputMotion routes absolute pointer motion.
func (r *Root) InputMotion(x, y float64, timeMsec uint32) bool {
	return r.PointerMotion(PointerMotionEvent{X: x, Y: y, TimeMsec: timeMsec})
}

// InputButton routes a button press or release. A release is followed by
// a click if a press was seen before.
func (r *Root) InputButton(button uint32, pressed bool, timeMsec uint32) bool {
	if pressed {
		r.buttonPressed = true
		return r.PointerButton(ButtonEvent{Button: button, Type: ButtonDown, TimeMsec: timeMsec})
	}
	consumed := r.PointerButton(ButtonEvent{Button: button, Type: ButtonUp, TimeMsec: timeMsec})
	// Buttons share one pressed flag, so releasing any button clicks.
	if r.buttonPressed {
		r.buttonPressed = false
		consumed = r.PointerButton(ButtonEvent{Button: button, Type: ButtonClick, TimeMsec: timeMsec}) || consumed
	}
	return consumed
}

func (r *Root) PointerMotion(ev PointerMotionEvent) bool {
	if r.locked {
		if r.lock == nil {
			return false
		}
		x, y := r.lock.Position()
		return r.lock.PointerMotion(ev.translate(x, y))
	}
	return r.Container.PointerMotion(ev)
}

func (r *Root) PointerButton(ev ButtonEvent) bool {
	if r.locked {
		return r.lock != nil && r.lock.PointerButton(ev)
	}
	return r.Container.PointerButton(ev)
}

func (r *Root) PointerAxis(ev AxisEvent) bool {
	if r.locked {
		return r.lock != nil && r.lock.PointerAxis(ev)
	}
	return r.Container.PointerAxis(ev)
}

// KeyboardEvent goes to the lock while locked, else to the current
// workspace.
func (r *Root) KeyboardEvent(ev KeyEvent) bool {
	if r.locked {
		return r.lock != nil && r.lock.KeyboardEvent(ev)
	}
	if r.current == nil {
		return false
	}
	return r.current.KeyboardEvent(ev)
}

// Lock shows the curtain and routes all input to lock. It fails while
// the root is locked, including after LockUnreference.
func (r *Root) Lock(lock Element) bool {
	if r.locked {
		slog.Warn("root is already locked", "held", r.lock != nil)
		return false
	}
	if r.current != nil {
		r.current.PointerLeave()
	}
	r.locked = true
	r.lock = lock
	r.AddElement(lock)
	r.curtain.SetVisible(true)
	r.raiseCurtain()
	r.SetKeyboardFocus(lock)
	return true
}

// Unlock releases the lock. It fails unless lock is the one held.
func (r *Root) Unlock(lock Element) bool {
	if !r.locked || r.lock == nil || r.lock != lock {
		slog.Warn("rejected unlock with a lock that is not held", "locked", r.locked)
		return false
	}
	r.RemoveElement(lock)
	r.lock = nil
	r.locked = false
	r.curtain.SetVisible(false)
	if r.current != nil {
		r.SetKeyboardFocus(r.current)
	}
	r.events.Unlocked.Emit(struct{}{})
	return true
}

// LockUnreference drops the reference to lock, for example because its
// client went away. The root stays locked.
func (r *Root) LockUnreference(lock Element) {
	if r.lock == nil || r.lock != lock {
		return
	}
	r.RemoveElement(lock)
	r.lock = nil
}

func (r *Root) Locked() bool {
	return r.locked
}

// LockElement returns the element currently holding the lock, or nil.
func (r *Root) LockElement() Element {
	return r.lock
}
