package compositor

import (
	"fmt"

	"github.com/1broseidon/wlmaker/internal/wlmtk"
)

// PointerMotion moves the pointer to (x, y) in layout coordinates.
func (c *Compositor) PointerMotion(x, y float64) bool {
	consumed := c.root.InputMotion(x, y, c.now())
	c.flush()
	return consumed
}

// PointerButton presses or releases a button (wlmtk.ButtonLeft, ...).
func (c *Compositor) PointerButton(button uint32, pressed bool) bool {
	consumed := c.root.InputButton(button, pressed, c.now())
	c.flush()
	return consumed
}

// PointerClick is a press followed by a release.
func (c *Compositor) PointerClick(button uint32) bool {
	down := c.PointerButton(button, true)
	up := c.PointerButton(button, false)
	return down || up
}

// PointerAxis scrolls by delta.
func (c *Compositor) PointerAxis(horizontal bool, delta float64) bool {
	o := wlmtk.AxisVertical
	if horizontal {
		o = wlmtk.AxisHorizontal
	}
	consumed := c.root.PointerAxis(wlmtk.AxisEvent{Orientation: o, Delta: delta, TimeMsec: c.now()})
	c.flush()
	return consumed
}

// Key delivers a key event to the lock or the focused window.
func (c *Compositor) Key(keysym uint32, pressed bool, modifiers uint32) bool {
	consumed := c.root.KeyboardEvent(wlmtk.KeyEvent{
		Keysym:    keysym,
		Pressed:   pressed,
		Modifiers: modifiers,
		TimeMsec:  c.now(),
	})
	c.flush()
	return consumed
}

// PointerState reports the pointer FSM state of the current workspace.
func (c *Compositor) PointerState() wlmtk.PointerState {
	if ws := c.root.CurrentWorkspace(); ws != nil {
		return ws.PointerState()
	}
	return wlmtk.PointerPassthrough
}

// Lock covers all outputs with a lock surface that receives all input.
func (c *Compositor) Lock() error {
	if c.root.Locked() {
		return ErrLocked
	}
	ext := c.root.Extents()
	lock := wlmtk.NewSimpleContent(ext.Width, ext.Height)
	lock.SetPosition(ext.X, ext.Y)
	if !c.root.Lock(lock) {
		return ErrLocked
	}
	c.lock = lock
	c.log.Info("session locked")
	c.flush()
	return nil
}

// Unlock releases the lock taken by Lock.
func (c *Compositor) Unlock() error {
	if !c.root.Locked() {
		return ErrNotLocked
	}
	if c.lock == nil {
		return fmt.Errorf("lock holder is gone: %w", ErrLocked)
	}
	if !c.root.Unlock(c.lock) {
		return fmt.Errorf("unlock rejected")
	}
	c.lock = nil
	c.flush()
	return nil
}

// DropLock forgets the lock surface as if its client had died. The
// session stays locked.
func (c *Compositor) DropLock() error {
	if c.lock == nil {
		return ErrNotLocked
	}
	c.root.LockUnreference(c.lock)
	c.lock = nil
	c.log.Warn("lock holder dropped, session stays locked")
	return nil
}

func (c *Compositor) Locked() bool {
	return c.root.Locked()
}
