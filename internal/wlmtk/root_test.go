package wlmtk

import "testing"

func newTestRoot() (*Root, *Workspace) {
	r := NewRoot()
	r.SetExtents(Box{Width: 1024, Height: 768})
	ws := newTestWorkspace()
	r.AddWorkspace(ws)
	return r, ws
}

func TestRoot_FirstWorkspaceBecomesCurrent(t *testing.T) {
	r, ws := newTestRoot()
	if r.CurrentWorkspace() != ws {
		t.Fatalf("CurrentWorkspace() = %v, want first workspace", r.CurrentWorkspace())
	}

	second := NewWorkspace("second", 1)
	r.AddWorkspace(second)
	if r.CurrentWorkspace() != ws {
		t.Fatalf("adding a second workspace switched to it")
	}
	elems := r.Elements()
	if elems[len(elems)-1] != r.curtain {
		t.Fatalf("curtain is not topmost after adding a workspace")
	}
	if second.Visible() {
		t.Fatalf("non-current workspace is visible")
	}
}

func TestRoot_SwitchWorkspaces(t *testing.T) {
	r, ws := newTestRoot()
	second := NewWorkspace("second", 1)
	r.AddWorkspace(second)

	var changed []*Workspace
	r.Events().WorkspaceChanged.Connect(func(w *Workspace) { changed = append(changed, w) })

	r.SwitchToNextWorkspace()
	r.SwitchToNextWorkspace()
	r.SwitchToPreviousWorkspace()
	if len(changed) != 3 || changed[0] != second || changed[1] != ws || changed[2] != second {
		t.Fatalf("WorkspaceChanged sequence = %v", changed)
	}
	if ws.Visible() || !second.Visible() {
		t.Fatalf("visibility does not follow the current workspace")
	}

	r.RemoveWorkspace(second)
	if r.CurrentWorkspace() != ws {
		t.Fatalf("removing the current workspace did not fall back")
	}
}

func TestRoot_LockTwiceFails(t *testing.T) {
	r, _ := newTestRoot()
	first := NewSimpleContent(1024, 768)
	second := NewSimpleContent(1024, 768)

	if !r.Lock(first) {
		t.Fatalf("Lock() = false")
	}
	if r.Lock(second) {
		t.Fatalf("second Lock() = true, want false")
	}
	if r.LockElement() != first {
		t.Fatalf("LockElement() = %v, want the first lock", r.LockElement())
	}
	if !r.curtain.Visible() {
		t.Fatalf("curtain hidden while locked")
	}
}

func TestRoot_UnlockWithWrongLockFails(t *testing.T) {
	r, _ := newTestRoot()
	lock := NewSimpleContent(1024, 768)
	r.Lock(lock)

	if r.Unlock(NewSimpleContent(1, 1)) {
		t.Fatalf("Unlock() with foreign lock = true")
	}
	if !r.Locked() {
		t.Fatalf("Locked() = false after rejected unlock")
	}

	unlocked := 0
	r.Events().Unlocked.Connect(func(struct{}) { unlocked++ })
	if !r.Unlock(lock) {
		t.Fatalf("Unlock() with held lock = false")
	}
	if r.Locked() || unlocked != 1 || r.curtain.Visible() {
		t.Fatalf("Locked()=%v unlocked=%d curtain=%v after unlock", r.Locked(), unlocked, r.curtain.Visible())
	}
}

func TestRoot_LockedInputOnlyReachesLock(t *testing.T) {
	r, ws := newTestRoot()
	w, content := newTestWindow(100, 100)
	ws.MapWindow(w)

	contentKeys, lockKeys := 0, 0
	content.Key.Connect(func(KeyEvent) { contentKeys++ })
	lock := NewSimpleContent(1024, 768)
	lock.Key.Connect(func(KeyEvent) { lockKeys++ })

	r.KeyboardEvent(KeyEvent{Keycode: 36, Pressed: true})
	if contentKeys != 1 {
		t.Fatalf("content keys = %d before locking, want 1", contentKeys)
	}

	r.Lock(lock)
	r.KeyboardEvent(KeyEvent{Keycode: 36, Pressed: true})
	r.InputMotion(50, 50, 0)
	r.InputButton(ButtonLeft, true, 0)
	if contentKeys != 1 || lockKeys != 1 {
		t.Fatalf("content keys = %d, lock keys = %d, want 1 and 1", contentKeys, lockKeys)
	}
	if content.PointerInside() {
		t.Fatalf("window content saw the pointer while locked")
	}
	if !lock.PointerInside() {
		t.Fatalf("lock did not get the pointer")
	}
}

func TestRoot_LockUnreferenceStaysLocked(t *testing.T) {
	r, _ := newTestRoot()
	lock := NewSimpleContent(1024, 768)
	r.Lock(lock)

	r.LockUnreference(lock)
	if !r.Locked() {
		t.Fatalf("Locked() = false after LockUnreference")
	}
	if r.InputMotion(10, 10, 0) {
		t.Fatalf("input accepted without a lock element")
	}
	if r.Unlock(lock) {
		t.Fatalf("Unlock() with unreferenced lock = true")
	}

	intruder := NewSimpleContent(1024, 768)
	if r.Lock(intruder) {
		t.Fatalf("Lock() after LockUnreference = true")
	}
	if r.Unlock(intruder) {
		t.Fatalf("Unlock() with a lock that was never held = true")
	}
	if !r.Locked() || r.LockElement() != nil {
		t.Fatalf("expected root to stay locked without a lock element")
	}
}

func TestRoot_TitlebarDragMovesWindow(t *testing.T) {
	r, ws := newTestRoot()
	w, _ := newTestWindow(40, 20)
	w.SetServerSideDecorated(true)
	w.SetPosition(100, 100)
	ws.MapWindow(w)

	// The title spans (102,102)-(142,112) with border 2 and height 10.
	r.InputMotion(110, 105, 0)
	r.InputButton(ButtonLeft, true, 1)
	if ws.PointerState() != PointerMove {
		t.Fatalf("PointerState() = %v after title press, want move", ws.PointerState())
	}
	r.InputMotion(130, 125, 2)
	if x, y := w.Position(); x != 120 || y != 120 {
		t.Fatalf("position = (%d,%d), want (120,120)", x, y)
	}
	r.InputButton(ButtonLeft, false, 3)
	r.InputMotion(150, 150, 4)
	if x, y := w.Position(); x != 120 || y != 120 {
		t.Fatalf("position after release = (%d,%d), want (120,120)", x, y)
	}
}

func TestRoot_ResizebarDragResizes(t *testing.T) {
	r, ws := newTestRoot()
	w, _ := newTestWindow(40, 20)
	w.SetProperties(PropertyResizable)
	w.SetServerSideDecorated(true)
	w.SetPosition(100, 100)
	ws.MapWindow(w)

	// Resize bar spans y 134..139; the right corner x 139..142.
	r.InputMotion(140, 136, 0)
	r.InputButton(ButtonLeft, true, 1)
	if ws.PointerState() != PointerResize {
		t.Fatalf("PointerState() = %v after resize bar press, want resize", ws.PointerState())
	}
	r.InputMotion(150, 146, 2)
	if got, want := w.BoundingBox(), (Box{X: 100, Y: 100, Width: 54, Height: 51}); got != want {
		t.Fatalf("BoundingBox() = %+v, want %+v", got, want)
	}
	r.InputButton(ButtonLeft, false, 3)
	if ws.PointerState() != PointerPassthrough {
		t.Fatalf("PointerState() = %v after release", ws.PointerState())
	}
}
