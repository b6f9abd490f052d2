package compositor

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/wlmaker/internal/config"
	"github.com/1broseidon/wlmaker/internal/wlmtk"
)

func newTestCompositor(t *testing.T, mutate func(*config.Config)) *Compositor {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	c, err := New(cfg, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNew_WorkspacesOutputsAndPanels(t *testing.T) {
	c := newTestCompositor(t, nil)

	st := c.Status()
	if st.Workspace != "Main" {
		t.Fatalf("expected current workspace Main, got %q", st.Workspace)
	}
	if len(st.Workspaces) != 2 {
		t.Fatalf("expected 2 workspaces, got %d", len(st.Workspaces))
	}
	if len(st.Outputs) != 1 {
		t.Fatalf("expected 1 output, got %+v", st.Outputs)
	}
	want := Rect{X: 0, Y: 0, Width: 1216, Height: 800}
	if st.Outputs[0].Usable != want {
		t.Fatalf("expected usable %+v, got %+v", want, st.Outputs[0].Usable)
	}
	// One dock per workspace.
	if st.Panels != 2 {
		t.Fatalf("expected 2 panels, got %d", st.Panels)
	}
	for _, p := range c.Panels() {
		if !p.Attached || p.Box != (Rect{X: 1216, Y: 0, Width: 64, Height: 800}) {
			t.Fatalf("unexpected panel %+v", p)
		}
	}
}

func TestCreateWindow_CascadesAndActivates(t *testing.T) {
	c := newTestCompositor(t, nil)

	a, err := c.CreateWindow(WindowOptions{Title: "a"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Box != (Rect{X: 0, Y: 0, Width: 642, Height: 513}) {
		t.Fatalf("unexpected box %+v", a.Box)
	}
	b, err := c.CreateWindow(WindowOptions{Title: "b"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Box.X != cascadeStep || b.Box.Y != cascadeStep {
		t.Fatalf("expected cascade offset, got %+v", b.Box)
	}

	active, err := c.Window("active")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active.ID != b.ID {
		t.Fatalf("expected newest window active")
	}
	a, _ = c.Window(a.ID)
	if a.Activated {
		t.Fatalf("expected first window deactivated")
	}
}

func TestCreateWindow_Rejects(t *testing.T) {
	c := newTestCompositor(t, nil)

	if _, err := c.CreateWindow(WindowOptions{Workspace: "Nope"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected unknown workspace to fail, got %v", err)
	}
	if _, err := c.CreateWindow(WindowOptions{Output: "DP-9"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected unknown output to fail, got %v", err)
	}
	if _, err := c.CreateWindow(WindowOptions{Properties: []string{"sticky"}}); err == nil {
		t.Fatalf("expected unknown property to fail")
	}
}

func TestMaximize_CommitsToUsableArea(t *testing.T) {
	c := newTestCompositor(t, nil)
	w, _ := c.CreateWindow(WindowOptions{})

	info, err := c.SetMaximized(w.ID, true)
	if err != nil {
		t.Fatalf("maximize: %v", err)
	}
	if !info.Maximized {
		t.Fatalf("expected maximized after flush")
	}
	if info.Box != (Rect{X: 0, Y: 0, Width: 1216, Height: 800}) {
		t.Fatalf("unexpected maximized box %+v", info.Box)
	}
	if info.Content.Width != 1214 || info.Content.Height != 767 {
		t.Fatalf("unexpected content size %+v", info.Content)
	}

	info, _ = c.SetMaximized(w.ID, false)
	if info.Maximized || info.Box != (Rect{X: 0, Y: 0, Width: 642, Height: 513}) {
		t.Fatalf("expected organic box back, got %+v", info)
	}
}

func TestFullscreen_RoundTrip(t *testing.T) {
	c := newTestCompositor(t, nil)
	w, _ := c.CreateWindow(WindowOptions{})

	info, err := c.SetFullscreen(w.ID, true)
	if err != nil {
		t.Fatalf("fullscreen: %v", err)
	}
	if !info.Fullscreen || info.Box != (Rect{X: 0, Y: 0, Width: 1280, Height: 800}) {
		t.Fatalf("unexpected fullscreen info %+v", info)
	}
	if _, err := c.SetMaximized(w.ID, true); err == nil {
		t.Fatalf("expected maximize to be refused while fullscreen")
	}

	info, _ = c.SetFullscreen(w.ID, false)
	if info.Fullscreen || info.Box != (Rect{X: 0, Y: 0, Width: 642, Height: 513}) {
		t.Fatalf("expected decorated organic box, got %+v", info)
	}
}

func TestCloseWindow(t *testing.T) {
	c := newTestCompositor(t, nil)
	w, _ := c.CreateWindow(WindowOptions{})
	fixed, _ := c.CreateWindow(WindowOptions{Properties: []string{"resizable"}})

	if _, err := c.CloseWindow(fixed.ID, false); err == nil {
		t.Fatalf("expected non-closable window to refuse")
	}
	if _, err := c.CloseWindow(w.ID, false); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := c.Window(w.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected closed window to be gone, got %v", err)
	}
	if _, err := c.CloseWindow(fixed.ID, true); err != nil {
		t.Fatalf("force close: %v", err)
	}
	if n := len(c.Windows()); n != 0 {
		t.Fatalf("expected no windows, got %d", n)
	}
}

func TestMinimizeRestore(t *testing.T) {
	c := newTestCompositor(t, nil)
	a, _ := c.CreateWindow(WindowOptions{Title: "a"})
	b, _ := c.CreateWindow(WindowOptions{Title: "b"})

	info, err := c.MinimizeWindow(b.ID)
	if err != nil {
		t.Fatalf("minimize: %v", err)
	}
	if !info.Minimized {
		t.Fatalf("expected minimized")
	}
	active, _ := c.Window("active")
	if active.ID != a.ID {
		t.Fatalf("expected remaining window to be activated")
	}

	info, err = c.RestoreWindow(b.ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if info.Minimized || !info.Activated {
		t.Fatalf("expected restored and active, got %+v", info)
	}
	if _, err := c.RestoreWindow(b.ID); err == nil {
		t.Fatalf("expected restoring a mapped window to fail")
	}
}

func TestSendToWorkspace(t *testing.T) {
	c := newTestCompositor(t, nil)
	w, _ := c.CreateWindow(WindowOptions{})

	info, err := c.SendToWorkspace(w.ID, "Other")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if info.Workspace != "Other" {
		t.Fatalf("expected workspace Other, got %q", info.Workspace)
	}
	for _, ws := range c.Workspaces() {
		want := 0
		if ws.Name == "Other" {
			want = 1
		}
		if ws.Windows != want {
			t.Fatalf("workspace %s: expected %d windows, got %d", ws.Name, want, ws.Windows)
		}
	}

	if _, err := c.ActivateWindow(w.ID); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if st := c.Status(); st.Workspace != "Other" {
		t.Fatalf("expected activation to switch workspace, got %q", st.Workspace)
	}
}

func TestLookup_Prefix(t *testing.T) {
	c := newTestCompositor(t, nil)
	w, _ := c.CreateWindow(WindowOptions{})

	got, err := c.Window(w.ID[:8])
	if err != nil || got.ID != w.ID {
		t.Fatalf("expected prefix lookup to work, got %v (%v)", got.ID, err)
	}
	if _, err := c.Window("zzzz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPointer_TitlebarDragMovesWindow(t *testing.T) {
	c := newTestCompositor(t, nil)
	w, _ := c.CreateWindow(WindowOptions{})

	c.PointerMotion(100, 10)
	c.PointerButton(wlmtk.ButtonLeft, true)
	if s := c.PointerState(); s != wlmtk.PointerMove {
		t.Fatalf("expected move state, got %s", s)
	}
	c.PointerMotion(200, 110)
	c.PointerButton(wlmtk.ButtonLeft, false)
	if s := c.PointerState(); s != wlmtk.PointerPassthrough {
		t.Fatalf("expected passthrough after release, got %s", s)
	}

	info, _ := c.Window(w.ID)
	if info.Box.X != 100 || info.Box.Y != 100 {
		t.Fatalf("expected window at (100,100), got %+v", info.Box)
	}
}

func TestLock(t *testing.T) {
	c := newTestCompositor(t, nil)
	c.CreateWindow(WindowOptions{})

	if err := c.Unlock(); !errors.Is(err, ErrNotLocked) {
		t.Fatalf("expected ErrNotLocked, got %v", err)
	}
	if err := c.Lock(); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if err := c.Lock(); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	c.PointerMotion(100, 10)
	c.PointerButton(wlmtk.ButtonLeft, true)
	if s := c.PointerState(); s != wlmtk.PointerPassthrough {
		t.Fatalf("expected no grab while locked, got %s", s)
	}
	c.PointerButton(wlmtk.ButtonLeft, false)

	if err := c.DropLock(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if !c.Locked() {
		t.Fatalf("expected session to stay locked")
	}
	if err := c.Unlock(); err == nil {
		t.Fatalf("expected unlock without holder to fail")
	}
	if err := c.Lock(); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected relock after drop to fail with ErrLocked, got %v", err)
	}
	if !c.Locked() {
		t.Fatalf("expected session to stay locked")
	}
}

func TestSetOutputs_PanelsFollowOutputs(t *testing.T) {
	c := newTestCompositor(t, func(cfg *config.Config) {
		cfg.Panels[0].Workspace = "Main"
		cfg.Panels = append(cfg.Panels, config.PanelConfig{
			Name:          "clip",
			Layer:         "top",
			Output:        "HEADLESS-1",
			Workspace:     "Main",
			Anchor:        []string{"top", "left"},
			ExclusiveZone: -1,
			Width:         64,
			Height:        64,
		})
	})

	c.SetOutputs([]wlmtk.Output{{Name: "DP-1", Box: wlmtk.Box{Width: 1920, Height: 1080}}})
	panels := c.Panels()
	if !panels[0].Attached || panels[0].Output != "DP-1" {
		t.Fatalf("expected dock to follow the first output, got %+v", panels[0])
	}
	if panels[1].Attached {
		t.Fatalf("expected clip to detach with its output, got %+v", panels[1])
	}

	c.SetOutputs([]wlmtk.Output{
		{Name: "DP-1", Box: wlmtk.Box{Width: 1920, Height: 1080}},
		{Name: "HEADLESS-1", Box: wlmtk.Box{X: 1920, Width: 1280, Height: 800}},
	})
	panels = c.Panels()
	if !panels[1].Attached || panels[1].Box != (Rect{X: 1920, Y: 0, Width: 64, Height: 64}) {
		t.Fatalf("expected clip back on its output, got %+v", panels[1])
	}
}

func TestSetOutputs_RefitsMaximized(t *testing.T) {
	c := newTestCompositor(t, func(cfg *config.Config) { cfg.Panels = nil })
	w, _ := c.CreateWindow(WindowOptions{})
	c.SetMaximized(w.ID, true)

	c.SetOutputs([]wlmtk.Output{{Name: "HEADLESS-1", Box: wlmtk.Box{Width: 1024, Height: 768}}})
	info, _ := c.Window(w.ID)
	if info.Box != (Rect{X: 0, Y: 0, Width: 1024, Height: 768}) {
		t.Fatalf("expected maximized window refitted, got %+v", info.Box)
	}
}

func TestSetOutputs_MovesFullscreenAndMaximizedOntoOutput(t *testing.T) {
	c := newTestCompositor(t, func(cfg *config.Config) { cfg.Panels = nil })
	full, _ := c.CreateWindow(WindowOptions{Title: "full"})
	c.SetFullscreen(full.ID, true)
	maxed, _ := c.CreateWindow(WindowOptions{Title: "max"})
	c.SetMaximized(maxed.ID, true)

	moved := wlmtk.Box{X: 500, Y: 100, Width: 800, Height: 600}
	c.SetOutputs([]wlmtk.Output{{Name: "HEADLESS-1", Box: moved}})

	want := Rect{X: 500, Y: 100, Width: 800, Height: 600}
	for _, id := range []string{full.ID, maxed.ID} {
		info, err := c.Window(id)
		if err != nil {
			t.Fatalf("window: %v", err)
		}
		if info.Box != want {
			t.Fatalf("expected %s refitted to %+v, got %+v", info.Title, want, info.Box)
		}
	}
}

func TestApplyConfig_Workspaces(t *testing.T) {
	c := newTestCompositor(t, nil)
	w, _ := c.CreateWindow(WindowOptions{Workspace: "Other"})

	cfg := config.DefaultConfig()
	cfg.Workspaces = []config.WorkspaceConfig{{Name: "One"}}
	cfg.Panels = nil
	if err := c.ApplyConfig(cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	ws := c.Workspaces()
	if len(ws) != 2 || ws[0].Name != "One" || ws[1].Name != "Other" {
		t.Fatalf("expected rename and occupied workspace kept, got %+v", ws)
	}

	c.CloseWindow(w.ID, true)
	cfg.Workspaces = append(cfg.Workspaces, config.WorkspaceConfig{Name: "Two"}, config.WorkspaceConfig{Name: "Three"})
	if err := c.ApplyConfig(cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if ws := c.Workspaces(); len(ws) != 3 || ws[1].Name != "Two" || ws[2].Name != "Three" {
		t.Fatalf("unexpected workspaces %+v", ws)
	}
	if c.Status().Panels != 0 {
		t.Fatalf("expected panels removed")
	}
}

func TestRunAction(t *testing.T) {
	c := newTestCompositor(t, nil)
	a, _ := c.CreateWindow(WindowOptions{Title: "a"})
	c.CreateWindow(WindowOptions{Title: "b"})

	if err := c.RunAction(ActionNextWindow); err != nil {
		t.Fatalf("next window: %v", err)
	}
	active, _ := c.Window("active")
	if active.ID != a.ID {
		t.Fatalf("expected cycling to wrap to the first window")
	}

	if err := c.RunAction(ActionToggleMaximize); err != nil {
		t.Fatalf("toggle maximize: %v", err)
	}
	if active, _ = c.Window("active"); !active.Maximized {
		t.Fatalf("expected active window maximized")
	}

	if err := c.RunAction(ActionNextWorkspace); err != nil {
		t.Fatalf("next workspace: %v", err)
	}
	if st := c.Status(); st.Workspace != "Other" {
		t.Fatalf("expected workspace Other, got %q", st.Workspace)
	}

	if err := c.RunAction(ActionLock); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if err := c.RunAction(ActionPreviousWorkspace); err == nil {
		t.Fatalf("expected actions to be refused while locked")
	}
	if err := c.RunAction("dance"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected unknown action to fail, got %v", err)
	}
}
