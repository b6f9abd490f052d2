package ipc

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/1broseidon/wlmaker/internal/compositor"
	"github.com/1broseidon/wlmaker/internal/config"
)

type lockedExecutor struct {
	mu sync.Mutex
	c  *compositor.Compositor
}

func (e *lockedExecutor) Do(fn func(*compositor.Compositor) (any, error)) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.c)
}

func startTestServer(t *testing.T, reload func() error) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := compositor.New(config.DefaultConfig(), compositor.WithLogger(logger))
	if err != nil {
		t.Fatalf("compositor: %v", err)
	}
	t.Cleanup(c.Close)

	socket := filepath.Join(t.TempDir(), "wlmaker.sock")
	srv, err := NewServer(&lockedExecutor{c: c}, ServerOptions{
		SocketPath: socket,
		Backend:    "headless",
		Reload:     reload,
		Logger:     logger,
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClientWithPath(socket)
}

func TestServer_StatusAndOutputs(t *testing.T) {
	client := startTestServer(t, nil)

	st, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !st.DaemonRunning || st.Backend != "headless" {
		t.Fatalf("unexpected status %+v", st)
	}
	if st.Workspace != "Main" || len(st.Workspaces) != 2 {
		t.Fatalf("unexpected workspaces in status %+v", st)
	}

	outs, err := client.GetOutputs()
	if err != nil {
		t.Fatalf("GetOutputs: %v", err)
	}
	if len(outs.Outputs) != 1 || outs.Outputs[0].Usable.Width != 1216 {
		t.Fatalf("unexpected outputs %+v", outs.Outputs)
	}

	panels, err := client.ListPanels()
	if err != nil {
		t.Fatalf("ListPanels: %v", err)
	}
	if len(panels.Panels) == 0 {
		t.Fatal("expected the default dock panel")
	}
}

func TestServer_WindowLifecycle(t *testing.T) {
	client := startTestServer(t, nil)

	w, err := client.CreateWindow(compositor.WindowOptions{Title: "term"})
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	if w.Title != "term" || !w.Activated {
		t.Fatalf("unexpected window %+v", w)
	}

	w, err = client.WindowOp(WindowOpPayload{Window: w.ID[:8], Op: OpMaximize})
	if err != nil {
		t.Fatalf("maximize: %v", err)
	}
	if !w.Maximized || w.Box.Width != 1216 {
		t.Fatalf("expected maximized to usable area, got %+v", w)
	}

	w, err = client.WindowOp(WindowOpPayload{Window: "active", Op: OpTitle, Title: "renamed"})
	if err != nil {
		t.Fatalf("title: %v", err)
	}
	if w.Title != "renamed" {
		t.Fatalf("title = %q", w.Title)
	}

	list, err := client.ListWindows()
	if err != nil {
		t.Fatalf("ListWindows: %v", err)
	}
	if len(list.Windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(list.Windows))
	}

	if _, err := client.WindowOp(WindowOpPayload{Window: w.ID, Op: OpClose}); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := client.GetWindow(w.ID); err == nil {
		t.Fatal("expected closed window to be gone")
	}
}

func TestServer_UnknownWindowOp(t *testing.T) {
	client := startTestServer(t, nil)
	if _, err := client.CreateWindow(compositor.WindowOptions{}); err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	_, err := client.WindowOp(WindowOpPayload{Window: "active", Op: "explode"})
	if err == nil || !strings.Contains(err.Error(), "unknown window op") {
		t.Fatalf("expected unknown op error, got %v", err)
	}
}

func TestServer_SwitchWorkspace(t *testing.T) {
	client := startTestServer(t, nil)

	ws, err := client.SwitchWorkspace("Other")
	if err != nil {
		t.Fatalf("SwitchWorkspace: %v", err)
	}
	if !ws.Workspaces[1].Current {
		t.Fatalf("expected Other to be current: %+v", ws.Workspaces)
	}

	ws, err = client.StepWorkspace("next")
	if err != nil {
		t.Fatalf("StepWorkspace: %v", err)
	}
	if !ws.Workspaces[0].Current {
		t.Fatalf("expected next to wrap to Main: %+v", ws.Workspaces)
	}

	if _, err := client.SwitchWorkspace("nope"); err == nil {
		t.Fatal("expected error for unknown workspace")
	}
}

func TestServer_PointerDragMovesWindow(t *testing.T) {
	client := startTestServer(t, nil)

	w, err := client.CreateWindow(compositor.WindowOptions{Title: "drag"})
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}

	steps := []PointerPayload{
		{Op: PointerMotion, X: 100, Y: 10},
		{Op: PointerButton, Button: "left", Pressed: true},
		{Op: PointerMotion, X: 200, Y: 110},
		{Op: PointerButton, Button: "left", Pressed: false},
	}
	for i, p := range steps {
		if _, err := client.Pointer(p); err != nil {
			t.Fatalf("pointer step %d: %v", i, err)
		}
	}

	got, err := client.GetWindow(w.ID)
	if err != nil {
		t.Fatalf("GetWindow: %v", err)
	}
	if got.Box.X != 100 || got.Box.Y != 100 {
		t.Fatalf("expected window at (100,100), got %+v", got.Box)
	}
}

func TestServer_LockCycle(t *testing.T) {
	client := startTestServer(t, nil)

	if err := client.Unlock(); err == nil {
		t.Fatal("expected unlock without lock to fail")
	}
	if err := client.Lock(); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if err := client.Lock(); err == nil {
		t.Fatal("expected second lock to fail")
	}
	st, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !st.Locked {
		t.Fatal("expected locked status")
	}
	if err := client.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
}

func TestServer_ActionsAndReload(t *testing.T) {
	reloaded := 0
	client := startTestServer(t, func() error {
		reloaded++
		if reloaded > 1 {
			return errors.New("broken config")
		}
		return nil
	})

	acts, err := client.ListActions()
	if err != nil {
		t.Fatalf("ListActions: %v", err)
	}
	if len(acts.Actions) != len(compositor.Actions()) {
		t.Fatalf("unexpected actions %v", acts.Actions)
	}
	if err := client.RunAction(compositor.ActionNextWorkspace); err != nil {
		t.Fatalf("RunAction: %v", err)
	}
	if err := client.RunAction("no-such-action"); err == nil {
		t.Fatal("expected error for unknown action")
	}

	if err := client.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if err := client.Reload(); err == nil || !strings.Contains(err.Error(), "broken config") {
		t.Fatalf("expected reload error, got %v", err)
	}
}

func TestParseButton(t *testing.T) {
	cases := map[string]uint32{"": 0x110, "left": 0x110, "Right": 0x111, "middle": 0x112, "0x113": 0x113}
	for in, want := range cases {
		got, err := ParseButton(in)
		if err != nil || got != want {
			t.Fatalf("ParseButton(%q) = %#x, %v; want %#x", in, got, err, want)
		}
	}
	if _, err := ParseButton("thumb"); err == nil {
		t.Fatal("expected error for unknown button")
	}
}

func TestClient_NoDaemon(t *testing.T) {
	client := NewClientWithPath(filepath.Join(t.TempDir(), "missing.sock"))
	if err := client.Ping(); err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Fatalf("expected connection error, got %v", err)
	}
}
