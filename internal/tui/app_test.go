package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/wlmaker/internal/compositor"
	"github.com/1broseidon/wlmaker/internal/ipc"
)

type fakeClient struct {
	status   *ipc.StatusData
	windows  []compositor.WindowInfo
	ops      []ipc.WindowOpPayload
	switched []string
	created  int
	statErr  error
}

func (f *fakeClient) GetStatus() (*ipc.StatusData, error) {
	if f.statErr != nil {
		return nil, f.statErr
	}
	return f.status, nil
}

func (f *fakeClient) ListWindows() (*ipc.WindowsData, error) {
	return &ipc.WindowsData{Windows: f.windows}, nil
}

func (f *fakeClient) ListPanels() (*ipc.PanelsData, error) {
	return &ipc.PanelsData{Panels: []compositor.PanelInfo{{Name: "dock", Layer: "top", Workspace: "Main", Output: "HEADLESS-1", Attached: true}}}, nil
}

func (f *fakeClient) SwitchWorkspace(ref string) (*ipc.WorkspacesData, error) {
	f.switched = append(f.switched, ref)
	return &ipc.WorkspacesData{}, nil
}

func (f *fakeClient) CreateWindow(compositor.WindowOptions) (*compositor.WindowInfo, error) {
	f.created++
	return &compositor.WindowInfo{}, nil
}

func (f *fakeClient) WindowOp(op ipc.WindowOpPayload) (*compositor.WindowInfo, error) {
	f.ops = append(f.ops, op)
	return &compositor.WindowInfo{}, nil
}

func (f *fakeClient) Reload() error { return nil }

func newFakeClient() *fakeClient {
	return &fakeClient{
		status: &ipc.StatusData{
			Status: compositor.Status{
				Workspace: "Main",
				Windows:   2,
				Workspaces: []compositor.WorkspaceInfo{
					{Name: "Main", Index: 0, Current: true, Windows: 2},
					{Name: "Other", Index: 1},
				},
				Outputs: []compositor.OutputInfo{{Name: "HEADLESS-1", Box: compositor.Rect{Width: 1280, Height: 800}}},
			},
			Backend:       "headless",
			DaemonRunning: true,
		},
		windows: []compositor.WindowInfo{
			{ID: "aaaaaaaa-0000", Title: "one", Workspace: "Main"},
			{ID: "bbbbbbbb-0000", Title: "two", Workspace: "Main", Activated: true, Maximized: true},
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded returns a sized model that has seen one snapshot.
func loaded(t *testing.T, client *fakeClient) model {
	t.Helper()
	var m tea.Model = newModel(client)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(fetchSnapshot(client)())
	return m.(model)
}

func TestModel_SnapshotPopulatesTabs(t *testing.T) {
	client := newFakeClient()
	m := loaded(t, client)

	if m.status == nil || m.status.Backend != "headless" {
		t.Fatalf("expected status from snapshot, got %+v", m.status)
	}
	if got := len(m.windowsTab.list.Items()); got != 2 {
		t.Fatalf("expected 2 window items, got %d", got)
	}
	if got := len(m.workspacesTab.list.Items()); got != 2 {
		t.Fatalf("expected 2 workspace items, got %d", got)
	}
	view := m.View()
	if !strings.Contains(view, "daemon connected") {
		t.Fatalf("expected connected status bar in view")
	}
}

func TestModel_DisconnectedOnError(t *testing.T) {
	client := newFakeClient()
	m := loaded(t, client)

	client.statErr = errors.New("connection refused")
	next, _ := m.Update(fetchSnapshot(client)())
	m = next.(model)
	if m.status != nil {
		t.Fatal("expected status cleared on error")
	}
	if !strings.Contains(m.View(), "daemon not running") {
		t.Fatal("expected disconnected status bar")
	}
}

func TestWindowsTab_ToggleKeysFollowState(t *testing.T) {
	client := newFakeClient()
	m := loaded(t, client)

	// First window is not maximized.
	_, cmd := m.Update(key("m"))
	if cmd == nil {
		t.Fatal("expected a command for m")
	}
	if msg, ok := cmd().(resultMsg); !ok || msg.err != nil {
		t.Fatalf("unexpected result %+v", msg)
	}

	// Second window is maximized, so m unmaximizes it.
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = next.Update(key("m"))
	cmd()

	if len(client.ops) != 2 {
		t.Fatalf("expected 2 ops, got %+v", client.ops)
	}
	if client.ops[0].Op != ipc.OpMaximize || client.ops[0].Window != "aaaaaaaa-0000" {
		t.Fatalf("unexpected first op %+v", client.ops[0])
	}
	if client.ops[1].Op != ipc.OpUnmaximize || client.ops[1].Window != "bbbbbbbb-0000" {
		t.Fatalf("unexpected second op %+v", client.ops[1])
	}
}

func TestWorkspacesTab_EnterSwitches(t *testing.T) {
	client := newFakeClient()
	m := loaded(t, client)

	next, _ := m.Update(key("2"))
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := next.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected a switch command")
	}
	cmd()
	if len(client.switched) != 1 || client.switched[0] != "Other" {
		t.Fatalf("expected switch to Other, got %v", client.switched)
	}
}

func TestModel_ResultMessageShown(t *testing.T) {
	client := newFakeClient()
	m := loaded(t, client)

	next, cmd := m.Update(resultMsg{err: errors.New("window is fullscreen")})
	if cmd == nil {
		t.Fatal("expected a refresh after a result")
	}
	if !strings.Contains(next.View(), "window is fullscreen") {
		t.Fatal("expected error in help bar")
	}
}

func TestKeyOp(t *testing.T) {
	w := compositor.WindowInfo{Fullscreen: true, Shaded: true}
	cases := map[string]string{
		"enter": ipc.OpActivate,
		"f":     ipc.OpUnfullscreen,
		"s":     ipc.OpUnshade,
		"i":     ipc.OpMinimize,
		"r":     ipc.OpRestore,
		"x":     ipc.OpClose,
		"z":     "",
	}
	for k, want := range cases {
		if got := keyOp(k, w); got != want {
			t.Fatalf("keyOp(%q) = %q, want %q", k, got, want)
		}
	}
}
