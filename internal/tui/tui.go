package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/wlmaker/internal/compositor"
	"github.com/1broseidon/wlmaker/internal/ipc"
)

const refreshInterval = time.Second

// DaemonClient is the part of the IPC client the inspector uses.
type DaemonClient interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() (*ipc.WindowsData, error)
	ListPanels() (*ipc.PanelsData, error)
	SwitchWorkspace(ref string) (*ipc.WorkspacesData, error)
	CreateWindow(opts compositor.WindowOptions) (*compositor.WindowInfo, error)
	WindowOp(op ipc.WindowOpPayload) (*compositor.WindowInfo, error)
	Reload() error
}

// Run starts the interactive inspector against the running daemon.
func Run(client DaemonClient) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// snapshotMsg carries one poll of the daemon state.
type snapshotMsg struct {
	status  *ipc.StatusData
	windows []compositor.WindowInfo
	panels  []compositor.PanelInfo
	err     error
}

type tickMsg struct{}

// resultMsg reports the outcome of a user command.
type resultMsg struct {
	text string
	err  error
}

func fetchSnapshot(client DaemonClient) tea.Cmd {
	return func() tea.Msg {
		st, err := client.GetStatus()
		if err != nil {
			return snapshotMsg{err: err}
		}
		ws, err := client.ListWindows()
		if err != nil {
			return snapshotMsg{err: err}
		}
		ps, err := client.ListPanels()
		if err != nil {
			return snapshotMsg{err: err}
		}
		return snapshotMsg{status: st, windows: ws.Windows, panels: ps.Panels}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// runOp wraps a daemon call as a command reporting text on success.
func runOp(text string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{text: text, err: fn()}
	}
}
