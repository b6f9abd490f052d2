package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/wlmaker/internal/compositor"
	"github.com/1broseidon/wlmaker/internal/ipc"
)

// model is the root bubbletea model for the TUI.
type model struct {
	client DaemonClient

	activeTab Tab

	windowsTab    WindowsTab
	workspacesTab WorkspacesTab

	// Daemon state from the last poll; status is nil while disconnected.
	status  *ipc.StatusData
	panels  []compositor.PanelInfo
	message string
	failed  bool

	width  int
	height int
}

func newModel(client DaemonClient) model {
	return model{
		client:        client,
		activeTab:     TabWindows,
		windowsTab:    NewWindowsTab(client),
		workspacesTab: NewWorkspacesTab(client),
	}
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(fetchSnapshot(m.client), tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tea.Batch(fetchSnapshot(m.client), tick())

	case snapshotMsg:
		if msg.err != nil {
			m.status = nil
			return m, nil
		}
		m.status = msg.status
		m.panels = msg.panels
		m.windowsTab.SetWindows(msg.windows)
		m.workspacesTab.SetWorkspaces(msg.status.Workspaces)
		return m, nil

	case resultMsg:
		m.failed = msg.err != nil
		if msg.err != nil {
			m.message = msg.err.Error()
		} else {
			m.message = msg.text
		}
		return m, fetchSnapshot(m.client)

	case tea.KeyMsg:
		m.message = ""
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabWindows
			return m, nil
		case "2":
			m.activeTab = TabWorkspaces
			return m, nil
		case "3":
			m.activeTab = TabOutputs
			return m, nil
		case "R":
			return m, runOp("config reloaded", m.client.Reload)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		subMsg := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
		m.windowsTab, _ = m.windowsTab.Update(subMsg)
		m.workspacesTab, _ = m.workspacesTab.Update(subMsg)
		return m, nil
	}

	// Delegate to active tab's sub-model
	var cmd tea.Cmd
	switch m.activeTab {
	case TabWindows:
		m.windowsTab, cmd = m.windowsTab.Update(msg)
	case TabWorkspaces:
		m.workspacesTab, cmd = m.workspacesTab.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.activeTab, m.message, m.failed, m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := m.height - usedHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch m.activeTab {
	case TabWindows:
		content = m.windowsTab.View()
	case TabWorkspaces:
		content = m.workspacesTab.View()
	case TabOutputs:
		var outputs []compositor.OutputInfo
		if m.status != nil {
			outputs = m.status.Outputs
		}
		content = renderOutputs(outputs, m.panels, m.width, contentHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
