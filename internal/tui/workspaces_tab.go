package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/wlmaker/internal/compositor"
)

type workspaceItem struct {
	info compositor.WorkspaceInfo
}

func (i workspaceItem) Title() string {
	if i.info.Current {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●") + " " + i.info.Name
	}
	return "  " + i.info.Name
}

func (i workspaceItem) Description() string {
	return fmt.Sprintf("#%d | %d windows | pointer %s", i.info.Index, i.info.Windows, i.info.Pointer)
}

func (i workspaceItem) FilterValue() string { return i.info.Name }

// WorkspacesTab lists workspaces; enter switches to the selected one.
type WorkspacesTab struct {
	list   list.Model
	client DaemonClient
	width  int
	height int
}

func NewWorkspacesTab(client DaemonClient) WorkspacesTab {
	return WorkspacesTab{list: newStyledList("Workspaces"), client: client}
}

func (t *WorkspacesTab) SetWorkspaces(workspaces []compositor.WorkspaceInfo) {
	index := t.list.Index()
	items := make([]list.Item, 0, len(workspaces))
	for _, ws := range workspaces {
		items = append(items, workspaceItem{info: ws})
	}
	t.list.SetItems(items)
	if index >= len(items) {
		index = len(items) - 1
	}
	if index >= 0 {
		t.list.Select(index)
	}
}

func (t WorkspacesTab) Update(msg tea.Msg) (WorkspacesTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		t.list.SetSize(t.width, t.height)
		return t, nil
	case tea.KeyMsg:
		if msg.String() == "enter" {
			if item, ok := t.list.SelectedItem().(workspaceItem); ok {
				name := item.info.Name
				return t, runOp("switched to "+name, func() error {
					_, err := t.client.SwitchWorkspace(name)
					return err
				})
			}
		}
	}
	var cmd tea.Cmd
	t.list, cmd = t.list.Update(msg)
	return t, cmd
}

func (t WorkspacesTab) View() string {
	if t.width == 0 || t.height == 0 {
		return ""
	}
	return lipgloss.NewStyle().Width(t.width).Height(t.height).Render(t.list.View())
}

// renderOutputs shows outputs and panels as two plain tables.
func renderOutputs(outputs []compositor.OutputInfo, panels []compositor.PanelInfo, width, height int) string {
	rect := func(r compositor.Rect) string {
		return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
	}
	header := lipgloss.NewStyle().Bold(true)

	var b strings.Builder
	b.WriteString(header.Render(fmt.Sprintf("%-16s %-20s %-20s", "OUTPUT", "BOX", "USABLE")))
	b.WriteString("\n")
	for _, o := range outputs {
		fmt.Fprintf(&b, "%-16s %-20s %-20s\n", o.Name, rect(o.Box), rect(o.Usable))
	}
	if len(outputs) == 0 {
		b.WriteString(labelStyle.Render("no outputs") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(header.Render(fmt.Sprintf("%-12s %-10s %-12s %-16s %-20s", "PANEL", "LAYER", "WORKSPACE", "OUTPUT", "BOX")))
	b.WriteString("\n")
	for _, p := range panels {
		out := p.Output
		if !p.Attached {
			out = "(detached)"
		}
		fmt.Fprintf(&b, "%-12s %-10s %-12s %-16s %-20s\n", p.Name, p.Layer, p.Workspace, out, rect(p.Box))
	}
	if len(panels) == 0 {
		b.WriteString(labelStyle.Render("no panels") + "\n")
	}

	return lipgloss.NewStyle().Width(width).Height(height).Padding(0, 1).Render(b.String())
}
