package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/wlmaker/internal/compositor"
	"github.com/1broseidon/wlmaker/internal/ipc"
)

// windowItem is a list item representing a window.
type windowItem struct {
	info compositor.WindowInfo
}

func (i windowItem) Title() string {
	mark := "  "
	if i.info.Activated {
		mark = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Render("★") + " "
	}
	return mark + i.info.Title
}

func (i windowItem) Description() string {
	parts := []string{shortID(i.info.ID), i.info.Workspace}
	parts = append(parts, windowFlags(i.info)...)
	return strings.Join(parts, " | ")
}

func (i windowItem) FilterValue() string { return i.info.Title }

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func windowFlags(w compositor.WindowInfo) []string {
	var flags []string
	if w.Maximized {
		flags = append(flags, "maximized")
	}
	if w.Fullscreen {
		flags = append(flags, "fullscreen")
	}
	if w.Shaded {
		flags = append(flags, "shaded")
	}
	if w.Minimized {
		flags = append(flags, "minimized")
	}
	return flags
}

// WindowsTab lists windows and applies window operations.
type WindowsTab struct {
	list   list.Model
	client DaemonClient
	width  int
	height int
}

func newStyledList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = title
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

func NewWindowsTab(client DaemonClient) WindowsTab {
	return WindowsTab{list: newStyledList("Windows"), client: client}
}

// SetWindows replaces the listed windows, keeping the selection by ID.
func (t *WindowsTab) SetWindows(windows []compositor.WindowInfo) {
	selected := ""
	if item, ok := t.list.SelectedItem().(windowItem); ok {
		selected = item.info.ID
	}
	items := make([]list.Item, 0, len(windows))
	index := 0
	for i, w := range windows {
		items = append(items, windowItem{info: w})
		if w.ID == selected {
			index = i
		}
	}
	t.list.SetItems(items)
	if len(items) > 0 {
		t.list.Select(index)
	}
}

// Selected returns the selected window.
func (t WindowsTab) Selected() (compositor.WindowInfo, bool) {
	item, ok := t.list.SelectedItem().(windowItem)
	return item.info, ok
}

func (t WindowsTab) Update(msg tea.Msg) (WindowsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		t.list.SetSize(t.listWidth(), t.height)
		return t, nil

	case tea.KeyMsg:
		if msg.String() == "n" {
			return t, runOp("window created", func() error {
				_, err := t.client.CreateWindow(compositor.WindowOptions{})
				return err
			})
		}
		w, ok := t.Selected()
		if !ok {
			break
		}
		if op := keyOp(msg.String(), w); op != "" {
			return t, t.windowOp(w, op)
		}
	}

	var cmd tea.Cmd
	t.list, cmd = t.list.Update(msg)
	return t, cmd
}

// keyOp maps a key to the window operation it triggers on w. Toggles pick
// the direction from the current state.
func keyOp(key string, w compositor.WindowInfo) string {
	switch key {
	case "enter":
		return ipc.OpActivate
	case "m":
		if w.Maximized {
			return ipc.OpUnmaximize
		}
		return ipc.OpMaximize
	case "f":
		if w.Fullscreen {
			return ipc.OpUnfullscreen
		}
		return ipc.OpFullscreen
	case "s":
		if w.Shaded {
			return ipc.OpUnshade
		}
		return ipc.OpShade
	case "i":
		return ipc.OpMinimize
	case "r":
		return ipc.OpRestore
	case "x", "delete":
		return ipc.OpClose
	}
	return ""
}

func (t WindowsTab) windowOp(w compositor.WindowInfo, op string) tea.Cmd {
	text := fmt.Sprintf("%s %s", op, shortID(w.ID))
	return runOp(text, func() error {
		_, err := t.client.WindowOp(ipc.WindowOpPayload{Window: w.ID, Op: op})
		return err
	})
}

func (t WindowsTab) listWidth() int {
	w := t.width * 2 / 5
	if w < 24 {
		w = 24
	}
	return w
}

func (t WindowsTab) View() string {
	if t.width == 0 || t.height == 0 {
		return ""
	}
	leftWidth := t.listWidth()
	rightWidth := t.width - leftWidth
	if rightWidth < 10 {
		rightWidth = 10
	}

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(t.height).
		Render(t.list.View())

	var right string
	if w, ok := t.Selected(); ok {
		right = renderWindowDetail(w, rightWidth, t.height)
	} else {
		right = lipgloss.NewStyle().
			Width(rightWidth).
			Height(t.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No windows\nPress n to create one")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func renderWindowDetail(w compositor.WindowInfo, width, height int) string {
	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-12s", label)) + value
	}
	rect := func(r compositor.Rect) string {
		return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
	}
	state := strings.Join(windowFlags(w), ", ")
	if state == "" {
		state = "normal"
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(w.Title),
		"",
		row("id", w.ID),
		row("workspace", w.Workspace),
		row("output", w.Output),
		row("box", rect(w.Box)),
		row("content", rect(w.Content)),
		row("state", state),
		row("decorated", fmt.Sprint(w.Decorated)),
		row("activated", fmt.Sprint(w.Activated)),
		row("menu", fmt.Sprint(w.MenuOpen)),
		row("properties", strings.Join(w.Properties, ", ")),
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}
