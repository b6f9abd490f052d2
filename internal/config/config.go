package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/wlmaker/internal/wlmtk"
)

// Backend names the output provider used by the daemon.
type Backend string

const (
	BackendAuto     Backend = "auto"     // X11 when DISPLAY is set, else headless.
	BackendX11      Backend = "x11"      // Outputs from RandR on a nested X server.
	BackendHeadless Backend = "headless" // Outputs from the outputs list below.
)

// Margins are panel distances from anchored edges.
type Margins struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// OutputConfig describes one output of the headless backend.
type OutputConfig struct {
	Name   string `yaml:"name"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// WorkspaceConfig describes one workspace.
type WorkspaceConfig struct {
	Name string `yaml:"name"`
}

// FillConfig is a solid colour or gradient.
type FillConfig struct {
	Type string `yaml:"type"` // solid, hgradient, vgradient, dgradient, adgradient
	From Color  `yaml:"from"`
	To   Color  `yaml:"to,omitempty"`
}

type TitlebarConfig struct {
	FocusedFill      FillConfig `yaml:"focused_fill"`
	BlurredFill      FillConfig `yaml:"blurred_fill"`
	FocusedTextColor Color      `yaml:"focused_text_color"`
	BlurredTextColor Color      `yaml:"blurred_text_color"`
	Height           int        `yaml:"height"`
	BezelWidth       int        `yaml:"bezel_width"`
}

type ResizebarConfig struct {
	Fill        FillConfig `yaml:"fill"`
	Height      int        `yaml:"height"`
	BezelWidth  int        `yaml:"bezel_width"`
	CornerWidth int        `yaml:"corner_width"`
}

type MarginConfig struct {
	Width int   `yaml:"width"`
	Color Color `yaml:"color"`
}

// StyleConfig is the window decoration style.
type StyleConfig struct {
	Titlebar  TitlebarConfig  `yaml:"titlebar"`
	Resizebar ResizebarConfig `yaml:"resizebar"`
	Border    MarginConfig    `yaml:"border"`
	Margin    MarginConfig    `yaml:"margin"`
}

// MenuConfig is the window menu style.
type MenuConfig struct {
	Fill                 FillConfig `yaml:"fill"`
	HighlightedFill      FillConfig `yaml:"highlighted_fill"`
	EnabledTextColor     Color      `yaml:"enabled_text_color"`
	HighlightedTextColor Color      `yaml:"highlighted_text_color"`
	DisabledTextColor    Color      `yaml:"disabled_text_color"`
	ItemWidth            int        `yaml:"item_width"`
	ItemHeight           int        `yaml:"item_height"`
	BezelWidth           int        `yaml:"bezel_width"`
}

// PanelConfig places a panel (dock, clip, bar) on a layer.
type PanelConfig struct {
	Name          string   `yaml:"name"`
	Layer         string   `yaml:"layer"`               // background, bottom, top, overlay
	Output        string   `yaml:"output,omitempty"`    // empty = first output
	Workspace     string   `yaml:"workspace,omitempty"` // empty = every workspace
	Anchor        []string `yaml:"anchor"`              // top, bottom, left, right
	ExclusiveZone int      `yaml:"exclusive_zone"`
	Width         int      `yaml:"width"`
	Height        int      `yaml:"height"`
	Margins       Margins  `yaml:"margins"`
	Color         Color    `yaml:"color"`
}

// HotkeyConfig binds global keys (xgbutil keybind syntax) to actions.
type HotkeyConfig struct {
	NextWorkspace     string `yaml:"next_workspace"`
	PreviousWorkspace string `yaml:"previous_workspace"`
	NextWindow        string `yaml:"next_window"`
	PreviousWindow    string `yaml:"previous_window"`
	Maximize          string `yaml:"maximize"`
	Fullscreen        string `yaml:"fullscreen"`
	Close             string `yaml:"close"`
	Lock              string `yaml:"lock"`
}

// WindowDefaults apply to windows created without explicit options.
type WindowDefaults struct {
	Width      int      `yaml:"width"`
	Height     int      `yaml:"height"`
	Decorated  bool     `yaml:"decorated"`
	Properties []string `yaml:"properties"` // resizable, iconifiable, closable, rightclick
}

// Config holds the application configuration.
type Config struct {
	Include             IncludeList       `yaml:"include,omitempty"`
	LogLevel            string            `yaml:"log_level"`
	Backend             Backend           `yaml:"backend"`
	Display             string            `yaml:"display,omitempty"`
	ReconcileIntervalMS int               `yaml:"reconcile_interval_ms"`
	Outputs             []OutputConfig    `yaml:"outputs"`
	Workspaces          []WorkspaceConfig `yaml:"workspaces"`
	Style               StyleConfig       `yaml:"style"`
	Menu                MenuConfig        `yaml:"menu"`
	Panels              []PanelConfig     `yaml:"panels"`
	Hotkeys             HotkeyConfig      `yaml:"hotkeys"`
	Windows             WindowDefaults    `yaml:"windows"`
}

// DefaultConfig mirrors wlmtk's default styles, with two workspaces, a
// single 1280x800 headless output and a dock on the right.
func DefaultConfig() *Config {
	ws := wlmtk.DefaultWindowStyle()
	ms := wlmtk.DefaultMenuStyle()
	return &Config{
		LogLevel:            "info",
		Backend:             BackendAuto,
		ReconcileIntervalMS: 2000,
		Outputs: []OutputConfig{
			{Name: "HEADLESS-1", Width: 1280, Height: 800},
		},
		Workspaces: []WorkspaceConfig{
			{Name: "Main"},
			{Name: "Other"},
		},
		Style: StyleConfig{
			Titlebar: TitlebarConfig{
				FocusedFill:      fillConfig(ws.Titlebar.FocusedFill),
				BlurredFill:      fillConfig(ws.Titlebar.BlurredFill),
				FocusedTextColor: Color(ws.Titlebar.FocusedTextColor),
				BlurredTextColor: Color(ws.Titlebar.BlurredTextColor),
				Height:           ws.Titlebar.Height,
				BezelWidth:       ws.Titlebar.BezelWidth,
			},
			Resizebar: ResizebarConfig{
				Fill:        fillConfig(ws.Resizebar.Fill),
				Height:      ws.Resizebar.Height,
				BezelWidth:  ws.Resizebar.BezelWidth,
				CornerWidth: ws.Resizebar.CornerWidth,
			},
			Border: MarginConfig{Width: ws.Border.Width, Color: Color(ws.Border.Color)},
			Margin: MarginConfig{Width: ws.Margin.Width, Color: Color(ws.Margin.Color)},
		},
		Menu: MenuConfig{
			Fill:                 fillConfig(ms.Fill),
			HighlightedFill:      fillConfig(ms.HighlightedFill),
			EnabledTextColor:     Color(ms.EnabledTextColor),
			HighlightedTextColor: Color(ms.HighlightedTextColor),
			DisabledTextColor:    Color(ms.DisabledTextColor),
			ItemWidth:            ms.ItemWidth,
			ItemHeight:           ms.ItemHeight,
			BezelWidth:           ms.BezelWidth,
		},
		Panels: []PanelConfig{
			{
				Name:          "dock",
				Layer:         "top",
				Anchor:        []string{"right", "top", "bottom"},
				ExclusiveZone: 64,
				Width:         64,
				Color:         0xff2e3436,
			},
		},
		Hotkeys: HotkeyConfig{
			NextWorkspace:     "Mod4-Right",
			PreviousWorkspace: "Mod4-Left",
			NextWindow:        "Mod1-Tab",
			PreviousWindow:    "Mod1-Shift-Tab",
			Maximize:          "Mod4-Up",
			Fullscreen:        "Mod4-f",
			Close:             "Mod4-q",
			Lock:              "Mod4-l",
		},
		Windows: WindowDefaults{
			Width:      640,
			Height:     480,
			Decorated:  true,
			Properties: []string{"resizable", "iconifiable", "closable", "rightclick"},
		},
	}
}

func DefaultConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv("WLMAKER_CONFIG")); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "wlmaker", "config.yaml"), nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	save := *c
	save.Include = nil
	data, err := yaml.Marshal(&save)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	switch c.Backend {
	case BackendAuto, BackendX11, BackendHeadless:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: auto, x11, headless")}
	}
	if c.ReconcileIntervalMS < 0 {
		return &ValidationError{Path: "reconcile_interval_ms", Err: fmt.Errorf("reconcile_interval_ms must be >= 0")}
	}

	seen := map[string]struct{}{}
	for i, o := range c.Outputs {
		path := fmt.Sprintf("outputs.%d", i)
		if strings.TrimSpace(o.Name) == "" {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("output name is required")}
		}
		if _, dup := seen[o.Name]; dup {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("duplicate output %q", o.Name)}
		}
		seen[o.Name] = struct{}{}
		if o.Width <= 0 || o.Height <= 0 {
			return &ValidationError{Path: path, Err: fmt.Errorf("output size must be positive")}
		}
	}
	if c.Backend == BackendHeadless && len(c.Outputs) == 0 {
		return &ValidationError{Path: "outputs", Err: fmt.Errorf("headless backend needs at least one output")}
	}

	if len(c.Workspaces) == 0 {
		return &ValidationError{Path: "workspaces", Err: fmt.Errorf("workspaces must not be empty")}
	}
	seen = map[string]struct{}{}
	for i, w := range c.Workspaces {
		if strings.TrimSpace(w.Name) == "" {
			return &ValidationError{Path: fmt.Sprintf("workspaces.%d.name", i), Err: fmt.Errorf("workspace name is required")}
		}
		if _, dup := seen[w.Name]; dup {
			return &ValidationError{Path: fmt.Sprintf("workspaces.%d.name", i), Err: fmt.Errorf("duplicate workspace %q", w.Name)}
		}
		seen[w.Name] = struct{}{}
	}

	if err := c.Style.validate(); err != nil {
		return err
	}
	if err := c.Menu.validate(); err != nil {
		return err
	}

	seen = map[string]struct{}{}
	for i, p := range c.Panels {
		path := fmt.Sprintf("panels.%d", i)
		if strings.TrimSpace(p.Name) == "" {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("panel name is required")}
		}
		if _, dup := seen[p.Name]; dup {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("duplicate panel %q", p.Name)}
		}
		seen[p.Name] = struct{}{}
		if _, ok := wlmtk.ParseLayerKind(p.Layer); !ok {
			return &ValidationError{Path: path + ".layer", Err: fmt.Errorf("layer must be one of: background, bottom, top, overlay")}
		}
		if _, err := p.Positioning(); err != nil {
			return &ValidationError{Path: path + ".anchor", Err: err}
		}
		if p.Width < 0 || p.Height < 0 {
			return &ValidationError{Path: path, Err: fmt.Errorf("panel size must be >= 0")}
		}
		if p.Workspace != "" {
			if _, ok := c.WorkspaceIndex(p.Workspace); !ok {
				return &ValidationError{Path: path + ".workspace", Err: fmt.Errorf("unknown workspace %q", p.Workspace)}
			}
		}
	}

	if c.Windows.Width <= 0 || c.Windows.Height <= 0 {
		return &ValidationError{Path: "windows", Err: fmt.Errorf("default window size must be positive")}
	}
	if _, err := ParseProperties(c.Windows.Properties); err != nil {
		return &ValidationError{Path: "windows.properties", Err: err}
	}
	return nil
}

func (s StyleConfig) validate() error {
	if s.Titlebar.Height <= 0 {
		return &ValidationError{Path: "style.titlebar.height", Err: fmt.Errorf("height must be > 0")}
	}
	if s.Resizebar.Height <= 0 {
		return &ValidationError{Path: "style.resizebar.height", Err: fmt.Errorf("height must be > 0")}
	}
	if s.Resizebar.CornerWidth < 0 {
		return &ValidationError{Path: "style.resizebar.corner_width", Err: fmt.Errorf("corner_width must be >= 0")}
	}
	if s.Border.Width < 0 || s.Margin.Width < 0 {
		return &ValidationError{Path: "style", Err: fmt.Errorf("border and margin widths must be >= 0")}
	}
	if s.Titlebar.BezelWidth*2 > s.Titlebar.Height {
		return &ValidationError{Path: "style.titlebar.bezel_width", Err: fmt.Errorf("bezel does not fit into the titlebar")}
	}
	fills := map[string]FillConfig{
		"style.titlebar.focused_fill": s.Titlebar.FocusedFill,
		"style.titlebar.blurred_fill": s.Titlebar.BlurredFill,
		"style.resizebar.fill":        s.Resizebar.Fill,
	}
	for path, f := range fills {
		if _, ok := wlmtk.ParseFillType(f.Type); !ok {
			return &ValidationError{Path: path + ".type", Err: fmt.Errorf("unknown fill type %q", f.Type)}
		}
	}
	return nil
}

func (m MenuConfig) validate() error {
	if m.ItemWidth <= 0 || m.ItemHeight <= 0 {
		return &ValidationError{Path: "menu", Err: fmt.Errorf("menu item size must be positive")}
	}
	for path, f := range map[string]FillConfig{"menu.fill": m.Fill, "menu.highlighted_fill": m.HighlightedFill} {
		if _, ok := wlmtk.ParseFillType(f.Type); !ok {
			return &ValidationError{Path: path + ".type", Err: fmt.Errorf("unknown fill type %q", f.Type)}
		}
	}
	return nil
}

// WorkspaceIndex returns the position of the named workspace.
func (c *Config) WorkspaceIndex(name string) (int, bool) {
	for i, w := range c.Workspaces {
		if w.Name == name {
			return i, true
		}
	}
	return 0, false
}

func fillConfig(f wlmtk.Fill) FillConfig {
	return FillConfig{Type: f.Type.String(), From: Color(f.From), To: Color(f.To)}
}

// Fill converts to the toolkit representation. Unknown types fall back to
// solid; Validate rejects them.
func (f FillConfig) Fill() wlmtk.Fill {
	t, _ := wlmtk.ParseFillType(f.Type)
	return wlmtk.Fill{Type: t, From: wlmtk.Color(f.From), To: wlmtk.Color(f.To)}
}

// WindowStyle converts the style to the toolkit representation.
func (s StyleConfig) WindowStyle() wlmtk.WindowStyle {
	return wlmtk.WindowStyle{
		Titlebar: wlmtk.TitlebarStyle{
			FocusedFill:      s.Titlebar.FocusedFill.Fill(),
			BlurredFill:      s.Titlebar.BlurredFill.Fill(),
			FocusedTextColor: wlmtk.Color(s.Titlebar.FocusedTextColor),
			BlurredTextColor: wlmtk.Color(s.Titlebar.BlurredTextColor),
			Height:           s.Titlebar.Height,
			BezelWidth:       s.Titlebar.BezelWidth,
		},
		Resizebar: wlmtk.ResizebarStyle{
			Fill:        s.Resizebar.Fill.Fill(),
			Height:      s.Resizebar.Height,
			BezelWidth:  s.Resizebar.BezelWidth,
			CornerWidth: s.Resizebar.CornerWidth,
		},
		Border: wlmtk.MarginStyle{Width: s.Border.Width, Color: wlmtk.Color(s.Border.Color)},
		Margin: wlmtk.MarginStyle{Width: s.Margin.Width, Color: wlmtk.Color(s.Margin.Color)},
	}
}

// MenuStyle converts the menu style to the toolkit representation.
func (m MenuConfig) MenuStyle() wlmtk.MenuStyle {
	return wlmtk.MenuStyle{
		Fill:                 m.Fill.Fill(),
		HighlightedFill:      m.HighlightedFill.Fill(),
		EnabledTextColor:     wlmtk.Color(m.EnabledTextColor),
		HighlightedTextColor: wlmtk.Color(m.HighlightedTextColor),
		DisabledTextColor:    wlmtk.Color(m.DisabledTextColor),
		ItemWidth:            m.ItemWidth,
		ItemHeight:           m.ItemHeight,
		BezelWidth:           m.BezelWidth,
	}
}

// Positioning converts the panel placement to the toolkit representation.
func (p PanelConfig) Positioning() (wlmtk.PanelPositioning, error) {
	var anchor wlmtk.Edges
	for _, a := range p.Anchor {
		switch strings.ToLower(strings.TrimSpace(a)) {
		case "top":
			anchor |= wlmtk.EdgeTop
		case "bottom":
			anchor |= wlmtk.EdgeBottom
		case "left":
			anchor |= wlmtk.EdgeLeft
		case "right":
			anchor |= wlmtk.EdgeRight
		default:
			return wlmtk.PanelPositioning{}, fmt.Errorf("unknown anchor %q", a)
		}
	}
	return wlmtk.PanelPositioning{
		Anchor:        anchor,
		ExclusiveZone: p.ExclusiveZone,
		Width:         p.Width,
		Height:        p.Height,
		Margin: wlmtk.Margins{
			Top:    p.Margins.Top,
			Bottom: p.Margins.Bottom,
			Left:   p.Margins.Left,
			Right:  p.Margins.Right,
		},
	}, nil
}

// ParseProperties maps property names to the toolkit bitset.
func ParseProperties(names []string) (wlmtk.Properties, error) {
	var p wlmtk.Properties
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "resizable":
			p |= wlmtk.PropertyResizable
		case "iconifiable":
			p |= wlmtk.PropertyIconifiable
		case "closable":
			p |= wlmtk.PropertyClosable
		case "rightclick":
			p |= wlmtk.PropertyRightClick
		default:
			return 0, fmt.Errorf("unknown window property %q", n)
		}
	}
	return p, nil
}

// PropertyNames is the inverse of ParseProperties.
func PropertyNames(p wlmtk.Properties) []string {
	var names []string
	for _, e := range []struct {
		bit  wlmtk.Properties
		name string
	}{
		{wlmtk.PropertyResizable, "resizable"},
		{wlmtk.PropertyIconifiable, "iconifiable"},
		{wlmtk.PropertyClosable, "closable"},
		{wlmtk.PropertyRightClick, "rightclick"},
	} {
		if p&e.bit != 0 {
			names = append(names, e.name)
		}
	}
	return names
}
