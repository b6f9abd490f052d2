package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/wlmaker/internal/wlmtk"
)

func writeFile(t *testing.T, path string, lines ...string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if got := cfg.Style.WindowStyle(); got != wlmtk.DefaultWindowStyle() {
		t.Fatalf("expected default style to round-trip, got %+v", got)
	}
	if got := cfg.Menu.MenuStyle(); got != wlmtk.DefaultMenuStyle() {
		t.Fatalf("expected default menu style to round-trip, got %+v", got)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
	if res.Config.Backend != BackendAuto {
		t.Fatalf("expected backend auto, got %q", res.Config.Backend)
	}
}

func TestLoadFromPath_PartialOverrideKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path,
		"style:",
		"  titlebar:",
		"    height: 30",
		"workspaces:",
		"  - name: Web",
	)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Style.Titlebar.Height != 30 {
		t.Fatalf("expected titlebar height 30, got %d", cfg.Style.Titlebar.Height)
	}
	def := DefaultConfig()
	if cfg.Style.Resizebar != def.Style.Resizebar {
		t.Fatalf("expected resizebar defaults to survive, got %+v", cfg.Style.Resizebar)
	}
	if cfg.Style.Titlebar.FocusedFill != def.Style.Titlebar.FocusedFill {
		t.Fatalf("expected sibling titlebar keys to keep defaults")
	}
	if len(cfg.Workspaces) != 1 || cfg.Workspaces[0].Name != "Web" {
		t.Fatalf("expected workspace list to be replaced, got %+v", cfg.Workspaces)
	}
}

func TestLoadFromPath_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "gap_size: 4")

	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected unknown field to fail")
	}
}

func TestLoadFromPath_IncludesApplyBeforeFile(t *testing.T) {
	dir := t.TempDir()
	confd := filepath.Join(dir, "conf.d")
	if err := os.Mkdir(confd, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(confd, "10-style.yaml"),
		"log_level: debug",
		"style:",
		"  border:",
		"    width: 3",
	)
	writeFile(t, filepath.Join(confd, "20-level.yaml"), "log_level: warn")
	writeFile(t, filepath.Join(confd, "README.txt"), "ignored")
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path,
		"include: conf.d",
		"style:",
		"  border:",
		"    width: 2",
	)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.LogLevel != "warn" {
		t.Fatalf("expected later include to win, got %q", res.Config.LogLevel)
	}
	if res.Config.Style.Border.Width != 2 {
		t.Fatalf("expected including file to win, got %d", res.Config.Style.Border.Width)
	}
	if len(res.Files) != 3 || filepath.Base(res.Files[2]) != "config.yaml" {
		t.Fatalf("expected includes then config.yaml, got %v", res.Files)
	}

	_, src, err := Explain(res, "log_level")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if src.Kind != SourceFile || filepath.Base(src.File) != "20-level.yaml" || src.Line != 1 {
		t.Fatalf("unexpected source %+v", src)
	}
}

func TestLoadFromPath_IncludeCycle(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml")
	writeFile(t, b, "include: a.yaml")

	_, err := LoadFromPath(a)
	if err == nil || !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path,
		"panels:",
		"  - name: bar",
		"    layer: ceiling",
		"    anchor: [top]",
	)

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "panels.0.layer" {
		t.Fatalf("expected path panels.0.layer, got %q", verr.Path)
	}
	if verr.Source.Line != 3 {
		t.Fatalf("expected line 3, got %+v", verr.Source)
	}
	if !strings.Contains(err.Error(), "config.yaml:3:") {
		t.Fatalf("expected file:line in message, got %q", err.Error())
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"backend", func(c *Config) { c.Backend = "wayland" }, "backend"},
		{"no workspaces", func(c *Config) { c.Workspaces = nil }, "workspaces"},
		{"dup workspace", func(c *Config) { c.Workspaces = append(c.Workspaces, c.Workspaces[0]) }, "workspaces.2.name"},
		{"headless no outputs", func(c *Config) { c.Backend = BackendHeadless; c.Outputs = nil }, "outputs"},
		{"fill type", func(c *Config) { c.Style.Resizebar.Fill.Type = "plaid" }, "style.resizebar.fill.type"},
		{"anchor", func(c *Config) { c.Panels[0].Anchor = []string{"middle"} }, "panels.0.anchor"},
		{"panel workspace", func(c *Config) { c.Panels[0].Workspace = "Nope" }, "panels.0.workspace"},
		{"property", func(c *Config) { c.Windows.Properties = []string{"sticky"} }, "windows.properties"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q", tt.path, verr.Path)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#102030", 0xff102030, true},
		{"#80102030", 0x80102030, true},
		{"0xff000000", 0xff000000, true},
		{"102030", 0, false},
		{"#12345", 0, false},
		{"#zzzzzz", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err == nil) != tt.ok {
			t.Fatalf("ParseColor(%q) err=%v, want ok=%v", tt.in, err, tt.ok)
		}
		if tt.ok && got != tt.want {
			t.Fatalf("ParseColor(%q)=%s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestExplain_Paths(t *testing.T) {
	res := &LoadResult{Config: DefaultConfig(), Sources: map[string]Source{}}

	val, src, err := Explain(res, "style.titlebar.height")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 22 {
		t.Fatalf("expected 22, got %v", val)
	}
	if src.Kind != SourceDefault {
		t.Fatalf("expected default source, got %+v", src)
	}

	val, _, err = Explain(res, "panels.0.name")
	if err != nil || val != "dock" {
		t.Fatalf("expected dock, got %v (%v)", val, err)
	}
	if _, _, err := Explain(res, "panels.9.name"); err == nil {
		t.Fatalf("expected out-of-range index to fail")
	}
	if _, _, err := Explain(res, "style.nope"); err == nil {
		t.Fatalf("expected unknown key to fail")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Panels[0].Color = 0x80112233
	cfg.LogLevel = "debug"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Panels[0].Color != 0x80112233 {
		t.Fatalf("expected colour to survive, got %s", res.Config.Panels[0].Color)
	}
	if res.Config.LogLevel != "debug" {
		t.Fatalf("expected debug, got %q", res.Config.LogLevel)
	}
}

func TestDefaultConfigPath_Env(t *testing.T) {
	t.Setenv("WLMAKER_CONFIG", "/tmp/x.yaml")
	p, err := DefaultConfigPath()
	if err != nil || p != "/tmp/x.yaml" {
		t.Fatalf("expected env override, got %q (%v)", p, err)
	}
}

func TestPanelPositioningAndProperties(t *testing.T) {
	p := PanelConfig{Anchor: []string{"Left", "top", "bottom"}, ExclusiveZone: 40, Width: 40, Margins: Margins{Top: 2}}
	pos, err := p.Positioning()
	if err != nil {
		t.Fatalf("positioning: %v", err)
	}
	if pos.Anchor != wlmtk.EdgeLeft|wlmtk.EdgeTop|wlmtk.EdgeBottom || pos.Margin.Top != 2 {
		t.Fatalf("unexpected positioning %+v", pos)
	}

	props, err := ParseProperties([]string{"closable", "resizable"})
	if err != nil {
		t.Fatalf("properties: %v", err)
	}
	if props != wlmtk.PropertyClosable|wlmtk.PropertyResizable {
		t.Fatalf("unexpected properties %v", props)
	}
}
