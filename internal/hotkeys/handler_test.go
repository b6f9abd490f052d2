package hotkeys

import (
	"testing"

	"github.com/1broseidon/wlmaker/internal/compositor"
	"github.com/1broseidon/wlmaker/internal/config"
	"github.com/1broseidon/wlmaker/internal/platform"
)

func TestBindings_SkipsEmpty(t *testing.T) {
	cfg := config.DefaultConfig().Hotkeys
	cfg.Close = ""
	cfg.Lock = "  "

	bindings := Bindings(cfg)
	if len(bindings) != 6 {
		t.Fatalf("expected 6 bindings, got %d", len(bindings))
	}
	for _, b := range bindings {
		if b.Action == compositor.ActionClose || b.Action == compositor.ActionLock {
			t.Fatalf("expected %s to be skipped", b.Action)
		}
	}
	if bindings[0].Keys != "Mod4-Right" || bindings[0].Action != compositor.ActionNextWorkspace {
		t.Fatalf("unexpected first binding %+v", bindings[0])
	}
}

func TestNewHandler_NilWithoutX11(t *testing.T) {
	h := NewHandler(platform.NewHeadlessBackend(nil), func(compositor.Action) {}, nil)
	if h != nil {
		t.Fatalf("expected no handler for headless backend")
	}
}
