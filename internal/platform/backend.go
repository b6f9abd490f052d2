package platform

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/1broseidon/wlmaker/internal/config"
)

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Backend provides the displays wlmaker lays its outputs out on.
type Backend interface {
	Name() string
	Displays() ([]Display, error)
	Close()
}

// DesktopPublisher is implemented by backends that can advertise the
// workspaces to the host session.
type DesktopPublisher interface {
	PublishDesktops(names []string, current int) error
}

// Open selects the backend named by cfg. With "auto", X11 is tried when a
// display is configured or $DISPLAY is set, and headless is the fallback.
func Open(cfg *config.Config, logger *slog.Logger) (Backend, error) {
	display := strings.TrimSpace(cfg.Display)
	if display == "" {
		display = os.Getenv("DISPLAY")
	}
	switch cfg.Backend {
	case config.BackendHeadless:
		return NewHeadlessBackend(DisplaysFromConfig(cfg.Outputs)), nil
	case config.BackendX11:
		return openX11(display)
	case config.BackendAuto, "":
		if display != "" {
			b, err := openX11(display)
			if err == nil {
				return b, nil
			}
			logger.Warn("x11 backend unavailable, running headless", "display", display, "error", err)
		}
		return NewHeadlessBackend(DisplaysFromConfig(cfg.Outputs)), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
