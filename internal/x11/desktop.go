package x11

import (
	"fmt"

	"github.com/BurntSushi/xgbutil/ewmh"
)

// PublishDesktops advertises the workspaces as EWMH desktops on the root
// window, so pagers and bars of the host session can show them.
func (c *Connection) PublishDesktops(names []string, current int) error {
	if err := ewmh.NumberOfDesktopsSet(c.XUtil, uint(len(names))); err != nil {
		return fmt.Errorf("failed to set _NET_NUMBER_OF_DESKTOPS: %w", err)
	}
	if err := ewmh.DesktopNamesSet(c.XUtil, names); err != nil {
		return fmt.Errorf("failed to set _NET_DESKTOP_NAMES: %w", err)
	}
	if current < 0 || current >= len(names) {
		return nil
	}
	if err := ewmh.CurrentDesktopSet(c.XUtil, uint(current)); err != nil {
		return fmt.Errorf("failed to set _NET_CURRENT_DESKTOP: %w", err)
	}
	return nil
}
