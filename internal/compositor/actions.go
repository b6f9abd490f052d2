package compositor

import (
	"fmt"
	"sort"
)

// Action is a named operation bound to a hotkey or sent over IPC.
type Action string

const (
	ActionNextWorkspace     Action = "next-workspace"
	ActionPreviousWorkspace Action = "previous-workspace"
	ActionNextWindow        Action = "next-window"
	ActionPreviousWindow    Action = "previous-window"
	ActionToggleMaximize    Action = "toggle-maximize"
	ActionToggleFullscreen  Action = "toggle-fullscreen"
	ActionClose             Action = "close"
	ActionLock              Action = "lock"
)

var actions = map[Action]func(c *Compositor) error{
	ActionNextWorkspace: func(c *Compositor) error {
		c.NextWorkspace()
		return nil
	},
	ActionPreviousWorkspace: func(c *Compositor) error {
		c.PreviousWorkspace()
		return nil
	},
	ActionNextWindow: func(c *Compositor) error {
		c.CycleWindows(1)
		return nil
	},
	ActionPreviousWindow: func(c *Compositor) error {
		c.CycleWindows(-1)
		return nil
	},
	ActionToggleMaximize: func(c *Compositor) error {
		w, err := c.Window("active")
		if err != nil {
			return err
		}
		_, err = c.SetMaximized(w.ID, !w.Maximized)
		return err
	},
	ActionToggleFullscreen: func(c *Compositor) error {
		w, err := c.Window("active")
		if err != nil {
			return err
		}
		_, err = c.SetFullscreen(w.ID, !w.Fullscreen)
		return err
	},
	ActionClose: func(c *Compositor) error {
		_, err := c.CloseWindow("active", false)
		return err
	},
	ActionLock: func(c *Compositor) error {
		return c.Lock()
	},
}

// Actions lists the known action names.
func Actions() []Action {
	out := make([]Action, 0, len(actions))
	for a := range actions {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RunAction performs the named action. While locked, only the lock
// surface gets input, so actions are refused.
func (c *Compositor) RunAction(a Action) error {
	fn, ok := actions[a]
	if !ok {
		return fmt.Errorf("action %q: %w", a, ErrNotFound)
	}
	if c.root.Locked() {
		return fmt.Errorf("action %q: session is locked", a)
	}
	return fn(c)
}
