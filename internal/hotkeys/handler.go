package hotkeys

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/wlmaker/internal/compositor"
	"github.com/1broseidon/wlmaker/internal/config"
	"github.com/1broseidon/wlmaker/internal/platform"
)

// Dispatcher hands an action to the goroutine that owns the compositor.
type Dispatcher func(compositor.Action)

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Binding ties a key sequence in keybind syntax to an action.
type Binding struct {
	Keys   string
	Action compositor.Action
}

// Bindings returns the configured bindings, skipping empty ones.
func Bindings(cfg config.HotkeyConfig) []Binding {
	all := []Binding{
		{cfg.NextWorkspace, compositor.ActionNextWorkspace},
		{cfg.PreviousWorkspace, compositor.ActionPreviousWorkspace},
		{cfg.NextWindow, compositor.ActionNextWindow},
		{cfg.PreviousWindow, compositor.ActionPreviousWindow},
		{cfg.Maximize, compositor.ActionToggleMaximize},
		{cfg.Fullscreen, compositor.ActionToggleFullscreen},
		{cfg.Close, compositor.ActionClose},
		{cfg.Lock, compositor.ActionLock},
	}
	out := all[:0]
	for _, b := range all {
		if strings.TrimSpace(b.Keys) != "" {
			out = append(out, b)
		}
	}
	return out
}

// Handler grabs global keys on the host X server.
type Handler struct {
	xu       *xgbutil.XUtil
	root     xproto.Window
	dispatch Dispatcher
	log      *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler returns nil if the backend has no X11 connection.
func NewHandler(backend platform.Backend, dispatch Dispatcher, logger *slog.Logger) *Handler {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:       xu,
		root:     accessor.RootWindow(),
		dispatch: dispatch,
		log:      logger,
	}
}

// RegisterAll grabs every configured binding. A binding that cannot be
// grabbed is logged and skipped; the number of grabbed keys is returned.
func (h *Handler) RegisterAll(cfg config.HotkeyConfig) int {
	n := 0
	for _, b := range Bindings(cfg) {
		if err := h.Register(b); err != nil {
			h.log.Warn("failed to register hotkey", "keys", b.Keys, "action", b.Action, "error", err)
			continue
		}
		n++
	}
	return n
}

// Register grabs one binding.
func (h *Handler) Register(b Binding) error {
	return h.RegisterFunc(b.Keys, func() {
		h.log.Debug("hotkey triggered", "keys", b.Keys, "action", b.Action)
		h.dispatch(b.Action)
	})
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	if err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true); err != nil {
		return fmt.Errorf("grab %q: %w", keySequence, err)
	}
	return nil
}

// UnregisterAll releases all grabbed keys, before registering a new set.
func (h *Handler) UnregisterAll() {
	keybind.Detach(h.xu, h.root)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
