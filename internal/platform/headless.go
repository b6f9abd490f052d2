package platform

import (
	"slices"
	"sync"

	"github.com/1broseidon/wlmaker/internal/config"
)

// HeadlessBackend serves a fixed, replaceable list of displays. It is
// used for tests and for running without a display server.
type HeadlessBackend struct {
	mu       sync.RWMutex
	displays []Display
}

var _ Backend = (*HeadlessBackend)(nil)

func NewHeadlessBackend(displays []Display) *HeadlessBackend {
	return &HeadlessBackend{displays: slices.Clone(displays)}
}

// DisplaysFromConfig turns configured outputs into displays. The usable
// area is the whole display; panels are subtracted by the compositor.
func DisplaysFromConfig(outputs []config.OutputConfig) []Display {
	displays := make([]Display, 0, len(outputs))
	for i, o := range outputs {
		r := Rect{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}
		displays = append(displays, Display{ID: i, Name: o.Name, Bounds: r, Usable: r})
	}
	return displays
}

func (b *HeadlessBackend) Name() string { return "headless" }

func (b *HeadlessBackend) Displays() ([]Display, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.displays), nil
}

// SetDisplays replaces the displays, as if monitors were hotplugged.
func (b *HeadlessBackend) SetDisplays(displays []Display) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.displays = slices.Clone(displays)
}

func (b *HeadlessBackend) Close() {}
