package wlmtk

// Linux input event codes for pointer buttons.
const (
	ButtonLeft   uint32 = 0x110
	ButtonRight  uint32 = 0x111
	ButtonMiddle uint32 = 0x112
)

// PointerMotionEvent carries pointer coordinates relative to the receiving
// element's origin.
type PointerMotionEvent struct {
	X        float64
	Y        float64
	TimeMsec uint32
}

// translate returns the event in the coordinate space of a child at (x, y).
func (ev PointerMotionEvent) translate(x, y int) PointerMotionEvent {
	ev.X -= float64(x)
	ev.Y -= float64(y)
	return ev
}

// ButtonEventType distinguishes the synthesized kinds of button events.
type ButtonEventType int

const (
	ButtonDown ButtonEventType = iota
	ButtonUp
	ButtonClick
)

func (t ButtonEventType) String() string {
	switch t {
	case ButtonDown:
		return "down"
	case ButtonUp:
		return "up"
	case ButtonClick:
		return "click"
	default:
		return "unknown"
	}
}

// ButtonEvent is a pointer button event.
type ButtonEvent struct {
	Button   uint32
	Type     ButtonEventType
	TimeMsec uint32
}

// AxisOrientation is the orientation of a scroll event.
type AxisOrientation int

const (
	AxisVertical AxisOrientation = iota
	AxisHorizontal
)

// AxisEvent is a scroll event.
type AxisEvent struct {
	Orientation AxisOrientation
	Delta       float64
	TimeMsec    uint32
}

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Keycode   uint32
	Keysym    uint32
	Pressed   bool
	Modifiers uint32
	TimeMsec  uint32
}
