package wlmtk

// Buffer is an opaque pixel buffer handed out by a Renderer.
type Buffer interface {
	Width() int
	Height() int
}

// BufferKind names the decoration piece a buffer is drawn for.
type BufferKind int

const (
	BufferTitle BufferKind = iota
	BufferButtonMinimize
	BufferButtonClose
	BufferResizeCorner
	BufferResizeCenter
	BufferMenuItem
	BufferPanel
)

func (k BufferKind) String() string {
	switch k {
	case BufferTitle:
		return "title"
	case BufferButtonMinimize:
		return "minimize"
	case BufferButtonClose:
		return "close"
	case BufferResizeCorner:
		return "resize-corner"
	case BufferResizeCenter:
		return "resize-center"
	case BufferMenuItem:
		return "menu-item"
	case BufferPanel:
		return "panel"
	default:
		return "unknown"
	}
}

// BufferState is the visual state a buffer is drawn in.
type BufferState int

const (
	StateNormal BufferState = iota
	StateFocused
	StatePressed
	StateHighlighted
	StateDisabled
)

// BufferRequest describes a buffer. Equal requests may share a buffer.
type BufferRequest struct {
	Kind       BufferKind
	Width      int
	Height     int
	State      BufferState
	Label      string
	Fill       Fill
	TextColor  Color
	BezelWidth int
}

// Renderer paints buffers for decoration elements.
type Renderer interface {
	Render(req BufferRequest) Buffer
}

type placeholderBuffer struct {
	width  int
	height int
}

func (b placeholderBuffer) Width() int  { return b.width }
func (b placeholderBuffer) Height() int { return b.height }

// renderBuffer asks r for a buffer, falling back to a placeholder of the
// requested size when r is nil or declines.
func renderBuffer(r Renderer, req BufferRequest) Buffer {
	if r != nil {
		if buf := r.Render(req); buf != nil {
			return buf
		}
	}
	return placeholderBuffer{width: max(req.Width, 0), height: max(req.Height, 0)}
}
