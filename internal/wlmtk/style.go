package wlmtk

// Color is a 32-bit ARGB colour.
type Color uint32

// RGBA splits the colour into its components.
func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)
}

// FillType selects how a Fill paints.
type FillType int

const (
	FillSolid FillType = iota
	FillHGradient
	FillVGradient
	FillDGradient
	FillADGradient
)

func (f FillType) String() string {
	switch f {
	case FillSolid:
		return "solid"
	case FillHGradient:
		return "hgradient"
	case FillVGradient:
		return "vgradient"
	case FillDGradient:
		return "dgradient"
	case FillADGradient:
		return "adgradient"
	default:
		return "unknown"
	}
}

// ParseFillType maps a name as produced by String back to a FillType.
func ParseFillType(s string) (FillType, bool) {
	for f := FillSolid; f <= FillADGradient; f++ {
		if f.String() == s {
			return f, true
		}
	}
	return FillSolid, false
}

// Fill describes a solid colour or a two-colour gradient.
type Fill struct {
	Type FillType
	From Color
	To   Color
}

// TitlebarStyle configures the title bar.
type TitlebarStyle struct {
	FocusedFill      Fill
	BlurredFill      Fill
	FocusedTextColor Color
	BlurredTextColor Color
	Height           int
	BezelWidth       int
}

// ResizebarStyle configures the resize bar.
type ResizebarStyle struct {
	Fill        Fill
	Height      int
	BezelWidth  int
	CornerWidth int
}

// MarginStyle is the width and colour of a border or margin.
type MarginStyle struct {
	Width int
	Color Color
}

// WindowStyle bundles everything a decorated window is drawn with.
type WindowStyle struct {
	Titlebar  TitlebarStyle
	Resizebar ResizebarStyle
	Border    MarginStyle
	Margin    MarginStyle
}

// MenuStyle configures the window menu.
type MenuStyle struct {
	Fill                 Fill
	HighlightedFill      Fill
	EnabledTextColor     Color
	HighlightedTextColor Color
	DisabledTextColor    Color
	ItemWidth            int
	ItemHeight           int
	BezelWidth           int
}

// DefaultWindowStyle resembles the classic WindowMaker look.
func DefaultWindowStyle() WindowStyle {
	return WindowStyle{
		Titlebar: TitlebarStyle{
			FocusedFill:      Fill{Type: FillHGradient, From: 0xff505a5e, To: 0xff202a2e},
			BlurredFill:      Fill{Type: FillSolid, From: 0xffc2c0c5},
			FocusedTextColor: 0xffffffff,
			BlurredTextColor: 0xff000000,
			Height:           22,
			BezelWidth:       1,
		},
		Resizebar: ResizebarStyle{
			Fill:        Fill{Type: FillSolid, From: 0xffc2c0c5},
			Height:      7,
			BezelWidth:  1,
			CornerWidth: 29,
		},
		Border: MarginStyle{Width: 1, Color: 0xff000000},
		Margin: MarginStyle{Width: 1, Color: 0xff000000},
	}
}

// DefaultMenuStyle matches DefaultWindowStyle.
func DefaultMenuStyle() MenuStyle {
	return MenuStyle{
		Fill:                 Fill{Type: FillSolid, From: 0xffc2c0c5},
		HighlightedFill:      Fill{Type: FillSolid, From: 0xffffffff},
		EnabledTextColor:     0xff000000,
		HighlightedTextColor: 0xff000000,
		DisabledTextColor:    0xff808080,
		ItemWidth:            120,
		ItemHeight:           22,
		BezelWidth:           1,
	}
}
