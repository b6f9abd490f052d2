// Package gfx paints decoration buffers into in-memory RGBA images.
package gfx

import (
	"image"
	"image/color"

	"github.com/1broseidon/wlmaker/internal/wlmtk"
)

// Buffer is an RGBA image usable as a wlmtk.Buffer.
type Buffer struct {
	*image.RGBA
}

func (b Buffer) Width() int  { return b.Rect.Dx() }
func (b Buffer) Height() int { return b.Rect.Dy() }

// Renderer paints and caches decoration buffers. Identical requests share
// one buffer.
type Renderer struct {
	cache    map[wlmtk.BufferRequest]Buffer
	order    []wlmtk.BufferRequest
	capacity int

	hits   int
	misses int
}

// DefaultCacheSize bounds the number of cached buffers.
const DefaultCacheSize = 256

// NewRenderer returns a renderer caching up to capacity buffers.
func NewRenderer(capacity int) *Renderer {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &Renderer{cache: make(map[wlmtk.BufferRequest]Buffer), capacity: capacity}
}

// Render implements wlmtk.Renderer. Requests with an empty area return nil
// so the toolkit falls back to a placeholder.
func (r *Renderer) Render(req wlmtk.BufferRequest) wlmtk.Buffer {
	if req.Width <= 0 || req.Height <= 0 {
		return nil
	}
	if buf, ok := r.cache[req]; ok {
		r.hits++
		return buf
	}
	r.misses++
	buf := Buffer{Paint(req)}
	if len(r.order) >= r.capacity {
		delete(r.cache, r.order[0])
		r.order = r.order[1:]
	}
	r.cache[req] = buf
	r.order = append(r.order, req)
	return buf
}

// Stats returns cache hits, misses and the current number of buffers.
func (r *Renderer) Stats() (hits, misses, size int) {
	return r.hits, r.misses, len(r.cache)
}

// Paint draws req into a new image: the fill, a bezel, and a glyph for
// buttons. Labels are left to the client-side text renderer.
func Paint(req wlmtk.BufferRequest) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, req.Width, req.Height))
	fill := req.Fill
	if req.State == wlmtk.StateHighlighted || req.State == wlmtk.StatePressed {
		fill.From, fill.To = invert(fill.From), invert(fill.To)
	}
	PaintFill(img, fill)
	PaintBezel(img, req.BezelWidth, req.State != wlmtk.StatePressed)

	switch req.Kind {
	case wlmtk.BufferButtonClose:
		paintCross(img, req.TextColor)
	case wlmtk.BufferButtonMinimize:
		paintSquare(img, req.TextColor)
	}
	return img
}

// PaintFill fills the image with a solid colour or gradient.
func PaintFill(img *image.RGBA, fill wlmtk.Fill) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var t float64
			switch fill.Type {
			case wlmtk.FillHGradient:
				t = ratio(x, w)
			case wlmtk.FillVGradient:
				t = ratio(y, h)
			case wlmtk.FillDGradient:
				t = (ratio(x, w) + ratio(y, h)) / 2
			case wlmtk.FillADGradient:
				t = (ratio(w-1-x, w) + ratio(y, h)) / 2
			}
			img.SetRGBA(b.Min.X+x, b.Min.Y+y, blend(fill.From, fill.To, t))
		}
	}
}

// PaintBezel draws a raised (or sunken) bevel of the given width.
func PaintBezel(img *image.RGBA, width int, raised bool) {
	if width <= 0 {
		return
	}
	light := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x99}
	dark := color.RGBA{A: 0x99}
	if !raised {
		light, dark = dark, light
	}
	b := img.Bounds()
	for i := 0; i < width; i++ {
		for x := b.Min.X + i; x < b.Max.X-i; x++ {
			over(img, x, b.Min.Y+i, light)
			over(img, x, b.Max.Y-1-i, dark)
		}
		for y := b.Min.Y + i + 1; y < b.Max.Y-1-i; y++ {
			over(img, b.Min.X+i, y, light)
			over(img, b.Max.X-1-i, y, dark)
		}
	}
}

func paintCross(img *image.RGBA, c wlmtk.Color) {
	b := img.Bounds()
	n := min(b.Dx(), b.Dy())
	m := n / 4
	col := toRGBA(c)
	for i := m; i < n-m; i++ {
		img.SetRGBA(b.Min.X+i, b.Min.Y+i, col)
		img.SetRGBA(b.Min.X+n-1-i, b.Min.Y+i, col)
	}
}

func paintSquare(img *image.RGBA, c wlmtk.Color) {
	b := img.Bounds()
	n := min(b.Dx(), b.Dy())
	m := n / 4
	col := toRGBA(c)
	for i := m; i < n-m; i++ {
		img.SetRGBA(b.Min.X+i, b.Min.Y+m, col)
		img.SetRGBA(b.Min.X+i, b.Min.Y+n-1-m, col)
		img.SetRGBA(b.Min.X+m, b.Min.Y+i, col)
		img.SetRGBA(b.Min.X+n-1-m, b.Min.Y+i, col)
	}
}

func ratio(v, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(v) / float64(n-1)
}

func toRGBA(c wlmtk.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: r, G: g, B: b, A: a}
}

func invert(c wlmtk.Color) wlmtk.Color {
	return c&0xff000000 | ^c&0x00ffffff
}

func blend(from, to wlmtk.Color, t float64) color.RGBA {
	f, e := toRGBA(from), toRGBA(to)
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return color.RGBA{R: mix(f.R, e.R), G: mix(f.G, e.G), B: mix(f.B, e.B), A: mix(f.A, e.A)}
}

// over composites c onto the pixel at (x, y).
func over(img *image.RGBA, x, y int, c color.RGBA) {
	dst := img.RGBAAt(x, y)
	a := float64(c.A) / 255
	mix := func(s, d uint8) uint8 {
		return uint8(float64(s)*a + float64(d)*(1-a) + 0.5)
	}
	img.SetRGBA(x, y, color.RGBA{R: mix(c.R, dst.R), G: mix(c.G, dst.G), B: mix(c.B, dst.B), A: max(dst.A, c.A)})
}
