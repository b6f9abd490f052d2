package wlmtk

// BufferElement displays a Buffer. Its dimensions are the buffer's.
type BufferElement struct {
	Elem
	buffer Buffer
}

func NewBufferElement(buf Buffer) *BufferElement {
	b := &BufferElement{}
	b.initBufferElement(b, buf)
	return b
}

func (b *BufferElement) initBufferElement(self Element, buf Buffer) {
	b.InitElement(self)
	b.buffer = buf
}

// SetBuffer swaps the displayed buffer. It does not trigger a parent
// layout update.
func (b *BufferElement) SetBuffer(buf Buffer) {
	b.buffer = buf
}

func (b *BufferElement) Buffer() Buffer {
	return b.buffer
}

func (b *BufferElement) Dimensions() Box {
	if b.buffer == nil {
		return Box{}
	}
	return Box{Width: b.buffer.Width(), Height: b.buffer.Height()}
}

// PointerMotion accepts the pointer anywhere on the buffer.
func (b *BufferElement) PointerMotion(ev PointerMotionEvent) bool {
	b.Elem.PointerMotion(ev)
	return true
}
