package wlmtk

// Signal is a list of observers for events of type T.
type Signal[T any] struct {
	handlers []*signalHandler[T]
}

type signalHandler[T any] struct {
	fn func(T)
}

// Connect registers fn and returns a function that disconnects it again.
func (s *Signal[T]) Connect(fn func(T)) func() {
	h := &signalHandler[T]{fn: fn}
	s.handlers = append(s.handlers, h)
	return func() {
		for i, other := range s.handlers {
			if other == h {
				s.handlers = append(s.handlers[:i], s.handlers[i+1:]...)
				return
			}
		}
	}
}

// Emit calls all handlers connected at the time of the call. Handlers may
// connect or disconnect while the signal is being emitted.
func (s *Signal[T]) Emit(value T) {
	handlers := append([]*signalHandler[T](nil), s.handlers...)
	for _, h := range handlers {
		h.fn(value)
	}
}

// Len returns the number of connected handlers.
func (s *Signal[T]) Len() int {
	return len(s.handlers)
}
