package core

// Handler is an optional callback carried in a property bundle. The zero
// Handler is unset and invoking it does nothing, so components can call
// handlers without nil checks.
type Handler[T any] struct {
	fn func(T)
}

// HandlerOf wraps fn. A nil fn yields an unset handler.
func HandlerOf[T any](fn func(T)) Handler[T] {
	return Handler[T]{fn: fn}
}

// IsSet reports whether a callback is present.
func (h Handler[T]) IsSet() bool {
	return h.fn != nil
}

// Invoke calls the callback with v if one is set.
func (h Handler[T]) Invoke(v T) {
	if h.fn != nil {
		h.fn(v)
	}
}

// Take moves the callback out of h, leaving h unset.
func (h *Handler[T]) Take() Handler[T] {
	taken := *h
	h.fn = nil
	return taken
}

func (h *Handler[T]) setFunc(v any) bool {
	switch fn := v.(type) {
	case func(T):
		h.fn = fn
		return true
	case Handler[T]:
		*h = fn
		return true
	}
	return false
}
