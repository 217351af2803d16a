package core

import "reflect"

type contextFrame struct {
	id    uint64
	typ   reflect.Type
	value any
}

// ContextStack holds the values provided by the ancestors of the component
// currently updating. Frames are pushed by providers and popped when the
// provider's subtree has been reconciled.
type ContextStack struct {
	frames []contextFrame
	nextID uint64
}

// NewContextStack returns an empty stack.
func NewContextStack() *ContextStack {
	return &ContextStack{}
}

// Depth returns the number of frames on the stack.
func (s *ContextStack) Depth() int {
	return len(s.frames)
}

// Push provides value under typ until the returned Scope is released or the
// pushing component's subtree finishes.
func (s *ContextStack) Push(typ reflect.Type, value any) Scope {
	s.nextID++
	depth := len(s.frames)
	s.frames = append(s.frames, contextFrame{id: s.nextID, typ: typ, value: value})
	return Scope{stack: s, depth: depth, id: s.nextID}
}

// Lookup returns the innermost value provided under typ.
func (s *ContextStack) Lookup(typ reflect.Type) (any, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].typ == typ {
			return s.frames[i].value, true
		}
	}
	return nil, false
}

func (s *ContextStack) popTo(depth int) {
	if depth < 0 || depth >= len(s.frames) {
		return
	}
	clear(s.frames[depth:])
	s.frames = s.frames[:depth]
}

func (s *ContextStack) restore(frames []contextFrame) {
	for _, f := range frames {
		s.Push(f.typ, f.value)
	}
}

func (s *ContextStack) snapshot(from int) []contextFrame {
	if from >= len(s.frames) {
		return nil
	}
	return append([]contextFrame(nil), s.frames[from:]...)
}

// Scope ends a Push. Releasing pops the frame and anything pushed after it;
// releasing twice, or after the stack already unwound, does nothing.
type Scope struct {
	stack *ContextStack
	depth int
	id    uint64
}

// Release pops the scope's frame.
func (sc Scope) Release() {
	s := sc.stack
	if s == nil || sc.depth >= len(s.frames) || s.frames[sc.depth].id != sc.id {
		return
	}
	s.popTo(sc.depth)
}

// Consume returns the innermost value of type T on s.
func Consume[T any](s *ContextStack) (T, bool) {
	var zero T
	if s == nil {
		return zero, false
	}
	v, ok := s.Lookup(reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}
	// A nil interface value was provided; it still counts as provided.
	t, _ := v.(T)
	return t, true
}

// Provide makes value visible to the updating component's descendants as
// type T. The frame stays in place until the component's subtree has been
// reconciled. Releasing the Scope before Update returns withdraws the value
// from the whole subtree.
func Provide[T any](u *Updater, value T) Scope {
	u.check()
	return u.pass.stack.Push(reflect.TypeFor[T](), value)
}

// ProvideValue is Provide keyed by the dynamic type of value. A nil value
// provides nothing.
func ProvideValue(u *Updater, value any) Scope {
	u.check()
	if value == nil {
		return Scope{}
	}
	return u.pass.stack.Push(reflect.TypeOf(value), value)
}
