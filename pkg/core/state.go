package core

import "sync"

// State is the handle to a UseState slot. Set and Update may be called from
// any goroutine; they queue the change and schedule the owning instance for
// the next render pass, where queued changes apply in call order.
type State[T any] struct {
	mu      sync.Mutex
	value   T
	pending []func(T) T
	owner   *instance
}

func newState[T any](initial T, owner *instance) *State[T] {
	return &State[T]{value: initial, owner: owner}
}

// Get returns the last committed value.
func (s *State[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set queues a replacement value.
func (s *State[T]) Set(value T) {
	s.Update(func(T) T { return value })
}

// Update queues fn to transform the value.
func (s *State[T]) Update(fn func(T) T) {
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()
	if s.owner != nil {
		s.owner.scheduleBuild()
	}
}

// resolve applies queued changes without consuming them and reports how
// many were applied.
func (s *State[T]) resolve() (T, int) {
	s.mu.Lock()
	value := s.value
	pending := s.pending
	s.mu.Unlock()
	for _, fn := range pending {
		value = fn(value)
	}
	return value, len(pending)
}

// commit stores value and drops the first n queued changes. Changes queued
// after resolve stay pending for the next pass.
func (s *State[T]) commit(value T, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.pending = append(s.pending[:0:0], s.pending[n:]...)
}
