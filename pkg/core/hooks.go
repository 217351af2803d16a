package core

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"github.com/go-drift/drift-tui/pkg/errors"
)

type slotKind uint8

const (
	slotState slotKind = iota + 1
	slotMemo
	slotEffect
	slotContext
	slotRef
)

func (k slotKind) String() string {
	switch k {
	case slotState:
		return "UseState"
	case slotMemo:
		return "UseMemo"
	case slotEffect:
		return "UseEffect"
	case slotContext:
		return "UseContext"
	case slotRef:
		return "UseRef"
	default:
		return "unknown"
	}
}

type slot struct {
	kind slotKind
	cell any
}

// Hooks is an instance's ordered hook store. Each Use* call claims the next
// slot; the slot layout is fixed by the first update and checked on every
// later one.
type Hooks struct {
	inst  *instance
	slots []slot

	// per-update state, reset by begin
	active  bool
	cursor  int
	err     *errors.HookError
	staged  []slot
	commits []func()
	effects []*pendingEffect
	stack   *ContextStack
}

func newHooks(inst *instance) *Hooks {
	return &Hooks{inst: inst}
}

// Self returns a read-only view of the calling instance. Geometry is only
// meaningful after a layout pass, so read it from effects and event
// handlers rather than during the update.
func (h *Hooks) Self() Mounted {
	return Mounted{inst: h.inst}
}

// Len returns the number of committed slots.
func (h *Hooks) Len() int {
	return len(h.slots)
}

func (h *Hooks) begin(stack *ContextStack) {
	h.active = true
	h.cursor = 0
	h.err = nil
	h.staged = nil
	h.commits = nil
	h.effects = nil
	h.stack = stack
}

// end closes the update and reports any order violation.
func (h *Hooks) end() error {
	h.active = false
	h.stack = nil
	if h.err != nil {
		return h.err
	}
	if h.inst.mounted && h.cursor != len(h.slots) {
		return &errors.HookError{
			Component: h.inst.desc.name,
			Index:     h.cursor,
			Expected:  fmt.Sprintf("%d hooks", len(h.slots)),
			Got:       fmt.Sprintf("%d hooks", h.cursor),
		}
	}
	return nil
}

func (h *Hooks) commit() {
	h.slots = append(h.slots, h.staged...)
	for _, fn := range h.commits {
		fn()
	}
	h.staged = nil
	h.commits = nil
}

func (h *Hooks) discard() {
	h.active = false
	h.stack = nil
	h.staged = nil
	h.commits = nil
	h.effects = nil
}

// dispose runs effect cleanups in slot order.
func (h *Hooks) dispose() {
	for _, s := range h.slots {
		if e, ok := s.cell.(*effectCell); ok {
			e.cleanupNow()
		}
	}
}

// next claims the next slot. It returns false after a violation, in which
// case the caller hands out a detached value.
func (h *Hooks) next(kind slotKind, create func() any) (any, bool) {
	if !h.active {
		panic(fmt.Sprintf("core: %s called outside of an update", kind))
	}
	i := h.cursor
	h.cursor++
	if h.err != nil {
		return nil, false
	}
	if i < len(h.slots) {
		s := h.slots[i]
		if s.kind != kind {
			h.fail(i, s.kind.String(), kind.String())
			return nil, false
		}
		return s.cell, true
	}
	if h.inst.mounted {
		h.fail(i, "no hook", kind.String())
		return nil, false
	}
	cell := create()
	h.staged = append(h.staged, slot{kind: kind, cell: cell})
	return cell, true
}

func (h *Hooks) fail(index int, expected, got string) {
	if h.err != nil {
		return
	}
	h.err = &errors.HookError{
		Component: h.inst.desc.name,
		Index:     index,
		Expected:  expected,
		Got:       got,
	}
}

func (h *Hooks) onCommit(fn func()) {
	h.commits = append(h.commits, fn)
}

// UseState returns the current value of a state slot and its handle.
// initial is used only when the slot is created.
func UseState[T any](h *Hooks, initial T) (T, *State[T]) {
	cell, ok := h.next(slotState, func() any {
		return newState(initial, h.inst)
	})
	if !ok {
		return initial, newState[T](initial, nil)
	}
	s, ok := cell.(*State[T])
	if !ok {
		h.fail(h.cursor-1, fmt.Sprintf("%T", cell), fmt.Sprintf("%T", s))
		return initial, newState[T](initial, nil)
	}
	value, n := s.resolve()
	h.onCommit(func() { s.commit(value, n) })
	return value, s
}

// Ref is a mutable box that survives updates without triggering them.
type Ref[T any] struct {
	Current T
}

// UseRef returns the instance's Ref for this slot.
func UseRef[T any](h *Hooks, initial T) *Ref[T] {
	cell, ok := h.next(slotRef, func() any {
		return &Ref[T]{Current: initial}
	})
	if !ok {
		return &Ref[T]{Current: initial}
	}
	r, ok := cell.(*Ref[T])
	if !ok {
		h.fail(h.cursor-1, fmt.Sprintf("%T", cell), fmt.Sprintf("%T", r))
		return &Ref[T]{Current: initial}
	}
	return r
}

// UseLatest returns a Ref holding value as of the last committed update.
// Subscriptions and callbacks created once read it to see fresh props and
// closures; an aborted pass leaves the previous value in place.
func UseLatest[T any](h *Hooks, value T) *Ref[T] {
	ref := UseRef(h, value)
	h.onCommit(func() { ref.Current = value })
	return ref
}

type memoCell struct {
	deps  []any
	value any
	valid bool
}

// UseMemo returns compute's result, recomputing only when deps change.
// With no deps the value is computed once per instance.
func UseMemo[T any](h *Hooks, compute func() T, deps ...any) T {
	cell, ok := h.next(slotMemo, func() any { return &memoCell{} })
	if !ok {
		return compute()
	}
	m := cell.(*memoCell)
	if m.valid && depsEqual(m.deps, deps) {
		v, ok := m.value.(T)
		if ok || m.value == nil {
			return v
		}
		h.fail(h.cursor-1, fmt.Sprintf("UseMemo of %T", m.value), "UseMemo of "+reflect.TypeFor[T]().String())
		return compute()
	}
	v := compute()
	saved := slices.Clone(deps)
	h.onCommit(func() {
		m.deps = saved
		m.value = v
		m.valid = true
	})
	return v
}

type effectCell struct {
	component string
	deps      []any
	cleanup   func()
	ran       bool
}

func (e *effectCell) cleanupNow() {
	if e.cleanup == nil {
		return
	}
	fn := e.cleanup
	e.cleanup = nil
	defer errors.Recover("core.effectCleanup", e.component)
	fn()
}

type pendingEffect struct {
	cell   *effectCell
	deps   []any
	effect func() func()
}

func (p *pendingEffect) run() {
	p.cell.cleanupNow()
	p.cell.deps = p.deps
	p.cell.ran = true
	defer errors.Recover("core.effect", p.cell.component)
	p.cell.cleanup = p.effect()
}

// UseEffect schedules effect to run after the update commits. It runs on
// mount and again whenever deps change; with no deps it runs once. The
// function it returns, if any, runs before the next execution and on
// unmount.
func UseEffect(h *Hooks, effect func() func(), deps ...any) {
	cell, ok := h.next(slotEffect, func() any { return &effectCell{component: h.inst.desc.name} })
	if !ok {
		return
	}
	e := cell.(*effectCell)
	if e.ran && depsEqual(e.deps, deps) {
		return
	}
	h.effects = append(h.effects, &pendingEffect{
		cell:   e,
		deps:   slices.Clone(deps),
		effect: effect,
	})
}

// UseTask runs task on its own goroutine after commit. Its context is
// cancelled when deps change or the instance unmounts; state setters are
// safe to call from the task. A panic in task is reported with the
// component's name and ends only that task.
func UseTask(h *Hooks, task func(ctx context.Context), deps ...any) {
	base := h.inst.tree.baseContext()
	name := h.inst.desc.name
	UseEffect(h, func() func() {
		ctx, cancel := context.WithCancel(base)
		go func() {
			defer errors.Recover("core.UseTask", name)
			task(ctx)
		}()
		return cancel
	}, deps...)
}

// UseContext returns the innermost value of type T provided by an ancestor.
func UseContext[T any](h *Hooks) (T, bool) {
	typ := reflect.TypeFor[T]()
	cell, ok := h.next(slotContext, func() any { return typ })
	var zero T
	if !ok {
		return zero, false
	}
	if cell.(reflect.Type) != typ {
		h.fail(h.cursor-1, "UseContext of "+cell.(reflect.Type).String(), "UseContext of "+typ.String())
		return zero, false
	}
	return Consume[T](h.stack)
}

func depsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !depEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// depEqual compares pointers and channels by identity and everything else
// by deep equality.
func depEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	return reflect.DeepEqual(a, b)
}
