package core

import (
	"sync/atomic"

	"github.com/go-drift/drift-tui/pkg/graphics"
	"github.com/go-drift/drift-tui/pkg/layout"
	"github.com/go-drift/drift-tui/pkg/rendering"
)

// identity is what a child is matched by across updates.
type identity struct {
	desc  *typeDesc
	keyed bool
	key   any
	index int
}

// instance is a mounted component. Its committed fields change only when a
// render pass commits; wip holds the work staged by the pass in progress.
type instance struct {
	tree   *Tree
	id     uint64
	desc   *typeDesc
	ident  identity
	parent *instance
	depth  int

	component any
	hooks     *Hooks

	props    any
	declared []Element
	children []*instance
	measure  layout.MeasureFunc
	style    layout.Style
	paint    PaintFunc
	frames   []contextFrame
	frame    graphics.Rect

	mounted  bool
	detached atomic.Bool
	wip      *workInProgress
}

type workInProgress struct {
	props    any
	declared []Element
	children []*instance
	removed  []*instance
	measure  layout.MeasureFunc
	style    layout.Style
	paint    PaintFunc
	frames   []contextFrame
}

func (inst *instance) scheduleBuild() {
	if inst.detached.Load() {
		return
	}
	inst.tree.owner.scheduleBuild(inst)
}

func (inst *instance) LayoutStyle() layout.Style {
	return inst.style
}

func (inst *instance) Measure() layout.MeasureFunc {
	return inst.measure
}

func (inst *instance) LayoutChildren() []layout.Node {
	nodes := make([]layout.Node, len(inst.children))
	for i, c := range inst.children {
		nodes[i] = c
	}
	return nodes
}

func (inst *instance) SetFrame(frame graphics.Rect) {
	inst.frame = frame
}

func (inst *instance) Frame() graphics.Rect {
	return inst.frame
}

// Paint draws the instance using the paint function set during its last
// update, or the component itself when it implements rendering.Painter.
func (inst *instance) Paint(canvas *rendering.Canvas, size graphics.Size) {
	if inst.paint != nil {
		inst.paint(canvas, size)
		return
	}
	if p, ok := inst.component.(rendering.Painter); ok {
		p.Paint(canvas, size)
	}
}

// unmount detaches inst and its subtree. Children unmount before their
// parent; each instance runs its effect cleanups in slot order.
func (inst *instance) unmount() {
	for _, c := range inst.children {
		c.unmount()
	}
	inst.detached.Store(true)
	inst.mounted = false
	inst.hooks.dispose()
}

// Mounted is a read-only view of a mounted instance, for inspection by
// tests and tools.
type Mounted struct {
	inst *instance
}

// ID returns a number unique to the instance within its tree. A reused
// instance keeps its ID across updates.
func (m Mounted) ID() uint64 {
	return m.inst.id
}

// Type returns the component type name.
func (m Mounted) Type() string {
	return m.inst.desc.name
}

// Key returns the instance key and whether it has one.
func (m Mounted) Key() (any, bool) {
	return m.inst.ident.key, m.inst.ident.keyed
}

// Props returns the committed property bundle.
func (m Mounted) Props() any {
	return m.inst.props
}

// Depth returns the distance from the root.
func (m Mounted) Depth() int {
	return m.inst.depth
}

// HookCount returns the number of hook slots.
func (m Mounted) HookCount() int {
	return m.inst.hooks.Len()
}

// Frame returns the parent-relative rectangle from the last layout.
func (m Mounted) Frame() graphics.Rect {
	return m.inst.frame
}

// ScreenRect returns the frame in root coordinates.
func (m Mounted) ScreenRect() graphics.Rect {
	r := m.inst.frame
	for p := m.inst.parent; p != nil; p = p.parent {
		r = r.Translate(p.frame.X, p.frame.Y)
	}
	return r
}

// Children returns the mounted children in order.
func (m Mounted) Children() []Mounted {
	out := make([]Mounted, len(m.inst.children))
	for i, c := range m.inst.children {
		out[i] = Mounted{inst: c}
	}
	return out
}

// Parent returns the parent instance, if any.
func (m Mounted) Parent() (Mounted, bool) {
	if m.inst.parent == nil {
		return Mounted{}, false
	}
	return Mounted{inst: m.inst.parent}, true
}

// IsMounted reports whether the instance is still part of its tree.
func (m Mounted) IsMounted() bool {
	return m.inst.mounted
}
