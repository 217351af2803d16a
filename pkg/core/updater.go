package core

import (
	"github.com/go-drift/drift-tui/pkg/graphics"
	"github.com/go-drift/drift-tui/pkg/layout"
	"github.com/go-drift/drift-tui/pkg/rendering"
)

// PaintFunc draws an instance in its own coordinate space. size is the
// instance's laid-out frame size; the canvas is already clipped to it.
type PaintFunc func(canvas *rendering.Canvas, size graphics.Size)

// Updater is the handle a component uses during Update to declare its
// output. It is valid only until Update returns.
type Updater struct {
	inst     *instance
	pass     *pass
	wip      *workInProgress
	children []Element
	done     bool
}

func (u *Updater) check() {
	if u.done {
		panic("core: Updater used after Update returned")
	}
}

// Children returns the children declared for this instance by its parent.
func (u *Updater) Children() []Element {
	u.check()
	return append([]Element(nil), u.wip.declared...)
}

// SetChildren replaces the instance's own children. Components that never
// call it have no children.
func (u *Updater) SetChildren(children ...Node) {
	u.check()
	u.children = flatten(children)
}

// SetMeasureFunc makes the instance a measured leaf.
func (u *Updater) SetMeasureFunc(fn layout.MeasureFunc) {
	u.check()
	u.wip.measure = fn
}

// SetStyle sets the layout style for the instance.
func (u *Updater) SetStyle(style layout.Style) {
	u.check()
	u.wip.style = style
}

// SetPaint sets how the instance draws itself.
func (u *Updater) SetPaint(fn PaintFunc) {
	u.check()
	u.wip.paint = fn
}

// Context returns the context stack as seen by this instance.
func (u *Updater) Context() *ContextStack {
	u.check()
	return u.pass.stack
}

// Key returns the instance key, if it has one.
func (u *Updater) Key() (any, bool) {
	return u.inst.ident.key, u.inst.ident.keyed
}
