package layout

import "github.com/go-drift/drift-tui/pkg/graphics"

// PipelineOwner tracks whether the tree needs layout or paint.
//
// The typical frame sequence is:
//  1. FlushBuild - reconciles dirty subtrees and marks layout
//  2. FlushLayout - runs the engine from the root when marked or resized
//  3. Paint - renders the tree when marked
//
// The stack engine has no relayout boundaries, so any mark relayouts the
// whole tree from the root.
type PipelineOwner struct {
	needsLayout bool
	needsPaint  bool
	lastSize    graphics.Size
	layouts     int
}

// MarkNeedsLayout schedules a layout (and therefore a paint) for the next frame.
func (p *PipelineOwner) MarkNeedsLayout() {
	p.needsLayout = true
	p.needsPaint = true
}

// MarkNeedsPaint schedules a paint for the next frame.
func (p *PipelineOwner) MarkNeedsPaint() {
	p.needsPaint = true
}

// NeedsLayout reports if a layout is pending.
func (p *PipelineOwner) NeedsLayout() bool {
	return p.needsLayout
}

// NeedsPaint reports if a paint is pending.
func (p *PipelineOwner) NeedsPaint() bool {
	return p.needsPaint
}

// LayoutCount returns how many layout passes have run.
func (p *PipelineOwner) LayoutCount() int {
	return p.layouts
}

// FlushLayout runs engine over root if layout was marked or the available
// size changed since the previous layout. It reports whether layout ran.
func (p *PipelineOwner) FlushLayout(root Node, available graphics.Size, engine Engine) bool {
	if root == nil || engine == nil {
		p.needsLayout = false
		return false
	}
	if !p.needsLayout && available == p.lastSize {
		return false
	}
	engine.Layout(root, available)
	p.lastSize = available
	p.needsLayout = false
	p.needsPaint = true
	p.layouts++
	return true
}

// FlushPaint clears the paint mark and reports whether a paint was pending.
func (p *PipelineOwner) FlushPaint() bool {
	pending := p.needsPaint
	p.needsPaint = false
	return pending
}
