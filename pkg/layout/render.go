// Package layout defines the contract between the component tree and a
// layout engine: leaves report a measurement callback, containers report a
// style, and the engine assigns each node a rectangle relative to its parent.
package layout

import "github.com/go-drift/drift-tui/pkg/graphics"

// MeasureFunc maps the space available to a leaf to the size it requests.
// It must be pure: the engine may call it several times per layout pass.
type MeasureFunc func(availableWidth, availableHeight int) graphics.Size

// Node is a participant in layout. Leaves return a non-nil Measure;
// containers return nil and are sized from their children.
type Node interface {
	// LayoutStyle returns the node's box style.
	LayoutStyle() Style
	// Measure returns the leaf measurement callback, or nil for containers.
	Measure() MeasureFunc
	// LayoutChildren returns the children in declaration order.
	LayoutChildren() []Node
	// SetFrame stores the rectangle assigned by the engine, relative to
	// the parent's origin.
	SetFrame(frame graphics.Rect)
	// Frame returns the last assigned rectangle.
	Frame() graphics.Rect
}

// Engine computes concrete rectangles for a tree of nodes.
type Engine interface {
	// Layout assigns a frame to root and every descendant. The root is
	// given the full available size.
	Layout(root Node, available graphics.Size)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(root Node, available graphics.Size)

// Layout calls f(root, available).
func (f EngineFunc) Layout(root Node, available graphics.Size) {
	f(root, available)
}

// Visit walks node and its descendants depth-first, parents before children.
// Returning false from visitor skips the node's children.
func Visit(node Node, visitor func(Node) bool) {
	if node == nil {
		return
	}
	if !visitor(node) {
		return
	}
	for _, child := range node.LayoutChildren() {
		Visit(child, visitor)
	}
}
