package rendering

import "github.com/go-drift/drift-tui/pkg/graphics"

// Backend is an output surface for rendered frames. The backend owns the
// translation of paint operations into display updates, including cursor
// and terminal mode management.
type Backend interface {
	// Size returns the drawable area in cells.
	Size() graphics.Size
	// Draw replaces the visible frame with list.
	Draw(list *DisplayList) error
}

// Painter is implemented by nodes that draw themselves. The canvas origin
// is the node's top-left cell and the clip is the node's frame.
type Painter interface {
	Paint(canvas *Canvas, size graphics.Size)
}
