package rendering

import (
	"github.com/go-drift/drift-tui/pkg/graphics"
	"github.com/go-drift/drift-tui/pkg/layout"
)

// Render walks root depth-first in paint order (parents before children,
// siblings in declaration order) and records each Painter's operations
// translated and clipped to its frame. Frames are relative to the parent.
func Render(root layout.Node, size graphics.Size) *DisplayList {
	recorder := &PictureRecorder{}
	canvas := recorder.BeginRecording(size)
	if root != nil {
		PaintNode(canvas, root)
	}
	return recorder.EndRecording()
}

// PaintNode paints node and its subtree onto canvas.
func PaintNode(canvas *Canvas, node layout.Node) {
	frame := node.Frame()
	canvas.Save()
	defer canvas.Restore()

	canvas.Translate(frame.X, frame.Y)
	canvas.ClipRect(graphics.Rect{Width: frame.Width, Height: frame.Height})
	if canvas.ClipIsEmpty() {
		return
	}
	if painter, ok := node.(Painter); ok {
		painter.Paint(canvas, frame.Size())
	}
	for _, child := range node.LayoutChildren() {
		PaintNode(canvas, child)
	}
}
