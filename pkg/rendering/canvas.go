package rendering

import (
	"github.com/mattn/go-runewidth"

	"github.com/go-drift/drift-tui/pkg/graphics"
)

type canvasState struct {
	offset graphics.Offset
	clip   graphics.Rect // screen coordinates
}

// Canvas records paint operations in local coordinates. Every operation is
// translated by the current offset and clipped to the current clip rect
// before it is recorded, so recorded ops never leave the clip.
type Canvas struct {
	recorder *PictureRecorder
	state    canvasState
	stack    []canvasState
}

// Save pushes the current offset and clip.
func (c *Canvas) Save() {
	c.stack = append(c.stack, c.state)
}

// Restore pops the most recent offset and clip. Unbalanced calls are ignored.
func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

// Translate moves the local origin by (dx, dy).
func (c *Canvas) Translate(dx, dy int) {
	c.state.offset.X += dx
	c.state.offset.Y += dy
}

// ClipRect intersects the clip with rect, given in local coordinates.
func (c *Canvas) ClipRect(rect graphics.Rect) {
	screen := rect.Translate(c.state.offset.X, c.state.offset.Y)
	c.state.clip = c.state.clip.Intersect(screen)
}

// ClipIsEmpty reports whether nothing drawn now could be visible.
func (c *Canvas) ClipIsEmpty() bool {
	return c.state.clip.IsEmpty()
}

// Offset returns the current local origin in screen coordinates.
func (c *Canvas) Offset() graphics.Offset {
	return c.state.offset
}

// DrawText records a text run starting at local cell (x, y). Cells outside
// the clip are dropped; a wide rune cut by the clip edge is dropped whole.
func (c *Canvas) DrawText(x, y int, text string, style graphics.Style) {
	sx, sy := x+c.state.offset.X, y+c.state.offset.Y
	clip := c.state.clip
	if sy < clip.Y || sy >= clip.Bottom() || text == "" {
		return
	}

	runStart := -1
	cursor := sx
	var visible []rune
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			if runStart >= 0 {
				visible = append(visible, r)
			}
			continue
		}
		if cursor >= clip.X && cursor+w <= clip.Right() {
			if runStart < 0 {
				runStart = cursor
			}
			visible = append(visible, r)
		} else if runStart >= 0 {
			break
		}
		cursor += w
	}
	if runStart < 0 {
		return
	}
	clipped := string(visible)
	c.recorder.append(Op{
		Kind:  OpText,
		Rect:  graphics.Rect{X: runStart, Y: sy, Width: runewidth.StringWidth(clipped), Height: 1},
		Text:  clipped,
		Style: style,
	})
}

// Fill records a rectangle filled with ch, given in local coordinates.
func (c *Canvas) Fill(rect graphics.Rect, ch rune, style graphics.Style) {
	screen := rect.Translate(c.state.offset.X, c.state.offset.Y).Intersect(c.state.clip)
	if screen.IsEmpty() {
		return
	}
	c.recorder.append(Op{Kind: OpFill, Rect: screen, Rune: ch, Style: style})
}

// PictureRecorder records canvas operations into a display list.
type PictureRecorder struct {
	ops       []Op
	recording bool
	size      graphics.Size
}

// BeginRecording starts a new recording session for a surface of size.
func (r *PictureRecorder) BeginRecording(size graphics.Size) *Canvas {
	r.ops = r.ops[:0]
	r.recording = true
	r.size = size
	return &Canvas{
		recorder: r,
		state:    canvasState{clip: graphics.RectFromSize(size)},
	}
}

// EndRecording finishes the recording and returns a display list.
func (r *PictureRecorder) EndRecording() *DisplayList {
	if !r.recording {
		return &DisplayList{size: r.size}
	}
	r.recording = false
	ops := make([]Op, len(r.ops))
	copy(ops, r.ops)
	return &DisplayList{ops: ops, size: r.size}
}

func (r *PictureRecorder) append(op Op) {
	if !r.recording {
		return
	}
	r.ops = append(r.ops, op)
}
