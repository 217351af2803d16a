package rendering

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/go-drift/drift-tui/pkg/graphics"
)

// Cell is one character cell. Width is 2 for the leading cell of a wide
// rune and 0 for the cell it covers.
type Cell struct {
	Rune  rune
	Style graphics.Style
	Width uint8
}

var blankCell = Cell{Rune: ' ', Width: 1}

// CellBuffer is an in-memory grid of cells. It implements Backend, which
// makes it the surface used by tests and by the terminal backend's diffing.
// Cells are row-major: cells[y*width + x].
type CellBuffer struct {
	size  graphics.Size
	cells []Cell
	draws int
}

// NewCellBuffer returns a blank buffer of the given size.
func NewCellBuffer(size graphics.Size) *CellBuffer {
	b := &CellBuffer{}
	b.Resize(size)
	return b
}

// Size implements Backend.
func (b *CellBuffer) Size() graphics.Size {
	return b.size
}

// Resize changes the buffer dimensions and clears it.
func (b *CellBuffer) Resize(size graphics.Size) {
	size.Width = max(size.Width, 0)
	size.Height = max(size.Height, 0)
	b.size = size
	b.cells = make([]Cell, size.Width*size.Height)
	b.Clear()
}

// Clear resets every cell to a blank with the default style.
func (b *CellBuffer) Clear() {
	for i := range b.cells {
		b.cells[i] = blankCell
	}
}

// Draw implements Backend: it clears the buffer and applies list.
func (b *CellBuffer) Draw(list *DisplayList) error {
	b.Clear()
	if list != nil {
		list.Apply(b)
	}
	b.draws++
	return nil
}

// Draws returns how many times Draw has been called.
func (b *CellBuffer) Draws() int {
	return b.draws
}

// Cell returns the cell at (x, y), or a blank cell when out of range.
func (b *CellBuffer) Cell(x, y int) Cell {
	if x < 0 || y < 0 || x >= b.size.Width || y >= b.size.Height {
		return blankCell
	}
	return b.cells[y*b.size.Width+x]
}

// Line returns row y as text with trailing spaces trimmed.
func (b *CellBuffer) Line(y int) string {
	if y < 0 || y >= b.size.Height {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < b.size.Width; x++ {
		cell := b.cells[y*b.size.Width+x]
		if cell.Width == 0 {
			continue
		}
		sb.WriteRune(cell.Rune)
	}
	return strings.TrimRight(sb.String(), " ")
}

// Lines returns every row, trailing blank rows included.
func (b *CellBuffer) Lines() []string {
	lines := make([]string, b.size.Height)
	for y := range lines {
		lines[y] = b.Line(y)
	}
	return lines
}

// String returns the buffer as newline-joined rows with trailing blank rows removed.
func (b *CellBuffer) String() string {
	lines := b.Lines()
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func (b *CellBuffer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.size.Width && y < b.size.Height
}

// unpair blanks the other half of a wide rune that overlaps (x, y), so a
// partial overwrite never leaves half a glyph behind.
func (b *CellBuffer) unpair(x, y int) {
	idx := y*b.size.Width + x
	switch old := b.cells[idx]; old.Width {
	case 2:
		if x+1 < b.size.Width {
			b.cells[idx+1] = Cell{Rune: ' ', Style: old.Style, Width: 1}
		}
	case 0:
		if x > 0 {
			b.cells[idx-1] = Cell{Rune: ' ', Style: b.cells[idx-1].Style, Width: 1}
		}
	}
}

func (b *CellBuffer) put(x, y int, r rune, width int, style graphics.Style) {
	if !b.inBounds(x, y) || (width == 2 && !b.inBounds(x+1, y)) {
		return
	}
	b.unpair(x, y)
	if width == 2 {
		b.unpair(x+1, y)
	}
	idx := y*b.size.Width + x
	b.cells[idx] = Cell{Rune: r, Style: style, Width: uint8(width)}
	if width == 2 {
		b.cells[idx+1] = Cell{Style: style, Width: 0}
	}
}

// inherit gives text with a default background the background already in
// the cell, so text drawn over a filled area keeps the fill color.
func (b *CellBuffer) inherit(x, y int, style graphics.Style) graphics.Style {
	if !style.Background.IsDefault() || !b.inBounds(x, y) {
		return style
	}
	style.Background = b.cells[y*b.size.Width+x].Style.Background
	return style
}

func (b *CellBuffer) apply(op Op) {
	switch op.Kind {
	case OpFill:
		area := op.Rect.Intersect(graphics.RectFromSize(b.size))
		for y := area.Y; y < area.Bottom(); y++ {
			for x := area.X; x < area.Right(); x++ {
				b.put(x, y, op.Rune, 1, op.Style)
			}
		}
	case OpText:
		x := op.Rect.X
		for _, r := range op.Text {
			w := runewidth.RuneWidth(r)
			if w == 0 {
				// Zero-width runes have no cell of their own.
				continue
			}
			if x+w > b.size.Width {
				break
			}
			b.put(x, op.Rect.Y, r, w, b.inherit(x, op.Rect.Y, op.Style))
			x += w
		}
	}
}
