package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/go-drift/drift-tui/pkg/graphics"
)

func tcellColor(c graphics.Color) tcell.Color {
	if c.IsDefault() {
		return tcell.ColorDefault
	}
	r, g, b := c.RGB()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// TcellStyle converts a cell style to its tcell equivalent.
func TcellStyle(s graphics.Style) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcellColor(s.Foreground)).
		Background(tcellColor(s.Background)).
		Bold(s.Attrs&graphics.AttrBold != 0).
		Dim(s.Attrs&graphics.AttrDim != 0).
		Italic(s.Attrs&graphics.AttrItalic != 0).
		Underline(s.Attrs&graphics.AttrUnderline != 0).
		Blink(s.Attrs&graphics.AttrBlink != 0).
		Reverse(s.Attrs&graphics.AttrReverse != 0).
		StrikeThrough(s.Attrs&graphics.AttrStrike != 0)
}
