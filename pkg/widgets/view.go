package widgets

import (
	"github.com/go-drift/drift-tui/pkg/core"
	"github.com/go-drift/drift-tui/pkg/graphics"
	"github.com/go-drift/drift-tui/pkg/layout"
	"github.com/go-drift/drift-tui/pkg/rendering"
)

// BorderStyle selects the box-drawing characters of a View border.
type BorderStyle int

const (
	BorderNone BorderStyle = iota
	BorderSingle
	BorderRounded
	BorderDouble
)

type borderRunes struct {
	topLeft, topRight, bottomLeft, bottomRight rune
	horizontal, vertical                       rune
}

var borders = map[BorderStyle]borderRunes{
	BorderSingle:  {'┌', '┐', '└', '┘', '─', '│'},
	BorderRounded: {'╭', '╮', '╰', '╯', '─', '│'},
	BorderDouble:  {'╔', '╗', '╚', '╝', '═', '║'},
}

// ViewProps configures View.
type ViewProps struct {
	// Style controls how children are stacked and sized.
	Style layout.Style
	// Background fills the whole frame when not the default color.
	Background graphics.Color
	// Border draws a one-cell frame inside the edges. The border cells
	// are added to Style.Padding.
	Border BorderStyle
	// BorderColor is the border foreground.
	BorderColor graphics.Color
	// Title is drawn over the top border, when there is one.
	Title string
}

// View is a container: it lays out the children its parent declares and
// paints a background and border beneath them.
var View = core.DefineFunc("View", updateView)

// Column stacks children vertically with gap rows between them.
func Column(gap int, children ...core.Node) core.Element {
	return View.New(ViewProps{Style: layout.Style{Direction: layout.Column, Gap: gap}}, children...)
}

// Row places children side by side with gap columns between them.
func Row(gap int, children ...core.Node) core.Element {
	return View.New(ViewProps{Style: layout.Style{Direction: layout.Row, Gap: gap}}, children...)
}

func updateView(p ViewProps, _ *core.Hooks, u *core.Updater) error {
	style := p.Style
	if p.Border != BorderNone {
		style.Padding = style.Padding.Add(layout.All(1))
	}
	u.SetStyle(style)
	u.SetChildren(core.Elements(u.Children()...))
	if p.Background.IsDefault() && p.Border == BorderNone {
		return nil
	}
	u.SetPaint(func(canvas *rendering.Canvas, size graphics.Size) {
		if !p.Background.IsDefault() {
			canvas.Fill(graphics.RectFromSize(size), ' ', graphics.DefaultStyle.WithBackground(p.Background))
		}
		if runes, ok := borders[p.Border]; ok {
			paintBorder(canvas, size, runes, p)
		}
	})
	return nil
}

func paintBorder(canvas *rendering.Canvas, size graphics.Size, b borderRunes, p ViewProps) {
	if size.Width < 2 || size.Height < 2 {
		return
	}
	style := graphics.Style{Foreground: p.BorderColor, Background: p.Background}
	right, bottom := size.Width-1, size.Height-1

	canvas.Fill(graphics.Rect{X: 1, Width: size.Width - 2, Height: 1}, b.horizontal, style)
	canvas.Fill(graphics.Rect{X: 1, Y: bottom, Width: size.Width - 2, Height: 1}, b.horizontal, style)
	canvas.Fill(graphics.Rect{Y: 1, Width: 1, Height: size.Height - 2}, b.vertical, style)
	canvas.Fill(graphics.Rect{X: right, Y: 1, Width: 1, Height: size.Height - 2}, b.vertical, style)
	canvas.Fill(graphics.Rect{Width: 1, Height: 1}, b.topLeft, style)
	canvas.Fill(graphics.Rect{X: right, Width: 1, Height: 1}, b.topRight, style)
	canvas.Fill(graphics.Rect{Y: bottom, Width: 1, Height: 1}, b.bottomLeft, style)
	canvas.Fill(graphics.Rect{X: right, Y: bottom, Width: 1, Height: 1}, b.bottomRight, style)

	if p.Title != "" && size.Width > 4 {
		canvas.Save()
		canvas.ClipRect(graphics.Rect{X: 2, Width: size.Width - 4, Height: 1})
		canvas.DrawText(2, 0, p.Title, style)
		canvas.Restore()
	}
}
