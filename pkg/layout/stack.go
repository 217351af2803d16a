package layout

import "github.com/go-drift/drift-tui/pkg/graphics"

// StackEngine is a minimal box-stacking engine. Containers place children
// one after another along their Direction, separated by Gap, and hand
// leftover main-axis space to children with a positive Grow. It does not
// wrap, shrink or reorder.
type StackEngine struct{}

// Layout implements Engine.
func (StackEngine) Layout(root Node, available graphics.Size) {
	if root == nil {
		return
	}
	pass := &stackPass{measured: make(map[measureKey]graphics.Size)}
	pass.place(root, graphics.RectFromSize(available))
}

type measureKey struct {
	node      Node
	available graphics.Size
}

// stackPass caches measurements for one Layout call. A container is measured
// by its parent and measures its children again when placed, so without the
// cache nested containers are measured once per ancestor.
type stackPass struct {
	measured map[measureKey]graphics.Size
}

// measure returns the size node wants inside available.
func (p *stackPass) measure(node Node, available graphics.Size) graphics.Size {
	key := measureKey{node: node, available: available}
	if size, ok := p.measured[key]; ok {
		return size
	}
	style := node.LayoutStyle()
	inner := graphics.Size{
		Width:  available.Width - style.Padding.Horizontal(),
		Height: available.Height - style.Padding.Vertical(),
	}
	if style.Width > 0 {
		inner.Width = style.Width - style.Padding.Horizontal()
	}
	if style.Height > 0 {
		inner.Height = style.Height - style.Padding.Vertical()
	}
	inner = inner.Constrain(available)

	var content graphics.Size
	if measure := node.Measure(); measure != nil {
		content = measure(inner.Width, inner.Height)
	} else {
		content = p.measureChildren(node, style, inner)
	}

	size := graphics.Size{
		Width:  content.Width + style.Padding.Horizontal(),
		Height: content.Height + style.Padding.Vertical(),
	}
	if style.Width > 0 {
		size.Width = style.Width
	}
	if style.Height > 0 {
		size.Height = style.Height
	}
	size = size.Constrain(available)
	p.measured[key] = size
	return size
}

func (p *stackPass) measureChildren(node Node, style Style, inner graphics.Size) graphics.Size {
	var mainUsed, cross int
	children := node.LayoutChildren()
	for i, child := range children {
		remaining := inner
		if style.Direction == Row {
			remaining.Width = max(inner.Width-mainUsed, 0)
		} else {
			remaining.Height = max(inner.Height-mainUsed, 0)
		}
		size := p.measure(child, remaining)
		main, c := axes(style.Direction, size)
		mainUsed += main
		if i < len(children)-1 {
			mainUsed += style.Gap
		}
		cross = max(cross, c)
	}
	if style.Direction == Row {
		return graphics.Size{Width: mainUsed, Height: cross}
	}
	return graphics.Size{Width: cross, Height: mainUsed}
}

// place assigns frame to node (relative to its parent) and lays out its children.
func (p *stackPass) place(node Node, frame graphics.Rect) {
	node.SetFrame(frame)
	children := node.LayoutChildren()
	if len(children) == 0 {
		return
	}

	style := node.LayoutStyle()
	inner := graphics.Rect{
		X:      style.Padding.Left,
		Y:      style.Padding.Top,
		Width:  max(frame.Width-style.Padding.Horizontal(), 0),
		Height: max(frame.Height-style.Padding.Vertical(), 0),
	}
	innerMain, innerCross := axes(style.Direction, inner.Size())

	sizes := make([]graphics.Size, len(children))
	mainUsed, totalGrow := 0, 0
	for i, child := range children {
		remaining := inner.Size()
		if style.Direction == Row {
			remaining.Width = max(innerMain-mainUsed, 0)
		} else {
			remaining.Height = max(innerMain-mainUsed, 0)
		}
		sizes[i] = p.measure(child, remaining)
		main, _ := axes(style.Direction, sizes[i])
		mainUsed += main
		if i < len(children)-1 {
			mainUsed += style.Gap
		}
		if g := child.LayoutStyle().Grow; g > 0 {
			totalGrow += g
		}
	}

	leftover := max(innerMain-mainUsed, 0)
	distributed := 0
	cursor := 0
	for i, child := range children {
		childStyle := child.LayoutStyle()
		main, cross := axes(style.Direction, sizes[i])
		if totalGrow > 0 && childStyle.Grow > 0 && leftover > 0 {
			extra := leftover * childStyle.Grow / totalGrow
			if isLastGrower(children, i) {
				extra = leftover - distributed
			}
			distributed += extra
			main += extra
		}
		main = min(main, max(innerMain-cursor, 0))

		fixedCross := childStyle.Width
		if style.Direction == Row {
			fixedCross = childStyle.Height
		}
		crossOffset := 0
		switch style.Align {
		case AlignStretch:
			if fixedCross == 0 {
				cross = innerCross
			}
		case AlignCenter:
			crossOffset = (innerCross - cross) / 2
		case AlignEnd:
			crossOffset = innerCross - cross
		}
		crossOffset = max(crossOffset, 0)
		cross = min(cross, innerCross)

		var rect graphics.Rect
		if style.Direction == Row {
			rect = graphics.Rect{X: inner.X + cursor, Y: inner.Y + crossOffset, Width: main, Height: cross}
		} else {
			rect = graphics.Rect{X: inner.X + crossOffset, Y: inner.Y + cursor, Width: cross, Height: main}
		}
		p.place(child, rect)
		cursor += main + style.Gap
	}
}

func isLastGrower(children []Node, index int) bool {
	for _, child := range children[index+1:] {
		if child.LayoutStyle().Grow > 0 {
			return false
		}
	}
	return true
}

// axes splits a size into (main, cross) for the given direction.
func axes(direction Direction, size graphics.Size) (main, cross int) {
	if direction == Row {
		return size.Width, size.Height
	}
	return size.Height, size.Width
}
