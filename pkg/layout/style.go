package layout

// Direction is the main axis along which a container stacks its children.
type Direction uint8

const (
	// Column stacks children top to bottom.
	Column Direction = iota
	// Row stacks children left to right.
	Row
)

func (d Direction) String() string {
	if d == Row {
		return "row"
	}
	return "column"
}

// CrossAlign positions children on the cross axis.
type CrossAlign uint8

const (
	// AlignStretch sizes children to the container's cross extent unless
	// they have a fixed cross size.
	AlignStretch CrossAlign = iota
	// AlignStart places children at the start of the cross axis.
	AlignStart
	// AlignCenter centers children on the cross axis.
	AlignCenter
	// AlignEnd places children at the end of the cross axis.
	AlignEnd
)

// EdgeInsets is spacing on each side of a box, in cells.
type EdgeInsets struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// All returns insets with the same value on every side.
func All(n int) EdgeInsets {
	return EdgeInsets{Top: n, Right: n, Bottom: n, Left: n}
}

// Symmetric returns insets with vertical and horizontal values.
func Symmetric(vertical, horizontal int) EdgeInsets {
	return EdgeInsets{Top: vertical, Right: horizontal, Bottom: vertical, Left: horizontal}
}

// Horizontal returns left + right.
func (e EdgeInsets) Horizontal() int {
	return e.Left + e.Right
}

// Vertical returns top + bottom.
func (e EdgeInsets) Vertical() int {
	return e.Top + e.Bottom
}

// Add returns the component-wise sum.
func (e EdgeInsets) Add(other EdgeInsets) EdgeInsets {
	return EdgeInsets{
		Top:    e.Top + other.Top,
		Right:  e.Right + other.Right,
		Bottom: e.Bottom + other.Bottom,
		Left:   e.Left + other.Left,
	}
}

// Style is the box description a node hands to the layout engine.
// Zero Width or Height means the size comes from content.
type Style struct {
	Direction Direction
	Align     CrossAlign
	Width     int
	Height    int
	Padding   EdgeInsets
	Gap       int
	// Grow is the node's share of leftover main-axis space in its parent.
	Grow int
}
