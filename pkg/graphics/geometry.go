package graphics

// Offset is a position or displacement measured in terminal cells.
type Offset struct {
	X int
	Y int
}

// Add returns the component-wise sum of two offsets.
func (o Offset) Add(other Offset) Offset {
	return Offset{X: o.X + other.X, Y: o.Y + other.Y}
}

// Size is a width and height measured in terminal cells.
type Size struct {
	Width  int
	Height int
}

// IsEmpty reports whether the size covers no cells.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Constrain clamps the size so it fits inside max.
// Negative dimensions are clamped to zero.
func (s Size) Constrain(max Size) Size {
	return Size{
		Width:  clampInt(s.Width, 0, max.Width),
		Height: clampInt(s.Height, 0, max.Height),
	}
}

// Rect is an axis-aligned rectangle of cells. X and Y are the top-left cell.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// RectFromSize returns a rect at the origin with the given size.
func RectFromSize(size Size) Rect {
	return Rect{Width: size.Width, Height: size.Height}
}

// Origin returns the top-left cell of the rectangle.
func (r Rect) Origin() Offset {
	return Offset{X: r.X, Y: r.Y}
}

// Size returns the dimensions of the rectangle.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// IsEmpty reports whether the rectangle covers no cells.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the cell at (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Translate returns the rectangle shifted by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Intersect returns the overlap of two rectangles.
// Disjoint rectangles produce an empty rect.
func (r Rect) Intersect(other Rect) Rect {
	left := max(r.X, other.X)
	top := max(r.Y, other.Y)
	right := min(r.Right(), other.Right())
	bottom := min(r.Bottom(), other.Bottom())
	if right <= left || bottom <= top {
		return Rect{X: left, Y: top}
	}
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
