package graphics

import "strings"

// Attr is a bitmask of text attributes.
type Attr uint8

const (
	AttrNone      Attr = 0
	AttrBold      Attr = 1 << 0
	AttrDim       Attr = 1 << 1
	AttrItalic    Attr = 1 << 2
	AttrUnderline Attr = 1 << 3
	AttrBlink     Attr = 1 << 4
	AttrReverse   Attr = 1 << 5
	AttrStrike    Attr = 1 << 6
)

var attrNames = []struct {
	attr Attr
	name string
}{
	{AttrBold, "bold"},
	{AttrDim, "dim"},
	{AttrItalic, "italic"},
	{AttrUnderline, "underline"},
	{AttrBlink, "blink"},
	{AttrReverse, "reverse"},
	{AttrStrike, "strike"},
}

func (a Attr) String() string {
	if a == AttrNone {
		return "none"
	}
	var parts []string
	for _, entry := range attrNames {
		if a&entry.attr != 0 {
			parts = append(parts, entry.name)
		}
	}
	return strings.Join(parts, "|")
}

// Style describes how a run of cells is drawn. Styling is data carried
// through to the backend; the runtime never computes it.
type Style struct {
	Foreground Color
	Background Color
	Attrs      Attr
}

// DefaultStyle uses the terminal's default colors and no attributes.
var DefaultStyle = Style{}

// WithForeground returns a copy of the style with the foreground replaced.
func (s Style) WithForeground(c Color) Style {
	s.Foreground = c
	return s
}

// WithBackground returns a copy of the style with the background replaced.
func (s Style) WithBackground(c Color) Style {
	s.Background = c
	return s
}

// WithAttrs returns a copy of the style with the given attributes added.
func (s Style) WithAttrs(a Attr) Style {
	s.Attrs |= a
	return s
}

// Over layers s on top of base: default colors in s fall through to base.
func (s Style) Over(base Style) Style {
	out := base
	if !s.Foreground.IsDefault() {
		out.Foreground = s.Foreground
	}
	if !s.Background.IsDefault() {
		out.Background = s.Background
	}
	out.Attrs |= s.Attrs
	return out
}
