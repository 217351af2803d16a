// Package rendering turns a laid-out node tree into paint operations and
// applies them to a character-cell surface.
package rendering

import (
	"fmt"

	"github.com/go-drift/drift-tui/pkg/graphics"
)

// OpKind identifies a paint operation.
type OpKind uint8

const (
	// OpText draws a styled run of text on a single row.
	OpText OpKind = iota + 1
	// OpFill fills a rectangle with a rune.
	OpFill
)

func (k OpKind) String() string {
	switch k {
	case OpText:
		return "text"
	case OpFill:
		return "fill"
	default:
		return fmt.Sprintf("OpKind(%d)", uint8(k))
	}
}

// Op is one paint operation in screen coordinates, already clipped.
// For OpText, Rect.Width is the run's cell width and Rect.Height is 1.
type Op struct {
	Kind  OpKind         `msgpack:"k"`
	Rect  graphics.Rect  `msgpack:"r"`
	Text  string         `msgpack:"t,omitempty"`
	Rune  rune           `msgpack:"c,omitempty"`
	Style graphics.Style `msgpack:"s"`
}

func (o Op) String() string {
	switch o.Kind {
	case OpText:
		return fmt.Sprintf("text(%d,%d %q)", o.Rect.X, o.Rect.Y, o.Text)
	case OpFill:
		return fmt.Sprintf("fill(%d,%d %dx%d %q)", o.Rect.X, o.Rect.Y, o.Rect.Width, o.Rect.Height, o.Rune)
	default:
		return o.Kind.String()
	}
}
