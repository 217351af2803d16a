package widgets

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/go-drift/drift-tui/pkg/core"
	"github.com/go-drift/drift-tui/pkg/graphics"
	"github.com/go-drift/drift-tui/pkg/rendering"
)

// TextAlign positions each line within the text's frame.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// TextProps configures Text.
//
// Content may span several lines separated by "\n". Widths are measured in
// terminal cells, so wide runes count twice.
//
//   - Wrap=false (default): each line renders as-is and is clipped by the
//     frame.
//   - Wrap=true: lines break at spaces to fit the available width; words
//     longer than the width break mid-word.
//   - MaxLines limits the visible lines (0 = unlimited).
type TextProps struct {
	// Content is the text to display.
	Content string
	// Style is applied to every cell of the text.
	Style graphics.Style
	// Align positions lines narrower than the frame.
	Align TextAlign
	// Wrap enables word wrapping at the available width.
	Wrap bool
	// MaxLines limits the number of lines (0 = unlimited).
	MaxLines int
}

// TextContent returns the displayed string. Test finders match on it.
func (p TextProps) TextContent() string {
	return p.Content
}

// Text is a measured leaf that draws a string.
var Text = core.DefineFunc("Text", updateText)

// TextOf is shorthand for a plain Text.
func TextOf(content string) core.Element {
	return Text.New(TextProps{Content: content})
}

func updateText(p TextProps, _ *core.Hooks, u *core.Updater) error {
	u.SetMeasureFunc(func(availableWidth, availableHeight int) graphics.Size {
		lines := layoutLines(p, availableWidth)
		width := 0
		for _, line := range lines {
			width = max(width, runewidth.StringWidth(line))
		}
		return graphics.Size{Width: width, Height: len(lines)}
	})
	u.SetPaint(func(canvas *rendering.Canvas, size graphics.Size) {
		for y, line := range layoutLines(p, size.Width) {
			if y >= size.Height {
				break
			}
			x := 0
			switch p.Align {
			case AlignCenter:
				x = (size.Width - runewidth.StringWidth(line)) / 2
			case AlignRight:
				x = size.Width - runewidth.StringWidth(line)
			}
			canvas.DrawText(max(x, 0), y, line, p.Style)
		}
	})
	return nil
}

// layoutLines splits content into the lines drawn at the given width.
func layoutLines(p TextProps, width int) []string {
	if p.Content == "" {
		return nil
	}
	lines := strings.Split(p.Content, "\n")
	if p.Wrap && width > 0 {
		var wrapped []string
		for _, line := range lines {
			wrapped = append(wrapped, wrapLine(line, width)...)
		}
		lines = wrapped
	}
	if p.MaxLines > 0 && len(lines) > p.MaxLines {
		lines = lines[:p.MaxLines]
	}
	return lines
}

func wrapLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}
	var out []string
	var cur strings.Builder
	curWidth := 0
	flush := func() {
		out = append(out, cur.String())
		cur.Reset()
		curWidth = 0
	}
	for _, word := range strings.Fields(line) {
		wordWidth := runewidth.StringWidth(word)
		for wordWidth > width {
			if curWidth > 0 {
				flush()
			}
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				// A wide rune in a one-cell column still needs a line.
				_, n := utf8.DecodeRuneInString(word)
				head = word[:n]
			}
			out = append(out, head)
			word = word[len(head):]
			wordWidth = runewidth.StringWidth(word)
		}
		if wordWidth == 0 {
			continue
		}
		if curWidth > 0 && curWidth+1+wordWidth > width {
			flush()
		}
		if curWidth > 0 {
			cur.WriteByte(' ')
			curWidth++
		}
		cur.WriteString(word)
		curWidth += wordWidth
	}
	if curWidth > 0 || len(out) == 0 {
		flush()
	}
	return out
}
