package testing

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/go-drift/drift-tui/pkg/graphics"
	"github.com/go-drift/drift-tui/pkg/rendering"
)

// Pixel size of one cell in screenshots, matching basicfont.Face7x13.
const (
	CellWidth  = 7
	CellHeight = 13
)

// Colors used for cells that defer to the terminal default.
var (
	DefaultForeground = color.RGBA{R: 0xE5, G: 0xE5, B: 0xE5, A: 0xFF}
	DefaultBackground = color.RGBA{A: 0xFF}
)

// Screenshot rasterizes the current screen.
func (t *Tester) Screenshot() *image.RGBA {
	return Rasterize(t.buffer)
}

// SaveScreenshot writes the current screen as a PNG file.
func (t *Tester) SaveScreenshot(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePNG(f, t.Screenshot()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Rasterize draws every cell of buf with a fixed 7x13 bitmap font. Glyphs
// the font lacks render as blanks.
func Rasterize(buf *rendering.CellBuffer) *image.RGBA {
	size := buf.Size()
	img := image.NewRGBA(image.Rect(0, 0, size.Width*CellWidth, size.Height*CellHeight))
	face := basicfont.Face7x13
	ascent := face.Metrics().Ascent.Ceil()

	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			cell := buf.Cell(x, y)
			if cell.Width == 0 {
				continue
			}
			fg, bg := cellColors(cell.Style)
			px, py := x*CellWidth, y*CellHeight
			bounds := image.Rect(px, py, px+int(cell.Width)*CellWidth, py+CellHeight)
			draw.Draw(img, bounds, image.NewUniform(bg), image.Point{}, draw.Src)
			if cell.Rune == ' ' || cell.Rune == 0 {
				continue
			}
			d := font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(fg),
				Face: face,
				Dot:  fixed.P(px, py+ascent),
			}
			d.DrawString(string(cell.Rune))
		}
	}
	return img
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func cellColors(style graphics.Style) (fg, bg color.RGBA) {
	fg, bg = DefaultForeground, DefaultBackground
	if !style.Foreground.IsDefault() {
		fg = toRGBA(style.Foreground)
	}
	if !style.Background.IsDefault() {
		bg = toRGBA(style.Background)
	}
	if style.Attrs&graphics.AttrReverse != 0 {
		fg, bg = bg, fg
	}
	return fg, bg
}

func toRGBA(c graphics.Color) color.RGBA {
	r, g, b := c.RGB()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}
