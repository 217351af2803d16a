package graphics

import "fmt"

// Color is stored as ARGB (0xAARRGGBB).
//
// A zero alpha means the terminal's default color: the backend leaves the
// cell's foreground or background to the terminal theme instead of forcing
// an RGB value.
type Color uint32

// RGB constructs an opaque Color from red, green, blue bytes.
func RGB(r, g, b uint8) Color {
	return Color(0xFF<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Hex constructs an opaque Color from a 0xRRGGBB literal.
func Hex(rgb uint32) Color {
	return Color(0xFF<<24 | rgb&0x00FFFFFF)
}

// IsDefault reports whether the color defers to the terminal default.
func (c Color) IsDefault() bool {
	return uint8(c>>24) == 0
}

// RGB returns the red, green and blue components.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

func (c Color) String() string {
	if c.IsDefault() {
		return "default"
	}
	return fmt.Sprintf("#%06x", uint32(c)&0x00FFFFFF)
}

// Common colors.
const (
	ColorDefault = Color(0x00000000)
	ColorBlack   = Color(0xFF000000)
	ColorWhite   = Color(0xFFFFFFFF)
	ColorRed     = Color(0xFFCD3131)
	ColorGreen   = Color(0xFF0DBC79)
	ColorYellow  = Color(0xFFE5E510)
	ColorBlue    = Color(0xFF2472C8)
	ColorMagenta = Color(0xFFBC3FBC)
	ColorCyan    = Color(0xFF11A8CD)
	ColorGray    = Color(0xFF808080)
)
