// Package theme provides a color palette to a component subtree.
package theme

import "github.com/go-drift/drift-tui/pkg/graphics"

// Brightness indicates whether a theme is light or dark.
type Brightness int

const (
	BrightnessDark Brightness = iota
	BrightnessLight
)

// ColorScheme is the palette components draw with. ColorDefault entries
// defer to the terminal's own colors.
type ColorScheme struct {
	Primary      graphics.Color
	OnPrimary    graphics.Color
	Background   graphics.Color
	OnBackground graphics.Color
	Muted        graphics.Color
	Border       graphics.Color
	Error        graphics.Color
}

// DarkColorScheme keeps the terminal background and uses bright accents.
func DarkColorScheme() ColorScheme {
	return ColorScheme{
		Primary:      graphics.ColorCyan,
		OnPrimary:    graphics.ColorBlack,
		Background:   graphics.ColorDefault,
		OnBackground: graphics.ColorDefault,
		Muted:        graphics.ColorGray,
		Border:       graphics.ColorGray,
		Error:        graphics.ColorRed,
	}
}

// LightColorScheme paints an explicit light background.
func LightColorScheme() ColorScheme {
	return ColorScheme{
		Primary:      graphics.ColorBlue,
		OnPrimary:    graphics.ColorWhite,
		Background:   graphics.Hex(0xF5F5F5),
		OnBackground: graphics.Hex(0x1E1E1E),
		Muted:        graphics.ColorGray,
		Border:       graphics.Hex(0xB0B0B0),
		Error:        graphics.ColorRed,
	}
}

// ThemeData contains all theme configuration for an application.
type ThemeData struct {
	ColorScheme ColorScheme
	Brightness  Brightness
}

// DefaultDarkTheme returns the default dark theme.
func DefaultDarkTheme() *ThemeData {
	return &ThemeData{ColorScheme: DarkColorScheme(), Brightness: BrightnessDark}
}

// DefaultLightTheme returns the default light theme.
func DefaultLightTheme() *ThemeData {
	return &ThemeData{ColorScheme: LightColorScheme(), Brightness: BrightnessLight}
}

// CopyWith returns a new ThemeData with the specified fields overridden.
func (t *ThemeData) CopyWith(colorScheme *ColorScheme, brightness *Brightness) *ThemeData {
	result := *t
	if colorScheme != nil {
		result.ColorScheme = *colorScheme
	}
	if brightness != nil {
		result.Brightness = *brightness
	}
	return &result
}

// TextStyle is the style for body text.
func (t *ThemeData) TextStyle() graphics.Style {
	return graphics.Style{Foreground: t.ColorScheme.OnBackground}
}

// MutedStyle is the style for secondary text.
func (t *ThemeData) MutedStyle() graphics.Style {
	return graphics.Style{Foreground: t.ColorScheme.Muted}
}

// AccentStyle is the style for highlighted text.
func (t *ThemeData) AccentStyle() graphics.Style {
	return graphics.Style{Foreground: t.ColorScheme.OnPrimary, Background: t.ColorScheme.Primary, Attrs: graphics.AttrBold}
}
