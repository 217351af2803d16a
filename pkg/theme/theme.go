package theme

import (
	"github.com/go-drift/drift-tui/pkg/core"
	"github.com/go-drift/drift-tui/pkg/graphics"
	"github.com/go-drift/drift-tui/pkg/layout"
	"github.com/go-drift/drift-tui/pkg/widgets"
)

// Props configures Theme.
type Props struct {
	Data *ThemeData
}

// Theme provides Data to the children its parent declares. A nil Data
// provides nothing, leaving any outer theme in effect.
var Theme = core.DefineFunc("Theme", func(p Props, _ *core.Hooks, u *core.Updater) error {
	if p.Data != nil {
		core.Provide(u, p.Data)
	}
	u.SetChildren(core.Elements(u.Children()...))
	return nil
})

// Provide is shorthand for a Theme element.
func Provide(data *ThemeData, children ...core.Node) core.Element {
	return Theme.New(Props{Data: data}, children...)
}

// UseTheme returns the nearest provided theme, or the default dark theme.
func UseTheme(h *core.Hooks) *ThemeData {
	if data, ok := core.UseContext[*ThemeData](h); ok && data != nil {
		return data
	}
	return DefaultDarkTheme()
}

// TextOf creates body text styled by data.
func TextOf(data *ThemeData, content string) core.Element {
	return widgets.Text.New(widgets.TextProps{Content: content, Style: data.TextStyle()})
}

// MutedTextOf creates secondary text styled by data.
func MutedTextOf(data *ThemeData, content string) core.Element {
	return widgets.Text.New(widgets.TextProps{Content: content, Style: data.MutedStyle()})
}

// PanelOf creates a bordered, titled column in the theme's colors.
func PanelOf(data *ThemeData, title string, children ...core.Node) core.Element {
	return panel(data, title, data.ColorScheme.Border, children)
}

// FocusPanelOf is PanelOf with a primary-colored border while focused.
func FocusPanelOf(data *ThemeData, title string, focused bool, children ...core.Node) core.Element {
	border := data.ColorScheme.Border
	if focused {
		border = data.ColorScheme.Primary
	}
	return panel(data, title, border, children)
}

func panel(data *ThemeData, title string, border graphics.Color, children []core.Node) core.Element {
	return widgets.View.New(widgets.ViewProps{
		Style:       layout.Style{Padding: layout.Symmetric(0, 1)},
		Background:  data.ColorScheme.Background,
		Border:      widgets.BorderRounded,
		BorderColor: border,
		Title:       title,
	}, children...)
}
