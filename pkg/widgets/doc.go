// Package widgets provides the primitive components applications compose:
// Text for styled strings, View for boxes that lay out, fill and border
// their children, and ContextProvider for handing values down the tree.
//
// # Component Construction
//
// Every widget is a *core.Type with an exported property struct:
//
//	title := widgets.Text.New(widgets.TextProps{
//	    Content: "Inbox",
//	    Style:   graphics.DefaultStyle.WithAttrs(graphics.AttrBold),
//	})
//
// or, starting from the type defaults:
//
//	panel := widgets.View.With(func(p *widgets.ViewProps) {
//	    p.Border = widgets.BorderRounded
//	    p.Style.Padding = layout.Symmetric(0, 1)
//	}, title, body)
//
// # Layout Helpers
//
// Column and Row wrap View for the common stacking cases:
//
//	widgets.Column(1, header, widgets.Row(2, left, right))
package widgets
