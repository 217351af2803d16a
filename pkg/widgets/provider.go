package widgets

import "github.com/go-drift/drift-tui/pkg/core"

// ContextProviderProps configures ContextProvider.
type ContextProviderProps struct {
	// Value is provided under its dynamic type. A nil Value provides
	// nothing.
	Value any
}

// ContextProvider makes Value available to the children its parent
// declares, through core.UseContext with the value's concrete type.
var ContextProvider = core.DefineFunc("ContextProvider", func(p ContextProviderProps, _ *core.Hooks, u *core.Updater) error {
	core.ProvideValue(u, p.Value)
	u.SetChildren(core.Elements(u.Children()...))
	return nil
})

// Provide is shorthand for a ContextProvider.
func Provide(value any, children ...core.Node) core.Element {
	return ContextProvider.New(ContextProviderProps{Value: value}, children...)
}
