package testbed

import (
	"context"

	"github.com/go-drift/drift-tui/pkg/core"
	"github.com/go-drift/drift-tui/pkg/widgets"
)

// LoaderProps configures Loader.
type LoaderProps struct {
	// Ready delivers the loaded value.
	Ready <-chan string
}

// Loader shows "loading" until a value arrives on Ready.
var Loader = core.DefineFunc("Loader", func(p LoaderProps, hooks *core.Hooks, u *core.Updater) error {
	value, state := core.UseState(hooks, "loading")
	core.UseTask(hooks, func(ctx context.Context) {
		select {
		case v := <-p.Ready:
			state.Set(v)
		case <-ctx.Done():
		}
	}, p.Ready)
	u.SetChildren(widgets.TextOf(value))
	return nil
})
