// Package testbed holds small components used by the tuitest tests.
package testbed

import (
	"fmt"

	"github.com/go-drift/drift-tui/pkg/core"
	"github.com/go-drift/drift-tui/pkg/terminal"
	"github.com/go-drift/drift-tui/pkg/widgets"
)

// CounterProps configures Counter.
type CounterProps struct {
	Label string
}

// Counter shows "<Label>: <n>" and increments on '+'.
var Counter = core.DefineFunc("Counter", func(p CounterProps, hooks *core.Hooks, u *core.Updater) error {
	count, state := core.UseState(hooks, 0)
	terminal.UseEvents(hooks, func(ev terminal.Event) {
		if key, ok := ev.(terminal.KeyEvent); ok && key.IsRune('+') {
			state.Update(func(n int) int { return n + 1 })
		}
	})
	u.SetChildren(widgets.TextOf(fmt.Sprintf("%s: %d", p.Label, count)).WithKey("value"))
	return nil
}, core.WithDefaults(func() CounterProps {
	return CounterProps{Label: "count"}
}))
