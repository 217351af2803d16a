// Package demo is the component tree shown by "drift-tui demo".
package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/go-drift/drift-tui/pkg/core"
	"github.com/go-drift/drift-tui/pkg/engine"
	"github.com/go-drift/drift-tui/pkg/focus"
	"github.com/go-drift/drift-tui/pkg/terminal"
	"github.com/go-drift/drift-tui/pkg/theme"
	"github.com/go-drift/drift-tui/pkg/widgets"
)

// Props configures App.
type Props struct {
	Theme *theme.ThemeData
	// Items seeds the rotating list.
	Items []string
	// Now and Tick drive the clock.
	Now  func() time.Time
	Tick time.Duration
}

// App is the demo root with a counter, a clock and a keyed list. Tab moves
// focus between the counter and the list. Pressing q
// exits when running under an engine. Build it with App.With to start from
// the default items.
var App = core.DefineFunc("demo.App", func(p Props, hooks *core.Hooks, u *core.Updater) error {
	app := engine.UseApp(hooks)
	engine.UseTerminalEvents(hooks, func(ev terminal.Event) {
		if key, ok := ev.(terminal.KeyEvent); ok && key.IsRune('q') && app != nil {
			app.Exit()
		}
	})
	data := p.Theme
	if data == nil {
		data = theme.UseTheme(hooks)
	}
	u.SetChildren(theme.Provide(data, focus.Scope.New(focus.ScopeProps{Autofocus: true},
		widgets.Column(0,
			theme.TextOf(data, "drift-tui demo").WithKey("title"),
			theme.MutedTextOf(data, "+/- count  r rotate  tab focus  q quit").WithKey("help"),
			widgets.Row(1,
				Counter.New(CounterProps{}).WithKey("counter"),
				Clock.New(ClockProps{Now: p.Now, Tick: p.Tick}).WithKey("clock"),
			),
			List.New(ListProps{Items: p.Items}).WithKey("list"),
		),
	)))
	return nil
}, core.WithDefaults(func() Props {
	return Props{
		Items: []string{"alpha", "beta", "gamma", "delta"},
		Now:   time.Now,
		Tick:  time.Second,
	}
}))

// CounterProps configures Counter.
type CounterProps struct{}

// Counter counts '+' and '-' presses.
var Counter = core.DefineFunc("demo.Counter", func(_ CounterProps, hooks *core.Hooks, u *core.Updater) error {
	data := theme.UseTheme(hooks)
	_, focused := focus.UseFocus(hooks, focus.NodeOptions{DebugLabel: "counter"})
	count, state := core.UseState(hooks, 0)
	engine.UseTerminalEvents(hooks, func(ev terminal.Event) {
		key, ok := ev.(terminal.KeyEvent)
		switch {
		case !ok:
		case key.IsRune('+'):
			state.Update(func(n int) int { return n + 1 })
		case key.IsRune('-'):
			state.Update(func(n int) int { return n - 1 })
		}
	})
	u.SetChildren(theme.FocusPanelOf(data, "counter", focused,
		theme.TextOf(data, fmt.Sprintf("count: %d", count)).WithKey("value"),
	))
	return nil
})

// ClockProps configures Clock.
type ClockProps struct {
	Now  func() time.Time
	Tick time.Duration
}

// ClockLayout is the time format Clock displays.
const ClockLayout = "15:04:05"

// Clock shows the time, refreshed every Tick from a background task. Zero
// fields fall back to time.Now and one second.
var Clock = core.DefineFunc("demo.Clock", func(p ClockProps, hooks *core.Hooks, u *core.Updater) error {
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.Tick <= 0 {
		p.Tick = time.Second
	}
	data := theme.UseTheme(hooks)
	now, state := core.UseState(hooks, p.Now())
	core.UseTask(hooks, func(ctx context.Context) {
		ticker := time.NewTicker(p.Tick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				state.Set(p.Now())
			}
		}
	}, p.Tick)
	u.SetChildren(theme.PanelOf(data, "clock",
		theme.TextOf(data, now.Format(ClockLayout)).WithKey("time"),
	))
	return nil
})

// ListProps configures List.
type ListProps struct {
	Items []string
}

// List shows Items keyed by value. 'r' moves the first item to the end,
// which reorders the mounted rows without remounting them.
var List = core.DefineFunc("demo.List", func(p ListProps, hooks *core.Hooks, u *core.Updater) error {
	data := theme.UseTheme(hooks)
	_, focused := focus.UseFocus(hooks, focus.NodeOptions{DebugLabel: "list"})
	items, state := core.UseState(hooks, p.Items)
	engine.UseTerminalEvents(hooks, func(ev terminal.Event) {
		if key, ok := ev.(terminal.KeyEvent); ok && key.IsRune('r') {
			state.Update(rotate)
		}
	})
	u.SetChildren(theme.FocusPanelOf(data, "items", focused,
		core.Each(items, func(item string) core.Element {
			return theme.TextOf(data, "* "+item).WithKey(item)
		}),
	))
	return nil
})

func rotate(items []string) []string {
	if len(items) < 2 {
		return items
	}
	out := make([]string, 0, len(items))
	out = append(out, items[1:]...)
	return append(out, items[0])
}
