package focus

import (
	"github.com/go-drift/drift-tui/pkg/core"
	"github.com/go-drift/drift-tui/pkg/terminal"
)

// ScopeProps configures Scope.
type ScopeProps struct {
	Autofocus bool
}

// Scope provides a Manager to the children its parent declares and feeds
// it key events from the terminal.
var Scope = core.DefineFunc("FocusScope", func(p ScopeProps, hooks *core.Hooks, u *core.Updater) error {
	manager := core.UseMemo(hooks, func() *Manager {
		m := NewManager()
		m.Autofocus = p.Autofocus
		return m
	})
	core.UseEffect(hooks, func() func() {
		manager.Autofocus = p.Autofocus
		return nil
	}, p.Autofocus)
	terminal.UseEvents(hooks, func(ev terminal.Event) {
		if key, ok := ev.(terminal.KeyEvent); ok {
			manager.HandleKey(key)
		}
	})
	core.Provide(u, manager)
	u.SetChildren(core.Elements(u.Children()...))
	return nil
})

// NodeOptions configures the node UseFocus registers.
type NodeOptions struct {
	DebugLabel    string
	SkipTraversal bool
	// OnKey sees key events while the node is focused.
	OnKey func(event terminal.KeyEvent) KeyEventResult
}

// UseFocus registers the calling component with the nearest Scope and
// reports whether it currently has focus. Outside a Scope the node is
// returned unregistered and never gains focus.
func UseFocus(h *core.Hooks, opts NodeOptions) (*Node, bool) {
	manager, _ := core.UseContext[*Manager](h)
	focused, state := core.UseState(h, false)
	latest := core.UseLatest(h, opts.OnKey)
	node := core.UseMemo(h, func() *Node {
		return &Node{
			CanRequestFocus: true,
			DebugLabel:      opts.DebugLabel,
			SkipTraversal:   opts.SkipTraversal,
			Rect:            h.Self().ScreenRect,
			OnFocusChange:   state.Set,
			OnKey: func(ev terminal.KeyEvent) KeyEventResult {
				if latest.Current == nil {
					return KeyEventIgnored
				}
				return latest.Current(ev)
			},
		}
	})
	core.UseEffect(h, func() func() {
		node.DebugLabel = opts.DebugLabel
		node.SkipTraversal = opts.SkipTraversal
		return nil
	}, opts.DebugLabel, opts.SkipTraversal)

	core.UseEffect(h, func() func() {
		if manager == nil {
			return nil
		}
		return manager.Register(node)
	}, manager)
	return node, focused
}
