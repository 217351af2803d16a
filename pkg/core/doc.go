// Package core provides the component tree lifecycle engine.
//
// Application code declares an immutable tree of Elements. A Tree reconciles
// each new declaration against the instances it already has mounted,
// reusing an instance whenever its identity (component type plus key, or
// position among same-type siblings) survives. Reused instances keep their
// hook state; instances whose identity disappears are unmounted and their
// effect cleanups run.
//
// # Components
//
// A component type pairs a property struct with an update function:
//
//	type CounterProps struct {
//	    Label string
//	}
//
//	var Counter = core.DefineFunc("Counter", func(props CounterProps, h *core.Hooks, u *core.Updater) error {
//	    count, state := core.UseState(h, 0)
//	    u.SetChildren(widgets.Text.New(widgets.TextProps{
//	        Content: fmt.Sprintf("%s: %d", props.Label, count),
//	    }))
//	    core.UseEffect(h, func() func() {
//	        t := time.AfterFunc(time.Second, func() { state.Update(func(n int) int { return n + 1 }) })
//	        return func() { t.Stop() }
//	    }, count)
//	    return nil
//	})
//
// Elements are built with Type.New or Type.With and keyed with WithKey:
//
//	list := core.Each(items, func(item Item) core.Element {
//	    return Row.New(RowProps{Item: item}).WithKey(item.ID)
//	})
//
// # Hooks
//
// Hooks are identified by call order. Every update of an instance must call
// the same hooks in the same order; a mismatch aborts the render pass with
// a *errors.HookError instead of handing state to the wrong slot.
//
// # Context
//
// Provide pushes a typed value for the provider's subtree; UseContext and
// Consume find the nearest provider above the caller. Frames are popped when
// the provider's subtree finishes reconciling, so siblings never see them.
//
// # Render passes
//
// State setters never re-render synchronously. They mark the owning
// instance dirty with the BuildOwner; the driving loop calls
// Tree.FlushBuild once per frame, which coalesces every pending update.
// A pass stages all changes and commits them only if every component
// update succeeds, so a failed pass leaves the mounted tree untouched.
package core
