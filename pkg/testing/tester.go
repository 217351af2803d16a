package testing

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-drift/drift-tui/pkg/core"
	"github.com/go-drift/drift-tui/pkg/graphics"
	"github.com/go-drift/drift-tui/pkg/layout"
	"github.com/go-drift/drift-tui/pkg/rendering"
	"github.com/go-drift/drift-tui/pkg/terminal"
)

// Default screen size for tests.
const (
	DefaultTestWidth  = 40
	DefaultTestHeight = 12
)

// ErrSettleTimeout is returned when PumpAndSettle or PumpUntil exceeds its
// timeout.
var ErrSettleTimeout = errors.New("tuitest: tree did not settle before timeout")

// scaffoldProps carries what the tester provides to every tree.
type scaffoldProps struct {
	Bus *terminal.EventBus
}

// scaffold makes the tester's event bus visible to UseEvents and forwards
// the element under test.
var scaffold = core.DefineFunc("tuitest.Scaffold", func(props scaffoldProps, _ *core.Hooks, u *core.Updater) error {
	core.Provide(u, props.Bus)
	u.SetChildren(core.Elements(u.Children()...))
	return nil
})

// Tester drives a component tree against an in-memory screen.
type Tester struct {
	tree   *core.Tree
	bus    *terminal.EventBus
	engine layout.Engine
	size   graphics.Size
	buffer *rendering.CellBuffer
	last   *rendering.DisplayList
	frames chan struct{}

	mu         sync.Mutex
	dispatches []func()
	renders    int
}

// NewTester creates a tester with a DefaultTestWidth x DefaultTestHeight
// screen and the stack layout engine.
func NewTester() *Tester {
	frames := make(chan struct{}, 1)
	owner := core.NewBuildOwner()
	owner.OnNeedsFrame = func() {
		select {
		case frames <- struct{}{}:
		default:
		}
	}
	size := graphics.Size{Width: DefaultTestWidth, Height: DefaultTestHeight}
	return &Tester{
		tree:   core.NewTree(core.WithBuildOwner(owner)),
		bus:    terminal.NewEventBus(),
		engine: layout.StackEngine{},
		size:   size,
		buffer: rendering.NewCellBuffer(size),
		frames: frames,
	}
}

// NewTesterWithT creates a tester that unmounts its tree when the test
// finishes.
func NewTesterWithT(t *testing.T) *Tester {
	tester := NewTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the tree, running every effect cleanup.
func (t *Tester) Cleanup() {
	_ = t.tree.Unmount()
}

// Tree returns the tree under test.
func (t *Tester) Tree() *core.Tree {
	return t.tree
}

// Bus returns the event bus provided to the tree.
func (t *Tester) Bus() *terminal.EventBus {
	return t.bus
}

// SetSize changes the screen size. The next pump lays out again.
func (t *Tester) SetSize(size graphics.Size) {
	t.size = size
	t.buffer.Resize(size)
}

// Size returns the screen size.
func (t *Tester) Size() graphics.Size {
	return t.size
}

// SetEngine replaces the layout engine.
func (t *Tester) SetEngine(engine layout.Engine) {
	t.engine = engine
	t.tree.Pipeline().MarkNeedsLayout()
}

// PumpElement renders root, reconciling it against the previous root, and
// pumps one frame.
func (t *Tester) PumpElement(root core.Element) error {
	if err := t.tree.Render(scaffold.New(scaffoldProps{Bus: t.bus}, root)); err != nil {
		return err
	}
	return t.Pump()
}

// Pump runs queued dispatches, flushes pending state updates, and produces
// a frame when layout or paint is pending.
func (t *Tester) Pump() error {
	select {
	case <-t.frames:
	default:
	}

	t.mu.Lock()
	dispatches := t.dispatches
	t.dispatches = nil
	t.mu.Unlock()
	for _, fn := range dispatches {
		fn()
	}

	if err := t.tree.FlushBuild(); err != nil {
		return err
	}
	t.frame()
	return nil
}

func (t *Tester) frame() {
	t.tree.Layout(t.engine, t.size)
	if !t.tree.Pipeline().NeedsPaint() {
		return
	}
	t.last = t.tree.Paint(t.size)
	_ = t.buffer.Draw(t.last)

	t.mu.Lock()
	t.renders++
	t.mu.Unlock()
}

// PumpAndSettle pumps until no builds or dispatches are pending.
func (t *Tester) PumpAndSettle(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if err := t.Pump(); err != nil {
			return err
		}
		if !t.pending() {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrSettleTimeout
		}
	}
}

// PumpUntil pumps until cond reports true, waiting for updates scheduled
// from other goroutines between pumps.
func (t *Tester) PumpUntil(cond func() bool, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if err := t.Pump(); err != nil {
			return err
		}
		if cond() {
			return nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return ErrSettleTimeout
		}
		wait := 10 * time.Millisecond
		if remaining < wait {
			wait = remaining
		}
		select {
		case <-t.frames:
			// Leave the signal for Pump to consume.
			select {
			case t.frames <- struct{}{}:
			default:
			}
		case <-time.After(wait):
		}
	}
}

func (t *Tester) pending() bool {
	t.mu.Lock()
	queued := len(t.dispatches) > 0
	t.mu.Unlock()
	return queued || t.tree.Owner().NeedsBuild()
}

// Dispatch queues fn to run at the start of the next pump. Safe to call from
// any goroutine.
func (t *Tester) Dispatch(fn func()) {
	t.mu.Lock()
	t.dispatches = append(t.dispatches, fn)
	t.mu.Unlock()
	select {
	case t.frames <- struct{}{}:
	default:
	}
}

// RenderCount returns how many frames have been painted.
func (t *Tester) RenderCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.renders
}

// Buffer returns the in-memory screen.
func (t *Tester) Buffer() *rendering.CellBuffer {
	return t.buffer
}

// ScreenText returns the screen contents with trailing blanks trimmed.
func (t *Tester) ScreenText() string {
	return t.buffer.String()
}

// Line returns row y of the screen with trailing blanks trimmed.
func (t *Tester) Line(y int) string {
	return t.buffer.Line(y)
}

// DisplayList returns the most recently painted display list, or nil.
func (t *Tester) DisplayList() *rendering.DisplayList {
	return t.last
}

// Root returns the element under test once mounted.
func (t *Tester) Root() (core.Mounted, bool) {
	top, ok := t.tree.Root()
	if !ok {
		return core.Mounted{}, false
	}
	children := top.Children()
	if len(children) == 0 {
		return core.Mounted{}, false
	}
	return children[0], true
}

// Find evaluates finder against the element under test and its
// descendants.
func (t *Tester) Find(finder Finder) FinderResult {
	root, ok := t.Root()
	if !ok {
		return FinderResult{finder: finder}
	}
	return FinderResult{matches: finder.Evaluate(root), finder: finder}
}
