package engine

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/go-drift/drift-tui/pkg/config"
	"github.com/go-drift/drift-tui/pkg/core"
	"github.com/go-drift/drift-tui/pkg/errors"
	"github.com/go-drift/drift-tui/pkg/graphics"
	"github.com/go-drift/drift-tui/pkg/rendering"
	"github.com/go-drift/drift-tui/pkg/terminal"
	"github.com/go-drift/drift-tui/pkg/widgets"
)

// fakeBackend is a CellBuffer guarded for access from the test goroutine
// while the engine draws on its own.
type fakeBackend struct {
	mu     sync.Mutex
	buf    *rendering.CellBuffer
	events chan terminal.Event
	err    error
}

func newFakeBackend(width, height int) *fakeBackend {
	return &fakeBackend{
		buf:    rendering.NewCellBuffer(graphics.Size{Width: width, Height: height}),
		events: make(chan terminal.Event, 16),
	}
}

func (b *fakeBackend) Size() graphics.Size {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Size()
}

func (b *fakeBackend) Draw(list *rendering.DisplayList) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	return b.buf.Draw(list)
}

func (b *fakeBackend) Events() <-chan terminal.Event {
	return b.events
}

func (b *fakeBackend) line(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Line(y)
}

func (b *fakeBackend) resize(size graphics.Size) {
	b.mu.Lock()
	b.buf.Resize(size)
	b.mu.Unlock()
}

func (b *fakeBackend) fail(err error) {
	b.mu.Lock()
	b.err = err
	b.mu.Unlock()
}

func quietErrors(t *testing.T) {
	t.Helper()
	errors.SetHandler(&errors.LogHandler{Out: io.Discard})
	t.Cleanup(func() { errors.SetHandler(nil) })
}

// start runs e in the background. The returned channel yields Run's result.
func start(t *testing.T, e *Engine, root core.Element) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx, root) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	})
	return cancel, done
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func waitResult(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

type counterProps struct {
	Cleanups *atomic.Int32
}

var counter = core.DefineFunc("Counter", func(p counterProps, hooks *core.Hooks, u *core.Updater) error {
	count, state := core.UseState(hooks, 0)
	app := UseApp(hooks)
	UseTerminalEvents(hooks, func(ev terminal.Event) {
		key, ok := ev.(terminal.KeyEvent)
		switch {
		case !ok:
		case key.IsRune('+'):
			state.Update(func(n int) int { return n + 1 })
		case key.IsRune('q'), key.IsInterrupt():
			app.Exit()
		}
	})
	core.UseEffect(hooks, func() func() {
		return func() {
			if p.Cleanups != nil {
				p.Cleanups.Add(1)
			}
		}
	})
	u.SetChildren(widgets.TextOf(fmt.Sprintf("count: %d", count)))
	return nil
})

func TestRun_DrawsInitialFrame(t *testing.T) {
	backend := newFakeBackend(20, 3)
	e := New(backend)
	start(t, e, widgets.TextOf("hello"))

	waitFor(t, "first frame", func() bool { return backend.line(0) == "hello" })
}

func TestRun_EventsUpdateState(t *testing.T) {
	backend := newFakeBackend(20, 3)
	e := New(backend)
	start(t, e, counter.New(counterProps{}))
	waitFor(t, "first frame", func() bool { return backend.line(0) == "count: 0" })

	backend.events <- terminal.KeyEvent{Key: tcell.KeyRune, Rune: '+'}
	backend.events <- terminal.KeyEvent{Key: tcell.KeyRune, Rune: '+'}

	waitFor(t, "count: 2", func() bool { return backend.line(0) == "count: 2" })
}

func TestRun_InterruptExitsAndUnmounts(t *testing.T) {
	backend := newFakeBackend(20, 3)
	e := New(backend)
	var cleanups atomic.Int32
	_, done := start(t, e, counter.New(counterProps{Cleanups: &cleanups}))
	waitFor(t, "first frame", func() bool { return backend.line(0) == "count: 0" })

	backend.events <- terminal.KeyEvent{Key: tcell.KeyCtrlC}

	if err := waitResult(t, done); err != nil {
		t.Fatalf("Run = %v, want nil after interrupt", err)
	}
	if cleanups.Load() != 1 {
		t.Errorf("cleanups = %d, want 1", cleanups.Load())
	}
	if e.Bus().Len() != 0 {
		t.Errorf("bus still has %d subscribers", e.Bus().Len())
	}
}

func TestRun_InterruptDeliveredWhenDisabled(t *testing.T) {
	backend := newFakeBackend(20, 3)
	e := New(backend, WithExitOnInterrupt(false))
	_, done := start(t, e, counter.New(counterProps{}))
	waitFor(t, "first frame", func() bool { return backend.line(0) == "count: 0" })

	// The component exits through UseApp when it sees the interrupt.
	backend.events <- terminal.KeyEvent{Key: tcell.KeyRune, Rune: '+'}
	backend.events <- terminal.KeyEvent{Key: tcell.KeyCtrlC}

	if err := waitResult(t, done); err != nil {
		t.Fatalf("Run = %v", err)
	}
	if got := backend.line(0); got != "count: 1" {
		t.Errorf("line 0 = %q, want count: 1", got)
	}
}

func TestRun_ContextCancel(t *testing.T) {
	backend := newFakeBackend(10, 1)
	e := New(backend)
	cancel, done := start(t, e, widgets.TextOf("x"))
	waitFor(t, "first frame", func() bool { return backend.line(0) == "x" })

	cancel()
	if err := waitResult(t, done); !stderrors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}

func TestRun_AlreadyRunning(t *testing.T) {
	backend := newFakeBackend(10, 1)
	e := New(backend)
	start(t, e, widgets.TextOf("x"))
	waitFor(t, "first frame", func() bool { return backend.line(0) == "x" })

	if err := e.Run(context.Background(), widgets.TextOf("y")); !stderrors.Is(err, ErrRunning) {
		t.Errorf("second Run = %v, want ErrRunning", err)
	}
}

func TestDispatch_RunsOnLoop(t *testing.T) {
	backend := newFakeBackend(10, 1)
	e := New(backend)
	start(t, e, widgets.TextOf("x"))

	ran := make(chan struct{})
	go e.Dispatch(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatched callback did not run")
	}
}

type feedProps struct {
	Values <-chan string
}

var feed = core.DefineFunc("Feed", func(p feedProps, hooks *core.Hooks, u *core.Updater) error {
	value, state := core.UseState(hooks, "waiting")
	core.UseTask(hooks, func(ctx context.Context) {
		for {
			select {
			case v := <-p.Values:
				state.Set(v)
			case <-ctx.Done():
				return
			}
		}
	}, p.Values)
	u.SetChildren(widgets.TextOf(value))
	return nil
})

func TestRun_BackgroundStateProducesFrames(t *testing.T) {
	backend := newFakeBackend(20, 1)
	e := New(backend)
	values := make(chan string)
	start(t, e, feed.New(feedProps{Values: values}))
	waitFor(t, "first frame", func() bool { return backend.line(0) == "waiting" })

	values <- "first"
	waitFor(t, "first value", func() bool { return backend.line(0) == "first" })
	values <- "second"
	waitFor(t, "second value", func() bool { return backend.line(0) == "second" })
}

func TestRun_ResizeRelayouts(t *testing.T) {
	backend := newFakeBackend(10, 1)
	e := New(backend)
	text := widgets.Text.New(widgets.TextProps{Content: "x", Align: widgets.AlignRight})
	start(t, e, text)
	waitFor(t, "first frame", func() bool { return backend.line(0) == strings.Repeat(" ", 9)+"x" })

	backend.resize(graphics.Size{Width: 6, Height: 1})
	backend.events <- terminal.ResizeEvent{Size: graphics.Size{Width: 6, Height: 1}}

	waitFor(t, "relayout", func() bool { return backend.line(0) == strings.Repeat(" ", 5)+"x" })
}

func TestRun_DrawFailureStops(t *testing.T) {
	backend := newFakeBackend(10, 1)
	backend.fail(stderrors.New("tty gone"))
	e := New(backend)
	_, done := start(t, e, widgets.TextOf("x"))

	err := waitResult(t, done)
	var de *errors.DriftError
	if !stderrors.As(err, &de) || de.Kind != errors.KindTerminal {
		t.Fatalf("Run = %v, want terminal DriftError", err)
	}
}

var flaky = core.DefineFunc("Flaky", func(_ struct{}, hooks *core.Hooks, u *core.Updater) error {
	count, state := core.UseState(hooks, 0)
	UseTerminalEvents(hooks, func(terminal.Event) {
		state.Update(func(n int) int { return n + 1 })
	})
	if count == 1 {
		return stderrors.New("odd state")
	}
	u.SetChildren(widgets.TextOf(fmt.Sprintf("n=%d", count)))
	return nil
})

func TestRun_BuildErrorKeepsRunning(t *testing.T) {
	quietErrors(t)
	backend := newFakeBackend(10, 1)
	e := New(backend)
	start(t, e, flaky.New(struct{}{}))
	waitFor(t, "first frame", func() bool { return backend.line(0) == "n=0" })

	backend.events <- terminal.PasteEvent{Start: true}
	waitFor(t, "build error", func() bool { return e.Stats().BuildErrors == 1 })
	if got := backend.line(0); got != "n=0" {
		t.Errorf("line 0 = %q, want previous frame kept", got)
	}
}

func TestWithFrameRecorder(t *testing.T) {
	var buf bytes.Buffer
	backend := newFakeBackend(12, 2)
	e := New(backend, WithFrameRecorder(&buf))
	_, done := start(t, e, counter.New(counterProps{}))
	waitFor(t, "first frame", func() bool { return backend.line(0) == "count: 0" })

	backend.events <- terminal.KeyEvent{Key: tcell.KeyRune, Rune: 'q'}
	if err := waitResult(t, done); err != nil {
		t.Fatal(err)
	}

	list, err := rendering.NewFrameReader(&buf).ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	replay := rendering.NewCellBuffer(list.Size())
	if err := replay.Draw(list); err != nil {
		t.Fatal(err)
	}
	if got := replay.Line(0); got != "count: 0" {
		t.Errorf("replayed line 0 = %q", got)
	}
}

func TestFrameTraceAndStats(t *testing.T) {
	backend := newFakeBackend(12, 2)
	e := New(backend, WithFrameTrace(4, time.Second))
	_, done := start(t, e, counter.New(counterProps{}))
	waitFor(t, "first frame", func() bool { return backend.line(0) == "count: 0" })

	backend.events <- terminal.KeyEvent{Key: tcell.KeyRune, Rune: '+'}
	waitFor(t, "count: 1", func() bool { return backend.line(0) == "count: 1" })
	backend.events <- terminal.KeyEvent{Key: tcell.KeyRune, Rune: 'q'}
	if err := waitResult(t, done); err != nil {
		t.Fatal(err)
	}

	stats := e.Stats()
	if stats.Frames != 2 {
		t.Errorf("Frames = %d, want 2", stats.Frames)
	}
	if stats.Builds != 2 {
		t.Errorf("Builds = %d, want 2", stats.Builds)
	}

	timeline := e.FrameTrace().Snapshot()
	if len(timeline.Samples) == 0 {
		t.Fatal("expected trace samples")
	}
	first := timeline.Samples[0]
	if !first.Flags.Painted || !first.Flags.LaidOut || first.Counts.Mounted != 3 {
		t.Errorf("first sample = %+v", first)
	}
	if timeline.DroppedFrames != 0 {
		t.Errorf("DroppedFrames = %d", timeline.DroppedFrames)
	}
}

func TestFrameTraceBuffer_Wraps(t *testing.T) {
	buf := NewFrameTraceBuffer(3, time.Millisecond)
	for i := 1; i <= 5; i++ {
		buf.Add(FrameSample{Timestamp: int64(i)}, time.Duration(i)*time.Millisecond)
	}
	timeline := buf.Snapshot()
	if len(timeline.Samples) != 3 {
		t.Fatalf("samples = %d, want 3", len(timeline.Samples))
	}
	for i, s := range timeline.Samples {
		if s.Timestamp != int64(i+3) {
			t.Errorf("sample %d ts = %d, want %d", i, s.Timestamp, i+3)
		}
	}
	if timeline.DroppedFrames != 4 {
		t.Errorf("dropped = %d, want 4", timeline.DroppedFrames)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Cleanup(func() {
		core.SetDebugMode(true)
		errors.SetHandler(nil)
	})

	cfg := &config.Resolved{FrameInterval: 40 * time.Millisecond, ExitOnInterrupt: false, Debug: false}
	e := New(newFakeBackend(1, 1), OptionsFromConfig(cfg)...)
	if e.frameInterval != 40*time.Millisecond || e.exitOnInterrupt {
		t.Errorf("engine = interval %v exit %v", e.frameInterval, e.exitOnInterrupt)
	}
	if core.DebugMode {
		t.Error("DebugMode should follow the config")
	}

	opts := ScreenOptions(&config.Resolved{Mouse: true, Paste: true})
	if len(opts) != 2 {
		t.Errorf("screen options = %d, want 2", len(opts))
	}
}

func TestUseApp_NilOutsideEngine(t *testing.T) {
	var got *App
	reader := core.DefineFunc("AppReader", func(_ struct{}, hooks *core.Hooks, _ *core.Updater) error {
		got = UseApp(hooks)
		return nil
	})
	tree := core.NewTree()
	if err := tree.Render(reader.New(struct{}{})); err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("UseApp = %v, want nil", got)
	}
}
