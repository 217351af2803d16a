// Package engine drives a component tree against a terminal backend.
//
// The engine owns the frame loop. A frame runs queued dispatch callbacks,
// flushes pending state updates, lays out the tree, paints it into a
// display list and hands the list to the backend. Frames are produced only
// when something asked for one: a state setter, a Dispatch call, or a
// terminal event. Requests arriving while a frame is in progress coalesce
// into the next one.
package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-drift/drift-tui/pkg/core"
	"github.com/go-drift/drift-tui/pkg/errors"
	"github.com/go-drift/drift-tui/pkg/layout"
	"github.com/go-drift/drift-tui/pkg/rendering"
	"github.com/go-drift/drift-tui/pkg/terminal"
)

// ErrRunning is returned by Run when the engine is already running.
var ErrRunning = stderrors.New("engine: already running")

// EventSource is implemented by backends that deliver input.
// terminal.Screen implements it.
type EventSource interface {
	Events() <-chan terminal.Event
}

// Engine runs one component tree against one backend.
type Engine struct {
	backend rendering.Backend
	tree    *core.Tree
	layout  layout.Engine
	bus     *terminal.EventBus
	app     *App

	needsFrame chan struct{}

	dispatchMu    sync.Mutex
	dispatchQueue []func()

	frameInterval   time.Duration
	exitOnInterrupt bool
	recorder        *rendering.FrameWriter
	trace           *FrameTraceBuffer

	running atomic.Bool
	stats   statsCounters

	lastFrameStart time.Time
	pendingEvents  int
}

// New creates an engine drawing to backend. If backend implements
// EventSource, its events are published to components while Run is active.
func New(backend rendering.Backend, opts ...Option) *Engine {
	e := &Engine{
		backend:         backend,
		layout:          layout.StackEngine{},
		bus:             terminal.NewEventBus(),
		needsFrame:      make(chan struct{}, 1),
		exitOnInterrupt: true,
	}
	owner := core.NewBuildOwner()
	owner.OnNeedsFrame = e.requestFrame
	e.tree = core.NewTree(core.WithBuildOwner(owner))
	e.app = &App{engine: e}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tree returns the engine's component tree.
func (e *Engine) Tree() *core.Tree {
	return e.tree
}

// Bus returns the bus terminal events are published on.
func (e *Engine) Bus() *terminal.EventBus {
	return e.bus
}

// App returns the handle components get from UseApp.
func (e *Engine) App() *App {
	return e.app
}

// FrameTrace returns the trace buffer, or nil when tracing is off.
func (e *Engine) FrameTrace() *FrameTraceBuffer {
	return e.trace
}

// Dispatch queues fn to run on the loop goroutine at the start of the next
// frame. Safe to call from any goroutine.
func (e *Engine) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	e.dispatchMu.Lock()
	e.dispatchQueue = append(e.dispatchQueue, fn)
	e.dispatchMu.Unlock()
	e.requestFrame()
}

func (e *Engine) drainDispatchQueue() []func() {
	e.dispatchMu.Lock()
	defer e.dispatchMu.Unlock()
	queue := e.dispatchQueue
	e.dispatchQueue = nil
	return queue
}

// requestFrame signals the loop without blocking. A pending signal absorbs
// further requests.
func (e *Engine) requestFrame() {
	select {
	case e.needsFrame <- struct{}{}:
	default:
	}
}

// Run mounts root and produces frames until ctx is cancelled, App.Exit is
// called, or the backend fails. It returns nil after an exit request and
// ctx.Err() after cancellation. The tree is unmounted before Run returns,
// which runs every effect cleanup and cancels running tasks.
func (e *Engine) Run(ctx context.Context, root core.Element) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer e.running.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.app.begin(cancel)

	if err := e.tree.Render(scaffold.New(scaffoldProps{Bus: e.bus, App: e.app}, root)); err != nil {
		return fmt.Errorf("engine: initial render: %w", err)
	}
	defer func() { _ = e.tree.Unmount() }()

	var events <-chan terminal.Event
	if src, ok := e.backend.(EventSource); ok {
		events = src.Events()
	}

	for {
		if err := e.safeFrame(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return e.app.result(ctx)
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			e.handleEvent(ev)
		case <-e.needsFrame:
		}
		if err := e.throttle(ctx); err != nil {
			return e.app.result(ctx)
		}
	}
}

// handleEvent publishes ev to subscribed components. Ctrl-C exits instead
// when exit-on-interrupt is enabled.
func (e *Engine) handleEvent(ev terminal.Event) {
	if key, ok := ev.(terminal.KeyEvent); ok && key.IsInterrupt() && e.exitOnInterrupt {
		e.app.Exit()
		return
	}
	if _, ok := ev.(terminal.ResizeEvent); ok {
		if s, ok := e.backend.(interface{ Sync() }); ok {
			s.Sync()
		}
	}
	e.pendingEvents++
	e.bus.Publish(ev)
}

// throttle waits out the rest of the frame interval.
func (e *Engine) throttle(ctx context.Context) error {
	if e.frameInterval <= 0 || e.lastFrameStart.IsZero() {
		return nil
	}
	wait := e.frameInterval - time.Since(e.lastFrameStart)
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// safeFrame runs a frame. In debug mode a panic is reported and returned
// as an error instead of crashing the process with the terminal in raw mode.
func (e *Engine) safeFrame() (err error) {
	if core.DebugMode {
		defer func() {
			if r := recover(); r != nil {
				err = errors.Recovered("engine.frame", "", r)
			}
		}()
	}
	return e.frame()
}

// frame runs the pipeline once. A failed build pass is reported and leaves
// the previous frame on screen; only backend failures stop the loop.
func (e *Engine) frame() error {
	start := time.Now()
	e.lastFrameStart = start
	trace := e.trace != nil
	var sample FrameSample
	timer := startPhase()

	// Dispatch
	callbacks := e.drainDispatchQueue()
	for _, callback := range callbacks {
		callback()
	}
	sample.Counts.Dispatches = len(callbacks)
	sample.Counts.Events = e.pendingEvents
	e.pendingEvents = 0
	sample.Phases.DispatchMs = timer.lap()

	// Build
	sample.Counts.DirtyBuild = e.tree.Owner().DirtyCount()
	if err := e.tree.FlushBuild(); err != nil {
		sample.Flags.BuildFail = true
		e.stats.buildErrors.Add(1)
	}
	sample.Phases.BuildMs = timer.lap()

	// Layout
	size := e.backend.Size()
	sample.Flags.LaidOut = e.tree.Layout(e.layout, size)
	sample.Phases.LayoutMs = timer.lap()

	if e.tree.Pipeline().NeedsPaint() {
		// Paint
		list := e.tree.Paint(size)
		sample.Counts.Ops = list.Len()
		sample.Phases.PaintMs = timer.lap()

		// Draw
		if err := e.backend.Draw(list); err != nil {
			return &errors.DriftError{
				Op:        "engine.draw",
				Kind:      errors.KindTerminal,
				Err:       err,
				Timestamp: time.Now(),
			}
		}
		e.record(list)
		sample.Phases.DrawMs = timer.lap()
		sample.Flags.Painted = true
		e.stats.frames.Add(1)
	}

	tree := e.tree.Stats()
	e.stats.builds.Store(int64(tree.Passes))
	e.stats.updates.Store(int64(tree.Updates))

	elapsed := time.Since(start)
	e.stats.lastFrame.Store(int64(elapsed))
	if trace {
		sample.Timestamp = start.UnixMilli()
		sample.FrameMs = durationToMillis(elapsed)
		sample.Counts.Mounted = tree.Mounted
		e.trace.Add(sample, elapsed)
	}
	return nil
}

// record streams list to the frame recorder. A write failure is reported
// once and stops recording.
func (e *Engine) record(list *rendering.DisplayList) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.WriteFrame(list); err != nil {
		errors.Report(&errors.DriftError{
			Op:        "engine.record",
			Kind:      errors.KindRender,
			Err:       err,
			Timestamp: time.Now(),
		})
		e.recorder = nil
	}
}

type statsCounters struct {
	frames      atomic.Int64
	builds      atomic.Int64
	updates     atomic.Int64
	buildErrors atomic.Int64
	lastFrame   atomic.Int64
}

// Stats summarizes the engine's work so far.
type Stats struct {
	// Frames is the number of frames drawn to the backend.
	Frames int
	// Builds is the number of committed render passes.
	Builds int
	// Updates is the number of component updates in committed passes.
	Updates int
	// BuildErrors is the number of render passes that failed.
	BuildErrors int
	// LastFrame is how long the most recent frame took.
	LastFrame time.Duration
}

// Stats returns counters as of the end of the last frame. Safe to call from
// any goroutine.
func (e *Engine) Stats() Stats {
	return Stats{
		Frames:      int(e.stats.frames.Load()),
		Builds:      int(e.stats.builds.Load()),
		Updates:     int(e.stats.updates.Load()),
		BuildErrors: int(e.stats.buildErrors.Load()),
		LastFrame:   time.Duration(e.stats.lastFrame.Load()),
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithFrameInterval sets the minimum time between frames. Zero disables
// throttling.
func WithFrameInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.frameInterval = d
	}
}

// WithFrameRecorder streams every drawn display list to w in the msgpack
// frame format read by rendering.FrameReader.
func WithFrameRecorder(w io.Writer) Option {
	return func(e *Engine) {
		if w != nil {
			e.recorder = rendering.NewFrameWriter(w)
		}
	}
}

// WithFrameTrace records per-frame phase timings in a ring buffer of the
// given capacity.
func WithFrameTrace(capacity int, threshold time.Duration) Option {
	return func(e *Engine) {
		e.trace = NewFrameTraceBuffer(capacity, threshold)
	}
}

// WithExitOnInterrupt controls whether Ctrl-C ends Run. When disabled the
// key is published like any other.
func WithExitOnInterrupt(exit bool) Option {
	return func(e *Engine) {
		e.exitOnInterrupt = exit
	}
}

// WithLayoutEngine replaces the stacking layout engine.
func WithLayoutEngine(engine layout.Engine) Option {
	return func(e *Engine) {
		if engine != nil {
			e.layout = engine
		}
	}
}
