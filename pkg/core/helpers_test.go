package core

import (
	"fmt"
	"sync"
	"testing"

	"github.com/go-drift/drift-tui/pkg/errors"
)

// eventLog collects lifecycle events from test components.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

// take returns the recorded events and clears the log.
func (l *eventLog) take() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.events
	l.events = nil
	return out
}

type tracerProps struct {
	Name string
	Log  *eventLog
	Deps any
}

// tracer records its updates and effects and forwards declared children.
var tracer = DefineFunc("Tracer", func(p tracerProps, h *Hooks, u *Updater) error {
	p.Log.add("update %s", p.Name)
	UseEffect(h, func() func() {
		p.Log.add("effect %s", p.Name)
		return func() { p.Log.add("cleanup %s", p.Name) }
	}, p.Deps)
	u.SetChildren(Elements(u.Children()...))
	return nil
})

type failProps struct {
	Err   error
	Panic any
}

var failing = DefineFunc("Failing", func(p failProps, h *Hooks, u *Updater) error {
	if p.Panic != nil {
		panic(p.Panic)
	}
	return p.Err
})

// recordingHandler captures reported errors for assertions.
type recordingHandler struct {
	mu     sync.Mutex
	errors []*errors.DriftError
	panics []*errors.PanicError
	builds []*errors.BuildError
}

func (r *recordingHandler) HandleError(err *errors.DriftError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
}

func (r *recordingHandler) HandlePanic(err *errors.PanicError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panics = append(r.panics, err)
}

func (r *recordingHandler) HandleBuildError(err *errors.BuildError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builds = append(r.builds, err)
}

func recordErrors(t *testing.T) *recordingHandler {
	rec := &recordingHandler{}
	errors.SetHandler(rec)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return rec
}

func childIDs(m Mounted) []uint64 {
	var ids []uint64
	for _, c := range m.Children() {
		ids = append(ids, c.ID())
	}
	return ids
}

func mustRoot(t *testing.T, tree *Tree) Mounted {
	t.Helper()
	root, ok := tree.Root()
	if !ok {
		t.Fatal("tree has no root")
	}
	return root
}
