package errors

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"
	"time"
)

func TestDriftErrorString(t *testing.T) {
	err := &DriftError{
		Op:   "core.reconcileChildren",
		Kind: KindReconcile,
		Err:  stderrors.New("duplicate key"),
	}
	want := "core.reconcileChildren [reconcile]: duplicate key"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestDriftErrorWithComponent(t *testing.T) {
	err := &DriftError{
		Op:        "core.reconcileChildren",
		Kind:      KindReconcile,
		Component: "Button",
		Err:       stderrors.New("duplicate key"),
	}
	if got := err.Error(); !strings.Contains(got, "component=Button") {
		t.Errorf("error string %q should contain component", got)
	}
}

func TestDriftErrorUnwrap(t *testing.T) {
	inner := stderrors.New("inner")
	err := &DriftError{Op: "op", Err: inner}
	if !stderrors.Is(err, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindConstruction, "construction"},
		{KindHook, "hook"},
		{KindReconcile, "reconcile"},
		{KindBuild, "build"},
		{KindRender, "render"},
		{KindTerminal, "terminal"},
		{KindConfig, "config"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "test panic", Timestamp: time.Now()}
	if got, want := err.Error(), "panic: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}

	err.Op = "engine.dispatch"
	if got, want := err.Error(), "panic in engine.dispatch: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}

	err.Component = "Clock"
	if got, want := err.Error(), "panic in engine.dispatch component=Clock: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestConstructionErrorString(t *testing.T) {
	err := &ConstructionError{Type: "Text", Field: "Content", Reason: "expected string, got int"}
	want := `cannot construct Text: property "Content": expected string, got int`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = &ConstructionError{Type: "Nope", Reason: "unknown component type"}
	if got, want := err.Error(), "cannot construct Nope: unknown component type"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestHookErrorString(t *testing.T) {
	err := &HookError{Component: "Counter", Index: 2, Expected: "state", Got: "effect"}
	want := "hook order violation in Counter at slot 2: expected state, got effect"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestBuildErrorString(t *testing.T) {
	err := &BuildError{Component: "Counter", Recovered: "nil pointer dereference"}
	if got, want := err.Error(), "panic in Counter.Update(): nil pointer dereference"; got != want {
		t.Errorf("BuildError.Error() = %q, want %q", got, want)
	}

	err = &BuildError{Component: "Counter", Key: "a", Err: stderrors.New("boom")}
	if got, want := err.Error(), "error in Counter[key=a].Update(): boom"; got != want {
		t.Errorf("BuildError.Error() = %q, want %q", got, want)
	}

	err = &BuildError{Component: "Counter"}
	if got, want := err.Error(), "unknown error in Counter.Update()"; got != want {
		t.Errorf("BuildError.Error() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	var captured *DriftError
	SetHandler(&testHandler{onError: func(err *DriftError) { captured = err }})
	defer SetHandler(nil)

	Report(&DriftError{Op: "test.op", Kind: KindRender, Err: stderrors.New("x")})

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "test.op" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.op")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestReportNil(t *testing.T) {
	called := false
	SetHandler(&testHandler{
		onError:      func(*DriftError) { called = true },
		onPanic:      func(*PanicError) { called = true },
		onBuildError: func(*BuildError) { called = true },
	})
	defer SetHandler(nil)

	Report(nil)
	ReportPanic(nil)
	ReportBuildError(nil)

	if called {
		t.Error("nil reports should not reach the handler")
	}
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	SetHandler(&testHandler{onPanic: func(err *PanicError) { captured = err }})
	defer SetHandler(nil)

	func() {
		defer Recover("test.recover", "Counter")
		panic("intentional test panic")
	}()

	if captured == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if captured.Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", captured.Value, "intentional test panic")
	}
	if captured.Op != "test.recover" || captured.Component != "Counter" {
		t.Errorf("Op, Component = %q, %q, want test.recover, Counter", captured.Op, captured.Component)
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestRecovered(t *testing.T) {
	reported := 0
	SetHandler(&testHandler{onPanic: func(*PanicError) { reported++ }})
	defer SetHandler(nil)

	if perr := Recovered("test.op", "", nil); perr != nil {
		t.Errorf("Recovered(nil) = %v, want nil", perr)
	}
	perr := Recovered("engine.frame", "", 42)
	if perr == nil || perr.Value != 42 {
		t.Fatalf("Recovered(42) = %v", perr)
	}
	if perr.StackTrace == "" {
		t.Error("expected a stack trace")
	}
	if reported != 1 {
		t.Errorf("handler called %d times, want 1", reported)
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if stack == "" {
		t.Fatal("expected non-empty stack trace")
	}
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

func TestSetHandler(t *testing.T) {
	custom := &testHandler{}
	SetHandler(custom)
	if prev := SetHandler(nil); prev != custom {
		t.Errorf("SetHandler returned %T, want the installed handler", prev)
	}
	if _, ok := CurrentHandler().(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should install a LogHandler, got %T", CurrentHandler())
	}
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Out: &buf}

	h.HandleError(&DriftError{Op: "core.reconcileChildren", Kind: KindReconcile, Err: stderrors.New("dup")})
	h.HandleBuildError(&BuildError{Component: "Counter", Err: stderrors.New("boom")})
	h.HandlePanic(&PanicError{Op: "engine.dispatch", Value: "oops"})
	h.HandlePanic(&PanicError{Op: "core.UseTask", Component: "Clock", Value: "tick"})

	out := buf.String()
	for _, want := range []string{
		"[drift-tui warning] core.reconcileChildren: dup",
		"[drift-tui build error] error in Counter.Update(): boom",
		"[drift-tui panic] engine.dispatch: oops",
		"[drift-tui panic] core.UseTask component=Clock: tick",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHandlerVerbose(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Out: &buf, Verbose: true}
	h.HandleError(&DriftError{
		Op:         "terminal.Init",
		Kind:       KindTerminal,
		Component:  "Screen",
		Err:        stderrors.New("no tty"),
		StackTrace: "frame",
	})
	out := buf.String()
	if !strings.Contains(out, "[terminal] component=Screen: no tty") {
		t.Errorf("verbose output missing details:\n%s", out)
	}
	if !strings.Contains(out, "Stack trace:\nframe") {
		t.Errorf("verbose output missing stack trace:\n%s", out)
	}
}

type testHandler struct {
	onError      func(*DriftError)
	onPanic      func(*PanicError)
	onBuildError func(*BuildError)
}

func (h *testHandler) HandleError(err *DriftError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}

func (h *testHandler) HandleBuildError(err *BuildError) {
	if h.onBuildError != nil {
		h.onBuildError(err)
	}
}
