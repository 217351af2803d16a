package errors

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	handlerMu sync.RWMutex
	handler   ErrorHandler = &LogHandler{}
)

// SetHandler installs h as the destination for everything the runtime
// reports and returns the handler it replaced. Nil restores a LogHandler
// writing to stderr.
func SetHandler(h ErrorHandler) ErrorHandler {
	if h == nil {
		h = &LogHandler{}
	}
	handlerMu.Lock()
	defer handlerMu.Unlock()
	prev := handler
	handler = h
	return prev
}

// CurrentHandler returns the installed handler.
func CurrentHandler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return handler
}

// deliver stamps a report that has no time yet and hands it to the
// installed handler.
func deliver(stamp *time.Time, send func(ErrorHandler)) {
	if stamp.IsZero() {
		*stamp = time.Now()
	}
	send(CurrentHandler())
}

// Report sends an error or warning to the installed handler.
func Report(err *DriftError) {
	if err == nil {
		return
	}
	deliver(&err.Timestamp, func(h ErrorHandler) { h.HandleError(err) })
}

// ReportPanic sends a recovered panic to the installed handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	deliver(&err.Timestamp, func(h ErrorHandler) { h.HandlePanic(err) })
}

// ReportBuildError sends a failed component update to the installed handler.
func ReportBuildError(err *BuildError) {
	if err == nil {
		return
	}
	deliver(&err.Timestamp, func(h ErrorHandler) { h.HandleBuildError(err) })
}

// Recovered reports r, a value obtained from recover, as a panic in op.
// Component names the component whose code panicked and may be empty.
// It returns nil when r is nil.
func Recovered(op, component string, r any) *PanicError {
	if r == nil {
		return nil
	}
	perr := &PanicError{
		Op:         op,
		Component:  component,
		Value:      r,
		StackTrace: CaptureStack(),
	}
	ReportPanic(perr)
	return perr
}

// Recover reports a panic in progress and stops it. It must be deferred
// directly:
//
//	defer errors.Recover("terminal.poll", "")
func Recover(op, component string) {
	Recovered(op, component, recover())
}

// CaptureStack returns the caller's stack, one function per entry followed
// by its file and line.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}

	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for more := true; more; {
		var frame runtime.Frame
		frame, more = frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteByte('\n')
	}
	return sb.String()
}
