package errors

import (
	"fmt"
	"io"
	"os"
)

// LogHandler is an ErrorHandler that logs errors to stderr.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Out overrides the destination. Nil means os.Stderr.
	Out io.Writer
}

func (h *LogHandler) out() io.Writer {
	if h.Out != nil {
		return h.Out
	}
	return os.Stderr
}

// HandleError logs a DriftError.
func (h *LogHandler) HandleError(err *DriftError) {
	if err == nil {
		return
	}
	w := h.out()
	label := "error"
	if err.Kind == KindReconcile {
		label = "warning"
	}
	if h.Verbose {
		fmt.Fprintf(w, "[drift-tui %s] %s [%s]", label, err.Op, err.Kind)
		if err.Component != "" {
			fmt.Fprintf(w, " component=%s", err.Component)
		}
		fmt.Fprintf(w, ": %v\n", err.Err)
		if err.StackTrace != "" {
			fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
		}
	} else {
		fmt.Fprintf(w, "[drift-tui %s] %s: %v\n", label, err.Op, err.Err)
	}
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	w := h.out()
	switch {
	case err.Component != "":
		fmt.Fprintf(w, "[drift-tui panic] %s component=%s: %v\n", err.Op, err.Component, err.Value)
	case err.Op != "":
		fmt.Fprintf(w, "[drift-tui panic] %s: %v\n", err.Op, err.Value)
	default:
		fmt.Fprintf(w, "[drift-tui panic] %v\n", err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
	}
}

// HandleBuildError logs a BuildError.
func (h *LogHandler) HandleBuildError(err *BuildError) {
	if err == nil {
		return
	}
	w := h.out()
	fmt.Fprintf(w, "[drift-tui build error] %s\n", err.Error())
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
	}
}
