// Package errors provides structured error handling for the drift-tui runtime.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConstruction indicates an element that could not be built.
	KindConstruction
	// KindHook indicates a hook usage violation inside a component update.
	KindHook
	// KindReconcile indicates a reconciliation ambiguity such as a duplicate key.
	KindReconcile
	// KindBuild indicates a component update failure.
	KindBuild
	// KindRender indicates a layout or paint failure.
	KindRender
	// KindTerminal indicates a terminal backend failure.
	KindTerminal
	// KindConfig indicates an invalid configuration file.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConstruction:
		return "construction"
	case KindHook:
		return "hook"
	case KindReconcile:
		return "reconcile"
	case KindBuild:
		return "build"
	case KindRender:
		return "render"
	case KindTerminal:
		return "terminal"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// DriftError represents a structured error in the runtime.
type DriftError struct {
	// Op is the operation that failed (e.g., "core.reconcileChildren").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Component is the component type name involved, if any.
	Component string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *DriftError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("%s [%s] component=%s: %v", e.Op, e.Kind, e.Component, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *DriftError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "engine.dispatch").
	Op string
	// Component is the component type whose code panicked, if any.
	Component string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("panic in %s component=%s: %v", e.Op, e.Component, e.Value)
	}
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ConstructionError reports an element that could not be constructed:
// an unknown type name, a malformed property bundle or an unusable key.
// Construction errors are raised at the call site that built the element
// and never reach the render loop.
type ConstructionError struct {
	// Type is the component type name requested.
	Type string
	// Field is the property involved, if any.
	Field string
	// Reason describes what was wrong.
	Reason string
}

func (e *ConstructionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("cannot construct %s: property %q: %s", e.Type, e.Field, e.Reason)
	}
	return fmt.Sprintf("cannot construct %s: %s", e.Type, e.Reason)
}

// HookError reports a component that did not call the same hooks, in the
// same order, as on its previous update.
type HookError struct {
	// Component is the component type name.
	Component string
	// Index is the slot index where the violation was detected.
	Index int
	// Expected is the slot kind (or count) recorded on first mount.
	Expected string
	// Got is the slot kind (or count) observed in this update.
	Got string
}

func (e *HookError) Error() string {
	return fmt.Sprintf("hook order violation in %s at slot %d: expected %s, got %s",
		e.Component, e.Index, e.Expected, e.Got)
}

// BuildError represents a failure during a component update.
type BuildError struct {
	// Component is the type name of the component that failed.
	Component string
	// Key is the instance key, formatted, if the element was keyed.
	Key string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BuildError) Error() string {
	name := e.Component
	if e.Key != "" {
		name = fmt.Sprintf("%s[key=%s]", e.Component, e.Key)
	}
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s.Update(): %v", name, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s.Update(): %v", name, e.Err)
	}
	return fmt.Sprintf("unknown error in %s.Update()", name)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by the runtime.
type ErrorHandler interface {
	// HandleError is called for reported errors and warnings.
	HandleError(err *DriftError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleBuildError is called when a component update fails.
	HandleBuildError(err *BuildError)
}
