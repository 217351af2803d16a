package core

import (
	"fmt"
	"reflect"

	"github.com/go-drift/drift-tui/pkg/errors"
)

// Component is the per-instance state of a component type. Update is called
// once per render pass that reaches the instance, with the current property
// bundle. It declares children and layout through u and keeps persistent
// state in hooks.
//
// Update must not retain u or hooks after it returns.
type Component[P any] interface {
	Update(props P, hooks *Hooks, u *Updater) error
}

// UpdateFunc adapts a plain function to Component.
type UpdateFunc[P any] func(props P, hooks *Hooks, u *Updater) error

// Update calls f.
func (f UpdateFunc[P]) Update(props P, hooks *Hooks, u *Updater) error {
	return f(props, hooks, u)
}

// ComponentType is implemented by every *Type[P]. It lets a Registry hold
// types with different property bundles.
type ComponentType interface {
	Name() string
	descriptor() *typeDesc
}

// typeDesc is the type-erased description of a component type. Its pointer
// is the type identity used during reconciliation.
type typeDesc struct {
	name      string
	propsType reflect.Type
	defaults  func() any
	construct func(props any) any
	update    func(component, props any, hooks *Hooks, u *Updater) error
}

// Type is a component type with property bundle P.
type Type[P any] struct {
	desc     *typeDesc
	defaults func() P
}

// TypeOption configures a Type.
type TypeOption[P any] func(*Type[P])

// WithDefaults supplies the default property bundle used by With and by
// Registry.Element. Without it the zero P is the default.
func WithDefaults[P any](fn func() P) TypeOption[P] {
	return func(t *Type[P]) {
		t.defaults = fn
	}
}

// Define creates a component type. factory is called once per mounted
// instance with the properties it first mounts with.
func Define[P any](name string, factory func(P) Component[P], opts ...TypeOption[P]) *Type[P] {
	if factory == nil {
		panic(&errors.ConstructionError{Type: name, Reason: "nil factory"})
	}
	t := &Type[P]{}
	for _, opt := range opts {
		opt(t)
	}
	if t.defaults == nil {
		t.defaults = func() P {
			var zero P
			return zero
		}
	}
	t.desc = &typeDesc{
		name:      name,
		propsType: reflect.TypeFor[P](),
		defaults: func() any {
			return t.defaults()
		},
		construct: func(props any) any {
			p, _ := props.(P)
			return factory(p)
		},
		update: func(component, props any, hooks *Hooks, u *Updater) error {
			// props is nil when P is an interface and nil was declared.
			p, _ := props.(P)
			return component.(Component[P]).Update(p, hooks, u)
		},
	}
	return t
}

// DefineFunc creates a component type whose instances keep all of their
// state in hooks.
func DefineFunc[P any](name string, fn func(props P, hooks *Hooks, u *Updater) error, opts ...TypeOption[P]) *Type[P] {
	if fn == nil {
		panic(&errors.ConstructionError{Type: name, Reason: "nil update function"})
	}
	update := UpdateFunc[P](fn)
	return Define(name, func(P) Component[P] { return update }, opts...)
}

// Name returns the type name.
func (t *Type[P]) Name() string {
	return t.desc.name
}

func (t *Type[P]) descriptor() *typeDesc {
	return t.desc
}

// Defaults returns a fresh default property bundle.
func (t *Type[P]) Defaults() P {
	return t.defaults()
}

// New declares an element with the given properties and children.
func (t *Type[P]) New(props P, children ...Node) Element {
	return Element{
		typ:      t.desc,
		props:    props,
		children: flatten(children),
	}
}

// With declares an element whose properties are the type defaults modified
// by override.
func (t *Type[P]) With(override func(*P), children ...Node) Element {
	props := t.defaults()
	if override != nil {
		override(&props)
	}
	return t.New(props, children...)
}

func (t *Type[P]) String() string {
	return fmt.Sprintf("core.Type[%s](%s)", t.desc.propsType, t.desc.name)
}
