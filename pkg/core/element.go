package core

import (
	"fmt"
	"reflect"

	"github.com/go-drift/drift-tui/pkg/errors"
)

// Element is an immutable declaration of a component: its type, optional
// key, property bundle and declared children. Elements are cheap values
// built fresh on every update; the Tree decides which mounted instance,
// if any, each one describes.
type Element struct {
	typ      *typeDesc
	key      any
	hasKey   bool
	props    any
	children []Element
}

// Node is anything that can appear in a children list: a single Element
// or a Fragment of several.
type Node interface {
	appendElements(dst []Element) []Element
}

func (e Element) appendElements(dst []Element) []Element {
	if e.typ == nil {
		return dst
	}
	return append(dst, e)
}

// IsZero reports whether e is the zero Element, which declares nothing.
func (e Element) IsZero() bool {
	return e.typ == nil
}

// Type returns the component type name.
func (e Element) Type() string {
	if e.typ == nil {
		return ""
	}
	return e.typ.name
}

// Key returns the element key and whether one was set.
func (e Element) Key() (any, bool) {
	return e.key, e.hasKey
}

// Props returns the property bundle as stored on the element.
func (e Element) Props() any {
	return e.props
}

// Children returns a copy of the declared children.
func (e Element) Children() []Element {
	return append([]Element(nil), e.children...)
}

// WithKey returns a copy of e carrying key. Keys identify an element among
// its same-type siblings across updates, so reordering a keyed list moves
// instances instead of rebuilding them.
//
// The key must be comparable; passing a slice, map or func panics with a
// *errors.ConstructionError.
func (e Element) WithKey(key any) Element {
	if err := validateKey(e.Type(), key); err != nil {
		panic(err)
	}
	e.key = key
	e.hasKey = true
	return e
}

func (e Element) String() string {
	if e.hasKey {
		return fmt.Sprintf("%s[key=%v]", e.Type(), e.key)
	}
	return e.Type()
}

func validateKey(typeName string, key any) error {
	if key == nil {
		return &errors.ConstructionError{Type: typeName, Reason: "key must not be nil"}
	}
	if !reflect.TypeOf(key).Comparable() {
		return &errors.ConstructionError{
			Type:   typeName,
			Reason: fmt.Sprintf("key of type %T is not comparable", key),
		}
	}
	return nil
}

type fragment []Element

func (f fragment) appendElements(dst []Element) []Element {
	return append(dst, f...)
}

// Fragment groups nodes so they can be passed where a single Node is
// expected. The grouped elements become siblings of each other in the
// parent's children list; a fragment has no identity of its own.
func Fragment(nodes ...Node) Node {
	return fragment(flatten(nodes))
}

// Each maps items to elements and groups them in a Fragment.
func Each[T any](items []T, fn func(T) Element) Node {
	out := make([]Element, 0, len(items))
	for _, item := range items {
		out = fn(item).appendElements(out)
	}
	return fragment(out)
}

func flatten(nodes []Node) []Element {
	var out []Element
	for _, n := range nodes {
		if n == nil {
			continue
		}
		out = n.appendElements(out)
	}
	return out
}

// Elements groups already-built elements, typically a container forwarding
// the children its parent declared:
//
//	u.SetChildren(core.Elements(u.Children()...))
func Elements(elems ...Element) Node {
	out := make([]Element, 0, len(elems))
	for _, e := range elems {
		out = e.appendElements(out)
	}
	return fragment(out)
}
