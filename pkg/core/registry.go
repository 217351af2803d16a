package core

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-drift/drift-tui/pkg/errors"
)

// Registry resolves component types by name so trees can be declared from
// loosely typed data such as decoded configuration.
type Registry struct {
	mu    sync.RWMutex
	types map[string]ComponentType
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]ComponentType)}
}

// Register adds component types. Registering two types under one name is an
// error.
func (r *Registry) Register(types ...ComponentType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range types {
		name := t.Name()
		if existing, ok := r.types[name]; ok && existing.descriptor() != t.descriptor() {
			return &errors.ConstructionError{Type: name, Reason: "type name already registered"}
		}
		r.types[name] = t
	}
	return nil
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (ComponentType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Element declares an element of the named type. Properties start from the
// type defaults; each entry in props overrides the exported field whose
// `prop` tag or name matches case-insensitively. Numeric values convert
// between numeric kinds when the value survives the conversion, and plain
// funcs are accepted for Handler fields.
//
// An entry named "key" (any case) becomes the element's key rather than a
// property, unless the property bundle declares a field of that name.
func (r *Registry) Element(name string, props map[string]any, children ...Node) (Element, error) {
	return r.element(name, props, nil, false, children)
}

// KeyedElement is Element with an explicit key, reporting an unusable key as
// an error instead of panicking. The explicit key wins over a key entry in
// props.
func (r *Registry) KeyedElement(name string, key any, props map[string]any, children ...Node) (Element, error) {
	return r.element(name, props, key, true, children)
}

func (r *Registry) element(name string, props map[string]any, key any, hasKey bool, children []Node) (Element, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return Element{}, &errors.ConstructionError{Type: name, Reason: "unknown component type"}
	}
	desc := t.descriptor()
	props, propKey, propHasKey, err := splitKey(desc, props)
	if err != nil {
		return Element{}, err
	}
	if !hasKey {
		key, hasKey = propKey, propHasKey
	}
	if hasKey {
		if err := validateKey(name, key); err != nil {
			return Element{}, err
		}
	}
	merged, err := mergeProps(desc, props)
	if err != nil {
		return Element{}, err
	}
	return Element{
		typ:      desc,
		props:    merged,
		key:      key,
		hasKey:   hasKey,
		children: flatten(children),
	}, nil
}

// splitKey moves a "key" entry out of props. The caller's map is left
// untouched. Props whose bundle has its own key field keep the entry.
func splitKey(desc *typeDesc, props map[string]any) (map[string]any, any, bool, error) {
	var found []string
	for name := range props {
		if strings.EqualFold(name, "key") {
			found = append(found, name)
		}
	}
	if len(found) == 0 {
		return props, nil, false, nil
	}
	if desc.propsType.Kind() == reflect.Struct {
		if _, ok := propFields(desc.propsType)["key"]; ok {
			return props, nil, false, nil
		}
	}
	if len(found) > 1 {
		slices.Sort(found)
		return nil, nil, false, &errors.ConstructionError{
			Type:   desc.name,
			Reason: fmt.Sprintf("key given more than once (%s)", strings.Join(found, ", ")),
		}
	}
	key := props[found[0]]
	rest := make(map[string]any, len(props)-1)
	for name, v := range props {
		if name != found[0] {
			rest[name] = v
		}
	}
	return rest, key, true, nil
}

// handlerSetter is implemented by *Handler[T] so loosely typed callbacks
// can be assigned to typed handler fields.
type handlerSetter interface {
	setFunc(v any) bool
}

func mergeProps(desc *typeDesc, overrides map[string]any) (any, error) {
	pv := reflect.New(desc.propsType).Elem()
	if base := desc.defaults(); base != nil {
		pv.Set(reflect.ValueOf(base))
	}
	if len(overrides) == 0 {
		return pv.Interface(), nil
	}
	if desc.propsType.Kind() != reflect.Struct {
		return nil, &errors.ConstructionError{
			Type:   desc.name,
			Reason: fmt.Sprintf("properties of type %s cannot be set by name", desc.propsType),
		}
	}
	fields := propFields(desc.propsType)
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		index, ok := fields[strings.ToLower(name)]
		if !ok {
			return nil, &errors.ConstructionError{Type: desc.name, Field: name, Reason: "unknown property"}
		}
		if err := assignProp(pv.FieldByIndex(index), overrides[name]); err != nil {
			return nil, &errors.ConstructionError{Type: desc.name, Field: name, Reason: err.Error()}
		}
	}
	return pv.Interface(), nil
}

func propFields(t reflect.Type) map[string][]int {
	fields := make(map[string][]int)
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("prop"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		fields[strings.ToLower(name)] = f.Index
	}
	return fields
}

func assignProp(field reflect.Value, value any) error {
	if value == nil {
		field.SetZero()
		return nil
	}
	if setter, ok := field.Addr().Interface().(handlerSetter); ok {
		if setter.setFunc(value) {
			return nil
		}
		return fmt.Errorf("expected %s or func, got %T", field.Type(), value)
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(field.Type()) {
		field.Set(v)
		return nil
	}
	if isNumeric(v.Kind()) && isNumeric(field.Kind()) {
		converted := v.Convert(field.Type())
		if !sameNumber(v, converted) {
			return fmt.Errorf("%v does not fit in %s", value, field.Type())
		}
		field.Set(converted)
		return nil
	}
	return fmt.Errorf("expected %s, got %T", field.Type(), value)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// sameNumber reports whether converting from to got kept the value. Integer
// targets reject dropped fractions, wrapped overflow and lost signs; float
// targets accept rounding but not overflow to infinity.
func sameNumber(from, got reflect.Value) bool {
	if got.CanFloat() {
		if from.CanFloat() {
			return !math.IsInf(got.Float(), 0) || math.IsInf(from.Float(), 0)
		}
		return true
	}
	switch {
	case from.CanInt():
		n := from.Int()
		if got.CanInt() {
			return got.Int() == n
		}
		return n >= 0 && got.Uint() == uint64(n)
	case from.CanUint():
		n := from.Uint()
		if got.CanInt() {
			return got.Int() >= 0 && uint64(got.Int()) == n
		}
		return got.Uint() == n
	default:
		f := from.Float()
		if got.CanInt() {
			return float64(got.Int()) == f
		}
		return f >= 0 && float64(got.Uint()) == f
	}
}
