package testing

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-drift/drift-tui/pkg/core"
	"github.com/go-drift/drift-tui/pkg/graphics"
)

// Finder locates mounted instances in the tree.
type Finder interface {
	// Evaluate returns the instances under root (inclusive) that match,
	// in depth-first declaration order.
	Evaluate(root core.Mounted) []core.Mounted
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult holds the results of a Find operation.
type FinderResult struct {
	matches []core.Mounted
	finder  Finder
}

// First returns the first match. Panics if there are none.
func (r FinderResult) First() core.Mounted {
	if len(r.matches) == 0 {
		panic(fmt.Sprintf("no instances found matching %s", r.describe()))
	}
	return r.matches[0]
}

// Lookup returns the first match and whether there was one.
func (r FinderResult) Lookup() (core.Mounted, bool) {
	if len(r.matches) == 0 {
		return core.Mounted{}, false
	}
	return r.matches[0], true
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) core.Mounted {
	if index < 0 || index >= len(r.matches) {
		panic(fmt.Sprintf("index %d out of range for %d matches of %s", index, len(r.matches), r.describe()))
	}
	return r.matches[index]
}

// All returns every match.
func (r FinderResult) All() []core.Mounted {
	return r.matches
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.matches)
}

// Exists reports whether anything matched.
func (r FinderResult) Exists() bool {
	return len(r.matches) > 0
}

// Props returns the committed props of the first match. Panics if there
// are none.
func (r FinderResult) Props() any {
	return r.First().Props()
}

// Rect returns the screen rectangle of the first match. Panics if there
// are none.
func (r FinderResult) Rect() graphics.Rect {
	return r.First().ScreenRect()
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "<nil finder>"
	}
	return r.finder.Description()
}

// ByType finds instances of a component type.
func ByType(t core.ComponentType) Finder {
	return typeFinder{name: t.Name()}
}

// ByTypeName finds instances whose component type has the given name.
func ByTypeName(name string) Finder {
	return typeFinder{name: name}
}

type typeFinder struct {
	name string
}

func (f typeFinder) Evaluate(root core.Mounted) []core.Mounted {
	return collectMatches(root, func(m core.Mounted) bool {
		return m.Type() == f.name
	})
}

func (f typeFinder) Description() string {
	return fmt.Sprintf("ByType(%s)", f.name)
}

// ByKey finds instances declared with the given key.
func ByKey(key any) Finder {
	return keyFinder{key: key}
}

type keyFinder struct {
	key any
}

func (f keyFinder) Evaluate(root core.Mounted) []core.Mounted {
	return collectMatches(root, func(m core.Mounted) bool {
		key, ok := m.Key()
		return ok && keysEqual(key, f.key)
	})
}

func (f keyFinder) Description() string {
	return fmt.Sprintf("ByKey(%v)", f.key)
}

func keysEqual(a, b any) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if b != nil && !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}

// textProps is implemented by props that display a string, such as
// widgets.TextProps.
type textProps interface {
	TextContent() string
}

func textOf(m core.Mounted) (string, bool) {
	props, ok := m.Props().(textProps)
	if !ok {
		return "", false
	}
	return props.TextContent(), true
}

// ByText finds instances whose props display exactly text.
func ByText(text string) Finder {
	return textFinder{text: text, exact: true}
}

// ByTextContaining finds instances whose props display a string
// containing substring.
func ByTextContaining(substring string) Finder {
	return textFinder{text: substring, exact: false}
}

type textFinder struct {
	text  string
	exact bool
}

func (f textFinder) Evaluate(root core.Mounted) []core.Mounted {
	return collectMatches(root, func(m core.Mounted) bool {
		content, ok := textOf(m)
		if !ok {
			return false
		}
		if f.exact {
			return content == f.text
		}
		return strings.Contains(content, f.text)
	})
}

func (f textFinder) Description() string {
	if f.exact {
		return fmt.Sprintf("ByText(%q)", f.text)
	}
	return fmt.Sprintf("ByTextContaining(%q)", f.text)
}

// ByPredicate finds instances for which predicate reports true.
func ByPredicate(predicate func(core.Mounted) bool) Finder {
	return predicateFinder{predicate: predicate}
}

type predicateFinder struct {
	predicate func(core.Mounted) bool
}

func (f predicateFinder) Evaluate(root core.Mounted) []core.Mounted {
	return collectMatches(root, f.predicate)
}

func (f predicateFinder) Description() string {
	return "ByPredicate(...)"
}

// Descendant finds instances matching matching that sit strictly below an
// instance matching of.
func Descendant(of, matching Finder) Finder {
	return descendantFinder{of: of, matching: matching}
}

type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f descendantFinder) Evaluate(root core.Mounted) []core.Mounted {
	var results []core.Mounted
	seen := make(map[uint64]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		for _, child := range ancestor.Children() {
			for _, m := range f.matching.Evaluate(child) {
				if !seen[m.ID()] {
					seen[m.ID()] = true
					results = append(results, m)
				}
			}
		}
	}
	return results
}

func (f descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Ancestor finds instances matching matching that sit strictly above an
// instance matching of.
func Ancestor(of, matching Finder) Finder {
	return ancestorFinder{of: of, matching: matching}
}

type ancestorFinder struct {
	of       Finder
	matching Finder
}

func (f ancestorFinder) Evaluate(root core.Mounted) []core.Mounted {
	above := make(map[uint64]bool)
	for _, m := range f.of.Evaluate(root) {
		for p, ok := m.Parent(); ok; p, ok = p.Parent() {
			above[p.ID()] = true
		}
	}
	var results []core.Mounted
	for _, m := range f.matching.Evaluate(root) {
		if above[m.ID()] {
			results = append(results, m)
		}
	}
	return results
}

func (f ancestorFinder) Description() string {
	return fmt.Sprintf("Ancestor(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

func collectMatches(root core.Mounted, predicate func(core.Mounted) bool) []core.Mounted {
	var results []core.Mounted
	walkTree(root, func(m core.Mounted) {
		if predicate(m) {
			results = append(results, m)
		}
	})
	return results
}

func walkTree(m core.Mounted, visit func(core.Mounted)) {
	visit(m)
	for _, child := range m.Children() {
		walkTree(child, visit)
	}
}
