package core

import (
	"reflect"
	"testing"
)

type theme struct{ Name string }

type providerProps struct {
	Theme   theme
	Release bool
}

var provider = DefineFunc("Provider", func(p providerProps, _ *Hooks, u *Updater) error {
	scope := Provide(u, p.Theme)
	if p.Release {
		scope.Release()
	}
	u.SetChildren(Elements(u.Children()...))
	return nil
})

type consumerProps struct {
	Seen *[]string
}

var consumer = DefineFunc("Consumer", func(p consumerProps, h *Hooks, _ *Updater) error {
	th, ok := UseContext[theme](h)
	if !ok {
		*p.Seen = append(*p.Seen, "<none>")
		return nil
	}
	*p.Seen = append(*p.Seen, th.Name)
	return nil
})

func TestContext_NearestProviderWins(t *testing.T) {
	var seen []string
	c := func() Element { return consumer.New(consumerProps{Seen: &seen}) }
	tree := NewTree()

	err := tree.Render(provider.New(providerProps{Theme: theme{"outer"}},
		c(),
		provider.New(providerProps{Theme: theme{"inner"}}, c()),
		c(),
	))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"outer", "inner", "outer"}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("seen = %v, want %v", seen, want)
	}
}

func TestContext_MissingProvider(t *testing.T) {
	var seen []string
	tree := NewTree()
	if err := tree.Render(consumer.New(consumerProps{Seen: &seen})); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(seen, []string{"<none>"}) {
		t.Errorf("seen = %v", seen)
	}
}

func TestContext_ReleasedScopeHidesValue(t *testing.T) {
	var seen []string
	tree := NewTree()
	err := tree.Render(provider.New(providerProps{Theme: theme{"outer"}},
		provider.New(providerProps{Theme: theme{"gone"}, Release: true},
			consumer.New(consumerProps{Seen: &seen}),
		),
	))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(seen, []string{"outer"}) {
		t.Errorf("seen = %v", seen)
	}
}

func TestContext_SubtreeRerenderSeesAncestors(t *testing.T) {
	var seen []string
	var handle *State[int]
	stateful := DefineFunc("Stateful", func(_ struct{}, h *Hooks, u *Updater) error {
		_, handle = UseState(h, 0)
		u.SetChildren(consumer.New(consumerProps{Seen: &seen}))
		return nil
	})
	tree := NewTree()
	err := tree.Render(provider.New(providerProps{Theme: theme{"dark"}},
		stateful.New(struct{}{}),
	))
	if err != nil {
		t.Fatal(err)
	}

	handle.Set(1)
	if err := tree.FlushBuild(); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(seen, []string{"dark", "dark"}) {
		t.Errorf("seen = %v", seen)
	}
}

func TestContextStack_PushLookupRelease(t *testing.T) {
	s := NewContextStack()
	typ := reflect.TypeFor[string]()

	outer := s.Push(typ, "a")
	inner := s.Push(typ, "b")
	if v, _ := s.Lookup(typ); v != "b" {
		t.Errorf("Lookup = %v, want b", v)
	}
	inner.Release()
	inner.Release()
	if v, _ := s.Lookup(typ); v != "a" || s.Depth() != 1 {
		t.Errorf("after release: %v depth %d", v, s.Depth())
	}

	// A stale scope must not pop a frame pushed later at the same depth.
	again := s.Push(typ, "c")
	inner.Release()
	if s.Depth() != 2 {
		t.Errorf("stale release popped a frame, depth %d", s.Depth())
	}
	again.Release()
	outer.Release()
	if _, ok := Consume[string](s); ok || s.Depth() != 0 {
		t.Error("stack not empty")
	}
}

type greeter interface{ Greet() string }

type englishGreeter struct{}

func (englishGreeter) Greet() string { return "hello" }

func TestContext_NilInterfaceValue(t *testing.T) {
	greeterProvider := DefineFunc("GreeterProvider", func(g greeter, _ *Hooks, u *Updater) error {
		Provide[greeter](u, g)
		u.SetChildren(Elements(u.Children()...))
		return nil
	})
	type result struct {
		found bool
		isNil bool
	}
	var seen []result
	reader := DefineFunc("GreeterReader", func(_ struct{}, h *Hooks, _ *Updater) error {
		g, ok := UseContext[greeter](h)
		seen = append(seen, result{found: ok, isNil: g == nil})
		return nil
	})

	tree := NewTree()
	err := tree.Render(greeterProvider.New(englishGreeter{},
		reader.New(struct{}{}),
		greeterProvider.New(nil, reader.New(struct{}{})),
	))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []result{{found: true, isNil: false}, {found: true, isNil: true}}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("seen = %+v, want %+v", seen, want)
	}
}
