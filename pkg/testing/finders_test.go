package testing

import (
	"testing"

	"github.com/go-drift/drift-tui/pkg/core"
	"github.com/go-drift/drift-tui/pkg/testing/internal/testbed"
	"github.com/go-drift/drift-tui/pkg/widgets"
)

func pumpList(t *testing.T) *Tester {
	t.Helper()
	tester := NewTesterWithT(t)
	err := tester.PumpElement(widgets.Column(0,
		widgets.TextOf("alpha").WithKey("a"),
		widgets.Row(1,
			widgets.TextOf("beta").WithKey("b"),
			widgets.TextOf("gamma"),
		),
		testbed.Counter.With(nil),
	))
	if err != nil {
		t.Fatal(err)
	}
	return tester
}

func TestByType(t *testing.T) {
	tester := pumpList(t)

	if got := tester.Find(ByType(widgets.Text)).Count(); got != 4 {
		t.Errorf("ByType(Text) count = %d, want 4", got)
	}
	if got := tester.Find(ByType(widgets.View)).Count(); got != 2 {
		t.Errorf("ByType(View) count = %d, want 2", got)
	}
	if got := tester.Find(ByTypeName("Counter")).Count(); got != 1 {
		t.Errorf("ByTypeName(Counter) count = %d, want 1", got)
	}
}

func TestByText(t *testing.T) {
	tester := pumpList(t)

	if !tester.Find(ByText("beta")).Exists() {
		t.Error("expected to find beta")
	}
	if tester.Find(ByText("bet")).Exists() {
		t.Error("ByText should match whole strings only")
	}
	if got := tester.Find(ByTextContaining("a")).Count(); got != 3 {
		t.Errorf("ByTextContaining(a) count = %d, want 3", got)
	}
}

func TestByKey(t *testing.T) {
	tester := pumpList(t)

	m := tester.Find(ByKey("b")).First()
	if props, ok := m.Props().(widgets.TextProps); !ok || props.Content != "beta" {
		t.Errorf("ByKey(b) props = %#v", m.Props())
	}
	if tester.Find(ByKey(1)).Exists() {
		t.Error("ByKey(1) should not match string keys")
	}
	if tester.Find(ByKey([]int{1})).Exists() {
		t.Error("ByKey with a non-comparable key should match nothing")
	}
}

func TestFinderResult_LookupAndAt(t *testing.T) {
	tester := pumpList(t)

	if _, ok := tester.Find(ByText("missing")).Lookup(); ok {
		t.Error("Lookup on empty result should report false")
	}
	texts := tester.Find(ByType(widgets.Text))
	if got := texts.At(1).Props().(widgets.TextProps).Content; got != "beta" {
		t.Errorf("At(1) = %q, want beta", got)
	}
	if len(texts.All()) != texts.Count() {
		t.Error("All and Count disagree")
	}
}

func TestFinderResult_First_PanicsOnEmpty(t *testing.T) {
	tester := pumpList(t)

	defer func() {
		if recover() == nil {
			t.Error("expected panic from First on empty result")
		}
	}()
	tester.Find(ByText("missing")).First()
}

func TestByPredicate(t *testing.T) {
	tester := pumpList(t)

	leaves := tester.Find(ByPredicate(func(m core.Mounted) bool {
		return len(m.Children()) == 0
	}))
	if leaves.Count() != 4 {
		t.Errorf("leaf count = %d, want 4", leaves.Count())
	}
}

func TestDescendantAndAncestor(t *testing.T) {
	tester := pumpList(t)

	inCounter := tester.Find(Descendant(ByTypeName("Counter"), ByType(widgets.Text)))
	if inCounter.Count() != 1 || inCounter.Props().(widgets.TextProps).Content != "count: 0" {
		t.Errorf("Descendant found %d matches", inCounter.Count())
	}

	rows := tester.Find(Ancestor(ByText("gamma"), ByType(widgets.View)))
	if rows.Count() != 2 {
		t.Errorf("Ancestor(gamma, View) count = %d, want 2", rows.Count())
	}
}

func TestFinderResult_Rect(t *testing.T) {
	tester := pumpList(t)

	// Row starts on line 1; gamma follows "beta" and a one-cell gap.
	rect := tester.Find(ByText("gamma")).Rect()
	if rect.X != 5 || rect.Y != 1 || rect.Width != 5 || rect.Height != 1 {
		t.Errorf("gamma rect = %+v", rect)
	}
}
