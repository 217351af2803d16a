package focus_test

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/go-drift/drift-tui/pkg/core"
	"github.com/go-drift/drift-tui/pkg/focus"
	"github.com/go-drift/drift-tui/pkg/graphics"
	"github.com/go-drift/drift-tui/pkg/terminal"
	tuitest "github.com/go-drift/drift-tui/pkg/testing"
	"github.com/go-drift/drift-tui/pkg/widgets"
)

type fieldProps struct {
	Label string
	Skip  bool
	// Presses counts 'x' keys delivered while focused.
	Presses *int
}

var field = core.DefineFunc("Field", func(p fieldProps, hooks *core.Hooks, u *core.Updater) error {
	_, focused := focus.UseFocus(hooks, focus.NodeOptions{
		DebugLabel:    p.Label,
		SkipTraversal: p.Skip,
		OnKey: func(ev terminal.KeyEvent) focus.KeyEventResult {
			if ev.IsRune('x') && p.Presses != nil {
				*p.Presses++
				return focus.KeyEventHandled
			}
			return focus.KeyEventIgnored
		},
	})
	mark := " "
	if focused {
		mark = "*"
	}
	u.SetChildren(widgets.TextOf("[" + mark + "] " + p.Label))
	return nil
})

func fields(labels ...string) []core.Node {
	nodes := make([]core.Node, len(labels))
	for i, label := range labels {
		nodes[i] = field.New(fieldProps{Label: label}).WithKey(label)
	}
	return nodes
}

func scope(children ...core.Node) core.Element {
	return focus.Scope.New(focus.ScopeProps{Autofocus: true}, widgets.Column(0, children...))
}

func pump(t *testing.T, root core.Element) *tuitest.Tester {
	t.Helper()
	tester := tuitest.NewTesterWithT(t)
	if err := tester.PumpElement(root); err != nil {
		t.Fatal(err)
	}
	return tester
}

func focusedLabels(tester *tuitest.Tester) []string {
	var out []string
	for _, m := range tester.Find(tuitest.ByTextContaining("[*]")).All() {
		props := m.Props().(interface{ TextContent() string })
		out = append(out, props.TextContent()[4:])
	}
	return out
}

func expectFocus(t *testing.T, tester *tuitest.Tester, want string) {
	t.Helper()
	got := focusedLabels(tester)
	if len(got) != 1 || got[0] != want {
		t.Fatalf("focused = %q, want [%q]\n%s", got, want, tester.ScreenText())
	}
}

func TestScope_Autofocus(t *testing.T) {
	tester := pump(t, scope(fields("a", "b", "c")...))
	expectFocus(t, tester, "a")
	if got := tester.Line(0); got != "[*] a" {
		t.Errorf("line 0 = %q", got)
	}
}

func TestScope_TabOrder(t *testing.T) {
	tester := pump(t, scope(fields("a", "b", "c")...))
	steps := []struct {
		key  tcell.Key
		want string
	}{
		{tcell.KeyTab, "b"},
		{tcell.KeyTab, "c"},
		{tcell.KeyTab, "a"},
		{tcell.KeyBacktab, "c"},
		{tcell.KeyBacktab, "b"},
	}
	for _, step := range steps {
		if err := tester.SendKey(step.key, tcell.ModNone); err != nil {
			t.Fatal(err)
		}
		expectFocus(t, tester, step.want)
	}
}

func TestScope_SkipTraversal(t *testing.T) {
	tester := pump(t, scope(
		field.New(fieldProps{Label: "a"}),
		field.New(fieldProps{Label: "b", Skip: true}),
		field.New(fieldProps{Label: "c"}),
	))
	if err := tester.SendKey(tcell.KeyTab, tcell.ModNone); err != nil {
		t.Fatal(err)
	}
	expectFocus(t, tester, "c")
}

func TestScope_OptionsFollowUpdates(t *testing.T) {
	declare := func(skipB bool) core.Element {
		return scope(
			field.New(fieldProps{Label: "a"}).WithKey("a"),
			field.New(fieldProps{Label: "b", Skip: skipB}).WithKey("b"),
			field.New(fieldProps{Label: "c"}).WithKey("c"),
		)
	}
	tester := pump(t, declare(false))
	if err := tester.PumpElement(declare(true)); err != nil {
		t.Fatal(err)
	}
	if err := tester.SendKey(tcell.KeyTab, tcell.ModNone); err != nil {
		t.Fatal(err)
	}
	expectFocus(t, tester, "c")
}

func TestScope_KeysGoToFocusedNode(t *testing.T) {
	var first, second int
	tester := pump(t, scope(
		field.New(fieldProps{Label: "a", Presses: &first}),
		field.New(fieldProps{Label: "b", Presses: &second}),
	))
	if err := tester.TypeText("xx"); err != nil {
		t.Fatal(err)
	}
	if err := tester.SendKey(tcell.KeyTab, tcell.ModNone); err != nil {
		t.Fatal(err)
	}
	if err := tester.SendRune('x'); err != nil {
		t.Fatal(err)
	}
	if first != 2 || second != 1 {
		t.Errorf("presses = %d, %d, want 2, 1", first, second)
	}
}

func TestScope_ArrowKeys(t *testing.T) {
	grid := focus.Scope.New(focus.ScopeProps{Autofocus: true},
		widgets.Column(0,
			widgets.Row(1, fields("a", "b")...),
			widgets.Row(1, fields("c", "d")...),
		),
	)
	tester := pump(t, grid)
	steps := []struct {
		key  tcell.Key
		want string
	}{
		{tcell.KeyRight, "b"},
		{tcell.KeyDown, "d"},
		{tcell.KeyLeft, "c"},
		{tcell.KeyUp, "a"},
		{tcell.KeyUp, "a"},
	}
	for _, step := range steps {
		if err := tester.SendKey(step.key, tcell.ModNone); err != nil {
			t.Fatal(err)
		}
		expectFocus(t, tester, step.want)
	}
}

func TestScope_UnmountClearsFocus(t *testing.T) {
	tester := pump(t, scope(fields("a", "b")...))
	if err := tester.PumpElement(scope(fields("b")...)); err != nil {
		t.Fatal(err)
	}
	if got := focusedLabels(tester); len(got) != 0 {
		t.Fatalf("focused = %q after unmounting the focused node", got)
	}
	if err := tester.SendKey(tcell.KeyTab, tcell.ModNone); err != nil {
		t.Fatal(err)
	}
	expectFocus(t, tester, "b")
}

func TestUseFocus_OutsideScope(t *testing.T) {
	tester := pump(t, widgets.Column(0, fields("a", "b")...))
	if err := tester.SendKey(tcell.KeyTab, tcell.ModNone); err != nil {
		t.Fatal(err)
	}
	if got := focusedLabels(tester); len(got) != 0 {
		t.Errorf("focused = %q outside a scope", got)
	}
}

func TestManager(t *testing.T) {
	m := focus.NewManager()
	if m.MoveFocus(1) {
		t.Error("MoveFocus on an empty manager should fail")
	}

	a := &focus.Node{CanRequestFocus: true, DebugLabel: "a"}
	b := &focus.Node{CanRequestFocus: true, DebugLabel: "b"}
	disabled := &focus.Node{DebugLabel: "disabled"}
	var changes []bool
	b.OnFocusChange = func(has bool) { changes = append(changes, has) }

	m.Register(a)
	removeB := m.Register(b)
	m.Register(disabled)
	if m.Primary() != nil {
		t.Fatal("focus without Autofocus")
	}

	if !m.MoveFocus(-1) || m.Primary() != b {
		t.Fatalf("MoveFocus(-1) from nothing = %v, want b", m.Primary())
	}
	disabled.RequestFocus()
	if m.Primary() != b {
		t.Error("a node that cannot take focus took it")
	}
	a.RequestFocus()
	if !a.HasFocus() || b.HasFocus() {
		t.Error("RequestFocus did not move focus")
	}
	// No geometry: arrows fall back to linear order.
	if !m.FocusInDirection(focus.TraversalDirectionDown) || m.Primary() != b {
		t.Errorf("FocusInDirection fallback = %v, want b", m.Primary())
	}
	removeB()
	if m.Primary() != nil || m.Len() != 2 {
		t.Errorf("after removal primary = %v, len = %d", m.Primary(), m.Len())
	}
	if want := []bool{true, false, true, false}; len(changes) != len(want) {
		t.Errorf("focus changes = %v, want %v", changes, want)
	}
}

func TestManager_Directional(t *testing.T) {
	m := focus.NewManager()
	at := func(x, y int) *focus.Node {
		r := graphics.Rect{X: x, Y: y, Width: 4, Height: 1}
		n := &focus.Node{CanRequestFocus: true, Rect: func() graphics.Rect { return r }}
		m.Register(n)
		return n
	}
	origin := at(0, 0)
	below := at(0, 2)
	diagonal := at(5, 1)
	origin.RequestFocus()

	if !m.FocusInDirection(focus.TraversalDirectionDown) || m.Primary() != below {
		t.Error("Down should prefer the aligned node")
	}
	if !m.FocusInDirection(focus.TraversalDirectionRight) || m.Primary() != diagonal {
		t.Error("Right should reach the node to the right")
	}
	if m.FocusInDirection(focus.TraversalDirectionRight) {
		t.Error("nothing further right; focus should stay")
	}
}
