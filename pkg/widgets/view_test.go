package widgets_test

import (
	"testing"

	"github.com/go-drift/drift-tui/pkg/core"
	"github.com/go-drift/drift-tui/pkg/graphics"
	"github.com/go-drift/drift-tui/pkg/layout"
	tuitest "github.com/go-drift/drift-tui/pkg/testing"
	"github.com/go-drift/drift-tui/pkg/widgets"
)

func TestView_Border(t *testing.T) {
	tester := tuitest.NewTesterWithT(t)
	tester.SetSize(graphics.Size{Width: 6, Height: 3})
	view := widgets.View.New(widgets.ViewProps{
		Style:  layout.Style{Width: 6, Height: 3},
		Border: widgets.BorderSingle,
	}, widgets.TextOf("x"))
	if err := tester.PumpElement(view); err != nil {
		t.Fatal(err)
	}

	want := []string{"┌────┐", "│x   │", "└────┘"}
	for y, line := range want {
		if got := tester.Line(y); got != line {
			t.Errorf("line %d = %q, want %q", y, got, line)
		}
	}
	if rect := tester.Find(tuitest.ByText("x")).Rect(); rect.X != 1 || rect.Y != 1 {
		t.Errorf("child at %+v, want inside the border", rect)
	}
}

func TestView_Title(t *testing.T) {
	tester := tuitest.NewTesterWithT(t)
	view := widgets.View.New(widgets.ViewProps{
		Style:  layout.Style{Width: 8, Height: 3},
		Border: widgets.BorderRounded,
		Title:  "ab",
	})
	if err := tester.PumpElement(view); err != nil {
		t.Fatal(err)
	}
	if got := tester.Line(0); got != "╭─ab───╮" {
		t.Errorf("line 0 = %q", got)
	}
}

func TestView_BackgroundUnderText(t *testing.T) {
	tester := tuitest.NewTesterWithT(t)
	blue := graphics.ColorBlue
	view := widgets.View.New(widgets.ViewProps{
		Style:      layout.Style{Width: 4, Height: 2},
		Background: blue,
	}, widgets.TextOf("x"))
	if err := tester.PumpElement(view); err != nil {
		t.Fatal(err)
	}

	text := tester.Buffer().Cell(0, 0)
	if text.Rune != 'x' || text.Style.Background != blue {
		t.Errorf("text cell = %+v, want 'x' on blue", text)
	}
	if fill := tester.Buffer().Cell(3, 1); fill.Style.Background != blue {
		t.Errorf("fill cell = %+v, want blue background", fill)
	}
	if outside := tester.Buffer().Cell(4, 0); !outside.Style.Background.IsDefault() {
		t.Errorf("cell outside the view = %+v, want default", outside)
	}
}

func TestRowAndColumn(t *testing.T) {
	tester := tuitest.NewTesterWithT(t)
	err := tester.PumpElement(widgets.Column(1,
		widgets.Row(2, widgets.TextOf("a"), widgets.TextOf("b")),
		widgets.TextOf("c"),
	))
	if err != nil {
		t.Fatal(err)
	}
	if got := tester.ScreenText(); got != "a  b\n\nc" {
		t.Errorf("screen = %q", got)
	}
}

func TestView_ReplacesChildren(t *testing.T) {
	tester := tuitest.NewTesterWithT(t)
	render := func(items ...string) {
		t.Helper()
		err := tester.PumpElement(widgets.Column(0, core.Each(items, func(s string) core.Element {
			return widgets.TextOf(s).WithKey(s)
		})))
		if err != nil {
			t.Fatal(err)
		}
	}

	render("one", "two")
	two := tester.Find(tuitest.ByKey("two")).First().ID()
	render("two", "three")

	if got := tester.ScreenText(); got != "two\nthree" {
		t.Errorf("screen = %q", got)
	}
	if tester.Find(tuitest.ByKey("two")).First().ID() != two {
		t.Error("keyed child was not reused")
	}
	if tester.Find(tuitest.ByText("one")).Exists() {
		t.Error("removed child still mounted")
	}
}
