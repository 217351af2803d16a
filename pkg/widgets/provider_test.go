package widgets_test

import (
	"testing"

	"github.com/go-drift/drift-tui/pkg/core"
	tuitest "github.com/go-drift/drift-tui/pkg/testing"
	"github.com/go-drift/drift-tui/pkg/widgets"
)

type theme struct {
	Name string
}

var themed = core.DefineFunc("Themed", func(_ struct{}, hooks *core.Hooks, u *core.Updater) error {
	label := "none"
	if th, ok := core.UseContext[theme](hooks); ok {
		label = th.Name
	}
	u.SetChildren(widgets.TextOf("theme=" + label))
	return nil
})

func TestContextProvider(t *testing.T) {
	tests := []struct {
		name string
		root core.Element
		want string
	}{
		{"provided", widgets.Provide(theme{Name: "dark"}, themed.New(struct{}{})), "theme=dark"},
		{"missing", themed.New(struct{}{}), "theme=none"},
		{"nil value", widgets.Provide(nil, themed.New(struct{}{})), "theme=none"},
		{
			"nearest wins",
			widgets.Provide(theme{Name: "outer"},
				widgets.Provide(theme{Name: "inner"}, themed.New(struct{}{})),
			),
			"theme=inner",
		},
		{"other type", widgets.Provide(42, themed.New(struct{}{})), "theme=none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tester := tuitest.NewTesterWithT(t)
			if err := tester.PumpElement(tt.root); err != nil {
				t.Fatal(err)
			}
			if got := tester.Line(0); got != tt.want {
				t.Errorf("line 0 = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContextProvider_UpdatesConsumers(t *testing.T) {
	tester := tuitest.NewTesterWithT(t)
	for _, name := range []string{"light", "dark"} {
		if err := tester.PumpElement(widgets.Provide(theme{Name: name}, themed.New(struct{}{}))); err != nil {
			t.Fatal(err)
		}
		if got := tester.Line(0); got != "theme="+name {
			t.Errorf("line 0 = %q, want theme=%s", got, name)
		}
	}
}
