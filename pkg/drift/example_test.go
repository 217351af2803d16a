package drift_test

import (
	"github.com/go-drift/drift-tui/pkg/drift"
	"github.com/go-drift/drift-tui/pkg/theme"
	"github.com/go-drift/drift-tui/pkg/widgets"
)

// This example shows how to create and configure a Drift application.
func ExampleNewApp() {
	root := widgets.TextOf("Hello, Drift!")

	app := drift.NewApp(root)
	_ = app
}

// This example shows how to create an app with a custom theme.
func ExampleApp_withTheme() {
	app := drift.App{
		Root:  widgets.TextOf("Light Mode App"),
		Theme: theme.DefaultLightTheme(),
	}
	_ = app
}

// This example shows how to dispatch work to the frame loop from a background goroutine.
// Use Dispatch when you need to update UI state from async operations like network calls.
func ExampleDispatch() {
	go func() {
		// ... do some work in the background ...

		drift.Dispatch(func() {
			// This code runs on the frame loop and can safely update state
		})
	}()
}
