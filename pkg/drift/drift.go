// Package drift is the entry point for terminal applications.
//
// A typical main builds its root element and hands it to Run:
//
//	func main() {
//		if err := drift.Run(context.Background(), app.New(app.Props{})); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// Run reads drift-tui.yaml from the project root when present, opens the
// controlling terminal and drives frames until the app exits.
package drift

import (
	"context"
	"os"
	"sync/atomic"

	"github.com/go-drift/drift-tui/pkg/config"
	"github.com/go-drift/drift-tui/pkg/core"
	"github.com/go-drift/drift-tui/pkg/engine"
	"github.com/go-drift/drift-tui/pkg/rendering"
	"github.com/go-drift/drift-tui/pkg/terminal"
	"github.com/go-drift/drift-tui/pkg/theme"
)

// App describes an application to run.
type App struct {
	// Root is the element mounted at the top of the tree.
	Root core.Element
	// Theme is provided above Root when set.
	Theme *theme.ThemeData
	// Dir is where configuration is resolved from. Empty means the
	// enclosing Go module, or the working directory outside one.
	Dir string
	// Backend replaces the terminal. A nil Backend opens the controlling
	// terminal for the duration of Run.
	Backend rendering.Backend
	// Options are applied after the options derived from configuration.
	Options []engine.Option

	engine *engine.Engine
}

// NewApp creates an app with default settings.
func NewApp(root core.Element) *App {
	return &App{Root: root}
}

var current atomic.Pointer[engine.Engine]

// Run resolves configuration and runs the app until ctx is cancelled or a
// component calls Exit.
func (a *App) Run(ctx context.Context) error {
	dir, err := a.configDir()
	if err != nil {
		return err
	}
	cfg, err := config.Resolve(dir)
	if err != nil {
		return err
	}

	backend := a.Backend
	if backend == nil {
		screen, err := terminal.Open(engine.ScreenOptions(cfg)...)
		if err != nil {
			return err
		}
		defer screen.Close()
		backend = screen
	}

	opts := append(engine.OptionsFromConfig(cfg), a.Options...)
	eng := engine.New(backend, opts...)
	a.engine = eng

	root := a.Root
	if a.Theme != nil {
		root = theme.Provide(a.Theme, root)
	}

	if !current.CompareAndSwap(nil, eng) {
		return engine.ErrRunning
	}
	defer current.Store(nil)
	return eng.Run(ctx, root)
}

// Engine returns the engine created by the most recent Run, or nil before
// the first. Use it after Run returns to read stats and frame traces.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

func (a *App) configDir() (string, error) {
	if a.Dir != "" {
		return a.Dir, nil
	}
	if root, err := config.FindProjectRoot(); err == nil {
		return root, nil
	}
	return os.Getwd()
}

// Run runs root with default settings.
func Run(ctx context.Context, root core.Element) error {
	return NewApp(root).Run(ctx)
}

// Dispatch schedules fn on the running app's frame loop. It reports
// whether an app was running to receive it.
func Dispatch(fn func()) bool {
	eng := current.Load()
	if eng == nil {
		return false
	}
	eng.Dispatch(fn)
	return true
}
