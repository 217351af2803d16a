package engine

import (
	"context"
	"sync"

	"github.com/go-drift/drift-tui/pkg/config"
	"github.com/go-drift/drift-tui/pkg/core"
	"github.com/go-drift/drift-tui/pkg/errors"
	"github.com/go-drift/drift-tui/pkg/terminal"
)

// App is the running application as seen from components.
type App struct {
	engine *Engine

	mu     sync.Mutex
	cancel context.CancelFunc
	exited bool
}

func (a *App) begin(cancel context.CancelFunc) {
	a.mu.Lock()
	a.cancel = cancel
	a.exited = false
	a.mu.Unlock()
}

// Exit ends Run after the current frame. Safe to call from any goroutine.
func (a *App) Exit() {
	a.mu.Lock()
	cancel := a.cancel
	a.exited = true
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Dispatch runs fn on the loop goroutine before the next frame.
func (a *App) Dispatch(fn func()) {
	a.engine.Dispatch(fn)
}

func (a *App) result(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.exited {
		return nil
	}
	return ctx.Err()
}

type scaffoldProps struct {
	Bus *terminal.EventBus
	App *App
}

// scaffold provides the engine's services to the root element.
var scaffold = core.DefineFunc("engine.Root", func(p scaffoldProps, _ *core.Hooks, u *core.Updater) error {
	core.Provide(u, p.Bus)
	core.Provide(u, p.App)
	u.SetChildren(core.Elements(u.Children()...))
	return nil
})

// UseApp returns the running App. It returns nil outside an engine, for
// example under a test harness.
func UseApp(h *core.Hooks) *App {
	app, _ := core.UseContext[*App](h)
	return app
}

// UseTerminalEvents calls handler for every terminal event while the
// calling component is mounted.
func UseTerminalEvents(h *core.Hooks, handler func(terminal.Event)) {
	terminal.UseEvents(h, handler)
}

// OptionsFromConfig turns a resolved config into engine options and
// applies its debug setting to the error handler and core.DebugMode.
func OptionsFromConfig(cfg *config.Resolved) []Option {
	if cfg == nil {
		return nil
	}
	core.SetDebugMode(cfg.Debug)
	errors.SetHandler(&errors.LogHandler{Verbose: cfg.Debug})
	return []Option{
		WithFrameInterval(cfg.FrameInterval),
		WithExitOnInterrupt(cfg.ExitOnInterrupt),
	}
}

// ScreenOptions returns the terminal options a resolved config asks for.
func ScreenOptions(cfg *config.Resolved) []terminal.Option {
	if cfg == nil {
		return nil
	}
	var opts []terminal.Option
	if cfg.Mouse {
		opts = append(opts, terminal.WithMouse())
	}
	if cfg.Paste {
		opts = append(opts, terminal.WithPaste())
	}
	return opts
}
