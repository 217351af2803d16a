package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/drift-tui/cmd/drift-tui/internal/demo"
	"github.com/go-drift/drift-tui/pkg/drift"
	"github.com/go-drift/drift-tui/pkg/engine"
	"github.com/go-drift/drift-tui/pkg/rendering"
	"github.com/go-drift/drift-tui/pkg/theme"
)

func init() {
	RegisterCommand(&Command{
		Name:  "demo",
		Short: "Run the interactive demo",
		Long: `Run a small interactive app in the terminal.

The demo shows a counter, a clock updated from a background task, and a
keyed list. Press + or - to count, r to rotate the list and q to quit.

Flags:
  --theme NAME       Color theme: dark (default) or light
  --record FILE      Write every drawn frame to FILE (see "drift-tui replay")
  --trace FILE       Write per-frame phase timings to FILE as YAML on exit
  --trace-frames N   Number of frames kept for --trace (default: 240)`,
		Usage: "drift-tui demo [--theme NAME] [--record FILE] [--trace FILE] [--trace-frames N]",
		Run:   runDemo,
	})
}

// demoBackend replaces the terminal when set.
var demoBackend rendering.Backend

type demoOptions struct {
	theme       string
	record      string
	trace       string
	traceFrames int
}

func parseDemoArgs(args []string) (demoOptions, error) {
	opts := demoOptions{theme: "dark", traceFrames: 240}
	for i := 0; i < len(args); {
		name, _, _ := strings.Cut(args[i], "=")
		switch name {
		case "--theme", "--record", "--trace", "--trace-frames":
		default:
			return opts, fmt.Errorf("unknown flag %q\n\nUsage: drift-tui demo [--theme NAME] [--record FILE] [--trace FILE]", args[i])
		}
		value, n, err := flagValue(args, i, name)
		if err != nil {
			return opts, err
		}
		i += n

		switch name {
		case "--theme":
			if value != "dark" && value != "light" {
				return opts, fmt.Errorf("unknown theme %q (want dark or light)", value)
			}
			opts.theme = value
		case "--record":
			opts.record = value
		case "--trace":
			opts.trace = value
		case "--trace-frames":
			frames, err := strconv.Atoi(value)
			if err != nil || frames <= 0 {
				return opts, fmt.Errorf("--trace-frames must be a positive integer, got %q", value)
			}
			opts.traceFrames = frames
		}
	}
	return opts, nil
}

func runDemo(args []string) error {
	opts, err := parseDemoArgs(args)
	if err != nil {
		return err
	}

	app := &drift.App{
		Root:    demo.App.With(nil),
		Theme:   theme.DefaultDarkTheme(),
		Backend: demoBackend,
	}
	if opts.theme == "light" {
		app.Theme = theme.DefaultLightTheme()
	}

	if opts.record != "" {
		f, err := os.Create(opts.record)
		if err != nil {
			return fmt.Errorf("failed to create recording: %w", err)
		}
		defer f.Close()
		app.Options = append(app.Options, engine.WithFrameRecorder(f))
	}
	if opts.trace != "" {
		app.Options = append(app.Options, engine.WithFrameTrace(opts.traceFrames, 0))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := app.Run(ctx)
	if opts.trace != "" && app.Engine() != nil {
		if err := writeTrace(opts.trace, app.Engine()); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}

	stats := app.Engine().Stats()
	fmt.Fprintf(stdout, "%d frames, %d builds, %d updates\n", stats.Frames, stats.Builds, stats.Updates)
	return nil
}

func writeTrace(path string, eng *engine.Engine) error {
	trace := eng.FrameTrace()
	if trace == nil {
		return nil
	}
	data, err := yaml.Marshal(trace.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode trace: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write trace: %w", err)
	}
	return nil
}
