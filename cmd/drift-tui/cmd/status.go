package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-drift/drift-tui/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "status",
		Short: "Show resolved configuration",
		Long: `Show the configuration an app started from the current directory
would run with.

Settings come from drift-tui.yaml in the project root (the directory holding
go.mod, or the current directory outside a module). Missing settings use
their defaults.`,
		Usage: "drift-tui status",
		Run:   runStatus,
	})
}

func runStatus(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument %q\n\nUsage: drift-tui status", args[0])
	}

	root, err := config.FindProjectRoot()
	if err != nil {
		if root, err = os.Getwd(); err != nil {
			return err
		}
	}

	cfg, err := config.Resolve(root)
	if err != nil {
		return err
	}

	source := "defaults"
	if _, err := os.Stat(filepath.Join(root, config.FileName)); err == nil {
		source = config.FileName
	}

	module := cfg.ModulePath
	if module == "" {
		module = "(none)"
	}

	fmt.Fprintf(stdout, "Project: %s\n", cfg.AppName)
	fmt.Fprintf(stdout, "Root:    %s\n", cfg.Root)
	fmt.Fprintf(stdout, "Module:  %s\n", module)
	fmt.Fprintf(stdout, "Config:  %s\n", source)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Runtime:")
	fmt.Fprintf(stdout, "  %-18s %s\n", "frame interval:", cfg.FrameInterval)
	fmt.Fprintf(stdout, "  %-18s %t\n", "debug:", cfg.Debug)
	fmt.Fprintf(stdout, "  %-18s %t\n", "mouse:", cfg.Mouse)
	fmt.Fprintf(stdout, "  %-18s %t\n", "paste:", cfg.Paste)
	fmt.Fprintf(stdout, "  %-18s %t\n", "exit on interrupt:", cfg.ExitOnInterrupt)
	return nil
}
