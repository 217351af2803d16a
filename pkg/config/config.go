// Package config loads the optional drift-tui.yaml application config.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	drifterrors "github.com/go-drift/drift-tui/pkg/errors"
)

// FileName is the config file looked up in the project directory.
const FileName = "drift-tui.yaml"

// DefaultFrameInterval caps the frame rate at about 60 frames per second.
const DefaultFrameInterval = 16 * time.Millisecond

// Config represents the optional drift-tui.yaml configuration.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Runtime RuntimeConfig `yaml:"runtime"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// RuntimeConfig contains engine settings.
type RuntimeConfig struct {
	FrameInterval time.Duration `yaml:"frame_interval,omitempty"`
	Debug         bool          `yaml:"debug,omitempty"`
	Mouse         bool          `yaml:"mouse,omitempty"`
	Paste         bool          `yaml:"paste,omitempty"`
	// ExitOnInterrupt defaults to true when omitted.
	ExitOnInterrupt *bool `yaml:"exit_on_interrupt,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root            string
	ModulePath      string
	AppName         string
	FrameInterval   time.Duration
	Debug           bool
	Mouse           bool
	Paste           bool
	ExitOnInterrupt bool
}

// LoadOptional reads drift-tui.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, configError(fmt.Errorf("failed to read %s: %w", FileName, err))
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, configError(fmt.Errorf("failed to parse %s: %w", FileName, err))
	}
	return &cfg, nil
}

// Resolve loads drift-tui.yaml (if present) and fills in defaults. A go.mod
// in dir supplies the default app name; without one the directory name is
// used.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	interval := cfg.Runtime.FrameInterval
	if interval < 0 {
		return nil, configError(fmt.Errorf("runtime.frame_interval must not be negative (got %s)", interval))
	}
	if interval == 0 {
		interval = DefaultFrameInterval
	}

	exitOnInterrupt := true
	if cfg.Runtime.ExitOnInterrupt != nil {
		exitOnInterrupt = *cfg.Runtime.ExitOnInterrupt
	}

	return &Resolved{
		Root:            dir,
		ModulePath:      modulePath,
		AppName:         appName,
		FrameInterval:   interval,
		Debug:           cfg.Runtime.Debug,
		Mouse:           cfg.Runtime.Mouse,
		Paste:           cfg.Runtime.Paste,
		ExitOnInterrupt: exitOnInterrupt,
	}, nil
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modName, _, ok := module.SplitPathVersion(modulePath); ok && modName != "" {
		parts := strings.Split(modName, "/")
		base = parts[len(parts)-1]
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "drift-tui-app"
	}
	return base
}

func configError(err error) error {
	return &drifterrors.DriftError{
		Op:        "config.Resolve",
		Kind:      drifterrors.KindConfig,
		Err:       err,
		Timestamp: time.Now(),
	}
}
