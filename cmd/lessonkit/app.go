// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/lessonkit/lessonkit/internal/config"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives the same App and reads and writes only through it.
	App struct {
		Config ConfigProvider
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
		// terminal reports whether w is an interactive terminal.
		terminal func(w io.Writer) bool
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		// Terminal overrides terminal detection, mainly for tests.
		Terminal func(w io.Writer) bool
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Terminal == nil {
		deps.Terminal = isTerminal
	}

	return &App{
		Config:   deps.Config,
		stdin:    deps.Stdin,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
		terminal: deps.Terminal,
	}
}

// loadConfig loads configuration honoring the --config flag.
func (a *App) loadConfig(ctx context.Context, g *globalFlags) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: g.configPath})
}

// newLogger builds the diagnostic logger on stderr at the effective level.
func (a *App) newLogger(cfg *config.Config, g *globalFlags) *log.Logger {
	level := cfg.EffectiveLogLevel()
	if g.verbose {
		level = config.LogLevelDebug
	}
	parsed, err := log.ParseLevel(level.String())
	if err != nil {
		parsed = log.WarnLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  parsed,
	})
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
