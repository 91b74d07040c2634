// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/lessonkit/lessonkit/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	verbose    bool
	configPath string
}

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "lessonkit <course>",
		Short: "Play interactive courses in the terminal",
		Long: TitleStyle.Render("lessonkit") + SubtitleStyle.Render(" - Play interactive courses in the terminal") + `

A course is a directory, or a tar archive of one, holding a course.yaml
document and a lessons/ directory with one YAML file per lesson.

` + SubtitleStyle.Render("Examples:") + `
  lessonkit ./go-basics            Play a course directory
  lessonkit go-basics.tar.gz       Play a packaged course
  lessonkit info go-basics.tar.gz  Describe a course without playing it
  lessonkit config show            Show the effective configuration`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runCourse(cmd.Context(), app, g, args[0])
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/lessonkit/config.cue)")

	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(newInfoCommand(app, g))
	rootCmd.AddCommand(newConfigCommand(app, g))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the command tree on the process's standard streams.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// errorHandler leaves already-reported failures alone and defers everything
// else, such as flag errors, to fang.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// get their suggestions and, in verbose mode, the full cause chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
