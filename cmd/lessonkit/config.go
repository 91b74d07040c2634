// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lessonkit/lessonkit/internal/config"
	"github.com/lessonkit/lessonkit/internal/issue"
)

// newConfigCommand creates the `lessonkit config` command tree.
func newConfigCommand(app *App, g *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect lessonkit configuration",
		Long: `Inspect lessonkit configuration.

Configuration is stored in:
  - Linux: ~/.config/lessonkit/config.cue
  - macOS: ~/Library/Application Support/lessonkit/config.cue
  - Windows: %APPDATA%\lessonkit\config.cue

Any key can be overridden from the environment, e.g. LESSONKIT_LOG_LEVEL=debug.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadWithSource(cmd.Context(), config.LoadOptions{ConfigFilePath: g.configPath})
			if err != nil {
				return reportServiceError(app.stderr, newServiceError(err, issue.ConfigLoadFailedId),
					g.verbose, app.glamourStyle(app.stderr, config.ColorSchemeAuto), log.New(io.Discard))
			}
			source := loaded.Path
			if source == "" {
				source = "(using defaults)"
			}
			fmt.Fprintf(app.stdout, "// %s: %s\n", KeyStyle.Render("Config file"), source)
			fmt.Fprint(app.stdout, config.GenerateCUE(loaded.Config))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the default configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})

	return cfgCmd
}
