// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/lessonkit/lessonkit/internal/config"
	"github.com/lessonkit/lessonkit/internal/issue"
	"github.com/lessonkit/lessonkit/pkg/course"
)

const (
	formatTable = "table"
	formatTOML  = "toml"
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown output format")

type (
	// courseInfo is the exported description of a course.
	courseInfo struct {
		Name        string         `toml:"name"`
		Author      string         `toml:"author"`
		Description string         `toml:"description,omitempty"`
		Version     string         `toml:"version,omitempty"`
		Source      string         `toml:"source"`
		Packaged    bool           `toml:"packaged"`
		Lessons     []lessonInfo   `toml:"lessons"`
		Extra       map[string]any `toml:"extra,omitempty"`
	}

	lessonInfo struct {
		Index int    `toml:"index"`
		Name  string `toml:"name"`
		File  string `toml:"file"`
	}
)

func newInfoCommand(app *App, g *globalFlags) *cobra.Command {
	var format string

	infoCmd := &cobra.Command{
		Use:   "info <course>",
		Short: "Describe a course without playing it",
		Long: `Describe a course without playing it.

Prints the course metadata and its numbered lessons together with the lesson
file each name maps to. Use --format toml for machine-readable output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatTable && format != formatTOML {
				return fmt.Errorf("%w %q (valid: %s, %s)", ErrUnknownFormat, format, formatTable, formatTOML)
			}

			c, err := course.Load(args[0])
			if err != nil {
				wrapped := issue.NewErrorContext().
					WithOperation("load course").
					WithResource(args[0]).
					Wrap(err).
					BuildError()
				return reportServiceError(app.stderr, newServiceError(wrapped, classifyLoadError(err)),
					g.verbose, app.glamourStyle(app.stderr, config.ColorSchemeAuto), log.New(io.Discard))
			}

			return writeInfo(app.stdout, describeCourse(c), format)
		},
	}

	infoCmd.Flags().StringVar(&format, "format", formatTable, "output format (table, toml)")

	return infoCmd
}

// describeCourse collects what info prints about c.
func describeCourse(c *course.Course) courseInfo {
	info := courseInfo{
		Name:        c.Name,
		Author:      c.Author,
		Description: c.Description,
		Version:     c.Version,
		Source:      c.Source,
		Packaged:    c.Packaged,
		Lessons:     make([]lessonInfo, 0, len(c.LessonNames)),
	}
	for i, name := range c.Lessons() {
		info.Lessons = append(info.Lessons, lessonInfo{
			Index: i + 1,
			Name:  name,
			File:  course.LessonPath("", name),
		})
	}
	if len(c.Extra) > 0 {
		info.Extra = c.Extra
	}
	return info
}

func writeInfo(w io.Writer, info courseInfo, format string) error {
	if format == formatTOML {
		data, err := toml.Marshal(info)
		if err != nil {
			return fmt.Errorf("failed to encode course info: %w", err)
		}
		_, err = w.Write(data)
		return err
	}

	packaged := "no"
	if info.Packaged {
		packaged = "yes"
	}
	meta := [][]string{
		{"Course", info.Name},
		{"Author", info.Author},
		{"Version", info.Version},
		{"Description", info.Description},
		{"Source", info.Source},
		{"Packaged", packaged},
	}
	fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, meta, nil))
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(info.Lessons))
	for _, l := range info.Lessons {
		rows = append(rows, []string{strconv.Itoa(l.Index), l.Name, l.File})
	}
	fmt.Fprintln(w, renderTable([]string{"#", "Lesson", "File"}, rows, []columnAlignment{alignRight, alignLeft, alignLeft}))
	return nil
}
