// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/log"

	"github.com/lessonkit/lessonkit/internal/app/selection"
	"github.com/lessonkit/lessonkit/internal/config"
	"github.com/lessonkit/lessonkit/internal/issue"
	"github.com/lessonkit/lessonkit/internal/prompt"
	"github.com/lessonkit/lessonkit/pkg/course"
	"github.com/lessonkit/lessonkit/pkg/lesson"
)

// exitInterrupted is the conventional exit code after SIGINT.
const exitInterrupted = 130

// runCourse loads the course at source and runs its lesson menu on the
// App's streams until input ends.
func runCourse(ctx context.Context, app *App, g *globalFlags, source string) error {
	cfg, err := app.loadConfig(ctx, g)
	if err != nil {
		return reportServiceError(app.stderr, newServiceError(err, issue.ConfigLoadFailedId),
			g.verbose, app.glamourStyle(app.stderr, config.ColorSchemeAuto), log.New(io.Discard))
	}
	logger := app.newLogger(cfg, g)
	issueStyle := app.glamourStyle(app.stderr, cfg.UI.ColorScheme)

	c, err := course.Load(source)
	if err != nil {
		wrapped := issue.NewErrorContext().
			WithOperation("load course").
			WithResource(source).
			WithSuggestion("Run 'lessonkit info " + source + "' to inspect the course").
			Wrap(err).
			BuildError()
		return reportServiceError(app.stderr, newServiceError(wrapped, classifyLoadError(err)), g.verbose, issueStyle, logger)
	}
	logger.Debug("course loaded", "name", c.Name, "lessons", len(c.LessonNames), "packaged", c.Packaged)

	color := app.terminal(app.stdout)
	renderer := lesson.PlainRenderer()
	if color {
		renderer, err = lesson.NewMarkdownRenderer(lesson.RenderOptions{
			Style: app.glamourStyle(app.stdout, cfg.UI.ColorScheme),
			Width: cfg.UI.MarkdownWidth,
		})
		if err != nil {
			logger.Warn("falling back to plain lesson text", "err", err)
			renderer = lesson.PlainRenderer()
		}
	}

	prompter := prompt.New(app.stdin, app.stdout)
	loop := selection.New(selection.Options{
		Course: c,
		Engine: &selection.LessonEngine{
			Prompter:    prompter,
			Out:         app.stdout,
			Renderer:    renderer,
			MaxAttempts: cfg.Lesson.MaxAttempts,
			Logger:      logger,
		},
		Prompter: prompter,
		Out:      app.stdout,
		TempDir:  cfg.Course.TempDir,
		Logger:   logger,
		Styles:   selectionStyles(color),
	})

	if err := loop.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return &ExitError{Code: exitInterrupted}
		}
		wrapped := issue.NewErrorContext().
			WithOperation("run course").
			WithResource(source).
			Wrap(err).
			BuildError()
		return reportServiceError(app.stderr, newServiceError(wrapped, classifyRunError(err)), g.verbose, issueStyle, logger)
	}
	return nil
}

// glamourStyle picks the markdown style for output written to w. Anything
// that is not a terminal gets the escape-free notty style.
func (a *App) glamourStyle(w io.Writer, scheme config.ColorScheme) string {
	if !a.terminal(w) {
		return styles.NoTTYStyle
	}
	switch scheme {
	case config.ColorSchemeDark:
		return styles.DarkStyle
	case config.ColorSchemeLight:
		return styles.LightStyle
	default:
		return styles.AutoStyle
	}
}
