// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lessonkit/lessonkit/pkg/course"
)

const (
	// SelectionPrompt is shown when waiting for a selector.
	SelectionPrompt = "Selection: "
	// Farewell is printed when input ends.
	Farewell = "Bye!"
)

type (
	// Prompter reads one line of input after showing a prompt, returning
	// io.EOF when input is exhausted.
	Prompter interface {
		Prompt(prompt string) (string, error)
	}

	// Engine loads the lesson document at path.
	Engine interface {
		Load(path string) (Lesson, error)
	}

	// Lesson is a loaded lesson ready to run.
	Lesson interface {
		Execute(ctx context.Context) error
	}

	// Styles decorate the loop's output lines.
	Styles struct {
		Banner  lipgloss.Style
		Index   lipgloss.Style
		Error   lipgloss.Style
		Success lipgloss.Style
	}

	// Options configures a Loop. Course, Engine, Prompter and Out are required.
	Options struct {
		Course   *course.Course
		Engine   Engine
		Prompter Prompter
		Out      io.Writer
		// TempDir is the parent of extraction directories; empty uses the OS
		// temp directory.
		TempDir string
		// Logger defaults to a logger that discards everything.
		Logger *log.Logger
		// Styles defaults to PlainStyles.
		Styles *Styles
	}

	// Loop is the interactive lesson menu of one course.
	Loop struct {
		course   *course.Course
		engine   Engine
		prompter Prompter
		out      io.Writer
		tempDir  string
		logger   *log.Logger
		styles   Styles
	}
)

// PlainStyles returns styles that leave text untouched.
func PlainStyles() Styles {
	return Styles{
		Banner:  lipgloss.NewStyle(),
		Index:   lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
	}
}

// New creates a Loop.
func New(opts Options) *Loop {
	l := &Loop{
		course:   opts.Course,
		engine:   opts.Engine,
		prompter: opts.Prompter,
		out:      opts.Out,
		tempDir:  opts.TempDir,
		logger:   opts.Logger,
		styles:   PlainStyles(),
	}
	if l.logger == nil {
		l.logger = log.New(io.Discard)
	}
	if opts.Styles != nil {
		l.styles = *opts.Styles
	}
	return l
}

// Run drives the menu until input ends (returning nil) or a lesson attempt
// fails (returning its error).
func (l *Loop) Run(ctx context.Context) error {
	fmt.Fprintln(l.out, l.styles.Banner.Render(l.course.Banner()))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.printMenu()

		line, err := l.prompter.Prompt(SelectionPrompt)
		if errors.Is(err, io.EOF) {
			l.farewell()
			return nil
		}
		if err != nil {
			return err
		}

		selector := strings.TrimSpace(line)
		name, err := l.course.Resolve(selector)
		if err != nil {
			var noLesson *course.NoSuchLessonError
			if !errors.As(err, &noLesson) {
				return err
			}
			l.logger.Debug("selector did not resolve", "selector", selector)
			fmt.Fprintln(l.out, l.styles.Error.Render("No lesson: "+selector))
			continue
		}
		l.logger.Debug("selector resolved", "selector", selector, "lesson", name)

		if err := l.attempt(ctx, name); err != nil {
			if errors.Is(err, io.EOF) {
				l.farewell()
				return nil
			}
			return err
		}
	}
}

// attempt runs one lesson inside its own extraction session. The session is
// ended on every return path.
func (l *Loop) attempt(ctx context.Context, name string) error {
	attemptID := uuid.NewString()
	logger := l.logger.With("attempt", attemptID, "lesson", name)

	session, err := course.Begin(l.course, l.tempDir)
	if err != nil {
		return err
	}
	logger.Debug("extraction session started", "root", session.Root(), "temp", session.TempRoot())
	defer func() {
		if endErr := session.End(); endErr != nil {
			logger.Warn("failed to remove extraction directory", "path", session.TempRoot(), "err", endErr)
			return
		}
		logger.Debug("extraction session ended")
	}()

	path := course.LessonPath(session.Root(), name)
	logger.Debug("loading lesson", "path", path)
	lesson, err := l.engine.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load lesson %q: %w", name, err)
	}
	if err := lesson.Execute(ctx); err != nil {
		return fmt.Errorf("lesson %q: %w", name, err)
	}

	fmt.Fprintln(l.out)
	fmt.Fprintln(l.out, l.styles.Success.Render(fmt.Sprintf("Lesson %s complete!", name)))
	return nil
}

func (l *Loop) printMenu() {
	for i, name := range l.course.LessonNames {
		fmt.Fprintf(l.out, "%s %s\n", l.styles.Index.Render(fmt.Sprintf("%d:", i+1)), name)
	}
}

func (l *Loop) farewell() {
	fmt.Fprintln(l.out)
	fmt.Fprintln(l.out, Farewell)
}
