// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"context"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/lessonkit/lessonkit/pkg/lesson"
)

// LessonEngine loads lessons with pkg/lesson and binds them to the terminal.
type LessonEngine struct {
	Prompter lesson.Prompter
	Out      io.Writer
	Renderer lesson.Renderer
	// MaxAttempts is passed to every lesson; zero keeps asking.
	MaxAttempts int
	// Env is the environment of shell steps; nil inherits the process's.
	Env    []string
	Logger *log.Logger
}

// Load parses the lesson document at path. Shell steps run in the course root,
// the directory above the lessons directory holding path.
func (e *LessonEngine) Load(path string) (Lesson, error) {
	l, err := lesson.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return &boundLesson{
		lesson: l,
		engine: e,
		dir:    filepath.Dir(filepath.Dir(path)),
	}, nil
}

type boundLesson struct {
	lesson *lesson.Lesson
	engine *LessonEngine
	dir    string
}

func (b *boundLesson) Execute(ctx context.Context) error {
	res, err := b.lesson.Execute(ctx, lesson.Options{
		In:          b.engine.Prompter,
		Out:         b.engine.Out,
		Renderer:    b.engine.Renderer,
		Dir:         b.dir,
		Env:         b.engine.Env,
		MaxAttempts: b.engine.MaxAttempts,
	})
	if b.engine.Logger != nil {
		b.engine.Logger.Debug("lesson finished", "title", b.lesson.Title, "steps", res.Steps, "result", res.Summary())
	}
	return err
}
