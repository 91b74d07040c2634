// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lessonkit/lessonkit/internal/prompt"
	"github.com/lessonkit/lessonkit/internal/testutil/coursetest"
	"github.com/lessonkit/lessonkit/pkg/course"
)

type (
	// fakeEngine records loaded paths and checks the lesson file is on disk
	// while the lesson runs.
	fakeEngine struct {
		t          *testing.T
		loaded     []string
		loadErr    error
		executeErr error
	}

	fakeLesson struct {
		engine *fakeEngine
		path   string
	}
)

func (e *fakeEngine) Load(path string) (Lesson, error) {
	e.loaded = append(e.loaded, path)
	if e.loadErr != nil {
		return nil, e.loadErr
	}
	return &fakeLesson{engine: e, path: path}, nil
}

func (l *fakeLesson) Execute(context.Context) error {
	if _, err := os.Stat(l.path); err != nil {
		l.engine.t.Errorf("lesson file missing during execution: %v", err)
	}
	return l.engine.executeErr
}

type harness struct {
	loop    *Loop
	out     *bytes.Buffer
	tempDir string
	engine  Engine
}

func newHarness(t *testing.T, c *course.Course, input string, engine Engine) *harness {
	t.Helper()
	out := &bytes.Buffer{}
	tempDir := filepath.Join(t.TempDir(), "sessions")
	p := prompt.New(strings.NewReader(input), out)
	if engine == nil {
		engine = &fakeEngine{t: t}
	}
	return &harness{
		loop: New(Options{
			Course:   c,
			Engine:   engine,
			Prompter: p,
			Out:      out,
			TempDir:  tempDir,
		}),
		out:     out,
		tempDir: tempDir,
		engine:  engine,
	}
}

// assertNoSessions fails if any extraction directory survived.
func (h *harness) assertNoSessions(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(h.tempDir)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("%d extraction directories left behind", len(entries))
	}
}

func loadCourse(t *testing.T, packaged bool, opts ...coursetest.Option) *course.Course {
	t.Helper()
	fixture := coursetest.NewFixture(opts...)
	var source string
	if packaged {
		source = fixture.WriteArchive(t, t.TempDir(), "demo", coursetest.Gzip)
	} else {
		source = fixture.WriteDir(t, t.TempDir(), "demo")
	}
	c, err := course.Load(source)
	if err != nil {
		t.Fatalf("course.Load() failed: %v", err)
	}
	return c
}

func TestRun_ResolvesSelectors(t *testing.T) {
	t.Parallel()

	c := loadCourse(t, false)
	h := newHarness(t, c, "2\nAdvanced\n4\nnope\n", nil)

	if err := h.loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	engine := h.engine.(*fakeEngine)
	want := []string{
		filepath.Join(c.Source, "lessons", "basics.yaml"),
		filepath.Join(c.Source, "lessons", "advanced.yaml"),
	}
	if strings.Join(engine.loaded, "|") != strings.Join(want, "|") {
		t.Errorf("loaded = %v, want %v", engine.loaded, want)
	}

	out := h.out.String()
	for _, s := range []string{
		"Demo Course by Test Author\n",
		"1: Intro\n2: Basics\n3: Advanced\n",
		"\nLesson Basics complete!\n",
		"\nLesson Advanced complete!\n",
		"No lesson: 4\n",
		"No lesson: nope\n",
		"\n" + Farewell + "\n",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
	if got := strings.Count(out, SelectionPrompt); got != 5 {
		t.Errorf("prompted %d times, want 5", got)
	}
	if got := strings.Count(out, "1: Intro"); got != 5 {
		t.Errorf("menu shown %d times, want 5", got)
	}
}

func TestRun_PackagedCourseLessonPath(t *testing.T) {
	t.Parallel()

	c := loadCourse(t, true)
	h := newHarness(t, c, "Intro\n", nil)

	if err := h.loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	engine := h.engine.(*fakeEngine)
	if len(engine.loaded) != 1 {
		t.Fatalf("loaded %d lessons, want 1", len(engine.loaded))
	}
	got := engine.loaded[0]
	tempRoot := filepath.Dir(filepath.Dir(filepath.Dir(got)))
	if filepath.Dir(tempRoot) != h.tempDir {
		t.Errorf("lesson %q not under an extraction directory of %q", got, h.tempDir)
	}
	if want := filepath.Join(tempRoot, "demo", "lessons", "intro.yaml"); got != want {
		t.Errorf("lesson path = %q, want %q", got, want)
	}
	h.assertNoSessions(t)
}

func TestRun_EndOfInputImmediately(t *testing.T) {
	t.Parallel()

	c := loadCourse(t, true)
	h := newHarness(t, c, "", nil)

	if err := h.loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !strings.HasSuffix(h.out.String(), SelectionPrompt+"\n"+Farewell+"\n") {
		t.Errorf("output does not end with the farewell:\n%s", h.out.String())
	}
	if _, err := os.Stat(h.tempDir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("extraction directory parent created without an attempt: %v", err)
	}
}

func TestRun_FailuresPropagateAfterCleanup(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := []struct {
		name   string
		engine *fakeEngine
	}{
		{name: "load failure", engine: &fakeEngine{loadErr: boom}},
		{name: "execute failure", engine: &fakeEngine{executeErr: boom}},
	}

	for _, packaged := range []bool{true, false} {
		for _, tt := range tests {
			t.Run(fmt.Sprintf("%s packaged=%v", tt.name, packaged), func(t *testing.T) {
				t.Parallel()
				engine := &fakeEngine{t: t, loadErr: tt.engine.loadErr, executeErr: tt.engine.executeErr}
				c := loadCourse(t, packaged)
				h := newHarness(t, c, "1\n2\n", engine)

				err := h.loop.Run(context.Background())
				if !errors.Is(err, boom) {
					t.Fatalf("Run() error = %v, want boom", err)
				}
				if len(engine.loaded) != 1 {
					t.Errorf("loop continued after a hard failure: %v", engine.loaded)
				}
				if strings.Contains(h.out.String(), "complete!") {
					t.Error("failed lesson reported as complete")
				}
				h.assertNoSessions(t)
			})
		}
	}
}

func TestRun_EndOfInputDuringLesson(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{executeErr: fmt.Errorf("step 2: %w", io.EOF)}
	engine.t = t
	c := loadCourse(t, true)
	h := newHarness(t, c, "1\n", engine)

	if err := h.loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	if !strings.HasSuffix(h.out.String(), Farewell+"\n") {
		t.Errorf("output does not end with the farewell:\n%s", h.out.String())
	}
	h.assertNoSessions(t)
}

func TestRun_ExtractionFailure(t *testing.T) {
	t.Parallel()

	c := loadCourse(t, true)
	if err := os.WriteFile(c.Source, []byte("no longer an archive, the course was replaced"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := newHarness(t, c, "1\n", nil)

	if err := h.loop.Run(context.Background()); err == nil {
		t.Fatal("Run() succeeded with a corrupted archive")
	}
	h.assertNoSessions(t)
}

func TestRun_CanceledContext(t *testing.T) {
	t.Parallel()

	c := loadCourse(t, false)
	h := newHarness(t, c, "1\n", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := h.loop.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRun_EmptyCourse(t *testing.T) {
	t.Parallel()

	c := loadCourse(t, false, coursetest.WithCourseYAML("- course: Empty\n  author: Nobody\n"))
	h := newHarness(t, c, "1\n", nil)

	if err := h.loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !strings.Contains(h.out.String(), "No lesson: 1") {
		t.Errorf("output:\n%s", h.out.String())
	}
}
