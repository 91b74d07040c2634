// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lessonkit/lessonkit/internal/issue"
	"github.com/lessonkit/lessonkit/pkg/course"
	"github.com/lessonkit/lessonkit/pkg/lesson"
)

func TestClassifyLoadError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"empty document", course.ErrNoCoursePresent, issue.NoCoursePresentId},
		{"missing path", fmt.Errorf("stat: %w", fs.ErrNotExist), issue.CourseNotFoundId},
		{"missing member", fmt.Errorf("open: %w", course.ErrMemberNotFound), issue.CourseNotFoundId},
		{"permission", fmt.Errorf("open: %w", os.ErrPermission), issue.PermissionDeniedId},
		{"anything else", errors.New("yaml: line 2: mapping values are not allowed"), issue.CourseParseErrorId},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := classifyLoadError(tt.err); got != tt.want {
				t.Errorf("classifyLoadError() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClassifyRunError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"extraction", &course.ExtractionError{Source: "demo.tar", Err: errors.New("bad header")}, issue.ArchiveExtractionFailedId},
		{"permission", fmt.Errorf("lesson: %w", os.ErrPermission), issue.PermissionDeniedId},
		{"missing lesson", fmt.Errorf("failed to load lesson %q: %w", "Intro", fs.ErrNotExist), issue.LessonLoadFailedId},
		{"no steps", fmt.Errorf("x: %w", lesson.ErrNoSteps), issue.LessonLoadFailedId},
		{"unknown category", &lesson.UnknownCategoryError{Step: 1, Category: "quiz"}, issue.LessonLoadFailedId},
		{"unclassified", errors.New("boom"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := classifyRunError(tt.err); got != tt.want {
				t.Errorf("classifyRunError() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewServiceError_PanicsOnNil(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil error")
		}
	}()
	_ = newServiceError(nil, 0)
}

func TestReportServiceError(t *testing.T) {
	t.Parallel()

	cause := errors.New("bad header")
	svcErr := newServiceError(cause, issue.ArchiveExtractionFailedId)
	if !errors.Is(svcErr, cause) {
		t.Error("ServiceError should unwrap to its cause")
	}

	var stderr bytes.Buffer
	err := reportServiceError(&stderr, svcErr, false, "notty", log.New(io.Discard))

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 || exitErr.Err != nil {
		t.Fatalf("reportServiceError() = %#v, want silent ExitError code 1", err)
	}
	out := stderr.String()
	if !strings.Contains(out, "Error:") || !strings.Contains(out, "bad header") {
		t.Errorf("missing error line:\n%s", out)
	}
	if !strings.Contains(out, "Could not unpack the course archive") {
		t.Errorf("missing issue page:\n%s", out)
	}
}
