// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lessonkit/lessonkit/internal/issue"
	"github.com/lessonkit/lessonkit/pkg/course"
	"github.com/lessonkit/lessonkit/pkg/lesson"
)

// ServiceError is an error that carries rendering information for the CLI
// layer. Always create via newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{Err: err, IssueID: issueID}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyLoadError maps a failure to open a course onto the issue catalog.
func classifyLoadError(err error) issue.Id {
	switch {
	case errors.Is(err, course.ErrNoCoursePresent):
		return issue.NoCoursePresentId
	case errors.Is(err, os.ErrPermission):
		return issue.PermissionDeniedId
	case errors.Is(err, os.ErrNotExist), errors.Is(err, course.ErrMemberNotFound):
		return issue.CourseNotFoundId
	default:
		return issue.CourseParseErrorId
	}
}

// classifyRunError maps a failed lesson attempt onto the issue catalog.
// Zero means no help page applies.
func classifyRunError(err error) issue.Id {
	switch {
	case errors.Is(err, course.ErrExtractionFailed):
		return issue.ArchiveExtractionFailedId
	case errors.Is(err, os.ErrPermission):
		return issue.PermissionDeniedId
	case errors.Is(err, lesson.ErrNoSteps),
		errors.Is(err, lesson.ErrUnknownCategory),
		errors.Is(err, lesson.ErrInvalidStep),
		errors.Is(err, os.ErrNotExist):
		return issue.LessonLoadFailedId
	default:
		return 0
	}
}

// reportServiceError prints the styled error and its issue help page, then
// returns the silent ExitError that ends the command.
func reportServiceError(stderr io.Writer, svcErr *ServiceError, verbose bool, style string, logger *log.Logger) error {
	fmt.Fprintf(stderr, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(svcErr.Err, verbose))

	if svcErr.IssueID != 0 {
		if entry := issue.Get(svcErr.IssueID); entry != nil {
			rendered, err := entry.Render(style)
			if err != nil {
				logger.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "err", err)
			} else {
				fmt.Fprint(stderr, rendered)
			}
		}
	}

	return &ExitError{Code: 1}
}
