// SPDX-License-Identifier: MPL-2.0

package course

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// tempPrefix starts the name of every extraction directory.
const tempPrefix = "lessonkit-"

// ErrExtractionFailed is the sentinel error wrapped by ExtractionError.
var ErrExtractionFailed = errors.New("course extraction failed")

// ExtractionError reports a packaged course that could not be unpacked for
// a lesson attempt. It wraps both ErrExtractionFailed and the cause.
type ExtractionError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract course %s: %v", e.Source, e.Err)
}

// Unwrap returns the sentinel and the underlying cause.
func (e *ExtractionError) Unwrap() []error {
	return []error{ErrExtractionFailed, e.Err}
}

// Session provides the on-disk course root for one lesson attempt. For a
// packaged course it owns a temporary directory holding the extracted archive;
// for a raw course it simply points at the course directory.
//
// A Session must not outlive the attempt that began it. End is safe to call
// more than once.
type Session struct {
	root     string
	tempRoot string
	ended    bool
}

// Begin prepares c for a lesson attempt. Packaged courses are extracted into
// a new directory under tempDir (the OS temp directory when empty). If
// extraction fails the partial directory is removed before returning.
func Begin(c *Course, tempDir string) (*Session, error) {
	if !c.Packaged {
		return &Session{root: c.Source}, nil
	}

	if tempDir != "" {
		if err := os.MkdirAll(tempDir, 0o755); err != nil {
			return nil, &ExtractionError{Source: c.Source, Err: fmt.Errorf("create temp directory: %w", err)}
		}
	}
	tempRoot, err := os.MkdirTemp(tempDir, tempPrefix+c.PackageName+"-*")
	if err != nil {
		return nil, &ExtractionError{Source: c.Source, Err: fmt.Errorf("create extraction directory: %w", err)}
	}

	if err := Extract(c.Source, tempRoot); err != nil {
		_ = os.RemoveAll(tempRoot) // Best-effort cleanup on error path
		return nil, &ExtractionError{Source: c.Source, Err: err}
	}

	return &Session{
		root:     filepath.Join(tempRoot, c.PackageName),
		tempRoot: tempRoot,
	}, nil
}

// Root is the effective course root for this attempt.
func (s *Session) Root() string { return s.root }

// TempRoot is the temporary directory owned by the session, or "" for raw
// courses.
func (s *Session) TempRoot() string { return s.tempRoot }

// End removes the session's temporary directory. Only the first call does any
// work. The returned error is informational: cleanup is best-effort and
// callers must never let it replace an error they are already returning.
func (s *Session) End() error {
	if s == nil || s.ended {
		return nil
	}
	s.ended = true
	if s.tempRoot == "" {
		return nil
	}
	return os.RemoveAll(s.tempRoot)
}
