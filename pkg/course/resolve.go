// SPDX-License-Identifier: MPL-2.0

package course

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoSuchLesson is the sentinel error wrapped by NoSuchLessonError.
var ErrNoSuchLesson = errors.New("no such lesson")

// NoSuchLessonError is returned when a selector matches no lesson.
// It wraps ErrNoSuchLesson for errors.Is() compatibility.
type NoSuchLessonError struct {
	Selector string
}

// Error implements the error interface.
func (e *NoSuchLessonError) Error() string {
	return fmt.Sprintf("no such lesson: %q", e.Selector)
}

// Unwrap returns ErrNoSuchLesson for errors.Is() compatibility.
func (e *NoSuchLessonError) Unwrap() error { return ErrNoSuchLesson }

// Resolve maps selector to an entry of names.
//
// A selector that parses as a base-10 integer is always a one-based index,
// even when some lesson is literally named like that number. Any other selector
// must equal a lesson name exactly; with duplicate names the first one wins.
func Resolve(names []string, selector string) (string, error) {
	selector = strings.TrimSpace(selector)

	idx, err := strconv.Atoi(selector)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		if err != nil || idx < 1 || idx > len(names) {
			return "", &NoSuchLessonError{Selector: selector}
		}
		return names[idx-1], nil
	}

	for _, name := range names {
		if name == selector {
			return name, nil
		}
	}
	return "", &NoSuchLessonError{Selector: selector}
}
