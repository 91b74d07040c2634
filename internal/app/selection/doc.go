// SPDX-License-Identifier: MPL-2.0

// Package selection runs the interactive lesson menu of a course.
//
// The Loop shows the course banner and its numbered lessons, reads a selector,
// resolves it, prepares the course files for one attempt, and hands the lesson
// document to an Engine. Unknown selectors are reported and the menu is shown
// again. Any failure while preparing, loading or running a lesson ends the
// loop with that error, after the attempt's temporary files are removed. End
// of input ends the loop successfully.
package selection
