// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and markdown help pages for the
// failures a lessonkit user can act on: missing or malformed courses, archives
// that fail to extract, lesson files that cannot be loaded and broken config.
package issue
