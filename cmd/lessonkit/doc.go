// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the lessonkit command tree.
//
// The root command plays a course interactively; info describes a course
// without playing it and config inspects the effective configuration. All
// commands share one App, which owns the standard streams and the config
// provider so tests can run the tree against buffers.
package cmd
