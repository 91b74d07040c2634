// SPDX-License-Identifier: MPL-2.0

// Package cueutil formats CUE validation errors with JSON-style field paths
// and guards against oversized input files.
package cueutil
