// SPDX-License-Identifier: MPL-2.0

// Package course loads lesson courses and prepares them for running.
//
// A course is either a raw directory or a single tar archive (optionally
// compressed) whose only top-level directory is named after the archive file
// with its extensions removed:
//
//	demo.tar.gz
//	└── demo/
//	    ├── course.yaml
//	    └── lessons/
//	        └── intro.yaml
//
// Load parses course.yaml into a Course without extracting anything. Running a
// lesson from a packaged course needs the files on disk: Begin extracts the
// whole archive into a fresh temporary directory and End removes it again.
// Resolve maps a user selector (one-based index or exact lesson name) to a
// lesson name.
package course
