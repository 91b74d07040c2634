// SPDX-License-Identifier: MPL-2.0

// Package coursetest builds course fixtures on disk for tests: raw course
// directories and packaged course archives in every supported compression.
package coursetest
