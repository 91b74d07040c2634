// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize is the largest CUE file accepted for parsing (5MB).
const DefaultMaxFileSize int64 = 5 * 1024 * 1024
