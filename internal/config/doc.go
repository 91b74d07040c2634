// SPDX-License-Identifier: MPL-2.0

// Package config handles lessonkit configuration using Viper with CUE as the file format.
//
// Configuration is read from config.cue inside the lessonkit configuration directory
// ($XDG_CONFIG_HOME/lessonkit on Linux, ~/Library/Application Support/lessonkit on macOS,
// %APPDATA%\lessonkit on Windows), or from an explicit path. Every file is validated
// against the embedded schema in config_schema.cue before it is merged over the
// defaults. Environment variables prefixed with LESSONKIT_ override file values.
package config
