// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// LogLevelDebug logs everything, including per-attempt session events.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs informational events and above.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs warnings and errors only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "error"

	// DefaultMarkdownWidth is the default word-wrap width for rendered lesson text.
	DefaultMarkdownWidth = 80
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// LogLevel is the minimum level written by the diagnostic logger.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidConfigError collects every field error found by Config.Validate.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// UI controls terminal presentation.
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Log controls diagnostic logging on stderr.
		Log LogConfig `json:"log" mapstructure:"log"`
		// Course controls how courses are opened.
		Course CourseConfig `json:"course" mapstructure:"course"`
		// Lesson controls how lessons are played.
		Lesson LessonConfig `json:"lesson" mapstructure:"lesson"`
	}

	// UIConfig contains UI-related configuration.
	UIConfig struct {
		// Verbose lowers the log level to debug.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// ColorScheme selects the markdown style.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// MarkdownWidth is the word-wrap width for lesson text; 0 keeps the renderer default.
		MarkdownWidth int `json:"markdown_width" mapstructure:"markdown_width"`
	}

	// LogConfig contains logging configuration.
	LogConfig struct {
		// Level is the minimum log level.
		Level LogLevel `json:"level" mapstructure:"level"`
	}

	// CourseConfig contains course handling configuration.
	CourseConfig struct {
		// TempDir is the parent directory for extraction sessions; empty means the OS temp dir.
		TempDir string `json:"temp_dir" mapstructure:"temp_dir"`
	}

	// LessonConfig contains lesson playback configuration.
	LessonConfig struct {
		// MaxAttempts caps the attempts per question; 0 means unlimited.
		MaxAttempts int `json:"max_attempts" mapstructure:"max_attempts"`
	}
)

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// Validate returns an *InvalidColorSchemeError unless cs is a known scheme.
func (cs ColorScheme) Validate() error {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: cs}
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error {
	return ErrInvalidLogLevel
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// Validate returns an *InvalidLogLevelError unless l is a known level.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, fe := range e.FieldErrors {
		msgs[i] = fe.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap exposes ErrInvalidConfig and every field error to errors.Is/As.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Validate checks the values the CUE schema cannot see, such as those
// supplied through environment variables.
func (c *Config) Validate() error {
	var errs []error
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.UI.MarkdownWidth < 0 {
		errs = append(errs, fmt.Errorf("ui.markdown_width must not be negative, got %d", c.UI.MarkdownWidth))
	}
	if err := c.Log.Level.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Lesson.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("lesson.max_attempts must not be negative, got %d", c.Lesson.MaxAttempts))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// EffectiveLogLevel is the level the logger should use: debug when verbose,
// otherwise the configured level.
func (c *Config) EffectiveLogLevel() LogLevel {
	if c.UI.Verbose {
		return LogLevelDebug
	}
	return c.Log.Level
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			Verbose:       false,
			ColorScheme:   ColorSchemeAuto,
			MarkdownWidth: DefaultMarkdownWidth,
		},
		Log: LogConfig{
			Level: LogLevelWarn,
		},
		Course: CourseConfig{
			TempDir: "",
		},
		Lesson: LessonConfig{
			MaxAttempts: 0,
		},
	}
}
