// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lessonkit/lessonkit/internal/cueutil"
	"github.com/lessonkit/lessonkit/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "lessonkit"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. LESSONKIT_LOG_LEVEL.
	EnvPrefix = "LESSONKIT"

	schemaRoot = "#Config"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the lessonkit configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, AppName), nil
}

// loadWithOptions layers defaults, the config file and environment overrides.
// It returns the path of the file that was read, or "" when none was found.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()

	path, err := locateConfigFile(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Use 'lessonkit config show' to see the effective configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Check LESSONKIT_* environment variables for typos").
			Wrap(err).
			BuildError()
	}

	return &cfg, path, nil
}

// newViper returns a Viper instance seeded with defaults and bound to
// LESSONKIT_* environment variables.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
	v.SetDefault("ui.markdown_width", defaults.UI.MarkdownWidth)
	v.SetDefault("log.level", string(defaults.Log.Level))
	v.SetDefault("course.temp_dir", defaults.Course.TempDir)
	v.SetDefault("lesson.max_attempts", defaults.Lesson.MaxAttempts)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// locateConfigFile picks the file to load. An explicit path must exist; otherwise
// the config directory is tried, then the working directory.
func locateConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return "", err
		}
		cfgDir = dir
	}

	fileName := ConfigFileName + "." + ConfigFileExt
	if p := filepath.Join(cfgDir, fileName); fileExists(p) {
		return p, nil
	}
	if fileExists(fileName) {
		return fileName, nil
	}
	return "", nil
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into v.
// Fields are optional, so validation does not require concrete values.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	cctx := cuecontext.New()
	schema := cctx.CompileString(configSchema)
	if schema.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schema.Err())
	}

	user := cctx.CompileBytes(data, cue.Filename(path))
	if user.Err() != nil {
		return cueutil.FormatError(user.Err(), path)
	}

	unified := schema.LookupPath(cue.ParsePath(schemaRoot)).Unify(user)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var values map[string]any
	if err := unified.Decode(&values); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(values); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// GenerateCUE renders cfg as a config.cue document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// lessonkit configuration\n\n")

	sb.WriteString("ui: {\n")
	fmt.Fprintf(&sb, "\tverbose:        %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme:   %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tmarkdown_width: %d\n", cfg.UI.MarkdownWidth)
	sb.WriteString("}\n")

	sb.WriteString("\nlog: {\n")
	fmt.Fprintf(&sb, "\tlevel: %q\n", cfg.Log.Level)
	sb.WriteString("}\n")

	sb.WriteString("\ncourse: {\n")
	fmt.Fprintf(&sb, "\ttemp_dir: %q\n", cfg.Course.TempDir)
	sb.WriteString("}\n")

	sb.WriteString("\nlesson: {\n")
	fmt.Fprintf(&sb, "\tmax_attempts: %d\n", cfg.Lesson.MaxAttempts)
	sb.WriteString("}\n")

	return sb.String()
}
