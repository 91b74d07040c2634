// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lessonkit/lessonkit/internal/issue"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("ColorScheme = %q, want auto", cfg.UI.ColorScheme)
	}
	if cfg.UI.MarkdownWidth != DefaultMarkdownWidth {
		t.Errorf("MarkdownWidth = %d, want %d", cfg.UI.MarkdownWidth, DefaultMarkdownWidth)
	}
	if cfg.Log.Level != LogLevelWarn {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.Course.TempDir != "" {
		t.Errorf("Course.TempDir = %q, want empty", cfg.Course.TempDir)
	}
	if cfg.Lesson.MaxAttempts != 0 {
		t.Errorf("Lesson.MaxAttempts = %d, want 0", cfg.Lesson.MaxAttempts)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Parallel()

	loaded, err := LoadWithSource(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("LoadWithSource() error: %v", err)
	}
	if loaded.Path != "" {
		t.Errorf("Path = %q, want empty", loaded.Path)
	}
	if *loaded.Config != *DefaultConfig() {
		t.Errorf("Config = %+v, want defaults", *loaded.Config)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, `
ui: {
	verbose: true
	color_scheme: "dark"
	markdown_width: 60
}
log: level: "info"
course: temp_dir: "/var/tmp/lessons"
lesson: max_attempts: 3
`)

	loaded, err := LoadWithSource(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("LoadWithSource() error: %v", err)
	}
	if loaded.Path != path {
		t.Errorf("Path = %q, want %q", loaded.Path, path)
	}

	cfg := loaded.Config
	if !cfg.UI.Verbose || cfg.UI.ColorScheme != ColorSchemeDark || cfg.UI.MarkdownWidth != 60 {
		t.Errorf("UI = %+v", cfg.UI)
	}
	if cfg.Log.Level != LogLevelInfo {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Course.TempDir != "/var/tmp/lessons" {
		t.Errorf("Course.TempDir = %q", cfg.Course.TempDir)
	}
	if cfg.Lesson.MaxAttempts != 3 {
		t.Errorf("Lesson.MaxAttempts = %d, want 3", cfg.Lesson.MaxAttempts)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, `lesson: max_attempts: 2`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Lesson.MaxAttempts != 2 {
		t.Errorf("Lesson.MaxAttempts = %d, want 2", cfg.Lesson.MaxAttempts)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto || cfg.Log.Level != LogLevelWarn {
		t.Errorf("defaults not preserved: %+v", cfg)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), `ui: color_scheme: "light"`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: path,
		ConfigDirPath:  t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.UI.ColorScheme != ColorSchemeLight {
		t.Errorf("ColorScheme = %q, want light", cfg.UI.ColorScheme)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax error", `ui: {`, "config.cue"},
		{"unknown color scheme", `ui: color_scheme: "neon"`, "ui.color_scheme"},
		{"negative attempts", `lesson: max_attempts: -1`, "lesson.max_attempts"},
		{"wrong type", `ui: verbose: "yes"`, "ui.verbose"},
		{"unknown field", `network: port: 80`, "network"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("expected error")
			}

			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("expected *issue.ActionableError, got %T", err)
			}
			if ae.Operation != "load configuration" {
				t.Errorf("Operation = %q", ae.Operation)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.cue")
	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: missing})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// Environment tests mutate process state and cannot run in parallel.
func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `log: level: "error"`)

	t.Setenv("LESSONKIT_LOG_LEVEL", "debug")
	t.Setenv("LESSONKIT_LESSON_MAX_ATTEMPTS", "5")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Log.Level != LogLevelDebug {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Lesson.MaxAttempts != 5 {
		t.Errorf("Lesson.MaxAttempts = %d, want 5", cfg.Lesson.MaxAttempts)
	}
}

func TestLoad_InvalidEnvOverride(t *testing.T) {
	t.Setenv("LESSONKIT_UI_COLOR_SCHEME", "neon")

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, ErrInvalidColorScheme) {
		t.Errorf("err = %v, want ErrInvalidColorScheme", err)
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestConfigDir_Override(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if got != dir {
		t.Errorf("ConfigDir() = %q, want %q", got, dir)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	want := DefaultConfig()
	want.UI.ColorScheme = ColorSchemeDark
	want.Course.TempDir = "/tmp/lk"
	want.Lesson.MaxAttempts = 4

	out := GenerateCUE(want)
	for _, s := range []string{`color_scheme:   "dark"`, `temp_dir: "/tmp/lk"`, "max_attempts: 4"} {
		if !strings.Contains(out, s) {
			t.Errorf("GenerateCUE() missing %q:\n%s", s, out)
		}
	}

	dir := t.TempDir()
	writeConfig(t, dir, out)
	got, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("generated config should load: %v", err)
	}
	if *got != *want {
		t.Errorf("loaded %+v, want %+v", *got, *want)
	}
}
