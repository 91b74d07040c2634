// SPDX-License-Identifier: MPL-2.0

package coursetest

import (
	"archive/tar"
	"io"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/exp/slices"
)

// Compression selects how WriteArchive compresses the tar stream.
type Compression int

const (
	// None writes a plain tar file.
	None Compression = iota
	// Gzip writes a .tar.gz file.
	Gzip
	// Zstd writes a .tar.zst file.
	Zstd
)

type (
	// Fixture describes the files of a course root, keyed by slash path.
	Fixture struct {
		Files map[string]string
	}

	// Option configures a Fixture.
	Option func(*Fixture)
)

// DemoCourseYAML is a minimal three-lesson course document.
const DemoCourseYAML = `- Course: Demo Course
  Lessons: "Intro;Basics;Advanced"
  Author: Test Author
  Version: "1.0"
`

// DemoLessonYAML is a one-step lesson that needs no input.
const DemoLessonYAML = `- Lesson: Demo
- Category: text
  Output: Hello from the lesson.
`

// NewFixture returns the demo course: DemoCourseYAML plus a DemoLessonYAML
// file for every lesson.
//
// Usage:
//
//	dir := coursetest.NewFixture().WriteDir(t, t.TempDir(), "demo")
//	file := coursetest.NewFixture(coursetest.WithoutFile("lessons/basics.yaml")).
//	    WriteArchive(t, t.TempDir(), "demo", coursetest.Gzip)
func NewFixture(opts ...Option) *Fixture {
	f := &Fixture{Files: map[string]string{
		"course.yaml":           DemoCourseYAML,
		"lessons/intro.yaml":    DemoLessonYAML,
		"lessons/basics.yaml":   DemoLessonYAML,
		"lessons/advanced.yaml": DemoLessonYAML,
	}}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// WithFile adds or replaces a file.
func WithFile(name, content string) Option {
	return func(f *Fixture) { f.Files[name] = content }
}

// WithoutFile removes a file.
func WithoutFile(name string) Option {
	return func(f *Fixture) { delete(f.Files, name) }
}

// WithCourseYAML replaces course.yaml.
func WithCourseYAML(content string) Option {
	return WithFile("course.yaml", content)
}

// WriteDir writes the fixture as a raw course directory parentDir/name and
// returns its path.
func (f *Fixture) WriteDir(t testing.TB, parentDir, name string) string {
	t.Helper()
	root := filepath.Join(parentDir, name)
	for _, rel := range f.names() {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", filepath.Dir(p), err)
		}
		if err := os.WriteFile(p, []byte(f.Files[rel]), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", p, err)
		}
	}
	return root
}

// WriteArchive writes the fixture as a packaged course: every file lives under
// the top-level directory pkgName. The archive is named pkgName plus the
// extension matching c. It returns the archive path.
func (f *Fixture) WriteArchive(t testing.TB, dir, pkgName string, c Compression) string {
	t.Helper()
	entries := make(map[string]string, len(f.Files))
	for name, content := range f.Files {
		entries[path.Join(pkgName, name)] = content
	}
	return WriteTar(t, filepath.Join(dir, pkgName+Ext(c)), entries, c)
}

// WriteTar writes a tar archive holding entries verbatim (names are not
// prefixed), adding directory entries for every parent. It returns archivePath.
func WriteTar(t testing.TB, archivePath string, entries map[string]string, c Compression) string {
	t.Helper()
	out, err := os.Create(archivePath)
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	defer func() {
		if err := out.Close(); err != nil {
			t.Fatalf("failed to close archive: %v", err)
		}
	}()

	var w io.Writer = out
	var finish func() error
	switch c {
	case Gzip:
		gz := gzip.NewWriter(out)
		w, finish = gz, gz.Close
	case Zstd:
		zw, zErr := zstd.NewWriter(out)
		if zErr != nil {
			t.Fatalf("failed to create zstd writer: %v", zErr)
		}
		w, finish = zw, zw.Close
	}

	tw := tar.NewWriter(w)
	seenDirs := map[string]bool{}
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		for _, d := range parents(name) {
			if seenDirs[d] {
				continue
			}
			seenDirs[d] = true
			if err := tw.WriteHeader(&tar.Header{Name: d + "/", Typeflag: tar.TypeDir, Mode: 0o755}); err != nil {
				t.Fatalf("failed to write dir header %s: %v", d, err)
			}
		}
		content := entries[name]
		hdr := &tar.Header{Name: name, Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("failed to write header %s: %v", name, err)
		}
		if _, err := io.WriteString(tw, content); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatalf("failed to close tar writer: %v", err)
	}
	if finish != nil {
		if err := finish(); err != nil {
			t.Fatalf("failed to finish compression: %v", err)
		}
	}
	return archivePath
}

// Ext returns the conventional archive extension for c.
func Ext(c Compression) string {
	switch c {
	case Gzip:
		return ".tar.gz"
	case Zstd:
		return ".tar.zst"
	default:
		return ".tar"
	}
}

func (f *Fixture) names() []string {
	names := make([]string, 0, len(f.Files))
	for name := range f.Files {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// parents lists the directories above name, outermost first.
func parents(name string) []string {
	var dirs []string
	for d := path.Dir(name); d != "." && d != "/"; d = path.Dir(d) {
		dirs = append([]string{d}, dirs...)
	}
	return dirs
}
