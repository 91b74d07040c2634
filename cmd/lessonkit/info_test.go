// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/lessonkit/lessonkit/internal/testutil/coursetest"
)

const infoCourseYAML = `- Course: Working With Files
  Author: Ada
  Description: Files and folders
  Version: 2
  Lessons: Opening Files; Closing Files
  Level: beginner
`

func TestInfo_Table(t *testing.T) {
	t.Parallel()

	dir := coursetest.NewFixture(coursetest.WithCourseYAML(infoCourseYAML)).WriteDir(t, t.TempDir(), "files")
	app, stdout, _ := testApp("", nil)

	if err := execute(t, app, "info", dir); err != nil {
		t.Fatalf("execute() error: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{
		"Working With Files",
		"Ada",
		"Files and folders",
		"Opening Files",
		"lessons/opening_files.yaml",
		"lessons/closing_files.yaml",
		"╭",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInfo_TOML(t *testing.T) {
	t.Parallel()

	archive := coursetest.NewFixture(coursetest.WithCourseYAML(infoCourseYAML)).
		WriteArchive(t, t.TempDir(), "files", coursetest.Gzip)
	app, stdout, _ := testApp("", nil)

	if err := execute(t, app, "info", "--format", "toml", archive); err != nil {
		t.Fatalf("execute() error: %v", err)
	}

	var got courseInfo
	if err := toml.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("output is not TOML: %v\n%s", err, stdout.String())
	}
	if got.Name != "Working With Files" || got.Version != "2" || !got.Packaged {
		t.Errorf("unexpected info: %+v", got)
	}
	if len(got.Lessons) != 2 || got.Lessons[1].Index != 2 || got.Lessons[1].File != "lessons/closing_files.yaml" {
		t.Errorf("unexpected lessons: %+v", got.Lessons)
	}
	if got.Extra["level"] != "beginner" {
		t.Errorf("extra fields not exported: %+v", got.Extra)
	}
}

func TestInfo_UnknownFormat(t *testing.T) {
	t.Parallel()

	dir := coursetest.NewFixture().WriteDir(t, t.TempDir(), "demo")
	app, _, _ := testApp("", nil)

	err := execute(t, app, "info", "--format", "xml", dir)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("execute() error = %v, want ErrUnknownFormat", err)
	}
}

func TestInfo_EmptyCourseFile(t *testing.T) {
	t.Parallel()

	dir := coursetest.NewFixture(coursetest.WithCourseYAML("")).WriteDir(t, t.TempDir(), "demo")
	app, _, stderr := testApp("", nil)

	err := execute(t, app, "info", dir)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("execute() error = %v, want ExitError", err)
	}
	if !strings.Contains(stderr.String(), "No course present") {
		t.Errorf("stderr missing issue page:\n%s", stderr.String())
	}
}
