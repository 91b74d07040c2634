// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies an issue help page.
type Id int

const (
	CourseNotFoundId Id = iota + 1
	CourseParseErrorId
	NoCoursePresentId
	ArchiveExtractionFailedId
	LessonLoadFailedId
	ConfigLoadFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

// Issue is a markdown help page shown after a failure the user can fix.
type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	docLinks []HttpLink
	extLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the page with the named glamour style ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			md += "\n- <" + string(link) + ">"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	courseNotFoundIssue = &Issue{
		id: CourseNotFoundId,
		mdMsg: `
# Course not found!

The course you asked for does not exist at the given path.

## A course is either:
- a directory containing a ` + "`course.yaml`" + ` file, or
- a tar archive (optionally gzip, zstd or bzip2 compressed) whose top-level
  directory contains ` + "`course.yaml`" + `.

## Things you can try:
- Check the path for typos
- Pass the course directory itself, not its parent:
~~~
$ lessonkit ./go-basics
~~~`,
	}

	courseParseErrorIssue = &Issue{
		id: CourseParseErrorId,
		mdMsg: `
# Failed to read course.yaml!

The course document is not valid YAML, or one of its fields has the wrong shape.

## Expected structure:
~~~yaml
- course: Go Basics
  author: Jane Doe
  description: A first look at Go
  version: "1.0"
  lessons: Intro;Variables;Functions
~~~

## Things you can try:
- Validate the YAML syntax
- Make sure ` + "`lessons`" + ` is a ";"-separated string or a list of names`,
		extLinks: []HttpLink{"https://yaml.org/spec/1.2.2/"},
	}

	noCoursePresentIssue = &Issue{
		id: NoCoursePresentId,
		mdMsg: `
# No course present!

The course file exists but does not contain any document.

## Things you can try:
- Add at least ` + "`course`" + `, ` + "`author`" + ` and ` + "`lessons`" + ` to course.yaml`,
	}

	archiveExtractionFailedIssue = &Issue{
		id: ArchiveExtractionFailedId,
		mdMsg: `
# Could not unpack the course archive!

The lesson could not start because the course archive failed to extract into a
temporary directory.

## Things you can try:
- Check that the temporary directory is writable and has free space
- Set a different location with ` + "`course.temp_dir`" + ` in your config
- Re-create the archive; members must stay inside the archive root`,
	}

	lessonLoadFailedIssue = &Issue{
		id: LessonLoadFailedId,
		mdMsg: `
# Failed to load the lesson!

The lesson file for your selection is missing or malformed.

## Things you can try:
- Lesson files live in ` + "`lessons/<slug>.yaml`" + `, where the slug is the
  lesson name lower-cased with spaces replaced by underscores
- Every step needs a ` + "`category`" + ` of text, question, multiplechoice or shell`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Print the effective configuration:
~~~
$ lessonkit config show
~~~
- Check the CUE syntax of your config.cue
- Unset LESSONKIT_* environment variables that may hold invalid values`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

lessonkit could not read the course or write its temporary files.

## Things you can try:
- Check the permissions of the course path
- Check the permissions of the temporary directory`,
	}

	catalog = []*Issue{
		courseNotFoundIssue,
		courseParseErrorIssue,
		noCoursePresentIssue,
		archiveExtractionFailedIssue,
		lessonLoadFailedIssue,
		configLoadFailedIssue,
		permissionDeniedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	return slices.Clone(catalog)
}

// Get returns the issue with the given id, or nil.
func Get(id Id) *Issue {
	for _, i := range catalog {
		if i.id == id {
			return i
		}
	}
	return nil
}
