// SPDX-License-Identifier: MPL-2.0

package course

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/lessonkit/lessonkit/pkg/slug"
)

const (
	// CourseFile is the course document inside a course root.
	CourseFile = "course.yaml"
	// LessonsDir holds one document per lesson inside a course root.
	LessonsDir = "lessons"
	// LessonExt is the extension of lesson documents.
	LessonExt = ".yaml"

	// LessonSeparator splits the lessons field of a course document.
	LessonSeparator = ";"

	keyCourse      = "course"
	keyLessons     = "lessons"
	keyAuthor      = "author"
	keyVersion     = "version"
	keyDescription = "description"
)

// ErrNoCoursePresent is returned when a course document holds no course record.
var ErrNoCoursePresent = errors.New("no course present")

// Course is a parsed course document plus where it was loaded from.
type Course struct {
	Name        string
	Author      string
	Description string
	Version     string

	// LessonNames is ordered; index i is shown as menu entry i+1.
	LessonNames []string

	// Source is the directory or archive file the course was loaded from.
	Source string
	// PackageName is the base name of Source up to its first dot. Inside an
	// archive it names the top-level directory.
	PackageName string
	// Packaged is true when Source is a regular file (an archive).
	Packaged bool

	// Extra holds document fields that are not recognized, keyed in lower case.
	Extra map[string]any
}

// Load reads the course at source, which is either a course directory or a
// course archive.
func Load(source string) (c *Course, err error) {
	acc, err := NewAccessor(source)
	if err != nil {
		return nil, err
	}

	rc, err := acc.Open(CourseFile)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	c, err = Parse(rc, source)
	if err != nil {
		return nil, err
	}
	c.PackageName = acc.PackageName()
	c.Packaged = acc.Packaged()
	return c, nil
}

// Parse builds a Course from a course document: a YAML list whose first
// element is a mapping. Keys are matched case-insensitively. PackageName and
// Packaged are left for the caller to fill in.
func Parse(r io.Reader, source string) (*Course, error) {
	var docs []yaml.Node
	if err := yaml.NewDecoder(r).Decode(&docs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoCoursePresent
		}
		return nil, fmt.Errorf("failed to parse %s: %w", CourseFile, err)
	}
	if len(docs) == 0 {
		return nil, ErrNoCoursePresent
	}

	c := &Course{Source: source, Extra: map[string]any{}}
	first := &docs[0]
	if isNull(first) {
		return c, nil
	}
	if first.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("failed to parse %s: line %d: course record must be a mapping", CourseFile, first.Line)
	}

	for i := 0; i+1 < len(first.Content); i += 2 {
		keyNode, valNode := first.Content[i], first.Content[i+1]
		key := strings.ToLower(keyNode.Value)

		var err error
		switch key {
		case keyCourse:
			c.Name, err = scalarString(key, valNode)
		case keyAuthor:
			c.Author, err = scalarString(key, valNode)
		case keyVersion:
			c.Version, err = scalarString(key, valNode)
		case keyDescription:
			c.Description, err = scalarString(key, valNode)
		case keyLessons:
			c.LessonNames, err = lessonNames(valNode)
		default:
			var v any
			if decodeErr := valNode.Decode(&v); decodeErr != nil {
				err = fmt.Errorf("field %q: %w", key, decodeErr)
			}
			c.Extra[key] = v
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", CourseFile, err)
		}
	}

	return c, nil
}

// Banner is the one-line course summary shown above the menu.
func (c *Course) Banner() string {
	if c.Description != "" {
		return fmt.Sprintf("%s by %s: %s", c.Name, c.Author, c.Description)
	}
	return fmt.Sprintf("%s by %s", c.Name, c.Author)
}

// Lessons returns a copy of the ordered lesson names.
func (c *Course) Lessons() []string {
	return slices.Clone(c.LessonNames)
}

// ExtraKeys returns the unrecognized field names in sorted order.
func (c *Course) ExtraKeys() []string {
	keys := make([]string, 0, len(c.Extra))
	for k := range c.Extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Resolve maps selector to one of the course's lesson names.
func (c *Course) Resolve(selector string) (string, error) {
	return Resolve(c.LessonNames, selector)
}

// LessonPath returns where the lesson document for name lives under root.
func LessonPath(root, name string) string {
	return filepath.Join(root, LessonsDir, slug.Slugify(name)+LessonExt)
}

// IsPackaged reports whether source is an archive rather than a directory.
func IsPackaged(source string) (bool, error) {
	info, err := os.Stat(source)
	if err != nil {
		return false, fmt.Errorf("failed to access course %s: %w", source, err)
	}
	return info.Mode().IsRegular(), nil
}

// PackageName derives the archive's top-level directory name from source.
func PackageName(source string) string {
	base := filepath.Base(source)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func scalarString(key string, n *yaml.Node) (string, error) {
	if isNull(n) {
		return "", nil
	}
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: field %q must be a scalar", n.Line, key)
	}
	return n.Value, nil
}

// lessonNames accepts the documented ";"-separated string and, for
// convenience, a plain YAML list of names.
func lessonNames(n *yaml.Node) ([]string, error) {
	var parts []string
	switch {
	case isNull(n):
		return nil, nil
	case n.Kind == yaml.ScalarNode:
		parts = strings.Split(n.Value, LessonSeparator)
	case n.Kind == yaml.SequenceNode:
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: lesson names must be scalars", item.Line)
			}
			parts = append(parts, item.Value)
		}
	default:
		return nil, fmt.Errorf("line %d: field %q must be a string or a list", n.Line, keyLessons)
	}

	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names, nil
}
