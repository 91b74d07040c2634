// SPDX-License-Identifier: MPL-2.0

package lesson

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// CategoryText prints its output and reads nothing.
	CategoryText Category = "text"
	// CategoryQuestion accepts a free-text answer.
	CategoryQuestion Category = "question"
	// CategoryMultipleChoice accepts a choice number or the choice text.
	CategoryMultipleChoice Category = "multiplechoice"
	// CategoryShell runs the learner's input as a shell command.
	CategoryShell Category = "shell"

	// listSeparator splits answer and choice strings.
	listSeparator = ";"
)

var (
	// ErrNoSteps is returned when a lesson document contains no steps.
	ErrNoSteps = errors.New("lesson has no steps")
	// ErrUnknownCategory is the sentinel error wrapped by UnknownCategoryError.
	ErrUnknownCategory = errors.New("unknown step category")
	// ErrInvalidStep is the sentinel error wrapped by InvalidStepError.
	ErrInvalidStep = errors.New("invalid step")
)

type (
	// Category selects how a step interacts with the learner.
	Category string

	// UnknownCategoryError is returned for a step whose category is not recognized.
	// It wraps ErrUnknownCategory for errors.Is() compatibility.
	UnknownCategoryError struct {
		Step     int
		Category string
	}

	// InvalidStepError is returned for a step missing required fields.
	// It wraps ErrInvalidStep for errors.Is() compatibility.
	InvalidStepError struct {
		Step   int
		Reason string
	}

	// Step is one unit of a lesson.
	Step struct {
		Category Category
		// Output is markdown shown before any input is read.
		Output string
		// Answers lists every accepted answer. For shell steps an empty list
		// means any command that exits 0 passes.
		Answers []string
		// Choices are the options of a multiple choice step.
		Choices []string
		// Hint is shown after a wrong answer.
		Hint string
	}

	// Lesson is a parsed lesson document.
	Lesson struct {
		Title       string
		Description string
		Steps       []Step
	}
)

// Error implements the error interface.
func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("step %d: unknown category %q", e.Step, e.Category)
}

// Unwrap returns ErrUnknownCategory for errors.Is() compatibility.
func (e *UnknownCategoryError) Unwrap() error { return ErrUnknownCategory }

// Error implements the error interface.
func (e *InvalidStepError) Error() string {
	return fmt.Sprintf("step %d: %s", e.Step, e.Reason)
}

// Unwrap returns ErrInvalidStep for errors.Is() compatibility.
func (e *InvalidStepError) Unwrap() error { return ErrInvalidStep }

// ParseCategory normalizes a category name: case, spaces, dashes and
// underscores are ignored, so "Multiple Choice" and "multiple_choice" match.
func ParseCategory(s string) (Category, bool) {
	normalized := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))

	switch c := Category(normalized); c {
	case CategoryText, CategoryQuestion, CategoryMultipleChoice, CategoryShell:
		return c, true
	}
	return "", false
}

// Questions counts the steps that read input.
func (l *Lesson) Questions() int {
	n := 0
	for _, s := range l.Steps {
		if s.Category != CategoryText {
			n++
		}
	}
	return n
}

// LoadFile opens and parses the lesson document at path.
func LoadFile(path string) (l *Lesson, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lesson: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	l, err = Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Load parses a lesson document.
func Load(r io.Reader) (*Lesson, error) {
	var docs []yaml.Node
	if err := yaml.NewDecoder(r).Decode(&docs); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse lesson: %w", err)
	}

	l := &Lesson{}
	for i := range docs {
		fields, err := fieldsOf(&docs[i])
		if err != nil {
			return nil, fmt.Errorf("failed to parse lesson: %w", err)
		}
		if title, ok := fields["lesson"]; ok && i == 0 {
			l.Title = scalar(title)
			l.Description = scalar(fields["description"])
			continue
		}

		step, err := parseStep(len(l.Steps)+1, fields)
		if err != nil {
			return nil, err
		}
		l.Steps = append(l.Steps, step)
	}

	if len(l.Steps) == 0 {
		return nil, ErrNoSteps
	}
	return l, nil
}

func parseStep(index int, fields map[string]*yaml.Node) (Step, error) {
	rawCategory := scalar(fields["category"])
	category, ok := ParseCategory(rawCategory)
	if !ok {
		return Step{}, &UnknownCategoryError{Step: index, Category: rawCategory}
	}

	step := Step{
		Category: category,
		Output:   scalar(fields["output"]),
		Answers:  list(fields["answer"]),
		Choices:  list(fields["choices"]),
		Hint:     scalar(fields["hint"]),
	}

	switch category {
	case CategoryQuestion:
		if len(step.Answers) == 0 {
			return Step{}, &InvalidStepError{Step: index, Reason: "question needs an answer"}
		}
	case CategoryMultipleChoice:
		if len(step.Choices) == 0 {
			return Step{}, &InvalidStepError{Step: index, Reason: "multiple choice needs choices"}
		}
		if len(step.Answers) == 0 || choiceIndex(step.Choices, step.Answers[0]) < 0 {
			return Step{}, &InvalidStepError{Step: index, Reason: "multiple choice answer must be one of its choices"}
		}
	}
	return step, nil
}

// fieldsOf returns a mapping node's values keyed by lower-cased key.
func fieldsOf(n *yaml.Node) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: lesson entries must be mappings", n.Line)
	}
	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		fields[strings.ToLower(n.Content[i].Value)] = n.Content[i+1]
	}
	return fields, nil
}

func scalar(n *yaml.Node) string {
	if n == nil || n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return ""
	}
	return n.Value
}

// list accepts a YAML sequence or a ";"-separated string.
func list(n *yaml.Node) []string {
	if n == nil {
		return nil
	}
	var parts []string
	switch n.Kind {
	case yaml.SequenceNode:
		for _, item := range n.Content {
			parts = append(parts, scalar(item))
		}
	case yaml.ScalarNode:
		parts = strings.Split(scalar(n), listSeparator)
	}

	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
