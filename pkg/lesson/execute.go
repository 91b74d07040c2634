// SPDX-License-Identifier: MPL-2.0

package lesson

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	questionPrompt = "> "
	choicePrompt   = "Choice: "
	shellPrompt    = "$ "
)

type (
	// Prompter reads one line of learner input after showing prompt. It
	// returns io.EOF once input is exhausted.
	Prompter interface {
		Prompt(prompt string) (string, error)
	}

	// Renderer turns markdown into terminal output.
	Renderer interface {
		Render(markdown string) (string, error)
	}

	// Options wires a lesson to its surroundings.
	Options struct {
		In  Prompter
		Out io.Writer
		// Renderer formats step output; nil prints markdown as is.
		Renderer Renderer
		// Dir is the working directory of shell steps.
		Dir string
		// Env is the environment of shell steps, as KEY=value pairs. Nil
		// inherits the process environment.
		Env []string
		// MaxAttempts reveals the answer after this many wrong tries. Zero
		// means keep asking.
		MaxAttempts int
	}

	// Result summarizes a finished lesson.
	Result struct {
		Steps     int
		Questions int
		// FirstTry counts questions answered correctly on the first attempt.
		FirstTry int
		Attempts int
	}
)

// Summary is a one-line description of the result.
func (r Result) Summary() string {
	return fmt.Sprintf("%d/%d questions answered on the first try (%d attempts)", r.FirstTry, r.Questions, r.Attempts)
}

// Execute runs every step in order. If input ends mid-lesson the returned
// error wraps io.EOF.
func (l *Lesson) Execute(ctx context.Context, opts Options) (Result, error) {
	var res Result
	renderer := opts.Renderer
	if renderer == nil {
		renderer = plainRenderer{}
	}

	for i := range l.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		step := &l.Steps[i]
		res.Steps++

		text, err := renderer.Render(step.Output)
		if err != nil {
			return res, fmt.Errorf("step %d: failed to render output: %w", i+1, err)
		}
		fmt.Fprintln(opts.Out, strings.TrimRight(text, "\n"))

		if step.Category == CategoryText {
			continue
		}
		res.Questions++

		if step.Category == CategoryMultipleChoice {
			for n, choice := range step.Choices {
				fmt.Fprintf(opts.Out, "%d: %s\n", n+1, choice)
			}
		}

		attempts, err := ask(ctx, step, opts)
		res.Attempts += attempts
		if err != nil {
			return res, fmt.Errorf("step %d: %w", i+1, err)
		}
		if attempts == 1 {
			res.FirstTry++
		}
	}
	return res, nil
}

// ask prompts until the step is answered, or until MaxAttempts runs out.
// It returns how many answers were read.
func ask(ctx context.Context, step *Step, opts Options) (int, error) {
	attempts := 0
	for {
		input, err := opts.In.Prompt(promptFor(step.Category))
		if err != nil {
			return attempts, err
		}
		attempts++

		ok, err := check(ctx, step, input, opts)
		if err != nil {
			return attempts, err
		}
		if ok {
			fmt.Fprintln(opts.Out, "Correct!")
			return attempts, nil
		}

		if step.Hint != "" {
			fmt.Fprintln(opts.Out, step.Hint)
		} else {
			fmt.Fprintln(opts.Out, "Not quite, try again.")
		}
		if opts.MaxAttempts > 0 && attempts >= opts.MaxAttempts {
			fmt.Fprintf(opts.Out, "The answer was: %s\n", revealed(step))
			return attempts, nil
		}
	}
}

func check(ctx context.Context, step *Step, input string, opts Options) (bool, error) {
	input = strings.TrimSpace(input)
	switch step.Category {
	case CategoryQuestion:
		return matchesAny(step.Answers, input), nil
	case CategoryMultipleChoice:
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(step.Choices) {
			input = step.Choices[n-1]
		}
		return strings.EqualFold(input, step.Answers[0]), nil
	case CategoryShell:
		return checkShell(ctx, step, input, opts)
	}
	return true, nil
}

func matchesAny(answers []string, input string) bool {
	for _, a := range answers {
		if strings.EqualFold(a, input) {
			return true
		}
	}
	return false
}

func choiceIndex(choices []string, answer string) int {
	for i, c := range choices {
		if strings.EqualFold(c, answer) {
			return i
		}
	}
	return -1
}

func revealed(step *Step) string {
	if len(step.Answers) > 0 {
		return step.Answers[0]
	}
	return "any command that succeeds"
}

func promptFor(c Category) string {
	switch c {
	case CategoryMultipleChoice:
		return choicePrompt
	case CategoryShell:
		return shellPrompt
	default:
		return questionPrompt
	}
}
