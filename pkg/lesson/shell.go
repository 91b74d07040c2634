// SPDX-License-Identifier: MPL-2.0

package lesson

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// checkShell runs input and compares its output with the step's answers. Syntax
// errors and failing commands count as wrong answers, not as lesson failures.
func checkShell(ctx context.Context, step *Step, input string, opts Options) (bool, error) {
	if input == "" {
		return false, nil
	}

	stdout, exitCode, err := runShell(ctx, input, opts.Dir, opts.Env, opts.Out)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		fmt.Fprintln(opts.Out, err)
		return false, nil
	}

	if len(step.Answers) == 0 {
		return exitCode == 0, nil
	}
	return matchesAny(step.Answers, strings.TrimSpace(stdout)), nil
}

// runShell interprets script in dir. Standard output is both captured and
// echoed to echo; standard error goes to echo only.
func runShell(ctx context.Context, script, dir string, env []string, echo io.Writer) (string, int, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(script), "answer")
	if err != nil {
		return "", 0, fmt.Errorf("syntax error: %w", err)
	}

	if env == nil {
		env = os.Environ()
	}

	var stdout bytes.Buffer
	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, io.MultiWriter(&stdout, echo), echo),
	)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, file); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return stdout.String(), int(exitStatus), nil
		}
		return stdout.String(), 1, err
	}
	return stdout.String(), 0, nil
}
