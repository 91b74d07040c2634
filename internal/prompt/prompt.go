// SPDX-License-Identifier: MPL-2.0

// Package prompt reads line-oriented answers from an input stream. A single
// Reader is shared by everything that asks the learner for input so that
// buffered input is never lost between the menu and a running lesson.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Reader writes prompts to out and reads lines from in.
type Reader struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns a Reader over in that writes prompts to out.
func New(in io.Reader, out io.Writer) *Reader {
	return &Reader{in: bufio.NewReader(in), out: out}
}

// Prompt writes prompt and returns the next line without its line ending. A
// final line lacking a newline is still returned; after that, and on empty
// input, Prompt returns io.EOF.
func (r *Reader) Prompt(prompt string) (string, error) {
	if _, err := io.WriteString(r.out, prompt); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := r.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
