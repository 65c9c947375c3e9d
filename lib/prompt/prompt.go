// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package prompt asks the operator questions on the terminal: free-form
// input, passwords without echo, yes/no confirmations, and numbered
// choices.
//
// A Prompter reads from one buffered reader for its whole life, so a
// sequence of prompts over a pipe (or a strings.Reader in tests) sees
// each line exactly once.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/bureau-foundation/dcos/lib/errdef"
)

// confirmAttempts is how many unrecognised answers Confirm tolerates.
const confirmAttempts = 3

// Prompter reads answers from in and writes questions to out.
type Prompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

// New returns a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, reader: bufio.NewReader(in), out: out}
}

// Interactive reports whether the input is a terminal.
func (p *Prompter) Interactive() bool {
	descriptor, ok := p.descriptor()
	return ok && term.IsTerminal(descriptor)
}

func (p *Prompter) descriptor() (int, bool) {
	file, ok := p.in.(*os.File)
	if !ok {
		return 0, false
	}
	return int(file.Fd()), true
}

// Input prints message and returns the next line without its line
// ending. End of input with nothing read is UserAborted.
func (p *Prompter) Input(message string) (string, error) {
	fmt.Fprint(p.out, message)
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", errdef.Aborted("No input received.")
		}
		return "", fmt.Errorf("prompt: reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Password is Input without echo when the input is a terminal.
func (p *Prompter) Password(message string) (string, error) {
	descriptor, ok := p.descriptor()
	if !ok || !term.IsTerminal(descriptor) {
		return p.Input(message)
	}

	fmt.Fprint(p.out, message)
	password, err := term.ReadPassword(descriptor)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("prompt: reading password: %w", err)
	}
	return string(password), nil
}

// Confirm prints message and waits for yes or no. "no" and repeated
// unrecognised answers are UserAborted.
func (p *Prompter) Confirm(message string) error {
	for range confirmAttempts {
		answer, err := p.Input(message)
		if err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return nil
		case "n", "no":
			return errdef.Aborted("Aborted by user.")
		}
	}
	return errdef.Aborted("Couldn't get confirmation.")
}

// Select prints message followed by the numbered choices and returns the
// zero-based index picked:
//
//	Please select a login method:
//	(1) dcos-uid-password
//	(2) saml-sp-initiated
//	(1-2):
func (p *Prompter) Select(message string, choices []string) (int, error) {
	if len(choices) == 0 {
		return 0, errdef.InvalidInput("prompt: nothing to select from")
	}
	fmt.Fprintln(p.out, message)
	for index, choice := range choices {
		fmt.Fprintf(p.out, "(%d) %s\n", index+1, choice)
	}

	answer, err := p.Input(fmt.Sprintf("(1-%d): ", len(choices)))
	if err != nil {
		return 0, err
	}
	picked, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || picked < 1 || picked > len(choices) {
		return 0, errdef.InvalidInput("Invalid choice %q.", answer)
	}
	return picked - 1, nil
}
