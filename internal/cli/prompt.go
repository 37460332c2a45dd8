package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the user for a single line of input.
type Prompter interface {
	Prompt(label string, secret bool) (string, error)
}

// TerminalPrompter reads answers from in. Secrets are read without echo when
// in is a terminal.
type TerminalPrompter struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
}

func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		in:     in,
		out:    out,
		reader: bufio.NewReader(in),
	}
}

func (p *TerminalPrompter) Prompt(label string, secret bool) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)

	var (
		answer string
		err    error
	)
	if f, ok := p.in.(*os.File); ok && secret && term.IsTerminal(int(f.Fd())) {
		var b []byte
		b, err = term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		answer = string(b)
	} else {
		answer, err = p.reader.ReadString('\n')
		if errors.Is(err, io.EOF) && answer != "" {
			err = nil
		}
	}
	if err != nil {
		return "", fmt.Errorf("couldn't read the answer: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("%s: nothing has been entered", label)
	}
	return answer, nil
}
