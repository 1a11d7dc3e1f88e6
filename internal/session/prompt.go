package session

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter is the prompt capability (spec.md §4.1). In non-interactive
// mode every method returns its default without blocking.
type Prompter interface {
	Confirm(question string, def bool) (bool, error)
	Select(question string, options []string, def string) (string, error)
	Input(question string, def string) (string, error)
}

// LivePrompter reads from stdin and writes prompts to stderr, deferring
// to the session's NonInteractive flag when set.
type LivePrompter struct {
	In             *bufio.Reader
	Out            io.Writer
	NonInteractive bool
}

func NewLivePrompter(in io.Reader, out io.Writer, nonInteractive bool) *LivePrompter {
	return &LivePrompter{In: bufio.NewReader(in), Out: out, NonInteractive: nonInteractive}
}

func (p *LivePrompter) Confirm(question string, def bool) (bool, error) {
	if p.NonInteractive {
		return def, nil
	}
	defStr := "y/N"
	if def {
		defStr = "Y/n"
	}
	fmt.Fprintf(p.Out, "%s [%s] ", question, defStr)

	line, err := p.readLine()
	if err != nil {
		return def, err
	}
	if line == "" {
		return def, nil
	}
	return strings.EqualFold(line, "y") || strings.EqualFold(line, "yes"), nil
}

func (p *LivePrompter) Select(question string, options []string, def string) (string, error) {
	if p.NonInteractive {
		return def, nil
	}
	fmt.Fprintf(p.Out, "%s\n", question)
	for i, opt := range options {
		fmt.Fprintf(p.Out, "  %d) %s\n", i+1, opt)
	}
	fmt.Fprintf(p.Out, "Choice [%s]: ", def)

	line, err := p.readLine()
	if err != nil {
		return def, err
	}
	if line == "" {
		return def, nil
	}
	for _, opt := range options {
		if strings.EqualFold(opt, line) {
			return opt, nil
		}
	}
	return def, nil
}

func (p *LivePrompter) Input(question string, def string) (string, error) {
	if p.NonInteractive {
		return def, nil
	}
	fmt.Fprintf(p.Out, "%s [%s]: ", question, def)

	line, err := p.readLine()
	if err != nil {
		return def, err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

func (p *LivePrompter) readLine() (string, error) {
	line, err := p.In.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

var _ Prompter = &LivePrompter{}
