// Package prompt abstracts interactive terminal input behind a small
// capability interface so the provisioning workflow runs identically in
// interactive and scripted modes: the non-interactive path swaps in a
// fixed-answer implementation instead of branching the workflow logic.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Option is one selectable entry in a multi-select question.
type Option struct {
	Label   string
	Value   string
	Default bool
}

// Prompter answers the three question shapes the setup flow needs.
type Prompter interface {
	// Confirm asks a yes/no question; an empty answer takes def.
	Confirm(question string, def bool) (bool, error)
	// Input asks for a free-text answer.
	Input(question string) (string, error)
	// MultiSelect asks the user to pick any number of options and returns
	// the chosen Values; an empty answer takes the defaults.
	MultiSelect(question string, options []Option) ([]string, error)
}

// Terminal is the interactive Prompter reading line-oriented answers.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a Terminal prompter over the given streams.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks question with a [Y/n] or [y/N] suffix depending on def.
func (t *Terminal) Confirm(question string, def bool) (bool, error) {
	suffix := "[y/N]"
	if def {
		suffix = "[Y/n]"
	}
	fmt.Fprintf(t.out, "%s %s ", question, suffix)

	answer, err := t.readLine()
	if err != nil {
		return false, fmt.Errorf("failed to read answer for %q: %w", question, err)
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Input asks question and returns the trimmed answer.
func (t *Terminal) Input(question string) (string, error) {
	fmt.Fprintf(t.out, "%s ", question)
	answer, err := t.readLine()
	if err != nil {
		return "", fmt.Errorf("failed to read answer for %q: %w", question, err)
	}
	return answer, nil
}

// MultiSelect prints a numbered option list and reads a comma-separated set
// of numbers. Defaults are marked with [x] and taken when the answer is
// empty.
func (t *Terminal) MultiSelect(question string, options []Option) ([]string, error) {
	fmt.Fprintf(t.out, "%s\n", question)
	for i, opt := range options {
		mark := " "
		if opt.Default {
			mark = "x"
		}
		fmt.Fprintf(t.out, "  %d. [%s] %s\n", i+1, mark, opt.Label)
	}
	fmt.Fprintf(t.out, "Enter numbers separated by commas (empty for defaults): ")

	answer, err := t.readLine()
	if err != nil {
		return nil, fmt.Errorf("failed to read selection for %q: %w", question, err)
	}
	if answer == "" {
		return defaults(options), nil
	}

	var selected []string
	seen := make(map[int]bool)
	for _, part := range strings.Split(answer, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 || n > len(options) {
			return nil, fmt.Errorf("invalid selection %q: expected numbers between 1 and %d", part, len(options))
		}
		if !seen[n] {
			seen[n] = true
			selected = append(selected, options[n-1].Value)
		}
	}
	return selected, nil
}

// Fixed is the non-interactive Prompter: it answers every question with its
// defaults and never touches the terminal.
type Fixed struct{}

// Confirm returns def.
func (Fixed) Confirm(question string, def bool) (bool, error) {
	return def, nil
}

// Input returns an empty answer, which callers treat as "skip".
func (Fixed) Input(question string) (string, error) {
	return "", nil
}

// MultiSelect returns the default option set.
func (Fixed) MultiSelect(question string, options []Option) ([]string, error) {
	return defaults(options), nil
}

func defaults(options []Option) []string {
	var selected []string
	for _, opt := range options {
		if opt.Default {
			selected = append(selected, opt.Value)
		}
	}
	return selected
}
