// Package prompt is the line-oriented text entry and selection capability
// the flows are driven by.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type Prompter interface {
	// Input returns the entered line, or def when the line is empty.
	Input(label, def string) (string, error)
	Confirm(label string, def bool) (bool, error)
	// Select returns the index of the chosen option.
	Select(label string, options []string, def int) (int, error)
}

// ParseYesNo accepts y/yes/s/si and n/no. ok is false for anything else.
func ParseYesNo(answer string) (yes bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "s", "si", "sí":
		return true, true
	case "n", "no":
		return false, true
	}
	return false, false
}

// ParseChoice accepts a 1-based index or the exact option text.
func ParseChoice(answer string, options []string) (int, bool) {
	answer = strings.TrimSpace(answer)
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(options) {
			return n - 1, true
		}
		return 0, false
	}
	for i, o := range options {
		if o == answer {
			return i, true
		}
	}
	return 0, false
}

// Line prompts on a terminal-like reader and writer.
type Line struct {
	in  *bufio.Reader
	out io.Writer
}

func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{in: bufio.NewReader(in), out: out}
}

func (l *Line) read() (string, error) {
	s, err := l.in.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

func (l *Line) Input(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(l.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(l.out, "%s: ", label)
	}
	s, err := l.read()
	if err != nil {
		return "", err
	}
	if s = strings.TrimSpace(s); s == "" {
		return def, nil
	}
	return s, nil
}

func (l *Line) Confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(l.out, "%s [%s]: ", label, hint)
		s, err := l.read()
		if err != nil {
			return false, err
		}
		if strings.TrimSpace(s) == "" {
			return def, nil
		}
		if yes, ok := ParseYesNo(s); ok {
			return yes, nil
		}
		fmt.Fprintln(l.out, "Please answer y or n.")
	}
}

func (l *Line) Select(label string, options []string, def int) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("nothing to select for %q", label)
	}
	for {
		fmt.Fprintln(l.out, label)
		for i, o := range options {
			marker := " "
			if i == def {
				marker = ">"
			}
			fmt.Fprintf(l.out, "%s %d) %s\n", marker, i+1, o)
		}
		fmt.Fprintf(l.out, "Choice [%d]: ", def+1)
		s, err := l.read()
		if err != nil {
			return 0, err
		}
		if strings.TrimSpace(s) == "" {
			return def, nil
		}
		if i, ok := ParseChoice(s, options); ok {
			return i, nil
		}
		fmt.Fprintf(l.out, "Enter a number between 1 and %d.\n", len(options))
	}
}
