package prompt

import (
	"fmt"
	"io"
)

// Scripted answers prompts from a fixed list, in order. An empty answer
// takes the default. Running out of answers returns io.EOF, which flows
// treat as the operator walking away.
type Scripted struct {
	answers []string
	pos     int
	// Asked records every label shown, in order.
	Asked []string
}

func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

func (s *Scripted) next(label string) (string, error) {
	s.Asked = append(s.Asked, label)
	if s.pos >= len(s.answers) {
		return "", io.EOF
	}
	a := s.answers[s.pos]
	s.pos++
	return a, nil
}

// Remaining is the number of unused answers.
func (s *Scripted) Remaining() int {
	return len(s.answers) - s.pos
}

func (s *Scripted) Input(label, def string) (string, error) {
	a, err := s.next(label)
	if err != nil {
		return "", err
	}
	if a == "" {
		return def, nil
	}
	return a, nil
}

func (s *Scripted) Confirm(label string, def bool) (bool, error) {
	a, err := s.next(label)
	if err != nil {
		return false, err
	}
	if a == "" {
		return def, nil
	}
	yes, ok := ParseYesNo(a)
	if !ok {
		return false, fmt.Errorf("scripted answer %q to %q is not yes/no", a, label)
	}
	return yes, nil
}

func (s *Scripted) Select(label string, options []string, def int) (int, error) {
	a, err := s.next(label)
	if err != nil {
		return 0, err
	}
	if a == "" {
		return def, nil
	}
	i, ok := ParseChoice(a, options)
	if !ok {
		return 0, fmt.Errorf("scripted answer %q is not one of %v", a, options)
	}
	return i, nil
}
