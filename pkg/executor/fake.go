package executor

import (
	"context"
	"strings"
)

// Fake is a scripted Executor. Responses are keyed by Command.Line(); commands
// without a response succeed with empty output.
type Fake struct {
	responses map[string]fakeResponse
	Calls     []Command
}

type fakeResponse struct {
	res *Result
	err error
}

func NewFake() *Fake {
	return &Fake{responses: make(map[string]fakeResponse)}
}

// OnOutput makes line succeed with the given stdout.
func (f *Fake) OnOutput(line, stdout string) *Fake {
	f.responses[line] = fakeResponse{res: &Result{Succeeded: true, Stdout: stdout}}
	return f
}

// OnFailure makes line exit 1 with the given stderr.
func (f *Fake) OnFailure(line, stderr string) *Fake {
	f.responses[line] = fakeResponse{res: &Result{ExitCode: 1, Stderr: stderr}}
	return f
}

// OnError makes line fail to launch.
func (f *Fake) OnError(line string, err error) *Fake {
	f.responses[line] = fakeResponse{err: err}
	return f
}

func (f *Fake) Run(_ context.Context, cmd Command) (*Result, error) {
	f.Calls = append(f.Calls, cmd)
	r, ok := f.responses[cmd.Line()]
	if !ok {
		return &Result{Succeeded: true}, nil
	}
	if r.err != nil {
		return nil, r.err
	}
	res := *r.res
	return &res, nil
}

func (f *Fake) Render(cmd Command) string {
	if cmd.Privileged {
		return DefaultPrivilegeWrapper + " " + cmd.Line()
	}
	return cmd.Line()
}

// Lines returns every command run so far, in order.
func (f *Fake) Lines() []string {
	lines := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		lines[i] = c.Line()
	}
	return lines
}

// Ran reports whether a command starting with prefix was run.
func (f *Fake) Ran(prefix string) bool {
	for _, c := range f.Calls {
		if strings.HasPrefix(c.Line(), prefix) {
			return true
		}
	}
	return false
}
