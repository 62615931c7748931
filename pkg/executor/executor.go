package executor

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"syscall"
	"time"

	gerrors "glusterctl/pkg/errors"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const DefaultPrivilegeWrapper = "sudo"

// DefaultGracePeriod is how long a cancelled command has to exit after
// SIGTERM before it is killed and its output pipes are closed.
const DefaultGracePeriod = 2 * time.Second

// Command is one external invocation. Privileged commands are prefixed with
// the privilege wrapper when elevation is enabled.
type Command struct {
	Program    string
	Args       []string
	Privileged bool
}

// Line renders the command without any privilege wrapper.
func (c Command) Line() string {
	if len(c.Args) == 0 {
		return c.Program
	}
	return c.Program + " " + strings.Join(c.Args, " ")
}

// Result captures a command that ran to completion, successfully or not.
type Result struct {
	Succeeded bool
	ExitCode  int
	Stdout    string
	Stderr    string
	Duration  time.Duration
}

// Executor runs external programs. A non-nil error means the program could
// not be run; a non-zero exit is reported through Result.Succeeded.
type Executor interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
	// Render returns the shell line that Run would execute.
	Render(cmd Command) string
}

// Observer is notified after every invocation.
type Observer interface {
	Observe(cmd Command, res *Result, err error)
}

type Options struct {
	PrivilegeWrapper string
	Elevate          bool
	// Timeout bounds every invocation; zero waits indefinitely.
	Timeout     time.Duration
	GracePeriod time.Duration
	Observer    Observer
}

// Runner is the os/exec backed Executor.
type Runner struct {
	wrapper  string
	elevate  bool
	timeout  time.Duration
	grace    time.Duration
	observer Observer
	logger   *zap.Logger
}

func NewRunner(opts Options, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	wrapper := opts.PrivilegeWrapper
	if wrapper == "" {
		wrapper = DefaultPrivilegeWrapper
	}
	grace := opts.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &Runner{
		wrapper:  wrapper,
		elevate:  opts.Elevate,
		timeout:  opts.Timeout,
		grace:    grace,
		observer: opts.Observer,
		logger:   logger,
	}
}

func (r *Runner) argv(cmd Command) []string {
	argv := make([]string, 0, len(cmd.Args)+2)
	if cmd.Privileged && r.elevate {
		argv = append(argv, r.wrapper)
	}
	argv = append(argv, cmd.Program)
	return append(argv, cmd.Args...)
}

func (r *Runner) Render(cmd Command) string {
	return strings.Join(r.argv(cmd), " ")
}

func (r *Runner) Run(ctx context.Context, cmd Command) (*Result, error) {
	res, err := r.run(ctx, cmd)
	if r.observer != nil {
		r.observer.Observe(cmd, res, err)
	}
	return res, err
}

func (r *Runner) run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Program == "" {
		return nil, gerrors.New(gerrors.KindExecution, "no program given")
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	argv := r.argv(cmd)
	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	// sudo relays SIGTERM to the command it started but cannot relay SIGKILL.
	// WaitDelay covers grandchildren that ignore it and still hold the pipes.
	c.Cancel = func() error { return c.Process.Signal(syscall.SIGTERM) }
	c.WaitDelay = r.grace

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	res := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	r.logger.Debug("Executed command",
		zap.Strings("argv", argv),
		zap.Duration("duration", res.Duration),
		zap.Error(err))

	if err == nil {
		res.Succeeded = true
		return res, nil
	}

	// A killed child also surfaces as an ExitError, so check the context first.
	if ctxErr := ctx.Err(); ctxErr != nil {
		e := gerrors.Wrap(gerrors.KindExecution, ctxErr, "%s did not finish", argv[0]).
			WithDetail("argv", argv)
		if r.timeout > 0 {
			e.WithDetail("timeout", r.timeout.String())
		}
		return nil, e
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	return nil, gerrors.Wrap(gerrors.KindExecution, err, "could not run %s", argv[0]).
		WithDetail("argv", argv)
}

// FailureText picks the most useful text from a failed result.
func FailureText(res *Result) string {
	if res == nil {
		return ""
	}
	if s := strings.TrimSpace(res.Stderr); s != "" {
		return s
	}
	return strings.TrimSpace(res.Stdout)
}
