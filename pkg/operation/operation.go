// Package operation runs one validated mutating command: precheck, optional
// confirmation, echo, run, report. Every destructive action in the console
// goes through Runner.Execute.
package operation

import (
	"context"
	"fmt"

	"glusterctl/pkg/console"
	gerrors "glusterctl/pkg/errors"
	"glusterctl/pkg/executor"
	"glusterctl/pkg/prompt"
	"glusterctl/pkg/types"

	"go.uber.org/zap"
)

type Operation struct {
	Name string
	// Build returns the command to run. A validation error stops the
	// operation before anything is asked or run.
	Build func() (executor.Command, error)
	// Precheck runs before confirmation; nil skips it.
	Precheck func(ctx context.Context) error
	// Confirm is the confirmation question; empty means no confirmation.
	Confirm    string
	DefaultYes bool
	// Success and Failure are the operator messages.
	Success string
	Failure string
}

type Runner struct {
	exec   executor.Executor
	prompt prompt.Prompter
	out    console.Reporter
	logger *zap.Logger
}

func NewRunner(exec executor.Executor, p prompt.Prompter, out console.Reporter, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{exec: exec, prompt: p, out: out, logger: logger}
}

func (r *Runner) Executor() executor.Executor { return r.exec }
func (r *Runner) Prompter() prompt.Prompter   { return r.prompt }
func (r *Runner) Reporter() console.Reporter  { return r.out }
func (r *Runner) Logger() *zap.Logger         { return r.logger }

// Ask asks a yes/no question. A closed input counts as "no".
func (r *Runner) Ask(question string, def bool) bool {
	yes, err := r.prompt.Confirm(question, def)
	if err != nil {
		r.logger.Debug("Confirmation not answered", zap.String("question", question), zap.Error(err))
		return false
	}
	return yes
}

func (r *Runner) Execute(ctx context.Context, op Operation) types.Outcome {
	if op.Precheck != nil {
		if err := op.Precheck(ctx); err != nil {
			return r.rejected(op, err)
		}
	}

	cmd, err := op.Build()
	if err != nil {
		return r.rejected(op, err)
	}

	if op.Confirm != "" && !r.Ask(op.Confirm, op.DefaultYes) {
		r.out.Info("%s cancelled", op.Name)
		return types.Aborted(fmt.Sprintf("%s cancelled by operator", op.Name))
	}

	return r.Run(ctx, op, cmd)
}

// Run issues cmd without any further checks and reports the result.
func (r *Runner) Run(ctx context.Context, op Operation, cmd executor.Command) types.Outcome {
	r.out.Command(r.exec.Render(cmd))

	res, err := r.exec.Run(ctx, cmd)
	if err != nil {
		r.logger.Error("Command could not run", zap.String("operation", op.Name), zap.Error(err))
		r.out.Error("%s: %v", failureText(op), err)
		return types.Failed(failureText(op), err)
	}

	if !res.Succeeded {
		detail := executor.FailureText(res)
		r.logger.Warn("Command failed",
			zap.String("operation", op.Name),
			zap.Int("exit_code", res.ExitCode),
			zap.String("stderr", res.Stderr))
		if detail != "" {
			r.out.Error("%s: %s", failureText(op), detail)
		} else {
			r.out.Error("%s", failureText(op))
		}
		return types.Failed(failureText(op), gerrors.New(gerrors.KindCommandFailed,
			"%s exited with status %d", cmd.Line(), res.ExitCode).
			WithDetail("stderr", res.Stderr))
	}

	r.out.Output(res.Stdout)
	msg := op.Success
	if msg == "" {
		msg = op.Name + " done"
	}
	r.out.Success("%s", msg)
	return types.Succeeded(msg)
}

func (r *Runner) rejected(op Operation, err error) types.Outcome {
	r.logger.Debug("Operation rejected", zap.String("operation", op.Name), zap.Error(err))
	r.out.Error("%v", err)
	return types.Failed(fmt.Sprintf("%s rejected", op.Name), err)
}

func failureText(op Operation) string {
	if op.Failure != "" {
		return op.Failure
	}
	return op.Name + " failed"
}
