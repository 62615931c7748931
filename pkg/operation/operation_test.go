package operation

import (
	"context"
	"testing"

	"glusterctl/pkg/console"
	gerrors "glusterctl/pkg/errors"
	"glusterctl/pkg/executor"
	"glusterctl/pkg/prompt"
	"glusterctl/pkg/types"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func stopOp() Operation {
	return Operation{
		Name: "stop volume",
		Build: func() (executor.Command, error) {
			return executor.Command{Program: "gluster", Args: []string{"volume", "stop", "gv0", "force"}, Privileged: true}, nil
		},
		Confirm: "Stop volume gv0?",
		Success: "Volume gv0 stopped",
		Failure: "Could not stop volume gv0",
	}
}

func TestExecuteConfirmed(t *testing.T) {
	fake := executor.NewFake()
	out := console.NewMemory()
	r := NewRunner(fake, prompt.NewScripted("y"), out, zaptest.NewLogger(t))

	o := r.Execute(context.Background(), stopOp())
	assert.Equal(t, types.StatusSucceeded, o.Status)
	assert.Equal(t, []string{"gluster volume stop gv0 force"}, fake.Lines())
	assert.Equal(t, []string{"sudo gluster volume stop gv0 force"}, out.Lines(console.LevelCommand))
	assert.True(t, out.Contains(console.LevelSuccess, "Volume gv0 stopped"))
}

func TestExecuteDeclinedRunsNothing(t *testing.T) {
	for _, answers := range [][]string{{"n"}, {""}, {}} {
		fake := executor.NewFake()
		r := NewRunner(fake, prompt.NewScripted(answers...), console.NewMemory(), zaptest.NewLogger(t))

		o := r.Execute(context.Background(), stopOp())
		assert.Equal(t, types.StatusAborted, o.Status)
		assert.Empty(t, fake.Calls)
	}
}

func TestExecuteCommandFailed(t *testing.T) {
	fake := executor.NewFake().OnFailure("gluster volume stop gv0 force", "volume stop: gv0: failed: Volume gv0 is not in the started state")
	out := console.NewMemory()
	r := NewRunner(fake, prompt.NewScripted("y"), out, zaptest.NewLogger(t))

	o := r.Execute(context.Background(), stopOp())
	assert.Equal(t, types.StatusFailed, o.Status)
	assert.True(t, gerrors.IsKind(o.Err, gerrors.KindCommandFailed))
	assert.True(t, out.Contains(console.LevelError, "not in the started state"))
}

func TestExecuteExecutionError(t *testing.T) {
	fake := executor.NewFake().OnError("gluster volume stop gv0 force", gerrors.New(gerrors.KindExecution, "could not run sudo"))
	r := NewRunner(fake, prompt.NewScripted("y"), console.NewMemory(), zaptest.NewLogger(t))

	o := r.Execute(context.Background(), stopOp())
	assert.Equal(t, types.StatusFailed, o.Status)
	assert.True(t, gerrors.IsKind(o.Err, gerrors.KindExecution))
}

func TestExecutePrecheckAndBuildErrors(t *testing.T) {
	fake := executor.NewFake()
	p := prompt.NewScripted("y")
	r := NewRunner(fake, p, console.NewMemory(), zaptest.NewLogger(t))

	op := stopOp()
	op.Precheck = func(context.Context) error {
		return gerrors.New(gerrors.KindInvalidInput, "volume name is required")
	}
	o := r.Execute(context.Background(), op)
	assert.Equal(t, types.StatusFailed, o.Status)
	assert.True(t, gerrors.IsKind(o.Err, gerrors.KindInvalidInput))

	op = stopOp()
	op.Build = func() (executor.Command, error) {
		return executor.Command{}, gerrors.New(gerrors.KindMalformedBrickSpec, "bad brick")
	}
	o = r.Execute(context.Background(), op)
	assert.True(t, gerrors.IsKind(o.Err, gerrors.KindMalformedBrickSpec))

	assert.Empty(t, fake.Calls)
	assert.Empty(t, p.Asked, "nothing is asked before validation passes")
}

func TestExecuteWithoutConfirmation(t *testing.T) {
	fake := executor.NewFake().OnOutput("gluster volume start gv0", "volume start: gv0: success\n")
	out := console.NewMemory()
	p := prompt.NewScripted()
	r := NewRunner(fake, p, out, zaptest.NewLogger(t))

	op := stopOp()
	op.Confirm = ""
	op.Build = func() (executor.Command, error) {
		return executor.Command{Program: "gluster", Args: []string{"volume", "start", "gv0"}}, nil
	}
	o := r.Execute(context.Background(), op)
	assert.True(t, o.OK())
	assert.Empty(t, p.Asked)
	assert.True(t, out.Contains(console.LevelOutput, "volume start: gv0: success"))
}
