package executor

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	gerrors "glusterctl/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordingObserver struct {
	cmds []Command
	errs []error
}

func (o *recordingObserver) Observe(cmd Command, _ *Result, err error) {
	o.cmds = append(o.cmds, cmd)
	o.errs = append(o.errs, err)
}

func TestRunnerCapturesOutput(t *testing.T) {
	r := NewRunner(Options{}, zaptest.NewLogger(t))

	res, err := r.Run(context.Background(), Command{Program: "sh", Args: []string{"-c", "echo out; echo err >&2"}})
	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}

func TestRunnerNonZeroExitIsNotAnError(t *testing.T) {
	r := NewRunner(Options{}, zaptest.NewLogger(t))

	res, err := r.Run(context.Background(), Command{Program: "sh", Args: []string{"-c", "echo nope >&2; exit 3"}})
	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "nope", FailureText(res))
}

func TestRunnerMissingBinary(t *testing.T) {
	obs := &recordingObserver{}
	r := NewRunner(Options{Observer: obs}, zaptest.NewLogger(t))

	res, err := r.Run(context.Background(), Command{Program: "definitely-not-a-real-binary-xyz"})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, gerrors.IsKind(err, gerrors.KindExecution))

	require.Len(t, obs.cmds, 1)
	assert.Equal(t, err, obs.errs[0])
}

func TestRunnerTimeout(t *testing.T) {
	r := NewRunner(Options{Timeout: 50 * time.Millisecond}, zaptest.NewLogger(t))

	_, err := r.Run(context.Background(), Command{Program: "sleep", Args: []string{"5"}})
	require.Error(t, err)
	assert.True(t, gerrors.IsKind(err, gerrors.KindExecution))
	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))

	var e *gerrors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "50ms", e.Details["timeout"])
}

func TestRunnerTimeoutWithGrandchild(t *testing.T) {
	r := NewRunner(Options{Timeout: 100 * time.Millisecond, GracePeriod: 100 * time.Millisecond}, zaptest.NewLogger(t))

	start := time.Now()
	_, err := r.Run(context.Background(), Command{Program: "sh", Args: []string{"-c", "sleep 10; echo done"}})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
	assert.Less(t, elapsed, 3*time.Second)
}

func TestRunnerCancelledByContext(t *testing.T) {
	r := NewRunner(Options{GracePeriod: 100 * time.Millisecond}, zaptest.NewLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := r.Run(ctx, Command{Program: "sh", Args: []string{"-c", "trap '' TERM; sleep 10"}})
	require.Error(t, err)
	assert.True(t, gerrors.IsKind(err, gerrors.KindExecution))
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestRunnerRender(t *testing.T) {
	cmd := Command{Program: "gluster", Args: []string{"volume", "start", "gv0"}, Privileged: true}

	elevated := NewRunner(Options{Elevate: true}, nil)
	assert.Equal(t, "sudo gluster volume start gv0", elevated.Render(cmd))

	custom := NewRunner(Options{Elevate: true, PrivilegeWrapper: "doas"}, nil)
	assert.Equal(t, "doas gluster volume start gv0", custom.Render(cmd))

	plain := NewRunner(Options{Elevate: false}, nil)
	assert.Equal(t, "gluster volume start gv0", plain.Render(cmd))

	cmd.Privileged = false
	assert.Equal(t, "gluster volume start gv0", elevated.Render(cmd))
	assert.Equal(t, "gluster volume start gv0", cmd.Line())
}

func TestFakeExecutor(t *testing.T) {
	f := NewFake().
		OnOutput("gluster peer status", "Hostname: a\n").
		OnFailure("gluster volume start gv0", "already started").
		OnError("mount", gerrors.New(gerrors.KindExecution, "no mount"))

	res, err := f.Run(context.Background(), Command{Program: "gluster", Args: []string{"peer", "status"}})
	require.NoError(t, err)
	assert.Equal(t, "Hostname: a\n", res.Stdout)

	res, err = f.Run(context.Background(), Command{Program: "gluster", Args: []string{"volume", "start", "gv0"}})
	require.NoError(t, err)
	assert.False(t, res.Succeeded)

	_, err = f.Run(context.Background(), Command{Program: "mount"})
	assert.Error(t, err)

	res, err = f.Run(context.Background(), Command{Program: "umount", Args: []string{"/x"}})
	require.NoError(t, err)
	assert.True(t, res.Succeeded)

	assert.Equal(t, []string{"gluster peer status", "gluster volume start gv0", "mount", "umount /x"}, f.Lines())
	assert.True(t, f.Ran("gluster volume start"))
	assert.False(t, f.Ran("gluster volume delete"))
}
