package topology

import (
	"context"
	"testing"

	"glusterctl/pkg/console"
	gerrors "glusterctl/pkg/errors"
	"glusterctl/pkg/executor"
	"glusterctl/pkg/parser"
	"glusterctl/pkg/types"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func newTestCache(t *testing.T, fake *executor.Fake) (*Cache, *console.Memory) {
	out := console.NewMemory()
	return New(fake, parser.New(), out, Options{Binary: "gluster"}, zaptest.NewLogger(t)), out
}

func TestListPeers(t *testing.T) {
	fake := executor.NewFake().OnOutput("gluster peer status", "Number of Peers: 1\n\nHostname: vm2\nState: Peer in Cluster (Connected)\n")
	c, out := newTestCache(t, fake)

	assert.Equal(t, []types.Peer{{Hostname: "vm2"}}, c.ListPeers(context.Background()))
	assert.Empty(t, out.Lines(console.LevelWarn))
}

func TestReadsFailSoft(t *testing.T) {
	fake := executor.NewFake().
		OnFailure("gluster peer status", "Connection failed. Please check if gluster daemon is operational.").
		OnError("gluster volume info", gerrors.New(gerrors.KindExecution, "gluster not installed"))
	c, out := newTestCache(t, fake)

	assert.Empty(t, c.ListPeers(context.Background()))
	assert.Empty(t, c.ListVolumes(context.Background()))
	assert.Empty(t, c.Volumes(context.Background()))

	assert.True(t, out.Contains(console.LevelWarn, "gluster daemon is operational"))
	assert.True(t, out.Contains(console.LevelWarn, "gluster not installed"))
}

func TestListBricksKeepsOrder(t *testing.T) {
	fake := executor.NewFake().OnOutput("gluster volume info gv0",
		"Volume Name: gv0\nBricks:\nBrick1: vm1:/b1\nBrick2: vm2:/b1\nBrick3: vm3:/b1\n")
	c, _ := newTestCache(t, fake)

	assert.Equal(t, []types.Brick{
		{Host: "vm1", Path: "/b1"},
		{Host: "vm2", Path: "/b1"},
		{Host: "vm3", Path: "/b1"},
	}, c.ListBricks(context.Background(), "gv0"))

	v, ok := c.Volume(context.Background(), "gv0")
	assert.True(t, ok)
	assert.Len(t, v.Bricks, 3)

	_, ok = c.Volume(context.Background(), "other")
	assert.False(t, ok)
}

func TestForceMigration(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *executor.Fake)
		want  MigrationState
	}{
		{"on", func(f *executor.Fake) {
			f.OnOutput("gluster volume get gv0 cluster.force-migration", "Option Value\n------ -----\ncluster.force-migration on\n")
		}, MigrationOn},
		{"off", func(f *executor.Fake) {
			f.OnOutput("gluster volume get gv0 cluster.force-migration", "Option Value\n------ -----\ncluster.force-migration off\n")
		}, MigrationOff},
		{"command failed", func(f *executor.Fake) {
			f.OnFailure("gluster volume get gv0 cluster.force-migration", "volume get: gv0: failed: Did you mean cluster.force-migration?")
		}, MigrationUnknown},
		{"unrecognised output", func(f *executor.Fake) {
			f.OnOutput("gluster volume get gv0 cluster.force-migration", "something else entirely\n")
		}, MigrationUnknown},
		{"odd value", func(f *executor.Fake) {
			f.OnOutput("gluster volume get gv0 cluster.force-migration", "cluster.force-migration (null)\n")
		}, MigrationUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := executor.NewFake()
			tt.setup(fake)
			c, _ := newTestCache(t, fake)
			assert.Equal(t, tt.want, c.ForceMigration(context.Background(), "gv0"))
		})
	}
}

func TestPrivilegedReads(t *testing.T) {
	fake := executor.NewFake()
	c := New(fake, parser.New(), console.NewMemory(), Options{Privileged: true}, nil)
	c.ListPeers(context.Background())

	assert.Len(t, fake.Calls, 1)
	assert.True(t, fake.Calls[0].Privileged)
	assert.Equal(t, "gluster", fake.Calls[0].Program)
}
