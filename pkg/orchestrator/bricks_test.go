package orchestrator

import (
	"context"
	"testing"

	"glusterctl/pkg/console"
	gerrors "glusterctl/pkg/errors"
	"glusterctl/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanBricks(t *testing.T) {
	peers := []types.Peer{{Hostname: "a"}, {Hostname: "b"}}

	tests := []struct {
		name       string
		local      []string
		candidates []string
		queued     []string
		rejected   []gerrors.Kind
	}{
		{
			name:       "unknown peer excluded",
			candidates: []string{"a:/x", "c:/y"},
			queued:     []string{"a:/x"},
			rejected:   []gerrors.Kind{gerrors.KindUnknownPeer},
		},
		{
			name:       "malformed excluded",
			candidates: []string{"b:/y", "b-y", "a:rel"},
			queued:     []string{"b:/y"},
			rejected:   []gerrors.Kind{gerrors.KindMalformedBrickSpec, gerrors.KindMalformedBrickSpec},
		},
		{
			name:       "local host accepted",
			local:      []string{"self"},
			candidates: []string{"self:/x"},
			queued:     []string{"self:/x"},
		},
		{
			name:       "duplicates collapse",
			candidates: []string{"a:/x", " a:/x "},
			queued:     []string{"a:/x"},
			rejected:   []gerrors.Kind{gerrors.KindInvalidInput},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanBricks(peers, tt.local, tt.candidates)

			var queued []string
			for _, b := range plan.Queued {
				queued = append(queued, b.String())
			}
			assert.Equal(t, tt.queued, queued)

			require.Len(t, plan.Rejected, len(tt.rejected))
			for i, kind := range tt.rejected {
				assert.True(t, gerrors.IsKind(plan.Rejected[i], kind), "rejection %d: %v", i, plan.Rejected[i])
			}
		})
	}
}

func TestAddBricksQueuesOnlyKnownPeers(t *testing.T) {
	topo := &stubTopology{
		peers:   []types.Peer{{Hostname: "a"}, {Hostname: "b"}},
		volumes: []types.Volume{{Name: "gv0"}},
	}
	h := newHarness(t, topo, "y")

	o := h.ctrl.AddBricks(context.Background(), "gv0", []string{"a:/x", "c:/y"})
	assert.Equal(t, types.StatusSucceeded, o.Status)
	assert.Equal(t, []string{"gluster volume add-brick gv0 a:/x force"}, h.fake.Lines())
	require.Len(t, o.Rejected, 1)
	assert.True(t, gerrors.IsKind(o.Rejected[0], gerrors.KindUnknownPeer))
	assert.True(t, h.out.Contains(console.LevelError, `"c"`))
	assert.Len(t, h.prompt.Asked, 1)
}

func TestAddBricksReportsRepeatedBrick(t *testing.T) {
	topo := &stubTopology{peers: []types.Peer{{Hostname: "a"}}, volumes: []types.Volume{{Name: "gv0"}}}
	h := newHarness(t, topo, "y")

	o := h.ctrl.AddBricks(context.Background(), "gv0", []string{"a:/x", "a:/x"})
	assert.Equal(t, types.StatusSucceeded, o.Status)
	assert.Equal(t, []string{"gluster volume add-brick gv0 a:/x force"}, h.fake.Lines())
	require.Len(t, o.Rejected, 1)
	assert.True(t, gerrors.IsKind(o.Rejected[0], gerrors.KindInvalidInput))
	assert.True(t, h.out.Contains(console.LevelError, "a:/x is listed more than once"))
}

func TestAddBricksSingleCommandForBatch(t *testing.T) {
	topo := &stubTopology{
		peers:   []types.Peer{{Hostname: "vm2"}, {Hostname: "vm3"}},
		volumes: []types.Volume{{Name: "gv0"}},
	}
	h := newHarness(t, topo, "y")

	o := h.ctrl.AddBricks(context.Background(), "gv0", []string{"vm2:/b2", "vm3:/b2"})
	assert.Equal(t, types.StatusSucceeded, o.Status)
	assert.Equal(t, []string{"gluster volume add-brick gv0 vm2:/b2 vm3:/b2 force"}, h.fake.Lines())
}

func TestAddBricksNothingValid(t *testing.T) {
	topo := &stubTopology{peers: []types.Peer{{Hostname: "a"}}, volumes: []types.Volume{{Name: "gv0"}}}
	h := newHarness(t, topo)

	o := h.ctrl.AddBricks(context.Background(), "gv0", []string{"z:/x", "broken"})
	assert.Equal(t, types.StatusFailed, o.Status)
	assert.Len(t, o.Rejected, 2)
	assert.Error(t, o.Err)
	assert.Empty(t, h.prompt.Asked)
	assert.Empty(t, h.fake.Calls)
}

func TestAddBricksUnknownVolume(t *testing.T) {
	h := newHarness(t, &stubTopology{peers: []types.Peer{{Hostname: "a"}}})

	o := h.ctrl.AddBricks(context.Background(), "ghost", []string{"a:/x"})
	assert.Equal(t, types.StatusFailed, o.Status)
	assert.True(t, gerrors.IsKind(o.Err, gerrors.KindInvalidInput))
	assert.Empty(t, h.fake.Calls)
}

func TestAddBricksDeclined(t *testing.T) {
	topo := &stubTopology{peers: []types.Peer{{Hostname: "a"}}, volumes: []types.Volume{{Name: "gv0"}}}
	h := newHarness(t, topo, "n")

	o := h.ctrl.AddBricks(context.Background(), "gv0", []string{"a:/x"})
	assert.Equal(t, types.StatusAborted, o.Status)
	assert.Empty(t, h.fake.Calls)
}

func TestAddBricksInteractiveRejectsUnknownHostsOnEntry(t *testing.T) {
	h := newHarness(t, twoNodeCluster(), "vm3:/b2", "vm2:/b2", BrickEntryDone, "y")

	o := h.ctrl.AddBricksInteractive(context.Background(), "gv0")
	assert.Equal(t, types.StatusSucceeded, o.Status)
	assert.True(t, h.out.Contains(console.LevelError, `"vm3"`))
	assert.Equal(t, []string{"gluster volume add-brick gv0 vm2:/b2 force"}, h.fake.Lines())
}

func TestAddBricksInteractiveSelectsVolume(t *testing.T) {
	h := newHarnessWith(t, twoNodeCluster(), Options{Binary: "gluster", LocalHosts: []string{"vm1"}},
		"gv0", "vm1:/b2", BrickEntryDone, "y")

	o := h.ctrl.AddBricksInteractive(context.Background(), "")
	assert.Equal(t, types.StatusSucceeded, o.Status)
	assert.Equal(t, []string{"gluster volume add-brick gv0 vm1:/b2 force"}, h.fake.Lines())
}

func TestAddBricksInteractiveNoneEntered(t *testing.T) {
	h := newHarness(t, twoNodeCluster(), BrickEntryDone)

	o := h.ctrl.AddBricksInteractive(context.Background(), "gv0")
	assert.Equal(t, types.StatusAborted, o.Status)
	assert.Empty(t, h.fake.Calls)
}
