package orchestrator

import (
	"context"
	"fmt"

	gerrors "glusterctl/pkg/errors"
	"glusterctl/pkg/operation"
	"glusterctl/pkg/types"

	"go.uber.org/multierr"
)

// BrickPlan is the outcome of validating an add-brick batch.
type BrickPlan struct {
	Queued   []types.Brick
	Rejected []error
}

// Err combines every rejection, or nil.
func (p BrickPlan) Err() error {
	return multierr.Combine(p.Rejected...)
}

type peerSet map[string]struct{}

func newPeerSet(peers []types.Peer, localHosts []string) peerSet {
	s := make(peerSet, len(peers)+len(localHosts))
	for _, p := range peers {
		s[p.Hostname] = struct{}{}
	}
	for _, h := range localHosts {
		s[h] = struct{}{}
	}
	return s
}

func (s peerSet) check(b types.Brick) error {
	if _, ok := s[b.Host]; !ok {
		return gerrors.New(gerrors.KindUnknownPeer, "host %q of brick %s is not a peer of this cluster", b.Host, b).
			WithDetail("brick", b.String())
	}
	return nil
}

// PlanBricks keeps the candidates whose host is a live peer. Malformed,
// unknown-host and repeated candidates are rejected individually; they never
// abort the rest of the batch.
func PlanBricks(peers []types.Peer, localHosts []string, candidates []string) BrickPlan {
	set := newPeerSet(peers, localHosts)
	seen := make(map[string]bool)

	var plan BrickPlan
	for _, spec := range candidates {
		b, err := types.ParseBrick(spec)
		if err != nil {
			plan.Rejected = append(plan.Rejected, err)
			continue
		}
		if err := set.check(b); err != nil {
			plan.Rejected = append(plan.Rejected, err)
			continue
		}
		if seen[b.String()] {
			plan.Rejected = append(plan.Rejected,
				gerrors.New(gerrors.KindInvalidInput, "brick %s is listed more than once", b).
					WithDetail("brick", b.String()))
			continue
		}
		seen[b.String()] = true
		plan.Queued = append(plan.Queued, b)
	}
	return plan
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// AddBricks validates candidates against the live volume and peer lists, then
// asks once before a single add-brick covering every queued brick.
func (c *Controller) AddBricks(ctx context.Context, volume string, candidates []string) types.Outcome {
	if err := requireName("volume", volume); err != nil {
		return c.reject("add-brick rejected", err)
	}
	if !contains(c.topo.ListVolumes(ctx), volume) {
		return c.reject("add-brick rejected", gerrors.New(gerrors.KindInvalidInput, "volume %q not found", volume))
	}

	plan := PlanBricks(c.topo.ListPeers(ctx), c.opts.LocalHosts, candidates)
	for _, err := range plan.Rejected {
		c.out.Error("%v", err)
	}

	if len(plan.Queued) == 0 {
		err := plan.Err()
		if err == nil {
			err = gerrors.New(gerrors.KindInvalidInput, "no bricks given")
		}
		o := types.Failed("no valid bricks to add", err)
		o.Rejected = plan.Rejected
		return o
	}

	o := c.ops.Execute(ctx, operation.Operation{
		Name:    "add bricks",
		Build:   command(c.clusterCommand(BuildAddBrickArgs(volume, plan.Queued)...)),
		Confirm: fmt.Sprintf("Add %s to volume %s?", brickList(plan.Queued), volume),
		Success: fmt.Sprintf("Added %d brick(s) to volume %s", len(plan.Queued), volume),
		Failure: fmt.Sprintf("Could not add bricks to volume %s", volume),
	})
	o.Rejected = plan.Rejected
	return o
}

// selectVolume asks the operator to pick one of the live volumes.
func (c *Controller) selectVolume(ctx context.Context, label string) (string, bool) {
	vols := c.topo.ListVolumes(ctx)
	if len(vols) == 0 {
		c.out.Warn("No volumes available")
		return "", false
	}
	i, err := c.prompt.Select(label, vols, 0)
	if err != nil {
		return "", false
	}
	return vols[i], true
}

// AddBricksInteractive picks a volume, then reads bricks, rejecting unknown
// hosts as they are entered.
func (c *Controller) AddBricksInteractive(ctx context.Context, volume string) types.Outcome {
	c.out.Title("🧱 Add bricks")

	if volume == "" {
		v, ok := c.selectVolume(ctx, "Volume to extend")
		if !ok {
			return types.Aborted("no volume selected")
		}
		volume = v
	}

	peers := c.topo.ListPeers(ctx)
	set := newPeerSet(peers, c.opts.LocalHosts)
	if len(set) == 0 {
		c.out.Warn("No peers known; every brick will be rejected")
	} else if len(peers) > 0 {
		c.peerTable(peers)
	}

	c.out.Info("Enter bricks as host:/path/to/brick. Type %q to finish.", BrickEntryDone)
	specs, err := c.askBricks(set.check)
	if err != nil {
		return types.Aborted("add-brick cancelled")
	}
	if len(specs) == 0 {
		c.out.Info("No bricks entered")
		return types.Aborted("no bricks entered")
	}

	return c.AddBricks(ctx, volume, specs)
}
