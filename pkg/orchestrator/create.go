package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"glusterctl/pkg/config"
	gerrors "glusterctl/pkg/errors"
	"glusterctl/pkg/operation"
	"glusterctl/pkg/types"

	"go.uber.org/multierr"
)

// BrickEntryDone ends interactive brick entry.
const BrickEntryDone = "done"

type CreateVolumeRequest struct {
	Name string
	// Replication is nil for a plain distributed volume.
	Replication *types.ReplicationSpec
	Bricks      []string
}

func parseBrickSpecs(specs []string) ([]types.Brick, error) {
	var (
		bricks []types.Brick
		errs   error
	)
	for _, s := range specs {
		b, err := types.ParseBrick(s)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		bricks = append(bricks, b)
	}
	return bricks, errs
}

// CreateVolume validates the request, issues volume create and, only if that
// succeeded, volume start. A failed start after a successful create is a
// partial success: the volume exists but is inactive.
func (c *Controller) CreateVolume(ctx context.Context, req CreateVolumeRequest) types.Outcome {
	name := strings.TrimSpace(req.Name)
	if err := requireName("volume", name); err != nil {
		return c.reject("create rejected", err)
	}

	bricks, err := parseBrickSpecs(req.Bricks)
	if err != nil {
		return c.reject("create rejected", err)
	}
	if len(bricks) == 0 {
		return c.reject("create rejected", gerrors.New(gerrors.KindInvalidInput, "at least one brick is required"))
	}

	if rep := req.Replication; rep != nil {
		if rep.ReplicaCount < 2 {
			return c.reject("create rejected", gerrors.New(gerrors.KindInvalidInput,
				"replica count must be at least 2, got %d", rep.ReplicaCount))
		}
		if err := c.opts.Policy.CheckReplica(rep, len(bricks)); err != nil {
			switch c.opts.Policy.MinReplicaBricks {
			case config.ReplicaOff:
				c.logger.Debug("Replica guard disabled by policy")
			case config.ReplicaWarn:
				c.out.Warn("%v", err)
				if !c.ops.Ask("Create the volume anyway?", false) {
					return types.Aborted("volume creation cancelled")
				}
			default:
				return c.reject("create rejected", err)
			}
		}
	}

	created := c.ops.Execute(ctx, operation.Operation{
		Name:    "create volume",
		Build:   command(c.clusterCommand(BuildCreateArgs(name, req.Replication, bricks)...)),
		Success: fmt.Sprintf("Volume %s created", name),
		Failure: fmt.Sprintf("Could not create volume %s", name),
	})
	if created.Status != types.StatusSucceeded {
		return created
	}

	started := c.ops.Execute(ctx, c.startOperation(name))
	if !started.OK() {
		followUp := c.manualCommand("volume", "start", name)
		c.out.Warn("Volume %s was created but is not started. Start it with: %s", name, followUp)
		o := types.Partial(fmt.Sprintf("volume %s created but not started", name), started.Err)
		o.FollowUp = followUp
		return o
	}

	return types.Succeeded(fmt.Sprintf("volume %s created and started", name))
}

// CreateVolumeInteractive asks for the volume definition and creates it.
func (c *Controller) CreateVolumeInteractive(ctx context.Context) types.Outcome {
	c.out.Title("📦 Create volume")

	name, err := c.askRequired("Volume name", "volume")
	if err != nil {
		return types.Aborted("no volume name given")
	}

	var rep *types.ReplicationSpec
	replicated, err := c.prompt.Confirm("Is this a replicated volume?", true)
	if err != nil {
		return types.Aborted("volume creation cancelled")
	}
	if replicated {
		n, err := c.askReplicaCount()
		if err != nil {
			return types.Aborted("volume creation cancelled")
		}
		rep = &types.ReplicationSpec{ReplicaCount: n}
	}

	c.out.Info("Enter the bricks for this volume, one per line, as host:/path/to/brick. Type %q to finish.", BrickEntryDone)
	bricks, err := c.askBricks(nil)
	if err != nil {
		return types.Aborted("volume creation cancelled")
	}

	return c.CreateVolume(ctx, CreateVolumeRequest{Name: name, Replication: rep, Bricks: bricks})
}

func (c *Controller) askRequired(label, kind string) (string, error) {
	for {
		v, err := c.prompt.Input(label, "")
		if err != nil {
			return "", err
		}
		if err := requireName(kind, v); err != nil {
			c.out.Warn("%v", err)
			continue
		}
		return strings.TrimSpace(v), nil
	}
}

func (c *Controller) askReplicaCount() (int, error) {
	for {
		v, err := c.prompt.Input("How many replicas?", "2")
		if err != nil {
			return 0, err
		}
		n, err := ParseReplicaCount(v)
		if err != nil {
			c.out.Warn("%v", err)
			continue
		}
		return n, nil
	}
}

// askBricks reads brick specs until BrickEntryDone. Malformed entries and
// entries failing accept are reported and re-prompted, never silently dropped.
func (c *Controller) askBricks(accept func(types.Brick) error) ([]string, error) {
	var (
		specs []string
		seen  = make(map[string]bool)
	)
	for {
		v, err := c.prompt.Input("Brick", "")
		if err != nil {
			return nil, err
		}
		v = strings.TrimSpace(v)
		if strings.EqualFold(v, BrickEntryDone) {
			return specs, nil
		}
		if v == "" {
			continue
		}

		b, err := types.ParseBrick(v)
		if err != nil {
			c.out.Warn("%v", err)
			continue
		}
		if accept != nil {
			if err := accept(b); err != nil {
				c.out.Error("%v", err)
				continue
			}
		}
		if seen[b.String()] {
			c.out.Warn("brick %s already entered", b)
			continue
		}
		seen[b.String()] = true
		specs = append(specs, b.String())
	}
}
