package orchestrator

import (
	"context"
	"fmt"

	gerrors "glusterctl/pkg/errors"
	"glusterctl/pkg/operation"
	"glusterctl/pkg/topology"
	"glusterctl/pkg/types"

	"go.uber.org/zap"
)

// RemovalState is a step of the brick removal flow:
//
//	SelectingVolume -> CheckingMigrationFlag -> {Aborted | SelectingBrick}
//	  -> ConfirmingRemoval -> {Aborted | StartIssued}
//
// StartIssued is terminal. Waiting for migration and running commit are left
// to the operator. RemovalFailed covers a rejected request or a failed start.
type RemovalState int

const (
	SelectingVolume RemovalState = iota
	CheckingMigrationFlag
	SelectingBrick
	ConfirmingRemoval
	RemovalAborted
	StartIssued
	RemovalFailed
)

func (s RemovalState) String() string {
	switch s {
	case SelectingVolume:
		return "SelectingVolume"
	case CheckingMigrationFlag:
		return "CheckingMigrationFlag"
	case SelectingBrick:
		return "SelectingBrick"
	case ConfirmingRemoval:
		return "ConfirmingRemoval"
	case RemovalAborted:
		return "Aborted"
	case StartIssued:
		return "StartIssued"
	case RemovalFailed:
		return "Failed"
	}
	return fmt.Sprintf("RemovalState(%d)", int(s))
}

func (s RemovalState) Terminal() bool {
	return s == RemovalAborted || s == StartIssued || s == RemovalFailed
}

// RemovalRequest preselects the volume and brick; empty fields are asked for.
type RemovalRequest struct {
	Volume string
	Brick  string
}

// Removal is the record of one run of the flow.
type Removal struct {
	State   RemovalState
	Volume  string
	Brick   types.Brick
	Trace   []RemovalState
	Outcome types.Outcome
}

func (r *Removal) enter(s RemovalState) {
	r.State = s
	r.Trace = append(r.Trace, s)
}

func (r *Removal) abort(msg string) {
	r.Outcome = types.Aborted(msg)
	r.enter(RemovalAborted)
}

func (r *Removal) fail(o types.Outcome) {
	r.Outcome = o
	r.enter(RemovalFailed)
}

// RemoveBrick runs the guarded two-phase removal up to remove-brick start.
// It never issues commit.
func (c *Controller) RemoveBrick(ctx context.Context, req RemovalRequest) *Removal {
	r := &Removal{Volume: req.Volume}
	r.enter(SelectingVolume)

	for !r.State.Terminal() {
		switch r.State {
		case SelectingVolume:
			c.removalSelectVolume(ctx, r)
		case CheckingMigrationFlag:
			c.removalCheckMigration(ctx, r)
		case SelectingBrick:
			c.removalSelectBrick(ctx, r, req.Brick)
		case ConfirmingRemoval:
			c.removalConfirm(ctx, r)
		}
	}

	c.logger.Debug("Brick removal finished",
		zap.String("volume", r.Volume),
		zap.String("brick", r.Brick.String()),
		zap.Stringer("state", r.State))
	return r
}

func (c *Controller) removalSelectVolume(ctx context.Context, r *Removal) {
	if r.Volume == "" {
		v, ok := c.selectVolume(ctx, "Volume to remove a brick from")
		if !ok {
			r.abort("no volume selected")
			return
		}
		r.Volume = v
	}
	r.enter(CheckingMigrationFlag)
}

func (c *Controller) removalCheckMigration(ctx context.Context, r *Removal) {
	switch c.topo.ForceMigration(ctx, r.Volume) {
	case topology.MigrationOn:
		c.out.Warn("%s is ON for volume %s.", topology.ForceMigrationOption, r.Volume)
		c.out.Warn("Removing a brick while forced migration is enabled is known to risk data corruption.")
		c.out.Info("To turn it off first: %s", c.manualCommand("volume", "set", r.Volume, topology.ForceMigrationOption, "off"))
		if !c.ops.Ask("Proceed with brick removal anyway?", false) {
			r.abort("brick removal cancelled: force-migration is on")
			return
		}
	case topology.MigrationUnknown:
		c.out.Warn("Could not determine %s for volume %s; continuing with caution.", topology.ForceMigrationOption, r.Volume)
	default:
		c.out.Info("%s is off for volume %s", topology.ForceMigrationOption, r.Volume)
	}
	r.enter(SelectingBrick)
}

func (c *Controller) removalSelectBrick(ctx context.Context, r *Removal, preselected string) {
	bricks := c.topo.ListBricks(ctx, r.Volume)
	if len(bricks) == 0 {
		c.out.Warn("Volume %s has no bricks to remove", r.Volume)
		r.abort("no bricks available")
		return
	}

	if preselected != "" {
		for _, b := range bricks {
			if b.String() == preselected {
				r.Brick = b
				r.enter(ConfirmingRemoval)
				return
			}
		}
		r.fail(c.reject("remove-brick rejected",
			gerrors.New(gerrors.KindInvalidInput, "brick %s is not part of volume %s", preselected, r.Volume)))
		return
	}

	i, err := c.prompt.Select("Brick to remove", brickLabels(bricks), 0)
	if err != nil {
		r.abort("no brick selected")
		return
	}
	r.Brick = bricks[i]
	r.enter(ConfirmingRemoval)
}

func (c *Controller) removalConfirm(ctx context.Context, r *Removal) {
	if !c.ops.Ask(fmt.Sprintf("Remove brick %s from volume %s?", r.Brick, r.Volume), false) {
		c.out.Info("Brick removal cancelled")
		r.abort("brick removal cancelled")
		return
	}

	o := c.ops.Run(ctx, operation.Operation{
		Name:    "remove-brick start",
		Success: fmt.Sprintf("Started migrating data off %s", r.Brick),
		Failure: fmt.Sprintf("Could not start removing brick %s", r.Brick),
	}, c.clusterCommand(BuildRemoveBrickArgs(r.Volume, r.Brick, PhaseStart)...))
	if !o.OK() {
		r.fail(o)
		return
	}

	commit := c.manualCommand(CommitCommand(r.Volume, r.Brick)...)
	c.out.Warn("Do NOT commit until data migration off %s has completed, or data will be lost.", r.Brick)
	c.out.Info("Check progress with: %s", c.manualCommand(BuildRemoveBrickArgs(r.Volume, r.Brick, PhaseStatus)...))
	c.out.Info("Once migration has completed, run: %s", commit)

	r.Outcome = types.Outcome{
		Status:   types.StatusPartial,
		Message:  fmt.Sprintf("remove-brick started for %s; commit pending", r.Brick),
		FollowUp: commit,
	}
	r.enter(StartIssued)
}
