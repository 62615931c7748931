package orchestrator

import (
	"context"

	"glusterctl/pkg/types"
)

var volumeActions = []string{
	"Show volume information",
	"Start volume",
	"Stop volume",
	"Delete volume",
	"Add bricks",
	"Remove brick",
	"Back",
}

// ManageVolumes runs the volume submenu until the operator goes back or the
// input closes. It returns the outcome of the last action run.
func (c *Controller) ManageVolumes(ctx context.Context) types.Outcome {
	last := types.Aborted("no action taken")
	for {
		if ctx.Err() != nil {
			return last
		}

		c.out.Title("🗂  Volume management")
		if len(c.ShowVolumes(ctx)) == 0 {
			return last
		}

		action, err := c.prompt.Select("Action", volumeActions, len(volumeActions)-1)
		if err != nil || action == len(volumeActions)-1 {
			return last
		}

		// remove brick selects its own volume inside the state machine.
		if action == 5 {
			last = c.RemoveBrick(ctx, RemovalRequest{}).Outcome
			continue
		}

		volume, ok := c.selectVolume(ctx, "Volume")
		if !ok {
			return last
		}

		switch action {
		case 0:
			c.ShowVolumeInfo(ctx, volume)
		case 1:
			last = c.StartVolume(ctx, volume)
		case 2:
			last = c.StopVolume(ctx, volume)
		case 3:
			last = c.DeleteVolume(ctx, volume)
		case 4:
			last = c.AddBricksInteractive(ctx, volume)
		}
	}
}
