package main

import (
	"context"
	"fmt"

	"glusterctl/pkg/orchestrator"
	"glusterctl/pkg/types"

	"github.com/spf13/cobra"
)

func peerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peer",
		Short: "Manage the trusted storage pool",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "probe <host>",
			Short: "Add a node to the cluster",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app) error {
					return outcomeErr(a.ctrl.ProbePeer(ctx, args[0]))
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List the peers of this node",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app) error {
					a.ctrl.ShowPeers(ctx)
					return nil
				})
			},
		},
	)
	return cmd
}

func volumeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volume",
		Short: "Create, inspect and change volumes",
	}

	cmd.AddCommand(
		volumeCreateCmd(),
		volumeActionCmd("start", "Start a volume", (*orchestrator.Controller).StartVolume),
		volumeActionCmd("stop", "Stop a volume (asks first)", (*orchestrator.Controller).StopVolume),
		volumeActionCmd("delete", "Delete a stopped volume (asks first)", (*orchestrator.Controller).DeleteVolume),
		&cobra.Command{
			Use:   "list",
			Short: "List volumes and their bricks",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app) error {
					a.ctrl.ShowVolumes(ctx)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "info <volume>",
			Short: "Show volume info",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app) error {
					if !a.ctrl.ShowVolumeInfo(ctx, args[0]) {
						return fmt.Errorf("no information available for volume %s", args[0])
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "add-brick <volume> <host:/path>...",
			Short: "Add bricks on known peers to a volume",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app) error {
					return outcomeErr(a.ctrl.AddBricks(ctx, args[0], args[1:]))
				})
			},
		},
		&cobra.Command{
			Use:   "remove-brick [volume] [host:/path]",
			Short: "Start removing a brick; prints the commit command to run once migration completes",
			Args:  cobra.MaximumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				var req orchestrator.RemovalRequest
				if len(args) > 0 {
					req.Volume = args[0]
				}
				if len(args) > 1 {
					req.Brick = args[1]
				}
				return withApp(cmd, func(ctx context.Context, a *app) error {
					return outcomeErr(a.ctrl.RemoveBrick(ctx, req).Outcome)
				})
			},
		},
	)
	return cmd
}

func volumeCreateCmd() *cobra.Command {
	var replica int

	cmd := &cobra.Command{
		Use:   "create [name] [host:/path]...",
		Short: "Create and start a volume",
		Long: `Create a volume from the given bricks and start it. With no arguments the
volume is defined interactively. --replica 0 creates a distributed volume.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if len(args) == 0 {
					return outcomeErr(a.ctrl.CreateVolumeInteractive(ctx))
				}
				req := orchestrator.CreateVolumeRequest{Name: args[0], Bricks: args[1:]}
				if replica > 0 {
					req.Replication = &types.ReplicationSpec{ReplicaCount: replica}
				}
				return outcomeErr(a.ctrl.CreateVolume(ctx, req))
			})
		},
	}

	cmd.Flags().IntVarP(&replica, "replica", "r", 2, "replica count (0 for a distributed volume)")
	return cmd
}

func volumeActionCmd(use, short string, action func(*orchestrator.Controller, context.Context, string) types.Outcome) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <volume>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return outcomeErr(action(a.ctrl, ctx, args[0]))
			})
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show peer status, volume info and volume status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				a.ctrl.ClusterStatus(ctx)
				return nil
			})
		},
	}
}
