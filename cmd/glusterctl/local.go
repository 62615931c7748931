package main

import (
	"context"
	"fmt"
	"strings"

	"glusterctl/pkg/hosts"
	"glusterctl/pkg/mount"
	"glusterctl/pkg/parser"

	"github.com/spf13/cobra"
)

func mountCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "mount [server:volume] [target]",
		Short: "Mount a volume",
		Long: `Mount a volume with the cluster's filesystem type. The target directory is
created when missing. With no arguments the mount is defined interactively.`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if len(args) == 0 {
					return outcomeErr(a.mounts.MountInteractive(ctx))
				}
				server, volume, ok := strings.Cut(args[0], ":")
				if !ok {
					return fmt.Errorf("source %q must be server:volume", args[0])
				}
				target := a.cfg.Defaults.MountPoint
				if len(args) > 1 {
					target = args[1]
				}
				return outcomeErr(a.mounts.Mount(ctx, mount.MountRequest{
					Server: server,
					Volume: volume,
					Target: target,
					Owner:  owner,
				}))
			})
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "user to own the mount point after mounting")
	return cmd
}

func umountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "umount <target>",
		Short: "Unmount a volume and optionally delete its mount point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return outcomeErr(a.mounts.Unmount(ctx, args[0]))
			})
		},
	}
}

func mountsCmd() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "mounts",
		Short: "List active volume mounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if prefix == "" {
					a.mounts.ShowMounts(ctx)
					return nil
				}
				for _, e := range a.mounts.ListActiveMounts(ctx, parser.PrefixFilter(prefix)) {
					a.out.Info("%s on %s (%s)", e.Source, e.Target, e.FSType)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "list every mount under this path instead of cluster mounts")
	return cmd
}

func hostsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hosts",
		Short: "Show or extend the hosts file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return outcomeErr(a.hosts.Run())
			})
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show the hosts file entries",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app) error {
					return a.hosts.Show()
				})
			},
		},
		&cobra.Command{
			Use:   "add <ip> <hostname>",
			Short: "Append an entry unless it is already present",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				entry, err := hosts.ParseEntry(args[0], args[1])
				if err != nil {
					return err
				}
				return withApp(cmd, func(ctx context.Context, a *app) error {
					return outcomeErr(a.hosts.Add(entry))
				})
			},
		},
	)
	return cmd
}

func brickCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brick",
		Short: "Prepare brick directories on this node",
	}

	var owner, mode string
	prepare := &cobra.Command{
		Use:   "prepare [path]...",
		Short: "Create brick directories and set their owner and mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if len(args) == 0 {
					return outcomeErr(a.mounts.PrepareBricksInteractive(ctx))
				}
				for _, path := range args {
					if err := outcomeErr(a.mounts.PrepareBrickDir(ctx, path, owner, mode)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	prepare.Flags().StringVar(&owner, "owner", "", "owner of the directory (default: current user)")
	prepare.Flags().StringVar(&mode, "mode", "", "octal mode (default from config)")

	cmd.AddCommand(prepare)
	return cmd
}
