package main

import (
	"context"
	"fmt"

	"glusterctl/pkg/config"
	"glusterctl/pkg/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type menuItem struct {
	label string
	run   func(ctx context.Context) types.Outcome
}

func consoleCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Start the interactive console",
		Long: `Start the interactive console. A master node gets the cluster administration
menu; a client node only manages hosts, brick directories and mounts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return runConsole(ctx, a, config.Role(role))
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "node role (master or client); asked when unset")
	return cmd
}

var roleOptions = []string{"Master node", "Client node"}

// resolveRole prefers the flag, then the config file, then asks.
func resolveRole(a *app, flag config.Role) (config.Role, error) {
	switch {
	case flag != "":
		if flag != config.RoleMaster && flag != config.RoleClient {
			return "", fmt.Errorf("unknown role %q (expected master or client)", flag)
		}
		return flag, nil
	case a.cfg.Role != "":
		return a.cfg.Role, nil
	}

	i, err := a.prompt.Select("Select the node type", roleOptions, 0)
	if err != nil {
		return "", err
	}
	if i == 0 {
		return config.RoleMaster, nil
	}
	return config.RoleClient, nil
}

func menuFor(a *app, role config.Role) []menuItem {
	items := []menuItem{
		{"Edit hosts file", func(context.Context) types.Outcome { return a.hosts.Run() }},
		{"Manage brick directories", a.mounts.PrepareBricksInteractive},
	}
	if role == config.RoleMaster {
		items = append(items,
			menuItem{"Add peer", func(ctx context.Context) types.Outcome { return addPeerInteractive(ctx, a) }},
			menuItem{"Create and start volume", a.ctrl.CreateVolumeInteractive},
			menuItem{"Cluster status", func(ctx context.Context) types.Outcome {
				a.ctrl.ClusterStatus(ctx)
				return types.Succeeded("status shown")
			}},
			menuItem{"Manage volumes", a.ctrl.ManageVolumes},
		)
	}
	return append(items,
		menuItem{"Mount volume", a.mounts.MountInteractive},
		menuItem{"Manage mounts", a.mounts.ManageMounts},
	)
}

func addPeerInteractive(ctx context.Context, a *app) types.Outcome {
	a.out.Title("🤝 Add peer")
	a.ctrl.ShowPeers(ctx)
	host, err := a.prompt.Input("Hostname or IP of the node to add", "")
	if err != nil {
		return types.Aborted("no peer given")
	}
	return a.ctrl.ProbePeer(ctx, host)
}

// runConsole loops over the main menu until the operator exits, the input
// closes or the context is cancelled.
func runConsole(ctx context.Context, a *app, flag config.Role) error {
	role, err := resolveRole(a, flag)
	if err != nil {
		return err
	}
	a.logger.Debug("Console started", zap.String("role", string(role)))

	items := menuFor(a, role)
	labels := make([]string, 0, len(items)+1)
	for _, it := range items {
		labels = append(labels, it.label)
	}
	labels = append(labels, "Exit")

	for ctx.Err() == nil {
		a.out.Title("GlusterFS console (%s)", role)
		i, err := a.prompt.Select("What do you want to do?", labels, 0)
		if err != nil || i == len(items) {
			return nil
		}
		o := items[i].run(ctx)
		a.logger.Debug("Menu action finished",
			zap.String("action", items[i].label),
			zap.Stringer("status", o.Status))
	}
	return nil
}
