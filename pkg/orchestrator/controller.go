// Package orchestrator validates operator intents against the live cluster
// topology and turns them into cluster CLI invocations.
//
// Each flow re-reads topology, so there is nothing to invalidate between
// operations. Concurrent sessions are not coordinated here; the cluster tool
// is relied on for that.
package orchestrator

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"glusterctl/pkg/config"
	"glusterctl/pkg/console"
	gerrors "glusterctl/pkg/errors"
	"glusterctl/pkg/executor"
	"glusterctl/pkg/operation"
	"glusterctl/pkg/prompt"
	"glusterctl/pkg/topology"
	"glusterctl/pkg/types"

	"go.uber.org/zap"
)

// Topology is the read side the controller validates against.
type Topology interface {
	ListPeers(ctx context.Context) []types.Peer
	ListVolumes(ctx context.Context) []string
	ListBricks(ctx context.Context, volume string) []types.Brick
	Volumes(ctx context.Context) []types.Volume
	ForceMigration(ctx context.Context, volume string) topology.MigrationState
	Query(ctx context.Context, args ...string) (string, bool)
}

type Options struct {
	Binary     string
	ScriptMode bool
	Policy     Policy
	LocalHosts []string
}

// OptionsFromConfig maps the loaded configuration onto controller options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Binary:     cfg.Cluster.Binary,
		ScriptMode: cfg.Cluster.ScriptMode,
		LocalHosts: cfg.Cluster.LocalHosts,
		Policy: Policy{
			MinReplicaBricks:     cfg.Policy.MinReplicaBricks,
			ExactReplicaMultiple: cfg.Policy.ExactReplicaMultiple,
		},
	}
}

type Controller struct {
	ops    *operation.Runner
	topo   Topology
	prompt prompt.Prompter
	out    console.Reporter
	logger *zap.Logger
	opts   Options
}

func New(ops *operation.Runner, topo Topology, opts Options) *Controller {
	if opts.Binary == "" {
		opts.Binary = "gluster"
	}
	if opts.Policy.MinReplicaBricks == "" {
		opts.Policy.MinReplicaBricks = config.ReplicaRequire
	}
	return &Controller{
		ops:    ops,
		topo:   topo,
		prompt: ops.Prompter(),
		out:    ops.Reporter(),
		logger: ops.Logger(),
		opts:   opts,
	}
}

// clusterCommand builds a privileged mutating cluster command.
func (c *Controller) clusterCommand(args ...string) executor.Command {
	if c.opts.ScriptMode {
		args = append([]string{"--mode=script"}, args...)
	}
	return executor.Command{Program: c.opts.Binary, Args: args, Privileged: true}
}

// manualCommand renders a command for the operator to run by hand. Script
// mode is left off so the tool asks its own questions.
func (c *Controller) manualCommand(args ...string) string {
	return c.ops.Executor().Render(executor.Command{Program: c.opts.Binary, Args: args, Privileged: true})
}

func (c *Controller) reject(msg string, err error) types.Outcome {
	c.out.Error("%v", err)
	c.logger.Debug("Request rejected", zap.String("reason", msg), zap.Error(err))
	return types.Failed(msg, err)
}

func command(cmd executor.Command) func() (executor.Command, error) {
	return func() (executor.Command, error) { return cmd, nil }
}

func requireName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return gerrors.New(gerrors.KindInvalidInput, "%s name is required", kind)
	}
	if strings.ContainsAny(name, " \t") {
		return gerrors.New(gerrors.KindInvalidInput, "%s name %q must not contain spaces", kind, name)
	}
	return nil
}

// ProbePeer adds a node to the trusted pool.
func (c *Controller) ProbePeer(ctx context.Context, host string) types.Outcome {
	host = strings.TrimSpace(host)
	if err := requireName("peer", host); err != nil {
		return c.reject("peer probe rejected", err)
	}
	return c.ops.Execute(ctx, operation.Operation{
		Name:    "peer probe",
		Build:   command(c.clusterCommand("peer", "probe", host)),
		Success: fmt.Sprintf("Node %q added to the cluster", host),
		Failure: fmt.Sprintf("Could not add node %q. Check connectivity and that glusterd is running on it", host),
	})
}

func (c *Controller) startOperation(name string) operation.Operation {
	return operation.Operation{
		Name:    "start volume",
		Build:   command(c.clusterCommand("volume", "start", name)),
		Success: fmt.Sprintf("Volume %s started", name),
		Failure: fmt.Sprintf("Could not start volume %s", name),
	}
}

func (c *Controller) StartVolume(ctx context.Context, name string) types.Outcome {
	if err := requireName("volume", name); err != nil {
		return c.reject("start rejected", err)
	}
	return c.ops.Execute(ctx, c.startOperation(name))
}

func (c *Controller) StopVolume(ctx context.Context, name string) types.Outcome {
	if err := requireName("volume", name); err != nil {
		return c.reject("stop rejected", err)
	}
	return c.ops.Execute(ctx, operation.Operation{
		Name:    "stop volume",
		Build:   command(c.clusterCommand("volume", "stop", name, "force")),
		Confirm: fmt.Sprintf("Stop volume %s? Its data becomes inaccessible to clients", name),
		Success: fmt.Sprintf("Volume %s stopped", name),
		Failure: fmt.Sprintf("Could not stop volume %s", name),
	})
}

func (c *Controller) DeleteVolume(ctx context.Context, name string) types.Outcome {
	if err := requireName("volume", name); err != nil {
		return c.reject("delete rejected", err)
	}
	return c.ops.Execute(ctx, operation.Operation{
		Name:    "delete volume",
		Build:   command(c.clusterCommand("volume", "delete", name)),
		Confirm: fmt.Sprintf("Delete volume %s? This cannot be undone", name),
		Success: fmt.Sprintf("Volume %s deleted", name),
		Failure: fmt.Sprintf("Could not delete volume %s (it must be stopped first)", name),
	})
}

func (c *Controller) ShowPeers(ctx context.Context) []types.Peer {
	peers := c.topo.ListPeers(ctx)
	if len(peers) == 0 {
		c.out.Info("No peers in the cluster")
		return nil
	}
	c.peerTable(peers)
	return peers
}

func (c *Controller) peerTable(peers []types.Peer) {
	rows := make([][]string, len(peers))
	for i, p := range peers {
		rows[i] = []string{p.Hostname}
	}
	c.out.Table("PEERS", []string{"HOSTNAME"}, rows)
}

func (c *Controller) ShowVolumes(ctx context.Context) []types.Volume {
	vols := c.topo.Volumes(ctx)
	if len(vols) == 0 {
		c.out.Info("No volumes present in cluster")
		return nil
	}
	rows := make([][]string, 0, len(vols))
	for _, v := range vols {
		rows = append(rows, []string{v.Name, strconv.Itoa(len(v.Bricks)), brickList(v.Bricks)})
	}
	c.out.Table("VOLUMES", []string{"NAME", "BRICKS", "LAYOUT"}, rows)
	return vols
}

// ShowVolumeInfo prints `volume info` for one volume.
func (c *Controller) ShowVolumeInfo(ctx context.Context, name string) bool {
	out, ok := c.topo.Query(ctx, "volume", "info", name)
	if ok {
		c.out.Output(out)
	}
	return ok
}

// ClusterStatus prints peer status, volume info and volume status in turn.
// Each read fails soft.
func (c *Controller) ClusterStatus(ctx context.Context) {
	sections := []struct {
		title string
		args  []string
	}{
		{"Peer status", []string{"peer", "status"}},
		{"Volume information", []string{"volume", "info"}},
		{"Volume status", []string{"volume", "status"}},
	}
	for _, s := range sections {
		c.out.Title("%s", s.title)
		if out, ok := c.topo.Query(ctx, s.args...); ok {
			c.out.Output(out)
		}
	}
}
