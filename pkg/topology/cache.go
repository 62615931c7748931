// Package topology re-reads peers, volumes and bricks from the cluster on
// every call. Nothing is kept between operations; reads fail soft.
package topology

import (
	"context"
	"strings"

	"glusterctl/pkg/console"
	"glusterctl/pkg/executor"
	"glusterctl/pkg/parser"
	"glusterctl/pkg/types"

	"go.uber.org/zap"
)

const ForceMigrationOption = "cluster.force-migration"

// MigrationState is the tri-state reading of cluster.force-migration.
type MigrationState int

const (
	MigrationUnknown MigrationState = iota
	MigrationOff
	MigrationOn
)

func (s MigrationState) String() string {
	switch s {
	case MigrationOn:
		return "on"
	case MigrationOff:
		return "off"
	}
	return "unknown"
}

// ParseMigrationState maps the option's value; anything unrecognised is
// MigrationUnknown.
func ParseMigrationState(value string) MigrationState {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "enable", "enabled", "true", "yes", "1":
		return MigrationOn
	case "off", "disable", "disabled", "false", "no", "0":
		return MigrationOff
	}
	return MigrationUnknown
}

type Options struct {
	Binary string
	// Privileged runs the queries through the privilege wrapper.
	Privileged bool
}

type Cache struct {
	exec   executor.Executor
	parser parser.Parser
	out    console.Reporter
	logger *zap.Logger
	opts   Options
}

func New(exec executor.Executor, p parser.Parser, out console.Reporter, opts Options, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Binary == "" {
		opts.Binary = "gluster"
	}
	return &Cache{exec: exec, parser: p, out: out, logger: logger, opts: opts}
}

// Query runs a read-only cluster command. ok is false when the command could
// not run or exited non-zero; the operator has already been warned.
func (c *Cache) Query(ctx context.Context, args ...string) (string, bool) {
	cmd := executor.Command{Program: c.opts.Binary, Args: args, Privileged: c.opts.Privileged}

	res, err := c.exec.Run(ctx, cmd)
	if err != nil {
		c.logger.Warn("Cluster query could not run", zap.String("command", cmd.Line()), zap.Error(err))
		c.out.Warn("could not run %s: %v", cmd.Line(), err)
		return "", false
	}
	if !res.Succeeded {
		c.logger.Warn("Cluster query failed",
			zap.String("command", cmd.Line()),
			zap.Int("exit_code", res.ExitCode),
			zap.String("stderr", res.Stderr))
		c.out.Warn("%s failed, no data available: %s", cmd.Line(), executor.FailureText(res))
		return "", false
	}
	return res.Stdout, true
}

func (c *Cache) ListPeers(ctx context.Context) []types.Peer {
	out, ok := c.Query(ctx, "peer", "status")
	if !ok {
		return nil
	}
	return c.parser.Peers(out)
}

func (c *Cache) ListVolumes(ctx context.Context) []string {
	out, ok := c.Query(ctx, "volume", "info")
	if !ok {
		return nil
	}
	return c.parser.VolumeNames(out)
}

// ListBricks returns the volume's bricks in the cluster's Brick1..BrickN order.
func (c *Cache) ListBricks(ctx context.Context, volume string) []types.Brick {
	out, ok := c.Query(ctx, "volume", "info", volume)
	if !ok {
		return nil
	}
	tokens := c.parser.Bricks(out)
	bricks := make([]types.Brick, 0, len(tokens))
	for _, tok := range tokens {
		bricks = append(bricks, types.SplitBrick(tok))
	}
	return bricks
}

// Volume returns one volume with its bricks. ok is false when the cluster
// did not report it.
func (c *Cache) Volume(ctx context.Context, name string) (types.Volume, bool) {
	out, ok := c.Query(ctx, "volume", "info", name)
	if !ok {
		return types.Volume{}, false
	}
	for _, v := range parser.ParseVolumes(out) {
		if v.Name == name {
			return v, true
		}
	}
	return types.Volume{}, false
}

// Volumes returns every volume with its bricks.
func (c *Cache) Volumes(ctx context.Context) []types.Volume {
	out, ok := c.Query(ctx, "volume", "info")
	if !ok {
		return nil
	}
	return parser.ParseVolumes(out)
}

func (c *Cache) ForceMigration(ctx context.Context, volume string) MigrationState {
	out, ok := c.Query(ctx, "volume", "get", volume, ForceMigrationOption)
	if !ok {
		return MigrationUnknown
	}
	v, found := c.parser.OptionValue(out, ForceMigrationOption)
	if !found {
		c.logger.Warn("Option not found in output", zap.String("volume", volume), zap.String("option", ForceMigrationOption))
		return MigrationUnknown
	}
	return ParseMigrationState(v)
}
