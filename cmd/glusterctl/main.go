package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"glusterctl/pkg/config"
	"glusterctl/pkg/console"
	"glusterctl/pkg/executor"
	"glusterctl/pkg/hosts"
	"glusterctl/pkg/metrics"
	"glusterctl/pkg/mount"
	"glusterctl/pkg/operation"
	"glusterctl/pkg/orchestrator"
	"glusterctl/pkg/parser"
	"glusterctl/pkg/prompt"
	"glusterctl/pkg/topology"
	"glusterctl/pkg/types"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "0.1.0"

var (
	configFile string
	verbose    bool
	plain      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "glusterctl",
		Short: "Operator console for a GlusterFS cluster",
		Long: `An interactive console for administering a GlusterFS cluster: peers, volumes,
bricks and client mounts. Every action is carried out through the gluster CLI and
the system mount tools, with safety checks before anything destructive is run.

Run without a subcommand to start the interactive console.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return runConsole(ctx, a, "")
			})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "plain output without colours or icons")

	rootCmd.AddCommand(
		consoleCmd(),
		peerCmd(),
		volumeCmd(),
		statusCmd(),
		mountCmd(),
		umountCmd(),
		mountsCmd(),
		hostsCmd(),
		brickCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds everything one invocation needs, built from the loaded config.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	out     console.Reporter
	prompt  prompt.Prompter
	metrics *metrics.Recorder
	ctrl    *orchestrator.Controller
	mounts  *mount.Manager
	hosts   *hosts.Editor
}

func newApp(cfg *config.Config, logger *zap.Logger, out console.Reporter, p prompt.Prompter) (*app, error) {
	rec, err := metrics.NewRecorder()
	if err != nil {
		return nil, errors.Wrap(err, "failed to set up metrics")
	}

	exec := executor.NewRunner(executor.Options{
		PrivilegeWrapper: cfg.Privilege.Wrapper,
		Elevate:          cfg.Privilege.Enabled,
		Timeout:          cfg.Exec.Timeout,
		GracePeriod:      cfg.Exec.GracePeriod,
		Observer:         rec,
	}, logger.Named("exec"))

	topo := topology.New(exec, parser.New(), out, topology.Options{
		Binary:     cfg.Cluster.Binary,
		Privileged: cfg.Privilege.Reads,
	}, logger.Named("topology"))

	ops := operation.NewRunner(exec, p, out, logger)

	return &app{
		cfg:     cfg,
		logger:  logger,
		out:     out,
		prompt:  p,
		metrics: rec,
		ctrl:    orchestrator.New(ops, topo, orchestrator.OptionsFromConfig(cfg)),
		mounts: mount.New(ops, nil, mount.Options{
			FSType:            cfg.Cluster.FSType,
			DefaultMountPoint: cfg.Defaults.MountPoint,
			DefaultBrickPath:  cfg.Defaults.BrickPath,
			BrickMode:         cfg.Defaults.BrickMode,
		}),
		hosts: hosts.NewEditor(hosts.NewFile(cfg.Hosts.File), p, out, logger.Named("hosts")),
	}, nil
}

// close flushes the metrics textfile, if one is configured.
func (a *app) close() {
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		a.logger.Warn("Failed to write metrics textfile", zap.String("path", a.cfg.Metrics.Textfile), zap.Error(err))
	}
}

// withApp loads the configuration, builds the app and runs fn under a
// context cancelled by SIGINT or SIGTERM.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	logger := setupLogger(verbose)
	defer logger.Sync()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	var out console.Reporter = console.NewStyled(cmd.OutOrStdout())
	if plain {
		out = console.NewPlain(cmd.OutOrStdout())
	}

	a, err := newApp(cfg, logger, out, prompt.NewLine(cmd.InOrStdin(), cmd.OutOrStdout()))
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("Starting",
		zap.String("command", cmd.CommandPath()),
		zap.String("binary", cfg.Cluster.Binary),
		zap.Bool("privileged", cfg.Privilege.Enabled))
	return fn(ctx, a)
}

// outcomeErr turns a failed outcome into the command's exit error. Partial
// and aborted outcomes have already been reported and exit zero.
func outcomeErr(o types.Outcome) error {
	if o.Status != types.StatusFailed {
		return nil
	}
	if o.Err != nil {
		return errors.Wrap(o.Err, o.Message)
	}
	return errors.New(o.Message)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "glusterctl v%s\n", version)
		},
	}
}

// setupLogger keeps routine logging off the console; operator messages go
// through the reporter. --verbose turns on debug logs on stderr.
func setupLogger(verbose bool) *zap.Logger {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, _ := config.Build()
	return logger
}
