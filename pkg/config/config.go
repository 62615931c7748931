package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type Role string

const (
	RoleMaster Role = "master"
	RoleClient Role = "client"
)

// ReplicaPolicy decides what happens when a replicated volume is given fewer
// bricks than its replica count.
type ReplicaPolicy string

const (
	// ReplicaRequire rejects the request with InsufficientBricks.
	ReplicaRequire ReplicaPolicy = "require"
	// ReplicaWarn reports the shortfall and asks before continuing.
	ReplicaWarn ReplicaPolicy = "warn"
	// ReplicaOff leaves the check to the cluster tool.
	ReplicaOff ReplicaPolicy = "off"
)

type Config struct {
	Role      Role            `yaml:"role"`
	Cluster   ClusterConfig   `yaml:"cluster"`
	Privilege PrivilegeConfig `yaml:"privilege"`
	Exec      ExecConfig      `yaml:"exec"`
	Policy    PolicyConfig    `yaml:"policy"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
	Hosts     HostsConfig     `yaml:"hosts"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type ClusterConfig struct {
	Binary string `yaml:"binary"`
	FSType string `yaml:"fstype"`
	// ScriptMode prefixes mutating commands with --mode=script so the tool
	// does not ask its own y/n questions.
	ScriptMode bool `yaml:"script_mode"`
	// LocalHosts are names of this node. `peer status` never lists the local
	// node, so bricks on it would otherwise be rejected as UnknownPeer.
	LocalHosts []string `yaml:"local_hosts"`
}

type PrivilegeConfig struct {
	Enabled bool   `yaml:"enabled"`
	Wrapper string `yaml:"wrapper"`
	// Reads runs cluster queries through the wrapper too.
	Reads bool `yaml:"reads"`
}

type ExecConfig struct {
	// Timeout bounds every external command; 0 waits indefinitely.
	Timeout time.Duration `yaml:"timeout"`
	// GracePeriod is how long a cancelled command gets to exit after SIGTERM
	// before it is killed; 0 uses the executor default.
	GracePeriod time.Duration `yaml:"grace_period"`
}

type PolicyConfig struct {
	MinReplicaBricks     ReplicaPolicy `yaml:"min_replica_bricks"`
	ExactReplicaMultiple bool          `yaml:"exact_replica_multiple"`
}

type DefaultsConfig struct {
	BrickPath  string `yaml:"brick_path"`
	MountPoint string `yaml:"mount_point"`
	BrickMode  string `yaml:"brick_mode"`
}

type HostsConfig struct {
	File string `yaml:"file"`
}

type MetricsConfig struct {
	// Textfile is written after every session for the node exporter's
	// textfile collector. Empty disables it.
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Cluster: ClusterConfig{
			Binary:     "gluster",
			FSType:     "glusterfs",
			ScriptMode: true,
		},
		Privilege: PrivilegeConfig{
			Enabled: true,
			Wrapper: "sudo",
		},
		Policy: PolicyConfig{
			MinReplicaBricks: ReplicaRequire,
		},
		Defaults: DefaultsConfig{
			BrickPath:  "/gluster/brick1",
			MountPoint: "/mnt/gluster_vol",
			BrickMode:  "775",
		},
		Hosts: HostsConfig{
			File: "/etc/hosts",
		},
	}
}

// DefaultPath returns ~/.glusterctl/config.yaml, or the value of
// GLUSTERCTL_CONFIG when set.
func DefaultPath() string {
	if p := os.Getenv("GLUSTERCTL_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".glusterctl", "config.yaml")
	}
	return filepath.Join(home, ".glusterctl", "config.yaml")
}

// LoadConfig reads path over the defaults. A missing file at the default
// location is not an error; a missing explicit path is.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Cluster.Binary = getEnv("GLUSTERCTL_BINARY", c.Cluster.Binary)
	c.Privilege.Wrapper = getEnv("GLUSTERCTL_SUDO", c.Privilege.Wrapper)

	if v := os.Getenv("GLUSTERCTL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid GLUSTERCTL_TIMEOUT %q: %w", v, err)
		}
		c.Exec.Timeout = d
	}
	return nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var err error

	switch c.Role {
	case "", RoleMaster, RoleClient:
	default:
		err = multierr.Append(err, fmt.Errorf("role must be %q or %q, got %q", RoleMaster, RoleClient, c.Role))
	}

	switch c.Policy.MinReplicaBricks {
	case ReplicaRequire, ReplicaWarn, ReplicaOff:
	default:
		err = multierr.Append(err, fmt.Errorf("policy.min_replica_bricks must be require, warn or off, got %q", c.Policy.MinReplicaBricks))
	}

	if c.Exec.Timeout < 0 {
		err = multierr.Append(err, fmt.Errorf("exec.timeout must not be negative"))
	}
	if c.Exec.GracePeriod < 0 {
		err = multierr.Append(err, fmt.Errorf("exec.grace_period must not be negative"))
	}
	if c.Cluster.Binary == "" {
		err = multierr.Append(err, fmt.Errorf("cluster.binary is required"))
	}
	if c.Cluster.FSType == "" {
		err = multierr.Append(err, fmt.Errorf("cluster.fstype is required"))
	}
	if c.Privilege.Enabled && c.Privilege.Wrapper == "" {
		err = multierr.Append(err, fmt.Errorf("privilege.wrapper is required when privilege is enabled"))
	}
	if _, perr := strconv.ParseUint(c.Defaults.BrickMode, 8, 32); perr != nil {
		err = multierr.Append(err, fmt.Errorf("defaults.brick_mode %q is not an octal mode", c.Defaults.BrickMode))
	}

	return err
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
