// Package mount handles the client side of a volume: mounting it, unmounting
// it with the protected-path guard, and preparing brick directories.
package mount

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"glusterctl/pkg/console"
	gerrors "glusterctl/pkg/errors"
	"glusterctl/pkg/executor"
	"glusterctl/pkg/operation"
	"glusterctl/pkg/parser"
	"glusterctl/pkg/types"

	"go.uber.org/zap"
	mountutils "k8s.io/mount-utils"
)

type Options struct {
	FSType string
	// Users and FS default to the OS implementations.
	Users UserLookup
	FS    Filesystem
	// Parser defaults to the text parser.
	Parser parser.Parser
	// DefaultMountPoint and DefaultBrickPath prefill the interactive prompts.
	DefaultMountPoint string
	DefaultBrickPath  string
	BrickMode         string
}

type Manager struct {
	ops     *operation.Runner
	mounter mountutils.Interface
	out     console.Reporter
	logger  *zap.Logger
	opts    Options
}

func New(ops *operation.Runner, mounter mountutils.Interface, opts Options) *Manager {
	if mounter == nil {
		mounter = mountutils.New("")
	}
	if opts.FSType == "" {
		opts.FSType = "glusterfs"
	}
	if opts.Users == nil {
		opts.Users = SystemUsers()
	}
	if opts.FS == nil {
		opts.FS = SystemFilesystem()
	}
	if opts.Parser == nil {
		opts.Parser = parser.New()
	}
	if opts.BrickMode == "" {
		opts.BrickMode = "775"
	}
	return &Manager{
		ops:     ops,
		mounter: mounter,
		out:     ops.Reporter(),
		logger:  ops.Logger(),
		opts:    opts,
	}
}

type MountRequest struct {
	Server string
	// Volume is the volume name or export path on Server.
	Volume string
	Target string
	// Owner, when set, is chowned onto Target after a successful mount.
	Owner string
}

// Source is the server:volume spec passed to mount.
func (r MountRequest) Source() string {
	return r.Server + ":" + r.Volume
}

func absTarget(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", gerrors.New(gerrors.KindInvalidInput, "a target directory is required")
	}
	if !filepath.IsAbs(path) {
		return "", gerrors.New(gerrors.KindInvalidInput, "target %q must be an absolute path", path)
	}
	return filepath.Clean(path), nil
}

func privileged(program string, args ...string) executor.Command {
	return executor.Command{Program: program, Args: args, Privileged: true}
}

// ensureDir creates path, falling back to a privileged mkdir when the
// operator cannot write the parent.
func (m *Manager) ensureDir(ctx context.Context, path string) error {
	err := m.opts.FS.MkdirAll(path, 0o755)
	if err == nil {
		return nil
	}
	if !os.IsPermission(err) {
		return gerrors.Wrap(gerrors.KindExecution, err, "could not create %s", path)
	}
	m.logger.Debug("Creating directory with privilege", zap.String("path", path))
	o := m.ops.Run(ctx, operation.Operation{
		Name:    "create directory",
		Success: fmt.Sprintf("Directory %s created", path),
		Failure: fmt.Sprintf("Could not create %s", path),
	}, privileged("mkdir", "-p", path))
	return o.Err
}

func (m *Manager) removeDir(ctx context.Context, path string) error {
	err := m.opts.FS.RemoveAll(path)
	if err == nil {
		m.out.Success("Directory %s deleted", path)
		return nil
	}
	if !os.IsPermission(err) {
		m.out.Error("Could not delete %s: %v", path, err)
		return gerrors.Wrap(gerrors.KindExecution, err, "could not delete %s", path)
	}
	o := m.ops.Run(ctx, operation.Operation{
		Name:    "delete directory",
		Success: fmt.Sprintf("Directory %s deleted", path),
		Failure: fmt.Sprintf("Could not delete %s", path),
	}, privileged("rm", "-rf", "--", path))
	return o.Err
}

// Mount mounts Server:Volume on Target with the cluster's filesystem type,
// creating Target first. A requested owner is resolved before anything runs;
// one that does not exist stops the flow with UnknownUser.
func (m *Manager) Mount(ctx context.Context, req MountRequest) types.Outcome {
	target, err := absTarget(req.Target)
	if err != nil {
		return m.reject("mount rejected", err)
	}
	req.Server = strings.TrimSpace(req.Server)
	req.Volume = strings.TrimSpace(req.Volume)
	if req.Server == "" || req.Volume == "" {
		return m.reject("mount rejected", gerrors.New(gerrors.KindInvalidInput, "server and volume are required"))
	}

	var owner *Account
	if name := strings.TrimSpace(req.Owner); name != "" {
		acct, err := m.opts.Users.Lookup(name)
		if err != nil {
			return m.reject("mount rejected", err)
		}
		owner = &acct
	}

	o := m.ops.Execute(ctx, operation.Operation{
		Name: "mount volume",
		Precheck: func(ctx context.Context) error {
			if err := m.ensureDir(ctx, target); err != nil {
				return err
			}
			notMnt, err := m.mounter.IsLikelyNotMountPoint(target)
			if err != nil {
				m.logger.Debug("Mount point check failed", zap.String("target", target), zap.Error(err))
				return nil
			}
			if !notMnt {
				return gerrors.New(gerrors.KindInvalidInput, "%s is already a mount point", target)
			}
			return nil
		},
		Build: func() (executor.Command, error) {
			return privileged("mount", "-t", m.opts.FSType, req.Source(), target), nil
		},
		Success: fmt.Sprintf("Volume mounted at %s", target),
		Failure: "Could not mount the volume. Check that the target exists and the volume is started",
	})
	if !o.OK() || owner == nil {
		return o
	}

	if err := m.chown(ctx, target, *owner); err != nil {
		return types.Partial(fmt.Sprintf("mounted at %s but ownership was not changed", target), err)
	}
	return types.Succeeded(fmt.Sprintf("mounted %s at %s owned by %s", req.Source(), target, owner.Name))
}

func (m *Manager) chown(ctx context.Context, path string, acct Account) error {
	o := m.ops.Run(ctx, operation.Operation{
		Name:    "change owner",
		Success: fmt.Sprintf("Ownership of %s assigned to %s", path, acct.Owner()),
		Failure: fmt.Sprintf("Could not change ownership of %s", path),
	}, privileged("chown", acct.Owner(), path))
	return o.Err
}

// CheckRemovable returns a ProtectedPath error for system directories.
func CheckRemovable(path string) error {
	if types.ProtectedPaths.Contains(path) {
		return gerrors.New(gerrors.KindProtectedPath, "%s is a protected system path and will not be deleted", filepath.Clean(path)).
			WithDetail("path", filepath.Clean(path))
	}
	return nil
}

// Unmount unmounts target and then offers to delete it. Protected paths are
// never offered; anything else needs an explicit yes.
func (m *Manager) Unmount(ctx context.Context, target string) types.Outcome {
	target, err := absTarget(target)
	if err != nil {
		return m.reject("unmount rejected", err)
	}

	if notMnt, err := m.mounter.IsLikelyNotMountPoint(target); err == nil && notMnt {
		m.out.Warn("%s does not look like a mount point", target)
	}

	o := m.ops.Execute(ctx, operation.Operation{
		Name:    "unmount",
		Build:   func() (executor.Command, error) { return privileged("umount", target), nil },
		Success: fmt.Sprintf("%s unmounted", target),
		Failure: fmt.Sprintf("Could not unmount %s", target),
	})
	if !o.OK() {
		return o
	}

	if err := CheckRemovable(target); err != nil {
		m.out.Info("%v", err)
		return o
	}
	if !m.ops.Ask(fmt.Sprintf("Delete the directory %s and everything in it?", target), false) {
		m.out.Info("Keeping %s", target)
		return o
	}
	if err := m.removeDir(ctx, target); err != nil {
		return types.Partial(fmt.Sprintf("%s unmounted but not deleted", target), err)
	}
	return types.Succeeded(fmt.Sprintf("%s unmounted and deleted", target))
}

// ListActiveMounts reads the live mount table. A nil filter keeps mounts of
// the cluster's filesystem type.
func (m *Manager) ListActiveMounts(ctx context.Context, filter parser.Filter) []types.MountEntry {
	if filter == nil {
		filter = parser.FSTypeFilter(m.opts.FSType)
	}
	cmd := executor.Command{Program: "mount"}
	res, err := m.ops.Executor().Run(ctx, cmd)
	if err != nil {
		m.logger.Warn("Mount table unavailable", zap.Error(err))
		m.out.Warn("could not read the mount table: %v", err)
		return nil
	}
	if !res.Succeeded {
		m.out.Warn("mount failed, no data available: %s", executor.FailureText(res))
		return nil
	}
	return m.opts.Parser.MountTable(res.Stdout, filter)
}

// ShowMounts prints the active cluster mounts as a table.
func (m *Manager) ShowMounts(ctx context.Context) []types.MountEntry {
	entries := m.ListActiveMounts(ctx, nil)
	if len(entries) == 0 {
		m.out.Info("No %s volumes mounted", m.opts.FSType)
		return nil
	}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Source, e.Target, e.FSType}
	}
	m.out.Table("MOUNTS", []string{"SOURCE", "TARGET", "TYPE"}, rows)
	return entries
}

// PrepareBrickDir creates a brick directory and hands it to owner with mode.
// An empty owner means the current user. The chmod still runs when chown
// failed.
func (m *Manager) PrepareBrickDir(ctx context.Context, path, owner, mode string) types.Outcome {
	path, err := absTarget(path)
	if err != nil {
		return m.reject("brick preparation rejected", err)
	}
	if mode == "" {
		mode = m.opts.BrickMode
	}
	if _, err := strconv.ParseUint(mode, 8, 32); err != nil {
		return m.reject("brick preparation rejected", gerrors.New(gerrors.KindInvalidInput, "mode %q is not an octal permission", mode))
	}

	var acct Account
	if owner = strings.TrimSpace(owner); owner == "" {
		acct, err = m.opts.Users.Current()
	} else {
		acct, err = m.opts.Users.Lookup(owner)
	}
	if err != nil {
		return m.reject("brick preparation rejected", err)
	}

	if err := m.ensureDir(ctx, path); err != nil {
		m.out.Error("%v", err)
		return types.Failed(fmt.Sprintf("could not create %s", path), err)
	}
	m.out.Success("Directory ready: %s", path)

	m.out.Info("Assigning %s to %s", path, acct.Owner())
	chowned := m.ops.Run(ctx, operation.Operation{
		Name:    "change owner",
		Success: "Ownership assigned",
		Failure: "Could not change ownership. Run the chown manually with sudo if needed",
	}, privileged("chown", acct.Owner(), path))
	chmoded := m.ops.Run(ctx, operation.Operation{
		Name:    "change mode",
		Success: fmt.Sprintf("Permissions set to %s", mode),
		Failure: fmt.Sprintf("Could not set permissions to %s", mode),
	}, privileged("chmod", mode, path))

	switch {
	case chowned.OK() && chmoded.OK():
		return types.Succeeded(fmt.Sprintf("brick directory %s prepared", path))
	case !chowned.OK():
		return types.Partial(fmt.Sprintf("%s created but ownership not assigned", path), chowned.Err)
	default:
		return types.Partial(fmt.Sprintf("%s created but mode not set", path), chmoded.Err)
	}
}

func (m *Manager) reject(msg string, err error) types.Outcome {
	m.out.Error("%v", err)
	m.logger.Debug("Request rejected", zap.String("reason", msg), zap.Error(err))
	return types.Failed(msg, err)
}
