package mount

import (
	"context"
	"strings"

	"glusterctl/pkg/types"
)

func (m *Manager) askRequired(label, def string) (string, error) {
	for {
		v, err := m.ops.Prompter().Input(label, def)
		if err != nil {
			return "", err
		}
		if v = strings.TrimSpace(v); v != "" {
			return v, nil
		}
		m.out.Warn("a value is required")
	}
}

// MountInteractive asks for the volume, server, target and optional owner.
func (m *Manager) MountInteractive(ctx context.Context) types.Outcome {
	m.out.Title("📌 Mount volume")

	p := m.ops.Prompter()
	volume, err := m.askRequired("Volume name to mount", "")
	if err != nil {
		return types.Aborted("mount cancelled")
	}
	server, err := m.askRequired("Hostname or IP of the node serving the volume", "")
	if err != nil {
		return types.Aborted("mount cancelled")
	}
	target, err := m.askRequired("Target directory", m.opts.DefaultMountPoint)
	if err != nil {
		return types.Aborted("mount cancelled")
	}
	owner, err := p.Input("Owner of the mount point (empty to leave as is)", "")
	if err != nil {
		return types.Aborted("mount cancelled")
	}

	return m.Mount(ctx, MountRequest{Server: server, Volume: volume, Target: target, Owner: owner})
}

// ManageMounts lists the active cluster mounts and unmounts the chosen one.
func (m *Manager) ManageMounts(ctx context.Context) types.Outcome {
	m.out.Title("🔌 Manage mounts")

	entries := m.ShowMounts(ctx)
	if len(entries) == 0 {
		return types.Aborted("nothing mounted")
	}

	options := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		options = append(options, e.Target)
	}
	options = append(options, "Back")

	i, err := m.ops.Prompter().Select("Mount to unmount", options, len(options)-1)
	if err != nil || i == len(entries) {
		return types.Aborted("no mount selected")
	}
	return m.Unmount(ctx, entries[i].Target)
}

// PrepareBricksInteractive prepares brick directories until the operator
// declines another one.
func (m *Manager) PrepareBricksInteractive(ctx context.Context) types.Outcome {
	last := types.Aborted("no brick directory prepared")
	for {
		m.out.Title("🧱 Brick directory")
		path, err := m.askRequired("Brick path", m.opts.DefaultBrickPath)
		if err != nil {
			return last
		}
		last = m.PrepareBrickDir(ctx, path, "", m.opts.BrickMode)

		if !m.ops.Ask("Prepare another brick directory?", false) {
			return last
		}
	}
}
