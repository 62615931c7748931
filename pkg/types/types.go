package types

import (
	"path/filepath"
	"strings"

	gerrors "glusterctl/pkg/errors"
)

type Peer struct {
	Hostname string
}

// Brick is a storage directory on a host, written externally as "host:path".
type Brick struct {
	Host string
	Path string
}

func (b Brick) String() string {
	return b.Host + ":" + b.Path
}

// ParseBrick validates a user-supplied brick spec. The spec must contain both
// ':' and '/', name a host and carry an absolute path.
func ParseBrick(spec string) (Brick, error) {
	spec = strings.TrimSpace(spec)
	if !strings.Contains(spec, ":") || !strings.Contains(spec, "/") {
		return Brick{}, gerrors.New(gerrors.KindMalformedBrickSpec,
			"invalid brick %q (expected host:/path/to/brick)", spec)
	}

	host, path, _ := strings.Cut(spec, ":")
	if host == "" {
		return Brick{}, gerrors.New(gerrors.KindMalformedBrickSpec, "brick %q has no host", spec)
	}
	if !strings.HasPrefix(path, "/") {
		return Brick{}, gerrors.New(gerrors.KindMalformedBrickSpec, "brick %q path must be absolute", spec)
	}

	return Brick{Host: host, Path: path}, nil
}

// SplitBrick splits a brick token reported by the cluster without validating
// it. Bricks of existing volumes were validated when the volume was created.
func SplitBrick(token string) Brick {
	host, path, found := strings.Cut(strings.TrimSpace(token), ":")
	if !found {
		return Brick{Path: host}
	}
	return Brick{Host: host, Path: path}
}

// Volume keeps bricks in the cluster's own Brick1..BrickN order.
type Volume struct {
	Name   string
	Bricks []Brick
}

// MountEntry is one row of the OS mount table.
type MountEntry struct {
	Source string
	FSType string
	Target string
}

// ReplicationSpec is attached to a volume creation request only for
// replicated volumes.
type ReplicationSpec struct {
	ReplicaCount int
}

type ProtectedPathSet map[string]struct{}

// ProtectedPaths are never recursively deleted, even after a clean unmount.
var ProtectedPaths = NewProtectedPathSet(
	"/", "/boot", "/home", "/etc", "/usr", "/var",
	"/bin", "/sbin", "/lib", "/lib64", "/mnt",
)

func NewProtectedPathSet(paths ...string) ProtectedPathSet {
	s := make(ProtectedPathSet, len(paths))
	for _, p := range paths {
		s[filepath.Clean(p)] = struct{}{}
	}
	return s
}

// Contains compares cleaned paths, so "/home/" and "/home" are the same entry.
func (s ProtectedPathSet) Contains(path string) bool {
	if path == "" {
		return false
	}
	_, ok := s[filepath.Clean(path)]
	return ok
}
