package orchestrator

import (
	"fmt"
	"strconv"

	"glusterctl/pkg/config"
	gerrors "glusterctl/pkg/errors"
	"glusterctl/pkg/types"
)

// RemovePhase is a step of the remove-brick migration protocol.
type RemovePhase string

const (
	PhaseStart  RemovePhase = "start"
	PhaseStatus RemovePhase = "status"
	PhaseCommit RemovePhase = "commit"
)

// BuildCreateArgs returns
// volume create <name> [replica <N>] <brick>... force.
// force is always appended: the controller has done its own brick checks.
func BuildCreateArgs(name string, rep *types.ReplicationSpec, bricks []types.Brick) []string {
	args := []string{"volume", "create", name}
	if rep != nil {
		args = append(args, "replica", strconv.Itoa(rep.ReplicaCount))
	}
	for _, b := range bricks {
		args = append(args, b.String())
	}
	return append(args, "force")
}

func BuildAddBrickArgs(volume string, bricks []types.Brick) []string {
	args := []string{"volume", "add-brick", volume}
	for _, b := range bricks {
		args = append(args, b.String())
	}
	return append(args, "force")
}

func BuildRemoveBrickArgs(volume string, brick types.Brick, phase RemovePhase) []string {
	return []string{"volume", "remove-brick", volume, brick.String(), string(phase)}
}

// CommitCommand is the argument vector the operator runs by hand once data
// migration off brick has completed. The console never issues it.
func CommitCommand(volume string, brick types.Brick) []string {
	return BuildRemoveBrickArgs(volume, brick, PhaseCommit)
}

// Policy holds the replica guard settings.
type Policy struct {
	MinReplicaBricks     config.ReplicaPolicy
	ExactReplicaMultiple bool
}

// CheckReplica returns an InsufficientBricks error when n bricks cannot
// satisfy rep. It ignores the policy mode; callers decide what to do with it.
func (p Policy) CheckReplica(rep *types.ReplicationSpec, n int) error {
	if rep == nil {
		return nil
	}
	if n < rep.ReplicaCount {
		return gerrors.New(gerrors.KindInsufficientBricks,
			"replica %d needs at least %d bricks, got %d", rep.ReplicaCount, rep.ReplicaCount, n).
			WithDetail("replica", rep.ReplicaCount).
			WithDetail("bricks", n)
	}
	if p.ExactReplicaMultiple && n%rep.ReplicaCount != 0 {
		return gerrors.New(gerrors.KindInsufficientBricks,
			"replica %d needs a multiple of %d bricks, got %d", rep.ReplicaCount, rep.ReplicaCount, n).
			WithDetail("replica", rep.ReplicaCount).
			WithDetail("bricks", n)
	}
	return nil
}

// ParseReplicaCount validates an operator-entered replica count.
func ParseReplicaCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 2 {
		return 0, gerrors.New(gerrors.KindInvalidInput, "replica count must be a whole number of at least 2, got %q", s)
	}
	return n, nil
}

func brickList(bricks []types.Brick) string {
	s := ""
	for i, b := range bricks {
		if i > 0 {
			s += ", "
		}
		s += b.String()
	}
	return s
}

func brickLabels(bricks []types.Brick) []string {
	labels := make([]string, len(bricks))
	for i, b := range bricks {
		labels[i] = fmt.Sprintf("Brick%d: %s", i+1, b)
	}
	return labels
}
