// Package parser turns the human-readable output of the cluster CLI and the
// OS mount tool into typed records.
//
// Every function is pure and total: unexpected input yields empty or partial
// results, never an error. The Parser interface is the seam to replace if the
// cluster ever exposes a structured management API.
package parser

import (
	"regexp"
	"strings"

	"glusterctl/pkg/types"
)

// Filter selects mount-table lines.
type Filter func(line string) bool

type Parser interface {
	Peers(text string) []types.Peer
	VolumeNames(text string) []string
	Bricks(text string) []string
	MountTable(text string, filter Filter) []types.MountEntry
	OptionValue(text, option string) (string, bool)
}

// TextParser reads the CLI's text output.
type TextParser struct{}

func New() TextParser { return TextParser{} }

func (TextParser) Peers(text string) []types.Peer                 { return ParsePeers(text) }
func (TextParser) VolumeNames(text string) []string               { return ParseVolumeNames(text) }
func (TextParser) Bricks(text string) []string                    { return ParseBricks(text) }
func (TextParser) OptionValue(text, option string) (string, bool) { return ParseOptionValue(text, option) }
func (TextParser) MountTable(text string, filter Filter) []types.MountEntry {
	return ParseMountTable(text, filter)
}

var brickLine = regexp.MustCompile(`^Brick(\d+):\s*(\S+)`)

// lines splits text on newlines with no limit on line length. A trailing
// carriage return is dropped from each line.
func lines(text string) []string {
	out := strings.Split(text, "\n")
	for i, l := range out {
		out[i] = strings.TrimSuffix(l, "\r")
	}
	return out
}

// labelled returns the trimmed values of every "label: value" line.
func labelled(text, label string) []string {
	prefix := label + ":"
	var values []string
	for _, line := range lines(text) {
		line = strings.TrimLeft(line, " \t")
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		if v := strings.TrimSpace(strings.TrimPrefix(line, prefix)); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// ParsePeers extracts every "Hostname: <value>" line of peer-status output.
func ParsePeers(text string) []types.Peer {
	var peers []types.Peer
	for _, h := range labelled(text, "Hostname") {
		peers = append(peers, types.Peer{Hostname: h})
	}
	return peers
}

// ParseVolumeNames extracts every "Volume Name: <value>" line.
func ParseVolumeNames(text string) []string {
	return labelled(text, "Volume Name")
}

// ParseVolumeList reads `volume list` output, one name per line.
func ParseVolumeList(text string) []string {
	var names []string
	for _, line := range lines(text) {
		line = strings.TrimSpace(line)
		if line == "" || strings.EqualFold(line, "No volumes present in cluster") {
			continue
		}
		if strings.ContainsAny(line, " \t") {
			continue
		}
		names = append(names, line)
	}
	return names
}

// ParseBricks returns the host:path token of every "Brick<N>: host:path" line,
// in the order the cluster printed them. Trailing annotations such as
// "(arbiter)" are dropped.
func ParseBricks(text string) []string {
	var bricks []string
	for _, line := range lines(text) {
		m := brickLine.FindStringSubmatch(strings.TrimLeft(line, " \t"))
		if m == nil {
			continue
		}
		bricks = append(bricks, m[2])
	}
	return bricks
}

// ParseVolumes splits `volume info` output into volumes, attaching each
// brick to the volume header that precedes it.
func ParseVolumes(text string) []types.Volume {
	var vols []types.Volume
	for _, line := range lines(text) {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "Volume Name:") {
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, "Volume Name:"))
			if name != "" {
				vols = append(vols, types.Volume{Name: name})
			}
			continue
		}
		if len(vols) == 0 {
			continue
		}
		if m := brickLine.FindStringSubmatch(trimmed); m != nil {
			v := &vols[len(vols)-1]
			v.Bricks = append(v.Bricks, types.SplitBrick(m[2]))
		}
	}
	return vols
}

// ParseMountTable reads `mount` output. Field 1 is the source, field 3 the
// target; any further fields are ignored except a "type <fstype>" pair.
// Lines with fewer than three fields are dropped.
func ParseMountTable(text string, filter Filter) []types.MountEntry {
	var entries []types.MountEntry
	for _, line := range lines(text) {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		if filter != nil && !filter(line) {
			continue
		}
		e := types.MountEntry{Source: fields[0], Target: fields[2]}
		if len(fields) >= 5 && fields[3] == "type" {
			e.FSType = fields[4]
		}
		entries = append(entries, e)
	}
	return entries
}

// ParseOptionValue reads `volume get <vol> <option>` output, a two-column
// "Option Value" table, and returns the value for option.
func ParseOptionValue(text, option string) (string, bool) {
	for _, line := range lines(text) {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == option {
			return fields[1], true
		}
	}
	return "", false
}

// FSTypeFilter keeps lines whose "type" field contains the filesystem type
// tag, so fuse.glusterfs matches glusterfs. Lines without a type field are
// matched on the tag appearing anywhere.
func FSTypeFilter(fstype string) Filter {
	return func(line string) bool {
		fields := strings.Fields(line)
		if len(fields) >= 5 && fields[3] == "type" {
			return strings.Contains(fields[4], fstype)
		}
		return strings.Contains(line, fstype)
	}
}

// PrefixFilter keeps lines whose target begins with prefix.
func PrefixFilter(prefix string) Filter {
	return func(line string) bool {
		fields := strings.Fields(line)
		return len(fields) >= 3 && strings.HasPrefix(fields[2], prefix)
	}
}
