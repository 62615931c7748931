package parser

import (
	"strings"
	"testing"

	"glusterctl/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peerStatus = `Number of Peers: 2

Hostname: vm2
Uuid: 6a8e6f2e-6c0b-4a8a-9a5e-1f3f7c0b2a11
State: Peer in Cluster (Connected)

   Hostname: vm3
Uuid: 0b3c1d7a-2c4e-4f0e-8e52-3e9d1b7c6f22
State: Peer in Cluster (Disconnected)
Other names:
vm3.lan
`

const volumeInfo = `
Volume Name: vol-a
Type: Replicate
Volume ID: 3f0a6c1e-9a1b-4c53-9b59-0f4cbd12e0a1
Status: Started
Number of Bricks: 1 x 3 = 3
Transport-type: tcp
Bricks:
Brick1: vm1:/gluster/brick1
Brick2: vm2:/gluster/brick1
Brick3: vm3:/gluster/brick1 (arbiter)
Options Reconfigured:
cluster.granular-entry-heal: on

Volume Name: vol-b
Type: Distribute
Bricks:
Brick1: vm1:/gluster/brick2
`

func TestParsePeers(t *testing.T) {
	peers := ParsePeers(peerStatus)
	assert.Equal(t, []types.Peer{{Hostname: "vm2"}, {Hostname: "vm3"}}, peers)
}

func TestParsePeersNoPeers(t *testing.T) {
	assert.Empty(t, ParsePeers("Number of Peers: 0\n"))
	assert.Empty(t, ParsePeers(""))
	assert.Empty(t, ParsePeers("Hostname:\n"))
}

func TestParseVolumeNames(t *testing.T) {
	names := ParseVolumeNames("Volume Name: vol-a\n...\nVolume Name: vol-b\n")
	assert.Equal(t, []string{"vol-a", "vol-b"}, names)
	assert.Equal(t, []string{"vol-a", "vol-b"}, ParseVolumeNames(volumeInfo))
}

func TestParseVolumeList(t *testing.T) {
	assert.Equal(t, []string{"gv0", "gv1"}, ParseVolumeList("gv0\ngv1\n"))
	assert.Empty(t, ParseVolumeList("No volumes present in cluster\n"))
}

func TestParseBricksPreservesOrder(t *testing.T) {
	bricks := ParseBricks(volumeInfo)
	assert.Equal(t, []string{
		"vm1:/gluster/brick1",
		"vm2:/gluster/brick1",
		"vm3:/gluster/brick1",
		"vm1:/gluster/brick2",
	}, bricks)
}

func TestParseBricksIgnoresInterleavedLines(t *testing.T) {
	text := "Brick1: a:/b1\nStatus: Started\nBricks:\nnoise Brick9: x:/y\n  Brick2: b:/b2\nNumber of Bricks: 2\nBrick3: c:/b3\n"
	assert.Equal(t, []string{"a:/b1", "b:/b2", "c:/b3"}, ParseBricks(text))
}

func TestParseVolumes(t *testing.T) {
	vols := ParseVolumes(volumeInfo)
	require.Len(t, vols, 2)
	assert.Equal(t, "vol-a", vols[0].Name)
	assert.Equal(t, []types.Brick{
		{Host: "vm1", Path: "/gluster/brick1"},
		{Host: "vm2", Path: "/gluster/brick1"},
		{Host: "vm3", Path: "/gluster/brick1"},
	}, vols[0].Bricks)
	assert.Equal(t, []types.Brick{{Host: "vm1", Path: "/gluster/brick2"}}, vols[1].Bricks)
}

func TestParseMountTable(t *testing.T) {
	text := `sysfs on /sys type sysfs (rw,nosuid,nodev,noexec,relatime)
vm1:/gv0 on /mnt/gluster_vol type fuse.glusterfs (rw,relatime,user_id=0,group_id=0,default_permissions,allow_other,max_read=131072)
/dev/sda1 on /boot type ext4 (rw,relatime)
short line
vm2:/gv1 on /media/foo
/dev/sdb on /data/glusterfs type xfs (rw,relatime)
`

	all := ParseMountTable(text, nil)
	require.Len(t, all, 5)
	assert.Equal(t, types.MountEntry{Source: "sysfs", FSType: "sysfs", Target: "/sys"}, all[0])
	assert.Equal(t, types.MountEntry{Source: "vm2:/gv1", Target: "/media/foo"}, all[3])

	gluster := ParseMountTable(text, FSTypeFilter("glusterfs"))
	assert.Equal(t, []types.MountEntry{
		{Source: "vm1:/gv0", FSType: "fuse.glusterfs", Target: "/mnt/gluster_vol"},
	}, gluster)

	media := ParseMountTable(text, PrefixFilter("/media"))
	assert.Equal(t, []types.MountEntry{{Source: "vm2:/gv1", Target: "/media/foo"}}, media)
}

func TestFSTypeFilter(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"vm1:/gv0 on /mnt/gv0 type fuse.glusterfs (rw)", true},
		{"vm1:/gv0 on /mnt/gv0 type glusterfs (rw)", true},
		{"/dev/sdb on /data/glusterfs type xfs (rw,relatime)", false},
		{"glusterfs-server:/gv0 on /mnt/x type nfs4 (rw)", false},
		{"vm1:/gv0 /mnt/glusterfs", true},
		{"/dev/sda1 /boot", false},
	}

	keep := FSTypeFilter("glusterfs")
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, keep(tt.line))
		})
	}
}

func TestLinesHaveNoLengthLimit(t *testing.T) {
	long := strings.Repeat("x", 2*1024*1024)
	text := "Hostname: vm2\r\n" + long + "\nHostname: vm3\n"

	assert.Equal(t, []types.Peer{{Hostname: "vm2"}, {Hostname: "vm3"}}, ParsePeers(text))
}

func TestParseMountTableFieldPositions(t *testing.T) {
	tests := []struct {
		line   string
		source string
		target string
	}{
		{"a b c", "a", "c"},
		{"a b c d", "a", "c"},
		{"a\tb   c type x (opts) trailing more", "a", "c"},
		{"  src on /t", "src", "/t"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			entries := ParseMountTable(tt.line, nil)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.source, entries[0].Source)
			assert.Equal(t, tt.target, entries[0].Target)
		})
	}
}

func TestParseOptionValue(t *testing.T) {
	out := `Option                                  Value
------                                  -----
cluster.force-migration                 on
`
	v, ok := ParseOptionValue(out, "cluster.force-migration")
	assert.True(t, ok)
	assert.Equal(t, "on", v)

	_, ok = ParseOptionValue("volume get: gv9: failed: Volume gv9 does not exist\n", "cluster.force-migration")
	assert.False(t, ok)
}

func TestParsingIsIdempotent(t *testing.T) {
	p := New()
	assert.Equal(t, p.Bricks(volumeInfo), p.Bricks(volumeInfo))
	assert.Equal(t, p.Peers(peerStatus), p.Peers(peerStatus))
	assert.Equal(t, p.VolumeNames(volumeInfo), p.VolumeNames(volumeInfo))
	table := "a on /x type glusterfs (rw)\n"
	assert.Equal(t, p.MountTable(table, nil), p.MountTable(table, nil))
}
