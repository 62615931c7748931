// Package hosts reads and extends a hosts(5) file so cluster nodes can
// resolve each other by name.
package hosts

import (
	"bufio"
	"net"
	"os"
	"strings"

	gerrors "glusterctl/pkg/errors"

	"github.com/pkg/errors"
)

type Entry struct {
	IP       string
	Hostname string
}

// String is the line written to the file.
func (e Entry) String() string {
	return e.IP + " " + e.Hostname
}

// ParseEntry validates an operator-entered address and name.
func ParseEntry(ip, hostname string) (Entry, error) {
	ip, hostname = strings.TrimSpace(ip), strings.TrimSpace(hostname)
	if net.ParseIP(ip) == nil {
		return Entry{}, gerrors.New(gerrors.KindInvalidInput, "%q is not an IP address", ip)
	}
	if hostname == "" || strings.ContainsAny(hostname, " \t#") {
		return Entry{}, gerrors.New(gerrors.KindInvalidInput, "%q is not a valid host name", hostname)
	}
	return Entry{IP: ip, Hostname: hostname}, nil
}

type File struct {
	Path string
}

func NewFile(path string) *File {
	if path == "" {
		path = "/etc/hosts"
	}
	return &File{Path: path}
}

// Lines returns the file's lines as they are.
func (f *File) Lines() ([]string, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", f.Path)
	}
	defer fh.Close()

	var lines []string
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", f.Path)
	}
	return lines, nil
}

// Entries returns the address lines, skipping comments and blanks. A line
// with several names yields one entry per name.
func (f *File) Entries() ([]Entry, error) {
	lines, err := f.Lines()
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, line := range lines {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		for _, name := range fields[1:] {
			entries = append(entries, Entry{IP: fields[0], Hostname: name})
		}
	}
	return entries, nil
}

// Contains reports whether a line equal to the entry, ignoring surrounding
// whitespace, is already present.
func (f *File) Contains(e Entry) (bool, error) {
	lines, err := f.Lines()
	if err != nil {
		return false, err
	}
	want := e.String()
	for _, line := range lines {
		if strings.TrimSpace(line) == want {
			return true, nil
		}
	}
	return false, nil
}

// Append adds the entry as a new line at the end of the file.
func (f *File) Append(e Entry) error {
	fh, err := os.OpenFile(f.Path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s for writing", f.Path)
	}
	defer fh.Close()

	if needsNewline(f.Path) {
		if _, err := fh.WriteString("\n"); err != nil {
			return errors.Wrapf(err, "failed to write %s", f.Path)
		}
	}
	if _, err := fh.WriteString(e.String() + "\n"); err != nil {
		return errors.Wrapf(err, "failed to write %s", f.Path)
	}
	return nil
}

func needsNewline(path string) bool {
	data, err := os.ReadFile(path)
	return err == nil && len(data) > 0 && data[len(data)-1] != '\n'
}
