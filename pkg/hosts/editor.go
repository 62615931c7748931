package hosts

import (
	"fmt"

	"glusterctl/pkg/console"
	"glusterctl/pkg/prompt"
	"glusterctl/pkg/types"

	"go.uber.org/zap"
)

// Editor is the interactive front of a hosts file.
type Editor struct {
	file   *File
	prompt prompt.Prompter
	out    console.Reporter
	logger *zap.Logger
}

func NewEditor(file *File, p prompt.Prompter, out console.Reporter, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{file: file, prompt: p, out: out, logger: logger}
}

// Show prints the current entries.
func (e *Editor) Show() error {
	entries, err := e.file.Entries()
	if err != nil {
		e.out.Error("Could not read %s: %v", e.file.Path, err)
		return err
	}
	rows := make([][]string, len(entries))
	for i, en := range entries {
		rows[i] = []string{en.IP, en.Hostname}
	}
	e.out.Table(e.file.Path, []string{"ADDRESS", "HOSTNAME"}, rows)
	return nil
}

// Add appends one entry unless an identical line already exists.
func (e *Editor) Add(entry Entry) types.Outcome {
	exists, err := e.file.Contains(entry)
	if err != nil {
		e.out.Error("%v", err)
		return types.Failed("could not read hosts file", err)
	}
	if exists {
		e.out.Warn("%q is already present", entry.String())
		return types.Aborted("entry already present")
	}
	if err := e.file.Append(entry); err != nil {
		e.logger.Error("Hosts file not updated", zap.String("path", e.file.Path), zap.Error(err))
		e.out.Error("%v. Run with sudo if the file is not writable", err)
		return types.Failed("could not update hosts file", err)
	}
	e.out.Success("Added %q to %s", entry.String(), e.file.Path)
	return types.Succeeded(fmt.Sprintf("added %s", entry))
}

// Run shows the file and adds entries until the operator stops.
func (e *Editor) Run() types.Outcome {
	last := types.Aborted("no entry added")
	e.out.Title("📄 Edit %s", e.file.Path)
	if err := e.Show(); err != nil {
		return types.Failed("could not read hosts file", err)
	}

	for {
		ip, err := e.prompt.Input("Node IP address", "")
		if err != nil {
			return last
		}
		name, err := e.prompt.Input("Node name (e.g. vm1)", "")
		if err != nil {
			return last
		}

		entry, err := ParseEntry(ip, name)
		if err != nil {
			e.out.Warn("%v", err)
		} else if yes, err := e.prompt.Confirm(fmt.Sprintf("Add %q to the file?", entry.String()), true); err != nil {
			return last
		} else if yes {
			last = e.Add(entry)
		}

		again, err := e.prompt.Confirm("Add another entry?", false)
		if err != nil || !again {
			return last
		}
	}
}
