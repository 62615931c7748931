package console

import (
	"fmt"
	"strings"
)

type Level string

const (
	LevelTitle   Level = "title"
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
	LevelCommand Level = "command"
	LevelOutput  Level = "output"
	LevelTable   Level = "table"
)

type Entry struct {
	Level Level
	Text  string
}

// Memory records every line it is given. Tests use it to assert on what the
// operator was told.
type Memory struct {
	Entries []Entry
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) add(level Level, format string, args ...interface{}) {
	m.Entries = append(m.Entries, Entry{Level: level, Text: fmt.Sprintf(format, args...)})
}

func (m *Memory) Title(format string, args ...interface{})   { m.add(LevelTitle, format, args...) }
func (m *Memory) Info(format string, args ...interface{})    { m.add(LevelInfo, format, args...) }
func (m *Memory) Success(format string, args ...interface{}) { m.add(LevelSuccess, format, args...) }
func (m *Memory) Warn(format string, args ...interface{})    { m.add(LevelWarn, format, args...) }
func (m *Memory) Error(format string, args ...interface{})   { m.add(LevelError, format, args...) }
func (m *Memory) Command(line string)                        { m.add(LevelCommand, "%s", line) }
func (m *Memory) Output(text string)                         { m.add(LevelOutput, "%s", text) }

func (m *Memory) Table(title string, headers []string, rows [][]string) {
	var b strings.Builder
	b.WriteString(title)
	for _, r := range rows {
		b.WriteString("\n" + strings.Join(r, " "))
	}
	m.add(LevelTable, "%s", b.String())
}

// Lines returns the text of every entry at level.
func (m *Memory) Lines(level Level) []string {
	var out []string
	for _, e := range m.Entries {
		if e.Level == level {
			out = append(out, e.Text)
		}
	}
	return out
}

// Contains reports whether any entry at level contains substr.
func (m *Memory) Contains(level Level, substr string) bool {
	for _, line := range m.Lines(level) {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
