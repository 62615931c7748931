// Package console prints operator-facing status lines. Diagnostic logging
// goes through zap instead.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

type Reporter interface {
	Title(format string, args ...interface{})
	Info(format string, args ...interface{})
	Success(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	// Command echoes a shell line before it is run.
	Command(line string)
	// Output prints raw text captured from an external tool.
	Output(text string)
	Table(title string, headers []string, rows [][]string)
}

// Styled renders with lipgloss.
type Styled struct {
	out io.Writer
}

func NewStyled(out io.Writer) *Styled {
	return &Styled{out: out}
}

func (s *Styled) line(style lipgloss.Style, icon, format string, args ...interface{}) {
	fmt.Fprintln(s.out, style.Render(icon+" "+fmt.Sprintf(format, args...)))
}

func (s *Styled) Title(format string, args ...interface{}) {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, titleStyle.Render(fmt.Sprintf(format, args...)))
}

func (s *Styled) Info(format string, args ...interface{}) {
	s.line(infoStyle, "🔧", format, args...)
}

func (s *Styled) Success(format string, args ...interface{}) {
	s.line(successStyle, "✅", format, args...)
}

func (s *Styled) Warn(format string, args ...interface{}) {
	s.line(warningStyle, "⚠️ ", format, args...)
}

func (s *Styled) Error(format string, args ...interface{}) {
	s.line(errorStyle, "❌", format, args...)
}

func (s *Styled) Command(line string) {
	fmt.Fprintln(s.out, commandStyle.Render("🚀 "+line))
}

func (s *Styled) Output(text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}
	fmt.Fprintln(s.out, outputStyle.Render(text))
}

func (s *Styled) Table(title string, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	if title != "" {
		fmt.Fprintln(s.out, titleStyle.Render(title))
	}
	fmt.Fprintln(s.out, t.Render())
}

// Plain writes unstyled lines, for pipes and tests.
type Plain struct {
	out io.Writer
}

func NewPlain(out io.Writer) *Plain {
	return &Plain{out: out}
}

func (p *Plain) printf(prefix, format string, args ...interface{}) {
	fmt.Fprintf(p.out, "%s%s\n", prefix, fmt.Sprintf(format, args...))
}

func (p *Plain) Title(format string, args ...interface{})   { p.printf("== ", format, args...) }
func (p *Plain) Info(format string, args ...interface{})    { p.printf("", format, args...) }
func (p *Plain) Success(format string, args ...interface{}) { p.printf("OK: ", format, args...) }
func (p *Plain) Warn(format string, args ...interface{})    { p.printf("WARNING: ", format, args...) }
func (p *Plain) Error(format string, args ...interface{})   { p.printf("ERROR: ", format, args...) }
func (p *Plain) Command(line string)                        { p.printf("$ ", "%s", line) }

func (p *Plain) Output(text string) {
	text = strings.TrimRight(text, "\n")
	if text != "" {
		fmt.Fprintln(p.out, text)
	}
}

func (p *Plain) Table(title string, headers []string, rows [][]string) {
	if title != "" {
		p.Title("%s", title)
	}
	fmt.Fprintln(p.out, strings.Join(headers, "\t"))
	for _, r := range rows {
		fmt.Fprintln(p.out, strings.Join(r, "\t"))
	}
}
