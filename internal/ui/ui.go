// package ui provides lipgloss styles for terminal output
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles is the default palette used by CLI output.
var Styles = NewPalette("#2E51A2", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Title renders s as a heading.
func (p *Palette) Title(s string) string { return p.title.Render(s) }

// OK renders s as a success message.
func (p *Palette) OK(s string) string { return p.ok.Render(s) }

// Err renders s as an error message.
func (p *Palette) Err(s string) string { return p.err.Render(s) }

// Warn renders s as a warning.
func (p *Palette) Warn(s string) string { return p.warn.Render(s) }

// Help renders s as secondary help text.
func (p *Palette) Help(s string) string { return p.help.Render(s) }
