package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/fitx/internal/models"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// Palette holds the named styles of the browser views.
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	label lipgloss.Style

	levels map[models.Difficulty]lipgloss.Style
}

func NewPalette(title, ok, err, warn, muted string) *Palette {
	return &Palette{
		title: NewBold(title).MarginBottom(1),
		ok:    NewBold(ok),
		err:   NewBold(err),
		warn:  NewStyle(warn),
		help:  NewEm(muted),
		label: NewBold(muted),
		levels: map[models.Difficulty]lipgloss.Style{
			models.DifficultyBeginner:     NewStyle(ok),
			models.DifficultyIntermediate: NewStyle(warn),
			models.DifficultyAdvanced:     NewBold(err),
		},
	}
}

// Difficulty renders d in its level color. Unknown levels are left plain.
func (p *Palette) Difficulty(d models.Difficulty) string {
	if s, ok := p.levels[d]; ok {
		return s.Render(d.String())
	}
	return d.String()
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
