package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Theme pairs the lipgloss palette with the chart colors of each field.
type Theme struct {
	Name     string
	Header   lipgloss.Color
	Label    lipgloss.Color
	Value    lipgloss.Color
	Muted    lipgloss.Color
	Plankton asciigraph.AnsiColor
	Chemical asciigraph.AnsiColor
}

var (
	ThemeOcean = Theme{
		Name:     "ocean",
		Header:   lipgloss.Color("86"),
		Label:    lipgloss.Color("245"),
		Value:    lipgloss.Color("252"),
		Muted:    lipgloss.Color("240"),
		Plankton: asciigraph.Red,
		Chemical: asciigraph.Blue,
	}

	ThemeMono = Theme{
		Name:     "mono",
		Header:   lipgloss.Color("15"),
		Label:    lipgloss.Color("250"),
		Value:    lipgloss.Color("15"),
		Muted:    lipgloss.Color("244"),
		Plankton: asciigraph.Default,
		Chemical: asciigraph.Default,
	}
)

var themes = []Theme{ThemeOcean, ThemeMono}

func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// GetTheme returns the named theme, falling back to ocean.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeOcean
}

func nextTheme(current Theme) Theme {
	for i, t := range themes {
		if t.Name == current.Name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}

type styles struct {
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	help   lipgloss.Style
	panel  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		header: lipgloss.NewStyle().Foreground(t.Header).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Label).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Value),
		help:   lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		panel:  lipgloss.NewStyle().Padding(0, 2),
	}
}
