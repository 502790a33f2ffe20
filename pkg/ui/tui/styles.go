package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// theme groups the styles that differ between the light and dark looks.
type theme struct {
	title     lipgloss.Style
	panel     lipgloss.Style
	channel0  lipgloss.Style
	channel1  lipgloss.Style
	selection lipgloss.Style
	status    lipgloss.Style
	help      lipgloss.Style
	done      lipgloss.Style
}

var darkTheme = theme{
	title: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00FFFF")).
		Bold(true),
	panel: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#FF00FF")).
		Padding(0, 1),
	channel0:  lipgloss.NewStyle().Foreground(lipgloss.Color("#39FF14")),
	channel1:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6700")),
	selection: lipgloss.NewStyle().Background(lipgloss.Color("#1A3E5A")),
	status:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")),
	help:      lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0")),
	done: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#39FF14")).
		Bold(true).
		Padding(1, 2),
}

var lightTheme = theme{
	title: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#005F87")).
		Bold(true),
	panel: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#5F5FAF")).
		Padding(0, 1),
	channel0:  lipgloss.NewStyle().Foreground(lipgloss.Color("#1f77b4")),
	channel1:  lipgloss.NewStyle().Foreground(lipgloss.Color("#ff7f0e")),
	selection: lipgloss.NewStyle().Background(lipgloss.Color("#D7E4F0")),
	status:    lipgloss.NewStyle().Foreground(lipgloss.Color("#875F00")),
	help:      lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C")),
	done: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#005F00")).
		Bold(true).
		Padding(1, 2),
}

func themeFor(dark bool) theme {
	if dark {
		return darkTheme
	}
	return lightTheme
}
