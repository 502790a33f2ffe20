package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run takes over the terminal and blocks until the operator quits.
func Run(m *Model) error {
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
