package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"sigcrop/pkg/session"
)

// Update handles terminal events and translates keys into session events.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingTag {
		return m.handleTagKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp

	case "ctrl+s":
		m.sess.Dispatch(session.SaveEvent{})

	case "ctrl+d":
		m.sess.Dispatch(session.SkipEvent{})

	case " ", "space":
		m.sess.Dispatch(session.AdvanceEvent{})

	case "t":
		m.sess.Dispatch(session.ThemeEvent{})
		m.dark = m.sess.Dark()

	case "g":
		m.editingTag = true
		m.tagInput.Focus()

	case "left", "h":
		m.moveSelection(-m.selStep())

	case "right", "l":
		m.moveSelection(m.selStep())

	case ",":
		m.resizeSelection(-m.selStep())

	case ".":
		m.resizeSelection(m.selStep())
	}

	return m, nil
}

func (m *Model) handleTagKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.sess.SetTag(m.tagInput.Value())
		m.editingTag = false
		m.tagInput.Blur()
		return m, nil
	case "esc":
		m.tagInput.SetValue(m.sess.Tag())
		m.editingTag = false
		m.tagInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.tagInput, cmd = m.tagInput.Update(msg)
	return m, cmd
}

// moveSelection shifts the whole selection window, pinned to the signal.
func (m *Model) moveSelection(delta int) {
	if m.table == nil || m.completed {
		return
	}
	width := m.selEnd - m.selStart
	start := m.selStart + delta
	if start < 0 {
		start = 0
	}
	if start+width > m.table.Rows-1 {
		start = m.table.Rows - 1 - width
	}
	m.selStart = start
	m.selEnd = start + width
	m.dispatchSelection()
}

// resizeSelection grows or shrinks the selection's end bound.
func (m *Model) resizeSelection(delta int) {
	if m.table == nil || m.completed {
		return
	}
	end := m.selEnd + delta
	if end < m.selStart {
		end = m.selStart
	}
	if end > m.table.Rows-1 {
		end = m.table.Rows - 1
	}
	m.selEnd = end
	m.dispatchSelection()
}

func (m *Model) dispatchSelection() {
	m.sess.Dispatch(session.SelectEvent{Start: m.selStart, End: m.selEnd})
}
