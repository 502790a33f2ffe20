package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"sigcrop/pkg/catalog"
	"sigcrop/pkg/session"
)

// Model is the terminal selection surface. It implements session.Renderer:
// the session pushes redraw requests into it, and key presses are turned
// into dispatched session events, never direct state changes.
type Model struct {
	sess *session.Session

	// Active signal, as last pushed by the session
	name      string
	table     *catalog.Table
	preview   *catalog.Table
	dark      bool
	completed bool

	// Local selection cursor; dispatched on every adjustment
	selStart int
	selEnd   int

	// UI components
	prog     progress.Model
	tagInput textinput.Model

	width      int
	height     int
	showHelp   bool
	editingTag bool
}

// NewModel creates the TUI model. The session is attached afterwards with
// SetSession, since the session needs the model as its renderer.
func NewModel(dark bool) *Model {
	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	ti := textinput.New()
	ti.Placeholder = "tag prefix"
	ti.CharLimit = 40

	return &Model{
		dark:     dark,
		prog:     p,
		tagInput: ti,
	}
}

// SetSession attaches the session that this model renders and drives.
func (m *Model) SetSession(s *session.Session) {
	m.sess = s
	m.tagInput.SetValue(s.Tag())
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// RedrawMain implements session.Renderer. A redraw of the same table (a
// theme toggle) keeps the selection cursor in place.
func (m *Model) RedrawMain(name string, t *catalog.Table, dark bool) {
	sameTable := t == m.table
	m.name = name
	m.table = t
	m.dark = dark
	m.preview = nil
	if !sameTable {
		m.selStart = 0
		m.selEnd = t.Rows - 1
	}
}

// RedrawPreview implements session.Renderer.
func (m *Model) RedrawPreview(t *catalog.Table, dark bool) {
	m.preview = t
	m.dark = dark
}

// ShowCompleted implements session.Renderer.
func (m *Model) ShowCompleted() {
	m.completed = true
	m.table = nil
	m.preview = nil
}

// selStep is the per-keypress selection movement, one percent of the signal.
func (m *Model) selStep() int {
	if m.table == nil {
		return 1
	}
	step := m.table.Rows / 100
	if step < 1 {
		step = 1
	}
	return step
}
