package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigcrop/pkg/catalog"
	"sigcrop/pkg/checkpoint"
	"sigcrop/pkg/history"
	"sigcrop/pkg/session"
	"sigcrop/pkg/storage"
)

func rampTable(rows, cols int) *catalog.Table {
	data := make([]float32, rows*cols)
	for i := range data {
		data[i] = float32(i % 17)
	}
	return catalog.NewTable(data, rows, cols)
}

func newTestModel(t *testing.T) (*Model, *session.Session) {
	t.Helper()
	tempDir := t.TempDir()

	entries := []catalog.Entry{
		{Name: "a.npy", Format: catalog.FormatNPY, Table: rampTable(200, 1)},
		{Name: "b.csv", Format: catalog.FormatCSV, Table: rampTable(80, 2)},
	}

	store := checkpoint.NewStore(filepath.Join(tempDir, "checkpoint.json"))
	writer, err := storage.NewWriter(filepath.Join(tempDir, "cropped"))
	require.NoError(t, err)

	model := NewModel(false)
	sess, err := session.New(entries, store, history.NewInMemory(), writer, model)
	require.NoError(t, err)
	model.SetSession(sess)

	model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return model, sess
}

func key(s string) tea.KeyMsg {
	switch s {
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestViewShowsActiveFile(t *testing.T) {
	model, _ := newTestModel(t)

	view := model.View()
	assert.Contains(t, view, "a.npy")
	assert.Contains(t, view, "(200, 1)")
	assert.Contains(t, view, "0/2")
}

func TestSelectionKeysDispatchSelect(t *testing.T) {
	model, sess := newTestModel(t)

	// Shrinking the end bound registers a selection with the session
	model.Update(key(","))
	sel, ok := sess.Pending()
	require.True(t, ok)
	assert.Equal(t, 0, sel.Start)
	assert.Less(t, sel.End, 199)

	view := model.View()
	assert.Contains(t, view, "preview")
}

func TestSkipKeyAdvances(t *testing.T) {
	model, sess := newTestModel(t)

	model.Update(key("ctrl+d"))
	assert.Equal(t, 1, sess.State().CurrentIndex)
	assert.Contains(t, model.View(), "b.csv")
}

func TestSaveKeyCropsSelection(t *testing.T) {
	model, sess := newTestModel(t)

	model.Update(key(","))
	model.Update(key("ctrl+s"))

	assert.Equal(t, 1, sess.State().CurrentIndex)
}

func TestThemeKeyToggles(t *testing.T) {
	model, sess := newTestModel(t)

	model.Update(key("t"))
	assert.True(t, sess.Dark())
	assert.True(t, model.dark)
}

func TestCompletionView(t *testing.T) {
	model, sess := newTestModel(t)

	model.Update(key("space"))
	model.Update(key("space"))

	assert.True(t, sess.Completed())
	view := model.View()
	assert.Contains(t, view, "All files processed")
}

func TestTagEditing(t *testing.T) {
	model, sess := newTestModel(t)

	model.Update(key("g"))
	assert.True(t, model.editingTag)

	for _, r := range "run7" {
		model.Update(key(string(r)))
	}
	model.Update(key("enter"))

	assert.False(t, model.editingTag)
	assert.Equal(t, "run7", sess.Tag())
}

func TestHelpToggle(t *testing.T) {
	model, _ := newTestModel(t)

	assert.NotContains(t, model.View(), "toggle theme")
	model.Update(key("?"))
	assert.True(t, strings.Contains(model.View(), "toggle theme"))
}
