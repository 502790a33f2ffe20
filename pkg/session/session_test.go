package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigcrop/pkg/catalog"
	"sigcrop/pkg/checkpoint"
	"sigcrop/pkg/history"
	"sigcrop/pkg/storage"
)

// recordingRenderer captures redraw requests for assertions.
type recordingRenderer struct {
	mainDraws    []string
	previewDraws int
	completed    int
	lastDark     bool
}

func (r *recordingRenderer) RedrawMain(name string, t *catalog.Table, dark bool) {
	r.mainDraws = append(r.mainDraws, name)
	r.lastDark = dark
}

func (r *recordingRenderer) RedrawPreview(t *catalog.Table, dark bool) {
	r.previewDraws++
	r.lastDark = dark
}

func (r *recordingRenderer) ShowCompleted() {
	r.completed++
}

func rampTable(rows, cols int) *catalog.Table {
	data := make([]float32, rows*cols)
	for i := range data {
		data[i] = float32(i)
	}
	return catalog.NewTable(data, rows, cols)
}

func testEntries() []catalog.Entry {
	return []catalog.Entry{
		{Name: "a.npy", Format: catalog.FormatNPY, Table: rampTable(100, 1)},
		{Name: "b.csv", Format: catalog.FormatCSV, Table: rampTable(50, 2)},
		{Name: "c.npy", Format: catalog.FormatNPY, Table: rampTable(5, 1)},
	}
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *recordingRenderer, *history.Ledger, *checkpoint.Store) {
	t.Helper()
	tempDir := t.TempDir()

	store := checkpoint.NewStore(filepath.Join(tempDir, "checkpoint.json"))
	ledger := history.NewInMemory()
	writer, err := storage.NewWriter(filepath.Join(tempDir, "cropped"))
	require.NoError(t, err)

	renderer := &recordingRenderer{}
	sess, err := New(testEntries(), store, ledger, writer, renderer, opts...)
	require.NoError(t, err)
	return sess, renderer, ledger, store
}

func TestSessionStartsAtFirstFile(t *testing.T) {
	sess, renderer, _, _ := newTestSession(t)

	assert.Equal(t, 0, sess.State().CurrentIndex)
	assert.Equal(t, 3, sess.State().TotalFiles)
	require.Len(t, renderer.mainDraws, 1)
	assert.Equal(t, "a.npy", renderer.mainDraws[0])
}

func TestSelectThenSave(t *testing.T) {
	sess, renderer, ledger, _ := newTestSession(t)

	sess.Dispatch(SelectEvent{Start: 10, End: 20})
	assert.Equal(t, 1, renderer.previewDraws)

	sel, ok := sess.Pending()
	require.True(t, ok)
	assert.Equal(t, Selection{Start: 10, End: 20}, sel)

	sess.Dispatch(SaveEvent{})

	require.Equal(t, 1, ledger.Len())
	entry := ledger.All()[0]
	assert.Equal(t, "a.npy", entry.FileName)
	assert.Equal(t, 10, entry.StartIndex)
	assert.Equal(t, 20, entry.EndIndex)
	assert.FileExists(t, entry.SavePath)
	assert.Equal(t, "a_x10_20.npy", filepath.Base(entry.SavePath))

	// Save advances to the next file and clears the selection
	assert.Equal(t, 1, sess.State().CurrentIndex)
	_, ok = sess.Pending()
	assert.False(t, ok)
}

func TestSaveWithoutSelectionIsNoop(t *testing.T) {
	sess, _, ledger, _ := newTestSession(t)

	sess.Dispatch(SaveEvent{})

	assert.Equal(t, 0, ledger.Len())
	assert.Equal(t, 0, sess.State().CurrentIndex)
}

func TestSelectOutOfBoundsIsRejected(t *testing.T) {
	sess, _, _, _ := newTestSession(t)

	sess.Dispatch(SelectEvent{Start: -1, End: 20})
	_, ok := sess.Pending()
	assert.False(t, ok, "negative start must be rejected")

	sess.Dispatch(SelectEvent{Start: 0, End: 100})
	_, ok = sess.Pending()
	assert.False(t, ok, "end past the table must be rejected")

	sess.Dispatch(SelectEvent{Start: 20, End: 10})
	_, ok = sess.Pending()
	assert.False(t, ok, "inverted range must be rejected")
}

func TestSelectOverwritesPending(t *testing.T) {
	sess, _, _, _ := newTestSession(t)

	sess.Dispatch(SelectEvent{Start: 1, End: 5})
	sess.Dispatch(SelectEvent{Start: 7, End: 9})

	sel, ok := sess.Pending()
	require.True(t, ok)
	assert.Equal(t, Selection{Start: 7, End: 9}, sel)
}

func TestSkipAdvancesWithoutHistory(t *testing.T) {
	sess, _, ledger, _ := newTestSession(t)

	sess.Dispatch(SelectEvent{Start: 1, End: 2})
	sess.Dispatch(SkipEvent{})

	assert.Equal(t, 1, sess.State().CurrentIndex)
	assert.Equal(t, 0, ledger.Len())
	_, ok := sess.Pending()
	assert.False(t, ok, "skip must discard the pending selection")
}

func TestAdvancePersistsCheckpoint(t *testing.T) {
	sess, _, _, store := newTestSession(t)

	sess.Dispatch(AdvanceEvent{})

	assert.Equal(t, 1, sess.State().CurrentIndex)
	assert.Equal(t, 1, store.Load(3))
}

func TestCompletionIsAbsorbing(t *testing.T) {
	sess, renderer, ledger, _ := newTestSession(t)

	sess.Dispatch(AdvanceEvent{})
	sess.Dispatch(AdvanceEvent{})
	assert.False(t, sess.Completed())

	sess.Dispatch(AdvanceEvent{})
	assert.True(t, sess.Completed())
	assert.Equal(t, 1, renderer.completed)
	assert.Equal(t, 2, sess.State().CurrentIndex, "index must not move past the last file")

	// Further events are no-ops
	sess.Dispatch(AdvanceEvent{})
	sess.Dispatch(SelectEvent{Start: 0, End: 1})
	sess.Dispatch(SaveEvent{})
	sess.Dispatch(SkipEvent{})

	assert.True(t, sess.Completed())
	assert.Equal(t, 0, ledger.Len())
	assert.Equal(t, 2, sess.State().CurrentIndex)
	assert.Equal(t, 1, renderer.completed)

	_, active := sess.Active()
	assert.False(t, active)
}

func TestSaveOnLastFileCompletes(t *testing.T) {
	sess, _, ledger, _ := newTestSession(t)

	sess.Dispatch(SkipEvent{})
	sess.Dispatch(SkipEvent{})

	sess.Dispatch(SelectEvent{Start: 0, End: 4})
	sess.Dispatch(SaveEvent{})

	assert.True(t, sess.Completed())
	require.Equal(t, 1, ledger.Len())
	assert.Equal(t, "c.npy", ledger.All()[0].FileName)
}

func TestResumesFromCheckpoint(t *testing.T) {
	tempDir := t.TempDir()
	cpPath := filepath.Join(tempDir, "checkpoint.json")

	store := checkpoint.NewStore(cpPath)
	require.NoError(t, store.Save(2))

	writer, err := storage.NewWriter(filepath.Join(tempDir, "cropped"))
	require.NoError(t, err)

	renderer := &recordingRenderer{}
	sess, err := New(testEntries(), store, history.NewInMemory(), writer, renderer)
	require.NoError(t, err)

	assert.Equal(t, 2, sess.State().CurrentIndex)
	require.Len(t, renderer.mainDraws, 1)
	assert.Equal(t, "c.npy", renderer.mainDraws[0])
}

func TestToggleTheme(t *testing.T) {
	sess, renderer, _, _ := newTestSession(t, WithDarkTheme(false))

	index := sess.State().CurrentIndex
	sess.Dispatch(ThemeEvent{})

	assert.True(t, sess.Dark())
	assert.True(t, renderer.lastDark)
	assert.Equal(t, index, sess.State().CurrentIndex, "theme toggle must not move the traversal")

	sess.Dispatch(ThemeEvent{})
	assert.False(t, sess.Dark())
}

func TestTagPrefixInCropName(t *testing.T) {
	sess, _, ledger, _ := newTestSession(t, WithTag("run 1!"))

	sess.Dispatch(SelectEvent{Start: 0, End: 9})
	sess.Dispatch(SaveEvent{})

	require.Equal(t, 1, ledger.Len())
	assert.Equal(t, "run_1_a_x0_9.npy", filepath.Base(ledger.All()[0].SavePath))
}

func TestEmptyCatalogFails(t *testing.T) {
	tempDir := t.TempDir()
	store := checkpoint.NewStore(filepath.Join(tempDir, "checkpoint.json"))
	writer, err := storage.NewWriter(filepath.Join(tempDir, "cropped"))
	require.NoError(t, err)

	_, err = New(nil, store, history.NewInMemory(), writer, NopRenderer{})
	require.Error(t, err)
}
