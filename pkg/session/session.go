package session

import (
	"fmt"
	"time"

	"sigcrop/pkg/catalog"
	"sigcrop/pkg/checkpoint"
	cerrors "sigcrop/pkg/errors"
	"sigcrop/pkg/history"
	"sigcrop/pkg/logger"
	"sigcrop/pkg/storage"
)

// Renderer is the presentation surface the session draws through. The
// terminal UI implements it; tests use NopRenderer.
type Renderer interface {
	// RedrawMain shows the active file's full signal.
	RedrawMain(name string, t *catalog.Table, dark bool)
	// RedrawPreview shows the currently selected sub-range.
	RedrawPreview(t *catalog.Table, dark bool)
	// ShowCompleted shows the terminal "all files processed" display.
	ShowCompleted()
}

// NopRenderer discards every redraw request.
type NopRenderer struct{}

func (NopRenderer) RedrawMain(string, *catalog.Table, bool) {}
func (NopRenderer) RedrawPreview(*catalog.Table, bool)      {}
func (NopRenderer) ShowCompleted()                          {}

// Selection is a pending inclusive sample range on the active file. It
// lives only between a select event and the next save, skip, or advance.
type Selection struct {
	Start int
	End   int
}

// State is the traversal position. CurrentIndex is the single source of
// truth for which file is active and changes only through advance.
type State struct {
	CurrentIndex int
	TotalFiles   int
}

// Session drives the ordered traversal of the catalog: it owns the
// position, the active table, and the pending selection, and it invokes the
// checkpoint store and the history ledger on each transition.
type Session struct {
	entries  []catalog.Entry
	store    *checkpoint.Store
	ledger   *history.Ledger
	writer   *storage.Writer
	renderer Renderer
	log      logger.Logger

	state     State
	pending   *Selection
	tag       string
	dark      bool
	completed bool
}

// Option configures a Session at construction.
type Option func(*Session)

// WithTag sets the output name tag prefix (sanitized at write time).
func WithTag(tag string) Option {
	return func(s *Session) { s.tag = tag }
}

// WithDarkTheme sets the initial rendering theme.
func WithDarkTheme(dark bool) Option {
	return func(s *Session) { s.dark = dark }
}

// New builds a session over the cataloged entries, resuming from the
// checkpoint store's recovered position, and draws the first file.
func New(entries []catalog.Entry, store *checkpoint.Store, ledger *history.Ledger,
	writer *storage.Writer, renderer Renderer, opts ...Option) (*Session, error) {

	if len(entries) == 0 {
		return nil, cerrors.New(cerrors.SeverityFatal, "session.New", "catalog is empty")
	}
	if renderer == nil {
		renderer = NopRenderer{}
	}

	s := &Session{
		entries:  entries,
		store:    store,
		ledger:   ledger,
		writer:   writer,
		renderer: renderer,
		log:      logger.GetLogger(),
		state: State{
			CurrentIndex: store.Load(len(entries)),
			TotalFiles:   len(entries),
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.log.WithFields(map[string]interface{}{
		"files": s.state.TotalFiles,
		"index": s.state.CurrentIndex,
	}).Info("session started")

	active := s.activeEntry()
	s.renderer.RedrawMain(active.Name, active.Table, s.dark)
	return s, nil
}

// Dispatch is the single entry point for the event-driven state machine.
// Every mutation runs to completion before Dispatch returns.
func (s *Session) Dispatch(ev Event) {
	switch ev := ev.(type) {
	case SelectEvent:
		s.handleSelect(ev)
	case SaveEvent:
		s.handleSave()
	case SkipEvent:
		s.handleSkip()
	case AdvanceEvent:
		s.advance()
	case ThemeEvent:
		s.toggleTheme()
	}
}

func (s *Session) handleSelect(ev SelectEvent) {
	if s.completed {
		return
	}
	table := s.activeEntry().Table
	if ev.Start < 0 || ev.End >= table.Rows || ev.End < ev.Start {
		s.log.WithFields(map[string]interface{}{
			"start":   ev.Start,
			"end":     ev.End,
			"samples": table.Rows,
		}).Warn("ignoring out-of-bounds selection")
		return
	}

	s.pending = &Selection{Start: ev.Start, End: ev.End}
	s.renderer.RedrawPreview(table.Slice(ev.Start, ev.End), s.dark)
}

func (s *Session) handleSave() {
	if s.completed {
		return
	}
	if s.pending == nil {
		s.log.Warn("nothing selected")
		return
	}

	entry := s.activeEntry()
	sel := *s.pending

	outPath, err := s.writer.WriteCrop(s.tag, entry.Name, sel.Start, sel.End, entry.Table)
	if err != nil {
		// Reported, not fatal: the selection stays pending for a retry.
		s.log.WithError(err).WithField("file", entry.Name).Error("failed to save crop")
		return
	}

	s.ledger.Append(history.Entry{
		FileName:   entry.Name,
		StartIndex: sel.Start,
		EndIndex:   sel.End,
		SavePath:   outPath,
		Timestamp:  time.Now().Format("2006-01-02 15:04:05"),
	})

	s.log.WithFields(map[string]interface{}{
		"file":    entry.Name,
		"start":   sel.Start,
		"end":     sel.End,
		"samples": sel.End - sel.Start + 1,
		"path":    outPath,
	}).Info("saved crop")

	s.advance()
}

func (s *Session) handleSkip() {
	if s.completed {
		return
	}
	s.log.WithField("file", s.activeEntry().Name).Info("skipped file")
	s.advance()
}

func (s *Session) advance() {
	if s.completed {
		return
	}
	s.pending = nil

	if s.state.CurrentIndex < s.state.TotalFiles-1 {
		s.state.CurrentIndex++
		if err := s.store.Save(s.state.CurrentIndex); err != nil {
			// The in-memory position stays authoritative for this run.
			s.log.WithError(err).Error("failed to save checkpoint")
		}
		active := s.activeEntry()
		s.log.WithFields(map[string]interface{}{
			"index": s.state.CurrentIndex,
			"file":  active.Name,
		}).Info("advanced to next file")
		s.renderer.RedrawMain(active.Name, active.Table, s.dark)
		return
	}

	s.completed = true
	s.log.Info("all files processed")
	s.renderer.ShowCompleted()
}

func (s *Session) toggleTheme() {
	s.dark = !s.dark
	s.log.WithField("dark", s.dark).Info("toggled theme")
	if s.completed {
		s.renderer.ShowCompleted()
		return
	}
	active := s.activeEntry()
	s.renderer.RedrawMain(active.Name, active.Table, s.dark)
	if s.pending != nil {
		s.renderer.RedrawPreview(active.Table.Slice(s.pending.Start, s.pending.End), s.dark)
	}
}

func (s *Session) activeEntry() catalog.Entry {
	return s.entries[s.state.CurrentIndex]
}

// Active returns the active entry, or false once the session has completed.
func (s *Session) Active() (catalog.Entry, bool) {
	if s.completed {
		return catalog.Entry{}, false
	}
	return s.activeEntry(), true
}

// State returns the current traversal position.
func (s *Session) State() State {
	return s.state
}

// Completed reports whether every file has been processed.
func (s *Session) Completed() bool {
	return s.completed
}

// Pending returns the pending selection, if one exists.
func (s *Session) Pending() (Selection, bool) {
	if s.pending == nil {
		return Selection{}, false
	}
	return *s.pending, true
}

// Dark reports the current theme flag.
func (s *Session) Dark() bool {
	return s.dark
}

// Tag returns the configured output name tag.
func (s *Session) Tag() string {
	return s.tag
}

// SetTag replaces the output name tag for subsequent saves.
func (s *Session) SetTag(tag string) {
	s.tag = tag
}

// Progress formats the position as "done/total" for display.
func (s *Session) Progress() string {
	done := s.state.CurrentIndex
	if s.completed {
		done = s.state.TotalFiles
	}
	return fmt.Sprintf("%d/%d", done, s.state.TotalFiles)
}
