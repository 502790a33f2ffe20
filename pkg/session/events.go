package session

// Event is the closed set of inputs that drive the session. The rendering
// layer only ever produces these; it never touches session internals.
type Event interface {
	event()
}

// SelectEvent records a pending inclusive sample range on the active file.
type SelectEvent struct {
	Start int
	End   int
}

// SaveEvent crops the pending selection and advances.
type SaveEvent struct{}

// SkipEvent discards any pending selection and advances.
type SkipEvent struct{}

// AdvanceEvent moves on to the next file without saving or logging a skip.
type AdvanceEvent struct{}

// ThemeEvent toggles the rendering theme; no effect on traversal state.
type ThemeEvent struct{}

func (SelectEvent) event()  {}
func (SaveEvent) event()    {}
func (SkipEvent) event()    {}
func (AdvanceEvent) event() {}
func (ThemeEvent) event()   {}
