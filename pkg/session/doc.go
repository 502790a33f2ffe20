// Package session implements the file batch state machine: an ordered
// traversal over the catalog with one active file at a time, driven purely
// by dispatched events (select, save, skip, advance, theme).
//
// The traversal position is persisted through the checkpoint store after
// every advance, and every successful crop is appended to the history
// ledger. Once the last file is processed the session enters a terminal
// completed state that absorbs all further events.
package session
