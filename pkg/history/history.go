package history

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"

	"sigcrop/pkg/logger"
)

// Entry records one successful crop. Entries are never mutated or removed.
type Entry struct {
	FileName   string `json:"file_name"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
	SavePath   string `json:"save_path"`
	Timestamp  string `json:"timestamp"`
}

// Ledger is the append-only audit trail of crops, kept in insertion order.
// When bound to a path it mirrors every entry to a JSONL file so reports
// cover earlier sessions too.
type Ledger struct {
	path    string
	entries []Entry
	log     logger.Logger
}

// NewInMemory creates a ledger with no file backing.
func NewInMemory() *Ledger {
	return &Ledger{log: logger.GetLogger()}
}

// Open creates a ledger backed by the JSONL file at path, loading any
// entries from previous sessions. Unreadable lines are skipped with a
// warning rather than discarding the rest of the file.
func Open(path string) (*Ledger, error) {
	l := &Ledger{path: path, log: logger.GetLogger()}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			l.log.WithFields(map[string]interface{}{
				"line": line,
				"file": path,
			}).Warn("skipping unreadable history line")
			continue
		}
		l.entries = append(l.entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return l, nil
}

// Append adds an entry to the ledger. A failure to mirror the entry to the
// backing file is logged but does not fail the append; the in-memory ledger
// stays authoritative for the run.
func (l *Ledger) Append(e Entry) {
	l.entries = append(l.entries, e)
	if l.path == "" {
		return
	}
	if err := l.appendToFile(e); err != nil {
		l.log.WithError(err).Error("failed to persist history entry")
	}
}

func (l *Ledger) appendToFile(e Entry) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(&e)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// All returns the entries in insertion order. The slice is a copy; the
// ledger's own record cannot be modified through it.
func (l *Ledger) All() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded crops.
func (l *Ledger) Len() int {
	return len(l.entries)
}
