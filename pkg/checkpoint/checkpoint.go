package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sigcrop/pkg/logger"
)

// Record is the durable traversal position.
type Record struct {
	Index int    `json:"index"`
	Time  string `json:"time"`
}

// Store persists the traversal position at a fixed path. Single writer,
// single reader; concurrent sessions against one store are out of scope.
type Store struct {
	path string
	log  logger.Logger
}

// NewStore creates a store bound to the given checkpoint file path.
func NewStore(path string) *Store {
	return &Store{
		path: path,
		log:  logger.GetLogger(),
	}
}

// Load recovers the saved index, clamped into [0, totalFiles-1]. A missing
// file yields 0; a corrupt file is treated as absent, logged, and never
// surfaces as an error.
func (s *Store) Load(totalFiles int) int {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.WithError(err).Warn("checkpoint unreadable, starting from the beginning")
		}
		return 0
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.log.WithError(err).Warn("checkpoint corrupt, starting from the beginning")
		return 0
	}

	index := rec.Index
	if index < 0 {
		index = 0
	}
	if index > totalFiles-1 {
		index = totalFiles - 1
	}

	s.log.WithFields(map[string]interface{}{
		"index":    index,
		"saved_at": rec.Time,
	}).Info("resuming from checkpoint")
	return index
}

// Save overwrites the checkpoint with the given index, writing to a
// temporary file and renaming so a crash never leaves a torn record.
func (s *Store) Save(index int) error {
	rec := Record{
		Index: index,
		Time:  time.Now().Format(time.RFC3339),
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create checkpoint directory: %w", err)
	}

	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary checkpoint file: %w", err)
	}

	if err := json.NewEncoder(file).Encode(&rec); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync checkpoint file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close checkpoint file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace checkpoint file: %w", err)
	}

	return nil
}

// Exists reports whether a checkpoint file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Delete removes the checkpoint file, for a forced restart.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	return nil
}
