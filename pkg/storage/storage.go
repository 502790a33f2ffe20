package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kshedden/gonpy"

	"sigcrop/pkg/catalog"
)

var nonWord = regexp.MustCompile(`\W+`)

// Writer persists extracted crops into the output directory.
type Writer struct {
	outputDir string
}

// NewWriter creates a crop writer, creating the output directory if needed.
func NewWriter(outputDir string) (*Writer, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{outputDir: outputDir}, nil
}

// SanitizeTag collapses every run of non-word characters in tag to a single
// underscore. An effectively empty tag sanitizes to "".
func SanitizeTag(tag string) string {
	tag = nonWord.ReplaceAllString(strings.TrimSpace(tag), "_")
	return strings.Trim(tag, "_")
}

// CropName builds the deterministic output name for a crop:
// {tag_}{stem}_x{start}_{end}.npy, with the tag prefix omitted when empty.
func CropName(tag, sourceName string, start, end int) string {
	prefix := ""
	if t := SanitizeTag(tag); t != "" {
		prefix = t + "_"
	}
	stem := strings.TrimSuffix(sourceName, filepath.Ext(sourceName))
	return fmt.Sprintf("%s%s_x%d_%d.npy", prefix, stem, start, end)
}

// WriteCrop extracts the inclusive sample range [start, end] from t and
// writes it as a float32 NPY array, returning the output path. The write
// goes through a temporary file so an interrupted save leaves no partial
// crop behind.
func (w *Writer) WriteCrop(tag, sourceName string, start, end int, t *catalog.Table) (string, error) {
	crop := t.Slice(start, end)
	outPath := filepath.Join(w.outputDir, CropName(tag, sourceName, start, end))

	tempPath := outPath + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return "", fmt.Errorf("failed to create crop file: %w", err)
	}

	if err := writeNPY(f, crop); err != nil {
		f.Close()
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to write crop data: %w", err)
	}

	// gonpy may close the underlying writer itself; a second close is fine.
	if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to close crop file: %w", err)
	}

	if err := os.Rename(tempPath, outPath); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to rename crop file: %w", err)
	}

	return outPath, nil
}

func writeNPY(f *os.File, t *catalog.Table) error {
	npw, err := gonpy.NewWriter(f)
	if err != nil {
		return err
	}
	npw.Shape = []int{t.Rows, t.Cols}
	return npw.WriteFloat32(t.Data)
}

// OutputDir returns the directory crops are written into.
func (w *Writer) OutputDir() string {
	return w.outputDir
}
