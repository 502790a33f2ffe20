package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kshedden/gonpy"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	cerrors "sigcrop/pkg/errors"
	"sigcrop/pkg/logger"
)

// Format identifies the on-disk encoding of a signal file.
type Format string

const (
	FormatCSV Format = "csv"
	FormatNPY Format = "npy"
)

// Entry is one validated signal file with its loaded table.
type Entry struct {
	Name   string
	Path   string
	Format Format
	Table  *Table
}

// formatForExt maps a file extension to a Format, case-insensitively.
func formatForExt(ext string) (Format, bool) {
	switch strings.ToLower(ext) {
	case ".csv":
		return FormatCSV, true
	case ".npy":
		return FormatNPY, true
	}
	return "", false
}

// Build scans dir for .csv/.npy files, loads and validates each, and returns
// the accepted entries ordered by ascending path name. Files that fail to
// load or validate are excluded and logged; the only error condition is an
// empty result.
func Build(dir string, maxPoints int) ([]Entry, error) {
	log := logger.GetLogger()

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.SeverityFatal, "catalog.Build",
			fmt.Sprintf("failed to scan input directory %s", dir), err)
	}

	var candidates []candidate
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		format, ok := formatForExt(filepath.Ext(de.Name()))
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{
			name:   de.Name(),
			path:   filepath.Join(dir, de.Name()),
			format: format,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].path < candidates[j].path
	})

	// First pass: validate every candidate independently. Second pass:
	// assemble the catalog from accepted entries only.
	tables := make([]*Table, len(candidates))
	for i, c := range candidates {
		table, err := loadTable(c.path, c.format, maxPoints)
		if err != nil {
			log.WithFields(map[string]interface{}{
				"file":   c.name,
				"reason": err.Error(),
			}).Warn("rejected signal file")
			continue
		}
		tables[i] = table
	}

	var entries []Entry
	for i, c := range candidates {
		table := tables[i]
		if table == nil {
			continue
		}
		entries = append(entries, Entry{
			Name:   c.name,
			Path:   c.path,
			Format: c.format,
			Table:  table,
		})
		log.WithFields(acceptFields(c.name, table)).Info("cataloged signal file")
	}

	if len(entries) == 0 {
		return nil, cerrors.New(cerrors.SeverityFatal, "catalog.Build",
			fmt.Sprintf("no eligible signal files in %s", dir))
	}

	log.WithField("files", len(entries)).Info("catalog built")
	return entries, nil
}

type candidate struct {
	name   string
	path   string
	format Format
}

// acceptFields summarises an accepted table for the catalog log entry.
func acceptFields(name string, t *Table) map[string]interface{} {
	fields := map[string]interface{}{
		"file":     name,
		"samples":  t.Rows,
		"channels": t.Cols,
	}
	for ch := 0; ch < t.Cols; ch++ {
		xs := t.Channel(ch)
		fields[fmt.Sprintf("ch%d_mean", ch)] = stat.Mean(xs, nil)
		fields[fmt.Sprintf("ch%d_min", ch)] = floats.Min(xs)
		fields[fmt.Sprintf("ch%d_max", ch)] = floats.Max(xs)
	}
	return fields
}

// loadTable loads one file and applies the shared shape validation.
func loadTable(path string, format Format, maxPoints int) (*Table, error) {
	var (
		table *Table
		err   error
	)
	switch format {
	case FormatCSV:
		table, err = loadCSV(path)
	case FormatNPY:
		table, err = loadNPY(path)
	default:
		return nil, cerrors.New(cerrors.SeveritySkip, "catalog.load",
			fmt.Sprintf("unrecognized format %q", format))
	}
	if err != nil {
		return nil, err
	}

	if table.Rows == 0 {
		return nil, cerrors.New(cerrors.SeveritySkip, "catalog.load", "empty table")
	}
	if table.Rows > maxPoints {
		return nil, cerrors.New(cerrors.SeveritySkip, "catalog.load",
			fmt.Sprintf("%d samples exceeds max of %d", table.Rows, maxPoints))
	}
	return table, nil
}

// loadCSV reads a headerless comma-separated numeric table. A single-column
// file yields a one-channel table.
func loadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.SeveritySkip, "catalog.load", "open failed", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, cerrors.Wrap(cerrors.SeveritySkip, "catalog.load", "csv parse failed", err)
	}
	if len(records) == 0 {
		return nil, cerrors.New(cerrors.SeveritySkip, "catalog.load", "empty table")
	}

	cols := len(records[0])
	data := make([]float32, 0, len(records)*cols)
	for _, record := range records {
		for _, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
			if err != nil {
				return nil, cerrors.Wrap(cerrors.SeveritySkip, "catalog.load",
					fmt.Sprintf("non-numeric value %q", field), err)
			}
			data = append(data, float32(v))
		}
	}

	return NewTable(data, len(records), cols), nil
}

// loadNPY reads a serialized numeric array. A 1-D array is reshaped to an
// (N, 1) column; anything beyond 2-D is rejected.
func loadNPY(path string) (*Table, error) {
	r, err := gonpy.NewFileReader(path)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.SeveritySkip, "catalog.load", "npy parse failed", err)
	}

	var rows, cols int
	switch len(r.Shape) {
	case 1:
		rows, cols = r.Shape[0], 1
	case 2:
		rows, cols = r.Shape[0], r.Shape[1]
	default:
		return nil, cerrors.New(cerrors.SeveritySkip, "catalog.load",
			fmt.Sprintf("array is %d-dimensional, want 1 or 2", len(r.Shape)))
	}

	var data []float32
	switch r.Dtype {
	case "f4":
		data, err = r.GetFloat32()
		if err != nil {
			return nil, cerrors.Wrap(cerrors.SeveritySkip, "catalog.load", "npy read failed", err)
		}
	case "f8":
		d64, err := r.GetFloat64()
		if err != nil {
			return nil, cerrors.Wrap(cerrors.SeveritySkip, "catalog.load", "npy read failed", err)
		}
		data = make([]float32, len(d64))
		for i, v := range d64 {
			data[i] = float32(v)
		}
	default:
		return nil, cerrors.New(cerrors.SeveritySkip, "catalog.load",
			fmt.Sprintf("unsupported npy dtype %q", r.Dtype))
	}

	if len(data) != rows*cols {
		return nil, cerrors.New(cerrors.SeveritySkip, "catalog.load", "npy shape/data mismatch")
	}

	if r.ColumnMajor && cols > 1 {
		data = transpose(data, rows, cols)
	}

	return NewTable(data, rows, cols), nil
}

// transpose converts column-major data to row-major.
func transpose(data []float32, rows, cols int) []float32 {
	out := make([]float32, len(data))
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			out[i*cols+j] = data[j*rows+i]
		}
	}
	return out
}
