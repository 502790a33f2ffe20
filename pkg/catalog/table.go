package catalog

// Table is an in-memory numeric signal: Rows samples by Cols channels,
// stored row-major as 32-bit floats. One-channel input is a (Rows, 1) table.
type Table struct {
	Data []float32
	Rows int
	Cols int
}

// NewTable wraps row-major data in a Table. len(data) must be rows*cols.
func NewTable(data []float32, rows, cols int) *Table {
	return &Table{Data: data, Rows: rows, Cols: cols}
}

// At returns the sample at row i, channel ch.
func (t *Table) At(i, ch int) float32 {
	return t.Data[i*t.Cols+ch]
}

// Slice copies the inclusive sample range [start, end] into a new Table.
// Bounds must already be validated by the caller.
func (t *Table) Slice(start, end int) *Table {
	rows := end - start + 1
	data := make([]float32, rows*t.Cols)
	copy(data, t.Data[start*t.Cols:(end+1)*t.Cols])
	return &Table{Data: data, Rows: rows, Cols: t.Cols}
}

// Channel returns one channel as float64 samples, for stats and plotting.
func (t *Table) Channel(ch int) []float64 {
	out := make([]float64, t.Rows)
	for i := 0; i < t.Rows; i++ {
		out[i] = float64(t.Data[i*t.Cols+ch])
	}
	return out
}
