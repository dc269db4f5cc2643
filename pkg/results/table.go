package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Cell is one entry of an AreaTable. NaN is a present value; cells of runs
// that failed are absent.
type Cell struct {
	Value   float64 `json:"value"`
	Present bool    `json:"present"`
}

// AreaTable maps (dataset, combination) to a metric value. Rows and columns
// keep insertion order.
type AreaTable struct {
	Metric  string
	rows    []string
	columns []string
	rowIdx  map[string]int
	colIdx  map[string]int
	cells   map[[2]int]float64
}

// NewAreaTable creates an empty table for a metric
func NewAreaTable(metric string) *AreaTable {
	return &AreaTable{
		Metric: metric,
		rowIdx: make(map[string]int),
		colIdx: make(map[string]int),
		cells:  make(map[[2]int]float64),
	}
}

// AddRow registers a row so that it is written even if it has no values
func (t *AreaTable) AddRow(row string) int {
	if i, ok := t.rowIdx[row]; ok {
		return i
	}
	t.rowIdx[row] = len(t.rows)
	t.rows = append(t.rows, row)
	return len(t.rows) - 1
}

// AddColumn registers a column so that it is written even if it has no values
func (t *AreaTable) AddColumn(col string) int {
	if i, ok := t.colIdx[col]; ok {
		return i
	}
	t.colIdx[col] = len(t.columns)
	t.columns = append(t.columns, col)
	return len(t.columns) - 1
}

// Set stores a value, registering the row and column if needed
func (t *AreaTable) Set(row, col string, value float64) {
	t.cells[[2]int{t.AddRow(row), t.AddColumn(col)}] = value
}

// SetMissing registers the row and column and leaves the cell absent
func (t *AreaTable) SetMissing(row, col string) {
	delete(t.cells, [2]int{t.AddRow(row), t.AddColumn(col)})
}

// Get returns the cell at (row, col)
func (t *AreaTable) Get(row, col string) Cell {
	i, ok := t.rowIdx[row]
	if !ok {
		return Cell{}
	}
	j, ok := t.colIdx[col]
	if !ok {
		return Cell{}
	}
	v, ok := t.cells[[2]int{i, j}]
	return Cell{Value: v, Present: ok}
}

// Rows returns the row labels in insertion order
func (t *AreaTable) Rows() []string {
	return append([]string(nil), t.rows...)
}

// Columns returns the column labels in insertion order
func (t *AreaTable) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Column returns the present values of a column in row order
func (t *AreaTable) Column(col string) []float64 {
	j, ok := t.colIdx[col]
	if !ok {
		return nil
	}
	values := make([]float64, 0, len(t.rows))
	for i := range t.rows {
		if v, ok := t.cells[[2]int{i, j}]; ok {
			values = append(values, v)
		}
	}
	return values
}

// WriteCSV writes the table with a header row of column labels. Absent cells
// are written empty and NaN as "NaN".
func (t *AreaTable) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	header := make([]string, 0, len(t.columns)+1)
	header = append(header, "")
	header = append(header, t.columns...)
	if err := writer.Write(header); err != nil {
		return err
	}

	record := make([]string, len(t.columns)+1)
	for i, row := range t.rows {
		record[0] = row
		for j := range t.columns {
			v, ok := t.cells[[2]int{i, j}]
			record[j+1] = formatValue(v, ok)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write %s table: %w", t.Metric, err)
	}
	return nil
}

func formatValue(v float64, present bool) string {
	switch {
	case !present:
		return ""
	case math.IsNaN(v):
		return "NaN"
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}
