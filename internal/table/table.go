package table

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrMalformedHeader = errors.New("malformed header")
	ErrUnknownColumn   = errors.New("unknown column")
)

// Row is a single observation. Raw holds the cell text by column name; numeric
// values are only present for columns that went through Normalize.
type Row struct {
	Line int
	raw  map[string]string
	num  map[string]float64
}

func NewRow(line int, raw map[string]string) Row {
	return Row{Line: line, raw: raw}
}

func (r Row) String(col string) string {
	return r.raw[col]
}

// Float returns the parsed value of a normalized column.
func (r Row) Float(col string) (float64, bool) {
	v, ok := r.num[col]
	return v, ok
}

func (r Row) withFloat(col string, v float64) Row {
	num := make(map[string]float64, len(r.num)+1)
	for k, x := range r.num {
		num[k] = x
	}
	num[col] = v
	r.num = num
	return r
}

type Table struct {
	Columns []string
	Rows    []Row
}

func (t *Table) Len() int {
	return len(t.Rows)
}

func (t *Table) HasColumn(col string) bool {
	return slices.Contains(t.Columns, col)
}

func (t *Table) requireColumns(cols ...string) error {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return fmt.Errorf("%w %q (have %v)", ErrUnknownColumn, c, t.Columns)
		}
	}
	return nil
}

// derive returns a table sharing the column layout of t with the given rows.
func (t *Table) derive(rows []Row) *Table {
	return &Table{
		Columns: slices.Clone(t.Columns),
		Rows:    rows,
	}
}
