package table

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/benchplot/internal/apperr"
)

// Policy decides what happens to a row whose required numeric cell does not parse.
type Policy string

const (
	PolicyDrop   Policy = "drop"
	PolicyStrict Policy = "strict"
)

type NormalizeStats struct {
	Input    int
	Kept     int
	Dropped  int
	ByColumn map[string]int
}

// Normalize parses cols as numbers. Under PolicyDrop rows holding any invalid cell
// are removed, under PolicyStrict the first invalid cell is returned as an error.
// The input table is left untouched.
func Normalize(t *Table, policy Policy, cols ...string) (*Table, NormalizeStats, error) {
	stats := NormalizeStats{
		Input:    t.Len(),
		ByColumn: make(map[string]int),
	}
	if err := t.requireColumns(cols...); err != nil {
		return nil, stats, err
	}

	kept := make([]Row, 0, t.Len())
	for _, row := range t.Rows {
		valid := true
		for _, col := range cols {
			v, ok := ParseNumber(row.String(col))
			if !ok {
				if policy == PolicyStrict {
					return nil, stats, apperr.NewValidation(
						fmt.Sprintf("line %d: column %q: %q is not a number", row.Line, col, row.String(col)))
				}
				slog.Debug("Dropping row", "line", row.Line, "column", col, "value", row.String(col))
				stats.ByColumn[col]++
				valid = false
				break
			}
			row = row.withFloat(col, v)
		}
		if valid {
			kept = append(kept, row)
		}
	}

	stats.Kept = len(kept)
	stats.Dropped = stats.Input - stats.Kept
	if stats.Dropped > 0 {
		slog.Warn("Dropped rows with non-numeric values",
			"dropped", stats.Dropped, "input", stats.Input, "columns", stats.ByColumn)
	}

	return t.derive(kept), stats, nil
}

// ParseNumber accepts finite decimal or exponent notation. NaN, Inf and hex
// floats are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
