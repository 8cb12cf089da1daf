package table

import (
	"log/slog"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

const DefaultSpeedupColumn = "speedup"

type SpeedupConfig struct {
	ThreadsColumn string
	TimeColumn    string
	PartitionBy   []string
	Baseline      float64
	Output        string
}

func (c SpeedupConfig) withDefaults() SpeedupConfig {
	if c.Baseline == 0 {
		c.Baseline = 1
	}
	if c.Output == "" {
		c.Output = DefaultSpeedupColumn
	}
	return c
}

// DeriveSpeedup adds cfg.Output = baseline_time / time to every row, where the
// baseline time is the mean time of the rows in the same partition whose thread
// count equals cfg.Baseline. Partitions without a usable baseline are dropped.
func DeriveSpeedup(t *Table, cfg SpeedupConfig) (*Table, error) {
	cfg = cfg.withDefaults()
	if err := t.requireColumns(cfg.ThreadsColumn, cfg.TimeColumn); err != nil {
		return nil, err
	}

	parts, err := Split(t, cfg.PartitionBy...)
	if err != nil {
		return nil, err
	}

	out := t.derive(nil)
	if !out.HasColumn(cfg.Output) {
		out.Columns = append(out.Columns, cfg.Output)
	}

	for _, p := range parts {
		var baseTimes []float64
		for _, r := range p.Table.Rows {
			threads, ok := numericValue(r, cfg.ThreadsColumn)
			if !ok || threads != cfg.Baseline {
				continue
			}
			if tm, ok := numericValue(r, cfg.TimeColumn); ok {
				baseTimes = append(baseTimes, tm)
			}
		}
		if len(baseTimes) == 0 {
			slog.Warn("No baseline rows, dropping partition",
				"partition", p.Values, "threads_column", cfg.ThreadsColumn, "baseline", cfg.Baseline)
			continue
		}
		base := stat.Mean(baseTimes, nil)
		if base <= 0 {
			slog.Warn("Non-positive baseline time, dropping partition", "partition", p.Values, "baseline_time", base)
			continue
		}

		for _, r := range p.Table.Rows {
			tm, ok := numericValue(r, cfg.TimeColumn)
			if !ok || tm <= 0 {
				slog.Warn("Cannot derive speedup", "line", r.Line, "time", r.String(cfg.TimeColumn))
				continue
			}
			out.Rows = append(out.Rows, r.withValue(cfg.Output, base/tm))
		}
	}

	slices.SortStableFunc(out.Rows, func(a, b Row) int { return a.Line - b.Line })
	return out, nil
}

func (r Row) withValue(col string, v float64) Row {
	raw := make(map[string]string, len(r.raw)+1)
	for k, s := range r.raw {
		raw[k] = s
	}
	raw[col] = strconv.FormatFloat(v, 'g', -1, 64)
	r.raw = raw
	return r.withFloat(col, v)
}

