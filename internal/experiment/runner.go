package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/DjordjeVuckovic/benchplot/internal/apperr"
	"github.com/DjordjeVuckovic/benchplot/internal/chart"
	"github.com/DjordjeVuckovic/benchplot/internal/table"
)

var ErrNoDatabase = errors.New("no database connection configured")

type Runner struct {
	dataDir   string
	outputDir string
	policy    table.Policy
	db        table.Querier
}

type Option func(*Runner)

// WithDataDir resolves relative CSV paths against dir.
func WithDataDir(dir string) Option {
	return func(r *Runner) { r.dataDir = dir }
}

// WithOutputDir overrides the output directory of every suite.
func WithOutputDir(dir string) Option {
	return func(r *Runner) { r.outputDir = dir }
}

// WithPolicy overrides the per-experiment parse failure policy.
func WithPolicy(p table.Policy) Option {
	return func(r *Runner) { r.policy = p }
}

func WithDB(db table.Querier) Option {
	return func(r *Runner) { r.db = db }
}

func New(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunAll renders the selected experiments in suite order and stops at the first
// failure. Results of experiments that completed before the failure are returned.
func (r *Runner) RunAll(ctx context.Context, s *Suite, only []string) ([]*Result, error) {
	exps, err := s.Select(only)
	if err != nil {
		return nil, err
	}

	outDir := s.OutputDir
	if r.outputDir != "" {
		outDir = r.outputDir
	}

	results := make([]*Result, 0, len(exps))
	for _, e := range exps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		slog.Info("Running experiment", "name", e.Name, "source", e.Source.Type)
		res, err := r.Run(ctx, e, outDir)
		if err != nil {
			return results, fmt.Errorf("experiment %s: %w", e.Name, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// Run loads, normalizes, groups and renders a single experiment.
func (r *Runner) Run(ctx context.Context, e Experiment, outDir string) (*Result, error) {
	src, err := r.source(e)
	if err != nil {
		return nil, err
	}
	raw, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	policy := e.Policy
	if r.policy != "" {
		policy = r.policy
	}
	t, _, err := table.Normalize(raw, policy, numericColumns(e)...)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	if d := e.DeriveSpeedup; d != nil {
		t, err = table.DeriveSpeedup(t, table.SpeedupConfig{
			ThreadsColumn: d.ThreadsColumn,
			TimeColumn:    d.TimeColumn,
			PartitionBy:   d.PartitionBy,
			Baseline:      d.Baseline,
			Output:        d.Output,
		})
		if err != nil {
			return nil, fmt.Errorf("derive speedup: %w", err)
		}
	}

	res := &Result{
		Experiment: e.Name,
		InputRows:  raw.Len(),
		KeptRows:   t.Len(),
		Dropped:    raw.Len() - t.Len(),
	}

	parts, err := table.Split(t, e.SplitBy...)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	if len(parts) == 0 {
		slog.Warn("No rows left to plot", "experiment", e.Name)
	}

	for _, p := range parts {
		out, err := r.renderPartition(e, p, outDir)
		if err != nil {
			return nil, err
		}
		res.Outputs = append(res.Outputs, *out)
	}
	return res, nil
}

func (r *Runner) renderPartition(e Experiment, p table.Partition, outDir string) (*Output, error) {
	g, err := table.GroupBy(p.Table, e.GroupBy, e.X, e.KeyOrder)
	if err != nil {
		return nil, fmt.Errorf("group: %w", err)
	}
	series, err := chart.BuildSeries(g, e.X, e.Y, e.Aggregate, e.SeriesLabel)
	if err != nil {
		return nil, fmt.Errorf("build series: %w", err)
	}

	title, err := Render(e.Title, p.Values)
	if err != nil {
		return nil, err
	}
	name, err := outputName(e.Output, p.Values)
	if err != nil {
		return nil, err
	}

	c := chart.Chart{
		Title:       title,
		XLabel:      e.XLabel,
		YLabel:      e.YLabel,
		LegendTitle: e.LegendTitle,
		Kind:        e.Kind,
		LogX:        e.LogX,
		LogY:        e.LogY,
		PlainX:      e.PlainX,
		DataXTicks:  e.DataXTicks,
		XTicks:      ticks(e.XTicks),
		Width:       e.Width,
		Height:      e.Height,
		DPI:         e.DPI,
		Series:      series,
	}

	path := filepath.Join(outDir, name)
	if err := chart.Render(c, path); err != nil {
		return nil, err
	}
	slog.Info("Chart written", "path", path, "series", len(series), "points", c.PointCount())

	return &Output{
		Path:   path,
		Split:  p.Values,
		Series: len(series),
		Points: c.PointCount(),
		Chart:  c,
	}, nil
}

// outputName renders the file name template for one partition. Split values
// must not move the file out of the output directory.
func outputName(tmpl string, values map[string]string) (string, error) {
	for _, col := range slices.Sorted(maps.Keys(values)) {
		v := values[col]
		if v == "." || v == ".." || strings.ContainsAny(v, `/\`) {
			return "", apperr.NewValidation(fmt.Sprintf("split value %q of column %q cannot be used in a file name", v, col))
		}
	}
	name, err := Render(tmpl, values)
	if err != nil {
		return "", err
	}
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return "", apperr.NewValidation(fmt.Sprintf("output %q leaves the output directory", name))
	}
	return name, nil
}

func (r *Runner) source(e Experiment) (table.Source, error) {
	switch e.Source.Type {
	case SourcePostgres:
		if r.db == nil {
			return nil, fmt.Errorf("postgres source: %w", ErrNoDatabase)
		}
		return table.PGSource{DB: r.db, Query: e.Source.Query}, nil
	default:
		path := filepath.FromSlash(e.Source.Path)
		if !filepath.IsAbs(path) && r.dataDir != "" {
			path = filepath.Join(r.dataDir, path)
		}
		return table.FileSource{Path: path}, nil
	}
}

// numericColumns lists the columns that must parse as numbers before plotting.
// A derived speedup column does not exist yet at this point.
func numericColumns(e Experiment) []string {
	cols := []string{e.X, e.Y}
	if d := e.DeriveSpeedup; d != nil {
		out := d.Output
		if out == "" {
			out = table.DefaultSpeedupColumn
		}
		cols = slices.DeleteFunc(cols, func(c string) bool { return c == out })
		cols = append(cols, d.ThreadsColumn, d.TimeColumn)
	}

	var uniq []string
	for _, c := range cols {
		if !slices.Contains(uniq, c) {
			uniq = append(uniq, c)
		}
	}
	return uniq
}

func ticks(specs []TickSpec) []chart.Tick {
	if len(specs) == 0 {
		return nil
	}
	out := make([]chart.Tick, len(specs))
	for i, s := range specs {
		out[i] = chart.Tick{Value: s.Value, Label: s.Label}
	}
	return out
}
