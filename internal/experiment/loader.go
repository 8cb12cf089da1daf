package experiment

import (
	"fmt"
	"os"
	"slices"

	"github.com/DjordjeVuckovic/benchplot/internal/apperr"
	"github.com/DjordjeVuckovic/benchplot/internal/chart"
	"github.com/DjordjeVuckovic/benchplot/internal/table"
	"gopkg.in/yaml.v3"
)

const DefaultOutputDir = "experiment_plots"

func LoadFromFile(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, apperr.NewValidationWrap("parse suite YAML", err)
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

var (
	validKinds      = []chart.Kind{chart.KindLine, chart.KindScatter}
	validOrders     = []table.KeyOrder{table.OrderAscending, table.OrderFirstSeen}
	validPolicies   = []table.Policy{table.PolicyDrop, table.PolicyStrict}
	validAggregates = []chart.Aggregate{chart.AggregateNone, chart.AggregateMean}
)

func validate(s *Suite) error {
	if len(s.Experiments) == 0 {
		return apperr.NewValidation("suite has no experiments")
	}
	if s.OutputDir == "" {
		s.OutputDir = DefaultOutputDir
	}

	seen := make(map[string]bool, len(s.Experiments))
	for i := range s.Experiments {
		e := &s.Experiments[i]
		if e.Name == "" {
			return apperr.NewValidation(fmt.Sprintf("experiment at index %d has no name", i))
		}
		if seen[e.Name] {
			return apperr.NewValidation(fmt.Sprintf("duplicate experiment name %q", e.Name))
		}
		seen[e.Name] = true

		if err := validateExperiment(e); err != nil {
			return apperr.NewValidationWrap(fmt.Sprintf("experiment %q", e.Name), err)
		}
	}
	return nil
}

func validateExperiment(e *Experiment) error {
	applyDefaults(e)

	switch e.Source.Type {
	case SourceCSV:
		if e.Source.Path == "" {
			return fmt.Errorf("csv source has no path")
		}
	case SourcePostgres:
		if e.Source.Query == "" {
			return fmt.Errorf("postgres source has no query")
		}
	default:
		return fmt.Errorf("invalid source type %q", e.Source.Type)
	}

	if e.X == "" {
		return fmt.Errorf("no x column")
	}
	if e.Y == "" {
		return fmt.Errorf("no y column")
	}
	if !slices.Contains(validKinds, e.Kind) {
		return fmt.Errorf("invalid kind %q", e.Kind)
	}
	if !slices.Contains(validOrders, e.KeyOrder) {
		return fmt.Errorf("invalid key_order %q", e.KeyOrder)
	}
	if !slices.Contains(validPolicies, e.Policy) {
		return fmt.Errorf("invalid policy %q", e.Policy)
	}
	if !slices.Contains(validAggregates, e.Aggregate) {
		return fmt.Errorf("invalid aggregate %q", e.Aggregate)
	}
	if e.Width < 0 || e.Height < 0 || e.DPI < 0 {
		return fmt.Errorf("width, height and dpi must not be negative")
	}

	if e.Output == "" {
		return fmt.Errorf("no output")
	}
	outVars := Placeholders(e.Output)
	for _, col := range e.SplitBy {
		if !slices.Contains(outVars, col) {
			return fmt.Errorf("output %q must contain {{%s}} because the experiment is split by it", e.Output, col)
		}
	}
	for _, tmpl := range []string{e.Output, e.Title} {
		for _, v := range Placeholders(tmpl) {
			if !slices.Contains(e.SplitBy, v) {
				return fmt.Errorf("placeholder {{%s}} in %q is not a split_by column", v, tmpl)
			}
		}
	}

	if d := e.DeriveSpeedup; d != nil {
		if d.ThreadsColumn == "" || d.TimeColumn == "" {
			return fmt.Errorf("derive_speedup needs threads_column and time_column")
		}
	}
	return nil
}

func applyDefaults(e *Experiment) {
	if e.Source.Type == "" {
		e.Source.Type = SourceCSV
	}
	if e.Kind == "" {
		e.Kind = chart.KindLine
	}
	if e.KeyOrder == "" {
		e.KeyOrder = table.OrderAscending
	}
	if e.Policy == "" {
		e.Policy = table.PolicyDrop
	}
	if e.Aggregate == "" {
		e.Aggregate = chart.AggregateNone
	}
	if e.XLabel == "" {
		e.XLabel = e.X
	}
	if e.YLabel == "" {
		e.YLabel = e.Y
	}
	if e.Title == "" {
		e.Title = fmt.Sprintf("%s vs %s", e.Y, e.X)
	}
}

// Select returns the experiments named in only, in suite order. An empty list
// selects everything.
func (s *Suite) Select(only []string) ([]Experiment, error) {
	if len(only) == 0 {
		return s.Experiments, nil
	}

	var out []Experiment
	for _, name := range only {
		if !slices.ContainsFunc(s.Experiments, func(e Experiment) bool { return e.Name == name }) {
			return nil, apperr.NewValidation(fmt.Sprintf("unknown experiment %q", name))
		}
	}
	for _, e := range s.Experiments {
		if slices.Contains(only, e.Name) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Suite) Names() []string {
	names := make([]string, len(s.Experiments))
	for i, e := range s.Experiments {
		names[i] = e.Name
	}
	return names
}
