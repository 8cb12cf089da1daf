package experiment

import (
	"github.com/DjordjeVuckovic/benchplot/internal/chart"
	"github.com/DjordjeVuckovic/benchplot/internal/table"
)

type SourceType string

const (
	SourceCSV      SourceType = "csv"
	SourcePostgres SourceType = "postgres"
)

// Suite is a set of experiments rendered in one run.
type Suite struct {
	Name        string       `yaml:"name"`
	OutputDir   string       `yaml:"output_dir"`
	Experiments []Experiment `yaml:"experiments"`
}

type Experiment struct {
	Name   string `yaml:"name"`
	Source Source `yaml:"source"`

	X       string   `yaml:"x"`
	Y       string   `yaml:"y"`
	GroupBy string   `yaml:"group_by,omitempty"`
	SplitBy []string `yaml:"split_by,omitempty"`

	KeyOrder      table.KeyOrder  `yaml:"key_order,omitempty"`
	Policy        table.Policy    `yaml:"policy,omitempty"`
	Aggregate     chart.Aggregate `yaml:"aggregate,omitempty"`
	DeriveSpeedup *SpeedupSpec    `yaml:"derive_speedup,omitempty"`

	Kind       chart.Kind `yaml:"kind,omitempty"`
	LogX       bool       `yaml:"log_x,omitempty"`
	LogY       bool       `yaml:"log_y,omitempty"`
	PlainX     bool       `yaml:"plain_x,omitempty"`
	DataXTicks bool       `yaml:"data_x_ticks,omitempty"`
	XTicks     []TickSpec `yaml:"x_ticks,omitempty"`

	Title       string `yaml:"title,omitempty"`
	XLabel      string `yaml:"x_label,omitempty"`
	YLabel      string `yaml:"y_label,omitempty"`
	LegendTitle string `yaml:"legend_title,omitempty"`
	SeriesLabel string `yaml:"series_label,omitempty"`

	// Output is a file name template relative to the suite output directory.
	// Split values are substituted for {{column}} placeholders.
	Output string  `yaml:"output"`
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
	DPI    int     `yaml:"dpi,omitempty"`
}

type Source struct {
	Type  SourceType `yaml:"type"`
	Path  string     `yaml:"path,omitempty"`
	Query string     `yaml:"query,omitempty"`
}

type SpeedupSpec struct {
	ThreadsColumn string   `yaml:"threads_column"`
	TimeColumn    string   `yaml:"time_column"`
	PartitionBy   []string `yaml:"partition_by,omitempty"`
	Baseline      float64  `yaml:"baseline,omitempty"`
	Output        string   `yaml:"output,omitempty"`
}

type TickSpec struct {
	Value float64 `yaml:"value"`
	Label string  `yaml:"label"`
}

// Result describes what one experiment produced.
type Result struct {
	Experiment string
	InputRows  int
	KeptRows   int
	Dropped    int
	Outputs    []Output
}

type Output struct {
	Path   string
	Split  map[string]string
	Series int
	Points int
	// Chart is what was drawn to Path.
	Chart chart.Chart
}

func (r *Result) Points() int {
	n := 0
	for _, o := range r.Outputs {
		n += o.Points
	}
	return n
}
