package report

import (
	"time"

	"github.com/DjordjeVuckovic/benchplot/internal/experiment"
	"github.com/google/uuid"
)

type Meta struct {
	Suite     string
	OutputDir string
}

func Generate(results []*experiment.Result, meta Meta) *Report {
	r := &Report{
		Meta: RunMeta{
			RunID:       uuid.New(),
			Suite:       meta.Suite,
			OutputDir:   meta.OutputDir,
			Timestamp:   time.Now().UTC(),
			Environment: NewEnvironmentInfo(),
		},
		Experiments: make([]Entry, 0, len(results)),
	}

	for _, res := range results {
		entry := Entry{
			Experiment: res.Experiment,
			InputRows:  res.InputRows,
			KeptRows:   res.KeptRows,
			Dropped:    res.Dropped,
			Files:      make([]FileEntry, 0, len(res.Outputs)),
		}
		for _, o := range res.Outputs {
			entry.Files = append(entry.Files, FileEntry{
				Path:   o.Path,
				Split:  o.Split,
				Series: o.Series,
				Points: o.Points,
			})
		}
		r.Experiments = append(r.Experiments, entry)
	}

	r.Totals = totals(r.Experiments)
	return r
}

func totals(entries []Entry) Totals {
	t := Totals{Experiments: len(entries)}
	for _, e := range entries {
		t.Files += len(e.Files)
		t.Dropped += e.Dropped
		for _, f := range e.Files {
			t.Points += f.Points
		}
	}
	return t
}
