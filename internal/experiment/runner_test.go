package experiment

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/benchplot/internal/apperr"
	"github.com/DjordjeVuckovic/benchplot/internal/chart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, filepath.Dir(name)), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func parseSuite(t *testing.T, yaml string) *Suite {
	t.Helper()
	s, err := Parse([]byte(yaml))
	require.NoError(t, err)
	return s
}

func TestRunner_UngroupedDropsBadRows(t *testing.T) {
	data := t.TempDir()
	out := t.TempDir()
	writeCSV(t, data, "results_ex1.csv", "i_max,time_seconds\n10,0.01\n100,0.05\n1000,\"bad\"\n")

	s := parseSuite(t, `
experiments:
  - name: ex1
    source: {path: results_ex1.csv}
    x: i_max
    y: time_seconds
    kind: scatter
    output: experiment_1.png
`)

	results, err := New(WithDataDir(data), WithOutputDir(out)).RunAll(t.Context(), s, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, 3, res.InputRows)
	assert.Equal(t, 2, res.KeptRows)
	assert.Equal(t, 1, res.Dropped)
	require.Len(t, res.Outputs, 1)
	assert.Equal(t, 1, res.Outputs[0].Series)
	assert.Equal(t, 2, res.Outputs[0].Points)
	assert.Equal(t, filepath.Join(out, "experiment_1.png"), res.Outputs[0].Path)
	assert.FileExists(t, res.Outputs[0].Path)

	drawn := res.Outputs[0].Chart
	require.Len(t, drawn.Series, 1)
	assert.Equal(t, []chart.Point{{X: 10, Y: 0.01}, {X: 100, Y: 0.05}}, drawn.Series[0].Points)
}

func TestRunner_SeriesPerScheduler(t *testing.T) {
	data := t.TempDir()
	out := t.TempDir()
	writeCSV(t, data, "results_ex3.csv", `scheduler,num_threads,time_seconds
static,8,0.8
dynamic,1,4.1
static,1,4.0
dynamic,8,0.9
static,2,2.0
dynamic,4,1.3
static,4,1.1
dynamic,2,2.2
`)

	s := parseSuite(t, `
experiments:
  - name: ex3
    source: {path: results_ex3.csv}
    x: num_threads
    y: time_seconds
    group_by: scheduler
    series_label: "Scheduler={{value}}"
    data_x_ticks: true
    output: experiment_3.png
`)

	r := New(WithDataDir(data))
	res, err := r.Run(t.Context(), s.Experiments[0], out)
	require.NoError(t, err)
	require.Len(t, res.Outputs, 1)
	assert.Equal(t, 2, res.Outputs[0].Series)
	assert.Equal(t, 8, res.Outputs[0].Points)

	drawn := res.Outputs[0].Chart
	require.Len(t, drawn.Series, 2)
	assert.Equal(t, "Scheduler=dynamic", drawn.Series[0].Label)
	assert.Equal(t, "Scheduler=static", drawn.Series[1].Label)
	for _, series := range drawn.Series {
		require.Len(t, series.Points, 4)
		xs := make([]float64, len(series.Points))
		for i, pt := range series.Points {
			xs[i] = pt.X
		}
		assert.Equal(t, []float64{1, 2, 4, 8}, xs)
	}
	assert.Equal(t, []chart.Point{{X: 1, Y: 4.1}, {X: 2, Y: 2.2}, {X: 4, Y: 1.3}, {X: 8, Y: 0.9}}, drawn.Series[0].Points)
}

func TestRunner_SplitWritesOneFilePerCombination(t *testing.T) {
	data := t.TempDir()
	out := t.TempDir()
	writeCSV(t, data, "results_ex2.csv", `i_max,t_max,num_threads,time_seconds,speedup
1000,100,1,0.4,1
1000,100,2,0.2,2
10000,100,1,4,1
10000,100,2,2.5,1.6
1000,1000,1,4,1
1000,1000,4,1,4
`)

	s := parseSuite(t, `
experiments:
  - name: ex2
    source: {path: results_ex2.csv}
    x: num_threads
    y: speedup
    split_by: [i_max, t_max]
    title: "Speedup vs Threads\n(i_max={{i_max}}, t_max={{t_max}})"
    output: "ex2_i{{i_max}}_t{{t_max}}.png"
    width: 4
    height: 3
    dpi: 50
`)

	results, err := New(WithDataDir(data), WithOutputDir(out)).RunAll(t.Context(), s, nil)
	require.NoError(t, err)

	var names []string
	for _, o := range results[0].Outputs {
		names = append(names, filepath.Base(o.Path))
		assert.FileExists(t, o.Path)
		assert.Equal(t, 2, o.Points)
	}
	assert.Equal(t, []string{"ex2_i1000_t100.png", "ex2_i1000_t1000.png", "ex2_i10000_t100.png"}, names)
	assert.Equal(t, map[string]string{"i_max": "1000", "t_max": "100"}, results[0].Outputs[0].Split)
}

func TestRunner_DerivedSpeedup(t *testing.T) {
	data := t.TempDir()
	out := t.TempDir()
	writeCSV(t, data, "times.csv", `i_max,num_threads,time_seconds
1000,1,8
1000,2,4
1000,4,2
2000,2,3
`)

	s := parseSuite(t, `
experiments:
  - name: derived
    source: {path: times.csv}
    x: num_threads
    y: speedup
    group_by: i_max
    derive_speedup:
      threads_column: num_threads
      time_column: time_seconds
      partition_by: [i_max]
    output: derived.png
`)

	res, err := New(WithDataDir(data)).Run(t.Context(), s.Experiments[0], out)
	require.NoError(t, err)
	assert.Equal(t, 4, res.InputRows)
	assert.Equal(t, 3, res.KeptRows)
	assert.Equal(t, 1, res.Outputs[0].Series)
	assert.Equal(t, 3, res.Outputs[0].Points)
}

func TestRunner_Errors(t *testing.T) {
	t.Run("missing input is fatal", func(t *testing.T) {
		s := parseSuite(t, `
experiments:
  - {name: a, source: {path: nope.csv}, x: i_max, y: time_seconds, output: a.png}
`)
		_, err := New(WithDataDir(t.TempDir()), WithOutputDir(t.TempDir())).RunAll(t.Context(), s, nil)
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.ErrorContains(t, err, "experiment a")
	})

	t.Run("strict policy override", func(t *testing.T) {
		data := t.TempDir()
		writeCSV(t, data, "a.csv", "i_max,time_seconds\n10,bad\n")
		s := parseSuite(t, `
experiments:
  - {name: a, source: {path: a.csv}, x: i_max, y: time_seconds, output: a.png}
`)
		_, err := New(WithDataDir(data), WithOutputDir(t.TempDir()), WithPolicy("strict")).RunAll(t.Context(), s, nil)
		var verr *apperr.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("unknown column", func(t *testing.T) {
		data := t.TempDir()
		writeCSV(t, data, "a.csv", "i_max,time_seconds\n10,1\n")
		s := parseSuite(t, `
experiments:
  - {name: a, source: {path: a.csv}, x: block_size, y: time_seconds, output: a.png}
`)
		_, err := New(WithDataDir(data), WithOutputDir(t.TempDir())).RunAll(t.Context(), s, nil)
		assert.ErrorContains(t, err, "block_size")
	})

	t.Run("postgres without database", func(t *testing.T) {
		s := parseSuite(t, `
experiments:
  - {name: a, source: {type: postgres, query: "SELECT 1"}, x: a, y: b, output: a.png}
`)
		_, err := New().RunAll(t.Context(), s, nil)
		assert.ErrorIs(t, err, ErrNoDatabase)
	})

	t.Run("split value with a path separator", func(t *testing.T) {
		data := t.TempDir()
		writeCSV(t, data, "a.csv", "variant,x,y\n../escape,1,2\nok,1,3\n")
		s := parseSuite(t, `
experiments:
  - {name: a, source: {path: a.csv}, x: x, y: y, split_by: [variant], output: "plot_{{variant}}.png"}
`)
		root := t.TempDir()
		out := filepath.Join(root, "plots")
		_, err := New(WithDataDir(data), WithOutputDir(out)).RunAll(t.Context(), s, nil)
		var verr *apperr.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.ErrorContains(t, err, "../escape")
		assert.NoFileExists(t, filepath.Join(root, "escape.png"))
	})

	t.Run("stops at first failure", func(t *testing.T) {
		data := t.TempDir()
		writeCSV(t, data, "ok.csv", "x,y\n1,2\n")
		s := parseSuite(t, `
experiments:
  - {name: ok, source: {path: ok.csv}, x: x, y: y, output: ok.png}
  - {name: broken, source: {path: missing.csv}, x: x, y: y, output: broken.png}
  - {name: never, source: {path: ok.csv}, x: x, y: y, output: never.png}
`)
		out := t.TempDir()
		results, err := New(WithDataDir(data), WithOutputDir(out)).RunAll(t.Context(), s, nil)
		require.Error(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "ok", results[0].Experiment)
		assert.NoFileExists(t, filepath.Join(out, "never.png"))
	})
}

func TestRunner_OnlySelected(t *testing.T) {
	data := t.TempDir()
	writeCSV(t, data, "a.csv", "x,y\n1,2\n")
	s := parseSuite(t, `
experiments:
  - {name: first, source: {path: a.csv}, x: x, y: y, output: first.png}
  - {name: second, source: {path: a.csv}, x: x, y: y, output: second.png}
`)
	out := t.TempDir()

	results, err := New(WithDataDir(data), WithOutputDir(out)).RunAll(t.Context(), s, []string{"second"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NoFileExists(t, filepath.Join(out, "first.png"))
	assert.FileExists(t, filepath.Join(out, "second.png"))
}

func TestRunner_PresetRunIsDeterministic(t *testing.T) {
	data := t.TempDir()
	writeCSV(t, data, "OpenMP_impl/results_ex3.csv", `num_threads,i_max,t_max,scheduler,time_seconds,normalized_time
1,1000000,1000,static,4.0,4e-9
2,1000000,1000,static,2.1,2.1e-9
1,1000000,1000,dynamic,4.2,4.2e-9
2,1000000,1000,dynamic,2.3,2.3e-9
`)
	s, err := Preset(PresetAll)
	require.NoError(t, err)

	run := func() []byte {
		out := t.TempDir()
		results, err := New(WithDataDir(data), WithOutputDir(out)).RunAll(t.Context(), s, []string{"openmp_ex3"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 2, results[0].Outputs[0].Series)
		b, err := os.ReadFile(filepath.Join(out, "openmp_experiment_3.png"))
		require.NoError(t, err)
		return b
	}

	first, second := run(), run()
	assert.True(t, bytes.Equal(first, second))
}

func TestOutputName(t *testing.T) {
	cases := []struct {
		name    string
		tmpl    string
		values  map[string]string
		want    string
		wantErr bool
	}{
		{name: "plain", tmpl: "ex1.png", want: "ex1.png"},
		{name: "split values", tmpl: "ex2_i{{i_max}}_t{{t_max}}.png", values: map[string]string{"i_max": "1000", "t_max": "100"}, want: "ex2_i1000_t100.png"},
		{name: "subdirectory in template", tmpl: "pthreads/ex1.png", want: "pthreads/ex1.png"},
		{name: "slash in value", tmpl: "{{v}}.png", values: map[string]string{"v": "a/b"}, wantErr: true},
		{name: "backslash in value", tmpl: "{{v}}.png", values: map[string]string{"v": `a\b`}, wantErr: true},
		{name: "dot dot value", tmpl: "{{v}}/x.png", values: map[string]string{"v": ".."}, wantErr: true},
		{name: "template leaves directory", tmpl: "../x.png", wantErr: true},
		{name: "absolute template", tmpl: "/tmp/x.png", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := outputName(tc.tmpl, tc.values)
			if tc.wantErr {
				assert.True(t, apperr.IsValidation(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
