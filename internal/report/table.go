package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
)

func WriteTable(r *Report, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Benchmark Plots (%s) ===\n\n", r.Meta.Suite)

	header := []string{"Experiment", "File", "Split", "Series", "Points", "Dropped"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	for _, e := range r.Experiments {
		if len(e.Files) == 0 {
			row := []string{e.Experiment, "-", "-", "0", "0", fmtDropped(e)}
			fmt.Fprintln(tw, strings.Join(row, "\t"))
			continue
		}
		for i, f := range e.Files {
			dropped := ""
			if i == 0 {
				dropped = fmtDropped(e)
			}
			row := []string{
				e.Experiment,
				f.Path,
				fmtSplit(f.Split),
				fmt.Sprintf("%d", f.Series),
				fmt.Sprintf("%d", f.Points),
				dropped,
			}
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
	}

	fmt.Fprintf(tw, "\n%d experiments, %d files, %d points, %d rows dropped\n",
		r.Totals.Experiments, r.Totals.Files, r.Totals.Points, r.Totals.Dropped)

	tw.Flush()
}

func fmtDropped(e Entry) string {
	return fmt.Sprintf("%d/%d", e.Dropped, e.InputRows)
}

func fmtSplit(split map[string]string) string {
	if len(split) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(split))
	for k := range split {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + split[k]
	}
	return strings.Join(parts, ",")
}
