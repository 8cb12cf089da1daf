package chart

import (
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/benchplot/internal/table"
	"gonum.org/v1/gonum/stat"
)

type Aggregate string

const (
	AggregateNone Aggregate = "none"
	AggregateMean Aggregate = "mean"
)

// LabelPlaceholder is replaced by the group key in series label formats.
const LabelPlaceholder = "{{value}}"

// BuildSeries turns every group into one series of (x, y) points. Groups are
// expected to be sorted by x already.
func BuildSeries(g *table.Grouped, x, y string, agg Aggregate, labelFormat string) ([]Series, error) {
	series := make([]Series, 0, len(g.Groups))
	for _, grp := range g.Groups {
		pts := make([]Point, 0, len(grp.Rows))
		for _, r := range grp.Rows {
			xv, ok := r.Float(x)
			if !ok {
				return nil, fmt.Errorf("line %d: column %q is not numeric", r.Line, x)
			}
			yv, ok := r.Float(y)
			if !ok {
				return nil, fmt.Errorf("line %d: column %q is not numeric", r.Line, y)
			}
			pts = append(pts, Point{X: xv, Y: yv})
		}
		if agg == AggregateMean {
			pts = meanByX(pts)
		}
		series = append(series, Series{
			Label:  seriesLabel(labelFormat, grp.Key),
			Points: pts,
		})
	}
	return series, nil
}

func seriesLabel(format, key string) string {
	if format == "" {
		return key
	}
	return strings.ReplaceAll(format, LabelPlaceholder, key)
}

// meanByX collapses runs of equal x into one point at the mean y.
func meanByX(pts []Point) []Point {
	out := make([]Point, 0, len(pts))
	for i := 0; i < len(pts); {
		j := i
		ys := make([]float64, 0, 1)
		for j < len(pts) && pts[j].X == pts[i].X {
			ys = append(ys, pts[j].Y)
			j++
		}
		out = append(out, Point{X: pts[i].X, Y: stat.Mean(ys, nil)})
		i = j
	}
	return out
}
