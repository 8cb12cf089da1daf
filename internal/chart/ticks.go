package chart

import (
	"slices"
	"strconv"

	"gonum.org/v1/plot"
)

// plainTicks keeps the positions chosen by Marker but prints full numbers
// instead of exponent notation.
type plainTicks struct {
	Marker plot.Ticker
}

func (t plainTicks) Ticks(min, max float64) []plot.Tick {
	ticks := t.Marker.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label == "" {
			continue
		}
		ticks[i].Label = strconv.FormatFloat(ticks[i].Value, 'f', -1, 64)
	}
	return ticks
}

// dataTicks places a labelled tick on every distinct x value of the chart.
func dataTicks(series []Series) plot.ConstantTicks {
	var xs []float64
	for _, s := range series {
		for _, p := range s.Points {
			xs = append(xs, p.X)
		}
	}
	slices.Sort(xs)
	xs = slices.Compact(xs)

	ticks := make([]plot.Tick, len(xs))
	for i, x := range xs {
		ticks[i] = plot.Tick{Value: x, Label: strconv.FormatFloat(x, 'f', -1, 64)}
	}
	return ticks
}

func constantTicks(ts []Tick) plot.ConstantTicks {
	ticks := make([]plot.Tick, len(ts))
	for i, t := range ts {
		ticks[i] = plot.Tick{Value: t.Value, Label: t.Label}
	}
	return ticks
}
