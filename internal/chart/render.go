package chart

import (
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var supportedFormats = map[string]bool{
	"png":  true,
	"svg":  true,
	"pdf":  true,
	"eps":  true,
	"jpg":  true,
	"jpeg": true,
	"tif":  true,
	"tiff": true,
}

// Render draws c and writes it to path, creating missing parent directories.
// The image format follows the file extension.
func Render(c Chart, path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !supportedFormats[format] {
		return fmt.Errorf("unsupported image format %q for %s", format, path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := Encode(c, f, format); err != nil {
		f.Close()
		return fmt.Errorf("write chart %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close chart file: %w", err)
	}
	return nil
}

// Encode writes c to w in the given format.
func Encode(c Chart, w io.Writer, format string) error {
	c = c.withDefaults()
	p, err := build(c)
	if err != nil {
		return err
	}

	width := vg.Length(c.Width) * vg.Inch
	height := vg.Length(c.Height) * vg.Inch

	if format == "png" {
		cnv := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(c.DPI))
		p.Draw(draw.New(cnv))
		if _, err := (vgimg.PngCanvas{Canvas: cnv}).WriteTo(w); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
		return nil
	}

	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("prepare %s writer: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

func build(c Chart) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel

	grid := plotter.NewGrid()
	grid.Vertical.Color = color.Gray{Y: 200}
	grid.Vertical.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	grid.Horizontal = grid.Vertical
	p.Add(grid)

	series := visibleSeries(c)

	if c.LogX {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	if c.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	switch {
	case len(c.XTicks) > 0:
		p.X.Tick.Marker = constantTicks(c.XTicks)
	case c.DataXTicks:
		p.X.Tick.Marker = dataTicks(series)
	case c.PlainX:
		p.X.Tick.Marker = plainTicks{Marker: p.X.Tick.Marker}
	}

	colors, err := Palette(len(series))
	if err != nil {
		return nil, err
	}

	p.Legend.Top = true
	if c.LegendTitle != "" && len(series) > 0 {
		p.Legend.Add(c.LegendTitle)
	}

	points := 0
	for i, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		points += len(s.Points)

		xys := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			xys[j].X = pt.X
			xys[j].Y = pt.Y
		}

		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Label, err)
		}
		sc.GlyphStyle.Color = colors[i]
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(3)

		if c.Kind == KindScatter {
			p.Add(sc)
			if s.Label != "" {
				p.Legend.Add(s.Label, sc)
			}
			continue
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Label, err)
		}
		line.LineStyle.Color = colors[i]
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line, sc)
		if s.Label != "" {
			p.Legend.Add(s.Label, line, sc)
		}
	}

	if points == 0 {
		slog.Warn("Chart has no data points", "title", c.Title)
	}
	if c.LogX {
		fitLogAxis(&p.X, axisValues(series, func(pt Point) float64 { return pt.X }))
	}
	if c.LogY {
		fitLogAxis(&p.Y, axisValues(series, func(pt Point) float64 { return pt.Y }))
	}

	return p, nil
}

// fitLogAxis keeps a log axis range strictly positive and non-empty. A single
// distinct value is widened by one decade on each side.
func fitLogAxis(a *plot.Axis, vals []float64) {
	if len(vals) == 0 {
		a.Min, a.Max = 1, 10
		return
	}
	lo, hi := floats.Min(vals), floats.Max(vals)
	if lo == hi {
		a.Min, a.Max = lo/10, hi*10
	}
}

func axisValues(series []Series, coord func(Point) float64) []float64 {
	var vals []float64
	for _, s := range series {
		for _, pt := range s.Points {
			vals = append(vals, coord(pt))
		}
	}
	return vals
}

// visibleSeries removes points a log axis cannot show.
func visibleSeries(c Chart) []Series {
	if !c.LogX && !c.LogY {
		return c.Series
	}

	out := make([]Series, len(c.Series))
	for i, s := range c.Series {
		pts := make([]Point, 0, len(s.Points))
		for _, pt := range s.Points {
			if (c.LogX && pt.X <= 0) || (c.LogY && pt.Y <= 0) {
				slog.Warn("Skipping non-positive point on log axis", "series", s.Label, "x", pt.X, "y", pt.Y)
				continue
			}
			pts = append(pts, pt)
		}
		out[i] = Series{Label: s.Label, Points: pts}
	}
	return out
}
