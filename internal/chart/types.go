package chart

type Kind string

const (
	KindLine    Kind = "line"
	KindScatter Kind = "scatter"
)

const (
	DefaultWidth  = 10.0
	DefaultHeight = 6.0
	DefaultDPI    = 200
)

type Point struct {
	X float64
	Y float64
}

type Series struct {
	Label  string
	Points []Point
}

type Tick struct {
	Value float64
	Label string
}

// Chart describes one figure. Width and Height are in inches.
type Chart struct {
	Title       string
	XLabel      string
	YLabel      string
	LegendTitle string
	Kind        Kind
	LogX        bool
	LogY        bool
	PlainX      bool
	DataXTicks  bool
	XTicks      []Tick
	Width       float64
	Height      float64
	DPI         int
	Series      []Series
}

func (c Chart) PointCount() int {
	n := 0
	for _, s := range c.Series {
		n += len(s.Points)
	}
	return n
}

func (c Chart) withDefaults() Chart {
	if c.Kind == "" {
		c.Kind = KindLine
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.DPI <= 0 {
		c.DPI = DefaultDPI
	}
	return c
}
