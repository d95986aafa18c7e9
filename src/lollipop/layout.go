package lollipop

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/iafilius/LollipopPlot/src/axis"
	"github.com/iafilius/LollipopPlot/src/table"
)

var (
	colorBase   = color.NRGBA{R: 135, G: 206, B: 235, A: 255} // skyblue
	colorAccent = color.NRGBA{R: 255, G: 165, B: 0, A: 255}   // orange
	colorLink   = color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	colorHLine  = color.NRGBA{R: 128, G: 128, B: 128, A: 77} // 30% grey
)

const (
	markerArea      = 40.0 // pt^2, as a scatter "s" value
	insetAreaFactor = 4.0
	dimAlpha        = 0.35
	linearHeadCN    = 10.0
	linearHeadNeuro = 100.0
)

// Shape is a marker glyph.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeCross
)

// Tick is one labelled position on an axis.
type Tick struct {
	Value float64 `yaml:"value"`
	Label string  `yaml:"label"`
}

// Axis describes one horizontal scale.
type Axis struct {
	Log   bool    `yaml:"log"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Ticks []Tick  `yaml:"ticks"`
	Title string  `yaml:"title"`
}

// Point is one marker in data coordinates of its own series' axis.
type Point struct {
	Row    int         `yaml:"row"`
	X      float64     `yaml:"x"`
	Y      float64     `yaml:"y"`
	Shape  Shape       `yaml:"shape"`
	Color  color.NRGBA `yaml:"-"`
	Radius float64     `yaml:"radius_pt"`
}

// Connector joins the two points of a row, in second-series axis coordinates.
type Connector struct {
	Row  int     `yaml:"row"`
	Y    float64 `yaml:"y"`
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
}

// InsetAnnotation is the flag and value label drawn next to one inset row.
type InsetAnnotation struct {
	Row        int     `yaml:"row"`
	Code       string  `yaml:"code"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Text       string  `yaml:"text"`
	HasSecond  bool    `yaml:"has_second"`
	SecondX    float64 `yaml:"second_x"` // primary-axis coordinates
	SecondText string  `yaml:"second_text"`
}

// InsetLayout is one zoomed panel. X bounds are in primary-axis coordinates.
type InsetLayout struct {
	Selector    string            `yaml:"selector"`
	Loc         string            `yaml:"loc"`
	Lo          int               `yaml:"lo"`
	Hi          int               `yaml:"hi"`
	XMin        float64           `yaml:"x_min"`
	XMax        float64           `yaml:"x_max"`
	YMin        float64           `yaml:"y_min"`
	YMax        float64           `yaml:"y_max"`
	Labels      []string          `yaml:"labels"`
	Annotations []InsetAnnotation `yaml:"annotations"`

	loc Loc
}

// Highlight is a flagged row on the main plot.
type Highlight struct {
	Row       int         `yaml:"row"`
	Name      string      `yaml:"name"`
	Code      string      `yaml:"code"`
	X         float64     `yaml:"x"`        // arrow target, just left of the first point
	AnchorX   float64     `yaml:"anchor_x"` // where the icon sits
	Y         float64     `yaml:"y"`
	ValueText string      `yaml:"value"`
	Bold      bool        `yaml:"bold"`
	Alpha     float64     `yaml:"alpha"`
	Accent    color.NRGBA `yaml:"-"`
}

// LegendEntry is one item in the legend row.
type LegendEntry struct {
	Label     string      `yaml:"label"`
	Shape     Shape       `yaml:"shape"`
	Color     color.NRGBA `yaml:"-"`
	TextAlpha float64     `yaml:"text_alpha"`
}

// Layout is everything a chart shows, computed before any drawing.
type Layout struct {
	Rows int     `yaml:"rows"`
	YMin float64 `yaml:"y_min"`
	YMax float64 `yaml:"y_max"`

	// Primary carries the first series. Twin carries the second series under
	// linear scale and is nil when both share Primary.
	Primary Axis    `yaml:"primary"`
	Twin    *Axis   `yaml:"twin,omitempty"`
	Factor  float64 `yaml:"factor"`

	First  []Point `yaml:"-"`
	Second []Point `yaml:"-"`

	Connectors []Connector   `yaml:"connectors,omitempty"`
	Insets     []InsetLayout `yaml:"insets"`
	Highlights []Highlight   `yaml:"highlights,omitempty"`
	Legend     []LegendEntry `yaml:"legend"`

	RowLabels  []string `yaml:"row_labels,omitempty"`
	RowsTitle  string   `yaml:"rows_title,omitempty"`
	InsetScale float64  `yaml:"-"`
}

// ToPrimary maps a second-series value onto the primary axis.
func (l *Layout) ToPrimary(v float64) float64 {
	if l.Twin == nil {
		return v
	}
	return v / l.Factor
}

// Build computes the layout for t. It fails only when a configured row
// reference does not resolve.
func Build(t *table.Table, opts Options) (*Layout, error) {
	opts = opts.withDefaults()
	n := t.Len()
	l := &Layout{Rows: n, YMin: 0, YMax: float64(n), InsetScale: math.Sqrt(insetAreaFactor)}

	cnLim, neuroLim := t.MaxCN(), t.MaxNeuro()
	if !opts.Log {
		neuroLim += linearHeadNeuro
		cnLim += linearHeadCN
	}
	l.Factor = 1
	if cnLim > 0 {
		l.Factor = neuroLim / cnLim
	}

	if opts.Log {
		l.Primary = logAxis(opts.MinX, math.Max(cnLim, neuroLim), "Number of Publications")
	} else {
		l.Primary = linearAxis(cnLim, "Number of "+opts.SeriesNames[0]+" Publications")
		twin := linearAxis(neuroLim, "# "+opts.SeriesNames[1]+" Publications")
		l.Twin = &twin
		l.RowsTitle = "Country Code"
		for _, r := range t.Rows() {
			l.RowLabels = append(l.RowLabels, r.Name+" ("+r.Code+")")
		}
	}

	radius := math.Sqrt(markerArea) / 2
	for i, r := range t.Rows() {
		c := colorBase
		if r.Region == opts.HighlightRegion {
			c = colorAccent
		}
		l.First = append(l.First, Point{Row: i, X: float64(r.CountCN), Y: float64(i), Shape: ShapeCircle, Color: c, Radius: radius})
		l.Second = append(l.Second, Point{Row: i, X: float64(r.CountNeuro), Y: float64(i), Shape: ShapeCross, Color: c, Radius: radius})
	}

	if opts.HLines {
		for i, r := range t.Rows() {
			l.Connectors = append(l.Connectors, connectorFor(i, r, opts.Log, l.Factor))
		}
	}

	for i, sel := range opts.Insets {
		in, err := buildInset(t, l, sel, opts, opts.insetLoc(i))
		if err != nil {
			return nil, fmt.Errorf("inset %d (%s): %w", i, sel, err)
		}
		l.Insets = append(l.Insets, in)
	}

	hs, err := buildHighlights(t, l, opts)
	if err != nil {
		return nil, err
	}
	l.Highlights = hs

	l.Legend = []LegendEntry{
		{Label: opts.SeriesNames[0], Shape: ShapeCircle, Color: colorBase, TextAlpha: 1},
		{Label: opts.SeriesNames[1], Shape: ShapeCross, Color: colorBase, TextAlpha: 1},
		{Label: opts.HighlightRegion, Shape: ShapeCircle, Color: colorAccent, TextAlpha: 1},
		{Label: opts.RestLabel, Shape: ShapeCircle, Color: colorBase, TextAlpha: dimAlpha},
	}
	return l, nil
}

// connectorFor normalises the first count onto the second series' axis when the
// two axes differ.
func connectorFor(i int, r table.Row, log bool, factor float64) Connector {
	from := float64(r.CountCN)
	if !log {
		from *= factor
	}
	return Connector{Row: i, Y: float64(i), From: from, To: float64(r.CountNeuro)}
}

func logAxis(min, dataMax float64, title string) Axis {
	max := dataMax * 1.25
	if max <= min*10 {
		max = min * 10
	}
	a := Axis{Log: true, Min: min, Max: max, Title: title}
	for _, v := range axis.BuildLogTicks(min, max) {
		a.Ticks = append(a.Ticks, Tick{Value: v, Label: axis.FormatPlain(v)})
	}
	return a
}

func linearAxis(lim float64, title string) Axis {
	if lim <= 0 {
		lim = 1
	}
	a := Axis{Min: 0, Max: lim, Title: title}
	for _, v := range axis.BuildTicksWithin(0, lim, 6) {
		a.Ticks = append(a.Ticks, Tick{Value: v, Label: axis.FormatCount(v)})
	}
	return a
}

func buildInset(t *table.Table, l *Layout, sel InsetSelector, opts Options, loc Loc) (InsetLayout, error) {
	lo, hi, err := sel.Window(t, opts.NumInZoom)
	if err != nil {
		return InsetLayout{}, err
	}
	in := InsetLayout{Selector: sel.String(), Loc: loc.String(), loc: loc, Lo: lo, Hi: hi}
	if hi <= lo {
		return in, nil
	}
	var xs []float64
	for i := lo; i < hi; i++ {
		r := t.Row(i)
		xs = append(xs, float64(r.CountCN))
		if l.Twin != nil {
			xs = append(xs, l.ToPrimary(float64(r.CountNeuro)))
		}
		ann := InsetAnnotation{
			Row:  i,
			Code: r.Code,
			X:    float64(r.CountCN),
			Y:    float64(i),
			Text: strconv.Itoa(r.CountCN),
		}
		if l.Twin != nil {
			ann.HasSecond = true
			ann.SecondX = l.ToPrimary(float64(r.CountNeuro))
			ann.SecondText = strconv.Itoa(r.CountNeuro)
		}
		in.Labels = append(in.Labels, r.Name)
		in.Annotations = append(in.Annotations, ann)
	}
	x1, x2 := floats.Min(xs), floats.Max(xs)
	in.XMin = x1 - x1/10
	in.XMax = x2 + x2/4
	if l.Primary.Log && in.XMin < opts.MinX {
		in.XMin = opts.MinX
	}
	if in.XMax <= in.XMin {
		in.XMax = in.XMin + 1
	}
	in.YMin = float64(lo) - 1
	in.YMax = float64(hi-1) + 1
	return in, nil
}

func buildHighlights(t *table.Table, l *Layout, opts Options) ([]Highlight, error) {
	bold := map[int]bool{}
	for _, ref := range opts.BoldLabels {
		i, err := ref.Resolve(t)
		if err != nil {
			return nil, fmt.Errorf("bold label %s: %w", ref, err)
		}
		bold[i] = true
	}
	var out []Highlight
	for _, ref := range opts.Labels {
		i, err := ref.Resolve(t)
		if err != nil {
			return nil, fmt.Errorf("label %s: %w", ref, err)
		}
		r := t.Row(i)
		x := float64(r.CountCN)
		h := Highlight{
			Row:       i,
			Name:      r.Name,
			Code:      r.Code,
			X:         x - x/20,
			AnchorX:   l.Primary.Min,
			Y:         float64(i),
			ValueText: strconv.FormatFloat(x, 'g', 6, 64),
			Bold:      bold[i],
			Alpha:     dimAlpha,
			Accent:    colorBase,
		}
		if h.Bold {
			h.Alpha = 1
			h.Accent = colorAccent
		}
		out = append(out, h)
	}
	return out, nil
}
