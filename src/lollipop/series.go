package lollipop

import (
	"image/color"
	"math"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/LollipopPlot/src/axis"
)

func toDrawing(c color.NRGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * math.Max(0, math.Min(1, alpha))))
	return c
}

// overlaySeries is embedded by every custom series: visible, primary Y axis, always valid.
type overlaySeries struct{ name string }

func (s overlaySeries) GetName() string           { return s.name }
func (s overlaySeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (s overlaySeries) GetStyle() chart.Style     { return chart.Style{} }
func (s overlaySeries) Validate() error           { return nil }

// markerSeries draws one glyph per point and no connecting line. mapX moves the
// point onto the primary axis (second series under linear scale).
type markerSeries struct {
	overlaySeries
	points []Point
	axis   Axis
	scale  float64 // radius multiplier (insets draw larger markers)
	dpi    float64
	mapX   func(float64) float64
	clip   bool
}

func (m *markerSeries) Render(r chart.Renderer, box chart.Box, xr, yr chart.Range, _ chart.Style) {
	for _, p := range m.points {
		x := p.X
		if m.mapX != nil {
			x = m.mapX(x)
		}
		if !inRange(m.axis, x) {
			continue
		}
		px := box.Left + xr.Translate(x)
		py := box.Bottom - yr.Translate(p.Y)
		if m.clip && (px < box.Left || px > box.Right || py <= box.Top || py >= box.Bottom) {
			continue
		}
		radius := axis.PointsToPixels(p.Radius*m.scale, m.dpi)
		drawGlyph(r, p.Shape, px, py, radius, toDrawing(p.Color))
	}
}

func drawGlyph(r chart.Renderer, shape Shape, px, py int, radius float64, c drawing.Color) {
	r.SetStrokeColor(c)
	r.SetFillColor(c)
	switch shape {
	case ShapeCross:
		d := int(math.Round(radius * 0.85))
		r.SetStrokeWidth(math.Max(1.5, radius/2.5))
		r.MoveTo(px-d, py-d)
		r.LineTo(px+d, py+d)
		r.Stroke()
		r.MoveTo(px-d, py+d)
		r.LineTo(px+d, py-d)
		r.Stroke()
	default:
		r.SetStrokeWidth(1)
		r.Circle(radius, px, py)
		r.FillStroke()
	}
	r.ResetStyle()
}

// connectorSeries draws the per-row segments. Connector ends are in second-series
// coordinates; toPrimary converts them for drawing.
type connectorSeries struct {
	overlaySeries
	connectors []Connector
	axis       Axis
	toPrimary  func(float64) float64
	clip       bool
}

func (c *connectorSeries) Render(r chart.Renderer, box chart.Box, xr, yr chart.Range, _ chart.Style) {
	for _, seg := range c.connectors {
		a, b := c.toPrimary(seg.From), c.toPrimary(seg.To)
		if !inRange(c.axis, a) || !inRange(c.axis, b) {
			a, b = clampTo(c.axis, a), clampTo(c.axis, b)
		}
		py := box.Bottom - yr.Translate(seg.Y)
		if c.clip && (py <= box.Top || py >= box.Bottom) {
			continue
		}
		x1, x2 := box.Left+xr.Translate(a), box.Left+xr.Translate(b)
		r.SetStrokeColor(toDrawing(colorHLine))
		r.SetStrokeWidth(1.5)
		r.MoveTo(x1, py)
		r.LineTo(x2, py)
		r.Stroke()
		r.ResetStyle()
	}
}

func clampTo(a Axis, v float64) float64 {
	return math.Max(a.Min, math.Min(a.Max, v))
}

// gridSeries draws vertical grid lines at the major ticks of an axis.
type gridSeries struct {
	overlaySeries
	axis Axis
}

func (g *gridSeries) Render(r chart.Renderer, box chart.Box, xr, _ chart.Range, _ chart.Style) {
	for _, t := range g.axis.Ticks {
		if !inRange(g.axis, t.Value) {
			continue
		}
		x := box.Left + xr.Translate(t.Value)
		r.SetStrokeColor(drawing.Color{R: 176, G: 176, B: 176, A: 255})
		r.SetStrokeWidth(0.8)
		r.MoveTo(x, box.Top)
		r.LineTo(x, box.Bottom)
		r.Stroke()
		r.ResetStyle()
	}
}

// frameSeries draws nothing; it records the plot box and ranges go-chart settled on.
type frameSeries struct {
	overlaySeries
	f *frame
}

func (p *frameSeries) Render(_ chart.Renderer, box chart.Box, xr, yr chart.Range, _ chart.Style) {
	p.f.box, p.f.xr, p.f.yr, p.f.ok = box, xr, yr, true
}

// textStyle sets font, size and colour on a renderer.
func textStyle(r chart.Renderer, f *truetype.Font, pt float64, c drawing.Color) {
	r.SetFont(f)
	r.SetFontSize(pt)
	r.SetFontColor(c)
}

// legendElement lays the entries out in one row spanning the plot width,
// centred vertically on cy.
func legendElement(entries []LegendEntry, f *truetype.Font, dpi float64, cy int) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, _ chart.Style) {
		if len(entries) == 0 {
			return
		}
		slot := float64(box.Width()) / float64(len(entries))
		radius := axis.PointsToPixels(math.Sqrt(markerArea*insetAreaFactor)/2, dpi)
		for i, e := range entries {
			x := box.Left + int(float64(i)*slot)
			drawGlyph(r, e.Shape, x+int(radius)+2, cy, radius, toDrawing(e.Color))
			textStyle(r, f, sizeLarge, toDrawing(withAlpha(color.NRGBA{A: 255}, e.TextAlpha)))
			tb := r.MeasureText(e.Label)
			r.Text(e.Label, x+int(2*radius)+8, cy+tb.Height()/2)
		}
		r.ResetStyle()
	}
}

// rowLabelElement writes one label per row left of the plot area, starting at
// row firstRow. A non-empty title is written vertically along the left edge.
func rowLabelElement(labels []string, firstRow int, title string, f *truetype.Font, pt float64, fr *frame) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, _ chart.Style) {
		if !fr.ok {
			return
		}
		textStyle(r, f, pt, drawing.ColorBlack)
		for i, label := range labels {
			tb := r.MeasureText(label)
			y := int(fr.Y(float64(firstRow + i)))
			r.Text(label, box.Left-6-tb.Width(), y+tb.Height()/2)
		}
		if title != "" {
			textStyle(r, f, sizeMedium, drawing.ColorBlack)
			tb := r.MeasureText(title)
			r.SetTextRotation(-math.Pi / 2)
			r.Text(title, 4+tb.Height(), box.Top+box.Height()/2+tb.Width()/2)
			r.ClearTextRotation()
		}
		r.ResetStyle()
	}
}

// twinAxisElement draws the second series' horizontal axis along the top of the
// plot. Tick values are second-series counts placed through toPrimary.
func twinAxisElement(twin Axis, toPrimary func(float64) float64, f *truetype.Font, fr *frame) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, _ chart.Style) {
		if !fr.ok {
			return
		}
		r.SetStrokeColor(drawing.ColorBlack)
		r.SetStrokeWidth(1)
		r.MoveTo(box.Left, box.Top)
		r.LineTo(box.Right, box.Top)
		r.Stroke()
		textStyle(r, f, sizeMedium, drawing.ColorBlack)
		labelH := 0
		for _, t := range twin.Ticks {
			x := int(fr.X(toPrimary(t.Value)))
			r.SetStrokeColor(drawing.ColorBlack)
			r.SetStrokeWidth(1)
			r.MoveTo(x, box.Top)
			r.LineTo(x, box.Top-5)
			r.Stroke()
			tb := r.MeasureText(t.Label)
			if tb.Height() > labelH {
				labelH = tb.Height()
			}
			r.Text(t.Label, x-tb.Width()/2, box.Top-8)
		}
		if twin.Title != "" {
			tb := r.MeasureText(twin.Title)
			r.Text(twin.Title, box.Left+(box.Width()-tb.Width())/2, box.Top-14-labelH)
		}
		r.ResetStyle()
	}
}
