package lollipop

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/iafilius/LollipopPlot/src/logging"
)

// Inset plot area limits, in pixels and as fractions of the main plot.
const (
	insetMinW     = 80
	insetMinH     = 40
	insetMaxWFrac = 0.4
	insetMaxHFrac = 0.3
)

// align splits a Loc into horizontal and vertical alignment: -1 left/upper,
// 0 centre, 1 right/lower.
func (l Loc) align() (h, v int) {
	switch l {
	case LocUpperLeft:
		return -1, -1
	case LocUpperCenter:
		return 0, -1
	case LocUpperRight:
		return 1, -1
	case LocCenterLeft:
		return -1, 0
	case LocCenterRight:
		return 1, 0
	case LocLowerLeft:
		return -1, 1
	case LocLowerCenter:
		return 0, 1
	case LocLowerRight:
		return 1, 1
	}
	return 0, 0
}

// placeInset returns the top-left corner for an image of size anchored at loc
// inside area, pad pixels from the edges it is aligned to.
func placeInset(loc Loc, area image.Rectangle, size image.Point, pad int) image.Point {
	h, v := loc.align()
	x := area.Min.X + (area.Dx()-size.X)/2
	switch h {
	case -1:
		x = area.Min.X + pad
	case 1:
		x = area.Max.X - pad - size.X
	}
	y := area.Min.Y + (area.Dy()-size.Y)/2
	switch v {
	case -1:
		y = area.Min.Y + pad
	case 1:
		y = area.Max.Y - pad - size.Y
	}
	return image.Pt(x, y)
}

func clampF(v, lo, hi float64) float64 { return math.Min(math.Max(v, lo), hi) }

func boxRect(b chart.Box) image.Rectangle { return image.Rect(b.Left, b.Top, b.Right, b.Bottom) }

// sourceRegion is the part of the main plot an inset magnifies.
func (rc *renderer) sourceRegion(fr *frame, in *InsetLayout) image.Rectangle {
	p := rc.layout.Primary
	x1 := fr.X(clampTo(p, in.XMin))
	x2 := fr.X(clampTo(p, in.XMax))
	y1 := fr.Y(math.Min(in.YMax, rc.layout.YMax))
	y2 := fr.Y(math.Max(in.YMin, rc.layout.YMin))
	r := image.Rect(int(x1), int(y1), int(math.Ceil(x2)), int(math.Ceil(y2)))
	return r.Intersect(boxRect(fr.box))
}

// renderInset draws the zoomed chart for one inset and returns it with the
// frame of its plot area.
func (rc *renderer) renderInset(in *InsetLayout, plotW, plotH int) (image.Image, *frame, error) {
	l := rc.layout
	ax := Axis{Log: l.Primary.Log, Min: in.XMin, Max: in.XMax}
	ifr := &frame{}

	labelFace := rc.faces.face(sizeSmall)
	gutter := 8
	for _, s := range in.Labels {
		gutter = max(gutter, measure(labelFace, s)+10)
	}

	var series []chart.Series
	if len(l.Connectors) > 0 {
		series = append(series, &connectorSeries{
			overlaySeries: overlaySeries{name: "connectors"},
			connectors:    l.Connectors,
			axis:          ax,
			toPrimary:     l.ToPrimary,
			clip:          true,
		})
	}
	series = append(series,
		&markerSeries{overlaySeries: overlaySeries{name: "first"}, points: l.First, axis: ax, scale: l.InsetScale, dpi: rc.opts.DPI, clip: true},
		&markerSeries{overlaySeries: overlaySeries{name: "second"}, points: l.Second, axis: ax, scale: l.InsetScale, dpi: rc.opts.DPI, mapX: l.ToPrimary, clip: true},
		&frameSeries{overlaySeries: overlaySeries{name: "frame"}, f: ifr},
	)

	ch := chart.Chart{
		Width:      gutter + plotW + 2,
		Height:     plotH + 4,
		DPI:        rc.opts.DPI,
		Font:       rc.font,
		Background: chart.Style{Padding: chart.Box{Top: 2, Left: gutter, Right: 2, Bottom: 2}},
		XAxis: chart.XAxis{
			Style: chart.Style{Hidden: true},
			Range: newRange(ax),
		},
		YAxis:          chart.YAxis{Style: chart.Style{Hidden: true}, Range: &chart.ContinuousRange{Min: in.YMin, Max: in.YMax}},
		YAxisSecondary: chart.YAxis{Style: chart.Style{Hidden: true}},
		Series:         series,
		Elements:       []chart.Renderable{rowLabelElement(in.Labels, in.Lo, "", rc.font, sizeSmall, ifr)},
	}
	img, err := renderChart(&ch)
	if err != nil {
		return nil, nil, err
	}
	if !ifr.ok {
		return nil, nil, errors.New("plot area was not laid out")
	}
	return img, ifr, nil
}

// drawInset renders one inset, links it to its source region and pastes it
// onto dc together with its flags and value labels.
func (rc *renderer) drawInset(dc *gg.Context, fr *frame, in *InsetLayout) error {
	if in.Hi <= in.Lo {
		logging.Debugf("inset %s has no rows", in.Selector)
		return nil
	}
	src := rc.sourceRegion(fr, in)
	area := boxRect(fr.box)
	plotW := int(clampF(float64(src.Dx())*rc.opts.ZoomFactor, insetMinW, insetMaxWFrac*float64(area.Dx())))
	plotH := int(clampF(float64(src.Dy())*rc.opts.ZoomFactor, insetMinH, insetMaxHFrac*float64(area.Dy())))

	img, ifr, err := rc.renderInset(in, plotW, plotH)
	if err != nil {
		return err
	}
	at := placeInset(in.loc, area, img.Bounds().Size(), int(rc.pt(5)))
	plot := boxRect(ifr.box).Add(at)

	// Mark the source region and link it to the inset before pasting, so the
	// inset covers the lines where they cross it.
	dc.SetColor(colorLink)
	dc.SetLineWidth(1)
	dc.DrawRectangle(float64(src.Min.X), float64(src.Min.Y), float64(src.Dx()), float64(src.Dy()))
	dc.Stroke()
	dc.DrawLine(float64(src.Min.X), float64(src.Min.Y), float64(plot.Min.X), float64(plot.Min.Y))
	dc.DrawLine(float64(src.Min.X), float64(src.Max.Y), float64(plot.Min.X), float64(plot.Max.Y))
	dc.Stroke()

	dc.DrawImage(img, at.X, at.Y)
	dc.SetColor(color.Black)
	dc.DrawRectangle(float64(plot.Min.X), float64(plot.Min.Y), float64(plot.Dx()), float64(plot.Dy()))
	dc.Stroke()

	seconds := rc.annotateInset(dc, ifr, at, in)

	rc.report.Insets = append(rc.report.Insets, InsetPlacement{
		Selector:     in.Selector,
		Loc:          in.Loc,
		Lo:           in.Lo,
		Hi:           in.Hi,
		Bounds:       image.Rectangle{Min: at, Max: at.Add(img.Bounds().Size())},
		Plot:         plot,
		Source:       src,
		SecondLabels: seconds,
	})
	logging.Debugf("inset %s rows [%d,%d) at %v", in.Selector, in.Lo, in.Hi, plot)
	return nil
}

// annotateInset puts a flag on every first-series point of the window with its
// value to the right and, when the series use separate scales, the second value
// left of the second point. Second values do not depend on the flag. It returns
// the number of second values drawn.
func (rc *renderer) annotateInset(dc *gg.Context, ifr *frame, at image.Point, in *InsetLayout) int {
	face := rc.faces.face(sizeSmall)
	ox, oy := float64(at.X), float64(at.Y)
	ax := Axis{Log: rc.layout.Primary.Log, Min: in.XMin, Max: in.XMax}
	seconds := 0
	for _, a := range in.Annotations {
		py := ifr.Y(a.Y)
		if a.HasSecond && inRange(ax, a.SecondX) {
			sx := ifr.X(a.SecondX)
			if ifr.contains(sx, py) {
				drawTextBox(dc, face, a.SecondText, ox+sx-rc.pt(10), oy+py-rc.pt(6), 1, 0.35, skyBox)
				seconds++
			}
		}

		if !inRange(ax, a.X) {
			continue
		}
		px := ifr.X(a.X)
		if !ifr.contains(px, py) {
			continue
		}
		img, ok := rc.icon(a.Code)
		if !ok {
			continue
		}
		drawIcon(dc, img, ox+px, oy+py)
		rc.report.Icons++
		drawTextBox(dc, face, a.Text, ox+px+rc.pt(10), oy+py, 0, 0.35, whiteBox)
	}
	return seconds
}
