package lollipop

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/hashicorp/go-multierror"
	chart "github.com/wcharczuk/go-chart/v2"
	"golang.org/x/image/font"

	"github.com/iafilius/LollipopPlot/src/axis"
	"github.com/iafilius/LollipopPlot/src/logging"
	"github.com/iafilius/LollipopPlot/src/table"
)

// ErrEmptyTable is returned when asked to draw a table without rows.
var ErrEmptyTable = errors.New("table has no rows")

// InsetPlacement records where an inset ended up in the output image.
type InsetPlacement struct {
	Selector string
	Loc      string
	Lo, Hi   int
	Bounds   image.Rectangle // whole inset image, labels included
	Plot     image.Rectangle // inset plot area
	Source   image.Rectangle // marked region on the main plot

	// SecondLabels counts second-series values drawn (linear scale only).
	SecondLabels int
}

// HighlightPlacement records where a flagged row's icon and value box were drawn.
type HighlightPlacement struct {
	Row   int
	Code  string
	Icon  image.Rectangle
	Value image.Rectangle
}

// Report is the outcome of one render.
type Report struct {
	Layout     *Layout
	Image      *image.RGBA
	Insets     []InsetPlacement
	Highlights []HighlightPlacement

	// Icons counts flag icons drawn. Missing lists codes whose icon could not be
	// loaded; MissingIcons carries the load errors and is nil when none failed.
	Icons        int
	Missing      []string
	MissingIcons error
}

// renderer holds the state shared by the main chart and its overlays.
type renderer struct {
	opts   Options
	layout *Layout
	font   *truetype.Font
	faces  faces
	flags  FlagSet
	report *Report
	errs   *multierror.Error
}

func (rc *renderer) pt(v float64) float64 { return axis.PointsToPixels(v, rc.opts.DPI) }

// icon loads the flag for code. Failures are logged and recorded, never fatal.
func (rc *renderer) icon(code string) (image.Image, bool) {
	img, err := rc.flags.Load(code)
	if err != nil {
		logging.Warnf("flag icon for %q: %v", code, err)
		rc.errs = multierror.Append(rc.errs, fmt.Errorf("flag %s: %w", code, err))
		rc.report.Missing = append(rc.report.Missing, code)
		return nil, false
	}
	return img, true
}

// Render draws t as a lollipop chart with insets and highlights.
func Render(t *table.Table, opts Options) (*Report, error) {
	defer logging.TimeTrack(time.Now(), "lollipop render")
	if t == nil || t.Len() == 0 {
		return nil, ErrEmptyTable
	}
	opts = opts.withDefaults()
	l, err := Build(t, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	f, err := chartFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	rc := &renderer{
		opts:   opts,
		layout: l,
		font:   f,
		faces:  faces{font: f, dpi: opts.DPI},
		flags:  FlagSet{Dir: opts.FlagDir, Aliases: opts.FlagAliases, Zoom: opts.IconZoom},
		report: &Report{Layout: l},
	}

	base, fr, err := rc.renderMain()
	if err != nil {
		return nil, err
	}
	dc := gg.NewContextForImage(base)
	rc.drawHighlights(dc, fr)
	for i := range l.Insets {
		if err := rc.drawInset(dc, fr, &l.Insets[i]); err != nil {
			return nil, fmt.Errorf("inset %s: %w", l.Insets[i].Selector, err)
		}
	}

	out, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("unexpected canvas type %T", dc.Image())
	}
	rc.report.Image = out
	if rc.errs != nil {
		rc.report.MissingIcons = rc.errs.ErrorOrNil()
		logging.Infof("%d flag icon(s) missing", len(rc.report.Missing))
	}
	logging.Debugf("rendered %dx%d, %d icons, %d insets", out.Bounds().Dx(), out.Bounds().Dy(), rc.report.Icons, len(rc.report.Insets))
	return rc.report, nil
}

// RenderPNG renders and encodes the chart to w.
func RenderPNG(w io.Writer, t *table.Table, opts Options) (*Report, error) {
	rep, err := Render(t, opts)
	if err != nil {
		return nil, err
	}
	if err := png.Encode(w, rep.Image); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return rep, nil
}

// rowLabelSize picks a label size that keeps row labels from overlapping.
func (rc *renderer) rowLabelSize() float64 {
	pitch := rc.opts.FigHeight * axis.PointsPerInch * 0.75 / math.Max(1, float64(rc.layout.Rows))
	return math.Max(4, math.Min(sizeSmall, pitch*0.85))
}

func measure(face font.Face, s string) int { return font.MeasureString(face, s).Ceil() }

// leftGutter is the space left of the plot for row labels and highlight names.
func (rc *renderer) leftGutter() int {
	l := rc.layout
	g := 16
	if len(l.RowLabels) > 0 {
		face := rc.faces.face(rc.rowLabelSize())
		widest := 0
		for _, s := range l.RowLabels {
			widest = max(widest, measure(face, s))
		}
		title := rc.faces.face(sizeMedium).Metrics().Height.Ceil()
		g = max(g, widest+title+16)
	}
	if len(l.Highlights) > 0 {
		face := rc.faces.face(sizeXLarge)
		icon := int(8 * rc.opts.IconZoom * rc.opts.DPI / 72)
		for _, h := range l.Highlights {
			g = max(g, measure(face, h.Name)+int(rc.pt(15))+icon+8)
		}
	}
	return g
}

func (rc *renderer) renderMain() (image.Image, *frame, error) {
	l, opts := rc.layout, rc.opts
	w, h := axis.ComputeFigurePixels(opts.FigWidth, opts.FigHeight, opts.DPI)
	fr := &frame{}

	legendH := int(rc.pt(sizeLarge * 2.4))
	padTop := legendH + 8
	if l.Twin != nil {
		padTop += int(rc.pt(sizeMedium * 3.6))
	}

	series := []chart.Series{&gridSeries{overlaySeries: overlaySeries{name: "grid"}, axis: l.Primary}}
	if len(l.Connectors) > 0 {
		series = append(series, &connectorSeries{
			overlaySeries: overlaySeries{name: "connectors"},
			connectors:    l.Connectors,
			axis:          l.Primary,
			toPrimary:     l.ToPrimary,
		})
	}
	series = append(series,
		&markerSeries{overlaySeries: overlaySeries{name: opts.SeriesNames[0]}, points: l.First, axis: l.Primary, scale: 1, dpi: opts.DPI},
		&markerSeries{overlaySeries: overlaySeries{name: opts.SeriesNames[1]}, points: l.Second, axis: l.Primary, scale: 1, dpi: opts.DPI, mapX: l.ToPrimary},
		&frameSeries{overlaySeries: overlaySeries{name: "frame"}, f: fr},
	)

	ch := chart.Chart{
		Width:      w,
		Height:     h,
		DPI:        opts.DPI,
		Font:       rc.font,
		Background: chart.Style{Padding: chart.Box{Top: padTop, Left: rc.leftGutter(), Right: 24, Bottom: 12}},
		XAxis: chart.XAxis{
			Name:  l.Primary.Title,
			Range: newRange(l.Primary),
			Ticks: chartTicks(l.Primary),
		},
		YAxis:          chart.YAxis{Style: chart.Style{Hidden: true}, Range: &chart.ContinuousRange{Min: l.YMin, Max: l.YMax}},
		YAxisSecondary: chart.YAxis{Style: chart.Style{Hidden: true}},
		Series:         series,
	}
	ch.Elements = []chart.Renderable{legendElement(l.Legend, rc.font, opts.DPI, legendH/2+4)}
	if l.Twin != nil {
		ch.Elements = append(ch.Elements, twinAxisElement(*l.Twin, l.ToPrimary, rc.font, fr))
	}
	if len(l.RowLabels) > 0 {
		ch.Elements = append(ch.Elements, rowLabelElement(l.RowLabels, 0, l.RowsTitle, rc.font, rc.rowLabelSize(), fr))
	}

	img, err := renderChart(&ch)
	if err != nil {
		return nil, nil, fmt.Errorf("main chart: %w", err)
	}
	if !fr.ok {
		return nil, nil, errors.New("main chart: plot area was not laid out")
	}
	return img, fr, nil
}

// renderChart rasterises a go-chart chart and decodes it back into an image.
func renderChart(ch *chart.Chart) (image.Image, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// drawHighlights flags the labelled rows along the left edge of the main plot.
func (rc *renderer) drawHighlights(dc *gg.Context, fr *frame) {
	for _, h := range rc.layout.Highlights {
		img, ok := rc.icon(h.Code)
		if !ok {
			continue
		}
		py := fr.Y(h.Y)
		ax := fr.X(h.AnchorX)
		tx := fr.X(clampTo(rc.layout.Primary, h.X))
		half := float64(img.Bounds().Dx()) / 2

		if tx > ax+half {
			drawArrow(dc, ax+half, py, tx, py, 1, withAlpha(color.NRGBA{A: 255}, 0.09))
		}
		iconBox := drawIcon(dc, ApplyAlpha(img, h.Alpha), ax, py)
		rc.report.Icons++

		ink := withAlpha(color.NRGBA{A: 255}, h.Alpha)
		drawPlainText(dc, rc.faces.face(sizeXLarge), h.Name, ax-half-rc.pt(15), py, 1, 0.35, ink)
		st := boxStyle{fill: color.White, edge: h.Accent, text: ink, width: 1.5, pad: 3}
		valueBox := drawTextBox(dc, rc.faces.face(sizeMedium), h.ValueText, ax+half+rc.pt(50), py, 1, 0.35, st)

		rc.report.Highlights = append(rc.report.Highlights, HighlightPlacement{Row: h.Row, Code: h.Code, Icon: iconBox, Value: valueBox})
	}
}
