package lollipop

import (
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
)

// logRange is a base-10 logarithmic chart.Range. Values at or below zero map to Min.
type logRange struct {
	Min        float64
	Max        float64
	Domain     int
	Descending bool
}

func (r *logRange) IsZero() bool {
	return (r.Min == 0 || math.IsNaN(r.Min)) && (r.Max == 0 || math.IsNaN(r.Max)) && r.Domain == 0
}

func (r *logRange) GetMin() float64    { return r.Min }
func (r *logRange) SetMin(min float64) { r.Min = min }
func (r *logRange) GetMax() float64    { return r.Max }
func (r *logRange) SetMax(max float64) { r.Max = max }
func (r *logRange) GetDelta() float64  { return r.Max - r.Min }
func (r *logRange) GetDomain() int     { return r.Domain }
func (r *logRange) SetDomain(d int)    { r.Domain = d }
func (r *logRange) IsDescending() bool { return r.Descending }

func (r *logRange) String() string {
	return fmt.Sprintf("LogarithmicRange [%.2f,%.2f] => %d", r.Min, r.Max, r.Domain)
}

// Translate maps a value into [0, Domain].
func (r *logRange) Translate(value float64) int {
	if r.Min <= 0 || r.Max <= r.Min {
		return 0
	}
	if value <= 0 || value < r.Min {
		value = r.Min
	}
	lmin, lmax := math.Log10(r.Min), math.Log10(r.Max)
	ratio := (math.Log10(value) - lmin) / (lmax - lmin)
	if r.Descending {
		return r.Domain - int(math.Ceil(ratio*float64(r.Domain)))
	}
	return int(math.Ceil(ratio * float64(r.Domain)))
}

// newRange builds the chart.Range for an axis.
func newRange(a Axis) chart.Range {
	if a.Log {
		return &logRange{Min: a.Min, Max: a.Max}
	}
	return &chart.ContinuousRange{Min: a.Min, Max: a.Max}
}

// chartTicks converts axis ticks and pins both range ends with unlabelled ticks;
// go-chart derives the range extent from the tick extent when ticks are given.
func chartTicks(a Axis) []chart.Tick {
	out := []chart.Tick{{Value: a.Min, Label: ""}}
	for _, t := range a.Ticks {
		if t.Value <= a.Min || t.Value >= a.Max {
			continue
		}
		out = append(out, chart.Tick{Value: t.Value, Label: t.Label})
	}
	return append(out, chart.Tick{Value: a.Max, Label: ""})
}

// inRange reports whether v can be placed on a.
func inRange(a Axis, v float64) bool {
	if a.Log && v <= 0 {
		return false
	}
	return v >= a.Min && v <= a.Max
}

// frame records where a rendered chart put its plot area, so overlays can be
// composited onto the decoded image in data coordinates.
type frame struct {
	box    chart.Box
	xr, yr chart.Range
	ok     bool
}

// X maps a primary-axis value to an image column.
func (f *frame) X(v float64) float64 { return float64(f.box.Left + f.xr.Translate(v)) }

// Y maps a row value to an image row.
func (f *frame) Y(v float64) float64 { return float64(f.box.Bottom - f.yr.Translate(v)) }

func (f *frame) contains(px, py float64) bool {
	return px >= float64(f.box.Left) && px <= float64(f.box.Right) &&
		py >= float64(f.box.Top) && py <= float64(f.box.Bottom)
}
