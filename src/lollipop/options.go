package lollipop

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iafilius/LollipopPlot/src/table"
)

// RowRef names a row by country name, by country code or by rank. Negative
// ranks count from the end (-1 is the last row).
type RowRef struct {
	Name   string
	Code   string
	Rank   int
	ByName bool
}

// ByName refers to the first row with this country name.
func ByName(name string) RowRef { return RowRef{Name: name, ByName: true} }

// ByCode refers to the row with this country code, ignoring case.
func ByCode(code string) RowRef { return RowRef{Code: code} }

// ByRank refers to the row at rank i.
func ByRank(i int) RowRef { return RowRef{Rank: i} }

// ParseRowRef reads "12" or "#12" as a rank, "@ZA" as a code and anything else
// as a name.
func ParseRowRef(s string) RowRef {
	s = strings.TrimSpace(s)
	if code, ok := strings.CutPrefix(s, "@"); ok && code != "" {
		return ByCode(code)
	}
	if n, err := strconv.Atoi(strings.TrimPrefix(s, "#")); err == nil {
		return ByRank(n)
	}
	return ByName(s)
}

func (r RowRef) String() string {
	switch {
	case r.ByName:
		return r.Name
	case r.Code != "":
		return "@" + r.Code
	}
	return "#" + strconv.Itoa(r.Rank)
}

// Resolve returns the rank r refers to in t.
func (r RowRef) Resolve(t *table.Table) (int, error) {
	if r.ByName {
		return t.IndexOfName(r.Name)
	}
	if r.Code != "" {
		return t.IndexOfCode(r.Code)
	}
	i := r.Rank
	if i < 0 {
		i += t.Len()
	}
	if i < 0 || i >= t.Len() {
		return -1, fmt.Errorf("rank %d of %d rows: %w", r.Rank, t.Len(), table.ErrRowNotFound)
	}
	return i, nil
}

// SelectorKind says how an inset picks its rows.
type SelectorKind int

const (
	// SelectTop shows the highest-ranked rows (the end of the table).
	SelectTop SelectorKind = iota
	// SelectBottom shows the first rows of the table.
	SelectBottom
	// SelectAround shows rows centered on one row.
	SelectAround
)

// InsetSelector picks the rows shown in one zoomed inset.
type InsetSelector struct {
	Kind   SelectorKind
	Center RowRef
}

func TopRows() InsetSelector               { return InsetSelector{Kind: SelectTop} }
func BottomRows() InsetSelector            { return InsetSelector{Kind: SelectBottom} }
func Around(ref RowRef) InsetSelector      { return InsetSelector{Kind: SelectAround, Center: ref} }
func AroundName(name string) InsetSelector { return Around(ByName(name)) }

// ParseInsetSelector accepts "top", "bottom", or a row reference.
func ParseInsetSelector(s string) InsetSelector {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return TopRows()
	case "bottom":
		return BottomRows()
	}
	return Around(ParseRowRef(s))
}

func (s InsetSelector) String() string {
	switch s.Kind {
	case SelectTop:
		return "top"
	case SelectBottom:
		return "bottom"
	}
	return "around " + s.Center.String()
}

// Window returns the rows [lo, hi) selected in t for an inset of n rows.
// Centered windows start floor((n-1)/2) rows below the center, so an even n puts
// the extra row above it. Windows are shifted to stay inside the table.
func (s InsetSelector) Window(t *table.Table, n int) (lo, hi int, err error) {
	total := t.Len()
	if n > total {
		n = total
	}
	if n <= 0 {
		return 0, 0, nil
	}
	switch s.Kind {
	case SelectTop:
		return total - n, total, nil
	case SelectBottom:
		return 0, n, nil
	}
	c, err := s.Center.Resolve(t)
	if err != nil {
		return 0, 0, err
	}
	lo = c - (n-1)/2
	hi = lo + n
	if lo < 0 {
		lo, hi = 0, n
	}
	if hi > total {
		lo, hi = total-n, total
	}
	return lo, hi, nil
}

// Loc anchors an inset inside the main plot area.
type Loc int

const (
	LocUpperCenter Loc = iota
	LocCenterRight
	LocLowerRight
	LocUpperLeft
	LocCenterLeft
	LocLowerLeft
	LocUpperRight
	LocLowerCenter
	LocCenter
)

var locNames = map[Loc]string{
	LocUpperCenter: "upper center",
	LocCenterRight: "center right",
	LocLowerRight:  "lower right",
	LocUpperLeft:   "upper left",
	LocCenterLeft:  "center left",
	LocLowerLeft:   "lower left",
	LocUpperRight:  "upper right",
	LocLowerCenter: "lower center",
	LocCenter:      "center",
}

func (l Loc) String() string { return locNames[l] }

// ParseLoc maps "upper center" style names to a Loc.
func ParseLoc(s string) (Loc, error) {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	for l, name := range locNames {
		if name == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown inset location %q", s)
}

// Options configures one chart. Start from DefaultOptions; zero numeric fields
// fall back to the defaults, slices are used as given.
type Options struct {
	FigWidth, FigHeight float64 // inches
	DPI                 float64

	Log        bool // logarithmic horizontal scale shared by both series
	HLines     bool // connector segments between the two points of a row
	ZoomFactor float64
	NumInZoom  int

	Insets    []InsetSelector
	InsetLocs []Loc // per inset; missing entries use the default sequence

	Labels     []RowRef // rows flagged on the main plot
	BoldLabels []RowRef // subset of Labels drawn opaque with the accent colour

	FlagDir     string
	FlagAliases map[string]string // lowercase code -> icon basename
	IconZoom    float64

	HighlightRegion string
	SeriesNames     [2]string
	RestLabel       string
	MinX            float64 // lower horizontal bound under log scale
}

// DefaultOptions mirrors the published figure.
func DefaultOptions() Options {
	return Options{
		FigWidth:        10,
		FigHeight:       10,
		DPI:             100,
		Log:             true,
		ZoomFactor:      3,
		NumInZoom:       3,
		Insets:          []InsetSelector{TopRows(), AroundName("South Africa"), BottomRows()},
		FlagDir:         "famfamfam_flag_icons/png",
		FlagAliases:     map[string]string{"usa": "us"},
		IconZoom:        1,
		HighlightRegion: "Africa",
		SeriesNames:     [2]string{"Computational Neuroscience", "Neuroscience"},
		RestLabel:       "Rest of World",
		MinX:            0.4,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.FigWidth <= 0 {
		o.FigWidth = d.FigWidth
	}
	if o.FigHeight <= 0 {
		o.FigHeight = d.FigHeight
	}
	if o.DPI <= 0 {
		o.DPI = d.DPI
	}
	if o.ZoomFactor <= 0 {
		o.ZoomFactor = d.ZoomFactor
	}
	if o.NumInZoom <= 0 {
		o.NumInZoom = d.NumInZoom
	}
	if o.IconZoom <= 0 {
		o.IconZoom = d.IconZoom
	}
	if o.MinX <= 0 {
		o.MinX = d.MinX
	}
	if o.FlagDir == "" {
		o.FlagDir = d.FlagDir
	}
	if o.FlagAliases == nil {
		o.FlagAliases = d.FlagAliases
	}
	if o.HighlightRegion == "" {
		o.HighlightRegion = d.HighlightRegion
	}
	if o.SeriesNames[0] == "" {
		o.SeriesNames[0] = d.SeriesNames[0]
	}
	if o.SeriesNames[1] == "" {
		o.SeriesNames[1] = d.SeriesNames[1]
	}
	if o.RestLabel == "" {
		o.RestLabel = d.RestLabel
	}
	return o
}

var defaultLocs = []Loc{LocUpperCenter, LocCenterRight, LocLowerRight, LocUpperLeft, LocCenterLeft, LocLowerLeft, LocUpperRight, LocLowerCenter, LocCenter}

// insetLoc returns the anchor for the i-th inset.
func (o Options) insetLoc(i int) Loc {
	if i < len(o.InsetLocs) {
		return o.InsetLocs[i]
	}
	if i < len(defaultLocs) {
		return defaultLocs[i]
	}
	return LocCenter
}
