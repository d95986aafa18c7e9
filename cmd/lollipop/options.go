package main

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/iafilius/LollipopPlot/src/lollipop"
	"github.com/iafilius/LollipopPlot/src/table"
)

// addChartFlags registers the flags shared by render and layout.
func addChartFlags(fs *pflag.FlagSet) {
	d := lollipop.DefaultOptions()
	insets := make([]string, 0, len(d.Insets))
	for _, s := range d.Insets {
		if s.Kind == lollipop.SelectAround {
			insets = append(insets, s.Center.String())
			continue
		}
		insets = append(insets, s.String())
	}

	fs.String("data", "", "table file (.csv, .yaml, .yml or .json)")
	fs.String("sort-by", "", "sort rows ascending by this column before drawing")
	fs.Bool("linear", false, "separate linear axes per series instead of one shared log axis")
	fs.Bool("hlines", false, "connect the two points of every row")
	fs.Float64("zoom", d.ZoomFactor, "inset magnification")
	fs.Int("num-in-zoom", d.NumInZoom, "rows per inset")
	fs.StringSlice("inset", insets, `inset rows: "top", "bottom", a country name, @code or a rank`)
	fs.StringSlice("inset-loc", nil, `inset anchors, e.g. "upper left" (default sequence when omitted)`)
	fs.Bool("no-insets", false, "draw no insets")
	fs.StringSlice("label", nil, "rows to flag on the main plot (name, @code or rank)")
	fs.StringSlice("bold", nil, "flagged rows drawn opaque with the accent colour")
	fs.String("flags-dir", d.FlagDir, "directory holding <code>.png flag icons")
	fs.StringSlice("flag-alias", nil, "code=icon mappings added to the default usa=us")
	fs.Float64("icon-zoom", d.IconZoom, "flag icon scale")
	fs.String("region", d.HighlightRegion, "region drawn with the accent colour")
	fs.Float64("min-x", d.MinX, "lower bound of the log axis")
	fs.Float64("width", d.FigWidth, "figure width in inches")
	fs.Float64("height", d.FigHeight, "figure height in inches")
	fs.Float64("dpi", d.DPI, "pixels per inch")
}

// optionsFromConfig turns the resolved configuration into chart options.
func optionsFromConfig(v *viper.Viper) (lollipop.Options, error) {
	o := lollipop.DefaultOptions()
	o.Log = !v.GetBool("linear")
	o.HLines = v.GetBool("hlines")
	o.ZoomFactor = v.GetFloat64("zoom")
	o.NumInZoom = v.GetInt("num-in-zoom")
	o.FlagDir = v.GetString("flags-dir")
	o.IconZoom = v.GetFloat64("icon-zoom")
	o.HighlightRegion = v.GetString("region")
	o.MinX = v.GetFloat64("min-x")
	o.FigWidth = v.GetFloat64("width")
	o.FigHeight = v.GetFloat64("height")
	o.DPI = v.GetFloat64("dpi")

	lists := map[string][]string{}
	for _, key := range []string{"flag-alias", "inset", "inset-loc", "label", "bold"} {
		l, err := stringSlice(v, key)
		if err != nil {
			return o, err
		}
		lists[key] = l
	}

	for _, kv := range lists["flag-alias"] {
		code, icon, ok := strings.Cut(kv, "=")
		if !ok || code == "" || icon == "" {
			return o, fmt.Errorf("flag alias %q: want code=icon", kv)
		}
		o.FlagAliases[strings.ToLower(code)] = icon
	}

	o.Insets = nil
	if !v.GetBool("no-insets") {
		for _, s := range lists["inset"] {
			o.Insets = append(o.Insets, lollipop.ParseInsetSelector(s))
		}
	}
	for _, s := range lists["inset-loc"] {
		loc, err := lollipop.ParseLoc(s)
		if err != nil {
			return o, err
		}
		o.InsetLocs = append(o.InsetLocs, loc)
	}
	for _, s := range lists["label"] {
		o.Labels = append(o.Labels, lollipop.ParseRowRef(s))
	}
	for _, s := range lists["bold"] {
		o.BoldLabels = append(o.BoldLabels, lollipop.ParseRowRef(s))
	}
	return o, nil
}

// stringSlice reads a list setting. Values set through the environment arrive
// as one string and are split as comma separated fields, the way the flags
// parse them, so names with spaces stay whole.
func stringSlice(v *viper.Viper, key string) ([]string, error) {
	s, ok := v.Get(key).(string)
	if !ok {
		return v.GetStringSlice(key), nil
	}
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	r := csv.NewReader(strings.NewReader(s))
	r.TrimLeadingSpace = true
	rec, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return rec, nil
}

// loadTable reads --data and applies --sort-by.
func loadTable(v *viper.Viper) (*table.Table, error) {
	path := v.GetString("data")
	if path == "" {
		return nil, fmt.Errorf("--data is required")
	}
	t, err := table.Load(path)
	if err != nil {
		return nil, err
	}
	if col := v.GetString("sort-by"); col != "" {
		return t.SortedBy(col)
	}
	return t, nil
}
