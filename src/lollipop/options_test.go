package lollipop

import (
	"errors"
	"testing"

	"github.com/iafilius/LollipopPlot/src/table"
)

func TestParseRowRef(t *testing.T) {
	cases := []struct {
		in   string
		want RowRef
	}{
		{"12", ByRank(12)},
		{"#3", ByRank(3)},
		{"-1", ByRank(-1)},
		{" Kenya ", ByName("Kenya")},
		{"South Africa", ByName("South Africa")},
		{"@za", ByCode("za")},
		{" @USA", ByCode("USA")},
	}
	for _, c := range cases {
		if got := ParseRowRef(c.in); got != c.want {
			t.Fatalf("ParseRowRef(%q) = %+v want %+v", c.in, got, c.want)
		}
	}
}

func TestRowRefResolve(t *testing.T) {
	tab := sampleTable()
	cases := []struct {
		ref  RowRef
		want int
	}{
		{ByName("Japan"), 4},
		{ByCode("za"), 3},
		{ByCode("USA"), 6},
		{ByRank(-2), 5},
	}
	for _, c := range cases {
		got, err := c.ref.Resolve(tab)
		if err != nil || got != c.want {
			t.Fatalf("Resolve(%s) = %d, %v want %d", c.ref, got, err, c.want)
		}
	}
	if _, err := ByCode("xx").Resolve(tab); !errors.Is(err, table.ErrRowNotFound) {
		t.Fatalf("unknown code: %v", err)
	}
	if s := ParseInsetSelector("@ZA"); s.Kind != SelectAround || s.String() != "around @ZA" {
		t.Fatalf("code selector: %+v", s)
	}
}

func TestParseInsetSelector(t *testing.T) {
	if s := ParseInsetSelector("TOP"); s.Kind != SelectTop {
		t.Fatalf("top: %+v", s)
	}
	if s := ParseInsetSelector("bottom"); s.Kind != SelectBottom {
		t.Fatalf("bottom: %+v", s)
	}
	s := ParseInsetSelector("South Africa")
	if s.Kind != SelectAround || s.Center != ByName("South Africa") {
		t.Fatalf("around: %+v", s)
	}
	if s.String() != "around South Africa" {
		t.Fatalf("String() = %q", s.String())
	}
}

func TestWindow(t *testing.T) {
	tab := sampleTable() // 7 rows, South Africa at 3
	cases := []struct {
		name   string
		sel    InsetSelector
		n      int
		lo, hi int
	}{
		{"top", TopRows(), 3, 4, 7},
		{"bottom", BottomRows(), 3, 0, 3},
		{"around odd", AroundName("South Africa"), 3, 2, 5},
		{"around even", AroundName("South Africa"), 4, 2, 6},
		{"around single", AroundName("South Africa"), 1, 3, 4},
		{"around first row", AroundName("Togo"), 3, 0, 3},
		{"around last row", Around(ByRank(-1)), 3, 4, 7},
		{"larger than table", TopRows(), 10, 0, 7},
		{"around larger than table", Around(ByRank(2)), 10, 0, 7},
	}
	for _, c := range cases {
		lo, hi, err := c.sel.Window(tab, c.n)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if lo != c.lo || hi != c.hi {
			t.Fatalf("%s: window [%d,%d) want [%d,%d)", c.name, lo, hi, c.lo, c.hi)
		}
	}
	if _, _, err := AroundName("Narnia").Window(tab, 3); !errors.Is(err, table.ErrRowNotFound) {
		t.Fatalf("unknown centre: %v", err)
	}
}

func TestParseLoc(t *testing.T) {
	for l, name := range locNames {
		got, err := ParseLoc(name)
		if err != nil || got != l {
			t.Fatalf("ParseLoc(%q) = %v, %v", name, got, err)
		}
	}
	if got, err := ParseLoc("  Lower   LEFT "); err != nil || got != LocLowerLeft {
		t.Fatalf("normalised name: %v, %v", got, err)
	}
	if _, err := ParseLoc("middle earth"); err == nil {
		t.Fatalf("expected error for unknown location")
	}
}

func TestInsetLocDefaultsAndOverrides(t *testing.T) {
	o := DefaultOptions()
	if o.insetLoc(0) != LocUpperCenter || o.insetLoc(1) != LocCenterRight || o.insetLoc(2) != LocLowerRight {
		t.Fatalf("default sequence %v %v %v", o.insetLoc(0), o.insetLoc(1), o.insetLoc(2))
	}
	o.InsetLocs = []Loc{LocUpperLeft}
	if o.insetLoc(0) != LocUpperLeft || o.insetLoc(1) != LocCenterRight {
		t.Fatalf("override %v %v", o.insetLoc(0), o.insetLoc(1))
	}
	if o.insetLoc(20) != LocCenter {
		t.Fatalf("past the sequence: %v", o.insetLoc(20))
	}
}

func TestWithDefaultsFillsZeroValues(t *testing.T) {
	o := Options{Log: true}.withDefaults()
	d := DefaultOptions()
	if o.DPI != d.DPI || o.ZoomFactor != d.ZoomFactor || o.NumInZoom != d.NumInZoom || o.MinX != d.MinX {
		t.Fatalf("numeric defaults not applied: %+v", o)
	}
	if o.FlagDir != d.FlagDir || o.FlagAliases["usa"] != "us" || o.SeriesNames != d.SeriesNames {
		t.Fatalf("string defaults not applied: %+v", o)
	}
	if o.Insets != nil {
		t.Fatalf("slices are used as given, got %v", o.Insets)
	}
}
