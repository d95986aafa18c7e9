package lollipop

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"

	"github.com/iafilius/LollipopPlot/src/table"
)

// flagDir writes icons for every sample row except Chile.
func flagDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, key := range []string{"tg", "ke", "za", "jp", "de", "us"} {
		writeFlag(t, dir, key, 16, 11, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
	}
	return dir
}

func smallOptions(dir string) Options {
	opts := DefaultOptions()
	opts.FigWidth, opts.FigHeight, opts.DPI = 6, 5, 100
	opts.FlagDir = dir
	opts.Labels = []RowRef{ByName("Kenya"), ByName("South Africa")}
	opts.BoldLabels = []RowRef{ByName("South Africa")}
	return opts
}

func TestRender_MissingFlagDoesNotStopLaterRows(t *testing.T) {
	rep, err := Render(sampleTable(), smallOptions(flagDir(t)))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if b := rep.Image.Bounds(); b.Dx() != 600 || b.Dy() != 500 {
		t.Fatalf("image %v want 600x500", b)
	}
	if len(rep.Missing) == 0 {
		t.Fatalf("missing Chile flag was not reported")
	}
	for _, code := range rep.Missing {
		if code != "CL" {
			t.Fatalf("unexpected missing icon %q", code)
		}
	}
	if rep.MissingIcons == nil || !errors.Is(rep.MissingIcons, fs.ErrNotExist) {
		t.Fatalf("MissingIcons = %v, want a not-exist error", rep.MissingIcons)
	}
	// Kenya and South Africa on the main plot; South Africa and Japan follow
	// Chile in the centred inset; Japan, Germany and the USA in the top inset.
	if rep.Icons < 7 {
		t.Fatalf("icons drawn %d, rows after the missing one were skipped", rep.Icons)
	}
	if len(rep.Insets) != 3 {
		t.Fatalf("insets placed %d want 3", len(rep.Insets))
	}
	for _, in := range rep.Insets {
		if !in.Bounds.In(rep.Image.Bounds()) {
			t.Fatalf("inset %s at %v outside image", in.Selector, in.Bounds)
		}
		if in.Plot.Dx() <= 0 || in.Plot.Dy() <= 0 || in.Source.Empty() {
			t.Fatalf("inset %s plot %v source %v", in.Selector, in.Plot, in.Source)
		}
	}
}

func TestRender_LinearScale(t *testing.T) {
	opts := smallOptions(flagDir(t))
	opts.Log = false
	opts.HLines = true
	rep, err := Render(sampleTable(), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if rep.Layout.Twin == nil {
		t.Fatalf("linear render without twin axis")
	}
	if b := rep.Image.Bounds(); b.Dx() != 600 || b.Dy() != 500 {
		t.Fatalf("image %v", b)
	}
}

func TestRender_NoFlagDirectory(t *testing.T) {
	opts := smallOptions(t.TempDir() + "/absent")
	rep, err := Render(sampleTable(), opts)
	if err != nil {
		t.Fatalf("render without icons must still succeed: %v", err)
	}
	if rep.Icons != 0 || rep.MissingIcons == nil {
		t.Fatalf("icons %d missing %v", rep.Icons, rep.MissingIcons)
	}
}

func TestRender_Errors(t *testing.T) {
	if _, err := Render(table.New(nil), DefaultOptions()); !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("empty table: %v", err)
	}
	opts := smallOptions(t.TempDir())
	opts.Labels = []RowRef{ByName("Atlantis")}
	if _, err := Render(sampleTable(), opts); !errors.Is(err, table.ErrRowNotFound) {
		t.Fatalf("unknown label: %v", err)
	}
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	opts := smallOptions(flagDir(t))
	opts.Insets = nil
	rep, err := RenderPNG(&buf, sampleTable(), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds() != rep.Image.Bounds() {
		t.Fatalf("encoded %v, rendered %v", img.Bounds(), rep.Image.Bounds())
	}
	if len(rep.Insets) != 0 {
		t.Fatalf("insets %d want 0", len(rep.Insets))
	}
}

func TestPlaceInset(t *testing.T) {
	area := image.Rect(100, 50, 500, 450)
	size := image.Pt(100, 60)
	cases := []struct {
		loc  Loc
		want image.Point
	}{
		{LocUpperLeft, image.Pt(105, 55)},
		{LocUpperCenter, image.Pt(250, 55)},
		{LocCenterRight, image.Pt(395, 220)},
		{LocLowerRight, image.Pt(395, 385)},
		{LocCenter, image.Pt(250, 220)},
	}
	for _, c := range cases {
		if got := placeInset(c.loc, area, size, 5); got != c.want {
			t.Fatalf("%s: %v want %v", c.loc, got, c.want)
		}
	}
}

// darkest returns the lowest red value inside r shrunk by inset pixels.
func darkest(img *image.RGBA, r image.Rectangle, inset int) uint8 {
	r = r.Inset(inset).Intersect(img.Bounds())
	low := uint8(255)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			low = min(low, img.RGBAAt(x, y).R)
		}
	}
	return low
}

func TestRender_HighlightValueTextFollowsAlpha(t *testing.T) {
	opts := smallOptions(flagDir(t))
	opts.Insets = nil
	rep, err := Render(sampleTable(), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(rep.Highlights) != 2 {
		t.Fatalf("highlights drawn %d want 2", len(rep.Highlights))
	}
	for _, h := range rep.Highlights {
		if h.Value.Empty() || h.Icon.Empty() {
			t.Fatalf("%s: value %v icon %v", h.Code, h.Value, h.Icon)
		}
		low := darkest(rep.Image, h.Value, 2)
		switch h.Code {
		case "KE":
			// dimmed black over white never goes below ~166
			if low < 120 {
				t.Fatalf("plain value text darkest %d, drawn opaque", low)
			}
		case "ZA":
			if low > 80 {
				t.Fatalf("bold value text darkest %d, expected solid ink", low)
			}
		default:
			t.Fatalf("unexpected highlight %s", h.Code)
		}
	}
}

func TestRender_SecondValuesWithoutIcon(t *testing.T) {
	opts := smallOptions(flagDir(t))
	opts.Log = false
	rep, err := Render(sampleTable(), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(rep.Insets) != 3 {
		t.Fatalf("insets placed %d want 3", len(rep.Insets))
	}
	// Chile, South Africa and Japan; Chile has no icon.
	mid := rep.Insets[1]
	if mid.Lo != 2 || mid.Hi != 5 {
		t.Fatalf("centred inset rows [%d,%d)", mid.Lo, mid.Hi)
	}
	if mid.SecondLabels != 3 {
		t.Fatalf("second values drawn %d want 3", mid.SecondLabels)
	}
}
