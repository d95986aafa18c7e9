package lollipop

import (
	"image"
	"image/draw"
	"math"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
)

// FlagSet locates flag icons named <lowercase code>.png in Dir.
type FlagSet struct {
	Dir     string
	Aliases map[string]string
	Zoom    float64
}

// Path returns the icon file for a country code, after aliasing.
func (f FlagSet) Path(code string) string {
	key := strings.ToLower(strings.TrimSpace(code))
	if alias, ok := f.Aliases[key]; ok {
		key = alias
	}
	return filepath.Join(f.Dir, key+".png")
}

// Load opens and decodes the icon for code. The file is closed before returning.
func (f FlagSet) Load(code string) (image.Image, error) {
	img, err := gg.LoadPNG(f.Path(code))
	if err != nil {
		return nil, err
	}
	if f.Zoom > 0 && f.Zoom != 1 {
		img = scaleImage(img, f.Zoom)
	}
	return img, nil
}

func scaleImage(src image.Image, zoom float64) image.Image {
	b := src.Bounds()
	w := int(math.Max(1, math.Round(float64(b.Dx())*zoom)))
	h := int(math.Max(1, math.Round(float64(b.Dy())*zoom)))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// ApplyAlpha returns a copy of img with the colour channels kept and the alpha
// channel of every pixel set to alpha (0..1). Bounds are preserved.
func ApplyAlpha(img image.Image, alpha float64) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)
	a := uint8(math.Round(math.Max(0, math.Min(1, alpha)) * 255))
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = a
	}
	return out
}
