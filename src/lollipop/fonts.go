package lollipop

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

// Font sizes in points, following the usual small/medium/large ladder.
const (
	sizeSmall  = 8.0
	sizeMedium = 10.0
	sizeLarge  = 12.0
	sizeXLarge = 14.4
)

var (
	fontOnce sync.Once
	regular  *truetype.Font
	fontErr  error
)

// chartFont is the single typeface used by the chart frame and all overlays.
func chartFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		regular, fontErr = truetype.Parse(goregular.TTF)
	})
	return regular, fontErr
}

// faces builds font faces at a fixed DPI.
type faces struct {
	font *truetype.Font
	dpi  float64
}

func (f faces) face(pt float64) font.Face {
	if f.font == nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(f.font, &truetype.Options{Size: pt, DPI: f.dpi, Hinting: font.HintingFull})
}
