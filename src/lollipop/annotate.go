package lollipop

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// boxStyle is the frame drawn behind an annotation.
type boxStyle struct {
	fill  color.Color
	edge  color.Color
	text  color.Color // black when nil
	width float64     // edge width in pixels, 0 for none
	pad   float64
}

var (
	whiteBox = boxStyle{fill: color.White, edge: color.Black, width: 1, pad: 3}
	skyBox   = boxStyle{fill: withAlpha(colorBase, 0.5), pad: 3}
)

// drawTextBox draws s anchored at (x, y) like gg.DrawStringAnchored, over a
// padded box. It returns the box.
func drawTextBox(dc *gg.Context, face font.Face, s string, x, y, ax, ay float64, st boxStyle) image.Rectangle {
	dc.SetFontFace(face)
	w, h := dc.MeasureString(s)
	left := x - ax*w - st.pad
	baseline := y + ay*h
	top := baseline - h - st.pad
	bw, bh := w+2*st.pad, h+2*st.pad+float64(face.Metrics().Descent.Ceil())

	dc.DrawRectangle(left, top, bw, bh)
	if st.fill != nil {
		dc.SetColor(st.fill)
		dc.FillPreserve()
	}
	if st.width > 0 && st.edge != nil {
		dc.SetColor(st.edge)
		dc.SetLineWidth(st.width)
		dc.Stroke()
	} else {
		dc.ClearPath()
	}
	if st.text != nil {
		dc.SetColor(st.text)
	} else {
		dc.SetColor(color.Black)
	}
	dc.DrawStringAnchored(s, x, y, ax, ay)
	return image.Rect(int(left), int(top), int(left+bw), int(top+bh))
}

// drawPlainText draws s without a box.
func drawPlainText(dc *gg.Context, face font.Face, s string, x, y, ax, ay float64, c color.Color) {
	dc.SetFontFace(face)
	dc.SetColor(c)
	dc.DrawStringAnchored(s, x, y, ax, ay)
}

// drawArrow draws a line from (x1, y1) to (x2, y2) with an open head at the end.
func drawArrow(dc *gg.Context, x1, y1, x2, y2, width float64, c color.Color) {
	dc.SetColor(c)
	dc.SetLineWidth(width)
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()
	head := 4 * width
	if x2 < x1 {
		head = -head
	}
	dc.DrawLine(x2-head, y2-head/2, x2, y2)
	dc.DrawLine(x2-head, y2+head/2, x2, y2)
	dc.Stroke()
}

// drawIcon places img centred on (x, y).
func drawIcon(dc *gg.Context, img image.Image, x, y float64) image.Rectangle {
	dc.DrawImageAnchored(img, int(x), int(y), 0.5, 0.5)
	b := img.Bounds()
	left := int(x) - b.Dx()/2
	top := int(y) - b.Dy()/2
	return image.Rect(left, top, left+b.Dx(), top+b.Dy())
}
