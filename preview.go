package fractal

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// maxPreviewScale bounds how far a previous frame is magnified. Beyond it
// the preview is a few smeared pixels and not worth the blit.
const maxPreviewScale = 64

// drawPreview paints src, rendered for view from, into dst as seen from
// view to. The result is approximate: the orderer overwrites every pixel.
// It reports whether anything was drawn.
func drawPreview(dst *Pixmap, src *Pixmap, from, to Viewport) bool {
	if src == nil || dst == nil || !from.Valid() || !to.Valid() {
		return false
	}
	if src.Width() != from.Width || src.Height() != from.Height {
		return false
	}
	step := to.Step()
	x0 := (from.LeftX - to.LeftX) / step
	y0 := (from.TopY - to.TopY) / step
	x1 := x0 + from.ZoomWidth()/step
	y1 := y0 + from.ZoomHeight()/step

	if x1-x0 > maxPreviewScale*float64(to.Width) || y1-y0 > maxPreviewScale*float64(to.Height) {
		return false
	}
	if x1 <= 0 || y1 <= 0 || x0 >= float64(to.Width) || y0 >= float64(to.Height) {
		return false
	}
	dr := image.Rect(
		int(math.Round(x0)), int(math.Round(y0)),
		int(math.Round(x1)), int(math.Round(y1)),
	)
	if dr.Empty() {
		return false
	}
	draw.ApproxBiLinear.Scale(dst.RGBA(), dr, src.RGBA(), src.Bounds(), draw.Src, nil)
	return true
}
