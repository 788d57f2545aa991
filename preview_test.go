package fractal

import (
	"image/color"
	"testing"
)

func TestDrawPreviewSameView(t *testing.T) {
	v := HomeViewport(16, 8)
	src := NewPixmap(16, 8)
	src.Fill(color.RGBA{R: 200, A: 255})
	dst := NewPixmap(16, 8)

	if !drawPreview(dst, src, v, v) {
		t.Fatal("drawPreview() = false for identical views")
	}
	if got := dst.Pixel(7, 3); got != (color.RGBA{R: 200, A: 255}) {
		t.Errorf("pixel = %v, want copy of source", got)
	}
}

func TestDrawPreviewZoomIn(t *testing.T) {
	lim := DefaultViewLimits()
	from := HomeViewport(64, 64)
	src := NewPixmap(64, 64)
	// Left half red, right half blue.
	for y := range 64 {
		for x := range 64 {
			c := color.RGBA{R: 255, A: 255}
			if x >= 32 {
				c = color.RGBA{B: 255, A: 255}
			}
			src.SetPixel(x, y, c)
		}
	}
	to := from.ZoomAt(32, 32, -4, lim)
	dst := NewPixmap(64, 64)
	if !drawPreview(dst, src, from, to) {
		t.Fatal("drawPreview() = false")
	}
	if got := dst.Pixel(2, 32); got.R != 255 || got.B != 0 {
		t.Errorf("left pixel = %v, want red", got)
	}
	if got := dst.Pixel(61, 32); got.B != 255 || got.R != 0 {
		t.Errorf("right pixel = %v, want blue", got)
	}
}

func TestDrawPreviewRejects(t *testing.T) {
	v := HomeViewport(16, 16)
	src := NewPixmap(16, 16)
	dst := NewPixmap(16, 16)

	if drawPreview(dst, nil, v, v) {
		t.Error("nil source drawn")
	}
	if drawPreview(dst, NewPixmap(8, 8), v, v) {
		t.Error("mismatched source size drawn")
	}
	far := v
	far.LeftX += 100
	if drawPreview(dst, src, v, far) {
		t.Error("disjoint view drawn")
	}
	deep := v
	deep.ZoomExp = -60
	if drawPreview(dst, src, v, deep) {
		t.Error("preview magnified beyond limit")
	}
}

func TestRendererPreviewFillsNewFrame(t *testing.T) {
	r, err := NewRenderer(32, 32, WithBackend(false), WithPreview(true))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Render(t.Context()); err != nil {
		t.Fatal(err)
	}
	r.Pan(1, 0)
	opaque := 0
	data := r.Pixmap().Data()
	for i := 3; i < len(data); i += 4 {
		if data[i] == 255 {
			opaque++
		}
	}
	if opaque < 32*30 {
		t.Errorf("preview filled %d pixels, want most of the frame", opaque)
	}
}
