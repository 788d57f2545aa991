package caption

import (
	"image"
	"image/color"
	"testing"
)

func newTestCaption(t *testing.T) *Caption {
	t.Helper()
	c, err := New(DefaultSize)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewInvalidSize(t *testing.T) {
	for _, size := range []float64{0, -3} {
		if _, err := New(size); err == nil {
			t.Errorf("New(%v) = nil error", size)
		}
	}
}

func TestMeasure(t *testing.T) {
	c := newTestCaption(t)
	if got := c.Measure(""); got != 0 {
		t.Errorf("Measure(\"\") = %v, want 0", got)
	}
	narrow, wide := c.Measure("iiii"), c.Measure("WWWW")
	if !(narrow > 0) || !(wide > narrow) {
		t.Errorf("Measure: iiii=%v WWWW=%v, want 0 < iiii < WWWW", narrow, wide)
	}
	one, two := c.Measure("zoom"), c.Measure("zoomzoom")
	if two <= one {
		t.Errorf("Measure grows with text: %v then %v", one, two)
	}
}

func TestDrawBand(t *testing.T) {
	c := newTestCaption(t)
	img := image.NewRGBA(image.Rect(0, 0, 200, 60))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	c.Draw(img, "zoom 2^-3  curvature 5")

	h := c.Height()
	if h <= 0 || h >= 60 {
		t.Fatalf("Height() = %d, want within (0, 60)", h)
	}
	// Above the band the frame is untouched.
	if got := img.RGBAAt(100, 0); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("pixel above band = %v, want white", got)
	}
	// The band darkens the right edge where no glyph is drawn.
	if got := img.RGBAAt(199, 59); got.R >= 255 {
		t.Errorf("band pixel = %v, want darkened", got)
	}
	// Some glyph pixels are brighter than the bare band.
	bare := img.RGBAAt(199, 59).R
	lit := 0
	for y := 60 - h; y < 60; y++ {
		for x := 0; x < 200; x++ {
			if img.RGBAAt(x, y).R > bare {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("no text pixels drawn in the band")
	}
}

func TestDrawRightAlignedClipped(t *testing.T) {
	c := newTestCaption(t)
	c.Align = AlignRight
	img := image.NewRGBA(image.Rect(0, 0, 10, 5))
	c.Draw(img, "a caption far wider than the image")
}
