// Package caption draws a one-line status band onto rendered frames.
//
// Glyphs are rasterized with golang.org/x/image/font/opentype. The band width
// comes from HarfBuzz shaping (go-text/typesetting), so kerning is taken into
// account when the text is right-aligned.
package caption

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/go-text/typesetting/di"
	tsfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultSize is the default font size in pixels.
const DefaultSize = 13.0

// Align selects the horizontal placement of the text inside the band.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Caption renders status lines in Go Regular at a fixed size.
// It is not safe for concurrent use.
type Caption struct {
	size   float64
	face   font.Face
	shaper shaping.HarfbuzzShaper
	shape  *tsfont.Face

	// Band colour and text colour.
	Background color.RGBA
	Foreground color.RGBA
	Align      Align
}

// New loads the embedded Go Regular font at size pixels.
func New(size float64) (*Caption, error) {
	if !(size > 0) {
		return nil, fmt.Errorf("caption: invalid size %v", size)
	}
	otf, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("caption: parse font: %w", err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("caption: create face: %w", err)
	}
	shape, err := tsfont.ParseTTF(bytes.NewReader(goregular.TTF))
	if err != nil {
		_ = face.Close()
		return nil, fmt.Errorf("caption: parse font for shaping: %w", err)
	}
	return &Caption{
		size:       size,
		face:       face,
		shape:      shape,
		Background: color.RGBA{A: 160},
		Foreground: color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}, nil
}

// Close releases the font face.
func (c *Caption) Close() error {
	return c.face.Close()
}

// Measure returns the shaped advance of s in pixels.
func (c *Caption) Measure(s string) float64 {
	if s == "" {
		return 0
	}
	runes := []rune(s)
	out := c.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      c.shape,
		Size:      fixed.Int26_6(c.size * 64),
		Script:    language.Latin,
		Language:  language.NewLanguage("en"),
	})
	var adv fixed.Int26_6
	for _, g := range out.Glyphs {
		adv += g.Advance
	}
	return float64(adv) / 64
}

// Height returns the band height for one line.
func (c *Caption) Height() int {
	m := c.face.Metrics()
	return (m.Ascent + m.Descent).Ceil() + 2*c.padding()
}

func (c *Caption) padding() int {
	return max(2, int(c.size/4))
}

// Draw paints a band along the bottom edge of dst and writes s into it.
// Text wider than dst is clipped.
func (c *Caption) Draw(dst *image.RGBA, s string) {
	b := dst.Bounds()
	h := min(c.Height(), b.Dy())
	band := image.Rect(b.Min.X, b.Max.Y-h, b.Max.X, b.Max.Y)
	draw.Draw(dst, band, image.NewUniform(c.Background), image.Point{}, draw.Over)

	pad := c.padding()
	x := b.Min.X + pad
	if c.Align == AlignRight {
		x = b.Max.X - pad - int(c.Measure(s)+0.5)
		x = max(x, b.Min.X+pad)
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c.Foreground),
		Face: c.face,
		Dot:  fixed.P(x, band.Min.Y+pad+c.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}
