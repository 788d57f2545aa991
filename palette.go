package fractal

import (
	"image/color"
	"math"
)

// WheelSize is the number of distinct colors on the palette wheel.
const WheelSize = 768

// wheel holds the color cycle: red to green, green to blue, blue to red.
// Each band is 256 entries long.
var wheel [WheelSize]color.RGBA

func init() {
	for i := range WheelSize {
		t := uint8(i & 0xff)
		var c color.RGBA
		switch i >> 8 {
		case 0:
			c = color.RGBA{R: 255 - t, G: t, A: 255}
		case 1:
			c = color.RGBA{G: 255 - t, B: t, A: 255}
		default:
			c = color.RGBA{R: t, B: 255 - t, A: 255}
		}
		wheel[i] = c
	}
}

// inside is the color of points that never escape.
var inside = color.RGBA{A: 255}

// Palette maps iteration codes to colors.
//
// Codes at or above the iteration limit are black. Other codes pass through
// the CodeTransformer, are floored and wrapped onto the color wheel.
type Palette struct {
	limit float64
	tr    *CodeTransformer
}

// NewPalette returns a palette for codes produced with the given iteration
// limit. A nil tr selects the identity transform.
func NewPalette(limit int, tr *CodeTransformer) *Palette {
	if tr == nil {
		tr = newCodeTransformer(1, float64(limit))
	}
	return &Palette{limit: float64(limit), tr: tr}
}

// Limit returns the iteration limit as a code.
func (p *Palette) Limit() float64 { return p.limit }

// Transformer returns the code transformer.
func (p *Palette) Transformer() *CodeTransformer { return p.tr }

// WithTransformer returns a palette sharing the limit with a new transform.
func (p *Palette) WithTransformer(tr *CodeTransformer) *Palette {
	if tr == nil {
		tr = newCodeTransformer(1, p.limit)
	}
	return &Palette{limit: p.limit, tr: tr}
}

// Color returns the color for code.
func (p *Palette) Color(code float64) color.RGBA {
	if code >= p.limit {
		return inside
	}
	return wheel[wheelIndex(p.tr.F(code))]
}

// wheelIndex floors v and wraps it into [0, WheelSize).
func wheelIndex(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	i := int(math.Mod(math.Floor(v), WheelSize))
	if i < 0 {
		i += WheelSize
	}
	return i
}
