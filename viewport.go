package fractal

import "math"

// Zoom limits and home area defaults.
const (
	DefaultZoomExp    = 8
	DefaultMinZoomExp = -140
	DefaultMaxZoomExp = 16
)

// Rect is an axis-aligned region of the complex plane.
type Rect struct {
	MinRe, MaxRe float64
	MinIm, MaxIm float64
}

// Contains reports whether (re, im) lies inside r, borders included.
func (r Rect) Contains(re, im float64) bool {
	return re >= r.MinRe && re <= r.MaxRe && im >= r.MinIm && im <= r.MaxIm
}

// ViewLimits bound viewport changes.
type ViewLimits struct {
	MinZoomExp int
	MaxZoomExp int

	// Home bounds the view center.
	Home Rect
}

// DefaultViewLimits returns zoom exponents [-140, 16] and a home rectangle
// of [-2.5, 1.5] x [-2, 2].
func DefaultViewLimits() ViewLimits {
	return ViewLimits{
		MinZoomExp: DefaultMinZoomExp,
		MaxZoomExp: DefaultMaxZoomExp,
		Home:       Rect{MinRe: -2.5, MaxRe: 1.5, MinIm: -2, MaxIm: 2},
	}
}

// Viewport maps pixels onto the complex plane.
//
// The visible real extent is 2^(ZoomExp/4); the imaginary extent follows the
// aspect ratio. Width and Height must be positive for the mapping to be
// defined.
type Viewport struct {
	LeftX   float64
	TopY    float64
	ZoomExp int
	Width   int
	Height  int
}

// HomeViewport returns the initial view for a width x height canvas: real
// axis from -2.5 over a width of 4, imaginary axis centered.
func HomeViewport(width, height int) Viewport {
	v := Viewport{LeftX: -2.5, ZoomExp: DefaultZoomExp, Width: width, Height: height}
	v.TopY = -v.ZoomHeight() / 2
	return v
}

// ZoomWidth returns the real extent of the view.
func (v Viewport) ZoomWidth() float64 {
	return math.Exp2(float64(v.ZoomExp) / 4)
}

// ZoomHeight returns the imaginary extent of the view.
func (v Viewport) ZoomHeight() float64 {
	return v.ZoomWidth() * float64(v.Height) / float64(v.Width)
}

// Step returns the plane distance between horizontally adjacent pixels.
func (v Viewport) Step() float64 {
	return v.ZoomWidth() / float64(v.Width)
}

// Plane maps a pixel position to the complex plane. Pixels are square:
// ZoomHeight/Height equals ZoomWidth/Width, so both axes advance by Step.
func (v Viewport) Plane(x, y float64) (re, im float64) {
	step := v.Step()
	return v.LeftX + x*step, v.TopY + y*step
}

// Center returns the plane point at the middle of the view.
func (v Viewport) Center() (re, im float64) {
	return v.LeftX + v.ZoomWidth()/2, v.TopY + v.ZoomHeight()/2
}

// CenteredAt returns v moved so that its center is (re, im).
func (v Viewport) CenteredAt(re, im float64) Viewport {
	v.LeftX = re - v.ZoomWidth()/2
	v.TopY = im - v.ZoomHeight()/2
	return v
}

// Valid reports whether the mapping is defined.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

// ZoomAt changes the zoom exponent by steps while keeping the plane point
// under pixel (px, py) fixed. Positive steps zoom out. The exponent and the
// view center are clamped to lim.
func (v Viewport) ZoomAt(px, py float64, steps int, lim ViewLimits) Viewport {
	xp := px / float64(v.Width)
	yp := py / float64(v.Height)
	mx, my := v.Plane(px, py)

	v.ZoomExp = clampInt(v.ZoomExp+steps, lim.MinZoomExp, lim.MaxZoomExp)
	v.LeftX = mx - xp*v.ZoomWidth()
	v.TopY = my - yp*v.ZoomHeight()
	return v.Clamp(lim)
}

// Pan moves the view by (dx, dy) pixels. Dragging content right moves the
// view left, so positive dx decreases LeftX.
func (v Viewport) Pan(dx, dy float64, lim ViewLimits) Viewport {
	v.LeftX -= dx * v.ZoomWidth() / float64(v.Width)
	v.TopY -= dy * v.ZoomHeight() / float64(v.Height)
	return v.Clamp(lim)
}

// Resize changes the canvas size keeping the left and top edges and the real
// extent.
func (v Viewport) Resize(width, height int) Viewport {
	v.Width, v.Height = width, height
	return v
}

// Clamp limits the zoom exponent and moves the center into the home
// rectangle.
func (v Viewport) Clamp(lim ViewLimits) Viewport {
	if e := clampInt(v.ZoomExp, lim.MinZoomExp, lim.MaxZoomExp); e != v.ZoomExp {
		cx, cy := v.Center()
		v.ZoomExp = e
		v = v.CenteredAt(cx, cy)
	}
	cx, cy := v.Center()
	h := lim.Home
	nx := math.Min(math.Max(cx, h.MinRe), h.MaxRe)
	ny := math.Min(math.Max(cy, h.MinIm), h.MaxIm)
	if nx != cx || ny != cy {
		v = v.CenteredAt(nx, ny)
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
