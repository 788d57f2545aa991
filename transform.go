package fractal

import "math"

// CodeTransformer remaps iteration codes non-linearly on [0, k].
//
// The curve is a scaled branch of a hyperbola: with a = 1/b it computes
//
//	f(x) = (b - 1/(x/s + a)) * s,  s = k / (b - a)
//
// which satisfies f(0) = 0 and f(k) = k and is strictly increasing in between.
// Larger |b| bends the curve harder toward low codes. When s is not finite
// (b = ±1, or b = 0) the transform is the identity.
//
// A CodeTransformer is immutable and safe for concurrent use.
type CodeTransformer struct {
	b, k    float64
	a       float64
	kDivBmA float64
	ident   bool
}

// NewCodeTransformer builds the transform for curvature b over range k.
// It returns ErrInvalidRange when k is zero.
func NewCodeTransformer(b, k float64) (*CodeTransformer, error) {
	if k == 0 {
		return nil, ErrInvalidRange
	}
	return newCodeTransformer(b, k), nil
}

func newCodeTransformer(b, k float64) *CodeTransformer {
	a := 1 / b
	s := k / (b - a)
	return &CodeTransformer{
		b:       b,
		k:       k,
		a:       a,
		kDivBmA: s,
		ident:   s == 0 || math.IsInf(s, 0) || math.IsNaN(s),
	}
}

// WithCurvature returns a transformer with curvature b and the same range.
func (t *CodeTransformer) WithCurvature(b float64) *CodeTransformer {
	return newCodeTransformer(b, t.k)
}

// B returns the curvature.
func (t *CodeTransformer) B() float64 { return t.b }

// K returns the range the transform maps onto itself.
func (t *CodeTransformer) K() float64 { return t.k }

// Identity reports whether F degenerates to the identity.
func (t *CodeTransformer) Identity() bool { return t.ident }

// F applies the transform.
func (t *CodeTransformer) F(x float64) float64 {
	if t.ident {
		return x
	}
	return t.unscaled(x/t.kDivBmA) * t.kDivBmA
}

func (t *CodeTransformer) unscaled(x float64) float64 {
	return -1/(x+t.a) + t.b
}
