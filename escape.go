package fractal

import "math"

// DefaultThreshold is the squared magnitude beyond which an orbit escapes.
const DefaultThreshold = 4.0

// Evaluator computes escape-time codes for points of the complex plane.
//
// The zero value uses a threshold of 0 and is rarely what you want; use
// [DefaultEvaluator] or set Threshold explicitly.
type Evaluator struct {
	// Threshold is compared against |z|^2.
	Threshold float64

	// Smooth adds a fractional part to escaped codes so that bands blend.
	Smooth bool
}

// DefaultEvaluator returns the evaluator used by [CountIterations].
func DefaultEvaluator() Evaluator {
	return Evaluator{Threshold: DefaultThreshold, Smooth: true}
}

// CountIterations returns the escape-time code of c = cr + ci*i using the
// default evaluator. A point that does not escape within limit iterations
// yields exactly float64(limit).
func CountIterations(cr, ci float64, limit int) float64 {
	return DefaultEvaluator().Count(cr, ci, limit)
}

// Count iterates z = z^2 + c from z = 0 until |z|^2 exceeds the threshold or
// limit iterations have run.
//
// An escape at iteration n (1-based) yields n, plus 1/max(|z|^2-Threshold, 1)
// when smoothing. Escaped codes are always strictly below limit, so a result
// equal to limit unambiguously means the point is inside.
func (e Evaluator) Count(cr, ci float64, limit int) float64 {
	var zr, zi float64
	thr := e.Threshold
	for n := 1; n <= limit; n++ {
		zr, zi = zr*zr-zi*zi+cr, 2*zr*zi+ci
		mz2 := zr*zr + zi*zi
		if mz2 > thr {
			code := float64(n)
			if e.Smooth {
				code += 1 / math.Max(mz2-thr, 1)
			}
			if code >= float64(limit) {
				code = math.Nextafter(float64(limit), 0)
			}
			return code
		}
	}
	return float64(limit)
}
