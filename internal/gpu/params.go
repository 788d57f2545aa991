//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/fractal"
)

// frameParamsSize is the byte size of the Params uniform, a multiple of 16.
const frameParamsSize = 48

// minRelativeStep is the smallest pixel step, relative to the magnitude of
// the plane coordinates, that float32 resolves with room to spare. Deeper
// frames band visibly and are left to the float64 renderers.
const minRelativeStep = 0x1p-16

// curve holds the float32 coefficients of the code transform.
type curve struct {
	a, b, s  float32
	identity bool
}

// newCurve derives the coefficients for curvature b over range k the same
// way fractal.CodeTransformer does.
func newCurve(b, k float64) curve {
	a := 1 / b
	s := k / (b - a)
	if s == 0 || math.IsInf(s, 0) || math.IsNaN(s) {
		return curve{identity: true}
	}
	return curve{a: float32(a), b: float32(b), s: float32(s)}
}

// frameParams mirrors the Params struct of the escape shader.
type frameParams struct {
	left, top, step, threshold float32
	width, height, limit       uint32
	smoothing                  bool
	curve                      curve
}

func newFrameParams(req fractal.FrameRequest, c curve) frameParams {
	return frameParams{
		left:      float32(req.LeftX),
		top:       float32(req.TopY),
		step:      float32(req.Step),
		threshold: float32(req.Threshold),
		width:     uint32(req.Width),          //nolint:gosec // bounded by maxPixels
		height:    uint32(req.Height),         //nolint:gosec // bounded by maxPixels
		limit:     uint32(req.IterationLimit), //nolint:gosec // validated by fractal.Config
		smoothing: req.Smooth,
		curve:     c,
	}
}

// bytes encodes p with the std140 layout of Params.
func (p frameParams) bytes() []byte {
	buf := make([]byte, frameParamsSize)
	le := binary.LittleEndian
	le.PutUint32(buf[0:], math.Float32bits(p.left))
	le.PutUint32(buf[4:], math.Float32bits(p.top))
	le.PutUint32(buf[8:], math.Float32bits(p.step))
	le.PutUint32(buf[12:], math.Float32bits(p.threshold))
	le.PutUint32(buf[16:], p.width)
	le.PutUint32(buf[20:], p.height)
	le.PutUint32(buf[24:], p.limit)
	le.PutUint32(buf[28:], boolWord(p.smoothing))
	le.PutUint32(buf[32:], math.Float32bits(p.curve.a))
	le.PutUint32(buf[36:], math.Float32bits(p.curve.b))
	le.PutUint32(buf[40:], math.Float32bits(p.curve.s))
	le.PutUint32(buf[44:], boolWord(p.curve.identity))
	return buf
}

func boolWord(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}

// resolvable reports whether float32 arithmetic separates neighbouring
// pixels of req.
func resolvable(req fractal.FrameRequest) bool {
	if !(req.Step > 0) || math.IsInf(req.Step, 0) {
		return false
	}
	right := req.LeftX + float64(req.Width)*req.Step
	bottom := req.TopY + float64(req.Height)*req.Step
	mag := max(2, math.Abs(req.LeftX), math.Abs(req.TopY), math.Abs(right), math.Abs(bottom))
	return req.Step >= mag*minRelativeStep
}
