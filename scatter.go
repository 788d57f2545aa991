package fractal

// Scatter visits pixels in centered bit-reversal order over the row-major
// pixel index. The first few hundred pixels already sample the whole frame,
// and each following level doubles the sampling density.
type Scatter struct {
	canvas
	cur centered
}

// NewScatter returns a scatter orderer coloring with pal.
func NewScatter(pal *Palette) *Scatter {
	s := &Scatter{canvas: canvas{pal: pal}}
	s.Reset(0, 0)
	return s
}

// Order returns OrderScatter.
func (s *Scatter) Order() Order { return OrderScatter }

// Reset implements Orderer.
func (s *Scatter) Reset(width, height int) *Pixmap {
	s.resetCanvas(width, height)
	s.cur.reset(s.w * s.h)
	return s.pix
}

// Done implements Orderer.
func (s *Scatter) Done() bool { return s.cur.done }

// Advance implements Orderer.
func (s *Scatter) Advance(code CodeFunc) bool {
	m, ok := s.cur.take()
	if !ok {
		return false
	}
	s.plot(m%s.w, m/s.w, code)
	return true
}
