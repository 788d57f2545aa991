package fractal

// Spiral fills the canvas in square rings growing out from the center.
//
// Ring 0 is a 1x1 or 2x2 square (depending on the parity of the width) whose
// top-left corner is ((w-1)/2, (h-1)/2). Ring k has side s0+2k. Each ring is
// walked clockwise: top edge left to right, right edge top to bottom, bottom
// edge right to left, left edge bottom to top. The traversal ends with the
// first ring whose square covers the whole canvas.
type Spiral struct {
	canvas

	x0, y0 int
	side0  int
	ring   int
	i      int

	// Cursor position, valid while !done.
	x, y int
	done bool
}

// NewSpiral returns a spiral orderer coloring with pal.
func NewSpiral(pal *Palette) *Spiral {
	s := &Spiral{canvas: canvas{pal: pal}}
	s.Reset(0, 0)
	return s
}

// Order returns OrderSpiral.
func (s *Spiral) Order() Order { return OrderSpiral }

// Reset implements Orderer.
func (s *Spiral) Reset(width, height int) *Pixmap {
	s.resetCanvas(width, height)
	s.x0, s.y0 = (s.w-1)/2, (s.h-1)/2
	s.side0 = 2 - (s.w & 1)
	s.ring, s.i = 0, 0
	s.done = s.w == 0 || s.h == 0
	if !s.done {
		s.settle()
	}
	return s.pix
}

// Done implements Orderer.
func (s *Spiral) Done() bool { return s.done }

// Advance implements Orderer.
func (s *Spiral) Advance(code CodeFunc) bool {
	if s.done {
		return false
	}
	s.plot(s.x, s.y, code)
	s.i++
	s.settle()
	return true
}

// settle moves the cursor forward to the next on-canvas position, jumping
// over edge runs that lie outside the canvas.
func (s *Spiral) settle() {
	for {
		side := s.side0 + 2*s.ring
		left, top := s.x0-s.ring, s.y0-s.ring
		right, bottom := left+side-1, top+side-1
		perim := 4*side - 4
		if side == 1 {
			perim = 1
		}

		if s.i >= perim {
			if left <= 0 && top <= 0 && right >= s.w-1 && bottom >= s.h-1 {
				s.done = true
				return
			}
			s.ring++
			s.i = 0
			continue
		}

		var x, y int
		switch {
		case s.i < side: // top, left to right
			x, y = left+s.i, top
			if y < 0 || x >= s.w {
				s.i = side
				continue
			}
			if x < 0 {
				s.i = -left
				continue
			}
		case s.i < 2*side-1: // right, top to bottom
			x, y = right, top+1+(s.i-side)
			if x >= s.w || y >= s.h {
				s.i = 2*side - 1
				continue
			}
			if y < 0 {
				s.i = side - top - 1
				continue
			}
		case s.i < 3*side-2: // bottom, right to left
			x, y = right-1-(s.i-(2*side-1)), bottom
			if y >= s.h || x < 0 {
				s.i = 3*side - 2
				continue
			}
			if x >= s.w {
				s.i = 2*side - 1 + right - s.w
				continue
			}
		default: // left, bottom to top
			x, y = left, bottom-1-(s.i-(3*side-2))
			if x < 0 || y < 0 {
				s.i = perim
				continue
			}
			if y >= s.h {
				s.i = 3*side - 2 + bottom - s.h
				continue
			}
		}
		s.x, s.y = x, y
		return
	}
}
