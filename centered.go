package fractal

import "math/bits"

// centeredLevel is one pass of the centered bit-reversal traversal.
type centeredLevel struct {
	begin int
	inc   int
}

// centered enumerates 0..n-1 so that early indices are spread evenly,
// starting near the middle.
//
// With P the largest power of two not above n and root = P-1, level j visits
// begin = 2^j - 1, begin + 2^(j+1), ... for j from log2(P) down to 0. Level j
// holds exactly the integers with j trailing one bits, so the levels partition
// the naturals. Indices below root are reflected to root-1-i so that the
// first samples cluster around the middle of the range. A level ends at the
// first index that maps outside [0, n).
type centered struct {
	n      int
	root   int
	levels []centeredLevel
	li     int
	next   int
	cur    int
	done   bool
}

func (c *centered) reset(n int) {
	c.n = n
	c.levels = c.levels[:0]
	c.li, c.next, c.cur = 0, 0, 0
	if n <= 0 {
		c.done = true
		return
	}
	c.done = false
	top := bits.Len(uint(n)) - 1
	c.root = 1<<top - 1
	for j := top; j >= 0; j-- {
		c.levels = append(c.levels, centeredLevel{begin: 1<<j - 1, inc: 1 << (j + 1)})
	}
	c.next = c.levels[0].begin
	c.settle()
}

func (c *centered) mapIndex(i int) int {
	if i < c.root {
		return c.root - 1 - i
	}
	return i
}

// settle moves the cursor to the next index inside [0, n).
func (c *centered) settle() {
	for c.li < len(c.levels) {
		if m := c.mapIndex(c.next); m < c.n {
			c.cur = m
			return
		}
		c.li++
		if c.li < len(c.levels) {
			c.next = c.levels[c.li].begin
		}
	}
	c.done = true
}

// take returns the current index and advances.
func (c *centered) take() (int, bool) {
	if c.done {
		return 0, false
	}
	m := c.cur
	c.next += c.levels[c.li].inc
	c.settle()
	return m, true
}
