package fractal

import "math"

// Defaults for BlockQueue.
const (
	DefaultBlockSize   = 8
	DefaultBucketWidth = 512.0
)

// BlockQueue renders square blocks, sampling corners first and deferring
// blocks whose corners are all expensive.
//
// Blocks are visited in centered bit-reversal order. Visiting a block
// evaluates and writes its distinct corner pixels and takes the minimum code
// m. Bucket i has lower bound (i+1)*BucketWidth, for i below
// floor(limit/BucketWidth). If some bucket lower bound is at most m the block
// joins the queue of the highest such bucket; otherwise the remaining pixels
// are rendered right away in raster order. Blocks made only of corners are
// complete after sampling. When every block has been visited, buckets are
// drained from the lowest lower bound up, one block per Advance.
type BlockQueue struct {
	canvas

	size  int
	width float64

	cols, rows int
	cur        centered

	buckets [][]int
	drain   int
	pending int
}

// NewBlockQueue returns a block orderer coloring with pal.
// Non-positive arguments select DefaultBlockSize and DefaultBucketWidth.
func NewBlockQueue(pal *Palette, blockSize int, bucketWidth float64) *BlockQueue {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if !(bucketWidth > 0) {
		bucketWidth = DefaultBucketWidth
	}
	q := &BlockQueue{canvas: canvas{pal: pal}, size: blockSize, width: bucketWidth}
	q.Reset(0, 0)
	return q
}

// Order returns OrderBlocks.
func (q *BlockQueue) Order() Order { return OrderBlocks }

// BlockSize returns the block side in pixels.
func (q *BlockQueue) BlockSize() int { return q.size }

// Buckets returns the number of deferral buckets.
func (q *BlockQueue) Buckets() int { return len(q.buckets) }

// Reset implements Orderer.
func (q *BlockQueue) Reset(width, height int) *Pixmap {
	q.resetCanvas(width, height)
	q.cols = (q.w + q.size - 1) / q.size
	q.rows = (q.h + q.size - 1) / q.size
	q.cur.reset(q.cols * q.rows)

	// A bucket lower bound above the limit is never reached, so there are
	// at most limit buckets whatever the width.
	n := 0
	if q.pal != nil {
		lim := q.pal.Limit()
		n = int(math.Min(math.Floor(lim/q.width), lim))
	}
	q.buckets = make([][]int, max(n, 0))
	q.drain, q.pending = 0, 0
	return q.pix
}

// Done implements Orderer.
func (q *BlockQueue) Done() bool { return q.cur.done && q.pending == 0 }

// Advance implements Orderer.
func (q *BlockQueue) Advance(code CodeFunc) bool {
	if b, ok := q.cur.take(); ok {
		q.visit(b, code)
		return true
	}
	for q.drain < len(q.buckets) {
		queue := q.buckets[q.drain]
		if len(queue) == 0 {
			q.buckets[q.drain] = nil
			q.drain++
			continue
		}
		q.buckets[q.drain] = queue[1:]
		q.pending--
		q.fill(queue[0], code)
		return true
	}
	return false
}

// bucketFor returns the bucket for a block with minimum corner code m,
// or -1 when the block should be filled immediately.
func (q *BlockQueue) bucketFor(m float64) int {
	if len(q.buckets) == 0 || m < q.width || math.IsNaN(m) {
		return -1
	}
	i := int(math.Floor(m/q.width)) - 1
	return min(i, len(q.buckets)-1)
}

func (q *BlockQueue) bounds(b int) (x0, y0, x1, y1 int) {
	x0 = (b % q.cols) * q.size
	y0 = (b / q.cols) * q.size
	x1 = min(x0+q.size, q.w) - 1
	y1 = min(y0+q.size, q.h) - 1
	return x0, y0, x1, y1
}

func (q *BlockQueue) visit(b int, code CodeFunc) {
	x0, y0, x1, y1 := q.bounds(b)
	m := q.plot(x0, y0, code)
	if x1 != x0 {
		m = math.Min(m, q.plot(x1, y0, code))
	}
	if y1 != y0 {
		m = math.Min(m, q.plot(x0, y1, code))
		if x1 != x0 {
			m = math.Min(m, q.plot(x1, y1, code))
		}
	}
	if x1-x0 < 2 && y1-y0 < 2 {
		return
	}
	if i := q.bucketFor(m); i >= 0 {
		q.buckets[i] = append(q.buckets[i], b)
		q.pending++
		return
	}
	q.fill(b, code)
}

// fill renders the non-corner pixels of block b in raster order.
func (q *BlockQueue) fill(b int, code CodeFunc) {
	x0, y0, x1, y1 := q.bounds(b)
	for y := y0; y <= y1; y++ {
		edgeRow := y == y0 || y == y1
		for x := x0; x <= x1; x++ {
			if edgeRow && (x == x0 || x == x1) {
				continue
			}
			q.plot(x, y, code)
		}
	}
}
