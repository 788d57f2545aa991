package fractal

import (
	"fmt"
	"strings"
)

// CodeFunc returns the iteration code for pixel (x, y).
type CodeFunc func(x, y int) float64

// Order selects a pixel traversal strategy.
type Order int

const (
	// OrderSpiral visits pixels in square rings growing out from the center.
	OrderSpiral Order = iota

	// OrderScatter visits pixels in centered bit-reversal order, so that a
	// coarse sampling of the whole frame appears early.
	OrderScatter

	// OrderBlocks samples block corners first and defers expensive blocks.
	OrderBlocks
)

var orderNames = [...]string{
	OrderSpiral:  "spiral",
	OrderScatter: "scatter",
	OrderBlocks:  "blocks",
}

// String returns the lower-case name of the order.
func (o Order) String() string {
	if o >= 0 && int(o) < len(orderNames) {
		return orderNames[o]
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

// ParseOrder parses the name returned by Order.String.
func ParseOrder(s string) (Order, error) {
	for i, name := range orderNames {
		if strings.EqualFold(s, name) {
			return Order(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown order %q", ErrInvalidConfig, s)
}

// Orderer incrementally fills a pixmap.
//
// Every Advance that returns true has evaluated and written exactly one unit
// of work: one pixel, or one block for [BlockQueue]. Cursor bookkeeping such
// as ring changes and off-canvas positions is handled inside the same call.
// Once the traversal is exhausted Advance returns false and changes nothing.
// Each cell's CodeFunc is called exactly once per Reset.
//
// An Orderer is not safe for concurrent use.
type Orderer interface {
	// Reset starts a new traversal over a width x height grid and returns
	// the fresh pixmap it will write into.
	Reset(width, height int) *Pixmap

	// Advance performs one unit of work.
	Advance(code CodeFunc) bool

	// Done reports whether the traversal is exhausted.
	Done() bool

	// Pixmap returns the pixmap of the current traversal.
	Pixmap() *Pixmap

	// Progress returns the number of pixels written and the pixel total.
	Progress() (written, total int)

	// Order identifies the traversal strategy.
	Order() Order
}

// canvas holds the state shared by all orderers.
type canvas struct {
	w, h    int
	pix     *Pixmap
	pal     *Palette
	written int
}

func (c *canvas) resetCanvas(width, height int) {
	c.w, c.h = max(width, 0), max(height, 0)
	c.pix = NewPixmap(c.w, c.h)
	c.written = 0
}

// plot evaluates and writes one pixel, returning its code.
func (c *canvas) plot(x, y int, code CodeFunc) float64 {
	v := code(x, y)
	c.pix.SetPixel(x, y, c.pal.Color(v))
	c.written++
	return v
}

func (c *canvas) Pixmap() *Pixmap { return c.pix }

func (c *canvas) Progress() (written, total int) { return c.written, c.w * c.h }

// NewOrderer returns the orderer for o.
// blockSize and bucketWidth only apply to OrderBlocks.
func NewOrderer(o Order, pal *Palette, blockSize int, bucketWidth float64) (Orderer, error) {
	switch o {
	case OrderSpiral:
		return NewSpiral(pal), nil
	case OrderScatter:
		return NewScatter(pal), nil
	case OrderBlocks:
		return NewBlockQueue(pal, blockSize, bucketWidth), nil
	default:
		return nil, fmt.Errorf("%w: unknown order %d", ErrInvalidConfig, int(o))
	}
}
