// Package parallel splits frames into tiles and renders them on a worker
// pool.
//
// Tiles are 64x64 pixels; edge tiles are clipped to the frame. Workers write
// straight into a shared frame buffer: tiles never overlap, so no locking is
// needed.
package parallel

// Tile size in pixels.
const (
	TileWidth  = 64
	TileHeight = 64
)

// Tile is a rectangular region of a frame.
type Tile struct {
	// X and Y are the tile column and row.
	X, Y int

	// Width and Height are the clipped size in pixels.
	Width, Height int
}

// Bounds returns the pixel bounds of the tile as (x, y, width, height).
func (t Tile) Bounds() (x, y, w, h int) {
	return t.X * TileWidth, t.Y * TileHeight, t.Width, t.Height
}

// Contains reports whether frame pixel (fx, fy) lies in the tile.
func (t Tile) Contains(fx, fy int) bool {
	x, y, w, h := t.Bounds()
	return fx >= x && fx < x+w && fy >= y && fy < y+h
}

// Tiles covers a width x height frame with tiles in row-major order.
func Tiles(width, height int) []Tile {
	if width <= 0 || height <= 0 {
		return nil
	}
	cols := (width + TileWidth - 1) / TileWidth
	rows := (height + TileHeight - 1) / TileHeight

	tiles := make([]Tile, 0, cols*rows)
	for ty := range rows {
		for tx := range cols {
			tiles = append(tiles, Tile{
				X:      tx,
				Y:      ty,
				Width:  min(TileWidth, width-tx*TileWidth),
				Height: min(TileHeight, height-ty*TileHeight),
			})
		}
	}
	return tiles
}

// Render calls fn for every pixel of a width x height frame, one tile per
// work item, and returns when all pixels are done. fn must be safe to call
// concurrently for distinct pixels.
func (p *WorkerPool) Render(width, height int, fn func(x, y int)) {
	tiles := Tiles(width, height)
	work := make([]func(), len(tiles))
	for i, t := range tiles {
		work[i] = func() {
			x0, y0, w, h := t.Bounds()
			for y := y0; y < y0+h; y++ {
				for x := x0; x < x0+w; x++ {
					fn(x, y)
				}
			}
		}
	}
	p.ExecuteAll(work)
}
