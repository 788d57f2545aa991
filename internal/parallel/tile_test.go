package parallel

import (
	"sync/atomic"
	"testing"
)

func TestTiles(t *testing.T) {
	tests := []struct {
		w, h  int
		count int
		lastW int
		lastH int
	}{
		{0, 10, 0, 0, 0},
		{64, 64, 1, 64, 64},
		{65, 64, 2, 1, 64},
		{100, 130, 6, 36, 2},
		{1, 1, 1, 1, 1},
	}
	for _, tt := range tests {
		tiles := Tiles(tt.w, tt.h)
		if len(tiles) != tt.count {
			t.Errorf("Tiles(%d, %d) = %d tiles, want %d", tt.w, tt.h, len(tiles), tt.count)
			continue
		}
		if tt.count == 0 {
			continue
		}
		last := tiles[len(tiles)-1]
		if last.Width != tt.lastW || last.Height != tt.lastH {
			t.Errorf("Tiles(%d, %d) last tile = %dx%d, want %dx%d",
				tt.w, tt.h, last.Width, last.Height, tt.lastW, tt.lastH)
		}
	}
}

func TestTilesCoverFrameOnce(t *testing.T) {
	const w, h = 150, 97
	hits := make([]int, w*h)
	for _, tile := range Tiles(w, h) {
		x0, y0, tw, th := tile.Bounds()
		for y := y0; y < y0+th; y++ {
			for x := x0; x < x0+tw; x++ {
				if !tile.Contains(x, y) {
					t.Fatalf("tile %v does not contain its own pixel (%d,%d)", tile, x, y)
				}
				hits[y*w+x]++
			}
		}
	}
	for i, n := range hits {
		if n != 1 {
			t.Fatalf("pixel %d covered %d times", i, n)
		}
	}
}

func TestWorkerPool_Render(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	const w, h = 200, 130
	hits := make([]atomic.Int32, w*h)
	pool.Render(w, h, func(x, y int) {
		hits[y*w+x].Add(1)
	})
	for i := range hits {
		if n := hits[i].Load(); n != 1 {
			t.Fatalf("pixel %d rendered %d times", i, n)
		}
	}
}
