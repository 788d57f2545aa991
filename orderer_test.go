package fractal

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

// testCode returns a deterministic code spread over [0, limit].
func testCode(limit int) CodeFunc {
	return func(x, y int) float64 {
		return float64((x*131 + y*71 + x*y*7) % (limit + 1))
	}
}

type visit struct{ x, y int }

// runOrderer advances o to exhaustion, recording every CodeFunc call.
func runOrderer(t *testing.T, o Orderer, w, h int, code CodeFunc) (visits []visit, advances int) {
	t.Helper()
	o.Reset(w, h)
	rec := func(x, y int) float64 {
		visits = append(visits, visit{x, y})
		return code(x, y)
	}
	limit := w*h + 10
	for o.Advance(rec) {
		advances++
		if advances > limit {
			t.Fatalf("%v %dx%d: more than %d advances", o.Order(), w, h, limit)
		}
	}
	return visits, advances
}

func newTestOrderers(limit int) []Orderer {
	pal := NewPalette(limit, newCodeTransformer(5, float64(limit)))
	return []Orderer{
		NewSpiral(pal),
		NewScatter(pal),
		NewBlockQueue(pal, 4, 100),
		NewBlockQueue(pal, DefaultBlockSize, DefaultBucketWidth),
	}
}

var testSizes = [][2]int{
	{0, 0}, {0, 5}, {5, 0}, {1, 1}, {1, 2}, {2, 1}, {2, 2}, {3, 3}, {4, 4},
	{1, 7}, {7, 1}, {2, 9}, {9, 2}, {3, 8}, {8, 3}, {5, 6}, {6, 5},
	{16, 16}, {17, 16}, {16, 17}, {31, 7}, {7, 31}, {33, 33}, {64, 9}, {40, 41},
}

func TestOrdererTotality(t *testing.T) {
	const limit = 300
	for _, o := range newTestOrderers(limit) {
		for _, sz := range testSizes {
			w, h := sz[0], sz[1]
			t.Run(fmt.Sprintf("%v/%dx%d", o.Order(), w, h), func(t *testing.T) {
				visits, _ := runOrderer(t, o, w, h, testCode(limit))
				if len(visits) != w*h {
					t.Fatalf("visited %d pixels, want %d", len(visits), w*h)
				}
				seen := make(map[visit]bool, len(visits))
				for _, v := range visits {
					if v.x < 0 || v.x >= w || v.y < 0 || v.y >= h {
						t.Fatalf("visited off-canvas pixel %v", v)
					}
					if seen[v] {
						t.Fatalf("pixel %v visited twice", v)
					}
					seen[v] = true
				}
				if !o.Done() {
					t.Error("Done() = false after exhaustion")
				}
				if written, total := o.Progress(); written != total {
					t.Errorf("Progress() = %d/%d after exhaustion", written, total)
				}
			})
		}
	}
}

func TestOrdererWritesEveryPixel(t *testing.T) {
	const limit = 300
	for _, o := range newTestOrderers(limit) {
		t.Run(o.Order().String(), func(t *testing.T) {
			runOrderer(t, o, 23, 17, testCode(limit))
			data := o.Pixmap().Data()
			for i := 3; i < len(data); i += 4 {
				if data[i] != 255 {
					t.Fatalf("pixel %d not written", i/4)
				}
			}
		})
	}
}

func TestOrdererDeterministic(t *testing.T) {
	const limit = 300
	for i, o := range newTestOrderers(limit) {
		t.Run(o.Order().String(), func(t *testing.T) {
			a, na := runOrderer(t, o, 29, 13, testCode(limit))
			pa := bytes.Clone(o.Pixmap().Data())
			b, nb := runOrderer(t, o, 29, 13, testCode(limit))
			if na != nb || len(a) != len(b) {
				t.Fatalf("runs differ: %d/%d advances, %d/%d visits", na, nb, len(a), len(b))
			}
			for i := range a {
				if a[i] != b[i] {
					t.Fatalf("visit %d differs: %v vs %v", i, a[i], b[i])
				}
			}
			if !bytes.Equal(pa, o.Pixmap().Data()) {
				t.Error("pixmaps differ between identical runs")
			}

			fresh := newTestOrderers(limit)[i]
			c, nc := runOrderer(t, fresh, 29, 13, testCode(limit))
			if nc != na || len(c) != len(a) {
				t.Fatalf("fresh orderer: %d/%d advances, %d/%d visits", nc, na, len(c), len(a))
			}
			for j := range a {
				if a[j] != c[j] {
					t.Fatalf("fresh orderer visit %d differs: %v vs %v", j, c[j], a[j])
				}
			}
			if !bytes.Equal(pa, fresh.Pixmap().Data()) {
				t.Error("fresh orderer pixmap differs")
			}
		})
	}
}

func TestOrdererExhaustedIsIdempotent(t *testing.T) {
	const limit = 300
	for _, o := range newTestOrderers(limit) {
		t.Run(o.Order().String(), func(t *testing.T) {
			runOrderer(t, o, 10, 6, testCode(limit))
			before := bytes.Clone(o.Pixmap().Data())
			called := false
			for range 3 {
				if o.Advance(func(int, int) float64 { called = true; return 0 }) {
					t.Fatal("Advance() = true after exhaustion")
				}
			}
			if called {
				t.Error("CodeFunc called after exhaustion")
			}
			if !bytes.Equal(before, o.Pixmap().Data()) {
				t.Error("pixmap changed after exhaustion")
			}
		})
	}
}

func TestOrdererResetReturnsFreshPixmap(t *testing.T) {
	for _, o := range newTestOrderers(100) {
		first := o.Reset(4, 4)
		second := o.Reset(4, 4)
		if first == second {
			t.Errorf("%v: Reset returned the same pixmap twice", o.Order())
		}
		if o.Pixmap() != second {
			t.Errorf("%v: Pixmap() is not the pixmap returned by Reset", o.Order())
		}
	}
}

func TestSpiral4x4(t *testing.T) {
	s := NewSpiral(identityPalette(100))
	s.Reset(4, 4)

	var first *visit
	trues := 0
	code := func(x, y int) float64 {
		if first == nil {
			first = &visit{x, y}
		}
		return 1
	}
	for range 16 {
		if !s.Advance(code) {
			t.Fatalf("Advance() = false after %d calls, want 16 trues", trues)
		}
		trues++
	}
	if *first != (visit{1, 1}) {
		t.Errorf("first pixel = %v, want (1, 1)", *first)
	}
	if s.Advance(code) {
		t.Error("17th Advance() = true, want false")
	}
}

func TestSpiral3x3Sequence(t *testing.T) {
	s := NewSpiral(identityPalette(100))
	visits, _ := runOrderer(t, s, 3, 3, testCode(100))
	want := []visit{
		{1, 1},
		{0, 0}, {1, 0}, {2, 0},
		{2, 1}, {2, 2},
		{1, 2}, {0, 2},
		{0, 1},
	}
	if fmt.Sprint(visits) != fmt.Sprint(want) {
		t.Errorf("sequence = %v, want %v", visits, want)
	}
}

func TestSpiralEvenStart(t *testing.T) {
	s := NewSpiral(identityPalette(100))
	visits, _ := runOrderer(t, s, 6, 4, testCode(100))
	want := []visit{{2, 1}, {3, 1}, {3, 2}, {2, 2}}
	if fmt.Sprint(visits[:4]) != fmt.Sprint(want) {
		t.Errorf("first ring = %v, want %v", visits[:4], want)
	}
}

func TestScatterSequence(t *testing.T) {
	s := NewScatter(identityPalette(100))
	visits, _ := runOrderer(t, s, 3, 1, testCode(100))
	want := []visit{{1, 0}, {0, 0}, {2, 0}}
	if fmt.Sprint(visits) != fmt.Sprint(want) {
		t.Errorf("sequence = %v, want %v", visits, want)
	}
}

func TestScatterOneAdvancePerPixel(t *testing.T) {
	s := NewScatter(identityPalette(100))
	_, n := runOrderer(t, s, 37, 11, testCode(100))
	if n != 37*11 {
		t.Errorf("advances = %d, want %d", n, 37*11)
	}
}

func TestNewOrderer(t *testing.T) {
	pal := identityPalette(100)
	for _, o := range []Order{OrderSpiral, OrderScatter, OrderBlocks} {
		got, err := NewOrderer(o, pal, 8, 512)
		if err != nil {
			t.Fatalf("NewOrderer(%v) = %v", o, err)
		}
		if got.Order() != o {
			t.Errorf("NewOrderer(%v).Order() = %v", o, got.Order())
		}
	}
	if _, err := NewOrderer(Order(42), pal, 8, 512); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewOrderer(42) error = %v, want ErrInvalidConfig", err)
	}
}

func TestParseOrder(t *testing.T) {
	for _, o := range []Order{OrderSpiral, OrderScatter, OrderBlocks} {
		got, err := ParseOrder(o.String())
		if err != nil || got != o {
			t.Errorf("ParseOrder(%q) = %v, %v", o.String(), got, err)
		}
	}
	if got, err := ParseOrder("SPIRAL"); err != nil || got != OrderSpiral {
		t.Errorf("ParseOrder is case sensitive: %v, %v", got, err)
	}
	if _, err := ParseOrder("zigzag"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ParseOrder(zigzag) error = %v, want ErrInvalidConfig", err)
	}
	if s := Order(9).String(); s != "Order(9)" {
		t.Errorf("Order(9).String() = %q", s)
	}
}

func BenchmarkOrdererOverhead(b *testing.B) {
	zero := func(int, int) float64 { return 0 }
	for _, o := range newTestOrderers(100) {
		b.Run(o.Order().String(), func(b *testing.B) {
			for b.Loop() {
				o.Reset(256, 256)
				for o.Advance(zero) {
				}
			}
		})
	}
}
