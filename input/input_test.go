package input

import (
	"math"
	"testing"
	"time"

	"github.com/gogpu/fractal"
	"github.com/gogpu/gpucontext"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeSource struct {
	pointer func(gpucontext.PointerEvent)
	scroll  func(gpucontext.ScrollEvent)
}

func (s *fakeSource) OnPointer(fn func(gpucontext.PointerEvent))    { s.pointer = fn }
func (s *fakeSource) OnScrollEvent(fn func(gpucontext.ScrollEvent)) { s.scroll = fn }

func newTestController(t *testing.T) (*Controller, *fractal.Renderer, *fakeClock) {
	t.Helper()
	r, err := fractal.NewRenderer(64, 48, fractal.WithBackend(false), fractal.WithPreview(false))
	if err != nil {
		t.Fatalf("NewRenderer() = %v", err)
	}
	clk := &fakeClock{t: time.Unix(1000, 0)}
	return New(r, WithClock(clk.now)), r, clk
}

func press(c *Controller, b gpucontext.Button, x, y float64) {
	c.HandlePointer(gpucontext.PointerEvent{Type: gpucontext.PointerDown, Button: b, X: x, Y: y})
}

func release(c *Controller, b gpucontext.Button, x, y float64) {
	c.HandlePointer(gpucontext.PointerEvent{Type: gpucontext.PointerUp, Button: b, X: x, Y: y})
}

func move(c *Controller, x, y float64) {
	c.HandlePointer(gpucontext.PointerEvent{Type: gpucontext.PointerMove, Button: gpucontext.ButtonNone, X: x, Y: y})
}

func TestScrollZoomDirection(t *testing.T) {
	tests := []struct {
		name   string
		deltaY float64
		want   int
	}{
		{"wheel up zooms in", -1, fractal.DefaultZoomExp - 1},
		{"wheel down zooms out", 1, fractal.DefaultZoomExp + 1},
		{"no delta", 0, fractal.DefaultZoomExp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, r, _ := newTestController(t)
			c.HandleScroll(gpucontext.ScrollEvent{X: 32, Y: 24, DeltaY: tt.deltaY})
			if got := r.Viewport().ZoomExp; got != tt.want {
				t.Errorf("ZoomExp = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScrollKeepsPointerFixed(t *testing.T) {
	c, r, _ := newTestController(t)
	const px, py = 20.0, 30.0
	re0, im0 := r.Viewport().Plane(px, py)
	c.HandleScroll(gpucontext.ScrollEvent{X: px, Y: py, DeltaY: -1})
	re1, im1 := r.Viewport().Plane(px, py)
	if math.Abs(re1-re0) > 1e-12 || math.Abs(im1-im0) > 1e-12 {
		t.Errorf("point under pointer moved from (%v, %v) to (%v, %v)", re0, im0, re1, im1)
	}
}

func TestScrollThrottle(t *testing.T) {
	c, r, clk := newTestController(t)
	zoomIn := gpucontext.ScrollEvent{X: 32, Y: 24, DeltaY: -1}

	c.HandleScroll(zoomIn)
	clk.advance(WheelThrottle / 2)
	c.HandleScroll(zoomIn)
	if got := r.Viewport().ZoomExp; got != fractal.DefaultZoomExp-1 {
		t.Fatalf("ZoomExp after throttled event = %d, want %d", got, fractal.DefaultZoomExp-1)
	}

	clk.advance(WheelThrottle)
	c.HandleScroll(zoomIn)
	if got := r.Viewport().ZoomExp; got != fractal.DefaultZoomExp-2 {
		t.Errorf("ZoomExp after throttle window = %d, want %d", got, fractal.DefaultZoomExp-2)
	}
}

func TestClickChangesCurvature(t *testing.T) {
	tests := []struct {
		name   string
		button gpucontext.Button
		want   float64
	}{
		{"left raises", gpucontext.ButtonLeft, fractal.DefaultCurvature + 1},
		{"right lowers", gpucontext.ButtonRight, fractal.DefaultCurvature - 1},
		{"middle ignored", gpucontext.ButtonMiddle, fractal.DefaultCurvature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, r, _ := newTestController(t)
			press(c, tt.button, 10, 10)
			move(c, 11, 10)
			release(c, tt.button, 11, 10)
			if got := r.Curvature(); got != tt.want {
				t.Errorf("Curvature() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCurvatureStepOption(t *testing.T) {
	r, err := fractal.NewRenderer(16, 16, fractal.WithBackend(false))
	if err != nil {
		t.Fatal(err)
	}
	c := New(r, WithCurvatureStep(3))
	press(c, gpucontext.ButtonLeft, 1, 1)
	release(c, gpucontext.ButtonLeft, 1, 1)
	if got := r.Curvature(); got != fractal.DefaultCurvature+3 {
		t.Errorf("Curvature() = %v, want %v", got, fractal.DefaultCurvature+3)
	}
}

func TestLeftDragPans(t *testing.T) {
	c, r, _ := newTestController(t)
	before := r.Viewport()

	press(c, gpucontext.ButtonLeft, 10, 10)
	move(c, 11, 10)
	move(c, 20, 10)
	release(c, gpucontext.ButtonLeft, 20, 10)

	after := r.Viewport()
	want := before.LeftX - 10*before.Step()
	if math.Abs(after.LeftX-want) > 1e-12 {
		t.Errorf("LeftX = %v, want %v", after.LeftX, want)
	}
	if after.TopY != before.TopY {
		t.Errorf("TopY = %v, want %v", after.TopY, before.TopY)
	}
	if got := r.Curvature(); got != fractal.DefaultCurvature {
		t.Errorf("drag changed curvature to %v", got)
	}
}

func TestRightDragDoesNotPan(t *testing.T) {
	c, r, _ := newTestController(t)
	before := r.Viewport()
	press(c, gpucontext.ButtonRight, 10, 10)
	move(c, 40, 30)
	if r.Viewport() != before {
		t.Error("right drag moved the view")
	}
}

func TestCancelDropsPress(t *testing.T) {
	c, r, _ := newTestController(t)
	press(c, gpucontext.ButtonLeft, 10, 10)
	c.HandlePointer(gpucontext.PointerEvent{Type: gpucontext.PointerCancel})
	release(c, gpucontext.ButtonLeft, 10, 10)
	if got := r.Curvature(); got != fractal.DefaultCurvature {
		t.Errorf("Curvature() = %v after cancelled press, want %v", got, fractal.DefaultCurvature)
	}
}

func TestAttach(t *testing.T) {
	c, r, _ := newTestController(t)
	src := &fakeSource{}
	c.Attach(src, src)
	if src.pointer == nil || src.scroll == nil {
		t.Fatal("Attach did not register callbacks")
	}
	src.scroll(gpucontext.ScrollEvent{X: 32, Y: 24, DeltaY: -1})
	src.pointer(gpucontext.PointerEvent{Type: gpucontext.PointerDown, Button: gpucontext.ButtonLeft, X: 5, Y: 5})
	src.pointer(gpucontext.PointerEvent{Type: gpucontext.PointerUp, Button: gpucontext.ButtonLeft, X: 5, Y: 5})

	if got := r.Viewport().ZoomExp; got != fractal.DefaultZoomExp-1 {
		t.Errorf("ZoomExp = %d, want %d", got, fractal.DefaultZoomExp-1)
	}
	if got := r.Curvature(); got != fractal.DefaultCurvature+1 {
		t.Errorf("Curvature() = %v, want %v", got, fractal.DefaultCurvature+1)
	}

	c.Attach(nil, nil)
}

func TestTickRendersFrame(t *testing.T) {
	c, r, _ := newTestController(t)
	for !c.Tick(time.Millisecond) {
	}
	if !r.Done() {
		t.Error("renderer not done after Tick loop")
	}
	var seen *fractal.Renderer
	c.Do(func(r *fractal.Renderer) { seen = r })
	if seen != r {
		t.Error("Do did not pass the controlled renderer")
	}
}
