// Package input maps pointer and wheel events from a gpucontext window onto
// a fractal.Renderer.
//
// The wheel zooms toward the pointer, at most once per WheelThrottle. A left
// click raises the palette curvature by one and a right click lowers it. A
// left drag pans the view.
//
//	ctl := input.New(renderer)
//	ctl.Attach(window, window)
//	for {
//		ctl.Tick(12 * time.Millisecond)
//		// present renderer.Pixmap()
//	}
package input

import (
	"math"
	"sync"
	"time"

	"github.com/gogpu/fractal"
	"github.com/gogpu/gpucontext"
)

// WheelThrottle is the minimum interval between two wheel zooms.
const WheelThrottle = 20 * time.Millisecond

// DragThreshold is the distance in pixels a pressed pointer must travel
// before the press becomes a drag instead of a click.
const DragThreshold = 3.0

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now for wheel throttling.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCurvatureStep sets how much one click changes the curvature.
func WithCurvatureStep(step float64) Option {
	return func(c *Controller) {
		c.curvatureStep = step
	}
}

// Controller serializes input events and render ticks on one Renderer.
type Controller struct {
	mu sync.Mutex
	r  *fractal.Renderer

	now           func() time.Time
	lastZoom      time.Time
	curvatureStep float64

	pressed      gpucontext.Button
	dragging     bool
	startX       float64
	startY       float64
	lastX, lastY float64
}

// New returns a controller for r.
func New(r *fractal.Renderer, opts ...Option) *Controller {
	c := &Controller{
		r:             r,
		now:           time.Now,
		curvatureStep: 1,
		pressed:       gpucontext.ButtonNone,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Attach registers the controller on the given event sources. Either may
// be nil.
func (c *Controller) Attach(pointer gpucontext.PointerEventSource, scroll gpucontext.ScrollEventSource) {
	if pointer != nil {
		pointer.OnPointer(c.HandlePointer)
	}
	if scroll != nil {
		scroll.OnScrollEvent(c.HandleScroll)
	}
}

// Tick advances the renderer under the controller's lock.
func (c *Controller) Tick(budget time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.r.Tick(budget)
}

// Do runs fn with exclusive access to the renderer.
func (c *Controller) Do(fn func(r *fractal.Renderer)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.r)
}

// HandleScroll zooms toward the event position. Wheel down (DeltaY > 0)
// zooms out. Events within WheelThrottle of the last zoom are dropped.
func (c *Controller) HandleScroll(ev gpucontext.ScrollEvent) {
	if ev.DeltaY == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !c.lastZoom.IsZero() && now.Sub(c.lastZoom) < WheelThrottle {
		return
	}
	c.lastZoom = now

	steps := -1
	if ev.DeltaY > 0 {
		steps = 1
	}
	c.r.ZoomAt(ev.X, ev.Y, steps)
	fractal.Logger().Debug("input: zoom", "x", ev.X, "y", ev.Y, "steps", steps,
		"zoomExp", c.r.Viewport().ZoomExp)
}

// HandlePointer implements clicks and drags.
func (c *Controller) HandlePointer(ev gpucontext.PointerEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Type {
	case gpucontext.PointerDown:
		if c.pressed != gpucontext.ButtonNone {
			return
		}
		if ev.Button != gpucontext.ButtonLeft && ev.Button != gpucontext.ButtonRight {
			return
		}
		c.pressed = ev.Button
		c.dragging = false
		c.startX, c.startY = ev.X, ev.Y
		c.lastX, c.lastY = ev.X, ev.Y

	case gpucontext.PointerMove:
		if c.pressed != gpucontext.ButtonLeft {
			return
		}
		if !c.dragging && math.Hypot(ev.X-c.startX, ev.Y-c.startY) < DragThreshold {
			return
		}
		c.dragging = true
		dx, dy := ev.X-c.lastX, ev.Y-c.lastY
		c.lastX, c.lastY = ev.X, ev.Y
		if dx != 0 || dy != 0 {
			c.r.Pan(dx, dy)
		}

	case gpucontext.PointerUp:
		if ev.Button != c.pressed {
			return
		}
		if !c.dragging {
			c.click(ev.Button)
		}
		c.release()

	case gpucontext.PointerCancel, gpucontext.PointerLeave:
		c.release()
	}
}

func (c *Controller) click(b gpucontext.Button) {
	delta := c.curvatureStep
	if b == gpucontext.ButtonRight {
		delta = -delta
	}
	c.r.StepCurvature(delta)
	fractal.Logger().Debug("input: curvature", "curvature", c.r.Curvature())
}

func (c *Controller) release() {
	c.pressed = gpucontext.ButtonNone
	c.dragging = false
}
