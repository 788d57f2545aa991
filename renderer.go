package fractal

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Renderer drives an Orderer over a Viewport in time slices.
//
// Any change of view, size or curvature discards the frame in progress and
// starts a new one. A Renderer is not safe for concurrent use; the pixmap
// must only be read between calls.
type Renderer struct {
	cfg  Config
	view Viewport
	eval Evaluator

	tr  *CodeTransformer
	pal *Palette
	ord Orderer

	pix  *Pixmap
	code CodeFunc

	// shown is the viewport pix was rendered for.
	shown Viewport

	offered     bool
	backendDone bool
	backendOff  bool
	backendName string
}

// NewRenderer creates a renderer for a width x height canvas showing the home
// view.
func NewRenderer(width, height int, opts ...Option) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tr := newCodeTransformer(cfg.clampCurvature(cfg.Curvature), float64(cfg.IterationLimit))
	r := &Renderer{
		cfg:  cfg,
		view: HomeViewport(width, height).Clamp(cfg.View),
		eval: Evaluator{Threshold: cfg.Threshold, Smooth: cfg.Smooth},
		tr:   tr,
		pal:  NewPalette(cfg.IterationLimit, tr),
	}
	if err := r.newOrderer(); err != nil {
		return nil, err
	}
	r.reset(false)
	return r, nil
}

func (r *Renderer) newOrderer() error {
	ord, err := NewOrderer(r.cfg.Order, r.pal, r.cfg.BlockSize, r.cfg.BucketWidth)
	if err != nil {
		return err
	}
	r.ord = ord
	return nil
}

// reset starts a new frame for the current view.
func (r *Renderer) reset(preview bool) {
	prev, prevView := r.pix, r.shown
	v := r.view

	r.pix = r.ord.Reset(v.Width, v.Height)
	r.shown = v
	r.offered, r.backendDone, r.backendName = false, false, ""

	eval, limit := r.eval, r.cfg.IterationLimit
	r.code = func(x, y int) float64 {
		re, im := v.Plane(float64(x), float64(y))
		return eval.Count(re, im, limit)
	}

	drawn := false
	if preview && r.cfg.Preview {
		drawn = drawPreview(r.pix, prev, prevView, v)
	}
	Logger().Debug("fractal: frame reset",
		"order", r.ord.Order(), "width", v.Width, "height", v.Height,
		"zoomExp", v.ZoomExp, "curvature", r.tr.B(), "preview", drawn)
}

// Config returns the renderer configuration.
func (r *Renderer) Config() Config { return r.cfg }

// Viewport returns the current view.
func (r *Renderer) Viewport() Viewport { return r.view }

// Curvature returns the current transform curvature.
func (r *Renderer) Curvature() float64 { return r.tr.B() }

// Palette returns the current palette.
func (r *Renderer) Palette() *Palette { return r.pal }

// Pixmap returns the frame in progress.
func (r *Renderer) Pixmap() *Pixmap { return r.pix }

// Order returns the traversal used by the core.
func (r *Renderer) Order() Order { return r.ord.Order() }

// Done reports whether the current frame is complete.
func (r *Renderer) Done() bool { return r.backendDone || r.ord.Done() }

// Progress returns the completed fraction of the current frame in [0, 1].
func (r *Renderer) Progress() float64 {
	if r.backendDone {
		return 1
	}
	written, total := r.ord.Progress()
	if total == 0 {
		return 1
	}
	return float64(written) / float64(total)
}

// BackendName returns the name of the backend that rendered the current
// frame, or "core" when the progressive core is in use.
func (r *Renderer) BackendName() string {
	if r.backendDone {
		return r.backendName
	}
	return "core"
}

// SetViewport replaces the view. The canvas size follows v.
func (r *Renderer) SetViewport(v Viewport) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, v.Width, v.Height)
	}
	resized := v.Width != r.view.Width || v.Height != r.view.Height
	r.view = v.Clamp(r.cfg.View)
	r.reset(!resized)
	return nil
}

// ZoomAt zooms by steps around pixel (px, py). Positive steps zoom out.
func (r *Renderer) ZoomAt(px, py float64, steps int) {
	r.view = r.view.ZoomAt(px, py, steps, r.cfg.View)
	r.reset(true)
}

// Pan moves the view by (dx, dy) pixels.
func (r *Renderer) Pan(dx, dy float64) {
	r.view = r.view.Pan(dx, dy, r.cfg.View)
	r.reset(true)
}

// Resize changes the canvas size and restarts rendering.
func (r *Renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	r.view = r.view.Resize(width, height).Clamp(r.cfg.View)
	r.reset(false)
	return nil
}

// SetCurvature sets the transform curvature, clamped to the configured
// range, and restarts rendering if it changed. NaN and infinities are
// ignored.
func (r *Renderer) SetCurvature(b float64) {
	if math.IsNaN(b) || math.IsInf(b, 0) {
		return
	}
	b = r.cfg.clampCurvature(b)
	if b == r.tr.B() {
		return
	}
	tr := r.tr.WithCurvature(b)
	pal := r.pal.WithTransformer(tr)
	ord, err := NewOrderer(r.cfg.Order, pal, r.cfg.BlockSize, r.cfg.BucketWidth)
	if err != nil {
		Logger().Warn("fractal: curvature not applied", "curvature", b, "err", err)
		return
	}
	r.tr, r.pal, r.ord = tr, pal, ord
	r.reset(true)
}

// StepCurvature adds delta to the curvature.
func (r *Renderer) StepCurvature(delta float64) {
	r.SetCurvature(r.tr.B() + delta)
}

// Tick renders until budget has elapsed or the frame is complete, always
// doing at least one unit of work. It reports whether the frame is complete.
func (r *Renderer) Tick(budget time.Duration) bool {
	if r.Done() {
		return true
	}
	if !r.offered {
		r.offered = true
		if r.renderBackend() {
			return true
		}
	}

	deadline := time.Now().Add(budget)
	for r.ord.Advance(r.code) {
		if !time.Now().Before(deadline) {
			break
		}
	}
	return r.ord.Done()
}

// Render ticks until the frame is complete or ctx is done.
func (r *Renderer) Render(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.Tick(r.cfg.TimeSlice) {
			return nil
		}
	}
}

// renderBackend offers the frame to the active backend.
func (r *Renderer) renderBackend() bool {
	if !r.cfg.UseBackend || r.backendOff {
		return false
	}
	b := ActiveBackend()
	if b == nil {
		return false
	}
	req := NewFrameRequest(r.view, &r.cfg)
	if !b.CanRender(req) {
		Logger().Debug("fractal: backend declined frame", "backend", b.Name(), "step", req.Step)
		return false
	}

	b.SetCurvature(r.tr.B(), r.tr.K())
	err := b.RenderFrame(req)
	if err == nil {
		if px := b.Pixels(); len(px) == len(r.pix.Data()) {
			copy(r.pix.Data(), px)
			r.backendDone = true
			r.backendName = b.Name()
			return true
		}
		err = fmt.Errorf("%w: backend returned %d bytes, want %d",
			ErrFallbackToCore, len(b.Pixels()), len(r.pix.Data()))
	}
	Logger().Warn("fractal: backend failed, using core renderer",
		"backend", b.Name(), "err", err)
	r.backendOff = true
	return false
}
