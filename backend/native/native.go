// Package native provides a multi-core CPU backend that renders whole frames
// on a worker pool.
//
// The backend trades progressive display for throughput: a frame is
// returned only when every pixel is done. Import the package to register it:
//
//	import _ "github.com/gogpu/fractal/backend/native"
package native

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/internal/parallel"
)

// Package errors for the native backend.
var (
	// ErrNotInitialized is returned when RenderFrame is called before Init
	// or after Close.
	ErrNotInitialized = errors.New("native: backend not initialized")

	// ErrInvalidDimensions is returned for a frame with no pixels.
	ErrInvalidDimensions = errors.New("native: invalid dimensions")
)

// DefaultMaxPixels bounds the frames the backend accepts. Larger frames are
// left to the progressive core so that the display stays responsive.
const DefaultMaxPixels = 4096 * 4096

// Backend renders frames on all cores.
type Backend struct {
	mu        sync.Mutex
	workers   int
	maxPixels int
	pool      *parallel.WorkerPool
	tr        *fractal.CodeTransformer
	pixels    []uint8
	logger    *slog.Logger
}

// New returns a backend using the given number of workers; 0 selects
// GOMAXPROCS.
func New(workers int) *Backend {
	tr, _ := fractal.NewCodeTransformer(fractal.DefaultCurvature, fractal.DefaultIterationLimit)
	return &Backend{
		workers:   workers,
		maxPixels: DefaultMaxPixels,
		tr:        tr,
		logger:    fractal.Logger(),
	}
}

// Name returns "native".
func (b *Backend) Name() string { return "native" }

// Init starts the worker pool.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pool == nil {
		b.pool = parallel.NewWorkerPool(b.workers)
		b.logger.Debug("native: worker pool started", "workers", b.pool.Workers())
	}
	return nil
}

// Close stops the worker pool.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pool != nil {
		b.pool.Close()
		b.pool = nil
	}
}

// SetLogger implements the logger propagation hook.
func (b *Backend) SetLogger(l *slog.Logger) {
	b.mu.Lock()
	b.logger = l
	b.mu.Unlock()
}

// SetMaxPixels changes the largest frame the backend accepts.
func (b *Backend) SetMaxPixels(n int) {
	b.mu.Lock()
	b.maxPixels = n
	b.mu.Unlock()
}

// SetCurvature rebuilds the code transform. A zero k is ignored.
func (b *Backend) SetCurvature(curv, k float64) {
	tr, err := fractal.NewCodeTransformer(curv, k)
	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.logger.Warn("native: curvature ignored", "b", curv, "k", k, "err", err)
		return
	}
	b.tr = tr
}

// CanRender accepts any non-empty frame up to the pixel limit while the
// pool is running.
func (b *Backend) CanRender(req fractal.FrameRequest) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := req.Width * req.Height
	return b.pool != nil && n > 0 && n <= b.maxPixels
}

// RenderFrame renders req into the backend's pixel buffer.
func (b *Backend) RenderFrame(req fractal.FrameRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pool == nil {
		return ErrNotInitialized
	}
	if req.Width <= 0 || req.Height <= 0 {
		return ErrInvalidDimensions
	}

	size := req.Width * req.Height * 4
	if cap(b.pixels) < size {
		b.pixels = make([]uint8, size)
	}
	b.pixels = b.pixels[:size]

	pal := fractal.NewPalette(req.IterationLimit, b.tr)
	eval := fractal.Evaluator{Threshold: req.Threshold, Smooth: req.Smooth}
	pix := b.pixels
	stride := req.Width * 4
	b.pool.Render(req.Width, req.Height, func(x, y int) {
		re, im := req.Plane(x, y)
		c := pal.Color(eval.Count(re, im, req.IterationLimit))
		i := y*stride + x*4
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	})
	b.logger.Debug("native: frame rendered", "width", req.Width, "height", req.Height)
	return nil
}

// Pixels returns the output of the last RenderFrame.
func (b *Backend) Pixels() []uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pixels
}

func init() {
	if err := fractal.RegisterBackend(New(0)); err != nil {
		fractal.Logger().Warn("native backend not available", "err", err)
	}
}
