package fractal

import (
	"errors"
	"fmt"
	"sync"
)

// FrameRequest describes one full frame for a Backend.
type FrameRequest struct {
	Width, Height int

	// LeftX, TopY and ZoomWidth place the frame on the complex plane, as in
	// Viewport. Step is ZoomWidth/Width.
	LeftX, TopY float64
	ZoomWidth   float64
	Step        float64

	IterationLimit int
	Threshold      float64
	Smooth         bool
}

// NewFrameRequest builds the request for rendering v with cfg.
func NewFrameRequest(v Viewport, cfg *Config) FrameRequest {
	return FrameRequest{
		Width:          v.Width,
		Height:         v.Height,
		LeftX:          v.LeftX,
		TopY:           v.TopY,
		ZoomWidth:      v.ZoomWidth(),
		Step:           v.Step(),
		IterationLimit: cfg.IterationLimit,
		Threshold:      cfg.Threshold,
		Smooth:         cfg.Smooth,
	}
}

// Plane maps a pixel of the request to the complex plane. Pixels are square,
// so both axes advance by Step.
func (r FrameRequest) Plane(x, y int) (re, im float64) {
	return r.LeftX + float64(x)*r.Step, r.TopY + float64(y)*r.Step
}

// Backend renders complete frames outside the progressive core.
//
// When a backend is registered and the renderer is allowed to use it, each
// new frame is first offered to CanRender. A backend that accepts renders the
// whole frame synchronously in RenderFrame and exposes the result through
// Pixels. A frame that is declined is rendered by the core. Any RenderFrame
// error disables the backend for the rest of the renderer's life.
//
// Backends register themselves on blank import:
//
//	import _ "github.com/gogpu/fractal/gpu"
type Backend interface {
	// Name returns the backend name (e.g. "native", "vulkan").
	Name() string

	// Init acquires resources. Called once during registration.
	Init() error

	// Close releases resources.
	Close()

	// SetCurvature configures the code transform with curvature b over
	// range k.
	SetCurvature(b, k float64)

	// CanRender is a fast check whether the backend handles req.
	CanRender(req FrameRequest) bool

	// RenderFrame renders req. It returns ErrFallbackToCore when the frame
	// cannot be rendered after all.
	RenderFrame(req FrameRequest) error

	// Pixels returns the RGBA output of the last RenderFrame, Width*Height*4
	// bytes. The slice is owned by the backend.
	Pixels() []uint8
}

// DeviceProviderAware is implemented by backends that can share a GPU device
// with the host application.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	backendMu sync.RWMutex
	backend   Backend
)

// RegisterBackend registers b as the active backend.
//
// Init is called first; if it fails b is not registered, a warning is
// logged and the error is returned. A previously registered backend is
// closed and replaced.
func RegisterBackend(b Backend) error {
	if b == nil {
		return errors.New("fractal: backend must not be nil")
	}
	if err := b.Init(); err != nil {
		Logger().Warn("fractal: backend unavailable, using core renderer",
			"backend", b.Name(), "err", err)
		return fmt.Errorf("fractal: init backend %s: %w", b.Name(), err)
	}
	propagateLogger(b, Logger())

	backendMu.Lock()
	old := backend
	backend = b
	backendMu.Unlock()
	if old != nil {
		old.Close()
	}
	Logger().Info("fractal: backend registered", "backend", b.Name())
	return nil
}

// ActiveBackend returns the registered backend, or nil.
func ActiveBackend() Backend {
	backendMu.RLock()
	b := backend
	backendMu.RUnlock()
	return b
}

// SetBackendDeviceProvider passes provider to the active backend when it
// supports device sharing. Otherwise it does nothing.
func SetBackendDeviceProvider(provider any) error {
	b := ActiveBackend()
	if b == nil {
		return nil
	}
	if dpa, ok := b.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
