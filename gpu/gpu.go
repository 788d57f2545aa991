//go:build !nogpu

// Package gpu registers the wgpu/hal compute backend.
//
// Frames that float32 resolves are rendered in one compute dispatch; deeper
// zooms fall back to the float64 core. If GPU initialization fails (no
// Vulkan device, or only a software adapter) registration is skipped with a
// warning and rendering stays on the CPU.
//
// Usage:
//
//	import _ "github.com/gogpu/fractal/gpu" // enable GPU rendering
package gpu

import (
	"github.com/gogpu/fractal"
	gpuimpl "github.com/gogpu/fractal/internal/gpu"
	"github.com/gogpu/gpucontext"
)

func init() {
	if err := fractal.RegisterBackend(gpuimpl.New()); err != nil {
		fractal.Logger().Warn("GPU backend not available", "err", err)
	}
}

// SetDeviceProvider makes the GPU backend share the host application's
// device instead of opening its own. The provider's Device and Queue must
// be hal.Device and hal.Queue.
//
// It does nothing when the active backend cannot share devices.
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	return fractal.SetBackendDeviceProvider(provider)
}
