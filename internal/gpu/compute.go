//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	"github.com/gogpu/fractal"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Errors returned by ComputeBackend.
var (
	ErrNotInitialized = errors.New("gpu: backend not initialized")
	ErrNoAdapter      = errors.New("gpu: no hardware adapter")
	ErrProvider       = errors.New("gpu: provider does not expose HAL device and queue")
	ErrSoftwareDevice = errors.New("gpu: shared device is a software renderer")
)

// DefaultMaxPixels bounds the frames a ComputeBackend accepts.
const DefaultMaxPixels = 8192 * 8192

// ComputeBackend renders whole frames with a wgpu/hal compute shader in
// float32. It declines frames that float32 cannot resolve, which leaves deep
// zooms to the float64 renderers.
type ComputeBackend struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	// Per-size frame resources, recreated when the pixel count grows.
	output    hal.Buffer
	staging   hal.Buffer
	uniform   hal.Buffer
	bindGroup hal.BindGroup
	capacity  uint64

	curve     curve
	maxPixels int
	pixels    []uint8
	adapter   string

	ready          bool
	externalDevice bool // shared device, not destroyed on Close
}

var _ fractal.Backend = (*ComputeBackend)(nil)

// New returns an uninitialized backend with the default curvature.
func New() *ComputeBackend {
	return &ComputeBackend{
		curve:     newCurve(fractal.DefaultCurvature, fractal.DefaultIterationLimit),
		maxPixels: DefaultMaxPixels,
	}
}

// Name returns "gpu".
func (c *ComputeBackend) Name() string { return "gpu" }

// Adapter returns the name of the adapter in use.
func (c *ComputeBackend) Adapter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.adapter
}

// SetLogger implements the logger propagation hook.
func (c *ComputeBackend) SetLogger(l *slog.Logger) { setLogger(l) }

// Init opens a Vulkan device and builds the compute pipeline.
func (c *ComputeBackend) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready {
		return nil
	}
	if err := c.initDevice(); err != nil {
		c.releaseDevice()
		return err
	}
	return nil
}

func (c *ComputeBackend) initDevice() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("gpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Backends: gputypes.BackendsVulkan})
	if err != nil {
		return fmt.Errorf("gpu: create instance: %w", err)
	}
	c.instance = instance

	selected := pickAdapter(instance.EnumerateAdapters(nil))
	if selected == nil {
		return ErrNoAdapter
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("gpu: open device: %w", err)
	}
	c.device = openDev.Device
	c.queue = openDev.Queue
	c.adapter = selected.Info.Name

	if err := c.createPipeline(); err != nil {
		return fmt.Errorf("gpu: create pipeline: %w", err)
	}
	c.ready = true
	slogger().Info("gpu: compute backend initialized", "adapter", c.adapter)
	return nil
}

// pickAdapter prefers a discrete GPU, then an integrated one. Software
// adapters are never picked: the native backend is faster on the CPU.
func pickAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	var fallback *hal.ExposedAdapter
	for i := range adapters {
		switch adapters[i].Info.DeviceType {
		case gputypes.DeviceTypeDiscreteGPU:
			return &adapters[i]
		case gputypes.DeviceTypeIntegratedGPU, gputypes.DeviceTypeVirtualGPU:
			if fallback == nil {
				fallback = &adapters[i]
			}
		}
	}
	return fallback
}

// Close releases all GPU resources. A shared device is left alive.
func (c *ComputeBackend) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseDevice()
}

func (c *ComputeBackend) releaseDevice() {
	if c.device != nil {
		_ = c.device.WaitIdle()
	}
	c.destroyFrameBuffers()
	c.destroyPipeline()
	if !c.externalDevice {
		if c.device != nil {
			c.device.Destroy()
		}
		if c.instance != nil {
			c.instance.Destroy()
		}
	}
	c.device = nil
	c.instance = nil
	c.queue = nil
	c.ready = false
	c.externalDevice = false
}

// SetDeviceProvider switches the backend to a device owned by the host
// application. provider is a gpucontext.DeviceProvider whose Device and
// Queue are hal.Device and hal.Queue.
func (c *ComputeBackend) SetDeviceProvider(provider any) error {
	dp, ok := provider.(gpucontext.DeviceProvider)
	if !ok || dp == nil {
		return ErrProvider
	}
	device, ok := dp.Device().(hal.Device)
	if !ok || device == nil {
		return ErrProvider
	}
	queue, ok := dp.Queue().(hal.Queue)
	if !ok || queue == nil {
		return ErrProvider
	}
	info := dp.AdapterInfo()
	if info.Type == gpucontext.AdapterTypeSoftware {
		return ErrSoftwareDevice
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseDevice()

	c.device = device
	c.queue = queue
	c.externalDevice = true
	c.adapter = info.Name
	if err := c.createPipeline(); err != nil {
		c.ready = false
		return fmt.Errorf("gpu: create pipeline on shared device: %w", err)
	}
	c.ready = true
	slogger().Info("gpu: switched to shared device", "adapter", c.adapter)
	return nil
}

// SetMaxPixels bounds the accepted frame size. n <= 0 restores the default.
func (c *ComputeBackend) SetMaxPixels(n int) {
	if n <= 0 {
		n = DefaultMaxPixels
	}
	c.mu.Lock()
	c.maxPixels = n
	c.mu.Unlock()
}

// SetCurvature configures the code transform.
func (c *ComputeBackend) SetCurvature(b, k float64) {
	c.mu.Lock()
	c.curve = newCurve(b, k)
	c.mu.Unlock()
}

// CanRender accepts frames that fit the pixel budget and that float32
// resolves.
func (c *ComputeBackend) CanRender(req fractal.FrameRequest) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready && c.accepts(req)
}

func (c *ComputeBackend) accepts(req fractal.FrameRequest) bool {
	if req.Width <= 0 || req.Height <= 0 || req.IterationLimit <= 0 {
		return false
	}
	return req.Width*req.Height <= c.maxPixels && resolvable(req)
}

// RenderFrame dispatches the shader over req and reads the pixels back.
func (c *ComputeBackend) RenderFrame(req fractal.FrameRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return ErrNotInitialized
	}
	if !c.accepts(req) {
		return fractal.ErrFallbackToCore
	}

	size := uint64(req.Width) * uint64(req.Height) * 4 //nolint:gosec // checked by accepts
	if err := c.ensureFrameBuffers(size); err != nil {
		return err
	}
	if err := c.queue.WriteBuffer(c.uniform, 0, newFrameParams(req, c.curve).bytes()); err != nil {
		return fmt.Errorf("gpu: write params: %w", err)
	}
	if err := c.dispatch(uint32(req.Width), uint32(req.Height), size); err != nil { //nolint:gosec // checked by accepts
		return err
	}
	return c.readback(size)
}

func (c *ComputeBackend) dispatch(w, h uint32, size uint64) error {
	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "escape_encoder"})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("escape"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "escape_pass"})
	pass.SetPipeline(c.pipeline)
	pass.SetBindGroup(0, c.bindGroup, nil)
	pass.Dispatch((w+workgroupSize-1)/workgroupSize, (h+workgroupSize-1)/workgroupSize, 1)
	pass.End()
	encoder.CopyBufferToBuffer(c.output, c.staging, []hal.BufferCopy{{SrcOffset: 0, DstOffset: 0, Size: size}})
	cmd, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer c.device.FreeCommandBuffer(cmd)

	idx, err := c.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	if err := c.device.WaitIdle(); err != nil {
		return fmt.Errorf("gpu: wait: %w", err)
	}
	if done := c.queue.PollCompleted(); done < idx {
		return fmt.Errorf("gpu: submission %d not completed (last %d)", idx, done)
	}
	return nil
}

func (c *ComputeBackend) readback(size uint64) error {
	mapping, err := c.device.MapBuffer(c.staging, 0, size)
	if err != nil {
		return fmt.Errorf("gpu: map staging buffer: %w", err)
	}
	if cap(c.pixels) < int(size) {
		c.pixels = make([]uint8, size)
	}
	c.pixels = c.pixels[:size]
	copy(c.pixels, unsafe.Slice((*byte)(mapping.Ptr), size))
	if err := c.device.UnmapBuffer(c.staging); err != nil {
		return fmt.Errorf("gpu: unmap staging buffer: %w", err)
	}
	return nil
}

// Pixels returns the RGBA output of the last RenderFrame.
func (c *ComputeBackend) Pixels() []uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pixels
}

func (c *ComputeBackend) createPipeline() error {
	spirv, err := compileShader()
	if err != nil {
		return err
	}
	shader, err := c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "escape",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	c.shader = shader

	bindLayout, err := c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "escape_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	c.bindLayout = bindLayout

	pipeLayout, err := c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "escape_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{c.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	c.pipeLayout = pipeLayout

	pipeline, err := c.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "escape_pipeline", Layout: c.pipeLayout,
		Compute: hal.ComputeState{Module: c.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	c.pipeline = pipeline
	return nil
}

func (c *ComputeBackend) destroyPipeline() {
	if c.device == nil {
		return
	}
	if c.pipeline != nil {
		c.device.DestroyComputePipeline(c.pipeline)
		c.pipeline = nil
	}
	if c.pipeLayout != nil {
		c.device.DestroyPipelineLayout(c.pipeLayout)
		c.pipeLayout = nil
	}
	if c.bindLayout != nil {
		c.device.DestroyBindGroupLayout(c.bindLayout)
		c.bindLayout = nil
	}
	if c.shader != nil {
		c.device.DestroyShaderModule(c.shader)
		c.shader = nil
	}
}

func (c *ComputeBackend) ensureFrameBuffers(size uint64) error {
	if c.output != nil && c.capacity >= size {
		return nil
	}
	c.destroyFrameBuffers()

	var err error
	c.output, err = c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "escape_output", Size: size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("gpu: create output buffer: %w", err)
	}
	c.staging, err = c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "escape_staging", Size: size,
		Usage: gputypes.BufferUsageCopyDst | gputypes.BufferUsageMapRead,
	})
	if err != nil {
		c.destroyFrameBuffers()
		return fmt.Errorf("gpu: create staging buffer: %w", err)
	}
	// HAL WriteBuffer writes the uniform through a host mapping.
	c.uniform, err = c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "escape_params", Size: frameParamsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageMapWrite,
	})
	if err != nil {
		c.destroyFrameBuffers()
		return fmt.Errorf("gpu: create params buffer: %w", err)
	}
	c.bindGroup, err = c.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "escape_bind_group",
		Layout: c.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: c.output.NativeHandle(), Offset: 0, Size: size}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: c.uniform.NativeHandle(), Offset: 0, Size: frameParamsSize}},
		},
	})
	if err != nil {
		c.destroyFrameBuffers()
		return fmt.Errorf("gpu: create bind group: %w", err)
	}
	c.capacity = size
	slogger().Debug("gpu: frame buffers allocated", "bytes", size)
	return nil
}

func (c *ComputeBackend) destroyFrameBuffers() {
	if c.device == nil {
		return
	}
	if c.bindGroup != nil {
		c.device.DestroyBindGroup(c.bindGroup)
		c.bindGroup = nil
	}
	for _, buf := range []*hal.Buffer{&c.output, &c.staging, &c.uniform} {
		if *buf != nil {
			c.device.DestroyBuffer(*buf)
			*buf = nil
		}
	}
	c.capacity = 0
}
