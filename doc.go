// Package fractal renders the Mandelbrot set progressively into an RGBA pixel
// buffer.
//
// # Overview
//
// A render is split into small units of work so that an interactive caller can
// interleave rendering with input handling and present partial results at any
// point. Three pieces cooperate:
//
//   - an escape-time evaluator turning a point of the complex plane into an
//     iteration code ([CountIterations], [Evaluator])
//   - a non-linear code remap and color wheel ([CodeTransformer], [Palette])
//   - a pixel orderer deciding which pixel to compute next ([Spiral],
//     [Scatter], [BlockQueue])
//
// # Quick Start
//
//	r, err := fractal.NewRenderer(800, 600, fractal.WithOrder(fractal.OrderBlocks))
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := r.Render(context.Background()); err != nil {
//		log.Fatal(err)
//	}
//	_ = r.Pixmap().SavePNG("mandel.png")
//
// For interactive use call [Renderer.Tick] once per frame with a small time
// budget and present [Renderer.Pixmap] after each tick.
//
// # Backends
//
// A full-frame backend can replace the progressive core. Backends register
// themselves on blank import:
//
//	import _ "github.com/gogpu/fractal/backend/native" // multi-core CPU
//	import _ "github.com/gogpu/fractal/gpu"            // Vulkan compute
//
// When a backend declines a frame or fails, the renderer falls back to the
// progressive core transparently.
//
// # Coordinate System
//
// Pixel (0,0) is the top-left corner. The real axis grows to the right and the
// imaginary axis grows downward, so row y maps to TopY + y*ZoomHeight/Height.
package fractal
