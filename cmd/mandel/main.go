// Command mandel renders a Mandelbrot view progressively and saves it as PNG.
//
//	mandel -width 1024 -height 768 -x -0.743 -y 0.131 -zoom -12 -output view.png
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/fractal"
	_ "github.com/gogpu/fractal/backend/native" // registers the multi-core backend
	"github.com/gogpu/fractal/internal/caption"
	gpuimpl "github.com/gogpu/fractal/internal/gpu"
)

func main() {
	var (
		width     = flag.Int("width", 800, "image width")
		height    = flag.Int("height", 600, "image height")
		order     = flag.String("order", "blocks", "pixel order: spiral, scatter or blocks")
		limit     = flag.Int("limit", fractal.DefaultIterationLimit, "iteration limit")
		curvature = flag.Float64("b", fractal.DefaultCurvature, "palette curvature")
		centerX   = flag.Float64("x", -0.5, "real part of the view center")
		centerY   = flag.Float64("y", 0, "imaginary part of the view center")
		zoom      = flag.Int("zoom", fractal.DefaultZoomExp, "zoom exponent; the view is 2^(zoom/4) wide")
		slice     = flag.Duration("slice", fractal.DefaultTimeSlice, "time slice per tick")
		output    = flag.String("output", "mandel.png", "output file")
		withCap   = flag.Bool("caption", false, "draw a status caption")
		backend   = flag.String("backend", defaultBackend, "renderer: core, native, gpu or auto; only core renders in -order")
		verbose   = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *verbose {
		fractal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	ord, err := fractal.ParseOrder(*order)
	if err != nil {
		log.Fatal(err)
	}
	opts := []fractal.Option{
		fractal.WithIterationLimit(*limit),
		fractal.WithCurvature(*curvature),
		fractal.WithOrder(ord),
		fractal.WithTimeSlice(*slice),
	}
	more, err := backendOptions(*backend)
	if err != nil {
		log.Fatal(err)
	}
	opts = append(opts, more...)

	r, err := fractal.NewRenderer(*width, *height, opts...)
	if err != nil {
		log.Fatal(err)
	}
	v := fractal.HomeViewport(*width, *height)
	v.ZoomExp = *zoom
	if err := r.SetViewport(v.CenteredAt(*centerX, *centerY)); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	ticks, err := render(ctx, r, *slice)
	if err != nil {
		log.Fatalf("render interrupted: %v", err)
	}
	elapsed := time.Since(start)

	if *withCap {
		if err := drawCaption(r, elapsed); err != nil {
			log.Fatal(err)
		}
	}
	if err := r.Pixmap().SavePNG(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	p := message.NewPrinter(language.English)
	p.Printf("%s: %dx%d, %d pixels, %d ticks, %v, renderer %s\n",
		*output, *width, *height, *width**height, ticks, elapsed.Round(time.Millisecond), r.BackendName())
}

// defaultBackend keeps rendering on the progressive core path. The native
// and GPU backends finish most frames in a single tick.
const defaultBackend = "core"

// backendOptions returns the renderer options selecting the named backend.
func backendOptions(name string) ([]fractal.Option, error) {
	switch name {
	case "core":
		return []fractal.Option{fractal.WithBackend(false)}, nil
	case "native":
		return nil, nil
	case "gpu", "auto":
		if err := fractal.RegisterBackend(gpuimpl.New()); err != nil {
			if name == "gpu" {
				return nil, fmt.Errorf("GPU backend: %w", err)
			}
			log.Printf("GPU unavailable, using native backend: %v", err)
		}
		return nil, nil
	}
	return nil, fmt.Errorf("unknown backend %q", name)
}

// render ticks r to completion and logs progress in tenths.
func render(ctx context.Context, r *fractal.Renderer, slice time.Duration) (int, error) {
	logger := fractal.Logger()
	ticks, reported := 0, -1
	for {
		if err := ctx.Err(); err != nil {
			return ticks, err
		}
		done := r.Tick(slice)
		ticks++
		if tenth := int(r.Progress() * 10); tenth != reported {
			reported = tenth
			logger.Info("mandel: progress", "percent", tenth*10, "ticks", ticks)
		}
		if done {
			return ticks, nil
		}
	}
}

func drawCaption(r *fractal.Renderer, elapsed time.Duration) error {
	c, err := caption.New(caption.DefaultSize)
	if err != nil {
		return err
	}
	defer c.Close()
	c.Align = caption.AlignRight

	v := r.Viewport()
	re, im := v.Center()
	text := fmt.Sprintf("%.10g%+.10gi  zoom 2^(%d/4)  b=%g  %s  %v",
		re, im, v.ZoomExp, r.Curvature(), r.Order(), elapsed.Round(time.Millisecond))
	c.Draw(r.Pixmap().RGBA(), text)
	return nil
}
