package fractal

import "time"

// Option configures a Renderer.
//
// Example:
//
//	r, err := fractal.NewRenderer(800, 600,
//	    fractal.WithOrder(fractal.OrderSpiral),
//	    fractal.WithIterationLimit(768*4),
//	)
type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(c Config) Option {
	return func(dst *Config) {
		*dst = c
	}
}

// WithIterationLimit sets the escape-time iteration cap.
func WithIterationLimit(n int) Option {
	return func(c *Config) {
		c.IterationLimit = n
	}
}

// WithCurvature sets the initial transform curvature.
func WithCurvature(b float64) Option {
	return func(c *Config) {
		c.Curvature = b
	}
}

// WithCurvatureRange bounds interactive curvature changes.
func WithCurvatureRange(lo, hi float64) Option {
	return func(c *Config) {
		c.CurvatureMin, c.CurvatureMax = lo, hi
	}
}

// WithOrder selects the pixel traversal.
func WithOrder(o Order) Option {
	return func(c *Config) {
		c.Order = o
	}
}

// WithBlockSize sets the block side for OrderBlocks.
func WithBlockSize(n int) Option {
	return func(c *Config) {
		c.BlockSize = n
	}
}

// WithBucketWidth sets the code width of each deferral bucket.
func WithBucketWidth(w float64) Option {
	return func(c *Config) {
		c.BucketWidth = w
	}
}

// WithThreshold sets the squared escape radius.
func WithThreshold(t float64) Option {
	return func(c *Config) {
		c.Threshold = t
	}
}

// WithSmoothing toggles fractional escape codes.
func WithSmoothing(on bool) Option {
	return func(c *Config) {
		c.Smooth = on
	}
}

// WithTimeSlice sets the per-tick budget used by Render.
func WithTimeSlice(d time.Duration) Option {
	return func(c *Config) {
		c.TimeSlice = d
	}
}

// WithViewLimits bounds zooming and panning.
func WithViewLimits(l ViewLimits) Option {
	return func(c *Config) {
		c.View = l
	}
}

// WithPreview toggles the scaled previous-frame preview.
func WithPreview(on bool) Option {
	return func(c *Config) {
		c.Preview = on
	}
}

// WithBackend toggles use of the registered backend.
func WithBackend(on bool) Option {
	return func(c *Config) {
		c.UseBackend = on
	}
}
