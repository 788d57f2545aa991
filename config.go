package fractal

import (
	"fmt"
	"math"
	"time"
)

// Configuration defaults.
const (
	DefaultIterationLimit = 2112
	DefaultCurvature      = 5.0
	DefaultCurvatureMin   = 1.0
	DefaultCurvatureMax   = 20.0
	DefaultTimeSlice      = 12 * time.Millisecond
)

// Config holds renderer settings. Build one with DefaultConfig and Options.
type Config struct {
	// IterationLimit caps the escape-time iteration and is the code of
	// points inside the set. It is also the range of the code transform.
	IterationLimit int

	// Curvature is the initial transform curvature b.
	Curvature float64

	// CurvatureMin and CurvatureMax bound interactive curvature changes.
	CurvatureMin float64
	CurvatureMax float64

	// Order selects the pixel traversal.
	Order Order

	// BlockSize and BucketWidth configure OrderBlocks.
	BlockSize   int
	BucketWidth float64

	// Threshold and Smooth configure the escape-time evaluator.
	Threshold float64
	Smooth    bool

	// TimeSlice is the budget used by Render for each tick.
	TimeSlice time.Duration

	// View bounds zooming and panning.
	View ViewLimits

	// Preview pre-fills a new frame with the previous one scaled into the
	// new view.
	Preview bool

	// UseBackend lets the renderer hand whole frames to the registered
	// backend.
	UseBackend bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		IterationLimit: DefaultIterationLimit,
		Curvature:      DefaultCurvature,
		CurvatureMin:   DefaultCurvatureMin,
		CurvatureMax:   DefaultCurvatureMax,
		Order:          OrderBlocks,
		BlockSize:      DefaultBlockSize,
		BucketWidth:    DefaultBucketWidth,
		Threshold:      DefaultThreshold,
		Smooth:         true,
		TimeSlice:      DefaultTimeSlice,
		View:           DefaultViewLimits(),
		Preview:        true,
		UseBackend:     true,
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.IterationLimit <= 0:
		return fmt.Errorf("%w: iteration limit %d", ErrInvalidConfig, c.IterationLimit)
	case c.Curvature == 0 || math.IsNaN(c.Curvature):
		return fmt.Errorf("%w: curvature %v", ErrInvalidConfig, c.Curvature)
	case !(c.CurvatureMin <= c.CurvatureMax):
		return fmt.Errorf("%w: curvature range [%v, %v]", ErrInvalidConfig, c.CurvatureMin, c.CurvatureMax)
	case c.CurvatureMin <= 0 && c.CurvatureMax >= 0:
		return fmt.Errorf("%w: curvature range [%v, %v] contains zero", ErrInvalidConfig, c.CurvatureMin, c.CurvatureMax)
	case c.Order < OrderSpiral || c.Order > OrderBlocks:
		return fmt.Errorf("%w: unknown order %d", ErrInvalidConfig, int(c.Order))
	case c.BlockSize <= 0:
		return fmt.Errorf("%w: block size %d", ErrInvalidConfig, c.BlockSize)
	case !(c.BucketWidth >= 1):
		return fmt.Errorf("%w: bucket width %v", ErrInvalidConfig, c.BucketWidth)
	case !(c.Threshold > 0):
		return fmt.Errorf("%w: threshold %v", ErrInvalidConfig, c.Threshold)
	case c.TimeSlice <= 0:
		return fmt.Errorf("%w: time slice %v", ErrInvalidConfig, c.TimeSlice)
	case c.View.MinZoomExp > c.View.MaxZoomExp:
		return fmt.Errorf("%w: zoom range [%d, %d]", ErrInvalidConfig, c.View.MinZoomExp, c.View.MaxZoomExp)
	}
	return nil
}

// clampCurvature limits b to the configured range.
func (c *Config) clampCurvature(b float64) float64 {
	return math.Min(math.Max(b, c.CurvatureMin), c.CurvatureMax)
}
