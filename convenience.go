package calibrator

import (
	"fmt"
)

// NewFromPoints creates a calibrator from config and stores points, running a
// single triangulation at the end.
func NewFromPoints(config *Config, points []CalibrationPoint) (*Calibrator, error) {
	c, err := New(config)
	if err != nil {
		return nil, err
	}
	for _, cp := range points {
		c.engine.AddCalibrationPoint(cp.Point, cp.Data)
	}
	c.engine.TryToPerformTriangulation()
	return c, nil
}

// Load creates a calibrator from a file written by SaveConfiguration. The
// dimensions are taken from the file.
func Load(path string) (*Calibrator, error) {
	cfg := DefaultConfig(1, 1)
	c, err := New(&cfg)
	if err != nil {
		return nil, err
	}
	if err := c.LoadConfiguration(path); err != nil {
		return nil, err
	}
	return c, nil
}

// Parse creates a calibrator from text produced by Configuration.
func Parse(configuration string) (*Calibrator, error) {
	cfg := DefaultConfig(1, 1)
	c, err := New(&cfg)
	if err != nil {
		return nil, err
	}
	if err := c.SetConfiguration(configuration); err != nil {
		return nil, err
	}
	return c, nil
}

// InterpolateAll evaluates every query in order.
func InterpolateAll(c Interpolator, queries [][]float64) [][]float64 {
	out := make([][]float64, len(queries))
	for i, q := range queries {
		out[i] = c.Interpolated(q)
	}
	return out
}

// Interpolate1D maps queries through the piecewise linear function sampled
// at (xs[i], ys[i]), extending the outermost segments beyond the samples.
func Interpolate1D(xs, ys, queries []float64) ([]float64, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d coordinates and %d values", ErrDimensionMismatch, len(xs), len(ys))
	}

	points := make([]CalibrationPoint, len(xs))
	for i := range xs {
		points[i] = CalibrationPoint{Point: []float64{xs[i]}, Data: []float64{ys[i]}}
	}

	cfg := DefaultConfig(1, 1)
	c, err := NewFromPoints(&cfg, points)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(queries))
	for i, q := range queries {
		out[i] = c.Interpolated([]float64{q})[0]
	}
	return out, nil
}
