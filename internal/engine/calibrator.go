// Package engine implements scattered-data calibration: it stores calibration
// points, triangulates them and answers interpolation queries inside their
// convex hull and facet-weighted extrapolation queries outside it.
//
// A Calibrator is not safe for concurrent use.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tphakala/go-calibrator/internal/geometry"
	"github.com/tphakala/go-calibrator/internal/linalg"
)

// Errors returned by the engine.
var (
	// ErrInvalidDimension indicates a non-positive space or data dimension.
	ErrInvalidDimension = errors.New("engine: dimensions must be positive")

	// ErrOutOfRange indicates a simplex or facet index that does not exist.
	ErrOutOfRange = errors.New("engine: index out of range")
)

// Options tune a Calibrator. The zero value selects the defaults.
type Options struct {
	// PivotTolerance is the smallest pivot magnitude accepted when inverting
	// simplex and projection matrices. Zero selects linalg.DefaultPivotTolerance.
	PivotTolerance float64

	// Geometry computes hulls and triangulations. Nil selects
	// geometry.Incremental.
	Geometry geometry.Builder

	// Logger receives debug records about degenerate geometry. Nil discards.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.PivotTolerance <= 0 {
		o.PivotTolerance = linalg.DefaultPivotTolerance
	}
	if o.Geometry == nil {
		o.Geometry = geometry.Incremental{}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Calibrator maps space coordinates to data vectors using a set of
// calibration points.
type Calibrator struct {
	space int
	data  int
	opts  Options

	points []CalibrationPoint
	index  pointIndex

	// last is returned whenever a query cannot be answered.
	last []float64

	tri       *geometry.Triangulation
	hull      *geometry.Hull
	simplices []*Simplex
	cells     map[int]*Simplex
}

// New creates an empty calibrator for the given space and data dimensions.
func New(space, data int, opts Options) (*Calibrator, error) {
	if space < 1 || data < 1 {
		return nil, fmt.Errorf("%w: space=%d data=%d", ErrInvalidDimension, space, data)
	}
	return &Calibrator{
		space: space,
		data:  data,
		opts:  opts.withDefaults(),
		index: make(pointIndex),
		last:  make([]float64, data),
	}, nil
}

// SpaceDimension returns N, the number of coordinates per point.
func (c *Calibrator) SpaceDimension() int { return c.space }

// DataDimension returns M, the number of data values per point.
func (c *Calibrator) DataDimension() int { return c.data }

// NumCalibrationPoints returns the number of stored points.
func (c *Calibrator) NumCalibrationPoints() int { return len(c.points) }

// LastResult returns a copy of the cached result of the last successful query.
func (c *Calibrator) LastResult() []float64 { return linalg.Clone(c.last) }

// Points returns deep copies of the stored points in storage order.
func (c *Calibrator) Points() []CalibrationPoint {
	out := make([]CalibrationPoint, len(c.points))
	for i, cp := range c.points {
		out[i] = cp.Clone()
	}
	return out
}

// AddCalibrationPoint stores data at point. Both vectors are padded with zeros
// or truncated to the calibrator's dimensions. If a point with exactly the same
// coordinate exists its data is replaced and the point count is unchanged.
//
// The triangulation is not updated; call TryToPerformTriangulation.
func (c *Calibrator) AddCalibrationPoint(point, data []float64) {
	cp := CalibrationPoint{Point: point, Data: data}.resized(c.space, c.data)

	if pos := c.index.find(c.points, cp.Point); pos >= 0 {
		c.points[pos].Data = cp.Data
		return
	}

	c.points = append(c.points, cp)
	c.index.add(cp.Point, len(c.points)-1)
}

// ReplacePoints discards every stored point and adds the given ones in order.
// The triangulation is cleared and must be rebuilt.
func (c *Calibrator) ReplacePoints(points []CalibrationPoint) {
	c.points = nil
	c.index = make(pointIndex, len(points))
	c.clearTriangulation()
	for _, cp := range points {
		c.AddCalibrationPoint(cp.Point, cp.Data)
	}
}

// Reset replaces the dimensions and discards all points, the triangulation
// and the cached result.
func (c *Calibrator) Reset(space, data int) error {
	if space < 1 || data < 1 {
		return fmt.Errorf("%w: space=%d data=%d", ErrInvalidDimension, space, data)
	}
	c.space = space
	c.data = data
	c.points = nil
	c.index = make(pointIndex)
	c.last = make([]float64, data)
	c.clearTriangulation()
	return nil
}

// storeResult caches r and returns an independent copy of it.
func (c *Calibrator) storeResult(r []float64) []float64 {
	c.last = linalg.Clone(r)
	return linalg.Clone(r)
}
