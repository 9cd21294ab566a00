package calibrator

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/tphakala/simd/cpu"

	"github.com/tphakala/go-calibrator/internal/engine"
	"github.com/tphakala/go-calibrator/internal/geometry"
	"github.com/tphakala/go-calibrator/internal/linalg"
)

// Interpolator is the common surface of Calibrator and Synchronized.
type Interpolator interface {
	// AddCalibrationPoint stores data at point, replacing the data of an
	// existing point with exactly the same coordinate.
	AddCalibrationPoint(point, data []float64)

	// TryToPerformTriangulation rebuilds the structures used by queries.
	TryToPerformTriangulation()

	// Interpolated returns the data estimate at query.
	Interpolated(query []float64) []float64

	// NumCalibrationPoints returns the number of stored points.
	NumCalibrationPoints() int

	// Configuration serialises the calibration points.
	Configuration() string

	// SetConfiguration replaces the calibration points with a serialised set.
	SetConfiguration(configuration string) error
}

// CalibrationPoint pairs a coordinate with the data observed there.
type CalibrationPoint = engine.CalibrationPoint

// SimplexInfo describes a simplex of the current triangulation.
type SimplexInfo = engine.SimplexInfo

// FacetInfo describes a convex hull facet of a simplex.
type FacetInfo = engine.FacetInfo

// GeometryBackend selects the convex hull and triangulation implementation.
type GeometryBackend int

const (
	// GeometryIncremental is the pure Go beneath-beyond backend. It works in
	// any dimension and keeps every point on the hull boundary as a vertex.
	GeometryIncremental GeometryBackend = iota

	// GeometryQuickHull runs quickhull for planar triangulations and for the
	// inside test of three-dimensional hulls. Other work uses
	// GeometryIncremental.
	GeometryQuickHull
)

// String returns the backend name.
func (g GeometryBackend) String() string {
	switch g {
	case GeometryIncremental:
		return geometry.NameIncremental
	case GeometryQuickHull:
		return geometry.NameQuickHull
	default:
		return fmt.Sprintf("GeometryBackend(%d)", int(g))
	}
}

// ParseGeometryBackend returns the backend with the given name.
func ParseGeometryBackend(name string) (GeometryBackend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case geometry.NameIncremental, "":
		return GeometryIncremental, nil
	case geometry.NameQuickHull:
		return GeometryQuickHull, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedBackend, name)
	}
}

func (g GeometryBackend) builder() (geometry.Builder, error) {
	switch g {
	case GeometryIncremental:
		return geometry.Incremental{}, nil
	case GeometryQuickHull:
		return geometry.QuickHull{}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedBackend, g)
	}
}

// Config holds calibrator configuration.
type Config struct {
	// SpaceDimension is N, the number of coordinates per calibration point.
	SpaceDimension int

	// DataDimension is M, the number of data values per calibration point.
	DataDimension int

	// PivotTolerance is the smallest pivot magnitude accepted when inverting
	// simplex matrices. Simplices with smaller edges are treated as flat.
	// Set to 0 to use the default of 0.01.
	PivotTolerance float64

	// Geometry selects the hull and triangulation backend.
	Geometry GeometryBackend

	// AutoTriangulate rebuilds the triangulation after every added point.
	// Disable it when adding many points and call TryToPerformTriangulation
	// once afterwards.
	AutoTriangulate bool

	// Logger receives debug records about degenerate geometry and loaded
	// configurations. Nil disables logging.
	Logger *slog.Logger
}

// Common errors returned by the calibrator.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid calibrator configuration")

	// ErrDimensionMismatch indicates vectors whose length does not match the
	// calibrator dimensions.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrUnsupportedBackend indicates an unknown geometry backend.
	ErrUnsupportedBackend = errors.New("unsupported geometry backend")
)

// DefaultConfig returns a configuration for the given dimensions with
// automatic triangulation and the incremental backend.
func DefaultConfig(space, data int) Config {
	return Config{
		SpaceDimension:  space,
		DataDimension:   data,
		PivotTolerance:  linalg.DefaultPivotTolerance,
		Geometry:        GeometryIncremental,
		AutoTriangulate: true,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SpaceDimension < 1 || c.DataDimension < 1 {
		return fmt.Errorf("%w: dimensions must be positive", ErrInvalidConfig)
	}

	if c.SpaceDimension > maxSpaceDimension {
		return fmt.Errorf("%w: space dimension too large (max %d)", ErrInvalidConfig, maxSpaceDimension)
	}

	if c.DataDimension > maxDataDimension {
		return fmt.Errorf("%w: data dimension too large (max %d)", ErrInvalidConfig, maxDataDimension)
	}

	if c.PivotTolerance < 0 || math.IsNaN(c.PivotTolerance) || math.IsInf(c.PivotTolerance, 0) {
		return fmt.Errorf("%w: pivot tolerance must be a finite non-negative number", ErrInvalidConfig)
	}

	if _, err := c.Geometry.builder(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// Calibrator maps N-dimensional coordinates to M-dimensional data using
// barycentric interpolation inside the convex hull of its calibration points
// and facet-weighted extrapolation outside it.
//
// A Calibrator is not safe for concurrent use; see Synchronized.
type Calibrator struct {
	config Config
	engine *engine.Calibrator
}

var _ Interpolator = (*Calibrator)(nil)

// New creates a calibrator with the specified configuration.
func New(config *Config) (*Calibrator, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	builder, err := config.Geometry.builder()
	if err != nil {
		return nil, err
	}

	e, err := engine.New(config.SpaceDimension, config.DataDimension, engine.Options{
		PivotTolerance: config.PivotTolerance,
		Geometry:       builder,
		Logger:         config.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &Calibrator{config: *config, engine: e}, nil
}

// Config returns the configuration with the current dimensions.
func (c *Calibrator) Config() Config {
	cfg := c.config
	cfg.SpaceDimension = c.engine.SpaceDimension()
	cfg.DataDimension = c.engine.DataDimension()
	return cfg
}

// AddCalibrationPoint stores data at point. Vectors are padded with zeros or
// truncated to the calibrator dimensions.
func (c *Calibrator) AddCalibrationPoint(point, data []float64) {
	c.engine.AddCalibrationPoint(point, data)
	if c.config.AutoTriangulate {
		c.engine.TryToPerformTriangulation()
	}
}

// AddCalibrationPoints stores several points and triangulates at most once.
func (c *Calibrator) AddCalibrationPoints(points []CalibrationPoint) {
	for _, cp := range points {
		c.engine.AddCalibrationPoint(cp.Point, cp.Data)
	}
	if c.config.AutoTriangulate {
		c.engine.TryToPerformTriangulation()
	}
}

// TryToPerformTriangulation sorts one-dimensional points or rebuilds the
// triangulation of higher-dimensional ones.
func (c *Calibrator) TryToPerformTriangulation() {
	c.engine.TryToPerformTriangulation()
}

// Interpolated returns the data estimate at query. Queries are padded with
// zeros or truncated to the space dimension. When no estimate can be computed
// the previous result is returned again.
func (c *Calibrator) Interpolated(query []float64) []float64 {
	return c.engine.Interpolated(query)
}

// InterpolatedStrict is like Interpolated but rejects queries whose length
// does not match the space dimension.
func (c *Calibrator) InterpolatedStrict(query []float64) ([]float64, error) {
	if len(query) != c.engine.SpaceDimension() {
		return nil, fmt.Errorf("%w: query has %d coordinates, want %d",
			ErrDimensionMismatch, len(query), c.engine.SpaceDimension())
	}
	return c.engine.Interpolated(query), nil
}

// NumCalibrationPoints returns the number of stored points.
func (c *Calibrator) NumCalibrationPoints() int {
	return c.engine.NumCalibrationPoints()
}

// Points returns copies of the stored calibration points.
func (c *Calibrator) Points() []CalibrationPoint {
	return c.engine.Points()
}

// SpaceDimension returns N.
func (c *Calibrator) SpaceDimension() int {
	return c.engine.SpaceDimension()
}

// DataDimension returns M.
func (c *Calibrator) DataDimension() int {
	return c.engine.DataDimension()
}

// LastResult returns a copy of the most recent successful query result.
func (c *Calibrator) LastResult() []float64 {
	return c.engine.LastResult()
}

// Triangulated reports whether simplices are available.
func (c *Calibrator) Triangulated() bool {
	return c.engine.Triangulated()
}

// Simplices describes the simplices of the current triangulation.
func (c *Calibrator) Simplices() []SimplexInfo {
	return c.engine.Simplices()
}

// Weight returns the extrapolation weight a boundary facet assigns to query.
// simplex and facet index the result of Simplices.
func (c *Calibrator) Weight(simplex, facet int, query []float64) (weight float64, onRidge bool, err error) {
	return c.engine.Weight(simplex, facet, query)
}

// Reset discards all points and switches to new dimensions.
func (c *Calibrator) Reset(space, data int) error {
	cfg := c.config
	cfg.SpaceDimension = space
	cfg.DataDimension = data
	if err := cfg.Validate(); err != nil {
		return err
	}
	return c.engine.Reset(space, data)
}

// Info describes a calibrator.
type Info struct {
	// SpaceDimension and DataDimension are N and M.
	SpaceDimension int
	DataDimension  int

	// Points is the number of calibration points.
	Points int

	// Simplices is the number of simplices in the triangulation.
	Simplices int

	// BoundaryFacets counts simplex facets on the convex hull.
	BoundaryFacets int

	// Backend names the geometry backend.
	Backend string

	// PivotTolerance is the effective inversion tolerance.
	PivotTolerance float64

	// SIMDType describes the vector instruction set used by the kernels.
	SIMDType string
}

// Info returns information about the calibrator.
func (c *Calibrator) Info() Info {
	simplices := c.engine.Simplices()
	facets := 0
	for _, s := range simplices {
		facets += len(s.Facets)
	}

	tol := c.config.PivotTolerance
	if tol == 0 {
		tol = linalg.DefaultPivotTolerance
	}

	return Info{
		SpaceDimension: c.engine.SpaceDimension(),
		DataDimension:  c.engine.DataDimension(),
		Points:         c.engine.NumCalibrationPoints(),
		Simplices:      len(simplices),
		BoundaryFacets: facets,
		Backend:        c.config.Geometry.String(),
		PivotTolerance: tol,
		SIMDType:       cpu.Info(),
	}
}

func (c *Calibrator) logger() *slog.Logger {
	if c.config.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.config.Logger
}
