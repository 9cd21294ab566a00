// Package calibrator maps N-dimensional coordinates to M-dimensional data
// from a set of scattered calibration points.
//
// Inside the convex hull of the points, results are interpolated linearly over
// a Delaunay triangulation. Outside it, results are extrapolated from the
// simplices whose boundary facets face the query, blended with weights that
// fall to zero at the edges of each facet so the estimate stays continuous.
//
// # Features
//
//   - Any space dimension from 1 to 16 and any data dimension
//   - Exact piecewise linear interpolation in one dimension with linear
//     extension beyond the outermost points
//   - Continuous extrapolation outside the convex hull
//   - Plain text configuration format, saved optionally compressed with gzip,
//     zstd, lz4 or s2
//   - Pure Go geometry, with an optional quickhull backend in two and three dimensions
//   - Vector kernels accelerated via github.com/tphakala/simd
//
// # Quick Start
//
//	cfg := calibrator.DefaultConfig(2, 1)
//	c, err := calibrator.New(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	c.AddCalibrationPoint([]float64{0, 0}, []float64{0})
//	c.AddCalibrationPoint([]float64{1, 0}, []float64{1})
//	c.AddCalibrationPoint([]float64{0, 1}, []float64{1})
//	c.AddCalibrationPoint([]float64{1, 1}, []float64{2})
//
//	inside := c.Interpolated([]float64{0.5, 0.5})  // [1]
//	outside := c.Interpolated([]float64{2, 2})     // [4]
//
// When adding many points, set [Config.AutoTriangulate] to false and call
// [Calibrator.TryToPerformTriangulation] once, or use [NewFromPoints].
//
// # Degenerate Input
//
// Queries never fail. When no estimate can be computed, for example because
// the points are coplanar or a simplex is too flat to invert within
// [Config.PivotTolerance], the previous result is returned again. Set
// [Config.Logger] to see why.
//
// # Configuration Format
//
// [Calibrator.Configuration] writes the dimensions, the point count and then
// each point's coordinates and data as text. [Calibrator.SetConfiguration]
// reads it back leniently; see its documentation for the exact rules.
// [Calibrator.SaveConfiguration] and [Calibrator.LoadConfiguration] store the
// same text in a file, compressed by extension.
//
// # Thread Safety
//
// A [Calibrator] is not safe for concurrent use, including concurrent queries,
// since every query updates the cached last result. Use [Synchronized] to
// share one between goroutines.
package calibrator
