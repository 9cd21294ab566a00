package engine

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-calibrator/internal/testutil"
)

// =============================================================================
// Helpers
// =============================================================================

func newCalibrator(t *testing.T, space, data int) *Calibrator {
	t.Helper()
	c, err := New(space, data, Options{})
	require.NoError(t, err)
	return c
}

// addAll adds the points and triangulates once.
func addAll(c *Calibrator, points ...CalibrationPoint) {
	for _, cp := range points {
		c.AddCalibrationPoint(cp.Point, cp.Data)
	}
	c.TryToPerformTriangulation()
}

func cp(point []float64, data ...float64) CalibrationPoint {
	return CalibrationPoint{Point: point, Data: data}
}

// =============================================================================
// Construction
// =============================================================================

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		space, data int
		wantErr     bool
	}{
		{"1x1", 1, 1, false},
		{"3x2", 3, 2, false},
		{"Zero space", 0, 1, true},
		{"Zero data", 2, 0, true},
		{"Negative", -1, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.space, tt.data, Options{})
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidDimension)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.space, c.SpaceDimension())
			assert.Equal(t, tt.data, c.DataDimension())
			assert.Equal(t, make([]float64, tt.data), c.LastResult())
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.InDelta(t, 0.01, opts.PivotTolerance, 0)
	assert.NotNil(t, opts.Geometry)
	assert.NotNil(t, opts.Logger)
}

// =============================================================================
// Point storage
// =============================================================================

func TestAddCalibrationPoint_PadsAndTruncates(t *testing.T) {
	c := newCalibrator(t, 3, 2)
	c.AddCalibrationPoint([]float64{1}, []float64{5, 6, 7})

	points := c.Points()
	require.Len(t, points, 1)
	assert.Equal(t, []float64{1, 0, 0}, points[0].Point)
	assert.Equal(t, []float64{5, 6}, points[0].Data)
}

func TestAddCalibrationPoint_Deduplicates(t *testing.T) {
	c := newCalibrator(t, 2, 1)
	c.AddCalibrationPoint([]float64{1, 2}, []float64{10})
	c.AddCalibrationPoint([]float64{3, 4}, []float64{20})
	c.AddCalibrationPoint([]float64{1, 2}, []float64{30})

	assert.Equal(t, 2, c.NumCalibrationPoints())
	points := c.Points()
	assert.Equal(t, []float64{30}, points[0].Data, "data overwritten in place")
	assert.Equal(t, []float64{20}, points[1].Data)
}

func TestAddCalibrationPoint_PaddedCoordinatesMatch(t *testing.T) {
	c := newCalibrator(t, 2, 1)
	c.AddCalibrationPoint([]float64{1}, []float64{1})
	c.AddCalibrationPoint([]float64{1, 0}, []float64{2})

	assert.Equal(t, 1, c.NumCalibrationPoints())
	assert.Equal(t, []float64{2}, c.Points()[0].Data)
}

func TestAddCalibrationPoint_NegativeZero(t *testing.T) {
	c := newCalibrator(t, 2, 1)
	c.AddCalibrationPoint([]float64{0, 1}, []float64{1})
	c.AddCalibrationPoint([]float64{math.Copysign(0, -1), 1}, []float64{2})

	assert.Equal(t, 1, c.NumCalibrationPoints(), "-0 equals +0")
	assert.Equal(t, []float64{2}, c.Points()[0].Data)
}

func TestAddCalibrationPoint_NaNNeverMatches(t *testing.T) {
	c := newCalibrator(t, 1, 1)
	c.AddCalibrationPoint([]float64{math.NaN()}, []float64{1})
	c.AddCalibrationPoint([]float64{math.NaN()}, []float64{2})

	assert.Equal(t, 2, c.NumCalibrationPoints())
}

func TestAddCalibrationPoint_NearbyIsDistinct(t *testing.T) {
	c := newCalibrator(t, 1, 1)
	c.AddCalibrationPoint([]float64{1}, []float64{1})
	c.AddCalibrationPoint([]float64{math.Nextafter(1, 2)}, []float64{2})

	assert.Equal(t, 2, c.NumCalibrationPoints(), "no tolerance is applied")
}

func TestPoints_ReturnsCopies(t *testing.T) {
	c := newCalibrator(t, 2, 1)
	c.AddCalibrationPoint([]float64{1, 2}, []float64{3})

	points := c.Points()
	points[0].Point[0] = 100
	points[0].Data[0] = 100

	assert.Equal(t, []float64{1, 2}, c.Points()[0].Point)
	assert.Equal(t, []float64{3}, c.Points()[0].Data)
}

func TestAddCalibrationPoint_DoesNotAliasInput(t *testing.T) {
	c := newCalibrator(t, 2, 1)
	point := []float64{1, 2}
	data := []float64{3}
	c.AddCalibrationPoint(point, data)

	point[0] = 9
	data[0] = 9
	assert.Equal(t, []float64{1, 2}, c.Points()[0].Point)
	assert.Equal(t, []float64{3}, c.Points()[0].Data)
}

// =============================================================================
// Triangulation
// =============================================================================

func TestTryToPerformTriangulation_SortsOneDimension(t *testing.T) {
	c := newCalibrator(t, 1, 1)
	addAll(c, cp([]float64{10}, 100), cp([]float64{-5}, 1), cp([]float64{3}, 2))

	var xs []float64
	for _, p := range c.Points() {
		xs = append(xs, p.Point[0])
	}
	assert.Equal(t, []float64{-5, 3, 10}, xs)

	// The index must follow the new order.
	c.AddCalibrationPoint([]float64{10}, []float64{7})
	assert.Equal(t, 3, c.NumCalibrationPoints())
	assert.Equal(t, []float64{7}, c.Points()[2].Data)
}

func TestTryToPerformTriangulation_NeedsNPlusTwoPoints(t *testing.T) {
	c := newCalibrator(t, 2, 1)
	addAll(c, cp([]float64{0, 0}, 0), cp([]float64{1, 0}, 1), cp([]float64{0, 1}, 2))

	assert.False(t, c.Triangulated())
	assert.Empty(t, c.Simplices())

	addAll(c, cp([]float64{1, 1}, 3))
	assert.True(t, c.Triangulated())
	assert.Len(t, c.Simplices(), 2)
}

func TestTryToPerformTriangulation_Degenerate(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c, err := New(2, 1, Options{Logger: logger})
	require.NoError(t, err)
	addAll(c,
		cp([]float64{0, 0}, 0),
		cp([]float64{1, 1}, 1),
		cp([]float64{2, 2}, 2),
		cp([]float64{3, 3}, 3),
	)

	assert.False(t, c.Triangulated())
	assert.Contains(t, buf.String(), "delaunay triangulation failed")

	// Queries fall back to the cached result.
	testutil.AssertVectorInDelta(t, []float64{0}, c.Interpolated([]float64{1.5, 1.5}), 0)
}

func TestSimplices_Square(t *testing.T) {
	c := newCalibrator(t, 2, 1)
	addAll(c, squarePoints()...)

	simplices := c.Simplices()
	require.Len(t, simplices, 2)
	for _, s := range simplices {
		assert.Len(t, s.Vertices, 3)
		require.Len(t, s.Facets, 2, "each half of the square owns two hull edges")
		for _, f := range s.Facets {
			assert.Len(t, f.Vertices, 2)
			assert.True(t, f.Weighted)
			testutil.AssertUnitLength(t, f.Normal, testutil.DefaultTolerance)
		}
	}
}

// =============================================================================
// Reset and replacement
// =============================================================================

func TestReset(t *testing.T) {
	c := newCalibrator(t, 2, 1)
	addAll(c, squarePoints()...)
	c.Interpolated([]float64{0.5, 0.5})

	require.NoError(t, c.Reset(3, 2))
	assert.Equal(t, 3, c.SpaceDimension())
	assert.Equal(t, 2, c.DataDimension())
	assert.Zero(t, c.NumCalibrationPoints())
	assert.False(t, c.Triangulated())
	assert.Equal(t, []float64{0, 0}, c.LastResult())

	err := c.Reset(0, 1)
	assert.ErrorIs(t, err, ErrInvalidDimension)
	assert.Equal(t, 3, c.SpaceDimension(), "failed reset keeps dimensions")
}

func TestReplacePoints(t *testing.T) {
	c := newCalibrator(t, 2, 1)
	addAll(c, squarePoints()...)
	require.True(t, c.Triangulated())

	c.ReplacePoints([]CalibrationPoint{
		cp([]float64{5, 5}, 1),
		cp([]float64{6, 6}, 2),
		cp([]float64{5, 5}, 3),
	})

	assert.False(t, c.Triangulated())
	points := c.Points()
	require.Len(t, points, 2)
	assert.Equal(t, []float64{3}, points[0].Data)
}
