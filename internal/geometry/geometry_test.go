package geometry

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/tphakala/go-calibrator/internal/linalg"
	"github.com/tphakala/go-calibrator/internal/testutil"
)

// =============================================================================
// Helpers
// =============================================================================

// cellVolume returns the unsigned volume of a cell.
func cellVolume(points [][]float64, cell Cell) float64 {
	d := len(points[0])
	last := points[cell.Vertices[d]]
	edges := mat.NewDense(d, d, nil)
	for j := range d {
		edges.SetCol(j, linalg.Sub(points[cell.Vertices[j]], last))
	}
	volume := math.Abs(mat.Det(edges))
	for k := 2; k <= d; k++ {
		volume /= float64(k)
	}
	return volume
}

func totalVolume(points [][]float64, tri *Triangulation) float64 {
	var sum float64
	for _, cell := range tri.Cells {
		sum += cellVolume(points, cell)
	}
	return sum
}

// inCircumcircle reports whether p lies strictly inside the circumcircle of
// the triangle abc, using the lifted determinant.
func inCircumcircle(a, b, c, p []float64) bool {
	rows := [][]float64{a, b, c}
	m := mat.NewDense(3, 3, nil)
	for i, q := range rows {
		dx, dy := q[0]-p[0], q[1]-p[1]
		m.SetRow(i, []float64{dx, dy, dx*dx + dy*dy})
	}
	det := mat.Det(m)

	orient := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
	if orient < 0 {
		det = -det
	}
	return det > 1e-9
}

func unitSquare() [][]float64 {
	return [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
}

func unitCube() [][]float64 {
	var pts [][]float64
	for _, x := range []float64{0, 1} {
		for _, y := range []float64{0, 1} {
			for _, z := range []float64{0, 1} {
				pts = append(pts, []float64{x, y, z})
			}
		}
	}
	return pts
}

func usedVertices(tri *Triangulation) map[int]bool {
	used := make(map[int]bool)
	for _, cell := range tri.Cells {
		for _, v := range cell.Vertices {
			used[v] = true
		}
	}
	return used
}

// =============================================================================
// Delaunay
// =============================================================================

func TestDelaunay_Triangle(t *testing.T) {
	points := [][]float64{{0, 0}, {1, 0}, {0, 1}}
	tri, err := Incremental{}.Delaunay(points)
	require.NoError(t, err)

	require.Len(t, tri.Cells, 1)
	assert.ElementsMatch(t, []int{0, 1, 2}, tri.Cells[0].Vertices)
}

// TestDelaunay_CocircularSquare verifies that four cocircular points are all
// kept and split into two triangles covering the square.
func TestDelaunay_CocircularSquare(t *testing.T) {
	points := unitSquare()
	tri, err := Incremental{}.Delaunay(points)
	require.NoError(t, err)

	assert.Len(t, tri.Cells, 2)
	assert.Len(t, usedVertices(tri), 4, "every point must be a vertex")
	assert.InDelta(t, 1.0, totalVolume(points, tri), testutil.DefaultTolerance)
	for _, cell := range tri.Cells {
		assert.Len(t, cell.Vertices, 3)
	}
}

func TestDelaunay_Grid(t *testing.T) {
	var points [][]float64
	for x := range 3 {
		for y := range 3 {
			points = append(points, []float64{float64(x), float64(y)})
		}
	}

	tri, err := Incremental{}.Delaunay(points)
	require.NoError(t, err)

	assert.Len(t, tri.Cells, 8)
	assert.Len(t, usedVertices(tri), 9)
	assert.InDelta(t, 4.0, totalVolume(points, tri), testutil.DefaultTolerance)
}

func TestDelaunay_Cube(t *testing.T) {
	points := unitCube()
	tri, err := Incremental{}.Delaunay(points)
	require.NoError(t, err)

	assert.Len(t, usedVertices(tri), 8)
	assert.InDelta(t, 1.0, totalVolume(points, tri), testutil.DefaultTolerance)
	for _, cell := range tri.Cells {
		assert.Len(t, cell.Vertices, 4)
		assert.Greater(t, cellVolume(points, cell), 0.0, "cells must not be flat")
	}
}

// TestDelaunay_EmptyCircumcircle checks the Delaunay property on a random cloud.
func TestDelaunay_EmptyCircumcircle(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	points := [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for range 40 {
		points = append(points, []float64{rng.Float64(), rng.Float64()})
	}

	tri, err := Incremental{}.Delaunay(points)
	require.NoError(t, err)

	assert.Len(t, usedVertices(tri), len(points))
	assert.InDelta(t, 1.0, totalVolume(points, tri), 1e-9)

	for _, cell := range tri.Cells {
		a, b, c := points[cell.Vertices[0]], points[cell.Vertices[1]], points[cell.Vertices[2]]
		for i, p := range points {
			if i == cell.Vertices[0] || i == cell.Vertices[1] || i == cell.Vertices[2] {
				continue
			}
			assert.False(t, inCircumcircle(a, b, c, p), "point %d inside circumcircle of cell %d", i, cell.ID)
		}
	}
}

func TestDelaunay_HigherDimension(t *testing.T) {
	points := [][]float64{
		{0, 0, 0, 0},
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
		{0.2, 0.2, 0.2, 0.2},
	}

	tri, err := Incremental{}.Delaunay(points)
	require.NoError(t, err)

	assert.Len(t, usedVertices(tri), len(points))
	assert.InDelta(t, 1.0/24, totalVolume(points, tri), testutil.DefaultTolerance)
}

func TestDelaunay_Errors(t *testing.T) {
	tests := []struct {
		name   string
		points [][]float64
		want   error
	}{
		{"Empty", nil, ErrTooFewPoints},
		{"Too few", [][]float64{{0, 0}, {1, 0}}, ErrTooFewPoints},
		{"Mixed dimensions", [][]float64{{0, 0}, {1, 0, 0}, {0, 1}}, ErrDimension},
		{"Collinear", [][]float64{{0, 0}, {1, 1}, {2, 2}, {3, 3}}, ErrDegenerate},
		{"Coincident", [][]float64{{1, 1}, {1, 1}, {1, 1}}, ErrDegenerate},
		{"Coplanar in 3-D", [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}, {2, 3, 0}}, ErrDegenerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Incremental{}.Delaunay(tt.points)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDelaunay_DoesNotModifyInput(t *testing.T) {
	points := unitSquare()
	_, err := Incremental{}.Delaunay(points)
	require.NoError(t, err)
	assert.Equal(t, unitSquare(), points)
}

// =============================================================================
// Locate
// =============================================================================

func TestLocate(t *testing.T) {
	points := [][]float64{{0, 0}, {2, 0}, {0, 2}, {2, 2}, {1, 1.2}}
	tri, err := Incremental{}.Delaunay(points)
	require.NoError(t, err)

	queries := [][]float64{{0.1, 0.1}, {1.9, 0.2}, {1, 1.9}, {1, 1}, {0.5, 1.5}}
	for _, q := range queries {
		id, ok := tri.Locate(q)
		require.True(t, ok)

		cell := tri.Cells[id]
		minCoord, solved := tri.minBarycentric(cell, q)
		require.True(t, solved)
		assert.GreaterOrEqual(t, minCoord, -locateTolerance, "query %v not inside located cell", q)
	}
}

func TestLocate_Outside(t *testing.T) {
	tri, err := Incremental{}.Delaunay(unitSquare())
	require.NoError(t, err)

	_, ok := tri.Locate([]float64{5, 5})
	assert.True(t, ok, "an outside point still resolves to its nearest cell")
}

// =============================================================================
// Convex hull
// =============================================================================

func assertHullInvariants(t *testing.T, points [][]float64, hull *Hull) {
	t.Helper()
	for _, f := range hull.Facets {
		testutil.AssertUnitLength(t, f.Normal, testutil.DefaultTolerance, "facet %d normal", f.ID)
		assert.Len(t, f.Vertices, hull.Dim)
		for _, v := range f.Vertices {
			assert.InDelta(t, 0.0, f.Distance(points[v]), 1e-9, "vertex %d off facet %d", v, f.ID)
		}
		for i, p := range points {
			assert.LessOrEqual(t, f.Distance(p), 1e-9, "point %d outside facet %d", i, f.ID)
		}
	}
	for i, p := range points {
		assert.False(t, hull.IsOutside(p), "input point %d reported outside", i)
	}
}

func TestConvexHull_SquareWithCenter(t *testing.T) {
	points := append(unitSquare(), []float64{0.5, 0.5})
	hull, err := Incremental{}.ConvexHull(points)
	require.NoError(t, err)

	assert.Len(t, hull.Facets, 4)
	assertHullInvariants(t, points, hull)

	for _, f := range hull.Facets {
		assert.NotContains(t, f.Vertices, 4, "the center is not on the hull")
	}

	assert.True(t, hull.IsOutside([]float64{2, 2}))
	assert.True(t, hull.IsOutside([]float64{-0.1, 0.5}))
	assert.False(t, hull.IsOutside([]float64{0.5, 0.5}))
	assert.False(t, hull.IsOutside([]float64{1, 0.5}), "boundary points are inside")
}

func TestConvexHull_Cube(t *testing.T) {
	points := unitCube()
	hull, err := Incremental{}.ConvexHull(points)
	require.NoError(t, err)

	assert.Len(t, hull.Facets, 12)
	assertHullInvariants(t, points, hull)
	assert.True(t, hull.IsOutside([]float64{2, 0.5, 0.5}))
	assert.False(t, hull.IsOutside([]float64{0.5, 0.5, 0.5}))
}

// TestConvexHull_MatchesCells verifies hull facets are facets of cells.
func TestConvexHull_MatchesCells(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	var points [][]float64
	for range 25 {
		points = append(points, []float64{rng.Float64(), rng.Float64(), rng.Float64()})
	}

	b := Incremental{}
	tri, err := b.Delaunay(points)
	require.NoError(t, err)
	hull, err := b.ConvexHull(points)
	require.NoError(t, err)
	assertHullInvariants(t, points, hull)

	for _, f := range hull.Facets {
		found := false
		for _, cell := range tri.Cells {
			if subset(f.Vertices, cell.Vertices) {
				found = true
				break
			}
		}
		assert.True(t, found, "hull facet %d is not a cell facet", f.ID)
	}
}

func subset(small, big []int) bool {
	for _, v := range small {
		found := false
		for _, w := range big {
			if v == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// =============================================================================
// QuickHull backend
// =============================================================================

// grid returns the n^dim points with integer coordinates in [0, n).
func grid(n, dim int) [][]float64 {
	points := [][]float64{{}}
	for range dim {
		var next [][]float64
		for _, p := range points {
			for x := range n {
				next = append(next, append(append([]float64(nil), p...), float64(x)))
			}
		}
		points = next
	}
	return points
}

// assertFacetsOfCells checks that every hull facet is a facet of some cell.
func assertFacetsOfCells(t *testing.T, tri *Triangulation, hull *Hull) {
	t.Helper()
	for _, f := range hull.Facets {
		found := false
		for _, cell := range tri.Cells {
			if subset(f.Vertices, cell.Vertices) {
				found = true
				break
			}
		}
		assert.True(t, found, "hull facet %d %v is not a cell facet", f.ID, f.Vertices)
	}
}

func TestQuickHull_Triangulate(t *testing.T) {
	tests := []struct {
		name      string
		points    [][]float64
		volume    float64
		facets    int
		outside   [][]float64
		inside    [][]float64
		notOnHull int
	}{
		{
			name:      "Cube with center",
			points:    append(unitCube(), []float64{0.5, 0.5, 0.5}),
			volume:    1,
			facets:    12,
			outside:   [][]float64{{2, 2, 2}, {2, 0.5, 0.5}, {0.5, 0.5, -3}},
			inside:    [][]float64{{0.25, 0.5, 0.75}, {1, 0.5, 0.5}},
			notOnHull: 8,
		},
		{
			name:      "Cube",
			points:    unitCube(),
			volume:    1,
			facets:    12,
			outside:   [][]float64{{1.5, 0.5, 0.5}, {-0.01, 0, 0}},
			inside:    [][]float64{{0.5, 0.5, 0.5}, {0, 0, 0}},
			notOnHull: -1,
		},
		{
			name:      "Grid 3x3x3",
			points:    grid(3, 3),
			volume:    8,
			facets:    48,
			outside:   [][]float64{{3, 1, 1}, {1, 1, -3}, {-1, -1, -1}},
			inside:    [][]float64{{1, 1, 1}, {0.5, 1.5, 2}},
			notOnHull: 13,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tri, hull, err := QuickHull{}.Triangulate(tt.points)
			require.NoError(t, err)

			assert.Len(t, usedVertices(tri), len(tt.points))
			assert.InDelta(t, tt.volume, totalVolume(tt.points, tri), 1e-9)
			assert.Len(t, hull.Facets, tt.facets)
			assert.NotEmpty(t, hull.planes, "membership uses the quickhull faces")
			assertHullInvariants(t, tt.points, hull)
			assertFacetsOfCells(t, tri, hull)

			for _, f := range hull.Facets {
				assert.NotContains(t, f.Vertices, tt.notOnHull, "interior point on the hull")
			}
			for _, q := range tt.outside {
				assert.True(t, hull.IsOutside(q), "%v should be outside", q)
			}
			for _, q := range tt.inside {
				assert.False(t, hull.IsOutside(q), "%v should be inside", q)
			}

			// The incremental backend triangulates identically in 3-D.
			want, err := Incremental{}.Delaunay(tt.points)
			require.NoError(t, err)
			assert.Equal(t, want.Cells, tri.Cells)
		})
	}
}

func TestQuickHull_ConvexHullMatchesTriangulate(t *testing.T) {
	points := grid(3, 3)
	hull, err := QuickHull{}.ConvexHull(points)
	require.NoError(t, err)
	_, want, err := QuickHull{}.Triangulate(points)
	require.NoError(t, err)
	assert.Equal(t, want.Facets, hull.Facets)
}

func TestQuickHull_Tetrahedron(t *testing.T) {
	points := [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	hull, err := QuickHull{}.ConvexHull(points)
	require.NoError(t, err)

	assert.Len(t, hull.Facets, 4)
	assert.Len(t, hull.planes, 4)
	assertHullInvariants(t, points, hull)
}

func TestQuickHull_Degenerate(t *testing.T) {
	tests := []struct {
		name   string
		points [][]float64
	}{
		{"Coplanar", [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}},
		{"Collinear", [][]float64{{0, 0}, {1, 1}, {2, 2}, {3, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := QuickHull{}.Triangulate(tt.points)
			assert.ErrorIs(t, err, ErrDegenerate)
		})
	}
}

// TestQuickHull_PlanarDelaunay covers the lifted triangulation used for
// two-dimensional points.
func TestQuickHull_PlanarDelaunay(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	random := [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for range 40 {
		random = append(random, []float64{rng.Float64(), rng.Float64()})
	}

	tests := []struct {
		name   string
		points [][]float64
		cells  int
		area   float64
	}{
		{"Square", unitSquare(), 2, 1},
		{"Square with center", append(unitSquare(), []float64{0.5, 0.5}), 4, 1},
		{"Grid 3x3", grid(3, 2), 8, 4},
		{"Random", random, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tri, hull, err := QuickHull{}.Triangulate(tt.points)
			require.NoError(t, err)

			if tt.cells > 0 {
				assert.Len(t, tri.Cells, tt.cells)
			}
			assert.Len(t, usedVertices(tri), len(tt.points))
			assert.InDelta(t, tt.area, totalVolume(tt.points, tri), 1e-9)
			assert.Empty(t, hull.planes)
			assertHullInvariants(t, tt.points, hull)
			assertFacetsOfCells(t, tri, hull)

			for _, cell := range tri.Cells {
				a, b, c := tt.points[cell.Vertices[0]], tt.points[cell.Vertices[1]], tt.points[cell.Vertices[2]]
				for i, p := range tt.points {
					if slices.Contains(cell.Vertices, i) {
						continue
					}
					assert.False(t, inCircumcircle(a, b, c, p), "point %d inside circumcircle of cell %d", i, cell.ID)
				}
			}
		})
	}
}

// TestQuickHull_OtherDimensions verifies higher dimensions use Incremental.
func TestQuickHull_OtherDimensions(t *testing.T) {
	points := [][]float64{
		{0, 0, 0, 0}, {1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}, {0.2, 0.2, 0.2, 0.2},
	}
	tri, hull, err := QuickHull{}.Triangulate(points)
	require.NoError(t, err)
	assert.Empty(t, hull.planes)
	assertFacetsOfCells(t, tri, hull)

	want, err := Incremental{}.Delaunay(points)
	require.NoError(t, err)
	assert.Equal(t, want.Cells, tri.Cells)
}

func TestCheckPlanarCells(t *testing.T) {
	square := unitSquare()
	withCenter := append(unitSquare(), []float64{0.5, 0.5})
	cells := func(verts ...[]int) []Cell {
		out := make([]Cell, len(verts))
		for i, v := range verts {
			out[i] = Cell{ID: i, Vertices: v}
		}
		return out
	}

	tests := []struct {
		name    string
		points  [][]float64
		cells   []Cell
		wantErr bool
	}{
		{"Valid", square, cells([]int{0, 1, 3}, []int{0, 3, 2}), false},
		{"Clockwise cells", square, cells([]int{0, 3, 1}, []int{0, 2, 3}), false},
		{"Valid fan", withCenter, cells([]int{0, 1, 4}, []int{1, 3, 4}, []int{3, 2, 4}, []int{2, 0, 4}), false},
		{"Empty", square, nil, true},
		{"Unused point", withCenter, cells([]int{0, 1, 3}, []int{0, 3, 2}), true},
		{"Overlapping", square, cells([]int{0, 1, 2}, []int{1, 3, 2}, []int{0, 1, 3}, []int{0, 3, 2}), true},
		{"Missing cell", withCenter, cells([]int{1, 3, 4}, []int{3, 2, 4}, []int{2, 0, 4}), true},
		{"Flat cell", [][]float64{{0, 0}, {1, 0}, {2, 0}, {0, 1}}, cells([]int{0, 1, 2}, []int{0, 2, 3}), true},
		{
			"Edge in three cells",
			[][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0.5, -1}},
			cells([]int{0, 1, 2}, []int{0, 1, 3}, []int{0, 1, 4}),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkPlanarCells(tt.points, tt.cells)
			if tt.wantErr {
				assert.ErrorIs(t, err, errInvalidCells)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuilderNames(t *testing.T) {
	assert.Equal(t, NameIncremental, Incremental{}.Name())
	assert.Equal(t, NameQuickHull, QuickHull{}.Name())
}
