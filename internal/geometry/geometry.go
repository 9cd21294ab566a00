// Package geometry computes convex hulls and Delaunay triangulations of
// scattered points in arbitrary dimension.
//
// The calibration engine only depends on the Builder interface: facets with
// vertex lists and outward normals, cells with vertex lists, a point-vs-hull
// test and a point location query. Vertex indices always refer to the slice of
// points passed to the builder.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/tphakala/go-calibrator/internal/linalg"
)

// Builder computes hulls and triangulations. Implementations hold no state
// between calls, so every engine can own its results independently.
type Builder interface {
	// Delaunay triangulates the points. Cells are simplices with len(points[0])+1
	// vertices.
	Delaunay(points [][]float64) (*Triangulation, error)

	// ConvexHull computes the boundary of the convex hull as simplicial facets.
	ConvexHull(points [][]float64) (*Hull, error)

	// Triangulate computes the Delaunay triangulation together with a hull
	// whose facets are facets of its cells.
	Triangulate(points [][]float64) (*Triangulation, *Hull, error)

	// Name identifies the backend.
	Name() string
}

// Common errors returned by builders.
var (
	// ErrTooFewPoints indicates fewer than dim+1 points were supplied.
	ErrTooFewPoints = errors.New("geometry: too few points")

	// ErrDegenerate indicates the points do not span the full space.
	ErrDegenerate = errors.New("geometry: degenerate point set")

	// ErrDimension indicates inconsistent or unsupported point dimensions.
	ErrDimension = errors.New("geometry: invalid dimension")
)

// Facet is a simplicial boundary facet of a hull.
type Facet struct {
	// ID identifies the facet within its hull.
	ID int

	// Vertices are indices into the input points.
	Vertices []int

	// Normal is the outward unit normal.
	Normal []float64

	// Offset completes the hyperplane equation Normal·x + Offset = 0.
	Offset float64
}

// Distance returns the signed distance of p from the facet hyperplane,
// positive on the outer side.
func (f *Facet) Distance(p []float64) float64 {
	return linalg.Dot(f.Normal, p) + f.Offset
}

// Hull is a convex hull boundary.
type Hull struct {
	Dim    int
	Facets []Facet

	// planes replace Facets in IsOutside when set.
	planes []Facet

	// eps is the on-plane tolerance in input units.
	eps float64
}

// IsOutside reports whether p lies strictly outside the hull, that is above
// at least one facet hyperplane by more than the hull tolerance.
func (h *Hull) IsOutside(p []float64) bool {
	facets := h.Facets
	if len(h.planes) > 0 {
		facets = h.planes
	}
	for i := range facets {
		if facets[i].Distance(p) > h.eps {
			return true
		}
	}
	return false
}

// Cell is one simplex of a triangulation.
type Cell struct {
	// ID identifies the cell within its triangulation.
	ID int

	// Vertices are indices into the input points.
	Vertices []int
}

// Triangulation is a simplicial decomposition of the convex hull of a point set.
type Triangulation struct {
	Dim   int
	Cells []Cell

	points [][]float64
}

// Locate returns the ID of the cell containing p. When p is outside every
// cell the cell it is closest to entering is returned, measured by the most
// negative barycentric coordinate. ok is false when no cell could be solved.
func (t *Triangulation) Locate(p []float64) (id int, ok bool) {
	best := math.Inf(-1)
	for _, cell := range t.Cells {
		minCoord, solved := t.minBarycentric(cell, p)
		if !solved {
			continue
		}
		if minCoord > best {
			best = minCoord
			id = cell.ID
			ok = true
		}
		if minCoord >= -locateTolerance {
			break
		}
	}
	return id, ok
}

// minBarycentric returns the smallest barycentric coordinate of p in cell.
func (t *Triangulation) minBarycentric(cell Cell, p []float64) (float64, bool) {
	d := t.Dim
	last := t.points[cell.Vertices[d]]

	edges := mat.NewDense(d, d, nil)
	for j := range d {
		v := t.points[cell.Vertices[j]]
		for i := range d {
			edges.Set(i, j, v[i]-last[i])
		}
	}

	var lambda mat.VecDense
	if err := lambda.SolveVec(edges, mat.NewVecDense(d, linalg.Sub(p, last))); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return 0, false
		}
	}

	raw := lambda.RawVector().Data
	minCoord := 1 - linalg.Sum(raw)
	for _, l := range raw {
		minCoord = math.Min(minCoord, l)
	}
	if math.IsNaN(minCoord) {
		return 0, false
	}
	return minCoord, true
}

// checkPoints validates a point cloud and returns its dimension.
func checkPoints(points [][]float64) (int, error) {
	if len(points) == 0 {
		return 0, ErrTooFewPoints
	}
	dim := len(points[0])
	if dim == 0 {
		return 0, fmt.Errorf("%w: zero-dimensional points", ErrDimension)
	}
	for i, p := range points {
		if len(p) != dim {
			return 0, fmt.Errorf("%w: point %d has %d coordinates, want %d", ErrDimension, i, len(p), dim)
		}
	}
	if len(points) < dim+1 {
		return 0, fmt.Errorf("%w: %d points in %d dimensions", ErrTooFewPoints, len(points), dim)
	}
	return dim, nil
}

// normalize translates points to their centroid and scales them into the unit
// ball. It returns the transformed copies and the scale factor applied.
func normalize(points [][]float64) ([][]float64, float64, error) {
	dim := len(points[0])
	centroid := make([]float64, dim)
	for _, p := range points {
		for i, v := range p {
			centroid[i] += v
		}
	}
	centroid = linalg.Scale(1/float64(len(points)), centroid)

	radius := 0.0
	for _, p := range points {
		radius = math.Max(radius, linalg.Norm(linalg.Sub(p, centroid)))
	}
	if radius == 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, 0, ErrDegenerate
	}

	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = linalg.Scale(1/radius, linalg.Sub(p, centroid))
	}
	return out, radius, nil
}

// clonePoints deep-copies a point cloud.
func clonePoints(points [][]float64) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = linalg.Clone(p)
	}
	return out
}
