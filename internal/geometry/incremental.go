package geometry

import (
	"fmt"
	"math"
	"slices"

	"github.com/tphakala/go-calibrator/internal/linalg"
)

// Incremental is a pure Go backend working in any dimension.
//
// Delaunay cells are the lower facets of the convex hull of the points lifted
// onto the paraboloid x_{d+1} = |x|². An extra point far above the centroid
// keeps the lifted cloud full-dimensional when all points are cospherical.
//
// The convex hull is taken from the triangulation itself: a cell facet that
// no other cell shares lies on the hull. Hull facets therefore always match a
// cell facet vertex for vertex.
type Incremental struct{}

var _ Builder = Incremental{}

// Name implements Builder.
func (Incremental) Name() string {
	return NameIncremental
}

// Delaunay implements Builder.
func (Incremental) Delaunay(points [][]float64) (*Triangulation, error) {
	dim, err := checkPoints(points)
	if err != nil {
		return nil, err
	}

	unit, _, err := normalize(points)
	if err != nil {
		return nil, err
	}

	n := len(unit)
	lifted := make([][]float64, n+1)
	maxLift := 0.0
	for i, p := range unit {
		lift := linalg.Dot(p, p)
		maxLift = math.Max(maxLift, lift)
		lifted[i] = append(linalg.Clone(p), lift)
	}
	// The centroid is the origin after normalisation; the apex sits above
	// every lower facet hyperplane there.
	apex := make([]float64, dim+1)
	apex[dim] = 2*maxLift + 1
	lifted[n] = apex

	facets, err := buildHull(lifted, hullEpsilon)
	if err != nil {
		return nil, fmt.Errorf("delaunay: %w", err)
	}

	tri := &Triangulation{Dim: dim, points: clonePoints(points)}
	for _, f := range facets {
		if slices.Contains(f.verts, n) || f.normal[dim] >= -hullEpsilon {
			continue
		}
		tri.Cells = append(tri.Cells, Cell{
			ID:       len(tri.Cells),
			Vertices: slices.Clone(f.verts),
		})
	}
	if len(tri.Cells) == 0 {
		return nil, fmt.Errorf("delaunay: %w: no lower facets", ErrDegenerate)
	}
	return tri, nil
}

// ConvexHull implements Builder.
func (b Incremental) ConvexHull(points [][]float64) (*Hull, error) {
	_, hull, err := b.Triangulate(points)
	return hull, err
}

// Triangulate implements Builder.
func (b Incremental) Triangulate(points [][]float64) (*Triangulation, *Hull, error) {
	tri, err := b.Delaunay(points)
	if err != nil {
		return nil, nil, err
	}
	hull, err := hullFromCells(tri)
	if err != nil {
		return nil, nil, err
	}
	return tri, hull, nil
}

// hullFromCells collects the cell facets that belong to exactly one cell and
// orients each away from the vertex of its cell that it omits.
func hullFromCells(tri *Triangulation) (*Hull, error) {
	type boundary struct {
		verts    []int
		opposite int
		count    int
	}

	seen := make(map[string]*boundary)
	var order []string
	for _, cell := range tri.Cells {
		for k, opposite := range cell.Vertices {
			verts := make([]int, 0, tri.Dim)
			verts = append(verts, cell.Vertices[:k]...)
			verts = append(verts, cell.Vertices[k+1:]...)
			key := ridgeKey(verts)
			if b, ok := seen[key]; ok {
				b.count++
				continue
			}
			seen[key] = &boundary{verts: verts, opposite: opposite, count: 1}
			order = append(order, key)
		}
	}

	_, radius, err := normalize(tri.points)
	if err != nil {
		return nil, err
	}
	hull := &Hull{Dim: tri.Dim, eps: hullEpsilon * radius}

	for _, key := range order {
		b := seen[key]
		if b.count != 1 {
			continue
		}
		coords := make([][]float64, len(b.verts))
		for i, v := range b.verts {
			coords[i] = tri.points[v]
		}
		normal, offset, ok := linalg.Hyperplane(coords)
		if !ok {
			continue
		}
		f := Facet{ID: len(hull.Facets), Vertices: b.verts, Normal: normal, Offset: offset}
		if f.Distance(tri.points[b.opposite]) > 0 {
			f.Normal = linalg.Scale(-1, f.Normal)
			f.Offset = -f.Offset
		}
		hull.Facets = append(hull.Facets, f)
	}

	if len(hull.Facets) == 0 {
		return nil, fmt.Errorf("convex hull: %w", ErrDegenerate)
	}
	return hull, nil
}
