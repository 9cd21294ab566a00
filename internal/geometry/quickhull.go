package geometry

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/golang/geo/r3"
	"github.com/markus-wa/quickhull-go/v2"
)

// QuickHull runs the quickhull-go library wherever a three-dimensional hull is
// needed and delegates everything else to Incremental.
//
// Planar Delaunay triangulations are the lower faces of the points lifted onto
// the paraboloid z = x² + y². A triangulation that fails validation is rebuilt
// with Incremental.
//
// quickhull-go splits flat faces with four or more corners independently of
// any triangulation, so hull facets are always taken from the cells. In three
// dimensions the quickhull faces decide IsOutside.
type QuickHull struct {
	Incremental
}

var _ Builder = QuickHull{}

// Name implements Builder.
func (QuickHull) Name() string {
	return NameQuickHull
}

// Delaunay implements Builder.
func (q QuickHull) Delaunay(points [][]float64) (*Triangulation, error) {
	dim, err := checkPoints(points)
	if err != nil {
		return nil, err
	}
	if dim != quickHullDim-1 {
		return q.Incremental.Delaunay(points)
	}

	unit, _, err := normalize(points)
	if err != nil {
		return nil, err
	}
	// quickhull-go does not report flat inputs, so check the rank first.
	if _, err := initialSimplex(unit, hullEpsilon); err != nil {
		return nil, fmt.Errorf("delaunay: %w", err)
	}

	n := len(unit)
	cloud := make([]r3.Vector, n+1)
	maxLift := 0.0
	for i, p := range unit {
		lift := p[0]*p[0] + p[1]*p[1]
		maxLift = math.Max(maxLift, lift)
		cloud[i] = r3.Vector{X: p[0], Y: p[1], Z: lift}
	}
	cloud[n] = r3.Vector{Z: 2*maxLift + 1}

	faces, err := quickHullFaces(cloud)
	if err != nil {
		return q.Incremental.Delaunay(points)
	}

	tri := &Triangulation{Dim: dim, points: clonePoints(points)}
	for _, f := range faces {
		if slices.Contains(f.verts[:], n) || f.normal.Z >= -hullEpsilon {
			continue
		}
		tri.Cells = append(tri.Cells, Cell{
			ID:       len(tri.Cells),
			Vertices: slices.Clone(f.verts[:]),
		})
	}
	if err := checkPlanarCells(unit, tri.Cells); err != nil {
		return q.Incremental.Delaunay(points)
	}
	return tri, nil
}

// ConvexHull implements Builder.
func (q QuickHull) ConvexHull(points [][]float64) (*Hull, error) {
	_, hull, err := q.Triangulate(points)
	return hull, err
}

// Triangulate implements Builder.
func (q QuickHull) Triangulate(points [][]float64) (*Triangulation, *Hull, error) {
	tri, err := q.Delaunay(points)
	if err != nil {
		return nil, nil, err
	}
	hull, err := hullFromCells(tri)
	if err != nil {
		return nil, nil, err
	}
	if tri.Dim != quickHullDim {
		return tri, hull, nil
	}

	cloud := make([]r3.Vector, len(points))
	for i, p := range points {
		cloud[i] = r3.Vector{X: p[0], Y: p[1], Z: p[2]}
	}
	faces, err := quickHullFaces(cloud)
	if err != nil {
		return nil, nil, fmt.Errorf("convex hull: %w", err)
	}
	for _, f := range faces {
		hull.planes = append(hull.planes, Facet{
			ID:       len(hull.planes),
			Vertices: slices.Clone(f.verts[:]),
			Normal:   []float64{f.normal.X, f.normal.Y, f.normal.Z},
			Offset:   f.offset,
		})
	}
	return tri, hull, nil
}

// quickHullFace is a hull triangle with its unit normal pointing away from
// the centroid of the cloud.
type quickHullFace struct {
	verts  [quickHullDim]int
	normal r3.Vector
	offset float64
}

func quickHullFaces(cloud []r3.Vector) ([]quickHullFace, error) {
	var centroid r3.Vector
	for _, v := range cloud {
		centroid = centroid.Add(v)
	}
	centroid = centroid.Mul(1 / float64(len(cloud)))

	qh := new(quickhull.QuickHull)
	ch := qh.ConvexHull(cloud, true, true, quickHullEpsilon)
	if len(ch.Indices) == 0 || len(ch.Indices)%quickHullDim != 0 {
		return nil, fmt.Errorf("%w: quickhull returned %d indices", ErrDegenerate, len(ch.Indices))
	}

	faces := make([]quickHullFace, 0, len(ch.Indices)/quickHullDim)
	for t := 0; t < len(ch.Indices); t += quickHullDim {
		a, b, c := ch.Indices[t], ch.Indices[t+1], ch.Indices[t+2]
		normal := cloud[b].Sub(cloud[a]).Cross(cloud[c].Sub(cloud[a]))
		if normal.Norm() == 0 {
			continue
		}
		normal = normal.Normalize()
		offset := -normal.Dot(cloud[a])
		if normal.Dot(centroid)+offset > 0 {
			normal = normal.Mul(-1)
			offset = -offset
		}
		faces = append(faces, quickHullFace{verts: [quickHullDim]int{a, b, c}, normal: normal, offset: offset})
	}
	if len(faces) == 0 {
		return nil, ErrDegenerate
	}
	return faces, nil
}

var errInvalidCells = errors.New("geometry: cells do not tile the hull")

// checkPlanarCells verifies that triangles tile the convex hull of points:
// every point is a vertex, no edge is shared by more than two triangles, no
// point lies beyond a boundary edge and the triangle areas add up to the area
// the boundary encloses.
func checkPlanarCells(points [][]float64, cells []Cell) error {
	if len(cells) == 0 {
		return errInvalidCells
	}

	type edge struct {
		from, to int
		count    int
	}
	edges := make(map[[2]int]*edge)
	used := make([]bool, len(points))
	total := 0.0

	for _, cell := range cells {
		a, b, c := cell.Vertices[0], cell.Vertices[1], cell.Vertices[2]
		area := cross2(points[a], points[b], points[c])
		if math.Abs(area) <= hullEpsilon {
			return fmt.Errorf("%w: flat cell %d", errInvalidCells, cell.ID)
		}
		total += math.Abs(area) / 2
		if area < 0 {
			b, c = c, b
		}
		// Counter-clockwise cell edges.
		for _, e := range [][2]int{{a, b}, {b, c}, {c, a}} {
			used[e[0]] = true
			key := [2]int{min(e[0], e[1]), max(e[0], e[1])}
			if existing, ok := edges[key]; ok {
				existing.count++
				if existing.count > 2 {
					return fmt.Errorf("%w: edge %v shared by more than two cells", errInvalidCells, key)
				}
				continue
			}
			edges[key] = &edge{from: e[0], to: e[1], count: 1}
		}
	}

	if i := slices.Index(used, false); i >= 0 {
		return fmt.Errorf("%w: point %d is not a vertex", errInvalidCells, i)
	}

	enclosed := 0.0
	for _, e := range edges {
		if e.count != 1 {
			continue
		}
		from, to := points[e.from], points[e.to]
		enclosed += (from[0]*to[1] - to[0]*from[1]) / 2
		for i, p := range points {
			if cross2(from, to, p) < -hullEpsilon {
				return fmt.Errorf("%w: point %d beyond boundary edge", errInvalidCells, i)
			}
		}
	}

	if math.Abs(total-enclosed) > areaTolerance*math.Max(1, total) {
		return fmt.Errorf("%w: cell area %g, enclosed area %g", errInvalidCells, total, enclosed)
	}
	return nil
}

// cross2 returns twice the signed area of the triangle abc.
func cross2(a, b, c []float64) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}
