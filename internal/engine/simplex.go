package engine

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/tphakala/go-calibrator/internal/geometry"
	"github.com/tphakala/go-calibrator/internal/linalg"
)

// Simplex is one Delaunay cell together with the convex hull facets it
// contributes, which drive extrapolation outside the hull.
type Simplex struct {
	cellID int
	points []CalibrationPoint
	facets []boundaryFacet

	// inverse maps offsets from the last vertex to barycentric coordinates.
	// It is nil when the edge matrix could not be inverted.
	inverse *mat.Dense
}

// boundaryFacet is a simplex facet lying on the convex hull.
type boundaryFacet struct {
	// vertices index Simplex.points.
	vertices []int
	normal   []float64

	// projection maps offsets from the first facet vertex into facet
	// coordinates followed by the normal component.
	projection *mat.Dense

	// weighting interpolates a weight over the facet that is one at its
	// barycenter and zero at its vertices. Nil when projection is singular.
	weighting *Calibrator
}

// newSimplex builds a simplex from its vertices and recognises which hull
// facets belong to it. coords are the points the hull was computed from.
func newSimplex(cellID int, vertices []CalibrationPoint, hull *geometry.Hull, coords [][]float64, opts Options) *Simplex {
	s := &Simplex{cellID: cellID, points: vertices}
	s.inverse, _ = edgeInverse(vertices, opts.PivotTolerance)

	dim := len(vertices[0].Point)
	for i := range hull.Facets {
		f := &hull.Facets[i]
		if len(f.Vertices) != dim {
			continue
		}

		local := make([]int, 0, dim)
		for _, v := range f.Vertices {
			k := s.vertexIndex(coords[v])
			if k < 0 {
				break
			}
			local = append(local, k)
		}
		if len(local) != dim {
			continue
		}

		s.facets = append(s.facets, s.newBoundaryFacet(local, f.Normal, opts))
	}
	return s
}

// vertexIndex returns the index of the vertex at exactly p, or -1.
func (s *Simplex) vertexIndex(p []float64) int {
	for i := range s.points {
		if linalg.Equal(s.points[i].Point, p) {
			return i
		}
	}
	return -1
}

func (s *Simplex) newBoundaryFacet(vertices []int, normal []float64, opts Options) boundaryFacet {
	bf := boundaryFacet{vertices: vertices, normal: linalg.Normalize(normal)}

	dim := len(normal)
	origin := s.points[vertices[0]].Point

	a := mat.NewDense(dim, dim, nil)
	for j := 0; j < dim-1; j++ {
		a.SetCol(j, linalg.Sub(s.points[vertices[j+1]].Point, origin))
	}
	a.SetCol(dim-1, bf.normal)

	projection, ok := linalg.Invert(a, opts.PivotTolerance)
	if !ok {
		opts.Logger.Debug("facet projection matrix is singular",
			slog.Int("cell", s.cellID),
			slog.Any("vertices", vertices))
		return bf
	}

	weighting, err := New(dim-1, weightDataDimension, opts)
	if err != nil {
		return bf
	}

	barycenter := make([]float64, dim-1)
	for _, v := range vertices {
		lower := linalg.MulVec(projection, linalg.Sub(s.points[v].Point, origin))[:dim-1]
		weighting.AddCalibrationPoint(lower, []float64{facetVertexWeight})
		floats.Add(barycenter, lower)
	}
	floats.Scale(1/float64(len(vertices)), barycenter)
	weighting.AddCalibrationPoint(barycenter, []float64{facetBarycenterWeight})
	weighting.TryToPerformTriangulation()

	bf.projection = projection
	bf.weighting = weighting
	return bf
}

// interpolate blends the vertex data with the barycentric coordinates of q.
// ok is false when the simplex is too flat to invert.
func (s *Simplex) interpolate(q []float64) ([]float64, bool) {
	if s.inverse == nil {
		return nil, false
	}
	return blend(s.points, s.inverse, q), true
}

// facing returns the boundary facets whose outer side contains q.
func (s *Simplex) facing(q []float64) []int {
	var out []int
	for k, f := range s.facets {
		onFacet := s.points[f.vertices[0]].Point
		if linalg.Dot(linalg.Sub(q, onFacet), f.normal) > 0 {
			out = append(out, k)
		}
	}
	return out
}

// opposite returns the vertex that is not part of facet k.
func (s *Simplex) opposite(k int) []float64 {
	var opp []float64
	for i := range s.points {
		found := false
		for _, v := range s.facets[k].vertices {
			if v == i {
				found = true
				break
			}
		}
		if !found {
			opp = s.points[i].Point
		}
	}
	return opp
}

// project casts q onto the hyperplane of facet k along the ray from the
// opposite vertex.
func (s *Simplex) project(q []float64, k int) []float64 {
	f := s.facets[k]
	opp := s.opposite(k)
	onFacet := s.points[f.vertices[0]].Point

	toQuery := linalg.Sub(q, opp)
	scale := linalg.Dot(linalg.Sub(onFacet, opp), f.normal) / linalg.Dot(toQuery, f.normal)

	out := linalg.Clone(opp)
	floats.AddScaled(out, scale, toQuery)
	return out
}

// weight returns the extrapolation weight of facet k for q. onRidge marks a
// projection landing exactly on the facet border, where the weight is zero.
func (s *Simplex) weight(q []float64, k int) (w float64, onRidge bool) {
	f := s.facets[k]
	if f.weighting == nil {
		return 0, true
	}

	dim := len(q)
	origin := s.points[f.vertices[0]].Point
	lower := linalg.MulVec(f.projection, linalg.Sub(s.project(q, k), origin))[:dim-1]

	w = f.weighting.Interpolated(lower)[0]
	switch {
	case w < 0 || math.IsNaN(w):
		return 0, false
	case w == 0:
		return 0, true
	default:
		return w, false
	}
}

// edgeInverse inverts the matrix whose column j is points[j] - points[N].
func edgeInverse(points []CalibrationPoint, tol float64) (*mat.Dense, bool) {
	dim := len(points[0].Point)
	last := points[dim].Point

	t := mat.NewDense(dim, dim, nil)
	for j := range dim {
		t.SetCol(j, linalg.Sub(points[j].Point, last))
	}
	return linalg.Invert(t, tol)
}

// blend evaluates the affine combination of the data of points at q.
func blend(points []CalibrationPoint, inverse *mat.Dense, q []float64) []float64 {
	dim := len(q)
	last := points[dim]

	lambda := linalg.MulVec(inverse, linalg.Sub(q, last.Point))
	out := make([]float64, len(last.Data))
	for j, l := range lambda {
		floats.AddScaled(out, l, points[j].Data)
	}
	floats.AddScaled(out, 1-linalg.Sum(lambda), last.Data)
	return out
}
