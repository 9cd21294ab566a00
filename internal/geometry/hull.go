package geometry

import (
	"slices"
	"strconv"
	"strings"

	"github.com/tphakala/go-calibrator/internal/linalg"
)

// hullFacet is a facet of the hull under construction.
type hullFacet struct {
	verts  []int
	normal []float64
	offset float64
}

func (f *hullFacet) distance(p []float64) float64 {
	return linalg.Dot(f.normal, p) + f.offset
}

// hullBuilder grows a convex hull one point at a time (beneath-beyond).
//
// A new point replaces every facet it sees from outside or lies on (within
// eps), and is connected to the horizon ridges of that region. Treating
// coplanar facets as visible makes points on the boundary, such as cospherical
// points after lifting, vertices of the result instead of dropping them.
type hullBuilder struct {
	points   [][]float64
	dim      int
	eps      float64
	interior []float64
	facets   []*hullFacet
	inserted []int
}

// buildHull returns the simplicial facets of the convex hull of points.
func buildHull(points [][]float64, eps float64) ([]*hullFacet, error) {
	dim, err := checkPoints(points)
	if err != nil {
		return nil, err
	}

	seed, err := initialSimplex(points, eps)
	if err != nil {
		return nil, err
	}

	b := &hullBuilder{
		points:   points,
		dim:      dim,
		eps:      eps,
		interior: make([]float64, dim),
	}
	for _, idx := range seed {
		b.interior = linalg.Add(b.interior, points[idx])
	}
	b.interior = linalg.Scale(1/float64(len(seed)), b.interior)

	for k := range seed {
		verts := make([]int, 0, dim)
		verts = append(verts, seed[:k]...)
		verts = append(verts, seed[k+1:]...)
		f, ok := b.newFacet(verts)
		if !ok {
			return nil, ErrDegenerate
		}
		b.facets = append(b.facets, f)
	}

	b.inserted = slices.Clone(seed)
	for i := range points {
		if slices.Contains(seed, i) {
			continue
		}
		b.insert(i)
	}

	return b.facets, nil
}

// newFacet builds a facet through verts oriented away from the interior point.
func (b *hullBuilder) newFacet(verts []int) (*hullFacet, bool) {
	coords := make([][]float64, len(verts))
	for i, v := range verts {
		coords[i] = b.points[v]
	}
	normal, offset, ok := linalg.Hyperplane(coords)
	if !ok {
		return nil, false
	}

	f := &hullFacet{verts: verts, normal: normal, offset: offset}
	if f.distance(b.interior) > 0 {
		f.normal = linalg.Scale(-1, f.normal)
		f.offset = -f.offset
	}
	return f, true
}

// insert adds point idx to the hull if it lies outside or on the boundary.
func (b *hullBuilder) insert(idx int) {
	p := b.points[idx]
	for _, other := range b.inserted {
		if linalg.Norm(linalg.Sub(p, b.points[other])) <= b.eps {
			return
		}
	}
	b.inserted = append(b.inserted, idx)

	var visible, kept []*hullFacet
	for _, f := range b.facets {
		if f.distance(p) > -b.eps {
			visible = append(visible, f)
		} else {
			kept = append(kept, f)
		}
	}
	if len(visible) == 0 {
		return
	}

	// Ridges shared by two visible facets are interior to the visible region;
	// the ones seen once form its horizon.
	type ridge struct {
		verts []int
		count int
	}
	ridges := make(map[string]*ridge)
	var order []string
	for _, f := range visible {
		for k := range f.verts {
			verts := make([]int, 0, b.dim-1)
			verts = append(verts, f.verts[:k]...)
			verts = append(verts, f.verts[k+1:]...)
			key := ridgeKey(verts)
			if r, ok := ridges[key]; ok {
				r.count++
				continue
			}
			ridges[key] = &ridge{verts: verts, count: 1}
			order = append(order, key)
		}
	}

	for _, key := range order {
		r := ridges[key]
		if r.count != 1 {
			continue
		}
		verts := append(slices.Clone(r.verts), idx)
		if f, ok := b.newFacet(verts); ok {
			kept = append(kept, f)
		}
	}
	b.facets = kept
}

// ridgeKey returns an order-independent map key for a vertex set.
func ridgeKey(verts []int) string {
	sorted := slices.Clone(verts)
	slices.Sort(sorted)

	var sb strings.Builder
	for i, v := range sorted {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}

// initialSimplex picks dim+1 affinely independent points, greedily maximising
// the distance of each new point from the span of the ones already chosen.
func initialSimplex(points [][]float64, eps float64) ([]int, error) {
	dim := len(points[0])

	first := 0
	for i, p := range points {
		if p[0] < points[first][0] {
			first = i
		}
	}
	origin := points[first]

	chosen := []int{first}
	var basis [][]float64
	for len(chosen) < dim+1 {
		best, bestDist := -1, eps
		var bestResidual []float64
		for i, p := range points {
			r := residual(linalg.Sub(p, origin), basis)
			if d := linalg.Norm(r); d > bestDist {
				best, bestDist, bestResidual = i, d, r
			}
		}
		if best < 0 {
			return nil, ErrDegenerate
		}
		chosen = append(chosen, best)
		basis = append(basis, linalg.Scale(1/bestDist, bestResidual))
	}
	return chosen, nil
}

// residual removes from v its components along the orthonormal basis.
func residual(v []float64, basis [][]float64) []float64 {
	r := linalg.Clone(v)
	for _, e := range basis {
		r = linalg.Sub(r, linalg.Scale(linalg.Dot(r, e), e))
	}
	return r
}
