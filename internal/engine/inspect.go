package engine

import (
	"fmt"

	"github.com/tphakala/go-calibrator/internal/linalg"
)

// SimplexInfo describes a simplex of the current triangulation.
type SimplexInfo struct {
	// CellID is the Delaunay cell the simplex was built from.
	CellID int

	// Vertices are the vertex coordinates.
	Vertices [][]float64

	// Facets lists the simplex facets lying on the convex hull.
	Facets []FacetInfo
}

// FacetInfo describes a convex hull facet of a simplex.
type FacetInfo struct {
	// Vertices index SimplexInfo.Vertices.
	Vertices []int

	// Normal is the outward unit normal.
	Normal []float64

	// Weighted reports whether the facet has a weighting calibrator. Facets
	// without one always weigh zero during extrapolation.
	Weighted bool
}

// Simplices returns a description of every simplex in triangulation order.
func (c *Calibrator) Simplices() []SimplexInfo {
	out := make([]SimplexInfo, 0, len(c.simplices))
	for _, s := range c.simplices {
		info := SimplexInfo{CellID: s.cellID}
		for _, cp := range s.points {
			info.Vertices = append(info.Vertices, linalg.Clone(cp.Point))
		}
		for _, f := range s.facets {
			info.Facets = append(info.Facets, FacetInfo{
				Vertices: append([]int(nil), f.vertices...),
				Normal:   linalg.Clone(f.normal),
				Weighted: f.weighting != nil,
			})
		}
		out = append(out, info)
	}
	return out
}

// Weight returns the extrapolation weight facet would give query, as used by
// Extrapolated for a simplex with that single facet facing the query. simplex
// and facet index the slices returned by Simplices.
func (c *Calibrator) Weight(simplex, facet int, query []float64) (w float64, onRidge bool, err error) {
	if simplex < 0 || simplex >= len(c.simplices) {
		return 0, false, fmt.Errorf("%w: simplex %d of %d", ErrOutOfRange, simplex, len(c.simplices))
	}
	s := c.simplices[simplex]
	if facet < 0 || facet >= len(s.facets) {
		return 0, false, fmt.Errorf("%w: facet %d of %d", ErrOutOfRange, facet, len(s.facets))
	}

	w, onRidge = s.weight(linalg.Resize(query, c.space), facet)
	return w, onRidge, nil
}
