package engine

import (
	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-calibrator/internal/linalg"
)

// contribution is one simplex's estimate for an extrapolated query.
type contribution struct {
	weight  float64
	onRidge bool
	values  []float64
}

// Extrapolated estimates the data at a query outside the convex hull.
//
// A boundary simplex with more than one hull facet facing the query answers
// alone. Otherwise every simplex with exactly one facing facet contributes its
// barycentric extension, weighted by where the query, cast from the opposite
// vertex onto that facet, lands: one at the facet barycenter falling to zero at
// its border. The query is padded or truncated to the space dimension.
func (c *Calibrator) Extrapolated(query []float64) []float64 {
	q := linalg.Resize(query, c.space)

	var contribs []contribution
	for _, s := range c.simplices {
		if len(s.facets) == 0 {
			continue
		}

		facing := s.facing(q)
		switch {
		case len(facing) > 1:
			r, ok := s.interpolate(q)
			if !ok {
				return c.LastResult()
			}
			return c.storeResult(r)

		case len(facing) == 1:
			values, ok := s.interpolate(q)
			if !ok {
				continue
			}
			w, onRidge := s.weight(q, facing[0])
			contribs = append(contribs, contribution{weight: w, onRidge: onRidge, values: values})
		}
	}

	if r, ok := aggregate(contribs, c.data); ok {
		return c.storeResult(r)
	}
	return c.LastResult()
}

// aggregate blends contributions by weight. When the weights sum to zero a
// lone contribution answers, then the first one cast onto a ridge; ok is false
// when neither exists.
func aggregate(contribs []contribution, data int) ([]float64, bool) {
	var weightSum float64
	for _, ct := range contribs {
		weightSum += ct.weight
	}

	if weightSum == 0 {
		if len(contribs) == 1 {
			return contribs[0].values, true
		}
		for _, ct := range contribs {
			if ct.onRidge {
				return ct.values, true
			}
		}
		return nil, false
	}

	out := make([]float64, data)
	for _, ct := range contribs {
		floats.AddScaled(out, ct.weight/weightSum, ct.values)
	}
	return out, true
}
