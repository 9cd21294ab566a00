package engine

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-calibrator/internal/linalg"
)

// Interpolated returns the data estimate at query, which is padded with zeros
// or truncated to the space dimension.
//
// The method depends on how many points are stored:
//
//   - one point: its data everywhere
//   - N = 1: linear between neighbours, continuing the outermost slope beyond
//     the ends
//   - two points: linear along the line through them
//   - three points in three dimensions: barycentric on their plane
//   - more than N points: barycentric in the enclosing simplex, or facet
//     weighted extrapolation outside the convex hull
//
// With no points the zero vector is returned. When a query cannot be answered
// (flat simplices, missing triangulation) the previous result is returned
// again. The returned slice is owned by the caller.
func (c *Calibrator) Interpolated(query []float64) []float64 {
	q := linalg.Resize(query, c.space)
	count := len(c.points)

	switch {
	case count == 1:
		return c.storeResult(c.points[0].Data)
	case c.space == lineSpaceDimension && count > 1:
		return c.storeResult(c.interpolateLine(q[0]))
	case c.space > lineSpaceDimension && count == linePointCount:
		return c.storeResult(c.interpolateSegment(q))
	case c.space == planeSpaceDimension && count == planePointCount:
		return c.interpolatePlane(q)
	case count > c.space:
		return c.interpolateSimplex(q)
	default:
		return make([]float64, c.data)
	}
}

// interpolateLine handles sorted one-dimensional points.
func (c *Calibrator) interpolateLine(x float64) []float64 {
	pts := c.points
	first, last := 0, len(pts)-1

	switch {
	case x < pts[first].Point[0]:
		return lineBlend(pts[first], pts[first+1], -math.Abs(pts[first].Point[0]-x))
	case x > pts[last].Point[0]:
		return lineBlend(pts[last], pts[last-1], -math.Abs(pts[last].Point[0]-x))
	}

	i := 1
	for i < last && x > pts[i].Point[0] {
		i++
	}
	return lineBlend(pts[i-1], pts[i], math.Abs(pts[i-1].Point[0]-x))
}

// lineBlend moves offset units from one point towards another and returns the
// linearly blended data there. A negative offset moves away from to.
func lineBlend(from, to CalibrationPoint, offset float64) []float64 {
	span := math.Abs(from.Point[0] - to.Point[0])

	out := linalg.Clone(from.Data)
	floats.AddScaled(out, offset/span, linalg.Sub(to.Data, from.Data))
	return out
}

// interpolateSegment projects q onto the line through the two stored points.
func (c *Calibrator) interpolateSegment(q []float64) []float64 {
	a, b := c.points[0], c.points[1]

	dir := linalg.Sub(b.Point, a.Point)
	length := linalg.Norm(dir)
	t := linalg.Dot(linalg.Sub(q, a.Point), dir) / length

	out := linalg.Clone(a.Data)
	floats.AddScaled(out, t/length, linalg.Sub(b.Data, a.Data))
	return out
}

// interpolatePlane blends three points in space with barycentric coordinates
// of q projected onto their plane.
func (c *Calibrator) interpolatePlane(q []float64) []float64 {
	a := vec3(c.points[0].Point)
	u := vec3(c.points[1].Point).Sub(a)
	v := vec3(c.points[2].Point).Sub(a)

	n := u.Cross(v)
	areaSq := n.Dot(n)
	if areaSq == 0 {
		c.opts.Logger.Debug("calibration points are collinear")
		return c.LastResult()
	}

	w := vec3(q).Sub(a)
	b2 := u.Cross(w).Dot(n) / areaSq
	b1 := w.Cross(v).Dot(n) / areaSq
	b0 := 1 - b1 - b2

	out := make([]float64, c.data)
	for i, b := range []float64{b0, b1, b2} {
		floats.AddScaled(out, b, c.points[i].Data)
	}
	return c.storeResult(out)
}

func vec3(p []float64) mgl64.Vec3 {
	return mgl64.Vec3{p[0], p[1], p[2]}
}

// interpolateSimplex answers queries once there are more than N points.
func (c *Calibrator) interpolateSimplex(q []float64) []float64 {
	if len(c.points) == c.space+1 {
		inv, ok := edgeInverse(c.points, c.opts.PivotTolerance)
		if !ok {
			c.opts.Logger.Debug("calibration simplex is singular")
			return c.LastResult()
		}
		return c.storeResult(blend(c.points, inv, q))
	}

	if c.tri == nil || c.hull == nil {
		return c.LastResult()
	}
	if c.hull.IsOutside(q) {
		return c.Extrapolated(q)
	}

	id, ok := c.tri.Locate(q)
	if !ok {
		return c.LastResult()
	}
	s, ok := c.cells[id]
	if !ok {
		return c.LastResult()
	}
	r, ok := s.interpolate(q)
	if !ok {
		c.opts.Logger.Debug("simplex is singular", slog.Int("cell", id))
		return c.LastResult()
	}
	return c.storeResult(r)
}
