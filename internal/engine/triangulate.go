package engine

import (
	"cmp"
	"log/slog"
	"slices"
)

// TryToPerformTriangulation prepares the point set for queries. One-dimensional
// calibrators sort their points by coordinate; higher dimensions rebuild the
// Delaunay triangulation, the convex hull and the simplices.
func (c *Calibrator) TryToPerformTriangulation() {
	switch {
	case c.space == lineSpaceDimension:
		slices.SortStableFunc(c.points, func(a, b CalibrationPoint) int {
			return cmp.Compare(a.Point[0], b.Point[0])
		})
		c.index = buildPointIndex(c.points)
	case c.space > lineSpaceDimension:
		c.performTriangulation()
	}
}

// Triangulated reports whether simplices are available for queries.
func (c *Calibrator) Triangulated() bool {
	return c.tri != nil && len(c.simplices) > 0
}

func (c *Calibrator) clearTriangulation() {
	c.tri = nil
	c.hull = nil
	c.simplices = nil
	c.cells = nil
}

// performTriangulation rebuilds every geometric structure from scratch.
// Degenerate point clouds leave the calibrator without simplices.
func (c *Calibrator) performTriangulation() {
	c.clearTriangulation()
	if len(c.points) < c.space+2 {
		return
	}

	coords := make([][]float64, len(c.points))
	for i, cp := range c.points {
		coords[i] = cp.Point
	}

	tri, hull, err := c.opts.Geometry.Triangulate(coords)
	if err != nil {
		c.opts.Logger.Debug("delaunay triangulation failed",
			slog.String("backend", c.opts.Geometry.Name()),
			slog.Int("points", len(coords)),
			slog.Any("error", err))
		return
	}

	cells := make(map[int]*Simplex, len(tri.Cells))
	simplices := make([]*Simplex, 0, len(tri.Cells))
	for _, cell := range tri.Cells {
		if len(cell.Vertices) != c.space+1 {
			continue
		}
		vertices := make([]CalibrationPoint, len(cell.Vertices))
		for i, v := range cell.Vertices {
			vertices[i] = c.points[v].Clone()
		}

		s := newSimplex(cell.ID, vertices, hull, coords, c.opts)
		if len(s.points) != c.space+1 {
			continue
		}
		simplices = append(simplices, s)
		cells[cell.ID] = s
	}

	c.tri = tri
	c.hull = hull
	c.simplices = simplices
	c.cells = cells

	c.opts.Logger.Debug("triangulated calibration points",
		slog.Int("points", len(c.points)),
		slog.Int("simplices", len(simplices)),
		slog.Int("hull_facets", len(hull.Facets)))
}
