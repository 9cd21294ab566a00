package geometry

// Numerical thresholds. Incremental works on coordinates normalised to the
// unit ball, so these are relative to the extent of the point cloud.
const (
	// hullEpsilon is the distance within which a point counts as lying on a
	// facet hyperplane.
	hullEpsilon = 1e-10

	// locateTolerance is how far outside a cell (in barycentric units) Locate
	// still reports it as containing the point.
	locateTolerance = 1e-9

	// quickHullDim is the dimension of the quickhull library. Planar points are
	// lifted into it.
	quickHullDim = 3

	// quickHullEpsilon is passed to quickhull-go as its planarity tolerance.
	quickHullEpsilon = 1e-10

	// areaTolerance is the relative mismatch allowed between the summed cell
	// areas of a planar triangulation and the area its boundary encloses.
	areaTolerance = 1e-9
)

// Backend names reported by Builder.Name.
const (
	NameIncremental = "incremental"
	NameQuickHull   = "quickhull"
)
