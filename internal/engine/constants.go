package engine

// Dimension thresholds for the interpolation dispatch
const (
	// A single coordinate axis switches to sorted bracket interpolation.
	lineSpaceDimension = 1

	// Two points in N > 1 dimensions are blended along the line through them.
	linePointCount = 2

	// Three points in three dimensions are blended on the plane through them.
	planeSpaceDimension = 3
	planePointCount     = 3
)

// Facet weighting constants
const (
	// Nested weighting calibrators map facet coordinates to a single weight.
	weightDataDimension = 1

	// Facet vertices carry weight zero and the facet barycenter weight one.
	facetVertexWeight     = 0.0
	facetBarycenterWeight = 1.0
)

// Point hashing
const (
	// bytesPerCoordinate is the size of one hashed coordinate.
	bytesPerCoordinate = 8
)
