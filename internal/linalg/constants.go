package linalg

// Inversion and degeneracy thresholds
const (
	// DefaultPivotTolerance is the smallest pivot magnitude Invert accepts.
	// Elimination stops and reports failure below it.
	DefaultPivotTolerance = 0.01

	// degenerateNormRatio bounds the hyperplane normal length, relative to the
	// longest edge raised to the facet dimension, below which the facet is flat.
	degenerateNormRatio = 1e-12
)
