package calibrator

// Dimension limits
const (
	// Triangulation cost grows exponentially with the space dimension.
	maxSpaceDimension = 16
	maxDataDimension  = 4096
)

// Configuration text format
const (
	// Space dimension, data dimension and point count precede the points.
	headerLines = 3

	// Every value is followed by a single separator.
	valueSeparator = ' '
	lineSeparator  = '\n'

	// Shortest representation that parses back to the same float64.
	floatFormat    = 'g'
	floatPrecision = -1
	floatBitSize   = 64
)
