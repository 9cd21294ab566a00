package main

// Default command-line flag values
const (
	defaultSpaceDimension = 2 // Planar controllers
	defaultDataDimension  = 1
	defaultBackend        = "incremental"
)

// Point syntax
const (
	pointDataSeparator = ":" // Separates coordinates from data in -point
	valueSeparator     = "," // Separates values inside a vector
)

// Demo grid
const (
	demoGridSize   = 3    // Calibration points per axis
	demoGridStep   = 1.0  // Distance between grid points
	demoQueryStep  = 0.75 // Distance between demo queries
	demoQueryCount = 6    // Demo queries per axis, reaching beyond the grid
)

// Output formatting
const (
	outputPrecision = 6
)
