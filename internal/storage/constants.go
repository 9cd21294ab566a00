package storage

// File extensions selecting a codec
const (
	extGzip = ".gz"
	extZstd = ".zst"
	extLZ4  = ".lz4"
	extS2   = ".s2"
)

// Codec names
const (
	nameNone = "none"
	nameGzip = "gzip"
	nameZstd = "zstd"
	nameLZ4  = "lz4"
	nameS2   = "s2"
)

// File handling
const (
	// filePerm is applied to written files before they are renamed into place.
	filePerm = 0o644

	// tempPattern names temporary files next to their destination.
	tempPattern = ".calibration-*.tmp"
)
