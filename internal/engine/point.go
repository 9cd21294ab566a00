package engine

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/tphakala/go-calibrator/internal/linalg"
)

// CalibrationPoint pairs a coordinate with the data vector observed there.
type CalibrationPoint struct {
	Point []float64
	Data  []float64
}

// Clone returns a deep copy of the point.
func (cp CalibrationPoint) Clone() CalibrationPoint {
	return CalibrationPoint{
		Point: linalg.Clone(cp.Point),
		Data:  linalg.Clone(cp.Data),
	}
}

// resized returns a copy padded with zeros or truncated to the given dimensions.
func (cp CalibrationPoint) resized(space, data int) CalibrationPoint {
	return CalibrationPoint{
		Point: linalg.Resize(cp.Point, space),
		Data:  linalg.Resize(cp.Data, data),
	}
}

// pointIndex maps coordinate hashes to positions in the point list.
//
// Positive and negative zero hash alike since they compare equal. Coordinates
// containing NaN never compare equal to anything and are left out.
type pointIndex map[uint64][]int

func buildPointIndex(points []CalibrationPoint) pointIndex {
	idx := make(pointIndex, len(points))
	for i := range points {
		idx.add(points[i].Point, i)
	}
	return idx
}

// hashCoordinates returns the xxhash of the coordinate bit patterns.
func hashCoordinates(p []float64) (uint64, bool) {
	buf := make([]byte, len(p)*bytesPerCoordinate)
	for i, v := range p {
		if math.IsNaN(v) {
			return 0, false
		}
		if v == 0 {
			v = 0 // folds -0
		}
		binary.LittleEndian.PutUint64(buf[i*bytesPerCoordinate:], math.Float64bits(v))
	}
	return xxhash.Sum64(buf), true
}

func (idx pointIndex) add(p []float64, pos int) {
	h, ok := hashCoordinates(p)
	if !ok {
		return
	}
	idx[h] = append(idx[h], pos)
}

// find returns the position of the point with exactly the coordinate p, or -1.
func (idx pointIndex) find(points []CalibrationPoint, p []float64) int {
	h, ok := hashCoordinates(p)
	if !ok {
		return -1
	}
	for _, pos := range idx[h] {
		if linalg.Equal(points[pos].Point, p) {
			return pos
		}
	}
	return -1
}
