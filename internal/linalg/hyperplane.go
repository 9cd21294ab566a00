package linalg

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Hyperplane returns the unit normal and offset of the hyperplane through the
// given points, so that Dot(normal, x) + offset is the signed distance of x.
//
// Exactly d points of dimension d are required. The normal is the generalized
// cross product of the edge vectors from points[0], evaluated through signed
// minors. ok is false when the points do not span a hyperplane.
func Hyperplane(points [][]float64) (normal []float64, offset float64, ok bool) {
	d := len(points)
	if d == 0 || len(points[0]) != d {
		return nil, 0, false
	}

	origin := points[0]
	if d == 1 {
		return []float64{1}, -origin[0], true
	}

	edges := mat.NewDense(d-1, d, nil)
	longest := 0.0
	for i := 1; i < d; i++ {
		edge := Sub(points[i], origin)
		edges.SetRow(i-1, edge)
		longest = math.Max(longest, Norm(edge))
	}

	normal = make([]float64, d)
	minor := mat.NewDense(d-1, d-1, nil)
	for k := range d {
		for r := range d - 1 {
			row := minor.RawRowView(r)
			src := edges.RawRowView(r)
			copy(row[:k], src[:k])
			copy(row[k:], src[k+1:])
		}
		det := mat.Det(minor)
		if k%2 == 1 {
			det = -det
		}
		normal[k] = det
	}

	length := Norm(normal)
	if longest == 0 || !(length > degenerateNormRatio*math.Pow(longest, float64(d-1))) {
		return nil, 0, false
	}

	normal = Scale(1/length, normal)
	return normal, -Dot(normal, origin), true
}
