// Package linalg provides the dense linear algebra used by the calibration engine.
package linalg

import (
	"math"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Invert computes the inverse of the square matrix a using Gauss-Jordan
// elimination with partial (row) pivoting.
//
// The matrix is augmented with the identity and reduced column by column. At
// each step the row holding the largest magnitude in the current column is
// swapped into the pivot position. If that magnitude is below tol the matrix is
// treated as singular and ok is false; callers keep their previous result then.
//
// The tolerance is absolute (see DefaultPivotTolerance), so simplices whose
// edges are shorter than it cannot be inverted.
func Invert(a mat.Matrix, tol float64) (inv *mat.Dense, ok bool) {
	n, c := a.Dims()
	if n != c || n == 0 {
		return nil, false
	}

	aug := mat.NewDense(n, 2*n, nil)
	for i := range n {
		row := aug.RawRowView(i)
		for j := range n {
			row[j] = a.At(i, j)
		}
		row[n+i] = 1
	}

	for s := range n {
		pivotRow := s
		maxAbs := math.Abs(aug.At(s, s))
		for i := s + 1; i < n; i++ {
			if v := math.Abs(aug.At(i, s)); v > maxAbs {
				maxAbs = v
				pivotRow = i
			}
		}

		// Written as a negation so NaN pivots fail too.
		if !(maxAbs >= tol) {
			return nil, false
		}

		if pivotRow != s {
			swapRows(aug.RawRowView(s), aug.RawRowView(pivotRow), s)
		}

		pivot := aug.RawRowView(s)
		f64.Scale(pivot[s:], pivot[s:], 1/pivot[s])

		for i := range n {
			if i == s {
				continue
			}
			row := aug.RawRowView(i)
			factor := -row[s]
			if factor == 0 {
				continue
			}
			floats.AddScaled(row[s:], factor, pivot[s:])
		}
	}

	inv = mat.NewDense(n, n, nil)
	inv.Copy(aug.Slice(0, n, n, 2*n))
	return inv, true
}

// swapRows exchanges the tails of two augmented rows starting at column from.
func swapRows(a, b []float64, from int) {
	for j := from; j < len(a); j++ {
		a[j], b[j] = b[j], a[j]
	}
}

// MulVec returns m·v as a new slice. len(v) must match the column count of m.
func MulVec(m *mat.Dense, v []float64) []float64 {
	rows, _ := m.Dims()
	out := make([]float64, rows)
	for i := range rows {
		out[i] = f64.DotProduct(m.RawRowView(i), v)
	}
	return out
}
