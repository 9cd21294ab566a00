package linalg

import (
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/floats"
)

// Dot returns the dot product of a and b, which must have equal length.
func Dot(a, b []float64) float64 {
	return f64.DotProduct(a, b)
}

// Sum returns the sum of all elements of a.
func Sum(a []float64) float64 {
	return f64.Sum(a)
}

// Sub returns to - from, the vector pointing from from to to.
func Sub(to, from []float64) []float64 {
	out := make([]float64, len(to))
	floats.SubTo(out, to, from)
	return out
}

// Add returns a + b.
func Add(a, b []float64) []float64 {
	out := make([]float64, len(a))
	floats.AddTo(out, a, b)
	return out
}

// Scale returns s·a as a new slice.
func Scale(s float64, a []float64) []float64 {
	out := make([]float64, len(a))
	f64.Scale(out, a, s)
	return out
}

// Norm returns the Euclidean length of a.
func Norm(a []float64) float64 {
	return floats.Norm(a, 2)
}

// Normalize returns a scaled to unit length. A zero vector is returned unchanged.
func Normalize(a []float64) []float64 {
	n := Norm(a)
	if n == 0 {
		return Clone(a)
	}
	return Scale(1/n, a)
}

// Equal reports whether a and b have the same length and identical components.
// No tolerance is applied.
func Equal(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of a. A nil input yields an empty, non-nil slice.
func Clone(a []float64) []float64 {
	out := make([]float64, len(a))
	copy(out, a)
	return out
}

// Resize returns a copy of a with exactly n elements, zero-filling missing
// entries and dropping extra ones.
func Resize(a []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, a)
	return out
}
