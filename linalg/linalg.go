package linalg

import (
	"fmt"
	"math"
	"math/cmplx"
)

// NormTolerance is the tolerance for total-probability checks on a
// state vector. Gate application preserves the norm up to floating
// error, so drift beyond this indicates a bug, not rounding.
const NormTolerance = 1e-6

// Probabilities returns the squared magnitude of each amplitude.
func Probabilities(amps []complex128) []float64 {
	probs := make([]float64, len(amps))
	for i, a := range amps {
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return probs
}

// TotalProbability is the sum of squared magnitudes.
func TotalProbability(amps []complex128) float64 {
	total := 0.0
	for _, a := range amps {
		total += real(a)*real(a) + imag(a)*imag(a)
	}
	return total
}

// Normalize scales amps in place to unit norm. A zero vector is left
// unchanged.
func Normalize(amps []complex128) {
	norm := math.Sqrt(TotalProbability(amps))
	if norm == 0 {
		return
	}
	f := complex(1/norm, 0)
	for i := range amps {
		amps[i] *= f
	}
}

// CheckNormalized returns an error when the total probability has
// drifted outside NormTolerance. It never corrects the state.
func CheckNormalized(amps []complex128) error {
	total := TotalProbability(amps)
	if math.Abs(total-1) > NormTolerance {
		return fmt.Errorf("state norm drifted to %g", total)
	}
	return nil
}

// Inner is the inner product <a|b>.
func Inner(a, b []complex128) (complex128, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d vs %d", len(a), len(b))
	}
	var sum complex128
	for i := range a {
		sum += cmplx.Conj(a[i]) * b[i]
	}
	return sum, nil
}

// Outer is the outer product |a><b|.
func Outer(a, b []complex128) [][]complex128 {
	m := make([][]complex128, len(a))
	for i := range a {
		row := make([]complex128, len(b))
		for j := range b {
			row[j] = a[i] * cmplx.Conj(b[j])
		}
		m[i] = row
	}
	return m
}
