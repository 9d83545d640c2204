//go:build unit
// +build unit

package linalg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbabilities(t *testing.T) {
	h := complex(1/math.Sqrt2, 0)
	probs := Probabilities([]complex128{h, 0, 0, h})
	assert.InDelta(t, 0.5, probs[0], 1e-12)
	assert.InDelta(t, 0.0, probs[1], 1e-12)
	assert.InDelta(t, 0.0, probs[2], 1e-12)
	assert.InDelta(t, 0.5, probs[3], 1e-12)
}

func TestNormalize(t *testing.T) {
	amps := []complex128{3, 4i}
	Normalize(amps)
	assert.InDelta(t, 1.0, TotalProbability(amps), 1e-12)
	assert.InDelta(t, 0.6, real(amps[0]), 1e-12)
	assert.InDelta(t, 0.8, imag(amps[1]), 1e-12)
}

func TestNormalizeZeroVector(t *testing.T) {
	amps := []complex128{0, 0}
	Normalize(amps)
	assert.Equal(t, complex128(0), amps[0])
	assert.Equal(t, complex128(0), amps[1])
}

func TestCheckNormalized(t *testing.T) {
	h := complex(1/math.Sqrt2, 0)
	assert.Nil(t, CheckNormalized([]complex128{h, h}))
	assert.Nil(t, CheckNormalized([]complex128{1, 0, 0, 0}))
	assert.NotNil(t, CheckNormalized([]complex128{1, 1}))
	assert.NotNil(t, CheckNormalized([]complex128{0.5, 0}))
}

func TestInner(t *testing.T) {
	a := []complex128{1, 0}
	b := []complex128{0, 1}
	ip, err := Inner(a, b)
	assert.Nil(t, err)
	assert.Equal(t, complex128(0), ip)

	ip, err = Inner(a, a)
	assert.Nil(t, err)
	assert.Equal(t, complex128(1), ip)

	_, err = Inner(a, []complex128{1})
	assert.Equal(t, err.Error(), "dimension mismatch: 2 vs 1")
}

func TestInnerConjugatesLeft(t *testing.T) {
	a := []complex128{1i, 0}
	ip, err := Inner(a, a)
	assert.Nil(t, err)
	assert.InDelta(t, 1.0, real(ip), 1e-12)
	assert.InDelta(t, 0.0, imag(ip), 1e-12)
}

func TestOuter(t *testing.T) {
	a := []complex128{1, 0}
	b := []complex128{0, 1i}
	m := Outer(a, b)
	assert.Equal(t, complex128(0), m[0][0])
	assert.Equal(t, complex128(-1i), m[0][1])
	assert.Equal(t, complex128(0), m[1][0])
	assert.Equal(t, complex128(0), m[1][1])
}
