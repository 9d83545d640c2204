//go:build unit
// +build unit

package sampler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitString(t *testing.T) {
	testCases := []struct {
		index     int
		numQubits int
		want      string
	}{
		{0, 1, "0"},
		{1, 1, "1"},
		{0, 2, "00"},
		{2, 2, "10"},
		{1, 3, "001"},
		{5, 3, "101"},
		{7, 3, "111"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, BitString(tc.index, tc.numQubits))
	}
}

func TestSampleDeterministicDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	outcomes := Sample([]float64{0, 0, 1, 0}, 100, rng)
	assert.Equal(t, 100, len(outcomes))
	for _, o := range outcomes {
		assert.Equal(t, 2, o)
	}
}

func TestSampleZeroShots(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	outcomes := Sample([]float64{0.5, 0.5}, 0, rng)
	assert.Equal(t, 0, len(outcomes))
}

func TestSampleSkipsZeroProbabilityStates(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	outcomes := Sample([]float64{0.5, 0, 0, 0.5}, 2000, rng)
	for _, o := range outcomes {
		assert.True(t, o == 0 || o == 3, "unexpected outcome %d", o)
	}
}

func TestSampleBellStatistics(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	outcomes := Sample([]float64{0.5, 0, 0, 0.5}, 4000, rng)
	counts := Tally(outcomes, 2)
	assert.Equal(t, 0, counts["01"])
	assert.Equal(t, 0, counts["10"])
	assert.InDelta(t, 2000, counts["00"], 200)
	assert.InDelta(t, 2000, counts["11"], 200)
	assert.Equal(t, 4000, counts["00"]+counts["11"])
}

func TestSampleReproducible(t *testing.T) {
	a := Sample([]float64{0.25, 0.25, 0.25, 0.25}, 50, rand.New(rand.NewSource(9)))
	b := Sample([]float64{0.25, 0.25, 0.25, 0.25}, 50, rand.New(rand.NewSource(9)))
	assert.Equal(t, a, b)
}
