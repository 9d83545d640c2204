//go:build unit
// +build unit

package engine

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qsim-lab/qsim-engine/simcore/circuit"
	"github.com/qsim-lab/qsim-engine/simcore/gate"
	"github.com/qsim-lab/qsim-engine/simcore/statevec"
)

func TestBellProbabilities(t *testing.T) {
	c := circuit.New(2, 2).H(0).CX(0, 1).Measure(0, 0).Measure(1, 1)
	assert.NoError(t, c.Validate())

	result, err := Run(c, 1000, rand.New(rand.NewSource(3)))
	assert.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0, 0, 0.5}, result.Probabilities, 1e-9)
	assert.Equal(t, 1000, result.Shots)
	assert.Equal(t, 1000, len(result.ShotOutcomes))
}

func TestBellShotCorrelation(t *testing.T) {
	c := circuit.New(2, 2).H(0).CX(0, 1).Measure(0, 0).Measure(1, 1)
	result, err := Run(c, 2000, rand.New(rand.NewSource(5)))
	assert.NoError(t, err)

	for _, outcome := range result.ShotOutcomes {
		assert.True(t, outcome == "00" || outcome == "11", "mixed outcome %s", outcome)
	}
	assert.InDelta(t, 1000, result.Counts["00"], 150)
	assert.InDelta(t, 1000, result.Counts["11"], 150)
}

func TestGHZProbabilities(t *testing.T) {
	c := circuit.New(3, 0).H(0).CX(0, 1).CX(1, 2)
	result, err := Run(c, 100, rand.New(rand.NewSource(1)))
	assert.NoError(t, err)

	want := []float64{0.5, 0, 0, 0, 0, 0, 0, 0.5}
	assert.InDeltaSlice(t, want, result.Probabilities, 1e-9)
	for _, outcome := range result.ShotOutcomes {
		assert.True(t, outcome == "000" || outcome == "111", "unexpected outcome %s", outcome)
	}
}

func TestShotEdgeCases(t *testing.T) {
	c := circuit.New(1, 1).H(0).Measure(0, 0)

	zero, err := Run(c, 0, rand.New(rand.NewSource(2)))
	assert.NoError(t, err)
	assert.Equal(t, 0, len(zero.ShotOutcomes))
	assert.Equal(t, 0, len(zero.Counts))

	one, err := Run(c, 1, rand.New(rand.NewSource(2)))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(one.ShotOutcomes))
}

func TestPerShotEdgeCases(t *testing.T) {
	c := circuit.New(2, 2).
		H(0).
		Measure(0, 0).
		Conditional(0, 1, circuit.GateInstruction{Name: "x", Qubit: 1}).
		Measure(1, 1)

	zero, err := Run(c, 0, rand.New(rand.NewSource(2)))
	assert.NoError(t, err)
	assert.Equal(t, 0, len(zero.ShotOutcomes))

	one, err := Run(c, 1, rand.New(rand.NewSource(2)))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(one.ShotOutcomes))
}

func TestConditionalFeedback(t *testing.T) {
	// Measure qubit 0 of |+> and copy the result onto qubit 1 through
	// the classical register. The two classical bits must always agree.
	c := circuit.New(2, 2).
		H(0).
		Measure(0, 0).
		Conditional(0, 1, circuit.GateInstruction{Name: "x", Qubit: 1}).
		Measure(1, 1)
	assert.NoError(t, c.Validate())

	result, err := Run(c, 500, rand.New(rand.NewSource(11)))
	assert.NoError(t, err)
	for _, outcome := range result.ShotOutcomes {
		assert.True(t, outcome == "00" || outcome == "11", "feedback mismatch %s", outcome)
	}
	assert.InDelta(t, 250, result.Counts["00"], 80)
	assert.InDelta(t, 250, result.Counts["11"], 80)
}

func teleportationCircuit() *circuit.Circuit {
	// Teleport |1> from qubit 0 to qubit 2 over a Bell pair on
	// qubits 1 and 2, with classical corrections.
	return circuit.New(3, 3).
		X(0).
		H(1).
		CX(1, 2).
		CX(0, 1).
		H(0).
		Measure(0, 0).
		Measure(1, 1).
		Conditional(1, 1, circuit.GateInstruction{Name: "x", Qubit: 2}).
		Conditional(0, 1, circuit.GateInstruction{Name: "z", Qubit: 2}).
		Measure(2, 2)
}

func TestTeleportation(t *testing.T) {
	c := teleportationCircuit()
	assert.NoError(t, c.Validate())

	result, err := Run(c, 2000, rand.New(rand.NewSource(17)))
	assert.NoError(t, err)

	midOutcomes := map[string]int{}
	for _, outcome := range result.ShotOutcomes {
		assert.Equal(t, byte('1'), outcome[2], "teleported qubit lost its state in %s", outcome)
		midOutcomes[outcome[:2]]++
	}
	for _, mid := range []string{"00", "01", "10", "11"} {
		assert.Greater(t, midOutcomes[mid], 0, "mid-circuit outcome %s never occurred", mid)
	}
}

func TestTeleportationReproducible(t *testing.T) {
	a, err := Run(teleportationCircuit(), 100, rand.New(rand.NewSource(23)))
	assert.NoError(t, err)
	b, err := Run(teleportationCircuit(), 100, rand.New(rand.NewSource(23)))
	assert.NoError(t, err)
	assert.Equal(t, a.ShotOutcomes, b.ShotOutcomes)
}

func TestGetStateSkipsMeasurement(t *testing.T) {
	c := circuit.New(2, 2).H(0).CX(0, 1).Measure(0, 0).Measure(1, 1)
	state, err := GetState(c)
	assert.NoError(t, err)

	inv := 1 / math.Sqrt2
	assert.InDelta(t, inv, real(state.Amplitudes[0]), 1e-9)
	assert.InDelta(t, inv, real(state.Amplitudes[3]), 1e-9)
	assert.InDelta(t, 0, real(state.Amplitudes[1]), 1e-9)
	assert.InDelta(t, 0, real(state.Amplitudes[2]), 1e-9)
}

func TestRunRejectsUnknownGate(t *testing.T) {
	c := circuit.New(1, 0).Add(circuit.GateInstruction{Name: "u3", Qubit: 0, Params: []float64{1, 2, 3}})
	_, err := Run(c, 10, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "gate:u3 is not supported")
}

func kron(a, b [][]complex128) [][]complex128 {
	ra, ca := len(a), len(a[0])
	rb, cb := len(b), len(b[0])
	out := make([][]complex128, ra*rb)
	for i := range out {
		out[i] = make([]complex128, ca*cb)
	}
	for i := 0; i < ra; i++ {
		for j := 0; j < ca; j++ {
			for k := 0; k < rb; k++ {
				for l := 0; l < cb; l++ {
					out[i*rb+k][j*cb+l] = a[i][j] * b[k][l]
				}
			}
		}
	}
	return out
}

func fullMatrix(m gate.Matrix, target, numQubits int) [][]complex128 {
	identity := [][]complex128{{1, 0}, {0, 1}}
	small := [][]complex128{
		{m[0][0], m[0][1]},
		{m[1][0], m[1][1]},
	}
	var full [][]complex128
	for q := 0; q < numQubits; q++ {
		factor := identity
		if q == target {
			factor = small
		}
		if full == nil {
			full = factor
		} else {
			full = kron(full, factor)
		}
	}
	return full
}

func TestDirectApplicationMatchesMatrixProduct(t *testing.T) {
	// Direct bit manipulation must agree with the explicit
	// Kronecker-product matrix applied to the same state.
	gates := map[string]gate.Matrix{
		"h":     gate.Hadamard(),
		"y":     gate.PauliY(),
		"t":     gate.T(),
		"rx":    gate.RX(0.7),
		"rz":    gate.RZ(1.3),
		"phase": gate.Phase(2.1),
	}
	for name, m := range gates {
		for target := 0; target < 3; target++ {
			state := statevec.NewZero(3)
			state.ApplyGate(gate.Hadamard(), 0)
			state.ApplyGate(gate.RY(0.4), 1)
			state.ApplyControlledX(0, 2)

			expected := make([]complex128, len(state.Amplitudes))
			full := fullMatrix(m, target, 3)
			for i := range expected {
				for j, amp := range state.Amplitudes {
					expected[i] += full[i][j] * amp
				}
			}

			state.ApplyGate(m, target)
			for i := range expected {
				assert.InDelta(t, real(expected[i]), real(state.Amplitudes[i]), 1e-9,
					"%s target %d amplitude %d", name, target, i)
				assert.InDelta(t, imag(expected[i]), imag(state.Amplitudes[i]), 1e-9,
					"%s target %d amplitude %d", name, target, i)
			}
		}
	}
}
