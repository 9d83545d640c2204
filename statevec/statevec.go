package statevec

import (
	"math"
	"math/rand"

	"github.com/qsim-lab/qsim-engine/simcore/gate"
	"github.com/qsim-lab/qsim-engine/simcore/linalg"
)

// State is the amplitude vector of an n-qubit register, indexed by
// basis state. Qubit q occupies bit position n-1-q of the index, so
// qubit 0 is the most significant bit. Every operation in this
// package follows that convention.
type State struct {
	Amplitudes []complex128
	NumQubits  int
}

// NewZero returns |00...0>.
func NewZero(numQubits int) *State {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &State{Amplitudes: amps, NumQubits: numQubits}
}

func (s *State) Clone() *State {
	amps := make([]complex128, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &State{Amplitudes: amps, NumQubits: s.NumQubits}
}

func (s *State) bit(qubit int) int {
	return 1 << (s.NumQubits - 1 - qubit)
}

// ApplyGate applies a single-qubit gate to the target qubit by
// updating amplitude pairs that differ only in the target bit. Both
// pair members are read before either is written; no 2^n matrix is
// ever built.
func (s *State) ApplyGate(m gate.Matrix, target int) {
	n := len(s.Amplitudes)
	bit := s.bit(target)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			amp0 := s.Amplitudes[i]
			amp1 := s.Amplitudes[j]
			s.Amplitudes[i] = m[0][0]*amp0 + m[0][1]*amp1
			s.Amplitudes[j] = m[1][0]*amp0 + m[1][1]*amp1
		}
	}
}

// ApplyControlledX flips the target bit of every basis state whose
// control bit is set (CNOT).
func (s *State) ApplyControlledX(control, target int) {
	n := len(s.Amplitudes)
	cBit := s.bit(control)
	tBit := s.bit(target)
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// ApplyControlledZ negates the amplitude of every basis state with
// both control and target bits set.
func (s *State) ApplyControlledZ(control, target int) {
	n := len(s.Amplitudes)
	cBit := s.bit(control)
	tBit := s.bit(target)
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit != 0 {
			s.Amplitudes[i] *= -1
		}
	}
}

// ApplySwap exchanges two qubits.
func (s *State) ApplySwap(q1, q2 int) {
	n := len(s.Amplitudes)
	bit1 := s.bit(q1)
	bit2 := s.bit(q2)
	for i := 0; i < n; i++ {
		if i&bit1 != 0 && i&bit2 == 0 {
			j := (i &^ bit1) | bit2
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// ApplyToffoli flips the target bit where both control bits are set.
func (s *State) ApplyToffoli(control1, control2, target int) {
	n := len(s.Amplitudes)
	c1Bit := s.bit(control1)
	c2Bit := s.bit(control2)
	tBit := s.bit(target)
	for i := 0; i < n; i++ {
		if i&c1Bit != 0 && i&c2Bit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// ProbabilityZero is P(qubit=0), the summed squared magnitude over
// basis states whose qubit bit is clear.
func (s *State) ProbabilityZero(qubit int) float64 {
	bit := s.bit(qubit)
	prob := 0.0
	for i, a := range s.Amplitudes {
		if i&bit == 0 {
			prob += real(a)*real(a) + imag(a)*imag(a)
		}
	}
	return prob
}

// MeasureQubit draws one measurement outcome for the qubit from rng,
// collapses the state onto the observed subspace and renormalizes.
// When the surviving subspace has zero probability the rescale is
// skipped; division by zero never happens.
func (s *State) MeasureQubit(qubit int, rng *rand.Rand) int {
	prob0 := s.ProbabilityZero(qubit)
	outcome := 0
	probOutcome := prob0
	if rng.Float64() >= prob0 {
		outcome = 1
		probOutcome = 1 - prob0
	}
	s.collapse(qubit, outcome, probOutcome)
	return outcome
}

func (s *State) collapse(qubit, outcome int, probOutcome float64) {
	bit := s.bit(qubit)
	scale := complex(1, 0)
	if probOutcome > 0 {
		scale = complex(1/math.Sqrt(probOutcome), 0)
	}
	for i := range s.Amplitudes {
		observed := 0
		if i&bit != 0 {
			observed = 1
		}
		if observed == outcome {
			s.Amplitudes[i] *= scale
		} else {
			s.Amplitudes[i] = 0
		}
	}
}

// Probabilities returns the basis-state probability vector.
func (s *State) Probabilities() []float64 {
	return linalg.Probabilities(s.Amplitudes)
}

// CheckNorm verifies the total probability is still 1 within
// tolerance.
func (s *State) CheckNorm() error {
	return linalg.CheckNormalized(s.Amplitudes)
}
