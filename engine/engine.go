package engine

import (
	"math/rand"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/qsim-lab/qsim-engine/simcore/circuit"
	"github.com/qsim-lab/qsim-engine/simcore/gate"
	"github.com/qsim-lab/qsim-engine/simcore/sampler"
	"github.com/qsim-lab/qsim-engine/simcore/statevec"
)

// Result holds everything one execution produces. Probabilities and
// State describe a representative final state. ShotOutcomes is one
// classical record per shot in draw order and Counts is its frequency
// table.
type Result struct {
	Probabilities []float64
	State         *statevec.State
	ShotOutcomes  []string
	Counts        map[string]int
	Shots         int
}

// Run executes a circuit for the given number of shots. Circuits
// without conditionals are simulated once and sampled from the final
// distribution. Circuits with conditionals need the classical register
// mid-run, so every shot is an independent trial with its own state
// and register. The caller owns rng and its seed, which makes runs
// reproducible.
func Run(circ *circuit.Circuit, shots int, rng *rand.Rand) (*Result, error) {
	if circ.HasConditional() {
		return runPerShot(circ, shots, rng)
	}
	return runSinglePass(circ, shots, rng)
}

// GetState simulates the unitary part of a circuit once and returns
// the final state. Measurements, conditionals and barriers are skipped
// so the state stays a pure superposition.
func GetState(circ *circuit.Circuit) (*statevec.State, error) {
	state := statevec.NewZero(circ.NumQubits)
	for _, inst := range circ.Instructions {
		switch inst.(type) {
		case circuit.MeasureInstruction, circuit.ConditionalInstruction, circuit.BarrierInstruction:
			continue
		}
		if err := applyInstruction(state, inst); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// runSinglePass applies every gate once and derives all shot outcomes
// from the final distribution. Nothing in the timeline depends on a
// measurement result, so mid-run collapse is unnecessary.
func runSinglePass(circ *circuit.Circuit, shots int, rng *rand.Rand) (*Result, error) {
	state := statevec.NewZero(circ.NumQubits)
	measurements := []circuit.MeasureInstruction{}
	for _, inst := range circ.Instructions {
		switch v := inst.(type) {
		case circuit.MeasureInstruction:
			measurements = append(measurements, v)
			continue
		case circuit.BarrierInstruction:
			continue
		}
		if err := applyInstruction(state, inst); err != nil {
			return nil, err
		}
	}
	if err := state.CheckNorm(); err != nil {
		return nil, err
	}
	probabilities := state.Probabilities()

	outcomes := sampler.Sample(probabilities, shots, rng)
	shotOutcomes := make([]string, 0, shots)
	for _, index := range outcomes {
		shotOutcomes = append(shotOutcomes, classicalRecord(circ, measurements, index))
	}
	zap.L().Debug("single pass execution finished",
		zap.Int("num_qubits", circ.NumQubits), zap.Int("shots", shots))
	return &Result{
		Probabilities: probabilities,
		State:         state,
		ShotOutcomes:  shotOutcomes,
		Counts:        tally(shotOutcomes),
		Shots:         shots,
	}, nil
}

// runPerShot runs independent trials. Each trial gets a fresh state,
// an all-zero classical register and its own RNG stream derived from
// the caller's source.
func runPerShot(circ *circuit.Circuit, shots int, rng *rand.Rand) (*Result, error) {
	state := statevec.NewZero(circ.NumQubits)
	shotOutcomes := make([]string, 0, shots)
	for s := 0; s < shots; s++ {
		shotRNG := rand.New(rand.NewSource(rng.Int63()))
		register := make([]int, circ.NumClassicalBits)
		state = statevec.NewZero(circ.NumQubits)
		if err := runTrial(state, circ.Instructions, register, shotRNG); err != nil {
			return nil, err
		}
		shotOutcomes = append(shotOutcomes, registerRecord(register))
	}
	zap.L().Debug("per shot execution finished",
		zap.Int("num_qubits", circ.NumQubits), zap.Int("shots", shots))
	return &Result{
		Probabilities: state.Probabilities(),
		State:         state,
		ShotOutcomes:  shotOutcomes,
		Counts:        tally(shotOutcomes),
		Shots:         shots,
	}, nil
}

func runTrial(state *statevec.State, instructions []circuit.Instruction, register []int, rng *rand.Rand) error {
	for _, inst := range instructions {
		switch v := inst.(type) {
		case circuit.MeasureInstruction:
			register[v.ClassicalBit] = state.MeasureQubit(v.Qubit, rng)
		case circuit.ConditionalInstruction:
			if register[v.ClassicalBit] == v.ExpectedValue {
				if err := runTrial(state, v.Body, register, rng); err != nil {
					return err
				}
			}
		case circuit.BarrierInstruction:
		default:
			if err := applyInstruction(state, inst); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyInstruction(state *statevec.State, inst circuit.Instruction) error {
	switch v := inst.(type) {
	case circuit.GateInstruction:
		m, err := gate.ByName(v.Name, v.Params)
		if err != nil {
			return errors.Wrapf(err, "instruction %q", v.String())
		}
		state.ApplyGate(m, v.Qubit)
	case circuit.ToffoliInstruction:
		state.ApplyToffoli(v.Control1, v.Control2, v.Target)
	case circuit.ControlledGateInstruction:
		switch v.Name {
		case "cx":
			state.ApplyControlledX(v.Control, v.Target)
		case "cz":
			state.ApplyControlledZ(v.Control, v.Target)
		case "swap":
			state.ApplySwap(v.Control, v.Target)
		default:
			return errors.Errorf("gate:%s is not supported", v.Name)
		}
	case circuit.BarrierInstruction:
	default:
		return errors.Errorf("unknown instruction:%s", inst)
	}
	return nil
}

// classicalRecord maps a sampled basis-state index to the classical
// register the measurements would have produced. When a circuit has no
// measurements the full basis bit string is the record.
func classicalRecord(circ *circuit.Circuit, measurements []circuit.MeasureInstruction, index int) string {
	if len(measurements) == 0 || circ.NumClassicalBits == 0 {
		return sampler.BitString(index, circ.NumQubits)
	}
	register := make([]int, circ.NumClassicalBits)
	for _, m := range measurements {
		register[m.ClassicalBit] = (index >> (circ.NumQubits - 1 - m.Qubit)) & 1
	}
	return registerRecord(register)
}

func registerRecord(register []int) string {
	var b strings.Builder
	for _, bit := range register {
		if bit == 0 {
			b.WriteByte('0')
		} else {
			b.WriteByte('1')
		}
	}
	return b.String()
}

func tally(outcomes []string) map[string]int {
	counts := map[string]int{}
	for _, o := range outcomes {
		counts[o]++
	}
	return counts
}
