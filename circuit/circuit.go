package circuit

import (
	"fmt"

	"github.com/qsim-lab/qsim-engine/simcore/gate"
)

// Instruction is one step of a circuit timeline. Concrete types carry
// the payload; execution switches exhaustively over them.
type Instruction interface {
	String() string
	IsInstruction()
}

// GateInstruction applies a named single-qubit gate.
type GateInstruction struct {
	Name   string
	Qubit  int
	Params []float64
}

func (GateInstruction) IsInstruction() {}
func (g GateInstruction) String() string {
	return fmt.Sprintf("%s q[%d]", g.Name, g.Qubit)
}

// ControlledGateInstruction applies a named two-qubit controlled gate
// (cx, cz or swap).
type ControlledGateInstruction struct {
	Name    string
	Control int
	Target  int
}

func (ControlledGateInstruction) IsInstruction() {}
func (c ControlledGateInstruction) String() string {
	return fmt.Sprintf("%s q[%d], q[%d]", c.Name, c.Control, c.Target)
}

// ToffoliInstruction applies a doubly-controlled X.
type ToffoliInstruction struct {
	Control1 int
	Control2 int
	Target   int
}

func (ToffoliInstruction) IsInstruction() {}
func (tf ToffoliInstruction) String() string {
	return fmt.Sprintf("ccx q[%d], q[%d], q[%d]", tf.Control1, tf.Control2, tf.Target)
}

// MeasureInstruction measures a qubit into a classical bit.
type MeasureInstruction struct {
	Qubit        int
	ClassicalBit int
}

func (MeasureInstruction) IsInstruction() {}
func (m MeasureInstruction) String() string {
	return fmt.Sprintf("measure q[%d] -> c[%d]", m.Qubit, m.ClassicalBit)
}

// ConditionalInstruction executes its body when a classical bit holds
// the expected value at the time the conditional is reached. Bodies
// may not contain further conditionals.
type ConditionalInstruction struct {
	ClassicalBit  int
	ExpectedValue int
	Body          []Instruction
}

func (ConditionalInstruction) IsInstruction() {}
func (c ConditionalInstruction) String() string {
	return fmt.Sprintf("if (c[%d]==%d) ...", c.ClassicalBit, c.ExpectedValue)
}

// BarrierInstruction is a no-op timeline marker.
type BarrierInstruction struct{}

func (BarrierInstruction) IsInstruction() {}
func (BarrierInstruction) String() string {
	return "barrier"
}

// Circuit is an ordered instruction timeline over a qubit register and
// a classical bit register.
type Circuit struct {
	NumQubits        int
	NumClassicalBits int
	Instructions     []Instruction
}

func New(numQubits, numClassicalBits int) *Circuit {
	return &Circuit{
		NumQubits:        numQubits,
		NumClassicalBits: numClassicalBits,
		Instructions:     []Instruction{},
	}
}

func (c *Circuit) Add(inst Instruction) *Circuit {
	c.Instructions = append(c.Instructions, inst)
	return c
}

func (c *Circuit) Gate(name string, qubit int, params ...float64) *Circuit {
	return c.Add(GateInstruction{Name: name, Qubit: qubit, Params: params})
}

func (c *Circuit) H(qubit int) *Circuit { return c.Gate("h", qubit) }
func (c *Circuit) X(qubit int) *Circuit { return c.Gate("x", qubit) }
func (c *Circuit) Y(qubit int) *Circuit { return c.Gate("y", qubit) }
func (c *Circuit) Z(qubit int) *Circuit { return c.Gate("z", qubit) }

func (c *Circuit) CX(control, target int) *Circuit {
	return c.Add(ControlledGateInstruction{Name: "cx", Control: control, Target: target})
}

func (c *Circuit) CZ(control, target int) *Circuit {
	return c.Add(ControlledGateInstruction{Name: "cz", Control: control, Target: target})
}

func (c *Circuit) Swap(q1, q2 int) *Circuit {
	return c.Add(ControlledGateInstruction{Name: "swap", Control: q1, Target: q2})
}

func (c *Circuit) CCX(control1, control2, target int) *Circuit {
	return c.Add(ToffoliInstruction{Control1: control1, Control2: control2, Target: target})
}

func (c *Circuit) Measure(qubit, classicalBit int) *Circuit {
	return c.Add(MeasureInstruction{Qubit: qubit, ClassicalBit: classicalBit})
}

func (c *Circuit) Conditional(classicalBit, expectedValue int, body ...Instruction) *Circuit {
	return c.Add(ConditionalInstruction{
		ClassicalBit:  classicalBit,
		ExpectedValue: expectedValue,
		Body:          body,
	})
}

func (c *Circuit) Barrier() *Circuit {
	return c.Add(BarrierInstruction{})
}

// HasConditional reports whether any timeline entry is a conditional.
// The execution engine uses this to pick its strategy.
func (c *Circuit) HasConditional() bool {
	for _, inst := range c.Instructions {
		if _, ok := inst.(ConditionalInstruction); ok {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants once, at build time:
// known gate names with correct parameter counts, in-range and
// distinct qubit indices, in-range classical bits, and no conditional
// nested inside another conditional. Execution relies on a validated
// circuit and does not re-check per shot.
func (c *Circuit) Validate() error {
	if c.NumQubits < 1 {
		return fmt.Errorf("circuit needs at least 1 qubit, got %d", c.NumQubits)
	}
	return c.validateInstructions(c.Instructions, false)
}

func (c *Circuit) validateInstructions(instructions []Instruction, inConditional bool) error {
	for _, inst := range instructions {
		switch v := inst.(type) {
		case GateInstruction:
			if _, err := gate.ByName(v.Name, v.Params); err != nil {
				return err
			}
			if err := c.checkQubits(v.Qubit); err != nil {
				return err
			}
		case ControlledGateInstruction:
			switch v.Name {
			case "cx", "cz", "swap":
			default:
				return fmt.Errorf("gate:%s is not supported", v.Name)
			}
			if err := c.checkQubits(v.Control, v.Target); err != nil {
				return err
			}
		case ToffoliInstruction:
			if err := c.checkQubits(v.Control1, v.Control2, v.Target); err != nil {
				return err
			}
		case MeasureInstruction:
			if err := c.checkQubits(v.Qubit); err != nil {
				return err
			}
			if err := c.checkClassicalBit(v.ClassicalBit); err != nil {
				return err
			}
		case ConditionalInstruction:
			if inConditional {
				return fmt.Errorf("nested conditional is not allowed")
			}
			if err := c.checkClassicalBit(v.ClassicalBit); err != nil {
				return err
			}
			if v.ExpectedValue != 0 && v.ExpectedValue != 1 {
				return fmt.Errorf("conditional expects a bit value, got %d", v.ExpectedValue)
			}
			if err := c.validateInstructions(v.Body, true); err != nil {
				return err
			}
		case BarrierInstruction:
		default:
			return fmt.Errorf("unknown instruction:%s", inst)
		}
	}
	return nil
}

func (c *Circuit) checkQubits(qubits ...int) error {
	seen := map[int]struct{}{}
	for _, q := range qubits {
		if q < 0 || q >= c.NumQubits {
			return fmt.Errorf("qubit index %d is out of range [0, %d)", q, c.NumQubits)
		}
		if _, ok := seen[q]; ok {
			return fmt.Errorf("qubit index %d is used twice in one instruction", q)
		}
		seen[q] = struct{}{}
	}
	return nil
}

func (c *Circuit) checkClassicalBit(bit int) error {
	if bit < 0 || bit >= c.NumClassicalBits {
		return fmt.Errorf("classical bit index %d is out of range [0, %d)", bit, c.NumClassicalBits)
	}
	return nil
}
