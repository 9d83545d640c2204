package circuit

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

// operationJSON is the wire form of one instruction. Jobs submit
// circuits as a JSON program, so every instruction variant flattens
// into this one shape.
type operationJSON struct {
	Op     string          `json:"op"`
	Qubits []int           `json:"qubits,omitempty"`
	Params []float64       `json:"params,omitempty"`
	Bit    int             `json:"bit,omitempty"`
	Value  int             `json:"value,omitempty"`
	Body   []operationJSON `json:"body,omitempty"`
}

type circuitJSON struct {
	NumQubits        int             `json:"num_qubits"`
	NumClassicalBits int             `json:"num_classical_bits"`
	Operations       []operationJSON `json:"operations"`
}

// Parse decodes a JSON program into a circuit. The result is not yet
// validated; callers run Validate before execution.
func Parse(program string) (*Circuit, error) {
	var cj circuitJSON
	if err := jsonIter.UnmarshalFromString(program, &cj); err != nil {
		return nil, fmt.Errorf("failed to parse circuit program:%s", err)
	}
	c := New(cj.NumQubits, cj.NumClassicalBits)
	instructions, err := decodeOperations(cj.Operations)
	if err != nil {
		return nil, err
	}
	c.Instructions = instructions
	return c, nil
}

func decodeOperations(ops []operationJSON) ([]Instruction, error) {
	instructions := make([]Instruction, 0, len(ops))
	for _, op := range ops {
		inst, err := decodeOperation(op)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, inst)
	}
	return instructions, nil
}

func decodeOperation(op operationJSON) (Instruction, error) {
	switch op.Op {
	case "barrier":
		return BarrierInstruction{}, nil
	case "measure":
		if len(op.Qubits) != 1 {
			return nil, fmt.Errorf("measure takes exactly one qubit, got %d", len(op.Qubits))
		}
		return MeasureInstruction{Qubit: op.Qubits[0], ClassicalBit: op.Bit}, nil
	case "if":
		body, err := decodeOperations(op.Body)
		if err != nil {
			return nil, err
		}
		return ConditionalInstruction{ClassicalBit: op.Bit, ExpectedValue: op.Value, Body: body}, nil
	case "cx", "cz", "swap":
		if len(op.Qubits) != 2 {
			return nil, fmt.Errorf("%s takes exactly two qubits, got %d", op.Op, len(op.Qubits))
		}
		return ControlledGateInstruction{Name: op.Op, Control: op.Qubits[0], Target: op.Qubits[1]}, nil
	case "ccx":
		if len(op.Qubits) != 3 {
			return nil, fmt.Errorf("ccx takes exactly three qubits, got %d", len(op.Qubits))
		}
		return ToffoliInstruction{Control1: op.Qubits[0], Control2: op.Qubits[1], Target: op.Qubits[2]}, nil
	default:
		if len(op.Qubits) != 1 {
			return nil, fmt.Errorf("%s takes exactly one qubit, got %d", op.Op, len(op.Qubits))
		}
		return GateInstruction{Name: op.Op, Qubit: op.Qubits[0], Params: op.Params}, nil
	}
}

func encodeOperations(instructions []Instruction) ([]operationJSON, error) {
	ops := make([]operationJSON, 0, len(instructions))
	for _, inst := range instructions {
		op, err := encodeOperation(inst)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func encodeOperation(inst Instruction) (operationJSON, error) {
	switch v := inst.(type) {
	case GateInstruction:
		return operationJSON{Op: v.Name, Qubits: []int{v.Qubit}, Params: v.Params}, nil
	case ControlledGateInstruction:
		return operationJSON{Op: v.Name, Qubits: []int{v.Control, v.Target}}, nil
	case ToffoliInstruction:
		return operationJSON{Op: "ccx", Qubits: []int{v.Control1, v.Control2, v.Target}}, nil
	case MeasureInstruction:
		return operationJSON{Op: "measure", Qubits: []int{v.Qubit}, Bit: v.ClassicalBit}, nil
	case ConditionalInstruction:
		body, err := encodeOperations(v.Body)
		if err != nil {
			return operationJSON{}, err
		}
		return operationJSON{Op: "if", Bit: v.ClassicalBit, Value: v.ExpectedValue, Body: body}, nil
	case BarrierInstruction:
		return operationJSON{Op: "barrier"}, nil
	default:
		return operationJSON{}, fmt.Errorf("unknown instruction:%s", inst)
	}
}

// Program renders a circuit back into its JSON wire form.
func (c *Circuit) Program() (string, error) {
	ops, err := encodeOperations(c.Instructions)
	if err != nil {
		return "", err
	}
	cj := circuitJSON{
		NumQubits:        c.NumQubits,
		NumClassicalBits: c.NumClassicalBits,
		Operations:       ops,
	}
	return jsonIter.MarshalToString(cj)
}
