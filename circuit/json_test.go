//go:build unit
// +build unit

package circuit

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	program := heredoc.Doc(`
		{
		  "num_qubits": 3,
		  "num_classical_bits": 3,
		  "operations": [
		    {"op": "x", "qubits": [0]},
		    {"op": "h", "qubits": [1]},
		    {"op": "rz", "qubits": [1], "params": [0.5]},
		    {"op": "cx", "qubits": [1, 2]},
		    {"op": "ccx", "qubits": [0, 1, 2]},
		    {"op": "barrier"},
		    {"op": "measure", "qubits": [0], "bit": 0},
		    {"op": "if", "bit": 0, "value": 1, "body": [
		      {"op": "z", "qubits": [2]}
		    ]}
		  ]
		}`)
	c, err := Parse(program)
	assert.NoError(t, err)
	assert.NoError(t, c.Validate())
	assert.Equal(t, 3, c.NumQubits)
	assert.Equal(t, 3, c.NumClassicalBits)
	assert.Equal(t, 8, len(c.Instructions))

	cond, ok := c.Instructions[7].(ConditionalInstruction)
	assert.True(t, ok)
	assert.Equal(t, 0, cond.ClassicalBit)
	assert.Equal(t, 1, cond.ExpectedValue)
	assert.Equal(t, 1, len(cond.Body))
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name         string
		program      string
		wantErrorMsg string
	}{
		{
			name:         "broken json",
			program:      `{"num_qubits": 2`,
			wantErrorMsg: "failed to parse circuit program",
		},
		{
			name:         "measure arity",
			program:      `{"num_qubits": 2, "operations": [{"op": "measure", "qubits": [0, 1]}]}`,
			wantErrorMsg: "measure takes exactly one qubit, got 2",
		},
		{
			name:         "cx arity",
			program:      `{"num_qubits": 2, "operations": [{"op": "cx", "qubits": [0]}]}`,
			wantErrorMsg: "cx takes exactly two qubits, got 1",
		},
		{
			name:         "ccx arity",
			program:      `{"num_qubits": 3, "operations": [{"op": "ccx", "qubits": [0, 1]}]}`,
			wantErrorMsg: "ccx takes exactly three qubits, got 2",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.program)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErrorMsg)
		})
	}
}

func TestProgramRoundTrip(t *testing.T) {
	c := New(2, 2).
		H(0).
		CX(0, 1).
		Measure(0, 0).
		Conditional(0, 1, GateInstruction{Name: "x", Qubit: 1})
	program, err := c.Program()
	assert.NoError(t, err)

	parsed, err := Parse(program)
	assert.NoError(t, err)
	assert.Equal(t, c.NumQubits, parsed.NumQubits)
	assert.Equal(t, c.NumClassicalBits, parsed.NumClassicalBits)
	assert.Equal(t, c.Instructions, parsed.Instructions)
}
