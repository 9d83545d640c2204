//go:build unit
// +build unit

package gate

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllGatesAreUnitary(t *testing.T) {
	tests := []struct {
		name   string
		params []float64
	}{
		{name: "id"},
		{name: "h"},
		{name: "x"},
		{name: "y"},
		{name: "z"},
		{name: "s"},
		{name: "sdg"},
		{name: "t"},
		{name: "tdg"},
		{name: "rx", params: []float64{0.0}},
		{name: "rx", params: []float64{math.Pi / 3}},
		{name: "ry", params: []float64{1.2345}},
		{name: "rz", params: []float64{-math.Pi / 7}},
		{name: "p", params: []float64{2.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ByName(tt.name, tt.params)
			assert.Nil(t, err)
			assert.True(t, m.IsUnitary(UnitarityTolerance))
		})
	}
}

func TestByNameErrors(t *testing.T) {
	tests := []struct {
		name         string
		gate         string
		params       []float64
		wantErrorMsg string
	}{
		{
			name:         "unknown gate",
			gate:         "hoge",
			wantErrorMsg: "gate:hoge is not supported",
		},
		{
			name:         "rotation without angle",
			gate:         "rx",
			wantErrorMsg: "gate:rx takes exactly one parameter, got 0",
		},
		{
			name:         "fixed gate with angle",
			gate:         "h",
			params:       []float64{1.0},
			wantErrorMsg: "gate:h takes no parameters, got 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ByName(tt.gate, tt.params)
			assert.Equal(t, err.Error(), tt.wantErrorMsg)
		})
	}
}

func TestInvolutions(t *testing.T) {
	assertIdentity := func(t *testing.T, m Matrix) {
		id := Identity()
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				assert.InDelta(t, 0, cmplx.Abs(m[i][j]-id[i][j]), 1e-10)
			}
		}
	}

	assertIdentity(t, Hadamard().Mul(Hadamard()))
	assertIdentity(t, PauliX().Mul(PauliX()))
	assertIdentity(t, PauliY().Mul(PauliY()))
	assertIdentity(t, PauliZ().Mul(PauliZ()))
	assertIdentity(t, S().Mul(S()).Mul(S()).Mul(S()))
	assertIdentity(t, S().Mul(Sdg()))
	assertIdentity(t, T().Mul(Tdg()))
}

func TestRotationComposition(t *testing.T) {
	// rz(a)rz(b) == rz(a+b)
	a, b := 0.7, -1.9
	composed := RZ(a).Mul(RZ(b))
	direct := RZ(a + b)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, 0, cmplx.Abs(composed[i][j]-direct[i][j]), 1e-10)
		}
	}
}

func TestPhaseMatchesRZUpToGlobalPhase(t *testing.T) {
	theta := 1.1
	p := Phase(theta)
	r := RZ(theta)
	// p == e^{i theta/2} rz(theta)
	g := cmplx.Exp(complex(0, theta/2))
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, 0, cmplx.Abs(p[i][j]-g*r[i][j]), 1e-10)
		}
	}
}
