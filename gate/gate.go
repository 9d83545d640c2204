package gate

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Matrix is a 2x2 complex matrix acting on a single qubit.
// Every matrix produced by this package is unitary.
type Matrix [2][2]complex128

const UnitarityTolerance = 1e-10

func Identity() Matrix {
	return Matrix{
		{1, 0},
		{0, 1},
	}
}

func Hadamard() Matrix {
	h := complex(1.0/math.Sqrt2, 0)
	return Matrix{
		{h, h},
		{h, -h},
	}
}

func PauliX() Matrix {
	return Matrix{
		{0, 1},
		{1, 0},
	}
}

func PauliY() Matrix {
	return Matrix{
		{0, -1i},
		{1i, 0},
	}
}

func PauliZ() Matrix {
	return Matrix{
		{1, 0},
		{0, -1},
	}
}

func S() Matrix {
	return Matrix{
		{1, 0},
		{0, 1i},
	}
}

func Sdg() Matrix {
	return Matrix{
		{1, 0},
		{0, -1i},
	}
}

func T() Matrix {
	return Matrix{
		{1, 0},
		{0, cmplx.Exp(complex(0, math.Pi/4))},
	}
}

func Tdg() Matrix {
	return Matrix{
		{1, 0},
		{0, cmplx.Exp(complex(0, -math.Pi/4))},
	}
}

func RX(theta float64) Matrix {
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	return Matrix{
		{c, js},
		{js, c},
	}
}

func RY(theta float64) Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return Matrix{
		{c, -s},
		{s, c},
	}
}

func RZ(theta float64) Matrix {
	return Matrix{
		{cmplx.Exp(complex(0, -theta/2)), 0},
		{0, cmplx.Exp(complex(0, theta/2))},
	}
}

func Phase(phi float64) Matrix {
	return Matrix{
		{1, 0},
		{0, cmplx.Exp(complex(0, phi))},
	}
}

// ByName resolves a gate name and its parameters to a matrix.
// Rotation gates take exactly one angle; all other gates take none.
// An unknown name or a wrong parameter count is a fatal structural error.
func ByName(name string, params []float64) (Matrix, error) {
	switch name {
	case "id", "i":
		return noParams(name, params, Identity)
	case "h":
		return noParams(name, params, Hadamard)
	case "x":
		return noParams(name, params, PauliX)
	case "y":
		return noParams(name, params, PauliY)
	case "z":
		return noParams(name, params, PauliZ)
	case "s":
		return noParams(name, params, S)
	case "sdg":
		return noParams(name, params, Sdg)
	case "t":
		return noParams(name, params, T)
	case "tdg":
		return noParams(name, params, Tdg)
	case "rx":
		return oneParam(name, params, RX)
	case "ry":
		return oneParam(name, params, RY)
	case "rz":
		return oneParam(name, params, RZ)
	case "p", "phase":
		return oneParam(name, params, Phase)
	default:
		return Matrix{}, fmt.Errorf("gate:%s is not supported", name)
	}
}

func noParams(name string, params []float64, f func() Matrix) (Matrix, error) {
	if len(params) != 0 {
		return Matrix{}, fmt.Errorf("gate:%s takes no parameters, got %d", name, len(params))
	}
	return f(), nil
}

func oneParam(name string, params []float64, f func(float64) Matrix) (Matrix, error) {
	if len(params) != 1 {
		return Matrix{}, fmt.Errorf("gate:%s takes exactly one parameter, got %d", name, len(params))
	}
	return f(params[0]), nil
}

// Dagger returns the conjugate transpose.
func (m Matrix) Dagger() Matrix {
	return Matrix{
		{cmplx.Conj(m[0][0]), cmplx.Conj(m[1][0])},
		{cmplx.Conj(m[0][1]), cmplx.Conj(m[1][1])},
	}
}

func (m Matrix) Mul(o Matrix) Matrix {
	var r Matrix
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j]
		}
	}
	return r
}

// IsUnitary reports whether m†m is the identity within tol.
func (m Matrix) IsUnitary(tol float64) bool {
	p := m.Dagger().Mul(m)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want := complex128(0)
			if i == j {
				want = 1
			}
			if cmplx.Abs(p[i][j]-want) > tol {
				return false
			}
		}
	}
	return true
}
