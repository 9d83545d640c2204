//go:build unit
// +build unit

package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAsset(t *testing.T) {
	program, err := GetAsset("bell_pair.json")
	assert.Nil(t, err)
	assert.Equal(t,
		`{"num_qubits":2,"num_classical_bits":2,"operations":[{"op":"h","qubits":[0]},{"op":"cx","qubits":[0,1]},{"op":"measure","qubits":[0],"bit":0},{"op":"measure","qubits":[1],"bit":1}]}`,
		program)
}

func TestGetAssetNotFound(t *testing.T) {
	_, err := GetAsset("no_such_asset.json")
	assert.Error(t, err)
}

func TestPlainJsonString(t *testing.T) {
	jsonString := "{\n  \"name\": \"bell\",\n  \"qubits\"}"
	expected := "{\"name\":\"bell\",\"qubits\"}"

	actual := PlainJsonString(jsonString)
	assert.Equal(t, expected, actual)
}

func TestIsDirWritable(t *testing.T) {
	assert.Nil(t, IsDirWritable(t.TempDir()))
	assert.Error(t, IsDirWritable("/no/such/dir"))
}
