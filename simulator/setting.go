package simulator

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/qsim-lab/qsim-engine/simcore/common"
	"go.uber.org/zap"
)

const (
	DefaultEngineName = "local-statevector"
	DefaultMaxQubits  = 20
	DefaultMaxShots   = 100000
)

type EngineSetting struct {
	EngineName string `toml:"engine_name"`
	MaxQubits  int    `toml:"max_qubits"`
	MaxShots   int    `toml:"max_shots"`
	Seed       int64  `toml:"seed"`
}

func NewEngineSetting() *EngineSetting {
	return &EngineSetting{
		EngineName: DefaultEngineName,
		MaxQubits:  DefaultMaxQubits,
		MaxShots:   DefaultMaxShots,
	}
}

// LoadEngineSetting falls back to defaults when the file is missing. A
// present but broken file is an error.
func LoadEngineSetting(path string) (*EngineSetting, error) {
	blob, assetErr := common.ReadFile(path)
	es := NewEngineSetting()
	if assetErr != nil {
		zap.L().Info(fmt.Sprintf("Failed to read file:%s Reason:%s", path, assetErr))
		return es, nil
	}
	if _, err := toml.Decode(blob, es); err != nil {
		zap.L().Error(fmt.Sprintf("failed to decode blob:%s", blob))
		return &EngineSetting{}, err
	}
	return es, nil
}
