//go:build unit
// +build unit

package simulator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"

	"github.com/qsim-lab/qsim-engine/simcore/common"
	"github.com/qsim-lab/qsim-engine/simcore/core"
)

func setupSimulator(t *testing.T, conf *core.Conf) *LocalSimulator {
	t.Helper()
	s := &LocalSimulator{}
	assert.Nil(t, s.Setup(conf))
	return s
}

func TestSetupWithDefaults(t *testing.T) {
	s := setupSimulator(t, &core.Conf{EngineSettingPath: "no_such_setting.toml"})
	info := s.GetEngineInfo()
	assert.Equal(t, DefaultEngineName, info.EngineName)
	assert.Equal(t, DefaultMaxQubits, info.MaxQubits)
	assert.Equal(t, DefaultMaxShots, info.MaxShots)
	assert.Equal(t, core.Available, info.Status)
	assert.NotEqual(t, int64(0), info.BaseSeed)
}

func TestSetupWithSettingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine_setting.toml")
	settingTOML := heredoc.Doc(`
		engine_name = "test-engine"
		max_qubits = 8
		max_shots = 500
		seed = 12345
	`)
	assert.Nil(t, os.WriteFile(path, []byte(settingTOML), 0644))

	s := setupSimulator(t, &core.Conf{EngineSettingPath: path})
	info := s.GetEngineInfo()
	assert.Equal(t, "test-engine", info.EngineName)
	assert.Equal(t, 8, info.MaxQubits)
	assert.Equal(t, 500, info.MaxShots)
	assert.Equal(t, int64(12345), info.BaseSeed)
}

func TestSetupConfOverridesSetting(t *testing.T) {
	s := setupSimulator(t, &core.Conf{
		EngineSettingPath: "no_such_setting.toml",
		MaxQubits:         4,
		MaxShots:          100,
		Seed:              7,
	})
	info := s.GetEngineInfo()
	assert.Equal(t, 4, info.MaxQubits)
	assert.Equal(t, 100, info.MaxShots)
	assert.Equal(t, int64(7), info.BaseSeed)
}

func TestValidate(t *testing.T) {
	s := setupSimulator(t, &core.Conf{EngineSettingPath: "no_such_setting.toml", MaxQubits: 3})

	bell, err := common.GetAsset("bell_pair.json")
	assert.Nil(t, err)

	testCases := []struct {
		name         string
		program      string
		wantErrorMsg string
	}{
		{
			name:    "valid bell pair",
			program: bell,
		},
		{
			name:         "broken program",
			program:      `{"num_qubits": 2`,
			wantErrorMsg: "failed to parse circuit program",
		},
		{
			name:         "unknown gate",
			program:      `{"num_qubits": 1, "operations": [{"op": "u3", "qubits": [0], "params": [1, 2, 3]}]}`,
			wantErrorMsg: "gate:u3 is not supported",
		},
		{
			name:         "over qubit cap",
			program:      `{"num_qubits": 4, "operations": []}`,
			wantErrorMsg: "circuit needs 4 qubits but the engine caps at 3",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Validate(tc.program)
			if tc.wantErrorMsg == "" {
				assert.Nil(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErrorMsg)
			}
		})
	}
}

func TestSendBellJob(t *testing.T) {
	s := setupSimulator(t, &core.Conf{EngineSettingPath: "no_such_setting.toml", Seed: 99})

	bell, err := common.GetAsset("bell_pair.json")
	assert.Nil(t, err)

	jd := core.NewJobData()
	jd.ID = "bell-job"
	jd.Program = bell
	jd.Shots = 1000
	job := (&core.NormalJob{}).New(jd, nil)

	assert.Nil(t, s.Send(job))
	assert.Equal(t, core.SUCCEEDED, jd.Status)
	assert.InDeltaSlice(t, []float64{0.5, 0, 0, 0.5}, jd.Result.Probabilities, 1e-9)
	assert.Equal(t, 1000, len(jd.Result.ShotRecords))
	total := uint32(0)
	for record, n := range jd.Result.Counts {
		assert.True(t, record == "00" || record == "11", "mixed record %s", record)
		total += n
	}
	assert.Equal(t, uint32(1000), total)
	assert.NotZero(t, jd.Result.ExecutionTime)
}

func TestSendBrokenProgramFails(t *testing.T) {
	s := setupSimulator(t, &core.Conf{EngineSettingPath: "no_such_setting.toml"})

	jd := core.NewJobData()
	jd.ID = "broken-job"
	jd.Program = `{"num_qubits": 2`
	jd.Shots = 10
	job := (&core.NormalJob{}).New(jd, nil)

	assert.Error(t, s.Send(job))
	assert.Equal(t, core.FAILED, jd.Status)
	assert.Contains(t, jd.Result.Message, "failed to parse circuit program")
}

func TestSendSeededJobIsReproducible(t *testing.T) {
	s := setupSimulator(t, &core.Conf{EngineSettingPath: "no_such_setting.toml"})

	program, err := common.GetAsset("teleportation.json")
	assert.Nil(t, err)

	seed := int64(4242)
	run := func() []string {
		jd := core.NewJobData()
		jd.ID = "teleport-job"
		jd.Program = program
		jd.Shots = 50
		jd.Seed = &seed
		job := (&core.NormalJob{}).New(jd, nil)
		assert.Nil(t, s.Send(job))
		return jd.Result.ShotRecords
	}
	assert.Equal(t, run(), run())
}
