//go:build unit
// +build unit

package statejob

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/dig"

	"github.com/qsim-lab/qsim-engine/simcore/common"
	"github.com/qsim-lab/qsim-engine/simcore/core"
	"github.com/qsim-lab/qsim-engine/simcore/scheduler"
	"github.com/qsim-lab/qsim-engine/simcore/simulator"
)

func scWithLocalSimulator(t *testing.T) *core.SystemComponents {
	t.Helper()
	c := dig.New()
	c.Provide(func() core.SimulatorManager { return &simulator.LocalSimulator{} })
	c.Provide(func() core.DBManager { return &core.MemoryDB{} })
	c.Provide(func() core.Scheduler { return &scheduler.NormalScheduler{} })
	s := core.NewSystemComponents(c)
	assert.Nil(t, s.Setup(&core.Conf{
		EngineSettingPath: "no_such_setting.toml",
		Seed:              1234,
	}))
	return s
}

func newStateJob(t *testing.T, jd *core.JobData) core.Job {
	t.Helper()
	jm, err := core.NewJobManager(&StateJob{})
	assert.Nil(t, err)
	jc, err := core.NewJobContext()
	assert.Nil(t, err)
	job, err := jm.NewJobFromJobData(jd, jc)
	assert.Nil(t, err)
	return job
}

func TestStateJobBellPair(t *testing.T) {
	core.ResetSetting()
	s := scWithLocalSimulator(t)
	defer s.TearDown()

	program, err := common.GetAsset("bell_pair.json")
	assert.Nil(t, err)

	jd := core.NewJobData()
	jd.ID = "state-bell"
	jd.Program = program
	jd.JobType = STATE_JOB
	job := newStateJob(t, jd)

	job.PreProcess()
	assert.False(t, job.IsFinished())

	job.Process()
	assert.Equal(t, core.SUCCEEDED, job.JobData().Status)
	assert.True(t, job.IsFinished())

	sv := job.JobData().Result.StateVector
	assert.Equal(t, 4, len(sv))
	inv := 1.0 / math.Sqrt2
	assert.InDelta(t, inv, sv[0][0], 1e-9)
	assert.InDelta(t, 0.0, sv[1][0], 1e-9)
	assert.InDelta(t, 0.0, sv[2][0], 1e-9)
	assert.InDelta(t, inv, sv[3][0], 1e-9)
	assert.InDelta(t, 0.5, job.JobData().Result.Probabilities[0], 1e-9)
	assert.InDelta(t, 0.5, job.JobData().Result.Probabilities[3], 1e-9)
}

func TestStateJobRejectsTooManyQubits(t *testing.T) {
	core.ResetSetting()
	s := scWithLocalSimulator(t)
	defer s.TearDown()

	program, err := common.GetAsset("bell_pair.json")
	assert.Nil(t, err)

	jd := core.NewJobData()
	jd.ID = "state-capped"
	jd.Program = program
	jd.JobType = STATE_JOB
	job := newStateJob(t, jd)

	sj := job.(*StateJob)
	sj.setting.MaxStateQubits = 1

	job.PreProcess()
	assert.True(t, job.IsFinished())
	assert.Equal(t, core.FAILED, job.JobData().Status)
	assert.Contains(t, job.JobData().Result.Message, "state dump needs 2 qubits but the cap is 1")
}

func TestStateJobBrokenProgramFails(t *testing.T) {
	core.ResetSetting()
	s := scWithLocalSimulator(t)
	defer s.TearDown()

	jd := core.NewJobData()
	jd.ID = "state-broken"
	jd.Program = "{broken"
	jd.JobType = STATE_JOB
	job := newStateJob(t, jd)

	job.PreProcess()
	assert.True(t, job.IsFinished())
	assert.Equal(t, core.FAILED, job.JobData().Status)
	assert.Contains(t, job.JobData().Result.Message, "failed to parse circuit program")
}

func TestStateJobSettingFromToml(t *testing.T) {
	core.ResetSetting()
	core.RegisterSetting(STATE_SETTING_KEY, map[string]interface{}{"max_state_qubits": int64(3)})
	j := (&StateJob{}).New(core.NewJobData(), nil).(*StateJob)
	assert.Equal(t, 3, j.setting.MaxStateQubits)
}
