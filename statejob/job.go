package statejob

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"go.uber.org/zap"

	"github.com/qsim-lab/qsim-engine/simcore/circuit"
	"github.com/qsim-lab/qsim-engine/simcore/core"
	"github.com/qsim-lab/qsim-engine/simcore/engine"
)

const (
	STATE_JOB         = "get_state"
	STATE_SETTING_KEY = "state"

	DEFAULT_MAX_STATE_QUBITS = 14
)

// StateSetting caps how large a state a job may return. A full
// amplitude dump is 2^n pairs of floats, so the cap is much lower than
// the simulation cap.
type StateSetting struct {
	MaxStateQubits int `toml:"max_state_qubits"`
}

func NewStateSetting() StateSetting {
	return StateSetting{
		MaxStateQubits: DEFAULT_MAX_STATE_QUBITS,
	}
}

// StateJob computes the final statevector of the unitary part of a
// circuit. Measurements and conditionals are skipped, so the returned
// amplitudes describe the pure superposition before any collapse.
type StateJob struct {
	setting    StateSetting
	jobData    *core.JobData
	jobContext *core.JobContext
}

func (j *StateJob) New(jd *core.JobData, jc *core.JobContext) core.Job {
	return &StateJob{
		setting:    loadSetting(),
		jobData:    jd,
		jobContext: jc,
	}
}

func loadSetting() StateSetting {
	s, ok := core.GetComponentSetting(STATE_SETTING_KEY)
	if !ok {
		zap.L().Debug("state setting is not found")
		return NewStateSetting()
	}
	mapped, ok := s.(map[string]interface{})
	if !ok {
		zap.L().Debug("state setting is not set")
		return NewStateSetting()
	}
	setting := NewStateSetting()
	if v, ok := mapped["max_state_qubits"].(int64); ok {
		setting.MaxStateQubits = int(v)
	}
	return setting
}

func (j *StateJob) PreProcess() {
	if err := j.preProcessImpl(); err != nil {
		zap.L().Error(fmt.Sprintf("failed to pre-process a job(%s). Reason:%s",
			j.JobData().ID, err.Error()))
		core.SetFailureWithError(j, err)
		return
	}
	return
}

func (j *StateJob) preProcessImpl() (err error) {
	err = nil
	jd := j.JobData()
	container := core.GetSystemComponents().Container
	err = container.Invoke(
		func(sm core.SimulatorManager) error {
			return sm.Validate(jd.Program)
		})
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to validate a job(%s). Reason:%s", jd.ID, err.Error()))
		return
	}
	c, err := circuit.Parse(jd.Program)
	if err != nil {
		return
	}
	if c.NumQubits > j.setting.MaxStateQubits {
		err = fmt.Errorf("state dump needs %d qubits but the cap is %d",
			c.NumQubits, j.setting.MaxStateQubits)
		return
	}
	return
}

func (j *StateJob) Process() {
	jd := j.JobData()
	zap.L().Info("Starting state computation of Job ID:" + jd.ID)
	c, err := circuit.Parse(jd.Program)
	if err != nil {
		msg := core.SetFailureWithError(j, err)
		zap.L().Info(msg)
		return
	}
	start := time.Now()
	state, err := engine.GetState(c)
	if err != nil {
		msg := core.SetFailureWithError(j, err)
		zap.L().Info(msg)
		return
	}
	sv := make(core.StateVector, len(state.Amplitudes))
	for i, amp := range state.Amplitudes {
		sv[i] = [2]float64{real(amp), imag(amp)}
	}
	jd.Result.StateVector = sv
	jd.Result.Probabilities = state.Probabilities()
	jd.Result.ExecutionTime = time.Since(start)
	jd.Status = core.SUCCEEDED
	jd.Ended = strfmt.DateTime(time.Now())
	zap.L().Debug(fmt.Sprintf("finished to process a job(%s)/status:%s", jd.ID, jd.Status))
}

func (j *StateJob) PostProcess() {
	return
}

func (j *StateJob) IsFinished() bool {
	return j.JobData().Status == core.SUCCEEDED || j.JobData().Status == core.FAILED
}

func (j *StateJob) JobData() *core.JobData {
	return j.jobData
}

func (j *StateJob) JobType() string {
	return STATE_JOB
}

func (j *StateJob) JobContext() *core.JobContext {
	return j.jobContext
}

func (j *StateJob) Clone() core.Job {
	cloned := &StateJob{
		setting:    j.setting,
		jobData:    j.jobData.Clone(),
		jobContext: j.jobContext,
	}
	return cloned
}
