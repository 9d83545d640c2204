package sampling

import (
	"fmt"

	"github.com/qsim-lab/qsim-engine/simcore/core"
	"go.uber.org/zap"
)

const (
	SAMPLING_JOB         = "sampling"
	SAMPLING_SETTING_KEY = "sampling"

	DEFAULT_MAX_RECORDED_SHOTS = 10000
)

// SamplingSetting bounds what a finished job keeps. Per-shot records
// are the bulky part of a result, so the retention cap is configurable
// per deployment.
type SamplingSetting struct {
	MaxRecordedShots int `toml:"max_recorded_shots"`
}

func NewSamplingSetting() SamplingSetting {
	return SamplingSetting{
		MaxRecordedShots: DEFAULT_MAX_RECORDED_SHOTS,
	}
}

type SamplingJob struct {
	setting    SamplingSetting
	trimmed    bool
	jobData    *core.JobData
	jobContext *core.JobContext
}

func (j *SamplingJob) New(jd *core.JobData, jc *core.JobContext) core.Job {
	return &SamplingJob{
		setting:    loadSetting(),
		jobData:    jd,
		jobContext: jc,
	}
}

func loadSetting() SamplingSetting {
	s, ok := core.GetComponentSetting(SAMPLING_SETTING_KEY)
	if !ok {
		zap.L().Debug("sampling setting is not found")
		return NewSamplingSetting()
	}
	mapped, ok := s.(map[string]interface{})
	if !ok {
		zap.L().Debug("sampling setting is not set")
		return NewSamplingSetting()
	}
	setting := NewSamplingSetting()
	if v, ok := mapped["max_recorded_shots"].(int64); ok {
		setting.MaxRecordedShots = int(v)
	}
	return setting
}

func (j *SamplingJob) PreProcess() {
	if err := j.preProcessImpl(); err != nil {
		zap.L().Error(fmt.Sprintf("failed to pre-process a job(%s). Reason:%s",
			j.JobData().ID, err.Error()))
		core.SetFailureWithError(j, err)
		return
	}
	return
}

func (j *SamplingJob) preProcessImpl() (err error) {
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
	return
}

func (j *SamplingJob) Process() {
	c := core.GetSystemComponents().Container
	err := c.Invoke(
		func(sm core.SimulatorManager) error {
			return sm.Send(j)
		})
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to send a job(%s) to the simulator. Reason:%s", j.JobData().ID, err.Error()))
		j.JobData().Status = core.FAILED
	}
	zap.L().Debug(fmt.Sprintf("finished to process a job(%s)/status:%s", j.JobData().ID, j.JobData().Status))
}

// PostProcess trims the per-shot records to the configured cap. Counts
// and probabilities are unaffected.
func (j *SamplingJob) PostProcess() {
	jd := j.JobData()
	if len(jd.Result.ShotRecords) > j.setting.MaxRecordedShots {
		zap.L().Debug(fmt.Sprintf("trimming shot records of job(%s) from %d to %d",
			jd.ID, len(jd.Result.ShotRecords), j.setting.MaxRecordedShots))
		jd.Result.ShotRecords = jd.Result.ShotRecords[:j.setting.MaxRecordedShots]
	}
	j.trimmed = true
	return
}

func (j *SamplingJob) IsFinished() bool {
	if j.JobData().Status == core.FAILED {
		return true
	}
	if j.JobData().Status != core.SUCCEEDED {
		return false
	}
	// a succeeded job is done once retention ran
	return j.trimmed || len(j.JobData().Result.ShotRecords) <= j.setting.MaxRecordedShots
}

func (j *SamplingJob) JobData() *core.JobData {
	return j.jobData
}

func (j *SamplingJob) JobType() string {
	return SAMPLING_JOB
}

func (j *SamplingJob) JobContext() *core.JobContext {
	return j.jobContext
}

func (j *SamplingJob) UpdateJobData(jd *core.JobData) {
	j.jobData = jd
}

func (j *SamplingJob) Clone() core.Job {
	cloned := &SamplingJob{
		setting:    j.setting,
		trimmed:    j.trimmed,
		jobData:    j.jobData.Clone(),
		jobContext: j.jobContext,
	}
	return cloned
}
