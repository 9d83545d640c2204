package simulator

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-openapi/strfmt"
	"go.uber.org/zap"

	"github.com/qsim-lab/qsim-engine/simcore/circuit"
	"github.com/qsim-lab/qsim-engine/simcore/core"
	"github.com/qsim-lab/qsim-engine/simcore/engine"
)

// LocalSimulator runs circuits in-process on a statevector backend. It
// plays the backend role of the system: jobs are handed to Send, the
// result lands in the job data and is pushed to the DB channel by the
// scheduler loop.
type LocalSimulator struct {
	setting    *EngineSetting
	engineInfo *core.EngineInfo

	mu  sync.Mutex
	rng *rand.Rand
}

func (s *LocalSimulator) Setup(conf *core.Conf) error {
	zap.L().Debug("setting up the local simulator")
	es, err := LoadEngineSetting(conf.EngineSettingPath)
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to load an engine setting. Reason:%s", err))
		return err
	}
	if conf.MaxQubits > 0 {
		es.MaxQubits = conf.MaxQubits
	}
	if conf.MaxShots > 0 {
		es.MaxShots = conf.MaxShots
	}
	if conf.Seed != 0 {
		es.Seed = conf.Seed
	}
	if es.Seed == 0 {
		es.Seed = time.Now().UnixNano()
	}
	s.setting = es
	s.rng = rand.New(rand.NewSource(es.Seed))
	s.engineInfo = &core.EngineInfo{
		EngineName: es.EngineName,
		Type:       "statevector",
		Status:     core.Available,
		MaxQubits:  es.MaxQubits,
		MaxShots:   es.MaxShots,
		BaseSeed:   es.Seed,
	}
	zap.L().Debug(fmt.Sprintf("local simulator is ready/max_qubits:%d/max_shots:%d/base_seed:%d",
		es.MaxQubits, es.MaxShots, es.Seed))
	return nil
}

// Validate checks a program before it is queued: it must parse, pass
// the structural checks and fit in the qubit cap. The execution path
// relies on this and does not re-validate per shot.
func (s *LocalSimulator) Validate(program string) error {
	c, err := circuit.Parse(program)
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if c.NumQubits > s.setting.MaxQubits {
		return errors.Errorf("circuit needs %d qubits but the engine caps at %d",
			c.NumQubits, s.setting.MaxQubits)
	}
	return nil
}

func (s *LocalSimulator) Send(j core.Job) error {
	jd := j.JobData()
	zap.L().Info("Starting local simulation of Job ID:" + jd.ID)

	c, err := circuit.Parse(jd.Program)
	if err != nil {
		msg := core.SetFailureWithError(j, err)
		zap.L().Info(msg)
		return err
	}
	start := time.Now()
	result, err := engine.Run(c, jd.Shots, s.jobRNG(jd))
	if err != nil {
		msg := core.SetFailureWithError(j, err)
		zap.L().Info(msg)
		return err
	}
	fillJobResult(jd, result)
	jd.Status = core.SUCCEEDED
	jd.Result.ExecutionTime = time.Since(start)
	jd.Ended = strfmt.DateTime(time.Now())
	zap.L().Debug(fmt.Sprintf("Job ID:%s is processed/status: %s", jd.ID, jd.Status))
	return nil
}

func (s *LocalSimulator) GetEngineInfo() *core.EngineInfo {
	return s.engineInfo
}

func (s *LocalSimulator) TearDown() {}

// jobRNG gives each job its own random stream. A job with an explicit
// seed replays identically; otherwise the stream is derived from the
// engine's base source.
func (s *LocalSimulator) jobRNG(jd *core.JobData) *rand.Rand {
	if jd.Seed != nil {
		return rand.New(rand.NewSource(*jd.Seed))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return rand.New(rand.NewSource(s.rng.Int63()))
}

func fillJobResult(jd *core.JobData, result *engine.Result) {
	counts := make(core.Counts)
	for record, n := range result.Counts {
		counts[record] = uint32(n)
	}
	jd.Result.Counts = counts
	jd.Result.Probabilities = result.Probabilities
	jd.Result.ShotRecords = result.ShotOutcomes
}
