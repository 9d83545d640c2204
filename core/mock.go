package core

import (
	"fmt"

	"go.uber.org/dig"
)

const MockMaxQubits int = 10
const MockMaxShots int = 10000
const validateErrorMessage string = "gate:dummy_gate is not supported"

type UnimplementedJob struct {
	jobData    *JobData
	jobContext *JobContext
}

func (j *UnimplementedJob) New(jd *JobData, jc *JobContext) Job {
	return &UnimplementedJob{
		jobData:    jd,
		jobContext: jc,
	}
}

func (j *UnimplementedJob) PreProcess() {
	return
}

func (j *UnimplementedJob) Process() {
	return
}

func (j *UnimplementedJob) PostProcess() {
	return
}

func (j *UnimplementedJob) IsFinished() bool {
	return j.JobData().Status == SUCCEEDED || j.JobData().Status == FAILED
}

func (j *UnimplementedJob) JobData() *JobData {
	return j.jobData
}

func (j *UnimplementedJob) JobType() string {
	return j.jobData.JobType
}

func (j *UnimplementedJob) JobContext() *JobContext {
	return j.jobContext
}

func (j *UnimplementedJob) Clone() Job {
	cloned := &UnimplementedJob{
		jobData:    j.jobData.Clone(),
		jobContext: j.jobContext,
	}
	return cloned
}

type UnimplementedSimulator struct{}

func (u *UnimplementedSimulator) Setup(*Conf) error {
	return nil
}

func (u *UnimplementedSimulator) Send(Job) error {
	return nil
}

func (u *UnimplementedSimulator) Validate(string) error {
	return nil
}

func (u *UnimplementedSimulator) GetEngineInfo() *EngineInfo {
	return &EngineInfo{
		EngineName: "unimplementedSimulator",
		Type:       "statevector",
		Status:     Available,
		MaxQubits:  MockMaxQubits,
		MaxShots:   MockMaxShots,
	}
}

func (u *UnimplementedSimulator) TearDown() {}

type validateErrorSimulatorForTest struct {
	UnimplementedSimulator
}

func (validateErrorSimulatorForTest) Validate(string) error {
	return fmt.Errorf(validateErrorMessage)
}

type successSimulatorForTest struct {
	UnimplementedSimulator
}

func (successSimulatorForTest) Send(j Job) error {
	j.JobData().Status = SUCCEEDED
	return nil
}

type unimplementedDB struct{}

func (u *unimplementedDB) Setup(DBChan, *Conf) error { return nil }
func (u *unimplementedDB) Insert(Job) error          { return nil }
func (u *unimplementedDB) Get(jobID string) (Job, error) {
	return &NormalJob{}, nil
}
func (u *unimplementedDB) Update(Job) error    { return nil }
func (u *unimplementedDB) Delete(string) error { return nil }

type successDBForTest struct {
	unimplementedDB
}

func (successDBForTest) Get(jobID string) (Job, error) {
	return &NormalJob{
		jobData: &JobData{
			ID:     jobID,
			Status: RUNNING,
		},
	}, nil
}

type notFindDBForTest struct {
	unimplementedDB
}

func (notFindDBForTest) Get(jobID string) (Job, error) {
	return &NormalJob{}, fmt.Errorf("failed to find %s", jobID)
}

type unimplementedScheduler struct{}

func (u *unimplementedScheduler) Setup(*Conf) error           { return nil }
func (u *unimplementedScheduler) Start() error                { return nil }
func (u *unimplementedScheduler) HandleJob(_ Job)             { return }
func (u *unimplementedScheduler) GetCurrentQueueSize() int    { return 0 }
func (u *unimplementedScheduler) IsOverRefillThreshold() bool { return false }

func SCWithUnimplementedContainer() *SystemComponents {
	c := dig.New()
	c.Provide(func() SimulatorManager { return &successSimulatorForTest{} })
	c.Provide(func() DBManager {
		db := &successDBForTest{}
		db.Setup(nil, &Conf{})
		return db
	})
	c.Provide(func() Scheduler { return &unimplementedScheduler{} })
	s := NewSystemComponents(c)
	s.Setup(&Conf{})
	return s
}

func SCWithValidateErrorContainer() *SystemComponents {
	c := dig.New()
	c.Provide(func() SimulatorManager { return &validateErrorSimulatorForTest{} })
	c.Provide(func() DBManager {
		db := &successDBForTest{}
		db.Setup(nil, &Conf{})
		return db
	})
	c.Provide(func() Scheduler { return &unimplementedScheduler{} })
	s := NewSystemComponents(c)
	s.Setup(&Conf{})
	return s
}

func SCWithDBContainer() *SystemComponents {
	c := dig.New()
	c.Provide(func() SimulatorManager { return &successSimulatorForTest{} })
	c.Provide(func() DBManager { return &MemoryDB{} })
	c.Provide(func() Scheduler { return &unimplementedScheduler{} })
	s := NewSystemComponents(c)
	s.Setup(&Conf{})
	return s
}

func SCWithScheduler(sc Scheduler) *SystemComponents {
	c := dig.New()
	c.Provide(func() SimulatorManager { return &successSimulatorForTest{} })
	c.Provide(func() DBManager { return &MemoryDB{} })
	c.Provide(func() Scheduler { return sc })
	s := NewSystemComponents(c)
	s.Setup(&Conf{QueueMaxSize: 1000})
	return s
}
