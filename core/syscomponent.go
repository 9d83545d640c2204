package core

import (
	"fmt"

	"go.uber.org/dig"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var systemComponents *SystemComponents

type DBChan chan Job

type Channels struct {
	DBChan
	// when more channel is needed, add here
	// would use map[string]chan Job
}

func NewChannels() *Channels {
	return &Channels{
		DBChan: make(DBChan),
	}
}

func (c *Channels) Close() {
	close(c.DBChan)
}

func (c *Channels) Check() error {
	if c.DBChan == nil {
		return fmt.Errorf("DBChan is nil")
	}
	return nil
}

// EngineInfo describes the capacity of the running simulator backend.
type EngineInfo struct {
	EngineName string       `json:"engine_name"`
	Type       string       `json:"type"`
	Status     EngineStatus `json:"status"`
	MaxQubits  int          `json:"max_qubits"`
	MaxShots   int          `json:"max_shots"`
	BaseSeed   int64        `json:"base_seed"`
}

type EngineStatus int

const (
	Available EngineStatus = iota
	Unavailable
	QueuePaused
)

func (es EngineStatus) String() string {
	switch es {
	case Available:
		return "Available"
	case Unavailable:
		return "Unavailable"
	case QueuePaused:
		return "QueuePaused"
	default:
		return "Unknown"
	}
}

type SimulatorManager interface {
	Setup(*Conf) error
	Send(Job) error
	Validate(program string) error
	GetEngineInfo() *EngineInfo
	TearDown()
}

type Scheduler interface {
	Setup(*Conf) error
	Start() error
	HandleJob(Job)
	// Queue Data Access
	GetCurrentQueueSize() int
	IsOverRefillThreshold() bool
}

type DBManager interface {
	Setup(DBChan, *Conf) error
	Insert(Job) error
	Get(string) (Job, error)
	Update(Job) error
	Delete(string) error
}

type SystemComponents struct {
	*dig.Container
	*Channels
}

func NewSystemComponents(con *dig.Container) *SystemComponents {
	return &SystemComponents{
		con,
		NewChannels(),
	}
}

func GetSystemComponents() *SystemComponents {
	return systemComponents
}

func (s *SystemComponents) Setup(conf *Conf) error {
	dbChan := s.DBChan

	zap.L().Debug("Setting up scheduler")
	var err error
	err = s.Invoke(
		func(sc Scheduler) error {
			return sc.Setup(conf)
		})
	if err != nil {
		return err
	}

	zap.L().Debug("Setting up DB")
	err = s.Invoke(
		func(d DBManager) error {
			return d.Setup(dbChan, conf)
		})
	if err != nil {
		return err
	}

	zap.L().Debug("Setting up simulator")
	err = s.Invoke(func(sm SimulatorManager) error {
		return sm.Setup(conf)
	})
	if err != nil {
		return err
	}
	systemComponents = s
	return nil
}

func (s *SystemComponents) TearDown() {
	var errs error
	errs = multierr.Append(errs, s.Invoke(
		func(sm SimulatorManager) {
			sm.TearDown()
		}))
	errs = multierr.Append(errs, s.Channels.Check())
	if errs != nil {
		zap.L().Error(fmt.Sprintf("failed to tear down system components/reason:%s", errs))
	}
	s.Channels.Close()
}

func (s *SystemComponents) StartContainer() error {
	return s.Container.Invoke(
		func(sc Scheduler) error {
			return sc.Start()
		})
}

func (s *SystemComponents) GetEngineInfo() *EngineInfo {
	var engineInfo *EngineInfo
	s.Invoke(
		func(sm SimulatorManager) error {
			engineInfo = sm.GetEngineInfo()
			return nil
		})
	return engineInfo
}

func (s *SystemComponents) GetCurrentQueueSize() int {
	var size int
	s.Invoke(
		func(sc Scheduler) {
			size = sc.GetCurrentQueueSize()
		})
	return size
}

func (s *SystemComponents) IsQueueOverRefillThreshold() bool {
	var over bool
	s.Invoke(
		func(sc Scheduler) {
			over = sc.IsOverRefillThreshold()
		})
	return over
}
