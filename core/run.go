package core

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/oklog/run"
	"github.com/qsim-lab/qsim-engine/simcore/common"
	"go.uber.org/zap"
)

var runContext *RunContext

const PERIODIC_TASKS = "periodic_tasks"

type PeriodicTaskImplMap map[string]PeriodicTaskImpl
type PeriodicTaskMap map[string]*PeriodicTask

type ImplMaps struct {
	PeriodicTaskImplMap PeriodicTaskImplMap
}

type RunnerImpl interface {
	GetEmptyParams() interface{}
	SetParams(interface{}) error
	Setup() error
}

type RunContext struct {
	*run.Group
	context.Context

	settingsPath string

	RunGroupMaps *RunGroupMaps `toml:"run_group,omitempty"`
}

type RungroupSetting struct {
	Entries map[string]interface{} `toml:"run_group,omitempty"`
}

func NewGroupSettings() *RungroupSetting {
	return &RungroupSetting{
		Entries: make(map[string]interface{}),
	}
}

type RunGroupMaps struct {
	PeriodicTasks PeriodicTaskMap `toml:"periodic_tasks"`
}

func NewRunContext() *RunContext {
	return &RunContext{
		Group:   &run.Group{},
		Context: context.Background(),
		RunGroupMaps: &RunGroupMaps{
			PeriodicTasks: make(PeriodicTaskMap),
		},
	}
}

// NewRunContextWithSettingPath decodes the run_group table of the
// setting file into periodic tasks. Decoding happens in two passes
// because TOML cannot decode into the task implementations directly:
// first resolve which implementations are named, then decode the
// periods and parameters, then hand each implementation its parameters
// and add it to the run group.
func NewRunContextWithSettingPath(settingsPath string, im *ImplMaps) (*RunContext, error) {
	tomlString, err := common.ReadSettingsFile(settingsPath)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read settings file/reason:%s", err))
		return nil, err
	}
	s := NewGroupSettings()
	if metadata, err := toml.Decode(tomlString, s); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to decode settings file. Reason:%s. Metadata:%v",
			err, metadata))
		return nil, err
	}
	runGroupMaps, err := parseRunGroupSettings(s.Entries, im)
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to parse run group settings. Reason:%s", err))
		return nil, err
	}
	rc := &RunContext{
		Group:        &run.Group{},
		Context:      context.Background(),
		settingsPath: settingsPath,
		RunGroupMaps: runGroupMaps,
	}
	tmpImplMap := make(map[string]PeriodicTaskImpl)
	for taskName, task := range rc.RunGroupMaps.PeriodicTasks {
		tmpImplMap[taskName] = task.PeriodicTaskImpl
	}
	if metadata, err := toml.Decode(tomlString, rc); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to decode settings file. Reason:%s. Metadata:%v",
			err, metadata))
		return nil, err
	}
	for taskName, task := range rc.RunGroupMaps.PeriodicTasks {
		task.PeriodicTaskImpl = tmpImplMap[taskName]
	}
	for name, task := range rc.RunGroupMaps.PeriodicTasks {
		if err := task.PeriodicTaskImpl.SetParams(task.Params); err != nil {
			zap.L().Error(fmt.Sprintf("failed to set parameters to Impl/name:%s/reason:%s",
				name, err.Error()))
			return nil, err
		}
		if err := task.PeriodicTaskImpl.Setup(); err != nil {
			zap.L().Error(fmt.Sprintf("failed to setup/name:%s/reason:%s", name, err.Error()))
			return nil, err
		}
		if err := rc.AddPeriodicTask(task, name); err != nil {
			zap.L().Error(fmt.Sprintf("failed to add runner/name:%s/reason:%s", name, err))
			return nil, err
		}
		zap.L().Info(fmt.Sprintf("successfully added runner/name:%s", name))
	}
	zap.L().Info("Successfully initialized RunContext. RunGroupMaps:", zap.Any("RunGroupMaps", rc.RunGroupMaps))
	return rc, nil
}

func parseRunGroupSettings(settings map[string]interface{}, im *ImplMaps) (*RunGroupMaps, error) {
	rgm := &RunGroupMaps{
		PeriodicTasks: make(PeriodicTaskMap),
	}
	for group, value := range settings {
		switch group {
		case PERIODIC_TASKS:
			zap.L().Debug(fmt.Sprintf("PeriodicTasks: %v", value))
			taskSettings, ok := value.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("periodic_tasks is not a table. Value:%v", value)
			}
			for taskName := range taskSettings {
				impl, ok := im.PeriodicTaskImplMap[taskName]
				if !ok {
					msg := fmt.Sprintf("failed to find %s implementation from %v",
						taskName, im.PeriodicTaskImplMap)
					zap.L().Error(msg)
					return nil, fmt.Errorf(msg)
				}
				rgm.PeriodicTasks[taskName] = &PeriodicTask{PeriodicTaskImpl: impl}
			}
		default:
			msg := fmt.Sprintf("Unknown run group type. Group:%s, Value:%v", group, value)
			zap.L().Error(msg)
			return nil, fmt.Errorf(msg)
		}
	}
	zap.L().Debug("Successfully parsed run group settings.", zap.Any("RunGroupMaps", rgm))
	return rgm, nil
}

func GetRunContext() *RunContext {
	return runContext
}

func SetRunContext(rc *RunContext) {
	runContext = rc
}

type PeriodicTask struct {
	Period time.Duration `toml:"period"`
	Params interface{}   `toml:"params,omitempty"`
	PeriodicTaskImpl
}

func (t *PeriodicTask) GetParams() interface{} {
	return t.Params
}

type PeriodicTaskImpl interface {
	RunnerImpl
	RequirePeriodUpdate() (ok bool, duration time.Duration)
	Task()
	Cleanup()
}

type DefaultTaskImpl struct{}

func (v *DefaultTaskImpl) Setup() error {
	return nil
}

func (v *DefaultTaskImpl) GetEmptyParams() interface{} {
	return v
}

func (v *DefaultTaskImpl) SetParams(p interface{}) error {
	return nil
}

func (v *DefaultTaskImpl) RequirePeriodUpdate() (bool, time.Duration) {
	return false, 0
}

func (v *DefaultTaskImpl) Task() {}

func (v *DefaultTaskImpl) Cleanup() {}

func (rc *RunContext) AddPeriodicTask(t *PeriodicTask, taskName string) error {
	ctx, cancel := context.WithCancel(rc.Context)
	lastPeriod := t.Period
	rc.Group.Add(
		func() error {
			ticker := time.NewTicker(t.Period)
			zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/Start]", taskName))
			t.PeriodicTaskImpl.Task()
			for {
				select {
				case <-ctx.Done():
					zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]Cleaning up periodic task", taskName))
					ticker.Stop()
					t.PeriodicTaskImpl.Cleanup()
					zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]Cleaned up periodic task", taskName))
					return ctx.Err()
				case <-ticker.C:
					t.PeriodicTaskImpl.Task()
					ok, newPeriod := t.RequirePeriodUpdate()
					if ok && newPeriod != lastPeriod {
						zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/ResetPeriod]Resetting periodic task. from %v to %v",
							taskName, lastPeriod, newPeriod))
						ticker.Reset(newPeriod)
						lastPeriod = newPeriod
					}
				}
			}
		},
		func(error) {
			zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]Cancelling periodic task", taskName))
			cancel()
			zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]Canceled periodic task", taskName))
		},
	)
	return nil
}
