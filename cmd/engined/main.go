package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/massn/envordot"
	"github.com/oklog/run"

	"github.com/qsim-lab/qsim-engine/simcore/core"
	"github.com/qsim-lab/qsim-engine/simcore/db"
	"github.com/qsim-lab/qsim-engine/simcore/log"
	"github.com/qsim-lab/qsim-engine/simcore/poller"
	"github.com/qsim-lab/qsim-engine/simcore/sampling"
	"github.com/qsim-lab/qsim-engine/simcore/scheduler"
	"github.com/qsim-lab/qsim-engine/simcore/simulator"
	"github.com/qsim-lab/qsim-engine/simcore/statejob"

	"go.uber.org/dig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	rotate "github.com/lestrrat-go/file-rotatelogs"
)

var versionByBuildFlag string
var parser *flags.Parser
var engine *Engine

func init() {
	if err := envordot.Load(false, ".env"); err != nil {
		fmt.Printf("Not found \".env\" file. Use only environment variables. Reason:%s\n", err.Error())
	} else {
		fmt.Println("Found \".env\" file. Environment variables are preferred, " +
			"but non-conflicting variables are those in the \".env\" file.")
	}
	engine = &Engine{}
	setParser(engine)
}

type Engine struct {
	DIContainerParameters *DIContainerParameters
	Conf                  *core.Conf
}

type DIContainerParameters struct {
	DBManager string `long:"db" description:"db" default:"memory" choice:"memory" choice:"file" env:"QSIM_ENGINE_DB_MANAGER_TYPE"`
	Simulator string `long:"simulator" description:"simulator-type" default:"local" choice:"local" env:"QSIM_ENGINE_SIMULATOR_TYPE"`
	Scheduler string `long:"scheduler" description:"scheduler-type" default:"normal" env:"QSIM_ENGINE_SCHEDULER_TYPE"`
}

func setParser(engine *Engine) {
	parser = flags.NewParser(engine, flags.Default)
	parser.ShortDescription = "qsim engine"
	parser.LongDescription = "the statevector simulation engine of the qsim stack."
	parser.AddCommand("serve", "start the engine", "start picking up and simulating jobs", newServeCmd())
}

func parse() {
	if _, err := parser.Parse(); err != nil {
		code := 1
		if fe, ok := err.(*flags.Error); ok {
			if fe.Type == flags.ErrHelp {
				code = 0
			}
		}
		if code == 1 {
			fmt.Printf("failed to parse flags, because %s\n", err)
		}
		os.Exit(code)
	}
}

func (e *Engine) provideDIContainer() (c *dig.Container, err error) {
	c = dig.New()
	err = nil
	err = c.Provide(func() (core.SimulatorManager, error) {
		switch e.DIContainerParameters.Simulator {
		case "local":
			return &simulator.LocalSimulator{}, nil
		default:
			return &simulator.LocalSimulator{}, fmt.Errorf("%s is an unknown simulator", e.DIContainerParameters.Simulator)
		}
	})
	if err != nil {
		return &dig.Container{}, err
	}
	err = c.Provide(func() core.Scheduler { return &scheduler.NormalScheduler{} })
	if err != nil {
		return &dig.Container{}, err
	}
	err = c.Provide(func() (core.DBManager, error) {
		switch e.DIContainerParameters.DBManager {
		case "memory":
			return &core.MemoryDB{}, nil
		case "file":
			return &db.FileDB{}, nil
		default:
			return &core.MemoryDB{}, fmt.Errorf("%s is an unknown DB", e.DIContainerParameters.DBManager)
		}
	})
	if err != nil {
		return &dig.Container{}, err
	}
	return
}

func (e *Engine) startCore(conf *core.Conf) error {
	core.NewJobManager(
		&core.NormalJob{},
		&sampling.SamplingJob{},
		&statejob.StateJob{},
	)
	err := core.GetSystemComponents().StartContainer()
	if err != nil {
		return err
	}
	core.SetInfo(conf)
	return nil
}

func zapLogger(conf *core.Conf) (*zap.Logger, error) {
	var encoder zapcore.Encoder
	if conf.DevMode {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		c := zap.NewProductionEncoderConfig()
		c.EncodeTime = zapcore.ISO8601TimeEncoder //Not use UnixTime
		c.TimeKey = "timestamp"
		encoder = zapcore.NewJSONEncoder(c)
	}
	var level zap.AtomicLevel
	switch conf.LogLevel {
	case "debug":
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	cores := []zapcore.Core{}
	if conf.EnableFileLog {
		rotater, err := makeRotator(conf.LogDir, conf.LogRotationMaxDays)
		if err != nil {
			return &zap.Logger{}, err
		}
		syncer := zapcore.AddSync(rotater)
		rotateCore := zapcore.NewCore(
			encoder,
			syncer,
			level)
		cores = append(cores, rotateCore)
	}
	if !conf.DisableStdoutLog {
		debugCore := zapcore.NewCore(
			encoder,
			zapcore.Lock(os.Stdout),
			level)
		cores = append(cores, debugCore)
	}
	core := zapcore.NewTee(cores...)
	return zap.New(core, zap.AddCaller()), nil
}

func makeRotator(dirPath string, rotationMaxDays int) (*rotate.RotateLogs, error) {
	info, err := os.Stat(dirPath)
	if err != nil {
		return &rotate.RotateLogs{}, fmt.Errorf("directory:%s is not found", dirPath)
	}
	if info.Mode().Perm()&(1<<uint(7)) == 0 {
		return &rotate.RotateLogs{}, fmt.Errorf("%s is not a writable directory", dirPath)
	}
	rotator, err := rotate.New(
		filepath.Join(dirPath, "qsimengine-%Y-%m-%d.log"),
		rotate.WithMaxAge(time.Duration(rotationMaxDays)*24*time.Hour),
		rotate.WithRotationTime(time.Hour))
	if err != nil {
		return &rotate.RotateLogs{}, err
	}
	return rotator, nil
}

func main() {
	parse()
}

type serveCmd struct{}

func newServeCmd() *serveCmd {
	return &serveCmd{}
}

func (c *serveCmd) Execute(args []string) error {
	logger := setZap(engine.Conf)
	defer logger.Sync()

	core.ResetSetting()
	registerSetting()
	zap.L().Debug("Registered setting")
	if err := core.ParseSettingFromPath(engine.Conf.SettingPath); err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse settings/reason:%s", err))
		return err
	}

	s := setupSystemComponents(engine.Conf)
	defer s.TearDown()

	im := &core.ImplMaps{
		PeriodicTaskImplMap: core.PeriodicTaskImplMap{
			poller.PollerTaskName:  &poller.Poller{},
			log.VersionLogTaskName: &log.VersionLogTaskImpl{},
			log.MetricsLogTaskName: &log.MetricsLogTaskImpl{},
		},
	}
	rc, err := core.NewRunContextWithSettingPath(engine.Conf.SettingPath, im)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to setup run context/reason:%s", err.Error()))
		return err
	}

	engine.startCore(engine.Conf)

	zap.L().Debug("Setting up run-group")
	if err := c.setupRunGroup(rc); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setup run group. Reason:%s", err))
		return err
	}

	if err := rc.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "execution error:%v\n", err)
		os.Exit(1)
	}

	return nil
}

func (c *serveCmd) setupRunGroup(rc *core.RunContext) error {
	rc.Add(
		run.SignalHandler(
			rc.Context,
			os.Interrupt))
	core.SetRunContext(rc)
	return nil
}

func setZap(conf *core.Conf) *zap.Logger {
	logger, err := zapLogger(conf)
	if err != nil {
		fmt.Printf("Failed to setup logger. Reason:%s\n", err)
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	zap.L().Info("Starting logger")
	zap.L().Info(fmt.Sprintf("DevMode is %t", conf.DevMode))
	zap.L().Info(fmt.Sprintf("Log rotation max days is %d", conf.LogRotationMaxDays))
	return logger
}

func setupSystemComponents(conf *core.Conf) *core.SystemComponents {
	core.SetVersion(conf, versionByBuildFlag)
	zap.L().Debug(fmt.Sprintf("Providing DI Container with parameters %+v", engine.DIContainerParameters))

	container, err := engine.provideDIContainer()
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setting up DI-Container. Reason:%s", err.Error()))
		panic(err)
	}
	zap.L().Debug("Setting up System Components")
	s := core.NewSystemComponents(container)
	if err := s.Setup(conf); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setting up Container. Reason:%s", err.Error()))
		panic(err)
	}
	return s
}

func registerSetting() {
	core.RegisterSetting(sampling.SAMPLING_SETTING_KEY, sampling.NewSamplingSetting())
	core.RegisterSetting(statejob.STATE_SETTING_KEY, statejob.NewStateSetting())
}
