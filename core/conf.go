package core

type Conf struct {
	Version              string `long:"version" description:"version of the simulation engine" env:"QSIM_ENGINE_VERSION"`
	DevMode              bool   `long:"dev-mode" description:"run in dev mode" env:"QSIM_ENGINE_DEV_MODE"`
	DisableStdoutLog     bool   `long:"disable-stdout-log" description:"do not log in standard output" env:"QSIM_ENGINE_DISABLE_STDOUT_LOG"`
	EnableFileLog        bool   `long:"enable-file-log" description:"enable log in file" env:"QSIM_ENGINE_ENABLE_FILE_LOG"`
	LogDir               string `long:"log-dir" description:"rotating log file dir" default:"./shares/logs" env:"QSIM_ENGINE_LOG_DIR"`
	LogLevel             string `long:"log-level" description:"log level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" env:"QSIM_ENGINE_LOG_LEVEL"`
	LogRotationMaxDays   int    `long:"log-rotation-max-days" description:"max days of log rotation" default:"7" env:"QSIM_ENGINE_LOG_ROTATION_MAX_DAYS"`
	MaxQubits            int    `long:"max-qubits" description:"max qubits of a simulated circuit" default:"20" env:"QSIM_ENGINE_MAX_QUBITS"`
	MaxShots             int    `long:"max-shots" description:"max shots of one job" default:"100000" env:"QSIM_ENGINE_MAX_SHOTS"`
	Seed                 int64  `long:"seed" description:"base RNG seed. 0 draws from the clock" env:"QSIM_ENGINE_SEED"`
	QueueMaxSize         int    `long:"queue-max-size" description:"queue max size" default:"100" env:"QSIM_ENGINE_QUEUE_MAX_SIZE"`
	QueueRefillThreshold int    `long:"queue-refill-threshold" description:"queue refill threshold" default:"10" env:"QSIM_ENGINE_QUEUE_REFILL_THRESHOLD"`
	ResultsDir           string `long:"results-dir" description:"job result file dir of the file DB" default:"./shares/results" env:"QSIM_ENGINE_RESULTS_DIR"`
	EngineSettingPath    string `long:"engine-setting-path" description:"engine setting file path" default:"./engine_setting.toml" env:"QSIM_ENGINE_ENGINE_SETTING_PATH"`
	SettingPath          string `long:"setting-path" description:"setting file path" default:"./setting/setting.toml" env:"QSIM_ENGINE_SETTING_PATH"`
}
