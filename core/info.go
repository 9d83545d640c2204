package core

type NonSecretConf struct {
	DevMode              bool
	DisableStdoutLog     bool
	EnableFileLog        bool
	LogDir               string
	LogLevel             string
	LogRotationMaxDays   int
	MaxQubits            int
	MaxShots             int
	QueueMaxSize         int
	QueueRefillThreshold int
	ResultsDir           string
	EngineSettingPath    string
}

type Info struct {
	Conf *NonSecretConf
}

var CurrentInfo *Info

func SetInfo(c *Conf) {
	conf := &NonSecretConf{
		DevMode:              c.DevMode,
		DisableStdoutLog:     c.DisableStdoutLog,
		EnableFileLog:        c.EnableFileLog,
		LogDir:               c.LogDir,
		LogLevel:             c.LogLevel,
		LogRotationMaxDays:   c.LogRotationMaxDays,
		MaxQubits:            c.MaxQubits,
		MaxShots:             c.MaxShots,
		QueueMaxSize:         c.QueueMaxSize,
		QueueRefillThreshold: c.QueueRefillThreshold,
		ResultsDir:           c.ResultsDir,
		EngineSettingPath:    c.EngineSettingPath,
	}

	CurrentInfo = &Info{
		Conf: conf,
	}
}
