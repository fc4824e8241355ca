package config

const (
	defaultDataDir           = "~/.local/share/diagterm"
	defaultLogDir            = "~/.local/share/diagterm/logs"
	defaultAPIBind           = "127.0.0.1:7417"
	defaultFeedLimit         = 120
	defaultFeedPollInterval  = 2
	defaultFeedToolTimeoutMS = 1500
	defaultProcessCount      = 10
	defaultServiceLimit      = 40
	defaultCollectInterval   = 5
	defaultRunnerTimeout     = 120
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLogRetentionDays  = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Feed: Feed{
			Limit:         defaultFeedLimit,
			PollInterval:  defaultFeedPollInterval,
			ToolTimeoutMS: defaultFeedToolTimeoutMS,
		},
		Collect: Collect{
			ProcessCount: defaultProcessCount,
			ServiceLimit: defaultServiceLimit,
			Interval:     defaultCollectInterval,
		},
		Runner: Runner{
			Enabled: false,
			Timeout: defaultRunnerTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
