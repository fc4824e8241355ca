package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFeed()
	c.normalizeCollect()
	c.normalizeRunner()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv("DIAGTERM_API_TOKEN"); ok {
			c.Paths.APIToken = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeFeed() {
	if c.Feed.Limit <= 0 {
		c.Feed.Limit = defaultFeedLimit
	}
	if c.Feed.PollInterval <= 0 {
		c.Feed.PollInterval = defaultFeedPollInterval
	}
	if c.Feed.ToolTimeoutMS <= 0 {
		c.Feed.ToolTimeoutMS = defaultFeedToolTimeoutMS
	}
	c.Feed.JournalBinary = strings.TrimSpace(c.Feed.JournalBinary)
	c.Feed.DmesgBinary = strings.TrimSpace(c.Feed.DmesgBinary)
}

func (c *Config) normalizeCollect() {
	if c.Collect.ProcessCount <= 0 {
		c.Collect.ProcessCount = defaultProcessCount
	}
	if c.Collect.ServiceLimit <= 0 {
		c.Collect.ServiceLimit = defaultServiceLimit
	}
	if c.Collect.Interval <= 0 {
		c.Collect.Interval = defaultCollectInterval
	}
}

func (c *Config) normalizeRunner() {
	if c.Runner.Timeout <= 0 {
		c.Runner.Timeout = defaultRunnerTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
