package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFeed(); err != nil {
		return err
	}
	if err := c.validateCollect(); err != nil {
		return err
	}
	if err := c.validateRunner(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		return errors.New("paths.api_bind must be set")
	}
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind must be host:port: %w", err)
	}
	return nil
}

func (c *Config) validateFeed() error {
	if err := ensurePositiveMap(map[string]int{
		"feed.limit":           c.Feed.Limit,
		"feed.poll_interval":   c.Feed.PollInterval,
		"feed.tool_timeout_ms": c.Feed.ToolTimeoutMS,
	}); err != nil {
		return err
	}
	if c.Feed.Limit > 5000 {
		return errors.New("feed.limit must be at most 5000")
	}
	return nil
}

func (c *Config) validateCollect() error {
	return ensurePositiveMap(map[string]int{
		"collect.process_count": c.Collect.ProcessCount,
		"collect.service_limit": c.Collect.ServiceLimit,
		"collect.interval":      c.Collect.Interval,
	})
}

func (c *Config) validateRunner() error {
	if c.Runner.Timeout <= 0 {
		return errors.New("runner.timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
