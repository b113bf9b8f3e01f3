package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateConverter(); err != nil {
		return err
	}
	if err := c.validateParse(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.IndexPath) == "" {
		return errors.New("paths.index_path must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateConverter() error {
	if !c.Converter.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Converter.Binary) == "" {
		return errors.New("converter.binary must be set when converter.enabled is true")
	}
	if c.Converter.TimeoutSeconds < 0 {
		return errors.New("converter.timeout_seconds must be >= 0 (0 disables the deadline)")
	}
	return nil
}

func (c *Config) validateParse() error {
	if c.Parse.Concurrency <= 0 {
		return errors.New("parse.concurrency must be positive")
	}
	switch c.Parse.RecordedByTarget {
	case RecordedByRecording, RecordedByRecordedBy:
	default:
		return fmt.Errorf("parse.recorded_by_target must be %q or %q, got %q",
			RecordedByRecording, RecordedByRecordedBy, c.Parse.RecordedByTarget)
	}
	if c.Watch.SettleSeconds < 0 {
		return errors.New("watch.settle_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
