package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.ArtifactsDir == "" {
		return errors.New("paths.artifacts_dir must be set")
	}
	if c.Paths.IconsDir == "" {
		return errors.New("paths.icons_dir must be set")
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.ImageGen.Binary == "" {
		return errors.New("imagegen.binary must be set")
	}
	if c.BGRemove.Binary == "" {
		return errors.New("bgremove.binary must be set")
	}
	if c.ImageGen.TimeoutSeconds <= 0 {
		return errors.New("imagegen.timeout_seconds must be positive")
	}
	if c.BGRemove.TimeoutSeconds <= 0 {
		return errors.New("bgremove.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.QueueCapacity <= 0 {
		return errors.New("workflow.queue_capacity must be positive")
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		return errors.New("workflow.error_retry_interval must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
