package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTextGen()
	c.normalizeTools()
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
	if strings.TrimSpace(c.Paths.ArtifactsDir) == "" {
		c.Paths.ArtifactsDir = filepath.Join(c.Paths.DataDir, "artifacts")
	}
	if c.Paths.ArtifactsDir, err = expandPath(c.Paths.ArtifactsDir); err != nil {
		return fmt.Errorf("paths.artifacts_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.IconsDir) == "" {
		c.Paths.IconsDir = filepath.Join(c.Paths.DataDir, "icons")
	}
	if c.Paths.IconsDir, err = expandPath(c.Paths.IconsDir); err != nil {
		return fmt.Errorf("paths.icons_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeTextGen() {
	if c.TextGen.APIKey == "" {
		if value, ok := os.LookupEnv("ICONFORGE_TEXTGEN_API_KEY"); ok {
			c.TextGen.APIKey = strings.TrimSpace(value)
		}
	}
	c.TextGen.BaseURL = strings.TrimSpace(c.TextGen.BaseURL)
	if c.TextGen.BaseURL == "" {
		c.TextGen.BaseURL = defaultTextGenBaseURL
	}
	c.TextGen.Model = strings.TrimSpace(c.TextGen.Model)
	if c.TextGen.Model == "" {
		c.TextGen.Model = defaultTextGenModel
	}
	if c.TextGen.TimeoutSeconds <= 0 {
		c.TextGen.TimeoutSeconds = defaultTextGenTimeout
	}
}

func (c *Config) normalizeTools() {
	c.ImageGen.Binary = strings.TrimSpace(c.ImageGen.Binary)
	if c.ImageGen.Binary == "" {
		c.ImageGen.Binary = defaultImageGenBinary
	}
	if c.ImageGen.TimeoutSeconds <= 0 {
		c.ImageGen.TimeoutSeconds = defaultImageGenTimeout
	}
	c.BGRemove.Binary = strings.TrimSpace(c.BGRemove.Binary)
	if c.BGRemove.Binary == "" {
		c.BGRemove.Binary = defaultBGRemoveBinary
	}
	if c.BGRemove.TimeoutSeconds <= 0 {
		c.BGRemove.TimeoutSeconds = defaultBGRemoveTimeout
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
	if c.Workflow.QueueCapacity <= 0 {
		c.Workflow.QueueCapacity = defaultQueueCapacity
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		c.Workflow.ErrorRetryInterval = defaultErrorRetryInterval
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
