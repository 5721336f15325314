package main

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"iconforge/internal/api"
	"iconforge/internal/config"
)

type commandContext struct {
	bindFlag   *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(bindFlag, configFlag *string) *commandContext {
	return &commandContext{
		bindFlag:   bindFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) apiBind() string {
	if c.bindFlag != nil && strings.TrimSpace(*c.bindFlag) != "" {
		return strings.TrimSpace(*c.bindFlag)
	}
	if cfg := c.configValue(); cfg != nil && strings.TrimSpace(cfg.Paths.APIBind) != "" {
		return strings.TrimSpace(cfg.Paths.APIBind)
	}
	return "127.0.0.1:7423"
}

func (c *commandContext) withClient(fn func(*api.Client) error) error {
	bind := c.apiBind()
	if err := fn(api.NewClient(bind)); err != nil {
		return wrapDaemonError(err, bind)
	}
	return nil
}

func wrapDaemonError(err error, bind string) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("connect to daemon at %s: connection refused; start the daemon with `iconforged`", bind)
	}
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
