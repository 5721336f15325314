// Command iconforged runs the icon generation daemon: it owns the state
// store, processes queued icon work, and serves the HTTP control API.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"iconforge/internal/config"
	"iconforge/internal/daemon"
	"iconforge/internal/logging"
	"iconforge/internal/preflight"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	for _, result := range preflight.RunAll(ctx, cfg) {
		if result.Passed {
			logger.Info("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
			continue
		}
		logger.Warn("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail))
	}

	d, err := daemon.New(cfg, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("iconforged shutting down")
	d.Stop()
}
