package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"iconforge/internal/artifact"
	"iconforge/internal/config"
	"iconforge/internal/deps"
	"iconforge/internal/logging"
	"iconforge/internal/notifications"
	"iconforge/internal/pipeline"
	"iconforge/internal/revision"
	"iconforge/internal/services/bgremove"
	"iconforge/internal/services/imagegen"
	"iconforge/internal/services/textgen"
	"iconforge/internal/state"
)

// Daemon wires the state store, artifact pipeline, and HTTP API together and
// enforces single-instance execution through a file lock.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *state.Store
	artifacts *artifact.Store
	revision  *revision.Counter
	queue     *pipeline.Queue
	worker    *pipeline.Worker
	notifier  notifications.Service

	lockPath string
	lock     *flock.Flock
	api      *apiServer

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	Version      uint64
	QueueDepth   int
	StatePath    string
	LockFilePath string
	LastScan     *time.Time
	Dependencies []deps.Status
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires configuration")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("prepare directories: %w", err)
	}

	store, err := state.NewStore(cfg.StatePath(), logger)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}
	artifacts := artifact.NewStore(cfg.Paths.ArtifactsDir, cfg.Paths.IconsDir)
	rev := revision.NewCounter()
	notifier := notifications.NewService(cfg)

	tg := cfg.GetTextGen()
	textClient := textgen.NewClient(textgen.Config{
		APIKey:         tg.APIKey,
		BaseURL:        tg.BaseURL,
		Model:          tg.Model,
		Referer:        tg.Referer,
		Title:          tg.Title,
		TimeoutSeconds: tg.TimeoutSeconds,
	})
	imageClient := imagegen.NewCLI(
		imagegen.WithBinary(cfg.ImageGen.Binary),
		imagegen.WithTimeout(time.Duration(cfg.ImageGen.TimeoutSeconds)*time.Second),
	)
	bgClient := bgremove.NewCLI(
		bgremove.WithBinary(cfg.BGRemove.Binary),
		bgremove.WithTimeout(time.Duration(cfg.BGRemove.TimeoutSeconds)*time.Second),
	)

	executor := pipeline.NewExecutor(store, artifacts, rev, textClient, imageClient, bgClient, notifier, logger)
	queue := pipeline.NewQueue(cfg.Workflow.QueueCapacity, logger)
	worker := pipeline.NewWorker(queue, executor, logger,
		pipeline.WithErrorPause(time.Duration(cfg.Workflow.ErrorRetryInterval)*time.Second))

	lockPath := filepath.Join(cfg.Paths.DataDir, "iconforged.lock")
	d := &Daemon{
		cfg:       cfg,
		logger:    logger.With(logging.String(logging.FieldComponent, "daemon")),
		store:     store,
		artifacts: artifacts,
		revision:  rev,
		queue:     queue,
		worker:    worker,
		notifier:  notifier,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}
	d.api = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock and launches the worker and API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another iconforge daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.worker.Start(runCtx)
	if err := d.api.start(runCtx); err != nil {
		d.worker.Stop()
		cancel()
		d.cancel = nil
		_ = d.lock.Unlock()
		return err
	}

	d.running.Store(true)
	d.logger.Info("iconforge daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.worker.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("iconforge daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// EnqueueForIcon queues icon work for an item. It reports whether a new
// request was queued; duplicates collapse into the existing one.
func (d *Daemon) EnqueueForIcon(name string, isWebsite bool) bool {
	return d.queue.Enqueue(pipeline.Request{Name: strings.TrimSpace(name), Website: isWebsite})
}

// Items returns the visible items for the reporting surface.
func (d *Daemon) Items() ([]state.Item, error) {
	return d.store.VisibleItems()
}

// LastScan returns the most recent scan timestamp, or nil before any scan.
func (d *Daemon) LastScan() (*time.Time, error) {
	return d.store.LastScan()
}

// Websites returns all registered websites.
func (d *Daemon) Websites() ([]*state.Website, error) {
	return d.store.ListWebsites()
}

// AddWebsite registers a website entry and queues icon work for it.
func (d *Daemon) AddWebsite(name, url string) (*state.Website, error) {
	site, err := d.store.AddWebsite(strings.TrimSpace(name), strings.TrimSpace(url))
	if err != nil {
		return nil, err
	}
	d.EnqueueForIcon(site.Name, true)
	return site, nil
}

// RemoveWebsite deletes a website entry. State and artifacts for processes
// are never deleted; explicit website removal is the one destructive path.
func (d *Daemon) RemoveWebsite(name string) (bool, error) {
	return d.store.RemoveWebsite(strings.TrimSpace(name))
}

// Version returns the current change counter.
func (d *Daemon) Version() uint64 {
	return d.revision.Current()
}

// APIAddr returns the address the control API is listening on, or the
// configured bind address when the server has not started. Empty when the
// API is disabled.
func (d *Daemon) APIAddr() string {
	if d.api == nil {
		return ""
	}
	if d.api.listener != nil {
		return d.api.listener.Addr().String()
	}
	return d.api.bind
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	lastScan, err := d.store.LastScan()
	if err != nil {
		d.logger.Warn("failed to read last scan", logging.Error(err))
	}
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		Version:      d.revision.Current(),
		QueueDepth:   d.queue.Len(),
		StatePath:    d.cfg.StatePath(),
		LockFilePath: d.lockPath,
		LastScan:     lastScan,
		Dependencies: deps.CheckBinaries(deps.Requirements(d.cfg)),
	}
}
