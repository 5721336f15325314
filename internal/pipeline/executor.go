package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"iconforge/internal/artifact"
	"iconforge/internal/logging"
	"iconforge/internal/notifications"
	"iconforge/internal/revision"
	"iconforge/internal/services"
	"iconforge/internal/services/bgremove"
	"iconforge/internal/services/imagegen"
	"iconforge/internal/services/textgen"
	"iconforge/internal/state"
)

const (
	iconWidth  = 128
	iconHeight = 128

	homepageFetchTimeout = 10 * time.Second
)

// TextGenerator is the slice of the text service the executor needs.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string, opts ...textgen.RequestOption) (string, error)
}

// Executor brings one item's artifact chain up to date, stage by stage, and
// records progress in the state store. Stage failures are recorded and
// swallowed; Run never fails its caller.
type Executor struct {
	store     *state.Store
	artifacts *artifact.Store
	revision  *revision.Counter
	textGen   TextGenerator
	imageGen  imagegen.Client
	bgRemove  bgremove.Client
	notifier  notifications.Service
	logger    *slog.Logger

	homepageClient *http.Client
}

// ExecutorOption customizes the executor.
type ExecutorOption func(*Executor)

// WithHomepageClient overrides the HTTP client used to fetch process
// homepages during the summary stage.
func WithHomepageClient(client *http.Client) ExecutorOption {
	return func(e *Executor) {
		if client != nil {
			e.homepageClient = client
		}
	}
}

// NewExecutor constructs an executor over the given collaborators.
func NewExecutor(
	store *state.Store,
	artifacts *artifact.Store,
	rev *revision.Counter,
	textGen TextGenerator,
	imageGen imagegen.Client,
	bgRemove bgremove.Client,
	notifier notifications.Service,
	logger *slog.Logger,
	opts ...ExecutorOption,
) *Executor {
	if logger == nil {
		logger = logging.NewNop()
	}
	exec := &Executor{
		store:          store,
		artifacts:      artifacts,
		revision:       rev,
		textGen:        textGen,
		imageGen:       imageGen,
		bgRemove:       bgRemove,
		notifier:       notifier,
		logger:         logger.With(logging.String(logging.FieldComponent, "pipeline")),
		homepageClient: &http.Client{Timeout: homepageFetchTimeout},
	}
	for _, opt := range opts {
		opt(exec)
	}
	return exec
}

// itemView is the per-run snapshot of the fields the stages consult.
type itemView struct {
	exists      bool
	description string
	status      state.IconStatus
	url         string
	port        int
	workdir     string
}

func (e *Executor) lookup(name string, website bool) (itemView, error) {
	if website {
		site, err := e.store.GetWebsite(name)
		if err != nil || site == nil {
			return itemView{}, err
		}
		return itemView{
			exists:      true,
			description: site.Description,
			status:      site.IconStatus,
			url:         site.URL,
		}, nil
	}
	proc, err := e.store.GetProcess(name)
	if err != nil || proc == nil {
		return itemView{}, err
	}
	return itemView{
		exists:      true,
		description: proc.Description,
		status:      proc.IconStatus,
		port:        proc.Port,
		workdir:     proc.Workdir,
	}, nil
}

// Run executes the artifact pipeline for one item. Every failure is logged
// and recorded as item status; nothing propagates to the worker loop.
func (e *Executor) Run(ctx context.Context, req Request) {
	name := req.Name
	ctx = services.WithItem(ctx, name)
	ctx = services.WithItemKind(ctx, req.Kind())
	logger := logging.WithContext(ctx, e.logger)

	item, err := e.lookup(name, req.Website)
	if err != nil {
		logger.Error("failed to read item state", logging.Error(err))
		return
	}
	if !item.exists {
		logger.Warn("item not found in state, skipping")
		return
	}
	if req.Website && strings.TrimSpace(item.url) == "" {
		logger.Warn("website has no url, skipping")
		return
	}

	if !e.runSummaryStage(ctx, req, item, logger) {
		return
	}
	if !e.runPromptStage(ctx, req, logger) {
		return
	}
	if !e.runImageStage(ctx, req, logger) {
		return
	}
	e.runFinalStage(ctx, req, logger)
}

// runSummaryStage generates the summary artifact when absent and mirrors it
// into the item's description. Reports whether the pipeline may continue.
func (e *Executor) runSummaryStage(ctx context.Context, req Request, item itemView, logger *slog.Logger) bool {
	name := req.Name
	stageCtx := services.WithStage(ctx, "summary")
	stageLogger := logging.WithContext(stageCtx, logger)

	if e.artifacts.HasSummary(name) {
		// Self-healing: a summary artifact with an empty stored description
		// means a prior run persisted the file but lost the store write.
		if item.description == "" {
			summary, err := e.artifacts.LoadSummary(name)
			if err != nil {
				stageLogger.Warn("failed to load summary for backfill", logging.Error(err))
				return true
			}
			summary = strings.TrimSpace(summary)
			if summary == "" {
				return true
			}
			if err := e.store.UpdateItem(name, req.Website, state.ItemUpdate{Description: &summary}); err != nil {
				stageLogger.Warn("failed to backfill description", logging.Error(err))
			}
		}
		return true
	}

	stageLogger.Info("generating summary")
	var summary string
	var err error
	if req.Website {
		summary, err = e.textGen.Complete(stageCtx, websiteSummaryPrompt(name, item.url), textgen.WithWebSearch())
	} else {
		homepage := fetchHomepage(stageCtx, e.homepageClient, item.port)
		readme := findReadme(item.workdir)
		summary, err = e.textGen.Complete(stageCtx, processSummaryPrompt(name, homepage, readme))
	}
	if err != nil {
		e.failStage(stageCtx, req, "summary", services.Wrap(services.ErrExternalTool, "summary", "complete", "generate summary", err), stageLogger)
		return false
	}
	summary = strings.TrimSpace(summary)
	if err := e.artifacts.SaveSummary(name, summary); err != nil {
		e.failStage(stageCtx, req, "summary", err, stageLogger)
		return false
	}
	if err := e.store.UpdateItem(name, req.Website, state.ItemUpdate{Description: &summary}); err != nil {
		stageLogger.Error("failed to store description", logging.Error(err))
	}
	e.revision.Bump()
	if err := e.notifier.NotifySummaryGenerated(stageCtx, name, summary); err != nil {
		stageLogger.Warn("summary notification failed", logging.Error(err))
	}
	return true
}

// runPromptStage regenerates the icon prompt when the summary is newer.
func (e *Executor) runPromptStage(ctx context.Context, req Request, logger *slog.Logger) bool {
	name := req.Name
	if !artifact.IsStale(e.artifacts.SummaryPath(name), e.artifacts.PromptPath(name)) {
		return true
	}
	stageCtx := services.WithStage(ctx, "prompt")
	stageLogger := logging.WithContext(stageCtx, logger)

	summary, err := e.artifacts.LoadSummary(name)
	if err != nil || strings.TrimSpace(summary) == "" {
		// Nothing to derive a prompt from yet.
		return false
	}
	stageLogger.Info("generating icon prompt")
	description, err := e.textGen.Complete(stageCtx, iconDescriptionPrompt(name, strings.TrimSpace(summary)))
	if err != nil {
		e.failStage(stageCtx, req, "prompt", services.Wrap(services.ErrExternalTool, "prompt", "complete", "generate icon prompt", err), stageLogger)
		return false
	}
	if err := e.artifacts.SavePrompt(name, buildIconPrompt(description)); err != nil {
		e.failStage(stageCtx, req, "prompt", err, stageLogger)
		return false
	}
	return true
}

// runImageStage renders the intermediate image when the prompt is newer.
func (e *Executor) runImageStage(ctx context.Context, req Request, logger *slog.Logger) bool {
	name := req.Name
	if !artifact.IsStale(e.artifacts.PromptPath(name), e.artifacts.ImagePath(name)) {
		return true
	}
	stageCtx := services.WithStage(ctx, "image")
	stageLogger := logging.WithContext(stageCtx, logger)

	prompt, err := e.artifacts.LoadPrompt(name)
	if err != nil || strings.TrimSpace(prompt) == "" {
		return false
	}
	stageLogger.Info("rendering icon image")
	generating := state.StatusGenerating
	if err := e.store.UpdateItem(name, req.Website, state.ItemUpdate{IconStatus: &generating}); err != nil {
		stageLogger.Error("failed to record generating status", logging.Error(err))
	}
	if err := e.imageGen.Generate(stageCtx, prompt, iconWidth, iconHeight, e.artifacts.ImagePath(name)); err != nil {
		e.failStage(stageCtx, req, "image", err, stageLogger)
		return false
	}
	return true
}

// runFinalStage strips the background when the image is newer, or reconciles
// a stale recorded status when all artifacts are already current.
func (e *Executor) runFinalStage(ctx context.Context, req Request, logger *slog.Logger) {
	name := req.Name
	iconPath := e.artifacts.IconPath(name)

	if !artifact.IsStale(e.artifacts.ImagePath(name), iconPath) {
		// Everything current. A restart mid-pipeline can leave a stale
		// status behind, so reconcile it from the artifacts.
		item, err := e.lookup(name, req.Website)
		if err != nil || !item.exists {
			return
		}
		if item.status != state.StatusReady {
			ready := state.StatusReady
			if err := e.store.UpdateItem(name, req.Website, state.ItemUpdate{IconStatus: &ready, IconPath: &iconPath}); err != nil {
				logger.Error("failed to reconcile ready status", logging.Error(err))
			}
		}
		return
	}

	// The image stage may have been skipped outright (prompt current, image
	// never produced). That is "not yet ready", not an error.
	if !e.artifacts.HasImage(name) {
		return
	}

	stageCtx := services.WithStage(ctx, "final")
	stageLogger := logging.WithContext(stageCtx, logger)
	stageLogger.Info("removing background")
	if err := e.bgRemove.Remove(stageCtx, e.artifacts.ImagePath(name), iconPath); err != nil {
		e.failStage(stageCtx, req, "final", err, stageLogger)
		return
	}
	ready := state.StatusReady
	if err := e.store.UpdateItem(name, req.Website, state.ItemUpdate{IconStatus: &ready, IconPath: &iconPath}); err != nil {
		stageLogger.Error("failed to record ready status", logging.Error(err))
	}
	e.revision.Bump()
	if err := e.notifier.NotifyIconReady(stageCtx, name, iconPath); err != nil {
		stageLogger.Warn("icon notification failed", logging.Error(err))
	}
}

func (e *Executor) failStage(ctx context.Context, req Request, stage string, err error, logger *slog.Logger) {
	logger.Error("stage failed", logging.Error(err))
	failed := state.StatusFailed
	if storeErr := e.store.UpdateItem(req.Name, req.Website, state.ItemUpdate{IconStatus: &failed}); storeErr != nil {
		logger.Error("failed to record failed status", logging.Error(storeErr))
	}
	if notifyErr := e.notifier.NotifyIconFailed(ctx, req.Name, stage, err); notifyErr != nil {
		logger.Warn("failure notification failed", logging.Error(notifyErr))
	}
}
