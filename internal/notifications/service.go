package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"iconforge/internal/config"
)

const userAgent = "IconForge/0.1.0"

// Service defines the notification surface exposed to pipeline components.
type Service interface {
	NotifySummaryGenerated(ctx context.Context, name, summary string) error
	NotifyIconReady(ctx context.Context, name, iconPath string) error
	NotifyIconFailed(ctx context.Context, name, stage string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:    topic,
		client:      &http.Client{Timeout: timeout},
		sendIcons:   cfg.Notifications.Icons,
		sendFailure: cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint    string
	client      *http.Client
	sendIcons   bool
	sendFailure bool
}

func (n *ntfyService) NotifySummaryGenerated(ctx context.Context, name, summary string) error {
	if !n.sendIcons {
		return nil
	}
	name = strings.TrimSpace(name)
	summary = strings.TrimSpace(summary)
	if len(summary) > 200 {
		summary = summary[:200] + "..."
	}
	data := payload{
		title:   "IconForge - Summary",
		message: fmt.Sprintf("Summarized %s: %s", name, summary),
		tags:    []string{"iconforge", "summary"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyIconReady(ctx context.Context, name, iconPath string) error {
	if !n.sendIcons {
		return nil
	}
	name = strings.TrimSpace(name)
	message := fmt.Sprintf("Icon ready: %s", name)
	if iconPath = strings.TrimSpace(iconPath); iconPath != "" {
		message = fmt.Sprintf("%s\nFile: %s", message, iconPath)
	}
	data := payload{
		title:   "IconForge - Icon Ready",
		message: message,
		tags:    []string{"iconforge", "icon", "ready"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyIconFailed(ctx context.Context, name, stage string, err error) error {
	if !n.sendFailure {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Icon generation failed")
	if name = strings.TrimSpace(name); name != "" {
		builder.WriteString(" for ")
		builder.WriteString(name)
	}
	if stage = strings.TrimSpace(stage); stage != "" {
		builder.WriteString(" at ")
		builder.WriteString(stage)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	data := payload{
		title:    "IconForge - Error",
		message:  builder.String(),
		tags:     []string{"iconforge", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "IconForge - Test",
		message:  "Notification system test",
		tags:     []string{"iconforge", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifySummaryGenerated(context.Context, string, string) error { return nil }
func (noopService) NotifyIconReady(context.Context, string, string) error        { return nil }
func (noopService) NotifyIconFailed(context.Context, string, string, error) error {
	return nil
}
func (noopService) TestNotification(context.Context) error { return nil }
