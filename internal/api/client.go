package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a running daemon's HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption customizes the client.
type ClientOption func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds a client for the daemon listening at bind (host:port).
func NewClient(bind string, opts ...ClientOption) *Client {
	base := strings.TrimSpace(bind)
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	c := &Client{
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Status fetches daemon runtime status.
func (c *Client) Status(ctx context.Context) (DaemonStatus, error) {
	var out DaemonStatus
	err := c.do(ctx, http.MethodGet, "/api/status", nil, &out)
	return out, err
}

// Items fetches the visible item list.
func (c *Client) Items(ctx context.Context) (ItemsResponse, error) {
	var out ItemsResponse
	err := c.do(ctx, http.MethodGet, "/api/items", nil, &out)
	return out, err
}

// Websites fetches all registered websites.
func (c *Client) Websites(ctx context.Context) (WebsitesResponse, error) {
	var out WebsitesResponse
	err := c.do(ctx, http.MethodGet, "/api/websites", nil, &out)
	return out, err
}

// Version fetches the current change counter.
func (c *Client) Version(ctx context.Context) (uint64, error) {
	var out VersionResponse
	if err := c.do(ctx, http.MethodGet, "/api/version", nil, &out); err != nil {
		return 0, err
	}
	return out.Version, nil
}

// Enqueue queues icon work for an item.
func (c *Client) Enqueue(ctx context.Context, name string, website bool) (bool, error) {
	var out EnqueueResponse
	err := c.do(ctx, http.MethodPost, "/api/enqueue", EnqueueRequest{Name: name, Website: website}, &out)
	return out.Queued, err
}

// AddWebsite registers a website entry and queues icon work for it.
func (c *Client) AddWebsite(ctx context.Context, name, siteURL string) (WebsiteResponse, error) {
	var out WebsiteResponse
	err := c.do(ctx, http.MethodPost, "/api/websites", AddWebsiteRequest{Name: name, URL: siteURL}, &out)
	return out, err
}

// RemoveWebsite deletes a website entry.
func (c *Client) RemoveWebsite(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/api/websites/"+url.PathEscape(name), nil, nil)
}

// TestNotification asks the daemon to send a test notification.
func (c *Client) TestNotification(ctx context.Context) (TestNotificationResponse, error) {
	var out TestNotificationResponse
	err := c.do(ctx, http.MethodPost, "/api/notifications/test", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("daemon request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		var apiErr struct {
			Error string `json:"error"`
		}
		if jsonErr := json.Unmarshal(payload, &apiErr); jsonErr == nil && apiErr.Error != "" {
			return fmt.Errorf("daemon returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("daemon returned %d", resp.StatusCode)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
