// Package api defines the JSON payloads exchanged between the daemon's HTTP
// surface and the CLI, plus a small client for the CLI side.
package api

import (
	"time"

	"iconforge/internal/state"
)

// DependencyStatus mirrors the availability of one external tool.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// DaemonStatus is the full status payload served at /api/status.
type DaemonStatus struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	Version      uint64             `json:"version"`
	QueueDepth   int                `json:"queue_depth"`
	StatePath    string             `json:"state_path"`
	LockFilePath string             `json:"lock_file_path"`
	LastScan     *time.Time         `json:"last_scan,omitempty"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// ItemsResponse lists the visible items from the state store along with the
// change counter and last scan time for cheap client-side polling.
type ItemsResponse struct {
	Items    []state.Item `json:"items"`
	Version  uint64       `json:"change_version"`
	LastScan *time.Time   `json:"last_scan,omitempty"`
}

// WebsitesResponse lists all registered websites.
type WebsitesResponse struct {
	Websites []*state.Website `json:"websites"`
}

// VersionResponse carries the change counter for cheap polling.
type VersionResponse struct {
	Version uint64 `json:"version"`
}

// EnqueueRequest asks the daemon to queue icon work for an item.
type EnqueueRequest struct {
	Name    string `json:"name"`
	Website bool   `json:"website"`
}

// EnqueueResponse reports whether the request was accepted or collapsed into
// an existing queued request.
type EnqueueResponse struct {
	Queued bool `json:"queued"`
}

// AddWebsiteRequest registers a manual website entry.
type AddWebsiteRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// WebsiteResponse returns a single website entry.
type WebsiteResponse struct {
	Website *state.Website `json:"website"`
}

// TestNotificationResponse reports the outcome of a test notification.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message,omitempty"`
}
