package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"iconforge/internal/api"
)

func TestClientStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(api.DaemonStatus{Running: true, PID: 42, Version: 7})
	}))
	defer server.Close()

	client := api.NewClient(server.URL)
	status, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !status.Running || status.PID != 42 || status.Version != 7 {
		t.Fatalf("status = %+v", status)
	}
}

func TestClientPrependsScheme(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.VersionResponse{Version: 3})
	}))
	defer server.Close()

	bind := strings.TrimPrefix(server.URL, "http://")
	client := api.NewClient(bind)
	version, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if version != 3 {
		t.Fatalf("version = %d, want 3", version)
	}
}

func TestClientEnqueue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/enqueue" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req api.EnqueueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Name != "webapp" || !req.Website {
			t.Errorf("request = %+v", req)
		}
		_ = json.NewEncoder(w).Encode(api.EnqueueResponse{Queued: true})
	}))
	defer server.Close()

	client := api.NewClient(server.URL)
	queued, err := client.Enqueue(context.Background(), "webapp", true)
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if !queued {
		t.Fatal("expected queued response")
	}
}

func TestClientRemoveWebsiteEscapesName(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := api.NewClient(server.URL)
	if err := client.RemoveWebsite(context.Background(), "my docs"); err != nil {
		t.Fatalf("RemoveWebsite() error = %v", err)
	}
	if gotPath != "/api/websites/my%20docs" {
		t.Fatalf("request path = %q", gotPath)
	}
}

func TestClientSurfacesErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "website not found"})
	}))
	defer server.Close()

	client := api.NewClient(server.URL)
	err := client.RemoveWebsite(context.Background(), "ghost")
	if err == nil {
		t.Fatal("expected error from 404 response")
	}
	if !strings.Contains(err.Error(), "website not found") {
		t.Fatalf("error = %v, want embedded message", err)
	}
}
