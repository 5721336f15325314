package preflight_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"iconforge/internal/config"
	"iconforge/internal/preflight"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	result := preflight.CheckDirectoryAccess("Artifacts directory", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir: %s", result.Detail)
	}

	result = preflight.CheckDirectoryAccess("Artifacts directory", filepath.Join(dir, "missing"))
	if result.Passed {
		t.Fatal("expected failure for missing directory")
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	result = preflight.CheckDirectoryAccess("Artifacts directory", file)
	if result.Passed {
		t.Fatal("expected failure for non-directory path")
	}
}

func TestCheckDiskSpace(t *testing.T) {
	result := preflight.CheckDiskSpace("Disk", t.TempDir())
	if !result.Passed {
		t.Skipf("temp filesystem below headroom floor: %s", result.Detail)
	}
}

func TestCheckTextGenMissingKey(t *testing.T) {
	result := preflight.CheckTextGen(context.Background(), "Text generation API", config.TextGenConfig{})
	if result.Passed {
		t.Fatal("expected failure without api key")
	}
	if result.Detail != "API key missing" {
		t.Fatalf("detail = %q", result.Detail)
	}
}

func TestCheckTextGenHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": "ok"}},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	result := preflight.CheckTextGen(context.Background(), "Text generation API", config.TextGenConfig{
		APIKey:  "test",
		BaseURL: server.URL,
		Model:   "demo",
	})
	if !result.Passed {
		t.Fatalf("expected pass: %s", result.Detail)
	}
}

func TestRunAllReportsAllChecks(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.ArtifactsDir = t.TempDir()
	cfg.Paths.IconsDir = t.TempDir()

	results := preflight.RunAll(context.Background(), &cfg)
	if len(results) != 4 {
		t.Fatalf("results = %d, want 4", len(results))
	}
}
