package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"iconforge/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.ImageGen.Binary != "generate-image" {
		t.Fatalf("unexpected imagegen binary: %q", cfg.ImageGen.Binary)
	}
	if cfg.Workflow.QueueCapacity != 64 {
		t.Fatalf("unexpected queue capacity: %d", cfg.Workflow.QueueCapacity)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("expected absolute data dir, got %q", cfg.Paths.DataDir)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + dir + `/forge"

[imagegen]
binary = "  render-icon  "
timeout_seconds = 90

[logging]
format = "JSON"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected resolved existing path %q, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.ImageGen.Binary != "render-icon" {
		t.Fatalf("expected trimmed binary, got %q", cfg.ImageGen.Binary)
	}
	if cfg.ImageGen.TimeoutSeconds != 90 {
		t.Fatalf("expected timeout 90, got %d", cfg.ImageGen.TimeoutSeconds)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected lowercased format, got %q", cfg.Logging.Format)
	}
	if cfg.Paths.ArtifactsDir != filepath.Join(dir, "forge", "artifacts") {
		t.Fatalf("expected artifacts dir under data dir, got %q", cfg.Paths.ArtifactsDir)
	}
	if cfg.StatePath() != filepath.Join(dir, "forge", "state.json") {
		t.Fatalf("unexpected state path %q", cfg.StatePath())
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for bad log format")
	}
}

func TestTextGenAPIKeyEnvFallback(t *testing.T) {
	t.Setenv("ICONFORGE_TEXTGEN_API_KEY", " secret ")
	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.GetTextGen().APIKey != "secret" {
		t.Fatalf("expected trimmed env API key, got %q", cfg.GetTextGen().APIKey)
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(content), "[textgen]") {
		t.Fatalf("expected textgen section in sample, got %q", content)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.ArtifactsDir = filepath.Join(dir, "data", "artifacts")
	cfg.Paths.IconsDir = filepath.Join(dir, "data", "icons")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, p := range []string{cfg.Paths.DataDir, cfg.Paths.ArtifactsDir, cfg.Paths.IconsDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(p); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist: %v", p, err)
		}
	}
}
