package artifact_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"iconforge/internal/artifact"
)

func newStore(t *testing.T) *artifact.Store {
	t.Helper()
	base := t.TempDir()
	return artifact.NewStore(filepath.Join(base, "artifacts"), filepath.Join(base, "icons"))
}

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
}

func TestPathNaming(t *testing.T) {
	base := t.TempDir()
	artifactsDir := filepath.Join(base, "artifacts")
	iconsDir := filepath.Join(base, "icons")
	store := artifact.NewStore(artifactsDir, iconsDir)
	if got := store.SummaryPath("firefox"); got != filepath.Join(artifactsDir, "firefox_summary.txt") {
		t.Fatalf("summary path = %q", got)
	}
	if got := store.PromptPath("firefox"); got != filepath.Join(artifactsDir, "firefox_icon_prompt.txt") {
		t.Fatalf("prompt path = %q", got)
	}
	if got := store.ImagePath("firefox"); got != filepath.Join(artifactsDir, "firefox.jpg") {
		t.Fatalf("image path = %q", got)
	}
	if got := store.IconPath("firefox"); got != filepath.Join(iconsDir, "firefox.png") {
		t.Fatalf("icon path = %q", got)
	}
}

func TestPathNamingSanitizesSeparators(t *testing.T) {
	store := newStore(t)
	if got := store.SummaryPath("../evil"); filepath.Base(got) != "__evil_summary.txt" {
		t.Fatalf("sanitized path = %q", got)
	}
}

func TestNewStoreCreatesDirectories(t *testing.T) {
	base := t.TempDir()
	artifactsDir := filepath.Join(base, "deep", "artifacts")
	iconsDir := filepath.Join(base, "deep", "icons")

	store := artifact.NewStore(artifactsDir, iconsDir)

	for _, dir := range []string{artifactsDir, iconsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("stat %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("%s is not a directory", dir)
		}
	}

	// External tools write to the resolved paths directly, so the icon
	// path must be immediately writable without any prior artifact write.
	if err := os.WriteFile(store.IconPath("webapp"), []byte("png"), 0o644); err != nil {
		t.Fatalf("write icon: %v", err)
	}
}

func TestIsStaleTruthTable(t *testing.T) {
	dir := t.TempDir()
	now := time.Now().Truncate(time.Second)
	old := now.Add(-time.Hour)

	producer := filepath.Join(dir, "producer")
	consumer := filepath.Join(dir, "consumer")
	missing := filepath.Join(dir, "missing")

	touch(t, producer, now)
	touch(t, consumer, old)

	cases := []struct {
		name     string
		producer string
		consumer string
		want     bool
	}{
		{"missing consumer is stale", producer, missing, true},
		{"both missing is stale", missing, filepath.Join(dir, "also-missing"), true},
		{"missing producer keeps consumer", missing, consumer, false},
		{"newer producer invalidates", producer, consumer, true},
	}
	for _, tc := range cases {
		if got := artifact.IsStale(tc.producer, tc.consumer); got != tc.want {
			t.Errorf("%s: IsStale = %v, want %v", tc.name, got, tc.want)
		}
	}

	// Equal timestamps are not stale; staleness requires strictly newer.
	touch(t, consumer, now)
	if artifact.IsStale(producer, consumer) {
		t.Fatal("equal timestamps reported stale")
	}

	// Newer consumer is current.
	touch(t, consumer, now.Add(time.Hour))
	if artifact.IsStale(producer, consumer) {
		t.Fatal("newer consumer reported stale")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newStore(t)
	if store.HasSummary("app") {
		t.Fatal("summary should not exist yet")
	}
	if err := store.SaveSummary("app", "a tool"); err != nil {
		t.Fatalf("save summary: %v", err)
	}
	if !store.HasSummary("app") {
		t.Fatal("summary missing after save")
	}
	got, err := store.LoadSummary("app")
	if err != nil {
		t.Fatalf("load summary: %v", err)
	}
	if got != "a tool" {
		t.Fatalf("summary = %q", got)
	}

	if err := store.SavePrompt("app", "an icon of a tool"); err != nil {
		t.Fatalf("save prompt: %v", err)
	}
	prompt, err := store.LoadPrompt("app")
	if err != nil {
		t.Fatalf("load prompt: %v", err)
	}
	if prompt != "an icon of a tool" {
		t.Fatalf("prompt = %q", prompt)
	}
}

func TestNeedsWork(t *testing.T) {
	store := newStore(t)
	name := "app"
	if !store.NeedsWork(name) {
		t.Fatal("fresh item should need work")
	}

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	touch(t, store.SummaryPath(name), base)
	if !store.NeedsWork(name) {
		t.Fatal("missing prompt should need work")
	}
	touch(t, store.PromptPath(name), base.Add(time.Minute))
	touch(t, store.ImagePath(name), base.Add(2*time.Minute))
	touch(t, store.IconPath(name), base.Add(3*time.Minute))
	if store.NeedsWork(name) {
		t.Fatal("complete, up-to-date chain should not need work")
	}

	// Rewriting the summary invalidates everything downstream.
	touch(t, store.SummaryPath(name), base.Add(10*time.Minute))
	if !store.NeedsWork(name) {
		t.Fatal("newer summary should need work")
	}
}
