package state_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"iconforge/internal/state"
)

func newStore(t *testing.T) *state.Store {
	t.Helper()
	store, err := state.NewStore(filepath.Join(t.TempDir(), "state.json"), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func strPtr(s string) *string               { return &s }
func intPtr(i int) *int                     { return &i }
func boolPtr(b bool) *bool                  { return &b }
func statusPtr(s state.IconStatus) *state.IconStatus { return &s }

func TestUpsertProcessCreatesWithDefaults(t *testing.T) {
	store := newStore(t)
	proc, err := store.UpsertProcess("webapp", state.ProcessUpdate{Port: intPtr(3000)})
	if err != nil {
		t.Fatalf("UpsertProcess: %v", err)
	}
	if !proc.Visible {
		t.Error("new process should be visible")
	}
	if proc.IsDead {
		t.Error("new process should not be dead")
	}
	if proc.IconStatus != state.StatusPending {
		t.Errorf("icon status = %q, want pending", proc.IconStatus)
	}
	if proc.Port != 3000 {
		t.Errorf("port = %d", proc.Port)
	}
	if proc.LastSeen == nil {
		t.Error("last_seen not set")
	}
}

func TestUpsertProcessPreservesUnsetFields(t *testing.T) {
	store := newStore(t)
	if _, err := store.UpsertProcess("webapp", state.ProcessUpdate{
		Port:        intPtr(3000),
		Workdir:     strPtr("/srv/webapp"),
		Description: strPtr("a web app"),
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if _, err := store.UpsertProcess("webapp", state.ProcessUpdate{
		IconStatus: statusPtr(state.StatusReady),
	}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	proc, err := store.GetProcess("webapp")
	if err != nil {
		t.Fatalf("GetProcess: %v", err)
	}
	if proc.Port != 3000 || proc.Workdir != "/srv/webapp" || proc.Description != "a web app" {
		t.Errorf("fields reset by partial update: %+v", proc)
	}
	if proc.IconStatus != state.StatusReady {
		t.Errorf("icon status = %q", proc.IconStatus)
	}
}

func TestIsHTMLLatch(t *testing.T) {
	store := newStore(t)
	if _, err := store.UpsertProcess("webapp", state.ProcessUpdate{IsHTML: boolPtr(true)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := store.UpsertProcess("webapp", state.ProcessUpdate{IsHTML: boolPtr(false)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	proc, err := store.GetProcess("webapp")
	if err != nil {
		t.Fatalf("GetProcess: %v", err)
	}
	if !proc.IsHTML {
		t.Error("is_html latch released by a false update")
	}
}

func TestMarkInvisibleAndDead(t *testing.T) {
	store := newStore(t)
	if _, err := store.UpsertProcess("webapp", state.ProcessUpdate{IsHTML: boolPtr(true)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.MarkInvisible("webapp"); err != nil {
		t.Fatalf("MarkInvisible: %v", err)
	}
	if err := store.MarkDead("webapp"); err != nil {
		t.Fatalf("MarkDead: %v", err)
	}
	proc, err := store.GetProcess("webapp")
	if err != nil {
		t.Fatalf("GetProcess: %v", err)
	}
	if proc.Visible || !proc.IsDead {
		t.Errorf("visible=%v is_dead=%v", proc.Visible, proc.IsDead)
	}

	// Unknown names are a no-op, not an error.
	if err := store.MarkInvisible("ghost"); err != nil {
		t.Fatalf("MarkInvisible unknown: %v", err)
	}
}

func TestVisibleHTMLProcesses(t *testing.T) {
	store := newStore(t)
	for _, name := range []string{"alpha", "bravo", "charlie"} {
		if _, err := store.UpsertProcess(name, state.ProcessUpdate{IsHTML: boolPtr(true)}); err != nil {
			t.Fatalf("upsert %s: %v", name, err)
		}
	}
	if _, err := store.UpsertProcess("no-html", state.ProcessUpdate{}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.MarkInvisible("bravo"); err != nil {
		t.Fatalf("MarkInvisible: %v", err)
	}
	procs, err := store.VisibleHTMLProcesses()
	if err != nil {
		t.Fatalf("VisibleHTMLProcesses: %v", err)
	}
	if len(procs) != 2 || procs[0].Name != "alpha" || procs[1].Name != "charlie" {
		t.Fatalf("unexpected processes: %+v", procs)
	}
}

func TestWebsiteLifecycle(t *testing.T) {
	store := newStore(t)
	site, err := store.AddWebsite("docs", "https://docs.example.com")
	if err != nil {
		t.Fatalf("AddWebsite: %v", err)
	}
	if !site.IsHTML || !site.Visible || site.IconStatus != state.StatusPending {
		t.Fatalf("unexpected defaults: %+v", site)
	}

	if err := store.UpdateWebsite("docs", state.WebsiteUpdate{
		Description: strPtr("documentation portal"),
		IconStatus:  statusPtr(state.StatusReady),
	}); err != nil {
		t.Fatalf("UpdateWebsite: %v", err)
	}
	got, err := store.GetWebsite("docs")
	if err != nil {
		t.Fatalf("GetWebsite: %v", err)
	}
	if got.Description != "documentation portal" || got.IconStatus != state.StatusReady {
		t.Fatalf("update not applied: %+v", got)
	}
	if got.URL != "https://docs.example.com" {
		t.Fatalf("url reset: %q", got.URL)
	}

	removed, err := store.RemoveWebsite("docs")
	if err != nil {
		t.Fatalf("RemoveWebsite: %v", err)
	}
	if !removed {
		t.Fatal("RemoveWebsite reported not found")
	}
	removed, err = store.RemoveWebsite("docs")
	if err != nil {
		t.Fatalf("RemoveWebsite again: %v", err)
	}
	if removed {
		t.Fatal("second removal should report not found")
	}
}

func TestAddWebsiteRequiresNameAndURL(t *testing.T) {
	store := newStore(t)
	if _, err := store.AddWebsite("", "https://example.com"); err == nil {
		t.Fatal("expected error for empty name")
	}
	if _, err := store.AddWebsite("docs", ""); err == nil {
		t.Fatal("expected error for empty url")
	}
}

func TestVisibleItemsSortedCaseInsensitive(t *testing.T) {
	store := newStore(t)
	if _, err := store.UpsertProcess("Zebra", state.ProcessUpdate{IsHTML: boolPtr(true)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := store.UpsertProcess("apple", state.ProcessUpdate{IsHTML: boolPtr(true)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := store.AddWebsite("Mango", "https://mango.example.com"); err != nil {
		t.Fatalf("AddWebsite: %v", err)
	}
	items, err := store.VisibleItems()
	if err != nil {
		t.Fatalf("VisibleItems: %v", err)
	}
	var names []string
	for _, it := range items {
		names = append(names, it.Name)
	}
	want := []string{"apple", "Mango", "Zebra"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
	if items[1].Kind != state.KindWebsite {
		t.Errorf("Mango kind = %q", items[1].Kind)
	}
}

func TestUpdateItemRoutesByKind(t *testing.T) {
	store := newStore(t)
	if _, err := store.AddWebsite("docs", "https://docs.example.com"); err != nil {
		t.Fatalf("AddWebsite: %v", err)
	}
	if err := store.UpdateItem("docs", true, state.ItemUpdate{
		IconStatus: statusPtr(state.StatusGenerating),
	}); err != nil {
		t.Fatalf("UpdateItem website: %v", err)
	}
	site, err := store.GetWebsite("docs")
	if err != nil {
		t.Fatalf("GetWebsite: %v", err)
	}
	if site.IconStatus != state.StatusGenerating {
		t.Fatalf("website status = %q", site.IconStatus)
	}

	if err := store.UpdateItem("webapp", false, state.ItemUpdate{
		IconStatus: statusPtr(state.StatusReady),
		IconPath:   strPtr("/icons/webapp.png"),
	}); err != nil {
		t.Fatalf("UpdateItem process: %v", err)
	}
	proc, err := store.GetProcess("webapp")
	if err != nil {
		t.Fatalf("GetProcess: %v", err)
	}
	if proc == nil {
		t.Fatal("process not created by UpdateItem")
	}
	if proc.IconStatus != state.StatusReady || proc.IconPath != "/icons/webapp.png" {
		t.Fatalf("process not updated: %+v", proc)
	}
}

func TestLastScanRoundTrip(t *testing.T) {
	store := newStore(t)
	ts, err := store.LastScan()
	if err != nil {
		t.Fatalf("LastScan: %v", err)
	}
	if ts != nil {
		t.Fatal("last_scan should start nil")
	}
	if err := store.UpdateLastScan(); err != nil {
		t.Fatalf("UpdateLastScan: %v", err)
	}
	ts, err = store.LastScan()
	if err != nil {
		t.Fatalf("LastScan: %v", err)
	}
	if ts == nil {
		t.Fatal("last_scan not recorded")
	}
}

func TestPersistenceAcrossStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	first, err := state.NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := first.UpsertProcess("webapp", state.ProcessUpdate{IsHTML: boolPtr(true)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	second, err := state.NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore reopen: %v", err)
	}
	proc, err := second.GetProcess("webapp")
	if err != nil {
		t.Fatalf("GetProcess: %v", err)
	}
	if proc == nil || !proc.IsHTML {
		t.Fatalf("state not persisted: %+v", proc)
	}
}

func TestCorruptStateFailsLoudly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store, err := state.NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.GetProcess("webapp"); err == nil {
		t.Fatal("expected parse error for corrupt state file")
	}
}

func TestConcurrentUpsertsDoNotLoseWrites(t *testing.T) {
	store := newStore(t)
	names := []string{"a", "b", "c", "d", "e"}
	var wg sync.WaitGroup
	for _, name := range names {
		name := name
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.UpsertProcess(name, state.ProcessUpdate{IsHTML: boolPtr(true)}); err != nil {
				t.Errorf("upsert %s: %v", name, err)
			}
		}()
	}
	wg.Wait()
	for _, name := range names {
		proc, err := store.GetProcess(name)
		if err != nil {
			t.Fatalf("GetProcess %s: %v", name, err)
		}
		if proc == nil {
			t.Fatalf("process %s lost", name)
		}
	}
}
