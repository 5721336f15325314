package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"iconforge/internal/logging"
)

// Store persists the full item snapshot as a single JSON file. Every mutation
// runs load, mutate, persist under one lock so concurrent writers cannot lose
// each other's updates; a file lock extends the same discipline across
// processes sharing the state file.
type Store struct {
	path   string
	mu     sync.Mutex
	flk    *flock.Flock
	logger *slog.Logger

	collator *collate.Collator

	// now is swappable so tests can pin timestamps.
	now func() time.Time
}

// NewStore creates a store backed by the JSON file at path. The parent
// directory is created if needed.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("state store path is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure state directory: %w", err)
	}
	return &Store{
		path:     path,
		flk:      flock.New(path + ".lock"),
		logger:   logger.With(logging.String(logging.FieldComponent, "state-store")),
		collator: collate.New(language.Und, collate.IgnoreCase),
		now:      time.Now,
	}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

func (s *Store) load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newSnapshot(), nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	snap := newSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("parse state file %s: %w", s.path, err)
	}
	if snap.Processes == nil {
		snap.Processes = make(map[string]*Process)
	}
	if snap.Websites == nil {
		snap.Websites = make(map[string]*Website)
	}
	return snap, nil
}

func (s *Store) persist(snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// mutate runs fn over the loaded snapshot and persists the result when fn
// reports a change.
func (s *Store) mutate(fn func(*Snapshot) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("acquire state lock: %w", err)
	}
	defer func() {
		if err := s.flk.Unlock(); err != nil {
			s.logger.Warn("failed to release state lock", logging.Error(err))
		}
	}()

	snap, err := s.load()
	if err != nil {
		return err
	}
	changed, err := fn(snap)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.persist(snap)
}

// view runs fn over a freshly loaded snapshot without persisting.
func (s *Store) view(fn func(*Snapshot)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.load()
	if err != nil {
		return err
	}
	fn(snap)
	return nil
}

// Snapshot returns a copy of the full persisted state.
func (s *Store) Snapshot() (*Snapshot, error) {
	var out *Snapshot
	err := s.view(func(snap *Snapshot) { out = snap })
	return out, err
}

// GetProcess returns the process entry or nil when unknown.
func (s *Store) GetProcess(name string) (*Process, error) {
	var proc *Process
	err := s.view(func(snap *Snapshot) { proc = snap.Processes[name] })
	return proc, err
}

// UpsertProcess creates or merges a process entry. New entries start visible,
// alive, and pending. Only the non-nil fields of upd are applied; every write
// bumps last_seen.
func (s *Store) UpsertProcess(name string, upd ProcessUpdate) (*Process, error) {
	var result *Process
	err := s.mutate(func(snap *Snapshot) (bool, error) {
		proc, ok := snap.Processes[name]
		if !ok {
			proc = &Process{
				Name:       name,
				Visible:    true,
				IconStatus: StatusPending,
			}
			snap.Processes[name] = proc
		}
		if upd.Port != nil {
			proc.Port = *upd.Port
		}
		// Serving HTML is a one-way latch: a transient non-HTML probe result
		// must not flip an item back out of the reporting surface.
		if upd.IsHTML != nil && *upd.IsHTML {
			proc.IsHTML = true
		}
		if upd.Visible != nil {
			proc.Visible = *upd.Visible
		}
		if upd.IconPath != nil {
			proc.IconPath = *upd.IconPath
		}
		if upd.IconStatus != nil {
			proc.IconStatus = *upd.IconStatus
		}
		if upd.Workdir != nil {
			proc.Workdir = *upd.Workdir
		}
		if upd.Description != nil {
			proc.Description = *upd.Description
		}
		if upd.IsDead != nil {
			proc.IsDead = *upd.IsDead
		}
		seen := s.now().UTC()
		proc.LastSeen = &seen
		result = proc
		return true, nil
	})
	return result, err
}

// MarkInvisible hides a process from the reporting surface. Unknown names are
// a no-op.
func (s *Store) MarkInvisible(name string) error {
	return s.mutate(func(snap *Snapshot) (bool, error) {
		proc, ok := snap.Processes[name]
		if !ok {
			return false, nil
		}
		proc.Visible = false
		return true, nil
	})
}

// MarkDead flags a process that is registered but no longer running.
func (s *Store) MarkDead(name string) error {
	return s.mutate(func(snap *Snapshot) (bool, error) {
		proc, ok := snap.Processes[name]
		if !ok {
			return false, nil
		}
		proc.IsDead = true
		return true, nil
	})
}

// VisibleHTMLProcesses returns visible processes known to serve HTML.
func (s *Store) VisibleHTMLProcesses() ([]*Process, error) {
	var procs []*Process
	err := s.view(func(snap *Snapshot) {
		for _, p := range snap.Processes {
			if p.Visible && p.IsHTML {
				procs = append(procs, p)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(procs, func(i, j int) bool {
		return s.collator.CompareString(procs[i].Name, procs[j].Name) < 0
	})
	return procs, nil
}

// AddWebsite registers a manual website entry, replacing any existing entry
// of the same name.
func (s *Store) AddWebsite(name, url string) (*Website, error) {
	if name == "" || url == "" {
		return nil, errors.New("website name and url are required")
	}
	var site *Website
	err := s.mutate(func(snap *Snapshot) (bool, error) {
		site = &Website{
			Name:       name,
			URL:        url,
			IsHTML:     true,
			Visible:    true,
			IconStatus: StatusPending,
		}
		snap.Websites[name] = site
		return true, nil
	})
	return site, err
}

// RemoveWebsite deletes a website entry. It reports whether the entry existed.
func (s *Store) RemoveWebsite(name string) (bool, error) {
	removed := false
	err := s.mutate(func(snap *Snapshot) (bool, error) {
		if _, ok := snap.Websites[name]; !ok {
			return false, nil
		}
		delete(snap.Websites, name)
		removed = true
		return true, nil
	})
	return removed, err
}

// GetWebsite returns the website entry or nil when unknown.
func (s *Store) GetWebsite(name string) (*Website, error) {
	var site *Website
	err := s.view(func(snap *Snapshot) { site = snap.Websites[name] })
	return site, err
}

// UpdateWebsite merges the non-nil fields of upd into an existing website
// entry. Unknown names are a no-op.
func (s *Store) UpdateWebsite(name string, upd WebsiteUpdate) error {
	return s.mutate(func(snap *Snapshot) (bool, error) {
		site, ok := snap.Websites[name]
		if !ok {
			return false, nil
		}
		if upd.URL != nil {
			site.URL = *upd.URL
		}
		if upd.Visible != nil {
			site.Visible = *upd.Visible
		}
		if upd.IconPath != nil {
			site.IconPath = *upd.IconPath
		}
		if upd.IconStatus != nil {
			site.IconStatus = *upd.IconStatus
		}
		if upd.Description != nil {
			site.Description = *upd.Description
		}
		return true, nil
	})
}

// ListWebsites returns all website entries sorted by name.
func (s *Store) ListWebsites() ([]*Website, error) {
	var sites []*Website
	err := s.view(func(snap *Snapshot) {
		for _, w := range snap.Websites {
			sites = append(sites, w)
		}
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(sites, func(i, j int) bool {
		return s.collator.CompareString(sites[i].Name, sites[j].Name) < 0
	})
	return sites, nil
}

// VisibleItems returns the unified reporting view: visible HTML processes and
// visible websites, sorted case-insensitively by name.
func (s *Store) VisibleItems() ([]Item, error) {
	var items []Item
	err := s.view(func(snap *Snapshot) {
		for _, p := range snap.Processes {
			if p.Visible && p.IsHTML {
				items = append(items, p.item())
			}
		}
		for _, w := range snap.Websites {
			if w.Visible {
				items = append(items, w.item())
			}
		}
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return s.collator.CompareString(items[i].Name, items[j].Name) < 0
	})
	return items, nil
}

// UpdateItem applies a pipeline write to either a process or a website. For
// unknown websites the write is dropped; unknown processes are created so a
// pipeline result is never lost.
func (s *Store) UpdateItem(name string, website bool, upd ItemUpdate) error {
	if website {
		return s.UpdateWebsite(name, WebsiteUpdate{
			Description: upd.Description,
			IconStatus:  upd.IconStatus,
			IconPath:    upd.IconPath,
		})
	}
	_, err := s.UpsertProcess(name, ProcessUpdate{
		Description: upd.Description,
		IconStatus:  upd.IconStatus,
		IconPath:    upd.IconPath,
	})
	return err
}

// UpdateLastScan records the current time as the most recent scan.
func (s *Store) UpdateLastScan() error {
	return s.mutate(func(snap *Snapshot) (bool, error) {
		now := s.now().UTC()
		snap.LastScan = &now
		return true, nil
	})
}

// LastScan returns the most recent scan time, or nil when no scan has run.
func (s *Store) LastScan() (*time.Time, error) {
	var ts *time.Time
	err := s.view(func(snap *Snapshot) { ts = snap.LastScan })
	return ts, err
}
