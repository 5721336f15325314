package state

import "time"

// IconStatus tracks pipeline progress for an item. It is a cache, not the
// source of truth; artifact files on disk decide what actually needs work.
type IconStatus string

const (
	StatusPending    IconStatus = "pending"
	StatusGenerating IconStatus = "generating"
	StatusReady      IconStatus = "ready"
	StatusFailed     IconStatus = "failed"
)

// Valid reports whether the status is one of the known values.
func (s IconStatus) Valid() bool {
	switch s {
	case StatusPending, StatusGenerating, StatusReady, StatusFailed:
		return true
	}
	return false
}

// Process is a discovered local process entry.
type Process struct {
	Name        string     `json:"name"`
	Port        int        `json:"port,omitempty"`
	IsHTML      bool       `json:"is_html"`
	Visible     bool       `json:"visible"`
	IsDead      bool       `json:"is_dead"`
	IconPath    string     `json:"icon_path,omitempty"`
	IconStatus  IconStatus `json:"icon_status"`
	LastSeen    *time.Time `json:"last_seen"`
	Workdir     string     `json:"workdir,omitempty"`
	Description string     `json:"description,omitempty"`
}

// Website is a manually registered website entry.
type Website struct {
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	IsHTML      bool       `json:"is_html"`
	Visible     bool       `json:"visible"`
	IconPath    string     `json:"icon_path,omitempty"`
	IconStatus  IconStatus `json:"icon_status"`
	Description string     `json:"description,omitempty"`
}

// Snapshot is the full persisted state.
type Snapshot struct {
	Processes map[string]*Process `json:"processes"`
	Websites  map[string]*Website `json:"websites"`
	LastScan  *time.Time          `json:"last_scan"`
}

func newSnapshot() *Snapshot {
	return &Snapshot{
		Processes: make(map[string]*Process),
		Websites:  make(map[string]*Website),
	}
}

// ProcessUpdate carries the fields of a process write. Nil fields are left
// untouched on the stored entry.
type ProcessUpdate struct {
	Port        *int
	IsHTML      *bool
	Visible     *bool
	IconPath    *string
	IconStatus  *IconStatus
	Workdir     *string
	Description *string
	IsDead      *bool
}

// WebsiteUpdate carries the fields of a website write. Nil fields are left
// untouched on the stored entry.
type WebsiteUpdate struct {
	URL         *string
	Visible     *bool
	IconPath    *string
	IconStatus  *IconStatus
	Description *string
}

// ItemUpdate is the subset of fields the pipeline writes for either kind.
type ItemUpdate struct {
	Description *string
	IconStatus  *IconStatus
	IconPath    *string
}

// Item is a read-only unified view over processes and websites, used by the
// reporting surfaces.
type Item struct {
	Name        string     `json:"name"`
	Kind        string     `json:"kind"`
	URL         string     `json:"url,omitempty"`
	Port        int        `json:"port,omitempty"`
	Visible     bool       `json:"visible"`
	IsDead      bool       `json:"is_dead,omitempty"`
	IconPath    string     `json:"icon_path,omitempty"`
	IconStatus  IconStatus `json:"icon_status"`
	Description string     `json:"description,omitempty"`
	LastSeen    *time.Time `json:"last_seen,omitempty"`
}

const (
	KindProcess = "process"
	KindWebsite = "website"
)

func (p *Process) item() Item {
	return Item{
		Name:        p.Name,
		Kind:        KindProcess,
		Port:        p.Port,
		Visible:     p.Visible,
		IsDead:      p.IsDead,
		IconPath:    p.IconPath,
		IconStatus:  p.IconStatus,
		Description: p.Description,
		LastSeen:    p.LastSeen,
	}
}

func (w *Website) item() Item {
	return Item{
		Name:        w.Name,
		Kind:        KindWebsite,
		URL:         w.URL,
		Visible:     w.Visible,
		IconPath:    w.IconPath,
		IconStatus:  w.IconStatus,
		Description: w.Description,
	}
}
