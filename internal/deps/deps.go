// Package deps checks for the external tools the pipeline shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"iconforge/internal/config"
)

// Requirement defines an external dependency the daemon relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements builds the dependency list for the given configuration.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "image generator",
			Command:     cfg.ImageGen.Binary,
			Description: "renders icon prompts into raster images",
		},
		{
			Name:        "background remover",
			Command:     cfg.BGRemove.Binary,
			Description: "strips flat backgrounds from rendered icons",
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
