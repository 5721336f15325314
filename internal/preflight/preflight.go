package preflight

import (
	"context"

	"iconforge/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Artifacts directory", cfg.Paths.ArtifactsDir))
	results = append(results, CheckDirectoryAccess("Icons directory", cfg.Paths.IconsDir))
	results = append(results, CheckDiskSpace("Artifacts disk space", cfg.Paths.ArtifactsDir))
	results = append(results, CheckTextGen(ctx, "Text generation API", cfg.GetTextGen()))

	return results
}
