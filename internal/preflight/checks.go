package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"iconforge/internal/config"
	"iconforge/internal/deps"
	"iconforge/internal/services/textgen"
)

// minFreeBytes is the free-space floor below which icon work is likely to
// fail mid-write.
const minFreeBytes = 256 << 20

// CheckTextGen verifies that the text generation API is reachable and the key
// is valid. It uses a 30-second timeout and a single attempt (no retries).
func CheckTextGen(ctx context.Context, name string, cfg config.TextGenConfig) Result {
	if cfg.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := textgen.NewClient(textgen.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Referer: cfg.Referer,
		Title:   cfg.Title,
	}, textgen.WithRetryMaxAttempts(1))

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeTextGenError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDiskSpace verifies the filesystem holding path has headroom for new
// artifacts.
func CheckDiskSpace(name, path string) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minFreeBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (only %d MiB free)", path, free>>20)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d MiB free)", path, free>>20)}
}

// CheckSystemDeps evaluates all external tool dependencies for the given
// config. Both the daemon and the CLI status command use this to avoid
// duplicating the requirements list.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.Requirements(cfg))
}

// summarizeTextGenError produces a human-readable summary for health check failures.
func summarizeTextGenError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (text API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (text API unreachable)"
	}
	return err.Error()
}
