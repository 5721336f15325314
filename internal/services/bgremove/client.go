// Package bgremove wraps the external background removal tool that turns an
// opaque render into a transparent icon.
package bgremove

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

var commandContext = exec.CommandContext

const defaultTimeout = 2 * time.Minute

// Client defines background removal behaviour.
type Client interface {
	Remove(ctx context.Context, inputPath, outputPath string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithTimeout overrides the default per-invocation timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *CLI) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// CLI wraps the background removal command-line tool.
type CLI struct {
	binary  string
	timeout time.Duration
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "remove-background", timeout: defaultTimeout}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Binary returns the configured binary name.
func (c *CLI) Binary() string { return c.binary }

// Remove strips the background from inputPath and writes the result to
// outputPath.
func (c *CLI) Remove(ctx context.Context, inputPath, outputPath string) error {
	if inputPath == "" {
		return errors.New("input path required")
	}
	if outputPath == "" {
		return errors.New("output path required")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := commandContext(ctx, c.binary, inputPath, outputPath) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("background removal timed out after %s", c.timeout)
		}
		return fmt.Errorf("background removal failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

var _ Client = (*CLI)(nil)
