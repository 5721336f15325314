// Package imagegen wraps the external image generation tool that renders a
// prompt into a raster image.
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

var commandContext = exec.CommandContext

const defaultTimeout = 5 * time.Minute

// Client defines image generation behaviour.
type Client interface {
	Generate(ctx context.Context, prompt string, width, height int, outputPath string) error
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

// WithTimeout overrides the default per-invocation timeout. Rendering is the
// slowest stage of the pipeline, so the default is generous.
func WithTimeout(timeout time.Duration) Option {
	return func(c *CLI) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// CLI wraps the image generation command-line tool.
type CLI struct {
	binary  string
	timeout time.Duration
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "generate-image", timeout: defaultTimeout}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Binary returns the configured binary name.
func (c *CLI) Binary() string { return c.binary }

// Generate renders the prompt to an image file at outputPath.
func (c *CLI) Generate(ctx context.Context, prompt string, width, height int, outputPath string) error {
	if strings.TrimSpace(prompt) == "" {
		return errors.New("prompt required")
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if outputPath == "" {
		return errors.New("output path required")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := []string{
		"--prompt", prompt,
		"--width", strconv.Itoa(width),
		"--height", strconv.Itoa(height),
		"--output", outputPath,
	}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("image generation timed out after %s", c.timeout)
		}
		return fmt.Errorf("image generation failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

var _ Client = (*CLI)(nil)
