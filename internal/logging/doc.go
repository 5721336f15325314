// Package logging assembles structured slog loggers and formatting helpers
// used across iconforge services.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can
// automatically tag log lines with item names, stages, and correlation IDs.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components
// emit data with the same shape and routing as the rest of the system.
package logging
