// Package artifact manages the per-item artifact chain on disk and decides,
// from file modification times alone, which stages are out of date.
package artifact
