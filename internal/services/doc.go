// Package services defines shared utilities consumed by the pipeline executor
// and the external generation service clients.
//
// Key responsibilities:
//   - Context helpers that stamp item names, stage names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     reporting uniform across stages.
package services
