// Package daemon assembles the icon pipeline, state store, and HTTP API into
// a single long-running process guarded by a file lock.
package daemon
