// Package state stores item metadata as a single durable JSON snapshot.
// Writes are merge-preserving: a mutation only touches the fields it names,
// and the whole snapshot is rewritten atomically on every change.
package state
