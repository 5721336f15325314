// Package notifications publishes pipeline milestones to an ntfy topic when
// one is configured, and silently drops them otherwise.
package notifications
