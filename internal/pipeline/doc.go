// Package pipeline regenerates icon artifacts for items through four ordered
// stages: summary, icon prompt, intermediate image, final transparent icon.
// Each stage runs only when its upstream artifact is newer, so rewriting an
// upstream file cascades regeneration through everything below it. A bounded
// dedup queue feeds a single worker, keeping at most one execution in flight.
package pipeline
