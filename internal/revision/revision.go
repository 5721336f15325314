// Package revision tracks a monotonically increasing change counter that
// clients poll to learn when item state has visibly changed.
package revision

import "sync/atomic"

// Counter is a monotonic change counter safe for concurrent use.
type Counter struct {
	value atomic.Uint64
}

// NewCounter returns a counter starting at zero.
func NewCounter() *Counter { return &Counter{} }

// Bump increments the counter and returns the new value.
func (c *Counter) Bump() uint64 { return c.value.Add(1) }

// Current returns the latest value.
func (c *Counter) Current() uint64 { return c.value.Load() }
