package revision_test

import (
	"sync"
	"testing"

	"iconforge/internal/revision"
)

func TestCounterBump(t *testing.T) {
	c := revision.NewCounter()
	if c.Current() != 0 {
		t.Fatalf("initial value = %d", c.Current())
	}
	if got := c.Bump(); got != 1 {
		t.Fatalf("first bump = %d", got)
	}
	if got := c.Bump(); got != 2 {
		t.Fatalf("second bump = %d", got)
	}
	if c.Current() != 2 {
		t.Fatalf("current = %d", c.Current())
	}
}

func TestCounterConcurrentBumps(t *testing.T) {
	c := revision.NewCounter()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.Bump()
			}
		}()
	}
	wg.Wait()
	if c.Current() != 1000 {
		t.Fatalf("current = %d, want 1000", c.Current())
	}
}
