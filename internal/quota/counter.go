// Package quota tracks daily generation usage against a configured limit.
package quota

import (
	"sync"
	"time"
)

// Counter records generations per day and enforces a daily limit.
// Thread-safe. The counter resets when the date changes.
type Counter struct {
	mu     sync.Mutex
	limit  int
	used   int
	dayKey string // "2006-01-02" — reset when the date changes
}

// NewCounter creates a counter with the given daily limit.
// A limit of 0 or less means unlimited.
func NewCounter(limit int) *Counter {
	return &Counter{
		limit:  limit,
		dayKey: time.Now().Format("2006-01-02"),
	}
}

// CanGenerate returns true if another generation would stay within the limit.
func (c *Counter) CanGenerate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maybeReset()
	return c.limit <= 0 || c.used < c.limit
}

// Record counts one completed generation.
func (c *Counter) Record() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maybeReset()
	c.used++
}

// Used returns today's usage.
func (c *Counter) Used() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maybeReset()
	return c.used
}

// Remaining returns the remaining daily allowance. Returns -1 if unlimited.
func (c *Counter) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maybeReset()
	if c.limit <= 0 {
		return -1
	}
	remaining := c.limit - c.used
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (c *Counter) maybeReset() {
	today := time.Now().Format("2006-01-02")
	if today != c.dayKey {
		c.dayKey = today
		c.used = 0
	}
}
