package service

import (
	"context"
	"sync"
	"time"

	"CapIot.energyportal/internal/poller"
)

// Clock keeps the UTC time string shown next to the charts.
type Clock struct {
	mu  sync.RWMutex
	now string
}

// Run ticks the clock until ctx is done.
func (c *Clock) Run(ctx context.Context, interval time.Duration) {
	poller.Clock(ctx, interval, time.Now, func(s string) {
		c.mu.Lock()
		c.now = s
		c.mu.Unlock()
	})
}

// Now returns the last tick, or the current time if the clock never ran.
func (c *Clock) Now() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.now == "" {
		return poller.FormatClock(time.Now())
	}
	return c.now
}
