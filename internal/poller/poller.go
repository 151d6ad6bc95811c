// Package poller runs periodic work tied to a context's lifetime.
package poller

import (
	"context"
	"time"
)

// ClockLayout is the UTC timestamp format shown next to charts.
const ClockLayout = "2006-01-02 15:04:05"

// Run calls fn once per interval until ctx is done. Run blocks; fn is never
// invoked after Run returns. A non-positive interval returns immediately.
func Run(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A tick and cancellation can be ready together.
			if ctx.Err() != nil {
				return
			}
			fn(ctx)
		}
	}
}

// Clock emits the current UTC time formatted with ClockLayout immediately and
// then on every tick until ctx is done.
func Clock(ctx context.Context, interval time.Duration, now func() time.Time, emit func(string)) {
	if now == nil {
		now = time.Now
	}
	emit(FormatClock(now()))
	Run(ctx, interval, func(context.Context) {
		emit(FormatClock(now()))
	})
}

func FormatClock(t time.Time) string {
	return t.UTC().Format(ClockLayout)
}
