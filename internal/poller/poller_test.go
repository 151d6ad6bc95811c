package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRun_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan struct{})

	go func() {
		Run(ctx, 5*time.Millisecond, func(context.Context) {
			if calls.Add(1) == 3 {
				cancel()
			}
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
	assert.GreaterOrEqual(t, after, int32(3))
}

func TestRun_NonPositiveInterval(t *testing.T) {
	t.Parallel()

	called := false
	Run(context.Background(), 0, func(context.Context) { called = true })
	assert.False(t, called)
}

func TestClock_EmitsImmediately(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fixed := time.Date(2025, 3, 6, 7, 27, 32, 0, time.FixedZone("IST", 5*3600+1800))
	var got []string
	Clock(ctx, time.Second, func() time.Time { return fixed }, func(s string) { got = append(got, s) })

	assert.Equal(t, []string{"2025-03-06 01:57:32"}, got)
}

func TestFormatClock(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2025-03-06 05:57:00", FormatClock(time.Date(2025, 3, 6, 5, 57, 0, 0, time.UTC)))
}
