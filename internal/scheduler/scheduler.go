package scheduler

import (
	"context"
	"time"
)

// Every runs fn on a fixed period, first run after one full period.
// Used for housekeeping like deleting stale leads.
func Every(ctx context.Context, d time.Duration, fn func(ctx context.Context)) {
	t := time.NewTicker(d)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fn(ctx)
		}
	}
}
