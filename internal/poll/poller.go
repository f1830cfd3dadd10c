package poll

import (
	"context"
	"log"
	"time"
)

// Run fires fn immediately and then on every tick until ctx is done.
// Interval is re-read between cycles so a config save takes effect
// without a restart.
func Run(ctx context.Context, interval func() time.Duration, fn func(ctx context.Context)) {
	fn(ctx)

	for {
		d := interval()
		if d <= 0 {
			d = 30 * time.Minute
		}
		t := time.NewTimer(d)
		select {
		case <-ctx.Done():
			t.Stop()
			log.Printf("[poll] stopped")
			return
		case <-t.C:
			fn(ctx)
		}
	}
}
