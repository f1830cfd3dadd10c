package httpapi

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"leadengine/internal/config"
	"leadengine/internal/events"
	"leadengine/internal/scrape"
)

type ScrapeHandler struct {
	Runner *scrape.Runner
	CfgVal *atomic.Value // config.Config
	Hub    *events.Hub
}

func (h ScrapeHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Runner.Status())
}

// Run kicks a cycle off in the background; the caller watches /events
// or polls /scrape/status for the outcome.
func (h ScrapeHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h.Runner.Status().Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	reqID := RequestIDFrom(r.Context())
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		cfg := h.CfgVal.Load().(config.Config)
		added, err := h.Runner.Run(ctx, cfg)

		data := map[string]any{"added": added}
		if err != nil {
			data["error"] = err.Error()
		}
		h.Hub.Publish(events.MakeEvent(reqID, events.TypeScrapeFinished, 1, data))
	}()

	writeJSON(w, map[string]any{"ok": true})
}
