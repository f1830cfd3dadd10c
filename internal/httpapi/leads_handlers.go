package httpapi

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"leadengine/internal/config"
	"leadengine/internal/csvio"
	"leadengine/internal/events"
	"leadengine/internal/scrape"
	"leadengine/internal/store"
)

type LeadsHandler struct {
	DB     *sql.DB
	Hub    *events.Hub
	Runner *scrape.Runner
	CfgVal *atomic.Value // config.Config
}

func (h LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	leads, err := store.ListLeads(r.Context(), h.DB, store.ListLeadsOpts{
		Source:  q.Get("source"),
		HotOnly: q.Get("hot") == "1" || q.Get("hot") == "true",
		Window:  q.Get("window"),
		Sort:    q.Get("sort"),
		Limit:   50000,
	})
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, leads)
}

func (h LeadsHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/leads/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", 400)
		return
	}

	if err := store.DeleteLead(r.Context(), h.DB, id); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeLeadDeleted, 1, map[string]any{"id": id}))
	writeJSON(w, map[string]any{"ok": true, "id": id})
}

func (h LeadsHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	n, err := store.DeleteAllLeads(r.Context(), h.DB)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeLeadsCleared, 1, map[string]any{"deleted": n}))
	writeJSON(w, map[string]any{"ok": true, "deleted": n})
}

// RefreshByPath handles POST /leads/{id}/refresh: re-geocode,
// re-estimate ARV, re-score one lead.
func (h LeadsHandler) RefreshByPath(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/leads/")
	idStr, ok := strings.CutSuffix(rest, "/refresh")
	if !ok {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", 400)
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	row, err := h.Runner.RefreshLead(r.Context(), cfg, id)
	if errors.Is(err, sql.ErrNoRows) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, row)
}

func (h LeadsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	leads, err := store.ListLeads(r.Context(), h.DB, store.ListLeadsOpts{
		Source:  q.Get("source"),
		HotOnly: q.Get("hot") == "1" || q.Get("hot") == "true",
		Window:  q.Get("window"),
		Sort:    q.Get("sort"),
		Limit:   50000,
	})
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)
	if err := csvio.WriteLeads(w, leads); err != nil {
		// headers already sent, nothing sane to do but log via access log status
		return
	}
}

// UploadCSV ingests a PropStream export. Accepts either a multipart
// form with a "file" field or a raw text/csv body.
func (h LeadsHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if ct := r.Header.Get("Content-Type"); strings.HasPrefix(ct, "multipart/form-data") {
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file field", 400)
			return
		}
		defer f.Close()
		body = f
	}

	leads, err := csvio.ReadPropStream(body)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	added, err := h.Runner.ProcessBatch(r.Context(), cfg, leads)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, map[string]any{"ok": true, "parsed": len(leads), "added": added})
}

func (h LeadsHandler) Seed(w http.ResponseWriter, r *http.Request) {
	leadRow, err := store.SeedLead(r.Context(), h.DB)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeLeadCreated, 1, map[string]any{"id": leadRow.ID}))
	writeJSON(w, leadRow)
}
