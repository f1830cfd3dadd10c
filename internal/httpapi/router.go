package httpapi

import "net/http"

// NewMux wires every route; main() wraps the result in the middleware
// chain before serving.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Leads
	lh := LeadsHandler{DB: d.DB, Hub: d.Hub, Runner: d.Runner, CfgVal: d.CfgVal}
	mux.HandleFunc("/leads", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    lh.List,
		http.MethodDelete: lh.DeleteAll,
	}))
	mux.HandleFunc("/leads/export.csv", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.ExportCSV,
	}))
	mux.HandleFunc("/leads/", methodMux(map[string]http.HandlerFunc{
		http.MethodDelete: lh.DeleteByPath,  // /leads/{id}
		http.MethodPost:   lh.RefreshByPath, // /leads/{id}/refresh
	}))
	mux.HandleFunc("/upload/csv", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: lh.UploadCSV,
	}))
	mux.HandleFunc("/seed", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: lh.Seed,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		Hub:         d.Hub,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sh := SecretsHandler{}
	mux.HandleFunc("/api/secrets/geocoder", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetGeocoderKey,
	}))
	mux.HandleFunc("/api/secrets/comps", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetCompsKey,
	}))

	// Scrape
	sch := ScrapeHandler{Runner: d.Runner, CfgVal: d.CfgVal, Hub: d.Hub}
	mux.HandleFunc("/scrape/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sch.Status,
	}))
	mux.HandleFunc("/scrape/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sch.Run,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Health + maintenance
	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))
	dh := DBHandler{DB: d.DB}
	mux.HandleFunc("/db/checkpoint", dh.Checkpoint)

	return mux
}
