package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"leadengine/internal/config"
	"leadengine/internal/events"
	"leadengine/internal/scrape"
	"leadengine/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.DB) {
	t.Helper()

	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.Migrate(db.Pool))

	var cfgVal atomic.Value
	cfgVal.Store(config.Default())

	runner := &scrape.Runner{DB: db.Pool}

	mux := NewMux(Deps{
		DB:          db.Pool,
		Hub:         events.NewHub(),
		Runner:      runner,
		CfgVal:      &cfgVal,
		UserCfgPath: t.TempDir() + "/config.yml",
		LoadCfg:     func() (config.Config, error) { return cfgVal.Load().(config.Config), nil },
	})
	srv := httptest.NewServer(Chain(mux, RequestID, Recover, Cors))
	t.Cleanup(srv.Close)
	return srv, db
}

func TestLeadsListEmpty(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/leads")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var leads []store.Lead
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&leads))
	require.Empty(t, leads)
}

func TestSeedThenListAndDelete(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/seed", "application/json", nil)
	require.NoError(t, err)
	var seeded store.Lead
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&seeded))
	resp.Body.Close()
	require.NotZero(t, seeded.ID)
	require.True(t, seeded.HotLead)

	resp, err = http.Get(srv.URL + "/leads?hot=1")
	require.NoError(t, err)
	var leads []store.Lead
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&leads))
	resp.Body.Close()
	require.Len(t, leads, 1)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/leads/1", nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/leads")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&leads))
	resp.Body.Close()
	require.Empty(t, leads)
}

func TestDeleteInvalidID(t *testing.T) {
	srv, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/leads/abc", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, 400, resp.StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/leads", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestExportCSV(t *testing.T) {
	srv, db := newTestServer(t)
	_, err := store.SeedLead(context.Background(), db.Pool)
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/leads/export.csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/csv", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2, "header plus the seeded lead")
	require.True(t, strings.HasPrefix(lines[0], "title,link,source"))
}

func TestUploadCSV(t *testing.T) {
	srv, _ := newTestServer(t)

	csv := "Property Address,City,State,Zip Code,Amount Owed,Estimated Value\n" +
		"4812 Live Oak St,Dallas,TX,75204,120000,210000\n"
	resp, err := http.Post(srv.URL+"/upload/csv", "text/csv", strings.NewReader(csv))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.EqualValues(t, 1, out["parsed"])
	require.EqualValues(t, 1, out["added"])
}

func TestScrapeStatusDefault(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/scrape/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var st ScrapeStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	require.False(t, st.Running)
	require.Empty(t, st.LastError)
}

func TestConfigGetAndPut(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/config")
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cfg))
	resp.Body.Close()
	require.Equal(t, 38471, cfg.App.Port)

	// invalid policy must be rejected with structured errors
	cfg.Scoring.Policy = "bogus"
	b, _ := json.Marshal(cfg)
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/config", strings.NewReader(string(b)))
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 400, resp.StatusCode)

	var vr config.Validation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&vr))
	require.NotEmpty(t, vr.Errors)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)
}
