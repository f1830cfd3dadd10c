package httpapi

import (
	"database/sql"
	"sync/atomic"

	"leadengine/internal/config"
	"leadengine/internal/events"
	"leadengine/internal/scrape"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Runner owns scrape cycles, manual refresh, and batch ingest.
	Runner *scrape.Runner

	// Atomic store of config.Config
	CfgVal *atomic.Value

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
}
