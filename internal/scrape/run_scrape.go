package scrape

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"leadengine/internal/config"
	"leadengine/internal/domain"
	"leadengine/internal/enrich"
	"leadengine/internal/scrape/craigslist"
	"leadengine/internal/scrape/facebook"
	"leadengine/internal/scrape/types"
	"leadengine/internal/scrape/util"
	"leadengine/internal/scrape/zillowfsbo"
	"leadengine/internal/store"
)

const perSourceTimeout = 90 * time.Second

// Runner owns one scrape cycle end to end: fan out to the enabled
// sources, filter, enrich, score, persist. Safe for concurrent Run
// calls; overlapping cycles are refused.
type Runner struct {
	DB       *sql.DB
	Limiter  *util.HostLimiter
	GeoKey   func() string // google maps api key, may return ""
	RapidKey func() string // rapidapi key, may return ""
	OnNew    func(row store.Lead)

	running atomic.Bool
	status  atomic.Value // types.ScrapeStatus
}

func (r *Runner) Status() types.ScrapeStatus {
	st, _ := r.status.Load().(types.ScrapeStatus)
	st.Running = r.running.Load()
	return st
}

// Run executes one full cycle and returns how many new leads landed.
// A second Run while one is in flight returns immediately.
func (r *Runner) Run(ctx context.Context, cfg config.Config) (int, error) {
	if !r.running.CompareAndSwap(false, true) {
		log.Printf("[scrape] cycle already running, skipping")
		return 0, nil
	}
	defer r.running.Store(false)

	st := r.Status()
	st.LastRunAt = time.Now().UTC().Format(time.RFC3339)

	fetchers := r.buildFetchers(cfg)
	if len(fetchers) == 0 {
		log.Printf("[scrape] no sources enabled")
		st.LastError = "no sources enabled"
		r.status.Store(st)
		return 0, nil
	}

	var (
		mu         sync.Mutex
		candidates []domain.Lead
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, f := range fetchers {
		f := f
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(gctx, perSourceTimeout)
			defer cancel()

			res, err := f.Fetch(sctx)
			if err != nil {
				// one dead source must not kill the cycle
				log.Printf("[scrape] %s: %v", f.Name(), err)
				return nil
			}
			log.Printf("[scrape] %s: %d listings", f.Name(), len(res.Leads))

			mu.Lock()
			candidates = append(candidates, res.Leads...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		st.LastError = err.Error()
		r.status.Store(st)
		return 0, err
	}

	kept := candidates[:0]
	for _, l := range candidates {
		if KeepLead(cfg, l) {
			kept = append(kept, l)
		}
	}

	added, err := ProcessLeads(ctx, ProcessDeps{
		DB:       r.DB,
		Enricher: r.buildEnricher(cfg),
		Scorer:   ScorerFromConfig(cfg),
		OnNew:    r.OnNew,
	}, kept)
	if err != nil {
		st.LastError = err.Error()
		r.status.Store(st)
		return added, err
	}

	st.LastOkAt = time.Now().UTC().Format(time.RFC3339)
	st.LastError = ""
	st.LastAdded = added
	r.status.Store(st)

	log.Printf("[scrape] cycle done: %d new leads", added)
	return added, nil
}

func (r *Runner) buildFetchers(cfg config.Config) []types.Fetcher {
	var fs []types.Fetcher
	if cfg.Sources.Craigslist.Enabled {
		fs = append(fs, craigslist.New(cfg.Sources.Craigslist, r.Limiter))
	}
	rapidKey := ""
	if r.RapidKey != nil {
		rapidKey = r.RapidKey()
	}
	if cfg.Sources.ZillowFSBO.Enabled {
		fs = append(fs, zillowfsbo.New(cfg.Sources.ZillowFSBO, rapidKey, r.Limiter))
	}
	if cfg.Sources.Facebook.Enabled {
		fs = append(fs, facebook.New(cfg.Sources.Facebook, rapidKey, r.Limiter))
	}
	return fs
}

func (r *Runner) buildEnricher(cfg config.Config) *enrich.Enricher {
	e := &enrich.Enricher{}
	if cfg.Enrichment.GeocodeEnabled && r.GeoKey != nil {
		if k := r.GeoKey(); k != "" {
			e.Geocoder = enrich.NewGoogleGeocoder(k)
		}
	}
	if cfg.Enrichment.ARVEnabled && r.RapidKey != nil {
		if k := r.RapidKey(); k != "" {
			est := enrich.NewCompsEstimator(k)
			if cfg.Enrichment.CompsLimit > 0 {
				est.MaxComps = cfg.Enrichment.CompsLimit
			}
			e.Estimator = est
		}
	}
	if e.Geocoder == nil && e.Estimator == nil {
		return nil
	}
	return e
}
