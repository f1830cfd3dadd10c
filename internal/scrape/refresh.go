package scrape

import (
	"context"
	"time"

	"leadengine/internal/config"
	"leadengine/internal/domain"
	"leadengine/internal/store"
)

// ProcessBatch runs the dedupe/enrich/score/persist stage over leads
// that did not come from a scrape cycle (CSV uploads, seeds).
func (r *Runner) ProcessBatch(ctx context.Context, cfg config.Config, leads []domain.Lead) (int, error) {
	kept := leads[:0]
	for _, l := range leads {
		if KeepLead(cfg, l) {
			kept = append(kept, l)
		}
	}
	return ProcessLeads(ctx, ProcessDeps{
		DB:       r.DB,
		Enricher: r.buildEnricher(cfg),
		Scorer:   ScorerFromConfig(cfg),
		OnNew:    r.OnNew,
	}, kept)
}

// RefreshLead re-runs enrichment and scoring for one stored lead,
// discarding its previous ARV so the comps estimate is recomputed.
func (r *Runner) RefreshLead(ctx context.Context, cfg config.Config, id int64) (store.Lead, error) {
	row, err := store.GetLead(ctx, r.DB, id)
	if err != nil {
		return store.Lead{}, err
	}

	l := domain.Lead{
		Title:       row.Title,
		Link:        row.Link,
		Description: row.Description,
		City:        row.City,
		State:       row.State,
		Zip:         row.Zip,
		Price:       row.Price,
		Latitude:    row.Latitude,
		Longitude:   row.Longitude,
		Source:      row.Source,
		CreatedAt:   time.Now().UTC(),
	}

	if e := r.buildEnricher(cfg); e != nil {
		e.Enrich(ctx, &l)
	}

	sc := ScorerFromConfig(cfg).Score(l.Price, l.ARV, l.Title+" "+l.Description)
	l.Equity = sc.Equity
	l.HotLead = sc.HotLead
	l.Score = sc.Score
	l.Motivation = sc.Motivation

	if err := store.UpdateEnrichment(ctx, r.DB, id, store.RowFromLead(l)); err != nil {
		return store.Lead{}, err
	}
	return store.GetLead(ctx, r.DB, id)
}
