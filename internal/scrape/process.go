package scrape

import (
	"context"
	"database/sql"
	"log"

	"leadengine/internal/config"
	"leadengine/internal/domain"
	"leadengine/internal/enrich"
	"leadengine/internal/lead"
	"leadengine/internal/store"
)

// ProcessDeps carries everything the pipeline stage needs. OnNew fires
// once per freshly inserted row, after it is persisted.
type ProcessDeps struct {
	DB       *sql.DB
	Enricher *enrich.Enricher
	Scorer   lead.Scorer
	OnNew    func(row store.Lead)
}

// ScorerFromConfig builds the scorer from the scoring section, falling
// back to the stock thresholds for any knob left at zero.
func ScorerFromConfig(cfg config.Config) lead.Scorer {
	th := lead.DefaultThresholds()
	sc := cfg.Scoring
	if sc.MinEquityRatio > 0 {
		th.MinEquityRatio = sc.MinEquityRatio
	}
	if sc.MinARV > 0 {
		th.MinARV = sc.MinARV
	}
	if sc.MinEquity > 0 {
		th.MinEquity = sc.MinEquity
	}
	if sc.PriceCeiling > 0 {
		th.PriceCeiling = sc.PriceCeiling
	}
	if len(sc.HotWords) > 0 {
		th.HotWords = sc.HotWords
	}
	policy := lead.Policy(sc.Policy)
	if policy == "" {
		policy = lead.PolicyThreshold
	}
	return lead.Scorer{Policy: policy, Thresholds: th}
}

// ProcessLeads dedupes the batch against the store, enriches the
// survivors, scores them, and upserts. Enrichment runs only for leads
// that pass dedupe so geocoder and comps quota is not burned on rows
// we already have. Returns how many new rows were added.
func ProcessLeads(ctx context.Context, deps ProcessDeps, candidates []domain.Lead) (int, error) {
	known, err := store.KnownKeys(ctx, deps.DB)
	if err != nil {
		return 0, err
	}

	fresh := lead.Ingest(candidates, known)
	if len(candidates) > 0 {
		log.Printf("[process] %d candidates, %d new after dedupe", len(candidates), len(fresh))
	}

	added := 0
	for i := range fresh {
		l := &fresh[i]

		if deps.Enricher != nil {
			deps.Enricher.Enrich(ctx, l)
		}

		r := deps.Scorer.Score(l.Price, l.ARV, l.Title+" "+l.Description)
		l.Equity = r.Equity
		l.HotLead = r.HotLead
		l.Score = r.Score
		l.Motivation = r.Motivation

		row := store.RowFromLead(*l)
		wasNew, err := store.UpsertLead(ctx, deps.DB, row)
		if err != nil {
			// one bad row must not sink the batch
			log.Printf("[process] upsert %q: %v", row.Title, err)
			continue
		}
		if wasNew {
			added++
			if deps.OnNew != nil {
				if got, err := store.GetLeadByKey(ctx, deps.DB, row.DedupeKey); err == nil {
					deps.OnNew(got)
				}
			}
		}
	}
	return added, nil
}
