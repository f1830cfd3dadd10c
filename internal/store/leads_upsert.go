package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"leadengine/internal/domain"
	"leadengine/internal/lead"
)

// RowFromLead flattens a pipeline lead into the persisted shape.
func RowFromLead(l domain.Lead) Lead {
	created := l.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	row := Lead{
		Title:       lead.NormalizeAddress(l.Title),
		Link:        l.Link,
		Description: l.Description,
		City:        l.City,
		State:       l.State,
		Zip:         l.Zip,
		Price:       l.Price,
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		ARV:         l.ARV,
		Equity:      l.Equity,
		HotLead:     l.HotLead,
		Score:       l.Score,
		Motivation:  l.Motivation,
		Source:      l.Source,
		CreatedAt:   created.Format(time.RFC3339),
		DedupeKey:   lead.DedupeKey(l.Title, l.Link),
	}
	if l.DatePosted != nil {
		row.DatePosted = l.DatePosted.UTC().Format(time.RFC3339)
	}
	return row
}

// UpsertLead inserts a lead keyed on dedupe_key. When the key already
// exists (another source or a racing run got there first) the derived
// fields are refreshed instead, keeping equity/hot_lead/score
// consistent with price and arv. Returns whether a new row was added.
func UpsertLead(ctx context.Context, db *sql.DB, l Lead) (added bool, err error) {
	if l.DedupeKey == "" {
		return false, errors.New("missing dedupe key")
	}
	if l.Title == "" {
		return false, errors.New("missing title")
	}
	if l.CreatedAt == "" {
		l.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	motB, _ := json.Marshal(l.Motivation)

	res, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO leads(dedupe_key, title, link, description, city, state, zip,
  price, latitude, longitude, arv, equity, hot_lead, score, motivation,
  source, date_posted, created_at)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);`,
		l.DedupeKey, l.Title, l.Link, l.Description, l.City, l.State, l.Zip,
		l.Price, l.Latitude, l.Longitude, l.ARV, l.Equity,
		boolInt(l.HotLead), l.Score, string(motB),
		l.Source, nullIfEmpty(l.DatePosted), l.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert lead: %w", err)
	}

	n, _ := res.RowsAffected()
	if n > 0 {
		return true, nil
	}

	// already existed: write-through the recomputed derived fields
	_, err = db.ExecContext(ctx, `
UPDATE leads
SET price = ?, latitude = COALESCE(?, latitude), longitude = COALESCE(?, longitude),
    arv = ?, equity = ?, hot_lead = ?, score = ?, motivation = ?
WHERE dedupe_key = ?;`,
		l.Price, l.Latitude, l.Longitude, l.ARV, l.Equity,
		boolInt(l.HotLead), l.Score, string(motB), l.DedupeKey,
	)
	if err != nil {
		return false, fmt.Errorf("refresh lead: %w", err)
	}
	return false, nil
}

// KnownKeys loads every dedupe key currently persisted. Fetched fresh
// each run so repeated runs stay reproducible.
func KnownKeys(ctx context.Context, db *sql.DB) (map[string]struct{}, error) {
	rows, err := db.QueryContext(ctx, `SELECT dedupe_key FROM leads;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys[k] = struct{}{}
	}
	return keys, rows.Err()
}

// UpdateEnrichment overwrites the enrichment and derived fields of one
// lead, used by manual refresh.
func UpdateEnrichment(ctx context.Context, db *sql.DB, id int64, l Lead) error {
	motB, _ := json.Marshal(l.Motivation)
	_, err := db.ExecContext(ctx, `
UPDATE leads
SET latitude = ?, longitude = ?, arv = ?, equity = ?, hot_lead = ?, score = ?, motivation = ?
WHERE id = ?;`,
		l.Latitude, l.Longitude, l.ARV, l.Equity,
		boolInt(l.HotLead), l.Score, string(motB), id,
	)
	return err
}

func DeleteLead(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM leads WHERE id = ?;`, id)
	return err
}

func DeleteAllLeads(ctx context.Context, db *sql.DB) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM leads;`)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
