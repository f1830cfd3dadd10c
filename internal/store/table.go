package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type Lead struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Description string   `json:"description"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Zip         string   `json:"zip"`
	Price       *int64   `json:"price"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	ARV         *int64   `json:"arv"`
	Equity      *int64   `json:"equity"`
	HotLead     bool     `json:"hotLead"`
	Score       float64  `json:"score"`
	Motivation  []string `json:"motivation"`
	Source      string   `json:"source"`
	DatePosted  string   `json:"datePosted"`
	CreatedAt   string   `json:"createdAt"`
	GoogleMaps  string   `json:"googleMaps"`
	StreetView  string   `json:"streetView"`
	DedupeKey   string   `json:"-"`
}

type ListLeadsOpts struct {
	Source  string // empty = all
	HotOnly bool
	Window  string // 24h | 7d | all
	Sort    string // score | created | price | equity
	Limit   int
}

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1 ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS leads (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  dedupe_key TEXT NOT NULL,
  title TEXT NOT NULL,
  link TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  zip TEXT NOT NULL DEFAULT '',
  price INTEGER,
  latitude REAL,
  longitude REAL,
  arv INTEGER,
  equity INTEGER,
  hot_lead INTEGER NOT NULL DEFAULT 0,
  score REAL NOT NULL DEFAULT 0,
  motivation TEXT NOT NULL DEFAULT '[]',
  source TEXT NOT NULL,
  date_posted TEXT,
  created_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_leads_dedupe_key
ON leads(dedupe_key);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_leads_created_at
ON leads(created_at);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_leads_source
ON leads(source);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_leads_hot
ON leads(hot_lead)
WHERE hot_lead = 1;
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

func ListLeads(ctx context.Context, db *sql.DB, opts ListLeadsOpts) ([]Lead, error) {
	if opts.Sort == "" {
		opts.Sort = "score"
	}
	if opts.Window == "" {
		opts.Window = "all"
	}
	if opts.Limit <= 0 {
		opts.Limit = 500
	}

	// whitelist sort columns (prevents SQL injection)
	sortCol := map[string]string{
		"score":   "score DESC",
		"created": "created_at DESC",
		"price":   "price ASC",
		"equity":  "equity DESC",
	}[opts.Sort]
	if sortCol == "" {
		sortCol = "score DESC"
	}

	where := "WHERE 1=1"
	args := []any{}
	switch opts.Window {
	case "24h":
		where += " AND created_at >= datetime('now','-24 hours')"
	case "7d":
		where += " AND created_at >= datetime('now','-7 days')"
	}
	if opts.Source != "" {
		where += " AND source = ?"
		args = append(args, opts.Source)
	}
	if opts.HotOnly {
		where += " AND hot_lead = 1"
	}
	args = append(args, opts.Limit)

	query := fmt.Sprintf(`
SELECT id, dedupe_key, title, link, description, city, state, zip,
       price, latitude, longitude, arv, equity, hot_lead, score,
       motivation, source, date_posted, created_at
FROM leads
%s
ORDER BY %s
LIMIT ?;
`, where, sortCol)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func GetLead(ctx context.Context, db *sql.DB, id int64) (Lead, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, dedupe_key, title, link, description, city, state, zip,
       price, latitude, longitude, arv, equity, hot_lead, score,
       motivation, source, date_posted, created_at
FROM leads
WHERE id = ?
LIMIT 1;`, id)
	if err != nil {
		return Lead{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Lead{}, err
		}
		return Lead{}, sql.ErrNoRows
	}
	return scanLead(rows)
}

func GetLeadByKey(ctx context.Context, db *sql.DB, key string) (Lead, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, dedupe_key, title, link, description, city, state, zip,
       price, latitude, longitude, arv, equity, hot_lead, score,
       motivation, source, date_posted, created_at
FROM leads
WHERE dedupe_key = ?
LIMIT 1;`, key)
	if err != nil {
		return Lead{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Lead{}, err
		}
		return Lead{}, sql.ErrNoRows
	}
	return scanLead(rows)
}

func scanLead(rows *sql.Rows) (Lead, error) {
	var l Lead
	var price, arv, equity sql.NullInt64
	var lat, lng sql.NullFloat64
	var hot int
	var motivationJSON string
	var datePosted sql.NullString

	if err := rows.Scan(
		&l.ID, &l.DedupeKey, &l.Title, &l.Link, &l.Description,
		&l.City, &l.State, &l.Zip,
		&price, &lat, &lng, &arv, &equity, &hot, &l.Score,
		&motivationJSON, &l.Source, &datePosted, &l.CreatedAt,
	); err != nil {
		return Lead{}, err
	}

	if price.Valid {
		l.Price = &price.Int64
	}
	if lat.Valid {
		l.Latitude = &lat.Float64
	}
	if lng.Valid {
		l.Longitude = &lng.Float64
	}
	if arv.Valid {
		l.ARV = &arv.Int64
	}
	if equity.Valid {
		l.Equity = &equity.Int64
	}
	l.HotLead = hot != 0
	l.DatePosted = datePosted.String
	_ = json.Unmarshal([]byte(motivationJSON), &l.Motivation)

	// convenience links for the dashboard map view
	if l.Latitude != nil && l.Longitude != nil {
		l.GoogleMaps = fmt.Sprintf("https://www.google.com/maps?q=%f,%f", *l.Latitude, *l.Longitude)
		l.StreetView = fmt.Sprintf(
			"https://www.google.com/maps/@?api=1&map_action=pano&viewpoint=%f,%f",
			*l.Latitude, *l.Longitude)
	}
	return l, nil
}

func SeedLead(ctx context.Context, db *sql.DB) (Lead, error) {
	price, arv, equity := int64(150000), int64(220000), int64(70000)
	l := Lead{
		Title:      "123 Main St",
		City:       "Dallas",
		State:      "TX",
		Zip:        "75201",
		Price:      &price,
		ARV:        &arv,
		Equity:     &equity,
		HotLead:    true,
		Score:      251.8,
		Motivation: []string{"vacant"},
		Source:     "csv_upload",
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		DedupeKey:  "123 main st",
	}
	motB, _ := json.Marshal(l.Motivation)
	res, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO leads(dedupe_key, title, city, state, zip, price, arv, equity, hot_lead, score, motivation, source, created_at)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?);`,
		l.DedupeKey, l.Title, l.City, l.State, l.Zip,
		l.Price, l.ARV, l.Equity, 1, l.Score, string(motB), l.Source, l.CreatedAt)
	if err != nil {
		return Lead{}, err
	}
	l.ID, _ = res.LastInsertId()
	return l, nil
}

func CleanupOldLeads(db *sql.DB, maxAgeDays int) (deleted int64, err error) {
	if maxAgeDays <= 0 {
		return 0, nil
	}
	res, err := db.Exec(fmt.Sprintf(`
DELETE FROM leads
WHERE created_at < datetime('now', '-%d days');
`, maxAgeDays))
	if err != nil {
		return 0, fmt.Errorf("cleanup old leads: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
