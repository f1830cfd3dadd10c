package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leadengine/internal/domain"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db.Pool))
	return db.Pool
}

func i64(n int64) *int64 { return &n }

func TestUpsertLead_InsertThenDuplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	row := RowFromLead(domain.Lead{
		Title:  "123 Main St",
		Price:  i64(150000),
		ARV:    i64(220000),
		Equity: i64(70000),
		Source: "craigslist",
	})

	added, err := UpsertLead(ctx, db, row)
	require.NoError(t, err)
	require.True(t, added)

	// same key again: not added, derived fields refreshed
	row.ARV = i64(230000)
	row.Equity = i64(80000)
	added, err = UpsertLead(ctx, db, row)
	require.NoError(t, err)
	require.False(t, added)

	leads, err := ListLeads(ctx, db, ListLeadsOpts{})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	require.EqualValues(t, 230000, *leads[0].ARV)
	require.EqualValues(t, 80000, *leads[0].Equity)
}

func TestUpsertLead_LinkWinsOverTitle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := RowFromLead(domain.Lead{Title: "Cozy fixer upper", Link: "https://x.test/1", Source: "craigslist"})
	b := RowFromLead(domain.Lead{Title: "Cozy fixer upper", Link: "https://x.test/2", Source: "facebook"})

	added, err := UpsertLead(ctx, db, a)
	require.NoError(t, err)
	require.True(t, added)

	added, err = UpsertLead(ctx, db, b)
	require.NoError(t, err)
	require.True(t, added, "different links are different leads")
}

func TestKnownKeys(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := UpsertLead(ctx, db, RowFromLead(domain.Lead{Title: "123 Main St", Source: "craigslist"}))
	require.NoError(t, err)
	_, err = UpsertLead(ctx, db, RowFromLead(domain.Lead{Title: "456 Oak Ave", Link: "https://x.test/456", Source: "zillow_fsbo"}))
	require.NoError(t, err)

	keys, err := KnownKeys(ctx, db)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	require.Contains(t, keys, "123 main st")
	require.Contains(t, keys, "https://x.test/456")
}

func TestListLeads_Filters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	hot := RowFromLead(domain.Lead{
		Title: "Hot One", Price: i64(100000), ARV: i64(200000), Equity: i64(100000),
		HotLead: true, Score: 250, Source: "craigslist",
	})
	cold := RowFromLead(domain.Lead{
		Title: "Cold One", Price: i64(200000), ARV: i64(210000), Equity: i64(10000),
		Score: 214, Source: "zillow_fsbo",
	})
	for _, r := range []Lead{hot, cold} {
		_, err := UpsertLead(ctx, db, r)
		require.NoError(t, err)
	}

	got, err := ListLeads(ctx, db, ListLeadsOpts{HotOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Hot One", got[0].Title)

	got, err = ListLeads(ctx, db, ListLeadsOpts{Source: "zillow_fsbo"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Cold One", got[0].Title)

	// default sort is score desc
	got, err = ListLeads(ctx, db, ListLeadsOpts{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Hot One", got[0].Title)
}

func TestGetLead_And_Delete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seeded, err := SeedLead(ctx, db)
	require.NoError(t, err)

	got, err := GetLead(ctx, db, seeded.ID)
	require.NoError(t, err)
	require.Equal(t, "123 Main St", got.Title)
	require.True(t, got.HotLead)

	require.NoError(t, DeleteLead(ctx, db, seeded.ID))
	_, err = GetLead(ctx, db, seeded.ID)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUpdateEnrichment_WritesThroughDerivedFields(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	row := RowFromLead(domain.Lead{Title: "789 Pine Rd", Price: i64(90000), Source: "csv_upload"})
	_, err := UpsertLead(ctx, db, row)
	require.NoError(t, err)

	leads, err := ListLeads(ctx, db, ListLeadsOpts{})
	require.NoError(t, err)
	require.Len(t, leads, 1)

	lat, lng := 32.7, -96.8
	upd := leads[0]
	upd.Latitude, upd.Longitude = &lat, &lng
	upd.ARV = i64(150000)
	upd.Equity = i64(60000)
	upd.HotLead = true
	upd.Score = 190
	require.NoError(t, UpdateEnrichment(ctx, db, leads[0].ID, upd))

	got, err := GetLead(ctx, db, leads[0].ID)
	require.NoError(t, err)
	require.EqualValues(t, 150000, *got.ARV)
	require.EqualValues(t, 60000, *got.Equity)
	require.True(t, got.HotLead)
	require.NotEmpty(t, got.GoogleMaps)
	require.NotEmpty(t, got.StreetView)
}

func TestDeleteAllLeads(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, title := range []string{"A St", "B St", "C St"} {
		_, err := UpsertLead(ctx, db, RowFromLead(domain.Lead{Title: title, Source: "csv_upload"}))
		require.NoError(t, err)
	}

	n, err := DeleteAllLeads(ctx, db)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}

func TestCleanupOldLeads(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	old := RowFromLead(domain.Lead{Title: "Ancient", Source: "csv_upload"})
	old.CreatedAt = time.Now().UTC().AddDate(0, 0, -120).Format(time.RFC3339)
	_, err := UpsertLead(ctx, db, old)
	require.NoError(t, err)

	fresh := RowFromLead(domain.Lead{Title: "Fresh", Source: "csv_upload"})
	_, err = UpsertLead(ctx, db, fresh)
	require.NoError(t, err)

	n, err := CleanupOldLeads(db, 90)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	// 0 disables cleanup
	n, err = CleanupOldLeads(db, 0)
	require.NoError(t, err)
	require.Zero(t, n)
}
