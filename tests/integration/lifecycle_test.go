package integration

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bits-lost-found/go-backend/internal/claims"
	"github.com/bits-lost-found/go-backend/internal/items"
)

// The full report -> list -> claim -> remove -> list cycle, with the listing
// cache in between. The claim removal reverts the item to FOUND with the
// last claimant as holder.
func TestItemLifecycle_ReportClaimRemove(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	cache := items.NewListingCache(rdb, time.Minute)

	itemSvc := items.NewService(items.NewRepo(db), nil, cache)
	claimSvc := claims.NewService(claims.NewRepo(db), cache, claims.RevertToClaimant, 7)

	ctx := context.Background()
	const (
		reporter = int64(1) // U1
		claimant = int64(2) // U2
		itemID   = int64(21)
		claimID  = int64(301)
	)

	listCols := []string{
		"item_id", "item_name", "description", "location_found", "date_found",
		"image_url", "category_name", "name", "holder_phone", "holder_room",
	}
	dateFound := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	// Report "Blue Umbrella".
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM categories").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec("UPDATE users SET phone").WithArgs(reporter, "111", "A-101").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO items").
		WithArgs("Blue Umbrella", "", "Library", dateFound, "", reporter, "111", "A-101", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"item_id"}).AddRow(itemID))
	mock.ExpectCommit()

	gotItem, err := itemSvc.Report(ctx, items.ReportInput{
		Name: "Blue Umbrella", Location: "Library", DateFound: dateFound,
		CategoryID: 3, ReporterID: reporter, Phone: "111", Room: "A-101",
	})
	require.NoError(t, err)
	assert.Equal(t, itemID, gotItem)

	// Listing includes the new item and warms the cache.
	mock.ExpectQuery(`WHERE i\.status = 'FOUND'`).
		WillReturnRows(sqlmock.NewRows(listCols).
			AddRow(itemID, "Blue Umbrella", "", "Library", dateFound, "", "Other", "U1", "111", "A-101"))

	views, err := itemSvc.List(ctx, items.ListFilters{})
	require.NoError(t, err)
	require.Len(t, views, 1)

	// Cached now: a second listing issues no query.
	views, err = itemSvc.List(ctx, items.ListFilters{})
	require.NoError(t, err)
	require.Len(t, views, 1)

	// U2 claims the item.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM items").WithArgs(itemID).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("FOUND"))
	mock.ExpectQuery("SELECT 1 FROM users").WithArgs(claimant).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO claims").
		WithArgs(itemID, claimant, 7, "222", "B-202").
		WillReturnRows(sqlmock.NewRows([]string{"claim_id"}).AddRow(claimID))
	mock.ExpectExec("INSERT INTO claimant_id_details").
		WithArgs(claimID, "bits_id", "2021A7PS0002H").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE items").WithArgs(itemID, claimant, "222", "B-202").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	gotClaim, err := claimSvc.Claim(ctx, itemID, claimant,
		claims.Contact{Phone: "222", Room: "B-202"},
		claims.IDDetails{Type: "bits_id", Number: "2021A7PS0002H"})
	require.NoError(t, err)
	assert.Equal(t, claimID, gotClaim)

	// The claim invalidated the cache; the CLAIMED item no longer lists.
	mock.ExpectQuery(`WHERE i\.status = 'FOUND'`).
		WillReturnRows(sqlmock.NewRows(listCols))

	views, err = itemSvc.List(ctx, items.ListFilters{})
	require.NoError(t, err)
	assert.Empty(t, views)

	// Removing the claim reverts the item to FOUND, held by U2.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT c.item_id, c.claimed_by").WithArgs(claimID).
		WillReturnRows(sqlmock.NewRows(
			[]string{"item_id", "claimed_by", "uploaded_by", "phone", "room"}).
			AddRow(itemID, claimant, reporter, "222", "B-202"))
	mock.ExpectExec("UPDATE items").WithArgs(itemID, claimant, "222", "B-202").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM claims").WithArgs(claimID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, claimSvc.Remove(ctx, claimID))

	// The item reappears with the last claimant as holder.
	mock.ExpectQuery(`WHERE i\.status = 'FOUND'`).
		WillReturnRows(sqlmock.NewRows(listCols).
			AddRow(itemID, "Blue Umbrella", "", "Library", dateFound, "", "Other", "U2", "222", "B-202"))

	views, err = itemSvc.List(ctx, items.ListFilters{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "U2", views[0].HolderName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// A removed claim frees the item for the next claimant.
func TestReclaimAfterRemove(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := claims.NewService(claims.NewRepo(db), nil, claims.RevertToClaimant, 7)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT c.item_id, c.claimed_by").WithArgs(int64(301)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"item_id", "claimed_by", "uploaded_by", "phone", "room"}).
			AddRow(int64(21), int64(2), int64(1), "222", "B-202"))
	mock.ExpectExec("UPDATE items").WithArgs(int64(21), int64(2), "222", "B-202").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM claims").WithArgs(int64(301)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.Remove(ctx, 301))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM items").WithArgs(int64(21)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("FOUND"))
	mock.ExpectQuery("SELECT 1 FROM users").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO claims").
		WithArgs(int64(21), int64(3), 7, "333", "C-303").
		WillReturnRows(sqlmock.NewRows([]string{"claim_id"}).AddRow(int64(302)))
	mock.ExpectExec("INSERT INTO claimant_id_details").
		WithArgs(int64(302), "bits_id", "2021A7PS0003H").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE items").WithArgs(int64(21), int64(3), "333", "C-303").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := svc.Claim(ctx, 21, 3,
		claims.Contact{Phone: "333", Room: "C-303"},
		claims.IDDetails{Type: "bits_id", Number: "2021A7PS0003H"})
	require.NoError(t, err)
	assert.Equal(t, int64(302), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
