package items

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bits-lost-found/go-backend/internal/users"
)

func newMock(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepo(db), mock
}

func reportInput() ReportInput {
	return ReportInput{
		Name:        "Blue Umbrella",
		Description: "Left near the entrance",
		Location:    "Library",
		DateFound:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		CategoryID:  3,
		ReporterID:  int64(1),
		Phone:       "9876543210",
		Room:        "MR-214",
	}
}

func TestInsert_CommitsContactAndItemTogether(t *testing.T) {
	repo, mock := newMock(t)
	in := reportInput()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM categories").
		WithArgs(in.CategoryID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec("UPDATE users SET phone").
		WithArgs(in.ReporterID, in.Phone, in.Room).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO items").
		WithArgs(in.Name, in.Description, in.Location, in.DateFound, "",
			in.ReporterID, in.Phone, in.Room, in.CategoryID).
		WillReturnRows(sqlmock.NewRows([]string{"item_id"}).AddRow(int64(11)))
	mock.ExpectCommit()

	id, err := repo.Insert(context.Background(), in, "")
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_InvalidCategoryRollsBack(t *testing.T) {
	repo, mock := newMock(t)
	in := reportInput()
	in.CategoryID = 999

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM categories").
		WithArgs(in.CategoryID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectRollback()

	_, err := repo.Insert(context.Background(), in, "")
	assert.ErrorIs(t, err, ErrInvalidCategory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_UnknownReporterRollsBack(t *testing.T) {
	repo, mock := newMock(t)
	in := reportInput()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM categories").
		WithArgs(in.CategoryID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec("UPDATE users SET phone").
		WithArgs(in.ReporterID, in.Phone, in.Room).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Insert(context.Background(), in, "")
	assert.ErrorIs(t, err, users.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func listRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"item_id", "item_name", "description", "location_found", "date_found",
		"image_url", "category_name", "name", "holder_phone", "holder_room",
	})
}

func TestList_NoFilters(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`WHERE i\.status = 'FOUND'\s+ORDER BY i\.item_id`).
		WillReturnRows(listRows().
			AddRow(int64(11), "Blue Umbrella", "Left near the entrance", "Library",
				time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
				"", "Other", "Asha", "9876543210", "MR-214"))

	views, err := repo.List(context.Background(), ListFilters{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Blue Umbrella", views[0].Name)
	assert.Equal(t, "Asha", views[0].HolderName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_ComposesAllFilters(t *testing.T) {
	repo, mock := newMock(t)

	// Each present filter contributes one positional parameter, in a fixed
	// order: category, recency, location, name.
	mock.ExpectQuery(`(?s)c\.category_name = \$1.*date_found >= \$2.*location_found\) LIKE LOWER\(\$3\).*item_name\) LIKE LOWER\(\$4\)`).
		WithArgs("Other", sqlmock.AnyArg(), "%lib%", "%umbrella%").
		WillReturnRows(listRows())

	_, err := repo.List(context.Background(), ListFilters{
		Category: "Other",
		Days:     30,
		Location: "lib",
		Search:   "umbrella",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_SubsetOfFilters(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`(?s)location_found\) LIKE LOWER\(\$1\)`).
		WithArgs("%lib%").
		WillReturnRows(listRows())

	_, err := repo.List(context.Background(), ListFilters{Location: "lib"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
