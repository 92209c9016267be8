package database

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/rgrier/pageharvest/internal/scraper"
)

func TestNewRecordStoreWithPool(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	t.Run("defaults table name", func(t *testing.T) {
		store, err := NewRecordStoreWithPool(mock, "")
		require.NoError(t, err)
		require.Equal(t, "records", store.table)
	})

	t.Run("rejects invalid table name", func(t *testing.T) {
		_, err := NewRecordStoreWithPool(mock, "records; DROP TABLE records")
		require.Error(t, err)
	})

	t.Run("rejects nil pool", func(t *testing.T) {
		_, err := NewRecordStoreWithPool(nil, "records")
		require.Error(t, err)
	})
}

func TestSaveRecord(t *testing.T) {
	rec := scraper.Record{
		URL:      "https://example.com/page",
		Title:    "Example Page",
		Headings: []string{"Intro", "Details"},
		Links:    []string{"https://example.com/a", "/b"},
		Images:   []string{"/logo.png"},
	}

	t.Run("inserts one row", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		store, err := NewRecordStoreWithPool(mock, "records")
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO records").
			WithArgs(
				"run-1",
				rec.URL,
				rec.Title,
				rec.Headings,
				rec.Links,
				rec.Images,
				pgxmock.AnyArg(),
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, store.SaveRecord(context.Background(), "run-1", rec))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty slices become empty arrays", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		store, err := NewRecordStoreWithPool(mock, "records")
		require.NoError(t, err)

		bare := scraper.Record{URL: "https://example.com/empty"}
		mock.ExpectExec("INSERT INTO records").
			WithArgs(
				"run-2",
				bare.URL,
				"",
				[]string{},
				[]string{},
				[]string{},
				pgxmock.AnyArg(),
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, store.SaveRecord(context.Background(), "run-2", bare))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects record without url", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		store, err := NewRecordStoreWithPool(mock, "records")
		require.NoError(t, err)

		require.Error(t, store.SaveRecord(context.Background(), "run-3", scraper.Record{}))
	})
}
