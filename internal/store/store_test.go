// store_test.go provides shared helpers for the store tests. Queries are
// exercised against sqlmock so the suite runs without a live PostgreSQL.
package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// testTime is a fixed timestamp for mocked rows.
var testTime = time.Date(2026, 2, 25, 12, 0, 0, 0, time.UTC)

// newMockDB returns a sqlmock database using regexp query matching.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// carRows builds a result set with the full car column list.
func carRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "slug", "brand", "model", "year", "mileage", "price",
		"description", "images", "featured", "display_order", "created_at", "updated_at",
	})
}

// addCar appends a car row with sane defaults for unmocked fields.
func addCar(rows *sqlmock.Rows, id string, slug any, title string) *sqlmock.Rows {
	return rows.AddRow(
		id, title, slug, "Toyota", "Camry", 2023, 15000, 85000.0,
		"", []byte(`[]`), false, 0, testTime, testTime,
	)
}
