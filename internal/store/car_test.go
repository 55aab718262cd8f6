package store

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"clutchzone/internal/models"
)

const (
	testPK   = "507f1f77bcf86cd799439011"
	testSlug = "toyota-camry-2023"
)

// TestCarResolve_ByPK verifies a PK-shaped identifier resolves through the
// primary-key lookup without ever touching the slug path.
func TestCarResolve_ByPK(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCarStore(db)

	mock.ExpectQuery(`FROM cars WHERE id = \$1`).
		WithArgs(testPK).
		WillReturnRows(addCar(carRows(), testPK, testSlug, "Toyota Camry 2023"))

	got, err := s.Resolve(testPK)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got == nil || got.ID != testPK {
		t.Fatalf("Resolve(%q) = %+v, want car %s", testPK, got, testPK)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestCarResolve_BySlug verifies a non-PK-shaped identifier skips the
// primary-key lookup and resolves by slug.
func TestCarResolve_BySlug(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCarStore(db)

	mock.ExpectQuery(`FROM cars WHERE slug = \$1`).
		WithArgs(testSlug).
		WillReturnRows(addCar(carRows(), testPK, testSlug, "Toyota Camry 2023"))

	got, err := s.Resolve(testSlug)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got == nil || got.ID != testPK {
		t.Fatalf("Resolve(%q) = %+v, want car %s", testSlug, got, testPK)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestCarResolve_PKShapedSlug covers the edge where a slug happens to be
// 24 hex characters: the PK lookup misses and the slug lookup still wins.
func TestCarResolve_PKShapedSlug(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCarStore(db)

	hexSlug := "abcdef0123456789abcdef01"

	mock.ExpectQuery(`FROM cars WHERE id = \$1`).
		WithArgs(hexSlug).
		WillReturnRows(carRows())
	mock.ExpectQuery(`FROM cars WHERE slug = \$1`).
		WithArgs(hexSlug).
		WillReturnRows(addCar(carRows(), testPK, hexSlug, "Hex Titled Car"))

	got, err := s.Resolve(hexSlug)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got == nil || got.Slug == nil || *got.Slug != hexSlug {
		t.Fatalf("Resolve(%q) = %+v, want slug fallback hit", hexSlug, got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestCarResolve_Miss verifies an identifier matching nothing yields a nil
// record and no error — not-found is an outcome, not a failure.
func TestCarResolve_Miss(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCarStore(db)

	mock.ExpectQuery(`FROM cars WHERE slug = \$1`).
		WithArgs("no-such-listing").
		WillReturnRows(carRows())

	got, err := s.Resolve("no-such-listing")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != nil {
		t.Fatalf("Resolve miss = %+v, want nil", got)
	}
}

// TestCarCreate_SlugRace verifies the retry path: the probe sees the base
// slug free, the insert loses the race on the unique index, and the second
// round lands on the suffixed slug.
func TestCarCreate_SlugRace(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCarStore(db)

	// First round: probe free, insert trips the unique index.
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO cars`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "cars_slug_key"})

	// Second round: probe now sees the winner's row, next suffix is free.
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO cars`).
		WillReturnRows(addCar(carRows(), testPK, "my-car-1", "My Car"))

	created, err := s.Create(&models.Car{Title: "My Car"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Slug == nil || *created.Slug != "my-car-1" {
		t.Fatalf("created slug = %v, want my-car-1", created.Slug)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestCarCreate_SlugRaceExhausted verifies a persistent collision surfaces
// ErrSlugConflict instead of looping forever.
func TestCarCreate_SlugRaceExhausted(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCarStore(db)

	for i := 0; i < maxSlugRetries; i++ {
		mock.ExpectQuery(`SELECT EXISTS`).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery(`INSERT INTO cars`).
			WillReturnError(&pgconn.PgError{Code: "23505"})
	}

	_, err := s.Create(&models.Car{Title: "My Car"})
	if !errors.Is(err, ErrSlugConflict) {
		t.Fatalf("err = %v, want ErrSlugConflict", err)
	}
}

// TestCarCreate_OtherErrorNotRetried verifies non-unique-violation insert
// failures surface immediately.
func TestCarCreate_OtherErrorNotRetried(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCarStore(db)

	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO cars`).
		WillReturnError(&pgconn.PgError{Code: "23502"}) // not-null violation

	_, err := s.Create(&models.Car{Title: "My Car"})
	if err == nil || errors.Is(err, ErrSlugConflict) {
		t.Fatalf("err = %v, want immediate failure", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestCarUpdate_TitleUnchanged verifies an edit that keeps the title does
// not touch the slug: no probe, no re-allocation.
func TestCarUpdate_TitleUnchanged(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCarStore(db)

	mock.ExpectQuery(`FROM cars WHERE id = \$1`).
		WithArgs(testPK).
		WillReturnRows(addCar(carRows(), testPK, testSlug, "Toyota Camry 2023"))
	mock.ExpectQuery(`UPDATE cars SET`).
		WillReturnRows(addCar(carRows(), testPK, testSlug, "Toyota Camry 2023"))

	updated, err := s.Update(&models.Car{ID: testPK, Title: "Toyota Camry 2023", Price: 80000})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Slug == nil || *updated.Slug != testSlug {
		t.Errorf("slug = %v, want unchanged %q", updated.Slug, testSlug)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestCarUpdate_TitleChanged verifies a title edit re-allocates the slug,
// excluding the record's own row from the collision probe.
func TestCarUpdate_TitleChanged(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCarStore(db)

	mock.ExpectQuery(`FROM cars WHERE id = \$1`).
		WithArgs(testPK).
		WillReturnRows(addCar(carRows(), testPK, testSlug, "Toyota Camry 2023"))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("honda-accord", testPK).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`UPDATE cars SET`).
		WillReturnRows(addCar(carRows(), testPK, "honda-accord", "Honda Accord"))

	updated, err := s.Update(&models.Car{ID: testPK, Title: "Honda Accord"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Slug == nil || *updated.Slug != "honda-accord" {
		t.Errorf("slug = %v, want honda-accord", updated.Slug)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestCarUpdate_Missing verifies updating a deleted car reports not-found.
func TestCarUpdate_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCarStore(db)

	mock.ExpectQuery(`FROM cars WHERE id = \$1`).
		WithArgs(testPK).
		WillReturnRows(carRows())

	updated, err := s.Update(&models.Car{ID: testPK, Title: "Gone"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated != nil {
		t.Fatalf("updated = %+v, want nil for missing car", updated)
	}
}

// TestCarBackfillSlugs verifies pre-slug rows get slugs allocated from
// their title, falling back to brand when the title is empty.
func TestCarBackfillSlugs(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCarStore(db)

	mock.ExpectQuery(`SELECT id, title, brand FROM cars WHERE slug IS NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "brand"}).
			AddRow("aaaaaaaaaaaaaaaaaaaaaaaa", "Toyota Camry", "Toyota").
			AddRow("bbbbbbbbbbbbbbbbbbbbbbbb", "", "Kia"))

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("toyota-camry", "aaaaaaaaaaaaaaaaaaaaaaaa").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`UPDATE cars SET slug = \$1 WHERE id = \$2`).
		WithArgs("toyota-camry", "aaaaaaaaaaaaaaaaaaaaaaaa").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("kia", "bbbbbbbbbbbbbbbbbbbbbbbb").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`UPDATE cars SET slug = \$1 WHERE id = \$2`).
		WithArgs("kia", "bbbbbbbbbbbbbbbbbbbbbbbb").
		WillReturnResult(sqlmock.NewResult(0, 1))

	count, err := s.BackfillSlugs()
	if err != nil {
		t.Fatalf("BackfillSlugs: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
