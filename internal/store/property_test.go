package store

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"clutchzone/internal/models"
)

// propertyRows builds a result set with the full property column list.
func propertyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "slug", "description", "price", "location",
		"bedrooms", "bathrooms", "area", "features", "images", "status",
		"featured", "display_order", "created_at", "updated_at",
	})
}

func addProperty(rows *sqlmock.Rows, id string, slug any, title string) *sqlmock.Rows {
	return rows.AddRow(
		id, title, slug, "", 250000.0, "Damascus", 3, 2, 120.5,
		[]byte(`["garden"]`), []byte(`[]`), "available", false, 0,
		testTime, testTime,
	)
}

// TestPropertyResolve covers both halves of the dual lookup against the
// properties namespace.
func TestPropertyResolve(t *testing.T) {
	t.Run("by primary key", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPropertyStore(db)

		mock.ExpectQuery(`FROM properties WHERE id = \$1`).
			WithArgs(testPK).
			WillReturnRows(addProperty(propertyRows(), testPK, "villa-damascus", "Villa Damascus"))

		got, err := s.Resolve(testPK)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if got == nil || got.ID != testPK {
			t.Fatalf("Resolve(%q) = %+v, want property %s", testPK, got, testPK)
		}
		if len(got.Features) != 1 || got.Features[0] != "garden" {
			t.Errorf("features = %v, want decoded [garden]", got.Features)
		}
	})

	t.Run("by slug", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPropertyStore(db)

		mock.ExpectQuery(`FROM properties WHERE slug = \$1`).
			WithArgs("villa-damascus").
			WillReturnRows(addProperty(propertyRows(), testPK, "villa-damascus", "Villa Damascus"))

		got, err := s.Resolve("villa-damascus")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if got == nil || got.ID != testPK {
			t.Fatalf("Resolve by slug = %+v, want property %s", got, testPK)
		}
	})

	t.Run("miss on both paths", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPropertyStore(db)

		mock.ExpectQuery(`FROM properties WHERE id = \$1`).
			WithArgs(testPK).
			WillReturnRows(propertyRows())
		mock.ExpectQuery(`FROM properties WHERE slug = \$1`).
			WithArgs(testPK).
			WillReturnRows(propertyRows())

		got, err := s.Resolve(testPK)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if got != nil {
			t.Fatalf("Resolve miss = %+v, want nil", got)
		}
	})
}

// TestPropertyCreate_DefaultStatus verifies a new property without an
// explicit status lands as available.
func TestPropertyCreate_DefaultStatus(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPropertyStore(db)

	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO properties`).
		WillReturnRows(addProperty(propertyRows(), testPK, "villa-damascus", "Villa Damascus"))

	created, err := s.Create(&models.Property{Title: "Villa Damascus", Location: "Damascus"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != models.PropertyAvailable {
		t.Errorf("status = %q, want %q", created.Status, models.PropertyAvailable)
	}
}
