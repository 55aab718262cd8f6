package store

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"clutchzone/internal/models"
)

func strPtr(s string) *string { return &s }

// flatCategories builds the fixture used across tree tests:
//
//	vehicles (1)
//	└── sedans (2)
//	real-estate (3)
//	orphan (4) → parent 99 does not exist
func flatCategories() []models.Category {
	return []models.Category{
		{ID: "1", NameEN: "vehicles", ParentID: nil},
		{ID: "2", NameEN: "sedans", ParentID: strPtr("1")},
		{ID: "3", NameEN: "real-estate", ParentID: nil},
		{ID: "4", NameEN: "orphan", ParentID: strPtr("99")},
	}
}

func TestBuildTree(t *testing.T) {
	tree := BuildTree(flatCategories(), nil, 0)

	if len(tree) != 2 {
		t.Fatalf("root count = %d, want 2", len(tree))
	}
	if tree[0].ID != "1" || tree[1].ID != "3" {
		t.Errorf("roots = %s, %s; want 1, 3", tree[0].ID, tree[1].ID)
	}

	if len(tree[0].Children) != 1 || tree[0].Children[0].ID != "2" {
		t.Fatalf("vehicles children = %+v, want single child 2", tree[0].Children)
	}
	if tree[0].Depth != 0 || tree[0].Children[0].Depth != 1 {
		t.Errorf("depths = %d/%d, want 0/1", tree[0].Depth, tree[0].Children[0].Depth)
	}
}

// TestBuildTree_OrphanExcluded pins the orphan policy: a record whose
// parent was deleted appears nowhere in the tree — neither under a parent
// nor promoted to root.
func TestBuildTree_OrphanExcluded(t *testing.T) {
	tree := BuildTree(flatCategories(), nil, 0)

	var walk func(nodes []models.Category) bool
	walk = func(nodes []models.Category) bool {
		for _, n := range nodes {
			if n.ID == "4" {
				return true
			}
			if walk(n.Children) {
				return true
			}
		}
		return false
	}
	if walk(tree) {
		t.Error("orphan category 4 should be absent from the rendered tree")
	}
}

func TestBuildTree_DeepNesting(t *testing.T) {
	flat := []models.Category{
		{ID: "a", ParentID: nil},
		{ID: "b", ParentID: strPtr("a")},
		{ID: "c", ParentID: strPtr("b")},
	}
	tree := BuildTree(flat, nil, 0)

	if len(tree) != 1 {
		t.Fatalf("root count = %d, want 1", len(tree))
	}
	leaf := tree[0].Children[0].Children[0]
	if leaf.ID != "c" || leaf.Depth != 2 {
		t.Errorf("leaf = %s depth %d, want c depth 2", leaf.ID, leaf.Depth)
	}
}

func TestBuildTree_Empty(t *testing.T) {
	if tree := BuildTree(nil, nil, 0); len(tree) != 0 {
		t.Errorf("empty input should yield empty tree, got %d nodes", len(tree))
	}
}

func TestFlattenTree(t *testing.T) {
	tree := BuildTree(flatCategories(), nil, 0)
	var flat []models.Category
	flattenTree(tree, &flat)

	wantOrder := []string{"1", "2", "3"}
	if len(flat) != len(wantOrder) {
		t.Fatalf("flat count = %d, want %d", len(flat), len(wantOrder))
	}
	for i, id := range wantOrder {
		if flat[i].ID != id {
			t.Errorf("flat[%d] = %s, want %s", i, flat[i].ID, id)
		}
	}
}

// TestCategoryCreate_ParentGuard verifies that creating a category under a
// nonexistent parent fails before any insert happens.
func TestCategoryCreate_ParentGuard(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	s := NewCategoryStore(db)

	// Parent lookup comes back empty; no INSERT may follow.
	mock.ExpectQuery(`SELECT .+ FROM categories WHERE id = \$1`).
		WithArgs("000000000000000000000099").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = s.Create(&models.Category{
		NameAR:   "سيارات",
		NameEN:   "Cars",
		ParentID: strPtr("000000000000000000000099"),
	})
	if !errors.Is(err, ErrParentNotFound) {
		t.Fatalf("err = %v, want ErrParentNotFound", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database activity: %v", err)
	}
}

// TestCategoryCreate_RootNeedsNoGuard verifies a root category skips the
// parent lookup entirely.
func TestCategoryCreate_RootNeedsNoGuard(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	s := NewCategoryStore(db)

	rows := sqlmock.NewRows([]string{
		"id", "name_ar", "name_en", "logo_url", "parent_id", "created_at", "updated_at",
	}).AddRow("507f1f77bcf86cd799439011", "سيارات", "Cars", "", nil, testTime, testTime)
	mock.ExpectQuery(`INSERT INTO categories`).WillReturnRows(rows)

	created, err := s.Create(&models.Category{NameAR: "سيارات", NameEN: "Cars"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.NameEN != "Cars" || created.ParentID != nil {
		t.Errorf("created = %+v, want root Cars category", created)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
