// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"clutchzone/internal/models"
	"clutchzone/internal/pk"
)

// ErrParentNotFound is returned when a category is created with a
// parent_id that references no existing category.
var ErrParentNotFound = errors.New("parent category not found")

// CategoryStore manages the category tree in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name_ar, name_en, logo_url, parent_id, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.NameAR, &c.NameEN, &c.LogoURL, &c.ParentID,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories as a flat list, oldest first.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryColumns + ` FROM categories ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Tree returns categories as a nested tree structure.
func (s *CategoryStore) Tree() ([]models.Category, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}
	return BuildTree(flat, nil, 0), nil
}

// BuildTree recursively partitions a flat category list into a tree by
// parent reference. A record lands under parentID when the references
// match; roots are the records with no parent at all.
//
// A record whose parent_id points at a deleted category matches at no
// level of the recursion — it is silently absent from the result, not
// promoted to root. Deletion does not cascade, so this is what makes
// orphaned subtrees disappear from the admin view.
func BuildTree(flat []models.Category, parentID *string, depth int) []models.Category {
	var result []models.Category
	for _, c := range flat {
		if ptrEqual(c.ParentID, parentID) {
			c.Depth = depth
			c.Children = BuildTree(flat, &c.ID, depth+1)
			result = append(result, c)
		}
	}
	return result
}

// ptrEqual compares two *string for equality (both nil or same value).
func ptrEqual(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// FlatTree returns categories depth-first in display order, with Depth set
// for indentation. Used for the admin parent-selection dropdown.
func (s *CategoryStore) FlatTree() ([]models.Category, error) {
	tree, err := s.Tree()
	if err != nil {
		return nil, err
	}
	var result []models.Category
	flattenTree(tree, &result)
	return result, nil
}

// flattenTree walks a category tree depth-first, appending to result.
func flattenTree(cats []models.Category, result *[]models.Category) {
	for _, c := range cats {
		*result = append(*result, c)
		if len(c.Children) > 0 {
			flattenTree(c.Children, result)
		}
	}
}

// FindByID retrieves a category by primary key. Returns nil if not found.
func (s *CategoryStore) FindByID(id string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category. A non-nil parent must exist at creation
// time (ErrParentNotFound otherwise); nothing re-validates the reference
// later, so a subsequent parent deletion leaves it dangling by design.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	if c.ParentID != nil {
		parent, err := s.FindByID(*c.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrParentNotFound
		}
	}

	row := s.db.QueryRow(`
		INSERT INTO categories (id, name_ar, name_en, logo_url, parent_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		pk.New(), c.NameAR, c.NameEN, c.LogoURL, c.ParentID,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// SetLogo stores the uploaded logo URL on a category. Returns the
// updated row, nil if the category is gone.
func (s *CategoryStore) SetLogo(id, logoURL string) (*models.Category, error) {
	row := s.db.QueryRow(`
		UPDATE categories SET logo_url = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+categoryColumns,
		logoURL, id,
	)
	result, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("set category logo: %w", err)
	}
	return result, nil
}

// Delete removes a single category. No cascade, no re-parenting: children
// keep their now-dangling parent_id and drop out of the rebuilt tree.
func (s *CategoryStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
