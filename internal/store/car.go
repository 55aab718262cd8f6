// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all ClutchZone
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"clutchzone/internal/metrics"
	"clutchzone/internal/models"
	"clutchzone/internal/pk"
)

// CarStore handles all vehicle-listing database operations.
type CarStore struct {
	db *sql.DB
}

// NewCarStore creates a new CarStore with the given database connection.
func NewCarStore(db *sql.DB) *CarStore {
	return &CarStore{db: db}
}

const carColumns = `id, title, slug, brand, model, year, mileage, price,
       description, images, featured, display_order, created_at, updated_at`

// scanCar scans a row into a Car struct, decoding the images JSON column.
func scanCar(scanner interface{ Scan(...any) error }) (*models.Car, error) {
	var c models.Car
	var images []byte
	err := scanner.Scan(
		&c.ID, &c.Title, &c.Slug, &c.Brand, &c.Model, &c.Year, &c.Mileage,
		&c.Price, &c.Description, &images, &c.Featured, &c.DisplayOrder,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &c.Images); err != nil {
		return nil, fmt.Errorf("decode car images: %w", err)
	}
	return &c, nil
}

// CarFilter narrows List results. Zero values mean "no constraint".
type CarFilter struct {
	Brand    string
	Query    string // matches model, case-insensitive substring
	MinPrice *float64
	MaxPrice *float64
	Featured *bool
	Sort     string // "newest" or "" for manual admin ordering
}

// List returns car listings matching the filter. The default order is the
// admin's manual display_order with newest listings breaking ties.
func (s *CarStore) List(f CarFilter) ([]models.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars`
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, cond+"$"+strconv.Itoa(len(args)))
	}

	if f.Brand != "" {
		add("brand = ", f.Brand)
	}
	if f.Query != "" {
		add("model ILIKE ", "%"+f.Query+"%")
	}
	if f.MinPrice != nil {
		add("price >= ", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= ", *f.MaxPrice)
	}
	if f.Featured != nil {
		add("featured = ", *f.Featured)
	}

	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	if f.Sort == "newest" {
		query += " ORDER BY created_at DESC"
	} else {
		query += " ORDER BY display_order, created_at DESC"
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	defer rows.Close()

	var items []models.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan car: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Search matches q against brand, model, and description.
func (s *CarStore) Search(q string) ([]models.Car, error) {
	rows, err := s.db.Query(`
		SELECT `+carColumns+` FROM cars
		WHERE brand ILIKE $1 OR model ILIKE $1 OR description ILIKE $1
		ORDER BY display_order, created_at DESC
	`, "%"+q+"%")
	if err != nil {
		return nil, fmt.Errorf("search cars: %w", err)
	}
	defer rows.Close()

	var items []models.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan car: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a car by primary key. Returns nil if not found.
func (s *CarStore) FindByID(id string) (*models.Car, error) {
	row := s.db.QueryRow(`SELECT `+carColumns+` FROM cars WHERE id = $1`, id)
	c, err := scanCar(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find car by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a car by slug. Returns nil if not found.
func (s *CarStore) FindBySlug(slugVal string) (*models.Car, error) {
	row := s.db.QueryRow(`SELECT `+carColumns+` FROM cars WHERE slug = $1`, slugVal)
	c, err := scanCar(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find car by slug: %w", err)
	}
	return c, nil
}

// Resolve looks a car up by an identifier that may be either a primary key
// or a slug. PK-shaped identifiers try the key lookup first and fall
// through to the slug lookup on a miss, so a slug that happens to be 24
// hex characters still resolves. Returns nil when neither lookup matches.
func (s *CarStore) Resolve(identifier string) (*models.Car, error) {
	if pk.Valid(identifier) {
		c, err := s.FindByID(identifier)
		if err != nil {
			return nil, err
		}
		if c != nil {
			return c, nil
		}
	}
	return s.FindBySlug(identifier)
}

// slugTaken probes for a slug collision, ignoring excludePK when non-empty.
func (s *CarStore) slugTaken(slugVal, excludePK string) (bool, error) {
	var taken bool
	err := s.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM cars WHERE slug = $1 AND ($2 = '' OR id <> $2)
		)
	`, slugVal, excludePK).Scan(&taken)
	return taken, err
}

// Create inserts a new car listing with a freshly allocated unique slug.
// A lost slug race against a concurrent writer is retried with a re-probe;
// after maxSlugRetries the caller gets ErrSlugConflict.
func (s *CarStore) Create(c *models.Car) (*models.Car, error) {
	c.ID = pk.New()
	images := c.Images
	if images == nil {
		images = []models.Image{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("encode car images: %w", err)
	}

	for attempt := 0; attempt < maxSlugRetries; attempt++ {
		slugVal, err := allocateSlug(c.Title, "", s.slugTaken)
		if err != nil {
			return nil, err
		}

		row := s.db.QueryRow(`
			INSERT INTO cars (id, title, slug, brand, model, year, mileage,
			                  price, description, images, featured, display_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING `+carColumns,
			c.ID, c.Title, slugVal, c.Brand, c.Model, c.Year, c.Mileage,
			c.Price, c.Description, imagesJSON, c.Featured, c.DisplayOrder,
		)
		result, err := scanCar(row)
		if err == nil {
			return result, nil
		}
		if !isUniqueViolation(err) {
			return nil, fmt.Errorf("create car: %w", err)
		}
		metrics.SlugConflictsTotal.Inc()
		// Another writer committed the same slug between probe and insert;
		// the next probe sees their row and picks the following suffix.
	}
	return nil, ErrSlugConflict
}

// Update replaces a car's attributes. The slug is re-allocated only when
// the title changed (or the row predates slugs entirely), excluding the
// row itself from the collision probe. Returns nil if the car is gone.
func (s *CarStore) Update(c *models.Car) (*models.Car, error) {
	existing, err := s.FindByID(c.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	images := c.Images
	if images == nil {
		images = []models.Image{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("encode car images: %w", err)
	}

	slugVal := existing.Slug
	reallocate := existing.Slug == nil || c.Title != existing.Title

	for attempt := 0; attempt < maxSlugRetries; attempt++ {
		if reallocate {
			fresh, err := allocateSlug(c.Title, c.ID, s.slugTaken)
			if err != nil {
				return nil, err
			}
			slugVal = &fresh
		}

		row := s.db.QueryRow(`
			UPDATE cars SET
				title = $1, slug = $2, brand = $3, model = $4, year = $5,
				mileage = $6, price = $7, description = $8, images = $9,
				featured = $10, display_order = $11, updated_at = NOW()
			WHERE id = $12
			RETURNING `+carColumns,
			c.Title, slugVal, c.Brand, c.Model, c.Year, c.Mileage,
			c.Price, c.Description, imagesJSON, c.Featured, c.DisplayOrder, c.ID,
		)
		result, err := scanCar(row)
		if err == nil {
			return result, nil
		}
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if !reallocate || !isUniqueViolation(err) {
			return nil, fmt.Errorf("update car: %w", err)
		}
		metrics.SlugConflictsTotal.Inc()
	}
	return nil, ErrSlugConflict
}

// AddImages appends uploaded images to a car, preserving order.
// Returns nil if the car does not exist.
func (s *CarStore) AddImages(id string, images []models.Image) (*models.Car, error) {
	existing, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	merged, err := json.Marshal(append(existing.Images, images...))
	if err != nil {
		return nil, fmt.Errorf("encode car images: %w", err)
	}

	row := s.db.QueryRow(`
		UPDATE cars SET images = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+carColumns, merged, id)
	c, err := scanCar(row)
	if err != nil {
		return nil, fmt.Errorf("add car images: %w", err)
	}
	return c, nil
}

// SetDisplayOrder moves a car in the admin's manual ordering.
func (s *CarStore) SetDisplayOrder(id string, order int) error {
	_, err := s.db.Exec(`
		UPDATE cars SET display_order = $1, updated_at = NOW() WHERE id = $2
	`, order, id)
	if err != nil {
		return fmt.Errorf("reorder car: %w", err)
	}
	return nil
}

// Delete removes a car by primary key. The slug is not tracked separately
// once the row is gone, so a later listing with the same title may reuse it.
func (s *CarStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	return nil
}

// BackfillSlugs allocates slugs for rows created before slugs existed.
// Mirrors the one-time migration: legacy PK URLs keep working through the
// resolver, new URLs use the slug.
func (s *CarStore) BackfillSlugs() (int, error) {
	rows, err := s.db.Query(`SELECT id, title, brand FROM cars WHERE slug IS NULL`)
	if err != nil {
		return 0, fmt.Errorf("list cars without slugs: %w", err)
	}
	defer rows.Close()

	type pending struct{ id, title, brand string }
	var todo []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.title, &p.brand); err != nil {
			return 0, fmt.Errorf("scan car for backfill: %w", err)
		}
		todo = append(todo, p)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	count := 0
	for _, p := range todo {
		title := p.title
		if title == "" {
			title = p.brand
		}
		if title == "" {
			title = "car"
		}
		slugVal, err := allocateSlug(title, p.id, s.slugTaken)
		if err != nil {
			return count, err
		}
		if _, err := s.db.Exec(`UPDATE cars SET slug = $1 WHERE id = $2`, slugVal, p.id); err != nil {
			return count, fmt.Errorf("backfill car slug: %w", err)
		}
		count++
	}
	return count, nil
}
