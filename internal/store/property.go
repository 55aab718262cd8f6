// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

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

// PropertyStore handles all real-estate-listing database operations.
type PropertyStore struct {
	db *sql.DB
}

// NewPropertyStore creates a new PropertyStore with the given database connection.
func NewPropertyStore(db *sql.DB) *PropertyStore {
	return &PropertyStore{db: db}
}

const propertyColumns = `id, title, slug, description, price, location,
       bedrooms, bathrooms, area, features, images, status, featured,
       display_order, created_at, updated_at`

// scanProperty scans a row into a Property struct, decoding JSON columns.
func scanProperty(scanner interface{ Scan(...any) error }) (*models.Property, error) {
	var p models.Property
	var features, images []byte
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.Price, &p.Location,
		&p.Bedrooms, &p.Bathrooms, &p.Area, &features, &images, &p.Status,
		&p.Featured, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(features, &p.Features); err != nil {
		return nil, fmt.Errorf("decode property features: %w", err)
	}
	if err := json.Unmarshal(images, &p.Images); err != nil {
		return nil, fmt.Errorf("decode property images: %w", err)
	}
	return &p, nil
}

// PropertyFilter narrows List results. Zero values mean "no constraint".
type PropertyFilter struct {
	Location string
	Status   string
	Query    string // matches title, case-insensitive substring
	MinPrice *float64
	MaxPrice *float64
	Featured *bool
	Sort     string // "newest" or "" for manual admin ordering
}

// List returns property listings matching the filter.
func (s *PropertyStore) List(f PropertyFilter) ([]models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties`
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, cond+"$"+strconv.Itoa(len(args)))
	}

	if f.Location != "" {
		add("location ILIKE ", "%"+f.Location+"%")
	}
	if f.Status != "" {
		add("status = ", f.Status)
	}
	if f.Query != "" {
		add("title ILIKE ", "%"+f.Query+"%")
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
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	var items []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindByID retrieves a property by primary key. Returns nil if not found.
func (s *PropertyStore) FindByID(id string) (*models.Property, error) {
	row := s.db.QueryRow(`SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)
	p, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find property by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a property by slug. Returns nil if not found.
func (s *PropertyStore) FindBySlug(slugVal string) (*models.Property, error) {
	row := s.db.QueryRow(`SELECT `+propertyColumns+` FROM properties WHERE slug = $1`, slugVal)
	p, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find property by slug: %w", err)
	}
	return p, nil
}

// Resolve looks a property up by an identifier that may be either a primary
// key or a slug, trying the key lookup first for PK-shaped input and
// falling through to the slug lookup on a miss.
func (s *PropertyStore) Resolve(identifier string) (*models.Property, error) {
	if pk.Valid(identifier) {
		p, err := s.FindByID(identifier)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}
	return s.FindBySlug(identifier)
}

// slugTaken probes for a slug collision, ignoring excludePK when non-empty.
func (s *PropertyStore) slugTaken(slugVal, excludePK string) (bool, error) {
	var taken bool
	err := s.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM properties WHERE slug = $1 AND ($2 = '' OR id <> $2)
		)
	`, slugVal, excludePK).Scan(&taken)
	return taken, err
}

// Create inserts a new property listing with a freshly allocated unique
// slug, retrying on a lost slug race like CarStore.Create.
func (s *PropertyStore) Create(p *models.Property) (*models.Property, error) {
	p.ID = pk.New()
	if p.Status == "" {
		p.Status = models.PropertyAvailable
	}
	featuresJSON, imagesJSON, err := encodePropertyJSON(p)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxSlugRetries; attempt++ {
		slugVal, err := allocateSlug(p.Title, "", s.slugTaken)
		if err != nil {
			return nil, err
		}

		row := s.db.QueryRow(`
			INSERT INTO properties (id, title, slug, description, price,
			                        location, bedrooms, bathrooms, area,
			                        features, images, status, featured,
			                        display_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING `+propertyColumns,
			p.ID, p.Title, slugVal, p.Description, p.Price, p.Location,
			p.Bedrooms, p.Bathrooms, p.Area, featuresJSON, imagesJSON,
			p.Status, p.Featured, p.DisplayOrder,
		)
		result, err := scanProperty(row)
		if err == nil {
			return result, nil
		}
		if !isUniqueViolation(err) {
			return nil, fmt.Errorf("create property: %w", err)
		}
		metrics.SlugConflictsTotal.Inc()
	}
	return nil, ErrSlugConflict
}

// Update replaces a property's attributes, re-allocating the slug only on
// title change. Returns nil if the property is gone.
func (s *PropertyStore) Update(p *models.Property) (*models.Property, error) {
	existing, err := s.FindByID(p.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	featuresJSON, imagesJSON, err := encodePropertyJSON(p)
	if err != nil {
		return nil, err
	}

	slugVal := existing.Slug
	reallocate := existing.Slug == nil || p.Title != existing.Title

	for attempt := 0; attempt < maxSlugRetries; attempt++ {
		if reallocate {
			fresh, err := allocateSlug(p.Title, p.ID, s.slugTaken)
			if err != nil {
				return nil, err
			}
			slugVal = &fresh
		}

		row := s.db.QueryRow(`
			UPDATE properties SET
				title = $1, slug = $2, description = $3, price = $4,
				location = $5, bedrooms = $6, bathrooms = $7, area = $8,
				features = $9, images = $10, status = $11, featured = $12,
				display_order = $13, updated_at = NOW()
			WHERE id = $14
			RETURNING `+propertyColumns,
			p.Title, slugVal, p.Description, p.Price, p.Location,
			p.Bedrooms, p.Bathrooms, p.Area, featuresJSON, imagesJSON,
			p.Status, p.Featured, p.DisplayOrder, p.ID,
		)
		result, err := scanProperty(row)
		if err == nil {
			return result, nil
		}
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if !reallocate || !isUniqueViolation(err) {
			return nil, fmt.Errorf("update property: %w", err)
		}
		metrics.SlugConflictsTotal.Inc()
	}
	return nil, ErrSlugConflict
}

// AddImages appends uploaded images to a property, preserving order.
// Returns nil if the property does not exist.
func (s *PropertyStore) AddImages(id string, images []models.Image) (*models.Property, error) {
	existing, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	merged, err := json.Marshal(append(existing.Images, images...))
	if err != nil {
		return nil, fmt.Errorf("encode property images: %w", err)
	}

	row := s.db.QueryRow(`
		UPDATE properties SET images = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+propertyColumns, merged, id)
	p, err := scanProperty(row)
	if err != nil {
		return nil, fmt.Errorf("add property images: %w", err)
	}
	return p, nil
}

// SetDisplayOrder moves a property in the admin's manual ordering.
func (s *PropertyStore) SetDisplayOrder(id string, order int) error {
	_, err := s.db.Exec(`
		UPDATE properties SET display_order = $1, updated_at = NOW() WHERE id = $2
	`, order, id)
	if err != nil {
		return fmt.Errorf("reorder property: %w", err)
	}
	return nil
}

// Delete removes a property by primary key.
func (s *PropertyStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	return nil
}

// BackfillSlugs allocates slugs for rows created before slugs existed.
func (s *PropertyStore) BackfillSlugs() (int, error) {
	rows, err := s.db.Query(`SELECT id, title FROM properties WHERE slug IS NULL`)
	if err != nil {
		return 0, fmt.Errorf("list properties without slugs: %w", err)
	}
	defer rows.Close()

	type pending struct{ id, title string }
	var todo []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.title); err != nil {
			return 0, fmt.Errorf("scan property for backfill: %w", err)
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
			title = "property"
		}
		slugVal, err := allocateSlug(title, p.id, s.slugTaken)
		if err != nil {
			return count, err
		}
		if _, err := s.db.Exec(`UPDATE properties SET slug = $1 WHERE id = $2`, slugVal, p.id); err != nil {
			return count, fmt.Errorf("backfill property slug: %w", err)
		}
		count++
	}
	return count, nil
}

// encodePropertyJSON marshals the jsonb columns, defaulting nil slices to
// empty arrays so the column constraint holds.
func encodePropertyJSON(p *models.Property) ([]byte, []byte, error) {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	featuresJSON, err := json.Marshal(features)
	if err != nil {
		return nil, nil, fmt.Errorf("encode property features: %w", err)
	}

	images := p.Images
	if images == nil {
		images = []models.Image{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return nil, nil, fmt.Errorf("encode property images: %w", err)
	}
	return featuresJSON, imagesJSON, nil
}
