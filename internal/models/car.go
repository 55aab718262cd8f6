// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures shared between the stores and
// the HTTP handlers.
package models

import "time"

// Car is a vehicle listing offered in the public catalog.
//
// Slug is nullable only for rows created before slugs were introduced;
// the backfill migration assigns one to every such row. It is immutable
// except when the title changes, in which case it is re-allocated.
type Car struct {
	ID           string    `json:"_id"`
	Title        string    `json:"title"`
	Slug         *string   `json:"slug"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Mileage      int       `json:"mileage"`
	Price        float64   `json:"price"`
	Description  string    `json:"description"`
	Images       []Image   `json:"images"`
	Featured     bool      `json:"featured"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
