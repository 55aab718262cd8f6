// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// PropertyStatus values for the availability field.
const (
	PropertyAvailable = "available"
	PropertySold      = "sold"
)

// Property is a real-estate listing. Slug semantics match Car: unique
// within the properties collection, re-allocated only on title change.
// Cars and properties are separate namespaces, so a car and a property
// may carry the same slug string without conflict.
type Property struct {
	ID           string    `json:"_id"`
	Title        string    `json:"title"`
	Slug         *string   `json:"slug"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Location     string    `json:"location"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    int       `json:"bathrooms"`
	Area         float64   `json:"area"`
	Features     []string  `json:"features"`
	Images       []Image   `json:"images"`
	Status       string    `json:"status"`
	Featured     bool      `json:"featured"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
