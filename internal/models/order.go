// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// ItemType values for the listing an order refers to.
const (
	ItemTypeCar      = "car"
	ItemTypeProperty = "property"
)

// OrderStatus values for the lead workflow.
const (
	OrderPending   = "pending"
	OrderContacted = "contacted"
	OrderCompleted = "completed"
)

// Order is an inbound purchase request: a prospective buyer's contact
// details tied to a specific listing by type and primary key. Reference
// is a ULID the back office can quote to the customer.
type Order struct {
	ID           string    `json:"_id"`
	Reference    string    `json:"reference"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email,omitempty"`
	Message      string    `json:"message,omitempty"`
	ItemType     string    `json:"itemType"`
	ItemID       string    `json:"itemId"`
	PriceAtOrder float64   `json:"priceAtOrder"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
