// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"clutchzone/internal/models"
	"clutchzone/internal/pk"
)

// OrderStore manages purchase-request leads in the database.
type OrderStore struct {
	db *sql.DB
}

// NewOrderStore returns a new OrderStore.
func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

const orderColumns = `id, reference, name, phone, email, message,
       item_type, item_id, price_at_order, status, created_at, updated_at`

// scanOrder scans a row into an Order struct.
func scanOrder(scanner interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	err := scanner.Scan(
		&o.ID, &o.Reference, &o.Name, &o.Phone, &o.Email, &o.Message,
		&o.ItemType, &o.ItemID, &o.PriceAtOrder, &o.Status,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts a new purchase request. The status starts as pending and
// the reference is a fresh ULID the back office can quote to the customer.
func (s *OrderStore) Create(o *models.Order) (*models.Order, error) {
	o.ID = pk.New()
	o.Reference = ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()

	row := s.db.QueryRow(`
		INSERT INTO orders (id, reference, name, phone, email, message,
		                    item_type, item_id, price_at_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+orderColumns,
		o.ID, o.Reference, o.Name, o.Phone, o.Email, o.Message,
		o.ItemType, o.ItemID, o.PriceAtOrder,
	)
	result, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return result, nil
}

// List returns all purchase requests, newest first.
func (s *OrderStore) List() ([]models.Order, error) {
	rows, err := s.db.Query(`SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var items []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		items = append(items, *o)
	}
	return items, rows.Err()
}

// UpdateStatus moves an order through the lead workflow.
// Returns nil if no order matches the primary key.
func (s *OrderStore) UpdateStatus(id, status string) (*models.Order, error) {
	row := s.db.QueryRow(`
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+orderColumns, status, id)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return o, nil
}

// Delete removes an order by primary key.
func (s *OrderStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}
