// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"clutchzone/internal/models"
	"clutchzone/internal/pk"
)

// AdminStore handles back-office account database operations.
type AdminStore struct {
	db *sql.DB
}

// NewAdminStore creates a new AdminStore with the given database connection.
func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

const adminColumns = `id, email, password_hash, totp_secret, totp_enabled, created_at, updated_at`

func scanAdmin(scanner interface{ Scan(...any) error }) (*models.Admin, error) {
	var a models.Admin
	err := scanner.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.TOTPSecret, &a.TOTPEnabled,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByEmail retrieves an admin by email address. Returns nil if not found.
func (s *AdminStore) FindByEmail(email string) (*models.Admin, error) {
	row := s.db.QueryRow(`SELECT `+adminColumns+` FROM admins WHERE email = $1`, email)
	a, err := scanAdmin(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by email: %w", err)
	}
	return a, nil
}

// FindByID retrieves an admin by primary key. Returns nil if not found.
func (s *AdminStore) FindByID(id string) (*models.Admin, error) {
	row := s.db.QueryRow(`SELECT `+adminColumns+` FROM admins WHERE id = $1`, id)
	a, err := scanAdmin(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by id: %w", err)
	}
	return a, nil
}

// Create inserts a new admin with a bcrypt-hashed password.
func (s *AdminStore) Create(email, password string) (*models.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO admins (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+adminColumns,
		pk.New(), email, string(hash),
	)
	a, err := scanAdmin(row)
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return a, nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (s *AdminStore) CheckPassword(a *models.Admin, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// SetTOTPSecret stores a freshly generated TOTP secret. The secret stays
// unverified (totp_enabled false) until the first code check passes.
func (s *AdminStore) SetTOTPSecret(id, secret string) error {
	_, err := s.db.Exec(`
		UPDATE admins SET totp_secret = $1, totp_enabled = FALSE, updated_at = NOW()
		WHERE id = $2
	`, secret, id)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks an admin's TOTP setup as verified.
func (s *AdminStore) EnableTOTP(id string) error {
	_, err := s.db.Exec(`
		UPDATE admins SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}
