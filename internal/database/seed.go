package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"clutchzone/internal/pk"
)

// EnsureDefaultAdmin creates the bootstrap back-office account when no
// admin exists yet. Email and password come from the environment; when
// either is missing the bootstrap is skipped with a warning so a fresh
// deployment fails loudly at login rather than silently shipping a
// well-known credential.
func EnsureDefaultAdmin(db *sql.DB, email, password string) error {
	if email == "" || password == "" {
		slog.Warn("default admin not configured, skipping bootstrap")
		return nil
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM admins WHERE email = $1`, email).Scan(&count); err != nil {
		return fmt.Errorf("seed check admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO admins (id, email, password_hash)
		VALUES ($1, $2, $3)
	`, pk.New(), email, string(hash))
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("default admin account created", "email", email)
	return nil
}
