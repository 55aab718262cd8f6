// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Admin is a back-office account. Passwords are stored as bcrypt hashes.
// TOTPSecret is empty until the admin runs 2FA setup; TOTPEnabled flips
// once the first code has been verified.
type Admin struct {
	ID           string    `json:"_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	TOTPSecret   string    `json:"-"`
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Needs2FASetup reports whether the admin still has to provision a TOTP
// authenticator before the back office unlocks.
func (a *Admin) Needs2FASetup() bool {
	return !a.TOTPEnabled || a.TOTPSecret == ""
}
