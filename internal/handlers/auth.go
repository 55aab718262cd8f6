// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"clutchzone/internal/middleware"
	"clutchzone/internal/session"
	"clutchzone/internal/store"
)

// totpIssuer is the name shown in authenticator apps.
const totpIssuer = "ClutchZone"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions *session.Store
	admins   *store.AdminStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, admins *store.AdminStore) *Auth {
	return &Auth{
		sessions: sessions,
		admins:   admins,
	}
}

// Login checks credentials and issues a bearer token. The token starts
// with TwoFADone=false; clients must complete 2FA before admin routes
// accept it.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	admin, err := a.admins.FindByEmail(payload.Email)
	if err != nil {
		writeServerError(w, "login lookup failed", err)
		return
	}
	if admin == nil || !a.admins.CheckPassword(admin, payload.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := a.sessions.Create(r.Context(), &session.Data{
		AdminID:   admin.ID,
		Email:     admin.Email,
		TwoFADone: false,
	})
	if err != nil {
		writeServerError(w, "session create failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":          token,
		"needs2FASetup":  admin.Needs2FASetup(),
		"needs2FAVerify": !admin.Needs2FASetup(),
	})
}

// Logout destroys the bearer session. Idempotent.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), r); err != nil {
		writeServerError(w, "logout failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// TwoFASetup generates a fresh TOTP secret for the logged-in admin and
// returns the provisioning QR code as a base64 PNG. Re-running setup
// replaces the secret and disables 2FA until the next verify.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		writeServerError(w, "totp generate failed", err)
		return
	}

	if err := a.admins.SetTOTPSecret(sess.AdminID, key.Secret()); err != nil {
		writeServerError(w, "save totp secret failed", err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		writeServerError(w, "qr code generation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"qr_code": base64.StdEncoding.EncodeToString(qrPNG),
		"secret":  key.Secret(),
	})
}

// TwoFAVerify validates a TOTP code, enabling 2FA on first success and
// marking the session fully authenticated.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var payload twoFAPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	admin, err := a.admins.FindByID(sess.AdminID)
	if err != nil {
		writeServerError(w, "admin lookup for 2fa failed", err)
		return
	}
	if admin == nil || admin.TOTPSecret == "" {
		writeError(w, http.StatusBadRequest, "Two-factor setup required first")
		return
	}

	if !totp.Validate(payload.Code, admin.TOTPSecret) {
		writeError(w, http.StatusUnauthorized, "Invalid code")
		return
	}

	// First successful verification completes setup.
	if !admin.TOTPEnabled {
		if err := a.admins.EnableTOTP(admin.ID); err != nil {
			writeServerError(w, "enable totp failed", err)
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		writeServerError(w, "session update failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Two-factor verified"})
}
