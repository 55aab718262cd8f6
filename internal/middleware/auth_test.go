// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"clutchzone/internal/pk"
	"clutchzone/internal/session"
)

// withSession attaches session data to a request's context, simulating
// what LoadSession does after a successful Valkey lookup.
func withSession(r *http.Request, data *session.Data) *http.Request {
	ctx := context.WithValue(r.Context(), SessionKey, data)
	return r.WithContext(ctx)
}

func TestRequireAuth(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAuth(inner)

	t.Run("rejects unauthenticated request with 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type: got %q, want application/json", ct)
		}
	})

	t.Run("passes authenticated request through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
		req = withSession(req, &session.Data{AdminID: pk.New(), Email: "admin@test.local"})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})
}

func TestRequire2FA(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Require2FA(inner)

	t.Run("rejects session without completed 2FA", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/cars", nil)
		req = withSession(req, &session.Data{AdminID: pk.New(), TwoFADone: false})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("status: got %d, want 403", rr.Code)
		}
	})

	t.Run("passes session with completed 2FA", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/cars", nil)
		req = withSession(req, &session.Data{AdminID: pk.New(), TwoFADone: true})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})
}

func TestSessionFromCtx(t *testing.T) {
	t.Run("returns nil when no session loaded", func(t *testing.T) {
		if got := SessionFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("returns data when session loaded", func(t *testing.T) {
		want := &session.Data{AdminID: pk.New(), Email: "admin@test.local"}
		ctx := context.WithValue(context.Background(), SessionKey, want)
		got := SessionFromCtx(ctx)
		if got == nil || got.Email != want.Email {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})
}
