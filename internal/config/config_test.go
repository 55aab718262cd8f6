// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"strings"
	"testing"
)

// clearEnv blanks every variable Load reads so tests see pure defaults.
// envOrDefault treats empty the same as unset, and t.Setenv restores the
// originals afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_HOST", "APP_PORT", "APP_ENV",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
		"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY",
		"S3_BUCKET", "S3_PUBLIC_URL",
		"DEFAULT_ADMIN_EMAIL", "DEFAULT_ADMIN_PASSWORD",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	checks := map[string]string{
		"Host":       cfg.Host,
		"Port":       cfg.Port,
		"Env":        cfg.Env,
		"DBHost":     cfg.DBHost,
		"DBPort":     cfg.DBPort,
		"DBUser":     cfg.DBUser,
		"DBName":     cfg.DBName,
		"ValkeyHost": cfg.ValkeyHost,
		"ValkeyPort": cfg.ValkeyPort,
		"S3Bucket":   cfg.S3Bucket,
	}
	want := map[string]string{
		"Host":       "0.0.0.0",
		"Port":       "8080",
		"Env":        "development",
		"DBHost":     "localhost",
		"DBPort":     "5432",
		"DBUser":     "clutchzone",
		"DBName":     "clutchzone",
		"ValkeyHost": "localhost",
		"ValkeyPort": "6379",
		"S3Bucket":   "clutchzone-media",
	}
	for field, got := range checks {
		if got != want[field] {
			t.Errorf("%s: got %q, want %q", field, got, want[field])
		}
	}

	if !cfg.IsDev() {
		t.Error("IsDev() should be true with default environment")
	}
}

func TestLoad_ProductionGuard(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should refuse the default DB password in production")
	}
	if !strings.Contains(err.Error(), "POSTGRES_PASSWORD") {
		t.Errorf("error should name POSTGRES_PASSWORD, got: %v", err)
	}
}

func TestLoad_ProductionWithPassword(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("POSTGRES_PASSWORD", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.IsDev() {
		t.Error("IsDev() should be false in production")
	}
	if cfg.DBPassword != "s3cret" {
		t.Errorf("DBPassword: got %q, want %q", cfg.DBPassword, "s3cret")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBUser: "app", DBPassword: "pw", DBHost: "db", DBPort: "5433", DBName: "listings",
	}
	want := "postgres://app:pw@db:5433/listings?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestAddr(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: "9090"}
	if got := cfg.Addr(); got != "127.0.0.1:9090" {
		t.Errorf("Addr() = %q, want %q", got, "127.0.0.1:9090")
	}
}
