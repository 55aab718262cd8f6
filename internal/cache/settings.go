// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// settings.go provides a Valkey-backed cache for the site settings map.
// Settings are read on every public page of the storefront, so the
// serialized map is kept in Valkey and invalidated whenever an admin
// saves new values.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// settingsKey is the single Valkey key holding the serialized settings map.
	settingsKey = "settings:site"

	// DefaultSettingsTTL is how long cached settings survive without invalidation.
	DefaultSettingsTTL = 10 * time.Minute
)

// SettingsCache manages the cached site settings map in Valkey.
type SettingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSettingsCache creates a settings cache backed by the given Valkey client.
func NewSettingsCache(client *redis.Client, ttl time.Duration) *SettingsCache {
	if ttl == 0 {
		ttl = DefaultSettingsTTL
	}
	return &SettingsCache{client: client, ttl: ttl}
}

// Get retrieves the cached settings map. Returns (nil, false) on miss or
// any cache error; callers fall back to the database.
func (sc *SettingsCache) Get(ctx context.Context) (map[string]string, bool) {
	val, err := sc.client.Get(ctx, settingsKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("settings cache get error", "error", err)
		return nil, false
	}

	var settings map[string]string
	if err := json.Unmarshal(val, &settings); err != nil {
		slog.Warn("settings cache decode error", "error", err)
		return nil, false
	}
	slog.Debug("settings cache hit")
	return settings, true
}

// Set stores the settings map with the configured TTL.
func (sc *SettingsCache) Set(ctx context.Context, settings map[string]string) {
	payload, err := json.Marshal(settings)
	if err != nil {
		slog.Warn("settings cache encode error", "error", err)
		return
	}
	if err := sc.client.Set(ctx, settingsKey, payload, sc.ttl).Err(); err != nil {
		slog.Warn("settings cache set error", "error", err)
	}
}

// Invalidate removes the cached settings so the next read hits the database.
func (sc *SettingsCache) Invalidate(ctx context.Context) {
	if err := sc.client.Del(ctx, settingsKey).Err(); err != nil {
		slog.Warn("settings cache invalidate error", "error", err)
	}
	slog.Debug("settings cache invalidated")
}
