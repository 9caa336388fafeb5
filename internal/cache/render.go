// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// render.go provides a Valkey-backed cache for rasterized ticket JPEGs.
// Rendering a ticket at 300 DPI composites fonts, QR codes and logos; the
// result is immutable for a given ticket revision, so subsequent requests
// are served straight from Valkey.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// renderKeyPrefix namespaces rendered-image keys in Valkey.
	renderKeyPrefix = "render:"

	// DefaultRenderTTL is how long a rendered ticket image stays cached.
	DefaultRenderTTL = 24 * time.Hour
)

// RenderCache stores rasterized ticket images in Valkey keyed by event,
// ticket ETag, and render DPI.
type RenderCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRenderCache creates a render cache backed by the given Valkey client.
func NewRenderCache(client *redis.Client, ttl time.Duration) *RenderCache {
	if ttl == 0 {
		ttl = DefaultRenderTTL
	}
	return &RenderCache{client: client, ttl: ttl}
}

// Get retrieves a cached JPEG for a render key. Returns nil, false on miss.
func (rc *RenderCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := rc.client.Get(ctx, renderKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("render cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("render cache hit", "key", key)
	return val, true
}

// Set stores a rendered JPEG with the configured TTL.
func (rc *RenderCache) Set(ctx context.Context, key string, jpeg []byte) {
	if err := rc.client.Set(ctx, renderKeyPrefix+key, jpeg, rc.ttl).Err(); err != nil {
		slog.Warn("render cache set error", "key", key, "error", err)
	}
}

// InvalidateEvent removes every cached render belonging to an event,
// across all tickets and DPI variants. Called when the event's logo
// changes, since logos are resolved at render time rather than frozen
// onto the ticket.
func (rc *RenderCache) InvalidateEvent(ctx context.Context, eventID string) {
	var cursor uint64
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, renderKeyPrefix+eventID+":*", 100).Result()
		if err != nil {
			slog.Warn("render cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("render cache delete error", "error", err)
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
}
