// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Valkey client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "render:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, "")
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestRenderCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	rc := NewRenderCache(client, 1*time.Minute)
	ctx := context.Background()

	jpeg := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}
	rc.Set(ctx, "ev1:etag1:300", jpeg)

	got, ok := rc.Get(ctx, "ev1:etag1:300")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if string(got) != string(jpeg) {
		t.Error("cached bytes differ")
	}
}

func TestRenderCacheMiss(t *testing.T) {
	client := testValkeyClient(t)
	rc := NewRenderCache(client, 1*time.Minute)

	if _, ok := rc.Get(context.Background(), "ev1:absent:300"); ok {
		t.Error("expected a miss")
	}
}

func TestRenderCacheInvalidateEvent(t *testing.T) {
	client := testValkeyClient(t)
	rc := NewRenderCache(client, 1*time.Minute)
	ctx := context.Background()

	rc.Set(ctx, "ev1:a:300", []byte("x"))
	rc.Set(ctx, "ev1:a:150", []byte("y"))
	rc.Set(ctx, "ev2:b:300", []byte("z"))

	rc.InvalidateEvent(ctx, "ev1")

	if _, ok := rc.Get(ctx, "ev1:a:300"); ok {
		t.Error("ev1 render survived invalidation")
	}
	if _, ok := rc.Get(ctx, "ev1:a:150"); ok {
		t.Error("ev1 low-dpi render survived invalidation")
	}
	if _, ok := rc.Get(ctx, "ev2:b:300"); !ok {
		t.Error("ev2 render wrongly invalidated")
	}
}
