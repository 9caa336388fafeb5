// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Audience identifies what a token is allowed to do.
type Audience string

const (
	AudienceAdmin     Audience = "admin"
	AudienceBoxOffice Audience = "boxoffice"
	AudienceGate      Audience = "gate"
)

const (
	// grantKeyPrefix namespaces grant keys in Valkey.
	grantKeyPrefix = "grant:"

	// DefaultAdminTTL is how long an admin session token stays valid.
	DefaultAdminTTL = 12 * time.Hour

	// DefaultDeviceTTL is how long box office and gate codes stay valid.
	// Codes are issued per event day and expire on their own.
	DefaultDeviceTTL = 36 * time.Hour
)

// Grant is what a token resolves to. Admin grants carry the operator's
// identity; box office and gate grants are bound to a single event.
type Grant struct {
	Audience   Audience   `json:"audience"`
	OperatorID *uuid.UUID `json:"operator_id,omitempty"`
	EventID    *uuid.UUID `json:"event_id,omitempty"`
	Label      string     `json:"label,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// GrantStore manages token grants in Valkey.
type GrantStore struct {
	client *redis.Client
}

// NewGrantStore creates a grant store backed by the given Valkey client.
func NewGrantStore(client *redis.Client) *GrantStore {
	return &GrantStore{client: client}
}

// CreateAdmin issues a long session token for an authenticated operator.
func (gs *GrantStore) CreateAdmin(ctx context.Context, operatorID uuid.UUID) (string, error) {
	token, err := NewSessionToken()
	if err != nil {
		return "", err
	}
	grant := &Grant{
		Audience:   AudienceAdmin,
		OperatorID: &operatorID,
		CreatedAt:  time.Now(),
	}
	if err := gs.put(ctx, token, grant, DefaultAdminTTL); err != nil {
		return "", err
	}
	return token, nil
}

// CreateDevice issues a short code granting box office or gate access for
// one event. The label names the device ("Portão A", "Bilheteria 2") so
// check-ins can be attributed.
func (gs *GrantStore) CreateDevice(ctx context.Context, audience Audience, eventID uuid.UUID, label string) (string, error) {
	if audience != AudienceBoxOffice && audience != AudienceGate {
		return "", fmt.Errorf("device grant: invalid audience %q", audience)
	}
	code, err := NewCode()
	if err != nil {
		return "", err
	}
	grant := &Grant{
		Audience:  audience,
		EventID:   &eventID,
		Label:     label,
		CreatedAt: time.Now(),
	}
	if err := gs.put(ctx, code, grant, DefaultDeviceTTL); err != nil {
		return "", err
	}
	return code, nil
}

// Resolve looks up a token. Returns nil if the token is unknown or expired.
func (gs *GrantStore) Resolve(ctx context.Context, token string) (*Grant, error) {
	if token == "" {
		return nil, nil
	}
	payload, err := gs.client.Get(ctx, grantKeyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("grant get: %w", err)
	}
	var grant Grant
	if err := json.Unmarshal(payload, &grant); err != nil {
		return nil, fmt.Errorf("grant unmarshal: %w", err)
	}
	return &grant, nil
}

// Revoke removes a token immediately.
func (gs *GrantStore) Revoke(ctx context.Context, token string) error {
	if err := gs.client.Del(ctx, grantKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("grant revoke: %w", err)
	}
	return nil
}

func (gs *GrantStore) put(ctx context.Context, token string, grant *Grant, ttl time.Duration) error {
	payload, err := json.Marshal(grant)
	if err != nil {
		return fmt.Errorf("grant marshal: %w", err)
	}
	if err := gs.client.Set(ctx, grantKeyPrefix+token, payload, ttl).Err(); err != nil {
		return fmt.Errorf("grant store: %w", err)
	}
	return nil
}
