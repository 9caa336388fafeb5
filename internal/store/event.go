// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store contains the PostgreSQL persistence layer. One store per
// aggregate; all queries go through database/sql with the pgx stdlib
// driver. Layout templates are stored as JSONB and round-trip through the
// layout package's JSON model without loss.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"gatepass/internal/layout"
	"gatepass/internal/models"
)

// EventStore handles event persistence, including the event's master
// layout template and logo asset references.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates an EventStore with the given database connection.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

const eventColumns = `id, name, starts_at, layout, logo_blob, logo_content_type, logo_s3_key, logo_path, created_at, updated_at`

// scanEvent reads one event row, decoding the layout JSONB when present.
func scanEvent(row interface{ Scan(...any) error }) (*models.Event, error) {
	e := &models.Event{}
	var layoutJSON []byte
	err := row.Scan(
		&e.ID, &e.Name, &e.StartsAt, &layoutJSON,
		&e.LogoBlob, &e.LogoContentType, &e.LogoS3Key, &e.LogoPath,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(layoutJSON) > 0 {
		var t layout.Template
		if err := json.Unmarshal(layoutJSON, &t); err != nil {
			return nil, fmt.Errorf("decode event layout: %w", err)
		}
		e.Layout = &t
	}
	return e, nil
}

// layoutJSON encodes a template for a JSONB column; nil stays NULL.
func layoutJSON(t *layout.Template) (any, error) {
	if t == nil {
		return nil, nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return data, nil
}

// List returns all events, newest first.
func (s *EventStore) List() ([]models.Event, error) {
	rows, err := s.db.Query(`SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var items []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

// FindByID retrieves an event by its UUID. Returns nil if not found.
func (s *EventStore) FindByID(id uuid.UUID) (*models.Event, error) {
	e, err := scanEvent(s.db.QueryRow(`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event by id: %w", err)
	}
	return e, nil
}

// Create inserts a new event and returns it with generated fields.
func (s *EventStore) Create(e *models.Event) (*models.Event, error) {
	lj, err := layoutJSON(e.Layout)
	if err != nil {
		return nil, err
	}

	created, err := scanEvent(s.db.QueryRow(`
		INSERT INTO events (name, starts_at, layout, logo_blob, logo_content_type, logo_s3_key, logo_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+eventColumns,
		e.Name, e.StartsAt, lj, e.LogoBlob, e.LogoContentType, e.LogoS3Key, e.LogoPath,
	))
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

// Update modifies an existing event, layout included.
func (s *EventStore) Update(e *models.Event) error {
	lj, err := layoutJSON(e.Layout)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		UPDATE events SET
			name = $1, starts_at = $2, layout = $3,
			logo_blob = $4, logo_content_type = $5, logo_s3_key = $6, logo_path = $7,
			updated_at = NOW()
		WHERE id = $8
	`, e.Name, e.StartsAt, lj, e.LogoBlob, e.LogoContentType, e.LogoS3Key, e.LogoPath, e.ID)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// SaveLayout replaces only the event's layout template.
func (s *EventStore) SaveLayout(id uuid.UUID, t *layout.Template) error {
	lj, err := layoutJSON(t)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`UPDATE events SET layout = $1, updated_at = NOW() WHERE id = $2`, lj, id)
	if err != nil {
		return fmt.Errorf("save event layout: %w", err)
	}
	return nil
}

// SaveLogo stores an uploaded logo blob (or clears it when blob is nil) and
// the optional S3 key reference.
func (s *EventStore) SaveLogo(id uuid.UUID, blob []byte, contentType, s3Key *string) error {
	_, err := s.db.Exec(`
		UPDATE events SET logo_blob = $1, logo_content_type = $2, logo_s3_key = $3, updated_at = NOW()
		WHERE id = $4
	`, blob, contentType, s3Key, id)
	if err != nil {
		return fmt.Errorf("save event logo: %w", err)
	}
	return nil
}

// Delete removes an event and, via cascade, its dependents.
func (s *EventStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
