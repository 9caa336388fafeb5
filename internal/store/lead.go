// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"gatepass/internal/models"
)

// LeadStore handles lead interactions captured at sponsor stands.
type LeadStore struct {
	db *sql.DB
}

// NewLeadStore creates a LeadStore with the given connection.
func NewLeadStore(db *sql.DB) *LeadStore {
	return &LeadStore{db: db}
}

const leadColumns = `id, event_id, participant_id, qr_hash, origin, created_at`

func scanLead(row interface{ Scan(...any) error }) (*models.LeadInteraction, error) {
	l := &models.LeadInteraction{}
	err := row.Scan(&l.ID, &l.EventID, &l.ParticipantID, &l.QRHash, &l.Origin, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Create records one lead capture. Repeat scans of the same ticket at the
// same stand are stored as separate interactions.
func (s *LeadStore) Create(l *models.LeadInteraction) (*models.LeadInteraction, error) {
	created, err := scanLead(s.db.QueryRow(`
		INSERT INTO lead_interactions (event_id, participant_id, qr_hash, origin)
		VALUES ($1, $2, $3, $4)
		RETURNING `+leadColumns,
		l.EventID, l.ParticipantID, l.QRHash, l.Origin,
	))
	if err != nil {
		return nil, fmt.Errorf("create lead interaction: %w", err)
	}
	return created, nil
}

// ListByEvent returns an event's lead interactions, newest first. A
// non-empty origin narrows the list to one stand.
func (s *LeadStore) ListByEvent(eventID uuid.UUID, origin string, limit int) ([]models.LeadInteraction, error) {
	rows, err := s.db.Query(`
		SELECT `+leadColumns+` FROM lead_interactions
		WHERE event_id = $1 AND ($2 = '' OR origin = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`, eventID, origin, limit)
	if err != nil {
		return nil, fmt.Errorf("list lead interactions: %w", err)
	}
	defer rows.Close()

	var items []models.LeadInteraction
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead interaction: %w", err)
		}
		items = append(items, *l)
	}
	return items, rows.Err()
}
