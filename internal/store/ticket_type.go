// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"gatepass/internal/layout"
	"gatepass/internal/models"
)

// TicketTypeStore handles ticket-type persistence.
type TicketTypeStore struct {
	db *sql.DB
}

// NewTicketTypeStore creates a TicketTypeStore with the given connection.
func NewTicketTypeStore(db *sql.DB) *TicketTypeStore {
	return &TicketTypeStore{db: db}
}

const ticketTypeColumns = `id, event_id, description, is_default, layout, created_at`

func scanTicketType(row interface{ Scan(...any) error }) (*models.TicketType, error) {
	t := &models.TicketType{}
	var layoutJSON []byte
	if err := row.Scan(&t.ID, &t.EventID, &t.Description, &t.IsDefault, &layoutJSON, &t.CreatedAt); err != nil {
		return nil, err
	}
	if len(layoutJSON) > 0 {
		var l layout.Template
		if err := json.Unmarshal(layoutJSON, &l); err != nil {
			return nil, fmt.Errorf("decode ticket type layout: %w", err)
		}
		t.Layout = &l
	}
	return t, nil
}

// ListByEvent returns all ticket types of an event, default first.
func (s *TicketTypeStore) ListByEvent(eventID uuid.UUID) ([]models.TicketType, error) {
	rows, err := s.db.Query(`
		SELECT `+ticketTypeColumns+` FROM ticket_types
		WHERE event_id = $1
		ORDER BY is_default DESC, created_at ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list ticket types: %w", err)
	}
	defer rows.Close()

	var items []models.TicketType
	for rows.Next() {
		t, err := scanTicketType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket type: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// FindByID retrieves a ticket type by UUID. Returns nil if not found.
func (s *TicketTypeStore) FindByID(id uuid.UUID) (*models.TicketType, error) {
	t, err := scanTicketType(s.db.QueryRow(`SELECT `+ticketTypeColumns+` FROM ticket_types WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find ticket type: %w", err)
	}
	return t, nil
}

// FindDefault returns the event's default ticket type, or nil when the
// event has none.
func (s *TicketTypeStore) FindDefault(eventID uuid.UUID) (*models.TicketType, error) {
	t, err := scanTicketType(s.db.QueryRow(`
		SELECT `+ticketTypeColumns+` FROM ticket_types
		WHERE event_id = $1 AND is_default
	`, eventID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find default ticket type: %w", err)
	}
	return t, nil
}

// Create inserts a new ticket type. Marking it default clears the previous
// default for the same event; a partial unique index enforces the single
// default at the database level.
func (s *TicketTypeStore) Create(t *models.TicketType) (*models.TicketType, error) {
	if t.IsDefault {
		if _, err := s.db.Exec(`UPDATE ticket_types SET is_default = FALSE WHERE event_id = $1 AND is_default`, t.EventID); err != nil {
			return nil, fmt.Errorf("clear default ticket type: %w", err)
		}
	}

	created, err := scanTicketType(s.db.QueryRow(`
		INSERT INTO ticket_types (event_id, description, is_default)
		VALUES ($1, $2, $3)
		RETURNING `+ticketTypeColumns,
		t.EventID, t.Description, t.IsDefault,
	))
	if err != nil {
		return nil, fmt.Errorf("create ticket type: %w", err)
	}
	return created, nil
}

// Delete removes a ticket type.
func (s *TicketTypeStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM ticket_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete ticket type: %w", err)
	}
	return nil
}
