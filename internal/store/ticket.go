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

// TicketStore handles issued tickets: the frozen resolved layout, QR hash
// lookups for reprints, and gate check-in state.
type TicketStore struct {
	db *sql.DB
}

// NewTicketStore creates a TicketStore with the given connection.
func NewTicketStore(db *sql.DB) *TicketStore {
	return &TicketStore{db: db}
}

const ticketColumns = `id, event_id, participant_id, ticket_type_id, qr_hash, layout, issued_at, checked_in_at, checked_in_gate`

func scanTicket(row interface{ Scan(...any) error }) (*models.IssuedTicket, error) {
	t := &models.IssuedTicket{}
	var layoutJSON []byte
	err := row.Scan(
		&t.ID, &t.EventID, &t.ParticipantID, &t.TicketTypeID,
		&t.QRHash, &layoutJSON, &t.IssuedAt, &t.CheckedInAt, &t.CheckedInGate,
	)
	if err != nil {
		return nil, err
	}
	if len(layoutJSON) > 0 {
		var l layout.Template
		if err := json.Unmarshal(layoutJSON, &l); err != nil {
			return nil, fmt.Errorf("decode ticket layout: %w", err)
		}
		t.Layout = &l
	}
	return t, nil
}

// Create inserts an issued ticket with its resolved layout.
func (s *TicketStore) Create(t *models.IssuedTicket) (*models.IssuedTicket, error) {
	lj, err := layoutJSON(t.Layout)
	if err != nil {
		return nil, err
	}

	created, err := scanTicket(s.db.QueryRow(`
		INSERT INTO issued_tickets (event_id, participant_id, ticket_type_id, qr_hash, layout)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+ticketColumns,
		t.EventID, t.ParticipantID, t.TicketTypeID, t.QRHash, lj,
	))
	if err != nil {
		return nil, fmt.Errorf("create issued ticket: %w", err)
	}
	return created, nil
}

// FindByID retrieves a ticket by UUID scoped to an event. Returns nil if
// not found.
func (s *TicketStore) FindByID(eventID, id uuid.UUID) (*models.IssuedTicket, error) {
	t, err := scanTicket(s.db.QueryRow(`
		SELECT `+ticketColumns+` FROM issued_tickets WHERE id = $1 AND event_id = $2
	`, id, eventID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	return t, nil
}

// FindByQRHash retrieves a ticket by its QR hash. Gate scanners and the
// reprint endpoint address tickets this way. Returns nil if not found.
func (s *TicketStore) FindByQRHash(qrHash string) (*models.IssuedTicket, error) {
	t, err := scanTicket(s.db.QueryRow(`
		SELECT `+ticketColumns+` FROM issued_tickets WHERE qr_hash = $1
	`, qrHash))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find ticket by qr hash: %w", err)
	}
	return t, nil
}

// ListByParticipant returns all tickets issued to one participant, newest
// first.
func (s *TicketStore) ListByParticipant(participantID uuid.UUID) ([]models.IssuedTicket, error) {
	rows, err := s.db.Query(`
		SELECT `+ticketColumns+` FROM issued_tickets
		WHERE participant_id = $1
		ORDER BY issued_at DESC
	`, participantID)
	if err != nil {
		return nil, fmt.Errorf("list tickets by participant: %w", err)
	}
	defer rows.Close()

	var items []models.IssuedTicket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// SaveLayout replaces a ticket's frozen resolved layout. Only used when a
// legacy ticket without one is first rendered.
func (s *TicketStore) SaveLayout(id uuid.UUID, t *layout.Template) error {
	lj, err := layoutJSON(t)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`UPDATE issued_tickets SET layout = $1 WHERE id = $2`, lj, id)
	if err != nil {
		return fmt.Errorf("save ticket layout: %w", err)
	}
	return nil
}

// CheckIn records the first gate passage for a QR hash. The conditional
// update makes the first scan win: it returns the ticket with fresh
// check-in state and reports whether this call performed the check-in.
func (s *TicketStore) CheckIn(qrHash, gate string) (*models.IssuedTicket, bool, error) {
	res, err := s.db.Exec(`
		UPDATE issued_tickets
		SET checked_in_at = NOW(), checked_in_gate = $2
		WHERE qr_hash = $1 AND checked_in_at IS NULL
	`, qrHash, gate)
	if err != nil {
		return nil, false, fmt.Errorf("check in ticket: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("check in ticket: %w", err)
	}

	t, err := s.FindByQRHash(qrHash)
	if err != nil {
		return nil, false, err
	}
	return t, affected == 1, nil
}

// CountByEvent returns issued and checked-in totals for an event.
func (s *TicketStore) CountByEvent(eventID uuid.UUID) (issued, checkedIn int, err error) {
	err = s.db.QueryRow(`
		SELECT COUNT(*), COUNT(checked_in_at) FROM issued_tickets WHERE event_id = $1
	`, eventID).Scan(&issued, &checkedIn)
	if err != nil {
		return 0, 0, fmt.Errorf("count tickets: %w", err)
	}
	return issued, checkedIn, nil
}
