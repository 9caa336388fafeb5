// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"gatepass/internal/models"
)

// ParticipantStore handles participant persistence and the name/email/CPF
// lookups the box office and accreditation desk run.
type ParticipantStore struct {
	db *sql.DB
}

// NewParticipantStore creates a ParticipantStore with the given connection.
func NewParticipantStore(db *sql.DB) *ParticipantStore {
	return &ParticipantStore{db: db}
}

const participantColumns = `id, event_id, name, cpf, email, created_at`

func scanParticipant(row interface{ Scan(...any) error }) (*models.Participant, error) {
	p := &models.Participant{}
	if err := row.Scan(&p.ID, &p.EventID, &p.Name, &p.CPF, &p.Email, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// FindByID retrieves a participant by UUID. Returns nil if not found.
func (s *ParticipantStore) FindByID(id uuid.UUID) (*models.Participant, error) {
	p, err := scanParticipant(s.db.QueryRow(`SELECT `+participantColumns+` FROM participants WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find participant: %w", err)
	}
	return p, nil
}

// FindByCPF retrieves a participant of an event by exact CPF (digits only).
// Returns nil if not found.
func (s *ParticipantStore) FindByCPF(eventID uuid.UUID, cpf string) (*models.Participant, error) {
	p, err := scanParticipant(s.db.QueryRow(`
		SELECT `+participantColumns+` FROM participants WHERE event_id = $1 AND cpf = $2
	`, eventID, cpf))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find participant by cpf: %w", err)
	}
	return p, nil
}

// Search finds participants of an event by case-insensitive name prefix or
// exact email, capped at limit rows. Used by the accreditation search box.
func (s *ParticipantStore) Search(eventID uuid.UUID, query string, limit int) ([]models.Participant, error) {
	if limit <= 0 {
		limit = 20
	}
	query = strings.TrimSpace(query)

	var (
		rows *sql.Rows
		err  error
	)
	if strings.Contains(query, "@") {
		rows, err = s.db.Query(`
			SELECT `+participantColumns+` FROM participants
			WHERE event_id = $1 AND LOWER(email) = LOWER($2)
			ORDER BY name LIMIT $3
		`, eventID, query, limit)
	} else {
		rows, err = s.db.Query(`
			SELECT `+participantColumns+` FROM participants
			WHERE event_id = $1 AND name ILIKE $2 || '%'
			ORDER BY name LIMIT $3
		`, eventID, query, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("search participants: %w", err)
	}
	defer rows.Close()

	var items []models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// Create inserts a new participant and returns it with generated fields.
func (s *ParticipantStore) Create(p *models.Participant) (*models.Participant, error) {
	created, err := scanParticipant(s.db.QueryRow(`
		INSERT INTO participants (event_id, name, cpf, email)
		VALUES ($1, $2, $3, $4)
		RETURNING `+participantColumns,
		p.EventID, p.Name, p.CPF, p.Email,
	))
	if err != nil {
		return nil, fmt.Errorf("create participant: %w", err)
	}
	return created, nil
}

// CountByEvent returns how many participants an event has.
func (s *ParticipantStore) CountByEvent(eventID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM participants WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return count, nil
}
