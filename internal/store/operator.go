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

// OperatorStore handles staff account persistence.
type OperatorStore struct {
	db *sql.DB
}

// NewOperatorStore creates an OperatorStore with the given connection.
func NewOperatorStore(db *sql.DB) *OperatorStore {
	return &OperatorStore{db: db}
}

const operatorColumns = `id, email, display_name, password_hash, role, created_at`

func scanOperator(row interface{ Scan(...any) error }) (*models.Operator, error) {
	o := &models.Operator{}
	if err := row.Scan(&o.ID, &o.Email, &o.DisplayName, &o.PasswordHash, &o.Role, &o.CreatedAt); err != nil {
		return nil, err
	}
	return o, nil
}

// FindByEmail retrieves an operator by email, case-insensitive. Returns nil
// if not found.
func (s *OperatorStore) FindByEmail(email string) (*models.Operator, error) {
	o, err := scanOperator(s.db.QueryRow(`
		SELECT `+operatorColumns+` FROM operators WHERE LOWER(email) = LOWER($1)
	`, strings.TrimSpace(email)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find operator by email: %w", err)
	}
	return o, nil
}

// FindByID retrieves an operator by UUID. Returns nil if not found.
func (s *OperatorStore) FindByID(id uuid.UUID) (*models.Operator, error) {
	o, err := scanOperator(s.db.QueryRow(`SELECT `+operatorColumns+` FROM operators WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find operator: %w", err)
	}
	return o, nil
}

// Create inserts a new operator account.
func (s *OperatorStore) Create(o *models.Operator) (*models.Operator, error) {
	created, err := scanOperator(s.db.QueryRow(`
		INSERT INTO operators (email, display_name, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+operatorColumns,
		o.Email, o.DisplayName, o.PasswordHash, o.Role,
	))
	if err != nil {
		return nil, fmt.Errorf("create operator: %w", err)
	}
	return created, nil
}

// Count returns the total number of operator accounts.
func (s *OperatorStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM operators`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count operators: %w", err)
	}
	return count, nil
}
