// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role is an operator's permission level.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleBoxOffice Role = "boxoffice"
)

// Operator is a staff account that can log into the admin API or obtain
// box-office/gate access tokens for an event.
type Operator struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// SetPassword hashes and stores the given plaintext password.
func (o *Operator) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	o.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (o *Operator) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(plain)) == nil
}

// IsAdmin reports whether the operator may manage events and layouts.
func (o *Operator) IsAdmin() bool {
	return o.Role == RoleAdmin
}
