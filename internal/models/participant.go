// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"gatepass/internal/layout"
)

// Participant is a registered attendee of one event. CPF is stored as
// digits only and is unique per event when present.
type Participant struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"event_id"`
	Name      string    `json:"name"`
	CPF       string    `json:"cpf,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EmbedData projects the participant into the embedding data bag. A nil
// receiver contributes empty fields so anonymous tickets still render.
func (p *Participant) EmbedData() layout.ParticipantData {
	if p == nil {
		return layout.ParticipantData{}
	}
	return layout.ParticipantData{Name: p.Name, CPF: p.CPF, Email: p.Email}
}
