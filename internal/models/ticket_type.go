// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"gatepass/internal/layout"
)

// TicketType is a category of admission for an event. At most one type per
// event is the default; self-registration and box-office quick issue use it
// when no explicit type is chosen.
//
// The per-type Layout is a deprecated override kept readable for tickets
// issued under older events; new layouts are authored on the event.
type TicketType struct {
	ID          uuid.UUID        `json:"id"`
	EventID     uuid.UUID        `json:"event_id"`
	Description string           `json:"description"`
	IsDefault   bool             `json:"is_default"`
	Layout      *layout.Template `json:"layout,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// EmbedData projects the ticket type into the embedding data bag. A nil
// receiver contributes empty fields, matching tickets issued without a type.
func (t *TicketType) EmbedData() layout.TicketTypeData {
	if t == nil {
		return layout.TicketTypeData{}
	}
	return layout.TicketTypeData{Description: t.Description}
}
