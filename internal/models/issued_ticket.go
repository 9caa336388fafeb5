// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"gatepass/internal/layout"
)

// IssuedTicket is one printed (or printable) admission. The resolved layout
// is frozen at issue time so reprints stay identical even if the event's
// template is edited later. QRHash is the value encoded in the ticket's QR
// symbol and the key gate validation scans.
type IssuedTicket struct {
	ID            uuid.UUID        `json:"id"`
	EventID       uuid.UUID        `json:"event_id"`
	ParticipantID *uuid.UUID       `json:"participant_id,omitempty"`
	TicketTypeID  *uuid.UUID       `json:"ticket_type_id,omitempty"`
	QRHash        string           `json:"qrcode_hash"`
	Layout        *layout.Template `json:"layout"`
	IssuedAt      time.Time        `json:"issued_at"`
	CheckedInAt   *time.Time       `json:"checked_in_at,omitempty"`
	CheckedInGate *string          `json:"checked_in_gate,omitempty"`
}

// CheckedIn reports whether this ticket has already passed a gate.
func (t *IssuedTicket) CheckedIn() bool {
	return t.CheckedInAt != nil
}

// EmbedData projects the ticket into the embedding data bag.
func (t *IssuedTicket) EmbedData() layout.TicketData {
	return layout.TicketData{QRHash: t.QRHash}
}
