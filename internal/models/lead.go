// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// LeadInteraction records one scan of a participant's ticket QR at a
// sponsor stand. Origin names the stand or device that captured the lead.
type LeadInteraction struct {
	ID            uuid.UUID  `json:"id"`
	EventID       uuid.UUID  `json:"event_id"`
	ParticipantID *uuid.UUID `json:"participant_id,omitempty"`
	QRHash        string     `json:"qrcode_hash"`
	Origin        string     `json:"origin,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
