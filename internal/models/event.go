// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the domain entities persisted by the store layer:
// events, ticket types, participants, issued tickets, and operators.
package models

import (
	"time"

	"github.com/google/uuid"

	"gatepass/internal/layout"
)

// Event is a single ticketed event. Its layout template is the master copy
// every issued ticket is embedded from; the logo fields feed the renderer's
// asset chain (blob first, then S3 key, then a path under the asset root).
type Event struct {
	ID       uuid.UUID        `json:"id"`
	Name     string           `json:"name"`
	StartsAt *time.Time       `json:"starts_at"`
	Layout   *layout.Template `json:"layout,omitempty"`

	LogoBlob        []byte  `json:"-"`
	LogoContentType *string `json:"logo_content_type,omitempty"`
	LogoS3Key       *string `json:"-"`
	LogoPath        *string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LayoutOrDefault returns the event's layout template, or the blank default
// when the event has none. Never nil.
func (e *Event) LayoutOrDefault() *layout.Template {
	if e.Layout != nil {
		return e.Layout
	}
	return layout.DefaultTemplate()
}

// EmbedData projects the event into the embedding data bag.
func (e *Event) EmbedData() layout.EventData {
	d := layout.EventData{Name: e.Name}
	if e.StartsAt != nil {
		d.Date = *e.StartsAt
	}
	return d
}
