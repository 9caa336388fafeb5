// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"testing"
	"time"

	"gatepass/internal/layout"
	"gatepass/internal/models"
)

func TestFreezeLayoutResolvesTokensAtIssue(t *testing.T) {
	starts := time.Date(2026, 7, 18, 20, 30, 0, 0, time.UTC)
	event := &models.Event{
		Name:     "Festival de Inverno",
		StartsAt: &starts,
		Layout: &layout.Template{
			Canvas: layout.Canvas{Width: 80, Height: 120},
			Elements: []layout.Element{
				{Type: layout.ElementText, X: 10, Y: 10, Value: "{NOME}", Size: 12},
				{Type: layout.ElementText, X: 10, Y: 20, Value: "{EVENTO_NOME}", Size: 10},
				{Type: layout.ElementQRCode, X: 40, Y: 60, SizeMM: 30},
			},
		},
	}
	participant := &models.Participant{Name: "Maria Souza", CPF: "12345678909"}

	frozen := freezeLayout(event, nil, participant, "abc123")

	if frozen.Elements[0].Value != "Maria Souza" {
		t.Errorf("name not resolved at issue: %q", frozen.Elements[0].Value)
	}
	if frozen.Elements[1].Value != "Festival de Inverno" {
		t.Errorf("event name not resolved: %q", frozen.Elements[1].Value)
	}
	if frozen.Elements[2].Value != "abc123" {
		t.Errorf("qr value not resolved: %q", frozen.Elements[2].Value)
	}

	// The event's template is a source, never mutated.
	if event.Layout.Elements[0].Value != "{NOME}" {
		t.Error("freezing mutated the event layout")
	}

	// A participant rename after issue must not leak into the frozen copy.
	participant.Name = "Maria S. de Almeida"
	if frozen.Elements[0].Value != "Maria Souza" {
		t.Error("frozen layout follows participant edits")
	}
}

func TestFreezeLayoutTicketTypeOverride(t *testing.T) {
	event := &models.Event{
		Name: "Show",
		Layout: &layout.Template{
			Canvas:   layout.Canvas{Width: 80, Height: 120},
			Elements: []layout.Element{{Type: layout.ElementText, X: 1, Y: 1, Value: "event", Size: 12}},
		},
	}
	vip := &models.TicketType{
		Description: "VIP",
		Layout: &layout.Template{
			Canvas:   layout.Canvas{Width: 62, Height: 90},
			Elements: []layout.Element{{Type: layout.ElementText, X: 1, Y: 1, Value: "{TIPO_INGRESSO}", Size: 12}},
		},
	}

	frozen := freezeLayout(event, vip, nil, "h")
	if frozen.Canvas.Width != 62 {
		t.Errorf("ticket type layout not used: canvas %v", frozen.Canvas)
	}
	if frozen.Elements[0].Value != "VIP" {
		t.Errorf("ticket type token not resolved: %q", frozen.Elements[0].Value)
	}
}

func TestFreezeLayoutWithoutTemplate(t *testing.T) {
	frozen := freezeLayout(&models.Event{Name: "X"}, nil, nil, "h")
	if frozen == nil || frozen.Canvas.Width != 80 || frozen.Canvas.Height != 120 {
		t.Errorf("default layout expected, got %+v", frozen)
	}
}
