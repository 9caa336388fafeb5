// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"gatepass/internal/middleware"
	"gatepass/internal/store"
)

// Gate groups the entrance validation endpoint used by gate scanner
// devices. Validation is first-scan-wins: a single conditional UPDATE
// claims the ticket, so two gates scanning the same QR concurrently can
// never both admit it.
type Gate struct {
	events       *store.EventStore
	participants *store.ParticipantStore
	tickets      *store.TicketStore
}

// NewGate creates the gate handler group.
func NewGate(events *store.EventStore, participants *store.ParticipantStore, tickets *store.TicketStore) *Gate {
	return &Gate{events: events, participants: participants, tickets: tickets}
}

// Validate checks a scanned QR hash and claims the ticket.
//
// POST /events/{eventID}/gate/validate
//
// Responses use a "status" discriminator the scanner UI switches on:
// "OK" (admit), "ALREADY_USED" (deny, show first scan time), or a 404
// when the hash is unknown.
func (h *Gate) Validate(w http.ResponseWriter, r *http.Request) {
	event := eventFromGrant(w, r, h.events)
	if event == nil {
		return
	}

	var req struct {
		QRHash string `json:"qrcode_hash"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.QRHash == "" {
		writeError(w, http.StatusBadRequest, "qrcode_hash is required")
		return
	}

	// The grant's label names the scanning device for the audit trail.
	gateLabel := ""
	if grant := middleware.GrantFrom(r.Context()); grant != nil {
		gateLabel = grant.Label
	}

	// Verify the hash belongs to this event before attempting the claim;
	// a gate token must never consume another event's ticket.
	existing, err := h.tickets.FindByQRHash(req.QRHash)
	if err != nil {
		slog.Error("gate ticket lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil || existing.EventID != event.ID {
		writeError(w, http.StatusNotFound, "ticket not found")
		return
	}

	ticket, claimed, err := h.tickets.CheckIn(req.QRHash, gateLabel)
	if err != nil {
		slog.Error("gate check-in failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if ticket == nil {
		writeError(w, http.StatusNotFound, "ticket not found")
		return
	}

	participantName := ""
	if ticket.ParticipantID != nil {
		if p, err := h.participants.FindByID(*ticket.ParticipantID); err == nil && p != nil {
			participantName = p.Name
		}
	}

	if !claimed {
		writeJSON(w, http.StatusConflict, map[string]any{
			"status":          "ALREADY_USED",
			"participant":     participantName,
			"checked_in_at":   ticket.CheckedInAt,
			"checked_in_gate": ticket.CheckedInGate,
		})
		return
	}

	slog.Info("ticket checked in",
		"event_id", event.ID,
		"qr_hash", req.QRHash,
		"gate", gateLabel,
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "OK",
		"participant": participantName,
	})
}
