// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"gatepass/internal/middleware"
	"gatepass/internal/models"
	"gatepass/internal/store"
)

// Leads groups the sponsor stand endpoints: a stand device scans a
// participant's ticket QR to capture the contact, and lists what it has
// captured so far. Capturing never touches check-in state.
type Leads struct {
	events       *store.EventStore
	participants *store.ParticipantStore
	tickets      *store.TicketStore
	leads        *store.LeadStore
}

// NewLeads creates the lead capture handler group.
func NewLeads(events *store.EventStore, participants *store.ParticipantStore, tickets *store.TicketStore, leads *store.LeadStore) *Leads {
	return &Leads{events: events, participants: participants, tickets: tickets, leads: leads}
}

// Collect records a ticket scan at a stand.
//
// POST /events/{eventID}/leads
//
// The origin defaults to the scanning device's grant label, so a stand
// only has to send the QR hash it scanned.
func (h *Leads) Collect(w http.ResponseWriter, r *http.Request) {
	event := eventFromGrant(w, r, h.events)
	if event == nil {
		return
	}

	var req struct {
		QRHash string `json:"qrcode_hash"`
		Origin string `json:"origin"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.QRHash == "" {
		writeError(w, http.StatusBadRequest, "qrcode_hash is required")
		return
	}

	origin := req.Origin
	if origin == "" {
		if grant := middleware.GrantFrom(r.Context()); grant != nil {
			origin = grant.Label
		}
	}
	if len(origin) > maxLabelLen {
		writeError(w, http.StatusBadRequest, "origin is too long")
		return
	}

	ticket, err := h.tickets.FindByQRHash(req.QRHash)
	if err != nil {
		slog.Error("lead ticket lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if ticket == nil || ticket.EventID != event.ID {
		writeError(w, http.StatusNotFound, "ticket not found")
		return
	}

	lead, err := h.leads.Create(&models.LeadInteraction{
		EventID:       event.ID,
		ParticipantID: ticket.ParticipantID,
		QRHash:        req.QRHash,
		Origin:        origin,
	})
	if err != nil {
		slog.Error("lead create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := map[string]any{"lead": lead}
	if ticket.ParticipantID != nil {
		if p, err := h.participants.FindByID(*ticket.ParticipantID); err == nil && p != nil {
			resp["participant"] = map[string]any{"name": p.Name, "email": p.Email}
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

// List returns an event's captured leads, optionally filtered by origin.
//
// GET /events/{eventID}/leads?origin=stand-a&limit=50
func (h *Leads) List(w http.ResponseWriter, r *http.Request) {
	event := eventFromGrant(w, r, h.events)
	if event == nil {
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}

	items, err := h.leads.ListByEvent(event.ID, r.URL.Query().Get("origin"), limit)
	if err != nil {
		slog.Error("lead list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"leads": items})
}
