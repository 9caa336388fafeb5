// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"gatepass/internal/auth"
	"gatepass/internal/layout"
	"gatepass/internal/middleware"
	"gatepass/internal/models"
	"gatepass/internal/store"
)

// BoxOffice groups the endpoints used by venue box office devices: looking
// up and creating participants, and issuing tickets for printing. Every
// route is bound to the event the device's access code was issued for.
type BoxOffice struct {
	events       *store.EventStore
	ticketTypes  *store.TicketTypeStore
	participants *store.ParticipantStore
	tickets      *store.TicketStore
}

// NewBoxOffice creates the box office handler group.
func NewBoxOffice(events *store.EventStore, ticketTypes *store.TicketTypeStore, participants *store.ParticipantStore, tickets *store.TicketStore) *BoxOffice {
	return &BoxOffice{
		events:       events,
		ticketTypes:  ticketTypes,
		participants: participants,
		tickets:      tickets,
	}
}

// eventFromGrant resolves the event a device grant is bound to, enforcing
// that the URL's event matches the grant. Admin grants may address any
// event. Returns nil after writing the error response.
func eventFromGrant(w http.ResponseWriter, r *http.Request, events *store.EventStore) *models.Event {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return nil
	}

	grant := middleware.GrantFrom(r.Context())
	if grant == nil {
		writeError(w, http.StatusUnauthorized, "missing access token")
		return nil
	}
	if grant.Audience != auth.AudienceAdmin {
		if grant.EventID == nil || *grant.EventID != eventID {
			writeError(w, http.StatusForbidden, "token not valid for this event")
			return nil
		}
	}

	event, err := events.FindByID(eventID)
	if err != nil {
		slog.Error("find event failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return nil
	}
	return event
}

// SearchParticipants finds participants by name prefix or exact email.
//
// GET /events/{eventID}/participants?q=maria&limit=20
func (h *BoxOffice) SearchParticipants(w http.ResponseWriter, r *http.Request) {
	event := eventFromGrant(w, r, h.events)
	if event == nil {
		return
	}

	query := r.URL.Query().Get("q")
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	results, err := h.participants.Search(event.ID, query, limit)
	if err != nil {
		slog.Error("participant search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"participants": results})
}

// CreateParticipant registers a walk-up attendee at the box office.
//
// POST /events/{eventID}/participants
func (h *BoxOffice) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	event := eventFromGrant(w, r, h.events)
	if event == nil {
		return
	}

	var req struct {
		Name  string `json:"name"`
		CPF   string `json:"cpf"`
		Email string `json:"email"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	if msg := validateParticipant(req.Name, req.CPF, req.Email); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	cpf := normalizeCPF(req.CPF)
	if cpf != "" {
		existing, err := h.participants.FindByCPF(event.ID, cpf)
		if err != nil {
			slog.Error("participant cpf lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if existing != nil {
			writeError(w, http.StatusConflict, "a participant with this CPF is already registered")
			return
		}
	}

	participant, err := h.participants.Create(&models.Participant{
		EventID: event.ID,
		Name:    req.Name,
		CPF:     cpf,
		Email:   req.Email,
	})
	if err != nil {
		slog.Error("participant create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, participant)
}

// IssueTicket issues a new ticket for a participant and freezes the
// event's current layout onto it so later template edits never change an
// already printed ticket.
//
// POST /events/{eventID}/tickets
func (h *BoxOffice) IssueTicket(w http.ResponseWriter, r *http.Request) {
	event := eventFromGrant(w, r, h.events)
	if event == nil {
		return
	}

	var req struct {
		ParticipantID *uuid.UUID `json:"participant_id"`
		TicketTypeID  *uuid.UUID `json:"ticket_type_id"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	var participant *models.Participant
	if req.ParticipantID != nil {
		p, err := h.participants.FindByID(*req.ParticipantID)
		if err != nil {
			slog.Error("participant lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if p == nil || p.EventID != event.ID {
			writeError(w, http.StatusBadRequest, "participant does not belong to this event")
			return
		}
		participant = p
	}

	ticketType, err := h.resolveTicketType(event.ID, req.TicketTypeID)
	if err != nil {
		slog.Error("ticket type lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if req.TicketTypeID != nil && ticketType == nil {
		writeError(w, http.StatusBadRequest, "ticket type does not belong to this event")
		return
	}

	qrHash, err := auth.NewQRHash()
	if err != nil {
		slog.Error("qr hash generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	ticket := &models.IssuedTicket{
		EventID:       event.ID,
		ParticipantID: req.ParticipantID,
		QRHash:        qrHash,
		Layout:        freezeLayout(event, ticketType, participant, qrHash),
	}
	if ticketType != nil {
		ticket.TicketTypeID = &ticketType.ID
	}

	created, err := h.tickets.Create(ticket)
	if err != nil {
		slog.Error("ticket create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"ticket":     created,
		"render_url": "/tickets/" + created.QRHash + "/render.jpg",
	})
}

// ListTickets lists a participant's tickets so the box office can reprint.
//
// GET /events/{eventID}/participants/{participantID}/tickets
func (h *BoxOffice) ListTickets(w http.ResponseWriter, r *http.Request) {
	event := eventFromGrant(w, r, h.events)
	if event == nil {
		return
	}

	participantID, err := uuid.Parse(chi.URLParam(r, "participantID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid participant id")
		return
	}

	participant, err := h.participants.FindByID(participantID)
	if err != nil {
		slog.Error("participant lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if participant == nil || participant.EventID != event.ID {
		writeError(w, http.StatusNotFound, "participant not found")
		return
	}

	tickets, err := h.tickets.ListByParticipant(participantID)
	if err != nil {
		slog.Error("ticket list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tickets": tickets})
}

// freezeLayout resolves the layout stamped onto a ticket at issue time.
// Token embedding happens here, not at render, so later edits to the
// participant, event, or template never change an already printed ticket.
// A ticket-type layout override beats the event layout.
func freezeLayout(event *models.Event, ticketType *models.TicketType, participant *models.Participant, qrHash string) *layout.Template {
	tmpl := event.LayoutOrDefault()
	if ticketType != nil && ticketType.Layout != nil {
		tmpl = ticketType.Layout
	}
	return layout.Embed(tmpl,
		participant.EmbedData(),
		ticketType.EmbedData(),
		event.EmbedData(),
		layout.TicketData{QRHash: qrHash},
	)
}

// resolveTicketType returns the requested ticket type when it belongs to
// the event, or the event's default type when none was requested.
func (h *BoxOffice) resolveTicketType(eventID uuid.UUID, id *uuid.UUID) (*models.TicketType, error) {
	if id != nil {
		tt, err := h.ticketTypes.FindByID(*id)
		if err != nil {
			return nil, err
		}
		if tt == nil || tt.EventID != eventID {
			return nil, nil
		}
		return tt, nil
	}
	return h.ticketTypes.FindDefault(eventID)
}
