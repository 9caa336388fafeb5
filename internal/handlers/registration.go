// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"gatepass/internal/auth"
	"gatepass/internal/models"
	"gatepass/internal/store"
)

// Registration handles public self-registration: an attendee submits their
// details and immediately receives a ticket of the event's default type.
// If the CPF is already registered, the existing ticket is returned
// instead of issuing a duplicate.
type Registration struct {
	events       *store.EventStore
	ticketTypes  *store.TicketTypeStore
	participants *store.ParticipantStore
	tickets      *store.TicketStore
}

// NewRegistration creates the public registration handler group.
func NewRegistration(events *store.EventStore, ticketTypes *store.TicketTypeStore, participants *store.ParticipantStore, tickets *store.TicketStore) *Registration {
	return &Registration{
		events:       events,
		ticketTypes:  ticketTypes,
		participants: participants,
		tickets:      tickets,
	}
}

// Register creates a participant and issues their ticket in one call.
//
// POST /events/{eventID}/register
func (h *Registration) Register(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	event, err := h.events.FindByID(eventID)
	if err != nil {
		slog.Error("find event failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found")
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

	// Repeat registrations with the same CPF get their existing ticket
	// back rather than a second one.
	cpf := normalizeCPF(req.CPF)
	if cpf != "" {
		existing, err := h.participants.FindByCPF(event.ID, cpf)
		if err != nil {
			slog.Error("participant cpf lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if existing != nil {
			tickets, err := h.tickets.ListByParticipant(existing.ID)
			if err != nil {
				slog.Error("ticket list failed", "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if len(tickets) > 0 {
				writeJSON(w, http.StatusOK, map[string]any{
					"participant": existing,
					"ticket":      tickets[0],
					"render_url":  "/tickets/" + tickets[0].QRHash + "/render.jpg",
				})
				return
			}
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

	ticketType, err := h.ticketTypes.FindDefault(event.ID)
	if err != nil {
		slog.Error("default ticket type lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
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
		ParticipantID: &participant.ID,
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
		"participant": participant,
		"ticket":      created,
		"render_url":  "/tickets/" + created.QRHash + "/render.jpg",
	})
}
