// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"gatepass/internal/auth"
	"gatepass/internal/cache"
	"gatepass/internal/layout"
	"gatepass/internal/models"
	"gatepass/internal/raster"
	"gatepass/internal/storage"
	"gatepass/internal/store"
)

// maxLogoSize caps logo uploads at 5 MiB.
const maxLogoSize = 5 << 20

// Admin groups the event management endpoints: operator login, event and
// ticket type CRUD, layout editing, logo upload, participant CSV import,
// and device access code issuing.
type Admin struct {
	events       *store.EventStore
	ticketTypes  *store.TicketTypeStore
	participants *store.ParticipantStore
	tickets      *store.TicketStore
	operators    *store.OperatorStore
	grants       *auth.GrantStore
	renderCache  *cache.RenderCache
	storage      *storage.Client
	assetRoot    string
}

// NewAdmin creates the admin handler group. storage may be nil when S3 is
// not configured; logos then live as blobs in PostgreSQL.
func NewAdmin(events *store.EventStore, ticketTypes *store.TicketTypeStore, participants *store.ParticipantStore, tickets *store.TicketStore, operators *store.OperatorStore, grants *auth.GrantStore, renderCache *cache.RenderCache, storageClient *storage.Client, assetRoot string) *Admin {
	return &Admin{
		events:       events,
		ticketTypes:  ticketTypes,
		participants: participants,
		tickets:      tickets,
		operators:    operators,
		grants:       grants,
		renderCache:  renderCache,
		storage:      storageClient,
		assetRoot:    assetRoot,
	}
}

// Login authenticates an operator and returns a bearer token.
//
// POST /admin/login
func (h *Admin) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	operator, err := h.operators.FindByEmail(req.Email)
	if err != nil {
		slog.Error("operator lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	// Same response for unknown email and wrong password.
	if operator == nil || !operator.CheckPassword(req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !operator.IsAdmin() {
		writeError(w, http.StatusForbidden, "operator is not an admin")
		return
	}

	token, err := h.grants.CreateAdmin(r.Context(), operator.ID)
	if err != nil {
		slog.Error("admin grant create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("operator logged in", "email", operator.Email)

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"operator": map[string]any{
			"id":           operator.ID,
			"email":        operator.Email,
			"display_name": operator.DisplayName,
		},
	})
}

// ListEvents returns all events.
//
// GET /admin/events
func (h *Admin) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List()
	if err != nil {
		slog.Error("event list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// CreateEvent creates a new event, optionally with an initial layout.
//
// POST /admin/events
func (h *Admin) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string           `json:"name"`
		StartsAt *time.Time       `json:"starts_at"`
		Layout   *layout.Template `json:"layout"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	if msg := validateEventName(req.Name); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if req.Layout != nil {
		if err := req.Layout.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	event, err := h.events.Create(&models.Event{
		Name:     strings.TrimSpace(req.Name),
		StartsAt: req.StartsAt,
		Layout:   req.Layout,
	})
	if err != nil {
		slog.Error("event create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// GetEvent returns one event with its ticket types and counters.
//
// GET /admin/events/{eventID}
func (h *Admin) GetEvent(w http.ResponseWriter, r *http.Request) {
	event := h.lookupEvent(w, r)
	if event == nil {
		return
	}

	types, err := h.ticketTypes.ListByEvent(event.ID)
	if err != nil {
		slog.Error("ticket type list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	issued, checkedIn, err := h.tickets.CountByEvent(event.ID)
	if err != nil {
		slog.Error("ticket count failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	registered, err := h.participants.CountByEvent(event.ID)
	if err != nil {
		slog.Error("participant count failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"event":        event,
		"ticket_types": types,
		"stats": map[string]int{
			"participants": registered,
			"issued":       issued,
			"checked_in":   checkedIn,
		},
	})
}

// UpdateEvent updates an event's name and date.
//
// PUT /admin/events/{eventID}
func (h *Admin) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	event := h.lookupEvent(w, r)
	if event == nil {
		return
	}

	var req struct {
		Name     string     `json:"name"`
		StartsAt *time.Time `json:"starts_at"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if msg := validateEventName(req.Name); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	event.Name = strings.TrimSpace(req.Name)
	event.StartsAt = req.StartsAt
	if err := h.events.Update(event); err != nil {
		slog.Error("event update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// DeleteEvent removes an event and, via cascade, its participants and
// tickets.
//
// DELETE /admin/events/{eventID}
func (h *Admin) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	event := h.lookupEvent(w, r)
	if event == nil {
		return
	}

	if err := h.events.Delete(event.ID); err != nil {
		slog.Error("event delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.renderCache.InvalidateEvent(r.Context(), event.ID.String())
	w.WriteHeader(http.StatusNoContent)
}

// SaveLayout validates and stores the event's layout template. Tickets
// already issued keep their frozen copy and are unaffected.
//
// PUT /admin/events/{eventID}/layout
func (h *Admin) SaveLayout(w http.ResponseWriter, r *http.Request) {
	event := h.lookupEvent(w, r)
	if event == nil {
		return
	}

	var tmpl layout.Template
	if !readJSON(w, r, &tmpl) {
		return
	}
	if err := tmpl.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.events.SaveLayout(event.ID, &tmpl); err != nil {
		slog.Error("layout save failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, &tmpl)
}

// ValidateLayout dry-runs layout validation for editor feedback without
// persisting anything.
//
// POST /admin/layout/validate
func (h *Admin) ValidateLayout(w http.ResponseWriter, r *http.Request) {
	var tmpl layout.Template
	if !readJSON(w, r, &tmpl) {
		return
	}

	if err := tmpl.Validate(); err != nil {
		var verr *layout.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusOK, map[string]any{
				"valid":  false,
				"field":  verr.Field,
				"reason": verr.Reason,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"valid": false, "reason": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"valid": true})
}

// PreviewLayout renders a layout with sample data so the editor can show
// a live preview before the layout is saved.
//
// POST /admin/layout/preview?dpi=150
func (h *Admin) PreviewLayout(w http.ResponseWriter, r *http.Request) {
	var tmpl layout.Template
	if !readJSON(w, r, &tmpl) {
		return
	}

	dpi := 150
	if raw := r.URL.Query().Get("dpi"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 72 && v <= 600 {
			dpi = v
		}
	}

	resolved := layout.Embed(&tmpl,
		layout.ParticipantData{Name: "Maria da Silva", CPF: "123.456.789-09", Email: "maria@example.com"},
		layout.TicketTypeData{Description: "Inteira"},
		layout.EventData{Name: "Evento de Exemplo", Date: time.Now()},
		layout.TicketData{QRHash: "PREVIEW0000000000000000000000000"},
	)

	img, err := raster.Render(resolved, dpi, raster.Options{Logo: &raster.LogoSource{AssetRoot: h.assetRoot}})
	if err != nil {
		var verr *layout.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, verr.Error())
			return
		}
		slog.Error("layout preview render failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	jpegBytes, err := raster.EncodeJPEG(img)
	if err != nil {
		slog.Error("layout preview encode failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(jpegBytes)
}

// UploadLogo stores the event's logo. The blob always lands in PostgreSQL
// so rendering works offline; when S3 is configured a copy is uploaded
// and the key recorded so the admin UI can serve it by URL.
//
// POST /admin/events/{eventID}/logo  (multipart field "logo")
func (h *Admin) UploadLogo(w http.ResponseWriter, r *http.Request) {
	event := h.lookupEvent(w, r)
	if event == nil {
		return
	}

	if err := r.ParseMultipartForm(maxLogoSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "logo file is required")
		return
	}
	defer file.Close()

	blob, err := io.ReadAll(io.LimitReader(file, maxLogoSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	if len(blob) > maxLogoSize {
		writeError(w, http.StatusRequestEntityTooLarge, "logo exceeds 5 MiB")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "logo must be an image")
		return
	}

	var s3Key *string
	if h.storage != nil {
		key := "logos/" + event.ID.String()
		if err := h.storage.Upload(r.Context(), key, contentType, bytes.NewReader(blob), int64(len(blob))); err != nil {
			slog.Warn("logo s3 upload failed, keeping blob only", "error", err)
		} else {
			s3Key = &key
		}
	}

	if err := h.events.SaveLogo(event.ID, blob, &contentType, s3Key); err != nil {
		slog.Error("logo save failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Logos are resolved at render time, so cached renders are stale now.
	h.renderCache.InvalidateEvent(r.Context(), event.ID.String())

	resp := map[string]any{"content_type": contentType, "size": len(blob)}
	if s3Key != nil && h.storage != nil {
		resp["url"] = h.storage.FileURL(*s3Key)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ImportParticipants bulk-loads participants from an uploaded .xlsx or CSV
// sheet with a name,cpf,email header row. Rows with a CPF already
// registered are skipped and counted, not treated as errors.
//
// POST /admin/events/{eventID}/participants/import  (multipart field "file")
func (h *Admin) ImportParticipants(w http.ResponseWriter, r *http.Request) {
	event := h.lookupEvent(w, r)
	if event == nil {
		return
	}

	if err := r.ParseMultipartForm(maxLogoSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "spreadsheet file is required")
		return
	}
	defer file.Close()

	records, err := importRecords(file, header.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(records) == 0 {
		writeError(w, http.StatusBadRequest, "empty or unreadable spreadsheet")
		return
	}
	nameIdx, cpfIdx, emailIdx := csvColumns(records[0])
	if nameIdx < 0 {
		writeError(w, http.StatusBadRequest, "spreadsheet must have a name column")
		return
	}

	imported, skipped := 0, 0
	for i, record := range records[1:] {
		line := i + 2

		name := strings.TrimSpace(csvField(record, nameIdx))
		cpf := normalizeCPF(csvField(record, cpfIdx))
		email := strings.TrimSpace(csvField(record, emailIdx))
		if name == "" {
			skipped++
			continue
		}

		if cpf != "" {
			existing, err := h.participants.FindByCPF(event.ID, cpf)
			if err != nil {
				slog.Error("import cpf lookup failed", "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if existing != nil {
				skipped++
				continue
			}
		}

		if _, err := h.participants.Create(&models.Participant{
			EventID: event.ID,
			Name:    name,
			CPF:     cpf,
			Email:   email,
		}); err != nil {
			slog.Error("import participant create failed", "error", err, "line", line)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		imported++
	}

	slog.Info("participants imported",
		"event_id", event.ID,
		"imported", imported,
		"skipped", skipped,
	)

	writeJSON(w, http.StatusOK, map[string]int{"imported": imported, "skipped": skipped})
}

// CreateDeviceCode issues a short access code for a box office or gate
// device bound to this event.
//
// POST /admin/events/{eventID}/codes
func (h *Admin) CreateDeviceCode(w http.ResponseWriter, r *http.Request) {
	event := h.lookupEvent(w, r)
	if event == nil {
		return
	}

	var req struct {
		Audience string `json:"audience"`
		Label    string `json:"label"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	audience := auth.Audience(req.Audience)
	if audience != auth.AudienceBoxOffice && audience != auth.AudienceGate {
		writeError(w, http.StatusBadRequest, `audience must be "boxoffice" or "gate"`)
		return
	}
	if len(req.Label) > maxLabelLen {
		writeError(w, http.StatusBadRequest, "label is too long")
		return
	}

	code, err := h.grants.CreateDevice(r.Context(), audience, event.ID, req.Label)
	if err != nil {
		slog.Error("device code create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"code":     code,
		"audience": audience,
		"label":    req.Label,
	})
}

// ListTicketTypes lists the event's ticket types.
//
// GET /admin/events/{eventID}/ticket-types
func (h *Admin) ListTicketTypes(w http.ResponseWriter, r *http.Request) {
	event := h.lookupEvent(w, r)
	if event == nil {
		return
	}

	types, err := h.ticketTypes.ListByEvent(event.ID)
	if err != nil {
		slog.Error("ticket type list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ticket_types": types})
}

// CreateTicketType adds a ticket type to the event. Marking it default
// clears the previous default.
//
// POST /admin/events/{eventID}/ticket-types
func (h *Admin) CreateTicketType(w http.ResponseWriter, r *http.Request) {
	event := h.lookupEvent(w, r)
	if event == nil {
		return
	}

	var req struct {
		Description string           `json:"description"`
		IsDefault   bool             `json:"is_default"`
		Layout      *layout.Template `json:"layout"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	if req.Layout != nil {
		if err := req.Layout.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	tt, err := h.ticketTypes.Create(&models.TicketType{
		EventID:     event.ID,
		Description: strings.TrimSpace(req.Description),
		IsDefault:   req.IsDefault,
		Layout:      req.Layout,
	})
	if err != nil {
		slog.Error("ticket type create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, tt)
}

// DeleteTicketType removes a ticket type. Issued tickets keep their frozen
// layout, so nothing already printed changes.
//
// DELETE /admin/events/{eventID}/ticket-types/{typeID}
func (h *Admin) DeleteTicketType(w http.ResponseWriter, r *http.Request) {
	event := h.lookupEvent(w, r)
	if event == nil {
		return
	}

	typeID, err := uuid.Parse(chi.URLParam(r, "typeID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ticket type id")
		return
	}

	tt, err := h.ticketTypes.FindByID(typeID)
	if err != nil {
		slog.Error("ticket type lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if tt == nil || tt.EventID != event.ID {
		writeError(w, http.StatusNotFound, "ticket type not found")
		return
	}

	if err := h.ticketTypes.Delete(typeID); err != nil {
		slog.Error("ticket type delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// lookupEvent parses the event id from the URL and loads the event.
// Returns nil after writing the error response.
func (h *Admin) lookupEvent(w http.ResponseWriter, r *http.Request) *models.Event {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return nil
	}

	event, err := h.events.FindByID(eventID)
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

// csvColumns locates the name, cpf, and email columns in a CSV header,
// case-insensitively. Missing columns return -1.
func csvColumns(header []string) (nameIdx, cpfIdx, emailIdx int) {
	nameIdx, cpfIdx, emailIdx = -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "name", "nome":
			nameIdx = i
		case "cpf":
			cpfIdx = i
		case "email", "e-mail":
			emailIdx = i
		}
	}
	return
}

// csvField reads a record column defensively; short rows yield "".
func csvField(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
