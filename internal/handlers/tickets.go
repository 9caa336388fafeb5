// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"gatepass/internal/cache"
	"gatepass/internal/layout"
	"gatepass/internal/models"
	"gatepass/internal/raster"
	"gatepass/internal/storage"
	"gatepass/internal/store"
)

// renderMaxAge is the Cache-Control max-age for rendered ticket images.
// A ticket's pixels only change when its event layout or logo changes, and
// the ETag rotates with each reissue, so a day is safe.
const renderMaxAge = 86400

// Tickets groups the public ticket endpoints: the rendered JPEG and the
// JSON metadata used by wallet-style client pages. Both are addressed by
// the ticket's QR hash, which is unguessable and acts as a capability.
type Tickets struct {
	events       *store.EventStore
	ticketTypes  *store.TicketTypeStore
	participants *store.ParticipantStore
	tickets      *store.TicketStore
	renderCache  *cache.RenderCache
	storage      *storage.Client
	assetRoot    string
	defaultDPI   int
}

// NewTickets creates the public ticket handler group. storage may be nil
// when S3 is not configured.
func NewTickets(events *store.EventStore, ticketTypes *store.TicketTypeStore, participants *store.ParticipantStore, tickets *store.TicketStore, renderCache *cache.RenderCache, storageClient *storage.Client, assetRoot string, defaultDPI int) *Tickets {
	return &Tickets{
		events:       events,
		ticketTypes:  ticketTypes,
		participants: participants,
		tickets:      tickets,
		renderCache:  renderCache,
		storage:      storageClient,
		assetRoot:    assetRoot,
		defaultDPI:   defaultDPI,
	}
}

// renderETag derives a strong ETag from the ticket's identity and issue
// time. Reissuing a ticket rotates the tag, invalidating client caches.
func renderETag(t *models.IssuedTicket) string {
	sum := sha1.Sum([]byte(t.QRHash + t.IssuedAt.UTC().Format(time.RFC3339Nano)))
	return hex.EncodeToString(sum[:])
}

// Render serves the rasterized ticket as a JPEG.
//
// GET /tickets/{qrHash}/render.jpg?dpi=300
//
// Conditional requests are honored via ETag (If-None-Match) and
// Last-Modified (If-Modified-Since). Rendered bytes are cached in Valkey
// keyed by ETag and DPI, so repeated prints skip rasterization entirely.
func (h *Tickets) Render(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	qrHash := chi.URLParam(r, "qrHash")

	ticket, err := h.tickets.FindByQRHash(qrHash)
	if err != nil {
		slog.Error("find ticket failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if ticket == nil {
		writeError(w, http.StatusNotFound, "ticket not found")
		return
	}

	etag := `"` + renderETag(ticket) + `"`
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if ims := r.Header.Get("If-Modified-Since"); ims != "" {
		if t, err := http.ParseTime(ims); err == nil && !ticket.IssuedAt.Truncate(time.Second).After(t) {
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	dpi := h.defaultDPI
	if raw := r.URL.Query().Get("dpi"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 72 || v > 1200 {
			writeError(w, http.StatusBadRequest, "dpi must be an integer between 72 and 1200")
			return
		}
		dpi = v
	}

	cacheKey := fmt.Sprintf("%s:%s:%d", ticket.EventID, renderETag(ticket), dpi)
	if cached, ok := h.renderCache.Get(ctx, cacheKey); ok {
		h.serveJPEG(w, ticket, etag, cached)
		return
	}

	jpegBytes, err := h.renderTicket(ctx, ticket, dpi)
	if err != nil {
		var verr *layout.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, verr.Error())
			return
		}
		slog.Error("render ticket failed", "error", err, "qr_hash", qrHash)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.renderCache.Set(ctx, cacheKey, jpegBytes)
	h.serveJPEG(w, ticket, etag, jpegBytes)
}

// Meta serves ticket metadata as JSON for client pages that show the
// ticket alongside event details.
//
// GET /tickets/{qrHash}
func (h *Tickets) Meta(w http.ResponseWriter, r *http.Request) {
	qrHash := chi.URLParam(r, "qrHash")

	ticket, err := h.tickets.FindByQRHash(qrHash)
	if err != nil {
		slog.Error("find ticket failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if ticket == nil {
		writeError(w, http.StatusNotFound, "ticket not found")
		return
	}

	event, err := h.events.FindByID(ticket.EventID)
	if err != nil {
		slog.Error("find event failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := map[string]any{
		"qrcode_hash": ticket.QRHash,
		"issued_at":   ticket.IssuedAt,
		"checked_in":  ticket.CheckedIn(),
	}
	if ticket.CheckedInAt != nil {
		resp["checked_in_at"] = ticket.CheckedInAt
	}
	if event != nil {
		resp["event"] = map[string]any{
			"id":        event.ID,
			"name":      event.Name,
			"starts_at": event.StartsAt,
		}
	}
	if ticket.ParticipantID != nil {
		if p, err := h.participants.FindByID(*ticket.ParticipantID); err == nil && p != nil {
			resp["participant"] = map[string]any{"name": p.Name}
		}
	}
	if ticket.TicketTypeID != nil {
		if tt, err := h.ticketTypes.FindByID(*ticket.TicketTypeID); err == nil && tt != nil {
			resp["ticket_type"] = map[string]any{"description": tt.Description}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// renderTicket rasterizes the resolved layout frozen onto the ticket at
// issue time. Only the logo is looked up per render; everything textual
// was embedded when the ticket was issued, so reprints stay identical.
func (h *Tickets) renderTicket(ctx context.Context, ticket *models.IssuedTicket, dpi int) ([]byte, error) {
	event, err := h.events.FindByID(ticket.EventID)
	if err != nil {
		return nil, fmt.Errorf("render lookup event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("render: event %s missing", ticket.EventID)
	}

	resolved := ticket.Layout
	if resolved == nil {
		// Legacy ticket issued before layouts were frozen: resolve once
		// from current data and backfill.
		var participant *models.Participant
		if ticket.ParticipantID != nil {
			participant, err = h.participants.FindByID(*ticket.ParticipantID)
			if err != nil {
				return nil, fmt.Errorf("render lookup participant: %w", err)
			}
		}

		var ticketType *models.TicketType
		if ticket.TicketTypeID != nil {
			ticketType, err = h.ticketTypes.FindByID(*ticket.TicketTypeID)
			if err != nil {
				return nil, fmt.Errorf("render lookup ticket type: %w", err)
			}
		}

		resolved = layout.Embed(event.LayoutOrDefault(),
			participant.EmbedData(),
			ticketType.EmbedData(),
			event.EmbedData(),
			ticket.EmbedData(),
		)
		if err := h.tickets.SaveLayout(ticket.ID, resolved); err != nil {
			slog.Warn("backfill ticket layout failed", "ticket_id", ticket.ID, "error", err)
		}
	}

	img, err := raster.Render(resolved, dpi, raster.Options{Logo: h.logoSource(ctx, event)})
	if err != nil {
		return nil, err
	}
	return raster.EncodeJPEG(img)
}

// logoSource builds the renderer's logo input from the event's asset
// chain: inline blob first, then S3, then a file under the asset root.
// Any failure along the chain falls through; the renderer paints a
// placeholder when no source resolves.
func (h *Tickets) logoSource(ctx context.Context, event *models.Event) *raster.LogoSource {
	src := &raster.LogoSource{AssetRoot: h.assetRoot}
	if event.LogoContentType != nil {
		src.ContentType = *event.LogoContentType
	}
	if len(event.LogoBlob) > 0 {
		src.Blob = event.LogoBlob
		return src
	}
	if event.LogoS3Key != nil && *event.LogoS3Key != "" && h.storage != nil {
		blob, err := h.storage.Download(ctx, *event.LogoS3Key)
		if err != nil {
			slog.Warn("logo s3 download failed", "key", *event.LogoS3Key, "error", err)
		} else {
			src.Blob = blob
			return src
		}
	}
	if event.LogoPath != nil && *event.LogoPath != "" {
		src.Path = *event.LogoPath
	}
	return src
}

func (h *Tickets) serveJPEG(w http.ResponseWriter, ticket *models.IssuedTicket, etag string, body []byte) {
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("ETag", etag)
	w.Header().Set("Last-Modified", ticket.IssuedAt.UTC().Format(http.TimeFormat))
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", renderMaxAge))
	w.Write(body)
}
