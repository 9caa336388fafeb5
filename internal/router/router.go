// Package router sets up all HTTP routes and middleware chains for the
// gatepass API. It organizes routes into public, box office, gate, and
// admin groups with appropriate token guards.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatepass/internal/auth"
	"gatepass/internal/handlers"
	"gatepass/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(grants *auth.GrantStore, tickets *handlers.Tickets, boxOffice *handlers.BoxOffice, gate *handlers.Gate, registration *handlers.Registration, leads *handlers.Leads, templates *handlers.Templates, admin *handlers.Admin) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Public routes — the QR hash itself is the capability.
	r.Get("/tickets/{qrHash}", tickets.Meta)
	r.Get("/tickets/{qrHash}/render.jpg", tickets.Render)
	r.Post("/events/{eventID}/register", registration.Register)

	// Starter template catalog — read-only, no auth.
	r.Route("/templates", func(r chi.Router) {
		r.Get("/", templates.List)
		r.Get("/{id}", templates.Get)
	})

	// Box office routes — device code or admin token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAudience(grants, auth.AudienceBoxOffice, auth.AudienceAdmin))
		r.Get("/events/{eventID}/participants", boxOffice.SearchParticipants)
		r.Post("/events/{eventID}/participants", boxOffice.CreateParticipant)
		r.Get("/events/{eventID}/participants/{participantID}/tickets", boxOffice.ListTickets)
		r.Post("/events/{eventID}/tickets", boxOffice.IssueTicket)
		r.Get("/events/{eventID}/leads", leads.List)
	})

	// Lead capture — any event-bound device (or an admin) may record scans.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAudience(grants, auth.AudienceBoxOffice, auth.AudienceGate, auth.AudienceAdmin))
		r.Post("/events/{eventID}/leads", leads.Collect)
	})

	// Gate routes — gate code or admin token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAudience(grants, auth.AudienceGate, auth.AudienceAdmin))
		r.Post("/events/{eventID}/gate/validate", gate.Validate)
	})

	// Admin routes — operator login is open, everything else needs an
	// admin token.
	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", admin.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAudience(grants, auth.AudienceAdmin))

			r.Post("/layout/validate", admin.ValidateLayout)
			r.Post("/layout/preview", admin.PreviewLayout)

			r.Route("/events", func(r chi.Router) {
				r.Get("/", admin.ListEvents)
				r.Post("/", admin.CreateEvent)
				r.Get("/{eventID}", admin.GetEvent)
				r.Put("/{eventID}", admin.UpdateEvent)
				r.Delete("/{eventID}", admin.DeleteEvent)

				r.Put("/{eventID}/layout", admin.SaveLayout)
				r.Post("/{eventID}/logo", admin.UploadLogo)
				r.Post("/{eventID}/participants/import", admin.ImportParticipants)
				r.Post("/{eventID}/codes", admin.CreateDeviceCode)

				r.Get("/{eventID}/ticket-types", admin.ListTicketTypes)
				r.Post("/{eventID}/ticket-types", admin.CreateTicketType)
				r.Delete("/{eventID}/ticket-types/{typeID}", admin.DeleteTicketType)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
