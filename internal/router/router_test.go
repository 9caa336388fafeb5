package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/redis/go-redis/v9"

	"gatepass/internal/auth"
	"gatepass/internal/handlers"
)

// testRouter wires the router with nil-backed stores. Only routes that do
// not touch the database or Valkey are exercised here; everything else is
// covered by the handler and store integration tests.
func testRouter() http.Handler {
	grants := auth.NewGrantStore(redis.NewClient(&redis.Options{Addr: "localhost:0"}))
	tickets := handlers.NewTickets(nil, nil, nil, nil, nil, nil, "assets", 300)
	boxOffice := handlers.NewBoxOffice(nil, nil, nil, nil)
	gate := handlers.NewGate(nil, nil, nil)
	registration := handlers.NewRegistration(nil, nil, nil, nil)
	leads := handlers.NewLeads(nil, nil, nil, nil)
	templates := handlers.NewTemplates()
	admin := handlers.NewAdmin(nil, nil, nil, nil, nil, grants, nil, nil, "assets")
	return New(grants, tickets, boxOffice, gate, registration, leads, templates, admin)
}

func TestHealthEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("body: %v", body)
	}
}

func TestTemplateRoutesArePublic(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/templates", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("list: status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/templates/padrao", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("get: status %d", rec.Code)
	}
}

func TestGuardedRoutesRejectAnonymous(t *testing.T) {
	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/events/6b1e7d0a-0000-0000-0000-000000000000/participants"},
		{http.MethodPost, "/events/6b1e7d0a-0000-0000-0000-000000000000/gate/validate"},
		{http.MethodPost, "/events/6b1e7d0a-0000-0000-0000-000000000000/leads"},
		{http.MethodGet, "/events/6b1e7d0a-0000-0000-0000-000000000000/leads"},
		{http.MethodGet, "/admin/events"},
	}
	for _, tc := range paths {
		rec := httptest.NewRecorder()
		testRouter().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status %d, want 401", tc.method, tc.path, rec.Code)
		}
	}
}
