// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatepass/internal/layout"
)

// Templates serves the built-in starter layout catalog. The catalog is
// compiled in, so these endpoints need no dependencies.
type Templates struct{}

// NewTemplates creates the starter template handler group.
func NewTemplates() *Templates {
	return &Templates{}
}

// List returns the starter template catalog (ids and display names).
//
// GET /templates
func (h *Templates) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"templates": layout.ListTemplates()})
}

// Get returns a full starter template by id, ready to be saved as an
// event layout and customized.
//
// GET /templates/{id}
func (h *Templates) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tmpl, err := layout.GetTemplate(id)
	if err != nil {
		if errors.Is(err, layout.ErrTemplateNotFound) {
			writeError(w, http.StatusNotFound, "template not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, tmpl)
}
