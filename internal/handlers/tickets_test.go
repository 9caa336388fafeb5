// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"testing"
	"time"

	"gatepass/internal/models"
)

func TestRenderETagStable(t *testing.T) {
	issued := time.Date(2026, 7, 18, 12, 0, 0, 0, time.UTC)
	ticket := &models.IssuedTicket{QRHash: "abc123", IssuedAt: issued}

	a := renderETag(ticket)
	b := renderETag(ticket)
	if a != b {
		t.Errorf("etag not deterministic: %q vs %q", a, b)
	}
	if len(a) != 40 {
		t.Errorf("etag length %d, want 40 hex chars", len(a))
	}
}

func TestRenderETagRotates(t *testing.T) {
	issued := time.Date(2026, 7, 18, 12, 0, 0, 0, time.UTC)
	t1 := &models.IssuedTicket{QRHash: "abc123", IssuedAt: issued}
	t2 := &models.IssuedTicket{QRHash: "abc124", IssuedAt: issued}
	t3 := &models.IssuedTicket{QRHash: "abc123", IssuedAt: issued.Add(time.Second)}

	if renderETag(t1) == renderETag(t2) {
		t.Error("different hashes produced the same etag")
	}
	if renderETag(t1) == renderETag(t3) {
		t.Error("different issue times produced the same etag")
	}
}

func TestRenderETagTimezoneInvariant(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	utc := time.Date(2026, 7, 18, 12, 0, 0, 0, time.UTC)
	t1 := &models.IssuedTicket{QRHash: "abc123", IssuedAt: utc}
	t2 := &models.IssuedTicket{QRHash: "abc123", IssuedAt: utc.In(loc)}

	if renderETag(t1) != renderETag(t2) {
		t.Error("same instant in different zones produced different etags")
	}
}
