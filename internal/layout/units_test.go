// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package layout

import (
	"math"
	"testing"
)

func TestMMToPixelsKnownValues(t *testing.T) {
	tests := []struct {
		mm   float64
		dpi  int
		want int
	}{
		// The standard 80x120mm ticket at print resolution.
		{80, 300, 945},
		{120, 300, 1417},
		// Screen resolution.
		{80, 96, 302},
		{25.4, 300, 300}, // one inch
		{0, 300, 0},
		{0.01, 300, 0}, // rounds down, positions may be zero
	}
	for _, tt := range tests {
		if got := MMToPixels(tt.mm, tt.dpi); got != tt.want {
			t.Errorf("MMToPixels(%v, %d) = %d, want %d", tt.mm, tt.dpi, got, tt.want)
		}
	}
}

func TestMMToPixelsMin1NeverVanishes(t *testing.T) {
	if got := MMToPixelsMin1(0.01, 72); got != 1 {
		t.Errorf("tiny extent: got %d, want 1", got)
	}
	if got := MMToPixelsMin1(80, 300); got != 945 {
		t.Errorf("normal extent: got %d, want 945", got)
	}
}

func TestMMToPixelsMonotonic(t *testing.T) {
	prev := -1
	for mm := 0.0; mm <= 200; mm += 0.5 {
		px := MMToPixels(mm, 300)
		if px < prev {
			t.Fatalf("not monotonic at %vmm: %d < %d", mm, px, prev)
		}
		prev = px
	}
}

func TestPtToPixels(t *testing.T) {
	tests := []struct {
		pt   float64
		dpi  int
		want int
	}{
		{12, 300, 50},
		{12, 72, 12}, // at 72 DPI, points equal pixels
		{7, 300, 29},
		{0.1, 72, 1}, // floor of one pixel
	}
	for _, tt := range tests {
		if got := PtToPixels(tt.pt, tt.dpi); got != tt.want {
			t.Errorf("PtToPixels(%v, %d) = %d, want %d", tt.pt, tt.dpi, got, tt.want)
		}
	}
}

func TestPixelsToMMRoundTrip(t *testing.T) {
	for _, mm := range []float64{1, 10, 62, 80, 120} {
		px := MMToPixels(mm, 300)
		back := PixelsToMM(px, 300)
		if math.Abs(back-mm) > PixelsToMM(1, 300) {
			t.Errorf("round trip %vmm -> %dpx -> %vmm drifted more than one pixel", mm, px, back)
		}
	}
}
