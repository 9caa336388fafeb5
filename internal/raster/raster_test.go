// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package raster

import (
	"bytes"
	"errors"
	"image/color"
	"image/jpeg"
	"testing"

	"gatepass/internal/layout"
)

func TestRenderCanvasDimensions(t *testing.T) {
	tests := []struct {
		wmm, hmm           float64
		dpi                int
		wantW, wantH       int
	}{
		{80, 120, 300, 945, 1417},
		{62, 90, 150, 366, 531},
		{80, 120, 0, 945, 1417}, // dpi<1 falls back to 300
	}
	for _, tc := range tests {
		tmpl := &layout.Template{Canvas: layout.Canvas{Width: tc.wmm, Height: tc.hmm}}
		img, err := Render(tmpl, tc.dpi, Options{})
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		b := img.Bounds()
		if b.Dx() != tc.wantW || b.Dy() != tc.wantH {
			t.Errorf("%vx%vmm at %d dpi: got %dx%d, want %dx%d",
				tc.wmm, tc.hmm, tc.dpi, b.Dx(), b.Dy(), tc.wantW, tc.wantH)
		}
	}
}

func TestRenderBlankCanvasIsWhite(t *testing.T) {
	tmpl := &layout.Template{Canvas: layout.Canvas{Width: 10, Height: 10}}
	img, err := Render(tmpl, 72, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	r, g, b, a := img.At(5, 5).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff || a != 0xffff {
		t.Errorf("center pixel not opaque white: %v %v %v %v", r, g, b, a)
	}
}

func TestRenderValidationErrorSurfaces(t *testing.T) {
	tmpl := &layout.Template{Canvas: layout.Canvas{Width: -1, Height: 120}}
	_, err := Render(tmpl, 300, Options{})
	var verr *layout.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *layout.ValidationError, got %v", err)
	}
}

// A structurally valid layout must always render: bogus logo bytes, an
// unknown font family, and an element type from a future build all degrade
// instead of failing.
func TestRenderNeverFailsOnDegradedInputs(t *testing.T) {
	tmpl := &layout.Template{
		Canvas: layout.Canvas{Width: 80, Height: 120, PaddingMM: 3, Border: true},
		Elements: []layout.Element{
			{Type: layout.ElementText, X: 40, Y: 10, Value: "Olá mundo", Font: "NoSuchFont", Align: layout.AlignCenter},
			{Type: layout.ElementLogo, X: 40, Y: 20, SizeMM: 20, Align: layout.AlignCenter},
			{Type: layout.ElementQRCode, X: 40, Y: 50, SizeMM: 30, Value: "abc123", Align: layout.AlignCenter},
			{Type: layout.ElementDivider, X: 5, Y: 100, LengthMM: 70, Thickness: 2},
			{Type: "hologram", X: 10, Y: 110},
		},
	}
	img, err := Render(tmpl, 150, Options{
		Logo: &LogoSource{Blob: []byte("definitely not an image")},
	})
	if err != nil {
		t.Fatalf("Render must not fail on degraded inputs: %v", err)
	}
	if img == nil {
		t.Fatal("nil image")
	}
}

func TestRenderQRCodePaintsDarkPixels(t *testing.T) {
	tmpl := &layout.Template{
		Canvas: layout.Canvas{Width: 80, Height: 80},
		Elements: []layout.Element{
			{Type: layout.ElementQRCode, X: 10, Y: 10, SizeMM: 40, Value: "abc123"},
		},
	}
	img, err := Render(tmpl, 150, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	x0 := layout.MMToPixels(10, 150)
	side := layout.MMToPixelsMin1(40, 150)
	dark := 0
	for y := x0; y < x0+side; y++ {
		for x := x0; x < x0+side; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r < 0x4000 && g < 0x4000 && b < 0x4000 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("no dark pixels in the QR area")
	}
	// A QR symbol is roughly half dark modules; anything below a tenth
	// means the symbol was not drawn at the expected place or size.
	if dark < side*side/10 {
		t.Errorf("suspiciously few dark pixels: %d of %d", dark, side*side)
	}
}

func TestRenderDividerGeometry(t *testing.T) {
	tmpl := &layout.Template{
		Canvas: layout.Canvas{Width: 80, Height: 80},
		Elements: []layout.Element{
			{Type: layout.ElementDivider, X: 10, Y: 40, LengthMM: 60, Thickness: 3},
		},
	}
	img, err := Render(tmpl, 72, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	x := layout.MMToPixels(10, 72)
	y := layout.MMToPixels(40, 72)
	length := layout.MMToPixelsMin1(60, 72)

	// On the line.
	if !isBlack(img.At(x+length/2, y+1)) {
		t.Error("divider midpoint not black")
	}
	// Just past the end.
	if isBlack(img.At(x+length+2, y+1)) {
		t.Error("pixel past divider end is black")
	}
	// Below the thickness.
	if isBlack(img.At(x+length/2, y+5)) {
		t.Error("pixel below divider thickness is black")
	}
}

func TestRenderVerticalDivider(t *testing.T) {
	tmpl := &layout.Template{
		Canvas: layout.Canvas{Width: 80, Height: 80},
		Elements: []layout.Element{
			{Type: layout.ElementDivider, X: 40, Y: 10, Direction: layout.DirectionVertical, LengthMM: 50, Thickness: 2},
		},
	}
	img, err := Render(tmpl, 72, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	x := layout.MMToPixels(40, 72)
	y := layout.MMToPixels(10, 72)
	length := layout.MMToPixelsMin1(50, 72)
	if !isBlack(img.At(x, y+length/2)) {
		t.Error("vertical divider midpoint not black")
	}
}

func TestRenderLogoPlaceholder(t *testing.T) {
	tmpl := &layout.Template{
		Canvas: layout.Canvas{Width: 80, Height: 80},
		Elements: []layout.Element{
			{Type: layout.ElementLogo, X: 10, Y: 10, SizeMM: 30},
		},
	}
	img, err := Render(tmpl, 150, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Placeholder fill is light gray, distinct from the white canvas.
	x := layout.MMToPixels(10, 150)
	side := layout.MMToPixelsMin1(30, 150)
	r, g, b, _ := img.At(x+side/4, x+side/4).RGBA()
	if r == 0xffff && g == 0xffff && b == 0xffff {
		t.Error("logo area is plain white, placeholder not drawn")
	}
}

func TestRenderTextPaintsInk(t *testing.T) {
	tmpl := &layout.Template{
		Canvas: layout.Canvas{Width: 80, Height: 40},
		Elements: []layout.Element{
			{Type: layout.ElementText, X: 5, Y: 5, Value: "INGRESSO", Size: 14, Bold: true},
		},
	}
	img, err := Render(tmpl, 150, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	dark := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if isBlack(img.At(x, y)) {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("text element painted no ink")
	}
}

// A long centered name on a narrow 62mm stock must wrap onto multiple
// rendered lines rather than overflow the edges.
func TestRenderWrapsLongCenteredName(t *testing.T) {
	tmpl := &layout.Template{
		Canvas: layout.Canvas{Width: 62, Height: 90, PaddingMM: 3},
		Elements: []layout.Element{{
			Type:  layout.ElementText,
			X:     31,
			Y:     20,
			Value: "Maximiliano Alexandrino de Albuquerque Cavalcanti",
			Size:  12,
			Align: layout.AlignCenter,
		}},
	}
	img, err := Render(tmpl, 150, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Vertical extent of the ink. A single 12pt line at 150 DPI is about
	// 25px tall; wrapped text spans at least one extra line height.
	b := img.Bounds()
	top, bottom := -1, -1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if isBlack(img.At(x, y)) {
				if top < 0 {
					top = y
				}
				bottom = y
				break
			}
		}
	}
	if top < 0 {
		t.Fatal("no ink painted")
	}
	if extent := bottom - top; extent < 40 {
		t.Errorf("ink spans %dpx vertically, expected a wrapped second line", extent)
	}

	// Nothing may bleed past the canvas padding. A couple of pixels of
	// slack covers glyph rounding at the wrap boundary.
	pad := layout.MMToPixels(3, 150)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Min.X+pad-2; x++ {
			if isBlack(img.At(x, y)) {
				t.Fatalf("ink inside the left padding at (%d,%d)", x, y)
			}
		}
	}
}

// End-to-end: a starter layout embedded with sample data renders and
// encodes to a decodable JPEG of the exact print dimensions.
func TestRenderStarterTemplateToJPEG(t *testing.T) {
	tmpl, err := layout.GetTemplate("padrao")
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}

	resolved := layout.Embed(tmpl,
		layout.ParticipantData{Name: "João Pedro de Albuquerque dos Santos", CPF: "12345678909"},
		layout.TicketTypeData{Description: "Meia-entrada"},
		layout.EventData{Name: "Congresso Brasileiro de Tecnologia e Inovação 2026"},
		layout.TicketData{QRHash: "deadbeefdeadbeefdeadbeefdeadbeef"},
	)

	img, err := Render(resolved, 300, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	data, err := EncodeJPEG(img)
	if err != nil {
		t.Fatalf("EncodeJPEG: %v", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a decodable JPEG: %v", err)
	}
	if decoded.Bounds().Dx() != 945 || decoded.Bounds().Dy() != 1417 {
		t.Errorf("JPEG dimensions %dx%d, want 945x1417",
			decoded.Bounds().Dx(), decoded.Bounds().Dy())
	}
}

func isBlack(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r < 0x2000 && g < 0x2000 && b < 0x2000
}
