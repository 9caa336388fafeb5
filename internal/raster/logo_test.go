// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// redPNG encodes a small solid-red image.
func redPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 0xff, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestResolveLogoFromBlob(t *testing.T) {
	src := &LogoSource{Blob: redPNG(t, 10, 10)}
	if resolveLogo(src) == nil {
		t.Error("valid blob did not resolve")
	}
}

func TestResolveLogoBadInputs(t *testing.T) {
	if resolveLogo(nil) != nil {
		t.Error("nil source resolved")
	}
	if resolveLogo(&LogoSource{}) != nil {
		t.Error("empty source resolved")
	}
	if resolveLogo(&LogoSource{Blob: []byte("garbage")}) != nil {
		t.Error("garbage blob resolved")
	}
	if resolveLogo(&LogoSource{Path: "missing.png", AssetRoot: t.TempDir()}) != nil {
		t.Error("missing file resolved")
	}
}

func TestResolveLogoFromFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), redPNG(t, 8, 8), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	src := &LogoSource{Path: "logo.png", AssetRoot: dir}
	if resolveLogo(src) == nil {
		t.Error("file logo did not resolve")
	}
}

func TestCompositeLogoCentersOnWhiteSquare(t *testing.T) {
	// A wide source must be fit inside the square, leaving white bands.
	logo := image.NewRGBA(image.Rect(0, 0, 100, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 100; x++ {
			logo.Set(x, y, color.RGBA{B: 0xff, A: 0xff})
		}
	}

	tile := compositeLogo(logo, 60)
	if tile.Bounds().Dx() != 60 || tile.Bounds().Dy() != 60 {
		t.Fatalf("tile bounds %v", tile.Bounds())
	}

	// Top band should be white, center should carry the logo's blue.
	r, g, b, _ := tile.At(30, 2).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Error("top band not white")
	}
	_, _, b, _ = tile.At(30, 30).RGBA()
	if b < 0x8000 {
		t.Error("center does not carry logo color")
	}
}

func TestPlaceholderBox(t *testing.T) {
	tile := placeholderBox(50, "")
	if tile.Bounds().Dx() != 50 || tile.Bounds().Dy() != 50 {
		t.Fatalf("bounds %v", tile.Bounds())
	}
	// Fill is light gray, not white.
	r, g, b, _ := tile.At(25, 25).RGBA()
	if r == 0xffff && g == 0xffff && b == 0xffff {
		t.Error("placeholder fill is white")
	}
}
