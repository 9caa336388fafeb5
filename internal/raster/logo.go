// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// LogoSource describes where a logo asset may come from, in priority order:
// an in-memory blob, then a file path under AssetRoot. Either or both may
// be absent; decode failures fall through to the next source and finally to
// a placeholder box. A broken logo never blocks ticket issuance.
type LogoSource struct {
	Blob        []byte
	ContentType string
	Path        string
	AssetRoot   string
}

// resolveLogo walks the source chain and returns a decoded image, or nil
// when every source is absent or undecodable.
func resolveLogo(src *LogoSource) image.Image {
	if src == nil {
		return nil
	}

	if len(src.Blob) > 0 {
		if img, _, err := image.Decode(bytes.NewReader(src.Blob)); err == nil {
			return img
		}
	}

	if src.Path != "" {
		path := src.Path
		if src.AssetRoot != "" && !filepath.IsAbs(path) {
			path = filepath.Join(src.AssetRoot, path)
		}
		if data, err := os.ReadFile(path); err == nil {
			if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
				return img
			}
		}
	}

	return nil
}

// compositeLogo renders the logo onto an opaque white square of the given
// side, centered and aspect-preserving, so transparent PNG logos print on
// white instead of black.
func compositeLogo(logo image.Image, side int) image.Image {
	square := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(square, square.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	fitted := imaging.Fit(logo, side, side, imaging.Lanczos)
	offset := image.Pt((side-fitted.Bounds().Dx())/2, (side-fitted.Bounds().Dy())/2)
	draw.Draw(square, fitted.Bounds().Add(offset), fitted, fitted.Bounds().Min, draw.Over)
	return square
}

// placeholderColor fills the logo placeholder box.
var placeholderColor = color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}

// placeholderBox draws the no-logo fallback: a light gray square with a
// border and a centered label.
func placeholderBox(side int, label string) image.Image {
	box := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(box, box.Bounds(), image.NewUniform(placeholderColor), image.Point{}, draw.Src)
	strokeRect(box, box.Bounds(), 1, color.Black)

	label = strings.TrimSpace(label)
	if label == "" {
		label = "LOGO"
	}

	// Size the label to roughly a fifth of the box, floor of 8px.
	sizePx := side / 5
	if sizePx < 8 {
		sizePx = 8
	}
	fc := face("", true, sizePx)
	w := measure(fc, label)
	m := fc.Metrics()

	d := &font.Drawer{
		Dst:  box,
		Src:  image.NewUniform(color.Black),
		Face: fc,
		Dot: fixed.P(
			(side-w)/2,
			side/2+(m.Ascent-m.Descent).Ceil()/2,
		),
	}
	d.DrawString(label)
	return box
}

// strokeRect draws an unfilled rectangle of the given stroke width just
// inside r.
func strokeRect(dst draw.Image, r image.Rectangle, width int, c color.Color) {
	if width < 1 {
		width = 1
	}
	src := image.NewUniform(c)
	// top, bottom
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
	// left, right
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
}
