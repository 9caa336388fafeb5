// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package raster turns a resolved ticket layout into a print-accurate
// image. The canvas size is derived from the layout's physical dimensions
// at the caller's DPI with no automatic downscaling; a lower-resolution
// preview is requested with a lower DPI, never by shrinking the output.
//
// The rasterizer never fails on a structurally valid layout: unknown
// element types are skipped, missing fonts cascade to the embedded default,
// and undecodable logos degrade to a placeholder box. The only surfaced
// error is *layout.ValidationError for malformed geometry.
package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"sort"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"gatepass/internal/layout"
)

// Options carries the per-render inputs beyond the layout itself.
type Options struct {
	// Logo supplies the asset for logo elements; nil renders placeholders.
	Logo *LogoSource
}

// jpegQuality matches the quality the original printing path shipped with.
const jpegQuality = 85

// Render rasterizes a resolved layout at the given DPI and returns the
// opaque image. dpi values below 1 fall back to 300 (print default).
func Render(t *layout.Template, dpi int, opts Options) (*image.RGBA, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if dpi < 1 {
		dpi = 300
	}

	width := layout.MMToPixelsMin1(t.Canvas.Width, dpi)
	height := layout.MMToPixelsMin1(t.Canvas.Height, dpi)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	padPx := layout.MMToPixels(t.Canvas.PaddingMM, dpi)
	if t.Canvas.Border && padPx >= 0 {
		inset := image.Rect(padPx, padPx, width-padPx, height-padPx)
		if !inset.Empty() {
			strokeRect(img, inset, layout.MMToPixelsMin1(0.2, dpi), color.Black)
		}
	}

	// Paint order is z_index, stable so authoring order breaks ties.
	elements := make([]layout.Element, len(t.Elements))
	copy(elements, t.Elements)
	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].ZIndex < elements[j].ZIndex
	})

	for i := range elements {
		el := &elements[i]
		switch el.Type {
		case layout.ElementText:
			drawText(img, el, dpi, padPx)
		case layout.ElementQRCode:
			drawQRCode(img, el, dpi)
		case layout.ElementLogo:
			drawLogo(img, el, dpi, opts.Logo)
		case layout.ElementDivider:
			drawDivider(img, el, dpi)
		default:
			// Forward compatibility: template authors may ship element
			// types this build does not know yet.
		}
	}

	return img, nil
}

// EncodeJPEG serializes a rendered ticket the way the print endpoints ship
// it.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawText wraps and paints one text element. The margin shrinks the
// effective box: it narrows the wrap width on both sides and pushes the
// first baseline down.
func drawText(img *image.RGBA, el *layout.Element, dpi, padPx int) {
	if el.Value == "" {
		return
	}

	x := layout.MMToPixels(el.X, dpi)
	y := layout.MMToPixels(el.Y, dpi)
	marginPx := layout.MMToPixels(el.MarginMM, dpi)

	sizePx := layout.PtToPixels(el.FontSizePt(), dpi)
	fc := face(el.Font, el.Bold, sizePx)

	width := img.Bounds().Dx()
	avail := layout.AvailableWidth(el.Anchor(), x, padPx, padPx, width) - 2*marginPx
	if avail < 1 {
		avail = 1
	}

	lines := layout.Wrap(el.Value, avail, func(s string) int { return measure(fc, s) })
	lh := lineHeight(fc)
	ascent := fc.Metrics().Ascent.Ceil()

	for i, line := range lines {
		lw := measure(fc, line)
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(color.Black),
			Face: fc,
			Dot:  fixed.P(layout.LineStartX(el.Anchor(), x, lw), y+marginPx+ascent+i*lh),
		}
		d.DrawString(line)
	}
}

// drawQRCode encodes the element value into a QR symbol scaled to the
// element's physical side minus margins, anchored horizontally like text.
func drawQRCode(img *image.RGBA, el *layout.Element, dpi int) {
	if el.Value == "" {
		return
	}

	side := layout.MMToPixelsMin1(el.PhysicalSizeMM()-2*el.MarginMM, dpi)

	qr, err := qrcode.New(el.Value, qrcode.Medium)
	if err != nil {
		// Unencodable value (oversized payload); leave the area blank
		// rather than failing the whole ticket.
		return
	}
	qr.DisableBorder = true
	symbol := qr.Image(side)
	if symbol.Bounds().Dx() != side {
		symbol = imaging.Resize(symbol, side, side, imaging.NearestNeighbor)
	}

	x := anchorX(el, layout.MMToPixels(el.X, dpi), side)
	y := layout.MMToPixels(el.Y, dpi)
	draw.Draw(img, image.Rect(x, y, x+side, y+side), symbol, symbol.Bounds().Min, draw.Over)
}

// drawLogo resolves the logo asset chain and pastes the composited square,
// or a placeholder box when no asset is available.
func drawLogo(img *image.RGBA, el *layout.Element, dpi int, src *LogoSource) {
	side := layout.MMToPixelsMin1(el.PhysicalSizeMM()-2*el.MarginMM, dpi)

	var tile image.Image
	if logo := resolveLogo(src); logo != nil {
		tile = compositeLogo(logo, side)
	} else {
		tile = placeholderBox(side, el.Value)
	}

	x := anchorX(el, layout.MMToPixels(el.X, dpi), side)
	y := layout.MMToPixels(el.Y, dpi)
	draw.Draw(img, image.Rect(x, y, x+side, y+side), tile, tile.Bounds().Min, draw.Over)
}

// drawDivider paints a straight line. Length is physical (mm); thickness is
// authored in pixels and used as-is.
func drawDivider(img *image.RGBA, el *layout.Element, dpi int) {
	length := layout.MMToPixelsMin1(el.LengthMM, dpi)
	thickness := el.Thickness
	if thickness < 1 {
		thickness = 1
	}

	x := layout.MMToPixels(el.X, dpi)
	y := layout.MMToPixels(el.Y, dpi)

	var r image.Rectangle
	if el.Direction == layout.DirectionVertical {
		r = image.Rect(x, y, x+thickness, y+length)
	} else {
		r = image.Rect(x, y, x+length, y+thickness)
	}
	draw.Draw(img, r, image.NewUniform(color.Black), image.Point{}, draw.Src)
}

// anchorX resolves the left edge of a square element from its anchor.
func anchorX(el *layout.Element, xBase, side int) int {
	return layout.LineStartX(el.Anchor(), xBase, side)
}
