// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package layout

import "math"

// mmPerInch is the printing-industry conversion constant.
const mmPerInch = 25.4

// MMToPixels converts a physical length in millimeters to pixels at the
// given DPI, rounding to the nearest pixel. Positions may legitimately
// round to zero.
func MMToPixels(mm float64, dpi int) int {
	return int(math.Round(mm * float64(dpi) / mmPerInch))
}

// MMToPixelsMin1 converts a drawable extent in millimeters to pixels,
// clamped to at least one pixel so positive sizes never vanish at low DPI.
func MMToPixelsMin1(mm float64, dpi int) int {
	px := MMToPixels(mm, dpi)
	if px < 1 {
		return 1
	}
	return px
}

// PtToPixels converts a font size in points to pixels at the given DPI
// (72 points per inch), with a minimum of one pixel.
func PtToPixels(pt float64, dpi int) int {
	px := int(math.Round(pt * float64(dpi) / 72))
	if px < 1 {
		return 1
	}
	return px
}

// PixelsToMM converts pixels back to millimeters at the given DPI. Together
// with MMToPixels it is stable within one pixel of rounding error.
func PixelsToMM(px int, dpi int) float64 {
	return float64(px) * mmPerInch / float64(dpi)
}
