// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package layout

import "strings"

// MinWrapWidth is the floor for the usable wrapping width in pixels.
// Degenerate element positions (an anchor flush against an edge) would
// otherwise wrap every word onto its own line.
const MinWrapWidth = 50

// MeasureFunc reports the rendered width of a string in pixels for the
// font the caller is about to draw with.
type MeasureFunc func(s string) int

// Wrap breaks text into lines that each measure at most maxWidth pixels,
// using greedy word accumulation. Words are never split or dropped: a
// single word wider than maxWidth gets its own line. Empty input, or a
// non-positive maxWidth, returns the text unchanged as a single line.
func Wrap(text string, maxWidth int, measure MeasureFunc) []string {
	if text == "" || maxWidth <= 0 {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if measure(candidate) > maxWidth {
			lines = append(lines, current)
			current = word
		} else {
			current = candidate
		}
	}
	return append(lines, current)
}

// AvailableWidth computes the usable wrapping width for an element anchored
// at x (pixels) on a canvas of the given pixel width, honoring padding.
//
// The formula intentionally differs per alignment, matching the system this
// replaces: a centered element wraps within twice its smaller edge distance,
// while left/right elements use the run to the opposite padded edge. A
// centered and a left-aligned element at the same x can therefore wrap at
// different points; that asymmetry is long-standing observed behavior and
// is kept until product says otherwise.
func AvailableWidth(align Align, x, leftPad, rightPad, canvasWidth int) int {
	var w int
	switch align {
	case AlignCenter:
		left := x - leftPad
		right := canvasWidth - rightPad - x
		w = 2 * min(left, right)
	case AlignRight:
		w = x - leftPad
	default: // left
		w = canvasWidth - rightPad - x
	}
	if w < MinWrapWidth {
		return MinWrapWidth
	}
	return w
}

// LineStartX resolves the draw origin of one line given the element anchor.
func LineStartX(align Align, xBase, lineWidth int) int {
	switch align {
	case AlignCenter:
		return xBase - lineWidth/2
	case AlignRight:
		return xBase - lineWidth
	default:
		return xBase
	}
}
