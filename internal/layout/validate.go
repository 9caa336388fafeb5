// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package layout

import (
	"fmt"
	"math"
)

// Validate checks the template for geometry a renderer cannot work with.
// It returns a *ValidationError on the first problem found, nil otherwise.
// Unknown element types are not an error; they are skipped at render time.
func (t *Template) Validate() error {
	if t == nil {
		return &ValidationError{Field: "template", Reason: "missing"}
	}

	if t.Canvas.Unit != "" && t.Canvas.Unit != "mm" {
		return &ValidationError{Field: "canvas.unit", Reason: fmt.Sprintf("unsupported unit %q", t.Canvas.Unit)}
	}
	if !(t.Canvas.Width > 0) || math.IsInf(t.Canvas.Width, 0) {
		return &ValidationError{Field: "canvas.width", Reason: "must be a positive finite number of millimeters"}
	}
	if !(t.Canvas.Height > 0) || math.IsInf(t.Canvas.Height, 0) {
		return &ValidationError{Field: "canvas.height", Reason: "must be a positive finite number of millimeters"}
	}
	if t.Canvas.PaddingMM < 0 {
		return &ValidationError{Field: "canvas.padding_mm", Reason: "must not be negative"}
	}

	for i := range t.Elements {
		if err := validateElement(&t.Elements[i], i); err != nil {
			return err
		}
	}
	for gi := range t.Groups {
		for i := range t.Groups[gi].Elements {
			if err := validateElement(&t.Groups[gi].Elements[i], i); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateElement(e *Element, idx int) error {
	field := func(name string) string { return fmt.Sprintf("elements[%d].%s", idx, name) }

	if badNumber(e.X) {
		return &ValidationError{Field: field("x"), Reason: "not a finite number"}
	}
	if badNumber(e.Y) {
		return &ValidationError{Field: field("y"), Reason: "not a finite number"}
	}
	if badNumber(e.Size) || badNumber(e.SizeMM) || badNumber(e.MarginMM) || badNumber(e.LengthMM) {
		return &ValidationError{Field: field("size"), Reason: "not a finite number"}
	}

	switch e.Type {
	case ElementText:
		if e.Size < 0 {
			return &ValidationError{Field: field("size"), Reason: "font size must not be negative"}
		}
	case ElementQRCode, ElementLogo:
		// Check the raw fields: PhysicalSizeMM falls back past a negative
		// size_mm, which would let a malformed side length through.
		if e.SizeMM < 0 || e.Size < 0 {
			return &ValidationError{Field: field("size_mm"), Reason: "side length must not be negative"}
		}
	case ElementDivider:
		if e.LengthMM < 0 {
			return &ValidationError{Field: field("length_mm"), Reason: "must not be negative"}
		}
		if e.Thickness < 0 {
			return &ValidationError{Field: field("thickness"), Reason: "must not be negative"}
		}
	}
	return nil
}

func badNumber(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
