// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package layout defines the declarative ticket layout model: a physical
// canvas (millimeters) with positioned text, QR-code, logo, and divider
// elements. It provides unit conversion, text wrapping geometry, placeholder
// embedding, and a catalog of starter templates. Layout documents are stored
// as plain JSON by the caller and must round-trip without loss, including
// element attributes this package does not know about.
package layout

import (
	"encoding/json"
	"fmt"
)

// ElementType discriminates the element variants of a layout.
type ElementType string

const (
	ElementText    ElementType = "text"
	ElementQRCode  ElementType = "qrcode"
	ElementLogo    ElementType = "logo"
	ElementDivider ElementType = "divider"
)

// Known reports whether t is one of the element types this package renders.
// Unknown types are carried through untouched and skipped at render time.
func (t ElementType) Known() bool {
	switch t {
	case ElementText, ElementQRCode, ElementLogo, ElementDivider:
		return true
	}
	return false
}

// Align is the horizontal anchor of an element relative to its x coordinate.
// It never affects vertical placement.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Direction orients a divider element.
type Direction string

const (
	DirectionHorizontal Direction = "horizontal"
	DirectionVertical   Direction = "vertical"
)

// Canvas describes the physical ticket face. Width and height are in
// millimeters; DPI is an optional authoring hint, the render call decides
// the actual resolution.
type Canvas struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Unit        string  `json:"unit,omitempty"`
	PaddingMM   float64 `json:"padding_mm,omitempty"`
	Border      bool    `json:"border,omitempty"`
	DPI         int     `json:"dpi,omitempty"`
	Orientation string  `json:"orientation,omitempty"`
}

// Element is one positioned item on the canvas. A single struct covers all
// variants; which fields are meaningful depends on Type. Attributes present
// in the stored JSON that this struct does not model are preserved in an
// internal extra map so documents survive load/store cycles intact.
type Element struct {
	Type     ElementType `json:"type"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Align    Align       `json:"align,omitempty"`
	MarginMM float64     `json:"margin_mm,omitempty"`
	ZIndex   int         `json:"z_index,omitempty"`
	GroupID  string      `json:"groupId,omitempty"`

	// Text: Value (may carry placeholders), Size in points, Font family, Bold.
	// QRCode: Value is the encoded string, Size/SizeMM the side in mm.
	// Logo: SizeMM the side in mm, Value an optional placeholder label.
	Value  string  `json:"value,omitempty"`
	Size   float64 `json:"size,omitempty"`
	SizeMM float64 `json:"size_mm,omitempty"`
	Font   string  `json:"font,omitempty"`
	Bold   bool    `json:"bold,omitempty"`

	// Divider only.
	Direction Direction `json:"direction,omitempty"`
	LengthMM  float64   `json:"length_mm,omitempty"`
	Thickness int       `json:"thickness,omitempty"`

	// extra holds attributes outside the modeled set; present tracks which
	// modeled keys appeared in the source document so explicit zero values
	// are re-emitted on marshal.
	extra   map[string]json.RawMessage
	present map[string]bool
}

// elementKeys is the set of JSON keys the Element struct models.
var elementKeys = []string{
	"type", "x", "y", "align", "margin_mm", "z_index", "groupId",
	"value", "size", "size_mm", "font", "bold",
	"direction", "length_mm", "thickness",
}

// Anchor returns the element alignment, defaulting to left.
func (e *Element) Anchor() Align {
	if e.Align == "" {
		return AlignLeft
	}
	return e.Align
}

// PhysicalSizeMM returns the physical side length in millimeters for qrcode
// and logo elements. Historic documents use "size" where newer ones use
// "size_mm"; size_mm wins when both are present.
func (e *Element) PhysicalSizeMM() float64 {
	if e.SizeMM > 0 {
		return e.SizeMM
	}
	return e.Size
}

// FontSizePt returns the font size in points for text elements, with the
// historical default of 12pt when unset.
func (e *Element) FontSizePt() float64 {
	if e.Size > 0 {
		return e.Size
	}
	return 12
}

// UnmarshalJSON decodes an element while retaining unknown attributes and
// remembering which modeled keys were present in the document.
func (e *Element) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("layout element: %w", err)
	}

	type plain Element
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("layout element: %w", err)
	}
	*e = Element(p)

	e.present = make(map[string]bool, len(raw))
	for _, k := range elementKeys {
		if _, ok := raw[k]; ok {
			e.present[k] = true
			delete(raw, k)
		}
	}
	if len(raw) > 0 {
		e.extra = raw
	}
	return nil
}

// MarshalJSON re-emits the element: modeled fields (including explicit zero
// values seen at load time) merged over any preserved unknown attributes.
func (e *Element) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(e.extra)+len(elementKeys))
	for k, v := range e.extra {
		out[k] = v
	}

	put := func(key string, v any, zero bool) {
		if zero && !e.present[key] {
			return
		}
		b, err := json.Marshal(v)
		if err != nil {
			return
		}
		out[key] = b
	}

	put("type", e.Type, e.Type == "")
	put("x", e.X, false)
	put("y", e.Y, false)
	put("align", e.Align, e.Align == "")
	put("margin_mm", e.MarginMM, e.MarginMM == 0)
	put("z_index", e.ZIndex, e.ZIndex == 0)
	put("groupId", e.GroupID, e.GroupID == "")
	put("value", e.Value, e.Value == "")
	put("size", e.Size, e.Size == 0)
	put("size_mm", e.SizeMM, e.SizeMM == 0)
	put("font", e.Font, e.Font == "")
	put("bold", e.Bold, !e.Bold)
	put("direction", e.Direction, e.Direction == "")
	put("length_mm", e.LengthMM, e.LengthMM == 0)
	put("thickness", e.Thickness, e.Thickness == 0)

	return json.Marshal(out)
}

// Group positions a set of child elements relative to a shared origin.
// Groups are a template-authoring convenience; embedding flattens them into
// absolute-positioned elements.
type Group struct {
	ID        string    `json:"id,omitempty"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Direction string    `json:"direction,omitempty"`
	SpacingMM float64   `json:"spacing_mm,omitempty"`
	Elements  []Element `json:"elements,omitempty"`

	// Defaults propagated to children that leave them unset.
	Align    Align   `json:"align,omitempty"`
	Size     float64 `json:"size,omitempty"`
	SizeMM   float64 `json:"size_mm,omitempty"`
	MarginMM float64 `json:"margin_mm,omitempty"`
}

// Template is a complete layout document: canvas plus an ordered element
// list. Element order is preserved; paint order is decided by z_index at
// render time.
type Template struct {
	Canvas   Canvas    `json:"canvas"`
	Elements []Element `json:"elements"`
	Groups   []Group   `json:"groups,omitempty"`
}

// DefaultTemplate returns the blank fallback layout used when an event has
// no layout of its own: an empty 80x120mm ticket.
func DefaultTemplate() *Template {
	return &Template{
		Canvas:   Canvas{Width: 80, Height: 120, Unit: "mm"},
		Elements: []Element{},
	}
}

// Clone returns a deep copy of the template. Templates are shared between
// concurrent render calls, so every mutation path starts from a clone.
func (t *Template) Clone() *Template {
	if t == nil {
		return nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		// A template that made it into memory always marshals; this guards
		// against future field types breaking the invariant.
		cp := *t
		return &cp
	}
	var out Template
	if err := json.Unmarshal(data, &out); err != nil {
		cp := *t
		return &cp
	}
	return &out
}
