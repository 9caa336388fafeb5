// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package layout

import (
	"encoding/json"
	"testing"
)

func TestElementRoundTripPreservesUnknownKeys(t *testing.T) {
	src := `{"type":"text","x":10,"y":20,"value":"hi","color":"#ff0000","rotation":45,"meta":{"a":1}}`

	var el Element
	if err := json.Unmarshal([]byte(src), &el); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if el.Type != ElementText || el.X != 10 || el.Value != "hi" {
		t.Fatalf("modeled fields lost: %+v", el)
	}

	out, err := json.Marshal(&el)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("reparse: %v", err)
	}
	for _, key := range []string{"color", "rotation", "meta"} {
		if _, ok := m[key]; !ok {
			t.Errorf("unknown key %q dropped on round trip", key)
		}
	}
	if string(m["color"]) != `"#ff0000"` {
		t.Errorf("color value changed: %s", m["color"])
	}
}

func TestElementRoundTripPreservesExplicitZeros(t *testing.T) {
	src := `{"type":"text","x":0,"y":0,"size":0,"margin_mm":0,"value":"v"}`

	var el Element
	if err := json.Unmarshal([]byte(src), &el); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(&el)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("reparse: %v", err)
	}
	for _, key := range []string{"size", "margin_mm"} {
		if _, ok := m[key]; !ok {
			t.Errorf("explicit zero for %q dropped", key)
		}
	}
}

func TestElementMarshalOmitsUnsetFields(t *testing.T) {
	el := Element{Type: ElementText, X: 1, Y: 2, Value: "v"}
	out, err := json.Marshal(&el)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("reparse: %v", err)
	}
	for _, key := range []string{"size", "font", "bold", "direction", "thickness", "groupId"} {
		if _, ok := m[key]; ok {
			t.Errorf("unset field %q emitted", key)
		}
	}
}

func TestTemplateRoundTripUnknownElementType(t *testing.T) {
	src := `{"canvas":{"width":80,"height":120},"elements":[{"type":"barcode","x":1,"y":2,"symbology":"ean13"}]}`

	var tmpl Template
	if err := json.Unmarshal([]byte(src), &tmpl); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tmpl.Elements[0].Type.Known() {
		t.Error("barcode should not be a known type")
	}

	out, err := json.Marshal(&tmpl)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Template
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if back.Elements[0].Type != "barcode" {
		t.Errorf("type changed: %q", back.Elements[0].Type)
	}
	if back.Elements[0].extra == nil {
		t.Error("extra attributes lost on round trip")
	}
}

func TestPhysicalSizeMMPrecedence(t *testing.T) {
	el := Element{Size: 30}
	if got := el.PhysicalSizeMM(); got != 30 {
		t.Errorf("size fallback: got %v", got)
	}
	el.SizeMM = 40
	if got := el.PhysicalSizeMM(); got != 40 {
		t.Errorf("size_mm should win: got %v", got)
	}
}

func TestFontSizeDefault(t *testing.T) {
	el := Element{Type: ElementText}
	if got := el.FontSizePt(); got != 12 {
		t.Errorf("default font size: got %v, want 12", got)
	}
}

func TestAnchorDefaultsLeft(t *testing.T) {
	el := Element{}
	if el.Anchor() != AlignLeft {
		t.Errorf("got %q", el.Anchor())
	}
}

func TestCloneIsDeep(t *testing.T) {
	tmpl := &Template{
		Canvas:   Canvas{Width: 80, Height: 120},
		Elements: []Element{{Type: ElementText, Value: "{NOME}"}},
	}
	cp := tmpl.Clone()
	cp.Elements[0].Value = "changed"
	cp.Canvas.Width = 999

	if tmpl.Elements[0].Value != "{NOME}" {
		t.Error("clone shares element backing array")
	}
	if tmpl.Canvas.Width != 80 {
		t.Error("clone shares canvas")
	}
}
