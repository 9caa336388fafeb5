// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package layout

// TemplateInfo identifies one starter template for listing APIs.
type TemplateInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// starter couples a catalog entry with its layout.
type starter struct {
	info     TemplateInfo
	template Template
}

// starters is the fixed catalog of layouts an event can start from.
// Customization happens by copying one into the event's own stored layout;
// there is deliberately no mutation API here.
var starters = []starter{
	{
		info: TemplateInfo{ID: "padrao", Name: "Ingresso padrão"},
		template: Template{
			Canvas: Canvas{Width: 80, Height: 120, Unit: "mm", PaddingMM: 3, Border: true},
			Elements: []Element{
				{Type: ElementLogo, X: 40, Y: 6, SizeMM: 18, Align: AlignCenter, ZIndex: 1},
				{Type: ElementText, X: 40, Y: 28, Value: "{EVENTO_NOME}", Size: 16, Bold: true, Align: AlignCenter, ZIndex: 2},
				{Type: ElementText, X: 40, Y: 36, Value: "{DATA_EVENTO}", Size: 10, Align: AlignCenter, ZIndex: 2},
				{Type: ElementDivider, X: 5, Y: 42, Direction: DirectionHorizontal, LengthMM: 70, Thickness: 2, ZIndex: 1},
				{Type: ElementText, X: 40, Y: 47, Value: "{NOME}", Size: 14, Bold: true, Align: AlignCenter, ZIndex: 3},
				{Type: ElementText, X: 40, Y: 57, Value: "{TIPO_INGRESSO}", Size: 10, Align: AlignCenter, ZIndex: 3},
				{Type: ElementQRCode, X: 40, Y: 66, SizeMM: 40, Align: AlignCenter, Value: "{qrcode_hash}", ZIndex: 3},
				{Type: ElementText, X: 40, Y: 110, Value: "CPF: {CPF}", Size: 8, Align: AlignCenter, ZIndex: 2},
			},
		},
	},
	{
		info: TemplateInfo{ID: "padrao_vip", Name: "Ingresso padrão VIP"},
		template: Template{
			Canvas: Canvas{Width: 80, Height: 120, Unit: "mm", PaddingMM: 3, Border: true},
			Elements: []Element{
				{Type: ElementText, X: 40, Y: 8, Value: "★ VIP ★", Size: 18, Bold: true, Align: AlignCenter, ZIndex: 4},
				{Type: ElementLogo, X: 40, Y: 14, SizeMM: 16, Align: AlignCenter, ZIndex: 1},
				{Type: ElementText, X: 40, Y: 34, Value: "{EVENTO_NOME}", Size: 16, Bold: true, Align: AlignCenter, ZIndex: 2},
				{Type: ElementText, X: 40, Y: 42, Value: "{DATA} às {HORARIO}", Size: 10, Align: AlignCenter, ZIndex: 2},
				{Type: ElementDivider, X: 5, Y: 47, Direction: DirectionHorizontal, LengthMM: 70, Thickness: 3, ZIndex: 1},
				{Type: ElementText, X: 40, Y: 52, Value: "{NOME}", Size: 14, Bold: true, Align: AlignCenter, ZIndex: 3},
				{Type: ElementText, X: 40, Y: 62, Value: "{TIPO_INGRESSO}", Size: 11, Bold: true, Align: AlignCenter, ZIndex: 3},
				{Type: ElementQRCode, X: 40, Y: 70, SizeMM: 38, Align: AlignCenter, Value: "{qrcode_hash}", ZIndex: 3},
				{Type: ElementText, X: 40, Y: 112, Value: "{EMAIL}", Size: 8, Align: AlignCenter, ZIndex: 2},
			},
		},
	},
	{
		info: TemplateInfo{ID: "simples", Name: "Etiqueta simples"},
		template: Template{
			Canvas: Canvas{Width: 62, Height: 90, Unit: "mm"},
			Elements: []Element{
				{Type: ElementText, X: 31, Y: 8, Value: "{NOME}", Size: 14, Bold: true, Align: AlignCenter, ZIndex: 2},
				{Type: ElementQRCode, X: 31, Y: 28, SizeMM: 34, Align: AlignCenter, Value: "{qrcode_hash}", ZIndex: 2},
				{Type: ElementText, X: 31, Y: 68, Value: "{TIPO_INGRESSO}", Size: 10, Align: AlignCenter, ZIndex: 1},
			},
		},
	},
}

// ListTemplates returns the catalog entries in their fixed order.
func ListTemplates() []TemplateInfo {
	out := make([]TemplateInfo, len(starters))
	for i, s := range starters {
		out[i] = s.info
	}
	return out
}

// GetTemplate returns a copy of the starter template with the given id, or
// ErrTemplateNotFound. Callers own the copy and may customize it freely.
func GetTemplate(id string) (*Template, error) {
	for i := range starters {
		if starters[i].info.ID == id {
			return starters[i].template.Clone(), nil
		}
	}
	return nil, ErrTemplateNotFound
}
