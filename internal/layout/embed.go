// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package layout

import (
	"strings"
	"time"
)

// ParticipantData is the participant slice of the embedding data bag.
type ParticipantData struct {
	Name  string
	CPF   string
	Email string
}

// TicketTypeData is the ticket-type slice of the embedding data bag.
type TicketTypeData struct {
	Description string
}

// EventData is the event slice of the embedding data bag. When Date is set
// it is formatted as DD/MM/YYYY HH:MM; DateText passes through verbatim for
// events whose stored date is already a string.
type EventData struct {
	Name     string
	Date     time.Time
	DateText string
}

// TicketData is the issued-ticket slice of the embedding data bag.
type TicketData struct {
	QRHash string
}

// eventDateFormat is the Brazilian date layout printed on tickets.
const eventDateFormat = "02/01/2006 15:04"

// Embed resolves every placeholder token in the template against the given
// data and returns a new, self-contained layout ready for rasterization.
//
// The input template is never mutated: many tickets are embedded from the
// same template concurrently, so the result is always a deep copy. Embedding
// consumes tokens, so resolving must always start from the pristine
// template, never from a previous result. Missing data resolves to the
// empty string; a nil or empty template degrades to a blank default ticket.
func Embed(tmpl *Template, participant ParticipantData, ticketType TicketTypeData, event EventData, ticket TicketData) *Template {
	if tmpl == nil || (tmpl.Canvas == Canvas{} && len(tmpl.Elements) == 0 && len(tmpl.Groups) == 0) {
		return DefaultTemplate()
	}

	resolved := tmpl.Clone()
	resolved.compileGroups()

	table := tokenTable(participant, ticketType, event, ticket)
	replace := func(s string) string {
		for token, value := range table {
			s = strings.ReplaceAll(s, token, value)
		}
		return s
	}

	for i := range resolved.Elements {
		el := &resolved.Elements[i]
		switch el.Type {
		case ElementText:
			el.Value = replace(el.Value)
		case ElementQRCode:
			// A qrcode element with no explicit value always encodes the
			// ticket's hash.
			v := el.Value
			if v == "" {
				v = "{qrcode_hash}"
			}
			el.Value = replace(v)
		}
	}
	return resolved
}

// tokenTable builds the fixed placeholder substitution table. All values
// are strings; absent fields substitute as empty.
func tokenTable(p ParticipantData, tt TicketTypeData, ev EventData, tk TicketData) map[string]string {
	var dateTime, dateOnly, timeOnly string
	switch {
	case !ev.Date.IsZero():
		dateTime = ev.Date.Format(eventDateFormat)
		dateOnly = ev.Date.Format("02/01/2006")
		timeOnly = ev.Date.Format("15:04")
	case ev.DateText != "":
		// Stored as a string already; pass through unchanged.
		dateTime = ev.DateText
		dateOnly = ev.DateText
	}

	return map[string]string{
		"{NOME}":              p.Name,
		"{participante_nome}": p.Name,
		"{CPF}":               p.CPF,
		"{EMAIL}":             p.Email,
		"{qrcode_hash}":       tk.QRHash,
		"{TIPO_INGRESSO}":     tt.Description,
		"{EVENTO_NOME}":       ev.Name,
		"{DATA_EVENTO}":       dateTime,
		"{DATA}":              dateOnly,
		"{HORARIO}":           timeOnly,
		"{DATA_HORA}":         dateTime,
	}
}

// compileGroups flattens authored groups into absolute-positioned elements.
// Group children are offset by the group origin and inherit the group's
// align/size/margin defaults where unset; the flattened elements are
// appended after the explicit element list. Elements that reference a group
// by groupId have their coordinates shifted by that group's origin.
func (t *Template) compileGroups() {
	if len(t.Groups) == 0 {
		return
	}

	byID := make(map[string]*Group, len(t.Groups))
	for i := range t.Groups {
		if id := t.Groups[i].ID; id != "" {
			byID[id] = &t.Groups[i]
		}
	}

	for i := range t.Elements {
		el := &t.Elements[i]
		if el.GroupID == "" {
			continue
		}
		if g, ok := byID[el.GroupID]; ok {
			el.X += g.X
			el.Y += g.Y
		}
	}

	for gi := range t.Groups {
		g := &t.Groups[gi]
		for _, child := range g.Elements {
			child.X += g.X
			child.Y += g.Y
			if child.Align == "" {
				child.Align = g.Align
			}
			if child.Size == 0 {
				child.Size = g.Size
			}
			if child.SizeMM == 0 {
				child.SizeMM = g.SizeMM
			}
			if child.MarginMM == 0 {
				child.MarginMM = g.MarginMM
			}
			t.Elements = append(t.Elements, child)
		}
	}
	t.Groups = nil
}
