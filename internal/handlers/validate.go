package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for participant and event fields.
const (
	maxNameLen      = 200
	maxEmailLen     = 320
	maxEventNameLen = 300
	maxLabelLen     = 100
)

// validateParticipant checks registration inputs and returns the first
// error found, or "".
func validateParticipant(name, cpf, email string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	if cpf := normalizeCPF(cpf); cpf != "" && len(cpf) != 11 {
		return "CPF must have 11 digits."
	}
	if email != "" {
		if utf8.RuneCountInString(email) > maxEmailLen {
			return "Email is too long."
		}
		if !strings.Contains(email, "@") {
			return "Email is invalid."
		}
	}
	return ""
}

// validateEventName checks an event's display name.
func validateEventName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Event name is required."
	}
	if utf8.RuneCountInString(name) > maxEventNameLen {
		return "Event name is too long (max 300 characters)."
	}
	return ""
}

// normalizeCPF strips formatting punctuation, keeping digits only.
// "123.456.789-09" and "12345678909" normalize to the same value.
func normalizeCPF(cpf string) string {
	var b strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}
