// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"encoding/hex"
	"strings"
	"testing"
)

func TestNewCodeShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code, err := NewCode()
		if err != nil {
			t.Fatalf("NewCode: %v", err)
		}
		if len(code) != CodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), CodeLength)
		}
		for _, r := range code {
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Fatalf("code %q contains %q outside alphabet", code, r)
			}
		}
		seen[code] = true
	}
	// 36^7 possibilities; 100 draws colliding would indicate broken randomness.
	if len(seen) < 100 {
		t.Errorf("collisions in 100 draws: %d unique", len(seen))
	}
}

func TestNewSessionToken(t *testing.T) {
	token, err := NewSessionToken()
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("token length %d, want 64", len(token))
	}
	if _, err := hex.DecodeString(token); err != nil {
		t.Errorf("token is not hex: %v", err)
	}
}

func TestNewQRHash(t *testing.T) {
	a, err := NewQRHash()
	if err != nil {
		t.Fatalf("NewQRHash: %v", err)
	}
	b, _ := NewQRHash()
	if len(a) != 32 {
		t.Errorf("hash length %d, want 32", len(a))
	}
	if a == b {
		t.Error("two hashes identical")
	}
	if _, err := hex.DecodeString(a); err != nil {
		t.Errorf("hash is not hex: %v", err)
	}
}
