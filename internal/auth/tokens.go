// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth provides access-token generation and a Valkey-backed grant
// store. Two token shapes exist: short codes (7 base36 characters, typed
// by hand on box office and gate devices) and long hex session tokens for
// admin API clients.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	// codeAlphabet excludes lowercase so codes survive being read aloud
	// or written on paper at the venue.
	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// CodeLength is the character count of short access codes.
	CodeLength = 7

	// sessionTokenBytes is the byte length of admin session tokens
	// (32 bytes = 64 hex characters).
	sessionTokenBytes = 32

	// qrHashBytes is the byte length of ticket QR hashes
	// (16 bytes = 32 hex characters).
	qrHashBytes = 16
)

// NewCode generates a short random access code for box office and gate
// devices, e.g. "K3F9Q2M".
func NewCode() (string, error) {
	buf := make([]byte, CodeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// NewSessionToken generates a long random token for admin sessions.
func NewSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewQRHash generates the random value encoded in a ticket's QR symbol.
// It doubles as the ticket's public identifier, so it must be unguessable.
func NewQRHash() (string, error) {
	b := make([]byte, qrHashBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate qr hash: %w", err)
	}
	return hex.EncodeToString(b), nil
}
