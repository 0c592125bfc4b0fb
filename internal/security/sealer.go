// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	sealedPrefix = "sb1:"
	nonceSize    = 24
)

// ErrUnseal is returned when a sealed value cannot be opened with the
// configured key.
var ErrUnseal = errors.New("security: cannot unseal value")

// Sealer encrypts values before they are written to the database. A Sealer
// with no key passes values through unchanged.
type Sealer struct {
	key    *[32]byte
	random io.Reader
}

// NewSealer derives a secretbox key from passphrase. An empty passphrase
// yields a pass-through sealer.
func NewSealer(passphrase string) *Sealer {
	s := &Sealer{random: rand.Reader}
	if passphrase != "" {
		k := sha256.Sum256([]byte(passphrase))
		s.key = &k
	}
	return s
}

// Enabled reports whether values are encrypted.
func (s *Sealer) Enabled() bool { return s != nil && s.key != nil }

// Seal returns the stored representation of plain.
func (s *Sealer) Seal(plain Secret) (string, error) {
	if !s.Enabled() || len(plain) == 0 {
		return string(plain), nil
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(s.random, nonce[:]); err != nil {
		return "", fmt.Errorf("security: read nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], plain, &nonce, s.key)
	return sealedPrefix + base64.StdEncoding.EncodeToString(box), nil
}

// Open reverses Seal. Values without the sealed prefix are returned as-is so
// rows written before a key was configured stay readable.
func (s *Sealer) Open(stored string) (Secret, error) {
	if !strings.HasPrefix(stored, sealedPrefix) {
		return FromString(stored), nil
	}
	if !s.Enabled() {
		return nil, fmt.Errorf("%w: no token key configured", ErrUnseal)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, sealedPrefix))
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return nil, ErrUnseal
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, s.key)
	if !ok {
		return nil, ErrUnseal
	}
	return Secret(plain), nil
}
