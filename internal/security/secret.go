// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package security holds the redacting Secret type and the sealer used to
// protect n8n API tokens at rest.
package security

import (
	"fmt"
	"io"
)

// Secret wraps sensitive material such as an n8n API token. Formatting and
// JSON/text marshaling redact it so it never reaches logs by accident.
type Secret []byte

// String redacts the secret for fmt.Print* convenience.
func (s Secret) String() string { return "[SECRET]" }

// Format implements fmt.Formatter so `%v`, `%#v` and friends are redacted.
func (s Secret) Format(f fmt.State, c rune) {
	_, _ = io.WriteString(f, "[SECRET]")
}

// Reveal returns the plaintext. Only call it where the value must leave the
// process: outgoing request headers and the owner's settings response.
func (s Secret) Reveal() string { return string(s) }

// MarshalJSON redacts secrets in JSON marshaling.
func (s Secret) MarshalJSON() ([]byte, error) { return []byte(`"[SECRET]"`), nil }

// MarshalText redacts secrets for text encoding.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[SECRET]"), nil }

// FromString creates a Secret from a string.
func FromString(in string) Secret { return Secret([]byte(in)) }
