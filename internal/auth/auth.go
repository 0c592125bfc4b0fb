// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package auth issues and resolves session tokens. Tokens are random
// strings shown once; only their SHA-256 is stored.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/altafpasha/n8n-dashboard/internal/core"
	"github.com/altafpasha/n8n-dashboard/internal/db"
	"github.com/altafpasha/n8n-dashboard/internal/model"
)

// ErrUnauthenticated is returned for missing, unknown or expired tokens.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrInvalidUserID is returned by Create for ids that cannot name a
// per-user storage directory.
var ErrInvalidUserID = errors.New("auth: invalid user id")

const tokenBytes = 32

// userIDPattern keeps ids usable as a single path segment in blob keys.
var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._@-]{0,127}$`)

// ValidUserID reports whether id may own sessions and library files.
func ValidUserID(id string) bool {
	return userIDPattern.MatchString(id)
}

// Manager creates and resolves sessions.
type Manager struct {
	store db.SessionStore
	ttl   time.Duration
	clock core.Clock
}

// NewManager uses ttl for sessions created without an explicit lifetime.
func NewManager(store db.SessionStore, ttl time.Duration, clock core.Clock) *Manager {
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &Manager{store: store, ttl: ttl, clock: clock}
}

// HashToken returns the hex SHA-256 of token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("auth: read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Create issues a session for userID. A zero ttl uses the manager default.
// The returned token is not recoverable later.
func (m *Manager) Create(ctx context.Context, userID string, ttl time.Duration) (string, model.Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", model.Session{}, errors.New("auth: user id is required")
	}
	if !ValidUserID(userID) {
		return "", model.Session{}, fmt.Errorf("%w: %q", ErrInvalidUserID, userID)
	}
	if ttl <= 0 {
		ttl = m.ttl
	}
	tok, err := newToken()
	if err != nil {
		return "", model.Session{}, err
	}
	now := m.clock.Now().UTC()
	s := model.Session{
		TokenHash: HashToken(tok),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := m.store.CreateSession(ctx, s); err != nil {
		return "", model.Session{}, fmt.Errorf("auth: store session: %w", err)
	}
	return tok, s, nil
}

// Resolve returns the user id owning token.
func (m *Manager) Resolve(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrUnauthenticated
	}
	s, err := m.store.GetSession(ctx, HashToken(token))
	if err != nil {
		return "", fmt.Errorf("auth: lookup session: %w", err)
	}
	if s == nil || s.Expired(m.clock.Now()) {
		return "", ErrUnauthenticated
	}
	return s.UserID, nil
}

// Revoke deletes the session for token.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	err := m.store.DeleteSession(ctx, HashToken(strings.TrimSpace(token)))
	if errors.Is(err, db.ErrNotFound) {
		return ErrUnauthenticated
	}
	return err
}

// Prune deletes expired sessions and returns how many were removed.
func (m *Manager) Prune(ctx context.Context) (int, error) {
	return m.store.DeleteExpiredSessions(ctx, m.clock.Now())
}
