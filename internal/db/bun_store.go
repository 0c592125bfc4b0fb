// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/altafpasha/n8n-dashboard/internal/model"
	"github.com/altafpasha/n8n-dashboard/internal/security"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunStore implements Store on top of a long-lived *bun.DB.
type BunStore struct {
	bun    *bun.DB
	dbType string
	sealer *security.Sealer
	now    func() time.Time
}

var _ Store = (*BunStore)(nil)

// BunDB exposes the underlying *bun.DB.
func (s *BunStore) BunDB() *bun.DB { return s.bun }

// Close closes the connection pool.
func (s *BunStore) Close() error { return s.bun.Close() }

// SetSealer enables sealing of API tokens written from now on.
func (s *BunStore) SetSealer(sl *security.Sealer) { s.sealer = sl }

func (s *BunStore) timestamp() time.Time {
	// Microsecond precision round-trips on every dialect.
	return s.now().UTC().Truncate(time.Microsecond)
}

// GetSettings returns the user's credentials with the token unsealed.
func (s *BunStore) GetSettings(ctx context.Context, userID string) (*model.Settings, error) {
	m, err := GetSettingsBun(ctx, s.bun, userID)
	if err != nil || m == nil {
		return nil, err
	}
	tok, err := s.sealer.Open(m.APIToken)
	if err != nil {
		return nil, fmt.Errorf("open api token: %w", err)
	}
	return &model.Settings{UserID: m.UserID, HostURL: m.Host, APIToken: tok, UpdatedAt: m.UpdatedAt}, nil
}

// SaveSettings upserts the user's credentials, sealing the token when a
// sealer is configured.
func (s *BunStore) SaveSettings(ctx context.Context, in model.Settings) (model.Settings, error) {
	stored, err := s.sealer.Seal(in.APIToken)
	if err != nil {
		return model.Settings{}, fmt.Errorf("seal api token: %w", err)
	}
	m, err := UpsertSettingsBun(ctx, s.bun, SettingsModel{
		UserID:    in.UserID,
		Host:      in.HostURL,
		APIToken:  stored,
		UpdatedAt: s.timestamp(),
	})
	if err != nil {
		return model.Settings{}, err
	}
	in.UpdatedAt = m.UpdatedAt
	return in, nil
}

// CreateLibraryEntry stores e, filling the id and timestamps when unset.
func (s *BunStore) CreateLibraryEntry(ctx context.Context, e model.LibraryEntry) (model.LibraryEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.timestamp()
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}
	if err := InsertLibraryEntryBun(ctx, s.bun, e); err != nil {
		return model.LibraryEntry{}, err
	}
	return e, nil
}

func (s *BunStore) ListLibraryEntries(ctx context.Context, userID string) ([]model.LibraryEntry, error) {
	return ListLibraryEntriesBun(ctx, s.bun, userID)
}

func (s *BunStore) GetLibraryEntry(ctx context.Context, userID, id string) (*model.LibraryEntry, error) {
	return GetLibraryEntryBun(ctx, s.bun, userID, id)
}

func (s *BunStore) DeleteLibraryEntry(ctx context.Context, userID, id string) error {
	return DeleteLibraryEntryBun(ctx, s.bun, userID, id)
}

func (s *BunStore) CreateSession(ctx context.Context, sess model.Session) error {
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = s.timestamp()
	}
	sess.ExpiresAt = sess.ExpiresAt.UTC()
	return InsertSessionBun(ctx, s.bun, sess)
}

func (s *BunStore) GetSession(ctx context.Context, tokenHash string) (*model.Session, error) {
	return GetSessionBun(ctx, s.bun, tokenHash)
}

func (s *BunStore) DeleteSession(ctx context.Context, tokenHash string) error {
	return DeleteSessionBun(ctx, s.bun, tokenHash)
}

func (s *BunStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	return DeleteExpiredSessionsBun(ctx, s.bun, now)
}

func (s *BunStore) AddFavorite(ctx context.Context, f model.Favorite) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = s.timestamp()
	}
	return InsertFavoriteBun(ctx, s.bun, f)
}

func (s *BunStore) RemoveFavorite(ctx context.Context, userID, workflowID string) error {
	return DeleteFavoriteBun(ctx, s.bun, userID, workflowID)
}

func (s *BunStore) ListFavorites(ctx context.Context, userID string) ([]model.Favorite, error) {
	return ListFavoritesBun(ctx, s.bun, userID)
}
