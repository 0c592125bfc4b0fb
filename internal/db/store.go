// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"time"

	"github.com/altafpasha/n8n-dashboard/internal/model"
	"github.com/altafpasha/n8n-dashboard/internal/security"
	"github.com/uptrace/bun"
)

// SettingsStore persists per-user n8n credentials.
type SettingsStore interface {
	// GetSettings returns nil, nil when the user has never saved settings.
	GetSettings(ctx context.Context, userID string) (*model.Settings, error)
	// SaveSettings creates or overwrites the user's row.
	SaveSettings(ctx context.Context, s model.Settings) (model.Settings, error)
}

// LibraryStore persists metadata of uploaded workflow files.
type LibraryStore interface {
	CreateLibraryEntry(ctx context.Context, e model.LibraryEntry) (model.LibraryEntry, error)
	// ListLibraryEntries returns the user's entries, newest first.
	ListLibraryEntries(ctx context.Context, userID string) ([]model.LibraryEntry, error)
	// GetLibraryEntry returns ErrNotFound when the id does not exist for userID.
	GetLibraryEntry(ctx context.Context, userID, id string) (*model.LibraryEntry, error)
	DeleteLibraryEntry(ctx context.Context, userID, id string) error
}

// SessionStore maps hashed bearer tokens to users.
type SessionStore interface {
	CreateSession(ctx context.Context, s model.Session) error
	// GetSession returns nil, nil for unknown hashes.
	GetSession(ctx context.Context, tokenHash string) (*model.Session, error)
	DeleteSession(ctx context.Context, tokenHash string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}

// FavoriteStore records starred workflows.
type FavoriteStore interface {
	// AddFavorite returns ErrDuplicate when the pair already exists.
	AddFavorite(ctx context.Context, f model.Favorite) error
	RemoveFavorite(ctx context.Context, userID, workflowID string) error
	ListFavorites(ctx context.Context, userID string) ([]model.Favorite, error)
}

// Store defines every database operation of the dashboard. A single
// bun-backed implementation serves sqlite, postgres and mysql.
type Store interface {
	SettingsStore
	LibraryStore
	SessionStore
	FavoriteStore

	// SetSealer enables sealing of API tokens at rest.
	SetSealer(s *security.Sealer)
	BunDB() *bun.DB
	Close() error
}
