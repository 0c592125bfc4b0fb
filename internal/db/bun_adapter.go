// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/altafpasha/n8n-dashboard/internal/model"
	"github.com/uptrace/bun"
)

// SettingsModel maps the user_settings table.
type SettingsModel struct {
	bun.BaseModel `bun:"table:user_settings"`
	UserID        string    `bun:"user_id,pk"`
	Host          string    `bun:"n8n_host"`
	APIToken      string    `bun:"n8n_api_token"`
	CreatedAt     time.Time `bun:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at"`
}

// LibraryEntryModel maps the workflows table.
type LibraryEntryModel struct {
	bun.BaseModel `bun:"table:workflows"`
	ID            string    `bun:"id,pk"`
	UserID        string    `bun:"user_id"`
	FileName      string    `bun:"file_name"`
	StoragePath   string    `bun:"storage_path"`
	DisplayName   string    `bun:"display_name"`
	Description   string    `bun:"description"`
	CreatedAt     time.Time `bun:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at"`
}

// SessionModel maps the sessions table.
type SessionModel struct {
	bun.BaseModel `bun:"table:sessions"`
	TokenHash     string    `bun:"token_hash,pk"`
	UserID        string    `bun:"user_id"`
	CreatedAt     time.Time `bun:"created_at"`
	ExpiresAt     time.Time `bun:"expires_at"`
}

// FavoriteModel maps the favorites table.
type FavoriteModel struct {
	bun.BaseModel `bun:"table:favorites"`
	UserID        string    `bun:"user_id,pk"`
	WorkflowID    string    `bun:"workflow_id,pk"`
	CreatedAt     time.Time `bun:"created_at"`
}

func libraryEntryModelToModel(m LibraryEntryModel) model.LibraryEntry {
	return model.LibraryEntry{
		ID:          m.ID,
		UserID:      m.UserID,
		FileName:    m.FileName,
		StoragePath: m.StoragePath,
		DisplayName: m.DisplayName,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func sessionModelToModel(m SessionModel) model.Session {
	return model.Session{TokenHash: m.TokenHash, UserID: m.UserID, CreatedAt: m.CreatedAt, ExpiresAt: m.ExpiresAt}
}

func favoriteModelToModel(m FavoriteModel) model.Favorite {
	return model.Favorite{UserID: m.UserID, WorkflowID: m.WorkflowID, CreatedAt: m.CreatedAt}
}

// GetSettingsBun returns the raw settings row for userID, or nil when absent.
func GetSettingsBun(ctx context.Context, bdb bun.IDB, userID string) (*SettingsModel, error) {
	var m SettingsModel
	err := bdb.NewSelect().Model(&m).Where("user_id = ?", userID).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// UpsertSettingsBun inserts or updates the row for m.UserID inside one
// transaction. A select-then-write keeps it dialect neutral.
func UpsertSettingsBun(ctx context.Context, bdb *bun.DB, m SettingsModel) (SettingsModel, error) {
	err := bdb.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := GetSettingsBun(ctx, tx, m.UserID)
		if err != nil {
			return err
		}
		if existing == nil {
			m.CreatedAt = m.UpdatedAt
			_, err = tx.NewInsert().Model(&m).Exec(ctx)
			return MapDBError(err)
		}
		m.CreatedAt = existing.CreatedAt
		_, err = tx.NewUpdate().Model(&m).Column("n8n_host", "n8n_api_token", "updated_at").WherePK().Exec(ctx)
		return err
	})
	return m, err
}

// InsertLibraryEntryBun inserts a library row.
func InsertLibraryEntryBun(ctx context.Context, bdb bun.IDB, e model.LibraryEntry) error {
	m := LibraryEntryModel{
		ID:          e.ID,
		UserID:      e.UserID,
		FileName:    e.FileName,
		StoragePath: e.StoragePath,
		DisplayName: e.DisplayName,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	_, err := bdb.NewInsert().Model(&m).Exec(ctx)
	return MapDBError(err)
}

// ListLibraryEntriesBun returns a user's entries ordered newest first.
func ListLibraryEntriesBun(ctx context.Context, bdb bun.IDB, userID string) ([]model.LibraryEntry, error) {
	var ms []LibraryEntryModel
	if err := bdb.NewSelect().Model(&ms).Where("user_id = ?", userID).Order("created_at DESC", "id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.LibraryEntry, 0, len(ms))
	for _, m := range ms {
		out = append(out, libraryEntryModelToModel(m))
	}
	return out, nil
}

// GetLibraryEntryBun returns the entry or ErrNotFound when it does not exist
// for userID.
func GetLibraryEntryBun(ctx context.Context, bdb bun.IDB, userID, id string) (*model.LibraryEntry, error) {
	var m LibraryEntryModel
	err := bdb.NewSelect().Model(&m).Where("id = ?", id).Where("user_id = ?", userID).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	e := libraryEntryModelToModel(m)
	return &e, nil
}

// DeleteLibraryEntryBun deletes the entry owned by userID.
func DeleteLibraryEntryBun(ctx context.Context, bdb bun.IDB, userID, id string) error {
	res, err := bdb.NewDelete().Model((*LibraryEntryModel)(nil)).Where("id = ?", id).Where("user_id = ?", userID).Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// InsertSessionBun stores a session row.
func InsertSessionBun(ctx context.Context, bdb bun.IDB, s model.Session) error {
	m := SessionModel{TokenHash: s.TokenHash, UserID: s.UserID, CreatedAt: s.CreatedAt, ExpiresAt: s.ExpiresAt}
	_, err := bdb.NewInsert().Model(&m).Exec(ctx)
	return MapDBError(err)
}

// GetSessionBun returns the session for tokenHash, or nil when absent.
func GetSessionBun(ctx context.Context, bdb bun.IDB, tokenHash string) (*model.Session, error) {
	var m SessionModel
	err := bdb.NewSelect().Model(&m).Where("token_hash = ?", tokenHash).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s := sessionModelToModel(m)
	return &s, nil
}

// DeleteSessionBun removes a session. Unknown hashes yield ErrNotFound.
func DeleteSessionBun(ctx context.Context, bdb bun.IDB, tokenHash string) error {
	res, err := bdb.NewDelete().Model((*SessionModel)(nil)).Where("token_hash = ?", tokenHash).Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteExpiredSessionsBun removes sessions whose expiry is at or before now.
func DeleteExpiredSessionsBun(ctx context.Context, bdb bun.IDB, now time.Time) (int, error) {
	res, err := bdb.NewDelete().Model((*SessionModel)(nil)).Where("expires_at <= ?", now.UTC()).Exec(ctx)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// InsertFavoriteBun stores a favorite; duplicates map to ErrDuplicate.
func InsertFavoriteBun(ctx context.Context, bdb bun.IDB, f model.Favorite) error {
	m := FavoriteModel{UserID: f.UserID, WorkflowID: f.WorkflowID, CreatedAt: f.CreatedAt}
	_, err := bdb.NewInsert().Model(&m).Exec(ctx)
	return MapDBError(err)
}

// DeleteFavoriteBun removes a favorite. Missing rows are not an error.
func DeleteFavoriteBun(ctx context.Context, bdb bun.IDB, userID, workflowID string) error {
	_, err := bdb.NewDelete().Model((*FavoriteModel)(nil)).Where("user_id = ?", userID).Where("workflow_id = ?", workflowID).Exec(ctx)
	return err
}

// ListFavoritesBun returns a user's favorites, newest first.
func ListFavoritesBun(ctx context.Context, bdb bun.IDB, userID string) ([]model.Favorite, error) {
	var ms []FavoriteModel
	if err := bdb.NewSelect().Model(&ms).Where("user_id = ?", userID).Order("created_at DESC", "workflow_id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Favorite, 0, len(ms))
	for _, m := range ms {
		out = append(out, favoriteModelToModel(m))
	}
	return out, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
