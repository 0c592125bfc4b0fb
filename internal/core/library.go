// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/altafpasha/n8n-dashboard/internal/blob"
	"github.com/altafpasha/n8n-dashboard/internal/db"
	"github.com/altafpasha/n8n-dashboard/internal/logging"
	"github.com/altafpasha/n8n-dashboard/internal/model"
	"github.com/altafpasha/n8n-dashboard/internal/workflow"
)

// Upload is one file submitted to the user's library.
type Upload struct {
	FileName    string
	DisplayName string
	Description string
	Data        []byte
}

// LibraryService manages uploaded workflow files: metadata rows in the
// database, bodies in the blob store.
type LibraryService struct {
	store db.LibraryStore
	blobs blob.Store
	clock Clock
}

func NewLibraryService(store db.LibraryStore, blobs blob.Store, clock Clock) *LibraryService {
	return &LibraryService{store: store, blobs: blobs, clock: clockOrSystem(clock)}
}

// storagePath is "<user>/<unix millis>-<base name>".
func (l *LibraryService) storagePath(userID, fileName string) string {
	return fmt.Sprintf("%s/%d-%s", userID, l.clock.Now().UnixMilli(), path.Base(strings.ReplaceAll(fileName, `\`, "/")))
}

// Upload validates the file, writes the blob and then the row. When the row
// cannot be written the blob is removed again.
func (l *LibraryService) Upload(ctx context.Context, userID string, up Upload) (model.LibraryEntry, error) {
	up.DisplayName = strings.TrimSpace(up.DisplayName)
	if up.FileName == "" || up.DisplayName == "" {
		return model.LibraryEntry{}, missing("file", "displayName")
	}
	if !strings.HasSuffix(up.FileName, ".json") {
		return model.LibraryEntry{}, ErrNotJSONFile
	}
	if err := workflow.Validate(up.Data); err != nil {
		return model.LibraryEntry{}, err
	}

	key := l.storagePath(userID, up.FileName)
	if err := l.blobs.Put(ctx, key, up.Data); err != nil {
		return model.LibraryEntry{}, fmt.Errorf("store workflow file: %w", err)
	}
	now := l.clock.Now().UTC()
	entry, err := l.store.CreateLibraryEntry(ctx, model.LibraryEntry{
		UserID:      userID,
		FileName:    up.FileName,
		StoragePath: key,
		DisplayName: up.DisplayName,
		Description: up.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		// Detached so a canceled request still cleans up.
		if derr := l.blobs.Delete(context.WithoutCancel(ctx), key); derr != nil {
			logging.Errorf("library: remove orphaned blob %s: %v", key, derr)
		}
		return model.LibraryEntry{}, fmt.Errorf("save library entry: %w", err)
	}
	logging.Infof("library: user %s uploaded %s as %s", userID, up.FileName, entry.ID)
	return entry, nil
}

// List returns the user's entries, newest first.
func (l *LibraryService) List(ctx context.Context, userID string) ([]model.LibraryEntry, error) {
	return l.store.ListLibraryEntries(ctx, userID)
}

// Get returns the entry and its file body. A missing row yields
// db.ErrNotFound.
func (l *LibraryService) Get(ctx context.Context, userID, id string) (*model.LibraryEntry, []byte, error) {
	e, err := l.store.GetLibraryEntry(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := l.blobs.Get(ctx, e.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("read workflow file: %w", err)
	}
	return e, data, nil
}

// Delete removes the blob (best effort) and then the row. A missing row
// yields db.ErrNotFound and touches nothing.
func (l *LibraryService) Delete(ctx context.Context, userID, id string) error {
	e, err := l.store.GetLibraryEntry(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := l.blobs.Delete(ctx, e.StoragePath); err != nil {
		logging.Warnf("library: delete blob %s: %v", e.StoragePath, err)
	}
	if err := l.store.DeleteLibraryEntry(ctx, userID, id); err != nil {
		return fmt.Errorf("delete library entry: %w", err)
	}
	return nil
}
