// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"errors"
	"strings"

	"github.com/altafpasha/n8n-dashboard/internal/db"
	"github.com/altafpasha/n8n-dashboard/internal/model"
)

// FavoriteService stars and unstars workflows.
type FavoriteService struct {
	store db.FavoriteStore
}

func NewFavoriteService(store db.FavoriteStore) *FavoriteService {
	return &FavoriteService{store: store}
}

// Set adds or removes the favorite. Both directions are idempotent.
func (f *FavoriteService) Set(ctx context.Context, userID, workflowID string, favorite bool) error {
	workflowID = strings.TrimSpace(workflowID)
	if workflowID == "" {
		return missing("workflowId")
	}
	if !favorite {
		return f.store.RemoveFavorite(ctx, userID, workflowID)
	}
	err := f.store.AddFavorite(ctx, model.Favorite{UserID: userID, WorkflowID: workflowID})
	if errors.Is(err, db.ErrDuplicate) {
		return nil
	}
	return err
}

// List returns the starred workflow ids, newest first.
func (f *FavoriteService) List(ctx context.Context, userID string) ([]string, error) {
	favs, err := f.store.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(favs))
	for _, fv := range favs {
		ids = append(ids, fv.WorkflowID)
	}
	return ids, nil
}
