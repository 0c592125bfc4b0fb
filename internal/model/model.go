// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model defines the core data structures shared by the stores, the
// remote engine client and the HTTP layer.
package model

import (
	"time"

	"github.com/altafpasha/n8n-dashboard/internal/security"
)

// Settings holds one user's n8n connection credentials.
type Settings struct {
	UserID    string
	HostURL   string
	APIToken  security.Secret
	UpdatedAt time.Time
}

// Configured reports whether both host and token are present.
func (s Settings) Configured() bool {
	return s.HostURL != "" && len(s.APIToken) > 0
}

// LibraryEntry is the metadata row of a workflow file uploaded by a user.
// The file body lives in the blob store at StoragePath.
type LibraryEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	FileName    string    `json:"file_name"`
	StoragePath string    `json:"storage_path"`
	DisplayName string    `json:"display_name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Session maps a hashed bearer token to a user.
type Session struct {
	TokenHash string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Favorite marks a template or workflow as starred by a user.
type Favorite struct {
	UserID     string    `json:"user_id"`
	WorkflowID string    `json:"workflow_id"`
	CreatedAt  time.Time `json:"created_at"`
}
