// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/altafpasha/n8n-dashboard/internal/config"
	"github.com/altafpasha/n8n-dashboard/internal/db"
	"github.com/altafpasha/n8n-dashboard/internal/model"
	"github.com/altafpasha/n8n-dashboard/internal/security"
)

// SettingsService reads and writes per-user n8n credentials and resolves the
// client used for every remote call.
type SettingsService struct {
	store     db.SettingsStore
	fallback  config.EngineConfig
	newEngine EngineFactory
}

// NewSettingsService wires the store with the configured fallback instance.
func NewSettingsService(store db.SettingsStore, fallback config.EngineConfig, f EngineFactory) *SettingsService {
	if f == nil {
		f = DefaultEngineFactory()
	}
	return &SettingsService{store: store, fallback: fallback, newEngine: f}
}

// Get returns the user's settings, or empty settings when none were saved.
func (s *SettingsService) Get(ctx context.Context, userID string) (model.Settings, error) {
	got, err := s.store.GetSettings(ctx, userID)
	if err != nil {
		return model.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	if got == nil {
		return model.Settings{UserID: userID}, nil
	}
	return *got, nil
}

// Save trims and stores host and token. Both are required. The host is kept
// as entered; trailing slashes are stripped only when calling n8n.
func (s *SettingsService) Save(ctx context.Context, userID, host, token string) (model.Settings, error) {
	host = strings.TrimSpace(host)
	token = strings.TrimSpace(token)
	if host == "" || token == "" {
		return model.Settings{}, missing("n8n_host", "n8n_api_token")
	}
	saved, err := s.store.SaveSettings(ctx, model.Settings{
		UserID:   userID,
		HostURL:  host,
		APIToken: security.FromString(token),
	})
	if err != nil {
		return model.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return saved, nil
}

// Credentials returns the user's host and token, each falling back to the
// configured instance when the user has not set it.
func (s *SettingsService) Credentials(ctx context.Context, userID string) (string, security.Secret, error) {
	st, err := s.Get(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	host, key := st.HostURL, st.APIToken
	if host == "" {
		host = s.fallback.Host
	}
	if len(key) == 0 && s.fallback.APIKey != "" {
		key = security.FromString(s.fallback.APIKey)
	}
	return host, key, nil
}

// Engine returns a client for the user's instance or engine.ErrNotConfigured.
func (s *SettingsService) Engine(ctx context.Context, userID string) (EngineClient, error) {
	host, key, err := s.Credentials(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.newEngine(host, key)
}

// Test probes an instance with unsaved credentials and returns its workflow
// count.
func (s *SettingsService) Test(ctx context.Context, host, token string) (int, error) {
	host = strings.TrimSpace(host)
	token = strings.TrimSpace(token)
	if host == "" || token == "" {
		return 0, missing("n8n_host", "n8n_api_token")
	}
	c, err := s.newEngine(host, security.FromString(token))
	if err != nil {
		return 0, err
	}
	wfs, err := c.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(wfs), nil
}
