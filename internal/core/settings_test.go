// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"errors"
	"testing"

	"github.com/altafpasha/n8n-dashboard/internal/config"
	"github.com/altafpasha/n8n-dashboard/internal/engine"
	"github.com/altafpasha/n8n-dashboard/internal/model"
)

func TestSettings_GetEmptyWhenAbsent(t *testing.T) {
	env := newTestEnv(t, config.EngineConfig{})
	got, err := env.svc.Settings.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.HostURL != "" || len(got.APIToken) != 0 || got.Configured() {
		t.Fatalf("expected empty settings, got %+v", got)
	}
}

func TestSettings_SaveTrimsAndRequires(t *testing.T) {
	env := newTestEnv(t, config.EngineConfig{})
	ctx := context.Background()

	if _, err := env.svc.Settings.Save(ctx, "u1", "  ", "tok"); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField for blank host, got %v", err)
	}
	if _, err := env.svc.Settings.Save(ctx, "u1", "http://h", ""); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField for blank token, got %v", err)
	}

	if _, err := env.svc.Settings.Save(ctx, "u1", "  http://n8n.local/  ", " tok \n"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := env.svc.Settings.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	// Trailing slash is kept at storage time.
	if got.HostURL != "http://n8n.local/" || got.APIToken.Reveal() != "tok" {
		t.Fatalf("unexpected stored settings: host=%q token=%q", got.HostURL, got.APIToken.Reveal())
	}
}

func TestSettings_EngineFallsBackPerField(t *testing.T) {
	env := newTestEnv(t, config.EngineConfig{Host: "http://fallback", APIKey: "fallback-key"})
	ctx := context.Background()

	if _, err := env.svc.Settings.Engine(ctx, "u1"); err != nil {
		t.Fatalf("Engine with fallback: %v", err)
	}
	if env.engine.host != "http://fallback" || env.engine.key != "fallback-key" {
		t.Fatalf("fallback not used: %q %q", env.engine.host, env.engine.key)
	}

	if _, err := env.svc.Settings.Save(ctx, "u1", "http://mine", "my-key"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := env.svc.Settings.Engine(ctx, "u1"); err != nil {
		t.Fatalf("Engine: %v", err)
	}
	if env.engine.host != "http://mine" || env.engine.key != "my-key" {
		t.Fatalf("user settings not preferred: %q %q", env.engine.host, env.engine.key)
	}
}

func TestSettings_EngineNotConfigured(t *testing.T) {
	env := newTestEnv(t, config.EngineConfig{})
	if _, err := env.svc.Settings.Engine(context.Background(), "u1"); !errors.Is(err, engine.ErrNotConfigured) {
		t.Fatalf("expected engine.ErrNotConfigured, got %v", err)
	}
}

func TestSettings_Test(t *testing.T) {
	env := newTestEnv(t, config.EngineConfig{})
	env.engine.workflows = []model.Workflow{{Name: "a"}, {Name: "b"}}
	n, err := env.svc.Settings.Test(context.Background(), "http://h", "k")
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if n != 2 {
		t.Fatalf("workflow count = %d, want 2", n)
	}

	env.engine.listErr = engine.ErrInvalidToken
	if _, err := env.svc.Settings.Test(context.Background(), "http://h", "k"); !errors.Is(err, engine.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := env.svc.Settings.Test(context.Background(), "", "k"); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}
