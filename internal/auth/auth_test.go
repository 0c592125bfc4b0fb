// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package auth

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/altafpasha/n8n-dashboard/internal/core"
	"github.com/altafpasha/n8n-dashboard/internal/db"
	"github.com/gofiber/fiber/v2"
)

type mutableClock struct{ t time.Time }

func (c *mutableClock) Now() time.Time { return c.t }

func newManager(t *testing.T, clock core.Clock) (*Manager, db.Store) {
	t.Helper()
	s, err := db.NewStoreFromDSN("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("NewStoreFromDSN: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return NewManager(s, time.Hour, clock), s
}

func TestCreateResolveRevoke(t *testing.T) {
	clock := &mutableClock{t: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}
	m, store := newManager(t, clock)
	ctx := context.Background()

	tok, sess, err := m.Create(ctx, "user-1", 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(tok) < 40 || sess.TokenHash != HashToken(tok) {
		t.Fatalf("unexpected token/session: %q %+v", tok, sess)
	}
	if !sess.ExpiresAt.Equal(clock.t.Add(time.Hour)) {
		t.Fatalf("default ttl not applied: %v", sess.ExpiresAt)
	}

	// Only the hash is stored.
	if got, _ := store.GetSession(ctx, tok); got != nil {
		t.Fatalf("plaintext token must not be a key")
	}

	uid, err := m.Resolve(ctx, tok)
	if err != nil || uid != "user-1" {
		t.Fatalf("Resolve = %q, %v", uid, err)
	}
	if _, err := m.Resolve(ctx, "bogus"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for unknown token, got %v", err)
	}
	if _, err := m.Resolve(ctx, ""); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for empty token, got %v", err)
	}

	if err := m.Revoke(ctx, tok); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := m.Resolve(ctx, tok); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("revoked token still resolves: %v", err)
	}
	if err := m.Revoke(ctx, tok); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated revoking twice, got %v", err)
	}
}

func TestExpiryAndPrune(t *testing.T) {
	clock := &mutableClock{t: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}
	m, _ := newManager(t, clock)
	ctx := context.Background()

	short, _, err := m.Create(ctx, "u", time.Minute)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	long, _, err := m.Create(ctx, "u", 48*time.Hour)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	clock.t = clock.t.Add(2 * time.Hour)
	if _, err := m.Resolve(ctx, short); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expired token resolved: %v", err)
	}
	n, err := m.Prune(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Prune = %d, %v", n, err)
	}
	if _, err := m.Resolve(ctx, long); err != nil {
		t.Fatalf("long-lived token lost: %v", err)
	}
}

func TestCreateRequiresUser(t *testing.T) {
	m, _ := newManager(t, nil)
	if _, _, err := m.Create(context.Background(), " ", 0); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}

func TestCreateRejectsUnsafeUserID(t *testing.T) {
	m, _ := newManager(t, nil)
	for _, id := range []string{"../x", "a/b", "..", ".hidden", `c:\evil`, strings.Repeat("a", 129)} {
		if _, _, err := m.Create(context.Background(), id, 0); !errors.Is(err, ErrInvalidUserID) {
			t.Fatalf("Create(%q) err = %v, want ErrInvalidUserID", id, err)
		}
	}
	for _, id := range []string{"user-1", "alice@example.com", "svc.bot_2"} {
		if _, _, err := m.Create(context.Background(), id, 0); err != nil {
			t.Fatalf("Create(%q): %v", id, err)
		}
	}
}

func TestRequireMiddleware(t *testing.T) {
	m, _ := newManager(t, nil)
	tok, _, err := m.Create(context.Background(), "user-9", 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	app := fiber.New()
	app.Get("/me", Require(m, func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})

	cases := []struct {
		name   string
		header string
		cookie string
		status int
		body   string
	}{
		{"bearer", "Bearer " + tok, "", 200, "user-9"},
		{"bearer lower-case scheme", "bearer " + tok, "", 200, "user-9"},
		{"cookie", "", tok, 200, "user-9"},
		{"none", "", "", 401, `{"error":"Unauthorized"}`},
		{"bad token", "Bearer nope", "", 401, `{"error":"Unauthorized"}`},
		{"basic scheme", "Basic " + tok, "", 401, `{"error":"Unauthorized"}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if tc.cookie != "" {
			req.Header.Set("Cookie", CookieName+"="+tc.cookie)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: app.Test: %v", tc.name, err)
		}
		b, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode != tc.status || strings.TrimSpace(string(b)) != tc.body {
			t.Fatalf("%s: got %d %q, want %d %q", tc.name, resp.StatusCode, b, tc.status, tc.body)
		}
	}
}
