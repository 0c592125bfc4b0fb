// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/altafpasha/n8n-dashboard/internal/model"
	"github.com/altafpasha/n8n-dashboard/internal/security"
)

func TestSettings_GetMissingReturnsNil(t *testing.T) {
	withTestStore(t, func(s *BunStore) {
		got, err := s.GetSettings(context.Background(), "nobody")
		if err != nil {
			t.Fatalf("GetSettings: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil settings, got %+v", got)
		}
	})
}

func TestSettings_SaveThenOverwrite(t *testing.T) {
	withTestStore(t, func(s *BunStore) {
		ctx := context.Background()
		t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		fixedNow(s, t0)

		saved, err := s.SaveSettings(ctx, model.Settings{UserID: "u1", HostURL: "https://n8n.example", APIToken: security.FromString("tok1")})
		if err != nil {
			t.Fatalf("SaveSettings: %v", err)
		}
		if !saved.UpdatedAt.Equal(t0) {
			t.Fatalf("unexpected updated_at: %v", saved.UpdatedAt)
		}

		fixedNow(s, t0.Add(time.Hour))
		if _, err := s.SaveSettings(ctx, model.Settings{UserID: "u1", HostURL: "https://other.example", APIToken: security.FromString("tok2")}); err != nil {
			t.Fatalf("SaveSettings overwrite: %v", err)
		}

		got, err := s.GetSettings(ctx, "u1")
		if err != nil || got == nil {
			t.Fatalf("GetSettings: %v %v", got, err)
		}
		if got.HostURL != "https://other.example" || got.APIToken.Reveal() != "tok2" {
			t.Fatalf("overwrite not applied: host=%q token=%q", got.HostURL, got.APIToken.Reveal())
		}
		if !got.UpdatedAt.Equal(t0.Add(time.Hour)) {
			t.Fatalf("updated_at not refreshed: %v", got.UpdatedAt)
		}

		var n int
		if err := s.BunDB().NewSelect().TableExpr("user_settings").ColumnExpr("COUNT(*)").Scan(ctx, &n); err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != 1 {
			t.Fatalf("expected a single settings row, got %d", n)
		}
	})
}

func TestSettings_TokenSealedAtRest(t *testing.T) {
	withTestStore(t, func(s *BunStore) {
		ctx := context.Background()
		s.SetSealer(security.NewSealer("passphrase"))
		if _, err := s.SaveSettings(ctx, model.Settings{UserID: "u1", HostURL: "h", APIToken: security.FromString("plain-token")}); err != nil {
			t.Fatalf("SaveSettings: %v", err)
		}

		raw, err := GetSettingsBun(ctx, s.BunDB(), "u1")
		if err != nil || raw == nil {
			t.Fatalf("GetSettingsBun: %v", err)
		}
		if !strings.HasPrefix(raw.APIToken, "sb1:") || strings.Contains(raw.APIToken, "plain-token") {
			t.Fatalf("token not sealed at rest: %q", raw.APIToken)
		}

		got, err := s.GetSettings(ctx, "u1")
		if err != nil {
			t.Fatalf("GetSettings: %v", err)
		}
		if got.APIToken.Reveal() != "plain-token" {
			t.Fatalf("expected unsealed token, got %q", got.APIToken.Reveal())
		}

		// Without the key the sealed row cannot be opened.
		s.SetSealer(nil)
		if _, err := s.GetSettings(ctx, "u1"); !errors.Is(err, security.ErrUnseal) {
			t.Fatalf("expected ErrUnseal without key, got %v", err)
		}
	})
}

func TestLibrary_CreateListGetDelete(t *testing.T) {
	withTestStore(t, func(s *BunStore) {
		ctx := context.Background()
		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		fixedNow(s, base)
		first, err := s.CreateLibraryEntry(ctx, model.LibraryEntry{UserID: "u1", FileName: "a.json", StoragePath: "u1/1-a.json", DisplayName: "A"})
		if err != nil {
			t.Fatalf("create first: %v", err)
		}
		if first.ID == "" {
			t.Fatalf("expected generated id")
		}
		fixedNow(s, base.Add(time.Minute))
		second, err := s.CreateLibraryEntry(ctx, model.LibraryEntry{UserID: "u1", FileName: "b.json", StoragePath: "u1/2-b.json", DisplayName: "B", Description: "second"})
		if err != nil {
			t.Fatalf("create second: %v", err)
		}
		if _, err := s.CreateLibraryEntry(ctx, model.LibraryEntry{UserID: "u2", FileName: "c.json", StoragePath: "u2/3-c.json", DisplayName: "C"}); err != nil {
			t.Fatalf("create other user: %v", err)
		}

		list, err := s.ListLibraryEntries(ctx, "u1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
			t.Fatalf("expected newest first, got %+v", list)
		}

		got, err := s.GetLibraryEntry(ctx, "u1", second.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Description != "second" || got.StoragePath != "u1/2-b.json" {
			t.Fatalf("unexpected entry: %+v", got)
		}

		// Another user's id is invisible.
		if _, err := s.GetLibraryEntry(ctx, "u2", second.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound for foreign entry, got %v", err)
		}
		if err := s.DeleteLibraryEntry(ctx, "u2", second.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound deleting foreign entry, got %v", err)
		}

		if err := s.DeleteLibraryEntry(ctx, "u1", second.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := s.GetLibraryEntry(ctx, "u1", second.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestLibrary_DuplicateStoragePath(t *testing.T) {
	withTestStore(t, func(s *BunStore) {
		ctx := context.Background()
		e := model.LibraryEntry{UserID: "u1", FileName: "a.json", StoragePath: "u1/1-a.json", DisplayName: "A"}
		if _, err := s.CreateLibraryEntry(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := s.CreateLibraryEntry(ctx, e); !errors.Is(err, ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})
}

func TestSessions_Lifecycle(t *testing.T) {
	withTestStore(t, func(s *BunStore) {
		ctx := context.Background()
		now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

		if err := s.CreateSession(ctx, model.Session{TokenHash: "live", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(24 * time.Hour)}); err != nil {
			t.Fatalf("create live: %v", err)
		}
		if err := s.CreateSession(ctx, model.Session{TokenHash: "old", UserID: "u1", CreatedAt: now.Add(-48 * time.Hour), ExpiresAt: now.Add(-24 * time.Hour)}); err != nil {
			t.Fatalf("create old: %v", err)
		}

		got, err := s.GetSession(ctx, "live")
		if err != nil || got == nil {
			t.Fatalf("GetSession: %v %v", got, err)
		}
		if got.UserID != "u1" || got.Expired(now) {
			t.Fatalf("unexpected session: %+v", got)
		}
		if missing, err := s.GetSession(ctx, "nope"); err != nil || missing != nil {
			t.Fatalf("expected nil,nil for unknown session, got %v %v", missing, err)
		}

		n, err := s.DeleteExpiredSessions(ctx, now)
		if err != nil {
			t.Fatalf("prune: %v", err)
		}
		if n != 1 {
			t.Fatalf("expected 1 pruned session, got %d", n)
		}
		if old, _ := s.GetSession(ctx, "old"); old != nil {
			t.Fatalf("expired session survived prune")
		}

		if err := s.DeleteSession(ctx, "live"); err != nil {
			t.Fatalf("revoke: %v", err)
		}
		if err := s.DeleteSession(ctx, "live"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second revoke, got %v", err)
		}
	})
}

func TestFavorites_AddRemoveList(t *testing.T) {
	withTestStore(t, func(s *BunStore) {
		ctx := context.Background()
		if err := s.AddFavorite(ctx, model.Favorite{UserID: "u1", WorkflowID: "wf-a.json"}); err != nil {
			t.Fatalf("add: %v", err)
		}
		if err := s.AddFavorite(ctx, model.Favorite{UserID: "u1", WorkflowID: "wf-a.json"}); !errors.Is(err, ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
		if err := s.AddFavorite(ctx, model.Favorite{UserID: "u2", WorkflowID: "wf-a.json"}); err != nil {
			t.Fatalf("add other user: %v", err)
		}

		favs, err := s.ListFavorites(ctx, "u1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(favs) != 1 || favs[0].WorkflowID != "wf-a.json" {
			t.Fatalf("unexpected favorites: %+v", favs)
		}

		if err := s.RemoveFavorite(ctx, "u1", "wf-a.json"); err != nil {
			t.Fatalf("remove: %v", err)
		}
		if err := s.RemoveFavorite(ctx, "u1", "wf-a.json"); err != nil {
			t.Fatalf("remove missing should be a no-op: %v", err)
		}
		favs, _ = s.ListFavorites(ctx, "u1")
		if len(favs) != 0 {
			t.Fatalf("expected no favorites, got %+v", favs)
		}
	})
}
