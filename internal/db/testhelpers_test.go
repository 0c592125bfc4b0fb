// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"testing"
	"time"
)

// withTestStore initializes an in-memory sqlite store for the duration of fn
// and restores the package-level store afterwards.
func withTestStore(t *testing.T, fn func(s *BunStore)) {
	t.Helper()
	prev := store
	defer func() { store = prev }()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	if err := InitDB("sqlite", dsn); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	s, ok := store.(*BunStore)
	if !ok {
		t.Fatalf("store is not *BunStore")
	}
	defer func() { _ = s.Close() }()
	fn(s)
}

// fixedNow pins the store clock.
func fixedNow(s *BunStore, ts time.Time) {
	s.now = func() time.Time { return ts }
}
