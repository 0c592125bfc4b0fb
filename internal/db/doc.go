// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db contains the data-access layer of the dashboard.
//
// A single Bun-backed Store serves SQLite, PostgreSQL and MySQL. Schema
// changes live in embedded per-dialect migrations and are applied by
// NewStoreFromDSN.
//
// The Store is split into small interfaces (SettingsStore, LibraryStore,
// SessionStore, FavoriteStore) so services depend only on what they use and
// tests can inject fakes.
//
// Testing notes
//   - Use `file:<name>?mode=memory&cache=shared` DSNs for tests that need
//     real SQL semantics and migrations.
//   - sqlOpenFunc can be swapped for go-sqlmock to inject driver failures.
package db
