// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"database/sql"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func withMockOpen(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	orig := sqlOpenFunc
	sqlOpenFunc = func(driverName, dsn string) (*sql.DB, error) { return dbMock, nil }
	t.Cleanup(func() {
		sqlOpenFunc = orig
		_ = dbMock.Close()
	})
	return mock
}

func TestRunDBMaintenance_Sqlite_WithMock_Success(t *testing.T) {
	mock := withMockOpen(t)

	mock.ExpectExec("PRAGMA optimize").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("VACUUM").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("PRAGMA wal_checkpoint\\(").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("PRAGMA integrity_check").WillReturnRows(sqlmock.NewRows([]string{"integrity_check"}).AddRow("ok"))
	mock.ExpectClose()

	if err := RunDBMaintenance("sqlite", "whatever"); err != nil {
		t.Fatalf("expected RunDBMaintenance success, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunDBMaintenance_Sqlite_WithMock_Failure(t *testing.T) {
	mock := withMockOpen(t)
	mock.ExpectExec("PRAGMA optimize").WillReturnError(errors.New("optimize fail"))

	if err := RunDBMaintenance("sqlite", "whatever"); err == nil {
		t.Fatalf("expected error when PRAGMA optimize fails")
	}
}

func TestRunDBMaintenance_Sqlite_IntegrityFailure(t *testing.T) {
	mock := withMockOpen(t)
	mock.ExpectExec("PRAGMA optimize").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("VACUUM").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("PRAGMA wal_checkpoint\\(").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("PRAGMA integrity_check").WillReturnRows(sqlmock.NewRows([]string{"integrity_check"}).AddRow("corrupt page 4"))

	if err := RunDBMaintenance("sqlite", "whatever"); err == nil {
		t.Fatalf("expected integrity_check failure")
	}
}

func TestRunDBMaintenance_Postgres_WithMock(t *testing.T) {
	mock := withMockOpen(t)
	mock.ExpectExec("VACUUM ANALYZE").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := RunDBMaintenance("postgres", "whatever"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunDBMaintenance_MySQL_PartialFailure(t *testing.T) {
	mock := withMockOpen(t)
	for _, table := range managedTables {
		exp := mock.ExpectExec("OPTIMIZE TABLE " + table)
		if table == "sessions" {
			exp.WillReturnError(errors.New("locked"))
			continue
		}
		exp.WillReturnResult(sqlmock.NewResult(0, 0))
	}

	err := RunDBMaintenance("mysql", "whatever")
	if err == nil || !strings.Contains(err.Error(), "OPTIMIZE TABLE sessions") {
		t.Fatalf("expected aggregated optimize error naming sessions, got %v", err)
	}
	// Tables after the failing one are still optimized.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunDBMaintenance_Sqlite_CheckpointFailureIgnored(t *testing.T) {
	mock := withMockOpen(t)
	mock.ExpectExec("PRAGMA optimize").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("VACUUM").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("PRAGMA wal_checkpoint\\(").WillReturnError(errors.New("not in WAL mode"))
	mock.ExpectQuery("PRAGMA integrity_check").WillReturnRows(sqlmock.NewRows([]string{"integrity_check"}).AddRow("ok"))

	if err := RunDBMaintenance("sqlite", "whatever"); err != nil {
		t.Fatalf("checkpoint failure must not fail maintenance: %v", err)
	}
}

func TestRunDBMaintenance_Unsupported(t *testing.T) {
	withMockOpen(t)
	if err := RunDBMaintenance("oracle", "whatever"); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}

func TestManagedTablesMatchMigrations(t *testing.T) {
	for _, dialect := range []string{"sqlite", "postgres", "mysql"} {
		data, err := embeddedMigrations.ReadFile("migrations/" + dialect + "/0001_init.up.sql")
		if err != nil {
			t.Fatalf("read %s migration: %v", dialect, err)
		}
		for _, stmt := range splitStatements(string(data)) {
			fields := strings.Fields(stmt)
			if len(fields) < 6 || !strings.EqualFold(fields[0], "CREATE") || !strings.EqualFold(fields[1], "TABLE") {
				continue
			}
			table := strings.TrimSuffix(fields[5], "(")
			if !slices.Contains(managedTables, table) {
				t.Fatalf("%s migration creates %q which maintenance does not know", dialect, table)
			}
		}
	}
}
