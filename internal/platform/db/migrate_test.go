package db

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMigrations(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, sql := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(sql), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestLoadMigrations(t *testing.T) {
	dir := t.TempDir()
	writeMigrations(t, dir, map[string]string{
		"0001_claims.sql":  "CREATE TABLE claim (id UUID PRIMARY KEY);",
		"0002_denials.sql": "CREATE TABLE denial (id UUID PRIMARY KEY);",
		"0003_tasks.sql":   "CREATE TABLE denial_task (id UUID PRIMARY KEY);",
	})

	migrations, err := NewMigrator(nil, dir).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}

	if migrations[0].Version != 1 || migrations[0].Name != "0001_claims.sql" {
		t.Errorf("unexpected first migration: %+v", migrations[0])
	}
	if migrations[0].SQL != "CREATE TABLE claim (id UUID PRIMARY KEY);" {
		t.Errorf("unexpected SQL: %s", migrations[0].SQL)
	}
	if migrations[1].Version != 2 || migrations[2].Version != 3 {
		t.Errorf("unexpected versions: %d, %d", migrations[1].Version, migrations[2].Version)
	}
}

func TestLoadMigrations_SortedByVersion(t *testing.T) {
	dir := t.TempDir()
	writeMigrations(t, dir, map[string]string{
		"0010_indexes.sql": "SELECT 10;",
		"0002_denials.sql": "SELECT 2;",
		"0001_claims.sql":  "SELECT 1;",
		"0005_audit.sql":   "SELECT 5;",
	})

	migrations, err := NewMigrator(nil, dir).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}

	want := []int{1, 2, 5, 10}
	if len(migrations) != len(want) {
		t.Fatalf("expected %d migrations, got %d", len(want), len(migrations))
	}
	for i, v := range want {
		if migrations[i].Version != v {
			t.Errorf("migrations[%d].Version = %d, want %d", i, migrations[i].Version, v)
		}
	}
}

func TestLoadMigrations_SkipsNonMigrations(t *testing.T) {
	dir := t.TempDir()
	writeMigrations(t, dir, map[string]string{
		"0001_claims.sql":  "SELECT 1;",
		"readme.sql":       "-- no version prefix",
		"notes.txt":        "not sql",
		"abc_broken.sql":   "-- non-numeric prefix",
		"0002_denials.sql": "SELECT 2;",
	})

	migrations, err := NewMigrator(nil, dir).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[1].Version != 2 {
		t.Errorf("unexpected versions: %d, %d", migrations[0].Version, migrations[1].Version)
	}
}

func TestLoadMigrations_EmptyDir(t *testing.T) {
	migrations, err := NewMigrator(nil, t.TempDir()).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(migrations) != 0 {
		t.Errorf("expected no migrations, got %d", len(migrations))
	}
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	if _, err := NewMigrator(nil, "/no/such/dir").LoadMigrations(); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestMigrationVersion(t *testing.T) {
	tests := []struct {
		filename string
		version  int
		ok       bool
	}{
		{"0001_claims.sql", 1, true},
		{"001_claims.sql", 1, true},
		{"0042_backfill.sql", 42, true},
		{"readme.sql", 0, false},
		{"abc_x.sql", 0, false},
		{"_leading.sql", 0, false},
	}

	for _, tt := range tests {
		v, ok := migrationVersion(tt.filename)
		if v != tt.version || ok != tt.ok {
			t.Errorf("migrationVersion(%q) = (%d, %v), want (%d, %v)", tt.filename, v, ok, tt.version, tt.ok)
		}
	}
}

func TestMigrationStatus_PendingHasNoTimestamp(t *testing.T) {
	dir := t.TempDir()
	writeMigrations(t, dir, map[string]string{
		"0001_claims.sql":  "CREATE TABLE claim (id UUID);",
		"0002_denials.sql": "CREATE TABLE denial (id UUID);",
	})

	migrations, err := NewMigrator(nil, dir).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}

	// Status joins the loaded files against the applied set; replicate the
	// join with only version 1 applied.
	applied := map[int]bool{1: true}
	var statuses []MigrationStatus
	for _, mig := range migrations {
		statuses = append(statuses, MigrationStatus{
			Version: mig.Version,
			Name:    mig.Name,
			Applied: applied[mig.Version],
		})
	}

	if !statuses[0].Applied {
		t.Error("expected 0001_claims.sql to be applied")
	}
	if statuses[1].Applied || statuses[1].AppliedAt != nil {
		t.Error("expected 0002_denials.sql to be pending with no timestamp")
	}
}
