package db

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMigration(t *testing.T, dir, name, sql string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(sql), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadMigrations_SortedByVersion(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "002_follow_up.sql", "CREATE TABLE follow_up (id BIGSERIAL);")
	writeMigration(t, dir, "001_core.sql", "CREATE TABLE shunt_record (id BIGSERIAL);")
	writeMigration(t, dir, "010_later.sql", "SELECT 1;")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[1].Version != 2 || migrations[2].Version != 10 {
		t.Errorf("unexpected order: %v %v %v", migrations[0].Version, migrations[1].Version, migrations[2].Version)
	}
	if migrations[0].Name != "001_core.sql" {
		t.Errorf("expected 001_core.sql first, got %s", migrations[0].Name)
	}
}

func TestLoadMigrations_SkipsNonNumericAndNonSQL(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "001_core.sql", "SELECT 1;")
	writeMigration(t, dir, "README.md", "not a migration")
	writeMigration(t, dir, "notes_001.sql", "SELECT 1;")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) != 1 {
		t.Fatalf("expected 1 migration, got %d", len(migrations))
	}
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	m := NewMigrator(nil, "/nonexistent/migrations")
	if _, err := m.LoadMigrations(); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
