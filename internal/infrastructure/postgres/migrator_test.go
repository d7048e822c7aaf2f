package postgres

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestRunMigrationsMissingSource(t *testing.T) {
	err := RunMigrations("postgres://invalid:5432/db?connect_timeout=1", t.TempDir()+"/missing", zerolog.Nop())
	if err == nil {
		t.Fatal("expected error for missing migrations directory")
	}
}

func TestRunMigrationsDownMissingSource(t *testing.T) {
	err := RunMigrationsDown("postgres://invalid:5432/db?connect_timeout=1", t.TempDir()+"/missing", zerolog.Nop())
	if err == nil {
		t.Fatal("expected error for missing migrations directory")
	}
}
