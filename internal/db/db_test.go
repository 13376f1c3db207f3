package db_test

import (
	"path/filepath"
	"testing"

	"mealplan/internal/db"
)

func TestOpenConfiguresConnection(t *testing.T) {
	t.Parallel()

	sqldb, err := db.Open(filepath.Join(t.TempDir(), "mealplan.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer sqldb.Close()
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	var fk int
	if err := sqldb.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatalf("read foreign_keys pragma: %v", err)
	}
	if fk != 1 {
		t.Fatalf("expected foreign keys on, got %d", fk)
	}

	var timeout int
	if err := sqldb.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout); err != nil {
		t.Fatalf("read busy_timeout pragma: %v", err)
	}
	if timeout != 5000 {
		t.Fatalf("expected 5000 ms busy timeout, got %d", timeout)
	}

	// A dangling recipe reference must be rejected.
	if _, err := sqldb.Exec(`
INSERT INTO recipe_ingredients(recipe_id, fdc_id, name, quantity, measure_unit)
VALUES(999, 1, 'Dangling', 1, 'Gram')
`); err == nil {
		t.Fatalf("expected foreign key violation for dangling recipe reference")
	}
}
