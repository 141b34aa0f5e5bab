package db_test

import (
	"path/filepath"
	"testing"

	"github.com/saadjs/nutri/internal/db"
)

func TestApplyMigrationsIdempotentAndSeedsCatalog(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "nutri.db")
	sqldb, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("first apply migrations: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("second apply migrations: %v", err)
	}

	var migrationCount int
	if err := sqldb.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&migrationCount); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if migrationCount != 3 {
		t.Fatalf("expected 3 migration versions, got %d", migrationCount)
	}

	for _, table := range []string{"profiles", "app_config", "meals", "food_entries", "common_foods"} {
		var count int
		if err := sqldb.QueryRow(`SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&count); err != nil {
			t.Fatalf("check %s table: %v", table, err)
		}
		if count != 1 {
			t.Fatalf("expected %s table to exist", table)
		}
	}

	var foods int
	if err := sqldb.QueryRow(`SELECT COUNT(1) FROM common_foods`).Scan(&foods); err != nil {
		t.Fatalf("count common foods: %v", err)
	}
	if foods != 10 {
		t.Fatalf("expected 10 seeded common foods after two runs, got %d", foods)
	}
}

func TestForeignKeysCascadeMealDeletes(t *testing.T) {
	t.Parallel()

	sqldb, err := db.Open(filepath.Join(t.TempDir(), "nutri.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer sqldb.Close()
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	res, err := sqldb.Exec(`INSERT INTO meals(name, meal_type, consumed_at) VALUES('lunch', 'lunch', '2026-02-10T12:00:00Z')`)
	if err != nil {
		t.Fatalf("insert meal: %v", err)
	}
	mealID, _ := res.LastInsertId()
	if _, err := sqldb.Exec(`INSERT INTO food_entries(meal_id, name, calories, carbs_g, protein_g, fat_g, servings) VALUES(?, 'rice', 200, 45, 4, 0.4, 1)`, mealID); err != nil {
		t.Fatalf("insert entry: %v", err)
	}
	if _, err := sqldb.Exec(`DELETE FROM meals WHERE id = ?`, mealID); err != nil {
		t.Fatalf("delete meal: %v", err)
	}
	var entries int
	if err := sqldb.QueryRow(`SELECT COUNT(1) FROM food_entries`).Scan(&entries); err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if entries != 0 {
		t.Fatalf("expected entries to cascade, got %d", entries)
	}
}
