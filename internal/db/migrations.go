package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "profiles_and_config",
		sql: `
CREATE TABLE IF NOT EXISTS profiles (
  id TEXT PRIMARY KEY,
  age INTEGER NOT NULL CHECK(age >= 0),
  sex TEXT NOT NULL CHECK(sex IN ('male', 'female', 'unspecified')),
  height_cm REAL NOT NULL CHECK(height_cm > 0),
  weight_kg REAL NOT NULL CHECK(weight_kg > 0),
  activity_level TEXT NOT NULL,
  weight_goal TEXT NOT NULL CHECK(weight_goal IN ('lose', 'maintain', 'gain')),
  carb_pct REAL NOT NULL,
  protein_pct REAL NOT NULL,
  fat_pct REAL NOT NULL,
  bmr REAL NOT NULL DEFAULT 0,
  tdee REAL NOT NULL DEFAULT 0,
  daily_calorie_goal REAL NOT NULL DEFAULT 0,
  carb_goal_g REAL NOT NULL DEFAULT 0,
  protein_goal_g REAL NOT NULL DEFAULT 0,
  fat_goal_g REAL NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 2,
		name:    "meals_and_food_entries",
		sql: `
CREATE TABLE IF NOT EXISTS meals (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  meal_type TEXT NOT NULL CHECK(meal_type IN ('breakfast', 'lunch', 'dinner', 'snack', 'other')),
  consumed_at TEXT NOT NULL,
  calories REAL NOT NULL DEFAULT 0 CHECK(calories >= 0),
  carbs_g REAL NOT NULL DEFAULT 0 CHECK(carbs_g >= 0),
  protein_g REAL NOT NULL DEFAULT 0 CHECK(protein_g >= 0),
  fat_g REAL NOT NULL DEFAULT 0 CHECK(fat_g >= 0),
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_meals_consumed_at ON meals(consumed_at);

CREATE TABLE IF NOT EXISTS food_entries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  meal_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  calories REAL NOT NULL CHECK(calories >= 0),
  carbs_g REAL NOT NULL CHECK(carbs_g >= 0),
  protein_g REAL NOT NULL CHECK(protein_g >= 0),
  fat_g REAL NOT NULL CHECK(fat_g >= 0),
  sugar_g REAL CHECK(sugar_g >= 0),
  fiber_g REAL CHECK(fiber_g >= 0),
  sodium_mg REAL CHECK(sodium_mg >= 0),
  cholesterol_mg REAL CHECK(cholesterol_mg >= 0),
  saturated_fat_g REAL CHECK(saturated_fat_g >= 0),
  trans_fat_g REAL CHECK(trans_fat_g >= 0),
  servings REAL NOT NULL CHECK(servings > 0),
  source TEXT NOT NULL DEFAULT 'custom' CHECK(source IN ('custom', 'catalog', 'scanned')),
  catalog_id TEXT NOT NULL DEFAULT '',
  is_favorite INTEGER NOT NULL DEFAULT 0,
  last_used_at TEXT,
  use_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(meal_id) REFERENCES meals(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_food_entries_meal_id ON food_entries(meal_id);
CREATE INDEX IF NOT EXISTS idx_food_entries_last_used_at ON food_entries(last_used_at);
`,
	},
	{
		version: 3,
		name:    "common_foods",
		sql: `
CREATE TABLE IF NOT EXISTS common_foods (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  calories REAL NOT NULL CHECK(calories >= 0),
  carbs_g REAL NOT NULL CHECK(carbs_g >= 0),
  protein_g REAL NOT NULL CHECK(protein_g >= 0),
  fat_g REAL NOT NULL CHECK(fat_g >= 0),
  sugar_g REAL,
  fiber_g REAL,
  sodium_mg REAL,
  serving_desc TEXT NOT NULL DEFAULT ''
);
`,
	},
}

type commonFoodSeed struct {
	name     string
	calories float64
	carbs    float64
	protein  float64
	fat      float64
	fiber    float64
	serving  string
}

var defaultCommonFoods = []commonFoodSeed{
	{"apple", 95, 25, 0.5, 0.3, 4.4, "1 medium"},
	{"banana", 105, 27, 1.3, 0.4, 3.1, "1 medium"},
	{"egg", 72, 0.4, 6.3, 4.8, 0, "1 large"},
	{"chicken breast", 165, 0, 31, 3.6, 0, "100 g cooked"},
	{"white rice", 205, 45, 4.3, 0.4, 0.6, "1 cup cooked"},
	{"oats", 150, 27, 5, 3, 4, "40 g dry"},
	{"greek yogurt", 100, 6, 17, 0.7, 0, "170 g nonfat"},
	{"almonds", 164, 6, 6, 14, 3.5, "28 g"},
	{"broccoli", 55, 11, 3.7, 0.6, 5.1, "1 cup cooked"},
	{"salmon", 208, 0, 20, 13, 0, "100 g cooked"},
}

// ApplyMigrations brings the schema up to date and seeds the common food
// catalog. Safe to run on every start.
func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}

	for _, f := range defaultCommonFoods {
		if _, err := db.Exec(`
INSERT OR IGNORE INTO common_foods(name, calories, carbs_g, protein_g, fat_g, fiber_g, serving_desc)
VALUES(?, ?, ?, ?, ?, ?, ?)
`, f.name, f.calories, f.carbs, f.protein, f.fat, f.fiber, f.serving); err != nil {
			return fmt.Errorf("seed common food %s: %w", f.name, err)
		}
	}
	return nil
}
