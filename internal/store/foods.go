package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/saadjs/nutri/internal/model"
)

type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Foods manages the food entries owned by meals and the shared common food
// catalog. Every entry change rewrites the owning meal's totals in the same
// transaction.
type Foods struct {
	db  *sql.DB
	now func() time.Time
}

func NewFoods(db *sql.DB) *Foods {
	return &Foods{db: db, now: time.Now}
}

func (s *Foods) AddEntry(mealID int64, e model.FoodEntry) (int64, error) {
	if mealID <= 0 {
		return 0, fmt.Errorf("meal id must be > 0")
	}
	if err := validateEntry(&e); err != nil {
		return 0, err
	}
	var id int64
	err := s.withTx(func(tx *sql.Tx) error {
		if err := mealExists(tx, mealID); err != nil {
			return err
		}
		var err error
		if id, err = insertEntry(tx, mealID, e, s.now()); err != nil {
			return err
		}
		return recomputeMealTotals(tx, mealID)
	})
	return id, err
}

// RemoveEntry deletes an entry and returns the meal that owned it.
func (s *Foods) RemoveEntry(entryID int64) (int64, error) {
	if entryID <= 0 {
		return 0, fmt.Errorf("food entry id must be > 0")
	}
	var mealID int64
	err := s.withTx(func(tx *sql.Tx) error {
		err := tx.QueryRow(`SELECT meal_id FROM food_entries WHERE id = ?`, entryID).Scan(&mealID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrFoodNotFound
		}
		if err != nil {
			return fmt.Errorf("lookup food entry %d: %w", entryID, err)
		}
		if _, err := tx.Exec(`DELETE FROM food_entries WHERE id = ?`, entryID); err != nil {
			return fmt.Errorf("delete food entry %d: %w", entryID, err)
		}
		return recomputeMealTotals(tx, mealID)
	})
	return mealID, err
}

// AddFromCatalog copies a common food into the meal as a catalog entry.
func (s *Foods) AddFromCatalog(mealID, commonFoodID int64, servings float64) (int64, error) {
	f, err := s.CommonFood(commonFoodID)
	if err != nil {
		return 0, err
	}
	return s.AddEntry(mealID, model.FoodEntry{
		Name:       f.Name,
		PerServing: f.PerServing,
		Extras:     f.Extras,
		Servings:   servings,
		Source:     model.SourceCatalog,
		CatalogID:  fmt.Sprintf("%d", f.ID),
	})
}

// Relog logs a past entry again into mealID and bumps the original's usage stats.
// servings <= 0 keeps the original quantity.
func (s *Foods) Relog(entryID, mealID int64, servings float64) (int64, error) {
	entries, err := loadEntries(s.db, `WHERE fe.id = ?`, entryID)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, ErrFoodNotFound
	}
	src := entries[0]
	src.UseCount, src.LastUsedAt, src.IsFavorite = 0, nil, false
	if servings > 0 {
		src.Servings = servings
	}
	var id int64
	err = s.withTx(func(tx *sql.Tx) error {
		if err := mealExists(tx, mealID); err != nil {
			return err
		}
		now := s.now()
		var err error
		if id, err = insertEntry(tx, mealID, src, now); err != nil {
			return err
		}
		if _, err := tx.Exec(`UPDATE food_entries SET use_count = use_count + 1, last_used_at = ? WHERE id = ?`, formatTimestamp(now), entryID); err != nil {
			return fmt.Errorf("bump usage for food entry %d: %w", entryID, err)
		}
		return recomputeMealTotals(tx, mealID)
	})
	return id, err
}

func (s *Foods) SetFavorite(entryID int64, favorite bool) error {
	res, err := s.db.Exec(`UPDATE food_entries SET is_favorite = ? WHERE id = ?`, boolToInt(favorite), entryID)
	if err != nil {
		return fmt.Errorf("set favorite on food entry %d: %w", entryID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for food entry %d: %w", entryID, err)
	}
	if affected == 0 {
		return ErrFoodNotFound
	}
	return nil
}

func (s *Foods) Favorites() ([]model.FoodEntry, error) {
	return loadEntries(s.db, `WHERE fe.is_favorite = 1 ORDER BY fe.use_count DESC, fe.name ASC`)
}

func (s *Foods) Recent(limit int) ([]model.FoodEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return loadEntries(s.db, `WHERE fe.last_used_at IS NOT NULL ORDER BY fe.last_used_at DESC, fe.id DESC LIMIT ?`, limit)
}

func (s *Foods) Catalog() ([]model.CommonFood, error) {
	rows, err := s.db.Query(`
SELECT id, name, calories, carbs_g, protein_g, fat_g, sugar_g, fiber_g, sodium_mg, serving_desc
FROM common_foods
ORDER BY name ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list common foods: %w", err)
	}
	defer rows.Close()

	items := make([]model.CommonFood, 0)
	for rows.Next() {
		f, err := scanCommonFood(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate common foods: %w", err)
	}
	return items, nil
}

func (s *Foods) CommonFood(id int64) (*model.CommonFood, error) {
	rows, err := s.db.Query(`
SELECT id, name, calories, carbs_g, protein_g, fat_g, sugar_g, fiber_g, sodium_mg, serving_desc
FROM common_foods
WHERE id = ?
`, id)
	if err != nil {
		return nil, fmt.Errorf("get common food %d: %w", id, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get common food %d: %w", id, err)
		}
		return nil, ErrFoodNotFound
	}
	f, err := scanCommonFood(rows)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *Foods) CommonFoodByName(name string) (*model.CommonFood, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM common_foods WHERE name = ?`, normalizeName(name)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFoodNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup common food %q: %w", name, err)
	}
	return s.CommonFood(id)
}

func (s *Foods) withTx(run func(*sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin food tx: %w", err)
	}
	if err := run(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit food tx: %w", err)
	}
	return nil
}

func scanCommonFood(rows *sql.Rows) (model.CommonFood, error) {
	var f model.CommonFood
	var sugar, fiber, sodium sql.NullFloat64
	if err := rows.Scan(&f.ID, &f.Name, &f.PerServing.Calories, &f.PerServing.CarbsG, &f.PerServing.ProteinG, &f.PerServing.FatG, &sugar, &fiber, &sodium, &f.ServingDesc); err != nil {
		return f, fmt.Errorf("scan common food: %w", err)
	}
	f.Extras.SugarG = nullFloat(sugar)
	f.Extras.FiberG = nullFloat(fiber)
	f.Extras.SodiumMg = nullFloat(sodium)
	return f, nil
}

func validateEntry(e *model.FoodEntry) error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return fmt.Errorf("food name is required")
	}
	if e.Servings == 0 {
		e.Servings = 1
	}
	if e.Servings < 0 {
		return fmt.Errorf("servings must be > 0")
	}
	if e.Source == "" {
		e.Source = model.SourceCustom
	}
	if _, err := model.ParseFoodSource(string(e.Source)); err != nil {
		return err
	}
	checks := []struct {
		name  string
		value float64
	}{
		{"calories", e.PerServing.Calories},
		{"carbs", e.PerServing.CarbsG},
		{"protein", e.PerServing.ProteinG},
		{"fat", e.PerServing.FatG},
	}
	for _, c := range checks {
		if err := validateNonNegative(c.name, c.value); err != nil {
			return err
		}
	}
	optional := []struct {
		name  string
		value *float64
	}{
		{"sugar", e.Extras.SugarG},
		{"fiber", e.Extras.FiberG},
		{"sodium", e.Extras.SodiumMg},
		{"cholesterol", e.Extras.CholesterolMg},
		{"saturated fat", e.Extras.SaturatedFatG},
		{"trans fat", e.Extras.TransFatG},
	}
	for _, c := range optional {
		if err := validateOptional(c.name, c.value); err != nil {
			return err
		}
	}
	return nil
}

// insertEntry keeps usage stats carried by e (imports) and otherwise marks
// the entry as used once, now.
func insertEntry(tx *sql.Tx, mealID int64, e model.FoodEntry, now time.Time) (int64, error) {
	useCount := e.UseCount
	if useCount < 1 {
		useCount = 1
	}
	lastUsed := now
	if e.LastUsedAt != nil {
		lastUsed = *e.LastUsedAt
	}
	res, err := tx.Exec(`
INSERT INTO food_entries(meal_id, name, calories, carbs_g, protein_g, fat_g,
  sugar_g, fiber_g, sodium_mg, cholesterol_mg, saturated_fat_g, trans_fat_g,
  servings, source, catalog_id, is_favorite, last_used_at, use_count)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, mealID, e.Name, e.PerServing.Calories, e.PerServing.CarbsG, e.PerServing.ProteinG, e.PerServing.FatG,
		e.Extras.SugarG, e.Extras.FiberG, e.Extras.SodiumMg, e.Extras.CholesterolMg, e.Extras.SaturatedFatG, e.Extras.TransFatG,
		e.Servings, string(e.Source), e.CatalogID, boolToInt(e.IsFavorite), formatTimestamp(lastUsed), useCount)
	if err != nil {
		return 0, fmt.Errorf("insert food entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve inserted food entry id: %w", err)
	}
	return id, nil
}

func loadEntries(q querier, clause string, args ...any) ([]model.FoodEntry, error) {
	rows, err := q.Query(`
SELECT fe.id, fe.meal_id, fe.name, fe.calories, fe.carbs_g, fe.protein_g, fe.fat_g,
  fe.sugar_g, fe.fiber_g, fe.sodium_mg, fe.cholesterol_mg, fe.saturated_fat_g, fe.trans_fat_g,
  fe.servings, fe.source, fe.catalog_id, fe.is_favorite, fe.last_used_at, fe.use_count, fe.created_at
FROM food_entries fe `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("list food entries: %w", err)
	}
	defer rows.Close()

	entries := make([]model.FoodEntry, 0)
	for rows.Next() {
		var (
			e                                      model.FoodEntry
			sugar, fiber, sodium, chol, sat, trans sql.NullFloat64
			favorite                               int
			lastUsed                               sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.MealID, &e.Name, &e.PerServing.Calories, &e.PerServing.CarbsG, &e.PerServing.ProteinG, &e.PerServing.FatG,
			&sugar, &fiber, &sodium, &chol, &sat, &trans,
			&e.Servings, &e.Source, &e.CatalogID, &favorite, &lastUsed, &e.UseCount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan food entry: %w", err)
		}
		e.Extras = model.Extras{
			SugarG:        nullFloat(sugar),
			FiberG:        nullFloat(fiber),
			SodiumMg:      nullFloat(sodium),
			CholesterolMg: nullFloat(chol),
			SaturatedFatG: nullFloat(sat),
			TransFatG:     nullFloat(trans),
		}
		e.IsFavorite = favorite == 1
		if lastUsed.Valid {
			t, err := parseTimestamp(lastUsed.String)
			if err != nil {
				return nil, fmt.Errorf("food entry %d: %w", e.ID, err)
			}
			e.LastUsedAt = &t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate food entries: %w", err)
	}
	return entries, nil
}
