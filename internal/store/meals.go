package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/nutrition"
)

type Meals struct {
	db *sql.DB
}

func NewMeals(db *sql.DB) *Meals {
	return &Meals{db: db}
}

// Create inserts a meal together with its entries. Totals are always
// recomputed from the entries; whatever the caller put in Totals is ignored.
func (s *Meals) Create(m model.MealRecord) (int64, error) {
	if err := prepareMeal(&m); err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin meal tx: %w", err)
	}
	id, err := insertMeal(tx, m, time.Now())
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit meal: %w", err)
	}
	return id, nil
}

// insertMeal writes m and its entries. m must already be validated with
// totals recomputed.
func insertMeal(tx *sql.Tx, m model.MealRecord, now time.Time) (int64, error) {
	res, err := tx.Exec(`
INSERT INTO meals(name, meal_type, consumed_at, calories, carbs_g, protein_g, fat_g)
VALUES(?, ?, ?, ?, ?, ?, ?)
`, m.Name, string(m.Type), formatTimestamp(m.ConsumedAt), m.Totals.Calories, m.Totals.CarbsG, m.Totals.ProteinG, m.Totals.FatG)
	if err != nil {
		return 0, fmt.Errorf("insert meal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve inserted meal id: %w", err)
	}
	for _, e := range m.Entries {
		if _, err := insertEntry(tx, id, e, now); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func prepareMeal(m *model.MealRecord) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return fmt.Errorf("meal name is required")
	}
	if _, err := model.ParseMealType(string(m.Type)); err != nil {
		return err
	}
	if m.ConsumedAt.IsZero() {
		m.ConsumedAt = time.Now()
	}
	for i := range m.Entries {
		if err := validateEntry(&m.Entries[i]); err != nil {
			return err
		}
	}
	m.RecomputeTotals()
	return nil
}

func (s *Meals) Get(id int64) (*model.MealRecord, error) {
	if id <= 0 {
		return nil, fmt.Errorf("meal id must be > 0")
	}
	meals, err := s.query(`WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, ErrMealNotFound
	}
	entries, err := loadEntries(s.db, `WHERE fe.meal_id = ?`, id)
	if err != nil {
		return nil, err
	}
	meals[0].Entries = entries
	return &meals[0], nil
}

// Delete removes the meal; its food entries go with it.
func (s *Meals) Delete(id int64) error {
	if id <= 0 {
		return fmt.Errorf("meal id must be > 0")
	}
	res, err := s.db.Exec(`DELETE FROM meals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete meal %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for meal %d: %w", id, err)
	}
	if affected == 0 {
		return ErrMealNotFound
	}
	return nil
}

func (s *Meals) GetForDate(date time.Time) ([]model.MealRecord, error) {
	return s.GetForRange(date, date)
}

// GetForRange returns meals in [start's midnight, the midnight after end),
// entries attached, oldest first.
func (s *Meals) GetForRange(start, end time.Time) ([]model.MealRecord, error) {
	from, to := dayRange(start, end)
	meals, err := s.query(`WHERE consumed_at >= ? AND consumed_at < ?`, from, to)
	if err != nil {
		return nil, err
	}
	entries, err := loadEntries(s.db, `JOIN meals m ON m.id = fe.meal_id WHERE m.consumed_at >= ? AND m.consumed_at < ?`, from, to)
	if err != nil {
		return nil, err
	}
	byMeal := map[int64][]model.FoodEntry{}
	for _, e := range entries {
		byMeal[e.MealID] = append(byMeal[e.MealID], e)
	}
	for i := range meals {
		meals[i].Entries = byMeal[meals[i].ID]
	}
	return meals, nil
}

func (s *Meals) TotalsForDate(date time.Time) (model.Nutrients, error) {
	from, to := dayRange(date, date)
	return s.sum(from, to)
}

// TotalsForRange averages over the same day count the summary aggregator uses.
func (s *Meals) TotalsForRange(start, end time.Time) (model.RangeTotals, error) {
	from, to := dayRange(start, end)
	totals, err := s.sum(from, to)
	if err != nil {
		return model.RangeTotals{}, err
	}
	days := nutrition.DayCount(start, end)
	return model.RangeTotals{
		Totals:   totals,
		Averages: totals.Scale(1 / float64(days)),
		Days:     days,
	}, nil
}

func (s *Meals) sum(from, to string) (model.Nutrients, error) {
	var n model.Nutrients
	err := s.db.QueryRow(`
SELECT IFNULL(SUM(calories), 0), IFNULL(SUM(carbs_g), 0), IFNULL(SUM(protein_g), 0), IFNULL(SUM(fat_g), 0)
FROM meals
WHERE consumed_at >= ? AND consumed_at < ?
`, from, to).Scan(&n.Calories, &n.CarbsG, &n.ProteinG, &n.FatG)
	if err != nil {
		return model.Nutrients{}, fmt.Errorf("sum meal totals: %w", err)
	}
	return n, nil
}

func (s *Meals) query(where string, args ...any) ([]model.MealRecord, error) {
	rows, err := s.db.Query(`
SELECT id, name, meal_type, consumed_at, calories, carbs_g, protein_g, fat_g, created_at, updated_at
FROM meals `+where+`
ORDER BY consumed_at ASC, id ASC
`, args...)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	meals := make([]model.MealRecord, 0)
	for rows.Next() {
		var (
			m           model.MealRecord
			consumedRaw string
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Type, &consumedRaw, &m.Totals.Calories, &m.Totals.CarbsG, &m.Totals.ProteinG, &m.Totals.FatG, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		if m.ConsumedAt, err = parseTimestamp(consumedRaw); err != nil {
			return nil, fmt.Errorf("meal %d: %w", m.ID, err)
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meals: %w", err)
	}
	return meals, nil
}

// recomputeMealTotals reloads a meal's entries inside tx and rewrites the
// stored totals from them.
func recomputeMealTotals(tx *sql.Tx, mealID int64) error {
	entries, err := loadEntries(tx, `WHERE fe.meal_id = ?`, mealID)
	if err != nil {
		return err
	}
	m := model.MealRecord{ID: mealID, Entries: entries}
	m.RecomputeTotals()
	res, err := tx.Exec(`
UPDATE meals
SET calories = ?, carbs_g = ?, protein_g = ?, fat_g = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, m.Totals.Calories, m.Totals.CarbsG, m.Totals.ProteinG, m.Totals.FatG, mealID)
	if err != nil {
		return fmt.Errorf("update totals for meal %d: %w", mealID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for meal %d: %w", mealID, err)
	}
	if affected == 0 {
		return ErrMealNotFound
	}
	return nil
}

func mealExists(q querier, id int64) error {
	var one int
	err := q.QueryRow(`SELECT 1 FROM meals WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMealNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup meal %d: %w", id, err)
	}
	return nil
}
