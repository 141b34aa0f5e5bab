package store

import (
	"fmt"
	"math"
)

const totalsTolerance = 0.01

type DoctorReport struct {
	MealsChecked    int     `json:"meals_checked"`
	MismatchedMeals []int64 `json:"mismatched_meals"`
	FixedMeals      int     `json:"fixed_meals,omitempty"`
	OrphanedEntries int     `json:"orphaned_entries"`
}

type mealSums struct {
	id               int64
	stored, computed [4]float64
}

// CheckMealTotals compares each meal's stored totals with the sum of its
// entries. With fix set, mismatched meals are recomputed.
func (s *Meals) CheckMealTotals(fix bool) (DoctorReport, error) {
	report := DoctorReport{MismatchedMeals: []int64{}}
	rows, err := s.db.Query(`
SELECT m.id, m.calories, m.carbs_g, m.protein_g, m.fat_g,
  IFNULL(SUM(fe.calories * fe.servings), 0),
  IFNULL(SUM(fe.carbs_g * fe.servings), 0),
  IFNULL(SUM(fe.protein_g * fe.servings), 0),
  IFNULL(SUM(fe.fat_g * fe.servings), 0)
FROM meals m
LEFT JOIN food_entries fe ON fe.meal_id = m.id
GROUP BY m.id
ORDER BY m.id ASC
`)
	if err != nil {
		return report, fmt.Errorf("query meal totals: %w", err)
	}
	sums := make([]mealSums, 0)
	for rows.Next() {
		var ms mealSums
		if err := rows.Scan(&ms.id, &ms.stored[0], &ms.stored[1], &ms.stored[2], &ms.stored[3],
			&ms.computed[0], &ms.computed[1], &ms.computed[2], &ms.computed[3]); err != nil {
			rows.Close()
			return report, fmt.Errorf("scan meal totals: %w", err)
		}
		sums = append(sums, ms)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return report, fmt.Errorf("iterate meal totals: %w", err)
	}
	rows.Close()

	report.MealsChecked = len(sums)
	for _, ms := range sums {
		for i := range ms.stored {
			if math.Abs(ms.stored[i]-ms.computed[i]) > totalsTolerance {
				report.MismatchedMeals = append(report.MismatchedMeals, ms.id)
				break
			}
		}
	}

	if err := s.db.QueryRow(`
SELECT COUNT(1) FROM food_entries fe
LEFT JOIN meals m ON m.id = fe.meal_id
WHERE m.id IS NULL
`).Scan(&report.OrphanedEntries); err != nil {
		return report, fmt.Errorf("count orphaned food entries: %w", err)
	}

	if !fix {
		return report, nil
	}
	for _, id := range report.MismatchedMeals {
		tx, err := s.db.Begin()
		if err != nil {
			return report, fmt.Errorf("begin fix tx: %w", err)
		}
		if err := recomputeMealTotals(tx, id); err != nil {
			_ = tx.Rollback()
			return report, err
		}
		if err := tx.Commit(); err != nil {
			return report, fmt.Errorf("commit fix for meal %d: %w", id, err)
		}
		report.FixedMeals++
	}
	if report.OrphanedEntries > 0 {
		if _, err := s.db.Exec(`DELETE FROM food_entries WHERE meal_id NOT IN (SELECT id FROM meals)`); err != nil {
			return report, fmt.Errorf("delete orphaned food entries: %w", err)
		}
	}
	return report, nil
}
