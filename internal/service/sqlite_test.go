package service_test

import (
	"database/sql"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/saadjs/nutri/internal/db"
	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/service"
	"github.com/saadjs/nutri/internal/store"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nutri.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

func TestEngineOverSQLiteStores(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	now := time.Date(2026, 2, 10, 20, 0, 0, 0, time.Local)
	meals := store.NewMeals(sqldb)
	cfg := store.NewConfig(sqldb)
	engine := service.New(store.NewProfiles(sqldb), meals, cfg, service.WithClock(func() time.Time { return now }))

	p, err := engine.SetProfile(scenarioInput())
	if err != nil {
		t.Fatalf("set profile: %v", err)
	}
	if id, ok, _ := cfg.Get(store.ConfigActiveProfile); !ok || id != p.ID {
		t.Fatalf("expected active profile %s, got %q", p.ID, id)
	}

	for _, m := range []model.MealRecord{
		{Name: "Oats", Type: model.MealBreakfast, ConsumedAt: now.Add(-12 * time.Hour), Entries: []model.FoodEntry{
			{Name: "Oats", PerServing: model.Nutrients{Calories: 150, CarbsG: 27, ProteinG: 5, FatG: 3}, Servings: 2},
		}},
		{Name: "Salmon bowl", Type: model.MealDinner, ConsumedAt: now.Add(-1 * time.Hour), Entries: []model.FoodEntry{
			{Name: "Salmon", PerServing: model.Nutrients{Calories: 208, ProteinG: 20, FatG: 13}},
			{Name: "Rice", PerServing: model.Nutrients{Calories: 205, CarbsG: 45, ProteinG: 4.3, FatG: 0.4}},
		}},
		{Name: "Yesterday", Type: model.MealLunch, ConsumedAt: now.AddDate(0, 0, -1), Entries: []model.FoodEntry{
			{Name: "Sandwich", PerServing: model.Nutrients{Calories: 500, CarbsG: 50, ProteinG: 25, FatG: 20}},
		}},
	} {
		if _, err := meals.Create(m); err != nil {
			t.Fatalf("create meal %s: %v", m.Name, err)
		}
	}

	s, err := engine.DailySummary(now)
	if err != nil {
		t.Fatalf("daily summary: %v", err)
	}
	if math.Abs(s.TotalCalories-713) > 1e-9 {
		t.Fatalf("expected 713 kcal today, got %.2f", s.TotalCalories)
	}
	if len(s.MealsByType[model.MealDinner]) != 1 || len(s.MealsByType[model.MealBreakfast]) != 1 {
		t.Fatalf("expected meals grouped by type, got %+v", s.MealsByType)
	}
	if s.RemainingCalories < 0 || s.CaloriesPct > 1 {
		t.Fatalf("remaining and percent out of bounds: %+v", s)
	}

	w, err := engine.WeeklySummary(now)
	if err != nil {
		t.Fatalf("weekly summary: %v", err)
	}
	if math.Abs(w.Totals.Calories-1213) > 1e-9 {
		t.Fatalf("expected 1213 kcal this week, got %.2f", w.Totals.Calories)
	}
	if w.Days["2026-02-09"] == nil || w.Days["2026-02-09"].TotalCalories != 500 {
		t.Fatalf("expected yesterday's summary in the week")
	}
	if math.Abs(w.GoalCalories-p.DailyCalorieGoal*7) > 1e-6 {
		t.Fatalf("expected weekly goal of 7 days, got %.2f", w.GoalCalories)
	}

	totals, err := engine.RangeTotals(now.AddDate(0, 0, -1), now)
	if err != nil {
		t.Fatalf("range totals: %v", err)
	}
	if math.Abs(totals.Totals.Calories-1213) > 1e-9 || totals.Days != 1 {
		t.Fatalf("unexpected range totals %+v", totals)
	}

	recs, err := engine.Recommendations(now)
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	for _, r := range recs {
		if r.MealType == model.MealDinner {
			t.Fatalf("dinner already logged, got %+v", r)
		}
	}
}
