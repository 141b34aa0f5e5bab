package store_test

import (
	"math"
	"testing"
	"time"

	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/store"
)

func seedForExport(t *testing.T, profiles *store.Profiles, meals *store.Meals, cfg *store.Config) string {
	t.Helper()
	id, err := profiles.Create(sampleProfile())
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if err := cfg.Set(store.ConfigActiveProfile, id); err != nil {
		t.Fatalf("set active profile: %v", err)
	}
	fiber := 3.0
	if _, err := meals.Create(model.MealRecord{
		Name:       "Breakfast",
		Type:       model.MealBreakfast,
		ConsumedAt: time.Date(2026, 2, 10, 8, 0, 0, 0, time.Local),
		Entries: []model.FoodEntry{
			{Name: "Oats", PerServing: model.Nutrients{Calories: 150, CarbsG: 27, ProteinG: 5, FatG: 3}, Extras: model.Extras{FiberG: &fiber}, Servings: 2},
		},
	}); err != nil {
		t.Fatalf("create meal: %v", err)
	}
	return id
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()
	src := newTestDB(t)
	profileID := seedForExport(t, store.NewProfiles(src), store.NewMeals(src), store.NewConfig(src))

	data, err := store.Export(src)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(data.Profiles) != 1 || len(data.Meals) != 1 || len(data.Meals[0].Entries) != 1 {
		t.Fatalf("unexpected export %+v", data)
	}

	dst := newTestDB(t)
	report, err := store.Import(dst, data, store.ImportOptions{Mode: store.ImportModeMerge})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Inserted != 2 || report.Conflicts != 0 {
		t.Fatalf("unexpected import report %+v", report)
	}

	p, err := store.NewProfiles(dst).Get(profileID)
	if err != nil {
		t.Fatalf("get imported profile: %v", err)
	}
	if p.DailyCalorieGoal != data.Profiles[0].DailyCalorieGoal {
		t.Fatalf("expected goals carried over")
	}
	day, err := store.NewMeals(dst).GetForDate(time.Date(2026, 2, 10, 12, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("get imported meals: %v", err)
	}
	if len(day) != 1 || math.Abs(day[0].Totals.Calories-300) > 1e-9 {
		t.Fatalf("unexpected imported meals %+v", day)
	}
	if f := day[0].Entries[0].Extras.FiberG; f == nil || *f != 3 {
		t.Fatalf("expected fiber to survive import")
	}
	if v, ok, _ := store.NewConfig(dst).Get(store.ConfigActiveProfile); !ok || v != profileID {
		t.Fatalf("expected active profile config to be imported")
	}

	again, err := store.Import(dst, data, store.ImportOptions{Mode: store.ImportModeSkip})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if again.Inserted != 0 || again.Skipped < 2 {
		t.Fatalf("expected skip mode to skip existing rows, got %+v", again)
	}
	if _, err := store.Import(dst, data, store.ImportOptions{Mode: store.ImportModeFail}); err == nil {
		t.Fatalf("expected fail mode to reject conflicts")
	}
}

func TestImportDryRunWritesNothing(t *testing.T) {
	t.Parallel()
	src := newTestDB(t)
	seedForExport(t, store.NewProfiles(src), store.NewMeals(src), store.NewConfig(src))
	data, err := store.Export(src)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	dst := newTestDB(t)
	report, err := store.Import(dst, data, store.ImportOptions{Mode: store.ImportModeReplace, DryRun: true})
	if err != nil {
		t.Fatalf("dry run import: %v", err)
	}
	if !report.DryRun || report.Inserted != 2 {
		t.Fatalf("unexpected dry run report %+v", report)
	}
	var meals int
	if err := dst.QueryRow(`SELECT COUNT(1) FROM meals`).Scan(&meals); err != nil {
		t.Fatalf("count meals: %v", err)
	}
	if meals != 0 {
		t.Fatalf("expected dry run to leave db untouched, got %d meals", meals)
	}
}

func TestParseImportMode(t *testing.T) {
	t.Parallel()
	if m, err := store.ParseImportMode(""); err != nil || m != store.ImportModeMerge {
		t.Fatalf("expected default merge, got %q (%v)", m, err)
	}
	if _, err := store.ParseImportMode("overwrite"); err == nil {
		t.Fatalf("expected unknown mode to fail")
	}
}
