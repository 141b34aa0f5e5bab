package service_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/nutrition"
	"github.com/saadjs/nutri/internal/service"
)

func scenarioInput() service.ProfileInput {
	return service.ProfileInput{
		Age:           30,
		Sex:           "female",
		Height:        165,
		Weight:        60,
		ActivityLevel: "moderate",
		WeightGoal:    "maintain",
		CarbsPct:      40,
		ProteinPct:    30,
		FatPct:        30,
	}
}

type harness struct {
	engine *service.Engine
	meals  *memMeals
	clock  *testClock
}

func newHarness(t *testing.T, withProfile bool) harness {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 2, 10, 18, 0, 0, 0, time.Local)}
	meals := &memMeals{}
	engine := service.New(newMemProfiles(), meals, newMemConfig(), service.WithClock(clock.Now))
	if withProfile {
		if _, err := engine.SetProfile(scenarioInput()); err != nil {
			t.Fatalf("set profile: %v", err)
		}
	}
	return harness{engine: engine, meals: meals, clock: clock}
}

func TestSummariesRequireProfile(t *testing.T) {
	t.Parallel()
	h := newHarness(t, false)
	now := h.clock.Now()

	if _, err := h.engine.DailySummary(now); !errors.Is(err, nutrition.ErrGoalsUnavailable) {
		t.Fatalf("expected ErrGoalsUnavailable from daily, got %v", err)
	}
	if _, err := h.engine.WeeklySummary(now); !errors.Is(err, nutrition.ErrGoalsUnavailable) {
		t.Fatalf("expected ErrGoalsUnavailable from weekly, got %v", err)
	}
	if _, err := h.engine.Recommendations(now); !errors.Is(err, nutrition.ErrGoalsUnavailable) {
		t.Fatalf("expected ErrGoalsUnavailable from recommendations, got %v", err)
	}
	if err := h.engine.RefreshCache(); !errors.Is(err, nutrition.ErrGoalsUnavailable) {
		t.Fatalf("expected ErrGoalsUnavailable from refresh, got %v", err)
	}
}

func TestSetProfileScenarioAndEmptyDay(t *testing.T) {
	t.Parallel()
	h := newHarness(t, true)

	p, err := h.engine.Profile()
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if math.Abs(p.BMR-1320.25) > 1e-9 {
		t.Fatalf("expected BMR 1320.25, got %.4f", p.BMR)
	}
	if math.Abs(p.TDEE-2046.3875) > 1e-6 || math.Abs(p.DailyCalorieGoal-p.TDEE) > 1e-9 {
		t.Fatalf("unexpected TDEE/goal %.4f/%.4f", p.TDEE, p.DailyCalorieGoal)
	}

	s, err := h.engine.DailySummary(h.clock.Now())
	if err != nil {
		t.Fatalf("daily summary: %v", err)
	}
	if s.TotalCalories != 0 || s.CaloriesPct != 0 {
		t.Fatalf("expected empty day, got %+v", s)
	}
	if s.RemainingCalories != s.GoalCalories {
		t.Fatalf("expected remaining == goal, got %.2f vs %.2f", s.RemainingCalories, s.GoalCalories)
	}
	if s.MacroDistribution != p.MacroSplit {
		t.Fatalf("expected distribution %+v, got %+v", p.MacroSplit, s.MacroDistribution)
	}
}

func TestSetProfileUpdatesActiveProfileInPlace(t *testing.T) {
	t.Parallel()
	h := newHarness(t, true)
	first, err := h.engine.Profile()
	if err != nil {
		t.Fatalf("profile: %v", err)
	}

	in := scenarioInput()
	in.WeightGoal = "lose"
	second, err := h.engine.SetProfile(in)
	if err != nil {
		t.Fatalf("set profile again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected profile id to be kept, got %s then %s", first.ID, second.ID)
	}
	if math.Abs(second.DailyCalorieGoal-(first.DailyCalorieGoal-500)) > 1e-9 {
		t.Fatalf("expected lose goal 500 below maintain, got %.2f", second.DailyCalorieGoal)
	}
}

func TestSetProfileRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	h := newHarness(t, false)

	cases := map[string]func(*service.ProfileInput){
		"age":      func(in *service.ProfileInput) { in.Age = 0 },
		"sex":      func(in *service.ProfileInput) { in.Sex = "robot" },
		"activity": func(in *service.ProfileInput) { in.ActivityLevel = "couch" },
		"goal":     func(in *service.ProfileInput) { in.WeightGoal = "bulk" },
		"height":   func(in *service.ProfileInput) { in.Height = 0 },
		"weight":   func(in *service.ProfileInput) { in.WeightUnit = "cup" },
		"split":    func(in *service.ProfileInput) { in.FatPct = -5 },
	}
	for name, mutate := range cases {
		in := scenarioInput()
		mutate(&in)
		if _, err := h.engine.SetProfile(in); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}

	tiny := service.ProfileInput{
		Age:           120,
		Sex:           "female",
		Height:        50,
		Weight:        20,
		ActivityLevel: "sedentary",
		WeightGoal:    "lose",
	}
	if _, err := h.engine.SetProfile(tiny); !errors.Is(err, nutrition.ErrInvalidGoalConfiguration) {
		t.Fatalf("expected ErrInvalidGoalConfiguration, got %v", err)
	}
	if _, err := h.engine.Profile(); !errors.Is(err, nutrition.ErrGoalsUnavailable) {
		t.Fatalf("expected no profile after rejected input, got %v", err)
	}
}

func TestDailySummaryIsCachedUntilEvicted(t *testing.T) {
	t.Parallel()
	h := newHarness(t, true)
	today := h.clock.Now()
	h.meals.add(today.Add(-6*time.Hour), model.MealBreakfast, model.Nutrients{Calories: 400, CarbsG: 50, ProteinG: 20, FatG: 10})

	first, err := h.engine.DailySummary(today)
	if err != nil {
		t.Fatalf("daily summary: %v", err)
	}
	if first.TotalCalories != 400 {
		t.Fatalf("expected 400 kcal, got %.2f", first.TotalCalories)
	}

	h.meals.add(today.Add(-1*time.Hour), model.MealLunch, model.Nutrients{Calories: 600})
	second, err := h.engine.DailySummary(today)
	if err != nil {
		t.Fatalf("cached daily summary: %v", err)
	}
	if second != first {
		t.Fatalf("expected the cached snapshot to be returned")
	}
	if second.TotalCalories != 400 {
		t.Fatalf("expected cached snapshot to ignore later writes, got %.2f", second.TotalCalories)
	}
	if dayCalls, _ := h.meals.calls(); dayCalls != 1 {
		t.Fatalf("expected one store read, got %d", dayCalls)
	}

	h.engine.EvictDate(today)
	third, err := h.engine.DailySummary(today)
	if err != nil {
		t.Fatalf("reloaded daily summary: %v", err)
	}
	if third.TotalCalories != 1000 {
		t.Fatalf("expected 1000 kcal after evict, got %.2f", third.TotalCalories)
	}
}

func TestWeeklySummaryStaleness(t *testing.T) {
	t.Parallel()
	h := newHarness(t, true)
	end := h.clock.Now()

	first, err := h.engine.WeeklySummary(end)
	if err != nil {
		t.Fatalf("weekly summary: %v", err)
	}
	h.clock.Advance(30 * time.Minute)
	second, err := h.engine.WeeklySummary(end)
	if err != nil {
		t.Fatalf("weekly summary after 30m: %v", err)
	}
	if second != first {
		t.Fatalf("expected cached weekly summary within the hour")
	}
	h.clock.Advance(31 * time.Minute)
	third, err := h.engine.WeeklySummary(end)
	if err != nil {
		t.Fatalf("weekly summary after 61m: %v", err)
	}
	if third == first {
		t.Fatalf("expected weekly summary to be recomputed after an hour")
	}
	if _, rangeCalls := h.meals.calls(); rangeCalls != 2 {
		t.Fatalf("expected two range reads, got %d", rangeCalls)
	}
	if len(third.Days) != 7 {
		t.Fatalf("expected 7 days up to today, got %d", len(third.Days))
	}
}

func TestWeeklySummarySkipsFutureDays(t *testing.T) {
	t.Parallel()
	h := newHarness(t, true)
	end := h.clock.Now().AddDate(0, 0, 3)

	w, err := h.engine.WeeklySummary(end)
	if err != nil {
		t.Fatalf("weekly summary: %v", err)
	}
	for key := range w.Days {
		if key > nutrition.DayKey(h.clock.Now()) {
			t.Fatalf("unexpected future day %s in weekly summary", key)
		}
	}
	if len(w.Days) != 4 {
		t.Fatalf("expected 4 days up to today, got %d", len(w.Days))
	}
}

func TestRefreshCacheReloadsToday(t *testing.T) {
	t.Parallel()
	h := newHarness(t, true)

	if err := h.engine.RefreshCache(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	dayCalls, rangeCalls := h.meals.calls()
	if dayCalls != 1 || rangeCalls != 1 {
		t.Fatalf("expected refresh to load today and the week, got %d/%d", dayCalls, rangeCalls)
	}
	if _, err := h.engine.DailySummary(h.clock.Now()); err != nil {
		t.Fatalf("daily summary: %v", err)
	}
	if _, err := h.engine.WeeklySummary(h.clock.Now()); err != nil {
		t.Fatalf("weekly summary: %v", err)
	}
	if d, r := h.meals.calls(); d != 1 || r != 1 {
		t.Fatalf("expected cached reads after refresh, got %d/%d", d, r)
	}
}

func TestStoreFailureIsWrapped(t *testing.T) {
	t.Parallel()
	h := newHarness(t, true)
	boom := errors.New("disk on fire")
	h.meals.err = boom

	_, err := h.engine.DailySummary(h.clock.Now())
	var storeErr *nutrition.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected underlying error to be preserved, got %v", err)
	}
	if _, err := h.engine.RangeTotals(h.clock.Now(), h.clock.Now()); !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError from range totals, got %v", err)
	}
}

func TestRecommendationsForEmptyDay(t *testing.T) {
	t.Parallel()
	h := newHarness(t, true)

	recs, err := h.engine.Recommendations(h.clock.Now())
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected dinner and protein snack, got %+v", recs)
	}
	if recs[0].MealType != model.MealDinner || recs[1].MealType != model.MealSnack {
		t.Fatalf("unexpected recommendation order %+v", recs)
	}
}

func TestUpdateWeightClearsCache(t *testing.T) {
	t.Parallel()
	h := newHarness(t, true)
	before, err := h.engine.DailySummary(h.clock.Now())
	if err != nil {
		t.Fatalf("daily summary: %v", err)
	}

	p, err := h.engine.UpdateWeight(154.32358, "lb")
	if err != nil {
		t.Fatalf("update weight: %v", err)
	}
	if math.Abs(p.WeightKg-70) > 0.001 {
		t.Fatalf("expected ~70kg, got %.4f", p.WeightKg)
	}
	after, err := h.engine.DailySummary(h.clock.Now())
	if err != nil {
		t.Fatalf("daily summary: %v", err)
	}
	if after.GoalCalories <= before.GoalCalories {
		t.Fatalf("expected higher goal after weight gain, got %.2f -> %.2f", before.GoalCalories, after.GoalCalories)
	}
}

func TestRangeTotalsRejectsReversedRange(t *testing.T) {
	t.Parallel()
	h := newHarness(t, false)
	now := h.clock.Now()
	if _, err := h.engine.RangeTotals(now, now.AddDate(0, 0, -1)); err == nil {
		t.Fatalf("expected reversed range to fail")
	}
}
