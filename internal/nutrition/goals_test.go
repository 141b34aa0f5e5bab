package nutrition_test

import (
	"math"
	"testing"
	"time"

	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/nutrition"
)

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestComputeGoalsFemaleModerateMaintain(t *testing.T) {
	t.Parallel()
	p := model.Profile{
		Age:           30,
		Sex:           model.SexFemale,
		HeightCm:      165,
		WeightKg:      60,
		ActivityLevel: model.ActivityModerate,
		WeightGoal:    model.GoalMaintain,
		MacroSplit:    model.MacroSplit{CarbsPct: 0.4, ProteinPct: 0.3, FatPct: 0.3},
	}
	g := nutrition.ComputeGoals(p)
	if g.BMR != 1320.25 {
		t.Fatalf("expected BMR 1320.25, got %.4f", g.BMR)
	}
	if !approx(g.TDEE, 2046.3875, 1e-9) {
		t.Fatalf("expected TDEE ~2046.39, got %.4f", g.TDEE)
	}
	if g.DailyCalorieGoal != g.TDEE {
		t.Fatalf("expected maintain goal to equal TDEE, got %.4f vs %.4f", g.DailyCalorieGoal, g.TDEE)
	}
	if !approx(g.CarbGoalG, g.DailyCalorieGoal*0.4/4, 1e-9) {
		t.Fatalf("unexpected carb grams %.4f", g.CarbGoalG)
	}
	if !approx(g.FatGoalG, g.DailyCalorieGoal*0.3/9, 1e-9) {
		t.Fatalf("unexpected fat grams %.4f", g.FatGoalG)
	}
}

func TestBMRUnspecifiedIsMeanOfMaleAndFemale(t *testing.T) {
	t.Parallel()
	cases := []struct {
		weight float64
		height float64
		age    int
	}{
		{60, 165, 30},
		{92.4, 181.3, 47},
		{45, 150, 18},
	}
	for _, c := range cases {
		male := nutrition.BMR(model.SexMale, c.weight, c.height, c.age)
		female := nutrition.BMR(model.SexFemale, c.weight, c.height, c.age)
		other := nutrition.BMR(model.SexUnspecified, c.weight, c.height, c.age)
		if other != (male+female)/2 {
			t.Fatalf("expected mean %.6f, got %.6f", (male+female)/2, other)
		}
	}
}

func TestWeightGoalShiftsCalorieGoal(t *testing.T) {
	t.Parallel()
	base := model.Profile{Age: 40, Sex: model.SexMale, HeightCm: 180, WeightKg: 85, ActivityLevel: model.ActivityLight}
	base.WeightGoal = model.GoalMaintain
	maintain := nutrition.ComputeGoals(base).DailyCalorieGoal
	base.WeightGoal = model.GoalLose
	lose := nutrition.ComputeGoals(base).DailyCalorieGoal
	base.WeightGoal = model.GoalGain
	gain := nutrition.ComputeGoals(base).DailyCalorieGoal
	if maintain-lose != 500 || gain-maintain != 500 {
		t.Fatalf("expected +/-500 deltas, got lose=%.2f maintain=%.2f gain=%.2f", lose, maintain, gain)
	}
}

func TestCalorieGoalIsNotFloored(t *testing.T) {
	t.Parallel()
	p := model.Profile{Age: 90, Sex: model.SexFemale, HeightCm: 50, WeightKg: 5, ActivityLevel: model.ActivitySedentary, WeightGoal: model.GoalLose}
	if g := nutrition.ComputeGoals(p); g.DailyCalorieGoal >= 0 {
		t.Fatalf("expected negative calorie goal to pass through, got %.2f", g.DailyCalorieGoal)
	}
}

func TestNormalizeSplitSumsToOne(t *testing.T) {
	t.Parallel()
	inputs := []model.MacroSplit{
		{},
		{CarbsPct: 1, ProteinPct: 1, FatPct: 1},
		{CarbsPct: 50, ProteinPct: 25, FatPct: 25},
		{CarbsPct: 0.45, ProteinPct: 0.35, FatPct: 0.3},
		{CarbsPct: 0, ProteinPct: 0, FatPct: 3},
	}
	for _, in := range inputs {
		n := nutrition.NormalizeSplit(in)
		if sum := n.CarbsPct + n.ProteinPct + n.FatPct; !approx(sum, 1, 1e-12) {
			t.Fatalf("split %+v normalized to %+v (sum %.15f)", in, n, sum)
		}
	}
	if got := nutrition.NormalizeSplit(model.MacroSplit{}); got != nutrition.DefaultMacroSplit {
		t.Fatalf("expected zero split to default to 40/30/30, got %+v", got)
	}
}

func TestApplyGoalsStampsProfile(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	p := &model.Profile{
		Age: 30, Sex: model.SexMale, HeightCm: 175, WeightKg: 70,
		ActivityLevel: model.ActivityActive, WeightGoal: model.GoalGain,
		MacroSplit: model.MacroSplit{CarbsPct: 2, ProteinPct: 1, FatPct: 1},
	}
	g := nutrition.ApplyGoals(p, now)
	if !p.UpdatedAt.Equal(now) {
		t.Fatalf("expected updated_at %s, got %s", now, p.UpdatedAt)
	}
	if p.DailyCalorieGoal != g.DailyCalorieGoal || p.ProteinGoalG != g.ProteinGoalG {
		t.Fatalf("expected profile fields to mirror computed goals")
	}
	if p.MacroSplit.CarbsPct != 0.5 || p.MacroSplit.ProteinPct != 0.25 {
		t.Fatalf("expected stored split to be normalized, got %+v", p.MacroSplit)
	}
}
