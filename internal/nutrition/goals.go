package nutrition

import (
	"time"

	"github.com/saadjs/nutri/internal/model"
)

const (
	kcalPerGramCarbs   = 4.0
	kcalPerGramProtein = 4.0
	kcalPerGramFat     = 9.0
)

var DefaultMacroSplit = model.MacroSplit{CarbsPct: 0.40, ProteinPct: 0.30, FatPct: 0.30}

type Goals struct {
	BMR              float64 `json:"bmr"`
	TDEE             float64 `json:"tdee"`
	DailyCalorieGoal float64 `json:"daily_calorie_goal"`
	CarbGoalG        float64 `json:"carb_goal_g"`
	ProteinGoalG     float64 `json:"protein_goal_g"`
	FatGoalG         float64 `json:"fat_goal_g"`
}

func mifflinStJeor(weightKg, heightCm float64, age int, offset float64) float64 {
	return 10*weightKg + 6.25*heightCm - 5*float64(age) + offset
}

// BMR uses Mifflin-St Jeor. Unspecified sex gets the mean of the male and
// female results on the same inputs.
func BMR(sex model.Sex, weightKg, heightCm float64, age int) float64 {
	male := mifflinStJeor(weightKg, heightCm, age, 5)
	female := mifflinStJeor(weightKg, heightCm, age, -161)
	switch sex {
	case model.SexMale:
		return male
	case model.SexFemale:
		return female
	default:
		return (male + female) / 2
	}
}

func TDEE(bmr float64, level model.ActivityLevel) float64 {
	return bmr * level.Multiplier()
}

// DailyCalorieGoal is not floored at zero; callers decide.
func DailyCalorieGoal(tdee float64, goal model.WeightGoal) float64 {
	return tdee + goal.CalorieDelta()
}

// NormalizeSplit rescales the split to sum to 1. An all-zero split becomes 40/30/30.
func NormalizeSplit(s model.MacroSplit) model.MacroSplit {
	sum := s.CarbsPct + s.ProteinPct + s.FatPct
	if sum == 0 {
		return DefaultMacroSplit
	}
	return model.MacroSplit{
		CarbsPct:   s.CarbsPct / sum,
		ProteinPct: s.ProteinPct / sum,
		FatPct:     s.FatPct / sum,
	}
}

func MacroGrams(calorieGoal float64, split model.MacroSplit) (carbs, protein, fat float64) {
	n := NormalizeSplit(split)
	carbs = calorieGoal * n.CarbsPct / kcalPerGramCarbs
	protein = calorieGoal * n.ProteinPct / kcalPerGramProtein
	fat = calorieGoal * n.FatPct / kcalPerGramFat
	return carbs, protein, fat
}

// ComputeGoals is pure: the same profile always yields the same goals.
func ComputeGoals(p model.Profile) Goals {
	bmr := BMR(p.Sex, p.WeightKg, p.HeightCm, p.Age)
	tdee := TDEE(bmr, p.ActivityLevel)
	calories := DailyCalorieGoal(tdee, p.WeightGoal)
	carbs, protein, fat := MacroGrams(calories, p.MacroSplit)
	return Goals{
		BMR:              bmr,
		TDEE:             tdee,
		DailyCalorieGoal: calories,
		CarbGoalG:        carbs,
		ProteinGoalG:     protein,
		FatGoalG:         fat,
	}
}

// ApplyGoals recomputes the profile's cached goal fields, stores the
// normalized split, and stamps UpdatedAt.
func ApplyGoals(p *model.Profile, now time.Time) Goals {
	p.MacroSplit = NormalizeSplit(p.MacroSplit)
	g := ComputeGoals(*p)
	p.BMR = g.BMR
	p.TDEE = g.TDEE
	p.DailyCalorieGoal = g.DailyCalorieGoal
	p.CarbGoalG = g.CarbGoalG
	p.ProteinGoalG = g.ProteinGoalG
	p.FatGoalG = g.FatGoalG
	p.UpdatedAt = now
	return g
}
