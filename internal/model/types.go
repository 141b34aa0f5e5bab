package model

import "time"

type MacroSplit struct {
	CarbsPct   float64 `json:"carbs_pct"`
	ProteinPct float64 `json:"protein_pct"`
	FatPct     float64 `json:"fat_pct"`
}

// Profile is a person's body metrics plus the goal fields derived from them.
// The goal fields are a cache; they are rewritten whenever any input changes.
type Profile struct {
	ID            string        `json:"id"`
	Age           int           `json:"age"`
	Sex           Sex           `json:"sex"`
	HeightCm      float64       `json:"height_cm"`
	WeightKg      float64       `json:"weight_kg"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	WeightGoal    WeightGoal    `json:"weight_goal"`
	MacroSplit    MacroSplit    `json:"macro_split"`

	BMR              float64 `json:"bmr"`
	TDEE             float64 `json:"tdee"`
	DailyCalorieGoal float64 `json:"daily_calorie_goal"`
	CarbGoalG        float64 `json:"carb_goal_g"`
	ProteinGoalG     float64 `json:"protein_goal_g"`
	FatGoalG         float64 `json:"fat_goal_g"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Nutrients struct {
	Calories float64 `json:"calories"`
	CarbsG   float64 `json:"carbs_g"`
	ProteinG float64 `json:"protein_g"`
	FatG     float64 `json:"fat_g"`
}

func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories: n.Calories + o.Calories,
		CarbsG:   n.CarbsG + o.CarbsG,
		ProteinG: n.ProteinG + o.ProteinG,
		FatG:     n.FatG + o.FatG,
	}
}

func (n Nutrients) Scale(factor float64) Nutrients {
	return Nutrients{
		Calories: n.Calories * factor,
		CarbsG:   n.CarbsG * factor,
		ProteinG: n.ProteinG * factor,
		FatG:     n.FatG * factor,
	}
}

// Extras are the optional per-serving values some foods carry.
type Extras struct {
	SugarG        *float64 `json:"sugar_g,omitempty"`
	FiberG        *float64 `json:"fiber_g,omitempty"`
	SodiumMg      *float64 `json:"sodium_mg,omitempty"`
	CholesterolMg *float64 `json:"cholesterol_mg,omitempty"`
	SaturatedFatG *float64 `json:"saturated_fat_g,omitempty"`
	TransFatG     *float64 `json:"trans_fat_g,omitempty"`
}

type FoodEntry struct {
	ID         int64      `json:"id"`
	MealID     int64      `json:"meal_id"`
	Name       string     `json:"name"`
	PerServing Nutrients  `json:"per_serving"`
	Extras     Extras     `json:"extras"`
	Servings   float64    `json:"servings"`
	Source     FoodSource `json:"source"`
	CatalogID  string     `json:"catalog_id,omitempty"`
	IsFavorite bool       `json:"is_favorite"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	UseCount   int        `json:"use_count"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (e FoodEntry) Totals() Nutrients {
	return e.PerServing.Scale(e.Servings)
}

// MealRecord stores its totals denormalized; Entries is the source of truth.
type MealRecord struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Type       MealType    `json:"meal_type"`
	ConsumedAt time.Time   `json:"consumed_at"`
	Totals     Nutrients   `json:"totals"`
	Entries    []FoodEntry `json:"entries,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// RecomputeTotals rewrites Totals from Entries. Call after any entry change
// and before persisting.
func (m *MealRecord) RecomputeTotals() {
	var sum Nutrients
	for _, e := range m.Entries {
		sum = sum.Add(e.Totals())
	}
	m.Totals = sum
}

// CommonFood is a shared, read-only catalog item. Meals copy from it; they never own it.
type CommonFood struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	PerServing  Nutrients `json:"per_serving"`
	Extras      Extras    `json:"extras"`
	ServingDesc string    `json:"serving_desc"`
}

type RangeTotals struct {
	Totals   Nutrients `json:"totals"`
	Averages Nutrients `json:"averages"`
	Days     int       `json:"days"`
}

type NutritionSummary struct {
	Date string `json:"date"`

	TotalCalories float64 `json:"total_calories"`
	TotalCarbsG   float64 `json:"total_carbs_g"`
	TotalProteinG float64 `json:"total_protein_g"`
	TotalFatG     float64 `json:"total_fat_g"`

	GoalCalories float64 `json:"goal_calories"`
	GoalCarbsG   float64 `json:"goal_carbs_g"`
	GoalProteinG float64 `json:"goal_protein_g"`
	GoalFatG     float64 `json:"goal_fat_g"`

	RemainingCalories float64 `json:"remaining_calories"`
	RemainingCarbsG   float64 `json:"remaining_carbs_g"`
	RemainingProteinG float64 `json:"remaining_protein_g"`
	RemainingFatG     float64 `json:"remaining_fat_g"`

	CaloriesPct float64 `json:"calories_pct"`
	CarbsPct    float64 `json:"carbs_pct"`
	ProteinPct  float64 `json:"protein_pct"`
	FatPct      float64 `json:"fat_pct"`

	MacroDistribution MacroSplit                `json:"macro_distribution"`
	MealsByType       map[MealType][]MealRecord `json:"meals_by_type"`
}

type WeeklyNutritionSummary struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	Totals   Nutrients `json:"totals"`
	Averages Nutrients `json:"averages"`

	GoalCalories float64 `json:"goal_calories"`
	GoalCarbsG   float64 `json:"goal_carbs_g"`
	GoalProteinG float64 `json:"goal_protein_g"`
	GoalFatG     float64 `json:"goal_fat_g"`

	CaloriesPct float64 `json:"calories_pct"`
	CarbsPct    float64 `json:"carbs_pct"`
	ProteinPct  float64 `json:"protein_pct"`
	FatPct      float64 `json:"fat_pct"`

	Days map[string]*NutritionSummary `json:"days"`
}

type MealRecommendation struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MealType    MealType  `json:"meal_type"`
	Nutrients   Nutrients `json:"nutrients"`
}
