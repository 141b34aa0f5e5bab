package nutrition

import (
	"math"

	"github.com/saadjs/nutri/internal/model"
)

const (
	dinnerMinRemainingCalories       = 500
	proteinSnackMinRemainingCalories = 200
	proteinSnackMinRemainingProtein  = 20
	lightSnackMaxRemainingCalories   = 300
)

var (
	balancedDinner = model.Nutrients{Calories: 500, CarbsG: 50, ProteinG: 30, FatG: 15}
	proteinSnack   = model.Nutrients{Calories: 200, CarbsG: 10, ProteinG: 25, FatG: 8}
	lightSnackCap  = model.Nutrients{Calories: 150, CarbsG: 15, ProteinG: 10, FatG: 5}
)

// Recommend proposes meals that would close today's remaining gaps. Each rule
// is checked on its own, so a summary can match none, one, or several.
func Recommend(s *model.NutritionSummary) []model.MealRecommendation {
	out := make([]model.MealRecommendation, 0, 3)
	if s == nil {
		return out
	}

	if s.RemainingCalories > dinnerMinRemainingCalories && !hasMeal(s, model.MealDinner) {
		out = append(out, model.MealRecommendation{
			Title:       "Balanced dinner",
			Description: "A plate with lean protein, whole grains, and vegetables.",
			MealType:    model.MealDinner,
			Nutrients:   balancedDinner,
		})
	}

	if s.RemainingCalories > proteinSnackMinRemainingCalories &&
		s.RemainingProteinG > proteinSnackMinRemainingProtein &&
		!hasMeal(s, model.MealSnack) {
		out = append(out, model.MealRecommendation{
			Title:       "Protein snack",
			Description: "Greek yogurt, a shake, or cottage cheese to close the protein gap.",
			MealType:    model.MealSnack,
			Nutrients:   proteinSnack,
		})
	}

	if s.RemainingCalories > 0 && s.RemainingCalories < lightSnackMaxRemainingCalories {
		// never more than what is left on any channel
		out = append(out, model.MealRecommendation{
			Title:       "Light snack",
			Description: "Fruit or a handful of vegetables that fits what is left today.",
			MealType:    model.MealSnack,
			Nutrients: model.Nutrients{
				Calories: math.Min(lightSnackCap.Calories, s.RemainingCalories),
				CarbsG:   math.Min(lightSnackCap.CarbsG, s.RemainingCarbsG),
				ProteinG: math.Min(lightSnackCap.ProteinG, s.RemainingProteinG),
				FatG:     math.Min(lightSnackCap.FatG, s.RemainingFatG),
			},
		})
	}
	return out
}

func hasMeal(s *model.NutritionSummary, t model.MealType) bool {
	return len(s.MealsByType[t]) > 0
}
