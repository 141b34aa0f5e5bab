package nutrition

import (
	"math"
	"sort"
	"time"

	"github.com/saadjs/nutri/internal/model"
)

const daysPerWeek = 7

func Remaining(goal, total float64) float64 {
	return math.Max(0, goal-total)
}

// Percent is total/goal capped at 1. A goal below 1 is treated as 1 so a
// misconfigured zero goal cannot divide by zero.
func Percent(total, goal float64) float64 {
	return math.Min(1, total/math.Max(1, goal))
}

// MacroDistribution is each macro's share of total macro calories. With no
// macro calories logged it falls back to the profile's own target split,
// returned as stored (profiles keep their split normalized).
func MacroDistribution(totals model.Nutrients, target model.MacroSplit) model.MacroSplit {
	carbCal := totals.CarbsG * kcalPerGramCarbs
	proteinCal := totals.ProteinG * kcalPerGramProtein
	fatCal := totals.FatG * kcalPerGramFat
	sum := carbCal + proteinCal + fatCal
	if sum <= 0 {
		if target.CarbsPct+target.ProteinPct+target.FatPct == 0 {
			return DefaultMacroSplit
		}
		return target
	}
	return model.MacroSplit{
		CarbsPct:   carbCal / sum,
		ProteinPct: proteinCal / sum,
		FatPct:     fatCal / sum,
	}
}

func sumMeals(meals []model.MealRecord, keep func(model.MealRecord) bool) model.Nutrients {
	var total model.Nutrients
	for _, m := range meals {
		if keep(m) {
			total = total.Add(m.Totals)
		}
	}
	return total
}

// DailySummary builds the summary for date from meals. Meals outside the
// date's [midnight, next midnight) window are ignored.
func DailySummary(date time.Time, meals []model.MealRecord, p *model.Profile) (*model.NutritionSummary, error) {
	if p == nil {
		return nil, ErrGoalsUnavailable
	}
	day := make([]model.MealRecord, 0, len(meals))
	for _, m := range meals {
		if InDay(m.ConsumedAt, date) {
			day = append(day, m)
		}
	}
	sort.SliceStable(day, func(i, j int) bool {
		return day[i].ConsumedAt.Before(day[j].ConsumedAt)
	})

	totals := sumMeals(day, func(model.MealRecord) bool { return true })
	s := &model.NutritionSummary{
		Date:          DayKey(StartOfDay(date)),
		TotalCalories: totals.Calories,
		TotalCarbsG:   totals.CarbsG,
		TotalProteinG: totals.ProteinG,
		TotalFatG:     totals.FatG,
		GoalCalories:  p.DailyCalorieGoal,
		GoalCarbsG:    p.CarbGoalG,
		GoalProteinG:  p.ProteinGoalG,
		GoalFatG:      p.FatGoalG,
		MealsByType:   map[model.MealType][]model.MealRecord{},
	}
	s.RemainingCalories = Remaining(s.GoalCalories, s.TotalCalories)
	s.RemainingCarbsG = Remaining(s.GoalCarbsG, s.TotalCarbsG)
	s.RemainingProteinG = Remaining(s.GoalProteinG, s.TotalProteinG)
	s.RemainingFatG = Remaining(s.GoalFatG, s.TotalFatG)

	s.CaloriesPct = Percent(s.TotalCalories, s.GoalCalories)
	s.CarbsPct = Percent(s.TotalCarbsG, s.GoalCarbsG)
	s.ProteinPct = Percent(s.TotalProteinG, s.GoalProteinG)
	s.FatPct = Percent(s.TotalFatG, s.GoalFatG)

	s.MacroDistribution = MacroDistribution(totals, p.MacroSplit)
	for _, m := range day {
		s.MealsByType[m.Type] = append(s.MealsByType[m.Type], m)
	}
	return s, nil
}

// RangeSummary totals meals in [start's midnight, the midnight after end)
// and averages them over DayCount(start, end) days.
func RangeSummary(start, end time.Time, meals []model.MealRecord) model.RangeTotals {
	from := StartOfDay(start)
	_, to := DayBounds(end)
	totals := sumMeals(meals, func(m model.MealRecord) bool {
		return !m.ConsumedAt.Before(from) && m.ConsumedAt.Before(to)
	})
	days := DayCount(start, end)
	return model.RangeTotals{
		Totals:   totals,
		Averages: totals.Scale(1 / float64(days)),
		Days:     days,
	}
}

// WeeklySummary covers the seven days ending on endDate. Days after now are
// left out of the per-day map.
func WeeklySummary(endDate, now time.Time, meals []model.MealRecord, p *model.Profile) (*model.WeeklyNutritionSummary, error) {
	if p == nil {
		return nil, ErrGoalsUnavailable
	}
	end := StartOfDay(endDate)
	start := end.AddDate(0, 0, -(daysPerWeek - 1))
	rng := RangeSummary(start, end, meals)

	w := &model.WeeklyNutritionSummary{
		StartDate:    DayKey(start),
		EndDate:      DayKey(end),
		Totals:       rng.Totals,
		Averages:     rng.Averages,
		GoalCalories: p.DailyCalorieGoal * daysPerWeek,
		GoalCarbsG:   p.CarbGoalG * daysPerWeek,
		GoalProteinG: p.ProteinGoalG * daysPerWeek,
		GoalFatG:     p.FatGoalG * daysPerWeek,
		Days:         map[string]*model.NutritionSummary{},
	}
	w.CaloriesPct = Percent(w.Totals.Calories, w.GoalCalories)
	w.CarbsPct = Percent(w.Totals.CarbsG, w.GoalCarbsG)
	w.ProteinPct = Percent(w.Totals.ProteinG, w.GoalProteinG)
	w.FatPct = Percent(w.Totals.FatG, w.GoalFatG)

	for i := 0; i < daysPerWeek; i++ {
		day := start.AddDate(0, 0, i)
		if day.After(now) {
			continue
		}
		s, err := DailySummary(day, meals, p)
		if err != nil {
			return nil, err
		}
		w.Days[s.Date] = s
	}
	return w, nil
}
