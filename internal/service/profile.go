package service

import (
	"errors"
	"fmt"

	"github.com/saadjs/nutri/internal/logger"
	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/nutrition"
	"github.com/saadjs/nutri/internal/store"
)

// ProfileInput is raw profile data as a user types it. Units default to
// kg and cm; the split may be percentages or fractions in any proportion.
type ProfileInput struct {
	Age           int
	Sex           string
	Height        float64
	HeightUnit    string
	Weight        float64
	WeightUnit    string
	ActivityLevel string
	WeightGoal    string
	CarbsPct      float64
	ProteinPct    float64
	FatPct        float64
}

func (in ProfileInput) toProfile() (model.Profile, error) {
	if in.Age <= 0 || in.Age > 130 {
		return model.Profile{}, fmt.Errorf("age must be between 1 and 130")
	}
	sex, err := model.ParseSex(in.Sex)
	if err != nil {
		return model.Profile{}, err
	}
	level, err := model.ParseActivityLevel(in.ActivityLevel)
	if err != nil {
		return model.Profile{}, err
	}
	goal, err := model.ParseWeightGoal(in.WeightGoal)
	if err != nil {
		return model.Profile{}, err
	}
	heightCm, err := ConvertHeightToCm(in.Height, in.HeightUnit)
	if err != nil {
		return model.Profile{}, err
	}
	weightKg, err := ConvertWeightToKg(in.Weight, in.WeightUnit)
	if err != nil {
		return model.Profile{}, err
	}
	shares := []struct {
		name  string
		value float64
	}{
		{"carbs", in.CarbsPct},
		{"protein", in.ProteinPct},
		{"fat", in.FatPct},
	}
	for _, s := range shares {
		if s.value < 0 {
			return model.Profile{}, fmt.Errorf("%s share must be >= 0", s.name)
		}
	}
	return model.Profile{
		Age:           in.Age,
		Sex:           sex,
		HeightCm:      heightCm,
		WeightKg:      weightKg,
		ActivityLevel: level,
		WeightGoal:    goal,
		MacroSplit: model.MacroSplit{
			CarbsPct:   in.CarbsPct,
			ProteinPct: in.ProteinPct,
			FatPct:     in.FatPct,
		},
	}, nil
}

func checkGoals(p model.Profile) error {
	g := nutrition.ComputeGoals(p)
	if g.DailyCalorieGoal <= 0 {
		return fmt.Errorf("%w: daily calorie goal would be %.0f kcal", nutrition.ErrInvalidGoalConfiguration, g.DailyCalorieGoal)
	}
	return nil
}

// SetProfile validates in, saves it over the active profile (or as a new
// one), and makes it active. Every cached summary is dropped.
func (e *Engine) SetProfile(in ProfileInput) (*model.Profile, error) {
	p, err := in.toProfile()
	if err != nil {
		return nil, err
	}
	if err := checkGoals(p); err != nil {
		return nil, err
	}
	if current, err := e.Profile(); err == nil {
		p.ID = current.ID
		p.CreatedAt = current.CreatedAt
	} else if !errors.Is(err, nutrition.ErrGoalsUnavailable) {
		return nil, err
	}

	saved, err := e.profiles.Save(p)
	if err != nil {
		return nil, nutrition.WrapStore("save profile", err)
	}
	if err := e.config.Set(store.ConfigActiveProfile, saved.ID); err != nil {
		return nil, nutrition.WrapStore("set active profile", err)
	}
	e.cache.Clear()
	logger.Info("profile saved", "id", saved.ID, "calorie_goal", saved.DailyCalorieGoal)
	return saved, nil
}

// UpdateWeight records a new weight for the active profile. Goals are
// recomputed by the store.
func (e *Engine) UpdateWeight(value float64, unit string) (*model.Profile, error) {
	kg, err := ConvertWeightToKg(value, unit)
	if err != nil {
		return nil, err
	}
	current, err := e.Profile()
	if err != nil {
		return nil, err
	}
	next := *current
	next.WeightKg = kg
	if err := checkGoals(next); err != nil {
		return nil, err
	}
	updated, err := e.profiles.UpdateWeight(current.ID, kg)
	if err != nil {
		return nil, nutrition.WrapStore("update weight", err)
	}
	e.cache.Clear()
	logger.Info("weight updated", "id", updated.ID, "weight_kg", kg, "calorie_goal", updated.DailyCalorieGoal)
	return updated, nil
}
