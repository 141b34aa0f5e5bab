package model

import (
	"fmt"
	"strings"
)

type Sex string

const (
	SexMale        Sex = "male"
	SexFemale      Sex = "female"
	SexUnspecified Sex = "unspecified"
)

func ParseSex(v string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "male", "m":
		return SexMale, nil
	case "female", "f":
		return SexFemale, nil
	case "", "other", "unspecified":
		return SexUnspecified, nil
	default:
		return "", fmt.Errorf("invalid sex %q (use male, female, or other)", v)
	}
}

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// activityMultipliers is the only place a level gets its TDEE factor.
// A level missing here fails ParseActivityLevel.
var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

func (a ActivityLevel) Multiplier() float64 {
	if m, ok := activityMultipliers[a]; ok {
		return m
	}
	return activityMultipliers[ActivitySedentary]
}

func ActivityLevels() []ActivityLevel {
	return []ActivityLevel{ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive}
}

func ParseActivityLevel(v string) (ActivityLevel, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v)), "-", "_")
	level := ActivityLevel(key)
	if _, ok := activityMultipliers[level]; !ok {
		return "", fmt.Errorf("invalid activity level %q (use sedentary, light, moderate, active, or very_active)", v)
	}
	return level, nil
}

type WeightGoal string

const (
	GoalLose     WeightGoal = "lose"
	GoalMaintain WeightGoal = "maintain"
	GoalGain     WeightGoal = "gain"
)

var weightGoalDeltas = map[WeightGoal]float64{
	GoalLose:     -500,
	GoalMaintain: 0,
	GoalGain:     500,
}

func (g WeightGoal) CalorieDelta() float64 {
	return weightGoalDeltas[g]
}

func ParseWeightGoal(v string) (WeightGoal, error) {
	goal := WeightGoal(strings.ToLower(strings.TrimSpace(v)))
	if _, ok := weightGoalDeltas[goal]; !ok {
		return "", fmt.Errorf("invalid weight goal %q (use lose, maintain, or gain)", v)
	}
	return goal, nil
}

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
	MealOther     MealType = "other"
)

func MealTypes() []MealType {
	return []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack, MealOther}
}

func ParseMealType(v string) (MealType, error) {
	t := MealType(strings.ToLower(strings.TrimSpace(v)))
	if t == "snacks" {
		t = MealSnack
	}
	for _, known := range MealTypes() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid meal type %q (use breakfast, lunch, dinner, snack, or other)", v)
}

type FoodSource string

const (
	SourceCustom  FoodSource = "custom"
	SourceCatalog FoodSource = "catalog"
	SourceScanned FoodSource = "scanned"
)

func ParseFoodSource(v string) (FoodSource, error) {
	switch s := FoodSource(strings.ToLower(strings.TrimSpace(v))); s {
	case "":
		return SourceCustom, nil
	case SourceCustom, SourceCatalog, SourceScanned:
		return s, nil
	default:
		return "", fmt.Errorf("invalid food source %q (use custom, catalog, or scanned)", v)
	}
}
