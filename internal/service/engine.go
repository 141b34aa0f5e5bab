// Package service is the caller-facing nutrition engine. It turns stored
// profiles and meals into cached summaries and recommendations.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/saadjs/nutri/internal/cache"
	"github.com/saadjs/nutri/internal/logger"
	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/nutrition"
	"github.com/saadjs/nutri/internal/store"
)

type ProfileStore interface {
	Get(id string) (*model.Profile, error)
	Save(p model.Profile) (*model.Profile, error)
	UpdateWeight(id string, weightKg float64) (*model.Profile, error)
}

type MealStore interface {
	GetForDate(date time.Time) ([]model.MealRecord, error)
	GetForRange(start, end time.Time) ([]model.MealRecord, error)
	TotalsForDate(date time.Time) (model.Nutrients, error)
	TotalsForRange(start, end time.Time) (model.RangeTotals, error)
}

type ConfigStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Engine serializes profile edits and serves summaries through a
// SummaryCache. The active profile is looked up by identifier on every load.
type Engine struct {
	profiles ProfileStore
	meals    MealStore
	config   ConfigStore
	now      func() time.Time
	cache    *cache.SummaryCache
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func New(profiles ProfileStore, meals MealStore, config ConfigStore, opts ...Option) *Engine {
	e := &Engine{
		profiles: profiles,
		meals:    meals,
		config:   config,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cache = cache.New(loader{e: e}, cache.WithClock(e.now))
	return e
}

// DailySummary returns the summary for date's calendar day.
func (e *Engine) DailySummary(date time.Time) (*model.NutritionSummary, error) {
	return e.cache.Daily(date)
}

// WeeklySummary returns the summary for the seven days ending on endDate.
func (e *Engine) WeeklySummary(endDate time.Time) (*model.WeeklyNutritionSummary, error) {
	return e.cache.Weekly(endDate)
}

// RefreshCache drops every cached summary and reloads today's.
func (e *Engine) RefreshCache() error {
	logger.Debug("refreshing summary cache")
	return e.cache.Refresh()
}

// EvictDate forgets cached summaries covering date. Call after writing meals
// for that day.
func (e *Engine) EvictDate(date time.Time) {
	e.cache.Evict(date)
}

func (e *Engine) Recommendations(date time.Time) ([]model.MealRecommendation, error) {
	s, err := e.DailySummary(date)
	if err != nil {
		return nil, err
	}
	return nutrition.Recommend(s), nil
}

// RangeTotals sums stored meal totals over whole calendar days. It does not
// need a profile.
func (e *Engine) RangeTotals(start, end time.Time) (model.RangeTotals, error) {
	if nutrition.StartOfDay(end).Before(nutrition.StartOfDay(start)) {
		return model.RangeTotals{}, fmt.Errorf("range end %s is before start %s", nutrition.DayKey(end), nutrition.DayKey(start))
	}
	totals, err := e.meals.TotalsForRange(start, end)
	if err != nil {
		return model.RangeTotals{}, nutrition.WrapStore("totals for range", err)
	}
	return totals, nil
}

// Profile returns the active profile or ErrGoalsUnavailable.
func (e *Engine) Profile() (*model.Profile, error) {
	id, ok, err := e.config.Get(store.ConfigActiveProfile)
	if err != nil {
		return nil, nutrition.WrapStore("get active profile", err)
	}
	if !ok || id == "" {
		return nil, nutrition.ErrGoalsUnavailable
	}
	p, err := e.profiles.Get(id)
	if errors.Is(err, store.ErrProfileNotFound) {
		return nil, nutrition.ErrGoalsUnavailable
	}
	if err != nil {
		return nil, nutrition.WrapStore("get profile", err)
	}
	return p, nil
}

// loader computes summaries for the cache from the stores.
type loader struct {
	e *Engine
}

func (l loader) Daily(date time.Time) (*model.NutritionSummary, error) {
	p, err := l.e.Profile()
	if err != nil {
		return nil, err
	}
	meals, err := l.e.meals.GetForDate(date)
	if err != nil {
		logger.Error("load meals for day failed", "date", nutrition.DayKey(date), "err", err)
		return nil, nutrition.WrapStore("get meals for date", err)
	}
	logger.Debug("computed daily summary", "date", nutrition.DayKey(date), "meals", len(meals))
	return nutrition.DailySummary(date, meals, p)
}

func (l loader) Weekly(endDate time.Time) (*model.WeeklyNutritionSummary, error) {
	p, err := l.e.Profile()
	if err != nil {
		return nil, err
	}
	end := nutrition.StartOfDay(endDate)
	start := end.AddDate(0, 0, -6)
	meals, err := l.e.meals.GetForRange(start, end)
	if err != nil {
		logger.Error("load meals for week failed", "end", nutrition.DayKey(end), "err", err)
		return nil, nutrition.WrapStore("get meals for range", err)
	}
	logger.Debug("computed weekly summary", "end", nutrition.DayKey(end), "meals", len(meals))
	return nutrition.WeeklySummary(endDate, l.e.now(), meals, p)
}
