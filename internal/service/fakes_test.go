package service_test

import (
	"strconv"
	"sync"
	"time"

	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/nutrition"
	"github.com/saadjs/nutri/internal/store"
)

type memProfiles struct {
	mu   sync.Mutex
	byID map[string]model.Profile
	next int
}

func newMemProfiles() *memProfiles {
	return &memProfiles{byID: map[string]model.Profile{}}
}

func (s *memProfiles) Get(id string) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	return &p, nil
}

func (s *memProfiles) Save(p model.Profile) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		s.next++
		p.ID = "profile-" + strconv.Itoa(s.next)
	}
	nutrition.ApplyGoals(&p, time.Now())
	s.byID[p.ID] = p
	return &p, nil
}

func (s *memProfiles) UpdateWeight(id string, weightKg float64) (*model.Profile, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	p.WeightKg = weightKg
	return s.Save(*p)
}

type memMeals struct {
	mu         sync.Mutex
	meals      []model.MealRecord
	err        error
	dayCalls   int
	rangeCalls int
}

func (s *memMeals) add(at time.Time, typ model.MealType, n model.Nutrients) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meals = append(s.meals, model.MealRecord{
		ID:         int64(len(s.meals) + 1),
		Name:       string(typ),
		Type:       typ,
		ConsumedAt: at,
		Totals:     n,
	})
}

func (s *memMeals) GetForDate(date time.Time) ([]model.MealRecord, error) {
	s.mu.Lock()
	s.dayCalls++
	s.mu.Unlock()
	return s.between(date, date)
}

func (s *memMeals) GetForRange(start, end time.Time) ([]model.MealRecord, error) {
	s.mu.Lock()
	s.rangeCalls++
	s.mu.Unlock()
	return s.between(start, end)
}

func (s *memMeals) TotalsForDate(date time.Time) (model.Nutrients, error) {
	meals, err := s.between(date, date)
	if err != nil {
		return model.Nutrients{}, err
	}
	return nutrition.RangeSummary(date, date, meals).Totals, nil
}

func (s *memMeals) TotalsForRange(start, end time.Time) (model.RangeTotals, error) {
	meals, err := s.between(start, end)
	if err != nil {
		return model.RangeTotals{}, err
	}
	return nutrition.RangeSummary(start, end, meals), nil
}

func (s *memMeals) between(start, end time.Time) ([]model.MealRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	from := nutrition.StartOfDay(start)
	_, to := nutrition.DayBounds(end)
	out := make([]model.MealRecord, 0)
	for _, m := range s.meals {
		if !m.ConsumedAt.Before(from) && m.ConsumedAt.Before(to) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memMeals) calls() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dayCalls, s.rangeCalls
}

type memConfig struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemConfig() *memConfig {
	return &memConfig{values: map[string]string{}}
}

func (c *memConfig) Get(key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *memConfig) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
