// Package cache keeps derived nutrition summaries for the lifetime of a session.
package cache

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/saadjs/nutri/internal/logger"
	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/nutrition"
)

// WeeklyStaleAfter is how long a cached weekly summary stays usable.
const WeeklyStaleAfter = time.Hour

type Loader interface {
	Daily(date time.Time) (*model.NutritionSummary, error)
	Weekly(endDate time.Time) (*model.WeeklyNutritionSummary, error)
}

// SummaryCache holds one daily summary per calendar date and a single weekly
// slot. Cached values are shared snapshots and must not be mutated by callers;
// writes to meals do not reach them until Refresh or Evict.
type SummaryCache struct {
	loader Loader
	now    func() time.Time
	group  singleflight.Group

	mu                sync.Mutex
	gen               uint64
	daily             map[string]*model.NutritionSummary
	weekly            *model.WeeklyNutritionSummary
	weeklyEnd         time.Time
	weeklyRefreshedAt time.Time
}

type Option func(*SummaryCache)

func WithClock(now func() time.Time) Option {
	return func(c *SummaryCache) {
		c.now = now
	}
}

func New(loader Loader, opts ...Option) *SummaryCache {
	c := &SummaryCache{
		loader: loader,
		now:    time.Now,
		daily:  map[string]*model.NutritionSummary{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Daily returns the cached summary for date's calendar day, loading it on a
// miss. Daily entries never expire on their own.
func (c *SummaryCache) Daily(date time.Time) (*model.NutritionSummary, error) {
	key := nutrition.DayKey(date)

	c.mu.Lock()
	if s, ok := c.daily[key]; ok {
		c.mu.Unlock()
		logger.Debug("daily summary cache hit", "date", key)
		return s, nil
	}
	gen := c.gen
	c.mu.Unlock()

	logger.Debug("daily summary cache miss", "date", key)
	v, err, _ := c.group.Do(fmt.Sprintf("daily:%s#%d", key, gen), func() (interface{}, error) {
		s, err := c.loader.Daily(date)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.daily[key] = s
		}
		c.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.NutritionSummary), nil
}

// Weekly returns the cached weekly summary when it ends on the same calendar
// day as endDate and is younger than WeeklyStaleAfter. Otherwise it reloads
// and replaces the slot.
func (c *SummaryCache) Weekly(endDate time.Time) (*model.WeeklyNutritionSummary, error) {
	key := nutrition.DayKey(endDate)

	c.mu.Lock()
	if c.weekly != nil && nutrition.SameDay(c.weeklyEnd, endDate) && c.now().Sub(c.weeklyRefreshedAt) < WeeklyStaleAfter {
		w := c.weekly
		c.mu.Unlock()
		logger.Debug("weekly summary cache hit", "end", key)
		return w, nil
	}
	gen := c.gen
	c.mu.Unlock()

	logger.Debug("weekly summary cache miss", "end", key)
	v, err, _ := c.group.Do(fmt.Sprintf("weekly:%s#%d", key, gen), func() (interface{}, error) {
		w, err := c.loader.Weekly(endDate)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.weekly = w
			c.weeklyEnd = endDate
			c.weeklyRefreshedAt = c.now()
		}
		c.mu.Unlock()
		return w, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.WeeklyNutritionSummary), nil
}

// Refresh drops everything, then reloads today's daily entry and the weekly
// summary ending today.
func (c *SummaryCache) Refresh() error {
	c.Clear()
	today := c.now()
	if _, err := c.Daily(today); err != nil {
		return err
	}
	if _, err := c.Weekly(today); err != nil {
		return err
	}
	return nil
}

func (c *SummaryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.daily = map[string]*model.NutritionSummary{}
	c.weekly = nil
	c.weeklyEnd = time.Time{}
	c.weeklyRefreshedAt = time.Time{}
}

// Evict forgets date's daily entry and, if date falls inside it, the weekly slot.
func (c *SummaryCache) Evict(date time.Time) {
	key := nutrition.DayKey(date)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	delete(c.daily, key)
	if c.weekly != nil && key >= c.weekly.StartDate && key <= c.weekly.EndDate {
		c.weekly = nil
		c.weeklyEnd = time.Time{}
		c.weeklyRefreshedAt = time.Time{}
	}
}

func (c *SummaryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.daily)
}
