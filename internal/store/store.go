// Package store persists profiles, meals, and food entries in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/saadjs/nutri/internal/nutrition"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrMealNotFound    = errors.New("meal not found")
	ErrFoodNotFound    = errors.New("food not found")
)

// Timestamps are stored in UTC with a fixed-width layout so string
// comparison in SQL matches chronological order.
const timestampLayout = "2006-01-02T15:04:05.000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(raw string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", raw, err)
	}
	return t.In(time.Local), nil
}

func dayRange(start, end time.Time) (string, string) {
	from := nutrition.StartOfDay(start)
	_, to := nutrition.DayBounds(end)
	return formatTimestamp(from), formatTimestamp(to)
}

func validateNonNegative(name string, value float64) error {
	if value < 0 {
		return fmt.Errorf("%s must be >= 0", name)
	}
	return nil
}

func validateOptional(name string, value *float64) error {
	if value == nil {
		return nil
	}
	return validateNonNegative(name, *value)
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}
