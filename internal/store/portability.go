package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/saadjs/nutri/internal/model"
)

const exportVersion = 1

// ExportData is the JSON snapshot written by `nutri export`.
type ExportData struct {
	Version    int                `json:"version"`
	ExportedAt time.Time          `json:"exported_at"`
	Profiles   []model.Profile    `json:"profiles"`
	Meals      []model.MealRecord `json:"meals"`
	Config     map[string]string  `json:"config"`
}

type ImportMode string

const (
	ImportModeFail    ImportMode = "fail"
	ImportModeSkip    ImportMode = "skip"
	ImportModeMerge   ImportMode = "merge"
	ImportModeReplace ImportMode = "replace"
)

func ParseImportMode(v string) (ImportMode, error) {
	switch m := ImportMode(strings.ToLower(strings.TrimSpace(v))); m {
	case "":
		return ImportModeMerge, nil
	case ImportModeFail, ImportModeSkip, ImportModeMerge, ImportModeReplace:
		return m, nil
	default:
		return "", fmt.Errorf("invalid import mode %q (use fail, skip, merge, or replace)", v)
	}
}

type ImportOptions struct {
	Mode   ImportMode
	DryRun bool
}

type ImportReport struct {
	Inserted  int  `json:"inserted"`
	Updated   int  `json:"updated"`
	Skipped   int  `json:"skipped"`
	Conflicts int  `json:"conflicts"`
	DryRun    bool `json:"dry_run,omitempty"`
}

// Export reads every profile, meal (with entries), and config value.
func Export(db *sql.DB) (*ExportData, error) {
	out := &ExportData{Version: exportVersion, ExportedAt: time.Now().UTC()}

	ids, err := profileIDs(db)
	if err != nil {
		return nil, err
	}
	profiles := NewProfiles(db)
	out.Profiles = make([]model.Profile, 0, len(ids))
	for _, id := range ids {
		p, err := profiles.Get(id)
		if err != nil {
			return nil, err
		}
		out.Profiles = append(out.Profiles, *p)
	}

	meals := NewMeals(db)
	if out.Meals, err = meals.query(``); err != nil {
		return nil, err
	}
	entries, err := loadEntries(db, `ORDER BY fe.id ASC`)
	if err != nil {
		return nil, err
	}
	byMeal := map[int64][]model.FoodEntry{}
	for _, e := range entries {
		byMeal[e.MealID] = append(byMeal[e.MealID], e)
	}
	for i := range out.Meals {
		out.Meals[i].Entries = byMeal[out.Meals[i].ID]
	}

	if out.Config, err = NewConfig(db).List(); err != nil {
		return nil, err
	}
	return out, nil
}

// Import loads a snapshot in one transaction. Profiles match by ID, meals by
// name, type, and consumed time, config by key.
func Import(db *sql.DB, data *ExportData, opts ImportOptions) (ImportReport, error) {
	report := ImportReport{DryRun: opts.DryRun}
	if data == nil {
		return report, fmt.Errorf("import data is required")
	}
	if data.Version > exportVersion {
		return report, fmt.Errorf("unsupported export version %d", data.Version)
	}
	mode, err := ParseImportMode(string(opts.Mode))
	if err != nil {
		return report, err
	}

	tx, err := db.Begin()
	if err != nil {
		return report, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if mode == ImportModeReplace {
		for _, table := range []string{"food_entries", "meals", "profiles", "app_config"} {
			if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
				return report, fmt.Errorf("clear %s: %w", table, err)
			}
		}
	}

	now := time.Now()
	for _, p := range data.Profiles {
		if strings.TrimSpace(p.ID) == "" {
			return report, fmt.Errorf("imported profile is missing an id")
		}
		exists, err := rowExists(tx, `SELECT 1 FROM profiles WHERE id = ?`, p.ID)
		if err != nil {
			return report, err
		}
		if exists {
			report.Conflicts++
			switch mode {
			case ImportModeFail:
				return report, fmt.Errorf("profile %s already exists", p.ID)
			case ImportModeSkip:
				report.Skipped++
				continue
			}
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = now
		}
		if err := upsertProfile(tx, p); err != nil {
			return report, err
		}
		if exists {
			report.Updated++
		} else {
			report.Inserted++
		}
	}

	for _, m := range data.Meals {
		if err := prepareMeal(&m); err != nil {
			return report, fmt.Errorf("imported meal %q: %w", m.Name, err)
		}
		existing, err := findMealID(tx, m)
		if err != nil {
			return report, err
		}
		if existing > 0 {
			report.Conflicts++
			switch mode {
			case ImportModeFail:
				return report, fmt.Errorf("meal %q at %s already exists", m.Name, formatTimestamp(m.ConsumedAt))
			case ImportModeSkip:
				report.Skipped++
				continue
			}
			if _, err := tx.Exec(`DELETE FROM meals WHERE id = ?`, existing); err != nil {
				return report, fmt.Errorf("replace meal %d: %w", existing, err)
			}
		}
		if _, err := insertMeal(tx, m, now); err != nil {
			return report, err
		}
		if existing > 0 {
			report.Updated++
		} else {
			report.Inserted++
		}
	}

	for key, value := range data.Config {
		exists, err := rowExists(tx, `SELECT 1 FROM app_config WHERE key = ?`, key)
		if err != nil {
			return report, err
		}
		if exists && mode == ImportModeSkip {
			report.Skipped++
			continue
		}
		if _, err := tx.Exec(`
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, value); err != nil {
			return report, fmt.Errorf("import config %q: %w", key, err)
		}
	}

	if opts.DryRun {
		return report, nil
	}
	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("commit import: %w", err)
	}
	return report, nil
}

func profileIDs(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT id FROM profiles ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan profile id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return ids, nil
}

func findMealID(q querier, m model.MealRecord) (int64, error) {
	var id int64
	err := q.QueryRow(`SELECT id FROM meals WHERE name = ? AND meal_type = ? AND consumed_at = ? ORDER BY id ASC LIMIT 1`,
		m.Name, string(m.Type), formatTimestamp(m.ConsumedAt)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("lookup meal %q: %w", m.Name, err)
	}
	return id, nil
}

func rowExists(q querier, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRow(query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check existing row: %w", err)
	}
	return true, nil
}
