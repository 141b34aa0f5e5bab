package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/nutrition"
)

type Profiles struct {
	db  *sql.DB
	now func() time.Time
}

func NewProfiles(db *sql.DB) *Profiles {
	return &Profiles{db: db, now: time.Now}
}

const profileColumns = `id, age, sex, height_cm, weight_kg, activity_level, weight_goal,
carb_pct, protein_pct, fat_pct, bmr, tdee, daily_calorie_goal, carb_goal_g, protein_goal_g, fat_goal_g,
created_at, updated_at`

func (s *Profiles) Get(id string) (*model.Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrProfileNotFound
	}
	var (
		p                    model.Profile
		createdAt, updatedAt string
	)
	err := s.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id).Scan(
		&p.ID, &p.Age, &p.Sex, &p.HeightCm, &p.WeightKg, &p.ActivityLevel, &p.WeightGoal,
		&p.MacroSplit.CarbsPct, &p.MacroSplit.ProteinPct, &p.MacroSplit.FatPct,
		&p.BMR, &p.TDEE, &p.DailyCalorieGoal, &p.CarbGoalG, &p.ProteinGoalG, &p.FatGoalG,
		&createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", id, err)
	}
	if p.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create saves a new profile under a fresh identifier.
func (s *Profiles) Create(p model.Profile) (string, error) {
	p.ID = ""
	p.CreatedAt = time.Time{}
	saved, err := s.Save(p)
	if err != nil {
		return "", err
	}
	return saved.ID, nil
}

// Save recomputes the profile's goals and upserts it. A profile without an
// ID is assigned a new one.
func (s *Profiles) Save(p model.Profile) (*model.Profile, error) {
	now := s.now()
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	nutrition.ApplyGoals(&p, now)

	if err := upsertProfile(s.db, p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateWeight sets a new weight and recomputes every goal derived from it.
func (s *Profiles) UpdateWeight(id string, weightKg float64) (*model.Profile, error) {
	if weightKg <= 0 {
		return nil, fmt.Errorf("weight must be > 0")
	}
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	p.WeightKg = weightKg
	return s.Save(*p)
}

func (s *Profiles) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for profile %s: %w", id, err)
	}
	if affected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func upsertProfile(ex execer, p model.Profile) error {
	_, err := ex.Exec(`
INSERT INTO profiles(`+profileColumns+`)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  age=excluded.age,
  sex=excluded.sex,
  height_cm=excluded.height_cm,
  weight_kg=excluded.weight_kg,
  activity_level=excluded.activity_level,
  weight_goal=excluded.weight_goal,
  carb_pct=excluded.carb_pct,
  protein_pct=excluded.protein_pct,
  fat_pct=excluded.fat_pct,
  bmr=excluded.bmr,
  tdee=excluded.tdee,
  daily_calorie_goal=excluded.daily_calorie_goal,
  carb_goal_g=excluded.carb_goal_g,
  protein_goal_g=excluded.protein_goal_g,
  fat_goal_g=excluded.fat_goal_g,
  updated_at=excluded.updated_at
`, p.ID, p.Age, string(p.Sex), p.HeightCm, p.WeightKg, string(p.ActivityLevel), string(p.WeightGoal),
		p.MacroSplit.CarbsPct, p.MacroSplit.ProteinPct, p.MacroSplit.FatPct,
		p.BMR, p.TDEE, p.DailyCalorieGoal, p.CarbGoalG, p.ProteinGoalG, p.FatGoalG,
		formatTimestamp(p.CreatedAt), formatTimestamp(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save profile %s: %w", p.ID, err)
	}
	return nil
}
