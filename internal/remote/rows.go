package remote

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"nutiai.com/nutiai-server/internal/models"
)

// Account is the authentication record. Its ID is the user id everywhere else.
type Account struct {
	ID           string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Account) TableName() string { return "accounts" }

func (a *Account) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Profile is keyed by the account id it belongs to.
type Profile struct {
	ID           string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `json:"email"`
	BaseGoal     datatypes.JSON `json:"base_goal,omitempty"`
	ActiveDietID *string        `gorm:"type:varchar(64)" json:"active_diet_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

// Goal decodes the stored base goal, falling back to the default.
func (p *Profile) Goal() models.DailyGoal {
	var goal models.DailyGoal
	if len(p.BaseGoal) == 0 || json.Unmarshal(p.BaseGoal, &goal) != nil {
		return models.DefaultBaseGoal
	}
	return goal
}

type MealRow struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)"`
	UserID    string    `gorm:"index;not null;type:varchar(64)"`
	Name      string    `gorm:"not null"`
	Calories  float64   `gorm:"not null"`
	Protein   float64   `gorm:"not null"`
	Carbs     float64   `gorm:"not null"`
	Fats      float64   `gorm:"not null"`
	Type      string    `gorm:"not null;type:varchar(16)"`
	Date      string    `gorm:"index;not null;type:varchar(10)"`
	CreatedAt time.Time `gorm:"index"`
}

func (MealRow) TableName() string { return "meals" }

func (r *MealRow) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r MealRow) toModel() models.Meal {
	return models.Meal{
		ID:       r.ID,
		Name:     r.Name,
		Calories: r.Calories,
		Protein:  r.Protein,
		Carbs:    r.Carbs,
		Fats:     r.Fats,
		Type:     models.MealType(r.Type),
		Date:     r.Date,
	}
}

type SavedDietRow struct {
	ID        string         `gorm:"primaryKey;type:varchar(64)"`
	UserID    string         `gorm:"index;not null;type:varchar(64)"`
	Name      string         `gorm:"not null"`
	Targets   datatypes.JSON `gorm:"not null"`
	Days      datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"index"`
}

func (SavedDietRow) TableName() string { return "saved_diets" }

func (r *SavedDietRow) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r SavedDietRow) toModel() (models.SavedDiet, error) {
	diet := models.SavedDiet{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}
	if err := json.Unmarshal(r.Targets, &diet.Targets); err != nil {
		return diet, fmt.Errorf("diet %s targets: %w", r.ID, err)
	}
	if err := json.Unmarshal(r.Days, &diet.Days); err != nil {
		return diet, fmt.Errorf("diet %s days: %w", r.ID, err)
	}
	return diet, nil
}

type SavedWorkoutRow struct {
	ID        string         `gorm:"primaryKey;type:varchar(64)"`
	UserID    string         `gorm:"index;not null;type:varchar(64)"`
	Name      string         `gorm:"not null"`
	Goal      string
	Level     string
	Sessions  datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"index"`
}

func (SavedWorkoutRow) TableName() string { return "saved_workouts" }

func (r *SavedWorkoutRow) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r SavedWorkoutRow) toModel() (models.SavedWorkout, error) {
	workout := models.SavedWorkout{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		Goal:      r.Goal,
		Level:     r.Level,
	}
	if err := json.Unmarshal(r.Sessions, &workout.Sessions); err != nil {
		return workout, fmt.Errorf("workout %s sessions: %w", r.ID, err)
	}
	return workout, nil
}
