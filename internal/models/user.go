package models

import (
	"time"

	"github.com/example/macro-tracker/internal/nutrition"
)

// Default daily targets applied when a user has not set their own.
const (
	DefaultCalorieTarget = 2000
	DefaultProteinTarget = 60
	DefaultFatTarget     = 55
	DefaultCarbTarget    = 300
)

// User represents a registered user with personal daily macro targets.
type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	Email              string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash       string    `gorm:"size:255;not null" json:"-"`
	Name               string    `gorm:"size:100;not null" json:"name"`
	DailyCalorieTarget int       `gorm:"default:2000" json:"daily_calorie_target"`
	DailyProteinTarget int       `gorm:"default:60" json:"daily_protein_target"`
	DailyFatTarget     int       `gorm:"default:55" json:"daily_fat_target"`
	DailyCarbTarget    int       `gorm:"default:300" json:"daily_carb_target"`

	// Relationships
	Foods       []Food       `gorm:"foreignKey:UserID" json:"-"`
	MealRecords []MealRecord `gorm:"foreignKey:UserID" json:"-"`
}

// TableName returns the table name for User model.
func (User) TableName() string {
	return "users"
}

// ApplyDefaultTargets fills unset targets with the defaults.
func (u *User) ApplyDefaultTargets() {
	if u.DailyCalorieTarget <= 0 {
		u.DailyCalorieTarget = DefaultCalorieTarget
	}
	if u.DailyProteinTarget <= 0 {
		u.DailyProteinTarget = DefaultProteinTarget
	}
	if u.DailyFatTarget <= 0 {
		u.DailyFatTarget = DefaultFatTarget
	}
	if u.DailyCarbTarget <= 0 {
		u.DailyCarbTarget = DefaultCarbTarget
	}
}

// Targets returns the user's daily targets as a nutrient quadruple.
func (u *User) Targets() nutrition.Nutrients {
	t := *u
	t.ApplyDefaultTargets()
	return nutrition.Nutrients{
		Calories:     float64(t.DailyCalorieTarget),
		Protein:      float64(t.DailyProteinTarget),
		Fat:          float64(t.DailyFatTarget),
		Carbohydrate: float64(t.DailyCarbTarget),
	}
}
