package models

import (
	"time"

	"github.com/example/macro-tracker/internal/nutrition"
)

// MealType represents the type of meal.
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// MealTypes lists the meal types in display order.
var MealTypes = []MealType{MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack}

// Valid reports whether t is a known meal type.
func (t MealType) Valid() bool {
	return t.Order() >= 0
}

// Order is the position of t in MealTypes, or -1.
func (t MealType) Order() int {
	for i, m := range MealTypes {
		if m == t {
			return i
		}
	}
	return -1
}

// MealRecord is one meal eaten by a user on a calendar day.
type MealRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	UserID     uint      `gorm:"not null;index:idx_meal_user_date" json:"user_id"`
	RecordDate time.Time `gorm:"type:date;not null;index:idx_meal_user_date" json:"record_date"`
	MealType   MealType  `gorm:"size:20;not null" json:"meal_type"`
	Memo       string    `gorm:"size:500" json:"memo,omitempty"`

	// Relationships
	Items []MealItem `gorm:"foreignKey:MealRecordID;constraint:OnDelete:CASCADE" json:"items"`
}

// TableName returns the table name for MealRecord model.
func (MealRecord) TableName() string {
	return "meal_records"
}

// Totals sums the stored item snapshots.
func (m *MealRecord) Totals() nutrition.Nutrients {
	values := make([]nutrition.Nutrients, len(m.Items))
	for i, item := range m.Items {
		values[i] = item.Nutrients
	}
	return nutrition.Sum(values...)
}

// MealItem is one food/quantity line of a meal record. Its nutrients are a
// snapshot taken when the item was written and are never recomputed from Food.
type MealItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MealRecordID uint      `gorm:"not null;index" json:"meal_record_id"`
	FoodID       uint      `gorm:"not null;index" json:"food_id"`
	Quantity     float64   `gorm:"not null" json:"quantity"`

	nutrition.Nutrients `gorm:"embedded"`

	// Relationships
	Food *Food `gorm:"foreignKey:FoodID;constraint:OnDelete:RESTRICT" json:"food,omitempty"`
}

// TableName returns the table name for MealItem model.
func (MealItem) TableName() string {
	return "meal_items"
}

// NewMealItem snapshots the food's nutrients scaled by quantity.
func NewMealItem(food *Food, quantity float64) MealItem {
	return MealItem{
		FoodID:    food.ID,
		Quantity:  quantity,
		Nutrients: nutrition.Scale(food.Nutrients, quantity),
	}
}
