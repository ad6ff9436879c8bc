package models

import (
	"math"
	"time"

	"github.com/example/macro-tracker/internal/nutrition"
)

// ServingUnit is the unit a food's serving size is expressed in.
type ServingUnit string

const (
	ServingUnitGram       ServingUnit = "g"
	ServingUnitMilliliter ServingUnit = "ml"
	ServingUnitPiece      ServingUnit = "piece"
	ServingUnitCup        ServingUnit = "cup"
	ServingUnitSheet      ServingUnit = "sheet"
)

// ServingUnits lists every accepted unit.
var ServingUnits = []ServingUnit{
	ServingUnitGram,
	ServingUnitMilliliter,
	ServingUnitPiece,
	ServingUnitCup,
	ServingUnitSheet,
}

// Valid reports whether u is one of the accepted units.
func (u ServingUnit) Valid() bool {
	for _, s := range ServingUnits {
		if u == s {
			return true
		}
	}
	return false
}

// Food is a food master record with per-serving nutrient values.
// A nil UserID marks a shared food visible to every user.
type Food struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Name      string    `gorm:"size:200;not null;index" json:"name"`

	// Per serving.
	nutrition.Nutrients `gorm:"embedded"`

	ServingSize float64     `gorm:"not null" json:"serving_size"`
	ServingUnit ServingUnit `gorm:"size:20;not null" json:"serving_unit"`
	IsDefault   bool        `gorm:"not null;default:false" json:"is_default"`
}

// TableName returns the table name for Food model.
func (Food) TableName() string {
	return "foods"
}

// Owner returns the ownership variant of the food.
func (f *Food) Owner() FoodOwner {
	if f.UserID == nil {
		return SharedFood()
	}
	return OwnedBy(*f.UserID)
}

// FoodOwner is either Shared (no owner, immutable through user calls) or
// Owned by exactly one user.
type FoodOwner struct {
	userID uint
	owned  bool
}

// SharedFood is the owner of foods visible to everyone.
func SharedFood() FoodOwner {
	return FoodOwner{}
}

// OwnedBy is the owner of a user's private food.
func OwnedBy(userID uint) FoodOwner {
	return FoodOwner{userID: userID, owned: true}
}

// Shared reports whether the food belongs to no user.
func (o FoodOwner) Shared() bool {
	return !o.owned
}

// UserID returns the owning user and false for shared foods.
func (o FoodOwner) UserID() (uint, bool) {
	return o.userID, o.owned
}

// VisibleTo reports whether userID may read the food.
func (o FoodOwner) VisibleTo(userID uint) bool {
	return !o.owned || o.userID == userID
}

// OwnedBy reports whether userID owns the food. Shared foods are owned by nobody,
// so they can never be mutated through a user call.
func (o FoodOwner) OwnedBy(userID uint) bool {
	return o.owned && o.userID == userID
}

// UserIDPtr returns the column value for the owner.
func (o FoodOwner) UserIDPtr() *uint {
	if !o.owned {
		return nil
	}
	id := o.userID
	return &id
}

// PFCRatio returns the share of calories coming from protein, fat and
// carbohydrate as whole percentages (4/9/4 kcal per gram).
func (f *Food) PFCRatio() (protein, fat, carbohydrate int) {
	p := f.Protein * 4
	fa := f.Fat * 9
	c := f.Carbohydrate * 4
	total := p + fa + c
	if total <= 0 {
		return 0, 0, 0
	}
	return roundPct(p / total), roundPct(fa / total), roundPct(c / total)
}

func roundPct(share float64) int {
	return int(math.Round(share * 100))
}
