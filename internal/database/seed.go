package database

import (
	"fmt"

	"github.com/example/macro-tracker/internal/models"
	"github.com/example/macro-tracker/internal/nutrition"
	"gorm.io/gorm"
)

func defaultFood(name string, n nutrition.Nutrients, size float64, unit models.ServingUnit) models.Food {
	return models.Food{
		Name:        name,
		Nutrients:   n,
		ServingSize: size,
		ServingUnit: unit,
		IsDefault:   true,
	}
}

// DefaultFoods is the shared catalogue every user can log against.
func DefaultFoods() []models.Food {
	return []models.Food{
		defaultFood("White rice (cooked)", nutrition.Nutrients{Calories: 234, Protein: 3.75, Fat: 0.45, Carbohydrate: 55.65}, 150, models.ServingUnitGram),
		defaultFood("Whole wheat bread", nutrition.Nutrients{Calories: 74, Protein: 3.6, Fat: 1, Carbohydrate: 12.6}, 1, models.ServingUnitSheet),
		defaultFood("Egg", nutrition.Nutrients{Calories: 76, Protein: 6.2, Fat: 5.2, Carbohydrate: 0.2}, 1, models.ServingUnitPiece),
		defaultFood("Chicken breast (skinless)", nutrition.Nutrients{Calories: 105, Protein: 23.3, Fat: 1.9, Carbohydrate: 0}, 100, models.ServingUnitGram),
		defaultFood("Salmon", nutrition.Nutrients{Calories: 133, Protein: 22.3, Fat: 4.1, Carbohydrate: 0.1}, 100, models.ServingUnitGram),
		defaultFood("Tofu (firm)", nutrition.Nutrients{Calories: 72, Protein: 6.6, Fat: 4.2, Carbohydrate: 1.6}, 100, models.ServingUnitGram),
		defaultFood("Natto", nutrition.Nutrients{Calories: 100, Protein: 8.3, Fat: 5, Carbohydrate: 5.4}, 50, models.ServingUnitGram),
		defaultFood("Milk", nutrition.Nutrients{Calories: 134, Protein: 6.6, Fat: 7.6, Carbohydrate: 9.6}, 200, models.ServingUnitMilliliter),
		defaultFood("Plain yogurt", nutrition.Nutrients{Calories: 62, Protein: 3.6, Fat: 3, Carbohydrate: 4.9}, 100, models.ServingUnitGram),
		defaultFood("Banana", nutrition.Nutrients{Calories: 86, Protein: 1.1, Fat: 0.2, Carbohydrate: 22.5}, 1, models.ServingUnitPiece),
		defaultFood("Oatmeal", nutrition.Nutrients{Calories: 114, Protein: 4.1, Fat: 1.7, Carbohydrate: 20.7}, 30, models.ServingUnitGram),
		defaultFood("Miso soup", nutrition.Nutrients{Calories: 40, Protein: 2.5, Fat: 1.2, Carbohydrate: 4.5}, 1, models.ServingUnitCup),
		defaultFood("Nori", nutrition.Nutrients{Calories: 6, Protein: 1.2, Fat: 0.1, Carbohydrate: 1.3}, 1, models.ServingUnitSheet),
		defaultFood("Protein shake", nutrition.Nutrients{Calories: 113, Protein: 21, Fat: 1.5, Carbohydrate: 3.5}, 1, models.ServingUnitCup),
	}
}

// SeedDefaultFoods inserts the shared catalogue once. It is a no-op when
// any default food already exists.
func SeedDefaultFoods(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&models.Food{}).
		Where("user_id IS NULL AND is_default = ?", true).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count default foods: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	foods := DefaultFoods()
	if err := db.CreateInBatches(&foods, 50).Error; err != nil {
		return 0, fmt.Errorf("failed to seed default foods: %w", err)
	}
	return len(foods), nil
}
