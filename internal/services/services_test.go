package services

import (
	"context"
	"testing"
	"time"

	"github.com/example/macro-tracker/internal/database/dbtest"
	"github.com/example/macro-tracker/internal/models"
	"github.com/example/macro-tracker/internal/nutrition"
	"github.com/example/macro-tracker/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var ctx = context.Background()

type fixture struct {
	db      *gorm.DB
	auth    *AuthService
	users   *UserService
	foods   *FoodService
	meals   *MealService
	summary *SummaryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	userRepo := repository.NewUserRepository(db)
	auth := NewAuthService(userRepo, "test-secret", time.Hour)
	auth.bcryptCost = 4
	return &fixture{
		db:      db,
		auth:    auth,
		users:   NewUserService(userRepo),
		foods:   NewFoodService(db),
		meals:   NewMealService(db),
		summary: NewSummaryService(userRepo, repository.NewMealRepository(db)),
	}
}

func (f *fixture) register(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.auth.Register(ctx, RegisterRequest{
		Name:            "User",
		Email:           email,
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	require.NoError(t, err)
	return u
}

func f64(v float64) *float64 { return &v }

func (f *fixture) ownFood(t *testing.T, userID uint, name string, n nutrition.Nutrients) *models.Food {
	t.Helper()
	food, err := f.foods.Create(ctx, userID, CreateFoodRequest{
		Name:         name,
		Calories:     f64(n.Calories),
		Protein:      f64(n.Protein),
		Fat:          f64(n.Fat),
		Carbohydrate: f64(n.Carbohydrate),
		ServingSize:  f64(100),
		ServingUnit:  models.ServingUnitGram,
	})
	require.NoError(t, err)
	return food
}

func (f *fixture) sharedFood(t *testing.T, name string, n nutrition.Nutrients, isDefault bool) *models.Food {
	t.Helper()
	food := &models.Food{
		Name:        name,
		Nutrients:   n,
		ServingSize: 1,
		ServingUnit: models.ServingUnitPiece,
		IsDefault:   isDefault,
	}
	require.NoError(t, f.db.Create(food).Error)
	return food
}

func (f *fixture) meal(t *testing.T, userID uint, date string, mt models.MealType, items ...MealItemInput) *models.MealRecord {
	t.Helper()
	m, err := f.meals.Create(ctx, userID, CreateMealRequest{
		RecordDate: date,
		MealType:   mt,
		Items:      items,
	})
	require.NoError(t, err)
	return m
}
