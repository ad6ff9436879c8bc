package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/macro-tracker/internal/models"
	"github.com/example/macro-tracker/internal/nutrition"
	"github.com/example/macro-tracker/internal/repository"
	"gorm.io/gorm"
)

// FoodService enforces food visibility and ownership rules.
type FoodService struct {
	db       *gorm.DB
	foodRepo *repository.FoodRepository
}

// NewFoodService creates a new FoodService.
func NewFoodService(db *gorm.DB) *FoodService {
	return &FoodService{
		db:       db,
		foodRepo: repository.NewFoodRepository(db),
	}
}

// ListFoodsQuery holds food list query parameters.
type ListFoodsQuery struct {
	Q     string `form:"q"`
	Page  int    `form:"page,default=1" binding:"min=1"`
	Limit int    `form:"limit,default=20" binding:"min=1,max=100"`
}

// CreateFoodRequest contains the per-serving values of a new food.
type CreateFoodRequest struct {
	Name         string             `json:"name" binding:"required,max=200"`
	Calories     *float64           `json:"calories" binding:"required,min=0,max=99999.99"`
	Protein      *float64           `json:"protein" binding:"required,min=0,max=99999.99"`
	Fat          *float64           `json:"fat" binding:"required,min=0,max=99999.99"`
	Carbohydrate *float64           `json:"carbohydrate" binding:"required,min=0,max=99999.99"`
	ServingSize  *float64           `json:"serving_size" binding:"required,min=0.01,max=99999.99"`
	ServingUnit  models.ServingUnit `json:"serving_unit" binding:"required,serving_unit"`
}

// UpdateFoodRequest is a partial food update.
type UpdateFoodRequest struct {
	Name         *string             `json:"name" binding:"omitempty,min=1,max=200"`
	Calories     *float64            `json:"calories" binding:"omitempty,min=0,max=99999.99"`
	Protein      *float64            `json:"protein" binding:"omitempty,min=0,max=99999.99"`
	Fat          *float64            `json:"fat" binding:"omitempty,min=0,max=99999.99"`
	Carbohydrate *float64            `json:"carbohydrate" binding:"omitempty,min=0,max=99999.99"`
	ServingSize  *float64            `json:"serving_size" binding:"omitempty,min=0.01,max=99999.99"`
	ServingUnit  *models.ServingUnit `json:"serving_unit" binding:"omitempty,serving_unit"`
}

func (r UpdateFoodRequest) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.Name != nil {
		fields["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Calories != nil {
		fields["calories"] = *r.Calories
	}
	if r.Protein != nil {
		fields["protein"] = *r.Protein
	}
	if r.Fat != nil {
		fields["fat"] = *r.Fat
	}
	if r.Carbohydrate != nil {
		fields["carbohydrate"] = *r.Carbohydrate
	}
	if r.ServingSize != nil {
		fields["serving_size"] = *r.ServingSize
	}
	if r.ServingUnit != nil {
		fields["serving_unit"] = *r.ServingUnit
	}
	return fields
}

// Pagination describes one page of a list.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
	Limit       int   `json:"limit"`
}

// NewPagination computes page metadata.
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{CurrentPage: page, TotalPages: pages, TotalCount: total, Limit: limit}
}

// FoodPage is a page of visible foods.
type FoodPage struct {
	Foods      []models.Food `json:"foods"`
	Pagination Pagination    `json:"pagination"`
}

// List returns the foods visible to the user.
func (s *FoodService) List(ctx context.Context, userID uint, q ListFoodsQuery) (*FoodPage, error) {
	foods, total, err := s.foodRepo.ListVisible(ctx, repository.FoodFilter{
		UserID: userID,
		Query:  q.Q,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list foods: %w", err)
	}
	if foods == nil {
		foods = []models.Food{}
	}
	return &FoodPage{Foods: foods, Pagination: NewPagination(q.Page, q.Limit, total)}, nil
}

// Create registers a food owned by the user.
func (s *FoodService) Create(ctx context.Context, userID uint, req CreateFoodRequest) (*models.Food, error) {
	food := &models.Food{
		UserID: models.OwnedBy(userID).UserIDPtr(),
		Name:   strings.TrimSpace(req.Name),
		Nutrients: nutrition.Nutrients{
			Calories:     *req.Calories,
			Protein:      *req.Protein,
			Fat:          *req.Fat,
			Carbohydrate: *req.Carbohydrate,
		},
		ServingSize: *req.ServingSize,
		ServingUnit: req.ServingUnit,
		IsDefault:   false,
	}
	if food.Name == "" {
		return nil, NewValidationError("name is required")
	}
	if err := s.foodRepo.Create(ctx, food); err != nil {
		return nil, fmt.Errorf("failed to create food: %w", err)
	}
	return food, nil
}

// Get returns a food visible to the user.
func (s *FoodService) Get(ctx context.Context, userID, foodID uint) (*models.Food, error) {
	food, err := s.load(ctx, s.foodRepo, foodID)
	if err != nil {
		return nil, err
	}
	if !food.Owner().VisibleTo(userID) {
		return nil, ErrFoodForbidden
	}
	return food, nil
}

// Update applies a partial update to a food the user owns.
func (s *FoodService) Update(ctx context.Context, userID, foodID uint, req UpdateFoodRequest) (*models.Food, error) {
	food, err := s.load(ctx, s.foodRepo, foodID)
	if err != nil {
		return nil, err
	}
	if err := authorizeFoodMutation(food, userID); err != nil {
		return nil, err
	}

	fields := req.fields()
	if name, ok := fields["name"].(string); ok && name == "" {
		return nil, NewValidationError("name is required")
	}

	updated, err := s.foodRepo.UpdateFields(ctx, foodID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update food: %w", err)
	}
	return updated, nil
}

// Delete removes a food the user owns that no meal item references.
func (s *FoodService) Delete(ctx context.Context, userID, foodID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		foods := repository.NewFoodRepository(tx)

		food, err := s.load(ctx, foods, foodID)
		if err != nil {
			return err
		}
		if err := authorizeFoodMutation(food, userID); err != nil {
			return err
		}

		refs, err := foods.CountReferences(ctx, foodID)
		if err != nil {
			return fmt.Errorf("failed to count food references: %w", err)
		}
		if refs > 0 {
			return ErrFoodInUse
		}

		if err := foods.Delete(ctx, foodID); err != nil {
			return fmt.Errorf("failed to delete food: %w", err)
		}
		return nil
	})
}

func (s *FoodService) load(ctx context.Context, foods *repository.FoodRepository, id uint) (*models.Food, error) {
	food, err := foods.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFoodNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, fmt.Errorf("failed to load food: %w", err)
	}
	return food, nil
}

// authorizeFoodMutation checks ownership first; shared foods are owned by
// nobody and always fail here. The default flag is checked second.
func authorizeFoodMutation(food *models.Food, userID uint) error {
	if !food.Owner().OwnedBy(userID) {
		return ErrFoodForbidden
	}
	if food.IsDefault {
		return ErrDefaultFoodImmutable
	}
	return nil
}
