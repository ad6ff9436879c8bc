package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/macro-tracker/internal/models"
	"github.com/example/macro-tracker/internal/nutrition"
	"github.com/example/macro-tracker/internal/repository"
	"gorm.io/gorm"
)

// MealService records meals with frozen nutrient snapshots.
type MealService struct {
	db       *gorm.DB
	mealRepo *repository.MealRepository
}

// NewMealService creates a new MealService.
func NewMealService(db *gorm.DB) *MealService {
	return &MealService{
		db:       db,
		mealRepo: repository.NewMealRepository(db),
	}
}

const maxQuantity = 99999.99

// MealItemInput is one food/quantity line of a request.
type MealItemInput struct {
	FoodID   uint    `json:"food_id" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required,min=0.1,max=99999.99"`
}

// CreateMealRequest contains a new meal record and its items.
type CreateMealRequest struct {
	RecordDate string          `json:"record_date" binding:"required,datetime=2006-01-02"`
	MealType   models.MealType `json:"meal_type" binding:"required,meal_type"`
	Memo       *string         `json:"memo" binding:"omitempty,max=500"`
	Items      []MealItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdateMealRequest changes scalar fields and, when Items is present,
// replaces the whole item set.
type UpdateMealRequest struct {
	MealType *models.MealType `json:"meal_type" binding:"omitempty,meal_type"`
	Memo     *string          `json:"memo" binding:"omitempty,max=500"`
	Items    []MealItemInput  `json:"items" binding:"omitempty,min=1,dive"`
}

// ListMealsQuery holds meal list filters. Date wins over the range.
type ListMealsQuery struct {
	Date      string          `form:"date" binding:"omitempty,datetime=2006-01-02"`
	StartDate string          `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string          `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	MealType  models.MealType `form:"meal_type" binding:"omitempty,meal_type"`
}

// Create stores a meal record and its items atomically.
func (s *MealService) Create(ctx context.Context, userID uint, req CreateMealRequest) (*models.MealRecord, error) {
	date, err := parseDateField("record_date", req.RecordDate)
	if err != nil {
		return nil, err
	}
	if !req.MealType.Valid() {
		return nil, NewValidationError("meal_type must be one of breakfast, lunch, dinner, snack")
	}
	if len(req.Items) == 0 {
		return nil, NewValidationError("items must contain at least one food")
	}

	meal := &models.MealRecord{
		UserID:     userID,
		RecordDate: date,
		MealType:   req.MealType,
		Memo:       memoValue(req.Memo),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		items, err := snapshotItems(ctx, repository.NewFoodRepository(tx), userID, req.Items)
		if err != nil {
			return err
		}
		meal.Items = items
		if err := repository.NewMealRepository(tx).Create(ctx, meal); err != nil {
			return fmt.Errorf("failed to create meal record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, meal.ID)
}

// Get returns one of the user's meal records with full food info.
func (s *MealService) Get(ctx context.Context, userID, mealID uint) (*models.MealRecord, error) {
	meal, err := s.mealRepo.GetByID(ctx, mealID)
	if err != nil {
		return nil, mealError(err)
	}
	if meal.UserID != userID {
		return nil, ErrMealForbidden
	}
	return meal, nil
}

// List returns the user's meal records matching the filters.
func (s *MealService) List(ctx context.Context, userID uint, q ListMealsQuery) ([]models.MealRecord, error) {
	filter := repository.MealFilter{UserID: userID}
	if q.MealType != "" {
		if !q.MealType.Valid() {
			return nil, NewValidationError("meal_type must be one of breakfast, lunch, dinner, snack")
		}
		filter.MealType = q.MealType
	}

	switch {
	case q.Date != "":
		d, err := parseDateField("date", q.Date)
		if err != nil {
			return nil, err
		}
		from, to := nutrition.DayRange(d)
		filter.From, filter.To = &from, &to
	default:
		if q.StartDate != "" {
			d, err := parseDateField("start_date", q.StartDate)
			if err != nil {
				return nil, err
			}
			filter.From = &d
		}
		if q.EndDate != "" {
			d, err := parseDateField("end_date", q.EndDate)
			if err != nil {
				return nil, err
			}
			_, next := nutrition.DayRange(d)
			filter.To = &next
		}
	}

	meals, err := s.mealRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal records: %w", err)
	}
	if meals == nil {
		meals = []models.MealRecord{}
	}
	return meals, nil
}

// Update applies scalar changes and, if items are given, replaces the item
// set in the same transaction.
func (s *MealService) Update(ctx context.Context, userID, mealID uint, req UpdateMealRequest) (*models.MealRecord, error) {
	if req.MealType != nil && !req.MealType.Valid() {
		return nil, NewValidationError("meal_type must be one of breakfast, lunch, dinner, snack")
	}
	if req.Items != nil && len(req.Items) == 0 {
		return nil, NewValidationError("items must contain at least one food")
	}

	fields := map[string]interface{}{}
	if req.MealType != nil {
		fields["meal_type"] = *req.MealType
	}
	if req.Memo != nil {
		fields["memo"] = memoValue(req.Memo)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		meals := repository.NewMealRepository(tx)
		if err := s.authorize(ctx, meals, userID, mealID); err != nil {
			return err
		}
		if req.Items != nil {
			items, err := snapshotItems(ctx, repository.NewFoodRepository(tx), userID, req.Items)
			if err != nil {
				return err
			}
			if err := meals.ReplaceItems(ctx, mealID, items); err != nil {
				return fmt.Errorf("failed to replace meal items: %w", err)
			}
		}
		if err := meals.UpdateFields(ctx, mealID, fields); err != nil {
			return fmt.Errorf("failed to update meal record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, mealID)
}

// Delete removes one of the user's meal records and its items.
func (s *MealService) Delete(ctx context.Context, userID, mealID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		meals := repository.NewMealRepository(tx)
		if err := s.authorize(ctx, meals, userID, mealID); err != nil {
			return err
		}
		if err := meals.Delete(ctx, mealID); err != nil {
			return mealError(err)
		}
		return nil
	})
}

func (s *MealService) authorize(ctx context.Context, meals *repository.MealRepository, userID, mealID uint) error {
	owner, err := meals.GetOwner(ctx, mealID)
	if err != nil {
		return mealError(err)
	}
	if owner != userID {
		return ErrMealForbidden
	}
	return nil
}

func (s *MealService) reload(ctx context.Context, mealID uint) (*models.MealRecord, error) {
	meal, err := s.mealRepo.GetByID(ctx, mealID)
	if err != nil {
		return nil, mealError(err)
	}
	return meal, nil
}

// snapshotItems resolves every referenced food against the user's visible
// set and freezes scaled nutrients on each item. Any unresolved id fails
// the whole batch.
func snapshotItems(ctx context.Context, foods *repository.FoodRepository, userID uint, inputs []MealItemInput) ([]models.MealItem, error) {
	ids := uniqueFoodIDs(inputs)

	found, err := foods.FindVisibleByIDs(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve foods: %w", err)
	}
	byID := make(map[uint]*models.Food, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	var missing []uint
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingFoodsError{IDs: missing}
	}

	items := make([]models.MealItem, len(inputs))
	for i, in := range inputs {
		if in.Quantity < 0.1 || in.Quantity > maxQuantity {
			return nil, NewValidationError("quantity must be between 0.1 and %v", maxQuantity)
		}
		items[i] = models.NewMealItem(byID[in.FoodID], in.Quantity)
		if !items[i].Nutrients.Finite() {
			return nil, NewValidationError("nutrient values for food ID %d are out of range", in.FoodID)
		}
	}
	return items, nil
}

func uniqueFoodIDs(inputs []MealItemInput) []uint {
	seen := make(map[uint]struct{}, len(inputs))
	ids := make([]uint, 0, len(inputs))
	for _, in := range inputs {
		if _, ok := seen[in.FoodID]; ok {
			continue
		}
		seen[in.FoodID] = struct{}{}
		ids = append(ids, in.FoodID)
	}
	return ids
}

func parseDateField(field, value string) (time.Time, error) {
	d, err := nutrition.ParseDate(value)
	if err != nil {
		return time.Time{}, NewValidationError("%s must be a valid date in YYYY-MM-DD format", field)
	}
	return d, nil
}

func memoValue(memo *string) string {
	if memo == nil {
		return ""
	}
	return strings.TrimSpace(*memo)
}

func mealError(err error) error {
	if errors.Is(err, repository.ErrMealNotFound) {
		return ErrMealNotFound
	}
	return fmt.Errorf("meal record: %w", err)
}
