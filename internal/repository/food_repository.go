package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/example/macro-tracker/internal/models"
	"gorm.io/gorm"
)

var (
	ErrFoodNotFound = errors.New("food not found")
)

// FoodFilter selects a page of foods visible to one user.
type FoodFilter struct {
	UserID uint
	Query  string
	Page   int
	Limit  int
}

func (f FoodFilter) offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// FoodRepository handles food data persistence.
type FoodRepository struct {
	db *gorm.DB
}

// NewFoodRepository creates a new FoodRepository.
func NewFoodRepository(db *gorm.DB) *FoodRepository {
	return &FoodRepository{db: db}
}

// Create adds a new food item.
func (r *FoodRepository) Create(ctx context.Context, food *models.Food) error {
	return r.db.WithContext(ctx).Create(food).Error
}

// GetByID retrieves a food item by ID regardless of owner.
func (r *FoodRepository) GetByID(ctx context.Context, id uint) (*models.Food, error) {
	var food models.Food
	err := r.db.WithContext(ctx).First(&food, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFoodNotFound
	}
	return &food, err
}

// visibleTo scopes a query to the user's own foods plus shared ones.
func visibleTo(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(foods.user_id = ? OR foods.user_id IS NULL)", userID)
	}
}

// ListVisible returns one page of visible foods, most recently updated
// first, with the total match count.
func (r *FoodRepository) ListVisible(ctx context.Context, f FoodFilter) ([]models.Food, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Food{}).Scopes(visibleTo(f.UserID))
		if s := strings.TrimSpace(f.Query); s != "" {
			q = q.Where("LOWER(foods.name) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(s))+"%")
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var foods []models.Food
	err := base().
		Order("foods.updated_at DESC").
		Order("foods.id DESC").
		Offset(f.offset()).
		Limit(f.Limit).
		Find(&foods).Error
	return foods, total, err
}

// FindVisibleByIDs returns the subset of ids that resolve to foods visible
// to the user. Missing ids are simply absent from the result.
func (r *FoodRepository) FindVisibleByIDs(ctx context.Context, userID uint, ids []uint) ([]models.Food, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var foods []models.Food
	err := r.db.WithContext(ctx).
		Scopes(visibleTo(userID)).
		Where("foods.id IN ?", ids).
		Find(&foods).Error
	return foods, err
}

// UpdateFields applies a partial update and reloads the food.
func (r *FoodRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (*models.Food, error) {
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(&models.Food{ID: id}).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a food item.
func (r *FoodRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Food{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFoodNotFound
	}
	return nil
}

// CountReferences counts meal items pointing at the food.
func (r *FoodRepository) CountReferences(ctx context.Context, foodID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MealItem{}).Where("food_id = ?", foodID).Count(&count).Error
	return count, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
