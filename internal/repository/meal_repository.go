package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/example/macro-tracker/internal/models"
	"gorm.io/gorm"
)

var (
	ErrMealNotFound = errors.New("meal record not found")
)

// MealFilter narrows a user's meal list. From and To bound record_date as
// [From, To); nil means unbounded.
type MealFilter struct {
	UserID   uint
	From     *time.Time
	To       *time.Time
	MealType models.MealType
}

// MealRepository handles meal record persistence.
type MealRepository struct {
	db *gorm.DB
}

// NewMealRepository creates a new MealRepository.
func NewMealRepository(db *gorm.DB) *MealRepository {
	return &MealRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("meal_items.id ASC")
		}).
		Preload("Items.Food")
}

// Create inserts the record together with its items.
func (r *MealRepository) Create(ctx context.Context, meal *models.MealRecord) error {
	return r.db.WithContext(ctx).Create(meal).Error
}

// GetByID loads a meal record with its items and their foods.
func (r *MealRepository) GetByID(ctx context.Context, id uint) (*models.MealRecord, error) {
	var meal models.MealRecord
	err := r.db.WithContext(ctx).Scopes(preloadItems).First(&meal, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMealNotFound
	}
	return &meal, err
}

// GetOwner returns the owning user of a meal record without loading items.
func (r *MealRepository) GetOwner(ctx context.Context, id uint) (uint, error) {
	var meal models.MealRecord
	err := r.db.WithContext(ctx).Select("id", "user_id").First(&meal, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrMealNotFound
	}
	return meal.UserID, err
}

// List returns the user's meal records ordered by date (newest first), then
// breakfast/lunch/dinner/snack, then id.
func (r *MealRepository) List(ctx context.Context, f MealFilter) ([]models.MealRecord, error) {
	q := r.db.WithContext(ctx).Scopes(preloadItems).Where("user_id = ?", f.UserID)
	if f.From != nil {
		q = q.Where("record_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("record_date < ?", *f.To)
	}
	if f.MealType != "" {
		q = q.Where("meal_type = ?", f.MealType)
	}

	var meals []models.MealRecord
	if err := q.Order("record_date DESC").Order("id ASC").Find(&meals).Error; err != nil {
		return nil, err
	}

	sort.SliceStable(meals, func(i, j int) bool {
		if !meals[i].RecordDate.Equal(meals[j].RecordDate) {
			return meals[i].RecordDate.After(meals[j].RecordDate)
		}
		return meals[i].MealType.Order() < meals[j].MealType.Order()
	})
	return meals, nil
}

// ListItemsInRange loads records in [from, to) with their items only.
func (r *MealRepository) ListItemsInRange(ctx context.Context, userID uint, from, to time.Time) ([]models.MealRecord, error) {
	var meals []models.MealRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ? AND record_date >= ? AND record_date < ?", userID, from, to).
		Order("record_date ASC").
		Order("id ASC").
		Find(&meals).Error
	return meals, err
}

// UpdateFields applies scalar changes to a meal record.
func (r *MealRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.MealRecord{ID: id}).Updates(fields).Error
}

// ReplaceItems drops every existing item of the record and inserts items.
// Callers run it inside a transaction.
func (r *MealRepository) ReplaceItems(ctx context.Context, mealID uint, items []models.MealItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("meal_record_id = ?", mealID).Delete(&models.MealItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].ID = 0
		items[i].MealRecordID = mealID
	}
	if len(items) == 0 {
		return nil
	}
	if err := db.Create(&items).Error; err != nil {
		return err
	}
	// Bump updated_at on the parent even when no scalar field changed.
	return db.Model(&models.MealRecord{ID: mealID}).Update("updated_at", time.Now()).Error
}

// Delete removes a meal record; items go with it.
func (r *MealRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("meal_record_id = ?", id).Delete(&models.MealItem{}).Error; err != nil {
		return err
	}
	res := db.Delete(&models.MealRecord{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMealNotFound
	}
	return nil
}
