package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/macro-tracker/internal/models"
	"github.com/example/macro-tracker/internal/nutrition"
	"github.com/example/macro-tracker/internal/repository"
)

// SummaryService aggregates stored meal item snapshots against targets.
type SummaryService struct {
	userRepo *repository.UserRepository
	mealRepo *repository.MealRepository
}

// NewSummaryService creates a new SummaryService.
func NewSummaryService(userRepo *repository.UserRepository, mealRepo *repository.MealRepository) *SummaryService {
	return &SummaryService{userRepo: userRepo, mealRepo: mealRepo}
}

// DailyQuery selects the day to summarize.
type DailyQuery struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

// MonthlyQuery selects the month to summarize.
type MonthlyQuery struct {
	Year  int `form:"year" binding:"required,min=1000,max=9999"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

// MealTypeTotals holds one total per meal type.
type MealTypeTotals struct {
	Breakfast nutrition.Nutrients `json:"breakfast"`
	Lunch     nutrition.Nutrients `json:"lunch"`
	Dinner    nutrition.Nutrients `json:"dinner"`
	Snack     nutrition.Nutrients `json:"snack"`
}

func (t *MealTypeTotals) bucket(mt models.MealType) *nutrition.Nutrients {
	switch mt {
	case models.MealTypeBreakfast:
		return &t.Breakfast
	case models.MealTypeLunch:
		return &t.Lunch
	case models.MealTypeDinner:
		return &t.Dinner
	case models.MealTypeSnack:
		return &t.Snack
	}
	return nil
}

// DailySummary is one day's intake against the user's targets.
type DailySummary struct {
	Date        string              `json:"date"`
	Totals      nutrition.Nutrients `json:"totals"`
	Targets     nutrition.Nutrients `json:"targets"`
	Achievement nutrition.Nutrients `json:"achievement"`
	ByMealType  MealTypeTotals      `json:"by_meal_type"`
}

// DayEntry is one calendar day of a monthly summary.
type DayEntry struct {
	Date string `json:"date"`
	nutrition.Nutrients
	HasRecords bool `json:"has_records"`
}

// MonthlySummary lists every day of a month plus the average over logged days.
type MonthlySummary struct {
	Year           int                 `json:"year"`
	Month          int                 `json:"month"`
	Targets        nutrition.Nutrients `json:"targets"`
	DailySummaries []DayEntry          `json:"daily_summaries"`
	MonthlyAverage nutrition.Nutrients `json:"monthly_average"`
}

// BuildDaily sums the day's records per meal type, then sums the four
// bucket totals into the day total.
func BuildDaily(date time.Time, meals []models.MealRecord, targets nutrition.Nutrients) DailySummary {
	items := make(map[models.MealType][]nutrition.Nutrients, len(models.MealTypes))
	for _, m := range meals {
		for _, item := range m.Items {
			items[m.MealType] = append(items[m.MealType], item.Nutrients)
		}
	}

	var byType MealTypeTotals
	buckets := make([]nutrition.Nutrients, 0, len(models.MealTypes))
	for _, mt := range models.MealTypes {
		b := byType.bucket(mt)
		*b = nutrition.Sum(items[mt]...)
		buckets = append(buckets, *b)
	}

	totals := nutrition.Sum(buckets...)
	return DailySummary{
		Date:        nutrition.FormatDate(date),
		Totals:      totals,
		Targets:     targets,
		Achievement: nutrition.Achievement(totals, targets),
		ByMealType:  byType,
	}
}

// BuildMonthly buckets record totals by UTC calendar day and averages over
// the days that have at least one record.
func BuildMonthly(year int, month time.Month, meals []models.MealRecord, targets nutrition.Nutrients) MonthlySummary {
	byDay := make(map[string][]nutrition.Nutrients)
	for i := range meals {
		key := nutrition.FormatDate(meals[i].RecordDate)
		byDay[key] = append(byDay[key], meals[i].Totals())
	}

	days := nutrition.DaysInMonth(year, month)
	start, _ := nutrition.MonthRange(year, month)

	entries := make([]DayEntry, 0, days)
	var sum nutrition.Nutrients
	logged := 0
	for d := 0; d < days; d++ {
		key := nutrition.FormatDate(start.AddDate(0, 0, d))
		records, ok := byDay[key]
		entry := DayEntry{Date: key, HasRecords: ok}
		if ok {
			entry.Nutrients = nutrition.Sum(records...)
			sum = sum.Add(entry.Nutrients)
			logged++
		}
		entries = append(entries, entry)
	}

	return MonthlySummary{
		Year:           year,
		Month:          int(month),
		Targets:        targets,
		DailySummaries: entries,
		MonthlyAverage: nutrition.Average(sum, logged),
	}
}

// Daily loads and summarizes one day for the user.
func (s *SummaryService) Daily(ctx context.Context, userID uint, q DailyQuery) (*DailySummary, error) {
	date, err := parseDateField("date", q.Date)
	if err != nil {
		return nil, err
	}
	targets, err := s.targets(ctx, userID)
	if err != nil {
		return nil, err
	}

	from, to := nutrition.DayRange(date)
	meals, err := s.mealRepo.ListItemsInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load meal records: %w", err)
	}

	summary := BuildDaily(date, meals, targets)
	return &summary, nil
}

// Monthly loads and summarizes one calendar month for the user.
func (s *SummaryService) Monthly(ctx context.Context, userID uint, q MonthlyQuery) (*MonthlySummary, error) {
	if q.Year < 1000 || q.Year > 9999 {
		return nil, NewValidationError("year must be a 4-digit number")
	}
	if q.Month < 1 || q.Month > 12 {
		return nil, NewValidationError("month must be between 1 and 12")
	}
	targets, err := s.targets(ctx, userID)
	if err != nil {
		return nil, err
	}

	month := time.Month(q.Month)
	from, to := nutrition.MonthRange(q.Year, month)
	meals, err := s.mealRepo.ListItemsInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load meal records: %w", err)
	}

	summary := BuildMonthly(q.Year, month, meals, targets)
	return &summary, nil
}

func (s *SummaryService) targets(ctx context.Context, userID uint) (nutrition.Nutrients, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nutrition.Nutrients{}, ErrUserNotFound
		}
		return nutrition.Nutrients{}, fmt.Errorf("failed to load user: %w", err)
	}
	return user.Targets(), nil
}
