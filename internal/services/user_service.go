package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/macro-tracker/internal/models"
	"github.com/example/macro-tracker/internal/repository"
)

// UserService manages profiles and daily targets.
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateProfileRequest is a partial profile update.
type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Email *string `json:"email" binding:"omitempty,email,max=255"`
}

// UpdateTargetsRequest is a partial target update.
type UpdateTargetsRequest struct {
	DailyCalorieTarget *int `json:"daily_calorie_target" binding:"omitempty,min=500,max=10000"`
	DailyProteinTarget *int `json:"daily_protein_target" binding:"omitempty,min=1,max=500"`
	DailyFatTarget     *int `json:"daily_fat_target" binding:"omitempty,min=1,max=500"`
	DailyCarbTarget    *int `json:"daily_carb_target" binding:"omitempty,min=1,max=1000"`
}

// Targets is the targets view of a user.
type Targets struct {
	DailyCalorieTarget int       `json:"daily_calorie_target"`
	DailyProteinTarget int       `json:"daily_protein_target"`
	DailyFatTarget     int       `json:"daily_fat_target"`
	DailyCarbTarget    int       `json:"daily_carb_target"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TargetsOf returns the user's targets with defaults filled in.
func TargetsOf(u *models.User) Targets {
	t := *u
	t.ApplyDefaultTargets()
	return Targets{
		DailyCalorieTarget: t.DailyCalorieTarget,
		DailyProteinTarget: t.DailyProteinTarget,
		DailyFatTarget:     t.DailyFatTarget,
		DailyCarbTarget:    t.DailyCarbTarget,
		UpdatedAt:          t.UpdatedAt,
	}
}

// GetProfile returns the user with defaults applied to unset targets.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	user.ApplyDefaultTargets()
	return user, nil
}

// UpdateProfile changes name and/or e-mail.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*models.User, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, NewValidationError("name is required")
		}
		fields["name"] = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		taken, err := s.userRepo.EmailTaken(ctx, email, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, ErrEmailExists
		}
		fields["email"] = email
	}
	return s.update(ctx, userID, fields)
}

// GetTargets returns the user's daily targets.
func (s *UserService) GetTargets(ctx context.Context, userID uint) (Targets, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return Targets{}, err
	}
	return TargetsOf(user), nil
}

// UpdateTargets changes any subset of the four daily targets.
func (s *UserService) UpdateTargets(ctx context.Context, userID uint, req UpdateTargetsRequest) (Targets, error) {
	fields := map[string]interface{}{}
	if req.DailyCalorieTarget != nil {
		fields["daily_calorie_target"] = *req.DailyCalorieTarget
	}
	if req.DailyProteinTarget != nil {
		fields["daily_protein_target"] = *req.DailyProteinTarget
	}
	if req.DailyFatTarget != nil {
		fields["daily_fat_target"] = *req.DailyFatTarget
	}
	if req.DailyCarbTarget != nil {
		fields["daily_carb_target"] = *req.DailyCarbTarget
	}

	user, err := s.update(ctx, userID, fields)
	if err != nil {
		return Targets{}, err
	}
	return TargetsOf(user), nil
}

func (s *UserService) update(ctx context.Context, userID uint, fields map[string]interface{}) (*models.User, error) {
	user, err := s.userRepo.UpdateFields(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	user.ApplyDefaultTargets()
	return user, nil
}
