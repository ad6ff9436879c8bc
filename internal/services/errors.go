package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidToken         = errors.New("invalid token")
	ErrWrongPassword        = errors.New("current password is incorrect")
	ErrEmailExists          = errors.New("email already in use")
	ErrUserNotFound         = errors.New("user not found")
	ErrFoodNotFound         = errors.New("food not found")
	ErrFoodForbidden        = errors.New("no permission for this food")
	ErrDefaultFoodImmutable = errors.New("default foods cannot be modified")
	ErrFoodInUse            = errors.New("food is used by meal records and cannot be deleted")
	ErrMealNotFound         = errors.New("meal record not found")
	ErrMealForbidden        = errors.New("no permission for this meal record")
)

// ValidationError reports input rejected by a business rule.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError formats a ValidationError.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// MissingFoodsError lists food ids that did not resolve to a visible food.
type MissingFoodsError struct {
	IDs []uint
}

func (e *MissingFoodsError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = fmt.Sprint(id)
	}
	return "foods not found: ID " + strings.Join(ids, ", ")
}

// As lets errors.As treat a MissingFoodsError as a ValidationError.
func (e *MissingFoodsError) As(target interface{}) bool {
	if v, ok := target.(**ValidationError); ok {
		*v = &ValidationError{Message: e.Error()}
		return true
	}
	return false
}
