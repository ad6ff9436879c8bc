package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/example/macro-tracker/internal/models"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the custom tags and json field naming on
// gin's validator. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("serving_unit", func(fl validator.FieldLevel) bool {
			return models.ServingUnit(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("meal_type", func(fl validator.FieldLevel) bool {
			return models.MealType(fl.Field().String()).Valid()
		})
	})
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// bindingMessage turns a bind error into one human-readable sentence.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldMessage(verrs[0])
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field != "" {
			return fmt.Sprintf("%s has an invalid type", typeErr.Field)
		}
		return "request body has an invalid type"
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return "request body must be valid JSON"
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return fmt.Sprintf("%q is not a valid number", numErr.Num)
	}

	return "invalid request"
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		if field == "items" {
			return "items must contain at least one food"
		}
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "eqfield":
		if field == "confirm_password" {
			return "passwords do not match"
		}
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a valid date in YYYY-MM-DD format", field)
	case "serving_unit":
		return fmt.Sprintf("%s must be one of %s", field, joinUnits())
	case "meal_type":
		return fmt.Sprintf("%s must be one of breakfast, lunch, dinner, snack", field)
	case "min", "max":
		return boundMessage(fe)
	}
	return fmt.Sprintf("%s is invalid", field)
}

func boundMessage(fe validator.FieldError) string {
	field := fe.Field()
	word := "at least"
	if fe.Tag() == "max" {
		word = "at most"
	}

	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("%s must be %s %s characters", field, word, fe.Param())
	case reflect.Slice:
		if field == "items" {
			return "items must contain at least one food"
		}
		return fmt.Sprintf("%s must contain %s %s entries", field, word, fe.Param())
	}
	return fmt.Sprintf("%s must be %s %s", field, word, fe.Param())
}

func joinUnits() string {
	units := make([]string, len(models.ServingUnits))
	for i, u := range models.ServingUnits {
		units[i] = string(u)
	}
	return strings.Join(units, ", ")
}
